package bolt

import (
	"context"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
	"go.uber.org/zap"

	"questionapi/internal/repository"
)

// DocumentStore implements repository.DocumentStore on an embedded bbolt file.
// Each collection is a bucket; values are JSON records.
type DocumentStore struct {
	db     *bbolt.DB
	logger *zap.Logger
	now    func() time.Time
	noSync bool
}

// Option configures a DocumentStore.
type Option func(*DocumentStore)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *DocumentStore) {
		s.logger = logger
	}
}

// WithNow sets the clock used for server timestamps.
func WithNow(now func() time.Time) Option {
	return func(s *DocumentStore) {
		s.now = now
	}
}

// WithNoSync disables fsync per transaction. Tests only.
func WithNoSync(noSync bool) Option {
	return func(s *DocumentStore) {
		s.noSync = noSync
	}
}

// Open opens (or creates) the database file at path.
func Open(path string, opts ...Option) (*DocumentStore, error) {
	s := &DocumentStore{
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{
		Timeout: 1 * time.Second,
		NoSync:  s.noSync,
	})
	if err != nil {
		return nil, fmt.Errorf("open bolt database: %w", err)
	}
	s.db = db
	s.logger.Debug("opened bolt document store", zap.String("path", path), zap.Bool("no_sync", s.noSync))
	return s, nil
}

var _ repository.DocumentStore = (*DocumentStore)(nil)

// Close closes the database file.
func (s *DocumentStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *DocumentStore) Create(ctx context.Context, collection, id string, rec repository.Record) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(collection))
		if err != nil {
			return fmt.Errorf("create bucket %s: %w", collection, err)
		}
		if b.Get([]byte(id)) != nil {
			return repository.ErrAlreadyExists
		}
		if _, ok := rec[repository.CreatedAtKey]; !ok {
			rec = repository.CarryCreatedAt(rec, repository.Record{repository.CreatedAtKey: repository.ServerTimestamp})
		}
		val, err := repository.Encode(rec, s.now())
		if err != nil {
			return err
		}
		return b.Put([]byte(id), val)
	})
}

func (s *DocumentStore) Replace(ctx context.Context, collection, id string, rec repository.Record) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(collection))
		if b == nil {
			return repository.ErrNotFound
		}
		old := b.Get([]byte(id))
		if old == nil {
			return repository.ErrNotFound
		}
		prev, err := repository.Decode(old)
		if err != nil {
			return err
		}
		val, err := repository.Encode(repository.CarryCreatedAt(rec, prev), s.now())
		if err != nil {
			return err
		}
		return b.Put([]byte(id), val)
	})
}

func (s *DocumentStore) Get(ctx context.Context, collection, id string) (repository.Record, error) {
	var rec repository.Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(collection))
		if b == nil {
			return repository.ErrNotFound
		}
		val := b.Get([]byte(id))
		if val == nil {
			return repository.ErrNotFound
		}
		var err error
		rec, err = repository.Decode(val)
		return err
	})
	return rec, err
}

func (s *DocumentStore) Query(ctx context.Context, collection string, opts repository.QueryOptions) ([]repository.Document, error) {
	docs := make([]repository.Document, 0)
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(collection))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			rec, err := repository.Decode(v)
			if err != nil {
				return fmt.Errorf("record %s: %w", k, err)
			}
			if repository.Matches(rec, opts.Where) {
				docs = append(docs, repository.Document{ID: string(k), Record: rec})
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	repository.Sort(docs, opts.OrderBy, opts.Descending)
	return docs, nil
}

func (s *DocumentStore) Delete(ctx context.Context, collection, id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(collection))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(id))
	})
}
