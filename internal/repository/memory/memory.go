package memory

import (
	"context"
	"sync"
	"time"

	"questionapi/internal/repository"
)

// DocumentStore is an in-memory implementation of repository.DocumentStore.
// Records are kept encoded so callers never share mutable state with the store.
type DocumentStore struct {
	mu          sync.RWMutex
	collections map[string]map[string][]byte
	now         func() time.Time
}

// NewDocumentStore creates an empty in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		collections: make(map[string]map[string][]byte),
		now:         time.Now,
	}
}

var _ repository.DocumentStore = (*DocumentStore)(nil)

// SetClock replaces the clock used to resolve server timestamps.
func (s *DocumentStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *DocumentStore) Create(ctx context.Context, collection, id string, rec repository.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collection(collection)
	if _, exists := c[id]; exists {
		return repository.ErrAlreadyExists
	}
	if _, ok := rec[repository.CreatedAtKey]; !ok {
		rec = repository.CarryCreatedAt(rec, repository.Record{repository.CreatedAtKey: repository.ServerTimestamp})
	}
	b, err := repository.Encode(rec, s.now())
	if err != nil {
		return err
	}
	c[id] = b
	return nil
}

func (s *DocumentStore) Replace(ctx context.Context, collection, id string, rec repository.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collection(collection)
	old, exists := c[id]
	if !exists {
		return repository.ErrNotFound
	}
	prev, err := repository.Decode(old)
	if err != nil {
		return err
	}
	b, err := repository.Encode(repository.CarryCreatedAt(rec, prev), s.now())
	if err != nil {
		return err
	}
	c[id] = b
	return nil
}

func (s *DocumentStore) Get(ctx context.Context, collection, id string) (repository.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, exists := s.collections[collection][id]
	if !exists {
		return nil, repository.ErrNotFound
	}
	return repository.Decode(b)
}

func (s *DocumentStore) Query(ctx context.Context, collection string, opts repository.QueryOptions) ([]repository.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]repository.Document, 0, len(s.collections[collection]))
	for id, b := range s.collections[collection] {
		rec, err := repository.Decode(b)
		if err != nil {
			return nil, err
		}
		if !repository.Matches(rec, opts.Where) {
			continue
		}
		docs = append(docs, repository.Document{ID: id, Record: rec})
	}
	repository.Sort(docs, opts.OrderBy, opts.Descending)
	return docs, nil
}

func (s *DocumentStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.collections[collection], id)
	return nil
}

func (s *DocumentStore) collection(name string) map[string][]byte {
	c, ok := s.collections[name]
	if !ok {
		c = make(map[string][]byte)
		s.collections[name] = c
	}
	return c
}
