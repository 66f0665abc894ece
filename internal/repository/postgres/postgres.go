package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"questionapi/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentStore.
// Each collection is a table (id, body JSONB, created_at, updated_at); timestamps live in columns,
// everything else in body. Server timestamps are assigned with now().
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres store.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentStore = (*DocumentPostgres)(nil)

// Create inserts a new document row. It returns repository.ErrAlreadyExists when the id is taken.
func (r *DocumentPostgres) Create(ctx context.Context, collection, id string, rec repository.Record) error {
	a := &args{}
	a.add(id)
	body, err := encodeBody(rec)
	if err != nil {
		return err
	}
	a.add(body)
	createdAt, err := timestampExpr(rec, repository.CreatedAtKey, a, "now()")
	if err != nil {
		return err
	}
	updatedAt, err := timestampExpr(rec, repository.UpdatedAtKey, a, "now()")
	if err != nil {
		return err
	}

	q := fmt.Sprintf(`INSERT INTO %s (id, body, created_at, updated_at) VALUES ($1, $2, %s, %s) ON CONFLICT (id) DO NOTHING`,
		table(collection), createdAt, updatedAt)
	res, err := r.db.ExecContext(ctx, q, a.values...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrAlreadyExists
	}
	return nil
}

// Replace overwrites body and timestamps of an existing row.
// Without a createdAt value the stored created_at is kept.
func (r *DocumentPostgres) Replace(ctx context.Context, collection, id string, rec repository.Record) error {
	a := &args{}
	a.add(id)
	body, err := encodeBody(rec)
	if err != nil {
		return err
	}
	a.add(body)
	createdAt, err := timestampExpr(rec, repository.CreatedAtKey, a, "created_at")
	if err != nil {
		return err
	}
	updatedAt, err := timestampExpr(rec, repository.UpdatedAtKey, a, "now()")
	if err != nil {
		return err
	}

	q := fmt.Sprintf(`UPDATE %s SET body = $2, created_at = %s, updated_at = %s WHERE id = $1`,
		table(collection), createdAt, updatedAt)
	res, err := r.db.ExecContext(ctx, q, a.values...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Get fetches a single record by id.
func (r *DocumentPostgres) Get(ctx context.Context, collection, id string) (repository.Record, error) {
	q := fmt.Sprintf(`SELECT body, created_at, updated_at FROM %s WHERE id = $1`, table(collection))

	var (
		body               []byte
		createdAt, updated time.Time
	)
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&body, &createdAt, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return decodeBody(body, createdAt, updated)
}

// Query returns every row matching opts.Where (JSONB containment), ordered by opts.OrderBy.
func (r *DocumentPostgres) Query(ctx context.Context, collection string, opts repository.QueryOptions) ([]repository.Document, error) {
	a := &args{}
	var sb strings.Builder
	fmt.Fprintf(&sb, `SELECT id, body, created_at, updated_at FROM %s`, table(collection))

	if len(opts.Where) > 0 {
		filter, err := json.Marshal(opts.Where)
		if err != nil {
			return nil, fmt.Errorf("encode filter: %w", err)
		}
		fmt.Fprintf(&sb, ` WHERE body @> %s::jsonb`, a.add(filter))
	}

	dir := "ASC"
	if opts.Descending {
		dir = "DESC"
	}
	fmt.Fprintf(&sb, ` ORDER BY %s %s, id %s`, orderExpr(opts.OrderBy, a), dir, dir)

	rows, err := r.db.QueryContext(ctx, sb.String(), a.values...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make([]repository.Document, 0)
	for rows.Next() {
		var (
			id                 string
			body               []byte
			createdAt, updated time.Time
		)
		if err := rows.Scan(&id, &body, &createdAt, &updated); err != nil {
			return nil, err
		}
		rec, err := decodeBody(body, createdAt, updated)
		if err != nil {
			return nil, err
		}
		docs = append(docs, repository.Document{ID: id, Record: rec})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// Delete removes a row by id. Missing rows are not an error.
func (r *DocumentPostgres) Delete(ctx context.Context, collection, id string) error {
	q := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table(collection))
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

type args struct {
	values []any
}

func (a *args) add(v any) string {
	a.values = append(a.values, v)
	return "$" + strconv.Itoa(len(a.values))
}

func table(collection string) string {
	return pgx.Identifier{collection}.Sanitize()
}

func orderExpr(key string, a *args) string {
	switch key {
	case "":
		return "id"
	case repository.CreatedAtKey:
		return "created_at"
	case repository.UpdatedAtKey:
		return "updated_at"
	default:
		return "body -> " + a.add(key)
	}
}

// timestampExpr renders the SQL expression for a timestamp column: now() for the sentinel,
// a bind parameter for an explicit time, absent when the record has no value.
func timestampExpr(rec repository.Record, key string, a *args, absent string) (string, error) {
	v, ok := rec[key]
	if !ok || v == nil {
		return absent, nil
	}
	if repository.IsServerTimestamp(v) {
		return "now()", nil
	}
	t, ok := v.(time.Time)
	if !ok {
		return "", fmt.Errorf("%s: expected time.Time, got %T", key, v)
	}
	return a.add(t.UTC()), nil
}

func encodeBody(rec repository.Record) ([]byte, error) {
	body := make(repository.Record, len(rec))
	for k, v := range rec {
		if k == repository.CreatedAtKey || k == repository.UpdatedAtKey {
			continue
		}
		body[k] = v
	}
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	return b, nil
}

func decodeBody(body []byte, createdAt, updatedAt time.Time) (repository.Record, error) {
	rec := repository.Record{}
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	rec[repository.CreatedAtKey] = createdAt.UTC()
	rec[repository.UpdatedAtKey] = updatedAt.UTC()
	return rec, nil
}
