package repository

import (
	"context"
	"errors"
)

// Package repository contains the document store abstraction.
// Implementations live in subpackages (postgres, bolt, memory) and hold no business logic.

var (
	ErrNotFound      = errors.New("document not found")
	ErrAlreadyExists = errors.New("document already exists")
)

const (
	// CreatedAtKey and UpdatedAtKey are the record keys holding store-assigned timestamps.
	CreatedAtKey = "createdAt"
	UpdatedAtKey = "updatedAt"
)

// Record is a persisted document: string keys mapping to scalars, nested maps or ordered slices.
type Record map[string]any

type serverTimestamp struct{}

// ServerTimestamp is a sentinel record value asking the store to assign its own current time.
var ServerTimestamp any = serverTimestamp{}

// IsServerTimestamp reports whether v is the ServerTimestamp sentinel.
func IsServerTimestamp(v any) bool {
	_, ok := v.(serverTimestamp)
	return ok
}

// Document pairs a record with its id.
type Document struct {
	ID     string
	Record Record
}

// QueryOptions narrows and orders a collection scan.
// OrderBy names a top-level record key; empty means store order (by id).
// Where keeps documents whose top-level values equal the given ones.
type QueryOptions struct {
	OrderBy    string
	Descending bool
	Where      map[string]any
}

// DocumentStore persists whole records addressed by collection and id.
// Every write replaces the full record atomically.
type DocumentStore interface {
	// Create stores a new record. It returns ErrAlreadyExists if the id is taken.
	Create(ctx context.Context, collection, id string, rec Record) error

	// Replace overwrites an existing record. It returns ErrNotFound if the id is unknown.
	// A record without a createdAt key keeps the stored one.
	Replace(ctx context.Context, collection, id string, rec Record) error

	// Get returns the record stored under id, or ErrNotFound.
	Get(ctx context.Context, collection, id string) (Record, error)

	// Query returns all matching documents of a collection.
	Query(ctx context.Context, collection string, opts QueryOptions) ([]Document, error)

	// Delete removes a record. It returns nil if the record did not exist.
	Delete(ctx context.Context, collection, id string) error
}
