package mocks

import (
	"context"

	"questionapi/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockDocumentStore struct {
	mock.Mock
}

func (m *MockDocumentStore) Create(ctx context.Context, collection, id string, rec repository.Record) error {
	args := m.Called(ctx, collection, id, rec)
	return args.Error(0)
}

func (m *MockDocumentStore) Replace(ctx context.Context, collection, id string, rec repository.Record) error {
	args := m.Called(ctx, collection, id, rec)
	return args.Error(0)
}

func (m *MockDocumentStore) Get(ctx context.Context, collection, id string) (repository.Record, error) {
	args := m.Called(ctx, collection, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.Record), args.Error(1)
}

func (m *MockDocumentStore) Query(ctx context.Context, collection string, opts repository.QueryOptions) ([]repository.Document, error) {
	args := m.Called(ctx, collection, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.Document), args.Error(1)
}

func (m *MockDocumentStore) Delete(ctx context.Context, collection, id string) error {
	args := m.Called(ctx, collection, id)
	return args.Error(0)
}
