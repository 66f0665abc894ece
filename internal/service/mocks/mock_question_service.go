package mocks

import (
	"context"

	"questionapi/internal/model"
	"questionapi/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockQuestionService struct {
	mock.Mock
}

func (m *MockQuestionService) Save(ctx context.Context, q *model.Question) (string, error) {
	args := m.Called(ctx, q)
	return args.String(0), args.Error(1)
}

func (m *MockQuestionService) Get(ctx context.Context, id string) (*model.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Question), args.Error(1)
}

func (m *MockQuestionService) List(ctx context.Context, opts service.ListOptions) ([]*model.Question, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Question), args.Error(1)
}

func (m *MockQuestionService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuestionService) RemoveAttachment(ctx context.Context, id string, ref model.NodeRef) error {
	args := m.Called(ctx, id, ref)
	return args.Error(0)
}
