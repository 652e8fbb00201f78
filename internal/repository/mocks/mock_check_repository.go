package mocks

import (
	"context"

	"breachguard/internal/model"
	"breachguard/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockCheckRepository struct {
	mock.Mock
}

func (m *MockCheckRepository) Create(ctx context.Context, c *model.Check) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCheckRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Check], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Check]), args.Error(1)
}

type MockCheckRecorder struct {
	mock.Mock
}

func (m *MockCheckRecorder) Create(ctx context.Context, c *model.Check) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
