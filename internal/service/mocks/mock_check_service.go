package mocks

import (
	"context"

	"breachguard/internal/breach"
	"breachguard/internal/model"
	"breachguard/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockCheckService struct {
	mock.Mock
}

func (m *MockCheckService) Check(ctx context.Context, email string) (*model.Check, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Check), args.Error(1)
}

func (m *MockCheckService) List(ctx context.Context, limit, offset int) (*service.CheckListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CheckListResult), args.Error(1)
}

type MockBreachLookup struct {
	mock.Mock
}

func (m *MockBreachLookup) BreachedAccount(ctx context.Context, account string) ([]breach.Raw, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]breach.Raw), args.Error(1)
}
