package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/cookup/gateway/internal/types"
)

// MockResolver is a mock implementation of the meal resolver
type MockResolver struct {
	mock.Mock
}

// ResolveSearch mocks the ResolveSearch method
func (m *MockResolver) ResolveSearch(ctx context.Context, query string) (*types.ResolutionResult, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ResolutionResult), args.Error(1)
}

// ResolveDetail mocks the ResolveDetail method
func (m *MockResolver) ResolveDetail(ctx context.Context, id string) (*types.MealDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.MealDetail), args.Error(1)
}
