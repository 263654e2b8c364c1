package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/cookup/gateway/internal/types"
)

// MockMealSource is a mock implementation of a meal data source
type MockMealSource struct {
	mock.Mock
}

// Search mocks the Search method
func (m *MockMealSource) Search(ctx context.Context, query string) ([]types.MealSummary, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.MealSummary), args.Error(1)
}

// Lookup mocks the Lookup method
func (m *MockMealSource) Lookup(ctx context.Context, id string) (*types.MealDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.MealDetail), args.Error(1)
}
