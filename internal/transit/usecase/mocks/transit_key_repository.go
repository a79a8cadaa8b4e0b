// Package mocks provides mock implementations of the transit usecase package's
// repository interfaces for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	transitDomain "github.com/allisson/vaultd/internal/transit/domain"
)

// MockTransitKeyRepository is a mock implementation of usecase.TransitKeyRepository.
type MockTransitKeyRepository struct {
	mock.Mock
}

func (m *MockTransitKeyRepository) Create(ctx context.Context, key *transitDomain.TransitKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockTransitKeyRepository) Update(ctx context.Context, key *transitDomain.TransitKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockTransitKeyRepository) GetByID(ctx context.Context, teamID, id string) (*transitDomain.TransitKey, error) {
	args := m.Called(ctx, teamID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transitDomain.TransitKey), args.Error(1)
}

func (m *MockTransitKeyRepository) GetByIDUnscoped(ctx context.Context, id string) (*transitDomain.TransitKey, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transitDomain.TransitKey), args.Error(1)
}

func (m *MockTransitKeyRepository) GetByName(ctx context.Context, teamID, name string) (*transitDomain.TransitKey, error) {
	args := m.Called(ctx, teamID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transitDomain.TransitKey), args.Error(1)
}

func (m *MockTransitKeyRepository) Delete(ctx context.Context, teamID, id string) error {
	args := m.Called(ctx, teamID, id)
	return args.Error(0)
}

func (m *MockTransitKeyRepository) List(ctx context.Context, teamID string) ([]*transitDomain.TransitKey, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transitDomain.TransitKey), args.Error(1)
}
