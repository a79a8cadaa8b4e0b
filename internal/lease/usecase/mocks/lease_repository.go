// Package mocks provides mock implementations of the lease usecase
// package's repository and collaborator interfaces for testing.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	leaseDomain "github.com/allisson/vaultd/internal/lease/domain"
	leaseUsecase "github.com/allisson/vaultd/internal/lease/usecase"
	secretsDomain "github.com/allisson/vaultd/internal/secrets/domain"
)

// MockLeaseRepository is a mock implementation of usecase.LeaseRepository.
type MockLeaseRepository struct {
	mock.Mock
}

func (m *MockLeaseRepository) Create(ctx context.Context, lease *leaseDomain.DynamicLease) error {
	args := m.Called(ctx, lease)
	return args.Error(0)
}

func (m *MockLeaseRepository) Update(ctx context.Context, lease *leaseDomain.DynamicLease) error {
	args := m.Called(ctx, lease)
	return args.Error(0)
}

func (m *MockLeaseRepository) GetByID(ctx context.Context, id string) (*leaseDomain.DynamicLease, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leaseDomain.DynamicLease), args.Error(1)
}

func (m *MockLeaseRepository) ListExpired(ctx context.Context, now time.Time) ([]*leaseDomain.DynamicLease, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*leaseDomain.DynamicLease), args.Error(1)
}

func (m *MockLeaseRepository) ListBySecretID(
	ctx context.Context,
	secretID string,
) ([]*leaseDomain.DynamicLease, error) {
	args := m.Called(ctx, secretID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*leaseDomain.DynamicLease), args.Error(1)
}

// MockSecretsClient is a mock implementation of usecase.SecretsClient.
type MockSecretsClient struct {
	mock.Mock
}

func (m *MockSecretsClient) GetMetadataUnscoped(ctx context.Context, id string) (*secretsDomain.Secret, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.Secret), args.Error(1)
}

func (m *MockSecretsClient) GetMetadataMap(ctx context.Context, id string) (map[string]string, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

// MockBackendDriver is a mock implementation of usecase.BackendDriver.
type MockBackendDriver struct {
	mock.Mock
}

func (m *MockBackendDriver) CreateUser(
	ctx context.Context,
	conn leaseUsecase.ConnectionParams,
	username, password string,
) error {
	args := m.Called(ctx, conn, username, password)
	return args.Error(0)
}

func (m *MockBackendDriver) DropUser(ctx context.Context, conn leaseUsecase.ConnectionParams, username string) error {
	args := m.Called(ctx, conn, username)
	return args.Error(0)
}
