// Package mocks provides mock implementations of the rotation usecase
// package's repository and collaborator interfaces for testing.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	rotationDomain "github.com/allisson/vaultd/internal/rotation/domain"
	secretsDomain "github.com/allisson/vaultd/internal/secrets/domain"
	secretsUsecase "github.com/allisson/vaultd/internal/secrets/usecase"
)

// MockRotationPolicyRepository is a mock implementation of usecase.RotationPolicyRepository.
type MockRotationPolicyRepository struct {
	mock.Mock
}

func (m *MockRotationPolicyRepository) Create(ctx context.Context, policy *rotationDomain.RotationPolicy) error {
	args := m.Called(ctx, policy)
	return args.Error(0)
}

func (m *MockRotationPolicyRepository) Update(ctx context.Context, policy *rotationDomain.RotationPolicy) error {
	args := m.Called(ctx, policy)
	return args.Error(0)
}

func (m *MockRotationPolicyRepository) GetBySecretID(
	ctx context.Context,
	secretID string,
) (*rotationDomain.RotationPolicy, error) {
	args := m.Called(ctx, secretID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rotationDomain.RotationPolicy), args.Error(1)
}

func (m *MockRotationPolicyRepository) Delete(ctx context.Context, secretID string) error {
	args := m.Called(ctx, secretID)
	return args.Error(0)
}

func (m *MockRotationPolicyRepository) ListDue(
	ctx context.Context,
	now time.Time,
) ([]*rotationDomain.RotationPolicy, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*rotationDomain.RotationPolicy), args.Error(1)
}

// MockRotationHistoryRepository is a mock implementation of usecase.RotationHistoryRepository.
type MockRotationHistoryRepository struct {
	mock.Mock
}

func (m *MockRotationHistoryRepository) Create(ctx context.Context, history *rotationDomain.RotationHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockRotationHistoryRepository) ListBySecretID(
	ctx context.Context,
	secretID string,
	limit int,
) ([]*rotationDomain.RotationHistory, error) {
	args := m.Called(ctx, secretID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*rotationDomain.RotationHistory), args.Error(1)
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

func (m *MockSecretsClient) Update(
	ctx context.Context,
	input secretsUsecase.UpdateSecretInput,
) (*secretsDomain.Secret, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.Secret), args.Error(1)
}
