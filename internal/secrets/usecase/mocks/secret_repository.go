// Package mocks provides mock implementations of the secret usecase package's
// repository interfaces for testing.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	secretsDomain "github.com/allisson/vaultd/internal/secrets/domain"
)

// MockSecretRepository is a mock implementation of usecase.SecretRepository.
type MockSecretRepository struct {
	mock.Mock
}

func (m *MockSecretRepository) Create(ctx context.Context, secret *secretsDomain.Secret) error {
	args := m.Called(ctx, secret)
	return args.Error(0)
}

func (m *MockSecretRepository) Update(ctx context.Context, secret *secretsDomain.Secret) error {
	args := m.Called(ctx, secret)
	return args.Error(0)
}

func (m *MockSecretRepository) GetByID(ctx context.Context, teamID, id string) (*secretsDomain.Secret, error) {
	args := m.Called(ctx, teamID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.Secret), args.Error(1)
}

func (m *MockSecretRepository) GetByIDUnscoped(ctx context.Context, id string) (*secretsDomain.Secret, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.Secret), args.Error(1)
}

func (m *MockSecretRepository) GetByPath(ctx context.Context, teamID, path string) (*secretsDomain.Secret, error) {
	args := m.Called(ctx, teamID, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.Secret), args.Error(1)
}

func (m *MockSecretRepository) SoftDelete(ctx context.Context, teamID, id string) error {
	args := m.Called(ctx, teamID, id)
	return args.Error(0)
}

func (m *MockSecretRepository) HardDelete(ctx context.Context, teamID, id string) error {
	args := m.Called(ctx, teamID, id)
	return args.Error(0)
}

func (m *MockSecretRepository) List(
	ctx context.Context,
	teamID string,
	filter secretsDomain.ListFilter,
) ([]*secretsDomain.Secret, error) {
	args := m.Called(ctx, teamID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*secretsDomain.Secret), args.Error(1)
}

func (m *MockSecretRepository) ListPaths(ctx context.Context, teamID, pathPrefix string) ([]string, error) {
	args := m.Called(ctx, teamID, pathPrefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockSecretRepository) ListExpiring(
	ctx context.Context,
	teamID string,
	withinHours int,
) ([]*secretsDomain.Secret, error) {
	args := m.Called(ctx, teamID, withinHours)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*secretsDomain.Secret), args.Error(1)
}

// MockSecretVersionRepository is a mock implementation of usecase.SecretVersionRepository.
type MockSecretVersionRepository struct {
	mock.Mock
}

func (m *MockSecretVersionRepository) Create(ctx context.Context, version *secretsDomain.SecretVersion) error {
	args := m.Called(ctx, version)
	return args.Error(0)
}

func (m *MockSecretVersionRepository) GetByVersionNumber(
	ctx context.Context,
	secretID string,
	versionNumber int,
) (*secretsDomain.SecretVersion, error) {
	args := m.Called(ctx, secretID, versionNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.SecretVersion), args.Error(1)
}

func (m *MockSecretVersionRepository) ListNonDestroyedDesc(
	ctx context.Context,
	secretID string,
) ([]*secretsDomain.SecretVersion, error) {
	args := m.Called(ctx, secretID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*secretsDomain.SecretVersion), args.Error(1)
}

func (m *MockSecretVersionRepository) ListOlderThan(
	ctx context.Context,
	secretID string,
	cutoff time.Time,
) ([]*secretsDomain.SecretVersion, error) {
	args := m.Called(ctx, secretID, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*secretsDomain.SecretVersion), args.Error(1)
}

func (m *MockSecretVersionRepository) Destroy(ctx context.Context, versionID string) error {
	args := m.Called(ctx, versionID)
	return args.Error(0)
}

// MockSecretMetadataRepository is a mock implementation of usecase.SecretMetadataRepository.
type MockSecretMetadataRepository struct {
	mock.Mock
}

func (m *MockSecretMetadataRepository) Replace(ctx context.Context, secretID string, metadata map[string]string) error {
	args := m.Called(ctx, secretID, metadata)
	return args.Error(0)
}

func (m *MockSecretMetadataRepository) Get(ctx context.Context, secretID string) (map[string]string, error) {
	args := m.Called(ctx, secretID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}
