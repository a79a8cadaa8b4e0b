package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	secretsDomain "github.com/allisson/vaultd/internal/secrets/domain"
	secretsUsecase "github.com/allisson/vaultd/internal/secrets/usecase"
)

// MockSecretUseCase is a mock implementation of usecase.SecretUseCase.
type MockSecretUseCase struct {
	mock.Mock
}

func (m *MockSecretUseCase) Create(
	ctx context.Context,
	input secretsUsecase.CreateSecretInput,
) (*secretsDomain.Secret, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.Secret), args.Error(1)
}

func (m *MockSecretUseCase) GetMetadata(ctx context.Context, teamID, id string) (*secretsDomain.Secret, error) {
	args := m.Called(ctx, teamID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.Secret), args.Error(1)
}

func (m *MockSecretUseCase) GetMetadataUnscoped(ctx context.Context, id string) (*secretsDomain.Secret, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.Secret), args.Error(1)
}

func (m *MockSecretUseCase) GetMetadataMap(ctx context.Context, id string) (map[string]string, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockSecretUseCase) GetMetadataByPath(
	ctx context.Context,
	teamID, path string,
) (*secretsDomain.Secret, error) {
	args := m.Called(ctx, teamID, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.Secret), args.Error(1)
}

func (m *MockSecretUseCase) ReadValue(ctx context.Context, teamID, path string) (*secretsDomain.Secret, []byte, error) {
	args := m.Called(ctx, teamID, path)
	var secret *secretsDomain.Secret
	if args.Get(0) != nil {
		secret = args.Get(0).(*secretsDomain.Secret)
	}
	var value []byte
	if args.Get(1) != nil {
		value = args.Get(1).([]byte)
	}
	return secret, value, args.Error(2)
}

func (m *MockSecretUseCase) ReadVersion(
	ctx context.Context,
	teamID, path string,
	versionNumber int,
) (*secretsDomain.Secret, []byte, error) {
	args := m.Called(ctx, teamID, path, versionNumber)
	var secret *secretsDomain.Secret
	if args.Get(0) != nil {
		secret = args.Get(0).(*secretsDomain.Secret)
	}
	var value []byte
	if args.Get(1) != nil {
		value = args.Get(1).([]byte)
	}
	return secret, value, args.Error(2)
}

func (m *MockSecretUseCase) Update(
	ctx context.Context,
	input secretsUsecase.UpdateSecretInput,
) (*secretsDomain.Secret, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.Secret), args.Error(1)
}

func (m *MockSecretUseCase) SoftDelete(ctx context.Context, teamID, id string) error {
	args := m.Called(ctx, teamID, id)
	return args.Error(0)
}

func (m *MockSecretUseCase) HardDelete(ctx context.Context, teamID, id string) error {
	args := m.Called(ctx, teamID, id)
	return args.Error(0)
}

func (m *MockSecretUseCase) List(
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

func (m *MockSecretUseCase) ListPaths(ctx context.Context, teamID, pathPrefix string) ([]string, error) {
	args := m.Called(ctx, teamID, pathPrefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockSecretUseCase) ListExpiring(
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

func (m *MockSecretUseCase) ApplyRetention(ctx context.Context, secretID string) error {
	args := m.Called(ctx, secretID)
	return args.Error(0)
}

var _ secretsUsecase.SecretUseCase = (*MockSecretUseCase)(nil)
