package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/allisson/vaultd/internal/metrics"
	secretsDomain "github.com/allisson/vaultd/internal/secrets/domain"
	secretsUsecaseMocks "github.com/allisson/vaultd/internal/secrets/usecase/mocks"
)

// mockBusinessMetrics is a mock implementation of metrics.BusinessMetrics for testing.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

var _ metrics.BusinessMetrics = (*mockBusinessMetrics)(nil)

func TestNewSecretUseCaseWithMetrics(t *testing.T) {
	mockUseCase := &secretsUsecaseMocks.MockSecretUseCase{}
	mockMetrics := &mockBusinessMetrics{}

	decorator := NewSecretUseCaseWithMetrics(mockUseCase, mockMetrics)

	assert.NotNil(t, decorator)
	assert.Implements(t, (*SecretUseCase)(nil), decorator)
}

func TestMetricsDecorator_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockUseCase := &secretsUsecaseMocks.MockSecretUseCase{}
		mockMetrics := &mockBusinessMetrics{}

		input := CreateSecretInput{TeamID: "team-1", Path: "/app/api-key"}
		expectedSecret := &secretsDomain.Secret{ID: "secret-1", Path: input.Path}

		mockUseCase.On("Create", ctx, input).Return(expectedSecret, nil).Once()
		mockMetrics.On("RecordOperation", ctx, "secrets", "secret_create", "success").Return().Once()
		mockMetrics.On(
			"RecordDuration", ctx, "secrets", "secret_create", mock.AnythingOfType("time.Duration"), "success",
		).Return().Once()

		decorator := NewSecretUseCaseWithMetrics(mockUseCase, mockMetrics)
		result, err := decorator.Create(ctx, input)

		assert.NoError(t, err)
		assert.Equal(t, expectedSecret, result)
		mockUseCase.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Error", func(t *testing.T) {
		mockUseCase := &secretsUsecaseMocks.MockSecretUseCase{}
		mockMetrics := &mockBusinessMetrics{}

		input := CreateSecretInput{TeamID: "team-1", Path: "/app/api-key"}
		expectedErr := errors.New("database error")

		mockUseCase.On("Create", ctx, input).Return(nil, expectedErr).Once()
		mockMetrics.On("RecordOperation", ctx, "secrets", "secret_create", "error").Return().Once()
		mockMetrics.On(
			"RecordDuration", ctx, "secrets", "secret_create", mock.AnythingOfType("time.Duration"), "error",
		).Return().Once()

		decorator := NewSecretUseCaseWithMetrics(mockUseCase, mockMetrics)
		result, err := decorator.Create(ctx, input)

		assert.ErrorIs(t, err, expectedErr)
		assert.Nil(t, result)
	})
}

func TestMetricsDecorator_ReadValue(t *testing.T) {
	ctx := context.Background()
	mockUseCase := &secretsUsecaseMocks.MockSecretUseCase{}
	mockMetrics := &mockBusinessMetrics{}

	expectedSecret := &secretsDomain.Secret{ID: "secret-1"}
	expectedValue := []byte("plaintext")

	mockUseCase.On("ReadValue", ctx, "team-1", "/app/api-key").Return(expectedSecret, expectedValue, nil).Once()
	mockMetrics.On("RecordOperation", ctx, "secrets", "secret_read", "success").Return().Once()
	mockMetrics.On(
		"RecordDuration", ctx, "secrets", "secret_read", mock.AnythingOfType("time.Duration"), "success",
	).Return().Once()

	decorator := NewSecretUseCaseWithMetrics(mockUseCase, mockMetrics)
	secret, value, err := decorator.ReadValue(ctx, "team-1", "/app/api-key")

	assert.NoError(t, err)
	assert.Equal(t, expectedSecret, secret)
	assert.Equal(t, expectedValue, value)
	mockUseCase.AssertExpectations(t)
	mockMetrics.AssertExpectations(t)
}

func TestMetricsDecorator_ApplyRetention(t *testing.T) {
	ctx := context.Background()
	mockUseCase := &secretsUsecaseMocks.MockSecretUseCase{}
	mockMetrics := &mockBusinessMetrics{}

	mockUseCase.On("ApplyRetention", ctx, "secret-1").Return(nil).Once()
	mockMetrics.On("RecordOperation", ctx, "secrets", "secret_apply_retention", "success").Return().Once()
	mockMetrics.On(
		"RecordDuration", ctx, "secrets", "secret_apply_retention", mock.AnythingOfType("time.Duration"), "success",
	).Return().Once()

	decorator := NewSecretUseCaseWithMetrics(mockUseCase, mockMetrics)
	err := decorator.ApplyRetention(ctx, "secret-1")

	assert.NoError(t, err)
	mockUseCase.AssertExpectations(t)
	mockMetrics.AssertExpectations(t)
}
