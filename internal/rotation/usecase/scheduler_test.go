package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	rotationDomain "github.com/allisson/vaultd/internal/rotation/domain"
	rotationMocks "github.com/allisson/vaultd/internal/rotation/usecase/mocks"
)

func TestScheduler_Start_ContextCancellation(t *testing.T) {
	policyRepo := &rotationMocks.MockRotationPolicyRepository{}
	historyRepo := &rotationMocks.MockRotationHistoryRepository{}
	secretsClient := &rotationMocks.MockSecretsClient{}

	uc := NewRotationUseCase(policyRepo, historyRepo, secretsClient, newTestCryptoService(t), time.Second, nil)
	scheduler := NewScheduler(uc, 100*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := scheduler.Start(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScheduler_Start_TicksAndCallsTick(t *testing.T) {
	policyRepo := &rotationMocks.MockRotationPolicyRepository{}
	historyRepo := &rotationMocks.MockRotationHistoryRepository{}
	secretsClient := &rotationMocks.MockSecretsClient{}

	policyRepo.On("ListDue", mock.Anything, mock.Anything).
		Return([]*rotationDomain.RotationPolicy{}, nil)

	uc := NewRotationUseCase(policyRepo, historyRepo, secretsClient, newTestCryptoService(t), time.Second, nil)
	scheduler := NewScheduler(uc, 10*time.Millisecond, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 35*time.Millisecond)
	defer cancel()

	err := scheduler.Start(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	policyRepo.AssertExpectations(t)
}
