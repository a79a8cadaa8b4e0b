package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	leaseDomain "github.com/allisson/vaultd/internal/lease/domain"
	leaseMocks "github.com/allisson/vaultd/internal/lease/usecase/mocks"
)

func TestScheduler_Start_ContextCancellation(t *testing.T) {
	leaseRepo := &leaseMocks.MockLeaseRepository{}
	secretsClient := &leaseMocks.MockSecretsClient{}

	uc := NewLeaseUseCase(testConfig(), leaseRepo, secretsClient, newTestCryptoService(t), nil, nil)
	scheduler := NewScheduler(uc, 100*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := scheduler.Start(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScheduler_Start_TicksAndCallsTick(t *testing.T) {
	leaseRepo := &leaseMocks.MockLeaseRepository{}
	secretsClient := &leaseMocks.MockSecretsClient{}

	leaseRepo.On("ListExpired", mock.Anything, mock.Anything).
		Return([]*leaseDomain.DynamicLease{}, nil)

	uc := NewLeaseUseCase(testConfig(), leaseRepo, secretsClient, newTestCryptoService(t), nil, nil)
	scheduler := NewScheduler(uc, 10*time.Millisecond, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 35*time.Millisecond)
	defer cancel()

	err := scheduler.Start(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	leaseRepo.AssertExpectations(t)
}
