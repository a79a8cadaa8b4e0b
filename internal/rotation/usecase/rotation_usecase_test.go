package usecase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/vaultd/internal/crypto"
	rotationDomain "github.com/allisson/vaultd/internal/rotation/domain"
	rotationMocks "github.com/allisson/vaultd/internal/rotation/usecase/mocks"
	secretsDomain "github.com/allisson/vaultd/internal/secrets/domain"
)

func newTestCryptoService(t *testing.T) *crypto.Service {
	t.Helper()
	masterKey, err := crypto.NewMasterKey([]byte("01234567890123456789012345678901"))
	require.NoError(t, err)
	return crypto.NewService(masterKey)
}

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }

func TestRotationUseCase_RotateOne_RandomGenerate_Success(t *testing.T) {
	ctx := context.Background()
	policyRepo := &rotationMocks.MockRotationPolicyRepository{}
	historyRepo := &rotationMocks.MockRotationHistoryRepository{}
	secretsClient := &rotationMocks.MockSecretsClient{}
	cryptoSvc := newTestCryptoService(t)

	secret := &secretsDomain.Secret{ID: "secret-1", TeamID: "team-1", Path: "/services/db", CurrentVersion: 1}
	updated := &secretsDomain.Secret{ID: "secret-1", TeamID: "team-1", Path: "/services/db", CurrentVersion: 2}

	secretsClient.On("GetMetadataUnscoped", mock.Anything, "secret-1").Return(secret, nil)
	secretsClient.On("Update", mock.Anything, mock.Anything).Return(updated, nil)
	historyRepo.On("Create", mock.Anything, mock.MatchedBy(func(h *rotationDomain.RotationHistory) bool {
		return h.Success && h.PreviousVersion == 1 && h.NewVersion != nil && *h.NewVersion == 2
	})).Return(nil)
	policyRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.RotationPolicy")).Return(nil)

	uc := NewRotationUseCase(policyRepo, historyRepo, secretsClient, cryptoSvc, time.Second, nil)
	policy := &rotationDomain.RotationPolicy{
		SecretID: "secret-1", Strategy: rotationDomain.StrategyRandomGenerate,
		RotationIntervalHours: 24, RandomLength: intPtr(16), RandomCharset: strPtr(crypto.CharsetAlphanumeric),
	}

	err := uc.RotateOne(ctx, policy)

	require.NoError(t, err)
	assert.Equal(t, 0, policy.FailureCount)
	assert.NotNil(t, policy.LastRotatedAt)
	assert.NotNil(t, policy.NextRotationAt)
	secretsClient.AssertExpectations(t)
	historyRepo.AssertExpectations(t)
	policyRepo.AssertExpectations(t)
}

func TestRotationUseCase_RotateOne_CustomScript_NotImplemented(t *testing.T) {
	ctx := context.Background()
	policyRepo := &rotationMocks.MockRotationPolicyRepository{}
	historyRepo := &rotationMocks.MockRotationHistoryRepository{}
	secretsClient := &rotationMocks.MockSecretsClient{}
	cryptoSvc := newTestCryptoService(t)

	secret := &secretsDomain.Secret{ID: "secret-1", TeamID: "team-1", Path: "/services/db", CurrentVersion: 4}
	secretsClient.On("GetMetadataUnscoped", mock.Anything, "secret-1").Return(secret, nil)
	historyRepo.On("Create", mock.Anything, mock.MatchedBy(func(h *rotationDomain.RotationHistory) bool {
		return !h.Success && h.PreviousVersion == 4 && strings.Contains(h.ErrorMessage, "not yet implemented")
	})).Return(nil)
	policyRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.RotationPolicy")).Return(nil)

	uc := NewRotationUseCase(policyRepo, historyRepo, secretsClient, cryptoSvc, time.Second, nil)
	policy := &rotationDomain.RotationPolicy{
		SecretID: "secret-1", Strategy: rotationDomain.StrategyCustomScript,
		RotationIntervalHours: 24, FailureCount: 4, MaxFailures: intPtr(5),
	}

	err := uc.RotateOne(ctx, policy)

	require.NoError(t, err)
	assert.Equal(t, 5, policy.FailureCount)
	assert.False(t, policy.IsActive)
	assert.NotNil(t, policy.NextRotationAt)
	secretsClient.AssertExpectations(t)
	historyRepo.AssertExpectations(t)
	policyRepo.AssertExpectations(t)
}

func TestRotationUseCase_RotateOne_ExternalAPI_Success(t *testing.T) {
	ctx := context.Background()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret-token", r.Header.Get("Authorization"))
		w.Write([]byte("new-value-from-api"))
	}))
	defer server.Close()

	policyRepo := &rotationMocks.MockRotationPolicyRepository{}
	historyRepo := &rotationMocks.MockRotationHistoryRepository{}
	secretsClient := &rotationMocks.MockSecretsClient{}
	cryptoSvc := newTestCryptoService(t)

	secret := &secretsDomain.Secret{ID: "secret-1", TeamID: "team-1", Path: "/services/api", CurrentVersion: 1}
	updated := &secretsDomain.Secret{ID: "secret-1", TeamID: "team-1", Path: "/services/api", CurrentVersion: 2}
	secretsClient.On("GetMetadataUnscoped", mock.Anything, "secret-1").Return(secret, nil)
	secretsClient.On("Update", mock.Anything, mock.Anything).Return(updated, nil)
	historyRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	policyRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

	uc := NewRotationUseCase(policyRepo, historyRepo, secretsClient, cryptoSvc, time.Second, nil)
	policy := &rotationDomain.RotationPolicy{
		SecretID: "secret-1", Strategy: rotationDomain.StrategyExternalAPI,
		RotationIntervalHours: 24, ExternalAPIURL: server.URL,
		ExternalAPIHeadersJSON: `{"Authorization":"secret-token"}`,
	}

	err := uc.RotateOne(ctx, policy)

	require.NoError(t, err)
	assert.Equal(t, 0, policy.FailureCount)
}

func TestRotationUseCase_RotateOne_ExternalAPI_EmptyBodyFails(t *testing.T) {
	ctx := context.Background()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	policyRepo := &rotationMocks.MockRotationPolicyRepository{}
	historyRepo := &rotationMocks.MockRotationHistoryRepository{}
	secretsClient := &rotationMocks.MockSecretsClient{}
	cryptoSvc := newTestCryptoService(t)

	secret := &secretsDomain.Secret{ID: "secret-1", TeamID: "team-1", Path: "/services/api", CurrentVersion: 1}
	secretsClient.On("GetMetadataUnscoped", mock.Anything, "secret-1").Return(secret, nil)
	historyRepo.On("Create", mock.Anything, mock.MatchedBy(func(h *rotationDomain.RotationHistory) bool {
		return !h.Success
	})).Return(nil)
	policyRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

	uc := NewRotationUseCase(policyRepo, historyRepo, secretsClient, cryptoSvc, time.Second, nil)
	policy := &rotationDomain.RotationPolicy{
		SecretID: "secret-1", Strategy: rotationDomain.StrategyExternalAPI,
		RotationIntervalHours: 24, ExternalAPIURL: server.URL,
	}

	err := uc.RotateOne(ctx, policy)

	require.NoError(t, err)
	assert.Equal(t, 1, policy.FailureCount)
	secretsClient.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestRotationUseCase_Tick_IsolatesFailures(t *testing.T) {
	ctx := context.Background()
	policyRepo := &rotationMocks.MockRotationPolicyRepository{}
	historyRepo := &rotationMocks.MockRotationHistoryRepository{}
	secretsClient := &rotationMocks.MockSecretsClient{}
	cryptoSvc := newTestCryptoService(t)

	failing := &rotationDomain.RotationPolicy{
		SecretID: "secret-fail", Strategy: rotationDomain.StrategyRandomGenerate, RotationIntervalHours: 24,
	}
	succeeding := &rotationDomain.RotationPolicy{
		SecretID: "secret-ok", Strategy: rotationDomain.StrategyRandomGenerate, RotationIntervalHours: 24,
	}

	policyRepo.On("ListDue", mock.Anything, mock.Anything).
		Return([]*rotationDomain.RotationPolicy{failing, succeeding}, nil)
	secretsClient.On("GetMetadataUnscoped", mock.Anything, "secret-fail").
		Return(nil, context.DeadlineExceeded)
	secretsClient.On("GetMetadataUnscoped", mock.Anything, "secret-ok").
		Return(&secretsDomain.Secret{ID: "secret-ok", TeamID: "team-1", Path: "/x", CurrentVersion: 1}, nil)
	secretsClient.On("Update", mock.Anything, mock.Anything).
		Return(&secretsDomain.Secret{ID: "secret-ok", TeamID: "team-1", Path: "/x", CurrentVersion: 2}, nil)
	historyRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	policyRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

	uc := NewRotationUseCase(policyRepo, historyRepo, secretsClient, cryptoSvc, time.Second, nil)

	err := uc.Tick(ctx)

	require.NoError(t, err)
	secretsClient.AssertExpectations(t)
}

