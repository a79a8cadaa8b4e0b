package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/allisson/vaultd/internal/audit/domain"
	auditMocks "github.com/allisson/vaultd/internal/audit/usecase/mocks"
	"github.com/allisson/vaultd/internal/crypto"
	databaseMocks "github.com/allisson/vaultd/internal/database/mocks"
)

func newTestCryptoService(t *testing.T) *crypto.Service {
	t.Helper()
	masterKey, err := crypto.NewMasterKey([]byte("01234567890123456789012345678901"))
	require.NoError(t, err)
	return crypto.NewService(masterKey)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAuditUseCase_Record_PersistsSignedEntry(t *testing.T) {
	repo := &auditMocks.MockAuditRepository{}
	txManager := &databaseMocks.MockTxManager{}
	txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)

	var captured *auditDomain.Entry
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Entry")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*auditDomain.Entry)
		}).
		Return(nil)

	uc := NewAuditUseCase(repo, txManager, newTestCryptoService(t), discardLogger())

	teamID := "team-1"
	uc.Record(context.Background(), RecordInput{
		TeamID:       &teamID,
		Operation:    "secret_read",
		ResourceType: "secret",
		Success:      true,
	})

	require.NotNil(t, captured)
	assert.True(t, captured.IsSigned)
	assert.NotEmpty(t, captured.Signature)
	assert.Equal(t, auditDomain.DefaultIPAddress, captured.IPAddress)
	assert.Equal(t, auditDomain.DefaultCorrelationID, captured.CorrelationID)
	assert.NoError(t, (&auditUseCase{signer: newSigner(newTestCryptoService(t))}).VerifySignature(captured))
}

func TestAuditUseCase_Record_SwallowsRepositoryFailure(t *testing.T) {
	repo := &auditMocks.MockAuditRepository{}
	txManager := &databaseMocks.MockTxManager{}
	txManager.On("WithTx", mock.Anything, mock.Anything).Return(assert.AnError)

	uc := NewAuditUseCase(repo, txManager, newTestCryptoService(t), discardLogger())

	assert.NotPanics(t, func() {
		uc.Record(context.Background(), RecordInput{
			Operation:    "secret_read",
			ResourceType: "secret",
			Success:      false,
		})
	})
}

func TestAuditUseCase_Record_UsesContextIPAndCorrelationID(t *testing.T) {
	repo := &auditMocks.MockAuditRepository{}
	txManager := &databaseMocks.MockTxManager{}
	txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)

	var captured *auditDomain.Entry
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Entry")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*auditDomain.Entry)
		}).
		Return(nil)

	uc := NewAuditUseCase(repo, txManager, newTestCryptoService(t), discardLogger())

	ctx := WithIPAddress(context.Background(), "10.0.0.5")
	ctx = WithCorrelationID(ctx, "corr-123")
	uc.Record(ctx, RecordInput{Operation: "secret_create", ResourceType: "secret", Success: true})

	require.NotNil(t, captured)
	assert.Equal(t, "10.0.0.5", captured.IPAddress)
	assert.Equal(t, "corr-123", captured.CorrelationID)
}

func TestAuditUseCase_VerifySignature_DetectsTampering(t *testing.T) {
	cryptoSvc := newTestCryptoService(t)
	uc := &auditUseCase{signer: newSigner(cryptoSvc)}

	teamID := "team-1"
	entry := &auditDomain.Entry{
		ID:           "entry-1",
		TeamID:       &teamID,
		Operation:    "secret_read",
		ResourceType: "secret",
		Success:      true,
		IPAddress:    auditDomain.DefaultIPAddress,
	}
	sig, keyID, err := uc.signer.sign(entry)
	require.NoError(t, err)
	entry.Signature = sig
	entry.KeyID = &keyID
	entry.IsSigned = true

	require.NoError(t, uc.VerifySignature(entry))

	entry.Operation = "secret_delete"
	assert.ErrorIs(t, uc.VerifySignature(entry), auditDomain.ErrSignatureInvalid)
}

func TestAuditUseCase_VerifySignature_RejectsUnsigned(t *testing.T) {
	uc := &auditUseCase{signer: newSigner(newTestCryptoService(t))}
	err := uc.VerifySignature(&auditDomain.Entry{})
	assert.ErrorIs(t, err, auditDomain.ErrSignatureInvalid)
}

func TestAuditUseCase_Query_DelegatesToRepository(t *testing.T) {
	repo := &auditMocks.MockAuditRepository{}
	want := []*auditDomain.Entry{{ID: "e1"}}
	repo.On("Query", mock.Anything, "team-1", auditDomain.Filter{Operation: "secret_read"}).Return(want, nil)

	uc := NewAuditUseCase(repo, &databaseMocks.MockTxManager{}, newTestCryptoService(t), discardLogger())
	got, err := uc.Query(context.Background(), "team-1", auditDomain.Filter{Operation: "secret_read"})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
