// Package usecase implements business logic orchestration for the audit
// domain: fire-and-forget, HMAC-signed recording of every data-plane
// operation, queryable per spec by team and at most one further filter.
package usecase

import (
	"context"
	"log/slog"
	"time"

	auditDomain "github.com/allisson/vaultd/internal/audit/domain"
	"github.com/allisson/vaultd/internal/crypto"
	"github.com/allisson/vaultd/internal/database"
	"github.com/google/uuid"
)

// auditUseCase implements AuditUseCase. It signs every entry it writes and
// never lets a signing or persistence failure propagate to the caller: the
// operation being audited has already happened (or failed) by the time
// Record is invoked, and a broken audit path must never undo it.
type auditUseCase struct {
	repo      AuditRepository
	txManager database.TxManager
	signer    *signer
	logger    *slog.Logger
}

// NewAuditUseCase builds an AuditUseCase. txManager must wrap a connection
// pool distinct from (or at least capable of opening a transaction
// independent of) any transaction the caller may already hold open, so that
// Record's write never participates in, and can never be rolled back by,
// the primary operation's transaction.
func NewAuditUseCase(
	repo AuditRepository,
	txManager database.TxManager,
	cryptoSvc *crypto.Service,
	logger *slog.Logger,
) AuditUseCase {
	return &auditUseCase{
		repo:      repo,
		txManager: txManager,
		signer:    newSigner(cryptoSvc),
		logger:    logger,
	}
}

// Record builds, signs, and persists one audit entry in its own
// transaction. Per SPEC_FULL.md §4.7 any failure (signing or persistence)
// is caught and logged, never returned: the audit path must not be able to
// fail the operation it is recording.
func (a *auditUseCase) Record(ctx context.Context, input RecordInput) {
	entry := &auditDomain.Entry{
		ID:            uuid.NewString(),
		TeamID:        input.TeamID,
		UserID:        input.UserID,
		Operation:     input.Operation,
		Path:          input.Path,
		ResourceType:  input.ResourceType,
		ResourceID:    input.ResourceID,
		Success:       input.Success,
		ErrorMessage:  input.ErrorMessage,
		IPAddress:     IPAddressFromContext(ctx),
		CorrelationID: CorrelationIDFromContext(ctx),
		DetailsJSON:   input.DetailsJSON,
		CreatedAt:     time.Now().UTC(),
	}

	signature, keyID, err := a.signer.sign(entry)
	if err != nil {
		a.logger.Error("failed to sign audit entry",
			slog.String("operation", entry.Operation), slog.Any("error", err))
		return
	}
	entry.Signature = signature
	entry.KeyID = &keyID
	entry.IsSigned = true

	// context.WithoutCancel keeps ctx's values but drops its cancellation, so
	// the write still runs once the caller's request has ended. The insert
	// lands in its own, independent transaction (SPEC_FULL.md §4.7): WithTx
	// begins a fresh transaction and stores it under the same context key,
	// shadowing any business transaction the caller has in flight.
	auditCtx := context.WithoutCancel(ctx)
	err = a.txManager.WithTx(auditCtx, func(txCtx context.Context) error {
		return a.repo.Create(txCtx, entry)
	})
	if err != nil {
		a.logger.Error("failed to persist audit entry",
			slog.String("operation", entry.Operation), slog.Any("error", err))
	}
}

// Query scopes a lookup to teamID and applies at most one further filter
// dimension, per the priority order documented on Filter.
func (a *auditUseCase) Query(
	ctx context.Context,
	teamID string,
	filter auditDomain.Filter,
) ([]*auditDomain.Entry, error) {
	return a.repo.Query(ctx, teamID, filter)
}

// VerifySignature recomputes entry's HMAC and compares it against the
// stored signature. Used by maintenance tooling to detect tampering.
func (a *auditUseCase) VerifySignature(entry *auditDomain.Entry) error {
	if !entry.HasValidSignature() {
		return auditDomain.ErrSignatureInvalid
	}
	return a.signer.verify(entry)
}
