package usecase

import (
	"context"

	auditUsecase "github.com/allisson/vaultd/internal/audit/usecase"
	transitDomain "github.com/allisson/vaultd/internal/transit/domain"
)

// AuditRecorder is the narrow slice of AuditUseCase this decorator depends
// on: a fire-and-forget write that never fails the caller.
type AuditRecorder interface {
	Record(ctx context.Context, input auditUsecase.RecordInput)
}

// transitKeyUseCaseWithAudit decorates TransitKeyUseCase, emitting one
// audit record per call of every method except Get and List, which pass
// through without a record. No response carries any key-material list entry,
// so the ResourceID here is always the key's own id or name, never its
// bytes (SPEC_FULL.md §4.4 secrecy invariant).
type transitKeyUseCaseWithAudit struct {
	next  TransitKeyUseCase
	audit AuditRecorder
}

// NewTransitKeyUseCaseWithAudit wraps a TransitKeyUseCase with audit recording.
func NewTransitKeyUseCaseWithAudit(useCase TransitKeyUseCase, audit AuditRecorder) TransitKeyUseCase {
	return &transitKeyUseCaseWithAudit{next: useCase, audit: audit}
}

func (t *transitKeyUseCaseWithAudit) record(ctx context.Context, operation, teamID string, resourceID *string, err error) {
	input := auditUsecase.RecordInput{
		Operation:    operation,
		ResourceType: "transit_key",
		ResourceID:   resourceID,
		Success:      err == nil,
	}
	if err != nil {
		msg := err.Error()
		input.ErrorMessage = &msg
	}
	if teamID != "" {
		input.TeamID = &teamID
	}
	t.audit.Record(ctx, input)
}

func (t *transitKeyUseCaseWithAudit) Create(
	ctx context.Context,
	teamID, name string,
	isDeletable, isExportable bool,
) (*transitDomain.TransitKey, error) {
	key, err := t.next.Create(ctx, teamID, name, isDeletable, isExportable)
	t.record(ctx, "transit_key_create", teamID, &name, err)
	return key, err
}

func (t *transitKeyUseCaseWithAudit) Rotate(ctx context.Context, teamID, name string) (*transitDomain.TransitKey, error) {
	key, err := t.next.Rotate(ctx, teamID, name)
	t.record(ctx, "transit_key_rotate", teamID, &name, err)
	return key, err
}

func (t *transitKeyUseCaseWithAudit) UpdateMinDecryptionVersion(
	ctx context.Context,
	teamID, name string,
	minVersion int,
) (*transitDomain.TransitKey, error) {
	key, err := t.next.UpdateMinDecryptionVersion(ctx, teamID, name, minVersion)
	t.record(ctx, "transit_key_update_min_version", teamID, &name, err)
	return key, err
}

func (t *transitKeyUseCaseWithAudit) Delete(ctx context.Context, teamID, id string) error {
	err := t.next.Delete(ctx, teamID, id)
	t.record(ctx, "transit_key_delete", teamID, &id, err)
	return err
}

func (t *transitKeyUseCaseWithAudit) Get(ctx context.Context, teamID, name string) (*transitDomain.TransitKey, error) {
	return t.next.Get(ctx, teamID, name)
}

func (t *transitKeyUseCaseWithAudit) List(ctx context.Context, teamID string) ([]*transitDomain.TransitKey, error) {
	return t.next.List(ctx, teamID)
}

func (t *transitKeyUseCaseWithAudit) Encrypt(
	ctx context.Context,
	teamID, name string,
	plaintext []byte,
) (string, error) {
	envelope, err := t.next.Encrypt(ctx, teamID, name, plaintext)
	t.record(ctx, "transit_encrypt", teamID, &name, err)
	return envelope, err
}

func (t *transitKeyUseCaseWithAudit) Decrypt(
	ctx context.Context,
	teamID, name string,
	envelope string,
) ([]byte, error) {
	plaintext, err := t.next.Decrypt(ctx, teamID, name, envelope)
	t.record(ctx, "transit_decrypt", teamID, &name, err)
	return plaintext, err
}

func (t *transitKeyUseCaseWithAudit) Rewrap(
	ctx context.Context,
	teamID, name string,
	envelope string,
) (string, error) {
	rewrapped, err := t.next.Rewrap(ctx, teamID, name, envelope)
	t.record(ctx, "transit_rewrap", teamID, &name, err)
	return rewrapped, err
}

func (t *transitKeyUseCaseWithAudit) GenerateDataKey(
	ctx context.Context,
	teamID, name string,
) (string, string, error) {
	plaintextB64, wrapped, err := t.next.GenerateDataKey(ctx, teamID, name)
	t.record(ctx, "transit_generate_data_key", teamID, &name, err)
	return plaintextB64, wrapped, err
}
