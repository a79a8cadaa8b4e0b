package usecase

import (
	"context"

	auditUsecase "github.com/allisson/vaultd/internal/audit/usecase"
	rotationDomain "github.com/allisson/vaultd/internal/rotation/domain"
)

// AuditRecorder is the narrow slice of AuditUseCase this decorator depends
// on: a fire-and-forget write that never fails the caller.
type AuditRecorder interface {
	Record(ctx context.Context, input auditUsecase.RecordInput)
}

// rotationUseCaseWithAudit decorates RotationUseCase, emitting one audit
// record per policy mutation and per RotateOne call made through it. Tick
// passes straight through, and the rotations it runs call the undecorated
// RotateOne, so they get no record from this decorator. Per-attempt outcome
// detail lives in RotationHistory (SPEC_FULL.md §4.6); this decorator only
// adds the generic audit-trail record (§4.7), with the policy's secret id
// as ResourceID.
type rotationUseCaseWithAudit struct {
	next  RotationUseCase
	audit AuditRecorder
}

// NewRotationUseCaseWithAudit wraps a RotationUseCase with audit recording.
func NewRotationUseCaseWithAudit(useCase RotationUseCase, audit AuditRecorder) RotationUseCase {
	return &rotationUseCaseWithAudit{next: useCase, audit: audit}
}

func (r *rotationUseCaseWithAudit) record(ctx context.Context, operation string, resourceID *string, err error) {
	input := auditUsecase.RecordInput{
		Operation:    operation,
		ResourceType: "rotation_policy",
		ResourceID:   resourceID,
		Success:      err == nil,
	}
	if err != nil {
		msg := err.Error()
		input.ErrorMessage = &msg
	}
	r.audit.Record(ctx, input)
}

func (r *rotationUseCaseWithAudit) CreatePolicy(
	ctx context.Context,
	input CreatePolicyInput,
) (*rotationDomain.RotationPolicy, error) {
	policy, err := r.next.CreatePolicy(ctx, input)
	r.record(ctx, "rotation_policy_create", &input.SecretID, err)
	return policy, err
}

func (r *rotationUseCaseWithAudit) UpdatePolicy(
	ctx context.Context,
	input UpdatePolicyInput,
) (*rotationDomain.RotationPolicy, error) {
	policy, err := r.next.UpdatePolicy(ctx, input)
	r.record(ctx, "rotation_policy_update", &input.SecretID, err)
	return policy, err
}

func (r *rotationUseCaseWithAudit) GetPolicy(ctx context.Context, secretID string) (*rotationDomain.RotationPolicy, error) {
	return r.next.GetPolicy(ctx, secretID)
}

func (r *rotationUseCaseWithAudit) DeletePolicy(ctx context.Context, secretID string) error {
	err := r.next.DeletePolicy(ctx, secretID)
	r.record(ctx, "rotation_policy_delete", &secretID, err)
	return err
}

func (r *rotationUseCaseWithAudit) ListHistory(
	ctx context.Context,
	secretID string,
	limit int,
) ([]*rotationDomain.RotationHistory, error) {
	return r.next.ListHistory(ctx, secretID, limit)
}

func (r *rotationUseCaseWithAudit) RotateOne(ctx context.Context, policy *rotationDomain.RotationPolicy) error {
	err := r.next.RotateOne(ctx, policy)
	r.record(ctx, "rotation_rotate_one", &policy.SecretID, err)
	return err
}

func (r *rotationUseCaseWithAudit) Tick(ctx context.Context) error {
	return r.next.Tick(ctx)
}
