package usecase

import (
	"context"

	auditUsecase "github.com/allisson/vaultd/internal/audit/usecase"
	secretsDomain "github.com/allisson/vaultd/internal/secrets/domain"
)

// AuditRecorder is the narrow slice of AuditUseCase this decorator depends
// on: a fire-and-forget write that never fails the caller.
type AuditRecorder interface {
	Record(ctx context.Context, input auditUsecase.RecordInput)
}

// secretUseCaseWithAudit decorates SecretUseCase, emitting exactly one
// audit record per call (success or failure, never both) for Create,
// GetMetadata, GetMetadataByPath, ReadValue, ReadVersion, Update,
// SoftDelete and HardDelete, per SPEC_FULL.md §4.7. List, ListPaths,
// ListExpiring and ApplyRetention pass through without a record. Nor are
// the read-only metadata lookups used only by background jobs
// (GetMetadataUnscoped, GetMetadataMap) audited: they have no caller
// team/user context and exist purely to support rotation and lease
// provisioning, which audit their own outcomes.
type secretUseCaseWithAudit struct {
	next  SecretUseCase
	audit AuditRecorder
}

// NewSecretUseCaseWithAudit wraps a SecretUseCase with audit recording.
func NewSecretUseCaseWithAudit(useCase SecretUseCase, audit AuditRecorder) SecretUseCase {
	return &secretUseCaseWithAudit{next: useCase, audit: audit}
}

func errMsg(err error) *string {
	if err == nil {
		return nil
	}
	msg := err.Error()
	return &msg
}

func (s *secretUseCaseWithAudit) Create(
	ctx context.Context,
	input CreateSecretInput,
) (*secretsDomain.Secret, error) {
	secret, err := s.next.Create(ctx, input)
	s.record(ctx, "secret_create", input.TeamID, input.OwnerUserID, &input.Path, secretID(secret), err)
	return secret, err
}

func (s *secretUseCaseWithAudit) GetMetadata(ctx context.Context, teamID, id string) (*secretsDomain.Secret, error) {
	secret, err := s.next.GetMetadata(ctx, teamID, id)
	s.record(ctx, "secret_get_metadata", teamID, "", nil, &id, err)
	return secret, err
}

func (s *secretUseCaseWithAudit) GetMetadataUnscoped(ctx context.Context, id string) (*secretsDomain.Secret, error) {
	return s.next.GetMetadataUnscoped(ctx, id)
}

func (s *secretUseCaseWithAudit) GetMetadataMap(ctx context.Context, id string) (map[string]string, error) {
	return s.next.GetMetadataMap(ctx, id)
}

func (s *secretUseCaseWithAudit) GetMetadataByPath(
	ctx context.Context,
	teamID, path string,
) (*secretsDomain.Secret, error) {
	secret, err := s.next.GetMetadataByPath(ctx, teamID, path)
	s.record(ctx, "secret_get_metadata", teamID, "", &path, secretID(secret), err)
	return secret, err
}

func (s *secretUseCaseWithAudit) ReadValue(
	ctx context.Context,
	teamID, path string,
) (*secretsDomain.Secret, []byte, error) {
	secret, value, err := s.next.ReadValue(ctx, teamID, path)
	s.record(ctx, "secret_read", teamID, "", &path, secretID(secret), err)
	return secret, value, err
}

func (s *secretUseCaseWithAudit) ReadVersion(
	ctx context.Context,
	teamID, path string,
	versionNumber int,
) (*secretsDomain.Secret, []byte, error) {
	secret, value, err := s.next.ReadVersion(ctx, teamID, path, versionNumber)
	s.record(ctx, "secret_read_version", teamID, "", &path, secretID(secret), err)
	return secret, value, err
}

func (s *secretUseCaseWithAudit) Update(
	ctx context.Context,
	input UpdateSecretInput,
) (*secretsDomain.Secret, error) {
	secret, err := s.next.Update(ctx, input)
	s.record(ctx, "secret_update", input.TeamID, input.CreatedByUserID, nil, &input.ID, err)
	return secret, err
}

func (s *secretUseCaseWithAudit) SoftDelete(ctx context.Context, teamID, id string) error {
	err := s.next.SoftDelete(ctx, teamID, id)
	s.record(ctx, "secret_soft_delete", teamID, "", nil, &id, err)
	return err
}

func (s *secretUseCaseWithAudit) HardDelete(ctx context.Context, teamID, id string) error {
	err := s.next.HardDelete(ctx, teamID, id)
	s.record(ctx, "secret_hard_delete", teamID, "", nil, &id, err)
	return err
}

func (s *secretUseCaseWithAudit) List(
	ctx context.Context,
	teamID string,
	filter secretsDomain.ListFilter,
) ([]*secretsDomain.Secret, error) {
	return s.next.List(ctx, teamID, filter)
}

func (s *secretUseCaseWithAudit) ListPaths(ctx context.Context, teamID, pathPrefix string) ([]string, error) {
	return s.next.ListPaths(ctx, teamID, pathPrefix)
}

func (s *secretUseCaseWithAudit) ListExpiring(
	ctx context.Context,
	teamID string,
	withinHours int,
) ([]*secretsDomain.Secret, error) {
	return s.next.ListExpiring(ctx, teamID, withinHours)
}

func (s *secretUseCaseWithAudit) ApplyRetention(ctx context.Context, secretID string) error {
	return s.next.ApplyRetention(ctx, secretID)
}

func (s *secretUseCaseWithAudit) record(
	ctx context.Context,
	operation, teamID, userID string,
	path, resourceID *string,
	err error,
) {
	input := auditUsecase.RecordInput{
		Operation:    operation,
		Path:         path,
		ResourceType: "secret",
		ResourceID:   resourceID,
		Success:      err == nil,
		ErrorMessage: errMsg(err),
	}
	if teamID != "" {
		input.TeamID = &teamID
	}
	if userID != "" {
		input.UserID = &userID
	}
	s.audit.Record(ctx, input)
}

func secretID(secret *secretsDomain.Secret) *string {
	if secret == nil {
		return nil
	}
	id := secret.ID
	return &id
}
