package usecase

import (
	"context"
	"time"

	"github.com/allisson/vaultd/internal/metrics"
	secretsDomain "github.com/allisson/vaultd/internal/secrets/domain"
)

// secretUseCaseWithMetrics decorates SecretUseCase with metrics instrumentation.
type secretUseCaseWithMetrics struct {
	next    SecretUseCase
	metrics metrics.BusinessMetrics
}

// NewSecretUseCaseWithMetrics wraps a SecretUseCase with metrics recording.
func NewSecretUseCaseWithMetrics(useCase SecretUseCase, m metrics.BusinessMetrics) SecretUseCase {
	return &secretUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (s *secretUseCaseWithMetrics) record(ctx context.Context, op string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	s.metrics.RecordOperation(ctx, "secrets", op, status)
	s.metrics.RecordDuration(ctx, "secrets", op, time.Since(start), status)
}

func (s *secretUseCaseWithMetrics) Create(
	ctx context.Context,
	input CreateSecretInput,
) (*secretsDomain.Secret, error) {
	start := time.Now()
	secret, err := s.next.Create(ctx, input)
	s.record(ctx, "secret_create", start, err)
	return secret, err
}

func (s *secretUseCaseWithMetrics) GetMetadata(ctx context.Context, teamID, id string) (*secretsDomain.Secret, error) {
	start := time.Now()
	secret, err := s.next.GetMetadata(ctx, teamID, id)
	s.record(ctx, "secret_get_metadata", start, err)
	return secret, err
}

func (s *secretUseCaseWithMetrics) GetMetadataUnscoped(ctx context.Context, id string) (*secretsDomain.Secret, error) {
	start := time.Now()
	secret, err := s.next.GetMetadataUnscoped(ctx, id)
	s.record(ctx, "secret_get_metadata", start, err)
	return secret, err
}

func (s *secretUseCaseWithMetrics) GetMetadataMap(ctx context.Context, id string) (map[string]string, error) {
	start := time.Now()
	m, err := s.next.GetMetadataMap(ctx, id)
	s.record(ctx, "secret_get_metadata", start, err)
	return m, err
}

func (s *secretUseCaseWithMetrics) GetMetadataByPath(
	ctx context.Context,
	teamID, path string,
) (*secretsDomain.Secret, error) {
	start := time.Now()
	secret, err := s.next.GetMetadataByPath(ctx, teamID, path)
	s.record(ctx, "secret_get_metadata", start, err)
	return secret, err
}

func (s *secretUseCaseWithMetrics) ReadValue(
	ctx context.Context,
	teamID, path string,
) (*secretsDomain.Secret, []byte, error) {
	start := time.Now()
	secret, value, err := s.next.ReadValue(ctx, teamID, path)
	s.record(ctx, "secret_read", start, err)
	return secret, value, err
}

func (s *secretUseCaseWithMetrics) ReadVersion(
	ctx context.Context,
	teamID, path string,
	versionNumber int,
) (*secretsDomain.Secret, []byte, error) {
	start := time.Now()
	secret, value, err := s.next.ReadVersion(ctx, teamID, path, versionNumber)
	s.record(ctx, "secret_read_version", start, err)
	return secret, value, err
}

func (s *secretUseCaseWithMetrics) Update(
	ctx context.Context,
	input UpdateSecretInput,
) (*secretsDomain.Secret, error) {
	start := time.Now()
	secret, err := s.next.Update(ctx, input)
	s.record(ctx, "secret_update", start, err)
	return secret, err
}

func (s *secretUseCaseWithMetrics) SoftDelete(ctx context.Context, teamID, id string) error {
	start := time.Now()
	err := s.next.SoftDelete(ctx, teamID, id)
	s.record(ctx, "secret_soft_delete", start, err)
	return err
}

func (s *secretUseCaseWithMetrics) HardDelete(ctx context.Context, teamID, id string) error {
	start := time.Now()
	err := s.next.HardDelete(ctx, teamID, id)
	s.record(ctx, "secret_hard_delete", start, err)
	return err
}

func (s *secretUseCaseWithMetrics) List(
	ctx context.Context,
	teamID string,
	filter secretsDomain.ListFilter,
) ([]*secretsDomain.Secret, error) {
	start := time.Now()
	secrets, err := s.next.List(ctx, teamID, filter)
	s.record(ctx, "secret_list", start, err)
	return secrets, err
}

func (s *secretUseCaseWithMetrics) ListPaths(ctx context.Context, teamID, pathPrefix string) ([]string, error) {
	start := time.Now()
	paths, err := s.next.ListPaths(ctx, teamID, pathPrefix)
	s.record(ctx, "secret_list_paths", start, err)
	return paths, err
}

func (s *secretUseCaseWithMetrics) ListExpiring(
	ctx context.Context,
	teamID string,
	withinHours int,
) ([]*secretsDomain.Secret, error) {
	start := time.Now()
	secrets, err := s.next.ListExpiring(ctx, teamID, withinHours)
	s.record(ctx, "secret_list_expiring", start, err)
	return secrets, err
}

func (s *secretUseCaseWithMetrics) ApplyRetention(ctx context.Context, secretID string) error {
	start := time.Now()
	err := s.next.ApplyRetention(ctx, secretID)
	s.record(ctx, "secret_apply_retention", start, err)
	return err
}
