package usecase

import (
	"context"

	secretsDomain "github.com/allisson/vaultd/internal/secrets/domain"
)

// SealGate is the narrow slice of the seal service this decorator depends
// on: the single read that every data-plane operation must pass before
// touching the secret store.
type SealGate interface {
	RequireUnsealed() error
}

// secretUseCaseWithSealGate decorates SecretUseCase with the mandatory
// unsealed-gate check (SPEC_FULL.md §4.2): every method fails with
// ErrSealed before reaching the underlying use case unless the seal
// service is in the UNSEALED state.
type secretUseCaseWithSealGate struct {
	next SecretUseCase
	gate SealGate
}

// NewSecretUseCaseWithSealGate wraps a SecretUseCase with the unsealed gate.
// It should be the outermost decorator so no data-plane work ever runs
// while sealed, including the metrics recording of that work.
func NewSecretUseCaseWithSealGate(useCase SecretUseCase, gate SealGate) SecretUseCase {
	return &secretUseCaseWithSealGate{next: useCase, gate: gate}
}

func (s *secretUseCaseWithSealGate) Create(
	ctx context.Context,
	input CreateSecretInput,
) (*secretsDomain.Secret, error) {
	if err := s.gate.RequireUnsealed(); err != nil {
		return nil, err
	}
	return s.next.Create(ctx, input)
}

func (s *secretUseCaseWithSealGate) GetMetadata(ctx context.Context, teamID, id string) (*secretsDomain.Secret, error) {
	if err := s.gate.RequireUnsealed(); err != nil {
		return nil, err
	}
	return s.next.GetMetadata(ctx, teamID, id)
}

func (s *secretUseCaseWithSealGate) GetMetadataUnscoped(ctx context.Context, id string) (*secretsDomain.Secret, error) {
	if err := s.gate.RequireUnsealed(); err != nil {
		return nil, err
	}
	return s.next.GetMetadataUnscoped(ctx, id)
}

func (s *secretUseCaseWithSealGate) GetMetadataMap(ctx context.Context, id string) (map[string]string, error) {
	if err := s.gate.RequireUnsealed(); err != nil {
		return nil, err
	}
	return s.next.GetMetadataMap(ctx, id)
}

func (s *secretUseCaseWithSealGate) GetMetadataByPath(
	ctx context.Context,
	teamID, path string,
) (*secretsDomain.Secret, error) {
	if err := s.gate.RequireUnsealed(); err != nil {
		return nil, err
	}
	return s.next.GetMetadataByPath(ctx, teamID, path)
}

func (s *secretUseCaseWithSealGate) ReadValue(
	ctx context.Context,
	teamID, path string,
) (*secretsDomain.Secret, []byte, error) {
	if err := s.gate.RequireUnsealed(); err != nil {
		return nil, nil, err
	}
	return s.next.ReadValue(ctx, teamID, path)
}

func (s *secretUseCaseWithSealGate) ReadVersion(
	ctx context.Context,
	teamID, path string,
	versionNumber int,
) (*secretsDomain.Secret, []byte, error) {
	if err := s.gate.RequireUnsealed(); err != nil {
		return nil, nil, err
	}
	return s.next.ReadVersion(ctx, teamID, path, versionNumber)
}

func (s *secretUseCaseWithSealGate) Update(
	ctx context.Context,
	input UpdateSecretInput,
) (*secretsDomain.Secret, error) {
	if err := s.gate.RequireUnsealed(); err != nil {
		return nil, err
	}
	return s.next.Update(ctx, input)
}

func (s *secretUseCaseWithSealGate) SoftDelete(ctx context.Context, teamID, id string) error {
	if err := s.gate.RequireUnsealed(); err != nil {
		return err
	}
	return s.next.SoftDelete(ctx, teamID, id)
}

func (s *secretUseCaseWithSealGate) HardDelete(ctx context.Context, teamID, id string) error {
	if err := s.gate.RequireUnsealed(); err != nil {
		return err
	}
	return s.next.HardDelete(ctx, teamID, id)
}

func (s *secretUseCaseWithSealGate) List(
	ctx context.Context,
	teamID string,
	filter secretsDomain.ListFilter,
) ([]*secretsDomain.Secret, error) {
	if err := s.gate.RequireUnsealed(); err != nil {
		return nil, err
	}
	return s.next.List(ctx, teamID, filter)
}

func (s *secretUseCaseWithSealGate) ListPaths(ctx context.Context, teamID, pathPrefix string) ([]string, error) {
	if err := s.gate.RequireUnsealed(); err != nil {
		return nil, err
	}
	return s.next.ListPaths(ctx, teamID, pathPrefix)
}

func (s *secretUseCaseWithSealGate) ListExpiring(
	ctx context.Context,
	teamID string,
	withinHours int,
) ([]*secretsDomain.Secret, error) {
	if err := s.gate.RequireUnsealed(); err != nil {
		return nil, err
	}
	return s.next.ListExpiring(ctx, teamID, withinHours)
}

func (s *secretUseCaseWithSealGate) ApplyRetention(ctx context.Context, secretID string) error {
	if err := s.gate.RequireUnsealed(); err != nil {
		return err
	}
	return s.next.ApplyRetention(ctx, secretID)
}
