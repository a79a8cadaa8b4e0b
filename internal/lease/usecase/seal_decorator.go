package usecase

import (
	"context"

	leaseDomain "github.com/allisson/vaultd/internal/lease/domain"
)

// SealGate is the narrow slice of the seal service this decorator depends
// on: the single read that every data-plane operation, including the
// scheduled expiry sweep, must pass before touching lease credentials.
type SealGate interface {
	RequireUnsealed() error
}

// leaseUseCaseWithSealGate decorates LeaseUseCase with the mandatory
// unsealed-gate check (SPEC_FULL.md §4.2).
type leaseUseCaseWithSealGate struct {
	next LeaseUseCase
	gate SealGate
}

// NewLeaseUseCaseWithSealGate wraps a LeaseUseCase with the unsealed gate.
// Should be the outermost decorator.
func NewLeaseUseCaseWithSealGate(useCase LeaseUseCase, gate SealGate) LeaseUseCase {
	return &leaseUseCaseWithSealGate{next: useCase, gate: gate}
}

func (l *leaseUseCaseWithSealGate) Create(
	ctx context.Context,
	input CreateLeaseInput,
) (*leaseDomain.DynamicLease, *leaseDomain.Credentials, error) {
	if err := l.gate.RequireUnsealed(); err != nil {
		return nil, nil, err
	}
	return l.next.Create(ctx, input)
}

func (l *leaseUseCaseWithSealGate) Get(ctx context.Context, id string) (*leaseDomain.DynamicLease, error) {
	if err := l.gate.RequireUnsealed(); err != nil {
		return nil, err
	}
	return l.next.Get(ctx, id)
}

func (l *leaseUseCaseWithSealGate) ListBySecretID(ctx context.Context, secretID string) ([]*leaseDomain.DynamicLease, error) {
	if err := l.gate.RequireUnsealed(); err != nil {
		return nil, err
	}
	return l.next.ListBySecretID(ctx, secretID)
}

func (l *leaseUseCaseWithSealGate) Revoke(ctx context.Context, id, revokedByUserID string) error {
	if err := l.gate.RequireUnsealed(); err != nil {
		return err
	}
	return l.next.Revoke(ctx, id, revokedByUserID)
}

func (l *leaseUseCaseWithSealGate) Tick(ctx context.Context) error {
	if err := l.gate.RequireUnsealed(); err != nil {
		return err
	}
	return l.next.Tick(ctx)
}
