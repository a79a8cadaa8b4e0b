package usecase

import (
	"context"

	rotationDomain "github.com/allisson/vaultd/internal/rotation/domain"
)

// SealGate is the narrow slice of the seal service this decorator depends
// on: the single read that every data-plane operation, including the
// scheduled rotation tick, must pass before touching secret values.
type SealGate interface {
	RequireUnsealed() error
}

// rotationUseCaseWithSealGate decorates RotationUseCase with the mandatory
// unsealed-gate check (SPEC_FULL.md §4.2). The due-rotation tick is gated
// too: while sealed, rotation must not attempt to read or write secret
// values, so a tick that fires while sealed simply reports ErrSealed and
// retries on the scheduler's next tick.
type rotationUseCaseWithSealGate struct {
	next RotationUseCase
	gate SealGate
}

// NewRotationUseCaseWithSealGate wraps a RotationUseCase with the unsealed
// gate. Should be the outermost decorator.
func NewRotationUseCaseWithSealGate(useCase RotationUseCase, gate SealGate) RotationUseCase {
	return &rotationUseCaseWithSealGate{next: useCase, gate: gate}
}

func (r *rotationUseCaseWithSealGate) CreatePolicy(
	ctx context.Context,
	input CreatePolicyInput,
) (*rotationDomain.RotationPolicy, error) {
	if err := r.gate.RequireUnsealed(); err != nil {
		return nil, err
	}
	return r.next.CreatePolicy(ctx, input)
}

func (r *rotationUseCaseWithSealGate) UpdatePolicy(
	ctx context.Context,
	input UpdatePolicyInput,
) (*rotationDomain.RotationPolicy, error) {
	if err := r.gate.RequireUnsealed(); err != nil {
		return nil, err
	}
	return r.next.UpdatePolicy(ctx, input)
}

func (r *rotationUseCaseWithSealGate) GetPolicy(ctx context.Context, secretID string) (*rotationDomain.RotationPolicy, error) {
	if err := r.gate.RequireUnsealed(); err != nil {
		return nil, err
	}
	return r.next.GetPolicy(ctx, secretID)
}

func (r *rotationUseCaseWithSealGate) DeletePolicy(ctx context.Context, secretID string) error {
	if err := r.gate.RequireUnsealed(); err != nil {
		return err
	}
	return r.next.DeletePolicy(ctx, secretID)
}

func (r *rotationUseCaseWithSealGate) ListHistory(
	ctx context.Context,
	secretID string,
	limit int,
) ([]*rotationDomain.RotationHistory, error) {
	if err := r.gate.RequireUnsealed(); err != nil {
		return nil, err
	}
	return r.next.ListHistory(ctx, secretID, limit)
}

func (r *rotationUseCaseWithSealGate) RotateOne(ctx context.Context, policy *rotationDomain.RotationPolicy) error {
	if err := r.gate.RequireUnsealed(); err != nil {
		return err
	}
	return r.next.RotateOne(ctx, policy)
}

func (r *rotationUseCaseWithSealGate) Tick(ctx context.Context) error {
	if err := r.gate.RequireUnsealed(); err != nil {
		return err
	}
	return r.next.Tick(ctx)
}
