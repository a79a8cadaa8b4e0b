package usecase

import (
	"context"

	policyDomain "github.com/allisson/vaultd/internal/policy/domain"
)

// SealGate is the narrow slice of the seal service this decorator depends
// on: the single read that every data-plane operation must pass before
// touching policy state.
type SealGate interface {
	RequireUnsealed() error
}

// policyUseCaseWithSealGate decorates PolicyUseCase with the mandatory
// unsealed-gate check (SPEC_FULL.md §4.2).
type policyUseCaseWithSealGate struct {
	next PolicyUseCase
	gate SealGate
}

// NewPolicyUseCaseWithSealGate wraps a PolicyUseCase with the unsealed
// gate. Should be the outermost decorator.
func NewPolicyUseCaseWithSealGate(useCase PolicyUseCase, gate SealGate) PolicyUseCase {
	return &policyUseCaseWithSealGate{next: useCase, gate: gate}
}

func (p *policyUseCaseWithSealGate) Create(ctx context.Context, input CreatePolicyInput) (*policyDomain.AccessPolicy, error) {
	if err := p.gate.RequireUnsealed(); err != nil {
		return nil, err
	}
	return p.next.Create(ctx, input)
}

func (p *policyUseCaseWithSealGate) Update(ctx context.Context, input UpdatePolicyInput) (*policyDomain.AccessPolicy, error) {
	if err := p.gate.RequireUnsealed(); err != nil {
		return nil, err
	}
	return p.next.Update(ctx, input)
}

func (p *policyUseCaseWithSealGate) Delete(ctx context.Context, teamID, id string) error {
	if err := p.gate.RequireUnsealed(); err != nil {
		return err
	}
	return p.next.Delete(ctx, teamID, id)
}

func (p *policyUseCaseWithSealGate) Get(ctx context.Context, teamID, id string) (*policyDomain.AccessPolicy, error) {
	if err := p.gate.RequireUnsealed(); err != nil {
		return nil, err
	}
	return p.next.Get(ctx, teamID, id)
}

func (p *policyUseCaseWithSealGate) List(ctx context.Context, teamID string, activeOnly bool) ([]*policyDomain.AccessPolicy, error) {
	if err := p.gate.RequireUnsealed(); err != nil {
		return nil, err
	}
	return p.next.List(ctx, teamID, activeOnly)
}

func (p *policyUseCaseWithSealGate) Bind(
	ctx context.Context,
	policyID string,
	bindingType policyDomain.BindingType,
	targetID string,
) (*policyDomain.PolicyBinding, error) {
	if err := p.gate.RequireUnsealed(); err != nil {
		return nil, err
	}
	return p.next.Bind(ctx, policyID, bindingType, targetID)
}

func (p *policyUseCaseWithSealGate) Unbind(ctx context.Context, bindingID string) error {
	if err := p.gate.RequireUnsealed(); err != nil {
		return err
	}
	return p.next.Unbind(ctx, bindingID)
}

func (p *policyUseCaseWithSealGate) ListBindings(ctx context.Context, policyID string) ([]*policyDomain.PolicyBinding, error) {
	if err := p.gate.RequireUnsealed(); err != nil {
		return nil, err
	}
	return p.next.ListBindings(ctx, policyID)
}

func (p *policyUseCaseWithSealGate) Evaluate(
	ctx context.Context,
	teamID string,
	subject policyDomain.Subject,
	path string,
	permission policyDomain.Permission,
) (policyDomain.Decision, error) {
	if err := p.gate.RequireUnsealed(); err != nil {
		return policyDomain.Decision{}, err
	}
	return p.next.Evaluate(ctx, teamID, subject, path, permission)
}
