package usecase

import (
	"context"
	"time"

	"github.com/allisson/vaultd/internal/metrics"
	policyDomain "github.com/allisson/vaultd/internal/policy/domain"
)

// policyUseCaseWithMetrics decorates PolicyUseCase with metrics instrumentation.
type policyUseCaseWithMetrics struct {
	next    PolicyUseCase
	metrics metrics.BusinessMetrics
}

// NewPolicyUseCaseWithMetrics wraps a PolicyUseCase with metrics recording.
func NewPolicyUseCaseWithMetrics(useCase PolicyUseCase, m metrics.BusinessMetrics) PolicyUseCase {
	return &policyUseCaseWithMetrics{next: useCase, metrics: m}
}

func (p *policyUseCaseWithMetrics) record(ctx context.Context, op string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	p.metrics.RecordOperation(ctx, "policy", op, status)
	p.metrics.RecordDuration(ctx, "policy", op, time.Since(start), status)
}

func (p *policyUseCaseWithMetrics) Create(ctx context.Context, input CreatePolicyInput) (*policyDomain.AccessPolicy, error) {
	start := time.Now()
	policy, err := p.next.Create(ctx, input)
	p.record(ctx, "policy_create", start, err)
	return policy, err
}

func (p *policyUseCaseWithMetrics) Update(ctx context.Context, input UpdatePolicyInput) (*policyDomain.AccessPolicy, error) {
	start := time.Now()
	policy, err := p.next.Update(ctx, input)
	p.record(ctx, "policy_update", start, err)
	return policy, err
}

func (p *policyUseCaseWithMetrics) Delete(ctx context.Context, teamID, id string) error {
	start := time.Now()
	err := p.next.Delete(ctx, teamID, id)
	p.record(ctx, "policy_delete", start, err)
	return err
}

func (p *policyUseCaseWithMetrics) Get(ctx context.Context, teamID, id string) (*policyDomain.AccessPolicy, error) {
	start := time.Now()
	policy, err := p.next.Get(ctx, teamID, id)
	p.record(ctx, "policy_get", start, err)
	return policy, err
}

func (p *policyUseCaseWithMetrics) List(ctx context.Context, teamID string, activeOnly bool) ([]*policyDomain.AccessPolicy, error) {
	start := time.Now()
	policies, err := p.next.List(ctx, teamID, activeOnly)
	p.record(ctx, "policy_list", start, err)
	return policies, err
}

func (p *policyUseCaseWithMetrics) Bind(
	ctx context.Context,
	policyID string,
	bindingType policyDomain.BindingType,
	targetID string,
) (*policyDomain.PolicyBinding, error) {
	start := time.Now()
	binding, err := p.next.Bind(ctx, policyID, bindingType, targetID)
	p.record(ctx, "policy_bind", start, err)
	return binding, err
}

func (p *policyUseCaseWithMetrics) Unbind(ctx context.Context, bindingID string) error {
	start := time.Now()
	err := p.next.Unbind(ctx, bindingID)
	p.record(ctx, "policy_unbind", start, err)
	return err
}

func (p *policyUseCaseWithMetrics) ListBindings(ctx context.Context, policyID string) ([]*policyDomain.PolicyBinding, error) {
	start := time.Now()
	bindings, err := p.next.ListBindings(ctx, policyID)
	p.record(ctx, "policy_list_bindings", start, err)
	return bindings, err
}

func (p *policyUseCaseWithMetrics) Evaluate(
	ctx context.Context,
	teamID string,
	subject policyDomain.Subject,
	path string,
	permission policyDomain.Permission,
) (policyDomain.Decision, error) {
	start := time.Now()
	decision, err := p.next.Evaluate(ctx, teamID, subject, path, permission)
	p.record(ctx, "policy_evaluate", start, err)
	return decision, err
}
