package usecase

import (
	"context"
	"fmt"

	auditUsecase "github.com/allisson/vaultd/internal/audit/usecase"
	policyDomain "github.com/allisson/vaultd/internal/policy/domain"
)

// AuditRecorder is the narrow slice of AuditUseCase this decorator depends
// on: a fire-and-forget write that never fails the caller.
type AuditRecorder interface {
	Record(ctx context.Context, input auditUsecase.RecordInput)
}

// policyUseCaseWithAudit decorates PolicyUseCase, emitting one audit
// record per mutation and per evaluation, the latter carrying the
// decision outcome in DetailsJSON so access decisions are reconstructible
// after the fact.
type policyUseCaseWithAudit struct {
	next  PolicyUseCase
	audit AuditRecorder
}

// NewPolicyUseCaseWithAudit wraps a PolicyUseCase with audit recording.
func NewPolicyUseCaseWithAudit(useCase PolicyUseCase, audit AuditRecorder) PolicyUseCase {
	return &policyUseCaseWithAudit{next: useCase, audit: audit}
}

func (p *policyUseCaseWithAudit) record(
	ctx context.Context,
	operation, teamID string,
	resourceID *string,
	details string,
	err error,
) {
	input := auditUsecase.RecordInput{
		Operation:    operation,
		ResourceType: "access_policy",
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
	if details != "" {
		input.DetailsJSON = &details
	}
	p.audit.Record(ctx, input)
}

func (p *policyUseCaseWithAudit) Create(ctx context.Context, input CreatePolicyInput) (*policyDomain.AccessPolicy, error) {
	policy, err := p.next.Create(ctx, input)
	p.record(ctx, "policy_create", input.TeamID, policyID(policy), "", err)
	return policy, err
}

func (p *policyUseCaseWithAudit) Update(ctx context.Context, input UpdatePolicyInput) (*policyDomain.AccessPolicy, error) {
	policy, err := p.next.Update(ctx, input)
	p.record(ctx, "policy_update", input.TeamID, &input.ID, "", err)
	return policy, err
}

func (p *policyUseCaseWithAudit) Delete(ctx context.Context, teamID, id string) error {
	err := p.next.Delete(ctx, teamID, id)
	p.record(ctx, "policy_delete", teamID, &id, "", err)
	return err
}

func (p *policyUseCaseWithAudit) Get(ctx context.Context, teamID, id string) (*policyDomain.AccessPolicy, error) {
	return p.next.Get(ctx, teamID, id)
}

func (p *policyUseCaseWithAudit) List(ctx context.Context, teamID string, activeOnly bool) ([]*policyDomain.AccessPolicy, error) {
	return p.next.List(ctx, teamID, activeOnly)
}

func (p *policyUseCaseWithAudit) Bind(
	ctx context.Context,
	policyID string,
	bindingType policyDomain.BindingType,
	targetID string,
) (*policyDomain.PolicyBinding, error) {
	binding, err := p.next.Bind(ctx, policyID, bindingType, targetID)
	p.record(ctx, "policy_bind", "", &policyID, "", err)
	return binding, err
}

func (p *policyUseCaseWithAudit) Unbind(ctx context.Context, bindingID string) error {
	err := p.next.Unbind(ctx, bindingID)
	p.record(ctx, "policy_unbind", "", &bindingID, "", err)
	return err
}

func (p *policyUseCaseWithAudit) ListBindings(ctx context.Context, policyID string) ([]*policyDomain.PolicyBinding, error) {
	return p.next.ListBindings(ctx, policyID)
}

func (p *policyUseCaseWithAudit) Evaluate(
	ctx context.Context,
	teamID string,
	subject policyDomain.Subject,
	path string,
	permission policyDomain.Permission,
) (policyDomain.Decision, error) {
	decision, err := p.next.Evaluate(ctx, teamID, subject, path, permission)
	details := fmt.Sprintf(
		`{"outcome":"%s","permission":"%s","path":"%s"}`,
		decision.Outcome, permission, path,
	)
	p.record(ctx, "policy_evaluate", teamID, decisionResourceID(decision), details, err)
	return decision, err
}

func policyID(policy *policyDomain.AccessPolicy) *string {
	if policy == nil {
		return nil
	}
	id := policy.ID
	return &id
}

func decisionResourceID(decision policyDomain.Decision) *string {
	if decision.DecidingPolicy == nil {
		return nil
	}
	id := decision.DecidingPolicy.ID
	return &id
}
