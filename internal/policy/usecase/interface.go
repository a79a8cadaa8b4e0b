// Package usecase implements the access-policy engine: wildcard path
// matching, deny-overrides-allow evaluation, and CRUD orchestration over
// policies and their subject bindings.
package usecase

import (
	"context"

	policyDomain "github.com/allisson/vaultd/internal/policy/domain"
)

// PolicyRepository persists AccessPolicy rows.
type PolicyRepository interface {
	Create(ctx context.Context, policy *policyDomain.AccessPolicy) error
	Update(ctx context.Context, policy *policyDomain.AccessPolicy) error
	GetByID(ctx context.Context, teamID, id string) (*policyDomain.AccessPolicy, error)
	GetByName(ctx context.Context, teamID, name string) (*policyDomain.AccessPolicy, error)
	Delete(ctx context.Context, teamID, id string) error
	List(ctx context.Context, teamID string, activeOnly bool) ([]*policyDomain.AccessPolicy, error)
}

// PolicyBindingRepository persists PolicyBinding rows.
type PolicyBindingRepository interface {
	Create(ctx context.Context, binding *policyDomain.PolicyBinding) error
	DeleteByPolicy(ctx context.Context, policyID string) error
	Delete(ctx context.Context, id string) error
	ListByPolicy(ctx context.Context, policyID string) ([]*policyDomain.PolicyBinding, error)
	// ListByTeam returns every binding attached to a policy owned by teamID,
	// used to collect the candidate set for evaluation.
	ListByTeam(ctx context.Context, teamID string) ([]*policyDomain.PolicyBinding, error)
}

// PolicyUseCase is the business-logic surface over the policy domain.
type PolicyUseCase interface {
	Create(ctx context.Context, input CreatePolicyInput) (*policyDomain.AccessPolicy, error)
	Update(ctx context.Context, input UpdatePolicyInput) (*policyDomain.AccessPolicy, error)
	Delete(ctx context.Context, teamID, id string) error
	Get(ctx context.Context, teamID, id string) (*policyDomain.AccessPolicy, error)
	List(ctx context.Context, teamID string, activeOnly bool) ([]*policyDomain.AccessPolicy, error)

	Bind(ctx context.Context, policyID string, bindingType policyDomain.BindingType, targetID string) (*policyDomain.PolicyBinding, error)
	Unbind(ctx context.Context, bindingID string) error
	ListBindings(ctx context.Context, policyID string) ([]*policyDomain.PolicyBinding, error)

	// Evaluate resolves the candidate policy set bound to subject within
	// teamID and applies the deny-overrides-allow decision for
	// (path, permission).
	Evaluate(
		ctx context.Context,
		teamID string,
		subject policyDomain.Subject,
		path string,
		permission policyDomain.Permission,
	) (policyDomain.Decision, error)
}

// CreatePolicyInput is the argument bundle for PolicyUseCase.Create.
type CreatePolicyInput struct {
	TeamID          string
	Name            string
	PathPattern     string
	Permissions     policyDomain.PermissionSet
	IsDenyPolicy    bool
	CreatedByUserID string
}

// OptionalString carries a field update that may be explicitly left alone.
type OptionalString struct {
	Set   bool
	Value string
}

// OptionalPermissionSet carries a field update that may be explicitly left
// alone.
type OptionalPermissionSet struct {
	Set   bool
	Value policyDomain.PermissionSet
}

// OptionalBool carries a field update that may be explicitly left alone.
type OptionalBool struct {
	Set   bool
	Value bool
}

// UpdatePolicyInput is the argument bundle for PolicyUseCase.Update. A zero
// Optional* value (Set=false) leaves the corresponding column unchanged.
type UpdatePolicyInput struct {
	TeamID       string
	ID           string
	PathPattern  OptionalString
	Permissions  OptionalPermissionSet
	IsDenyPolicy OptionalBool
	IsActive     OptionalBool
}
