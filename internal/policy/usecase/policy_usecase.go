package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/vaultd/internal/database"
	policyDomain "github.com/allisson/vaultd/internal/policy/domain"
)

// policyUseCase implements PolicyUseCase, orchestrating CRUD over policies
// and bindings plus the pure deny-overrides-allow evaluator.
type policyUseCase struct {
	txManager   database.TxManager
	policyRepo  PolicyRepository
	bindingRepo PolicyBindingRepository
}

// NewPolicyUseCase builds a PolicyUseCase from its repositories.
func NewPolicyUseCase(
	txManager database.TxManager,
	policyRepo PolicyRepository,
	bindingRepo PolicyBindingRepository,
) PolicyUseCase {
	return &policyUseCase{txManager: txManager, policyRepo: policyRepo, bindingRepo: bindingRepo}
}

// Create stores a new AccessPolicy. Returns ErrPolicyAlreadyExists if one
// already exists at (teamId, name).
func (u *policyUseCase) Create(ctx context.Context, input CreatePolicyInput) (*policyDomain.AccessPolicy, error) {
	now := time.Now().UTC()
	policy := &policyDomain.AccessPolicy{
		TeamID:          input.TeamID,
		Name:            input.Name,
		PathPattern:     input.PathPattern,
		Permissions:     input.Permissions,
		IsDenyPolicy:    input.IsDenyPolicy,
		IsActive:        true,
		CreatedByUserID: input.CreatedByUserID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := u.policyRepo.Create(ctx, policy); err != nil {
		return nil, err
	}
	return policy, nil
}

// Update applies a partial update: only fields with Set=true change.
func (u *policyUseCase) Update(ctx context.Context, input UpdatePolicyInput) (*policyDomain.AccessPolicy, error) {
	policy, err := u.policyRepo.GetByID(ctx, input.TeamID, input.ID)
	if err != nil {
		return nil, err
	}

	if input.PathPattern.Set {
		policy.PathPattern = input.PathPattern.Value
	}
	if input.Permissions.Set {
		policy.Permissions = input.Permissions.Value
	}
	if input.IsDenyPolicy.Set {
		policy.IsDenyPolicy = input.IsDenyPolicy.Value
	}
	if input.IsActive.Set {
		policy.IsActive = input.IsActive.Value
	}
	policy.UpdatedAt = time.Now().UTC()

	if err := u.policyRepo.Update(ctx, policy); err != nil {
		return nil, err
	}
	return policy, nil
}

// Delete removes a policy and cascades its bindings.
func (u *policyUseCase) Delete(ctx context.Context, teamID, id string) error {
	return u.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := u.bindingRepo.DeleteByPolicy(txCtx, id); err != nil {
			return err
		}
		return u.policyRepo.Delete(txCtx, teamID, id)
	})
}

func (u *policyUseCase) Get(ctx context.Context, teamID, id string) (*policyDomain.AccessPolicy, error) {
	return u.policyRepo.GetByID(ctx, teamID, id)
}

func (u *policyUseCase) List(ctx context.Context, teamID string, activeOnly bool) ([]*policyDomain.AccessPolicy, error) {
	return u.policyRepo.List(ctx, teamID, activeOnly)
}

// Bind attaches policyID to one subject. Returns ErrBindingAlreadyExists on
// a duplicate (policy, bindingType, targetId).
func (u *policyUseCase) Bind(
	ctx context.Context,
	policyID string,
	bindingType policyDomain.BindingType,
	targetID string,
) (*policyDomain.PolicyBinding, error) {
	binding := &policyDomain.PolicyBinding{
		ID:              uuid.NewString(),
		PolicyID:        policyID,
		BindingType:     bindingType,
		BindingTargetID: targetID,
		CreatedAt:       time.Now().UTC(),
	}
	if err := u.bindingRepo.Create(ctx, binding); err != nil {
		return nil, err
	}
	return binding, nil
}

func (u *policyUseCase) Unbind(ctx context.Context, bindingID string) error {
	return u.bindingRepo.Delete(ctx, bindingID)
}

func (u *policyUseCase) ListBindings(ctx context.Context, policyID string) ([]*policyDomain.PolicyBinding, error) {
	return u.bindingRepo.ListByPolicy(ctx, policyID)
}

// Evaluate collects the candidate policy set bound to subject, then applies
// the deny-overrides-allow decision for (path, permission) over that one
// consistent slice.
func (u *policyUseCase) Evaluate(
	ctx context.Context,
	teamID string,
	subject policyDomain.Subject,
	path string,
	permission policyDomain.Permission,
) (policyDomain.Decision, error) {
	policies, err := u.policyRepo.List(ctx, teamID, true)
	if err != nil {
		return policyDomain.Decision{}, err
	}

	bindings, err := u.bindingRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return policyDomain.Decision{}, err
	}

	candidates := CandidatePolicies(policies, bindings, subject)
	return Evaluate(candidates, path, permission), nil
}
