package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	databaseMocks "github.com/allisson/vaultd/internal/database/mocks"
	policyDomain "github.com/allisson/vaultd/internal/policy/domain"
	policyMocks "github.com/allisson/vaultd/internal/policy/usecase/mocks"
)

func newPassthroughTxManager() *databaseMocks.MockTxManager {
	m := &databaseMocks.MockTxManager{}
	m.On("WithTx", mock.Anything, mock.Anything).Return(nil)
	return m
}

func TestPolicyUseCase_Create(t *testing.T) {
	ctx := context.Background()
	policyRepo := &policyMocks.MockPolicyRepository{}
	bindingRepo := &policyMocks.MockPolicyBindingRepository{}
	policyRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.AccessPolicy")).Return(nil)

	uc := NewPolicyUseCase(newPassthroughTxManager(), policyRepo, bindingRepo)
	policy, err := uc.Create(ctx, CreatePolicyInput{
		TeamID:      "team-1",
		Name:        "allow-all",
		PathPattern: "/services/*",
		Permissions: policyDomain.NewPermissionSet(policyDomain.PermissionRead),
	})

	require.NoError(t, err)
	assert.True(t, policy.IsActive)
	policyRepo.AssertExpectations(t)
}

func TestPolicyUseCase_Delete_CascadesBindings(t *testing.T) {
	ctx := context.Background()
	policyRepo := &policyMocks.MockPolicyRepository{}
	bindingRepo := &policyMocks.MockPolicyBindingRepository{}
	bindingRepo.On("DeleteByPolicy", mock.Anything, "policy-1").Return(nil)
	policyRepo.On("Delete", mock.Anything, "team-1", "policy-1").Return(nil)

	uc := NewPolicyUseCase(newPassthroughTxManager(), policyRepo, bindingRepo)
	err := uc.Delete(ctx, "team-1", "policy-1")

	require.NoError(t, err)
	bindingRepo.AssertExpectations(t)
	policyRepo.AssertExpectations(t)
}

func TestPolicyUseCase_Evaluate(t *testing.T) {
	ctx := context.Background()
	policyRepo := &policyMocks.MockPolicyRepository{}
	bindingRepo := &policyMocks.MockPolicyBindingRepository{}

	allow := &policyDomain.AccessPolicy{
		ID: "allow-1", Name: "allow-all", PathPattern: "/services/*",
		Permissions: policyDomain.NewPermissionSet(policyDomain.PermissionRead, policyDomain.PermissionWrite),
		IsActive:    true,
	}
	deny := &policyDomain.AccessPolicy{
		ID: "deny-1", Name: "deny-read", PathPattern: "/services/*",
		Permissions:  policyDomain.NewPermissionSet(policyDomain.PermissionRead),
		IsDenyPolicy: true,
		IsActive:     true,
	}
	policyRepo.On("List", mock.Anything, "team-1", true).Return([]*policyDomain.AccessPolicy{allow, deny}, nil)
	bindingRepo.On("ListByTeam", mock.Anything, "team-1").Return([]*policyDomain.PolicyBinding{
		{PolicyID: "allow-1", BindingType: policyDomain.BindingTypeUser, BindingTargetID: "u1"},
		{PolicyID: "deny-1", BindingType: policyDomain.BindingTypeTeam, BindingTargetID: "t1"},
	}, nil)

	uc := NewPolicyUseCase(newPassthroughTxManager(), policyRepo, bindingRepo)
	subject := policyDomain.Subject{UserID: "u1", TeamID: "t1"}

	readDecision, err := uc.Evaluate(ctx, "team-1", subject, "/services/app", policyDomain.PermissionRead)
	require.NoError(t, err)
	assert.Equal(t, policyDomain.OutcomeDenied, readDecision.Outcome)

	writeDecision, err := uc.Evaluate(ctx, "team-1", subject, "/services/app", policyDomain.PermissionWrite)
	require.NoError(t, err)
	assert.Equal(t, policyDomain.OutcomeAllowed, writeDecision.Outcome)
}
