package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	policyDomain "github.com/allisson/vaultd/internal/policy/domain"
)

func TestEvaluate_DenyOverridesAllow(t *testing.T) {
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
	policies := []*policyDomain.AccessPolicy{allow, deny}

	readDecision := Evaluate(policies, "/services/app", policyDomain.PermissionRead)
	assert.Equal(t, policyDomain.OutcomeDenied, readDecision.Outcome)
	assert.Equal(t, deny.ID, readDecision.DecidingPolicy.ID)

	writeDecision := Evaluate(policies, "/services/app", policyDomain.PermissionWrite)
	assert.Equal(t, policyDomain.OutcomeAllowed, writeDecision.Outcome)
	assert.Equal(t, allow.ID, writeDecision.DecidingPolicy.ID)
}

func TestEvaluate_DefaultDeny(t *testing.T) {
	decision := Evaluate(nil, "/services/app", policyDomain.PermissionRead)
	assert.Equal(t, policyDomain.OutcomeDefaultDenied, decision.Outcome)
	assert.Nil(t, decision.DecidingPolicy)
}

func TestEvaluate_InactivePolicyIgnored(t *testing.T) {
	allow := &policyDomain.AccessPolicy{
		ID: "allow-1", Name: "allow-all", PathPattern: "/services/*",
		Permissions: policyDomain.NewPermissionSet(policyDomain.PermissionRead),
		IsActive:    false,
	}
	decision := Evaluate([]*policyDomain.AccessPolicy{allow}, "/services/app", policyDomain.PermissionRead)
	assert.Equal(t, policyDomain.OutcomeDefaultDenied, decision.Outcome)
}

func TestEvaluate_MonotoneInDenies(t *testing.T) {
	allow := &policyDomain.AccessPolicy{
		ID: "allow-1", Name: "allow-all", PathPattern: "/services/*",
		Permissions: policyDomain.NewPermissionSet(policyDomain.PermissionRead),
		IsActive:    true,
	}
	before := Evaluate([]*policyDomain.AccessPolicy{allow}, "/services/app", policyDomain.PermissionRead)
	assert.Equal(t, policyDomain.OutcomeAllowed, before.Outcome)

	deny := &policyDomain.AccessPolicy{
		ID: "deny-1", Name: "deny-read", PathPattern: "/services/*",
		Permissions:  policyDomain.NewPermissionSet(policyDomain.PermissionRead),
		IsDenyPolicy: true,
		IsActive:     true,
	}
	after := Evaluate([]*policyDomain.AccessPolicy{allow, deny}, "/services/app", policyDomain.PermissionRead)
	assert.Equal(t, policyDomain.OutcomeDenied, after.Outcome)
}

func TestCandidatePolicies(t *testing.T) {
	policies := []*policyDomain.AccessPolicy{
		{ID: "p1", IsActive: true},
		{ID: "p2", IsActive: true},
		{ID: "p3", IsActive: false},
	}
	bindings := []*policyDomain.PolicyBinding{
		{PolicyID: "p1", BindingType: policyDomain.BindingTypeUser, BindingTargetID: "u1"},
		{PolicyID: "p2", BindingType: policyDomain.BindingTypeTeam, BindingTargetID: "t1"},
		{PolicyID: "p3", BindingType: policyDomain.BindingTypeUser, BindingTargetID: "u1"},
		{PolicyID: "p1", BindingType: policyDomain.BindingTypeUser, BindingTargetID: "someone-else"},
	}
	subject := policyDomain.Subject{UserID: "u1", TeamID: "t1"}

	candidates := CandidatePolicies(policies, bindings, subject)
	assert.Len(t, candidates, 2)
}
