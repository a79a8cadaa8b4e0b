// Package mocks provides mock implementations of the policy usecase
// package's repository interfaces for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	policyDomain "github.com/allisson/vaultd/internal/policy/domain"
)

// MockPolicyRepository is a mock implementation of usecase.PolicyRepository.
type MockPolicyRepository struct {
	mock.Mock
}

func (m *MockPolicyRepository) Create(ctx context.Context, policy *policyDomain.AccessPolicy) error {
	args := m.Called(ctx, policy)
	return args.Error(0)
}

func (m *MockPolicyRepository) Update(ctx context.Context, policy *policyDomain.AccessPolicy) error {
	args := m.Called(ctx, policy)
	return args.Error(0)
}

func (m *MockPolicyRepository) GetByID(ctx context.Context, teamID, id string) (*policyDomain.AccessPolicy, error) {
	args := m.Called(ctx, teamID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*policyDomain.AccessPolicy), args.Error(1)
}

func (m *MockPolicyRepository) GetByName(ctx context.Context, teamID, name string) (*policyDomain.AccessPolicy, error) {
	args := m.Called(ctx, teamID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*policyDomain.AccessPolicy), args.Error(1)
}

func (m *MockPolicyRepository) Delete(ctx context.Context, teamID, id string) error {
	args := m.Called(ctx, teamID, id)
	return args.Error(0)
}

func (m *MockPolicyRepository) List(ctx context.Context, teamID string, activeOnly bool) ([]*policyDomain.AccessPolicy, error) {
	args := m.Called(ctx, teamID, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*policyDomain.AccessPolicy), args.Error(1)
}

// MockPolicyBindingRepository is a mock implementation of usecase.PolicyBindingRepository.
type MockPolicyBindingRepository struct {
	mock.Mock
}

func (m *MockPolicyBindingRepository) Create(ctx context.Context, binding *policyDomain.PolicyBinding) error {
	args := m.Called(ctx, binding)
	return args.Error(0)
}

func (m *MockPolicyBindingRepository) DeleteByPolicy(ctx context.Context, policyID string) error {
	args := m.Called(ctx, policyID)
	return args.Error(0)
}

func (m *MockPolicyBindingRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPolicyBindingRepository) ListByPolicy(ctx context.Context, policyID string) ([]*policyDomain.PolicyBinding, error) {
	args := m.Called(ctx, policyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*policyDomain.PolicyBinding), args.Error(1)
}

func (m *MockPolicyBindingRepository) ListByTeam(ctx context.Context, teamID string) ([]*policyDomain.PolicyBinding, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*policyDomain.PolicyBinding), args.Error(1)
}
