// Package mocks provides mock implementations of the audit usecase
// package's repository interface for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	auditDomain "github.com/allisson/vaultd/internal/audit/domain"
)

// MockAuditRepository is a mock implementation of usecase.AuditRepository.
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Create(ctx context.Context, entry *auditDomain.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) GetByID(ctx context.Context, id string) (*auditDomain.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auditDomain.Entry), args.Error(1)
}

func (m *MockAuditRepository) Query(
	ctx context.Context,
	teamID string,
	filter auditDomain.Filter,
) ([]*auditDomain.Entry, error) {
	args := m.Called(ctx, teamID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*auditDomain.Entry), args.Error(1)
}
