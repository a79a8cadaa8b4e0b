// Package mocks provides mock implementations for testing database-dependent code.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockTxManager is a mock implementation of database.TxManager for testing.
// Unlike a real TxManager it does not open a *sql.Tx; callers that need to
// assert on statements executed "inside" the transaction rely on repository
// mocks observing the same ctx passed through unchanged.
type MockTxManager struct {
	mock.Mock
}

// WithTx mocks database.TxManager.WithTx. When the configured return error
// is nil, it invokes fn(ctx) and returns its result, matching the real
// TxManager's pass-through behavior for tests that don't simulate rollback.
func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}
