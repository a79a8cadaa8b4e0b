package usecase

import (
	"context"
	"time"

	leaseDomain "github.com/allisson/vaultd/internal/lease/domain"
	"github.com/allisson/vaultd/internal/metrics"
)

// leaseUseCaseWithMetrics decorates LeaseUseCase with metrics instrumentation.
type leaseUseCaseWithMetrics struct {
	next    LeaseUseCase
	metrics metrics.BusinessMetrics
}

// NewLeaseUseCaseWithMetrics wraps a LeaseUseCase with metrics recording.
func NewLeaseUseCaseWithMetrics(useCase LeaseUseCase, m metrics.BusinessMetrics) LeaseUseCase {
	return &leaseUseCaseWithMetrics{next: useCase, metrics: m}
}

func (l *leaseUseCaseWithMetrics) record(ctx context.Context, op string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	l.metrics.RecordOperation(ctx, "lease", op, status)
	l.metrics.RecordDuration(ctx, "lease", op, time.Since(start), status)
}

func (l *leaseUseCaseWithMetrics) Create(
	ctx context.Context,
	input CreateLeaseInput,
) (*leaseDomain.DynamicLease, *leaseDomain.Credentials, error) {
	start := time.Now()
	lease, creds, err := l.next.Create(ctx, input)
	l.record(ctx, "lease_create", start, err)
	return lease, creds, err
}

func (l *leaseUseCaseWithMetrics) Get(ctx context.Context, id string) (*leaseDomain.DynamicLease, error) {
	start := time.Now()
	lease, err := l.next.Get(ctx, id)
	l.record(ctx, "lease_get", start, err)
	return lease, err
}

func (l *leaseUseCaseWithMetrics) ListBySecretID(ctx context.Context, secretID string) ([]*leaseDomain.DynamicLease, error) {
	start := time.Now()
	leases, err := l.next.ListBySecretID(ctx, secretID)
	l.record(ctx, "lease_list_by_secret", start, err)
	return leases, err
}

func (l *leaseUseCaseWithMetrics) Revoke(ctx context.Context, id, revokedByUserID string) error {
	start := time.Now()
	err := l.next.Revoke(ctx, id, revokedByUserID)
	l.record(ctx, "lease_revoke", start, err)
	return err
}

func (l *leaseUseCaseWithMetrics) Tick(ctx context.Context) error {
	start := time.Now()
	err := l.next.Tick(ctx)
	l.record(ctx, "lease_tick", start, err)
	return err
}
