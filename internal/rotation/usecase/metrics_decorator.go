package usecase

import (
	"context"
	"time"

	"github.com/allisson/vaultd/internal/metrics"
	rotationDomain "github.com/allisson/vaultd/internal/rotation/domain"
)

// rotationUseCaseWithMetrics decorates RotationUseCase with metrics instrumentation.
type rotationUseCaseWithMetrics struct {
	next    RotationUseCase
	metrics metrics.BusinessMetrics
}

// NewRotationUseCaseWithMetrics wraps a RotationUseCase with metrics recording.
func NewRotationUseCaseWithMetrics(useCase RotationUseCase, m metrics.BusinessMetrics) RotationUseCase {
	return &rotationUseCaseWithMetrics{next: useCase, metrics: m}
}

func (r *rotationUseCaseWithMetrics) record(ctx context.Context, op string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	r.metrics.RecordOperation(ctx, "rotation", op, status)
	r.metrics.RecordDuration(ctx, "rotation", op, time.Since(start), status)
}

func (r *rotationUseCaseWithMetrics) CreatePolicy(
	ctx context.Context,
	input CreatePolicyInput,
) (*rotationDomain.RotationPolicy, error) {
	start := time.Now()
	policy, err := r.next.CreatePolicy(ctx, input)
	r.record(ctx, "rotation_policy_create", start, err)
	return policy, err
}

func (r *rotationUseCaseWithMetrics) UpdatePolicy(
	ctx context.Context,
	input UpdatePolicyInput,
) (*rotationDomain.RotationPolicy, error) {
	start := time.Now()
	policy, err := r.next.UpdatePolicy(ctx, input)
	r.record(ctx, "rotation_policy_update", start, err)
	return policy, err
}

func (r *rotationUseCaseWithMetrics) GetPolicy(ctx context.Context, secretID string) (*rotationDomain.RotationPolicy, error) {
	start := time.Now()
	policy, err := r.next.GetPolicy(ctx, secretID)
	r.record(ctx, "rotation_policy_get", start, err)
	return policy, err
}

func (r *rotationUseCaseWithMetrics) DeletePolicy(ctx context.Context, secretID string) error {
	start := time.Now()
	err := r.next.DeletePolicy(ctx, secretID)
	r.record(ctx, "rotation_policy_delete", start, err)
	return err
}

func (r *rotationUseCaseWithMetrics) ListHistory(
	ctx context.Context,
	secretID string,
	limit int,
) ([]*rotationDomain.RotationHistory, error) {
	start := time.Now()
	history, err := r.next.ListHistory(ctx, secretID, limit)
	r.record(ctx, "rotation_list_history", start, err)
	return history, err
}

func (r *rotationUseCaseWithMetrics) RotateOne(ctx context.Context, policy *rotationDomain.RotationPolicy) error {
	start := time.Now()
	err := r.next.RotateOne(ctx, policy)
	r.record(ctx, "rotation_rotate_one", start, err)
	return err
}

func (r *rotationUseCaseWithMetrics) Tick(ctx context.Context) error {
	start := time.Now()
	err := r.next.Tick(ctx)
	r.record(ctx, "rotation_tick", start, err)
	return err
}
