package usecase

import (
	"context"
	"time"

	"github.com/allisson/vaultd/internal/metrics"
	transitDomain "github.com/allisson/vaultd/internal/transit/domain"
)

// transitKeyUseCaseWithMetrics decorates TransitKeyUseCase with metrics instrumentation.
type transitKeyUseCaseWithMetrics struct {
	next    TransitKeyUseCase
	metrics metrics.BusinessMetrics
}

// NewTransitKeyUseCaseWithMetrics wraps a TransitKeyUseCase with metrics recording.
func NewTransitKeyUseCaseWithMetrics(useCase TransitKeyUseCase, m metrics.BusinessMetrics) TransitKeyUseCase {
	return &transitKeyUseCaseWithMetrics{next: useCase, metrics: m}
}

func (t *transitKeyUseCaseWithMetrics) record(ctx context.Context, op string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	t.metrics.RecordOperation(ctx, "transit", op, status)
	t.metrics.RecordDuration(ctx, "transit", op, time.Since(start), status)
}

func (t *transitKeyUseCaseWithMetrics) Create(
	ctx context.Context,
	teamID, name string,
	isDeletable, isExportable bool,
) (*transitDomain.TransitKey, error) {
	start := time.Now()
	key, err := t.next.Create(ctx, teamID, name, isDeletable, isExportable)
	t.record(ctx, "transit_key_create", start, err)
	return key, err
}

func (t *transitKeyUseCaseWithMetrics) Rotate(ctx context.Context, teamID, name string) (*transitDomain.TransitKey, error) {
	start := time.Now()
	key, err := t.next.Rotate(ctx, teamID, name)
	t.record(ctx, "transit_key_rotate", start, err)
	return key, err
}

func (t *transitKeyUseCaseWithMetrics) UpdateMinDecryptionVersion(
	ctx context.Context,
	teamID, name string,
	minVersion int,
) (*transitDomain.TransitKey, error) {
	start := time.Now()
	key, err := t.next.UpdateMinDecryptionVersion(ctx, teamID, name, minVersion)
	t.record(ctx, "transit_key_update_min_version", start, err)
	return key, err
}

func (t *transitKeyUseCaseWithMetrics) Delete(ctx context.Context, teamID, id string) error {
	start := time.Now()
	err := t.next.Delete(ctx, teamID, id)
	t.record(ctx, "transit_key_delete", start, err)
	return err
}

func (t *transitKeyUseCaseWithMetrics) Get(ctx context.Context, teamID, name string) (*transitDomain.TransitKey, error) {
	start := time.Now()
	key, err := t.next.Get(ctx, teamID, name)
	t.record(ctx, "transit_key_get", start, err)
	return key, err
}

func (t *transitKeyUseCaseWithMetrics) List(ctx context.Context, teamID string) ([]*transitDomain.TransitKey, error) {
	start := time.Now()
	keys, err := t.next.List(ctx, teamID)
	t.record(ctx, "transit_key_list", start, err)
	return keys, err
}

func (t *transitKeyUseCaseWithMetrics) Encrypt(
	ctx context.Context,
	teamID, name string,
	plaintext []byte,
) (string, error) {
	start := time.Now()
	env, err := t.next.Encrypt(ctx, teamID, name, plaintext)
	t.record(ctx, "transit_encrypt", start, err)
	return env, err
}

func (t *transitKeyUseCaseWithMetrics) Decrypt(
	ctx context.Context,
	teamID, name string,
	envelope string,
) ([]byte, error) {
	start := time.Now()
	plaintext, err := t.next.Decrypt(ctx, teamID, name, envelope)
	t.record(ctx, "transit_decrypt", start, err)
	return plaintext, err
}

func (t *transitKeyUseCaseWithMetrics) Rewrap(
	ctx context.Context,
	teamID, name string,
	envelope string,
) (string, error) {
	start := time.Now()
	env, err := t.next.Rewrap(ctx, teamID, name, envelope)
	t.record(ctx, "transit_rewrap", start, err)
	return env, err
}

func (t *transitKeyUseCaseWithMetrics) GenerateDataKey(
	ctx context.Context,
	teamID, name string,
) (string, string, error) {
	start := time.Now()
	plaintextB64, wrapped, err := t.next.GenerateDataKey(ctx, teamID, name)
	t.record(ctx, "transit_generate_data_key", start, err)
	return plaintextB64, wrapped, err
}
