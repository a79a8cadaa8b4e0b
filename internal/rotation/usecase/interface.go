// Package usecase implements scheduled secret-value rotation: policy CRUD,
// strategy dispatch, and the periodic due-rotation tick.
package usecase

import (
	"context"
	"time"

	rotationDomain "github.com/allisson/vaultd/internal/rotation/domain"
	secretsDomain "github.com/allisson/vaultd/internal/secrets/domain"
	secretsUsecase "github.com/allisson/vaultd/internal/secrets/usecase"
)

// RotationPolicyRepository persists RotationPolicy rows, at most one per secret.
type RotationPolicyRepository interface {
	Create(ctx context.Context, policy *rotationDomain.RotationPolicy) error
	Update(ctx context.Context, policy *rotationDomain.RotationPolicy) error
	GetBySecretID(ctx context.Context, secretID string) (*rotationDomain.RotationPolicy, error)
	Delete(ctx context.Context, secretID string) error
	// ListDue returns active policies whose nextRotationAt is before now,
	// feeding the due-rotation tick.
	ListDue(ctx context.Context, now time.Time) ([]*rotationDomain.RotationPolicy, error)
}

// RotationHistoryRepository persists the append-only RotationHistory log.
type RotationHistoryRepository interface {
	Create(ctx context.Context, history *rotationDomain.RotationHistory) error
	ListBySecretID(ctx context.Context, secretID string, limit int) ([]*rotationDomain.RotationHistory, error)
}

// SecretsClient is the narrow slice of the secrets use case that rotation
// depends on: unscoped lookup by id (rotation only ever has a secret id, no
// caller team context) and value update.
type SecretsClient interface {
	GetMetadataUnscoped(ctx context.Context, id string) (*secretsDomain.Secret, error)
	Update(ctx context.Context, input secretsUsecase.UpdateSecretInput) (*secretsDomain.Secret, error)
}

// RotationUseCase is the business-logic surface over the rotation domain.
type RotationUseCase interface {
	CreatePolicy(ctx context.Context, input CreatePolicyInput) (*rotationDomain.RotationPolicy, error)
	UpdatePolicy(ctx context.Context, input UpdatePolicyInput) (*rotationDomain.RotationPolicy, error)
	GetPolicy(ctx context.Context, secretID string) (*rotationDomain.RotationPolicy, error)
	DeletePolicy(ctx context.Context, secretID string) error
	ListHistory(ctx context.Context, secretID string, limit int) ([]*rotationDomain.RotationHistory, error)

	// RotateOne runs the full rotate flow (spec §4.6 steps 1-6) for a single
	// policy, recording success or failure to RotationHistory and advancing
	// the policy's scheduling fields regardless of outcome.
	RotateOne(ctx context.Context, policy *rotationDomain.RotationPolicy) error

	// Tick loads every due policy and rotates each in isolation: one
	// policy's failure must never stop the others from running.
	Tick(ctx context.Context) error
}

// CreatePolicyInput is the argument bundle for RotationUseCase.CreatePolicy.
type CreatePolicyInput struct {
	SecretID               string
	Strategy               rotationDomain.Strategy
	RotationIntervalHours  int
	RandomLength           *int
	RandomCharset          *string
	ExternalAPIURL         string
	ExternalAPIHeadersJSON string
	ScriptCommand          string
	MaxFailures            *int
}

// OptionalBool carries a field update that may be explicitly left alone.
type OptionalBool struct {
	Set   bool
	Value bool
}

// OptionalInt carries a field update that may be explicitly left alone.
type OptionalInt struct {
	Set   bool
	Value *int
}

// UpdatePolicyInput is the argument bundle for RotationUseCase.UpdatePolicy.
// A zero Optional* value (Set=false) leaves the corresponding column unchanged.
type UpdatePolicyInput struct {
	SecretID              string
	RotationIntervalHours OptionalInt
	IsActive              OptionalBool
	MaxFailures           OptionalInt
}
