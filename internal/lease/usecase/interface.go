// Package usecase implements dynamic-lease issuance: backend user
// provisioning, revocation, and the periodic expiry sweep.
package usecase

import (
	"context"
	"time"

	leaseDomain "github.com/allisson/vaultd/internal/lease/domain"
	secretsDomain "github.com/allisson/vaultd/internal/secrets/domain"
)

// LeaseRepository persists DynamicLease rows.
type LeaseRepository interface {
	Create(ctx context.Context, lease *leaseDomain.DynamicLease) error
	Update(ctx context.Context, lease *leaseDomain.DynamicLease) error
	GetByID(ctx context.Context, id string) (*leaseDomain.DynamicLease, error)
	// ListExpired returns ACTIVE leases whose expiresAt is before now,
	// feeding the expiry sweep.
	ListExpired(ctx context.Context, now time.Time) ([]*leaseDomain.DynamicLease, error)
	ListBySecretID(ctx context.Context, secretID string) ([]*leaseDomain.DynamicLease, error)
}

// SecretsClient is the narrow slice of the secrets use case that lease
// creation depends on: metadata lookup for the DYNAMIC source secret.
type SecretsClient interface {
	GetMetadataUnscoped(ctx context.Context, id string) (*secretsDomain.Secret, error)
	GetMetadataMap(ctx context.Context, id string) (map[string]string, error)
}

// LeaseUseCase is the business-logic surface over the dynamic-lease domain.
type LeaseUseCase interface {
	// Create provisions a new lease and backend user for secretID, returning
	// the lease together with the one-time plaintext credentials.
	Create(ctx context.Context, input CreateLeaseInput) (*leaseDomain.DynamicLease, *leaseDomain.Credentials, error)
	Get(ctx context.Context, id string) (*leaseDomain.DynamicLease, error)
	ListBySecretID(ctx context.Context, secretID string) ([]*leaseDomain.DynamicLease, error)
	// Revoke flips an ACTIVE lease to REVOKED and attempts (best-effort) to
	// drop the backend user.
	Revoke(ctx context.Context, id, revokedByUserID string) error
	// Tick sweeps every lease past its expiresAt, drops the backend user
	// best-effort, and flips it to EXPIRED.
	Tick(ctx context.Context) error
}

// CreateLeaseInput is the argument bundle for LeaseUseCase.Create.
type CreateLeaseInput struct {
	SecretID          string
	TTLSeconds        int
	RequestedByUserID string
}
