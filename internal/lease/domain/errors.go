package domain

import "github.com/allisson/vaultd/internal/errors"

// Lease-specific error definitions.
var (
	// ErrLeaseNotFound indicates no lease exists with the given id.
	ErrLeaseNotFound = errors.Wrap(errors.ErrNotFound, "lease not found")

	// ErrNotActive indicates a revoke was attempted on a non-ACTIVE lease.
	ErrNotActive = errors.Wrap(errors.ErrInvalidInput, "lease is not active")

	// ErrNotDynamic indicates a lease was requested against a non-DYNAMIC secret.
	ErrNotDynamic = errors.Wrap(errors.ErrInvalidInput, "secret is not of type DYNAMIC")

	// ErrMissingBackendMetadata indicates the source secret's metadata is
	// missing one of the required backend connection keys.
	ErrMissingBackendMetadata = errors.Wrap(errors.ErrInvalidInput, "secret metadata is missing required backend connection keys")

	// ErrUnsupportedBackend indicates backendType is outside {postgresql, mysql}.
	ErrUnsupportedBackend = errors.Wrap(errors.ErrInvalidInput, "unsupported backend type")
)
