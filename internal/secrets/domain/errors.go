// Package domain defines core domain models and errors for secrets.
package domain

import (
	"github.com/allisson/vaultd/internal/errors"
)

// Secret-specific error definitions.
var (
	// ErrSecretNotFound indicates the secret was not found at the specified path or id.
	ErrSecretNotFound = errors.Wrap(errors.ErrNotFound, "secret not found")

	// ErrSecretAlreadyExists indicates a secret already exists at (teamId, path).
	ErrSecretAlreadyExists = errors.Wrap(errors.ErrConflict, "secret already exists")

	// ErrVersionMissing indicates the requested version row does not exist.
	ErrVersionMissing = errors.Wrap(errors.ErrInvalidInput, "secret version missing")

	// ErrDestroyedVersion indicates the requested version has been destroyed by retention.
	ErrDestroyedVersion = errors.Wrap(errors.ErrInvalidInput, "secret version destroyed")

	// ErrNotDynamic indicates a value read was attempted on a secret whose
	// type is not STATIC (a DYNAMIC or REFERENCE secret).
	ErrNotDynamic = errors.Wrap(errors.ErrInvalidInput, "secret is not of type STATIC")
)
