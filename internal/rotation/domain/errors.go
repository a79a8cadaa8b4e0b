package domain

import "github.com/allisson/vaultd/internal/errors"

// Rotation-specific error definitions.
var (
	// ErrPolicyNotFound indicates no rotation policy exists for the secret.
	ErrPolicyNotFound = errors.Wrap(errors.ErrNotFound, "rotation policy not found")

	// ErrPolicyAlreadyExists indicates a rotation policy already exists for the secret.
	ErrPolicyAlreadyExists = errors.Wrap(errors.ErrConflict, "rotation policy already exists")

	// ErrUnsupportedStrategy indicates an unrecognised rotation strategy.
	ErrUnsupportedStrategy = errors.Wrap(errors.ErrInvalidInput, "unsupported rotation strategy")
)
