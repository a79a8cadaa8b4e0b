package domain

import "github.com/allisson/vaultd/internal/errors"

// Audit-specific error definitions.
var (
	// ErrEntryNotFound indicates no audit entry exists with the given id.
	ErrEntryNotFound = errors.Wrap(errors.ErrNotFound, "audit entry not found")

	// ErrSignatureInvalid indicates an entry's HMAC signature does not match
	// its canonicalized content, meaning the row was tampered with or
	// corrupted after being written.
	ErrSignatureInvalid = errors.Wrap(errors.ErrInvalidInput, "audit entry signature invalid")
)
