package domain

import "github.com/allisson/vaultd/internal/errors"

// Transit-specific error definitions.
var (
	// ErrTransitKeyNotFound indicates no key exists at (teamId, name) or id.
	ErrTransitKeyNotFound = errors.Wrap(errors.ErrNotFound, "transit key not found")

	// ErrTransitKeyAlreadyExists indicates a key already exists at (teamId, name).
	ErrTransitKeyAlreadyExists = errors.Wrap(errors.ErrConflict, "transit key already exists")

	// ErrVersionBelowMin indicates a decrypt was attempted with a key
	// version older than MinDecryptionVersion.
	ErrVersionBelowMin = errors.Wrap(errors.ErrInvalidInput, "transit key version below minimum decryption version")

	// ErrVersionMissing indicates the embedded keyId names a version that
	// is not present in the key-material list.
	ErrVersionMissing = errors.Wrap(errors.ErrInvalidInput, "transit key version missing")

	// ErrNotDeletable indicates Delete was called on a key with
	// IsDeletable = false.
	ErrNotDeletable = errors.Wrap(errors.ErrInvalidInput, "transit key is not deletable")
)
