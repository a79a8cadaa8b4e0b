package domain

import "github.com/allisson/vaultd/internal/errors"

// Policy-specific error definitions.
var (
	// ErrPolicyNotFound indicates the policy was not found by id or (teamId, name).
	ErrPolicyNotFound = errors.Wrap(errors.ErrNotFound, "access policy not found")

	// ErrPolicyAlreadyExists indicates a policy already exists at (teamId, name).
	ErrPolicyAlreadyExists = errors.Wrap(errors.ErrConflict, "access policy already exists")

	// ErrBindingAlreadyExists indicates a duplicate (policy, bindingType, targetId).
	ErrBindingAlreadyExists = errors.Wrap(errors.ErrConflict, "policy binding already exists")

	// ErrBindingNotFound indicates the requested binding does not exist.
	ErrBindingNotFound = errors.Wrap(errors.ErrNotFound, "policy binding not found")
)
