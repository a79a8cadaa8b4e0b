// Package errors provides standardized domain errors for business logic.
package errors

import (
	"errors"
	"fmt"
)

// Standard domain errors that can be used across all domain modules.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a conflict with existing data.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates missing or invalid authentication credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates insufficient permissions.
	ErrForbidden = errors.New("forbidden")

	// ErrLocked indicates the resource is temporarily locked.
	ErrLocked = errors.New("locked")

	// ErrCryptoAuth indicates an AEAD authentication tag mismatch (wrong key or
	// tampered ciphertext). Never retried.
	ErrCryptoAuth = errors.New("crypto authentication failed")

	// ErrMalformedEnvelope indicates a ciphertext envelope failed to parse due
	// to a structural violation (bad version, out-of-range lengths, truncation).
	ErrMalformedEnvelope = errors.New("malformed envelope")

	// ErrSealed indicates a data-plane operation was attempted while the seal
	// service is not in the UNSEALED state.
	ErrSealed = errors.New("sealed")

	// ErrAlreadySealed indicates seal() was called while already SEALED.
	ErrAlreadySealed = errors.New("already sealed")

	// ErrAlreadyUnsealed indicates submitKeyShare() was called while UNSEALED.
	ErrAlreadyUnsealed = errors.New("already unsealed")

	// ErrUnsealVerifyFailed indicates the reconstructed key did not match the
	// configured master key; collected shares are discarded.
	ErrUnsealVerifyFailed = errors.New("unseal verification failed")

	// ErrRotationFailed wraps a rotation-value-generation failure (transport
	// error, empty body, or other rotation-specific error).
	ErrRotationFailed = errors.New("rotation failed")

	// ErrNotImplemented indicates the requested feature is intentionally
	// unimplemented (CUSTOM_SCRIPT rotation and future stubs).
	ErrNotImplemented = errors.New("not implemented")
)

// New creates a new error with the given message.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted message while preserving the error chain.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
