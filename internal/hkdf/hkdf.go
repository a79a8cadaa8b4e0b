// Package hkdf wraps golang.org/x/crypto/hkdf's RFC 5869 extract-and-expand
// primitives over SHA-256 behind the Extract/Expand/Derive shape vaultd's
// crypto and audit packages depend on, adding the explicit length bounds
// the spec requires (the upstream package instead returns an "entropy limit
// reached" error only once a Reader is actually read past the ceiling).
package hkdf

import (
	"crypto/sha256"
	"fmt"
	"io"

	xhkdf "golang.org/x/crypto/hkdf"

	apperrors "github.com/allisson/vaultd/internal/errors"
)

const (
	hashSize = sha256.Size

	// maxOutputLen is RFC 5869's 255*HashLen ceiling on the expand step.
	maxOutputLen = 255 * hashSize
)

// Extract implements the RFC 5869 extract step: PRK = HMAC-Hash(salt, IKM).
// If salt is empty, a zero-filled block of HashLen bytes is used in its place
// (x/crypto/hkdf.Extract already does this when salt is nil).
func Extract(salt, ikm []byte) []byte {
	return xhkdf.Extract(sha256.New, ikm, salt)
}

// Expand implements the RFC 5869 expand step, producing L bytes of output key
// material from a pseudorandom key and an info string. L must be in (0, 255*32].
func Expand(prk, info []byte, length int) ([]byte, error) {
	if length <= 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "hkdf: length must be positive")
	}
	if length > maxOutputLen {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, fmt.Sprintf("hkdf: length exceeds %d", maxOutputLen))
	}

	okm := make([]byte, length)
	if _, err := io.ReadFull(xhkdf.Expand(sha256.New, prk, info), okm); err != nil {
		return nil, apperrors.Wrap(err, "hkdf: expand failed")
	}
	return okm, nil
}

// Derive runs extract-then-expand in one call: the canonical HKDF(ikm, salt, info, L).
func Derive(ikm, salt, info []byte, length int) ([]byte, error) {
	prk := Extract(salt, ikm)
	return Expand(prk, info, length)
}
