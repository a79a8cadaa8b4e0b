package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"

	apperrors "github.com/allisson/vaultd/internal/errors"
)

// aesGCM wraps a single AES-256-GCM AEAD instance. Adapted from the
// envelope-encryption cipher shape used throughout the codebase: a thin
// struct around a stdlib cipher.AEAD, stateless and safe for concurrent use
// across goroutines since it holds no mutable fields after construction.
type aesGCM struct {
	aead cipher.AEAD
}

// newAESGCM builds an AES-256-GCM cipher from a 32-byte key.
func newAESGCM(key []byte) (*aesGCM, error) {
	if len(key) != dekSize {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "aes-gcm: key must be exactly 32 bytes")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "aes-gcm: invalid key")
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "aes-gcm: failed to init gcm")
	}

	return &aesGCM{aead: aead}, nil
}

// seal encrypts plaintext with a freshly generated nonce, returning the
// nonce and the ciphertext with the authentication tag appended.
func (a *aesGCM) seal(plaintext []byte) (nonce, ciphertext []byte, err error) {
	nonce = make([]byte, a.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInvalidInput, "aes-gcm: failed to generate nonce")
	}
	ciphertext = a.aead.Seal(nil, nonce, plaintext, nil)
	return nonce, ciphertext, nil
}

// open decrypts ciphertext+tag with the given nonce, returning
// ErrCryptoAuth on any authentication failure.
func (a *aesGCM) open(nonce, ciphertext []byte) ([]byte, error) {
	if len(nonce) != a.aead.NonceSize() {
		return nil, apperrors.Wrap(apperrors.ErrMalformedEnvelope, "aes-gcm: invalid nonce size")
	}
	plaintext, err := a.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, apperrors.ErrCryptoAuth
	}
	return plaintext, nil
}
