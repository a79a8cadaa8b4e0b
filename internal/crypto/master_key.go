package crypto

import (
	apperrors "github.com/allisson/vaultd/internal/errors"
	"github.com/allisson/vaultd/internal/hkdf"
)

// minMasterKeyLen is the floor imposed by SPEC_FULL.md §4.1: the service
// must fail to start if the configured master key is shorter than this.
const minMasterKeyLen = 32

// kekInfoPrefix is prepended to every purpose string before HKDF expansion,
// so that KEKs derived for different purposes never collide even if a
// purpose string happens to be a prefix of another.
var kekInfoPrefix = []byte("vaultd-kek-v1:")

// Well-known KEK purposes used across the service.
const (
	PurposeSecretStorage     = "secret-storage"
	PurposeTransit           = "transit"
	PurposeDynamicCredential = "dynamic-credentials"
	PurposeAuditSigning      = "audit-signing"
)

// MasterKey is the process-wide secret loaded once at startup from
// configuration. It is never persisted by this process and never logged.
// All purpose KEKs are derived from it on demand; none are cached, per
// SPEC_FULL.md §4.1 ("Derivation is on-demand and cache-free").
type MasterKey struct {
	key []byte
}

// NewMasterKey validates and wraps the raw master key bytes loaded from
// configuration. Returns ErrInvalidInput if shorter than 32 bytes.
func NewMasterKey(raw []byte) (*MasterKey, error) {
	if len(raw) < minMasterKeyLen {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "master key must be at least 32 bytes")
	}
	key := make([]byte, len(raw))
	copy(key, raw)
	return &MasterKey{key: key}, nil
}

// Zero overwrites the master key bytes in memory. Call on shutdown only;
// the key is needed for the lifetime of the process otherwise.
func (m *MasterKey) Zero() {
	for i := range m.key {
		m.key[i] = 0
	}
}

// DeriveKEK derives the 32-byte key-encryption-key for the given purpose
// string via HKDF-SHA-256(ikm=master, salt=none, info=prefix||purpose, L=32).
func (m *MasterKey) DeriveKEK(purpose string) ([]byte, error) {
	info := append(append([]byte{}, kekInfoPrefix...), []byte(purpose)...)
	return hkdf.Derive(m.key, nil, info, dekSize)
}
