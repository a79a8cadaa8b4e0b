// Package usecase implements business logic orchestration for the transit
// domain: named, versioned encryption keys used by callers to encrypt and
// decrypt arbitrary payloads without ever handling key material directly.
package usecase

import (
	"context"

	transitDomain "github.com/allisson/vaultd/internal/transit/domain"
)

// TransitKeyRepository persists TransitKey rows, identified by ID or by
// (teamId, name).
type TransitKeyRepository interface {
	Create(ctx context.Context, key *transitDomain.TransitKey) error
	Update(ctx context.Context, key *transitDomain.TransitKey) error
	GetByID(ctx context.Context, teamID, id string) (*transitDomain.TransitKey, error)
	// GetByIDUnscoped looks up a key by id alone, without team scoping. Used
	// only by background jobs (rewrap sweeps) that already operate per-key-id.
	GetByIDUnscoped(ctx context.Context, id string) (*transitDomain.TransitKey, error)
	GetByName(ctx context.Context, teamID, name string) (*transitDomain.TransitKey, error)
	Delete(ctx context.Context, teamID, id string) error
	List(ctx context.Context, teamID string) ([]*transitDomain.TransitKey, error)
}

// TransitKeyUseCase is the business-logic surface over the transit domain.
type TransitKeyUseCase interface {
	// Create generates a new named transit key with a single version-1 key.
	Create(ctx context.Context, teamID, name string, isDeletable, isExportable bool) (*transitDomain.TransitKey, error)
	// Rotate appends a new key version and advances currentVersion. Older
	// versions remain usable for decryption until MinDecryptionVersion is
	// raised past them.
	Rotate(ctx context.Context, teamID, name string) (*transitDomain.TransitKey, error)
	// UpdateMinDecryptionVersion sets the floor below which Decrypt refuses
	// older key versions. minVersion must lie in [1, CurrentVersion]; a value
	// below the present floor is accepted and lowers it.
	UpdateMinDecryptionVersion(ctx context.Context, teamID, name string, minVersion int) (*transitDomain.TransitKey, error)
	Delete(ctx context.Context, teamID, id string) error
	Get(ctx context.Context, teamID, name string) (*transitDomain.TransitKey, error)
	List(ctx context.Context, teamID string) ([]*transitDomain.TransitKey, error)
	// Encrypt always uses the current key version.
	Encrypt(ctx context.Context, teamID, name string, plaintext []byte) (string, error)
	// Decrypt parses the version out of the envelope's keyId and looks up
	// the matching key bytes, regardless of whether it is still current.
	Decrypt(ctx context.Context, teamID, name string, envelope string) ([]byte, error)
	// Rewrap re-encrypts an existing envelope under the current key version,
	// without exposing the plaintext to the caller.
	Rewrap(ctx context.Context, teamID, name string, envelope string) (string, error)
	// GenerateDataKey returns a fresh 32-byte DEK: its Base64 plaintext and
	// an envelope of that plaintext under the current key version.
	GenerateDataKey(ctx context.Context, teamID, name string) (plaintextB64 string, wrapped string, err error)
}
