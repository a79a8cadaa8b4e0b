package domain

import "time"

// destroyedSentinel replaces EncryptedValue once a version is destroyed by
// retention. It is never a valid envelope and decrypting it must fail fast.
const destroyedSentinel = "DESTROYED"

// DestroyedSentinel returns the fixed placeholder value written over a
// version's EncryptedValue once it has been destroyed by retention.
func DestroyedSentinel() string { return destroyedSentinel }

// SecretVersion is an immutable child row of exactly one Secret. Once
// IsDestroyed is true, EncryptedValue has been overwritten with
// DestroyedSentinel() and the original ciphertext is unrecoverable.
type SecretVersion struct {
	ID                string
	SecretID          string
	VersionNumber     int
	EncryptedValue    string
	EncryptionKeyID   string
	ChangeDescription string
	CreatedByUserID   string
	IsDestroyed       bool
	CreatedAt         time.Time
}

// SecretMetadata is a (Secret, Key) -> Value association, fully replaced
// whenever the owner supplies a new metadata set.
type SecretMetadata struct {
	SecretID string
	Key      string
	Value    string
}
