// Package domain defines the core domain models for transit encryption-as-a-
// service: named, versioned keys whose material never leaves a process
// boundary, exposed through encrypt/decrypt/rewrap/data-key operations.
package domain

import "time"

// TransitKey is identified by (TeamID, Name) and owns an embedded,
// envelope-encrypted list of every key version it has ever held. Rotation
// appends to that list; it never removes an entry, so old ciphertexts
// remain decryptable until MinDecryptionVersion is raised past them.
type TransitKey struct {
	ID                   string
	TeamID               string
	Name                 string
	CurrentVersion       int
	MinDecryptionVersion int
	// KeyMaterial is the envelope-encrypted JSON serialisation of
	// []KeyVersion, wrapped under the secret-storage purpose KEK. Plaintext
	// key bytes are never stored here or anywhere else at rest.
	KeyMaterial   string
	Algorithm     string
	IsDeletable   bool
	IsExportable  bool
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// KeyVersion is one entry of a TransitKey's decrypted key-material list: a
// version number paired with its 32-byte key, Base64-encoded. This shape is
// never returned on any response DTO (spec §4.4 secrecy invariant); it exists
// only transiently inside the usecase layer while a request holds it.
type KeyVersion struct {
	Version int    `json:"version"`
	Key     string `json:"key"`
}
