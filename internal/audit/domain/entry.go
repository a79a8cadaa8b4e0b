// Package domain defines the core domain model for audit recording: a
// tamper-evident trail of every data-plane operation, signed with an
// HKDF-derived key kept separate from any encryption KEK.
package domain

import "time"

// Entry records one service operation for compliance and security
// monitoring. Exactly one of Success/ErrorMessage is meaningful: a failed
// operation carries ErrorMessage, a succeeded one leaves it nil.
//
// Cryptographic integrity: every entry is signed with HMAC-SHA256 using a
// signing key derived via HKDF from the master key under the
// audit-signing purpose, distinct from any purpose used to encrypt data.
// Signature, KeyID and IsSigned distinguish a signed entry from a legacy
// unsigned one (none are ever produced by this implementation, but the
// shape accommodates rows written before signing existed).
type Entry struct {
	ID            string
	TeamID        *string
	UserID        *string
	Operation     string
	Path          *string
	ResourceType  string
	ResourceID    *string
	Success       bool
	ErrorMessage  *string
	IPAddress     string
	CorrelationID string
	DetailsJSON   *string
	Signature     []byte
	KeyID         *string
	IsSigned      bool
	CreatedAt     time.Time
}

// HasValidSignature reports whether the entry carries a complete
// signature: signed, with a key id and a 32-byte HMAC-SHA256 tag.
func (e *Entry) HasValidSignature() bool {
	return e.IsSigned && e.KeyID != nil && len(e.Signature) == 32
}

// DefaultIPAddress is used when no request-scoped IP is present in context.
const DefaultIPAddress = "system"

// DefaultCorrelationID is used when no request-scoped correlation id is
// present in context.
const DefaultCorrelationID = "no-correlation-id"

// Filter scopes a Query to a team, with at most one further narrowing
// dimension applied in priority order:
// (ResourceType+ResourceID) | UserID | Operation | Path | time range | SuccessOnly.
type Filter struct {
	ResourceType string
	ResourceID   string
	UserID       string
	Operation    string
	Path         string
	Since        *time.Time
	Until        *time.Time
	SuccessOnly  bool
	SuccessSet   bool
}
