// Package domain defines the core domain models for path-addressed,
// team-scoped secrets with immutable versioning and retention.
package domain

import "time"

// SecretType distinguishes how a secret's value is produced and stored.
type SecretType string

const (
	// SecretTypeStatic is a plain encrypted value set by the caller.
	SecretTypeStatic SecretType = "STATIC"
	// SecretTypeDynamic is a secret whose value is a target for lease-backed
	// dynamic credential issuance (see internal/lease).
	SecretTypeDynamic SecretType = "DYNAMIC"
	// SecretTypeReference stores no value at all, only a pointer to an
	// externally managed secret (referenceArn).
	SecretTypeReference SecretType = "REFERENCE"
)

// Secret is identified by (TeamID, Path) and owns its versions and metadata.
// For STATIC/DYNAMIC secrets CurrentVersion is >= 1 after the first write;
// for REFERENCE secrets CurrentVersion is always 0 and no SecretVersion rows
// exist.
type Secret struct {
	ID             string
	TeamID         string
	Path           string
	Name           string
	Description    string
	Type           SecretType
	CurrentVersion int
	MaxVersions    *int
	RetentionDays  *int
	ExpiresAt      *time.Time
	LastAccessedAt *time.Time
	LastRotatedAt  *time.Time
	OwnerUserID    string
	ReferenceArn   string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ListFilter selects at most one filter dimension, applied in priority order:
// SecretType, then PathPrefix, then ActiveOnly, then unfiltered. NameSearch is
// an independent case-insensitive substring match applied on top of whichever
// dimension is selected.
type ListFilter struct {
	SecretType SecretType
	PathPrefix string
	ActiveOnly bool
	NameSearch string
}
