// Package usecase implements business logic orchestration for the secret
// domain: immutable versioning, retention, metadata, and team-scoped listing.
package usecase

import (
	"context"
	"time"

	secretsDomain "github.com/allisson/vaultd/internal/secrets/domain"
)

// SecretRepository persists Secret rows, identified by ID or by (teamId, path).
type SecretRepository interface {
	Create(ctx context.Context, secret *secretsDomain.Secret) error
	Update(ctx context.Context, secret *secretsDomain.Secret) error
	GetByID(ctx context.Context, teamID, id string) (*secretsDomain.Secret, error)
	GetByPath(ctx context.Context, teamID, path string) (*secretsDomain.Secret, error)
	// GetByIDUnscoped looks up a secret by id alone, without team scoping.
	// Used only by background jobs (retention, rotation) that already
	// operate per-secret-id and have no caller-supplied team context.
	GetByIDUnscoped(ctx context.Context, id string) (*secretsDomain.Secret, error)
	SoftDelete(ctx context.Context, teamID, id string) error
	HardDelete(ctx context.Context, teamID, id string) error
	List(ctx context.Context, teamID string, filter secretsDomain.ListFilter) ([]*secretsDomain.Secret, error)
	ListPaths(ctx context.Context, teamID, pathPrefix string) ([]string, error)
	ListExpiring(ctx context.Context, teamID string, withinHours int) ([]*secretsDomain.Secret, error)
}

// SecretVersionRepository persists immutable SecretVersion rows.
type SecretVersionRepository interface {
	Create(ctx context.Context, version *secretsDomain.SecretVersion) error
	GetByVersionNumber(ctx context.Context, secretID string, versionNumber int) (*secretsDomain.SecretVersion, error)
	// ListNonDestroyedDesc returns non-destroyed versions ordered by
	// versionNumber descending, used by retention's maxVersions rule.
	ListNonDestroyedDesc(ctx context.Context, secretID string) ([]*secretsDomain.SecretVersion, error)
	// ListOlderThan returns non-destroyed versions created before cutoff,
	// used by retention's retentionDays rule.
	ListOlderThan(ctx context.Context, secretID string, cutoff time.Time) ([]*secretsDomain.SecretVersion, error)
	Destroy(ctx context.Context, versionID string) error
}

// SecretMetadataRepository persists the (secret, key) -> value metadata set.
type SecretMetadataRepository interface {
	Replace(ctx context.Context, secretID string, metadata map[string]string) error
	Get(ctx context.Context, secretID string) (map[string]string, error)
}

// SecretUseCase is the business-logic surface over the secret domain.
type SecretUseCase interface {
	Create(ctx context.Context, input CreateSecretInput) (*secretsDomain.Secret, error)
	GetMetadata(ctx context.Context, teamID, id string) (*secretsDomain.Secret, error)
	// GetMetadataUnscoped looks up a secret by id alone, without team
	// scoping. Used only by background jobs (rotation, lease provisioning)
	// that hold a secret id but no caller-supplied team context.
	GetMetadataUnscoped(ctx context.Context, id string) (*secretsDomain.Secret, error)
	// GetMetadataMap returns the (key, value) annotation set attached to a
	// secret, used by dynamic-lease provisioning to read the backend
	// connection parameters off a DYNAMIC secret.
	GetMetadataMap(ctx context.Context, id string) (map[string]string, error)
	GetMetadataByPath(ctx context.Context, teamID, path string) (*secretsDomain.Secret, error)
	ReadValue(ctx context.Context, teamID, path string) (*secretsDomain.Secret, []byte, error)
	ReadVersion(ctx context.Context, teamID, path string, versionNumber int) (*secretsDomain.Secret, []byte, error)
	Update(ctx context.Context, input UpdateSecretInput) (*secretsDomain.Secret, error)
	SoftDelete(ctx context.Context, teamID, id string) error
	HardDelete(ctx context.Context, teamID, id string) error
	List(ctx context.Context, teamID string, filter secretsDomain.ListFilter) ([]*secretsDomain.Secret, error)
	ListPaths(ctx context.Context, teamID, pathPrefix string) ([]string, error)
	ListExpiring(ctx context.Context, teamID string, withinHours int) ([]*secretsDomain.Secret, error)
	ApplyRetention(ctx context.Context, secretID string) error
}

// CreateSecretInput is the argument bundle for SecretUseCase.Create.
type CreateSecretInput struct {
	TeamID        string
	Path          string
	Name          string
	Description   string
	Type          secretsDomain.SecretType
	Value         []byte
	Metadata      map[string]string
	MaxVersions   *int
	RetentionDays *int
	ExpiresAt     *time.Time
	OwnerUserID   string
	ReferenceArn  string
}

// OptionalString carries a field update that may be explicitly left alone.
type OptionalString struct {
	Set   bool
	Value string
}

// OptionalInt carries an optional-int field update that may be explicitly
// left alone, cleared (Set=true, Value=nil), or replaced (Set=true, Value!=nil).
type OptionalInt struct {
	Set   bool
	Value *int
}

// OptionalTime carries an optional-time field update with the same
// leave/clear/replace semantics as OptionalInt.
type OptionalTime struct {
	Set   bool
	Value *time.Time
}

// UpdateSecretInput is the argument bundle for SecretUseCase.Update. A zero
// Optional* value (Set=false) leaves the corresponding column unchanged. A
// nil Metadata map with MetadataSet=false leaves metadata unchanged; a
// non-nil (possibly empty) map with MetadataSet=true fully replaces it.
type UpdateSecretInput struct {
	TeamID            string
	ID                string
	Value             []byte
	ChangeDescription string
	CreatedByUserID   string
	Description       OptionalString
	MaxVersions       OptionalInt
	RetentionDays     OptionalInt
	ExpiresAt         OptionalTime
	Metadata          map[string]string
	MetadataSet       bool
}
