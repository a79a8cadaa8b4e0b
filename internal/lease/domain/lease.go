// Package domain defines the core domain model for short-lived dynamic
// database credentials: one DynamicLease per provisioned backend user.
package domain

import "time"

// BackendType identifies the target database engine a lease provisions a
// user against.
type BackendType string

const (
	BackendTypePostgreSQL BackendType = "postgresql"
	BackendTypeMySQL      BackendType = "mysql"
)

// Status tracks a DynamicLease through its lifecycle.
type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusExpired Status = "EXPIRED"
	StatusRevoked Status = "REVOKED"
)

// DynamicLease is identified by a human-recognisable leaseId ("lease-<uuid>").
// EncryptedCredentials is an envelope-encrypted JSON blob of
// {username, password, host, port, database, backendType}; MetadataJSON
// mirrors the same fields minus password, and is safe to return on every
// subsequent read.
type DynamicLease struct {
	ID                    string
	SecretID              string
	SecretPath            string
	BackendType           BackendType
	EncryptedCredentials  string
	Status                Status
	TTLSeconds            int
	ExpiresAt             time.Time
	RevokedAt             *time.Time
	RevokedByUserID       *string
	RequestedByUserID     string
	MetadataJSON          string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// Credentials is the plaintext shape serialised into EncryptedCredentials.
// It is only ever held in memory at lease-creation time, never logged.
type Credentials struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	Host        string `json:"host"`
	Port        string `json:"port"`
	Database    string `json:"database"`
	BackendType string `json:"backendType"`
}

// Metadata is the unencrypted annotation set returned on every lease read
// after creation. It deliberately omits Password.
type Metadata struct {
	Host        string `json:"host"`
	Port        string `json:"port"`
	Database    string `json:"database"`
	Username    string `json:"username"`
	BackendType string `json:"backendType"`
}
