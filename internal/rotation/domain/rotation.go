// Package domain defines the core domain models for scheduled secret
// rotation: one RotationPolicy per secret, and an append-only
// RotationHistory of attempts.
package domain

import "time"

// Strategy selects how a rotation's new value is produced.
type Strategy string

const (
	// StrategyRandomGenerate draws a fresh random string via the crypto
	// service's CSPRNG.
	StrategyRandomGenerate Strategy = "RANDOM_GENERATE"
	// StrategyExternalAPI fetches the new value from an HTTP GET endpoint.
	StrategyExternalAPI Strategy = "EXTERNAL_API"
	// StrategyCustomScript is intentionally unimplemented and always fails
	// with ErrNotImplemented.
	StrategyCustomScript Strategy = "CUSTOM_SCRIPT"
)

// RotationPolicy is at most one per Secret, configuring how and when that
// secret's value is automatically rotated.
type RotationPolicy struct {
	ID                     string
	SecretID               string
	Strategy               Strategy
	RotationIntervalHours  int
	RandomLength           *int
	RandomCharset          *string
	ExternalAPIURL         string
	ExternalAPIHeadersJSON string
	ScriptCommand          string
	IsActive               bool
	FailureCount           int
	MaxFailures            *int
	LastRotatedAt          *time.Time
	NextRotationAt         *time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// RotationHistory is an append-only record of one rotation attempt.
type RotationHistory struct {
	ID               string
	SecretID         string
	PathSnapshot     string
	Strategy         Strategy
	PreviousVersion  int
	NewVersion       *int
	Success          bool
	ErrorMessage     string
	DurationMs       int64
	TriggeredByUserID *string
	CreatedAt        time.Time
}
