// Package usecase implements business logic orchestration for the audit
// domain: fire-and-forget, HMAC-signed recording of every data-plane
// operation, queryable per spec by team and at most one further filter.
package usecase

import (
	"context"

	auditDomain "github.com/allisson/vaultd/internal/audit/domain"
)

// AuditRepository persists Entry rows and serves scoped queries.
type AuditRepository interface {
	Create(ctx context.Context, entry *auditDomain.Entry) error
	GetByID(ctx context.Context, id string) (*auditDomain.Entry, error)
	Query(ctx context.Context, teamID string, filter auditDomain.Filter) ([]*auditDomain.Entry, error)
}

// AuditUseCase is the business-logic surface over the audit domain.
type AuditUseCase interface {
	// Record writes one audit entry. It never returns an error to the
	// caller: any failure in signing or persistence is logged and
	// swallowed, so a broken audit path can never roll back or fail the
	// primary operation it is recording.
	Record(ctx context.Context, input RecordInput)
	Query(ctx context.Context, teamID string, filter auditDomain.Filter) ([]*auditDomain.Entry, error)
	// VerifySignature recomputes an entry's HMAC and compares it against
	// the stored signature, used by the verify-audit-logs maintenance
	// command to detect tampering.
	VerifySignature(entry *auditDomain.Entry) error
}

// RecordInput is the argument bundle for AuditUseCase.Record. IPAddress and
// CorrelationID are not part of this struct: they are pulled from ctx by
// the usecase itself via the WithIPAddress/WithCorrelationID context
// accessors, defaulting to "system" and "no-correlation-id" respectively
// when the caller never set them (e.g. a background job with no request in
// flight).
type RecordInput struct {
	TeamID       *string
	UserID       *string
	Operation    string
	Path         *string
	ResourceType string
	ResourceID   *string
	Success      bool
	ErrorMessage *string
	DetailsJSON  *string
}
