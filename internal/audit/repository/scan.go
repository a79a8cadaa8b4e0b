// Package repository implements data persistence for the audit domain:
// PostgreSQL and MySQL implementations of AuditRepository.
package repository

import (
	"database/sql"
	"strings"

	auditDomain "github.com/allisson/vaultd/internal/audit/domain"
	apperrors "github.com/allisson/vaultd/internal/errors"
)

const entryColumns = `id, team_id, user_id, operation, path, resource_type, resource_id,
	success, error_message, ip_address, correlation_id, details_json,
	signature, key_id, is_signed, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*auditDomain.Entry, error) {
	var e auditDomain.Entry
	err := row.Scan(
		&e.ID, &e.TeamID, &e.UserID, &e.Operation, &e.Path, &e.ResourceType, &e.ResourceID,
		&e.Success, &e.ErrorMessage, &e.IPAddress, &e.CorrelationID, &e.DetailsJSON,
		&e.Signature, &e.KeyID, &e.IsSigned, &e.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, auditDomain.ErrEntryNotFound
		}
		return nil, apperrors.Wrap(err, "failed to scan audit entry")
	}
	return &e, nil
}

func scanEntries(rows *sql.Rows) ([]*auditDomain.Entry, error) {
	var out []*auditDomain.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate audit entries")
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique")
}
