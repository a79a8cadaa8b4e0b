// Package repository implements data persistence for the dynamic-lease
// domain: PostgreSQL and MySQL implementations of LeaseRepository.
package repository

import (
	"database/sql"
	"strings"

	apperrors "github.com/allisson/vaultd/internal/errors"
	leaseDomain "github.com/allisson/vaultd/internal/lease/domain"
)

const leaseColumns = `id, secret_id, secret_path, backend_type, encrypted_credentials, status,
	ttl_seconds, expires_at, revoked_at, revoked_by_user_id, requested_by_user_id,
	metadata_json, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLease(row rowScanner) (*leaseDomain.DynamicLease, error) {
	var l leaseDomain.DynamicLease
	err := row.Scan(
		&l.ID, &l.SecretID, &l.SecretPath, &l.BackendType, &l.EncryptedCredentials, &l.Status,
		&l.TTLSeconds, &l.ExpiresAt, &l.RevokedAt, &l.RevokedByUserID, &l.RequestedByUserID,
		&l.MetadataJSON, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, leaseDomain.ErrLeaseNotFound
		}
		return nil, apperrors.Wrap(err, "failed to scan dynamic lease")
	}
	return &l, nil
}

func scanLeases(rows *sql.Rows) ([]*leaseDomain.DynamicLease, error) {
	var out []*leaseDomain.DynamicLease
	for rows.Next() {
		l, err := scanLease(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate dynamic leases")
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique")
}

func requireRowsAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read rows affected")
	}
	if n == 0 {
		return leaseDomain.ErrLeaseNotFound
	}
	return nil
}
