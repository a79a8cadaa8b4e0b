// Package repository implements data persistence for the rotation domain:
// PostgreSQL and MySQL implementations of RotationPolicyRepository and
// RotationHistoryRepository.
package repository

import (
	"database/sql"
	"strings"

	apperrors "github.com/allisson/vaultd/internal/errors"
	rotationDomain "github.com/allisson/vaultd/internal/rotation/domain"
)

const policyColumns = `id, secret_id, strategy, rotation_interval_hours, random_length, random_charset,
	external_api_url, external_api_headers_json, script_command, is_active, failure_count,
	max_failures, last_rotated_at, next_rotation_at, created_at, updated_at`

const historyColumns = `id, secret_id, path_snapshot, strategy, previous_version, new_version,
	success, error_message, duration_ms, triggered_by_user_id, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPolicy(row rowScanner) (*rotationDomain.RotationPolicy, error) {
	var p rotationDomain.RotationPolicy
	err := row.Scan(
		&p.ID, &p.SecretID, &p.Strategy, &p.RotationIntervalHours, &p.RandomLength, &p.RandomCharset,
		&p.ExternalAPIURL, &p.ExternalAPIHeadersJSON, &p.ScriptCommand, &p.IsActive, &p.FailureCount,
		&p.MaxFailures, &p.LastRotatedAt, &p.NextRotationAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, rotationDomain.ErrPolicyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to scan rotation policy")
	}
	return &p, nil
}

func scanPolicies(rows *sql.Rows) ([]*rotationDomain.RotationPolicy, error) {
	var out []*rotationDomain.RotationPolicy
	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate rotation policies")
	}
	return out, nil
}

func scanHistory(row rowScanner) (*rotationDomain.RotationHistory, error) {
	var h rotationDomain.RotationHistory
	err := row.Scan(
		&h.ID, &h.SecretID, &h.PathSnapshot, &h.Strategy, &h.PreviousVersion, &h.NewVersion,
		&h.Success, &h.ErrorMessage, &h.DurationMs, &h.TriggeredByUserID, &h.CreatedAt,
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to scan rotation history")
	}
	return &h, nil
}

func scanHistories(rows *sql.Rows) ([]*rotationDomain.RotationHistory, error) {
	var out []*rotationDomain.RotationHistory
	for rows.Next() {
		h, err := scanHistory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate rotation history")
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
		return rotationDomain.ErrPolicyNotFound
	}
	return nil
}
