package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/vaultd/internal/database"
	apperrors "github.com/allisson/vaultd/internal/errors"
	rotationDomain "github.com/allisson/vaultd/internal/rotation/domain"
)

// MySQLRotationPolicyRepository implements RotationPolicyRepository for MySQL.
type MySQLRotationPolicyRepository struct {
	db *sql.DB
}

// NewMySQLRotationPolicyRepository creates a new MySQL RotationPolicy repository.
func NewMySQLRotationPolicyRepository(db *sql.DB) *MySQLRotationPolicyRepository {
	return &MySQLRotationPolicyRepository{db: db}
}

func (m *MySQLRotationPolicyRepository) Create(ctx context.Context, policy *rotationDomain.RotationPolicy) error {
	querier := database.GetTx(ctx, m.db)

	if policy.ID == "" {
		policy.ID = uuid.NewString()
	}

	query := `INSERT INTO rotation_policies
		(id, secret_id, strategy, rotation_interval_hours, random_length, random_charset,
		 external_api_url, external_api_headers_json, script_command, is_active, failure_count,
		 max_failures, last_rotated_at, next_rotation_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(ctx, query,
		policy.ID, policy.SecretID, policy.Strategy, policy.RotationIntervalHours,
		policy.RandomLength, policy.RandomCharset, policy.ExternalAPIURL, policy.ExternalAPIHeadersJSON,
		policy.ScriptCommand, policy.IsActive, policy.FailureCount, policy.MaxFailures,
		policy.LastRotatedAt, policy.NextRotationAt, policy.CreatedAt, policy.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return rotationDomain.ErrPolicyAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create rotation policy")
	}
	return nil
}

func (m *MySQLRotationPolicyRepository) Update(ctx context.Context, policy *rotationDomain.RotationPolicy) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE rotation_policies SET
		rotation_interval_hours = ?, random_length = ?, random_charset = ?,
		external_api_url = ?, external_api_headers_json = ?, script_command = ?,
		is_active = ?, failure_count = ?, max_failures = ?, last_rotated_at = ?,
		next_rotation_at = ?, updated_at = ?
		WHERE secret_id = ?`

	res, err := querier.ExecContext(ctx, query,
		policy.RotationIntervalHours, policy.RandomLength, policy.RandomCharset,
		policy.ExternalAPIURL, policy.ExternalAPIHeadersJSON, policy.ScriptCommand,
		policy.IsActive, policy.FailureCount, policy.MaxFailures, policy.LastRotatedAt,
		policy.NextRotationAt, policy.UpdatedAt, policy.SecretID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update rotation policy")
	}
	return requireRowsAffected(res)
}

func (m *MySQLRotationPolicyRepository) GetBySecretID(
	ctx context.Context,
	secretID string,
) (*rotationDomain.RotationPolicy, error) {
	querier := database.GetTx(ctx, m.db)
	query := `SELECT ` + policyColumns + ` FROM rotation_policies WHERE secret_id = ?`
	return scanPolicy(querier.QueryRowContext(ctx, query, secretID))
}

func (m *MySQLRotationPolicyRepository) Delete(ctx context.Context, secretID string) error {
	querier := database.GetTx(ctx, m.db)
	query := `DELETE FROM rotation_policies WHERE secret_id = ?`
	res, err := querier.ExecContext(ctx, query, secretID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete rotation policy")
	}
	return requireRowsAffected(res)
}

func (m *MySQLRotationPolicyRepository) ListDue(
	ctx context.Context,
	now time.Time,
) ([]*rotationDomain.RotationPolicy, error) {
	querier := database.GetTx(ctx, m.db)
	query := `SELECT ` + policyColumns + ` FROM rotation_policies
		WHERE is_active = true AND next_rotation_at < ?
		ORDER BY next_rotation_at ASC`
	rows, err := querier.QueryContext(ctx, query, now)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list due rotation policies")
	}
	defer rows.Close()
	return scanPolicies(rows)
}

// MySQLRotationHistoryRepository implements RotationHistoryRepository for MySQL.
type MySQLRotationHistoryRepository struct {
	db *sql.DB
}

// NewMySQLRotationHistoryRepository creates a new MySQL RotationHistory repository.
func NewMySQLRotationHistoryRepository(db *sql.DB) *MySQLRotationHistoryRepository {
	return &MySQLRotationHistoryRepository{db: db}
}

func (m *MySQLRotationHistoryRepository) Create(ctx context.Context, history *rotationDomain.RotationHistory) error {
	querier := database.GetTx(ctx, m.db)

	if history.ID == "" {
		history.ID = uuid.NewString()
	}

	query := `INSERT INTO rotation_history
		(id, secret_id, path_snapshot, strategy, previous_version, new_version,
		 success, error_message, duration_ms, triggered_by_user_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(ctx, query,
		history.ID, history.SecretID, history.PathSnapshot, history.Strategy, history.PreviousVersion,
		history.NewVersion, history.Success, history.ErrorMessage, history.DurationMs,
		history.TriggeredByUserID, history.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create rotation history")
	}
	return nil
}

func (m *MySQLRotationHistoryRepository) ListBySecretID(
	ctx context.Context,
	secretID string,
	limit int,
) ([]*rotationDomain.RotationHistory, error) {
	querier := database.GetTx(ctx, m.db)
	query := `SELECT ` + historyColumns + ` FROM rotation_history
		WHERE secret_id = ? ORDER BY created_at DESC LIMIT ?`
	rows, err := querier.QueryContext(ctx, query, secretID, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list rotation history")
	}
	defer rows.Close()
	return scanHistories(rows)
}
