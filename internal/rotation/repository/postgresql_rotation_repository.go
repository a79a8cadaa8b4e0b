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

// PostgreSQLRotationPolicyRepository implements RotationPolicyRepository for PostgreSQL.
type PostgreSQLRotationPolicyRepository struct {
	db *sql.DB
}

// NewPostgreSQLRotationPolicyRepository creates a new PostgreSQL RotationPolicy repository.
func NewPostgreSQLRotationPolicyRepository(db *sql.DB) *PostgreSQLRotationPolicyRepository {
	return &PostgreSQLRotationPolicyRepository{db: db}
}

func (p *PostgreSQLRotationPolicyRepository) Create(ctx context.Context, policy *rotationDomain.RotationPolicy) error {
	querier := database.GetTx(ctx, p.db)

	if policy.ID == "" {
		policy.ID = uuid.NewString()
	}

	query := `INSERT INTO rotation_policies
		(id, secret_id, strategy, rotation_interval_hours, random_length, random_charset,
		 external_api_url, external_api_headers_json, script_command, is_active, failure_count,
		 max_failures, last_rotated_at, next_rotation_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

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

func (p *PostgreSQLRotationPolicyRepository) Update(ctx context.Context, policy *rotationDomain.RotationPolicy) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE rotation_policies SET
		rotation_interval_hours = $1, random_length = $2, random_charset = $3,
		external_api_url = $4, external_api_headers_json = $5, script_command = $6,
		is_active = $7, failure_count = $8, max_failures = $9, last_rotated_at = $10,
		next_rotation_at = $11, updated_at = $12
		WHERE secret_id = $13`

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

func (p *PostgreSQLRotationPolicyRepository) GetBySecretID(
	ctx context.Context,
	secretID string,
) (*rotationDomain.RotationPolicy, error) {
	querier := database.GetTx(ctx, p.db)
	query := `SELECT ` + policyColumns + ` FROM rotation_policies WHERE secret_id = $1`
	return scanPolicy(querier.QueryRowContext(ctx, query, secretID))
}

func (p *PostgreSQLRotationPolicyRepository) Delete(ctx context.Context, secretID string) error {
	querier := database.GetTx(ctx, p.db)
	query := `DELETE FROM rotation_policies WHERE secret_id = $1`
	res, err := querier.ExecContext(ctx, query, secretID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete rotation policy")
	}
	return requireRowsAffected(res)
}

func (p *PostgreSQLRotationPolicyRepository) ListDue(
	ctx context.Context,
	now time.Time,
) ([]*rotationDomain.RotationPolicy, error) {
	querier := database.GetTx(ctx, p.db)
	query := `SELECT ` + policyColumns + ` FROM rotation_policies
		WHERE is_active = true AND next_rotation_at < $1
		ORDER BY next_rotation_at ASC`
	rows, err := querier.QueryContext(ctx, query, now)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list due rotation policies")
	}
	defer rows.Close()
	return scanPolicies(rows)
}

// PostgreSQLRotationHistoryRepository implements RotationHistoryRepository for PostgreSQL.
type PostgreSQLRotationHistoryRepository struct {
	db *sql.DB
}

// NewPostgreSQLRotationHistoryRepository creates a new PostgreSQL RotationHistory repository.
func NewPostgreSQLRotationHistoryRepository(db *sql.DB) *PostgreSQLRotationHistoryRepository {
	return &PostgreSQLRotationHistoryRepository{db: db}
}

func (p *PostgreSQLRotationHistoryRepository) Create(ctx context.Context, history *rotationDomain.RotationHistory) error {
	querier := database.GetTx(ctx, p.db)

	if history.ID == "" {
		history.ID = uuid.NewString()
	}

	query := `INSERT INTO rotation_history
		(id, secret_id, path_snapshot, strategy, previous_version, new_version,
		 success, error_message, duration_ms, triggered_by_user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

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

func (p *PostgreSQLRotationHistoryRepository) ListBySecretID(
	ctx context.Context,
	secretID string,
	limit int,
) ([]*rotationDomain.RotationHistory, error) {
	querier := database.GetTx(ctx, p.db)
	query := `SELECT ` + historyColumns + ` FROM rotation_history
		WHERE secret_id = $1 ORDER BY created_at DESC LIMIT $2`
	rows, err := querier.QueryContext(ctx, query, secretID, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list rotation history")
	}
	defer rows.Close()
	return scanHistories(rows)
}
