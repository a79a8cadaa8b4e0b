package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/allisson/vaultd/internal/database"
	apperrors "github.com/allisson/vaultd/internal/errors"
	policyDomain "github.com/allisson/vaultd/internal/policy/domain"
)

// PostgreSQLPolicyBindingRepository implements PolicyBindingRepository for PostgreSQL.
type PostgreSQLPolicyBindingRepository struct {
	db *sql.DB
}

// NewPostgreSQLPolicyBindingRepository creates a new PostgreSQL PolicyBinding repository.
func NewPostgreSQLPolicyBindingRepository(db *sql.DB) *PostgreSQLPolicyBindingRepository {
	return &PostgreSQLPolicyBindingRepository{db: db}
}

func (p *PostgreSQLPolicyBindingRepository) Create(ctx context.Context, binding *policyDomain.PolicyBinding) error {
	querier := database.GetTx(ctx, p.db)
	if binding.ID == "" {
		binding.ID = uuid.NewString()
	}
	query := `INSERT INTO policy_bindings (id, policy_id, binding_type, binding_target_id, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := querier.ExecContext(ctx, query,
		binding.ID, binding.PolicyID, binding.BindingType, binding.BindingTargetID, binding.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return policyDomain.ErrBindingAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create policy binding")
	}
	return nil
}

func (p *PostgreSQLPolicyBindingRepository) DeleteByPolicy(ctx context.Context, policyID string) error {
	querier := database.GetTx(ctx, p.db)
	query := `DELETE FROM policy_bindings WHERE policy_id = $1`
	_, err := querier.ExecContext(ctx, query, policyID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete policy bindings")
	}
	return nil
}

func (p *PostgreSQLPolicyBindingRepository) Delete(ctx context.Context, id string) error {
	querier := database.GetTx(ctx, p.db)
	query := `DELETE FROM policy_bindings WHERE id = $1`
	res, err := querier.ExecContext(ctx, query, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete policy binding")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read rows affected")
	}
	if n == 0 {
		return policyDomain.ErrBindingNotFound
	}
	return nil
}

func (p *PostgreSQLPolicyBindingRepository) ListByPolicy(ctx context.Context, policyID string) ([]*policyDomain.PolicyBinding, error) {
	querier := database.GetTx(ctx, p.db)
	query := `SELECT ` + bindingColumns + ` FROM policy_bindings WHERE policy_id = $1 ORDER BY created_at ASC`
	rows, err := querier.QueryContext(ctx, query, policyID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list policy bindings")
	}
	defer rows.Close()
	return scanBindings(rows)
}

func (p *PostgreSQLPolicyBindingRepository) ListByTeam(ctx context.Context, teamID string) ([]*policyDomain.PolicyBinding, error) {
	querier := database.GetTx(ctx, p.db)
	query := `SELECT pb.id, pb.policy_id, pb.binding_type, pb.binding_target_id, pb.created_at
		FROM policy_bindings pb JOIN access_policies p ON p.id = pb.policy_id
		WHERE p.team_id = $1`
	rows, err := querier.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list team policy bindings")
	}
	defer rows.Close()
	return scanBindings(rows)
}
