package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	auditDomain "github.com/allisson/vaultd/internal/audit/domain"
	"github.com/allisson/vaultd/internal/database"
	apperrors "github.com/allisson/vaultd/internal/errors"
	"github.com/google/uuid"
)

// PostgreSQLAuditRepository implements AuditRepository for PostgreSQL.
type PostgreSQLAuditRepository struct {
	db *sql.DB
}

// NewPostgreSQLAuditRepository creates a new PostgreSQL audit repository.
// db is expected to be the process-wide pool, never a *sql.Tx: Create is
// always called with a context carrying no ambient transaction, so that
// audit writes land in their own, independent transaction.
func NewPostgreSQLAuditRepository(db *sql.DB) *PostgreSQLAuditRepository {
	return &PostgreSQLAuditRepository{db: db}
}

func (p *PostgreSQLAuditRepository) Create(ctx context.Context, entry *auditDomain.Entry) error {
	querier := database.GetTx(ctx, p.db)
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	query := `INSERT INTO audit_entries
		(id, team_id, user_id, operation, path, resource_type, resource_id,
		 success, error_message, ip_address, correlation_id, details_json,
		 signature, key_id, is_signed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := querier.ExecContext(ctx, query,
		entry.ID, entry.TeamID, entry.UserID, entry.Operation, entry.Path, entry.ResourceType, entry.ResourceID,
		entry.Success, entry.ErrorMessage, entry.IPAddress, entry.CorrelationID, entry.DetailsJSON,
		entry.Signature, entry.KeyID, entry.IsSigned, entry.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Wrap(apperrors.ErrConflict, "audit entry already exists")
		}
		return apperrors.Wrap(err, "failed to create audit entry")
	}
	return nil
}

func (p *PostgreSQLAuditRepository) GetByID(ctx context.Context, id string) (*auditDomain.Entry, error) {
	querier := database.GetTx(ctx, p.db)
	query := `SELECT ` + entryColumns + ` FROM audit_entries WHERE id = $1`
	return scanEntry(querier.QueryRowContext(ctx, query, id))
}

func (p *PostgreSQLAuditRepository) Query(
	ctx context.Context,
	teamID string,
	filter auditDomain.Filter,
) ([]*auditDomain.Entry, error) {
	querier := database.GetTx(ctx, p.db)

	var sb strings.Builder
	sb.WriteString(`SELECT ` + entryColumns + ` FROM audit_entries WHERE team_id = $1`)
	args := []any{teamID}
	n := 2

	switch {
	case filter.ResourceType != "" && filter.ResourceID != "":
		sb.WriteString(fmt.Sprintf(" AND resource_type = $%d AND resource_id = $%d", n, n+1))
		args = append(args, filter.ResourceType, filter.ResourceID)
		n += 2
	case filter.UserID != "":
		sb.WriteString(fmt.Sprintf(" AND user_id = $%d", n))
		args = append(args, filter.UserID)
		n++
	case filter.Operation != "":
		sb.WriteString(fmt.Sprintf(" AND operation = $%d", n))
		args = append(args, filter.Operation)
		n++
	case filter.Path != "":
		sb.WriteString(fmt.Sprintf(" AND path = $%d", n))
		args = append(args, filter.Path)
		n++
	case filter.Since != nil || filter.Until != nil:
		if filter.Since != nil {
			sb.WriteString(fmt.Sprintf(" AND created_at >= $%d", n))
			args = append(args, *filter.Since)
			n++
		}
		if filter.Until != nil {
			sb.WriteString(fmt.Sprintf(" AND created_at <= $%d", n))
			args = append(args, *filter.Until)
			n++
		}
	case filter.SuccessSet:
		sb.WriteString(fmt.Sprintf(" AND success = $%d", n))
		args = append(args, filter.SuccessOnly)
		n++
	}

	sb.WriteString(" ORDER BY created_at DESC")

	rows, err := querier.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to query audit entries")
	}
	defer rows.Close()
	return scanEntries(rows)
}
