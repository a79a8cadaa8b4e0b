package repository

import (
	"context"
	"database/sql"
	"strings"

	auditDomain "github.com/allisson/vaultd/internal/audit/domain"
	"github.com/allisson/vaultd/internal/database"
	apperrors "github.com/allisson/vaultd/internal/errors"
	"github.com/google/uuid"
)

// MySQLAuditRepository implements AuditRepository for MySQL.
type MySQLAuditRepository struct {
	db *sql.DB
}

// NewMySQLAuditRepository creates a new MySQL audit repository. db is
// expected to be the process-wide pool; see PostgreSQLAuditRepository for
// why Create must never run against the caller's ambient transaction.
func NewMySQLAuditRepository(db *sql.DB) *MySQLAuditRepository {
	return &MySQLAuditRepository{db: db}
}

func (m *MySQLAuditRepository) Create(ctx context.Context, entry *auditDomain.Entry) error {
	querier := database.GetTx(ctx, m.db)
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	query := `INSERT INTO audit_entries
		(id, team_id, user_id, operation, path, resource_type, resource_id,
		 success, error_message, ip_address, correlation_id, details_json,
		 signature, key_id, is_signed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
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

func (m *MySQLAuditRepository) GetByID(ctx context.Context, id string) (*auditDomain.Entry, error) {
	querier := database.GetTx(ctx, m.db)
	query := `SELECT ` + entryColumns + ` FROM audit_entries WHERE id = ?`
	return scanEntry(querier.QueryRowContext(ctx, query, id))
}

func (m *MySQLAuditRepository) Query(
	ctx context.Context,
	teamID string,
	filter auditDomain.Filter,
) ([]*auditDomain.Entry, error) {
	querier := database.GetTx(ctx, m.db)

	var sb strings.Builder
	sb.WriteString(`SELECT ` + entryColumns + ` FROM audit_entries WHERE team_id = ?`)
	args := []any{teamID}

	switch {
	case filter.ResourceType != "" && filter.ResourceID != "":
		sb.WriteString(" AND resource_type = ? AND resource_id = ?")
		args = append(args, filter.ResourceType, filter.ResourceID)
	case filter.UserID != "":
		sb.WriteString(" AND user_id = ?")
		args = append(args, filter.UserID)
	case filter.Operation != "":
		sb.WriteString(" AND operation = ?")
		args = append(args, filter.Operation)
	case filter.Path != "":
		sb.WriteString(" AND path = ?")
		args = append(args, filter.Path)
	case filter.Since != nil || filter.Until != nil:
		if filter.Since != nil {
			sb.WriteString(" AND created_at >= ?")
			args = append(args, *filter.Since)
		}
		if filter.Until != nil {
			sb.WriteString(" AND created_at <= ?")
			args = append(args, *filter.Until)
		}
	case filter.SuccessSet:
		sb.WriteString(" AND success = ?")
		args = append(args, filter.SuccessOnly)
	}

	sb.WriteString(" ORDER BY created_at DESC")

	rows, err := querier.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to query audit entries")
	}
	defer rows.Close()
	return scanEntries(rows)
}
