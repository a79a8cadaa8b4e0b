package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/allisson/vaultd/internal/audit/domain"
)

func TestPostgreSQLAuditRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLAuditRepository(db)
	teamID := "team-1"
	entry := &auditDomain.Entry{
		TeamID: &teamID, Operation: "secret.read", ResourceType: "secret",
		Success: true, IPAddress: "10.0.0.1", CorrelationID: "corr-1",
		CreatedAt: time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO audit_entries").WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.Create(context.Background(), entry)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLAuditRepository_Query_ByResource(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLAuditRepository(db)
	rows := sqlmock.NewRows(
		[]string{"id", "team_id", "user_id", "operation", "path", "resource_type", "resource_id",
			"success", "error_message", "ip_address", "correlation_id", "details_json",
			"signature", "key_id", "is_signed", "created_at"},
	).AddRow("entry-1", "team-1", nil, "secret.read", nil, "secret", "secret-1",
		true, nil, "10.0.0.1", "corr-1", nil, nil, nil, false, time.Now().UTC())

	mock.ExpectQuery("SELECT (.+) FROM audit_entries WHERE team_id = (.+) AND resource_type").WillReturnRows(rows)

	entries, err := repo.Query(context.Background(), "team-1", auditDomain.Filter{
		ResourceType: "secret", ResourceID: "secret-1",
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}
