package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	leaseDomain "github.com/allisson/vaultd/internal/lease/domain"
)

type mockPQError struct{ msg string }

func (e *mockPQError) Error() string { return e.msg }

func TestPostgreSQLLeaseRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLLeaseRepository(db)
	now := time.Now().UTC()
	lease := &leaseDomain.DynamicLease{
		ID: "lease-1", SecretID: "secret-1", SecretPath: "db/creds/app",
		BackendType: leaseDomain.BackendTypePostgreSQL, EncryptedCredentials: "ciphertext",
		Status: leaseDomain.StatusActive, TTLSeconds: 3600, ExpiresAt: now.Add(time.Hour),
		MetadataJSON: "{}", CreatedAt: now, UpdatedAt: now,
	}

	mock.ExpectExec("INSERT INTO dynamic_leases").WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.Create(context.Background(), lease)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLLeaseRepository_Create_Duplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLLeaseRepository(db)
	lease := &leaseDomain.DynamicLease{ID: "lease-1", SecretID: "secret-1"}

	mock.ExpectExec("INSERT INTO dynamic_leases").
		WillReturnError(&mockPQError{msg: "duplicate key value violates unique constraint"})

	err = repo.Create(context.Background(), lease)
	assert.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLLeaseRepository_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLLeaseRepository(db)
	mock.ExpectQuery("SELECT (.+) FROM dynamic_leases").WillReturnError(sql.ErrNoRows)

	_, err = repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, leaseDomain.ErrLeaseNotFound)
}

func TestPostgreSQLLeaseRepository_ListExpired(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLLeaseRepository(db)
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "secret_id", "secret_path", "backend_type", "encrypted_credentials", "status",
		"ttl_seconds", "expires_at", "revoked_at", "revoked_by_user_id", "requested_by_user_id",
		"metadata_json", "created_at", "updated_at",
	}).AddRow(
		"lease-1", "secret-1", "db/creds/app", "postgresql", "ciphertext", "ACTIVE",
		3600, now.Add(-time.Minute), nil, nil, nil,
		"{}", now.Add(-time.Hour), now.Add(-time.Hour),
	)
	mock.ExpectQuery("SELECT (.+) FROM dynamic_leases WHERE status").WillReturnRows(rows)

	leases, err := repo.ListExpired(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, leases, 1)
	assert.Equal(t, "secret-1", leases[0].SecretID)
}

func TestPostgreSQLLeaseRepository_Update_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLLeaseRepository(db)
	lease := &leaseDomain.DynamicLease{ID: "missing", Status: leaseDomain.StatusRevoked, UpdatedAt: time.Now().UTC()}

	mock.ExpectExec("UPDATE dynamic_leases SET").WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.Update(context.Background(), lease)
	assert.ErrorIs(t, err, leaseDomain.ErrLeaseNotFound)
}
