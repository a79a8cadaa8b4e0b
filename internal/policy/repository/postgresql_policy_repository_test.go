package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	policyDomain "github.com/allisson/vaultd/internal/policy/domain"
)

type mockPQError struct{ msg string }

func (e *mockPQError) Error() string { return e.msg }

func TestPostgreSQLPolicyRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLPolicyRepository(db)
	policy := &policyDomain.AccessPolicy{
		TeamID: "team-1", Name: "allow-all", PathPattern: "/services/*",
		Permissions: policyDomain.NewPermissionSet(policyDomain.PermissionRead),
		IsActive:    true, CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO access_policies").WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.Create(context.Background(), policy)
	require.NoError(t, err)
	assert.NotEmpty(t, policy.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLPolicyRepository_Create_Duplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLPolicyRepository(db)
	policy := &policyDomain.AccessPolicy{TeamID: "team-1", Name: "allow-all"}

	mock.ExpectExec("INSERT INTO access_policies").
		WillReturnError(&mockPQError{msg: "duplicate key value violates unique constraint"})

	err = repo.Create(context.Background(), policy)
	assert.ErrorIs(t, err, policyDomain.ErrPolicyAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLPolicyRepository_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLPolicyRepository(db)
	mock.ExpectQuery("SELECT (.+) FROM access_policies").WillReturnError(sql.ErrNoRows)

	_, err = repo.GetByID(context.Background(), "team-1", "missing")
	assert.ErrorIs(t, err, policyDomain.ErrPolicyNotFound)
}

func TestEncodeDecodePermissions_RoundTrip(t *testing.T) {
	set := policyDomain.NewPermissionSet(policyDomain.PermissionRead, policyDomain.PermissionWrite, policyDomain.PermissionList)
	encoded := encodePermissions(set)
	decoded := decodePermissions(encoded)
	assert.Equal(t, set, decoded)
}
