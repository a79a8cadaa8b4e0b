package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	secretsDomain "github.com/allisson/vaultd/internal/secrets/domain"
)

func TestPostgreSQLSecretRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLSecretRepository(db)
	ctx := context.Background()

	secret := &secretsDomain.Secret{
		TeamID:         "team-1",
		Path:           "/app/api-key",
		Name:           "api-key",
		Type:           secretsDomain.SecretTypeStatic,
		CurrentVersion: 1,
		IsActive:       true,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO secrets").WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.Create(ctx, secret)
	require.NoError(t, err)
	assert.NotEmpty(t, secret.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLSecretRepository_Create_DuplicatePath(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLSecretRepository(db)
	ctx := context.Background()

	secret := &secretsDomain.Secret{TeamID: "team-1", Path: "/app/api-key", Type: secretsDomain.SecretTypeStatic}

	mock.ExpectExec("INSERT INTO secrets").
		WillReturnError(&mockPQError{msg: "duplicate key value violates unique constraint"})

	err = repo.Create(ctx, secret)
	assert.ErrorIs(t, err, secretsDomain.ErrSecretAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLSecretRepository_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLSecretRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM secrets WHERE team_id").
		WithArgs("team-1", "missing-id").
		WillReturnRows(sqlmock.NewRows(nil))

	_, err = repo.GetByID(ctx, "team-1", "missing-id")
	assert.ErrorIs(t, err, secretsDomain.ErrSecretNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLSecretRepository_SoftDelete_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLSecretRepository(db)
	ctx := context.Background()

	mock.ExpectExec("UPDATE secrets SET is_active").WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.SoftDelete(ctx, "team-1", "missing-id")
	assert.ErrorIs(t, err, secretsDomain.ErrSecretNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

// mockPQError is a minimal error stand-in carrying a driver-reported message,
// used to exercise isUniqueViolation without importing the lib/pq driver.
type mockPQError struct{ msg string }

func (e *mockPQError) Error() string { return e.msg }
