package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	transitDomain "github.com/allisson/vaultd/internal/transit/domain"
)

type mockPQError struct{ msg string }

func (e *mockPQError) Error() string { return e.msg }

func TestPostgreSQLTransitKeyRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLTransitKeyRepository(db)
	key := &transitDomain.TransitKey{
		TeamID: "team-1", Name: "app-key", CurrentVersion: 1, MinDecryptionVersion: 1,
		KeyMaterial: "envelope", Algorithm: "AES-256-GCM", IsDeletable: true,
		IsActive: true, CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO transit_keys").WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.Create(context.Background(), key)
	require.NoError(t, err)
	assert.NotEmpty(t, key.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLTransitKeyRepository_Create_Duplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLTransitKeyRepository(db)
	key := &transitDomain.TransitKey{TeamID: "team-1", Name: "app-key"}

	mock.ExpectExec("INSERT INTO transit_keys").
		WillReturnError(&mockPQError{msg: "duplicate key value violates unique constraint"})

	err = repo.Create(context.Background(), key)
	assert.ErrorIs(t, err, transitDomain.ErrTransitKeyAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLTransitKeyRepository_GetByName_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLTransitKeyRepository(db)
	mock.ExpectQuery("SELECT (.+) FROM transit_keys").WillReturnError(sql.ErrNoRows)

	_, err = repo.GetByName(context.Background(), "team-1", "missing")
	assert.ErrorIs(t, err, transitDomain.ErrTransitKeyNotFound)
}

func TestPostgreSQLTransitKeyRepository_Update_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLTransitKeyRepository(db)
	mock.ExpectExec("UPDATE transit_keys").WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.Update(context.Background(), &transitDomain.TransitKey{ID: "missing", TeamID: "team-1"})
	assert.ErrorIs(t, err, transitDomain.ErrTransitKeyNotFound)
}
