package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rotationDomain "github.com/allisson/vaultd/internal/rotation/domain"
)

type mockPQError struct{ msg string }

func (e *mockPQError) Error() string { return e.msg }

func TestPostgreSQLRotationPolicyRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLRotationPolicyRepository(db)
	next := time.Now().UTC().Add(24 * time.Hour)
	policy := &rotationDomain.RotationPolicy{
		SecretID: "secret-1", Strategy: rotationDomain.StrategyRandomGenerate,
		RotationIntervalHours: 24, IsActive: true, NextRotationAt: &next,
		CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO rotation_policies").WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.Create(context.Background(), policy)
	require.NoError(t, err)
	assert.NotEmpty(t, policy.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLRotationPolicyRepository_Create_Duplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLRotationPolicyRepository(db)
	policy := &rotationDomain.RotationPolicy{SecretID: "secret-1", Strategy: rotationDomain.StrategyRandomGenerate}

	mock.ExpectExec("INSERT INTO rotation_policies").
		WillReturnError(&mockPQError{msg: "duplicate key value violates unique constraint"})

	err = repo.Create(context.Background(), policy)
	assert.ErrorIs(t, err, rotationDomain.ErrPolicyAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLRotationPolicyRepository_GetBySecretID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLRotationPolicyRepository(db)
	mock.ExpectQuery("SELECT (.+) FROM rotation_policies").WillReturnError(sql.ErrNoRows)

	_, err = repo.GetBySecretID(context.Background(), "missing")
	assert.ErrorIs(t, err, rotationDomain.ErrPolicyNotFound)
}

func TestPostgreSQLRotationPolicyRepository_ListDue(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLRotationPolicyRepository(db)
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "secret_id", "strategy", "rotation_interval_hours", "random_length", "random_charset",
		"external_api_url", "external_api_headers_json", "script_command", "is_active", "failure_count",
		"max_failures", "last_rotated_at", "next_rotation_at", "created_at", "updated_at",
	}).AddRow(
		"policy-1", "secret-1", "RANDOM_GENERATE", 24, nil, nil,
		"", "", "", true, 0,
		nil, nil, now.Add(-time.Hour), now, now,
	)
	mock.ExpectQuery("SELECT (.+) FROM rotation_policies WHERE is_active").WillReturnRows(rows)

	policies, err := repo.ListDue(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, policies, 1)
	assert.Equal(t, "secret-1", policies[0].SecretID)
}

func TestPostgreSQLRotationHistoryRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLRotationHistoryRepository(db)
	history := &rotationDomain.RotationHistory{
		SecretID: "secret-1", Strategy: rotationDomain.StrategyRandomGenerate,
		PreviousVersion: 1, Success: true, CreatedAt: time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO rotation_history").WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.Create(context.Background(), history)
	require.NoError(t, err)
	assert.NotEmpty(t, history.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
