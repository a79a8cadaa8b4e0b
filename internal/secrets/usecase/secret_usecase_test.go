package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/vaultd/internal/crypto"
	databaseMocks "github.com/allisson/vaultd/internal/database/mocks"
	secretsDomain "github.com/allisson/vaultd/internal/secrets/domain"
	secretsUsecaseMocks "github.com/allisson/vaultd/internal/secrets/usecase/mocks"
)

func newTestCryptoService(t *testing.T) *crypto.Service {
	t.Helper()
	masterKey, err := crypto.NewMasterKey([]byte("01234567890123456789012345678901"))
	require.NoError(t, err)
	return crypto.NewService(masterKey)
}

func newPassthroughTxManager() *databaseMocks.MockTxManager {
	m := &databaseMocks.MockTxManager{}
	m.On("WithTx", mock.Anything, mock.Anything).Return(nil)
	return m
}

func TestSecretUseCase_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("StaticSecretWithValue", func(t *testing.T) {
		txManager := newPassthroughTxManager()
		secretRepo := &secretsUsecaseMocks.MockSecretRepository{}
		versionRepo := &secretsUsecaseMocks.MockSecretVersionRepository{}
		metadataRepo := &secretsUsecaseMocks.MockSecretMetadataRepository{}
		cryptoSvc := newTestCryptoService(t)

		secretRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Secret")).Return(nil)
		versionRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.SecretVersion")).Return(nil)
		metadataRepo.On("Replace", mock.Anything, mock.Anything, map[string]string{"env": "prod"}).Return(nil)

		uc := NewSecretUseCase(txManager, secretRepo, versionRepo, metadataRepo, cryptoSvc)

		secret, err := uc.Create(ctx, CreateSecretInput{
			TeamID:   "team-1",
			Path:     "/app/api-key",
			Name:     "api-key",
			Type:     secretsDomain.SecretTypeStatic,
			Value:    []byte("super-secret"),
			Metadata: map[string]string{"env": "prod"},
		})

		require.NoError(t, err)
		assert.Equal(t, 1, secret.CurrentVersion)
		assert.True(t, secret.IsActive)
		secretRepo.AssertExpectations(t)
		versionRepo.AssertExpectations(t)
		metadataRepo.AssertExpectations(t)
	})

	t.Run("DynamicSecretSkipsVersionCreation", func(t *testing.T) {
		txManager := newPassthroughTxManager()
		secretRepo := &secretsUsecaseMocks.MockSecretRepository{}
		versionRepo := &secretsUsecaseMocks.MockSecretVersionRepository{}
		metadataRepo := &secretsUsecaseMocks.MockSecretMetadataRepository{}
		cryptoSvc := newTestCryptoService(t)

		secretRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Secret")).Return(nil)

		uc := NewSecretUseCase(txManager, secretRepo, versionRepo, metadataRepo, cryptoSvc)

		secret, err := uc.Create(ctx, CreateSecretInput{
			TeamID: "team-1",
			Path:   "/db/dynamic-creds",
			Name:   "dynamic-creds",
			Type:   secretsDomain.SecretTypeDynamic,
		})

		require.NoError(t, err)
		assert.Equal(t, secretsDomain.SecretTypeDynamic, secret.Type)
		versionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestSecretUseCase_ReadValue(t *testing.T) {
	ctx := context.Background()
	cryptoSvc := newTestCryptoService(t)

	encrypted, err := cryptoSvc.Encrypt([]byte("plaintext-value"))
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		secretRepo := &secretsUsecaseMocks.MockSecretRepository{}
		versionRepo := &secretsUsecaseMocks.MockSecretVersionRepository{}
		metadataRepo := &secretsUsecaseMocks.MockSecretMetadataRepository{}
		txManager := newPassthroughTxManager()

		secret := &secretsDomain.Secret{
			ID:             "secret-1",
			TeamID:         "team-1",
			Path:           "/app/api-key",
			Type:           secretsDomain.SecretTypeStatic,
			CurrentVersion: 1,
		}
		version := &secretsDomain.SecretVersion{
			SecretID:       secret.ID,
			VersionNumber:  1,
			EncryptedValue: encrypted,
		}

		secretRepo.On("GetByPath", mock.Anything, "team-1", "/app/api-key").Return(secret, nil)
		versionRepo.On("GetByVersionNumber", mock.Anything, secret.ID, 1).Return(version, nil)
		secretRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Secret")).Return(nil)

		uc := NewSecretUseCase(txManager, secretRepo, versionRepo, metadataRepo, cryptoSvc)

		_, value, err := uc.ReadValue(ctx, "team-1", "/app/api-key")
		require.NoError(t, err)
		assert.Equal(t, "plaintext-value", string(value))
	})

	t.Run("DestroyedVersion", func(t *testing.T) {
		secretRepo := &secretsUsecaseMocks.MockSecretRepository{}
		versionRepo := &secretsUsecaseMocks.MockSecretVersionRepository{}
		metadataRepo := &secretsUsecaseMocks.MockSecretMetadataRepository{}
		txManager := newPassthroughTxManager()

		secret := &secretsDomain.Secret{
			ID: "secret-1", TeamID: "team-1", Path: "/app/api-key",
			Type: secretsDomain.SecretTypeStatic, CurrentVersion: 1,
		}
		version := &secretsDomain.SecretVersion{
			SecretID: secret.ID, VersionNumber: 1, IsDestroyed: true,
		}

		secretRepo.On("GetByPath", mock.Anything, "team-1", "/app/api-key").Return(secret, nil)
		versionRepo.On("GetByVersionNumber", mock.Anything, secret.ID, 1).Return(version, nil)

		uc := NewSecretUseCase(txManager, secretRepo, versionRepo, metadataRepo, cryptoSvc)

		_, _, err := uc.ReadValue(ctx, "team-1", "/app/api-key")
		assert.ErrorIs(t, err, secretsDomain.ErrDestroyedVersion)
	})

	t.Run("NotStaticSecret", func(t *testing.T) {
		secretRepo := &secretsUsecaseMocks.MockSecretRepository{}
		versionRepo := &secretsUsecaseMocks.MockSecretVersionRepository{}
		metadataRepo := &secretsUsecaseMocks.MockSecretMetadataRepository{}
		txManager := newPassthroughTxManager()

		secret := &secretsDomain.Secret{
			ID: "secret-2", TeamID: "team-1", Path: "/db/dynamic-creds",
			Type: secretsDomain.SecretTypeDynamic,
		}
		secretRepo.On("GetByPath", mock.Anything, "team-1", "/db/dynamic-creds").Return(secret, nil)

		uc := NewSecretUseCase(txManager, secretRepo, versionRepo, metadataRepo, cryptoSvc)

		_, _, err := uc.ReadValue(ctx, "team-1", "/db/dynamic-creds")
		assert.ErrorIs(t, err, secretsDomain.ErrNotDynamic)
	})
}

func TestSecretUseCase_Update(t *testing.T) {
	ctx := context.Background()
	cryptoSvc := newTestCryptoService(t)

	t.Run("NewValueBumpsVersionAndAppliesRetention", func(t *testing.T) {
		secretRepo := &secretsUsecaseMocks.MockSecretRepository{}
		versionRepo := &secretsUsecaseMocks.MockSecretVersionRepository{}
		metadataRepo := &secretsUsecaseMocks.MockSecretMetadataRepository{}
		txManager := newPassthroughTxManager()

		maxVersions := 2
		secret := &secretsDomain.Secret{
			ID: "secret-1", TeamID: "team-1", Path: "/app/api-key",
			Type: secretsDomain.SecretTypeStatic, CurrentVersion: 1,
			MaxVersions: &maxVersions,
		}

		secretRepo.On("GetByID", mock.Anything, "team-1", "secret-1").Return(secret, nil)
		versionRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.SecretVersion")).Return(nil)
		secretRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Secret")).Return(nil)
		secretRepo.On("GetByIDUnscoped", mock.Anything, "secret-1").Return(secret, nil)
		versionRepo.On("ListNonDestroyedDesc", mock.Anything, "secret-1").Return(
			[]*secretsDomain.SecretVersion{
				{ID: "v3", VersionNumber: 3}, {ID: "v2", VersionNumber: 2}, {ID: "v1", VersionNumber: 1},
			}, nil,
		)
		versionRepo.On("Destroy", mock.Anything, "v1").Return(nil)

		uc := NewSecretUseCase(txManager, secretRepo, versionRepo, metadataRepo, cryptoSvc)

		updated, err := uc.Update(ctx, UpdateSecretInput{
			TeamID: "team-1",
			ID:     "secret-1",
			Value:  []byte("new-value"),
		})

		require.NoError(t, err)
		assert.Equal(t, 2, updated.CurrentVersion)
		versionRepo.AssertExpectations(t)
	})

	t.Run("MetadataOnlyUpdateSkipsVersioning", func(t *testing.T) {
		secretRepo := &secretsUsecaseMocks.MockSecretRepository{}
		versionRepo := &secretsUsecaseMocks.MockSecretVersionRepository{}
		metadataRepo := &secretsUsecaseMocks.MockSecretMetadataRepository{}
		txManager := newPassthroughTxManager()

		secret := &secretsDomain.Secret{
			ID: "secret-1", TeamID: "team-1", Path: "/app/api-key",
			Type: secretsDomain.SecretTypeStatic, CurrentVersion: 1,
		}

		secretRepo.On("GetByID", mock.Anything, "team-1", "secret-1").Return(secret, nil)
		secretRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Secret")).Return(nil)
		metadataRepo.On("Replace", mock.Anything, "secret-1", map[string]string{"tier": "gold"}).Return(nil)

		uc := NewSecretUseCase(txManager, secretRepo, versionRepo, metadataRepo, cryptoSvc)

		updated, err := uc.Update(ctx, UpdateSecretInput{
			TeamID:      "team-1",
			ID:          "secret-1",
			Metadata:    map[string]string{"tier": "gold"},
			MetadataSet: true,
		})

		require.NoError(t, err)
		assert.Equal(t, 1, updated.CurrentVersion)
		versionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestSecretUseCase_ApplyRetention(t *testing.T) {
	ctx := context.Background()
	cryptoSvc := newTestCryptoService(t)
	txManager := newPassthroughTxManager()

	t.Run("RetentionDaysDestroysOldVersions", func(t *testing.T) {
		secretRepo := &secretsUsecaseMocks.MockSecretRepository{}
		versionRepo := &secretsUsecaseMocks.MockSecretVersionRepository{}
		metadataRepo := &secretsUsecaseMocks.MockSecretMetadataRepository{}

		retentionDays := 30
		secret := &secretsDomain.Secret{ID: "secret-1", CurrentVersion: 2, RetentionDays: &retentionDays}

		secretRepo.On("GetByIDUnscoped", mock.Anything, "secret-1").Return(secret, nil)
		versionRepo.On("ListOlderThan", mock.Anything, "secret-1", mock.AnythingOfType("time.Time")).Return(
			[]*secretsDomain.SecretVersion{{ID: "old-version", VersionNumber: 1}}, nil,
		)
		versionRepo.On("Destroy", mock.Anything, "old-version").Return(nil)

		uc := NewSecretUseCase(txManager, secretRepo, versionRepo, metadataRepo, cryptoSvc)

		err := uc.ApplyRetention(ctx, "secret-1")
		require.NoError(t, err)
		versionRepo.AssertExpectations(t)
	})

	t.Run("NoRulesConfiguredIsNoOp", func(t *testing.T) {
		secretRepo := &secretsUsecaseMocks.MockSecretRepository{}
		versionRepo := &secretsUsecaseMocks.MockSecretVersionRepository{}
		metadataRepo := &secretsUsecaseMocks.MockSecretMetadataRepository{}

		secret := &secretsDomain.Secret{ID: "secret-1"}
		secretRepo.On("GetByIDUnscoped", mock.Anything, "secret-1").Return(secret, nil)

		uc := NewSecretUseCase(txManager, secretRepo, versionRepo, metadataRepo, cryptoSvc)

		err := uc.ApplyRetention(ctx, "secret-1")
		require.NoError(t, err)
		versionRepo.AssertNotCalled(t, "ListNonDestroyedDesc", mock.Anything, mock.Anything)
		versionRepo.AssertNotCalled(t, "ListOlderThan", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSecretUseCase_SoftDelete(t *testing.T) {
	ctx := context.Background()
	cryptoSvc := newTestCryptoService(t)
	txManager := newPassthroughTxManager()

	secretRepo := &secretsUsecaseMocks.MockSecretRepository{}
	versionRepo := &secretsUsecaseMocks.MockSecretVersionRepository{}
	metadataRepo := &secretsUsecaseMocks.MockSecretMetadataRepository{}

	secretRepo.On("SoftDelete", mock.Anything, "team-1", "secret-1").Return(nil)

	uc := NewSecretUseCase(txManager, secretRepo, versionRepo, metadataRepo, cryptoSvc)

	err := uc.SoftDelete(ctx, "team-1", "secret-1")
	require.NoError(t, err)
	secretRepo.AssertExpectations(t)
}
