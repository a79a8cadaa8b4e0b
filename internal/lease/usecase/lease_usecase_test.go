package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/vaultd/internal/crypto"
	leaseDomain "github.com/allisson/vaultd/internal/lease/domain"
	leaseMocks "github.com/allisson/vaultd/internal/lease/usecase/mocks"
	secretsDomain "github.com/allisson/vaultd/internal/secrets/domain"
)

func newTestCryptoService(t *testing.T) *crypto.Service {
	t.Helper()
	masterKey, err := crypto.NewMasterKey([]byte("01234567890123456789012345678901"))
	require.NoError(t, err)
	return crypto.NewService(masterKey)
}

func testConfig() Config {
	return Config{
		ExecuteSQL:     true,
		DefaultTTL:     time.Hour,
		MaxTTL:         24 * time.Hour,
		PasswordLength: 20,
		UsernamePrefix: "vaultd_",
		BackendTimeout: 5 * time.Second,
	}
}

func dynamicSecret() *secretsDomain.Secret {
	return &secretsDomain.Secret{
		ID: "secret-1", TeamID: "team-1", Path: "/db/creds/app", Name: "app db",
		Type: secretsDomain.SecretTypeDynamic, CurrentVersion: 0,
	}
}

func validMetadata() map[string]string {
	return map[string]string{
		"backendType":   "postgresql",
		"host":          "db.internal",
		"port":          "5432",
		"database":      "appdb",
		"adminUser":     "admin",
		"adminPassword": "admin-secret",
	}
}

func TestLeaseUseCase_Create_Success(t *testing.T) {
	ctx := context.Background()
	leaseRepo := &leaseMocks.MockLeaseRepository{}
	secretsClient := &leaseMocks.MockSecretsClient{}
	driver := &leaseMocks.MockBackendDriver{}
	cryptoSvc := newTestCryptoService(t)

	secretsClient.On("GetMetadataUnscoped", mock.Anything, "secret-1").Return(dynamicSecret(), nil)
	secretsClient.On("GetMetadataMap", mock.Anything, "secret-1").Return(validMetadata(), nil)
	driver.On("CreateUser", mock.Anything, mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("string")).
		Return(nil)
	leaseRepo.On("Create", mock.Anything, mock.MatchedBy(func(l *leaseDomain.DynamicLease) bool {
		return l.SecretID == "secret-1" && l.Status == leaseDomain.StatusActive && l.BackendType == leaseDomain.BackendTypePostgreSQL
	})).Return(nil)

	drivers := map[leaseDomain.BackendType]BackendDriver{leaseDomain.BackendTypePostgreSQL: driver}
	uc := NewLeaseUseCase(testConfig(), leaseRepo, secretsClient, cryptoSvc, drivers, nil)

	lease, creds, err := uc.Create(ctx, CreateLeaseInput{SecretID: "secret-1", TTLSeconds: 1800})

	require.NoError(t, err)
	require.NotNil(t, lease)
	require.NotNil(t, creds)
	assert.Equal(t, leaseDomain.StatusActive, lease.Status)
	assert.Equal(t, 1800, lease.TTLSeconds)
	assert.NotEmpty(t, creds.Username)
	assert.NotEmpty(t, creds.Password)
	driver.AssertExpectations(t)
	leaseRepo.AssertExpectations(t)
}

func TestLeaseUseCase_Create_TTLClampedToMax(t *testing.T) {
	ctx := context.Background()
	leaseRepo := &leaseMocks.MockLeaseRepository{}
	secretsClient := &leaseMocks.MockSecretsClient{}
	driver := &leaseMocks.MockBackendDriver{}
	cryptoSvc := newTestCryptoService(t)

	secretsClient.On("GetMetadataUnscoped", mock.Anything, "secret-1").Return(dynamicSecret(), nil)
	secretsClient.On("GetMetadataMap", mock.Anything, "secret-1").Return(validMetadata(), nil)
	driver.On("CreateUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	leaseRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	drivers := map[leaseDomain.BackendType]BackendDriver{leaseDomain.BackendTypePostgreSQL: driver}
	uc := NewLeaseUseCase(testConfig(), leaseRepo, secretsClient, cryptoSvc, drivers, nil)

	lease, _, err := uc.Create(ctx, CreateLeaseInput{SecretID: "secret-1", TTLSeconds: 1000000})

	require.NoError(t, err)
	assert.Equal(t, int(testConfig().MaxTTL.Seconds()), lease.TTLSeconds)
}

func TestLeaseUseCase_Create_NotDynamicSecret(t *testing.T) {
	ctx := context.Background()
	leaseRepo := &leaseMocks.MockLeaseRepository{}
	secretsClient := &leaseMocks.MockSecretsClient{}
	cryptoSvc := newTestCryptoService(t)

	staticSecret := &secretsDomain.Secret{ID: "secret-1", Type: secretsDomain.SecretTypeStatic}
	secretsClient.On("GetMetadataUnscoped", mock.Anything, "secret-1").Return(staticSecret, nil)

	uc := NewLeaseUseCase(testConfig(), leaseRepo, secretsClient, cryptoSvc, nil, nil)

	_, _, err := uc.Create(ctx, CreateLeaseInput{SecretID: "secret-1"})

	assert.ErrorIs(t, err, leaseDomain.ErrNotDynamic)
	leaseRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLeaseUseCase_Create_MissingMetadataKey(t *testing.T) {
	ctx := context.Background()
	leaseRepo := &leaseMocks.MockLeaseRepository{}
	secretsClient := &leaseMocks.MockSecretsClient{}
	cryptoSvc := newTestCryptoService(t)

	incomplete := validMetadata()
	delete(incomplete, "adminPassword")
	secretsClient.On("GetMetadataUnscoped", mock.Anything, "secret-1").Return(dynamicSecret(), nil)
	secretsClient.On("GetMetadataMap", mock.Anything, "secret-1").Return(incomplete, nil)

	uc := NewLeaseUseCase(testConfig(), leaseRepo, secretsClient, cryptoSvc, nil, nil)

	_, _, err := uc.Create(ctx, CreateLeaseInput{SecretID: "secret-1"})

	assert.ErrorIs(t, err, leaseDomain.ErrMissingBackendMetadata)
}

func TestLeaseUseCase_Create_UnsupportedBackend(t *testing.T) {
	ctx := context.Background()
	leaseRepo := &leaseMocks.MockLeaseRepository{}
	secretsClient := &leaseMocks.MockSecretsClient{}
	cryptoSvc := newTestCryptoService(t)

	meta := validMetadata()
	meta["backendType"] = "oracle"
	secretsClient.On("GetMetadataUnscoped", mock.Anything, "secret-1").Return(dynamicSecret(), nil)
	secretsClient.On("GetMetadataMap", mock.Anything, "secret-1").Return(meta, nil)

	uc := NewLeaseUseCase(testConfig(), leaseRepo, secretsClient, cryptoSvc, map[leaseDomain.BackendType]BackendDriver{}, nil)

	_, _, err := uc.Create(ctx, CreateLeaseInput{SecretID: "secret-1"})

	assert.ErrorIs(t, err, leaseDomain.ErrUnsupportedBackend)
}

func activeLease() *leaseDomain.DynamicLease {
	now := time.Now().UTC()
	return &leaseDomain.DynamicLease{
		ID: "lease-1", SecretID: "secret-1", SecretPath: "/db/creds/app",
		BackendType: leaseDomain.BackendTypePostgreSQL, Status: leaseDomain.StatusActive,
		TTLSeconds: 3600, ExpiresAt: now.Add(time.Hour),
		MetadataJSON: `{"host":"db.internal","port":"5432","database":"appdb","username":"vaultd_app_abcd1234","backendType":"postgresql"}`,
		CreatedAt:    now, UpdatedAt: now,
	}
}

func TestLeaseUseCase_Revoke_Success(t *testing.T) {
	ctx := context.Background()
	leaseRepo := &leaseMocks.MockLeaseRepository{}
	secretsClient := &leaseMocks.MockSecretsClient{}
	driver := &leaseMocks.MockBackendDriver{}
	cryptoSvc := newTestCryptoService(t)

	lease := activeLease()
	leaseRepo.On("GetByID", mock.Anything, "lease-1").Return(lease, nil)
	secretsClient.On("GetMetadataMap", mock.Anything, "secret-1").Return(validMetadata(), nil)
	driver.On("DropUser", mock.Anything, mock.Anything, "vaultd_app_abcd1234").Return(nil)
	leaseRepo.On("Update", mock.Anything, mock.MatchedBy(func(l *leaseDomain.DynamicLease) bool {
		return l.Status == leaseDomain.StatusRevoked && l.RevokedAt != nil
	})).Return(nil)

	drivers := map[leaseDomain.BackendType]BackendDriver{leaseDomain.BackendTypePostgreSQL: driver}
	uc := NewLeaseUseCase(testConfig(), leaseRepo, secretsClient, cryptoSvc, drivers, nil)

	err := uc.Revoke(ctx, "lease-1", "user-1")

	require.NoError(t, err)
	driver.AssertExpectations(t)
	leaseRepo.AssertExpectations(t)
}

func TestLeaseUseCase_Revoke_NotActive(t *testing.T) {
	ctx := context.Background()
	leaseRepo := &leaseMocks.MockLeaseRepository{}
	secretsClient := &leaseMocks.MockSecretsClient{}
	cryptoSvc := newTestCryptoService(t)

	lease := activeLease()
	lease.Status = leaseDomain.StatusRevoked
	leaseRepo.On("GetByID", mock.Anything, "lease-1").Return(lease, nil)

	uc := NewLeaseUseCase(testConfig(), leaseRepo, secretsClient, cryptoSvc, nil, nil)

	err := uc.Revoke(ctx, "lease-1", "user-1")

	assert.ErrorIs(t, err, leaseDomain.ErrNotActive)
}

func TestLeaseUseCase_Revoke_TeardownFailureSwallowed(t *testing.T) {
	ctx := context.Background()
	leaseRepo := &leaseMocks.MockLeaseRepository{}
	secretsClient := &leaseMocks.MockSecretsClient{}
	driver := &leaseMocks.MockBackendDriver{}
	cryptoSvc := newTestCryptoService(t)

	lease := activeLease()
	leaseRepo.On("GetByID", mock.Anything, "lease-1").Return(lease, nil)
	secretsClient.On("GetMetadataMap", mock.Anything, "secret-1").Return(validMetadata(), nil)
	driver.On("DropUser", mock.Anything, mock.Anything, mock.Anything).Return(context.DeadlineExceeded)
	leaseRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

	drivers := map[leaseDomain.BackendType]BackendDriver{leaseDomain.BackendTypePostgreSQL: driver}
	uc := NewLeaseUseCase(testConfig(), leaseRepo, secretsClient, cryptoSvc, drivers, nil)

	err := uc.Revoke(ctx, "lease-1", "user-1")

	require.NoError(t, err)
	leaseRepo.AssertExpectations(t)
}

func TestLeaseUseCase_Tick_SweepsExpiredLeases(t *testing.T) {
	ctx := context.Background()
	leaseRepo := &leaseMocks.MockLeaseRepository{}
	secretsClient := &leaseMocks.MockSecretsClient{}
	driver := &leaseMocks.MockBackendDriver{}
	cryptoSvc := newTestCryptoService(t)

	expired := activeLease()
	expired.ID = "lease-expired"
	leaseRepo.On("ListExpired", mock.Anything, mock.Anything).
		Return([]*leaseDomain.DynamicLease{expired}, nil)
	secretsClient.On("GetMetadataMap", mock.Anything, "secret-1").Return(validMetadata(), nil)
	driver.On("DropUser", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	leaseRepo.On("Update", mock.Anything, mock.MatchedBy(func(l *leaseDomain.DynamicLease) bool {
		return l.Status == leaseDomain.StatusExpired
	})).Return(nil)

	drivers := map[leaseDomain.BackendType]BackendDriver{leaseDomain.BackendTypePostgreSQL: driver}
	uc := NewLeaseUseCase(testConfig(), leaseRepo, secretsClient, cryptoSvc, drivers, nil)

	err := uc.Tick(ctx)

	require.NoError(t, err)
	leaseRepo.AssertExpectations(t)
}

func TestLeaseUseCase_Tick_IsolatesTeardownFailure(t *testing.T) {
	ctx := context.Background()
	leaseRepo := &leaseMocks.MockLeaseRepository{}
	secretsClient := &leaseMocks.MockSecretsClient{}
	driver := &leaseMocks.MockBackendDriver{}
	cryptoSvc := newTestCryptoService(t)

	first := activeLease()
	first.ID = "lease-1"
	second := activeLease()
	second.ID = "lease-2"

	leaseRepo.On("ListExpired", mock.Anything, mock.Anything).
		Return([]*leaseDomain.DynamicLease{first, second}, nil)
	secretsClient.On("GetMetadataMap", mock.Anything, "secret-1").Return(validMetadata(), nil)
	driver.On("DropUser", mock.Anything, mock.Anything, mock.Anything).
		Return(context.DeadlineExceeded).Once()
	driver.On("DropUser", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	leaseRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

	drivers := map[leaseDomain.BackendType]BackendDriver{leaseDomain.BackendTypePostgreSQL: driver}
	uc := NewLeaseUseCase(testConfig(), leaseRepo, secretsClient, cryptoSvc, drivers, nil)

	err := uc.Tick(ctx)

	require.NoError(t, err)
	leaseRepo.AssertNumberOfCalls(t, "Update", 2)
}
