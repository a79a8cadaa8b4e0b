package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/vaultd/internal/crypto"
	apperrors "github.com/allisson/vaultd/internal/errors"
	leaseDomain "github.com/allisson/vaultd/internal/lease/domain"
	secretsDomain "github.com/allisson/vaultd/internal/secrets/domain"
)

// sanitizePattern matches runs of characters not valid in an unquoted
// identifier; sanitize() collapses each run to a single underscore.
var sanitizePattern = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// Config holds lease use case configuration, sourced 1:1 from the
// DYNAMIC_* and LEASE_* environment variables.
type Config struct {
	ExecuteSQL      bool
	DefaultTTL      time.Duration
	MaxTTL          time.Duration
	PasswordLength  int
	UsernamePrefix  string
	BackendTimeout  time.Duration
}

// leaseUseCase implements LeaseUseCase, orchestrating backend user
// provisioning, envelope-encrypted credential storage, and the expiry sweep.
type leaseUseCase struct {
	config     Config
	leaseRepo  LeaseRepository
	secretsSvc SecretsClient
	cryptoSvc  *crypto.Service
	drivers    map[leaseDomain.BackendType]BackendDriver
	logger     *slog.Logger
}

// NewLeaseUseCase builds a LeaseUseCase. drivers maps each supported
// BackendType to the BackendDriver that provisions/tears down its users.
func NewLeaseUseCase(
	config Config,
	leaseRepo LeaseRepository,
	secretsSvc SecretsClient,
	cryptoSvc *crypto.Service,
	drivers map[leaseDomain.BackendType]BackendDriver,
	logger *slog.Logger,
) LeaseUseCase {
	return &leaseUseCase{
		config:     config,
		leaseRepo:  leaseRepo,
		secretsSvc: secretsSvc,
		cryptoSvc:  cryptoSvc,
		drivers:    drivers,
		logger:     logger,
	}
}

// requiredMetadataKeys are the secret-metadata keys a DYNAMIC secret must
// carry (spec §4.6): backend address, engine, and admin credentials.
var requiredMetadataKeys = []string{"backendType", "host", "port", "database", "adminUser", "adminPassword"}

func (uc *leaseUseCase) Create(
	ctx context.Context,
	input CreateLeaseInput,
) (*leaseDomain.DynamicLease, *leaseDomain.Credentials, error) {
	secret, err := uc.secretsSvc.GetMetadataUnscoped(ctx, input.SecretID)
	if err != nil {
		return nil, nil, err
	}
	if secret.Type != secretsDomain.SecretTypeDynamic {
		return nil, nil, leaseDomain.ErrNotDynamic
	}

	meta, err := uc.secretsSvc.GetMetadataMap(ctx, secret.ID)
	if err != nil {
		return nil, nil, err
	}
	for _, key := range requiredMetadataKeys {
		if strings.TrimSpace(meta[key]) == "" {
			return nil, nil, leaseDomain.ErrMissingBackendMetadata
		}
	}

	backendType := leaseDomain.BackendType(meta["backendType"])
	driver, ok := uc.drivers[backendType]
	if !ok {
		return nil, nil, leaseDomain.ErrUnsupportedBackend
	}

	ttlSeconds := input.TTLSeconds
	if ttlSeconds <= 0 {
		ttlSeconds = int(uc.config.DefaultTTL.Seconds())
	}
	if maxSeconds := int(uc.config.MaxTTL.Seconds()); maxSeconds > 0 && ttlSeconds > maxSeconds {
		ttlSeconds = maxSeconds
	}

	username, err := uc.generateUsername(secret.Name)
	if err != nil {
		return nil, nil, err
	}
	password, err := uc.cryptoSvc.GenerateRandomString(uc.config.PasswordLength, crypto.CharsetAlphanumeric)
	if err != nil {
		return nil, nil, err
	}

	conn := ConnectionParams{
		Host:          meta["host"],
		Port:          meta["port"],
		Database:      meta["database"],
		AdminUser:     meta["adminUser"],
		AdminPassword: meta["adminPassword"],
	}

	if uc.config.ExecuteSQL {
		if err := driver.CreateUser(ctx, conn, username, password); err != nil {
			return nil, nil, err
		}
	}

	creds := &leaseDomain.Credentials{
		Username: username, Password: password,
		Host: meta["host"], Port: meta["port"], Database: meta["database"],
		BackendType: string(backendType),
	}
	credsJSON, err := json.Marshal(creds)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "failed to marshal lease credentials")
	}
	encrypted, err := uc.cryptoSvc.EncryptForPurpose(crypto.PurposeDynamicCredential, credsJSON)
	if err != nil {
		return nil, nil, err
	}

	metaJSON, err := json.Marshal(leaseDomain.Metadata{
		Host: meta["host"], Port: meta["port"], Database: meta["database"],
		Username: username, BackendType: string(backendType),
	})
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "failed to marshal lease metadata")
	}

	now := time.Now().UTC()
	lease := &leaseDomain.DynamicLease{
		ID:                   "lease-" + uuid.NewString(),
		SecretID:             secret.ID,
		SecretPath:           secret.Path,
		BackendType:          backendType,
		EncryptedCredentials: encrypted,
		Status:               leaseDomain.StatusActive,
		TTLSeconds:           ttlSeconds,
		ExpiresAt:            now.Add(time.Duration(ttlSeconds) * time.Second),
		RequestedByUserID:    input.RequestedByUserID,
		MetadataJSON:         string(metaJSON),
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := uc.leaseRepo.Create(ctx, lease); err != nil {
		return nil, nil, err
	}
	return lease, creds, nil
}

// generateUsername builds `<prefix><sanitised(secretName)>_<shortUUID>`,
// truncated to 63 chars (spec §4.6).
func (uc *leaseUseCase) generateUsername(secretName string) (string, error) {
	sanitised := strings.ToLower(sanitizePattern.ReplaceAllString(secretName, "_"))
	shortUUID := uuid.NewString()[:8]
	username := fmt.Sprintf("%s%s_%s", uc.config.UsernamePrefix, sanitised, shortUUID)
	if len(username) > 63 {
		username = username[:63]
	}
	return username, nil
}

func (uc *leaseUseCase) Get(ctx context.Context, id string) (*leaseDomain.DynamicLease, error) {
	return uc.leaseRepo.GetByID(ctx, id)
}

func (uc *leaseUseCase) ListBySecretID(ctx context.Context, secretID string) ([]*leaseDomain.DynamicLease, error) {
	return uc.leaseRepo.ListBySecretID(ctx, secretID)
}

// Revoke flips an ACTIVE lease to REVOKED and attempts (best-effort) to
// drop the backend user: teardown failures are logged, never returned.
func (uc *leaseUseCase) Revoke(ctx context.Context, id, revokedByUserID string) error {
	lease, err := uc.leaseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if lease.Status != leaseDomain.StatusActive {
		return leaseDomain.ErrNotActive
	}

	uc.teardown(ctx, lease)

	now := time.Now().UTC()
	lease.Status = leaseDomain.StatusRevoked
	lease.RevokedAt = &now
	if revokedByUserID != "" {
		lease.RevokedByUserID = &revokedByUserID
	}
	lease.UpdatedAt = now
	return uc.leaseRepo.Update(ctx, lease)
}

// Tick sweeps every ACTIVE lease past expiresAt, tearing down the backend
// user best-effort and flipping it to EXPIRED.
func (uc *leaseUseCase) Tick(ctx context.Context) error {
	leases, err := uc.leaseRepo.ListExpired(ctx, time.Now().UTC())
	if err != nil {
		return err
	}
	for _, lease := range leases {
		uc.teardown(ctx, lease)

		lease.Status = leaseDomain.StatusExpired
		lease.UpdatedAt = time.Now().UTC()
		if err := uc.leaseRepo.Update(ctx, lease); err != nil && uc.logger != nil {
			uc.logger.Error("failed to mark lease expired", slog.String("lease_id", lease.ID), slog.Any("error", err))
		}
	}
	return nil
}

// teardown drops the backend user for lease, logging and swallowing any
// failure: a backend that is unreachable must never block revocation or
// the expiry sweep (spec §4.6). Admin credentials are not stored on the
// lease itself (only host/port/database/username survive to MetadataJSON),
// so teardown re-reads them from the source secret.
func (uc *leaseUseCase) teardown(ctx context.Context, lease *leaseDomain.DynamicLease) {
	if !uc.config.ExecuteSQL {
		return
	}
	driver, ok := uc.drivers[lease.BackendType]
	if !ok {
		return
	}

	var meta leaseDomain.Metadata
	if err := json.Unmarshal([]byte(lease.MetadataJSON), &meta); err != nil {
		if uc.logger != nil {
			uc.logger.Error("failed to parse lease metadata for teardown",
				slog.String("lease_id", lease.ID), slog.Any("error", err))
		}
		return
	}

	secretMeta, err := uc.secretsSvc.GetMetadataMap(ctx, lease.SecretID)
	if err != nil {
		if uc.logger != nil {
			uc.logger.Error("failed to load source secret metadata for lease teardown",
				slog.String("lease_id", lease.ID), slog.Any("error", err))
		}
		return
	}

	conn := ConnectionParams{
		Host: meta.Host, Port: meta.Port, Database: meta.Database,
		AdminUser: secretMeta["adminUser"], AdminPassword: secretMeta["adminPassword"],
	}
	if err := driver.DropUser(ctx, conn, meta.Username); err != nil && uc.logger != nil {
		uc.logger.Error("failed to drop backend user",
			slog.String("lease_id", lease.ID), slog.String("username", meta.Username), slog.Any("error", err))
	}
}
