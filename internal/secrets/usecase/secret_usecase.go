package usecase

import (
	"context"
	"time"

	"github.com/allisson/vaultd/internal/crypto"
	"github.com/allisson/vaultd/internal/database"
	secretsDomain "github.com/allisson/vaultd/internal/secrets/domain"
)

// secretUseCase implements SecretUseCase, orchestrating envelope encryption,
// immutable versioning, and retention across the secret, secret version, and
// secret metadata repositories.
type secretUseCase struct {
	txManager    database.TxManager
	secretRepo   SecretRepository
	versionRepo  SecretVersionRepository
	metadataRepo SecretMetadataRepository
	cryptoSvc    *crypto.Service
}

// NewSecretUseCase builds a SecretUseCase from its repositories and the
// envelope-encryption service used to protect secret values at rest.
func NewSecretUseCase(
	txManager database.TxManager,
	secretRepo SecretRepository,
	versionRepo SecretVersionRepository,
	metadataRepo SecretMetadataRepository,
	cryptoSvc *crypto.Service,
) SecretUseCase {
	return &secretUseCase{
		txManager:    txManager,
		secretRepo:   secretRepo,
		versionRepo:  versionRepo,
		metadataRepo: metadataRepo,
		cryptoSvc:    cryptoSvc,
	}
}

// Create stores a new secret at input.Path with version 1. Returns
// ErrSecretAlreadyExists if a secret already exists at that path for the team.
func (s *secretUseCase) Create(ctx context.Context, input CreateSecretInput) (*secretsDomain.Secret, error) {
	if input.Type == "" {
		input.Type = secretsDomain.SecretTypeStatic
	}

	currentVersion := 1
	if input.Type == secretsDomain.SecretTypeReference {
		currentVersion = 0
	}

	now := time.Now().UTC()
	secret := &secretsDomain.Secret{
		TeamID:         input.TeamID,
		Path:           input.Path,
		Name:           input.Name,
		Description:    input.Description,
		Type:           input.Type,
		CurrentVersion: currentVersion,
		MaxVersions:    input.MaxVersions,
		RetentionDays:  input.RetentionDays,
		ExpiresAt:      input.ExpiresAt,
		OwnerUserID:    input.OwnerUserID,
		ReferenceArn:   input.ReferenceArn,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err := s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.secretRepo.Create(txCtx, secret); err != nil {
			return err
		}

		isVersioned := input.Type == secretsDomain.SecretTypeStatic || input.Type == secretsDomain.SecretTypeDynamic
		if isVersioned && len(input.Value) > 0 {
			if err := s.putVersion(txCtx, secret, 1, input.Value, "initial version", input.OwnerUserID); err != nil {
				return err
			}
		}

		if len(input.Metadata) > 0 {
			if err := s.metadataRepo.Replace(txCtx, secret.ID, input.Metadata); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return secret, nil
}

// putVersion encrypts value under the secret-storage purpose KEK and
// persists it as versionNumber.
func (s *secretUseCase) putVersion(
	ctx context.Context,
	secret *secretsDomain.Secret,
	versionNumber int,
	value []byte,
	changeDescription, createdByUserID string,
) error {
	encrypted, err := s.cryptoSvc.Encrypt(value)
	if err != nil {
		return err
	}
	keyID, err := s.cryptoSvc.ExtractKeyID(encrypted)
	if err != nil {
		return err
	}
	version := &secretsDomain.SecretVersion{
		SecretID:          secret.ID,
		VersionNumber:     versionNumber,
		EncryptedValue:    encrypted,
		EncryptionKeyID:   keyID,
		ChangeDescription: changeDescription,
		CreatedByUserID:   createdByUserID,
		CreatedAt:         time.Now().UTC(),
	}
	return s.versionRepo.Create(ctx, version)
}

// GetMetadata returns the Secret row by id without reading or decrypting any
// version value.
func (s *secretUseCase) GetMetadata(ctx context.Context, teamID, id string) (*secretsDomain.Secret, error) {
	return s.secretRepo.GetByID(ctx, teamID, id)
}

// GetMetadataUnscoped returns the Secret row by id alone, without team
// scoping. Used by background jobs (rotation, lease provisioning) that hold
// a secret id but no caller-supplied team context.
func (s *secretUseCase) GetMetadataUnscoped(ctx context.Context, id string) (*secretsDomain.Secret, error) {
	return s.secretRepo.GetByIDUnscoped(ctx, id)
}

// GetMetadataMap returns the (key, value) annotation set attached to a
// secret.
func (s *secretUseCase) GetMetadataMap(ctx context.Context, id string) (map[string]string, error) {
	return s.metadataRepo.Get(ctx, id)
}

// GetMetadataByPath returns the Secret row by path without reading or
// decrypting any version value.
func (s *secretUseCase) GetMetadataByPath(ctx context.Context, teamID, path string) (*secretsDomain.Secret, error) {
	return s.secretRepo.GetByPath(ctx, teamID, path)
}

// ReadValue returns the secret's current version, decrypted, and records
// LastAccessedAt. Only meaningful for STATIC secrets; DYNAMIC and REFERENCE
// secrets are served by the lease and external-reference flows respectively.
func (s *secretUseCase) ReadValue(ctx context.Context, teamID, path string) (*secretsDomain.Secret, []byte, error) {
	secret, err := s.secretRepo.GetByPath(ctx, teamID, path)
	if err != nil {
		return nil, nil, err
	}
	return s.readVersionNumber(ctx, secret, secret.CurrentVersion)
}

// ReadVersion returns a specific historical version of the secret, decrypted.
// Returns ErrDestroyedVersion if that version has been destroyed by retention.
func (s *secretUseCase) ReadVersion(
	ctx context.Context,
	teamID, path string,
	versionNumber int,
) (*secretsDomain.Secret, []byte, error) {
	secret, err := s.secretRepo.GetByPath(ctx, teamID, path)
	if err != nil {
		return nil, nil, err
	}
	return s.readVersionNumber(ctx, secret, versionNumber)
}

func (s *secretUseCase) readVersionNumber(
	ctx context.Context,
	secret *secretsDomain.Secret,
	versionNumber int,
) (*secretsDomain.Secret, []byte, error) {
	if secret.Type != secretsDomain.SecretTypeStatic {
		return nil, nil, secretsDomain.ErrNotDynamic
	}

	version, err := s.versionRepo.GetByVersionNumber(ctx, secret.ID, versionNumber)
	if err != nil {
		return nil, nil, err
	}
	if version.IsDestroyed {
		return nil, nil, secretsDomain.ErrDestroyedVersion
	}

	plaintext, err := s.cryptoSvc.Decrypt(version.EncryptedValue)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	secret.LastAccessedAt = &now
	if err := s.secretRepo.Update(ctx, secret); err != nil {
		return nil, nil, err
	}

	return secret, plaintext, nil
}

// Update applies a partial update to a Secret and, if input.Value is
// non-nil, creates a new version and applies retention afterward.
func (s *secretUseCase) Update(ctx context.Context, input UpdateSecretInput) (*secretsDomain.Secret, error) {
	var updated *secretsDomain.Secret

	err := s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		secret, err := s.secretRepo.GetByID(txCtx, input.TeamID, input.ID)
		if err != nil {
			return err
		}

		if input.Description.Set {
			secret.Description = input.Description.Value
		}
		if input.MaxVersions.Set {
			secret.MaxVersions = input.MaxVersions.Value
		}
		if input.RetentionDays.Set {
			secret.RetentionDays = input.RetentionDays.Value
		}
		if input.ExpiresAt.Set {
			secret.ExpiresAt = input.ExpiresAt.Value
		}

		if input.Value != nil {
			secret.CurrentVersion++
			if err := s.putVersion(
				txCtx, secret, secret.CurrentVersion, input.Value,
				input.ChangeDescription, input.CreatedByUserID,
			); err != nil {
				return err
			}
			now := time.Now().UTC()
			secret.LastRotatedAt = &now
		}

		secret.UpdatedAt = time.Now().UTC()
		if err := s.secretRepo.Update(txCtx, secret); err != nil {
			return err
		}

		if input.MetadataSet {
			if err := s.metadataRepo.Replace(txCtx, secret.ID, input.Metadata); err != nil {
				return err
			}
		}

		updated = secret
		return nil
	})
	if err != nil {
		return nil, err
	}

	if input.Value != nil {
		if err := s.ApplyRetention(ctx, updated.ID); err != nil {
			return nil, err
		}
	}
	return updated, nil
}

// SoftDelete marks the secret inactive without destroying any version data.
func (s *secretUseCase) SoftDelete(ctx context.Context, teamID, id string) error {
	return s.secretRepo.SoftDelete(ctx, teamID, id)
}

// HardDelete permanently removes the secret row. Callers are expected to
// cascade-delete versions and metadata at the schema level (ON DELETE CASCADE).
func (s *secretUseCase) HardDelete(ctx context.Context, teamID, id string) error {
	return s.secretRepo.HardDelete(ctx, teamID, id)
}

func (s *secretUseCase) List(
	ctx context.Context,
	teamID string,
	filter secretsDomain.ListFilter,
) ([]*secretsDomain.Secret, error) {
	return s.secretRepo.List(ctx, teamID, filter)
}

func (s *secretUseCase) ListPaths(ctx context.Context, teamID, pathPrefix string) ([]string, error) {
	return s.secretRepo.ListPaths(ctx, teamID, pathPrefix)
}

func (s *secretUseCase) ListExpiring(
	ctx context.Context,
	teamID string,
	withinHours int,
) ([]*secretsDomain.Secret, error) {
	return s.secretRepo.ListExpiring(ctx, teamID, withinHours)
}

// ApplyRetention enforces the two retention rules independently: keep at
// most MaxVersions non-destroyed versions (oldest destroyed first), and
// destroy any non-destroyed version older than RetentionDays except the
// current version. Either rule is a no-op when its corresponding field is
// nil.
func (s *secretUseCase) ApplyRetention(ctx context.Context, secretID string) error {
	secret, err := s.secretRepo.GetByIDUnscoped(ctx, secretID)
	if err != nil {
		return err
	}

	if secret.MaxVersions != nil {
		versions, err := s.versionRepo.ListNonDestroyedDesc(ctx, secretID)
		if err != nil {
			return err
		}
		if len(versions) > *secret.MaxVersions {
			for _, v := range versions[*secret.MaxVersions:] {
				if err := s.versionRepo.Destroy(ctx, v.ID); err != nil {
					return err
				}
			}
		}
	}

	if secret.RetentionDays != nil {
		cutoff := time.Now().UTC().AddDate(0, 0, -*secret.RetentionDays)
		versions, err := s.versionRepo.ListOlderThan(ctx, secretID, cutoff)
		if err != nil {
			return err
		}
		for _, v := range versions {
			if v.VersionNumber == secret.CurrentVersion {
				continue
			}
			if err := s.versionRepo.Destroy(ctx, v.ID); err != nil {
				return err
			}
		}
	}

	return nil
}
