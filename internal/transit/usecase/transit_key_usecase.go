package usecase

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/allisson/vaultd/internal/crypto"
	apperrors "github.com/allisson/vaultd/internal/errors"
	transitDomain "github.com/allisson/vaultd/internal/transit/domain"
)

// transitKeyUseCase implements TransitKeyUseCase.
//
// A TransitKey row holds an envelope-encrypted JSON list of key versions
// (domain.KeyVersion). Encrypt always selects the current version; Decrypt
// recovers the version number embedded in the ciphertext's own keyId
// ("<name>:v<N>") and looks it up in the list, so data encrypted under an
// older version remains decryptable across rotations until
// minDecryptionVersion is raised past it.
type transitKeyUseCase struct {
	repo      TransitKeyRepository
	cryptoSvc *crypto.Service
}

// NewTransitKeyUseCase builds a TransitKeyUseCase backed by repo for
// persistence and cryptoSvc for key-material wrapping.
func NewTransitKeyUseCase(repo TransitKeyRepository, cryptoSvc *crypto.Service) TransitKeyUseCase {
	return &transitKeyUseCase{repo: repo, cryptoSvc: cryptoSvc}
}

func keyID(name string, version int) string {
	return name + ":v" + strconv.Itoa(version)
}

// parseKeyVersion extracts the version suffix from a "<name>:v<N>" keyId.
func parseKeyVersion(id string) (int, error) {
	idx := strings.LastIndex(id, ":v")
	if idx < 0 {
		return 0, apperrors.Wrap(apperrors.ErrMalformedEnvelope, "keyId missing version suffix")
	}
	version, err := strconv.Atoi(id[idx+2:])
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrMalformedEnvelope, "keyId version suffix is not numeric")
	}
	return version, nil
}

func (t *transitKeyUseCase) wrapKeyMaterial(versions []transitDomain.KeyVersion) (string, error) {
	data, err := json.Marshal(versions)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to marshal key material")
	}
	return t.cryptoSvc.Encrypt(data)
}

func (t *transitKeyUseCase) unwrapKeyMaterial(keyMaterial string) ([]transitDomain.KeyVersion, error) {
	data, err := t.cryptoSvc.Decrypt(keyMaterial)
	if err != nil {
		return nil, err
	}
	var versions []transitDomain.KeyVersion
	if err := json.Unmarshal(data, &versions); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal key material")
	}
	return versions, nil
}

func findVersion(versions []transitDomain.KeyVersion, version int) (transitDomain.KeyVersion, bool) {
	for _, v := range versions {
		if v.Version == version {
			return v, true
		}
	}
	return transitDomain.KeyVersion{}, false
}

func (t *transitKeyUseCase) Create(
	ctx context.Context,
	teamID, name string,
	isDeletable, isExportable bool,
) (*transitDomain.TransitKey, error) {
	raw, err := t.cryptoSvc.GenerateDataKey()
	if err != nil {
		return nil, err
	}

	versions := []transitDomain.KeyVersion{{Version: 1, Key: base64.StdEncoding.EncodeToString(raw)}}
	keyMaterial, err := t.wrapKeyMaterial(versions)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	key := &transitDomain.TransitKey{
		TeamID:               teamID,
		Name:                 name,
		CurrentVersion:       1,
		MinDecryptionVersion: 1,
		KeyMaterial:          keyMaterial,
		Algorithm:            "AES-256-GCM",
		IsDeletable:          isDeletable,
		IsExportable:         isExportable,
		IsActive:             true,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := t.repo.Create(ctx, key); err != nil {
		return nil, err
	}
	return key, nil
}

func (t *transitKeyUseCase) Rotate(ctx context.Context, teamID, name string) (*transitDomain.TransitKey, error) {
	key, err := t.repo.GetByName(ctx, teamID, name)
	if err != nil {
		return nil, err
	}

	versions, err := t.unwrapKeyMaterial(key.KeyMaterial)
	if err != nil {
		return nil, err
	}

	raw, err := t.cryptoSvc.GenerateDataKey()
	if err != nil {
		return nil, err
	}

	newVersion := key.CurrentVersion + 1
	versions = append(versions, transitDomain.KeyVersion{
		Version: newVersion,
		Key:     base64.StdEncoding.EncodeToString(raw),
	})

	keyMaterial, err := t.wrapKeyMaterial(versions)
	if err != nil {
		return nil, err
	}

	key.KeyMaterial = keyMaterial
	key.CurrentVersion = newVersion
	key.UpdatedAt = time.Now().UTC()
	if err := t.repo.Update(ctx, key); err != nil {
		return nil, err
	}
	return key, nil
}

func (t *transitKeyUseCase) UpdateMinDecryptionVersion(
	ctx context.Context,
	teamID, name string,
	minVersion int,
) (*transitDomain.TransitKey, error) {
	key, err := t.repo.GetByName(ctx, teamID, name)
	if err != nil {
		return nil, err
	}
	if minVersion < 1 || minVersion > key.CurrentVersion {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "minDecryptionVersion out of range")
	}
	key.MinDecryptionVersion = minVersion
	key.UpdatedAt = time.Now().UTC()
	if err := t.repo.Update(ctx, key); err != nil {
		return nil, err
	}
	return key, nil
}

func (t *transitKeyUseCase) Delete(ctx context.Context, teamID, id string) error {
	key, err := t.repo.GetByID(ctx, teamID, id)
	if err != nil {
		return err
	}
	if !key.IsDeletable {
		return transitDomain.ErrNotDeletable
	}
	return t.repo.Delete(ctx, teamID, id)
}

func (t *transitKeyUseCase) Get(ctx context.Context, teamID, name string) (*transitDomain.TransitKey, error) {
	return t.repo.GetByName(ctx, teamID, name)
}

func (t *transitKeyUseCase) List(ctx context.Context, teamID string) ([]*transitDomain.TransitKey, error) {
	return t.repo.List(ctx, teamID)
}

func (t *transitKeyUseCase) Encrypt(ctx context.Context, teamID, name string, plaintext []byte) (string, error) {
	key, err := t.repo.GetByName(ctx, teamID, name)
	if err != nil {
		return "", err
	}
	versions, err := t.unwrapKeyMaterial(key.KeyMaterial)
	if err != nil {
		return "", err
	}
	current, ok := findVersion(versions, key.CurrentVersion)
	if !ok {
		return "", transitDomain.ErrVersionMissing
	}
	raw, err := base64.StdEncoding.DecodeString(current.Key)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrMalformedEnvelope, "stored key version is not valid base64")
	}
	return t.cryptoSvc.EncryptWithKey(plaintext, keyID(name, key.CurrentVersion), raw)
}

func (t *transitKeyUseCase) Decrypt(ctx context.Context, teamID, name string, envelope string) ([]byte, error) {
	key, err := t.repo.GetByName(ctx, teamID, name)
	if err != nil {
		return nil, err
	}
	id, err := t.cryptoSvc.ExtractKeyID(envelope)
	if err != nil {
		return nil, err
	}
	version, err := parseKeyVersion(id)
	if err != nil {
		return nil, err
	}
	if version < key.MinDecryptionVersion {
		return nil, transitDomain.ErrVersionBelowMin
	}

	versions, err := t.unwrapKeyMaterial(key.KeyMaterial)
	if err != nil {
		return nil, err
	}
	entry, ok := findVersion(versions, version)
	if !ok {
		return nil, transitDomain.ErrVersionMissing
	}
	raw, err := base64.StdEncoding.DecodeString(entry.Key)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrMalformedEnvelope, "stored key version is not valid base64")
	}
	return t.cryptoSvc.DecryptWithKey(envelope, raw)
}

func (t *transitKeyUseCase) Rewrap(ctx context.Context, teamID, name string, envelope string) (string, error) {
	plaintext, err := t.Decrypt(ctx, teamID, name, envelope)
	if err != nil {
		return "", err
	}
	return t.Encrypt(ctx, teamID, name, plaintext)
}

func (t *transitKeyUseCase) GenerateDataKey(
	ctx context.Context,
	teamID, name string,
) (plaintextB64 string, wrapped string, err error) {
	dek, err := t.cryptoSvc.GenerateDataKey()
	if err != nil {
		return "", "", err
	}

	plaintextB64 = base64.StdEncoding.EncodeToString(dek)
	wrapped, err = t.Encrypt(ctx, teamID, name, dek)
	if err != nil {
		return "", "", err
	}
	return plaintextB64, wrapped, nil
}
