package usecase

import (
	"context"

	transitDomain "github.com/allisson/vaultd/internal/transit/domain"
)

// SealGate is the narrow slice of the seal service this decorator depends
// on: the single read that every data-plane operation must pass before
// touching transit key material.
type SealGate interface {
	RequireUnsealed() error
}

// transitKeyUseCaseWithSealGate decorates TransitKeyUseCase with the
// mandatory unsealed-gate check (SPEC_FULL.md §4.2).
type transitKeyUseCaseWithSealGate struct {
	next TransitKeyUseCase
	gate SealGate
}

// NewTransitKeyUseCaseWithSealGate wraps a TransitKeyUseCase with the
// unsealed gate. Should be the outermost decorator.
func NewTransitKeyUseCaseWithSealGate(useCase TransitKeyUseCase, gate SealGate) TransitKeyUseCase {
	return &transitKeyUseCaseWithSealGate{next: useCase, gate: gate}
}

func (t *transitKeyUseCaseWithSealGate) Create(
	ctx context.Context,
	teamID, name string,
	isDeletable, isExportable bool,
) (*transitDomain.TransitKey, error) {
	if err := t.gate.RequireUnsealed(); err != nil {
		return nil, err
	}
	return t.next.Create(ctx, teamID, name, isDeletable, isExportable)
}

func (t *transitKeyUseCaseWithSealGate) Rotate(ctx context.Context, teamID, name string) (*transitDomain.TransitKey, error) {
	if err := t.gate.RequireUnsealed(); err != nil {
		return nil, err
	}
	return t.next.Rotate(ctx, teamID, name)
}

func (t *transitKeyUseCaseWithSealGate) UpdateMinDecryptionVersion(
	ctx context.Context,
	teamID, name string,
	minVersion int,
) (*transitDomain.TransitKey, error) {
	if err := t.gate.RequireUnsealed(); err != nil {
		return nil, err
	}
	return t.next.UpdateMinDecryptionVersion(ctx, teamID, name, minVersion)
}

func (t *transitKeyUseCaseWithSealGate) Delete(ctx context.Context, teamID, id string) error {
	if err := t.gate.RequireUnsealed(); err != nil {
		return err
	}
	return t.next.Delete(ctx, teamID, id)
}

func (t *transitKeyUseCaseWithSealGate) Get(ctx context.Context, teamID, name string) (*transitDomain.TransitKey, error) {
	if err := t.gate.RequireUnsealed(); err != nil {
		return nil, err
	}
	return t.next.Get(ctx, teamID, name)
}

func (t *transitKeyUseCaseWithSealGate) List(ctx context.Context, teamID string) ([]*transitDomain.TransitKey, error) {
	if err := t.gate.RequireUnsealed(); err != nil {
		return nil, err
	}
	return t.next.List(ctx, teamID)
}

func (t *transitKeyUseCaseWithSealGate) Encrypt(
	ctx context.Context,
	teamID, name string,
	plaintext []byte,
) (string, error) {
	if err := t.gate.RequireUnsealed(); err != nil {
		return "", err
	}
	return t.next.Encrypt(ctx, teamID, name, plaintext)
}

func (t *transitKeyUseCaseWithSealGate) Decrypt(
	ctx context.Context,
	teamID, name string,
	envelope string,
) ([]byte, error) {
	if err := t.gate.RequireUnsealed(); err != nil {
		return nil, err
	}
	return t.next.Decrypt(ctx, teamID, name, envelope)
}

func (t *transitKeyUseCaseWithSealGate) Rewrap(
	ctx context.Context,
	teamID, name string,
	envelope string,
) (string, error) {
	if err := t.gate.RequireUnsealed(); err != nil {
		return "", err
	}
	return t.next.Rewrap(ctx, teamID, name, envelope)
}

func (t *transitKeyUseCaseWithSealGate) GenerateDataKey(
	ctx context.Context,
	teamID, name string,
) (string, string, error) {
	if err := t.gate.RequireUnsealed(); err != nil {
		return "", "", err
	}
	return t.next.GenerateDataKey(ctx, teamID, name)
}
