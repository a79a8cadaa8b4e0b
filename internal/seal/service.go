package seal

import (
	"encoding/base64"
	"sync"
	"time"

	apperrors "github.com/allisson/vaultd/internal/errors"
)

// State is one of the three seal states in the unseal state machine.
type State string

const (
	Sealed    State = "sealed"
	Unsealing State = "unsealing"
	Unsealed  State = "unsealed"
)

// Status is a consistent snapshot of the seal service's state, safe to read
// without holding the service's internal lock any longer.
type Status struct {
	State          State
	CollectedCount int
	Threshold      int
	Total          int
	UnsealedAt     *time.Time
}

// Service is the process-global seal/unseal state machine described in
// SPEC_FULL.md §4.2. All transitions (Seal, SubmitKeyShare) are mutually
// exclusive under a single mutex; readers (RequireUnsealed, Status) take a
// read lock so concurrent data-plane checks never block each other, only
// the rarer state transitions.
type Service struct {
	mu sync.RWMutex

	state      State
	threshold  int
	total      int
	masterKey  []byte
	indices    []byte
	shares     [][]byte
	unsealedAt *time.Time
}

// NewService constructs the seal service. When autoUnseal is true the
// service starts UNSEALED without collecting any shares — a development-only
// convenience; production deployments must set it off (SPEC_FULL.md §4.2).
func NewService(masterKey []byte, total, threshold int, autoUnseal bool) *Service {
	s := &Service{
		state:     Sealed,
		threshold: threshold,
		total:     total,
		masterKey: masterKey,
	}
	if autoUnseal {
		now := time.Now().UTC()
		s.state = Unsealed
		s.unsealedAt = &now
	}
	return s
}

// Status returns a consistent snapshot of the current seal state.
func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{
		State:          s.state,
		CollectedCount: len(s.indices),
		Threshold:      s.threshold,
		Total:          s.total,
		UnsealedAt:     s.unsealedAt,
	}
}

// RequireUnsealed is the gate every data-plane operation calls first. It
// returns ErrSealed unless the service is in the UNSEALED state.
func (s *Service) RequireUnsealed() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != Unsealed {
		return apperrors.ErrSealed
	}
	return nil
}

// Seal transitions UNSEALED -> SEALED, clearing any collected shares.
// Returns ErrAlreadySealed if already SEALED.
func (s *Service) Seal() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Sealed {
		return apperrors.ErrAlreadySealed
	}

	s.state = Sealed
	s.indices = nil
	s.shares = nil
	s.unsealedAt = nil
	return nil
}

// SubmitKeyShare submits one Base64-encoded share (indexByte || shareBytes).
// Returns ErrAlreadyUnsealed if already UNSEALED. Once the collected count
// reaches the threshold, the shares are reconstructed and compared against
// the configured master key: a match transitions to UNSEALED, a mismatch
// discards all collected shares and reverts to SEALED with
// ErrUnsealVerifyFailed.
func (s *Service) SubmitKeyShare(shareB64 string) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Unsealed {
		return s.statusLocked(), apperrors.ErrAlreadyUnsealed
	}

	raw, err := base64.StdEncoding.DecodeString(shareB64)
	if err != nil {
		return s.statusLocked(), apperrors.Wrap(apperrors.ErrInvalidInput, "invalid share encoding")
	}
	if len(raw) < 2 {
		return s.statusLocked(), apperrors.Wrap(apperrors.ErrInvalidInput, "share too short")
	}

	index := raw[0]
	body := append([]byte{}, raw[1:]...)

	s.state = Unsealing
	s.indices = append(s.indices, index)
	s.shares = append(s.shares, body)

	if len(s.indices) < s.threshold {
		return s.statusLocked(), nil
	}

	reconstructed, err := Reconstruct(s.indices, s.shares)
	if err != nil {
		s.indices = nil
		s.shares = nil
		s.state = Sealed
		return s.statusLocked(), apperrors.Wrap(apperrors.ErrUnsealVerifyFailed, err.Error())
	}

	if !constantTimeEqual(reconstructed, s.masterKey) {
		s.indices = nil
		s.shares = nil
		s.state = Sealed
		return s.statusLocked(), apperrors.ErrUnsealVerifyFailed
	}

	now := time.Now().UTC()
	s.state = Unsealed
	s.unsealedAt = &now
	return s.statusLocked(), nil
}

// GenerateKeyShares requires the UNSEALED state and splits the current
// master key into Total shares with the configured Threshold, returning
// each as Base64(indexByte || shareBytes).
func (s *Service) GenerateKeyShares() ([]string, error) {
	s.mu.RLock()
	state := s.state
	masterKey := s.masterKey
	total, threshold := s.total, s.threshold
	s.mu.RUnlock()

	if state != Unsealed {
		return nil, apperrors.ErrSealed
	}

	shares, err := Split(masterKey, total, threshold)
	if err != nil {
		return nil, err
	}

	out := make([]string, total)
	for i, share := range shares {
		buf := append([]byte{byte(i + 1)}, share...)
		out[i] = base64.StdEncoding.EncodeToString(buf)
	}
	return out, nil
}

func (s *Service) statusLocked() Status {
	return Status{
		State:          s.state,
		CollectedCount: len(s.indices),
		Threshold:      s.threshold,
		Total:          s.total,
		UnsealedAt:     s.unsealedAt,
	}
}

// constantTimeEqual reports whether a and b hold the same bytes, comparing
// in constant time to avoid leaking information about the master key
// through timing during unseal verification.
func constantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	var v byte
	for i := range a {
		v |= a[i] ^ b[i]
	}
	return v == 0
}
