package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/allisson/vaultd/internal/audit/domain"
)

func TestSigner_Sign_IsDeterministic(t *testing.T) {
	s := newSigner(newTestCryptoService(t))
	entry := &auditDomain.Entry{ID: "e1", Operation: "secret_read", ResourceType: "secret", Success: true}

	sig1, keyID1, err := s.sign(entry)
	require.NoError(t, err)
	sig2, keyID2, err := s.sign(entry)
	require.NoError(t, err)

	assert.Equal(t, sig1, sig2)
	assert.Equal(t, keyID1, keyID2)
	assert.Len(t, sig1, 32)
}

func TestSigner_Sign_DiffersWhenSuccessChanges(t *testing.T) {
	s := newSigner(newTestCryptoService(t))
	base := &auditDomain.Entry{ID: "e1", Operation: "secret_read", ResourceType: "secret", Success: true}
	sigBase, _, err := s.sign(base)
	require.NoError(t, err)

	changed := *base
	changed.Success = false
	sigChanged, _, err := s.sign(&changed)
	require.NoError(t, err)

	assert.NotEqual(t, sigBase, sigChanged)
}

func TestSigner_Verify_RoundTrips(t *testing.T) {
	s := newSigner(newTestCryptoService(t))
	entry := &auditDomain.Entry{ID: "e1", Operation: "secret_read", ResourceType: "secret", Success: true}
	sig, keyID, err := s.sign(entry)
	require.NoError(t, err)
	entry.Signature = sig
	entry.KeyID = &keyID

	assert.NoError(t, s.verify(entry))
}
