package seal

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/vaultd/internal/errors"
)

func testMasterKey() []byte {
	mk := make([]byte, 32)
	for i := range mk {
		mk[i] = byte(i + 7)
	}
	return mk
}

func TestService_AutoUnseal(t *testing.T) {
	mk := testMasterKey()
	s := NewService(mk, 5, 3, true)

	status := s.Status()
	require.Equal(t, Unsealed, status.State)
	require.NotNil(t, status.UnsealedAt)
	require.NoError(t, s.RequireUnsealed())
}

func TestService_HappyUnsealPath(t *testing.T) {
	mk := testMasterKey()
	s := NewService(mk, 5, 3, true)

	shares, err := s.GenerateKeyShares()
	require.NoError(t, err)
	require.Len(t, shares, 5)

	require.NoError(t, s.Seal())
	require.Equal(t, Sealed, s.Status().State)
	require.ErrorIs(t, s.RequireUnsealed(), apperrors.ErrSealed)

	_, err = s.SubmitKeyShare(shares[0])
	require.NoError(t, err)
	require.Equal(t, Unsealing, s.Status().State)

	_, err = s.SubmitKeyShare(shares[2])
	require.NoError(t, err)
	require.Equal(t, Unsealing, s.Status().State)

	status, err := s.SubmitKeyShare(shares[4])
	require.NoError(t, err)
	require.Equal(t, Unsealed, status.State)
	require.NotNil(t, status.UnsealedAt)
	require.NoError(t, s.RequireUnsealed())
}

func TestService_UnsealFailurePath(t *testing.T) {
	mk := testMasterKey()
	s := NewService(mk, 5, 3, false)
	require.Equal(t, Sealed, s.Status().State)

	randomShare := func(index byte) string {
		body := make([]byte, len(mk))
		for i := range body {
			body[i] = byte(i*7 + int(index))
		}
		return b64(append([]byte{index}, body...))
	}

	_, err := s.SubmitKeyShare(randomShare(1))
	require.NoError(t, err)
	_, err = s.SubmitKeyShare(randomShare(2))
	require.NoError(t, err)

	_, err = s.SubmitKeyShare(randomShare(3))
	require.ErrorIs(t, err, apperrors.ErrUnsealVerifyFailed)

	status := s.Status()
	require.Equal(t, Sealed, status.State)
	require.Equal(t, 0, status.CollectedCount)
}

func TestService_SealWhileSealedFails(t *testing.T) {
	s := NewService(testMasterKey(), 5, 3, false)
	require.ErrorIs(t, s.Seal(), apperrors.ErrAlreadySealed)
}

func TestService_SubmitShareWhileUnsealedFails(t *testing.T) {
	s := NewService(testMasterKey(), 5, 3, true)
	_, err := s.SubmitKeyShare(b64([]byte{1, 2, 3}))
	require.ErrorIs(t, err, apperrors.ErrAlreadyUnsealed)
}

func TestService_GenerateKeyShares_RequiresUnsealed(t *testing.T) {
	s := NewService(testMasterKey(), 5, 3, false)
	_, err := s.GenerateKeyShares()
	require.ErrorIs(t, err, apperrors.ErrSealed)
}

func b64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}
