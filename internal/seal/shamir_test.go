package seal

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitReconstruct_3of5AllCombinations(t *testing.T) {
	secret := []byte("hello-secret-data")

	shares, err := Split(secret, 5, 3)
	require.NoError(t, err)
	require.Len(t, shares, 5)

	combos := [][]int{
		{0, 1, 2}, {0, 1, 3}, {0, 1, 4}, {0, 2, 3}, {0, 2, 4},
		{0, 3, 4}, {1, 2, 3}, {1, 2, 4}, {1, 3, 4}, {2, 3, 4},
	}
	require.Len(t, combos, 10)

	for _, combo := range combos {
		xs := make([]byte, 3)
		subset := make([][]byte, 3)
		for i, idx := range combo {
			xs[i] = byte(idx + 1)
			subset[i] = shares[idx]
		}
		recovered, err := Reconstruct(xs, subset)
		require.NoError(t, err)
		require.True(t, bytes.Equal(secret, recovered), "combo %v failed to reconstruct", combo)
	}
}

func TestReconstruct_BelowThresholdFails(t *testing.T) {
	secret := []byte("another secret value")
	shares, err := Split(secret, 5, 3)
	require.NoError(t, err)

	xs := []byte{1, 2}
	subset := [][]byte{shares[0], shares[1]}
	recovered, err := Reconstruct(xs, subset)
	require.NoError(t, err) // reconstruction itself doesn't fail, it just produces wrong bytes
	require.False(t, bytes.Equal(secret, recovered))
}

func TestSplit_ThresholdBoundaries(t *testing.T) {
	secret := []byte("x")

	_, err := Split(secret, 5, 1)
	require.Error(t, err, "threshold of 1 must be rejected")

	_, err = Split(secret, 3, 5)
	require.Error(t, err, "threshold greater than shares must be rejected")

	_, err = Split(secret, 256, 2)
	require.Error(t, err, "shares greater than 255 must be rejected")
}

func TestSplit_DisjointSubsetsAgree(t *testing.T) {
	secret := []byte{0x00, 0x01, 0xFF, 0x7F, 0x80}
	shares, err := Split(secret, 7, 4)
	require.NoError(t, err)

	a, err := Reconstruct([]byte{1, 2, 3, 4}, shares[0:4])
	require.NoError(t, err)

	b, err := Reconstruct([]byte{4, 5, 6, 7}, shares[3:7])
	require.NoError(t, err)

	require.Equal(t, a, b)
	require.Equal(t, secret, a)
}

func TestGFMulDiv_Inverse(t *testing.T) {
	for a := 1; a < 256; a++ {
		for b := 1; b < 256; b++ {
			product := gfMul(byte(a), byte(b))
			recovered := gfDiv(product, byte(b))
			require.Equal(t, byte(a), recovered)
		}
	}
}
