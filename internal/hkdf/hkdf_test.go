package hkdf

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDerive_RFC5869Vector1(t *testing.T) {
	ikm := make([]byte, 22)
	for i := range ikm {
		ikm[i] = 0x0b
	}
	salt, err := hex.DecodeString("000102030405060708090a0b0c")
	require.NoError(t, err)
	info, err := hex.DecodeString("f0f1f2f3f4f5f6f7f8f9")
	require.NoError(t, err)

	out, err := Derive(ikm, salt, info, 42)
	require.NoError(t, err)

	want := "3cb25f25faacd57a90434f64d0362f2a2d2d0a90cf1a5a4c5db02d56ecc4c5bf34007208d5b887185865"
	require.Equal(t, want, hex.EncodeToString(out))
}

func TestDerive_RFC5869Vector2(t *testing.T) {
	ikm := make([]byte, 80)
	for i := range ikm {
		ikm[i] = byte(i)
	}
	salt := make([]byte, 80)
	for i := range salt {
		salt[i] = byte(0x60 + i)
	}
	info := make([]byte, 80)
	for i := range info {
		info[i] = byte(0xb0 + i)
	}

	out, err := Derive(ikm, salt, info, 82)
	require.NoError(t, err)

	want := "b11e398dc80327a1c8e7f78c596a4934" +
		"4f012eda2d4efad8a050cc4c19afa97c" +
		"59045a99cac7827271cb41c65e590e09" +
		"da3275600c2f09b8367793a9aca3db71" +
		"cc30c58179ec3e87c14c01d5c1f3434f" +
		"1d87"
	require.Equal(t, want, hex.EncodeToString(out))
}

func TestDerive_RFC5869Vector3_NoSaltNoInfo(t *testing.T) {
	ikm := make([]byte, 22)
	for i := range ikm {
		ikm[i] = 0x0b
	}

	out, err := Derive(ikm, nil, nil, 42)
	require.NoError(t, err)

	want := "8da4e775a563c18f715f802a063c5a31b8a11f5c5ee1879ec3454e5f3c738d2d9d201395faa4b61a96c8"
	require.Equal(t, want, hex.EncodeToString(out))
}

func TestDerive_Deterministic(t *testing.T) {
	ikm := []byte("master-secret")
	info := []byte("purpose:secret-storage")

	a, err := Derive(ikm, nil, info, 32)
	require.NoError(t, err)
	b, err := Derive(ikm, nil, info, 32)
	require.NoError(t, err)

	require.Equal(t, a, b)
}

func TestExpand_LengthBoundaries(t *testing.T) {
	prk := Extract(nil, []byte("ikm"))

	_, err := Expand(prk, []byte("info"), 0)
	require.Error(t, err)

	_, err = Expand(prk, []byte("info"), -1)
	require.Error(t, err)

	_, err = Expand(prk, []byte("info"), 255*32+1)
	require.Error(t, err)

	out, err := Expand(prk, []byte("info"), 255*32)
	require.NoError(t, err)
	require.Len(t, out, 255*32)
}

func TestExpand_DifferentInfoDifferentOutput(t *testing.T) {
	prk := Extract(nil, []byte("ikm"))

	a, err := Expand(prk, []byte("info-a"), 32)
	require.NoError(t, err)
	b, err := Expand(prk, []byte("info-b"), 32)
	require.NoError(t, err)

	require.NotEqual(t, a, b)
}

func TestExpand_ErrorMentionsInvalidInput(t *testing.T) {
	prk := Extract(nil, []byte("ikm"))
	_, err := Expand(prk, []byte("info"), 0)
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "length"))
}
