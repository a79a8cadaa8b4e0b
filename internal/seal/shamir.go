// Package seal implements the seal/unseal state machine that gates every
// data-plane operation, and Shamir's Secret Sharing over GF(2^8), used to
// split and reconstruct the process master key.
package seal

import (
	"crypto/rand"

	apperrors "github.com/allisson/vaultd/internal/errors"
)

// The field GF(2^8) is built from the AES irreducible polynomial 0x11B with
// generator 3. exp and log are precomputed once at package init and are
// read-only for the remainder of the process lifetime.
var (
	expTable [512]byte
	logTable [256]byte
)

func init() {
	const poly = 0x11B
	x := 1
	for i := 0; i < 255; i++ {
		expTable[i] = byte(x)
		logTable[byte(x)] = byte(i)
		x ^= x << 1
		if x&0x100 != 0 {
			x ^= poly
		}
	}
	// Extend to 512 entries so multiplication can add logs without a mod-255
	// reduction on the lookup.
	for i := 255; i < 512; i++ {
		expTable[i] = expTable[i-255]
	}
}

// gfAdd is addition in GF(2^8), which is XOR.
func gfAdd(a, b byte) byte { return a ^ b }

// gfMul multiplies two field elements using the precomputed log/exp tables.
func gfMul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return expTable[int(logTable[a])+int(logTable[b])]
}

// gfDiv divides a by b in the field. b must be non-zero.
func gfDiv(a, b byte) byte {
	if a == 0 {
		return 0
	}
	// 255 - log(b) is the log of the multiplicative inverse of b.
	return expTable[int(logTable[a])+255-int(logTable[b])]
}

// MaxShares is the upper bound on N imposed by the single-byte share index.
const MaxShares = 255

// Split divides secret into n shares with reconstruction threshold m, per
// byte, using a degree-(m-1) random polynomial with the secret byte as the
// constant term. Returns one slice per share, indexed 0..n-1 corresponding
// to evaluation points 1..n.
func Split(secret []byte, n, m int) ([][]byte, error) {
	if m < 2 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "threshold must be >= 2")
	}
	if n > MaxShares {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "shares must be <= 255")
	}
	if m > n {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "threshold must be <= shares")
	}
	if len(secret) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "secret must not be empty")
	}

	shares := make([][]byte, n)
	for i := range shares {
		shares[i] = make([]byte, len(secret))
	}

	coeffs := make([]byte, m)
	for byteIdx, secretByte := range secret {
		coeffs[0] = secretByte
		if _, err := rand.Read(coeffs[1:]); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "failed to draw polynomial coefficients")
		}

		for shareIdx := 0; shareIdx < n; shareIdx++ {
			x := byte(shareIdx + 1)
			shares[shareIdx][byteIdx] = evalPoly(coeffs, x)
		}
	}

	return shares, nil
}

// evalPoly evaluates the polynomial with the given coefficients (lowest
// degree first) at x, using Horner's method in GF(2^8).
func evalPoly(coeffs []byte, x byte) byte {
	result := byte(0)
	for i := len(coeffs) - 1; i >= 0; i-- {
		result = gfAdd(gfMul(result, x), coeffs[i])
	}
	return result
}

// Reconstruct recovers the original secret from K >= threshold shares given
// their 1-based x-coordinates, using Lagrange interpolation at x=0. All
// share byte slices must have equal length, and xs must contain no
// duplicates. Disjoint subsets of the same split that each meet the
// threshold always reconstruct the same value.
func Reconstruct(xs []byte, shares [][]byte) ([]byte, error) {
	if len(xs) != len(shares) {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "mismatched xs/shares length")
	}
	if len(xs) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "no shares provided")
	}
	secretLen := len(shares[0])
	for _, s := range shares {
		if len(s) != secretLen {
			return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "share length mismatch")
		}
	}
	seen := make(map[byte]struct{}, len(xs))
	for _, x := range xs {
		if x == 0 {
			return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "share x-coordinate must not be zero")
		}
		if _, dup := seen[x]; dup {
			return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "duplicate share x-coordinate")
		}
		seen[x] = struct{}{}
	}

	secret := make([]byte, secretLen)
	for byteIdx := 0; byteIdx < secretLen; byteIdx++ {
		var acc byte
		for i, xi := range xs {
			yi := shares[i][byteIdx]
			term := yi
			for j, xj := range xs {
				if i == j {
					continue
				}
				// term *= xj / (xi XOR xj)
				term = gfMul(term, gfDiv(xj, gfAdd(xi, xj)))
			}
			acc = gfAdd(acc, term)
		}
		secret[byteIdx] = acc
	}

	return secret, nil
}
