package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"math/big"

	apperrors "github.com/allisson/vaultd/internal/errors"
)

// secretStorageKeyID is the fixed key id embedded in every envelope produced
// by Encrypt (wrapping under the secret-storage purpose KEK).
const secretStorageKeyID = "vault-master-v1"

// selfTestPlaintext is round-tripped at startup; any mismatch is fatal.
const selfTestPlaintext = "vault-encryption-test"

// Named charsets recognised by GenerateRandomString. Any other non-empty
// string is treated as the literal set of allowed runes.
const (
	CharsetAlphanumeric   = "alphanumeric"
	CharsetAlpha          = "alpha"
	CharsetNumeric        = "numeric"
	CharsetHex            = "hex"
	CharsetASCIIPrintable = "ascii-printable"
)

const (
	alphaLower = "abcdefghijklmnopqrstuvwxyz"
	alphaUpper = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits     = "0123456789"
)

// Service implements envelope encryption as a service: it derives
// purpose-scoped KEKs from a process-wide master key, wraps/unwraps
// arbitrary 32-byte keys and plaintexts into the self-describing envelope
// format documented in envelope.go, and provides the supporting CSPRNG
// primitives (random strings, data keys, hashing) used across the secret,
// transit, and rotation subsystems.
//
// All methods are stateless over their arguments and safe for concurrent
// use: the master key is read-only after construction and every other
// operation allocates fresh buffers on the stack/heap of the calling
// goroutine. Plaintext DEKs never outlive a single call.
type Service struct {
	masterKey *MasterKey
}

// NewService constructs a Service around an already-validated master key.
func NewService(masterKey *MasterKey) *Service {
	return &Service{masterKey: masterKey}
}

// Encrypt wraps plaintext under the secret-storage purpose KEK, embedding
// the fixed key id "vault-master-v1".
func (s *Service) Encrypt(plaintext []byte) (string, error) {
	kek, err := s.masterKey.DeriveKEK(PurposeSecretStorage)
	if err != nil {
		return "", err
	}
	defer zero(kek)
	return s.EncryptWithKey(plaintext, secretStorageKeyID, kek)
}

// Decrypt unwraps an envelope produced by Encrypt, using the secret-storage
// purpose KEK. The embedded key id is not re-derived from the KEK; it is
// trusted as a label only (the KEK used to decrypt is always the current
// purpose KEK, since secret-storage has no versioning of its own).
func (s *Service) Decrypt(env string) ([]byte, error) {
	kek, err := s.masterKey.DeriveKEK(PurposeSecretStorage)
	if err != nil {
		return nil, err
	}
	defer zero(kek)
	return s.DecryptWithKey(env, kek)
}

// EncryptWithKey wraps plaintext under an arbitrary caller-supplied 32-byte
// key, embedding keyID in the envelope header. Used by the transit service
// to wrap under a specific key version, and internally by Encrypt.
func (s *Service) EncryptWithKey(plaintext []byte, keyID string, key32 []byte) (string, error) {
	if len(key32) != dekSize {
		return "", errInvalidKeySize()
	}

	dek := make([]byte, dekSize)
	if _, err := rand.Read(dek); err != nil {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "failed to generate dek")
	}
	defer zero(dek)

	dataCipher, err := newAESGCM(dek)
	if err != nil {
		return "", err
	}
	dataIV, ciphertext, err := dataCipher.seal(plaintext)
	if err != nil {
		return "", err
	}

	keyCipher, err := newAESGCM(key32)
	if err != nil {
		return "", err
	}
	dekIV, encDek, err := keyCipher.seal(dek)
	if err != nil {
		return "", err
	}

	env := &envelope{
		keyID:      keyID,
		dekIV:      dekIV,
		encDek:     encDek,
		dataIV:     dataIV,
		ciphertext: ciphertext,
	}
	return env.encodeToString(), nil
}

// DecryptWithKey unwraps an envelope using an arbitrary caller-supplied
// 32-byte key. Returns ErrCryptoAuth on a GCM tag mismatch (wrong key or
// tampered ciphertext), ErrMalformedEnvelope on any structural violation.
func (s *Service) DecryptWithKey(env string, key32 []byte) ([]byte, error) {
	if len(key32) != dekSize {
		return nil, errInvalidKeySize()
	}

	e, err := decodeEnvelope(env)
	if err != nil {
		return nil, err
	}

	keyCipher, err := newAESGCM(key32)
	if err != nil {
		return nil, err
	}
	dek, err := keyCipher.open(e.dekIV, e.encDek)
	if err != nil {
		return nil, err
	}
	defer zero(dek)

	dataCipher, err := newAESGCM(dek)
	if err != nil {
		return nil, err
	}
	return dataCipher.open(e.dataIV, e.ciphertext)
}

// EncryptForPurpose wraps plaintext under the purpose-derived KEK, embedding
// a keyId of the form "vault-<purpose>-v1". Used by subsystems that need
// their own purpose-scoped envelope distinct from secret-storage, such as
// dynamic-lease credential encryption (PurposeDynamicCredential).
func (s *Service) EncryptForPurpose(purpose string, plaintext []byte) (string, error) {
	kek, err := s.masterKey.DeriveKEK(purpose)
	if err != nil {
		return "", err
	}
	defer zero(kek)
	return s.EncryptWithKey(plaintext, purposeKeyID(purpose), kek)
}

// DecryptForPurpose unwraps an envelope produced by EncryptForPurpose using
// the same purpose-derived KEK.
func (s *Service) DecryptForPurpose(purpose string, env string) ([]byte, error) {
	kek, err := s.masterKey.DeriveKEK(purpose)
	if err != nil {
		return nil, err
	}
	defer zero(kek)
	return s.DecryptWithKey(env, kek)
}

// DeriveSigningKey derives a 32-byte signing key for the given purpose from
// the master key, independent of any AEAD KEK. Used by internal/audit to
// HMAC-sign audit entries with a key that never encrypts anything, per the
// cryptographic-separation practice of not reusing one key for two purposes.
func (s *Service) DeriveSigningKey(purpose string) ([]byte, error) {
	return s.masterKey.DeriveKEK(purpose)
}

func purposeKeyID(purpose string) string {
	return "vault-" + purpose + "-v1"
}

// Rewrap decrypts an envelope with oldKey and re-encrypts the recovered
// plaintext under newKey with a fresh DEK and fresh IVs, embedding newKeyID.
// The plaintext never leaves the local stack between the two operations.
func (s *Service) Rewrap(env string, oldKey, newKey []byte, newKeyID string) (string, error) {
	plaintext, err := s.DecryptWithKey(env, oldKey)
	if err != nil {
		return "", err
	}
	defer zero(plaintext)
	return s.EncryptWithKey(plaintext, newKeyID, newKey)
}

// ExtractKeyID parses only the envelope header to recover the embedded key
// id, without touching the DEK or ciphertext.
func (s *Service) ExtractKeyID(env string) (string, error) {
	return ExtractKeyID(env)
}

// GenerateDataKey returns 32 fresh random bytes from a CSPRNG.
func (s *Service) GenerateDataKey() ([]byte, error) {
	dek := make([]byte, dekSize)
	if _, err := rand.Read(dek); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "failed to generate data key")
	}
	return dek, nil
}

// GenerateAndWrapDataKey generates a fresh 32-byte DEK and returns both its
// Base64 plaintext and an envelope of that plaintext wrapped under the
// secret-storage purpose KEK. Used for transit data-key issuance semantics
// when the caller needs a DEK handed back once and recoverable later.
func (s *Service) GenerateAndWrapDataKey() (plaintextB64 string, wrapped string, err error) {
	dek, err := s.GenerateDataKey()
	if err != nil {
		return "", "", err
	}
	defer zero(dek)

	wrapped, err = s.Encrypt(dek)
	if err != nil {
		return "", "", err
	}

	return b64Encode(dek), wrapped, nil
}

// GenerateRandomString draws a uniform random string of the given length
// from a named charset (alphanumeric, alpha, numeric, hex, ascii-printable)
// or, for any other non-empty string, from that string's runes treated as
// the literal allowed alphabet. length must be >= 1.
func (s *Service) GenerateRandomString(length int, charset string) (string, error) {
	if length < 1 {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "length must be >= 1")
	}

	alphabet := alphabetFor(charset)
	if len(alphabet) == 0 {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "empty charset")
	}

	out := make([]rune, length)
	max := big.NewInt(int64(len(alphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", apperrors.Wrap(apperrors.ErrInvalidInput, "failed to draw random index")
		}
		out[i] = alphabet[n.Int64()]
	}
	return string(out), nil
}

// alphabetFor resolves a charset name to its rune alphabet, or treats an
// unrecognised non-empty string as the literal set of allowed runes.
func alphabetFor(charset string) []rune {
	switch charset {
	case CharsetAlphanumeric:
		return []rune(alphaLower + alphaUpper + digits)
	case CharsetAlpha:
		return []rune(alphaLower + alphaUpper)
	case CharsetNumeric:
		return []rune(digits)
	case CharsetHex:
		return []rune("0123456789abcdef")
	case CharsetASCIIPrintable:
		runes := make([]rune, 0, 126-33+1)
		for c := 33; c <= 126; c++ {
			runes = append(runes, rune(c))
		}
		return runes
	default:
		return []rune(charset)
	}
}

// Hash returns the lowercase hex-encoded SHA-256 digest of v.
func (s *Service) Hash(v string) string {
	sum := sha256.Sum256([]byte(v))
	return hex.EncodeToString(sum[:])
}

// SelfTest performs the mandatory startup round-trip check: encrypt a fixed
// plaintext, decrypt it, and compare. Any mismatch must be treated by the
// caller as a fatal startup error.
func (s *Service) SelfTest() error {
	env, err := s.Encrypt([]byte(selfTestPlaintext))
	if err != nil {
		return apperrors.Wrap(err, "crypto self-test: encrypt failed")
	}
	plaintext, err := s.Decrypt(env)
	if err != nil {
		return apperrors.Wrap(err, "crypto self-test: decrypt failed")
	}
	if string(plaintext) != selfTestPlaintext {
		return apperrors.New("crypto self-test: round-trip mismatch")
	}
	return nil
}

func errInvalidKeySize() error {
	return apperrors.Wrap(apperrors.ErrInvalidInput, "key must be exactly 32 bytes")
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

func b64Encode(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}
