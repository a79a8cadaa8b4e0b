package usecase

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"

	auditDomain "github.com/allisson/vaultd/internal/audit/domain"
	"github.com/allisson/vaultd/internal/crypto"
)

// auditSigningKeyID is the fixed KeyID stamped on every signature produced
// by this signer, so a future key rotation can be detected on verify.
const auditSigningKeyID = "audit-signing-v1"

// signer computes and verifies HMAC-SHA256 signatures over audit entries,
// using a signing key derived via HKDF from the crypto service's master
// key. Keeping the signing key purpose-scoped and separate from any AEAD
// KEK means a compromise of one never implicates the other.
type signer struct {
	cryptoSvc *crypto.Service
}

func newSigner(cryptoSvc *crypto.Service) *signer {
	return &signer{cryptoSvc: cryptoSvc}
}

// sign computes the HMAC-SHA256 signature over entry's canonical
// representation and returns it along with the key id that produced it.
func (s *signer) sign(entry *auditDomain.Entry) (signature []byte, keyID string, err error) {
	signingKey, err := s.cryptoSvc.DeriveSigningKey(crypto.PurposeAuditSigning)
	if err != nil {
		return nil, "", err
	}
	defer zero(signingKey)

	canonical, err := canonicalize(entry)
	if err != nil {
		return nil, "", err
	}

	mac := hmac.New(sha256.New, signingKey)
	mac.Write(canonical)
	return mac.Sum(nil), auditSigningKeyID, nil
}

// verify recomputes entry's signature and compares it in constant time
// against the stored one. Returns ErrSignatureInvalid on any mismatch.
func (s *signer) verify(entry *auditDomain.Entry) error {
	expected, _, err := s.sign(entry)
	if err != nil {
		return err
	}
	if !hmac.Equal(entry.Signature, expected) {
		return auditDomain.ErrSignatureInvalid
	}
	return nil
}

// canonicalize produces a deterministic, length-prefixed byte encoding of
// the fields that make up an entry's identity, so the same logical entry
// always signs to the same bytes regardless of struct field order.
func canonicalize(entry *auditDomain.Entry) ([]byte, error) {
	buf := make([]byte, 0, 256)
	buf = appendLengthPrefixed(buf, []byte(entry.ID))
	buf = appendLengthPrefixed(buf, []byte(derefString(entry.TeamID)))
	buf = appendLengthPrefixed(buf, []byte(derefString(entry.UserID)))
	buf = appendLengthPrefixed(buf, []byte(entry.Operation))
	buf = appendLengthPrefixed(buf, []byte(derefString(entry.Path)))
	buf = appendLengthPrefixed(buf, []byte(entry.ResourceType))
	buf = appendLengthPrefixed(buf, []byte(derefString(entry.ResourceID)))
	if entry.Success {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	buf = appendLengthPrefixed(buf, []byte(derefString(entry.ErrorMessage)))
	buf = appendLengthPrefixed(buf, []byte(entry.IPAddress))
	buf = appendLengthPrefixed(buf, []byte(entry.CorrelationID))

	details := derefString(entry.DetailsJSON)
	if details != "" {
		var v any
		if err := json.Unmarshal([]byte(details), &v); err != nil {
			buf = appendLengthPrefixed(buf, []byte(details))
		} else {
			canonical, err := json.Marshal(v)
			if err != nil {
				return nil, err
			}
			buf = appendLengthPrefixed(buf, canonical)
		}
	} else {
		buf = appendLengthPrefixed(buf, nil)
	}

	ts := make([]byte, 8)
	binary.BigEndian.PutUint64(ts, uint64(entry.CreatedAt.UnixNano()))
	buf = append(buf, ts...)

	return buf, nil
}

func appendLengthPrefixed(buf, data []byte) []byte {
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))
	buf = append(buf, length...)
	return append(buf, data...)
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
