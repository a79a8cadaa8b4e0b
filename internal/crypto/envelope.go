// Package crypto implements envelope encryption: AES-256-GCM AEAD over a
// freshly generated data encryption key (DEK), itself wrapped by a
// caller-supplied 32-byte key (a purpose-derived KEK or a transit key
// version). See the package-level doc comment on Service for the full
// key hierarchy and the on-disk envelope layout.
package crypto

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"

	apperrors "github.com/allisson/vaultd/internal/errors"
)

const (
	envelopeVersion = 1

	dekSize    = 32
	ivSize     = 12
	gcmTagSize = 16

	// minFieldLen and maxFieldLen bound every length-prefixed field in the
	// envelope header. A length outside this range can never be produced by
	// this package and indicates either corruption or tampering.
	minFieldLen = 1
	maxFieldLen = 1000

	// minDekBlockLen is ivSize alone. The DEK is always exactly 32 bytes, so
	// a well-formed dekBlock is always ivSize+dekSize+gcmTagSize, but the
	// codec accepts the documented [12,1000] range for forward compatibility
	// with larger wrapped keys.
	minDekBlockLen = ivSize
	maxDekBlockLen = maxFieldLen
)

// envelope is the parsed, unparsed-ciphertext representation of the on-disk
// format described in SPEC_FULL.md §4.1:
//
//	version    : u8  (= 1)
//	keyIdLen   : u32 (big-endian)
//	keyId      : keyIdLen bytes, UTF-8
//	dekBlockLen: u32 (big-endian)
//	dekBlock   : dekBlockLen bytes = dekIv(12) || encDek
//	dataIv     : 12 bytes
//	ct+tag     : remaining bytes
type envelope struct {
	keyID      string
	dekIV      []byte
	encDek     []byte
	dataIV     []byte
	ciphertext []byte
}

// encode serialises the envelope into the wire byte layout (pre-Base64).
func (e *envelope) encode() []byte {
	keyIDBytes := []byte(e.keyID)
	dekBlock := append(append([]byte{}, e.dekIV...), e.encDek...)

	buf := make([]byte, 0, 1+4+len(keyIDBytes)+4+len(dekBlock)+len(e.dataIV)+len(e.ciphertext))
	buf = append(buf, envelopeVersion)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(keyIDBytes)))
	buf = append(buf, keyIDBytes...)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(dekBlock)))
	buf = append(buf, dekBlock...)
	buf = append(buf, e.dataIV...)
	buf = append(buf, e.ciphertext...)
	return buf
}

// encodeToString returns the Base64 form that is stored/transmitted.
func (e *envelope) encodeToString() string {
	return base64.StdEncoding.EncodeToString(e.encode())
}

// decodeEnvelope parses an on-disk envelope string, rejecting any structural
// violation with ErrMalformedEnvelope. It never touches the DEK or data
// ciphertext cryptographically — this is a pure parse.
func decodeEnvelope(s string) (*envelope, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrMalformedEnvelope, "invalid base64")
	}

	r := &reader{buf: raw}

	version, err := r.byte()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrMalformedEnvelope, "truncated version")
	}
	if version != envelopeVersion {
		return nil, apperrors.Wrap(apperrors.ErrMalformedEnvelope, fmt.Sprintf("unsupported version %d", version))
	}

	keyIDLen, err := r.uint32()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrMalformedEnvelope, "truncated keyIdLen")
	}
	if keyIDLen < minFieldLen || keyIDLen > maxFieldLen {
		return nil, apperrors.Wrap(apperrors.ErrMalformedEnvelope, "keyIdLen out of range")
	}
	keyIDBytes, err := r.take(int(keyIDLen))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrMalformedEnvelope, "truncated keyId")
	}

	dekBlockLen, err := r.uint32()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrMalformedEnvelope, "truncated dekBlockLen")
	}
	if dekBlockLen < minDekBlockLen || dekBlockLen > maxDekBlockLen {
		return nil, apperrors.Wrap(apperrors.ErrMalformedEnvelope, "dekBlockLen out of range")
	}
	dekBlock, err := r.take(int(dekBlockLen))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrMalformedEnvelope, "truncated dekBlock")
	}
	if len(dekBlock) < ivSize {
		return nil, apperrors.Wrap(apperrors.ErrMalformedEnvelope, "dekBlock shorter than iv")
	}

	dataIV, err := r.take(ivSize)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrMalformedEnvelope, "truncated dataIv")
	}

	ciphertext := r.rest()
	if len(ciphertext) < gcmTagSize {
		return nil, apperrors.Wrap(apperrors.ErrMalformedEnvelope, "ciphertext shorter than tag")
	}

	return &envelope{
		keyID:      string(keyIDBytes),
		dekIV:      dekBlock[:ivSize],
		encDek:     dekBlock[ivSize:],
		dataIV:     dataIV,
		ciphertext: ciphertext,
	}, nil
}

// reader is a minimal cursor over a byte slice used to parse the envelope
// header without bounds-check boilerplate at every call site.
type reader struct {
	buf []byte
	pos int
}

func (r *reader) byte() (byte, error) {
	if r.pos+1 > len(r.buf) {
		return 0, fmt.Errorf("eof")
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

func (r *reader) uint32() (uint32, error) {
	if r.pos+4 > len(r.buf) {
		return 0, fmt.Errorf("eof")
	}
	v := binary.BigEndian.Uint32(r.buf[r.pos : r.pos+4])
	r.pos += 4
	return v, nil
}

func (r *reader) take(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.buf) {
		return nil, fmt.Errorf("eof")
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *reader) rest() []byte {
	b := r.buf[r.pos:]
	r.pos = len(r.buf)
	return b
}

// ExtractKeyID parses only the envelope header to recover the embedded key
// id, without touching the DEK block or ciphertext. Used by transit decrypt
// to route to the correct key version before any decryption is attempted.
func ExtractKeyID(env string) (string, error) {
	e, err := decodeEnvelope(env)
	if err != nil {
		return "", err
	}
	return e.keyID, nil
}
