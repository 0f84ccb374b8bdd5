package sign

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"io"
	"os"

	"github.com/asokol123/yggdrasil-dns/crypto"
)

const (
	pemTypeECPrivateKey    = "EC PRIVATE KEY"
	pemTypePKCS8PrivateKey = "PRIVATE KEY"
	pemTypePublicKey       = "PUBLIC KEY"
)

// PrivateKey is an ECDSA private key on curve P-256.
// Signatures are computed over SHA-256(message) and DER-encoded.
type PrivateKey struct {
	key *ecdsa.PrivateKey
}

// PublicKey is the public point of a PrivateKey.
type PublicKey struct {
	key *ecdsa.PublicKey
}

var _ Credential = (*PrivateKey)(nil)

// GenerateKey creates a new P-256 key pair using entropy from rnd,
// or from crypto/rand if rnd is nil. Key storage is up to the caller.
func GenerateKey(rnd io.Reader) (*PrivateKey, error) {
	if rnd == nil {
		rnd = rand.Reader
	}
	k, err := ecdsa.GenerateKey(elliptic.P256(), rnd)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{key: k}, nil
}

// NewPrivateKey wraps k. It returns ErrUnsupportedCurve if k is not a
// P-256 key.
func NewPrivateKey(k *ecdsa.PrivateKey) (*PrivateKey, error) {
	if k == nil || k.Curve != elliptic.P256() {
		return nil, ErrUnsupportedCurve
	}
	return &PrivateKey{key: k}, nil
}

// ParsePrivateKey decodes a PEM-encoded private key. Both SEC 1
// ("EC PRIVATE KEY") and PKCS #8 ("PRIVATE KEY") blocks are accepted.
func ParsePrivateKey(data []byte) (*PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, ErrMalformedKey
	}
	switch block.Type {
	case pemTypeECPrivateKey:
		k, err := x509.ParseECPrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedKey, err)
		}
		return NewPrivateKey(k)
	case pemTypePKCS8PrivateKey:
		k, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedKey, err)
		}
		ek, ok := k.(*ecdsa.PrivateKey)
		if !ok {
			return nil, ErrUnsupportedCurve
		}
		return NewPrivateKey(ek)
	default:
		return nil, fmt.Errorf("%w: unexpected PEM block %q",
			ErrMalformedKey, block.Type)
	}
}

// LoadPrivateKey reads and parses the PEM-encoded private key at path.
func LoadPrivateKey(path string) (*PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParsePrivateKey(data)
}

// Sign computes the DER-encoded ECDSA signature over SHA-256(message).
func (k *PrivateKey) Sign(message []byte) ([]byte, error) {
	return ecdsa.SignASN1(rand.Reader, k.key, crypto.Digest(message))
}

// Identity returns the PEM encoding of the public key.
func (k *PrivateKey) Identity() ([]byte, bool) {
	id, err := k.Public().MarshalPEM()
	if err != nil {
		return nil, false
	}
	return id, true
}

// Public returns the public part of k.
func (k *PrivateKey) Public() *PublicKey {
	return &PublicKey{key: &k.key.PublicKey}
}

// MarshalPEM returns the SEC 1 PEM encoding of k.
func (k *PrivateKey) MarshalPEM() ([]byte, error) {
	der, err := x509.MarshalECPrivateKey(k.key)
	if err != nil {
		return nil, err
	}
	return pem.EncodeToMemory(&pem.Block{Type: pemTypeECPrivateKey, Bytes: der}), nil
}

// ParsePublicKey decodes a PEM-encoded PKIX ("PUBLIC KEY") P-256 key.
func ParsePublicKey(data []byte) (*PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil || block.Type != pemTypePublicKey {
		return nil, ErrMalformedKey
	}
	k, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedKey, err)
	}
	ek, ok := k.(*ecdsa.PublicKey)
	if !ok || ek.Curve != elliptic.P256() {
		return nil, ErrUnsupportedCurve
	}
	return &PublicKey{key: ek}, nil
}

// LoadPublicKey reads and parses the PEM-encoded public key at path.
func LoadPublicKey(path string) (*PublicKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParsePublicKey(data)
}

// MarshalPEM returns the PKIX PEM encoding of pk.
func (pk *PublicKey) MarshalPEM() ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(pk.key)
	if err != nil {
		return nil, err
	}
	return pem.EncodeToMemory(&pem.Block{Type: pemTypePublicKey, Bytes: der}), nil
}

// Verify reports whether sig is a valid DER-encoded signature of
// SHA-256(message) under pk.
func (pk *PublicKey) Verify(message, sig []byte) bool {
	return ecdsa.VerifyASN1(pk.key, crypto.Digest(message), sig)
}
