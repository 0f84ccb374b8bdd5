package sign

import (
	"crypto/hmac"
	"crypto/sha256"
)

// SecretKey is a shared secret for HMAC-SHA256 authentication codes.
// It has no public identifier: the server must already associate it
// with the claimed owner.
type SecretKey []byte

var _ Credential = SecretKey(nil)

// NewSecretKey copies secret into a new SecretKey.
func NewSecretKey(secret []byte) (SecretKey, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	return SecretKey(append([]byte(nil), secret...)), nil
}

// Sign returns HMAC-SHA256(key=sk, message).
func (sk SecretKey) Sign(message []byte) ([]byte, error) {
	if len(sk) == 0 {
		return nil, ErrEmptySecret
	}
	mac := hmac.New(sha256.New, sk)
	mac.Write(message)
	return mac.Sum(nil), nil
}

// Identity always returns false.
func (sk SecretKey) Identity() ([]byte, bool) {
	return nil, false
}

// Verify reports whether tag is the authentication code of message.
func (sk SecretKey) Verify(message, tag []byte) bool {
	expected, err := sk.Sign(message)
	if err != nil {
		return false
	}
	return hmac.Equal(expected, tag)
}
