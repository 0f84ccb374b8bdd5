// Package sign implements the two credential variants a registry client
// can authenticate requests with: ECDSA signatures on curve P-256 and
// HMAC-SHA256 authentication codes over a shared secret.
//
// Both variants satisfy Credential, so callers only depend on the
// {Sign, Identity} capability and never on the concrete key type.
package sign

import "errors"

// A Credential produces an authentication value over a message and,
// optionally, a public identifier that the server can verify it against.
// A Credential itself is never transmitted.
type Credential interface {
	// Sign returns the authentication value for message.
	Sign(message []byte) ([]byte, error)
	// Identity returns the textual public identifier of the credential.
	// The boolean is false for credentials without a public part.
	Identity() ([]byte, bool)
}

var (
	// ErrMalformedKey indicates that the key material could not be parsed.
	ErrMalformedKey = errors.New("[sign] Malformed key material")
	// ErrUnsupportedCurve indicates an EC key on a curve other than P-256.
	ErrUnsupportedCurve = errors.New("[sign] Key is not on curve P-256")
	// ErrEmptySecret indicates an empty shared secret.
	ErrEmptySecret = errors.New("[sign] Empty shared secret")
)
