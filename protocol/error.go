// Defines the errors a request build or dispatch may fail with, and
// the errors corresponding to the registry's HTTP status codes.

package protocol

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnsupportedType indicates a field value that is not a string,
	// integer or bool.
	ErrUnsupportedType = errors.New("[dns] Unsupported field type")
	// ErrFloatField indicates a floating point field value, which has no
	// canonical encoding.
	ErrFloatField = errors.New("[dns] Floating point fields are not supported")
	// ErrInvalidUTF8 indicates a key or string value that is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("[dns] Invalid UTF-8 in field")

	// ErrUnknownCommand indicates a command the registry does not know.
	ErrUnknownCommand = errors.New("[dns] Unknown command")
	// ErrMissingField indicates a required command field that was not set.
	ErrMissingField = errors.New("[dns] Missing required field")
	// ErrUnexpectedField indicates a field the command does not carry.
	ErrUnexpectedField = errors.New("[dns] Unexpected field")
	// ErrReservedField indicates a caller-supplied value for a field that
	// only the envelope builder may set.
	ErrReservedField = errors.New("[dns] Field is reserved")

	// ErrNoCredential indicates an authenticated command built without
	// a credential.
	ErrNoCredential = errors.New("[dns] No credential configured")
	// ErrNoIdentity indicates a credential without a public identity
	// used for a command that publishes one.
	ErrNoIdentity = errors.New("[dns] Credential has no public identity")

	// ErrMalformedResponse indicates a response body that is not valid JSON
	// of the expected shape.
	ErrMalformedResponse = errors.New("[dns] Malformed server response")
	// ErrUnexpectedStatus indicates a non-success status without a more
	// specific meaning.
	ErrUnexpectedStatus = errors.New("[dns] Unexpected server status")
)

// Errors corresponding to the registry's status codes.
var (
	ErrBadRequest     = errors.New("[dns] Request rejected as malformed, stale or with a bad nonce")
	ErrUnauthorized   = errors.New("[dns] Unknown owner or invalid signature")
	ErrForbidden      = errors.New("[dns] Site is owned by another user")
	ErrSiteNotFound   = errors.New("[dns] Site is not registered")
	ErrNameExisted    = errors.New("[dns] Name is already registered")
	ErrSiteExpired    = errors.New("[dns] Site registration has expired")
	ErrInternalServer = errors.New("[dns] Internal server error")
)

var statusErrors = map[int]error{
	http.StatusBadRequest:          ErrBadRequest,
	http.StatusUnauthorized:        ErrUnauthorized,
	http.StatusForbidden:           ErrForbidden,
	http.StatusNotFound:            ErrSiteNotFound,
	http.StatusConflict:            ErrNameExisted,
	http.StatusGone:                ErrSiteExpired,
	http.StatusInternalServerError: ErrInternalServer,
}

// StatusError returns the error the registry means by status, or nil
// for a success status.
func StatusError(status int) error {
	if status >= 200 && status < 300 {
		return nil
	}
	if err, ok := statusErrors[status]; ok {
		return err
	}
	return ErrUnexpectedStatus
}

// An EncodingError is returned when a field cannot be canonically encoded.
type EncodingError struct {
	Field string
	Err   error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encoding field %q: %v", e.Field, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// A CredentialError is returned when key material or a shared secret is
// missing, unreadable or malformed. It is always raised before mining.
type CredentialError struct {
	Source string
	Err    error
}

func (e *CredentialError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("credential: %v", e.Err)
	}
	return fmt.Sprintf("credential %s: %v", e.Source, e.Err)
}

func (e *CredentialError) Unwrap() error { return e.Err }

// A BuildError is returned when a command cannot be built from the given
// fields. No envelope is produced and nothing is dispatched.
type BuildError struct {
	Command Command
	Field   string
	Err     error
}

func (e *BuildError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("building %s: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("building %s: field %q: %v", e.Command, e.Field, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// A NetworkError is returned when a request could not be exchanged with
// the registry (timeout, refused connection, DNS failure). It is terminal
// for the invocation: the mined envelope is discarded, not retried.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// A ServerError carries a non-success status or a malformed response
// body, verbatim.
type ServerError struct {
	Status int
	Body   []byte
	Err    error
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server responded %d: %v", e.Status, e.Err)
}

func (e *ServerError) Unwrap() error { return e.Err }
