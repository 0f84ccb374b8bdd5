// Defines the commands of the registry protocol, the fields each
// of them carries, and the message signed for authenticated commands.

package protocol

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"
)

// A Command names one registry operation. Its string value is also the
// URL path the request is sent to.
type Command string

// The commands a registry client can send.
const (
	RegisterCommand Command = "register"
	SetSiteCommand  Command = "set_site"
	GetSiteCommand  Command = "get_site"
)

// Field names used on the wire.
const (
	FieldName      = "name"
	FieldSite      = "site"
	FieldAddress   = "address"
	FieldExpires   = "expires"
	FieldOwner     = "owner"
	FieldTimestamp = "timestamp"
	FieldNonce     = "nonce"
	FieldPubKey    = "pubkey"
	FieldSignature = "signature"
)

// FreshnessWindow is how old a timestamp the registry still accepts.
const FreshnessWindow = 30 * time.Second

// An AuthKind tells which authentication field a command carries.
type AuthKind int

const (
	// AuthNone commands are read-only and unauthenticated.
	AuthNone AuthKind = iota
	// AuthIdentity commands carry the credential's public identity
	// in the pubkey field.
	AuthIdentity
	// AuthSignature commands carry a signature over the command's
	// signing message in the signature field.
	AuthSignature
)

type commandSpec struct {
	required []string
	method   string
	auth     AuthKind
}

var commands = map[Command]commandSpec{
	RegisterCommand: {
		required: []string{FieldName},
		method:   http.MethodPost,
		auth:     AuthIdentity,
	},
	SetSiteCommand: {
		required: []string{FieldSite, FieldAddress, FieldExpires, FieldOwner},
		method:   http.MethodPost,
		auth:     AuthSignature,
	},
	GetSiteCommand: {
		required: []string{FieldSite},
		method:   http.MethodGet,
		auth:     AuthNone,
	},
}

var reservedFields = map[string]bool{
	FieldTimestamp: true,
	FieldNonce:     true,
	FieldPubKey:    true,
	FieldSignature: true,
}

// Commands returns all known commands in a stable order.
func Commands() []Command {
	cmds := make([]Command, 0, len(commands))
	for c := range commands {
		cmds = append(cmds, c)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i] < cmds[j] })
	return cmds
}

// ParseCommand returns the Command named s.
func ParseCommand(s string) (Command, error) {
	c := Command(strings.TrimSpace(s))
	if _, ok := commands[c]; !ok {
		return "", &BuildError{Command: c, Err: ErrUnknownCommand}
	}
	return c, nil
}

// Valid reports whether c is a known command.
func (c Command) Valid() bool {
	_, ok := commands[c]
	return ok
}

// Method returns the HTTP verb c is sent with.
func (c Command) Method() string {
	return commands[c].method
}

// Auth returns the authentication requirement of c.
func (c Command) Auth() AuthKind {
	return commands[c].auth
}

// RequiredFields returns the business fields c must be built with.
func (c Command) RequiredFields() []string {
	return append([]string(nil), commands[c].required...)
}

// IsReservedField reports whether field is set by the envelope builder
// rather than by the caller.
func IsReservedField(field string) bool {
	return reservedFields[field]
}

// Params maps field names to scalar values (string, integer or bool).
type Params map[string]interface{}

// Clone returns a shallow copy of p.
func (p Params) Clone() Params {
	c := make(Params, len(p)+3)
	for k, v := range p {
		c[k] = v
	}
	return c
}

// Keys returns the keys of p sorted byte-wise.
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String returns the string stored at field.
func (p Params) String(field string) (string, bool) {
	s, ok := p[field].(string)
	return s, ok
}

// Int64 returns the integer stored at field.
func (p Params) Int64(field string) (int64, bool) {
	switch v := p[field].(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint:
		if uint64(v) <= 1<<63-1 {
			return int64(v), true
		}
	case uint64:
		if v <= 1<<63-1 {
			return int64(v), true
		}
	}
	return 0, false
}

// SigningMessage returns the message a credential signs for cmd: a fixed
// projection of the business fields plus the timestamp. It never covers
// the nonce or the authentication field, so the signature stays valid
// whichever nonce ends up satisfying the proof-of-work.
//
// For set_site the message is owner || site || timestamp, with the
// timestamp in base 10. Commands without a signature have no message.
func SigningMessage(cmd Command, params Params) ([]byte, error) {
	if cmd.Auth() != AuthSignature {
		return nil, nil
	}
	owner, ok := params.String(FieldOwner)
	if !ok {
		return nil, &BuildError{Command: cmd, Field: FieldOwner, Err: ErrMissingField}
	}
	site, ok := params.String(FieldSite)
	if !ok {
		return nil, &BuildError{Command: cmd, Field: FieldSite, Err: ErrMissingField}
	}
	ts, ok := params.Int64(FieldTimestamp)
	if !ok {
		return nil, &BuildError{Command: cmd, Field: FieldTimestamp, Err: ErrMissingField}
	}
	return []byte(owner + site + strconv.FormatInt(ts, 10)), nil
}

// An Envelope is the complete set of fields sent for one command
// invocation, together with the canonical bytes the proof-of-work was
// computed over.
type Envelope struct {
	Command Command
	Params  Params
	// Body is the canonical encoding of Params. It is sent verbatim as the
	// body of POST requests.
	Body []byte
	// Digest is the lowercase hex SHA-256 of Body.
	Digest string
	// Iterations is the number of nonces tried by the miner.
	Iterations uint64
	// MiningTime is the wall-clock time spent mining.
	MiningTime time.Duration
}

// Timestamp returns the envelope's timestamp.
func (e *Envelope) Timestamp() int64 {
	ts, _ := e.Params.Int64(FieldTimestamp)
	return ts
}

// Nonce returns the mined nonce.
func (e *Envelope) Nonce() uint64 {
	n, _ := e.Params[FieldNonce].(uint64)
	return n
}

// A SiteRecord is the registry's answer to a successful get_site.
type SiteRecord struct {
	Address string `json:"address"`
}

// A Response is the registry's answer to a request: the HTTP status and
// the raw body, verbatim, plus whatever could be decoded from the body.
// A non-success status is informational; Err reports it as an error for
// callers that want to treat it as one.
type Response struct {
	Status     int
	StatusText string
	Body       []byte

	// Message is set when the body is a JSON string, which is how the
	// registry reports failures.
	Message string
	// Site is set for a successful get_site.
	Site *SiteRecord

	malformed bool
}

// NewMalformedResponse returns a Response whose body could not be decoded.
func NewMalformedResponse(status int, statusText string, body []byte) *Response {
	return &Response{
		Status:     status,
		StatusText: statusText,
		Body:       body,
		malformed:  true,
	}
}

// Success reports whether the status is 2xx.
func (r *Response) Success() bool {
	return r.Status >= 200 && r.Status < 300
}

// Err returns a *ServerError for a malformed body or a non-success
// status, and nil otherwise.
func (r *Response) Err() error {
	if r.malformed {
		return &ServerError{Status: r.Status, Body: r.Body, Err: ErrMalformedResponse}
	}
	if err := StatusError(r.Status); err != nil {
		return &ServerError{Status: r.Status, Body: r.Body, Err: err}
	}
	return nil
}
