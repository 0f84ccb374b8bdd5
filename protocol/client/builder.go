package client

import (
	"context"
	"encoding/hex"
	"time"

	"github.com/asokol123/yggdrasil-dns/crypto/sign"
	"github.com/asokol123/yggdrasil-dns/protocol"
	"github.com/asokol123/yggdrasil-dns/protocol/pow"
)

// A Builder builds envelopes for a single credential. It holds no
// per-request state and is safe for concurrent use.
type Builder struct {
	credential    sign.Credential
	difficulty    int
	workers       int
	maxIterations uint64
	now           func() time.Time
}

// An Option configures a Builder.
type Option func(*Builder)

// WithDifficulty sets the number of leading hex zeros to mine for.
func WithDifficulty(z int) Option {
	return func(b *Builder) {
		b.difficulty = z
	}
}

// WithWorkers mines with n parallel workers. With n > 1 the mined nonce
// is valid but not necessarily the smallest one.
func WithWorkers(n int) Option {
	return func(b *Builder) {
		b.workers = n
	}
}

// WithMaxIterations bounds the mining search. Zero means no bound.
func WithMaxIterations(n uint64) Option {
	return func(b *Builder) {
		b.maxIterations = n
	}
}

// WithClock replaces time.Now as the source of envelope timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		b.now = now
	}
}

// NewBuilder returns a Builder authenticating with credential, which may
// be nil if only unauthenticated commands are built.
func NewBuilder(credential sign.Credential, opts ...Option) *Builder {
	b := &Builder{
		credential: credential,
		difficulty: pow.DefaultDifficulty,
		workers:    1,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Difficulty returns the difficulty b mines for.
func (b *Builder) Difficulty() int {
	return b.difficulty
}

// Register builds a register envelope for name, publishing the
// credential's identity as pubkey.
func (b *Builder) Register(ctx context.Context, name string) (*protocol.Envelope, error) {
	return b.Build(ctx, protocol.RegisterCommand, protocol.Params{
		protocol.FieldName: name,
	})
}

// SetSite builds a set_site envelope signed by owner's credential.
func (b *Builder) SetSite(ctx context.Context, site, address string,
	expires int64, owner string) (*protocol.Envelope, error) {
	return b.Build(ctx, protocol.SetSiteCommand, protocol.Params{
		protocol.FieldSite:    site,
		protocol.FieldAddress: address,
		protocol.FieldExpires: expires,
		protocol.FieldOwner:   owner,
	})
}

// GetSite builds an unauthenticated get_site envelope.
func (b *Builder) GetSite(ctx context.Context, site string) (*protocol.Envelope, error) {
	return b.Build(ctx, protocol.GetSiteCommand, protocol.Params{
		protocol.FieldSite: site,
	})
}

// Build runs the envelope pipeline for cmd over fields. fields must hold
// exactly the command's required fields; it is not modified.
//
// Errors are *protocol.BuildError for bad commands, fields or
// difficulty, *protocol.EncodingError for values without a canonical
// encoding and *protocol.CredentialError for a missing or unusable
// credential, all raised before mining starts. Mining itself only fails
// if ctx is done or the iteration cap is reached.
func (b *Builder) Build(ctx context.Context, cmd protocol.Command,
	fields protocol.Params) (*protocol.Envelope, error) {
	if !cmd.Valid() {
		return nil, &protocol.BuildError{Command: cmd, Err: protocol.ErrUnknownCommand}
	}
	if err := pow.ValidateDifficulty(b.difficulty); err != nil {
		return nil, &protocol.BuildError{Command: cmd, Err: err}
	}
	if err := checkFields(cmd, fields); err != nil {
		return nil, err
	}
	if _, err := protocol.Encode(fields); err != nil {
		return nil, err
	}
	if err := b.checkCredential(cmd); err != nil {
		return nil, err
	}

	params := fields.Clone()
	params[protocol.FieldTimestamp] = b.now().Unix()

	switch cmd.Auth() {
	case protocol.AuthIdentity:
		id, _ := b.credential.Identity()
		params[protocol.FieldPubKey] = string(id)
	case protocol.AuthSignature:
		msg, err := protocol.SigningMessage(cmd, params)
		if err != nil {
			return nil, err
		}
		sig, err := b.credential.Sign(msg)
		if err != nil {
			return nil, &protocol.CredentialError{Err: err}
		}
		params[protocol.FieldSignature] = hex.EncodeToString(sig)
	}

	var opts []pow.Option
	if b.maxIterations > 0 {
		opts = append(opts, pow.WithMaxIterations(b.maxIterations))
	}
	start := time.Now()
	sol, err := pow.MineParallel(ctx, params, b.difficulty, b.workers, opts...)
	if err != nil {
		return nil, err
	}
	params[protocol.FieldNonce] = sol.Nonce

	return &protocol.Envelope{
		Command:    cmd,
		Params:     params,
		Body:       sol.Body,
		Digest:     sol.Digest,
		Iterations: sol.Iterations,
		MiningTime: time.Since(start),
	}, nil
}

func checkFields(cmd protocol.Command, fields protocol.Params) error {
	required := make(map[string]bool)
	for _, f := range cmd.RequiredFields() {
		required[f] = true
		v, ok := fields[f]
		if !ok || v == nil {
			return &protocol.BuildError{Command: cmd, Field: f, Err: protocol.ErrMissingField}
		}
		if s, isString := v.(string); isString && s == "" {
			return &protocol.BuildError{Command: cmd, Field: f, Err: protocol.ErrMissingField}
		}
	}
	for _, f := range fields.Keys() {
		if protocol.IsReservedField(f) {
			return &protocol.BuildError{Command: cmd, Field: f, Err: protocol.ErrReservedField}
		}
		if !required[f] {
			return &protocol.BuildError{Command: cmd, Field: f, Err: protocol.ErrUnexpectedField}
		}
	}
	return nil
}

func (b *Builder) checkCredential(cmd protocol.Command) error {
	switch cmd.Auth() {
	case protocol.AuthIdentity:
		if b.credential == nil {
			return &protocol.CredentialError{Err: protocol.ErrNoCredential}
		}
		if _, ok := b.credential.Identity(); !ok {
			return &protocol.CredentialError{Err: protocol.ErrNoIdentity}
		}
	case protocol.AuthSignature:
		if b.credential == nil {
			return &protocol.CredentialError{Err: protocol.ErrNoCredential}
		}
	}
	return nil
}
