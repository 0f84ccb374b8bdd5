// Package pow implements the proof-of-work puzzle a registry client
// solves before submitting a request: find a nonce such that the
// lowercase hex SHA-256 of the canonical encoding of the request starts
// with a given number of '0' characters.
//
// Mine scans nonces sequentially from 1 and therefore returns the
// smallest satisfying nonce; MineParallel shards the nonce space across
// workers and returns whichever valid nonce is found first.
package pow

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/asokol123/yggdrasil-dns/crypto"
	"github.com/asokol123/yggdrasil-dns/protocol"
)

const (
	// DefaultDifficulty is the number of leading hex zeros the registry
	// requires.
	DefaultDifficulty = 4
	// MaxDifficulty is the largest satisfiable difficulty.
	MaxDifficulty = crypto.HexDigestSize

	// cancellation is checked once per checkInterval attempts
	checkInterval = 1 << 10
)

var (
	// ErrDifficulty indicates a difficulty outside [0, MaxDifficulty].
	ErrDifficulty = errors.New("[pow] Difficulty out of range")
	// ErrMiningExhausted indicates that the iteration cap was reached
	// without finding a solution.
	ErrMiningExhausted = errors.New("[pow] Iteration cap reached without a solution")
)

// A Solution is a nonce satisfying the puzzle, together with the
// canonical encoding it was found for.
type Solution struct {
	Nonce uint64
	// Digest is the lowercase hex SHA-256 of Body.
	Digest string
	// Body is the canonical encoding of the parameters with Nonce set.
	Body []byte
	// Iterations is the number of nonces tried, across all workers.
	Iterations uint64
}

type options struct {
	start   uint64
	maxIter uint64
}

// An Option configures a mining run.
type Option func(*options)

// WithStartNonce makes the search start at n instead of 1. Nonces are
// never below 1, so n = 0 is the same as the default.
func WithStartNonce(n uint64) Option {
	return func(o *options) {
		o.start = n
	}
}

// WithMaxIterations bounds the number of nonces tried. Zero means no bound.
func WithMaxIterations(n uint64) Option {
	return func(o *options) {
		o.maxIter = n
	}
}

func newOptions(opts []Option) *options {
	o := &options{start: 1}
	for _, opt := range opts {
		opt(o)
	}
	if o.start == 0 {
		o.start = 1
	}
	return o
}

// ValidateDifficulty returns ErrDifficulty if z cannot be mined.
func ValidateDifficulty(z int) error {
	if z < 0 || z > MaxDifficulty {
		return fmt.Errorf("%w: %d", ErrDifficulty, z)
	}
	return nil
}

// Verify reports whether body satisfies difficulty z, the way the
// registry checks a submitted request.
func Verify(body []byte, z int) bool {
	return crypto.HasLeadingZeros(crypto.HexDigest(body), z)
}

// Mine searches for the smallest nonce >= start (1 by default) such that
// the canonical encoding of base with "nonce" set to it satisfies
// difficulty z. base is not modified.
//
// The search has no deadline of its own: it stops when ctx is done, or
// with ErrMiningExhausted when an iteration cap was set and reached.
// Encoding failures are returned as *protocol.EncodingError before any
// hashing happens.
func Mine(ctx context.Context, base protocol.Params, z int, opts ...Option) (*Solution, error) {
	if err := ValidateDifficulty(z); err != nil {
		return nil, err
	}
	o := newOptions(opts)
	tmpl, err := protocol.NewTemplate(base, protocol.FieldNonce)
	if err != nil {
		return nil, err
	}
	sol, err := search(ctx, tmpl, z, o.start, 1, o.maxIter, nil)
	if err != nil {
		return nil, err
	}
	return sol, nil
}

// search tries nonces start, start+step, start+2*step, ... until one
// satisfies z. found, if not nil, is polled together with ctx so that
// sibling workers can stop each other. The returned Solution always
// carries the number of attempts, even alongside an error.
func search(ctx context.Context, tmpl *protocol.Template, z int,
	start, step, maxIter uint64, found func() bool) (*Solution, error) {
	var buf []byte
	var iter uint64
	for nonce := start; ; nonce += step {
		if maxIter > 0 && iter >= maxIter {
			return &Solution{Iterations: iter}, ErrMiningExhausted
		}
		if iter%checkInterval == 0 {
			if err := ctx.Err(); err != nil {
				return &Solution{Iterations: iter}, err
			}
			if found != nil && found() {
				return &Solution{Iterations: iter}, nil
			}
		}

		buf = tmpl.Render(buf[:0], nonce)
		iter++
		digest := crypto.HexDigest(buf)
		if crypto.HasLeadingZeros(digest, z) {
			return &Solution{
				Nonce:      nonce,
				Digest:     digest,
				Body:       append([]byte(nil), buf...),
				Iterations: iter,
			}, nil
		}

		if nonce > math.MaxUint64-step {
			return &Solution{Iterations: iter}, ErrMiningExhausted
		}
	}
}
