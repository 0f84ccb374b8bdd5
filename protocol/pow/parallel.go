package pow

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/asokol123/yggdrasil-dns/protocol"
	"golang.org/x/sync/errgroup"
)

// MineParallel is like Mine but shards the nonce space across workers:
// worker i scans start+i, start+i+workers, ... The first worker to find
// a solution stops the others. The returned nonce is valid but not
// necessarily the smallest one; callers that need the smallest nonce
// must use Mine. At z = 0 every nonce qualifies, so the result is the
// first nonce of whichever worker is scheduled first.
//
// An iteration cap applies to the sum of all workers' attempts. It is
// split evenly, the first cap%workers workers taking one extra attempt;
// workers left with no attempts are not started.
func MineParallel(ctx context.Context, base protocol.Params, z, workers int,
	opts ...Option) (*Solution, error) {
	if workers <= 1 {
		return Mine(ctx, base, z, opts...)
	}
	if err := ValidateDifficulty(z); err != nil {
		return nil, err
	}
	o := newOptions(opts)
	tmpl, err := protocol.NewTemplate(base, protocol.FieldNonce)
	if err != nil {
		return nil, err
	}

	caps := splitIterations(o.maxIter, workers)

	var (
		once       sync.Once
		solution   *Solution
		done       atomic.Bool
		iterations atomic.Uint64
	)
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		if o.maxIter > 0 && caps[w] == 0 {
			break
		}
		start := o.start + uint64(w)
		maxIter := caps[w]
		g.Go(func() error {
			sol, err := search(gctx, tmpl, z, start, uint64(workers), maxIter, done.Load)
			if sol != nil {
				iterations.Add(sol.Iterations)
			}
			switch {
			case err == ErrMiningExhausted:
				return nil
			case err != nil:
				return err
			case sol.Body != nil:
				once.Do(func() {
					solution = sol
					done.Store(true)
				})
			}
			return nil
		})
	}
	err = g.Wait()
	if solution != nil {
		solution.Iterations = iterations.Load()
		return solution, nil
	}
	if err != nil {
		return nil, err
	}
	return nil, ErrMiningExhausted
}

// splitIterations divides maxIter attempts between workers. Zero means
// no bound for every worker.
func splitIterations(maxIter uint64, workers int) []uint64 {
	caps := make([]uint64, workers)
	if maxIter == 0 {
		return caps
	}
	n := uint64(workers)
	for w := range caps {
		caps[w] = maxIter / n
		if uint64(w) < maxIter%n {
			caps[w]++
		}
	}
	return caps
}
