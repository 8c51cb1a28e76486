package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/hanoi/pkg/cache"
	"github.com/matzehuels/hanoi/pkg/hanoi"
	"github.com/matzehuels/hanoi/pkg/observability"
)

// cacheKeyType labels solve entries in cache hooks.
const cacheKeyType = "solve"

// Runner encapsulates solve execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner; each Solve builds its own
// puzzle.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Solve builds the puzzle described by opts, moves the tower, verifies the
// terminal state and returns the result. Results are cached by
// configuration; Refresh or an Observer bypasses the lookup.
//
// Solve does not observe ctx while moving rings: the solve runs to
// completion once started. ctx bounds cache access and is passed to hooks;
// a result finished after ctx is cancelled is returned but not cached.
func (r *Runner) Solve(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := opts.Logger

	key := r.Keyer.SolveKey(cache.SolveKeyOpts{
		Rings:       opts.Rings,
		Pegs:        opts.Pegs,
		Source:      opts.Source,
		Destination: opts.Destination,
	})

	if !opts.Refresh && opts.Observer == nil {
		if res, ok := r.lookup(ctx, key); ok {
			logger.Debug("cache hit", "key", key)
			return res, nil
		}
	}

	p, err := hanoi.New(opts.Rings, opts.Pegs, opts.Source, opts.Destination)
	if err != nil {
		return nil, err
	}
	aux, err := p.FindAuxiliary()
	if err != nil {
		return nil, err
	}
	if opts.Observer != nil {
		p.OnMove(opts.Observer)
	}

	logger.Debug("solving tower", "rings", opts.Rings, "pegs", opts.Pegs, "source", opts.Source, "destination", opts.Destination, "auxiliary", aux)
	observability.Solve().OnSolveStart(ctx, opts.Rings)
	start := time.Now()
	err = p.MoveTower()
	elapsed := time.Since(start)
	if err == nil {
		err = p.Verify()
	}
	observability.Solve().OnSolveComplete(ctx, opts.Rings, p.Moves(), elapsed, err)
	if err != nil {
		return nil, err
	}

	expected, _ := hanoi.MovesRequired(opts.Rings)
	res := &Result{
		ID:          uuid.NewString(),
		Rings:       opts.Rings,
		Pegs:        opts.Pegs,
		Source:      p.Source(),
		Destination: p.Destination(),
		Auxiliary:   aux,
		Moves:       p.Moves(),
		Expected:    expected,
		Duration:    elapsed,
		SolvedAt:    time.Now().UTC(),
		Final:       finalPegs(p),
	}

	logger.Info("solved tower", "rings", res.Rings, "moves", res.Moves, "duration", res.Duration)
	if ctx.Err() != nil {
		logger.Debug("caller gone, result not cached", "key", key)
		return res, nil
	}
	r.store(ctx, key, res)
	return res, nil
}

func (r *Runner) lookup(ctx context.Context, key string) (*Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return nil, false
	}
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		r.Logger.Warn("dropping cache entry", "key", key, "err", fmt.Errorf("%w: %w", cache.ErrCorrupt, err))
		_ = r.Cache.Delete(ctx, key)
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, cacheKeyType)
	res.Cached = true
	return &res, true
}

func (r *Runner) store(ctx context.Context, key string, res *Result) {
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLSolve); err != nil {
		// The caller may cancel and close the cache while Set runs.
		if ctx.Err() == nil {
			r.Logger.Warn("cache write failed", "err", err)
		}
		return
	}
	observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
}

func finalPegs(p *hanoi.Puzzle[int]) [][]int {
	pegs := make([][]int, p.PegCount())
	for i := range pegs {
		peg := p.Peg(i)
		pegs[i] = peg.Rings()
		if pegs[i] == nil {
			pegs[i] = []int{}
		}
	}
	return pegs
}
