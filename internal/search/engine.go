// Package search scans candidate seeds in parallel for those whose
// simulated rolls reproduce an observed slot sequence.
package search

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/xtding233/ability-miner/internal/ability"
	"github.com/xtding233/ability-miner/internal/roll"
)

const DefaultChunkSize = 1 << 16

// Request describes one search.
type Request struct {
	Brand ability.Brand
	Slots []roll.Slot
	// Cap bounds the number of hits collected; 0 collects every hit. The
	// bound is best effort: with N workers up to N-1 extra hits may be
	// returned. With a single worker it is exact.
	Cap uint64
}

// Validate rejects brands and abilities outside the catalog.
func (r Request) Validate() error {
	if !r.Brand.Valid() {
		return fmt.Errorf("%w: ordinal %d", ability.ErrUnknownBrand, uint8(r.Brand))
	}
	for i, s := range r.Slots {
		if !s.Ability.Valid() {
			return fmt.Errorf("slot %d: %w: ordinal %d", i, ability.ErrUnknownAbility, uint8(s.Ability))
		}
		if s.Drink.Active && !s.Drink.Ability.Valid() {
			return fmt.Errorf("slot %d drink: %w: ordinal %d", i, ability.ErrUnknownAbility, uint8(s.Drink.Ability))
		}
	}
	return nil
}

// Options tunes the worker pool.
type Options struct {
	// Workers <= 0 uses GOMAXPROCS.
	Workers int
	// ChunkSize is how many candidates a worker claims at a time.
	ChunkSize uint32
	// ProgressInterval <= 0 disables progress logging.
	ProgressInterval time.Duration
}

// Engine runs searches. It holds no per-search state and is safe for
// concurrent use.
type Engine struct {
	opts Options
	log  *zap.Logger
}

// NewEngine creates an engine; a nil logger discards output.
func NewEngine(opts Options, logger *zap.Logger) *Engine {
	if opts.ChunkSize == 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{opts: opts, log: logger}
}

func (e *Engine) workers(n uint64) int {
	w := e.opts.Workers
	if w <= 0 {
		w = runtime.GOMAXPROCS(0)
	}
	chunks := (n + uint64(e.opts.ChunkSize) - 1) / uint64(e.opts.ChunkSize)
	if uint64(w) > chunks {
		w = int(chunks)
	}
	return max(w, 1)
}

// Search returns every seed in space whose rolls for req.Brand reproduce
// req.Slots, up to req.Cap. With one worker hits keep encounter order;
// otherwise they are sorted ascending. Each returned seed has been
// re-verified. Cancelling ctx stops the scan and returns ctx.Err().
func (e *Engine) Search(ctx context.Context, space Space, req Request) ([]uint32, error) {
	n := space.Len()
	if n == 0 {
		return nil, nil
	}
	workers := e.workers(n)
	chunk := uint64(e.opts.ChunkSize)
	start := time.Now()

	log := e.log.With(
		zap.Stringer("brand", req.Brand),
		zap.Int("slots", len(req.Slots)),
		zap.Uint64("cap", req.Cap),
	)
	log.Info("search started", zap.Uint64("candidates", n), zap.Int("workers", workers))

	var (
		cursor  atomic.Uint64
		scanned atomic.Uint64
		hits    atomic.Uint64
		mu      sync.Mutex
		found   []uint32
	)
	full := func() bool { return req.Cap > 0 && hits.Load() >= req.Cap }

	stopProgress := e.startProgress(log, n, &scanned, &hits)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ctx.Err() == nil && !full() {
				lo := cursor.Add(chunk) - chunk
				if lo >= n {
					return
				}
				hi := min(lo+chunk, n)
				for i := lo; i < hi; i++ {
					state := space.At(i)
					if !roll.Matches(&state, req.Brand, req.Slots) {
						continue
					}
					if full() {
						scanned.Add(i - lo + 1)
						return
					}
					mu.Lock()
					found = append(found, space.At(i))
					mu.Unlock()
					hits.Add(1)
				}
				scanned.Add(hi - lo)
			}
		}()
	}
	wg.Wait()
	stopProgress()

	if err := ctx.Err(); err != nil {
		log.Warn("search cancelled", zap.Uint64("scanned", scanned.Load()), zap.Error(err))
		return nil, err
	}

	verify(found, req, roll.MatchesSeed)
	if workers > 1 {
		slices.Sort(found)
	}

	log.Info("search finished",
		zap.Int("hits", len(found)),
		zap.Uint64("scanned", scanned.Load()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return found, nil
}

type matchFunc func(seed uint32, b ability.Brand, slots []roll.Slot) bool

// verify re-runs the predicate on every hit. The predicate is pure, so a
// failure means the tables or the simulator are broken; that is never
// recoverable.
func verify(found []uint32, req Request, match matchFunc) {
	for _, seed := range found {
		if !match(seed, req.Brand, req.Slots) {
			panic(fmt.Sprintf("search: seed %d (%08x) failed re-verification for brand %s", seed, seed, req.Brand))
		}
	}
}

// startProgress logs scan rate and ETA until the returned stop func is called.
func (e *Engine) startProgress(log *zap.Logger, total uint64, scanned, hits *atomic.Uint64) func() {
	if e.opts.ProgressInterval <= 0 {
		return func() {}
	}
	start := time.Now()
	tk := time.NewTicker(e.opts.ProgressInterval)
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer tk.Stop()
		for {
			select {
			case <-tk.C:
				n := scanned.Load()
				elapsed := time.Since(start).Seconds()
				speed := float64(n) / (elapsed + 1e-9)
				eta := time.Duration(float64(total-n) / (speed + 1e-9) * float64(time.Second))
				log.Info("search progress",
					zap.Uint64("scanned", n),
					zap.Uint64("total", total),
					zap.String("pct", fmt.Sprintf("%.2f%%", 100*float64(n)/float64(total))),
					zap.Float64("seeds_per_sec", speed),
					zap.Uint64("hits", hits.Load()),
					zap.Duration("eta", eta.Round(time.Second)),
				)
			case <-stop:
				return
			}
		}
	}()
	return func() {
		close(stop)
		<-done
	}
}
