// Package engine implements the turn driver (C8): builds the root
// Position from the host's turn context, budgets time, runs the
// mandatory depth-1 bootstrap search followed by iterative deepening,
// and submits the chosen Action through the transport.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/halvard/corechess/pkg/board"
	"github.com/halvard/corechess/pkg/cache"
	"github.com/halvard/corechess/pkg/eval"
	"github.com/halvard/corechess/pkg/history"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

var version = build.NewVersion(0, 1, 0)

// Options are engine tuning knobs (SPEC_FULL.md §4.9): none of them
// changes search semantics, only how much of the time/depth budget the
// turn driver is willing to spend.
type Options struct {
	// MaxDepth caps the iterative-deepening loop regardless of remaining
	// time budget. Unset (None) means no cap.
	MaxDepth lang.Option[int]
	// TimeBudgetMultiplier scales the per-turn time budget computed from
	// the remaining clock (spec.md §4.7 step 2). Zero defaults to 1.0.
	TimeBudgetMultiplier float64
	// QuiescenceExtensionCap bounds floor(sqrt(depth)) from above. Unset
	// (None) means no cap.
	QuiescenceExtensionCap lang.Option[int]
	// CacheSize is the per-cache entry capacity for the three transposition
	// caches (C5).
	CacheSize int64
}

func (o Options) String() string {
	return fmt.Sprintf("{maxDepth=%v, timeBudgetMultiplier=%v, quiescenceCap=%v, cacheSize=%v}",
		o.MaxDepth, o.TimeBudgetMultiplier, o.QuiescenceExtensionCap, o.CacheSize)
}

func (o Options) timeBudgetMultiplier() float64 {
	if o.TimeBudgetMultiplier == 0 {
		return 1.0
	}
	return o.TimeBudgetMultiplier
}

// Engine encapsulates the turn-driving logic: position construction, time
// budgeting, the search call tree and the process-wide history table and
// transposition caches. Engine is not safe for concurrent ProcessTurn
// calls (spec.md §5: single-threaded, cooperative-by-turn), but its
// accessor methods take a mutex so teardown/inspection from another
// goroutine (e.g. a console harness) is safe.
type Engine struct {
	opts      Options
	evaluator eval.Evaluator
	caches    *cache.Caches

	mu      sync.Mutex
	history *history.Table
	// plies approximates total game plies played so far (both sides), used
	// by the time-budget formula (spec.md §4.7 step 2). The host's turn
	// context exposes no running total-plies counter, only a bounded
	// recent-move window, so the engine counts its own turns and assumes
	// one opponent reply per own turn.
	plies int
}

// New constructs an Engine. The three transposition caches are allocated
// eagerly, sized by opts.CacheSize, and New calls Initialize itself, so the
// history table is ready for the first turn.
func New(ctx context.Context, opts Options, evaluator eval.Evaluator) (*Engine, error) {
	size := opts.CacheSize
	if size == 0 {
		size = 1 << 16
	}
	opts.CacheSize = size

	caches, err := cache.NewCaches(ctx, size)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	e := &Engine{
		opts:      opts,
		evaluator: evaluator,
		caches:    caches,
	}
	e.Initialize(ctx)

	logw.Infof(ctx, "initialized engine %v, options=%v", e.Name(), e.opts)
	return e, nil
}

// Name returns the engine name and version.
func (e *Engine) Name() string {
	return fmt.Sprintf("corechess %v", version)
}

// Initialize (re)constructs the history table. Per spec.md §6, this is
// the core's external initialize entry point; calling it again discards
// move-ordering history accumulated so far, but leaves the transposition
// caches untouched (they are keyed by Position fingerprint, not by game).
func (e *Engine) Initialize(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.history = history.NewTable()
	e.plies = 0
	logw.Infof(ctx, "history table initialized")
}

// Teardown logs final cache/history statistics and releases the
// transposition caches. Per spec.md §6, teardown frees nothing observable
// beyond the process's own resources.
func (e *Engine) Teardown(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	moves, evalStats, check := e.caches.Stats()
	logw.Infof(ctx, "teardown: move-cache=%+v eval-cache=%+v check-cache=%+v", moves, evalStats, check)

	e.caches.Close()
}

func (e *Engine) quiescenceCap(computed int) int {
	if capVal, ok := e.opts.QuiescenceExtensionCap.V(); ok && computed > capVal {
		return capVal
	}
	return computed
}

func (e *Engine) depthAllowed(depth int) bool {
	maxDepth, ok := e.opts.MaxDepth.V()
	return !ok || depth <= maxDepth
}
