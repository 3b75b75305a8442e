// Package cache provides the three process-wide, fingerprint-keyed caches
// the search consults: move lists, evaluator scores, and in-check flags.
// All three are backed by an in-memory ristretto cache -- no disk
// persistence, since a turn's worth of state must not outlive the process.
package cache

import (
	"context"
	"fmt"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/seekerror/logw"
)

// defaultBufferItems is ristretto's recommended get-buffer size; it does
// not need to scale with cache capacity.
const defaultBufferItems = 64

func newRistretto[V any](ctx context.Context, label string, maxEntries int64) (*ristretto.Cache[string, V], error) {
	c, err := ristretto.NewCache(&ristretto.Config[string, V]{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: defaultBufferItems,
		Metrics:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("cache: new %v cache: %w", label, err)
	}
	logw.Infof(ctx, "allocated %v cache for %v entries", label, maxEntries)
	return c, nil
}

// Stats reports a cache's hit ratio and entries-added count, for the
// teardown logging the turn driver emits.
type Stats struct {
	Ratio float64
	Added uint64
}

// Caches bundles the three process-wide transposition caches the search
// and turn driver consult on their hot path (spec.md §4.3/§4.4): move
// lists, evaluator scores, and in-check flags, all keyed by
// board.Fingerprint.
type Caches struct {
	Moves *MoveListCache
	Eval  *EvalCache
	Check *CheckCache
}

// NewCaches allocates all three caches at the same entry capacity.
func NewCaches(ctx context.Context, maxEntries int64) (*Caches, error) {
	moves, err := NewMoveListCache(ctx, maxEntries)
	if err != nil {
		return nil, err
	}
	evalC, err := NewEvalCache(ctx, maxEntries)
	if err != nil {
		return nil, err
	}
	check, err := NewCheckCache(ctx, maxEntries)
	if err != nil {
		return nil, err
	}
	return &Caches{Moves: moves, Eval: evalC, Check: check}, nil
}

// Stats reports each cache's Stats, for teardown logging.
func (c *Caches) Stats() (moves, eval, check Stats) {
	return c.Moves.Stats(), c.Eval.Stats(), c.Check.Stats()
}

// Close releases all three caches.
func (c *Caches) Close() {
	c.Moves.Close()
	c.Eval.Close()
	c.Check.Close()
}
