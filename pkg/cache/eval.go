package cache

import (
	"context"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/halvard/corechess/pkg/board"
	"github.com/halvard/corechess/pkg/eval"
)

// EvalCache caches the evaluator's last returned value for a Position,
// keyed by board.Fingerprint. The engine evaluates from a single fixed
// side ("self") for the lifetime of a game, so the fingerprint alone
// (which already encodes side-to-move) is sufficient per spec.md §4.4.
type EvalCache struct {
	c *ristretto.Cache[string, float64]
}

func NewEvalCache(ctx context.Context, maxEntries int64) (*EvalCache, error) {
	c, err := newRistretto[float64](ctx, "evaluation", maxEntries)
	if err != nil {
		return nil, err
	}
	return &EvalCache{c: c}, nil
}

func (ec *EvalCache) Get(pos *board.Position) (float64, bool) {
	return ec.c.Get(board.Fingerprint(pos))
}

func (ec *EvalCache) Put(pos *board.Position, value float64) {
	ec.c.Set(board.Fingerprint(pos), value, 1)
}

// Evaluate returns e's score for pos from side's perspective, consulting
// the cache first and populating it on a miss -- the entry point search
// should call instead of e.Evaluate directly so the hot path actually
// benefits from the cache (spec.md §4.3/§4.4).
func (ec *EvalCache) Evaluate(pos *board.Position, side board.Side, e eval.Evaluator) float64 {
	if v, ok := ec.Get(pos); ok {
		return v
	}
	v := e.Evaluate(pos, side)
	ec.Put(pos, v)
	return v
}

func (ec *EvalCache) Stats() Stats {
	metrics := ec.c.Metrics
	if metrics == nil {
		return Stats{}
	}
	return Stats{Ratio: metrics.Ratio(), Added: metrics.KeysAdded()}
}

func (ec *EvalCache) Wait() {
	ec.c.Wait()
}

func (ec *EvalCache) Close() {
	ec.c.Close()
}
