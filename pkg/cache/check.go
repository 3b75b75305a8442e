package cache

import (
	"context"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/halvard/corechess/pkg/board"
)

// Flags is a pair of in-check results for both sides at a Position.
type Flags struct {
	White, Black bool
}

// CheckCache caches in-check flags keyed by board.Fingerprint. Per
// spec.md §4.4 this cache is reserved/optional: the search and evaluator
// may consult it to skip a redundant InCheck walk, but nothing requires
// them to.
type CheckCache struct {
	c *ristretto.Cache[string, Flags]
}

func NewCheckCache(ctx context.Context, maxEntries int64) (*CheckCache, error) {
	c, err := newRistretto[Flags](ctx, "check", maxEntries)
	if err != nil {
		return nil, err
	}
	return &CheckCache{c: c}, nil
}

func (c *CheckCache) Get(pos *board.Position) (Flags, bool) {
	return c.c.Get(board.Fingerprint(pos))
}

func (c *CheckCache) Put(pos *board.Position, flags Flags) {
	c.c.Set(board.Fingerprint(pos), flags, 1)
}

// InCheck returns pos's in-check flag for side, consulting and then
// populating the cache.
func (c *CheckCache) InCheck(pos *board.Position, side board.Side) bool {
	flags, ok := c.Get(pos)
	if !ok {
		flags = Flags{White: pos.InCheck(board.White), Black: pos.InCheck(board.Black)}
		c.Put(pos, flags)
	}
	if side == board.White {
		return flags.White
	}
	return flags.Black
}

func (c *CheckCache) Stats() Stats {
	metrics := c.c.Metrics
	if metrics == nil {
		return Stats{}
	}
	return Stats{Ratio: metrics.Ratio(), Added: metrics.KeysAdded()}
}

func (c *CheckCache) Wait() {
	c.c.Wait()
}

func (c *CheckCache) Close() {
	c.c.Close()
}
