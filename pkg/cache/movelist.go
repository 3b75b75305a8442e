package cache

import (
	"context"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/halvard/corechess/pkg/board"
	"github.com/halvard/corechess/pkg/movegen"
)

// SquarePair is the cached, piece-identity-free representation of a Normal
// Action: a from-square and to-square. Reconstructing the Action requires
// the Position the pair came from, to look up which piece currently
// occupies "From".
type SquarePair struct {
	From, To board.Square
}

// MoveListCache caches full legal-move generation results keyed by
// board.Fingerprint. Per spec.md §4.4, a position whose legal moves
// include a castle is never stored: the generator re-runs for it every
// time, since the (from, to) pair representation cannot round-trip a
// Castle Action's twin-destination shape.
type MoveListCache struct {
	c *ristretto.Cache[string, []SquarePair]
}

func NewMoveListCache(ctx context.Context, maxEntries int64) (*MoveListCache, error) {
	c, err := newRistretto[[]SquarePair](ctx, "move-list", maxEntries)
	if err != nil {
		return nil, err
	}
	return &MoveListCache{c: c}, nil
}

// Get returns the cached legal Actions for pos, reconstructed by looking
// up the piece occupying each pair's "From" square in pos.
func (m *MoveListCache) Get(pos *board.Position) ([]board.Action, bool) {
	pairs, ok := m.c.Get(board.Fingerprint(pos))
	if !ok {
		return nil, false
	}
	actions := make([]board.Action, 0, len(pairs))
	for _, p := range pairs {
		mover, found := pos.PieceAt(p.From)
		if !found {
			// Stale entry: the occupant at From no longer matches what
			// produced this cache entry's fingerprint collision. Treat as
			// a miss rather than serve a bogus Action.
			return nil, false
		}
		actions = append(actions, board.NewNormalAction(mover.ID, p.To))
	}
	return actions, true
}

// Put stores actions for pos, unless any of them is a Castle Action.
func (m *MoveListCache) Put(pos *board.Position, actions []board.Action) {
	pairs := make([]SquarePair, 0, len(actions))
	for _, a := range actions {
		if a.Shape == board.CastleShape {
			return
		}
		mover, ok := pos.PieceByID(a.PieceID)
		if !ok {
			return
		}
		pairs = append(pairs, SquarePair{From: mover.Square, To: a.Dest})
	}
	m.c.Set(board.Fingerprint(pos), pairs, 1)
}

// Generate returns pos's legal moves, consulting the cache first and
// populating it with a fresh movegen.Generate call on a miss -- the
// single entry point search and the turn driver should call instead of
// movegen.Generate directly so the hot path actually benefits from the
// cache (spec.md §4.3/§4.4).
func (m *MoveListCache) Generate(pos *board.Position) []board.Action {
	if actions, ok := m.Get(pos); ok {
		return actions
	}
	actions := movegen.Generate(pos)
	m.Put(pos, actions)
	return actions
}

func (m *MoveListCache) Stats() Stats {
	metrics := m.c.Metrics
	if metrics == nil {
		return Stats{}
	}
	return Stats{Ratio: metrics.Ratio(), Added: metrics.KeysAdded()}
}

func (m *MoveListCache) Wait() {
	m.c.Wait()
}

func (m *MoveListCache) Close() {
	m.c.Close()
}
