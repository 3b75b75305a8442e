// Package history implements the search's move-ordering popularity table:
// a process-wide map from (piece kind, from-square, to-square) to a
// non-negative popularity count, consulted to order each node's children
// before recursing.
package history

import (
	"sort"

	"github.com/halvard/corechess/pkg/board"
)

type key struct {
	kind     board.Kind
	from, to board.Square
}

// Table is the history table (C6). It is written only from the single
// search thread during a turn (spec.md §5), so no locking is needed.
type Table struct {
	counts map[key]int
}

func NewTable() *Table {
	return &Table{counts: make(map[key]int)}
}

// Update increments the popularity entry for action, as played from pos.
func (t *Table) Update(pos *board.Position, action board.Action) {
	k, ok := actionKey(pos, action)
	if !ok {
		return
	}
	t.counts[k]++
}

// Get returns action's popularity count, or 0 if absent.
func (t *Table) Get(pos *board.Position, action board.Action) int {
	k, ok := actionKey(pos, action)
	if !ok {
		return 0
	}
	return t.counts[k]
}

// Order returns a new slice with actions sorted by descending popularity.
// The sort is stable: actions with equal popularity (including all-zero,
// the common case for a node seen for the first time) keep the relative
// order the generator produced.
func (t *Table) Order(pos *board.Position, actions []board.Action) []board.Action {
	out := append([]board.Action(nil), actions...)
	sort.SliceStable(out, func(i, j int) bool {
		return t.Get(pos, out[i]) > t.Get(pos, out[j])
	})
	return out
}

// actionKey derives the lookup key for action as played from pos. For a
// Castle Action, the key uses the king's kind with from/to being the
// king's own origin/destination squares (spec.md §4.5), not the rook's.
func actionKey(pos *board.Position, action board.Action) (key, bool) {
	if action.Shape == board.CastleShape {
		king, ok := pos.PieceByID(action.King.PieceID)
		if !ok {
			return key{}, false
		}
		return key{kind: king.Kind, from: king.Square, to: action.King.Dest}, true
	}

	mover, ok := pos.PieceByID(action.PieceID)
	if !ok {
		return key{}, false
	}
	return key{kind: mover.Kind, from: mover.Square, to: action.Dest}, true
}
