// Package search implements the alpha-beta search (C7): fail-soft bounds
// preserved as non-strict (pruning compares the just-computed candidate
// value, not the running extreme), an integer depth paired with a separate
// quiescence extension counter, history-ordered children, and the
// quiet-node early-termination path.
package search

import (
	"github.com/halvard/corechess/pkg/board"
	"github.com/halvard/corechess/pkg/cache"
	"github.com/halvard/corechess/pkg/eval"
	"github.com/halvard/corechess/pkg/history"
)

// Result is what a search call returns: the value from the maximizer's
// point of view, and the best Action found, or none at a terminal or
// leaf node.
type Result struct {
	Value  float64
	Action board.Action
	Has    bool
}

func noAction(value float64) Result {
	return Result{Value: value}
}

func withAction(value float64, action board.Action) Result {
	return Result{Value: value, Action: action, Has: true}
}

// Search runs the recursion rule described in spec.md §4.6 from pos, with
// maximizer fixed for the whole call tree (the side the evaluator scores
// for). depth is the remaining full-ply budget; extension is the
// remaining quiescence budget once depth is exhausted.
//
// table is the process-wide history table: every node records its chosen
// Action into it once the loop below finishes, regardless of order. order
// controls only whether a node's children are sorted by table popularity
// before being searched. Per spec.md §9 "Ordering of root iteration," the
// mandatory depth-1 bootstrap search runs un-ordered (it still bootstraps
// the table via its own updates) while every iterative-deepening depth
// from 2 on searches with ordering enabled; the turn driver threads order
// through accordingly and keeps it constant for a whole call tree.
//
// caches is the process-wide transposition cache bundle (C5, spec.md
// §4.3/§4.4): move generation, evaluation and in-check detection all go
// through it instead of calling movegen.Generate/e.Evaluate/pos.InCheck
// directly, so repeated positions across the call tree (and across
// iterative-deepening passes over the same root) are recomputed at most
// once.
func Search(pos *board.Position, maximizer board.Side, depth, extension int, alpha, beta float64, e eval.Evaluator, table *history.Table, caches *cache.Caches, order bool) Result {
	if term := board.Terminal(pos); term.Drawn {
		return noAction(term.Value)
	}

	if !(extension > 0 && (depth > 0 || !pos.Quiet)) {
		return noAction(caches.Eval.Evaluate(pos, maximizer, e))
	}

	actions := caches.Moves.Generate(pos)
	if len(actions) == 0 {
		if caches.Check.InCheck(pos, pos.Turn) {
			if pos.Turn == maximizer {
				return noAction(0)
			}
			return noAction(1)
		}
		return noAction(0.5)
	}

	if order {
		actions = table.Order(pos, actions)
	}

	childDepth, childExtension := depth-1, extension
	if depth <= 0 {
		childDepth, childExtension = 0, extension-1
	}

	maximizing := pos.Turn == maximizer
	best := Result{}
	haveBest := false

	for _, action := range actions {
		child := pos.Make(action)
		childResult := Search(child, maximizer, childDepth, childExtension, alpha, beta, e, table, caches, order)
		candidate := withAction(childResult.Value, action)

		if !haveBest || better(maximizing, candidate, best) {
			best = candidate
			haveBest = true
		}

		if maximizing {
			if beta <= candidate.Value {
				break
			}
			if candidate.Value > alpha {
				alpha = candidate.Value
			}
		} else {
			if candidate.Value <= alpha {
				break
			}
			if candidate.Value < beta {
				beta = candidate.Value
			}
		}
	}

	table.Update(pos, best.Action)
	return best
}

// better implements the tie-break preserved from the source: lexicographic
// comparison of (value, action) against the current best, where action
// compares by its own Action.Less (an arbitrary but deterministic total
// order, not a semantic one -- see board.Action.Less). The maximizer wants
// the greater pair, the minimizer the lesser.
func better(maximizing bool, candidate, best Result) bool {
	if candidate.Value != best.Value {
		if maximizing {
			return candidate.Value > best.Value
		}
		return candidate.Value < best.Value
	}
	if maximizing {
		return best.Action.Less(candidate.Action)
	}
	return candidate.Action.Less(best.Action)
}
