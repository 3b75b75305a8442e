package engine

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/halvard/corechess/pkg/board"
	"github.com/halvard/corechess/pkg/search"
	"github.com/halvard/corechess/pkg/transport"
	"github.com/seekerror/logw"
)

// noPromotion is the transport promotion code for "not a promotion move".
const noPromotion rune = 0

// ProcessTurn is the core's per-turn entry point (spec.md §4.7, §6): it
// must be called exactly once per own turn and always finishes by
// submitting exactly one Action through tc's pieces, provided at least one
// legal move exists at the root. Steps follow spec.md §4.7 1-7.
func (e *Engine) ProcessTurn(ctx context.Context, tc transport.TurnContext) error {
	t0 := time.Now()

	self, err := actingSide(tc)
	if err != nil {
		return fmt.Errorf("engine: turn: %w", err)
	}

	budget, err := e.timeBudget(tc, self)
	if err != nil {
		return fmt.Errorf("engine: turn: %w", err)
	}

	pos, err := buildPosition(tc, self)
	if err != nil {
		return fmt.Errorf("engine: turn: %w", err)
	}

	branching := len(e.caches.Moves.Generate(pos))
	logw.Infof(ctx, "turn start: self=%v budget=%.3fs branching=%v stale=%v", self, budget, branching, pos.Stale)

	e.mu.Lock()
	table := e.history
	e.mu.Unlock()

	searchStart := time.Now()
	bootstrap := search.Search(pos, self, 1, 1, -1, 2, e.evaluator, table, e.caches, false)
	if !bootstrap.Has {
		logw.Infof(ctx, "no legal move at root: game already decided")
		return nil
	}
	chosen, chosenValue, depthReached := bootstrap.Action, bootstrap.Value, 1
	logw.Infof(ctx, "depth 1: action=%v value=%.4f", chosen, chosenValue)

	for i := 2; e.depthAllowed(i); i++ {
		elapsed := time.Since(searchStart).Seconds()
		setup := searchStart.Sub(t0).Seconds()
		if 0.66*float64(branching)*elapsed+setup >= budget {
			break
		}

		extension := e.quiescenceCap(int(math.Floor(math.Sqrt(float64(i)))))
		alpha := e.caches.Eval.Evaluate(pos, self, e.evaluator) - 0.15
		result := search.Search(pos, self, i, extension, alpha, 2, e.evaluator, table, e.caches, true)
		if !result.Has {
			break
		}
		chosen, chosenValue, depthReached = result.Action, result.Value, i
		logw.Infof(ctx, "depth %v: action=%v value=%.4f", i, chosen, chosenValue)
	}

	e.mu.Lock()
	e.plies += 2
	e.mu.Unlock()

	logw.Infof(ctx, "turn decided: depth=%v action=%v value=%.4f elapsed=%v", depthReached, chosen, chosenValue, time.Since(t0))
	return submit(pos, chosen, tc)
}

// actingSide derives the acting player's Side from the turn context's own
// pieces: the king is always present, and each piece independently reports
// its absolute owner (0=white, 1=black), so the first own piece suffices.
func actingSide(tc transport.TurnContext) (board.Side, error) {
	own := tc.OwnPieces()
	if len(own) == 0 {
		return board.White, fmt.Errorf("turn context has no own pieces")
	}
	return board.Side(own[0].Owner()), nil
}

// timeBudget implements spec.md §4.7 step 2: this turn's budget is the
// acting player's remaining clock divided by an estimate of remaining
// plies, 1 + 60*exp(-plies_played/50).
func (e *Engine) timeBudget(tc transport.TurnContext, self board.Side) (float64, error) {
	var clock float64
	found := false
	for _, p := range tc.Players() {
		if p.ID() == tc.ActingPlayerID() {
			clock = p.Clock()
			found = true
			break
		}
	}
	if !found {
		return 0, fmt.Errorf("acting player %v not present in player list", tc.ActingPlayerID())
	}

	e.mu.Lock()
	plies := e.plies
	e.mu.Unlock()

	remainingPlies := math.Floor(1 + 60*math.Exp(-float64(plies)/50.0))
	return (clock / remainingPlies) * e.opts.timeBudgetMultiplier(), nil
}

// buildPosition translates the host's turn context into a board.Position:
// every piece (own and opponent) reports its own absolute side, so no
// re-tagging is needed; the bounded recent-move history is reconstructed
// as Normal Actions keyed by a synthetic piece id (see historyActions).
func buildPosition(tc transport.TurnContext, self board.Side) (*board.Position, error) {
	placements := make([]board.Piece, 0, len(tc.OwnPieces())+len(tc.OpponentPieces()))
	for _, views := range [][]transport.PieceView{tc.OwnPieces(), tc.OpponentPieces()} {
		for _, v := range views {
			kind, ok := board.ParseKind(v.Kind())
			if !ok {
				return nil, fmt.Errorf("unrecognized piece kind code %q for piece %v", v.Kind(), v.ID())
			}
			placements = append(placements, board.Piece{
				ID:       v.ID(),
				Side:     board.Side(v.Owner()),
				Kind:     kind,
				Square:   board.FromExternal(v.Rank(), v.File()),
				HasMoved: v.HasMoved(),
			})
		}
	}

	actions, fromRanks := historyActions(tc.RecentMoves())
	pos, err := board.NewPosition(placements, self, tc.TurnsToStalemate(), actions, fromRanks)
	if err != nil {
		return nil, err
	}
	return pos, nil
}

// historyActions reconstructs Position.LastActions/LastFromRanks from the
// host's recent-move feed, most recent first. The host exposes only
// from/to coordinates, not piece identity, so each entry is keyed by a
// synthetic id derived from its own origin square (rank*8+file); nothing
// in pkg/movegen's en-passant or pkg/board's repetition logic reads the
// piece identity of a historical entry for anything but equality against
// another historical entry built the same way, so the synthetic id is
// self-consistent without needing the host to disclose real identities.
func historyActions(moves []transport.HistoryMove) ([]board.Action, []board.Rank) {
	actions := make([]board.Action, 0, len(moves))
	ranks := make([]board.Rank, 0, len(moves))
	for _, m := range moves {
		from := board.FromExternal(m.FromRank(), m.FromFile())
		to := board.FromExternal(m.ToRank(), m.ToFile())
		syntheticID := int(from.Rank)*8 + int(from.File)
		actions = append(actions, board.NewNormalAction(syntheticID, to))
		ranks = append(ranks, from.Rank)
	}
	return actions, ranks
}

// submit ships the chosen Action through the transport by calling Move on
// the relevant own PieceView(s): one call for a Normal action, two (king
// then rook) for a Castle action. Promotion always requests Queen, and
// only when the moved piece is a pawn landing on its promotion rank.
func submit(pos *board.Position, action board.Action, tc transport.TurnContext) error {
	own := tc.OwnPieces()

	if action.Shape == board.CastleShape {
		king, ok := findPiece(own, action.King.PieceID)
		if !ok {
			return fmt.Errorf("engine: castle king piece %v not found among own pieces", action.King.PieceID)
		}
		rook, ok := findPiece(own, action.Rook.PieceID)
		if !ok {
			return fmt.Errorf("engine: castle rook piece %v not found among own pieces", action.Rook.PieceID)
		}
		kr, kf := action.King.Dest.ToExternal()
		if err := king.Move(kf, kr, noPromotion); err != nil {
			return fmt.Errorf("engine: submit castle king leg: %w", err)
		}
		rr, rf := action.Rook.Dest.ToExternal()
		if err := rook.Move(rf, rr, noPromotion); err != nil {
			return fmt.Errorf("engine: submit castle rook leg: %w", err)
		}
		return nil
	}

	mover, ok := findPiece(own, action.PieceID)
	if !ok {
		return fmt.Errorf("engine: piece %v not found among own pieces", action.PieceID)
	}
	piece, ok := pos.PieceByID(action.PieceID)
	if !ok {
		return fmt.Errorf("engine: piece %v not found in position", action.PieceID)
	}

	promotion := noPromotion
	if piece.Kind == board.Pawn && action.Dest.Rank == piece.Side.PromotionRank() {
		promotion = board.Queen.Code()
	}

	r, f := action.Dest.ToExternal()
	if err := mover.Move(f, r, promotion); err != nil {
		return fmt.Errorf("engine: submit: %w", err)
	}
	return nil
}

func findPiece(views []transport.PieceView, id int) (transport.PieceView, bool) {
	for _, v := range views {
		if v.ID() == id {
			return v, true
		}
	}
	return nil, false
}
