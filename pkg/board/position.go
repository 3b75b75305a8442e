package board

import "fmt"

// MaxHistory is the bound on the number of recorded past Actions (and their
// origin ranks) a Position retains. Needed for en passant legality and the
// repetition proxy in terminal.go.
const MaxHistory = 9

// Position is an immutable-by-convention snapshot: an 8x8 grid, two
// side-indexed piece lists, side-to-move, a fifty-move-equivalent stale
// counter, a bounded action history and a quiet hint consumed by search.
//
// A Position is produced by NewPosition (from external turn-context inputs)
// or by Make (from a prior Position plus an Action), then treated as
// read-only: Make never mutates its receiver, so the caller's ancestor
// Positions remain valid on the recursion stack.
type Position struct {
	White, Black []Piece
	Grid         [NumRanks][NumFiles]*Piece

	Turn Side

	// Stale counts down the plies remaining before a fifty-move-equivalent
	// draw; reset to 100 by any pawn move or capture.
	Stale int

	// LastActions holds at most MaxHistory Actions, most recent first.
	LastActions []Action
	// LastFromRanks holds the mover's pre-move rank for each entry in
	// LastActions, same length, same order.
	LastFromRanks []Rank

	// Quiet is false iff the transition that produced this Position was a
	// capture, a promotion, or a castle.
	Quiet bool
}

// NewPosition builds a Position from a flat placement list and game
// metadata, as supplied by the turn driver from external inputs. Returns an
// error if the placement does not carry exactly one king per side -- this
// is a boundary-input validation, distinct from the "impossible board"
// programmer error that InCheck raises for a Position that should already
// be known-good.
func NewPosition(placements []Piece, turn Side, stale int, lastActions []Action, lastFromRanks []Rank) (*Position, error) {
	white := make([]Piece, 0, 16)
	black := make([]Piece, 0, 16)
	for _, p := range placements {
		if p.Side == White {
			white = append(white, p)
		} else {
			black = append(black, p)
		}
	}

	pos := &Position{
		White:         white,
		Black:         black,
		Turn:          turn,
		Stale:         stale,
		Quiet:         true,
		LastActions:   truncateActions(lastActions),
		LastFromRanks: truncateRanks(lastFromRanks),
	}
	pos.rebuildGrid()

	for _, side := range [NumSides]Side{White, Black} {
		kings := 0
		for _, pc := range pos.Pieces(side) {
			if pc.Kind == King {
				kings++
			}
		}
		if kings != 1 {
			return nil, fmt.Errorf("position: %v has %v kings in placement, want 1", side, kings)
		}
	}
	return pos, nil
}

// PieceAt returns the piece occupying sq, if any.
func (p *Position) PieceAt(sq Square) (*Piece, bool) {
	if !sq.IsValid() {
		return nil, false
	}
	pc := p.Grid[sq.Rank][sq.File]
	return pc, pc != nil
}

// IsEmpty reports whether sq holds no piece.
func (p *Position) IsEmpty(sq Square) bool {
	_, ok := p.PieceAt(sq)
	return !ok
}

// Pieces returns the live pieces for side. The returned slice must not be
// mutated by the caller.
func (p *Position) Pieces(side Side) []Piece {
	if side == White {
		return p.White
	}
	return p.Black
}

// PieceByID returns the live piece with the given identity, if any.
func (p *Position) PieceByID(id int) (Piece, bool) {
	if i, ok := findByID(p.White, id); ok {
		return p.White[i], true
	}
	if i, ok := findByID(p.Black, id); ok {
		return p.Black[i], true
	}
	return Piece{}, false
}

// King returns the side's king, if present.
func (p *Position) King(side Side) (Piece, bool) {
	for _, pc := range p.Pieces(side) {
		if pc.Kind == King {
			return pc, true
		}
	}
	return Piece{}, false
}

// LastAction returns the most recently played Action, if any.
func (p *Position) LastAction() (Action, bool) {
	if len(p.LastActions) == 0 {
		return Action{}, false
	}
	return p.LastActions[0], true
}

// Make applies action and returns the resulting Position. The receiver is
// left untouched. action is assumed pseudo-legal; Make performs no
// legality filtering (that is pkg/movegen's job) and will happily move a
// king into check if asked.
func (p *Position) Make(action Action) *Position {
	white := append([]Piece(nil), p.White...)
	black := append([]Piece(nil), p.Black...)

	mine, theirs := &white, &black
	if p.Turn == Black {
		mine, theirs = &black, &white
	}

	capturedOrPawnMove := false
	quiet := true
	var originRank Rank

	switch action.Shape {
	case CastleShape:
		kIdx, _ := findByID(*mine, action.King.PieceID)
		rIdx, _ := findByID(*mine, action.Rook.PieceID)
		originRank = (*mine)[kIdx].Square.Rank

		king := (*mine)[kIdx]
		king.Square = action.King.Dest
		king.HasMoved = true
		(*mine)[kIdx] = king

		rook := (*mine)[rIdx]
		rook.Square = action.Rook.Dest
		rook.HasMoved = true
		(*mine)[rIdx] = rook

		quiet = false

	default: // NormalShape
		idx, _ := findByID(*mine, action.PieceID)
		mover := (*mine)[idx]
		from := mover.Square
		originRank = from.Rank

		if cIdx, ok := findBySquare(*theirs, action.Dest); ok {
			*theirs = removeAt(*theirs, cIdx)
			capturedOrPawnMove = true
			quiet = false
		} else if mover.Kind == Pawn && action.Dest.File != from.File {
			// En passant: the victim sits on the mover's origin rank and
			// the destination file, not on the (empty) destination square.
			victimSq := Square{Rank: from.Rank, File: action.Dest.File}
			if vIdx, ok := findBySquare(*theirs, victimSq); ok {
				*theirs = removeAt(*theirs, vIdx)
				capturedOrPawnMove = true
				quiet = false
			}
		}

		if mover.Kind == Pawn {
			capturedOrPawnMove = true
		}

		mover.Square = action.Dest
		mover.HasMoved = true
		if mover.Kind == Pawn && mover.Square.Rank == mover.Side.PromotionRank() {
			mover.Kind = Queen
			quiet = false
		}
		(*mine)[idx] = mover
	}

	next := &Position{
		White: white,
		Black: black,
		Turn:  p.Turn.Opponent(),
		Quiet: quiet,
	}
	if capturedOrPawnMove {
		next.Stale = 100
	} else {
		next.Stale = p.Stale - 1
	}
	next.LastActions = truncateActions(append([]Action{action}, p.LastActions...))
	next.LastFromRanks = truncateRanks(append([]Rank{originRank}, p.LastFromRanks...))
	next.rebuildGrid()
	return next
}

func (p *Position) rebuildGrid() {
	var grid [NumRanks][NumFiles]*Piece
	for i := range p.White {
		pc := &p.White[i]
		grid[pc.Square.Rank][pc.Square.File] = pc
	}
	for i := range p.Black {
		pc := &p.Black[i]
		grid[pc.Square.Rank][pc.Square.File] = pc
	}
	p.Grid = grid
}

func truncateActions(a []Action) []Action {
	if len(a) > MaxHistory {
		a = a[:MaxHistory]
	}
	return a
}

func truncateRanks(r []Rank) []Rank {
	if len(r) > MaxHistory {
		r = r[:MaxHistory]
	}
	return r
}

func findByID(list []Piece, id int) (int, bool) {
	for i, pc := range list {
		if pc.ID == id {
			return i, true
		}
	}
	return 0, false
}

func findBySquare(list []Piece, sq Square) (int, bool) {
	for i, pc := range list {
		if pc.Square == sq {
			return i, true
		}
	}
	return 0, false
}

func removeAt(list []Piece, idx int) []Piece {
	return append(list[:idx:idx], list[idx+1:]...)
}

func (p *Position) String() string {
	return fmt.Sprintf("position{turn=%v stale=%v quiet=%v pieces=%v}", p.Turn, p.Stale, p.Quiet, len(p.White)+len(p.Black))
}

// CheckInvariants verifies the Position invariants documented in spec.md
// §3: exactly one king per side, piece-list/grid consistency, stale in
// [0,100], and matching/bounded history lengths. Intended for tests, not
// the search hot path.
func CheckInvariants(p *Position) error {
	if _, ok := p.King(White); !ok {
		return fmt.Errorf("invariant: no white king")
	}
	if _, ok := p.King(Black); !ok {
		return fmt.Errorf("invariant: no black king")
	}
	whiteKings, blackKings := 0, 0
	for _, pc := range p.White {
		if pc.Kind == King {
			whiteKings++
		}
	}
	for _, pc := range p.Black {
		if pc.Kind == King {
			blackKings++
		}
	}
	if whiteKings != 1 {
		return fmt.Errorf("invariant: white has %v kings", whiteKings)
	}
	if blackKings != 1 {
		return fmt.Errorf("invariant: black has %v kings", blackKings)
	}

	count := 0
	for _, side := range []Side{White, Black} {
		for _, pc := range p.Pieces(side) {
			found, ok := p.PieceAt(pc.Square)
			if !ok || found.ID != pc.ID || found.Side != side {
				return fmt.Errorf("invariant: piece %v not reflected on grid", pc)
			}
			count++
		}
	}
	for r := Rank(0); r < NumRanks; r++ {
		for f := File(0); f < NumFiles; f++ {
			if p.Grid[r][f] != nil {
				count--
			}
		}
	}
	if count != 0 {
		return fmt.Errorf("invariant: grid occupancy does not match piece lists")
	}

	if p.Stale < 0 || p.Stale > 100 {
		return fmt.Errorf("invariant: stale=%v out of [0,100]", p.Stale)
	}
	if len(p.LastActions) != len(p.LastFromRanks) {
		return fmt.Errorf("invariant: last-actions/last-from-ranks length mismatch")
	}
	if len(p.LastActions) > MaxHistory {
		return fmt.Errorf("invariant: last-actions exceeds bound")
	}
	return nil
}
