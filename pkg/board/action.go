package board

import "fmt"

// ActionShape discriminates the two disjoint shapes an Action can take.
type ActionShape uint8

const (
	// NormalShape covers ordinary moves, captures, en passant captures and
	// promotion (promotion kind always defaults to Queen, see Position.Make).
	NormalShape ActionShape = iota
	// CastleShape is a paired king/rook relocation with no capture.
	CastleShape
)

// Leg is one half of a castling move: a piece identity and its destination.
type Leg struct {
	PieceID int
	Dest    Square
}

// Action describes a move. It is a tagged variant: a Normal action carries
// a moving piece identity and destination square; a Castle action carries
// the king and rook legs. This removes the scattered "is this a castle"
// branch on a nullable field that the legacy representation used.
//
// Two Actions are equal iff both are Normal and agree on piece identity and
// destination. Castle actions are never equal to anything -- including
// another Castle action -- which is a deliberate asymmetry the repetition
// test in terminal.go relies on: a castle in a four-action window can never
// match its counterpart, so castle-bearing histories are never mistaken for
// a repeated position.
type Action struct {
	Shape   ActionShape
	PieceID int    // Normal: moving piece id.
	Dest    Square // Normal: destination square.
	King    Leg    // Castle: king leg.
	Rook    Leg    // Castle: rook leg.
}

// NewNormalAction constructs a Normal action.
func NewNormalAction(pieceID int, dest Square) Action {
	return Action{Shape: NormalShape, PieceID: pieceID, Dest: dest}
}

// NewCastleAction constructs a Castle action.
func NewCastleAction(king, rook Leg) Action {
	return Action{Shape: CastleShape, King: king, Rook: rook}
}

// Equals reports whether the two actions are equal per the rule above.
func (a Action) Equals(o Action) bool {
	if a.Shape != NormalShape || o.Shape != NormalShape {
		return false
	}
	return a.PieceID == o.PieceID && a.Dest == o.Dest
}

// Less imposes an arbitrary but deterministic total order over Actions,
// used only to break search ties among equal-valued children (spec.md
// §4.6). The source's own tie-break compares two Action-like Python
// objects with no defined ordering, which falls back to CPython's
// identity-based default comparison -- not reproducible, and not
// semantically meaningful even there. This is a deterministic stand-in:
// Normal actions order before Castle actions, then by piece id, then by
// destination square; Castle actions order by their king leg's piece id
// and destination.
func (a Action) Less(o Action) bool {
	if a.Shape != o.Shape {
		return a.Shape < o.Shape
	}
	if a.Shape == CastleShape {
		if a.King.PieceID != o.King.PieceID {
			return a.King.PieceID < o.King.PieceID
		}
		return squareLess(a.King.Dest, o.King.Dest)
	}
	if a.PieceID != o.PieceID {
		return a.PieceID < o.PieceID
	}
	return squareLess(a.Dest, o.Dest)
}

func squareLess(a, b Square) bool {
	if a.Rank != b.Rank {
		return a.Rank < b.Rank
	}
	return a.File < b.File
}

func (a Action) String() string {
	if a.Shape == CastleShape {
		return fmt.Sprintf("O-O(king=%v->%v, rook=%v->%v)", a.King.PieceID, a.King.Dest, a.Rook.PieceID, a.Rook.Dest)
	}
	return fmt.Sprintf("#%v->%v", a.PieceID, a.Dest)
}
