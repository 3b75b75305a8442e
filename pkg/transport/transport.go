// Package transport defines the Go-native shape of the external
// collaborators the turn driver depends on (spec.md §6): a piece view, a
// server-reported history move, the per-turn context and credentials. No
// concrete network client, authentication handshake, or board-rendering
// implementation lives here -- those are host responsibilities.
package transport

// PieceView is a single piece as reported by the host framework.
type PieceView interface {
	ID() int
	// Owner is 0 for the white player, 1 for black.
	Owner() int
	// Rank and File are external, 1..8.
	Rank() int
	File() int
	// Kind is the 8-bit transport character code: 'P','N','B','R','Q','K'.
	Kind() rune
	HasMoved() bool
	// Move ships this piece's move to the host framework. promotion is the
	// transport kind code for the piece to promote to; the core always
	// requests 'Q'.
	Move(file, rank int, promotion rune) error
}

// HistoryMove is one server-reported move in the turn context's recent
// history. All coordinates are external, 1..8.
type HistoryMove interface {
	FromRank() int
	FromFile() int
	ToRank() int
	ToFile() int
}

// Player is one participant in the match: an id and a remaining clock, in
// floating seconds.
type Player interface {
	ID() int
	Clock() float64
}

// TurnContext is everything the host supplies the core at the start of a
// turn: the piece sets for both sides, the players, whose turn it is, the
// fifty-move-equivalent countdown and the bounded recent move history (at
// most 9 entries, most recent first).
type TurnContext interface {
	OwnPieces() []PieceView
	OpponentPieces() []PieceView
	Players() []Player
	ActingPlayerID() int
	TurnsToStalemate() int
	RecentMoves() []HistoryMove
}

// Credentials is the constant username/password pair the host uses to
// authenticate the core; configuration, not logic.
type Credentials struct {
	Username string
	Password string
}
