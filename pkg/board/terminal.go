package board

// TerminalResult reports whether a Position is a terminal draw by the rules
// this package knows about (fifty-move-equivalent staleness, the bounded
// repetition proxy, and insufficient material). Checkmate and stalemate are
// not decided here -- those require legal-move enumeration, which lives in
// pkg/movegen.
type TerminalResult struct {
	Drawn bool
	Value float64
}

// notTerminal is the zero TerminalResult: Drawn is false, Value is
// meaningless and must not be read.
var notTerminal = TerminalResult{}

// Terminal reports whether pos is a drawn terminal position. Value is 0.5
// for every draw kind this package recognizes -- there is no distinction
// between a stale draw, a repetition draw and an insufficient-material
// draw from the evaluator's point of view.
func Terminal(pos *Position) TerminalResult {
	if pos.Stale <= 0 {
		return TerminalResult{Drawn: true, Value: 0.5}
	}
	if isRepetition(pos) {
		return TerminalResult{Drawn: true, Value: 0.5}
	}
	if isInsufficientMaterial(pos) {
		return TerminalResult{Drawn: true, Value: 0.5}
	}
	return notTerminal
}

// isRepetition looks for the oldest possible 2-fold cycle representable in
// the bounded history: actions at offsets 0..3 each equal to the action
// four plies earlier. Castle actions never compare equal (see Action.Equals),
// so a castle anywhere in the eight-ply window breaks the match.
func isRepetition(pos *Position) bool {
	if len(pos.LastActions) < 8 {
		return false
	}
	for i := 0; i < 4; i++ {
		if !pos.LastActions[i].Equals(pos.LastActions[i+4]) {
			return false
		}
	}
	return true
}

// isInsufficientMaterial implements the same-color-bishop draw rule: any
// pawn, rook or queen on the board rules it out; two or more knights (total)
// rules it out; a mix of any knight and any bishop rules it out; one side
// holding bishops on both color complexes rules it out; opposite
// color-complex bishops between the two sides rule it out. What remains --
// bare kings, a single minor, or bishops confined to one color complex each
// -- is declared drawn.
func isInsufficientMaterial(pos *Position) bool {
	var heavy, knights int
	var whiteBishops, blackBishops [2]int // indexed by (rank+file)%2

	for _, side := range []Side{White, Black} {
		for _, pc := range pos.Pieces(side) {
			switch pc.Kind {
			case Pawn, Rook, Queen:
				heavy++
			case Knight:
				knights++
			case Bishop:
				complex := int(pc.Square.Rank+pc.Square.File) % 2
				if side == White {
					whiteBishops[complex]++
				} else {
					blackBishops[complex]++
				}
			}
		}
	}

	if heavy > 0 {
		return false
	}
	if knights > 1 {
		return false
	}
	anyBishops := whiteBishops[0]+whiteBishops[1]+blackBishops[0]+blackBishops[1] > 0
	if knights > 0 && anyBishops {
		return false
	}
	if (whiteBishops[0] > 0 && whiteBishops[1] > 0) || (blackBishops[0] > 0 && blackBishops[1] > 0) {
		return false
	}
	if (whiteBishops[0] > 0 && blackBishops[1] > 0) || (whiteBishops[1] > 0 && blackBishops[0] > 0) {
		return false
	}
	return true
}
