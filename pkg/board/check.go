package board

import "fmt"

var diagonalRays = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
var orthogonalRays = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
var knightOffsets = [8][2]int{
	{2, 1}, {2, -1}, {-2, 1}, {-2, -1},
	{1, 2}, {1, -2}, {-1, 2}, {-1, -2},
}
var kingOffsets = [8][2]int{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

// InCheck reports whether side's king is currently attacked. Panics if side
// has no king: a Position reaching search or check detection is expected to
// have already passed NewPosition's validation, so a missing king here
// means the board is impossible, not that the game has ended.
func (p *Position) InCheck(side Side) bool {
	king, ok := p.King(side)
	if !ok {
		panic(fmt.Sprintf("impossible board: %v has no king", side))
	}
	return p.IsAttacked(king.Square, side)
}

// IsAttacked reports whether sq is attacked by defender's opponent. sq need
// not be occupied -- this also drives castling's "king does not pass
// through an attacked square" check.
func (p *Position) IsAttacked(sq Square, defender Side) bool {
	attacker := defender.Opponent()

	for _, d := range diagonalRays {
		if p.rayHits(sq, d, attacker, Bishop, Queen) {
			return true
		}
	}
	for _, d := range orthogonalRays {
		if p.rayHits(sq, d, attacker, Rook, Queen) {
			return true
		}
	}
	for _, d := range knightOffsets {
		if s, ok := sq.Offset(d[0], d[1]); ok {
			if pc, occ := p.PieceAt(s); occ && pc.Side == attacker && pc.Kind == Knight {
				return true
			}
		}
	}
	for _, d := range kingOffsets {
		if s, ok := sq.Offset(d[0], d[1]); ok {
			if pc, occ := p.PieceAt(s); occ && pc.Side == attacker && pc.Kind == King {
				return true
			}
		}
	}

	// A pawn attacks diagonally forward from its own square: to find an
	// attacker of sq, look one rank behind sq (relative to the attacker's
	// own forward direction) on each adjacent file.
	attackerDir := attacker.PawnDirection()
	for _, df := range [2]int{-1, 1} {
		if s, ok := sq.Offset(-attackerDir, df); ok {
			if pc, occ := p.PieceAt(s); occ && pc.Side == attacker && pc.Kind == Pawn {
				return true
			}
		}
	}

	return false
}

func (p *Position) rayHits(from Square, dir [2]int, attacker Side, kinds ...Kind) bool {
	for i := 1; ; i++ {
		s, ok := from.Offset(dir[0]*i, dir[1]*i)
		if !ok {
			return false
		}
		pc, occ := p.PieceAt(s)
		if !occ {
			continue
		}
		if pc.Side != attacker {
			return false
		}
		for _, k := range kinds {
			if pc.Kind == k {
				return true
			}
		}
		return false
	}
}
