// Package movegen enumerates legal and pseudo-legal Actions for a
// board.Position: per-kind candidate destinations, en passant, castling,
// and the simulate-and-discard legality filter.
package movegen

import "github.com/halvard/corechess/pkg/board"

var diagonalDirs = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
var orthogonalDirs = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
var knightOffsets = [8][2]int{
	{2, 1}, {2, -1}, {-2, 1}, {-2, -1},
	{1, 2}, {1, -2}, {-1, 2}, {-1, -2},
}
var kingOffsets = [8][2]int{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

// Generate returns the full set of legal Actions for the side to move:
// per-kind candidates plus en passant and castling, filtered by simulated
// make so no candidate leaves the mover's own king in check.
func Generate(pos *board.Position) []board.Action {
	candidates := candidatesForSide(pos, pos.Turn)
	candidates = append(candidates, enPassantActions(pos)...)
	candidates = append(candidates, castleActions(pos)...)
	return filterLegal(pos, candidates)
}

// Simple returns pseudo-legal Actions for the side to move: the same
// per-kind candidates and en passant as Generate, but no castling and no
// king-safety filter, so it may include moves that expose the king.
func Simple(pos *board.Position) []board.Action {
	candidates := candidatesForSide(pos, pos.Turn)
	candidates = append(candidates, enPassantActions(pos)...)
	return candidates
}

func candidatesForSide(pos *board.Position, side board.Side) []board.Action {
	var out []board.Action
	for _, pc := range pos.Pieces(side) {
		switch pc.Kind {
		case board.Pawn:
			out = append(out, pawnCandidates(pos, pc)...)
		case board.Knight:
			out = append(out, offsetCandidates(pos, pc, knightOffsets[:])...)
		case board.Bishop:
			out = append(out, rayCandidates(pos, pc, diagonalDirs[:])...)
		case board.Rook:
			out = append(out, rayCandidates(pos, pc, orthogonalDirs[:])...)
		case board.Queen:
			out = append(out, rayCandidates(pos, pc, diagonalDirs[:])...)
			out = append(out, rayCandidates(pos, pc, orthogonalDirs[:])...)
		case board.King:
			out = append(out, offsetCandidates(pos, pc, kingOffsets[:])...)
		}
	}
	return out
}

func pawnCandidates(pos *board.Position, pc board.Piece) []board.Action {
	var out []board.Action
	dir := pc.Side.PawnDirection()
	from := pc.Square

	if one, ok := from.Offset(dir, 0); ok && pos.IsEmpty(one) {
		out = append(out, board.NewNormalAction(pc.ID, one))
		if !pc.HasMoved {
			if two, ok := from.Offset(2*dir, 0); ok && pos.IsEmpty(two) {
				out = append(out, board.NewNormalAction(pc.ID, two))
			}
		}
	}

	for _, df := range [2]int{-1, 1} {
		capSq, ok := from.Offset(dir, df)
		if !ok {
			continue
		}
		if victim, occ := pos.PieceAt(capSq); occ && victim.Side != pc.Side {
			out = append(out, board.NewNormalAction(pc.ID, capSq))
		}
	}
	return out
}

func offsetCandidates(pos *board.Position, pc board.Piece, offsets [][2]int) []board.Action {
	var out []board.Action
	for _, d := range offsets {
		dest, ok := pc.Square.Offset(d[0], d[1])
		if !ok {
			continue
		}
		if occ, isOcc := pos.PieceAt(dest); !isOcc || occ.Side != pc.Side {
			out = append(out, board.NewNormalAction(pc.ID, dest))
		}
	}
	return out
}

func rayCandidates(pos *board.Position, pc board.Piece, dirs [][2]int) []board.Action {
	var out []board.Action
	for _, d := range dirs {
		for i := 1; ; i++ {
			dest, ok := pc.Square.Offset(d[0]*i, d[1]*i)
			if !ok {
				break
			}
			occ, isOcc := pos.PieceAt(dest)
			if !isOcc {
				out = append(out, board.NewNormalAction(pc.ID, dest))
				continue
			}
			if occ.Side != pc.Side {
				out = append(out, board.NewNormalAction(pc.ID, dest))
			}
			break
		}
	}
	return out
}

// enPassantActions finds the friendly pawn(s), if any, entitled to capture
// en passant given the position's most recent Action. The victim is the
// opponent pawn that sits on the Action's destination square, provided it
// advanced two ranks to get there; the landing square is the midpoint rank
// on the victim's file.
func enPassantActions(pos *board.Position) []board.Action {
	last, ok := pos.LastAction()
	if !ok || last.Shape != board.NormalShape || len(pos.LastFromRanks) == 0 {
		return nil
	}
	victim, occ := pos.PieceAt(last.Dest)
	if !occ || victim.Kind != board.Pawn || victim.Side == pos.Turn {
		return nil
	}
	fromRank := pos.LastFromRanks[0]
	delta := int(last.Dest.Rank) - int(fromRank)
	if delta != 2 && delta != -2 {
		return nil
	}
	landingRank := board.Rank((int(fromRank) + int(last.Dest.Rank)) / 2)
	landing := board.Square{Rank: landingRank, File: last.Dest.File}

	var out []board.Action
	for _, df := range [2]int{-1, 1} {
		sq, ok := last.Dest.Offset(0, df)
		if !ok {
			continue
		}
		attacker, occ := pos.PieceAt(sq)
		if !occ || attacker.Side != pos.Turn || attacker.Kind != board.Pawn {
			continue
		}
		out = append(out, board.NewNormalAction(attacker.ID, landing))
	}
	return out
}

// castleActions finds the castling moves available to the side to move:
// king unmoved and not in check, rook unmoved, squares between them clear,
// and the king's path (including its landing square) unattacked.
func castleActions(pos *board.Position) []board.Action {
	side := pos.Turn
	king, ok := pos.King(side)
	if !ok || king.HasMoved || pos.InCheck(side) {
		return nil
	}
	homeRank := side.HomeRank()
	if king.Square.Rank != homeRank {
		return nil
	}

	var out []board.Action
	for _, rook := range pos.Pieces(side) {
		if rook.Kind != board.Rook || rook.HasMoved || rook.Square.Rank != homeRank {
			continue
		}

		kingFile, rookFile := int(king.Square.File), int(rook.Square.File)
		lo, hi := kingFile, rookFile
		if lo > hi {
			lo, hi = hi, lo
		}
		clear := true
		for f := lo + 1; f < hi; f++ {
			if !pos.IsEmpty(board.Square{Rank: homeRank, File: board.File(f)}) {
				clear = false
				break
			}
		}
		if !clear {
			continue
		}

		step := 1
		if rookFile < kingFile {
			step = -1
		}
		kingDestFile := kingFile + 2*step
		rookDestFile := kingDestFile - step

		safe := true
		for _, f := range [2]int{kingFile + step, kingDestFile} {
			if pos.IsAttacked(board.Square{Rank: homeRank, File: board.File(f)}, side) {
				safe = false
				break
			}
		}
		if !safe {
			continue
		}

		out = append(out, board.NewCastleAction(
			board.Leg{PieceID: king.ID, Dest: board.Square{Rank: homeRank, File: board.File(kingDestFile)}},
			board.Leg{PieceID: rook.ID, Dest: board.Square{Rank: homeRank, File: board.File(rookDestFile)}},
		))
	}
	return out
}

func filterLegal(pos *board.Position, candidates []board.Action) []board.Action {
	out := make([]board.Action, 0, len(candidates))
	mover := pos.Turn
	for _, a := range candidates {
		if !pos.Make(a).InCheck(mover) {
			out = append(out, a)
		}
	}
	return out
}
