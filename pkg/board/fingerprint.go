package board

import "strings"

// Fingerprint returns the cache key for pos: the side-to-move digit
// followed by an 8x8 serialization of piece-kind codes (empty squares as a
// space). It deliberately ignores HasMoved, en passant eligibility, Stale
// and history -- two positions reachable by different move orders but
// otherwise identical collide on purpose, trading a handful of stale
// transposition hits for a small, cheap key.
func Fingerprint(pos *Position) string {
	var sb strings.Builder
	sb.Grow(1 + NumRanks*NumFiles)
	sb.WriteByte('0' + byte(pos.Turn))
	for r := Rank(0); r < NumRanks; r++ {
		for f := File(0); f < NumFiles; f++ {
			if pc, ok := pos.PieceAt(Square{Rank: r, File: f}); ok {
				sb.WriteRune(pc.Kind.Code())
			} else {
				sb.WriteByte(' ')
			}
		}
	}
	return sb.String()
}
