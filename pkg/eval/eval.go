// Package eval scores a board.Position in [0,1] from the point of view of
// a queried side, as a fixed-weight sum of material, pawn structure, check
// pressure and a small randomizer component.
package eval

import (
	"time"

	"github.com/halvard/corechess/pkg/board"
)

const (
	weightMaterialAdvantage = 0.45
	weightMaterialShare     = 0.45
	weightPawnChainShare    = 0.02
	weightPawnStructure     = 0.02
	weightCheckPressure     = 0.05
	weightRandomizer        = 0.01

	// epsilon guards the pawn-chain share ratio against a 0/0 division
	// when neither side has any pawn-chain structure.
	epsilon = 1e-9

	// maxChainScore is the fixed denominator of the pawn-structure
	// component. It is a scale, not an upper bound: a pawn can score up to
	// +2 for same-rank neighbours and +4 for diagonal supporters, so a
	// compact pawn mass can score above 14 and push that component past 1.
	maxChainScore = 14
)

// Evaluator is a static Position evaluator queried from one side's
// perspective.
type Evaluator interface {
	Evaluate(pos *board.Position, side board.Side) float64
}

// Weighted is the evaluator's only implementation: the fixed-weight
// material/pawn-structure/check-pressure/randomizer blend.
type Weighted struct {
	Randomizer Randomizer
}

// NewWeighted constructs a Weighted evaluator. A nil Randomizer defaults to
// a time-seeded UniformRandomizer; tests should pass a ConstantRandomizer
// instead.
func NewWeighted(r Randomizer) *Weighted {
	if r == nil {
		r = NewUniformRandomizer(time.Now().UnixNano())
	}
	return &Weighted{Randomizer: r}
}

// NominalValue is the material weight of a piece kind in pawns; kings are
// uncounted (return 0).
func NominalValue(k board.Kind) int {
	switch k {
	case board.Pawn:
		return 1
	case board.Knight, board.Bishop:
		return 3
	case board.Rook:
		return 5
	case board.Queen:
		return 9
	default:
		return 0
	}
}

func (w *Weighted) Evaluate(pos *board.Position, side board.Side) float64 {
	opp := side.Opponent()

	ownScore := materialScore(pos, side)
	oppScore := materialScore(pos, opp)

	materialAdvantage := (float64(ownScore-oppScore) + 39) / 78

	materialShare := 0.0
	if ownScore+oppScore > 0 {
		materialShare = float64(ownScore) / float64(ownScore+oppScore)
	}

	ownChain := pawnChainScore(pos, side)
	oppChain := pawnChainScore(pos, opp)
	pawnChainShare := float64(ownChain) / (float64(ownChain+oppChain) + epsilon)
	pawnStructure := float64(ownChain) / maxChainScore

	checkPressure := 0.5
	switch {
	case pos.InCheck(opp) && !pos.InCheck(side):
		checkPressure = 1
	case pos.InCheck(side) && !pos.InCheck(opp):
		checkPressure = 0
	}

	randomizer := w.Randomizer.Sample()

	return weightMaterialAdvantage*materialAdvantage +
		weightMaterialShare*materialShare +
		weightPawnChainShare*pawnChainShare +
		weightPawnStructure*pawnStructure +
		weightCheckPressure*checkPressure +
		weightRandomizer*randomizer
}

func materialScore(pos *board.Position, side board.Side) int {
	total := 0
	for _, pc := range pos.Pieces(side) {
		total += NominalValue(pc.Kind)
	}
	return total
}

// pawnChainScore awards, per own pawn: +1 for each own pawn on an adjacent
// file of the same rank, +2 for each own pawn diagonally behind it (the
// rank the pawn advanced from, one file either side).
func pawnChainScore(pos *board.Position, side board.Side) int {
	occupied := map[board.Square]bool{}
	for _, pc := range pos.Pieces(side) {
		if pc.Kind == board.Pawn {
			occupied[pc.Square] = true
		}
	}

	behindRank := -side.PawnDirection()
	score := 0
	for s := range occupied {
		for _, df := range [2]int{-1, 1} {
			if n, ok := s.Offset(0, df); ok && occupied[n] {
				score++
			}
			if n, ok := s.Offset(behindRank, df); ok && occupied[n] {
				score += 2
			}
		}
	}
	return score
}
