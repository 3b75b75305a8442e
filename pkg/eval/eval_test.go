package eval_test

import (
	"testing"

	"github.com/halvard/corechess/pkg/board"
	"github.com/halvard/corechess/pkg/eval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sq(rank, file int) board.Square { return board.FromExternal(rank, file) }

func kingsOnly() []board.Piece {
	return []board.Piece{
		{ID: 1, Side: board.White, Kind: board.King, Square: sq(1, 5)},
		{ID: 2, Side: board.Black, Kind: board.King, Square: sq(8, 5)},
	}
}

func TestWeighted_BareKingsIsNeutral(t *testing.T) {
	pos, err := board.NewPosition(kingsOnly(), board.White, 100, nil, nil)
	require.NoError(t, err)

	e := eval.NewWeighted(eval.ConstantRandomizer(0.5))
	value := e.Evaluate(pos, board.White)

	// material advantage=0.5, material share=0 (both zero material),
	// pawn-chain share=0 (both chains are zero, 0/(0+eps)), pawn
	// structure=0, check=0.5, randomizer=0.5.
	expected := 0.45*0.5 + 0.45*0 + 0.02*0 + 0.02*0 + 0.05*0.5 + 0.01*0.5
	assert.InDelta(t, expected, value, 1e-9)
}

func TestWeighted_MaterialAdvantageFavorsExtraQueen(t *testing.T) {
	placements := append(kingsOnly(), board.Piece{ID: 3, Side: board.White, Kind: board.Queen, Square: sq(1, 4)})
	pos, err := board.NewPosition(placements, board.White, 100, nil, nil)
	require.NoError(t, err)

	e := eval.NewWeighted(eval.ConstantRandomizer(0.5))
	white := e.Evaluate(pos, board.White)
	black := e.Evaluate(pos, board.Black)

	assert.Greater(t, white, black)
	assert.Greater(t, white, 0.5)
	assert.Less(t, black, 0.5)
}

func TestWeighted_CheckPressure(t *testing.T) {
	placements := []board.Piece{
		{ID: 1, Side: board.White, Kind: board.King, Square: sq(1, 5)},
		{ID: 2, Side: board.Black, Kind: board.King, Square: sq(8, 5)},
		{ID: 3, Side: board.Black, Kind: board.Rook, Square: sq(1, 1)},
	}
	pos, err := board.NewPosition(placements, board.White, 100, nil, nil)
	require.NoError(t, err)
	require.True(t, pos.InCheck(board.White))

	e := eval.NewWeighted(eval.ConstantRandomizer(0.5))
	white := e.Evaluate(pos, board.White)
	black := e.Evaluate(pos, board.Black)

	assert.Less(t, white, black)
}

func TestWeighted_PawnChainRewardsAdjacentAndDiagonalPawns(t *testing.T) {
	lonePawn := append(kingsOnly(), board.Piece{ID: 3, Side: board.White, Kind: board.Pawn, Square: sq(2, 1)})
	chain := append(kingsOnly(),
		board.Piece{ID: 3, Side: board.White, Kind: board.Pawn, Square: sq(2, 1)},
		board.Piece{ID: 4, Side: board.White, Kind: board.Pawn, Square: sq(2, 2)},
		board.Piece{ID: 5, Side: board.White, Kind: board.Pawn, Square: sq(3, 2)},
	)

	lonePos, err := board.NewPosition(lonePawn, board.White, 100, nil, nil)
	require.NoError(t, err)
	chainPos, err := board.NewPosition(chain, board.White, 100, nil, nil)
	require.NoError(t, err)

	e := eval.NewWeighted(eval.ConstantRandomizer(0.5))
	assert.Greater(t, e.Evaluate(chainPos, board.White), e.Evaluate(lonePos, board.White))
}

func TestWeighted_RandomizerIsBoundedContribution(t *testing.T) {
	pos, err := board.NewPosition(kingsOnly(), board.White, 100, nil, nil)
	require.NoError(t, err)

	low := eval.NewWeighted(eval.ConstantRandomizer(0)).Evaluate(pos, board.White)
	high := eval.NewWeighted(eval.ConstantRandomizer(1)).Evaluate(pos, board.White)
	assert.InDelta(t, 0.01, high-low, 1e-9)
}

func TestNominalValue(t *testing.T) {
	assert.Equal(t, 1, eval.NominalValue(board.Pawn))
	assert.Equal(t, 3, eval.NominalValue(board.Knight))
	assert.Equal(t, 3, eval.NominalValue(board.Bishop))
	assert.Equal(t, 5, eval.NominalValue(board.Rook))
	assert.Equal(t, 9, eval.NominalValue(board.Queen))
	assert.Equal(t, 0, eval.NominalValue(board.King))
}
