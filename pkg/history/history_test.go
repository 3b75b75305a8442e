package history_test

import (
	"testing"

	"github.com/halvard/corechess/pkg/board"
	"github.com/halvard/corechess/pkg/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sq(rank, file int) board.Square { return board.FromExternal(rank, file) }

func samplePosition(t *testing.T) *board.Position {
	t.Helper()
	placements := []board.Piece{
		{ID: 1, Side: board.White, Kind: board.King, Square: sq(1, 5)},
		{ID: 2, Side: board.Black, Kind: board.King, Square: sq(8, 5)},
		{ID: 3, Side: board.White, Kind: board.Rook, Square: sq(1, 1)},
		{ID: 4, Side: board.White, Kind: board.Knight, Square: sq(1, 2)},
	}
	pos, err := board.NewPosition(placements, board.White, 100, nil, nil)
	require.NoError(t, err)
	return pos
}

func TestTable_GetReturnsZeroForAbsentEntry(t *testing.T) {
	tbl := history.NewTable()
	pos := samplePosition(t)
	assert.Equal(t, 0, tbl.Get(pos, board.NewNormalAction(3, sq(1, 2))))
}

func TestTable_UpdateIncrementsAndGetReflects(t *testing.T) {
	tbl := history.NewTable()
	pos := samplePosition(t)
	action := board.NewNormalAction(3, sq(2, 1))

	tbl.Update(pos, action)
	tbl.Update(pos, action)

	assert.Equal(t, 2, tbl.Get(pos, action))
}

func TestTable_CastleKeyedByKing(t *testing.T) {
	tbl := history.NewTable()
	pos := samplePosition(t)
	castle := board.NewCastleAction(
		board.Leg{PieceID: 1, Dest: sq(1, 3)},
		board.Leg{PieceID: 3, Dest: sq(1, 4)},
	)
	tbl.Update(pos, castle)

	sameCastleDifferentRook := board.NewCastleAction(
		board.Leg{PieceID: 1, Dest: sq(1, 3)},
		board.Leg{PieceID: 99, Dest: sq(1, 4)},
	)
	assert.Equal(t, 1, tbl.Get(pos, sameCastleDifferentRook))
}

func TestTable_OrderIsDescendingAndStable(t *testing.T) {
	tbl := history.NewTable()
	pos := samplePosition(t)

	rookMove := board.NewNormalAction(3, sq(1, 2))
	knightMove := board.NewNormalAction(4, sq(3, 1))

	tbl.Update(pos, knightMove)
	tbl.Update(pos, knightMove)
	tbl.Update(pos, rookMove)

	actions := []board.Action{rookMove, knightMove}
	ordered := tbl.Order(pos, actions)

	require.Len(t, ordered, 2)
	assert.Equal(t, knightMove, ordered[0])
	assert.Equal(t, rookMove, ordered[1])

	// Ties preserve original relative order.
	tied := []board.Action{knightMove, rookMove}
	tblFresh := history.NewTable()
	orderedFresh := tblFresh.Order(pos, tied)
	assert.Equal(t, tied, orderedFresh)
}
