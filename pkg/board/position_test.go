package board_test

import (
	"testing"

	"github.com/halvard/corechess/pkg/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backRankOnly(t *testing.T) *board.Position {
	t.Helper()
	placements := []board.Piece{
		{ID: 1, Side: board.White, Kind: board.King, Square: board.Square{Rank: 0, File: 4}},
		{ID: 2, Side: board.Black, Kind: board.King, Square: board.Square{Rank: 7, File: 4}},
	}
	pos, err := board.NewPosition(placements, board.White, 100, nil, nil)
	require.NoError(t, err)
	return pos
}

func TestNewPosition_RequiresBothKings(t *testing.T) {
	_, err := board.NewPosition([]board.Piece{
		{ID: 1, Side: board.White, Kind: board.King, Square: board.Square{Rank: 0, File: 4}},
	}, board.White, 100, nil, nil)
	assert.Error(t, err)
}

func TestPieceByID(t *testing.T) {
	pos := backRankOnly(t)
	pc, ok := pos.PieceByID(2)
	require.True(t, ok)
	assert.Equal(t, board.Black, pc.Side)

	_, ok = pos.PieceByID(99)
	assert.False(t, ok)
}

func TestNewPosition_BuildsGrid(t *testing.T) {
	pos := backRankOnly(t)
	require.NoError(t, board.CheckInvariants(pos))

	pc, ok := pos.PieceAt(board.Square{Rank: 0, File: 4})
	require.True(t, ok)
	assert.Equal(t, board.King, pc.Kind)
	assert.Equal(t, board.White, pc.Side)
}

func TestMake_QuietRookMove_DecrementsStale(t *testing.T) {
	placements := []board.Piece{
		{ID: 1, Side: board.White, Kind: board.King, Square: board.Square{Rank: 0, File: 4}},
		{ID: 2, Side: board.Black, Kind: board.King, Square: board.Square{Rank: 7, File: 4}},
		{ID: 3, Side: board.White, Kind: board.Rook, Square: board.Square{Rank: 0, File: 0}},
	}
	pos, err := board.NewPosition(placements, board.White, 80, nil, nil)
	require.NoError(t, err)

	next := pos.Make(board.NewNormalAction(3, board.Square{Rank: 0, File: 3}))
	require.NoError(t, board.CheckInvariants(next))
	assert.Equal(t, 79, next.Stale)
	assert.True(t, next.Quiet)
	assert.Equal(t, board.Black, next.Turn)
}

func TestMake_Capture_ResetsStaleAndMarksNotQuiet(t *testing.T) {
	placements := []board.Piece{
		{ID: 1, Side: board.White, Kind: board.King, Square: board.Square{Rank: 0, File: 4}},
		{ID: 2, Side: board.Black, Kind: board.King, Square: board.Square{Rank: 7, File: 4}},
		{ID: 3, Side: board.White, Kind: board.Rook, Square: board.Square{Rank: 0, File: 0}},
		{ID: 4, Side: board.Black, Kind: board.Rook, Square: board.Square{Rank: 0, File: 7}},
	}
	pos, err := board.NewPosition(placements, board.White, 10, nil, nil)
	require.NoError(t, err)

	next := pos.Make(board.NewNormalAction(3, board.Square{Rank: 0, File: 7}))
	require.NoError(t, board.CheckInvariants(next))
	assert.Equal(t, 100, next.Stale)
	assert.False(t, next.Quiet)
	assert.Len(t, next.Black, 1)
}

func TestMake_EnPassant_RemovesVictim(t *testing.T) {
	placements := []board.Piece{
		{ID: 1, Side: board.White, Kind: board.King, Square: board.Square{Rank: 0, File: 4}},
		{ID: 2, Side: board.Black, Kind: board.King, Square: board.Square{Rank: 7, File: 4}},
		{ID: 3, Side: board.White, Kind: board.Pawn, Square: board.Square{Rank: 4, File: 3}, HasMoved: true},
		{ID: 4, Side: board.Black, Kind: board.Pawn, Square: board.Square{Rank: 4, File: 4}, HasMoved: true},
	}
	pos, err := board.NewPosition(placements, board.White, 100, nil, nil)
	require.NoError(t, err)

	next := pos.Make(board.NewNormalAction(3, board.Square{Rank: 5, File: 4}))
	require.NoError(t, board.CheckInvariants(next))
	assert.Len(t, next.Black, 1)
	assert.Equal(t, 100, next.Stale)
}

func TestMake_PromotionToQueen(t *testing.T) {
	placements := []board.Piece{
		{ID: 1, Side: board.White, Kind: board.King, Square: board.Square{Rank: 0, File: 4}},
		{ID: 2, Side: board.Black, Kind: board.King, Square: board.Square{Rank: 7, File: 4}},
		{ID: 3, Side: board.White, Kind: board.Pawn, Square: board.Square{Rank: 6, File: 0}, HasMoved: true},
	}
	pos, err := board.NewPosition(placements, board.White, 100, nil, nil)
	require.NoError(t, err)

	next := pos.Make(board.NewNormalAction(3, board.Square{Rank: 7, File: 0}))
	idx, ok := indexByID(next.White, 3)
	require.True(t, ok)
	assert.Equal(t, board.Queen, next.White[idx].Kind)
	assert.False(t, next.Quiet)
}

func TestMake_Castle_MovesBothPiecesAndIsNotQuiet(t *testing.T) {
	placements := []board.Piece{
		{ID: 1, Side: board.White, Kind: board.King, Square: board.Square{Rank: 0, File: 4}},
		{ID: 2, Side: board.Black, Kind: board.King, Square: board.Square{Rank: 7, File: 4}},
		{ID: 3, Side: board.White, Kind: board.Rook, Square: board.Square{Rank: 0, File: 7}},
	}
	pos, err := board.NewPosition(placements, board.White, 100, nil, nil)
	require.NoError(t, err)

	action := board.NewCastleAction(
		board.Leg{PieceID: 1, Dest: board.Square{Rank: 0, File: 6}},
		board.Leg{PieceID: 3, Dest: board.Square{Rank: 0, File: 5}},
	)
	next := pos.Make(action)
	require.NoError(t, board.CheckInvariants(next))
	assert.False(t, next.Quiet)
	assert.Equal(t, 99, next.Stale)

	kIdx, _ := indexByID(next.White, 1)
	rIdx, _ := indexByID(next.White, 3)
	assert.Equal(t, board.Square{Rank: 0, File: 6}, next.White[kIdx].Square)
	assert.Equal(t, board.Square{Rank: 0, File: 5}, next.White[rIdx].Square)
	assert.True(t, next.White[kIdx].HasMoved)
	assert.True(t, next.White[rIdx].HasMoved)
}

func TestMake_HistoryBoundedAtNine(t *testing.T) {
	pos := backRankOnly(t)
	for i := 0; i < 12; i++ {
		dest := board.Square{Rank: 0, File: 4}
		if i%2 == 0 {
			dest = board.Square{Rank: 0, File: 3}
		}
		pos = pos.Make(board.NewNormalAction(1, dest))
	}
	assert.LessOrEqual(t, len(pos.LastActions), board.MaxHistory)
	assert.Equal(t, len(pos.LastActions), len(pos.LastFromRanks))
}

func indexByID(list []board.Piece, id int) (int, bool) {
	for i, pc := range list {
		if pc.ID == id {
			return i, true
		}
	}
	return 0, false
}
