package board_test

import (
	"testing"

	"github.com/halvard/corechess/pkg/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialPlacements_IsALegalStartingPosition(t *testing.T) {
	pos, err := board.NewPosition(board.InitialPlacements(), board.White, 100, nil, nil)
	require.NoError(t, err)

	assert.Len(t, pos.Pieces(board.White), 16)
	assert.Len(t, pos.Pieces(board.Black), 16)

	wk, ok := pos.King(board.White)
	require.True(t, ok)
	assert.Equal(t, board.NewSquare(0, 4), wk.Square)

	bk, ok := pos.King(board.Black)
	require.True(t, ok)
	assert.Equal(t, board.NewSquare(7, 4), bk.Square)

	ids := map[int]bool{}
	for _, pc := range append(append([]board.Piece{}, pos.Pieces(board.White)...), pos.Pieces(board.Black)...) {
		assert.False(t, ids[pc.ID], "duplicate piece id %v", pc.ID)
		ids[pc.ID] = true
	}
}
