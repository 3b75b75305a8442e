package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/halvard/corechess/pkg/board"
	"github.com/halvard/corechess/pkg/engine"
	"github.com/halvard/corechess/pkg/movegen"
	"github.com/halvard/corechess/pkg/transport"
	"github.com/seekerror/logw"
)

// localPlayer is a fixed-clock transport.Player for self-play: the console
// harness has no real match clock, so both sides get a generous flat
// budget and the engine's time-budget formula degrades to "plenty of
// time, deepen until the branching-factor guard trips."
type localPlayer struct {
	id    int
	clock float64
}

func (p localPlayer) ID() int        { return p.id }
func (p localPlayer) Clock() float64 { return p.clock }

// localMove is a transport.HistoryMove backed by plain coordinates.
type localMove struct{ fromRank, fromFile, toRank, toFile int }

func (m localMove) FromRank() int { return m.fromRank }
func (m localMove) FromFile() int { return m.fromFile }
func (m localMove) ToRank() int   { return m.toRank }
func (m localMove) ToFile() int   { return m.toFile }

// moveCall is one Move invocation the engine made during a turn: pieceID
// plus the destination and promotion it requested.
type moveCall struct {
	pieceID    int
	file, rank int
	promotion  rune
}

// applied collects every Move call the engine makes during one ProcessTurn:
// exactly one for a Normal action, two (king leg then rook leg) for a
// Castle action -- submit's own contract in pkg/engine/turn.go.
type applied struct {
	calls []moveCall
}

// localPiece is a transport.PieceView backed by a board.Piece snapshot; its
// Move method appends to a shared *applied rather than mutating anything,
// since the console harness owns board state exclusively through
// board.Position.Make.
type localPiece struct {
	pc  board.Piece
	rec *applied
}

func (p localPiece) ID() int    { return p.pc.ID }
func (p localPiece) Owner() int { return int(p.pc.Side) }
func (p localPiece) Rank() int  { r, _ := p.pc.Square.ToExternal(); return r }
func (p localPiece) File() int  { _, f := p.pc.Square.ToExternal(); return f }
func (p localPiece) Kind() rune { return p.pc.Kind.Code() }
func (p localPiece) HasMoved() bool {
	return p.pc.HasMoved
}

func (p localPiece) Move(file, rank int, promotion rune) error {
	p.rec.calls = append(p.rec.calls, moveCall{pieceID: p.pc.ID, file: file, rank: rank, promotion: promotion})
	return nil
}

// localContext adapts a board.Position into a transport.TurnContext for a
// single side to move. recent holds the bounded reverse-chronological move
// window the real host would supply; the console harness keeps its own
// running copy rather than reconstructing it from board.Position (which
// stores only what pkg/movegen and pkg/board's repetition proxy need, not
// coordinates).
type localContext struct {
	pos    *board.Position
	self   board.Side
	recent []transport.HistoryMove
	rec    *applied
}

func newLocalContext(pos *board.Position, recent []transport.HistoryMove) *localContext {
	return &localContext{pos: pos, self: pos.Turn, recent: recent, rec: &applied{}}
}

func (c *localContext) views(side board.Side) []transport.PieceView {
	pieces := c.pos.Pieces(side)
	views := make([]transport.PieceView, 0, len(pieces))
	for _, pc := range pieces {
		views = append(views, localPiece{pc: pc, rec: c.rec})
	}
	return views
}

func (c *localContext) OwnPieces() []transport.PieceView {
	return c.views(c.self)
}

func (c *localContext) OpponentPieces() []transport.PieceView {
	return c.views(c.self.Opponent())
}

func (c *localContext) Players() []transport.Player {
	return []transport.Player{localPlayer{id: 0, clock: 300}, localPlayer{id: 1, clock: 300}}
}

func (c *localContext) ActingPlayerID() int {
	return int(c.self)
}

func (c *localContext) TurnsToStalemate() int {
	return c.pos.Stale
}

func (c *localContext) RecentMoves() []transport.HistoryMove {
	return c.recent
}

// step runs one full turn for the side to move against e, applies the
// resulting Action to pos and returns the position this turn started
// from, the updated position, and the Action taken -- the caller needs
// the pre-move position to look up the moved piece's origin square for
// history bookkeeping.
func step(ctx context.Context, e *engine.Engine, pos *board.Position, recent []transport.HistoryMove) (before, after *board.Position, action board.Action, err error) {
	lc := newLocalContext(pos, recent)
	if err := e.ProcessTurn(ctx, lc); err != nil {
		return nil, nil, board.Action{}, err
	}

	switch len(lc.rec.calls) {
	case 1:
		c := lc.rec.calls[0]
		action = board.NewNormalAction(c.pieceID, board.FromExternal(c.rank, c.file))
	case 2:
		king, rook := lc.rec.calls[0], lc.rec.calls[1]
		action = board.NewCastleAction(
			board.Leg{PieceID: king.pieceID, Dest: board.FromExternal(king.rank, king.file)},
			board.Leg{PieceID: rook.pieceID, Dest: board.FromExternal(rook.rank, rook.file)},
		)
	default:
		return nil, nil, board.Action{}, fmt.Errorf("engine made %v Move calls, want 1 or 2", len(lc.rec.calls))
	}

	return pos, pos.Make(action), action, nil
}

func printBoard(ctx context.Context, pos *board.Position) {
	const files = "    a   b   c   d   e   f   g   h"
	const horizontal = "  ---------------------------------"

	logw.Infof(ctx, "%v", files)
	logw.Infof(ctx, "%v", horizontal)
	for rank := board.Rank(board.NumRanks - 1); rank >= 0; rank-- {
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("%d | ", int(rank)+1))
		for file := board.File(0); file < board.NumFiles; file++ {
			sq := board.NewSquare(rank, file)
			if pc, ok := pos.PieceAt(sq); ok {
				sb.WriteString(printPiece(pc))
			} else {
				sb.WriteString(" ")
			}
			sb.WriteString(" | ")
		}
		logw.Infof(ctx, "%v", sb.String())
		logw.Infof(ctx, "%v", horizontal)
	}
	logw.Infof(ctx, "%v", files)
	logw.Infof(ctx, "turn=%v stale=%v legal-moves=%v", pos.Turn, pos.Stale, len(movegen.Generate(pos)))
}

func printPiece(pc *board.Piece) string {
	if pc.Side == board.White {
		return strings.ToUpper(pc.Kind.String())
	}
	return strings.ToLower(pc.Kind.String())
}

// pushRecent prepends action's origin/destination to recent, bounded to 9
// entries (the largest window pkg/board's repetition proxy and
// pkg/movegen's en-passant check ever need), most recent first. before is
// the position the move was made from, needed to find the moved piece's
// origin square by id.
func pushRecent(recent []transport.HistoryMove, before *board.Position, action board.Action) []transport.HistoryMove {
	var from, to board.Square
	if action.Shape == board.CastleShape {
		if king, ok := before.PieceByID(action.King.PieceID); ok {
			from = king.Square
		}
		to = action.King.Dest
	} else {
		if pc, ok := before.PieceByID(action.PieceID); ok {
			from = pc.Square
		}
		to = action.Dest
	}
	fr, ff := from.ToExternal()
	tr, tf := to.ToExternal()

	next := []transport.HistoryMove{localMove{fromRank: fr, fromFile: ff, toRank: tr, toFile: tf}}
	if len(recent) > 8 {
		recent = recent[:8]
	}
	return append(next, recent...)
}
