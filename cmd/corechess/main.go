package main

import (
	"bufio"
	"context"
	"flag"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/halvard/corechess/pkg/board"
	"github.com/halvard/corechess/pkg/config"
	"github.com/halvard/corechess/pkg/engine"
	"github.com/halvard/corechess/pkg/eval"
	"github.com/halvard/corechess/pkg/movegen"
	"github.com/halvard/corechess/pkg/transport"
	"github.com/seekerror/logw"
	"go.uber.org/atomic"
)

var configPath = flag.String("config", "", "path to a corechess.toml configuration file")

// session guards the board state a background "auto" run mutates against
// commands typed while it is still in flight, so a stray "step" or
// "reset" can't race a run that hasn't finished yet.
type session struct {
	mu     sync.Mutex
	pos    *board.Position
	recent []transport.HistoryMove

	busy   atomic.Bool
	cancel context.CancelFunc
}

// main wires config into an Engine and drives it through a local,
// stdin-commanded self-play loop. This is a debugging harness only: the
// production transport (the live match server, authentication, a real
// opposing clock) is an external collaborator the core never implements
// (pkg/transport is contracts only).
func main() {
	flag.Parse()
	ctx := context.Background()

	settings, err := config.Load(ctx, *configPath)
	if err != nil {
		logw.Exitf(ctx, "config: %v", err)
	}

	e, err := engine.New(ctx, settings.Engine, eval.NewWeighted(nil))
	if err != nil {
		logw.Exitf(ctx, "engine: %v", err)
	}
	defer e.Teardown(ctx)

	logw.Infof(ctx, "%v ready, credentials user=%v", e.Name(), settings.Username)

	pos, err := board.NewPosition(board.InitialPlacements(), board.White, 100, nil, nil)
	if err != nil {
		logw.Exitf(ctx, "initial position: %v", err)
	}
	s := &session{pos: pos}

	printBoard(ctx, pos)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch strings.ToLower(parts[0]) {
		case "step", "s":
			if !s.ensureIdle(ctx) {
				continue
			}
			n := 1
			if len(parts) > 1 {
				if v, err := strconv.Atoi(parts[1]); err == nil {
					n = v
				}
			}
			s.runForeground(ctx, e, n)

		case "auto", "a":
			if !s.ensureIdle(ctx) {
				continue
			}
			s.runBackground(ctx, e)

		case "halt", "stop", "h":
			s.halt(ctx)

		case "reset", "r":
			if !s.ensureIdle(ctx) {
				continue
			}
			e.Initialize(ctx)
			reset, err := board.NewPosition(board.InitialPlacements(), board.White, 100, nil, nil)
			if err != nil {
				logw.Errorf(ctx, "reset: %v", err)
				continue
			}
			s.mu.Lock()
			s.pos, s.recent = reset, nil
			s.mu.Unlock()
			printBoard(ctx, reset)

		case "print", "p":
			s.mu.Lock()
			cur := s.pos
			s.mu.Unlock()
			printBoard(ctx, cur)

		case "quit", "exit", "q":
			s.halt(ctx)
			return

		default:
			logw.Infof(ctx, "unrecognized command %q (try: step [n], auto, halt, reset, print, quit)", parts[0])
		}
	}
}

// ensureIdle reports whether no background run is in flight, logging a
// warning otherwise.
func (s *session) ensureIdle(ctx context.Context) bool {
	if s.busy.Load() {
		logw.Infof(ctx, "a run is already in progress; 'halt' to stop it first")
		return false
	}
	return true
}

// runForeground plays n plies synchronously, blocking further stdin
// commands until it returns -- suitable for the short, interactive
// "step" command.
func (s *session) runForeground(ctx context.Context, e *engine.Engine, n int) {
	s.busy.Store(true)
	defer s.busy.Store(false)

	s.mu.Lock()
	pos, recent := s.pos, s.recent
	s.mu.Unlock()

	pos, recent = runSteps(ctx, e, pos, recent, n, nil)

	s.mu.Lock()
	s.pos, s.recent = pos, recent
	s.mu.Unlock()
}

// runBackground plays self-play to completion in its own goroutine so
// stdin can still accept a "halt" command while it runs.
func (s *session) runBackground(ctx context.Context, e *engine.Engine) {
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.busy.Store(true)

	go func() {
		defer s.busy.Store(false)

		s.mu.Lock()
		pos, recent := s.pos, s.recent
		s.mu.Unlock()

		pos, recent = runSteps(runCtx, e, pos, recent, 1000, runCtx.Done())

		s.mu.Lock()
		s.pos, s.recent = pos, recent
		s.mu.Unlock()
	}()
}

func (s *session) halt(ctx context.Context) {
	if s.cancel != nil {
		s.cancel()
	}
	if s.busy.Load() {
		logw.Infof(ctx, "halting in-progress run")
	}
}

// runSteps plays up to n plies of self-play, stopping early once the
// position is terminal, no legal move remains, or done fires.
func runSteps(ctx context.Context, e *engine.Engine, pos *board.Position, recent []transport.HistoryMove, n int, done <-chan struct{}) (*board.Position, []transport.HistoryMove) {
	for i := 0; i < n; i++ {
		select {
		case <-done:
			return pos, recent
		default:
		}

		if result := board.Terminal(pos); result.Drawn {
			logw.Infof(ctx, "game drawn, value=%.2f", result.Value)
			return pos, recent
		}
		if len(movegen.Generate(pos)) == 0 {
			logw.Infof(ctx, "no legal moves for %v: checkmate or stalemate", pos.Turn)
			return pos, recent
		}

		before, after, action, err := step(ctx, e, pos, recent)
		if err != nil {
			logw.Errorf(ctx, "step: %v", err)
			return pos, recent
		}

		recent = pushRecent(recent, before, action)
		pos = after
		logw.Infof(ctx, "%v played %v", before.Turn, action)
		printBoard(ctx, pos)
	}
	return pos, recent
}
