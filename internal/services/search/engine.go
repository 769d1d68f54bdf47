package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mcoot/connectfour/internal/dependencies/clock"
	"github.com/mcoot/connectfour/internal/model"
)

const (
	// WinScore is the value of a decided position
	WinScore = 1_000_000
	// Infinity bounds every reachable score
	Infinity = 2 * WinScore
)

var (
	ErrInvalidDepth  = errors.New("search depth must be at least 1")
	ErrNoLegalMoves  = errors.New("position has no legal moves")
	ErrWorkerFailure = errors.New("search worker failed")
)

// Result is the outcome of a search from one position
type Result struct {
	Column   int
	Score    int
	Depth    int
	Nodes    int64
	Duration time.Duration
}

// Engine chooses moves by depth-limited alpha-beta minimax, searching each
// root move on its own goroutine
type Engine struct {
	clock  clock.Clock
	logger *slog.Logger

	// beforeRoot runs at the start of each root worker; nil outside tests
	beforeRoot func(column int)
}

// NewEngine creates a new Engine
func NewEngine(clk clock.Clock, logger *slog.Logger) *Engine {
	return &Engine{
		clock:  clk,
		logger: logger.With(slog.String("component", "search-engine")),
	}
}

// ChooseAction returns the best column for the side to move
func (e *Engine) ChooseAction(ctx context.Context, board model.Board, depth int) (int, error) {
	result, err := e.Search(ctx, board, depth)
	if err != nil {
		return 0, err
	}
	return result.Column, nil
}

// Search scores every legal move of board to the given depth and returns the
// best one. Equal scores are broken towards the higher column.
// The caller's board is never modified.
func (e *Engine) Search(ctx context.Context, board model.Board, depth int) (Result, error) {
	if depth < 1 {
		return Result{}, fmt.Errorf("%w: got %d", ErrInvalidDepth, depth)
	}
	if board.Over() {
		return Result{}, ErrNoLegalMoves
	}
	moves := board.LegalMoves()
	if len(moves) == 0 {
		return Result{}, ErrNoLegalMoves
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	start := e.clock.Now()
	window := NewWindow()
	scores := make([]int, len(moves))
	var nodes atomic.Int64

	var g errgroup.Group
	for i, column := range moves {
		root := board.Clone()
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%w: column %d: %v", ErrWorkerFailure, column, r)
				}
			}()

			if e.beforeRoot != nil {
				e.beforeRoot(column)
			}
			root.Apply(column)
			w := &worker{window: window}
			scores[i] = w.alphaBeta(&root, depth-1, minimizer)
			nodes.Add(w.nodes)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		e.logger.Error("search failed", slog.Any("error", err))
		return Result{}, err
	}

	best := Result{Column: moves[0], Score: scores[0]}
	for i, column := range moves[1:] {
		score := scores[i+1]
		if score > best.Score || (score == best.Score && column > best.Column) {
			best = Result{Column: column, Score: score}
		}
	}
	best.Depth = depth
	best.Nodes = nodes.Load()
	best.Duration = e.clock.Since(start)

	e.logger.Debug("search complete",
		slog.Int("column", best.Column),
		slog.Int("score", best.Score),
		slog.Int("depth", depth),
		slog.Int64("nodes", best.Nodes),
		slog.Duration("duration", best.Duration),
	)

	return best, nil
}

// worker holds the per-goroutine state of one root branch
type worker struct {
	window *Window
	nodes  int64
}

// alphaBeta scores the position from the searching player's point of view.
// Every node prunes against the one window shared by all root workers.
func (w *worker) alphaBeta(b *model.Board, depth int, r role) int {
	w.nodes++

	if _, won := b.CheckWinner(); won {
		return r.defeat()
	}
	if b.CheckFull() {
		return 0
	}
	if depth == 0 {
		if r == minimizer {
			return Evaluate(b)
		}
		return -Evaluate(b)
	}

	best := r.worst()
	for _, column := range PriorityMoves {
		if !b.ValidAction(column) {
			continue
		}
		child := b.Clone()
		child.Apply(column)

		score := w.alphaBeta(&child, depth-1, r.other())
		if !r.improves(score, best) {
			continue
		}
		best = score
		if w.window.fold(r, best) {
			break
		}
	}
	return best
}
