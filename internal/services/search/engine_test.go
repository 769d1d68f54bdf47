package search_test

import (
	"context"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/connectfour/internal/dependencies/mocks"
	"github.com/mcoot/connectfour/internal/model"
	"github.com/mcoot/connectfour/internal/services/search"
	"github.com/mcoot/connectfour/internal/testutil"
)

type EngineSuite struct {
	suite.Suite
	clock  *mocks.MockClock
	engine *search.Engine
	ctx    context.Context
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	s.engine = search.NewEngine(s.clock, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *EngineSuite) mustBoard(moves ...int) model.Board {
	b, err := model.BoardFromMoves(moves)
	s.Require().NoError(err)
	return b
}

// minimax is an unpruned reference search using the same scoring rules
func minimax(b *model.Board, depth int, maximizing bool) int {
	if _, won := b.CheckWinner(); won {
		if maximizing {
			return -search.WinScore
		}
		return search.WinScore
	}
	if b.CheckFull() {
		return 0
	}
	if depth == 0 {
		if maximizing {
			return -search.Evaluate(b)
		}
		return search.Evaluate(b)
	}

	best := search.Infinity
	if maximizing {
		best = -search.Infinity
	}
	for _, column := range b.LegalMoves() {
		child := b.Clone()
		child.Apply(column)
		score := minimax(&child, depth-1, !maximizing)
		if (maximizing && score > best) || (!maximizing && score < best) {
			best = score
		}
	}
	return best
}

// referenceRoot returns the best (score, column) pair by exhaustive search
func referenceRoot(b model.Board, depth int) (int, int) {
	bestScore, bestColumn := -search.Infinity, -1
	for _, column := range b.LegalMoves() {
		child := b.Clone()
		child.Apply(column)
		score := minimax(&child, depth-1, false)
		if score > bestScore || (score == bestScore && column > bestColumn) {
			bestScore, bestColumn = score, column
		}
	}
	return bestScore, bestColumn
}

// randomPositions plays seeded random games, stopping before any terminal state
func randomPositions(n int) []model.Board {
	rng := rand.New(rand.NewPCG(42, 1024))
	var boards []model.Board
	for len(boards) < n {
		b := model.NewBoard()
		plies := rng.IntN(30)
		for range plies {
			moves := b.LegalMoves()
			next := b.Clone()
			next.Apply(moves[rng.IntN(len(moves))])
			if next.Over() {
				break
			}
			b = next
		}
		boards = append(boards, b)
	}
	return boards
}

// Evaluator tests

func (s *EngineSuite) TestEvaluateEmptyBoard() {
	b := model.NewBoard()
	s.Equal(0, search.Evaluate(&b))
}

func (s *EngineSuite) TestEvaluateScoresForSideThatMoved() {
	b := s.mustBoard(3)
	s.Equal(15, search.Evaluate(&b))

	// yellow now owns the 17 square above red's 15
	b = s.mustBoard(3, 3)
	s.Equal(2, search.Evaluate(&b))
}

func (s *EngineSuite) TestEvaluateIsSymmetric() {
	left := s.mustBoard(0, 1, 2)
	right := s.mustBoard(6, 5, 4)
	s.Equal(search.Evaluate(&left), search.Evaluate(&right))
}

// Search tests

func (s *EngineSuite) TestOpeningPrefersCentre() {
	cases := []struct {
		depth int
		score int
	}{
		{1, 15},
		{2, -2},
		{3, 20},
	}
	for _, tc := range cases {
		result, err := s.engine.Search(s.ctx, model.NewBoard(), tc.depth)
		s.Require().NoError(err)
		s.Equal(3, result.Column, "depth %d", tc.depth)
		s.Equal(tc.score, result.Score, "depth %d", tc.depth)
		s.Equal(tc.depth, result.Depth)
	}
}

// Up to depth 2 no maximizing node sits below the root's children, so alpha
// never moves and the shared window cannot cut a branch wrongly.
func (s *EngineSuite) TestMatchesExhaustiveSearch() {
	for i, b := range randomPositions(40) {
		for depth := 1; depth <= 2; depth++ {
			wantScore, wantColumn := referenceRoot(b, depth)

			result, err := s.engine.Search(s.ctx, b, depth)
			s.Require().NoError(err)
			s.Equal(wantScore, result.Score, "position %d %v depth %d", i, b.History(), depth)
			s.Equal(wantColumn, result.Column, "position %d %v depth %d", i, b.History(), depth)
		}
	}
}

func (s *EngineSuite) TestTakesImmediateWin() {
	b := s.mustBoard(0, 0, 1, 1, 2, 2)
	for depth := 1; depth <= 6; depth++ {
		result, err := s.engine.Search(s.ctx, b, depth)
		s.Require().NoError(err)
		s.Equal(3, result.Column, "depth %d", depth)
		s.Equal(search.WinScore, result.Score, "depth %d", depth)
	}
}

func (s *EngineSuite) TestBlocksOpponentWin() {
	// yellow has three stacked in column 6
	b := s.mustBoard(0, 6, 1, 6, 0, 6)
	result, err := s.engine.Search(s.ctx, b, 2)
	s.Require().NoError(err)
	s.Equal(6, result.Column)
	s.Equal(-10, result.Score)
}

func (s *EngineSuite) TestPrefersHigherColumnBetweenEqualWins() {
	// an open three on the bottom row wins through either end
	b := s.mustBoard(1, 1, 2, 2, 3, 3)
	for depth := 1; depth <= 2; depth++ {
		result, err := s.engine.Search(s.ctx, b, depth)
		s.Require().NoError(err)
		s.Equal(4, result.Column, "depth %d", depth)
		s.Equal(search.WinScore, result.Score, "depth %d", depth)
	}
}

func (s *EngineSuite) TestWinsScoreTheSameAtAnyDistance() {
	// column 6 forces a win two moves later and scores like the immediate ones
	b := s.mustBoard(1, 1, 2, 2, 3, 3)
	child := b.Clone()
	child.Apply(6)
	s.Equal(search.WinScore, minimax(&child, 2, false))

	result, err := s.engine.Search(s.ctx, b, 3)
	s.Require().NoError(err)
	s.Equal(search.WinScore, result.Score)
}

func (s *EngineSuite) TestSearchIsDeterministic() {
	b := s.mustBoard(3, 2, 3, 4, 1, 1, 0)
	first, err := s.engine.Search(s.ctx, b, 5)
	s.Require().NoError(err)

	for range 10 {
		result, err := s.engine.Search(s.ctx, b, 5)
		s.Require().NoError(err)
		s.Equal(first.Score, result.Score)
		s.Equal(first.Column, result.Column)
	}
}

func (s *EngineSuite) TestDoesNotModifyBoard() {
	b := s.mustBoard(3, 2, 3, 4)
	before := b.Clone()

	_, err := s.engine.Search(s.ctx, b, 4)
	s.Require().NoError(err)

	s.Equal(before.Cells(), b.Cells())
	s.Equal(before.History(), b.History())
	s.Equal(before.ToPlay(), b.ToPlay())
}

func (s *EngineSuite) TestPlaysOnlyRemainingColumn() {
	// every column but 6 is full and nobody has four
	b := model.NewBoard()
	for _, m := range drawPrefix() {
		s.Require().NoError(b.Play(m))
	}
	column, err := s.engine.ChooseAction(s.ctx, b, 8)
	s.Require().NoError(err)
	s.Equal(6, column)
}

func (s *EngineSuite) TestCountsNodesAndTime() {
	result, err := s.engine.Search(s.ctx, model.NewBoard(), 2)
	s.Require().NoError(err)
	// the root's seven children each expand seven grandchildren at most
	s.Positive(result.Nodes)
	s.LessOrEqual(result.Nodes, int64(7+49))
	s.Equal(time.Duration(0), result.Duration)
}

func (s *EngineSuite) TestConcurrentSearchesAreIndependent() {
	boards := randomPositions(8)
	var wg sync.WaitGroup
	results := make([]search.Result, len(boards))
	errs := make([]error, len(boards))
	for i, b := range boards {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = s.engine.Search(s.ctx, b, 2)
		}()
	}
	wg.Wait()

	for i, b := range boards {
		s.Require().NoError(errs[i])
		wantScore, wantColumn := referenceRoot(b, 2)
		s.Equal(wantScore, results[i].Score)
		s.Equal(wantColumn, results[i].Column)
	}
}

// Precondition tests

func (s *EngineSuite) TestRejectsInvalidDepth() {
	_, err := s.engine.Search(s.ctx, model.NewBoard(), 0)
	s.ErrorIs(err, search.ErrInvalidDepth)
	_, err = s.engine.ChooseAction(s.ctx, model.NewBoard(), -3)
	s.ErrorIs(err, search.ErrInvalidDepth)
}

func (s *EngineSuite) TestRejectsFinishedGame() {
	won := s.mustBoard(0, 1, 0, 1, 0, 1, 0)
	_, err := s.engine.Search(s.ctx, won, 3)
	s.ErrorIs(err, search.ErrNoLegalMoves)

	full := model.NewBoard()
	for _, m := range append(drawPrefix(), 6) {
		s.Require().NoError(full.Play(m))
	}
	_, err = s.engine.Search(s.ctx, full, 3)
	s.ErrorIs(err, search.ErrNoLegalMoves)
}

func (s *EngineSuite) TestRejectsCancelledContext() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()
	_, err := s.engine.Search(ctx, model.NewBoard(), 3)
	s.ErrorIs(err, context.Canceled)
}

// drawPrefix fills the board in a pattern with no run longer than two,
// leaving the top cell of column 6 empty
func drawPrefix() []int {
	var moves []int
	for range model.Height {
		moves = append(moves, 0, 2, 1, 3, 4, 6, 5)
	}
	// move the final column 6 token to the end
	moves = append(moves[:len(moves)-2], moves[len(moves)-1])
	return moves
}
