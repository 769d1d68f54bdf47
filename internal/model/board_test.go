package model_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/connectfour/internal/model"
)

// drawSequence fills the board in a pattern with no run longer than two
var drawSequence = func() []int {
	var moves []int
	for range model.Height {
		moves = append(moves, 0, 2, 1, 3, 4, 6, 5)
	}
	return moves
}()

type BoardSuite struct {
	suite.Suite
}

func TestBoardSuite(t *testing.T) {
	suite.Run(t, new(BoardSuite))
}

func (s *BoardSuite) mustBoard(moves ...int) model.Board {
	b, err := model.BoardFromMoves(moves)
	s.Require().NoError(err)
	return b
}

// Board model tests

func (s *BoardSuite) TestNewBoardIsEmpty() {
	b := model.NewBoard()

	s.Equal(model.Red, b.ToPlay())
	s.Equal(0, b.MoveCount())
	s.False(b.CheckFull())
	_, ok := b.LastMove()
	s.False(ok)
	s.Len(b.LegalMoves(), model.Width)
}

func (s *BoardSuite) TestApplyStacksTokensInColumn() {
	b := s.mustBoard(3, 3, 3)

	s.Equal(3, b.ColumnHeight(3))
	for row, want := range []model.Cell{model.RedCell, model.YellowCell, model.RedCell} {
		cell, err := b.At(row, 3)
		s.Require().NoError(err)
		s.Equal(want, cell, "row %d", row)
	}
	cell, err := b.At(3, 3)
	s.Require().NoError(err)
	s.Equal(model.Empty, cell)

	last, ok := b.LastMove()
	s.True(ok)
	s.Equal(model.Position{Row: 2, Column: 3}, last)
	s.Equal(model.Yellow, b.ToPlay())
	s.Equal([]int{3, 3, 3}, b.History())
}

func (s *BoardSuite) TestColumnHeightsMatchMoveCounts() {
	moves := []int{0, 6, 0, 5, 1, 0, 2, 6}
	b := s.mustBoard(moves...)

	counts := make(map[int]int)
	for _, m := range moves {
		counts[m]++
	}
	for column := 0; column < model.Width; column++ {
		s.Equal(counts[column], b.ColumnHeight(column), "column %d", column)
	}
}

func (s *BoardSuite) TestCellOwnershipFollowsPlayOrder() {
	moves := []int{2, 2, 4, 2, 2}
	b := s.mustBoard(moves...)

	// column 2 was played by red, yellow, yellow, red
	want := []model.Cell{model.RedCell, model.YellowCell, model.YellowCell, model.RedCell}
	for row, cell := range want {
		got, err := b.At(row, 2)
		s.Require().NoError(err)
		s.Equal(cell, got, "row %d", row)
	}
}

func (s *BoardSuite) TestValidAction() {
	b := s.mustBoard(0, 0, 0, 0, 0, 0)

	s.False(b.ValidAction(-1))
	s.False(b.ValidAction(model.Width))
	s.False(b.ValidAction(0), "full column")
	s.True(b.ValidAction(1))
	s.Equal([]int{1, 2, 3, 4, 5, 6}, b.LegalMoves())
}

func (s *BoardSuite) TestPlayRejectsInvalidColumn() {
	b := s.mustBoard(0, 0, 0, 0, 0, 0)

	s.ErrorIs(b.Play(0), model.ErrInvalidColumn)
	s.ErrorIs(b.Play(7), model.ErrInvalidColumn)
	s.ErrorIs(b.Play(-1), model.ErrInvalidColumn)
	s.Equal(6, b.MoveCount())
}

func (s *BoardSuite) TestApplyPanicsOnFullColumn() {
	b := s.mustBoard(0, 0, 0, 0, 0, 0)
	s.Panics(func() { b.Apply(0) })
}

func (s *BoardSuite) TestAtRejectsOutOfBounds() {
	b := model.NewBoard()

	_, err := b.At(model.Height, 0)
	s.ErrorIs(err, model.ErrOutOfBounds)
	_, err = b.At(0, model.Width)
	s.ErrorIs(err, model.ErrOutOfBounds)
	_, err = b.At(-1, 0)
	s.ErrorIs(err, model.ErrOutOfBounds)
}

func (s *BoardSuite) TestBoardFromMovesReportsBadMove() {
	_, err := model.BoardFromMoves([]int{1, 1, 1, 1, 1, 1, 1})
	s.ErrorIs(err, model.ErrInvalidColumn)
}

func (s *BoardSuite) TestCloneIsIndependent() {
	original := s.mustBoard(3, 4)
	clone := original.Clone()
	clone.Apply(3)

	s.Equal(2, original.MoveCount())
	s.Equal(1, original.ColumnHeight(3))
	s.Equal(model.Red, original.ToPlay())
	s.Equal(3, clone.MoveCount())
	s.Equal(2, clone.ColumnHeight(3))
}

func (s *BoardSuite) TestBoardIsFunctionOfHistory() {
	b := s.mustBoard(3, 2, 3, 4, 1, 1, 0)
	replayed := s.mustBoard(b.History()...)

	s.Equal(b.Cells(), replayed.Cells())
	s.Equal(b.ToPlay(), replayed.ToPlay())
	s.Equal(b.String(), replayed.String())
}

func (s *BoardSuite) TestString() {
	b := s.mustBoard(0, 1)
	lines := []string{
		"| || || || || || || |",
		"| || || || || || || |",
		"| || || || || || || |",
		"| || || || || || || |",
		"| || || || || || || |",
		"|X||O|| || || || || |",
		" 0  1  2  3  4  5  6 ",
	}
	want := ""
	for i, line := range lines {
		if i > 0 {
			want += "\n"
		}
		want += line
	}
	s.Equal(want, b.String())
}

// Win detector tests

func (s *BoardSuite) assertWinsOnlyAtEnd(moves []int, winner model.Player) {
	b := model.NewBoard()
	for i, m := range moves {
		s.Require().NoError(b.Play(m))
		w, ok := b.CheckWinner()
		if i < len(moves)-1 {
			s.False(ok, "unexpected winner after move %d", i+1)
			continue
		}
		s.True(ok, "expected a winner after the final move")
		s.Equal(winner, w)
		s.True(b.Over())
	}
}

func (s *BoardSuite) TestVerticalWin() {
	s.assertWinsOnlyAtEnd([]int{0, 1, 0, 1, 0, 1, 0}, model.Red)
}

func (s *BoardSuite) TestHorizontalWin() {
	s.assertWinsOnlyAtEnd([]int{0, 0, 1, 1, 2, 2, 3}, model.Red)
}

func (s *BoardSuite) TestDiagonalUpRightWin() {
	s.assertWinsOnlyAtEnd([]int{0, 1, 1, 2, 2, 3, 2, 3, 3, 6, 3}, model.Red)
}

func (s *BoardSuite) TestDiagonalDownRightWin() {
	s.assertWinsOnlyAtEnd([]int{6, 5, 5, 4, 4, 3, 4, 3, 3, 0, 3}, model.Red)
}

func (s *BoardSuite) TestYellowWin() {
	s.assertWinsOnlyAtEnd([]int{0, 1, 2, 1, 2, 1, 2, 1}, model.Yellow)
}

func (s *BoardSuite) TestWinDetectedMidLine() {
	// the completing token lands between existing runs
	s.assertWinsOnlyAtEnd([]int{0, 0, 1, 1, 3, 3, 2}, model.Red)
}

func (s *BoardSuite) TestNoWinnerOnEmptyBoard() {
	b := model.NewBoard()
	_, ok := b.CheckWinner()
	s.False(ok)
	s.Equal(model.InProgress, b.Outcome())
}

func (s *BoardSuite) TestFullBoardDraw() {
	b := model.NewBoard()
	for i, m := range drawSequence {
		s.False(b.CheckFull(), "full before move %d", i+1)
		s.Require().NoError(b.Play(m))
		_, ok := b.CheckWinner()
		s.False(ok, "unexpected winner after move %d", i+1)
	}

	s.True(b.CheckFull())
	s.True(b.Over())
	s.Equal(model.Draw, b.Outcome())
	s.Empty(b.LegalMoves())
}

func (s *BoardSuite) TestOutcome() {
	red := s.mustBoard(0, 1, 0, 1, 0, 1, 0)
	yellow := s.mustBoard(0, 1, 2, 1, 2, 1, 2, 1)
	inProgress := s.mustBoard(0, 1)
	s.Equal(model.RedWins, red.Outcome())
	s.Equal(model.YellowWins, yellow.Outcome())
	s.Equal(model.InProgress, inProgress.Outcome())
}
