package replay

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mcoot/connectfour/internal/model"
)

// Viewer is a terminal model that steps through a game one ply at a time
type Viewer struct {
	game   *model.Game
	boards []model.Board // boards[i] is the position after i plies
	ply    int
}

// NewViewer prepares every position of the game up front, starting at the
// final one
func NewViewer(game *model.Game) (Viewer, error) {
	boards := make([]model.Board, 0, len(game.Moves)+1)
	b := model.NewBoard()
	boards = append(boards, b.Clone())
	for i, column := range game.Moves {
		if err := b.Play(column); err != nil {
			return Viewer{}, fmt.Errorf("move %d (column %d): %w", i+1, column, err)
		}
		boards = append(boards, b.Clone())
	}
	return Viewer{game: game, boards: boards, ply: len(game.Moves)}, nil
}

// Ply returns the number of moves shown
func (v Viewer) Ply() int {
	return v.ply
}

// Board returns the position currently shown
func (v Viewer) Board() model.Board {
	return v.boards[v.ply]
}

func (v Viewer) Init() tea.Cmd {
	return nil
}

func (v Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return v, tea.Quit
	case "left", "h":
		if v.ply > 0 {
			v.ply--
		}
	case "right", "l", " ":
		if v.ply < len(v.boards)-1 {
			v.ply++
		}
	case "home", "g":
		v.ply = 0
	case "end", "G":
		v.ply = len(v.boards) - 1
	}
	return v, nil
}

func (v Viewer) View() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Game %s: %s (X) vs %s (O)\n\n", v.game.ID, v.game.Red.DisplayName, v.game.Yellow.DisplayName)
	board := v.boards[v.ply]
	sb.WriteString(board.String())
	sb.WriteString("\n\n")

	if v.ply == 0 {
		fmt.Fprintf(&sb, "Move 0/%d\n", len(v.boards)-1)
	} else {
		last, _ := board.LastMove()
		fmt.Fprintf(&sb, "Move %d/%d: %s played column %d\n",
			v.ply, len(v.boards)-1, board.ToPlay().Other(), last.Column)
	}
	if v.ply == len(v.boards)-1 {
		sb.WriteString(resultLine(v.game))
		sb.WriteString("\n")
	}

	sb.WriteString("\n←/→ step, home/end jump, q quit\n")
	return sb.String()
}
