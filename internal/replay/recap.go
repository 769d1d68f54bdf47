package replay

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mcoot/connectfour/internal/model"
)

// FormatRecap renders a game as plain text: each side's columns in play
// order, the result and the final board
func FormatRecap(game *model.Game) (string, error) {
	board, err := game.Board()
	if err != nil {
		return "", fmt.Errorf("replay game %s: %w", game.ID, err)
	}

	var red, yellow strings.Builder
	for i, column := range game.Moves {
		buf := &red
		if i%2 == 1 {
			buf = &yellow
		}
		fmt.Fprintf(buf, "%d;", column)
	}

	return fmt.Sprintf("Red moves (%c): %s \nYellow moves (%c): %s\n%s\n\nFinal board :\n%s",
		model.RedCell.Rune(), red.String(),
		model.YellowCell.Rune(), yellow.String(),
		resultLine(game), board.String(),
	), nil
}

func resultLine(game *model.Game) string {
	if winner, ok := game.Winner(); ok {
		return "Winner : " + winner.String()
	}
	switch game.State {
	case model.GameStateDraw:
		return "Draw"
	case model.GameStateAbandoned:
		return "Abandoned"
	default:
		return "Not finished"
	}
}

// WriteRecap writes the recap of a game to path, creating parent directories
func WriteRecap(path string, game *model.Game) error {
	text, err := FormatRecap(game)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create recap dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write recap: %w", err)
	}
	return nil
}
