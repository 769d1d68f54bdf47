package replay

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/mcoot/connectfour/internal/model"
)

// RecapWriter saves a text recap of each recorded game into a directory
type RecapWriter struct {
	dir    string
	logger *slog.Logger
}

// NewRecapWriter creates a RecapWriter for dir
func NewRecapWriter(dir string, logger *slog.Logger) *RecapWriter {
	return &RecapWriter{
		dir:    dir,
		logger: logger.With(slog.String("component", "recap-writer")),
	}
}

// Path returns where the recap of a game is written
func (w *RecapWriter) Path(id model.GameID) string {
	return filepath.Join(w.dir, string(id)+".txt")
}

// Record writes the recap for game
func (w *RecapWriter) Record(ctx context.Context, game *model.Game) error {
	path := w.Path(game.ID)
	if err := WriteRecap(path, game); err != nil {
		return err
	}
	w.logger.Info("recap written", slog.String("game_id", string(game.ID)), slog.String("path", path))
	return nil
}
