package replay

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"github.com/mcoot/connectfour/internal/model"
)

// ArchiveSchema is stored in the file metadata under the "schema" key
const ArchiveSchema = "connectfour_game_v1"

// ErrNotAnArchive is returned for parquet files that WriteArchive did not produce
var ErrNotAnArchive = errors.New("not a game archive")

// GameRow is one archived game
type GameRow struct {
	GameID string `parquet:"game_id"`
	Source string `parquet:"source,dict"`
	State  string `parquet:"state,dict"`

	RedName        string `parquet:"red_name,dict"`
	RedStrategy    string `parquet:"red_strategy,dict"`
	YellowName     string `parquet:"yellow_name,dict"`
	YellowStrategy string `parquet:"yellow_strategy,dict"`

	Depth int32   `parquet:"depth"`
	Moves []int32 `parquet:"moves"`

	CreatedAtMillis int64 `parquet:"created_at_ms"`
	UpdatedAtMillis int64 `parquet:"updated_at_ms"`
}

// RowFromGame flattens a game into an archive row
func RowFromGame(game *model.Game) GameRow {
	moves := make([]int32, len(game.Moves))
	for i, m := range game.Moves {
		moves[i] = int32(m)
	}
	return GameRow{
		GameID:          string(game.ID),
		Source:          string(game.Source),
		State:           string(game.State),
		RedName:         game.Red.DisplayName,
		RedStrategy:     game.Red.BotStrategy,
		YellowName:      game.Yellow.DisplayName,
		YellowStrategy:  game.Yellow.BotStrategy,
		Depth:           int32(game.Depth),
		Moves:           moves,
		CreatedAtMillis: game.CreatedAt.UnixMilli(),
		UpdatedAtMillis: game.UpdatedAt.UnixMilli(),
	}
}

// Game rebuilds the game, checking that its moves still replay
func (r GameRow) Game() (*model.Game, error) {
	moves := make([]int, len(r.Moves))
	for i, m := range r.Moves {
		moves[i] = int(m)
	}
	if _, err := model.BoardFromMoves(moves); err != nil {
		return nil, fmt.Errorf("game %s: %w: %w", r.GameID, model.ErrInvalidMoves, err)
	}
	return &model.Game{
		ID:        model.GameID(r.GameID),
		Source:    model.GameSource(r.Source),
		State:     model.GameState(r.State),
		Red:       model.Seat{DisplayName: r.RedName, BotStrategy: r.RedStrategy},
		Yellow:    model.Seat{DisplayName: r.YellowName, BotStrategy: r.YellowStrategy},
		Depth:     int(r.Depth),
		Moves:     moves,
		CreatedAt: time.UnixMilli(r.CreatedAtMillis).UTC(),
		UpdatedAt: time.UnixMilli(r.UpdatedAtMillis).UTC(),
	}, nil
}

// WriteArchive writes games to a zstd-compressed parquet file. The file is
// written beside outPath and renamed into place so readers never see a
// partial archive.
func WriteArchive(outPath string, games []*model.Game) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	rows := make([]GameRow, len(games))
	for i, g := range games {
		rows[i] = RowFromGame(g)
	}

	tmpPath := outPath + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", ArchiveSchema),
	); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write parquet: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename parquet: %w", err)
	}
	return nil
}

// ReadArchive loads every game from an archive written by WriteArchive
func ReadArchive(path string) ([]*model.Game, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}
	schema, ok := pf.Lookup("schema")
	if !ok {
		return nil, fmt.Errorf("%w: %s has no schema metadata", ErrNotAnArchive, path)
	}
	if schema != ArchiveSchema {
		return nil, fmt.Errorf("%w: unexpected schema %q", ErrNotAnArchive, schema)
	}

	reader := parquet.NewGenericReader[GameRow](pf)
	defer reader.Close()

	games := make([]*model.Game, 0, int(reader.NumRows()))
	buf := make([]GameRow, 64)
	for {
		n, err := reader.Read(buf)
		for _, row := range buf[:n] {
			g, convErr := row.Game()
			if convErr != nil {
				return nil, convErr
			}
			games = append(games, g)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read parquet: %w", err)
		}
	}
	return games, nil
}
