package cli

import (
	"context"
	"fmt"
	"net/url"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mcoot/connectfour/internal/api/response"
	"github.com/mcoot/connectfour/internal/model"
	"github.com/mcoot/connectfour/internal/replay"
)

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Step through, export and recap finished games",
	}

	cmd.AddCommand(newReplayShowCmd())
	cmd.AddCommand(newReplayExportCmd())
	cmd.AddCommand(newReplayRecapCmd())

	return cmd
}

func newReplayShowCmd() *cobra.Command {
	var archive string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Step through a game move by move",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGame(cmd.Context(), model.GameID(args[0]), archive)
			if err != nil {
				return err
			}
			viewer, err := replay.NewViewer(g)
			if err != nil {
				return err
			}

			program := tea.NewProgram(viewer,
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			_, err = program.Run()
			return err
		},
	}

	cmd.Flags().StringVar(&archive, "archive", "", "Read the game from a parquet archive instead of the API")

	return cmd
}

func newReplayExportCmd() *cobra.Command {
	var (
		state string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "export <path>",
		Short: "Write games from the API to a parquet archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var list response.GameList
			if err := client.Get(cmd.Context(), listPath(state, limit), &list); err != nil {
				return err
			}

			games := make([]*model.Game, len(list.Games))
			for i, g := range list.Games {
				games[i] = gameFromResponse(g)
			}
			if err := replay.WriteArchive(args[0], games); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage(fmt.Sprintf("Exported %d games to %s", len(games), args[0]))
			return nil
		},
	}

	cmd.Flags().StringVar(&state, "state", "", "Only games in this state")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of games")

	return cmd
}

func newReplayRecapCmd() *cobra.Command {
	var archive string

	cmd := &cobra.Command{
		Use:   "recap <id> <path>",
		Short: "Write a text recap of a game",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGame(cmd.Context(), model.GameID(args[0]), archive)
			if err != nil {
				return err
			}
			if err := replay.WriteRecap(args[1], g); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage("Recap written to " + args[1])
			return nil
		},
	}

	cmd.Flags().StringVar(&archive, "archive", "", "Read the game from a parquet archive instead of the API")

	return cmd
}

// loadGame fetches a game from the archive when one is given, else the API
func loadGame(ctx context.Context, id model.GameID, archive string) (*model.Game, error) {
	if archive == "" {
		var g response.Game
		if err := client.Get(ctx, "/api/v1/games/"+url.PathEscape(string(id)), &g); err != nil {
			return nil, err
		}
		return gameFromResponse(g), nil
	}

	games, err := replay.ReadArchive(archive)
	if err != nil {
		return nil, err
	}
	for _, g := range games {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, fmt.Errorf("%w: %s not in %s", model.ErrGameNotFound, id, archive)
}
