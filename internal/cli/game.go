package cli

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/connectfour/internal/api/request"
	"github.com/mcoot/connectfour/internal/api/response"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands against the JSON API",
	}

	cmd.AddCommand(newGameNewCmd())
	cmd.AddCommand(newGameGetCmd())
	cmd.AddCommand(newGameMoveCmd())
	cmd.AddCommand(newGameListCmd())
	cmd.AddCommand(newGameAbandonCmd())

	return cmd
}

func newGameNewCmd() *cobra.Command {
	var req request.CreateGameRequest

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a game; either seat may be a bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Depth = cfg.Depth

			var result response.MoveResponse
			if err := client.Post(cmd.Context(), "/api/v1/games", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Red.DisplayName, "red", "", "Red display name")
	cmd.Flags().StringVar(&req.Red.BotStrategy, "red-bot", "", "Bot strategy for red (random, minimax)")
	cmd.Flags().StringVar(&req.Yellow.DisplayName, "yellow", "", "Yellow display name")
	cmd.Flags().StringVar(&req.Yellow.BotStrategy, "yellow-bot", "", "Bot strategy for yellow (random, minimax)")

	return cmd
}

func newGameGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Game

			if err := client.Get(cmd.Context(), "/api/v1/games/"+url.PathEscape(args[0]), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newGameMoveCmd() *cobra.Command {
	var player string

	cmd := &cobra.Command{
		Use:   "move <id> <column>",
		Short: "Drop a token; bot seats reply before this returns",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			column, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid column: %w", err)
			}

			req := request.PlayMoveRequest{Player: player, Column: column}
			var result response.MoveResponse

			path := fmt.Sprintf("/api/v1/games/%s/moves", url.PathEscape(args[0]))
			if err := client.Post(cmd.Context(), path, req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&player, "player", "", "Side to play for (red, yellow); defaults to the side to move")

	return cmd
}

func newGameListCmd() *cobra.Command {
	var (
		state string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List games, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.GameList

			if err := client.Get(cmd.Context(), listPath(state, limit), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&state, "state", "", "Only games in this state")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of games")

	return cmd
}

func listPath(state string, limit int) string {
	query := url.Values{}
	if state != "" {
		query.Set("state", state)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if len(query) == 0 {
		return "/api/v1/games"
	}
	return "/api/v1/games?" + query.Encode()
}

func newGameAbandonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "abandon <id>",
		Short: "Abandon a game in progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Game

			if err := client.Delete(cmd.Context(), "/api/v1/games/"+url.PathEscape(args[0]), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage("Game abandoned")
			return nil
		},
	}
}
