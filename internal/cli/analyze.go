package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/connectfour/internal/api/request"
	"github.com/mcoot/connectfour/internal/api/response"
	"github.com/mcoot/connectfour/internal/dependencies/clock"
	"github.com/mcoot/connectfour/internal/model"
	"github.com/mcoot/connectfour/internal/services/game"
	"github.com/mcoot/connectfour/internal/services/search"
)

func newAnalyzeCmd() *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "analyze [moves]",
		Short: "Find the best column after a sequence of moves",
		Long: `Find the best column for the side to move after the given moves.

Moves are columns in play order starting with red, either comma separated
("3,3,4") or as a run of digits ("334"). No moves analyses the empty board.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var moves []int
			if len(args) == 1 {
				parsed, err := ParseMoves(args[0])
				if err != nil {
					return err
				}
				moves = parsed
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())

			if remote {
				var result response.Analysis
				req := request.AnalysisRequest{Moves: moves, Depth: cfg.Depth}
				if err := client.Post(cmd.Context(), "/api/v1/analysis", req, &result); err != nil {
					return err
				}
				out.Print(result)
				return nil
			}

			depth, err := game.ResolveDepth(cfg.Depth)
			if err != nil {
				return err
			}
			board, err := model.BoardFromMoves(moves)
			if err != nil {
				return fmt.Errorf("%w: %w", model.ErrInvalidMoves, err)
			}

			engine := search.NewEngine(clock.New(), logger)
			result, err := engine.Search(cmd.Context(), board, depth)
			if err != nil {
				return err
			}

			if cfg.Output != "json" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n", board.String())
			}
			out.Print(response.AnalysisFromResult(result, board.ToPlay()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "Ask the API server instead of searching locally")

	return cmd
}

// ParseMoves reads a move list written as "3,3,4" or "334"
func ParseMoves(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var parts []string
	if strings.ContainsAny(s, ", ") {
		parts = strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	} else {
		parts = strings.Split(s, "")
	}

	moves := make([]int, len(parts))
	for i, p := range parts {
		column, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid move %q: %w", p, err)
		}
		moves[i] = column
	}
	return moves, nil
}
