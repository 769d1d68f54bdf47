package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mcoot/connectfour/internal/model"
	"github.com/mcoot/connectfour/internal/protocol"
	"github.com/mcoot/connectfour/internal/services/bot"
)

// MoveSource decides the participant's column when the server asks
type MoveSource interface {
	NextMove(ctx context.Context, board model.Board) (int, error)
}

// StrategySource lets a bot strategy play as a remote participant
type StrategySource struct {
	Strategy bot.Strategy
}

func (s StrategySource) NextMove(ctx context.Context, board model.Board) (int, error) {
	return s.Strategy.ChooseColumn(ctx, board)
}

// PromptSource asks a human for a column on a line-oriented terminal
type PromptSource struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewPromptSource reads answers from in and writes prompts to out
func NewPromptSource(in io.Reader, out io.Writer) *PromptSource {
	return &PromptSource{in: bufio.NewScanner(in), out: out}
}

// NextMove prompts until a number is entered. Range checks are left to the
// server, which answers out-of-range columns with InvalidAction.
func (p *PromptSource) NextMove(ctx context.Context, board model.Board) (int, error) {
	for {
		fmt.Fprintln(p.out, "\nPlease input your move:")
		if !p.in.Scan() {
			if err := p.in.Err(); err != nil {
				return 0, err
			}
			return 0, io.EOF
		}
		column, err := strconv.Atoi(strings.TrimSpace(p.in.Text()))
		if err != nil || column < 0 {
			continue
		}
		return column, nil
	}
}

// ClientResult is a participant's view of a finished game
type ClientResult struct {
	Color  model.Player
	Result protocol.Kind // KindWin, KindLose or KindDraw
	Board  model.Board
}

// Game converts the participant's view into a game record. A result the
// board does not explain means a side forfeited, recorded as abandoned.
func (r ClientResult) Game() *model.Game {
	state := model.StateForOutcome(r.Board.Outcome())
	if state == model.GameStateInProgress {
		state = model.GameStateAbandoned
	}
	you, opponent := model.Seat{DisplayName: "you"}, model.Seat{DisplayName: "opponent"}
	red, yellow := model.Select(r.Color, you, opponent)
	return &model.Game{
		Source: model.SourceSession,
		State:  state,
		Red:    red,
		Yellow: yellow,
		Moves:  r.Board.History(),
	}
}

// Client plays one game against a match server
type Client struct {
	source MoveSource
	out    io.Writer
	logger *slog.Logger
}

// NewClient creates a client; out receives the running commentary and may be nil
func NewClient(source MoveSource, out io.Writer, logger *slog.Logger) *Client {
	if out == nil {
		out = io.Discard
	}
	return &Client{
		source: source,
		out:    out,
		logger: logger.With(slog.String("component", "client")),
	}
}

// Play follows the server's lead until the game ends. The client keeps its
// own copy of the board from the ValidAction broadcasts.
func (c *Client) Play(ctx context.Context, t protocol.Transport) (ClientResult, error) {
	hello, err := t.Receive()
	if err != nil {
		return ClientResult{}, err
	}
	if hello.Kind != protocol.KindHello {
		return ClientResult{}, fmt.Errorf("%w: %s before hello", ErrUnexpectedMessage, hello)
	}

	result := ClientResult{Color: hello.Player, Board: model.NewBoard()}
	fmt.Fprintf(c.out,
		"You are playing with %s (symbol: %c).\nColumns are numbered from 0 to %d inclusive, starting from the left.\n\n%s\n\n",
		result.Color, result.Color.Cell().Rune(), model.Width-1, result.Board.String(),
	)

	for {
		m, err := t.Receive()
		if err != nil {
			return result, err
		}

		switch m.Kind {
		case protocol.KindPlay:
			column, err := c.source.NextMove(ctx, result.Board.Clone())
			if err != nil {
				return result, err
			}
			if err := t.Send(protocol.Action(column)); err != nil {
				return result, err
			}
		case protocol.KindInvalidAction:
			fmt.Fprintln(c.out, "\nInvalid action.")
		case protocol.KindValidAction:
			if err := result.Board.Play(m.Column); err != nil {
				return result, fmt.Errorf("%w: column %d: %w", ErrProtocolViolation, m.Column, err)
			}
			fmt.Fprintf(c.out, "\n%s\n\nA token has been placed in column %d.\n", result.Board.String(), m.Column)
		case protocol.KindWin, protocol.KindLose, protocol.KindDraw:
			result.Result = m.Kind
			fmt.Fprintln(c.out, resultLine(m.Kind))
			c.logger.Debug("game over",
				slog.String("color", result.Color.String()),
				slog.String("result", m.Kind.String()),
				slog.Int("moves", result.Board.MoveCount()),
			)
			return result, nil
		default:
			return result, fmt.Errorf("%w: %s", ErrUnexpectedMessage, m)
		}
	}
}

func resultLine(k protocol.Kind) string {
	switch k {
	case protocol.KindWin:
		return "Congratulations, you won the game!"
	case protocol.KindLose:
		return "You lost the game."
	default:
		return "The game ended in a draw."
	}
}
