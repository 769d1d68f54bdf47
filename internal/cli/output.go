package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mcoot/connectfour/internal/api/response"
	"github.com/mcoot/connectfour/internal/model"
	"github.com/mcoot/connectfour/internal/services/search"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Game:
		o.printGame(v)
	case response.MoveResponse:
		o.printMove(v)
	case response.GameList:
		o.printGameList(v)
	case response.Analysis:
		o.printAnalysis(v)
	case response.Health:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		o.printJSON(data)
	}
}

func (o *Output) printGame(g response.Game) {
	fmt.Fprintf(o.w, "Game: %s\n", g.ID)
	fmt.Fprintf(o.w, "State: %s\n", g.State)
	fmt.Fprintf(o.w, "Red: %s\n", seatLabel(g.Red))
	fmt.Fprintf(o.w, "Yellow: %s\n", seatLabel(g.Yellow))
	fmt.Fprintf(o.w, "Depth: %d\n", g.Depth)
	fmt.Fprintf(o.w, "Moves: %s\n", joinColumns(g.Moves))
	if len(g.Board) > 0 {
		fmt.Fprintf(o.w, "\n%s\n\n", strings.Join(g.Board, "\n"))
	}
	switch {
	case g.Winner != "":
		fmt.Fprintf(o.w, "Winner: %s\n", g.Winner)
	case g.ToPlay != "":
		fmt.Fprintf(o.w, "To play: %s\n", g.ToPlay)
	}
}

func (o *Output) printMove(m response.MoveResponse) {
	for _, a := range m.BotActions {
		if a.Column != nil {
			fmt.Fprintf(o.w, "Bot (%s) played column %d\n", a.Player, *a.Column)
		}
	}
	o.printGame(m.Game)
}

func (o *Output) printGameList(l response.GameList) {
	if len(l.Games) == 0 {
		fmt.Fprintln(o.w, "No games")
		return
	}
	for _, g := range l.Games {
		fmt.Fprintf(o.w, "%s  %-11s  %s vs %s  (%d moves)\n",
			g.ID, g.State, g.Red.DisplayName, g.Yellow.DisplayName, len(g.Moves))
	}
}

func (o *Output) printAnalysis(a response.Analysis) {
	fmt.Fprintf(o.w, "Best column for %s: %d\n", a.ToPlay, a.Column)
	fmt.Fprintf(o.w, "Score: %s\n", describeScore(a.Score))
	fmt.Fprintf(o.w, "Depth: %d, nodes: %d, time: %.1fms\n", a.Depth, a.Nodes, a.DurationMS)
}

func seatLabel(s response.Seat) string {
	if s.BotStrategy == "" {
		return s.DisplayName
	}
	return fmt.Sprintf("%s [%s]", s.DisplayName, s.BotStrategy)
}

func joinColumns(moves []int) string {
	if len(moves) == 0 {
		return "-"
	}
	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = fmt.Sprint(m)
	}
	return strings.Join(parts, ",")
}

// describeScore flags scores that only a decided game can reach
func describeScore(score int) string {
	switch {
	case score >= search.WinScore:
		return fmt.Sprintf("%d (forced win)", score)
	case score <= -search.WinScore:
		return fmt.Sprintf("%d (forced loss)", score)
	default:
		return fmt.Sprint(score)
	}
}

// gameFromResponse rebuilds a model game from an API response
func gameFromResponse(g response.Game) *model.Game {
	return &model.Game{
		ID:        model.GameID(g.ID),
		Source:    model.GameSource(g.Source),
		State:     model.GameState(g.State),
		Red:       model.Seat{DisplayName: g.Red.DisplayName, BotStrategy: g.Red.BotStrategy},
		Yellow:    model.Seat{DisplayName: g.Yellow.DisplayName, BotStrategy: g.Yellow.BotStrategy},
		Depth:     g.Depth,
		Moves:     g.Moves,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}
