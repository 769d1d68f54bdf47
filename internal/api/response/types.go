package response

import (
	"strings"
	"time"

	"github.com/mcoot/connectfour/internal/model"
	"github.com/mcoot/connectfour/internal/services/bot"
	"github.com/mcoot/connectfour/internal/services/search"
)

// Seat represents one side of a game in API responses
type Seat struct {
	DisplayName string `json:"display_name"`
	BotStrategy string `json:"bot_strategy,omitempty"`
}

// SeatFromModel converts a model.Seat
func SeatFromModel(s model.Seat) Seat {
	return Seat{
		DisplayName: s.DisplayName,
		BotStrategy: s.BotStrategy,
	}
}

// Game represents a game in API responses
type Game struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	State      string    `json:"state"`
	Red        Seat      `json:"red"`
	Yellow     Seat      `json:"yellow"`
	Depth      int       `json:"depth"`
	Moves      []int     `json:"moves"`
	ToPlay     string    `json:"to_play,omitempty"`
	Winner     string    `json:"winner,omitempty"`
	LegalMoves []int     `json:"legal_moves,omitempty"`
	Board      []string  `json:"board"` // rows, top row first
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// GameFromModel converts a model.Game; the stored moves always replay
func GameFromModel(g *model.Game) Game {
	moves := g.Moves
	if moves == nil {
		moves = []int{}
	}
	resp := Game{
		ID:        string(g.ID),
		Source:    string(g.Source),
		State:     string(g.State),
		Red:       SeatFromModel(g.Red),
		Yellow:    SeatFromModel(g.Yellow),
		Depth:     g.Depth,
		Moves:     moves,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
	if b, err := g.Board(); err == nil {
		resp.Board = strings.Split(b.String(), "\n")
		if !g.IsComplete() {
			resp.ToPlay = g.ToPlay().String()
			resp.LegalMoves = b.LegalMoves()
		}
	}
	if winner, ok := g.Winner(); ok {
		resp.Winner = winner.String()
	}
	return resp
}

// GameList is the response for listing games
type GameList struct {
	Games []Game `json:"games"`
}

// GameListFromModel converts a slice of games
func GameListFromModel(games []*model.Game) GameList {
	list := GameList{Games: make([]Game, len(games))}
	for i, g := range games {
		list.Games[i] = GameFromModel(g)
	}
	return list
}

// BotAction represents a move made by a bot seat
type BotAction struct {
	Type   string `json:"type"`
	Player string `json:"player,omitempty"`
	Column *int   `json:"column,omitempty"`
	State  string `json:"state"`
}

// BotActionFromService converts a bot.BotAction
func BotActionFromService(a bot.BotAction) BotAction {
	resp := BotAction{
		Type:  string(a.Type),
		State: string(a.State),
	}
	if a.Type == bot.ActionPlay {
		column := a.Column
		resp.Player = a.Player.String()
		resp.Column = &column
	}
	return resp
}

// MoveResponse is the response for playing a move or creating a game,
// including any replies made by bot seats
type MoveResponse struct {
	Game       Game        `json:"game"`
	BotActions []BotAction `json:"bot_actions"`
}

// NewMoveResponse builds a MoveResponse
func NewMoveResponse(g *model.Game, actions []bot.BotAction) MoveResponse {
	resp := MoveResponse{
		Game:       GameFromModel(g),
		BotActions: make([]BotAction, len(actions)),
	}
	for i, a := range actions {
		resp.BotActions[i] = BotActionFromService(a)
	}
	return resp
}

// Analysis is the response for scoring a position
type Analysis struct {
	Column     int     `json:"column"`
	Score      int     `json:"score"`
	Depth      int     `json:"depth"`
	ToPlay     string  `json:"to_play"`
	Nodes      int64   `json:"nodes"`
	DurationMS float64 `json:"duration_ms"`
}

// AnalysisFromResult converts a search.Result for the side to move
func AnalysisFromResult(r search.Result, toPlay model.Player) Analysis {
	return Analysis{
		Column:     r.Column,
		Score:      r.Score,
		Depth:      r.Depth,
		ToPlay:     toPlay.String(),
		Nodes:      r.Nodes,
		DurationMS: float64(r.Duration.Microseconds()) / 1000,
	}
}

// Health is the response for the health check
type Health struct {
	Status string `json:"status"`
}
