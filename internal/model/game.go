package model

import "time"

// GameID uniquely identifies a game
type GameID string

// GameState represents the current phase of a game
type GameState string

const (
	GameStateInProgress GameState = "in_progress"
	GameStateRedWon     GameState = "red_won"
	GameStateYellowWon  GameState = "yellow_won"
	GameStateDraw       GameState = "draw"
	GameStateAbandoned  GameState = "abandoned"
)

// GameSource records where a game was played
type GameSource string

const (
	SourceAPI     GameSource = "api"     // HTTP API, one side may be a bot
	SourceSession GameSource = "session" // paired remote connections
)

// Seat describes who occupies one side of a game
type Seat struct {
	DisplayName string
	BotStrategy string // empty for a human seat
}

// IsBot returns true when the seat is driven by a bot strategy
func (s Seat) IsBot() bool {
	return s.BotStrategy != ""
}

// Game is a persisted connect-four game
type Game struct {
	ID     GameID
	Source GameSource
	State  GameState
	Red    Seat
	Yellow Seat
	Depth  int   // search depth used by minimax seats
	Moves  []int // columns in play order, Red first

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Board replays the move list into a position
func (g *Game) Board() (Board, error) {
	return BoardFromMoves(g.Moves)
}

// ToPlay returns the side whose turn it is
func (g *Game) ToPlay() Player {
	if len(g.Moves)%2 == 0 {
		return Red
	}
	return Yellow
}

// SeatFor returns the seat of the given side
func (g *Game) SeatFor(p Player) Seat {
	seat, _ := Select(p, g.Red, g.Yellow)
	return seat
}

// IsComplete returns true once the game can no longer accept moves
func (g *Game) IsComplete() bool {
	return g.State != GameStateInProgress
}

// Winner returns the winning side, if any
func (g *Game) Winner() (Player, bool) {
	switch g.State {
	case GameStateRedWon:
		return Red, true
	case GameStateYellowWon:
		return Yellow, true
	default:
		return 0, false
	}
}

// StateForOutcome maps a board outcome onto a game state
func StateForOutcome(o Outcome) GameState {
	switch o {
	case RedWins:
		return GameStateRedWon
	case YellowWins:
		return GameStateYellowWon
	case Draw:
		return GameStateDraw
	default:
		return GameStateInProgress
	}
}

// Clone returns a copy that shares no move slice with the original
func (g *Game) Clone() *Game {
	c := *g
	c.Moves = make([]int, len(g.Moves))
	copy(c.Moves, g.Moves)
	return &c
}
