package request

// Seat describes one side of a new game. An empty bot strategy seats a human.
type Seat struct {
	DisplayName string `json:"display_name,omitempty"`
	BotStrategy string `json:"bot_strategy,omitempty"`
}

// CreateGameRequest is the request body for creating a game
type CreateGameRequest struct {
	Red    Seat `json:"red"`
	Yellow Seat `json:"yellow"`
	Depth  int  `json:"depth,omitempty"`
}

// PlayMoveRequest is the request body for playing a move. An empty player
// plays for the side to move.
type PlayMoveRequest struct {
	Player string `json:"player,omitempty"`
	Column int    `json:"column"`
}

// AnalysisRequest is the request body for scoring a position
type AnalysisRequest struct {
	Moves []int `json:"moves"`
	Depth int   `json:"depth,omitempty"`
}
