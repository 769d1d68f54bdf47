package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mcoot/connectfour/internal/dependencies/clock"
	"github.com/mcoot/connectfour/internal/model"
	"github.com/mcoot/connectfour/internal/protocol"
)

var (
	ErrParticipantLeft    = errors.New("participant disconnected")
	ErrTooManyInvalid     = errors.New("too many invalid actions")
	ErrTurnTimeout        = errors.New("turn timed out")
	ErrUnexpectedMessage  = errors.New("unexpected message")
	ErrProtocolViolation  = errors.New("server sent an inconsistent move")
	errSessionInterrupted = errors.New("session interrupted")
)

// Config controls how a session treats slow or misbehaving participants
type Config struct {
	// TurnTimeout bounds the wait for one action; zero waits forever
	TurnTimeout time.Duration
	// MaxInvalidActions is how many rejected actions a side may send before
	// it forfeits; zero allows any number
	MaxInvalidActions int
}

// DefaultConfig returns the settings used by the match server
func DefaultConfig() Config {
	return Config{
		TurnTimeout:       5 * time.Minute,
		MaxInvalidActions: 10,
	}
}

// Session referees one game between two connected participants. The board
// is held only here; participants learn about moves through ValidAction.
type Session struct {
	red     protocol.Transport
	yellow  protocol.Transport
	cfg     Config
	clock   clock.Clock
	logger  *slog.Logger
	board   model.Board
	invalid [2]int
}

// New creates a session; red moves first
func New(red, yellow protocol.Transport, cfg Config, clk clock.Clock, logger *slog.Logger) *Session {
	return &Session{
		red:    red,
		yellow: yellow,
		cfg:    cfg,
		clock:  clk,
		logger: logger.With(
			slog.String("component", "session"),
			slog.String("red", red.RemoteAddr()),
			slog.String("yellow", yellow.RemoteAddr()),
		),
		board: model.NewBoard(),
	}
}

// Run plays the game to the end. The returned game is populated even on
// error: a participant that disconnects or keeps sending invalid actions
// forfeits and the game is marked abandoned.
func (s *Session) Run(ctx context.Context) (*model.Game, error) {
	game := &model.Game{
		Source:    model.SourceSession,
		State:     model.GameStateInProgress,
		Red:       model.Seat{DisplayName: s.red.RemoteAddr()},
		Yellow:    model.Seat{DisplayName: s.yellow.RemoteAddr()},
		CreatedAt: s.clock.Now(),
	}

	// closing both transports unblocks any pending read
	stop := context.AfterFunc(ctx, func() {
		_ = s.red.Close()
		_ = s.yellow.Close()
	})
	defer stop()

	err := s.play(ctx)
	game.Moves = s.board.History()
	game.UpdatedAt = s.clock.Now()

	if err != nil {
		if ctx.Err() != nil {
			err = fmt.Errorf("%w: %w", errSessionInterrupted, ctx.Err())
		}
		game.State = model.GameStateAbandoned
		s.logger.Warn("session abandoned",
			slog.Int("moves", len(game.Moves)),
			slog.String("error", err.Error()),
		)
		return game, err
	}

	outcome := s.board.Outcome()
	game.State = model.StateForOutcome(outcome)
	for _, side := range []model.Player{model.Red, model.Yellow} {
		// the game is decided; a lost notification does not change it
		_ = s.transport(side).Send(protocol.Result(outcome, side))
	}

	s.logger.Info("session finished",
		slog.String("state", string(game.State)),
		slog.Int("moves", len(game.Moves)),
	)
	return game, nil
}

func (s *Session) play(ctx context.Context) error {
	for _, side := range []model.Player{model.Red, model.Yellow} {
		if err := s.transport(side).Send(protocol.Hello(side)); err != nil {
			return s.forfeit(side, fmt.Errorf("%w: %w", ErrParticipantLeft, err))
		}
	}

	for !s.board.Over() {
		if err := ctx.Err(); err != nil {
			return err
		}
		side := s.board.ToPlay()
		column, err := s.requestAction(side)
		if err != nil {
			return s.forfeit(side, err)
		}

		for _, p := range []model.Player{side, side.Other()} {
			if err := s.transport(p).Send(protocol.ValidAction(column)); err != nil {
				return s.forfeit(p, fmt.Errorf("%w: %w", ErrParticipantLeft, err))
			}
		}
		s.board.Apply(column)
	}
	return nil
}

// requestAction asks side to move until it sends a legal column
func (s *Session) requestAction(side model.Player) (int, error) {
	t := s.transport(side)
	for {
		if err := t.Send(protocol.Play()); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrParticipantLeft, err)
		}
		m, err := s.receiveTurn(t)
		if err != nil && !errors.Is(err, protocol.ErrUnknownMessage) {
			return 0, err
		}
		if err == nil && m.Kind == protocol.KindAction && s.board.ValidAction(m.Column) {
			return m.Column, nil
		}

		s.invalid[side-1]++
		s.logger.Debug("invalid action",
			slog.String("player", side.String()),
			slog.String("message", m.String()),
		)
		if s.cfg.MaxInvalidActions > 0 && s.invalid[side-1] > s.cfg.MaxInvalidActions {
			return 0, ErrTooManyInvalid
		}
		if err := t.Send(protocol.InvalidAction()); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrParticipantLeft, err)
		}
	}
}

// receiveTurn reads one message, giving up once TurnTimeout has passed on
// the session clock
func (s *Session) receiveTurn(t protocol.Transport) (protocol.Message, error) {
	if s.cfg.TurnTimeout <= 0 {
		return receive(t)
	}

	expired := s.clock.After(s.cfg.TurnTimeout)
	done := make(chan struct{})
	fired := make(chan bool, 1)
	go func() {
		select {
		case <-expired:
			// a deadline in the past fails the pending read at once
			_ = t.SetReadDeadline(time.Unix(1, 0))
			fired <- true
		case <-done:
			fired <- false
		}
	}()

	m, err := receive(t)
	close(done)
	if !<-fired {
		return m, err
	}
	if errors.Is(err, ErrParticipantLeft) {
		return m, ErrTurnTimeout
	}
	// the message beat the timer; clear the deadline for the next read
	if clearErr := t.SetReadDeadline(time.Time{}); clearErr != nil {
		return m, fmt.Errorf("%w: %w", ErrParticipantLeft, clearErr)
	}
	return m, err
}

func receive(t protocol.Transport) (protocol.Message, error) {
	m, err := t.Receive()
	if err != nil && !errors.Is(err, protocol.ErrUnknownMessage) {
		return m, fmt.Errorf("%w: %w", ErrParticipantLeft, err)
	}
	return m, err
}

// forfeit tells the opponent of side that it has won by default
func (s *Session) forfeit(side model.Player, cause error) error {
	_ = s.transport(side.Other()).Send(protocol.Win())
	return fmt.Errorf("%s forfeits: %w", side, cause)
}

func (s *Session) transport(p model.Player) protocol.Transport {
	t, _ := model.Select(p, s.red, s.yellow)
	return t
}
