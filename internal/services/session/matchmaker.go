package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mcoot/connectfour/internal/dependencies/clock"
	"github.com/mcoot/connectfour/internal/model"
	"github.com/mcoot/connectfour/internal/protocol"
)

// Recorder receives every game a session finishes or abandons
type Recorder interface {
	Record(ctx context.Context, game *model.Game) error
}

// RecorderFunc adapts a function to the Recorder interface
type RecorderFunc func(ctx context.Context, game *model.Game) error

func (f RecorderFunc) Record(ctx context.Context, game *model.Game) error {
	return f(ctx, game)
}

// Matchmaker pairs connections in arrival order. The first of each pair
// plays red.
type Matchmaker struct {
	mu       sync.Mutex
	waiting  protocol.Transport
	wg       sync.WaitGroup
	cfg      Config
	recorder Recorder
	clock    clock.Clock
	logger   *slog.Logger
	// base is handed to sessions, which tag their own component
	base *slog.Logger
}

// NewMatchmaker creates a Matchmaker; recorder may be nil
func NewMatchmaker(cfg Config, recorder Recorder, clk clock.Clock, logger *slog.Logger) *Matchmaker {
	return &Matchmaker{
		cfg:      cfg,
		recorder: recorder,
		clock:    clk,
		logger:   logger.With(slog.String("component", "matchmaker")),
		base:     logger,
	}
}

// Enqueue adds a connection to the queue. When it completes a pair the game
// starts on its own goroutine and runs until it ends or ctx is cancelled.
func (m *Matchmaker) Enqueue(ctx context.Context, t protocol.Transport) {
	m.mu.Lock()
	if m.waiting == nil {
		m.waiting = t
		m.mu.Unlock()
		m.logger.Info("participant waiting", slog.String("remote", t.RemoteAddr()))
		return
	}
	red := m.waiting
	m.waiting = nil
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.runSession(ctx, red, t)
	}()
}

// Waiting reports whether a connection is queued without an opponent
func (m *Matchmaker) Waiting() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.waiting != nil
}

// Shutdown closes any queued connection and waits for running sessions
func (m *Matchmaker) Shutdown() {
	m.mu.Lock()
	if m.waiting != nil {
		_ = m.waiting.Close()
		m.waiting = nil
	}
	m.mu.Unlock()
	m.wg.Wait()
}

func (m *Matchmaker) runSession(ctx context.Context, red, yellow protocol.Transport) {
	defer red.Close()
	defer yellow.Close()

	game, err := New(red, yellow, m.cfg, m.clock, m.base).Run(ctx)
	if err != nil {
		m.logger.Warn("session ended early", slog.String("error", err.Error()))
	}
	if m.recorder == nil || game == nil {
		return
	}
	// recording outlives a cancelled server context
	if err := m.recorder.Record(context.WithoutCancel(ctx), game); err != nil {
		m.logger.Error("failed to record game", slog.String("error", err.Error()))
	}
}
