package session

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/mcoot/connectfour/internal/protocol"
)

// ServerConfig holds the match server settings
type ServerConfig struct {
	Addr string
}

// DefaultServerConfig returns sensible defaults for the match server
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr: "127.0.0.1:50001",
	}
}

// Server accepts participants over TCP and websockets and hands them to
// a shared matchmaker
type Server struct {
	cfg        ServerConfig
	matchmaker *Matchmaker
	logger     *slog.Logger
	ctx        context.Context
}

// NewServer creates a match server. ctx bounds the lifetime of websocket
// sessions started through HandleWebSocket.
func NewServer(ctx context.Context, cfg ServerConfig, matchmaker *Matchmaker, logger *slog.Logger) *Server {
	return &Server{
		cfg:        cfg,
		matchmaker: matchmaker,
		logger:     logger.With(slog.String("component", "match-server")),
		ctx:        ctx,
	}
}

// ListenAndServe listens on the configured address until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections from ln until ctx is cancelled, then closes the
// listener, drops any unpaired participant and waits for running sessions
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("match server listening", slog.String("addr", ln.Addr().String()))

	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()
	defer s.matchmaker.Shutdown()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.logger.Warn("accept failed", slog.String("error", err.Error()))
			continue
		}
		s.logger.Debug("participant connected", slog.String("remote", conn.RemoteAddr().String()))
		s.matchmaker.Enqueue(ctx, protocol.NewConn(conn))
	}
}

// HandleWebSocket upgrades the request and queues the participant
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := protocol.Upgrade(w, r)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	go conn.KeepAlive(protocol.PingInterval)
	s.logger.Debug("participant connected", slog.String("remote", conn.RemoteAddr()), slog.String("transport", "websocket"))
	s.matchmaker.Enqueue(s.ctx, conn)
}
