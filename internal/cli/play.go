package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/connectfour/internal/dependencies/clock"
	"github.com/mcoot/connectfour/internal/dependencies/random"
	"github.com/mcoot/connectfour/internal/factory"
	"github.com/mcoot/connectfour/internal/model"
	"github.com/mcoot/connectfour/internal/protocol"
	"github.com/mcoot/connectfour/internal/replay"
	"github.com/mcoot/connectfour/internal/services/bot"
	"github.com/mcoot/connectfour/internal/services/game"
	"github.com/mcoot/connectfour/internal/services/search"
	"github.com/mcoot/connectfour/internal/services/session"
)

// ReplayDir is where play --save writes recaps
const ReplayDir = "games"

type playOptions struct {
	addr     string
	wsURL    string
	local    bool
	strategy string
	save     string
}

func newPlayCmd() *cobra.Command {
	var opts playOptions

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Join a match server and play one game",
		Long: `Join a match server and play one game, typing a column when asked.

With --ai a match server is started locally and the minimax bot joins it as
your opponent; who moves first is decided at random. The game state is kept
by the server, the client only follows it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", cfg.MatchAddr, "Match server TCP address (env: CONNECTFOUR_MATCH_ADDR)")
	cmd.Flags().StringVar(&opts.wsURL, "ws", "", "Join over a websocket URL such as ws://localhost:8080/ws/play")
	cmd.Flags().BoolVar(&opts.local, "ai", false, "Play against the minimax bot on a local server")
	cmd.Flags().StringVar(&opts.strategy, "bot", "", "Let a bot strategy play for you (random, minimax)")
	cmd.Flags().StringVar(&opts.save, "save", "", "Save a recap of the game as "+ReplayDir+"/<name> (--save[=name])")
	cmd.Flags().Lookup("save").NoOptDefVal = "game.txt"

	return cmd
}

func runPlay(cmd *cobra.Command, opts playOptions) error {
	ctx := cmd.Context()
	depth, err := game.ResolveDepth(cfg.Depth)
	if err != nil {
		return err
	}

	source, err := moveSource(cmd, opts.strategy, depth)
	if err != nil {
		return err
	}
	player := session.NewClient(source, cmd.OutOrStdout(), logger)

	var result session.ClientResult
	if opts.local {
		result, err = playLocal(ctx, player, opts.addr, depth)
	} else {
		var conn protocol.Transport
		conn, err = dial(ctx, opts)
		if err != nil {
			return err
		}
		defer conn.Close()
		result, err = player.Play(ctx, conn)
	}
	if err != nil {
		return err
	}

	if opts.save != "" {
		path := filepath.Join(ReplayDir, opts.save)
		if err := replay.WriteRecap(path, result.Game()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Replay saved to %s\n", path)
	}
	return nil
}

func dial(ctx context.Context, opts playOptions) (protocol.Transport, error) {
	if opts.wsURL != "" {
		return protocol.DialWebSocket(ctx, opts.wsURL)
	}
	return protocol.DialTCP(ctx, opts.addr)
}

func moveSource(cmd *cobra.Command, strategy string, depth int) (session.MoveSource, error) {
	switch strategy {
	case "":
		return session.NewPromptSource(cmd.InOrStdin(), cmd.OutOrStdout()), nil
	case model.BotStrategyRandom:
		return session.StrategySource{Strategy: bot.NewRandomStrategy(random.New())}, nil
	case model.BotStrategyMinimax:
		engine := search.NewEngine(clock.New(), logger)
		return session.StrategySource{Strategy: bot.NewMinimaxStrategy(engine, depth)}, nil
	default:
		return nil, fmt.Errorf("%w: %s", model.ErrUnknownStrategy, strategy)
	}
}

// playLocal starts a match server on addr, queues the player and the
// minimax bot in random order and plays the game out
func playLocal(ctx context.Context, player *session.Client, addr string, depth int) (session.ClientResult, error) {
	app, err := factory.New(factory.Config{Logger: logger, Depth: depth})
	if err != nil {
		return session.ClientResult{}, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return session.ClientResult{}, fmt.Errorf("start local server: %w", err)
	}
	srv := app.NewMatchServer(ctx, session.ServerConfig{Addr: addr})
	served := make(chan error, 1)
	go func() { served <- srv.Serve(ctx, ln) }()
	defer func() {
		cancel()
		<-served
	}()

	opponent := session.NewClient(session.StrategySource{Strategy: app.Strategies[model.BotStrategyMinimax]}, nil, logger)
	connect := func() (protocol.Transport, error) {
		return protocol.DialTCP(ctx, ln.Addr().String())
	}

	humanFirst := app.Random.Intn(2) == 0
	first, err := connect()
	if err != nil {
		return session.ClientResult{}, err
	}
	defer first.Close()
	if err := waitQueued(ctx, app.Matchmaker); err != nil {
		return session.ClientResult{}, err
	}
	second, err := connect()
	if err != nil {
		return session.ClientResult{}, err
	}
	defer second.Close()

	mine, theirs := first, second
	if !humanFirst {
		mine, theirs = second, first
	}
	go func() {
		if _, err := opponent.Play(ctx, theirs); err != nil {
			logger.Debug("bot client stopped", slog.String("error", err.Error()))
		}
	}()
	return player.Play(ctx, mine)
}

// waitQueued blocks until the matchmaker holds a waiting connection, so the
// next arrival is paired with it as yellow
func waitQueued(ctx context.Context, mm *session.Matchmaker) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	for !mm.Waiting() {
		select {
		case <-ctx.Done():
			return fmt.Errorf("local server never queued the first player: %w", ctx.Err())
		case <-ticker.C:
		}
	}
	return nil
}
