package session_test

import (
	"context"
	"net"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/connectfour/internal/dependencies/mocks"
	"github.com/mcoot/connectfour/internal/model"
	"github.com/mcoot/connectfour/internal/protocol"
	"github.com/mcoot/connectfour/internal/services/session"
	"github.com/mcoot/connectfour/internal/testutil"
)

// recorded collects games handed to a recorder
type recorded struct {
	mu    sync.Mutex
	games []*model.Game
	ch    chan *model.Game
}

func newRecorded() *recorded {
	return &recorded{ch: make(chan *model.Game, 4)}
}

func (r *recorded) Record(ctx context.Context, game *model.Game) error {
	r.mu.Lock()
	r.games = append(r.games, game)
	r.mu.Unlock()
	r.ch <- game
	return nil
}

func (r *recorded) next(t *testing.T) *model.Game {
	t.Helper()
	select {
	case g := <-r.ch:
		return g
	case <-time.After(5 * time.Second):
		t.Fatal("no game recorded")
		return nil
	}
}

func newMatchmaker(rec session.Recorder) *session.Matchmaker {
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	return session.NewMatchmaker(session.DefaultConfig(), rec, clk, testutil.NopLogger())
}

func playClient(t *testing.T, tr protocol.Transport, moves ...int) <-chan session.ClientResult {
	t.Helper()
	done := make(chan session.ClientResult, 1)
	go func() {
		c := session.NewClient(session.StrategySource{Strategy: script(moves...)}, nil, testutil.NopLogger())
		result, err := c.Play(context.Background(), tr)
		assert.NoError(t, err)
		done <- result
	}()
	return done
}

func TestMatchmakerPairsInArrivalOrder(t *testing.T) {
	rec := newRecorded()
	mm := newMatchmaker(rec)
	ctx := context.Background()

	firstServer, firstClient := net.Pipe()
	secondServer, secondClient := net.Pipe()

	first := playClient(t, protocol.NewConn(firstClient), 0, 0, 0, 0)
	second := playClient(t, protocol.NewConn(secondClient), 1, 1, 1)

	mm.Enqueue(ctx, protocol.NewConn(firstServer))
	assert.True(t, mm.Waiting())
	mm.Enqueue(ctx, protocol.NewConn(secondServer))
	assert.False(t, mm.Waiting())

	game := rec.next(t)
	assert.Equal(t, model.GameStateRedWon, game.State)
	assert.Equal(t, model.Red, (<-first).Color)
	assert.Equal(t, protocol.KindLose, (<-second).Result)

	mm.Shutdown()
}

func TestMatchmakerShutdownClosesWaiting(t *testing.T) {
	mm := newMatchmaker(nil)
	server, client := net.Pipe()
	defer client.Close()

	mm.Enqueue(context.Background(), protocol.NewConn(server))
	mm.Shutdown()
	assert.False(t, mm.Waiting())

	_, err := protocol.NewConn(client).Receive()
	assert.ErrorIs(t, err, protocol.ErrClosed)
}

func TestServerOverTCP(t *testing.T) {
	rec := newRecorded()
	ctx, cancel := context.WithCancel(context.Background())
	srv := session.NewServer(ctx, session.DefaultServerConfig(), newMatchmaker(rec), testutil.NopLogger())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	served := make(chan error, 1)
	go func() { served <- srv.Serve(ctx, ln) }()

	redConn, err := protocol.DialTCP(ctx, ln.Addr().String())
	require.NoError(t, err)
	defer redConn.Close()
	red := playClient(t, redConn, 3, 3, 3, 3)

	// make sure red is queued first
	time.Sleep(50 * time.Millisecond)

	yellowConn, err := protocol.DialTCP(ctx, ln.Addr().String())
	require.NoError(t, err)
	defer yellowConn.Close()
	yellow := playClient(t, yellowConn, 4, 4, 4)

	assert.Equal(t, protocol.KindWin, (<-red).Result)
	assert.Equal(t, protocol.KindLose, (<-yellow).Result)
	game := rec.next(t)
	assert.Equal(t, []int{3, 4, 3, 4, 3, 4, 3}, game.Moves)

	cancel()
	select {
	case err := <-served:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServerOverWebSocket(t *testing.T) {
	rec := newRecorded()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	srv := session.NewServer(ctx, session.DefaultServerConfig(), newMatchmaker(rec), testutil.NopLogger())

	httpSrv := httptest.NewServer(httpHandler(srv))
	defer httpSrv.Close()
	url := "ws" + strings.TrimPrefix(httpSrv.URL, "http")

	redConn, err := protocol.DialWebSocket(ctx, url)
	require.NoError(t, err)
	defer redConn.Close()
	red := playClient(t, redConn, 2, 2, 2, 2)

	time.Sleep(50 * time.Millisecond)

	yellowConn, err := protocol.DialWebSocket(ctx, url)
	require.NoError(t, err)
	defer yellowConn.Close()
	yellow := playClient(t, yellowConn, 5, 5, 5)

	assert.Equal(t, protocol.KindWin, (<-red).Result)
	assert.Equal(t, protocol.KindLose, (<-yellow).Result)
	assert.Equal(t, model.GameStateRedWon, rec.next(t).State)
}

func TestClientResultGame(t *testing.T) {
	won, err := model.BoardFromMoves([]int{0, 1, 0, 1, 0, 1, 0})
	require.NoError(t, err)

	game := session.ClientResult{Color: model.Yellow, Board: won}.Game()
	assert.Equal(t, model.GameStateRedWon, game.State)
	assert.Equal(t, model.SourceSession, game.Source)
	assert.Equal(t, "opponent", game.Red.DisplayName)
	assert.Equal(t, "you", game.Yellow.DisplayName)
	assert.Equal(t, []int{0, 1, 0, 1, 0, 1, 0}, game.Moves)

	// the opponent left mid-game
	partial, err := model.BoardFromMoves([]int{3, 3})
	require.NoError(t, err)
	game = session.ClientResult{Color: model.Red, Board: partial}.Game()
	assert.Equal(t, model.GameStateAbandoned, game.State)
	assert.Equal(t, "you", game.Red.DisplayName)
}
