package cli

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/connectfour/internal/api/response"
	"github.com/mcoot/connectfour/internal/factory"
	"github.com/mcoot/connectfour/internal/replay"
)

type CLISuite struct {
	suite.Suite
	server *httptest.Server
	app    *factory.App
}

func TestCLISuite(t *testing.T) {
	suite.Run(t, new(CLISuite))
}

func (s *CLISuite) SetupTest() {
	app, err := factory.New(factory.Config{Depth: 3})
	s.Require().NoError(err)
	s.app = app
	s.server = httptest.NewServer(app.Router(nil))
}

func (s *CLISuite) TearDownTest() {
	s.server.Close()
}

// run executes the CLI in-process and returns its stdout
func (s *CLISuite) run(args ...string) (string, error) {
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(append([]string{"--server", s.server.URL}, args...))
	err := cmd.ExecuteContext(s.T().Context())
	return out.String(), err
}

func (s *CLISuite) mustRun(args ...string) string {
	out, err := s.run(args...)
	s.Require().NoError(err, out)
	return out
}

func (s *CLISuite) newGame(args ...string) response.MoveResponse {
	out := s.mustRun(append([]string{"-o", "json", "game", "new"}, args...)...)
	var created response.MoveResponse
	s.Require().NoError(json.Unmarshal([]byte(out), &created))
	return created
}

func (s *CLISuite) TestHealth() {
	s.Equal("Status: ok\n", s.mustRun("health"))
}

func (s *CLISuite) TestGameLifecycle() {
	created := s.newGame("--red", "alice", "--yellow", "bob", "--depth", "5")
	id := created.Game.ID
	s.Equal(5, created.Game.Depth)

	out := s.mustRun("game", "move", id, "3")
	s.Contains(out, "Moves: 3\n")
	s.Contains(out, "To play: yellow")
	s.Contains(out, "|X|")

	_, err := s.run("game", "move", id, "3", "--player", "red")
	var apiErr *APIError
	s.Require().ErrorAs(err, &apiErr)
	s.Equal("NOT_YOUR_TURN", apiErr.Code)

	out = s.mustRun("game", "get", id)
	s.Contains(out, "Red: alice\n")
	s.Contains(out, "Yellow: bob\n")

	s.Equal("Game abandoned\n", s.mustRun("game", "abandon", id))

	out = s.mustRun("game", "list", "--state", "abandoned")
	s.Contains(out, id)
	s.Contains(out, "alice vs bob")
}

func (s *CLISuite) TestGameAgainstBot() {
	created := s.newGame("--yellow-bot", "minimax", "--depth", "2")

	out := s.mustRun("game", "move", created.Game.ID, "0")
	s.Contains(out, "Bot (yellow) played column")
	s.Contains(out, "Yellow: Minimax Bot [minimax]")
	s.Contains(out, "To play: red")
}

func (s *CLISuite) TestGameErrors() {
	_, err := s.run("game", "move", "NOPE", "x")
	s.ErrorContains(err, "invalid column")

	_, err = s.run("game", "get", "NOPE")
	s.ErrorContains(err, "GAME_NOT_FOUND")
}

func (s *CLISuite) TestAnalyzeLocally() {
	out := s.mustRun("analyze", "0,0,1,1,2,2", "--depth", "3")
	s.Contains(out, "Best column for red: 3\n")
	s.Contains(out, "(forced win)")
	s.Contains(out, "|X||X||X|")

	out = s.mustRun("analyze", "--depth", "1")
	s.Contains(out, "Best column for red: 3\nScore: 15\n")
}

func (s *CLISuite) TestAnalyzeRemotely() {
	out := s.mustRun("-o", "json", "analyze", "334", "--depth", "2", "--remote")
	var analysis response.Analysis
	s.Require().NoError(json.Unmarshal([]byte(out), &analysis))
	s.Equal("yellow", analysis.ToPlay)
	s.Equal(2, analysis.Depth)
}

func (s *CLISuite) TestAnalyzeRejectsBadMoves() {
	_, err := s.run("analyze", "3,x")
	s.ErrorContains(err, "invalid move")

	_, err = s.run("analyze", "0000000")
	s.ErrorContains(err, "move list does not replay")
}

func (s *CLISuite) TestReplayExportAndRecap() {
	first := s.newGame().Game.ID
	for _, column := range []string{"0", "1", "0", "1", "0", "1", "0"} {
		s.mustRun("game", "move", first, column)
	}
	s.newGame()

	dir := s.T().TempDir()
	archive := filepath.Join(dir, "games.parquet")
	s.Equal("Exported 1 games to "+archive+"\n", s.mustRun("replay", "export", archive, "--state", "red_won"))

	games, err := replay.ReadArchive(archive)
	s.Require().NoError(err)
	s.Require().Len(games, 1)
	s.Equal([]int{0, 1, 0, 1, 0, 1, 0}, games[0].Moves)

	recap := filepath.Join(dir, "recap.txt")
	s.mustRun("replay", "recap", first, recap, "--archive", archive)
	data, err := os.ReadFile(recap)
	s.Require().NoError(err)
	s.Contains(string(data), "Winner : red")

	_, err = s.run("replay", "recap", "MISSING", recap, "--archive", archive)
	s.ErrorContains(err, "game not found")
}

func (s *CLISuite) TestPlayLocalBotAgainstBot() {
	dir := s.T().TempDir()
	s.T().Chdir(dir)

	out := s.mustRun("play", "--ai", "--bot", "random", "--depth", "2", "--addr", "127.0.0.1:0", "--save")
	s.Contains(out, "You are playing with")
	s.Contains(out, "Replay saved to games/game.txt")

	data, err := os.ReadFile(filepath.Join(dir, ReplayDir, "game.txt"))
	s.Require().NoError(err)
	s.True(strings.HasPrefix(string(data), "Red moves (X): "))
}

func (s *CLISuite) TestPlayRejectsUnknownBot() {
	_, err := s.run("play", "--bot", "oracle")
	s.ErrorContains(err, "unknown bot strategy")
}

func TestParseMoves(t *testing.T) {
	cases := map[string][]int{
		"":        nil,
		"334":     {3, 3, 4},
		"3,3,4":   {3, 3, 4},
		" 3, 4 ":  {3, 4},
		"0 6 0 6": {0, 6, 0, 6},
	}
	for in, want := range cases {
		got, err := ParseMoves(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}
