package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mcoot/crosswordrobot/internal/api"
	"github.com/mcoot/crosswordrobot/internal/api/response"
	"github.com/mcoot/crosswordrobot/internal/factory"
	"github.com/mcoot/crosswordrobot/internal/services/game"
)

func TestParseSeat(t *testing.T) {
	assert.Equal(t, game.PlayerSpec{DisplayName: "Alice"}, parseSeat("Alice"))
	assert.Equal(t, game.PlayerSpec{Bot: true}, parseSeat("bot"))
	assert.Equal(t, game.PlayerSpec{Bot: true, Strategy: "weak"}, parseSeat("bot:weak"))
	assert.Equal(t, game.PlayerSpec{Bot: true, Strategy: "best", DisplayName: "Robbie"}, parseSeat("bot:best:Robbie"))
}

func TestParseRows(t *testing.T) {
	rows := parseRows("# opening\r\nCAT\r\n..O\n\n\n")
	assert.Equal(t, []string{"CAT", "..O"}, rows)
	assert.Empty(t, parseRows(""))
}

func TestBoardFlagsRejectBothSources(t *testing.T) {
	b := boardFlags{rows: []string{"CAT"}, file: "-"}
	_, err := b.load(strings.NewReader("DOG"))
	assert.Error(t, err)

	b = boardFlags{file: "-"}
	rows, err := b.load(strings.NewReader("DOG\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"DOG"}, rows)
}

func TestOutputCandidatesText(t *testing.T) {
	var buf bytes.Buffer
	NewOutput("text", &buf).Print(response.Candidates{
		Rack:       "CAT",
		Candidates: []response.Word{{Move: "7:7:H:CAT", Word: "CAT", Score: 5}},
	})
	assert.Contains(t, buf.String(), "Rack: CAT")
	assert.Contains(t, buf.String(), "7:7:H:CAT")
}

func TestOutputYAMLUsesAPIFieldNames(t *testing.T) {
	var buf bytes.Buffer
	NewOutput("yaml", &buf).Print(response.GameList{Games: []string{"a", "b"}})

	var decoded map[string][]string
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, []string{"a", "b"}, decoded["games"])
}

// run executes the CLI against an in-process server
func run(t *testing.T, serverURL string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--server", serverURL, "-o", "json"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	app := factory.NewTestApp()
	require.NoError(t, app.LoadTestDictionary())
	srv := httptest.NewServer(api.NewRouter(api.RouterConfig{
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		GameController: app.GameController,
		BotService:     app.BotService,
		Validator:      app.Validator,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGameCommandsAgainstServer(t *testing.T) {
	srv := newTestServer(t)

	out, err := run(t, srv.URL, "game", "create", "--seat", "Alice", "--seat", "bot:best")
	require.NoError(t, err)
	var created response.GameWithBots
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	require.Len(t, created.Game.Players, 2)
	alice := created.Game.Players[0].ID

	out, err = run(t, srv.URL, "game", "get", created.Game.ID, "--player", alice)
	require.NoError(t, err)
	var view response.Game
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, "??ZYYXW", view.Players[0].Rack)

	out, err = run(t, srv.URL, "game", "play", created.Game.ID, "7:7:H:ZAP", "--player", alice)
	require.NoError(t, err)
	var played response.MoveResponse
	require.NoError(t, json.Unmarshal([]byte(out), &played))
	assert.Equal(t, 10, played.Points)
	assert.Len(t, played.BotActions, 1)

	_, err = run(t, srv.URL, "game", "play", created.Game.ID, "7:7:H:ZAP")
	assert.ErrorIs(t, err, errNoPlayer)

	_, err = run(t, srv.URL, "game", "summary", created.Game.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GAME_IN_PROGRESS")
}

func TestSolveAndValidateCommands(t *testing.T) {
	srv := newTestServer(t)

	out, err := run(t, srv.URL, "solve", "--rack", "stare", "--limit", "2")
	require.NoError(t, err)
	var candidates response.Candidates
	require.NoError(t, json.Unmarshal([]byte(out), &candidates))
	assert.NotEmpty(t, candidates.Candidates)
	assert.LessOrEqual(t, len(candidates.Candidates), 2)

	path := filepath.Join(t.TempDir(), "board.txt")
	require.NoError(t, os.WriteFile(path, []byte("CAT\n..O\n..O\n"), 0o600))
	out, err = run(t, srv.URL, "validate", "--board", path)
	require.NoError(t, err)
	var v response.Validation
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.True(t, v.Valid)
}

func TestSelfPlayRunsLocally(t *testing.T) {
	dict := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(dict, []byte(strings.Join(factory.TestWords, "\n")), 0o600))

	out, err := run(t, "http://unused", "selfplay", "--dictionary", dict,
		"--games", "2", "--size", "11", "--passes", "4", "-s", "best", "-s", "oneofn")
	require.NoError(t, err)

	var report struct {
		Games []struct {
			Scores map[string]int `json:"scores"`
		} `json:"games"`
		Wins map[string]int `json:"wins"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Len(t, report.Games, 2)
	assert.Contains(t, report.Wins, "1:best")
	assert.Contains(t, report.Wins, "2:oneofn")
}
