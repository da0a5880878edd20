package e2e_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/crosswordrobot/internal/api"
	"github.com/mcoot/crosswordrobot/internal/api/response"
	"github.com/mcoot/crosswordrobot/internal/factory"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(t.TempDir(), "cwrobot-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/cwrobot")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
	}
}

func (r *cliRunner) run(stdin string, args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	cmd.Stdin = strings.NewReader(stdin)
	output, err := cmd.Output()
	if ee, ok := err.(*exec.ExitError); ok {
		return string(output) + string(ee.Stderr), err
	}
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// writeDictionary stores the test word list in a temp file
func writeDictionary(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(factory.TestWords, "\n")), 0o600))
	return path
}

// startTestServer runs a real HTTP server on a free port
func startTestServer(t *testing.T) string {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app, err := factory.New(factory.Config{Logger: logger})
	require.NoError(t, err)
	require.NoError(t, app.DictionaryService.LoadFromFile(context.Background(), writeDictionary(t)))

	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		GameController: app.GameController,
		BotService:     app.BotService,
		Validator:      app.Validator,
		SelfPlay:       app.SelfPlay,
	})
	server := api.NewServer(router, api.DefaultServerConfig(), logger)
	go func() {
		if err := server.Serve(listener); err != nil {
			t.Logf("server error: %v", err)
		}
	}()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	})

	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")
	return serverURL
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

func TestCLI_HealthCheck(t *testing.T) {
	cli := newCLIRunner(t, startTestServer(t))

	output, err := cli.run("", "health")
	require.NoError(t, err, "output: %s", output)

	var resp struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_PlayAgainstRobot(t *testing.T) {
	cli := newCLIRunner(t, startTestServer(t))

	output, err := cli.run("", "game", "create", "--seat", "Alice", "--seat", "bot:best")
	require.NoError(t, err, "output: %s", output)
	var created response.GameWithBots
	require.NoError(t, json.Unmarshal([]byte(output), &created))
	gameID := created.Game.ID
	alice := created.Game.Players[0].ID

	output, err = cli.run("", "game", "hint", gameID, "--player", alice, "-n", "1")
	require.NoError(t, err, "output: %s", output)
	var hint response.Candidates
	require.NoError(t, json.Unmarshal([]byte(output), &hint))

	if len(hint.Candidates) == 0 {
		output, err = cli.run("", "game", "pass", gameID, "--player", alice)
		require.NoError(t, err, "output: %s", output)
		return
	}

	best := hint.Candidates[0]
	output, err = cli.run("", "game", "play", gameID, best.Move, "--player", alice)
	require.NoError(t, err, "output: %s", output)
	var played response.MoveResponse
	require.NoError(t, json.Unmarshal([]byte(output), &played))
	assert.Equal(t, best.Score, played.Points)
	assert.Equal(t, best.Score, played.Game.Players[0].Score)

	output, err = cli.run("", "game", "validate", gameID)
	require.NoError(t, err, "output: %s", output)
	var check response.Validation
	require.NoError(t, json.Unmarshal([]byte(output), &check))
	assert.True(t, check.Valid)

	output, err = cli.run("", "game", "delete", gameID)
	require.NoError(t, err, "output: %s", output)
	_, err = cli.run("", "game", "get", gameID)
	assert.Error(t, err)
}

func TestCLI_RobotGame(t *testing.T) {
	cli := newCLIRunner(t, startTestServer(t))

	output, err := cli.run("", "game", "create", "--seat", "bot:best", "--seat", "bot:weak", "--size", "11", "--passes", "4")
	require.NoError(t, err, "output: %s", output)
	var created response.GameWithBots
	require.NoError(t, json.Unmarshal([]byte(output), &created))
	assert.Equal(t, "complete", created.Game.State)

	output, err = cli.run("", "game", "summary", created.Game.ID)
	require.NoError(t, err, "output: %s", output)
	var summary response.GameSummary
	require.NoError(t, json.Unmarshal([]byte(output), &summary))
	assert.Len(t, summary.FinalScores, 2)
}

func TestCLI_SolveFromStdin(t *testing.T) {
	cli := newCLIRunner(t, startTestServer(t))

	output, err := cli.run("CAT\n", "solve", "--board", "-", "--size", "15", "--rack", "S", "-n", "0")
	require.NoError(t, err, "output: %s", output)

	var resp response.Candidates
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	words := make([]string, len(resp.Candidates))
	for i, c := range resp.Candidates {
		words[i] = c.Word
	}
	assert.Contains(t, words, "CATS")
}

func TestCLI_Validate(t *testing.T) {
	cli := newCLIRunner(t, startTestServer(t))

	output, err := cli.run("XQ\n", "validate", "--board", "-")
	require.NoError(t, err, "output: %s", output)

	var resp response.Validation
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.False(t, resp.Valid)
	assert.Len(t, resp.NonWords, 1)
}
