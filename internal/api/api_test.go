package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/crosswordrobot/internal/api"
	"github.com/mcoot/crosswordrobot/internal/api/handler"
	"github.com/mcoot/crosswordrobot/internal/api/response"
	"github.com/mcoot/crosswordrobot/internal/factory"
	"github.com/mcoot/crosswordrobot/internal/middleware"
	"github.com/mcoot/crosswordrobot/internal/services/selfplay"
)

type APISuite struct {
	suite.Suite
	app     *factory.TestApp
	handler http.Handler
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	s.app = factory.NewTestApp()
	s.Require().NoError(s.app.LoadTestDictionary())

	s.handler = api.NewRouter(api.RouterConfig{
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		GameController: s.app.GameController,
		BotService:     s.app.BotService,
		Validator:      s.app.Validator,
		SelfPlay:       s.app.SelfPlay,
	})
}

func (s *APISuite) request(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&reqBody).Encode(body))
	}
	req := httptest.NewRequest(method, path, &reqBody)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

func (s *APISuite) decode(rr *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), v), rr.Body.String())
}

func (s *APISuite) errorCode(rr *httptest.ResponseRecorder) string {
	var resp handler.ErrorResponse
	s.decode(rr, &resp)
	return resp.Error.Code
}

// createHumanVsRobot starts a game where the human, seated first, holds the
// unshuffled opening rack
func (s *APISuite) createHumanVsRobot() response.Game {
	rr := s.request(http.MethodPost, "/api/v1/games", map[string]any{
		"players": []map[string]any{
			{"display_name": "Human"},
			{"bot": true, "strategy": "best"},
		},
	})
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())

	var resp response.GameWithBots
	s.decode(rr, &resp)
	s.Empty(resp.BotActions)
	return resp.Game
}

func (s *APISuite) TestHealthCheck() {
	rr := s.request(http.MethodGet, "/api/v1/health", nil)
	s.Equal(http.StatusOK, rr.Code)
	s.Contains(rr.Body.String(), "ok")
	s.NotEmpty(rr.Header().Get(middleware.RequestIDHeader))
}

func (s *APISuite) TestRequestIDIsEchoed() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	s.Equal("abc-123", rr.Header().Get(middleware.RequestIDHeader))
}

func (s *APISuite) TestCreateGame() {
	g := s.createHumanVsRobot()

	s.Equal("playing", g.State)
	s.Require().Len(g.Players, 2)
	s.Equal("Human", g.Players[0].DisplayName)
	s.True(g.Players[1].IsBot)
	s.Equal(g.Players[0].ID, g.CurrentPlayer)
	s.Equal(7, g.Players[0].RackCount)
	s.Empty(g.Players[0].Rack, "racks are hidden without a viewer")
	s.Equal(15, g.Config.BoardSize)

	rr := s.request(http.MethodGet, "/api/v1/games", nil)
	s.Equal(http.StatusOK, rr.Code)
	var list response.GameList
	s.decode(rr, &list)
	s.Equal([]string{g.ID}, list.Games)
}

func (s *APISuite) TestCreateGameRejectsBadConfig() {
	rr := s.request(http.MethodPost, "/api/v1/games", map[string]any{
		"players": []map[string]any{{"display_name": "Solo"}},
		"config":  map[string]any{"topology": "spherical"},
	})
	s.Equal(http.StatusBadRequest, rr.Code)
	s.Equal(handler.CodeInvalidConfig, s.errorCode(rr))

	rr = s.request(http.MethodPost, "/api/v1/games", "not an object")
	s.Equal(http.StatusBadRequest, rr.Code)
	s.Equal(handler.CodeInvalidRequest, s.errorCode(rr))
}

func (s *APISuite) TestGetShowsViewerRack() {
	g := s.createHumanVsRobot()
	human := g.Players[0].ID

	rr := s.request(http.MethodGet, "/api/v1/games/"+g.ID+"?player="+human, nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	var view response.Game
	s.decode(rr, &view)
	s.Equal("??ZYYXW", view.Players[0].Rack)
	s.Empty(view.Players[1].Rack)
}

func (s *APISuite) TestPlayMoveRunsRobot() {
	g := s.createHumanVsRobot()
	human := g.Players[0].ID

	rr := s.request(http.MethodPost, "/api/v1/games/"+g.ID+"/moves", map[string]any{
		"player_id": human,
		"move":      "7:7:H:zap",
	})
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())

	var resp response.MoveResponse
	s.decode(rr, &resp)
	s.Equal(10, resp.Points)
	s.Equal(3, resp.Drawn)
	s.Require().Len(resp.Words, 1)
	s.Equal("ZAP", resp.Words[0].Word)
	s.Equal("7:7:H:ZAP", resp.Words[0].Move)

	s.Require().Len(resp.BotActions, 1)
	s.Equal(g.Players[1].ID, string(resp.BotActions[0].PlayerID))
	s.Equal(human, resp.Game.CurrentPlayer)
	s.Len(resp.Game.Log, 2)
	s.Len(resp.Game.Players[0].Rack, 7)
}

func (s *APISuite) TestPlayMoveFromFields() {
	g := s.createHumanVsRobot()

	rr := s.request(http.MethodPost, "/api/v1/games/"+g.ID+"/moves", map[string]any{
		"player_id": g.Players[0].ID,
		"col":       7,
		"row":       7,
		"axis":      "V",
		"word":      "ZAP",
	})
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())
	var resp response.MoveResponse
	s.decode(rr, &resp)
	s.Equal(10, resp.Points)
}

func (s *APISuite) TestPlayMoveErrors() {
	g := s.createHumanVsRobot()
	human := g.Players[0].ID
	path := "/api/v1/games/" + g.ID + "/moves"

	rr := s.request(http.MethodPost, path, map[string]any{"player_id": human, "move": "nonsense"})
	s.Equal(http.StatusBadRequest, rr.Code)
	s.Equal(handler.CodeInvalidMove, s.errorCode(rr))

	rr = s.request(http.MethodPost, path, map[string]any{"player_id": human, "move": "7:7:H:ZZZ"})
	s.Equal(http.StatusUnprocessableEntity, rr.Code)
	s.Equal(handler.CodeNotAWord, s.errorCode(rr))

	rr = s.request(http.MethodPost, path, map[string]any{"player_id": g.Players[1].ID, "move": "7:7:H:WAY"})
	s.Equal(http.StatusForbidden, rr.Code)
	s.Equal(handler.CodeNotYourTurn, s.errorCode(rr))

	rr = s.request(http.MethodPost, path, map[string]any{"move": "7:7:H:ZAP"})
	s.Equal(http.StatusBadRequest, rr.Code)
	s.Equal(handler.CodeInvalidRequest, s.errorCode(rr))

	rr = s.request(http.MethodPost, "/api/v1/games/missing/moves", map[string]any{"player_id": human, "move": "7:7:H:ZAP"})
	s.Equal(http.StatusNotFound, rr.Code)
	s.Equal(handler.CodeGameNotFound, s.errorCode(rr))
}

func (s *APISuite) TestPassHandsTurnToRobot() {
	g := s.createHumanVsRobot()

	rr := s.request(http.MethodPost, "/api/v1/games/"+g.ID+"/pass", map[string]any{"player_id": g.Players[0].ID})
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())

	var resp response.GameWithBots
	s.decode(rr, &resp)
	s.Require().Len(resp.BotActions, 1)
	s.Equal(g.Players[0].ID, resp.Game.CurrentPlayer)
	s.Equal("pass", string(resp.Game.Log[0].Kind))
}

func (s *APISuite) TestHint() {
	g := s.createHumanVsRobot()
	human := g.Players[0].ID

	rr := s.request(http.MethodGet, "/api/v1/games/"+g.ID+"/hint?player="+human+"&limit=2", nil)
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())

	var resp response.Candidates
	s.decode(rr, &resp)
	s.Equal("??ZYYXW", resp.Rack)
	s.Require().NotEmpty(resp.Candidates)
	s.LessOrEqual(len(resp.Candidates), 2)
	if len(resp.Candidates) == 2 {
		s.GreaterOrEqual(resp.Candidates[0].Score, resp.Candidates[1].Score)
	}

	rr = s.request(http.MethodGet, "/api/v1/games/"+g.ID+"/hint?player="+human+"&limit=-1", nil)
	s.Equal(http.StatusBadRequest, rr.Code)

	rr = s.request(http.MethodGet, "/api/v1/games/"+g.ID+"/hint?player=nobody", nil)
	s.Equal(http.StatusNotFound, rr.Code)
}

func (s *APISuite) TestValidateGameBoard() {
	g := s.createHumanVsRobot()
	rr := s.request(http.MethodPost, "/api/v1/games/"+g.ID+"/moves", map[string]any{
		"player_id": g.Players[0].ID,
		"move":      "7:7:H:ZAP",
	})
	s.Require().Equal(http.StatusOK, rr.Code)

	rr = s.request(http.MethodGet, "/api/v1/games/"+g.ID+"/validate", nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	var v response.Validation
	s.decode(rr, &v)
	s.True(v.Valid)
	s.True(v.Connected)
	s.Empty(v.NonWords)
}

func (s *APISuite) TestSummaryRequiresCompletedGame() {
	g := s.createHumanVsRobot()
	rr := s.request(http.MethodGet, "/api/v1/games/"+g.ID+"/summary", nil)
	s.Equal(http.StatusConflict, rr.Code)
	s.Equal(handler.CodeGameInProgress, s.errorCode(rr))
}

func (s *APISuite) TestRobotGameToSummary() {
	rr := s.request(http.MethodPost, "/api/v1/games", map[string]any{
		"players": []map[string]any{
			{"bot": true, "strategy": "best"},
			{"bot": true, "strategy": "weak"},
		},
		"config": map[string]any{"board_size": 11, "max_consecutive_passes": 4},
	})
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())
	var created response.GameWithBots
	s.decode(rr, &created)
	s.Equal("complete", created.Game.State)
	s.NotEmpty(created.BotActions)

	rr = s.request(http.MethodGet, "/api/v1/games/"+created.Game.ID+"/summary", nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	var summary response.GameSummary
	s.decode(rr, &summary)
	s.Len(summary.FinalScores, 2)
	s.Equal(len(created.Game.Log), summary.Turns)

	rr = s.request(http.MethodPost, "/api/v1/games/"+created.Game.ID+"/pass", map[string]any{"player_id": created.Game.Players[0].ID})
	s.Equal(http.StatusConflict, rr.Code)
	s.Equal(handler.CodeGameComplete, s.errorCode(rr))
}

func (s *APISuite) TestDeleteGame() {
	g := s.createHumanVsRobot()

	rr := s.request(http.MethodGet, "/api/v1/players/"+g.Players[0].ID, nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.Contains(rr.Body.String(), `"display_name":"Human"`)

	rr = s.request(http.MethodDelete, "/api/v1/games/"+g.ID, nil)
	s.Equal(http.StatusNoContent, rr.Code)

	rr = s.request(http.MethodGet, "/api/v1/games/"+g.ID, nil)
	s.Equal(http.StatusNotFound, rr.Code)

	rr = s.request(http.MethodGet, "/api/v1/players/"+g.Players[0].ID, nil)
	s.Equal(http.StatusNotFound, rr.Code)
}

func (s *APISuite) TestSolve() {
	rr := s.request(http.MethodPost, "/api/v1/solve", map[string]any{
		"size":  15,
		"rows":  []string{},
		"rack":  "stare",
		"limit": 3,
	})
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())

	var resp response.Candidates
	s.decode(rr, &resp)
	s.Equal("STARE", resp.Rack)
	s.Require().NotEmpty(resp.Candidates)
	s.LessOrEqual(len(resp.Candidates), 3)
	s.Equal(5, resp.Candidates[0].Placed, "the five letter words score best")

	rr = s.request(http.MethodPost, "/api/v1/solve", map[string]any{"rows": []string{"CAT"}})
	s.Equal(http.StatusBadRequest, rr.Code)

	rr = s.request(http.MethodPost, "/api/v1/solve", map[string]any{"rows": []string{"C4T"}, "rack": "S"})
	s.Equal(http.StatusBadRequest, rr.Code)
}

func (s *APISuite) TestValidateRows() {
	rr := s.request(http.MethodPost, "/api/v1/validate", map[string]any{
		"rows": []string{"CAT", "..O", "..O"},
	})
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())
	var v response.Validation
	s.decode(rr, &v)
	s.True(v.Valid)
	s.Len(v.Words, 2)

	rr = s.request(http.MethodPost, "/api/v1/validate", map[string]any{
		"rows": []string{"XQ.", "...", "CAT"},
	})
	s.Require().Equal(http.StatusOK, rr.Code)
	s.decode(rr, &v)
	s.False(v.Valid)
	s.False(v.Connected)
	s.Equal(2, v.Groups)
	s.NotEmpty(v.Error)
}

func (s *APISuite) TestSelfPlay() {
	rr := s.request(http.MethodPost, "/api/v1/selfplay", map[string]any{
		"games":       2,
		"concurrency": 1,
		"strategies":  []string{"best", "weak"},
		"config":      map[string]any{"board_size": 11, "max_consecutive_passes": 4},
	})
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())

	var report selfplay.Report
	s.decode(rr, &report)
	s.Len(report.Games, 2)
	for _, g := range report.Games {
		s.Len(g.Scores, 2)
	}

	rr = s.request(http.MethodPost, "/api/v1/selfplay", map[string]any{"games": 0, "strategies": []string{"best"}})
	s.Equal(http.StatusBadRequest, rr.Code)
}
