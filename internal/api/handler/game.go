package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/crosswordrobot/internal/api/request"
	"github.com/mcoot/crosswordrobot/internal/api/response"
	"github.com/mcoot/crosswordrobot/internal/model"
	"github.com/mcoot/crosswordrobot/internal/services/bot"
	"github.com/mcoot/crosswordrobot/internal/services/game"
)

// GameHandler handles game-related endpoints
type GameHandler struct {
	gameController game.ControllerInterface
	botService     *bot.Service
	logger         *slog.Logger
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameController game.ControllerInterface, botService *bot.Service, logger *slog.Logger) *GameHandler {
	return &GameHandler{
		gameController: gameController,
		botService:     botService,
		logger:         logger.With(slog.String("component", "game_handler")),
	}
}

func gameID(r *http.Request) model.GameID {
	return model.GameID(mux.Vars(r)["id"])
}

func viewer(r *http.Request) model.PlayerID {
	return model.PlayerID(r.URL.Query().Get("player"))
}

// queryInt reads an optional non-negative integer query parameter
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, NewInvalidRequestError(name + " must be a non-negative integer")
	}
	return n, nil
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	g, err := h.gameController.CreateGame(r.Context(), req.Players, req.Config)
	if err != nil {
		WriteError(w, err)
		return
	}

	// A robot in the first seat moves straight away
	actions := h.processBotActions(r.Context(), g.ID)
	g, err = h.gameController.GetGame(r.Context(), g.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Created(w, response.GameWithBots{
		Game:       response.GameFromModel(g, ""),
		BotActions: actions,
	})
}

// List handles GET /api/v1/games
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	ids, err := h.gameController.ListGames(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	resp := response.GameList{Games: make([]string, len(ids))}
	for i, id := range ids {
		resp.Games[i] = string(id)
	}
	response.JSON(w, http.StatusOK, resp)
}

// Get handles GET /api/v1/games/{id}?player=
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	g, err := h.gameController.GetGame(r.Context(), gameID(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.GameFromModel(g, viewer(r)))
}

// Delete handles DELETE /api/v1/games/{id}
func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.gameController.DeleteGame(r.Context(), gameID(r)); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// GetPlayer handles GET /api/v1/players/{id}
func (h *GameHandler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	player, err := h.gameController.GetPlayer(r.Context(), model.PlayerID(mux.Vars(r)["id"]))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, player)
}

// Play handles POST /api/v1/games/{id}/moves
func (h *GameHandler) Play(w http.ResponseWriter, r *http.Request) {
	var req request.MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.PlayerID == "" {
		WriteError(w, NewInvalidRequestError("player_id is required"))
		return
	}
	mv, err := req.ToMove()
	if err != nil {
		WriteError(w, err)
		return
	}

	id := gameID(r)
	playerID := model.PlayerID(req.PlayerID)
	result, err := h.gameController.PlayMove(r.Context(), id, playerID, mv)
	if err != nil {
		WriteError(w, err)
		return
	}

	g := result.Game
	var actions []bot.BotAction
	if !g.IsComplete() {
		actions = h.processBotActions(r.Context(), id)
		if g, err = h.gameController.GetGame(r.Context(), id); err != nil {
			WriteError(w, err)
			return
		}
	}

	response.JSON(w, http.StatusOK, response.MoveResponseFromDelta(result.Delta, response.GameFromModel(g, playerID), actions))
}

// Pass handles POST /api/v1/games/{id}/pass
func (h *GameHandler) Pass(w http.ResponseWriter, r *http.Request) {
	var req request.PassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.PlayerID == "" {
		WriteError(w, NewInvalidRequestError("player_id is required"))
		return
	}

	id := gameID(r)
	playerID := model.PlayerID(req.PlayerID)
	g, err := h.gameController.Pass(r.Context(), id, playerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	var actions []bot.BotAction
	if !g.IsComplete() {
		actions = h.processBotActions(r.Context(), id)
		if g, err = h.gameController.GetGame(r.Context(), id); err != nil {
			WriteError(w, err)
			return
		}
	}

	response.JSON(w, http.StatusOK, response.GameWithBots{
		Game:       response.GameFromModel(g, playerID),
		BotActions: actions,
	})
}

// RunBots handles POST /api/v1/games/{id}/bots, playing any robot turns
// that are due
func (h *GameHandler) RunBots(w http.ResponseWriter, r *http.Request) {
	id := gameID(r)
	if h.botService == nil {
		WriteError(w, NewInvalidRequestError("robots are not enabled"))
		return
	}
	actions, err := h.botService.ProcessBotActions(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	g, err := h.gameController.GetGame(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.GameWithBots{
		Game:       response.GameFromModel(g, ""),
		BotActions: actions,
	})
}

// Hint handles GET /api/v1/games/{id}/hint?player=&limit=&vocabulary_limit=
func (h *GameHandler) Hint(w http.ResponseWriter, r *http.Request) {
	playerID := viewer(r)
	if playerID == "" {
		WriteError(w, NewInvalidRequestError("player is required"))
		return
	}
	lim, err := queryInt(r, "limit")
	if err != nil {
		WriteError(w, err)
		return
	}
	vocab, err := queryInt(r, "vocabulary_limit")
	if err != nil {
		WriteError(w, err)
		return
	}

	id := gameID(r)
	g, err := h.gameController.GetGame(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	seat := g.PlayerByID(playerID)
	if seat == nil {
		WriteError(w, model.ErrPlayerNotFound)
		return
	}

	words, err := h.gameController.Hint(r.Context(), id, playerID, game.HintOptions{Limit: lim, VocabularyLimit: vocab})
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Candidates{
		Rack:       seat.Rack.String(),
		Candidates: response.WordsFromModel(words),
	})
}

// Validate handles GET /api/v1/games/{id}/validate?player=
func (h *GameHandler) Validate(w http.ResponseWriter, r *http.Request) {
	result, err := h.gameController.Validate(r.Context(), gameID(r), viewer(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.ValidationFromModel(result))
}

// Summary handles GET /api/v1/games/{id}/summary
func (h *GameHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.gameController.Summary(r.Context(), gameID(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.GameSummaryFromModel(summary))
}

// processBotActions lets robots take their turns. Failures are logged; the
// human's action has already been committed.
func (h *GameHandler) processBotActions(ctx context.Context, id model.GameID) []bot.BotAction {
	if h.botService == nil {
		return nil
	}
	actions, err := h.botService.ProcessBotActions(ctx, id)
	if err != nil {
		h.logger.Warn("bot actions failed",
			slog.String("game_id", string(id)),
			slog.String("error", err.Error()),
		)
	}
	return actions
}
