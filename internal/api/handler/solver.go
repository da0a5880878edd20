package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mcoot/crosswordrobot/internal/api/request"
	"github.com/mcoot/crosswordrobot/internal/api/response"
	"github.com/mcoot/crosswordrobot/internal/model"
	"github.com/mcoot/crosswordrobot/internal/services/game"
	"github.com/mcoot/crosswordrobot/internal/services/validator"
	"github.com/mcoot/crosswordrobot/internal/tileset"
)

// SolverHandler serves candidate generation and board checks for boards
// that are not part of a stored game
type SolverHandler struct {
	gameController game.ControllerInterface
	validator      validator.ServiceInterface
	tileSet        *tileset.TileSet
}

// NewSolverHandler creates a new solver handler. Tiles on submitted boards
// take their values from ts.
func NewSolverHandler(gameController game.ControllerInterface, validator validator.ServiceInterface, ts *tileset.TileSet) *SolverHandler {
	return &SolverHandler{
		gameController: gameController,
		validator:      validator,
		tileSet:        ts,
	}
}

func (h *SolverHandler) board(name model.Topology, size int, rows []string) (*model.Board, error) {
	topology, err := model.ParseTopology(string(name))
	if err != nil {
		return nil, err
	}
	if size < 0 || size > game.MaxBoardSize {
		return nil, fmt.Errorf("%w: size %d", model.ErrInvalidGameConfig, size)
	}
	return model.BoardFromRows(topology, size, rows, h.tileSet.Value)
}

// Solve handles POST /api/v1/solve
func (h *SolverHandler) Solve(w http.ResponseWriter, r *http.Request) {
	var req request.SolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Rack == "" {
		WriteError(w, NewInvalidRequestError("rack is required"))
		return
	}
	if req.Limit < 0 || req.VocabularyLimit < 0 {
		WriteError(w, NewInvalidRequestError("limits must be non-negative"))
		return
	}

	board, err := h.board(req.Topology, req.Size, req.Rows)
	if err != nil {
		WriteError(w, err)
		return
	}
	if req.BonusLayout != "" {
		if err := board.ApplyBonusLayout(req.BonusLayout); err != nil {
			WriteError(w, err)
			return
		}
	}
	rack := model.RackFromString(req.Rack, model.DefaultGameConfig().RackSize, h.tileSet.Value)

	words, err := h.gameController.Solve(r.Context(), board, rack, game.HintOptions{
		Limit:           req.Limit,
		VocabularyLimit: req.VocabularyLimit,
	})
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Candidates{
		Rack:       rack.String(),
		Candidates: response.WordsFromModel(words),
	})
}

// Validate handles POST /api/v1/validate
func (h *SolverHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req request.ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	board, err := h.board(req.Topology, req.Size, req.Rows)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.ValidationFromModel(h.validator.Validate(board, false)))
}
