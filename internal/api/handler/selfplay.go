package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mcoot/crosswordrobot/internal/api/request"
	"github.com/mcoot/crosswordrobot/internal/api/response"
	"github.com/mcoot/crosswordrobot/internal/services/selfplay"
)

// MaxSelfPlayGames bounds one self-play request
const MaxSelfPlayGames = 100

// SelfPlayHandler runs robot-only batches
type SelfPlayHandler struct {
	runner *selfplay.Runner
}

// NewSelfPlayHandler creates a new self-play handler
func NewSelfPlayHandler(runner *selfplay.Runner) *SelfPlayHandler {
	return &SelfPlayHandler{runner: runner}
}

// Run handles POST /api/v1/selfplay
func (h *SelfPlayHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req request.SelfPlayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Games < 1 || req.Games > MaxSelfPlayGames {
		WriteError(w, NewInvalidRequestError(fmt.Sprintf("games must be between 1 and %d", MaxSelfPlayGames)))
		return
	}

	report, err := h.runner.Run(r.Context(), selfplay.Options{
		Games:       req.Games,
		Concurrency: req.Concurrency,
		Strategies:  req.Strategies,
		Config:      req.Config,
	})
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, report)
}
