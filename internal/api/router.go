package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/crosswordrobot/internal/api/handler"
	"github.com/mcoot/crosswordrobot/internal/api/middleware"
	logmw "github.com/mcoot/crosswordrobot/internal/middleware"
	"github.com/mcoot/crosswordrobot/internal/services/bot"
	"github.com/mcoot/crosswordrobot/internal/services/game"
	"github.com/mcoot/crosswordrobot/internal/services/selfplay"
	"github.com/mcoot/crosswordrobot/internal/services/validator"
	"github.com/mcoot/crosswordrobot/internal/tileset"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	GameController game.ControllerInterface
	BotService     *bot.Service
	Validator      validator.ServiceInterface
	SelfPlay       *selfplay.Runner
	// TileSet values tiles on boards submitted to the solver. Defaults to
	// the built-in English set.
	TileSet *tileset.TileSet
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	ts := cfg.TileSet
	if ts == nil {
		ts = tileset.Default()
	}

	// Create handlers
	gameHandler := handler.NewGameHandler(cfg.GameController, cfg.BotService, cfg.Logger)
	solverHandler := handler.NewSolverHandler(cfg.GameController, cfg.Validator, ts)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.RequestID)
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(logmw.Logging(cfg.Logger))

	// Game routes
	api.HandleFunc("/games", gameHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/games", gameHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}", gameHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}", gameHandler.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/games/{id}/moves", gameHandler.Play).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/pass", gameHandler.Pass).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/bots", gameHandler.RunBots).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/hint", gameHandler.Hint).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}/validate", gameHandler.Validate).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}/summary", gameHandler.Summary).Methods(http.MethodGet)
	api.HandleFunc("/players/{id}", gameHandler.GetPlayer).Methods(http.MethodGet)

	// Stateless solver routes
	api.HandleFunc("/solve", solverHandler.Solve).Methods(http.MethodPost)
	api.HandleFunc("/validate", solverHandler.Validate).Methods(http.MethodPost)

	if cfg.SelfPlay != nil {
		selfPlayHandler := handler.NewSelfPlayHandler(cfg.SelfPlay)
		api.HandleFunc("/selfplay", selfPlayHandler.Run).Methods(http.MethodPost)
	}

	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
