package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/crosswordrobot/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeInvalidLetter       = "INVALID_LETTER"
	CodeInvalidPosition     = "INVALID_POSITION"
	CodeInvalidMove         = "INVALID_MOVE"
	CodeInvalidConfig       = "INVALID_CONFIG"
	CodeNotYourTurn         = "NOT_YOUR_TURN"
	CodePlayerNotFound      = "PLAYER_NOT_FOUND"
	CodeGameNotFound        = "GAME_NOT_FOUND"
	CodeGameComplete        = "GAME_COMPLETE"
	CodeGameInProgress      = "GAME_IN_PROGRESS"
	CodeCellOccupied        = "CELL_OCCUPIED"
	CodeInsufficientPlayers = "INSUFFICIENT_PLAYERS"
	CodeUnknownStrategy     = "UNKNOWN_STRATEGY"
	CodeIllegalPlacement    = "ILLEGAL_PLACEMENT"
	CodeNotAWord            = "NOT_A_WORD"
	CodeDisconnected        = "DISCONNECTED"
	CodeTileNotInRack       = "TILE_NOT_IN_RACK"
	CodeDictionaryMissing   = "DICTIONARY_NOT_LOADED"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// StatusOf returns the HTTP status WriteError would use for err
func StatusOf(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError. Rule violations keep the
// wrapped message since it names the offending word or cell.
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrNotPlayerTurn):
		return &httpError{http.StatusForbidden, APIError{CodeNotYourTurn, "Not your turn"}}
	case errors.Is(err, model.ErrGameComplete):
		return &httpError{http.StatusConflict, APIError{CodeGameComplete, "Game is already complete"}}
	case errors.Is(err, model.ErrGameInProgress):
		return &httpError{http.StatusConflict, APIError{CodeGameInProgress, "Game is in progress"}}
	case errors.Is(err, model.ErrInsufficientPlayers):
		return &httpError{http.StatusBadRequest, APIError{CodeInsufficientPlayers, "A game needs at least one player"}}
	case errors.Is(err, model.ErrUnknownStrategy):
		return &httpError{http.StatusBadRequest, APIError{CodeUnknownStrategy, err.Error()}}
	case errors.Is(err, model.ErrInvalidGameConfig),
		errors.Is(err, model.ErrInvalidTopology),
		errors.Is(err, model.ErrUnknownBonusLayout):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidConfig, err.Error()}}
	case errors.Is(err, model.ErrInvalidPosition):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidPosition, "Invalid board position"}}
	case errors.Is(err, model.ErrInvalidLetter):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidLetter, err.Error()}}
	case errors.Is(err, model.ErrCellOccupied):
		return &httpError{http.StatusConflict, APIError{CodeCellOccupied, "Cell is already occupied"}}
	case errors.Is(err, model.ErrTileNotInRack):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeTileNotInRack, err.Error()}}
	case errors.Is(err, model.ErrNonWord):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeNotAWord, err.Error()}}
	case errors.Is(err, model.ErrBoardDisconnected):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeDisconnected, err.Error()}}
	case errors.Is(err, model.ErrLetterMismatch),
		errors.Is(err, model.ErrNoTilesPlaced),
		errors.Is(err, model.ErrWordAbuts),
		errors.Is(err, model.ErrWordTooLong):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeIllegalPlacement, err.Error()}}
	case errors.Is(err, model.ErrInvalidMove):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidMove, err.Error()}}
	case errors.Is(err, model.ErrDictionaryNotLoaded):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeDictionaryMissing, "Dictionary not loaded"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
