package handler

import (
	"net/http"

	"github.com/mcoot/crosswordrobot/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export the codes handlers and tests refer to
const (
	CodeInvalidRequest   = apierr.CodeInvalidRequest
	CodeInvalidMove      = apierr.CodeInvalidMove
	CodeInvalidConfig    = apierr.CodeInvalidConfig
	CodeNotYourTurn      = apierr.CodeNotYourTurn
	CodeGameNotFound     = apierr.CodeGameNotFound
	CodeGameComplete     = apierr.CodeGameComplete
	CodeGameInProgress   = apierr.CodeGameInProgress
	CodeIllegalPlacement = apierr.CodeIllegalPlacement
	CodeNotAWord         = apierr.CodeNotAWord
	CodeInternalError    = apierr.CodeInternalError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}
