package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Game errors
	ErrGameNotFound        = errors.New("game not found")
	ErrNotPlayerTurn       = errors.New("not this player's turn")
	ErrGameComplete        = errors.New("game is already complete")
	ErrGameInProgress      = errors.New("game is still in progress")
	ErrInsufficientPlayers = errors.New("insufficient players to start game")
	ErrUnknownStrategy     = errors.New("unknown bot strategy")
	ErrInvalidGameConfig   = errors.New("invalid game configuration")

	// Board errors
	ErrInvalidPosition    = errors.New("invalid board position")
	ErrCellOccupied       = errors.New("cell is already occupied")
	ErrInvalidTopology    = errors.New("invalid board topology")
	ErrUnknownBonusLayout = errors.New("unknown bonus layout")
	ErrBoardDisconnected  = errors.New("board tiles are not connected")
	ErrNonWord            = errors.New("board contains a run that is not a word")

	// Placement errors
	ErrInvalidLetter  = errors.New("invalid letter")
	ErrInvalidMove    = errors.New("invalid move")
	ErrLetterMismatch = errors.New("word does not match letters on the board")
	ErrNoTilesPlaced  = errors.New("move places no tiles")
	ErrWordAbuts      = errors.New("word runs into an adjacent tile")
	ErrWordTooLong    = errors.New("word does not fit on the board")
	ErrTileNotInRack  = errors.New("tile not in rack")

	// Dictionary errors
	ErrDictionaryNotLoaded = errors.New("dictionary not loaded")
)
