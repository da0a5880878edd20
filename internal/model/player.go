package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Player represents a game participant
type Player struct {
	ID          PlayerID  `json:"id"`
	DisplayName string    `json:"display_name"`
	IsBot       bool      `json:"is_bot"`
	BotStrategy string    `json:"bot_strategy,omitempty"` // only set for bots
	CreatedAt   time.Time `json:"created_at"`
}
