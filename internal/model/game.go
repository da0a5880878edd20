package model

import "time"

// GameID uniquely identifies a game
type GameID string

// GameState represents the current phase of a game
type GameState string

const (
	GameStatePlaying  GameState = "playing"  // Players taking turns
	GameStateComplete GameState = "complete" // Game over, final scores applied
)

// BoardMode selects whether players share one board or each play their own
type BoardMode string

const (
	BoardModeShared  BoardMode = "shared"
	BoardModePrivate BoardMode = "private"
)

// PileMode selects whether players draw from one pile or each have their own
type PileMode string

const (
	PileModeShared  PileMode = "shared"
	PileModePrivate PileMode = "private"
)

// GameConfig holds the rules chosen when a game is created
type GameConfig struct {
	Topology             Topology  `json:"topology"`
	BoardSize            int       `json:"board_size"`
	BoardMode            BoardMode `json:"board_mode"`
	PileMode             PileMode  `json:"pile_mode"`
	RackSize             int       `json:"rack_size"`
	MaxConsecutivePasses int       `json:"max_consecutive_passes"`
	BonusLayout          string    `json:"bonus_layout,omitempty"`
	TileSet              string    `json:"tile_set,omitempty"`
}

// DefaultGameConfig returns the standard two-player rules
func DefaultGameConfig() GameConfig {
	return GameConfig{
		Topology:             TopologyBounded,
		BoardSize:            15,
		BoardMode:            BoardModeShared,
		PileMode:             PileModeShared,
		RackSize:             7,
		MaxConsecutivePasses: 6,
	}
}

// GamePlayer is a player's seat in a game
type GamePlayer struct {
	Player Player    `json:"player"`
	Rack   *Rack     `json:"rack"`
	Score  int       `json:"score"`
	Board  *Board    `json:"board,omitempty"` // private board mode only
	Pile   *DrawPile `json:"pile,omitempty"`  // private pile mode only
}

// MoveKind distinguishes plays from passes in the move log
type MoveKind string

const (
	MoveKindPlay MoveKind = "play"
	MoveKindPass MoveKind = "pass"
)

// MoveRecord is one entry of the game's move log
type MoveRecord struct {
	Turn     int       `json:"turn"`
	PlayerID PlayerID  `json:"player_id"`
	Kind     MoveKind  `json:"kind"`
	Move     string    `json:"move,omitempty"` // Move.String() text form
	Points   int       `json:"points"`
	Words    []string  `json:"words,omitempty"`
	At       time.Time `json:"at"`
}

// Game represents a single instance of the word game
type Game struct {
	ID     GameID     `json:"id"`
	State  GameState  `json:"state"`
	Config GameConfig `json:"config"`

	Players []*GamePlayer `json:"players"`

	// Shared board and pile (nil in private modes)
	Board *Board    `json:"board,omitempty"`
	Pile  *DrawPile `json:"pile,omitempty"`

	// Turn management
	CurrentTurn       int `json:"current_turn"`
	CurrentIdx        int `json:"current_idx"`
	ConsecutivePasses int `json:"consecutive_passes"`

	Log    []MoveRecord `json:"log"`
	Winner PlayerID     `json:"winner,omitempty"` // Empty if tie or in progress

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsComplete returns true if the game has ended
func (g *Game) IsComplete() bool {
	return g.State == GameStateComplete
}

// CurrentPlayer returns the player whose turn it is
func (g *Game) CurrentPlayer() *GamePlayer {
	if len(g.Players) == 0 {
		return nil
	}
	return g.Players[g.CurrentIdx]
}

// PlayerByID finds a player's seat
func (g *Game) PlayerByID(id PlayerID) *GamePlayer {
	for _, p := range g.Players {
		if p.Player.ID == id {
			return p
		}
	}
	return nil
}

// BoardFor returns the board the player plays on
func (g *Game) BoardFor(p *GamePlayer) *Board {
	if p.Board != nil {
		return p.Board
	}
	return g.Board
}

// PileFor returns the pile the player draws from
func (g *Game) PileFor(p *GamePlayer) *DrawPile {
	if p.Pile != nil {
		return p.Pile
	}
	return g.Pile
}

// AdvanceTurn moves play to the next player
func (g *Game) AdvanceTurn() {
	g.CurrentTurn++
	if len(g.Players) > 0 {
		g.CurrentIdx = (g.CurrentIdx + 1) % len(g.Players)
	}
}

// Scores returns each player's current score
func (g *Game) Scores() map[PlayerID]int {
	scores := make(map[PlayerID]int, len(g.Players))
	for _, p := range g.Players {
		scores[p.Player.ID] = p.Score
	}
	return scores
}

// GameSummary is a lightweight record of a completed game
type GameSummary struct {
	ID          GameID           `json:"id"`
	FinalScores map[PlayerID]int `json:"final_scores"`
	Winner      PlayerID         `json:"winner,omitempty"` // Empty if tie
	Turns       int              `json:"turns"`
	CompletedAt time.Time        `json:"completed_at"`
}
