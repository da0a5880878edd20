package response

import (
	"time"

	"github.com/samber/lo"

	"github.com/mcoot/crosswordrobot/internal/model"
	"github.com/mcoot/crosswordrobot/internal/services/bot"
	"github.com/mcoot/crosswordrobot/internal/services/move"
	"github.com/mcoot/crosswordrobot/internal/services/validator"
)

// Board is a text rendering of a board's occupied extent
type Board struct {
	Topology string         `json:"topology"`
	Size     int            `json:"size,omitempty"`
	Layout   string         `json:"layout,omitempty"`
	Origin   model.Position `json:"origin"`
	Rows     []string       `json:"rows"`
	Tiles    int            `json:"tiles"`
}

// BoardFromModel renders b. Origin is the cell the first row and column
// start at.
func BoardFromModel(b *model.Board) *Board {
	if b == nil {
		return nil
	}
	origin, _, _ := b.Extent()
	return &Board{
		Topology: string(b.Topology()),
		Size:     b.Size(),
		Layout:   b.Layout(),
		Origin:   origin,
		Rows:     b.Rows(),
		Tiles:    b.TileCount(),
	}
}

// Player is one seat in a game
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsBot       bool   `json:"is_bot,omitempty"`
	Strategy    string `json:"strategy,omitempty"`
	Score       int    `json:"score"`
	RackCount   int    `json:"rack_count"`
	Rack        string `json:"rack,omitempty"`
	Board       *Board `json:"board,omitempty"`
	PileCount   *int   `json:"pile_count,omitempty"`
}

// Game is a game as seen by one viewer. Only the viewer's rack is shown.
type Game struct {
	ID                string             `json:"id"`
	State             string             `json:"state"`
	Config            model.GameConfig   `json:"config"`
	Board             *Board             `json:"board,omitempty"`
	PileCount         *int               `json:"pile_count,omitempty"`
	Players           []Player           `json:"players"`
	CurrentPlayer     string             `json:"current_player,omitempty"`
	Turn              int                `json:"turn"`
	ConsecutivePasses int                `json:"consecutive_passes"`
	Log               []model.MoveRecord `json:"log"`
	Winner            *string            `json:"winner,omitempty"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// GameFromModel converts model.Game to a response Game for viewer
func GameFromModel(g *model.Game, viewer model.PlayerID) Game {
	players := make([]Player, len(g.Players))
	for i, p := range g.Players {
		players[i] = Player{
			ID:          string(p.Player.ID),
			DisplayName: p.Player.DisplayName,
			IsBot:       p.Player.IsBot,
			Strategy:    p.Player.BotStrategy,
			Score:       p.Score,
			RackCount:   p.Rack.Count(),
			Board:       BoardFromModel(p.Board),
			PileCount:   pileCount(p.Pile),
		}
		if viewer != "" && p.Player.ID == viewer {
			players[i].Rack = p.Rack.String()
		}
	}

	resp := Game{
		ID:                string(g.ID),
		State:             string(g.State),
		Config:            g.Config,
		Board:             BoardFromModel(g.Board),
		PileCount:         pileCount(g.Pile),
		Players:           players,
		Turn:              g.CurrentTurn,
		ConsecutivePasses: g.ConsecutivePasses,
		Log:               g.Log,
		UpdatedAt:         g.UpdatedAt,
	}
	if !g.IsComplete() {
		resp.CurrentPlayer = string(g.CurrentPlayer().Player.ID)
	}
	if g.Winner != "" {
		w := string(g.Winner)
		resp.Winner = &w
	}
	return resp
}

func pileCount(p *model.DrawPile) *int {
	if p == nil {
		return nil
	}
	n := p.Len()
	return &n
}

// GameList is the response for listing games
type GameList struct {
	Games []string `json:"games"`
}

// GameSummary represents a completed game summary
type GameSummary struct {
	ID          string         `json:"id"`
	FinalScores map[string]int `json:"final_scores"`
	Winner      *string        `json:"winner"`
	Turns       int            `json:"turns"`
	CompletedAt time.Time      `json:"completed_at"`
}

// GameSummaryFromModel converts model.GameSummary
func GameSummaryFromModel(g *model.GameSummary) GameSummary {
	scores := make(map[string]int, len(g.FinalScores))
	for pid, score := range g.FinalScores {
		scores[string(pid)] = score
	}
	var winner *string
	if g.Winner != "" {
		w := string(g.Winner)
		winner = &w
	}
	return GameSummary{
		ID:          string(g.ID),
		FinalScores: scores,
		Winner:      winner,
		Turns:       g.Turns,
		CompletedAt: g.CompletedAt,
	}
}

// Word is a word found on a board or proposed as a move
type Word struct {
	Move   string     `json:"move"`
	Col    int        `json:"col"`
	Row    int        `json:"row"`
	Axis   model.Axis `json:"axis"`
	Word   string     `json:"word"`
	Score  int        `json:"score"`
	Placed int        `json:"placed,omitempty"`
}

// WordFromModel converts model.Word
func WordFromModel(w *model.Word) Word {
	return Word{
		Move:   w.Move().String(),
		Col:    w.Anchor.Col,
		Row:    w.Anchor.Row,
		Axis:   w.Axis,
		Word:   w.Text,
		Score:  w.Score,
		Placed: w.Placed,
	}
}

// WordsFromModel converts a list of words
func WordsFromModel(words []*model.Word) []Word {
	return lo.Map(words, func(w *model.Word, _ int) Word { return WordFromModel(w) })
}

// Candidates is the response for hint and solve requests
type Candidates struct {
	Rack       string `json:"rack"`
	Candidates []Word `json:"candidates"`
}

// CapSite is an empty cell that would extend one or more words
type CapSite struct {
	Row   int        `json:"row"`
	Col   int        `json:"col"`
	Axis  model.Axis `json:"axis"`
	Words []string   `json:"words"`
}

func capsFromModel(caps []*validator.CapSite) []CapSite {
	return lo.Map(caps, func(c *validator.CapSite, _ int) CapSite {
		return CapSite{
			Row:   c.Pos.Row,
			Col:   c.Pos.Col,
			Axis:  c.Axis,
			Words: lo.Map(c.Words, func(w *model.Word, _ int) string { return w.Text }),
		}
	})
}

// Validation is the response for board checks
type Validation struct {
	Valid     bool      `json:"valid"`
	Error     string    `json:"error,omitempty"`
	Connected bool      `json:"connected"`
	Groups    int       `json:"groups"`
	TileCount int       `json:"tile_count"`
	Words     []Word    `json:"words"`
	NonWords  []Word    `json:"non_words"`
	StartCaps []CapSite `json:"start_caps,omitempty"`
	EndCaps   []CapSite `json:"end_caps,omitempty"`
}

// ValidationFromModel converts a validator result
func ValidationFromModel(r *validator.Result) Validation {
	v := Validation{
		Valid:     r.Valid(),
		Connected: r.Connected,
		Groups:    r.Groups,
		TileCount: r.TileCount,
		Words:     WordsFromModel(r.Words),
		NonWords:  WordsFromModel(r.NonWords),
		StartCaps: capsFromModel(r.StartCaps),
		EndCaps:   capsFromModel(r.EndCaps),
	}
	if err := r.Err(); err != nil {
		v.Error = err.Error()
	}
	return v
}

// GameWithBots is the game state after a human action, along with the turns
// robots took in response
type GameWithBots struct {
	Game       Game            `json:"game"`
	BotActions []bot.BotAction `json:"bot_actions,omitempty"`
}

// MoveResponse is the response after playing a word
type MoveResponse struct {
	Points     int             `json:"points"`
	Bonus      int             `json:"bonus,omitempty"`
	Words      []Word          `json:"words"`
	Drawn      int             `json:"drawn"`
	Game       Game            `json:"game"`
	BotActions []bot.BotAction `json:"bot_actions,omitempty"`
}

// MoveResponseFromDelta builds a MoveResponse
func MoveResponseFromDelta(d *move.ScoreDelta, g Game, actions []bot.BotAction) MoveResponse {
	return MoveResponse{
		Points:     d.Points,
		Bonus:      d.Bonus,
		Words:      WordsFromModel(d.Words),
		Drawn:      d.Drawn,
		Game:       g,
		BotActions: actions,
	}
}
