package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mcoot/crosswordrobot/internal/api/response"
	"github.com/mcoot/crosswordrobot/internal/services/bot"
	"github.com/mcoot/crosswordrobot/internal/services/selfplay"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	switch o.format {
	case "json":
		o.printJSON(data)
	case "yaml":
		o.printYAML(data)
	default:
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	switch o.format {
	case "json":
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	case "yaml":
		o.printYAML(map[string]string{"message": msg})
	default:
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

// printYAML goes through JSON first so field names match the API
func (o *Output) printYAML(data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		fmt.Fprintf(o.w, "error: %v\n", err)
		return
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		fmt.Fprintf(o.w, "error: %v\n", err)
		return
	}
	enc := yaml.NewEncoder(o.w)
	enc.SetIndent(2)
	_ = enc.Encode(generic)
	_ = enc.Close()
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case HealthResult:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	case response.Game:
		o.printGame(v)
	case response.GameWithBots:
		o.printBotActions(v.BotActions)
		o.printGame(v.Game)
	case response.GameList:
		for _, id := range v.Games {
			fmt.Fprintln(o.w, id)
		}
	case response.MoveResponse:
		o.printMove(v)
	case response.Candidates:
		o.printCandidates(v)
	case response.Validation:
		o.printValidation(v)
	case response.GameSummary:
		o.printSummary(v)
	case selfplay.Report:
		o.printReport(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printGame(g response.Game) {
	fmt.Fprintf(o.w, "Game: %s\n", g.ID)
	fmt.Fprintf(o.w, "State: %s\n", g.State)
	fmt.Fprintf(o.w, "Turn: %d\n", g.Turn)
	fmt.Fprintf(o.w, "Rules: %s %dx%d, %s board, %s pile, rack %d\n",
		g.Config.Topology, g.Config.BoardSize, g.Config.BoardSize,
		g.Config.BoardMode, g.Config.PileMode, g.Config.RackSize)
	if g.PileCount != nil {
		fmt.Fprintf(o.w, "Tiles left: %d\n", *g.PileCount)
	}

	fmt.Fprintln(o.w, "Players:")
	for _, p := range g.Players {
		marker := " "
		if p.ID == g.CurrentPlayer {
			marker = "*"
		}
		kind := "human"
		if p.IsBot {
			kind = "bot:" + p.Strategy
		}
		fmt.Fprintf(o.w, " %s %s (%s, %s) %d points", marker, p.DisplayName, p.ID, kind, p.Score)
		if p.Rack != "" {
			fmt.Fprintf(o.w, ", rack %s", p.Rack)
		} else {
			fmt.Fprintf(o.w, ", %d tiles", p.RackCount)
		}
		fmt.Fprintln(o.w)
	}

	if g.Board != nil {
		fmt.Fprintln(o.w)
		o.printBoard(g.Board)
	}
	for _, p := range g.Players {
		if p.Board != nil {
			fmt.Fprintf(o.w, "\nBoard (%s):\n", p.DisplayName)
			o.printBoard(p.Board)
		}
	}

	if n := len(g.Log); n > 0 {
		last := g.Log[n-1]
		fmt.Fprintf(o.w, "\nLast move: %s %s %s (%d pts)\n", last.PlayerID, last.Kind, last.Move, last.Points)
	}
	if g.Winner != nil {
		fmt.Fprintf(o.w, "\nWinner: %s\n", *g.Winner)
	} else if g.State == "complete" {
		fmt.Fprintln(o.w, "\nThe game is a tie")
	}
}

// printBoard draws the occupied extent with absolute row and column labels
func (o *Output) printBoard(b *response.Board) {
	if len(b.Rows) == 0 {
		fmt.Fprintln(o.w, "(empty board)")
		return
	}

	width := 0
	for _, r := range b.Rows {
		width = max(width, len([]rune(r)))
	}

	fmt.Fprint(o.w, "     ")
	for col := range width {
		fmt.Fprintf(o.w, "%3d", b.Origin.Col+col)
	}
	fmt.Fprintln(o.w)

	border := "     +" + strings.Repeat("---", width) + "+"
	fmt.Fprintln(o.w, border)
	for i, r := range b.Rows {
		fmt.Fprintf(o.w, " %3d |", b.Origin.Row+i)
		runes := []rune(r)
		for col := range width {
			ch := '.'
			if col < len(runes) {
				ch = runes[col]
			}
			fmt.Fprintf(o.w, " %c ", ch)
		}
		fmt.Fprintln(o.w, "|")
	}
	fmt.Fprintln(o.w, border)
}

func (o *Output) printBotActions(actions []bot.BotAction) {
	for _, a := range actions {
		switch a.Type {
		case bot.ActionPlay:
			fmt.Fprintf(o.w, "Robot %s played %s for %d\n", a.PlayerID, a.Move, a.Points)
		case bot.ActionPass:
			fmt.Fprintf(o.w, "Robot %s passed\n", a.PlayerID)
		case bot.ActionGameComplete:
			fmt.Fprintln(o.w, "Game complete!")
		}
	}
	if len(actions) > 0 {
		fmt.Fprintln(o.w)
	}
}

func (o *Output) printMove(m response.MoveResponse) {
	fmt.Fprintf(o.w, "Scored %d", m.Points)
	if m.Bonus > 0 {
		fmt.Fprintf(o.w, " (including %d bonus)", m.Bonus)
	}
	fmt.Fprintf(o.w, ", drew %d\n", m.Drawn)
	for _, w := range m.Words {
		fmt.Fprintf(o.w, "  %-12s %3d  %s\n", w.Word, w.Score, w.Move)
	}
	fmt.Fprintln(o.w)
	o.printBotActions(m.BotActions)
	o.printGame(m.Game)
}

func (o *Output) printCandidates(c response.Candidates) {
	fmt.Fprintf(o.w, "Rack: %s\n", c.Rack)
	if len(c.Candidates) == 0 {
		fmt.Fprintln(o.w, "No moves found")
		return
	}
	for i, w := range c.Candidates {
		fmt.Fprintf(o.w, "%3d. %-15s %4d  %s\n", i+1, w.Word, w.Score, w.Move)
	}
}

func (o *Output) printValidation(v response.Validation) {
	if v.Valid {
		fmt.Fprintln(o.w, "Board is valid")
	} else {
		fmt.Fprintf(o.w, "Board is invalid: %s\n", v.Error)
	}
	fmt.Fprintf(o.w, "Tiles: %d, groups: %d\n", v.TileCount, v.Groups)
	for _, w := range v.Words {
		fmt.Fprintf(o.w, "  %-15s %4d  %s\n", w.Word, w.Score, w.Move)
	}
	for _, w := range v.NonWords {
		fmt.Fprintf(o.w, "  %-15s  not a word  %s\n", w.Word, w.Move)
	}
}

func (o *Output) printSummary(s response.GameSummary) {
	fmt.Fprintf(o.w, "Game: %s (%d turns)\n", s.ID, s.Turns)
	for _, id := range slices.Sorted(maps.Keys(s.FinalScores)) {
		fmt.Fprintf(o.w, "  %s: %d\n", id, s.FinalScores[id])
	}
	if s.Winner != nil {
		fmt.Fprintf(o.w, "Winner: %s\n", *s.Winner)
	} else {
		fmt.Fprintln(o.w, "Tie")
	}
}

func (o *Output) printReport(r selfplay.Report) {
	for i, g := range r.Games {
		seats := slices.Sorted(maps.Keys(g.Scores))
		scores := make([]string, len(seats))
		for j, seat := range seats {
			scores[j] = fmt.Sprintf("%s=%d", seat, g.Scores[seat])
		}
		winner := g.Winner
		if winner == "" {
			winner = "tie"
		}
		fmt.Fprintf(o.w, "%3d. %s  winner %s  (%d turns, %s)\n", i+1, strings.Join(scores, " "), winner, g.Turns, g.Duration)
	}
	fmt.Fprintf(o.w, "\nGames: %d, ties: %d\n", len(r.Games), r.Ties)
	for _, seat := range slices.Sorted(maps.Keys(r.Mean)) {
		fmt.Fprintf(o.w, "  %-12s wins %3d  mean %.1f\n", seat, r.Wins[seat], r.Mean[seat])
	}
}
