package cli

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/crosswordrobot/internal/api/request"
	"github.com/mcoot/crosswordrobot/internal/api/response"
	"github.com/mcoot/crosswordrobot/internal/model"
	"github.com/mcoot/crosswordrobot/internal/services/game"
)

var errNoPlayer = errors.New("a player id is required (--player or CWROBOT_PLAYER)")

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(newGameCreateCmd())
	cmd.AddCommand(newGameListCmd())
	cmd.AddCommand(newGameGetCmd())
	cmd.AddCommand(newGamePlayCmd())
	cmd.AddCommand(newGamePassCmd())
	cmd.AddCommand(newGameHintCmd())
	cmd.AddCommand(newGameValidateCmd())
	cmd.AddCommand(newGameSummaryCmd())
	cmd.AddCommand(newGameDeleteCmd())

	return cmd
}

// parseSeat reads "Alice" as a human seat and "bot", "bot:weak" or
// "bot:weak:Robbie" as a robot seat
func parseSeat(s string) game.PlayerSpec {
	parts := strings.SplitN(s, ":", 3)
	if parts[0] != "bot" {
		return game.PlayerSpec{DisplayName: s}
	}
	spec := game.PlayerSpec{Bot: true}
	if len(parts) > 1 {
		spec.Strategy = parts[1]
	}
	if len(parts) > 2 {
		spec.DisplayName = parts[2]
	}
	return spec
}

// gameConfigFlags binds the rule flags shared by game create and selfplay
func gameConfigFlags(cmd *cobra.Command, c *model.GameConfig) {
	cmd.Flags().StringVar((*string)(&c.Topology), "topology", "", "Board topology: bounded, unbounded, toroidal")
	cmd.Flags().IntVar(&c.BoardSize, "size", 0, "Board side length (default 15)")
	cmd.Flags().StringVar((*string)(&c.BoardMode), "board-mode", "", "Board mode: shared, private")
	cmd.Flags().StringVar((*string)(&c.PileMode), "pile-mode", "", "Pile mode: shared, private")
	cmd.Flags().IntVar(&c.RackSize, "rack-size", 0, "Tiles per rack (default 7)")
	cmd.Flags().IntVar(&c.MaxConsecutivePasses, "passes", 0, "Consecutive passes that end the game (default 6)")
	cmd.Flags().StringVar(&c.BonusLayout, "layout", "", "Bonus square layout")
	cmd.Flags().StringVar(&c.TileSet, "tile-set", "", "Tile set name")
}

func newGameCreateCmd() *cobra.Command {
	var (
		seats  []string
		config model.GameConfig
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new game",
		Example: `  cwrobot game create --seat Alice --seat bot:best
  cwrobot game create --seat bot:weak --seat bot:oneofn --size 11`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(seats) == 0 {
				return errors.New("at least one --seat is required")
			}
			req := request.CreateGameRequest{Config: config}
			for _, s := range seats {
				req.Players = append(req.Players, parseSeat(s))
			}

			var result response.GameWithBots
			if err := client.Post("/api/v1/games", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&seats, "seat", nil, "Seat in turn order: a display name, or bot[:strategy[:name]]")
	gameConfigFlags(cmd, &config)
	return cmd
}

func newGameListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List game ids",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.GameList
			if err := client.Get("/api/v1/games", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newGameGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get game state, including your rack when --player is set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/games/" + url.PathEscape(args[0])
			if cfg.Player != "" {
				path += "?player=" + url.QueryEscape(cfg.Player)
			}

			var result response.Game
			if err := client.Get(path, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newGamePlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "play <id> <col:row:H|V:WORD>",
		Short:   "Play a word",
		Example: `  cwrobot game play 3f2a... 7:7:H:CAT --player 91bc...`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Player == "" {
				return errNoPlayer
			}
			if _, err := model.ParseMove(args[1]); err != nil {
				return err
			}

			req := request.MoveRequest{PlayerID: cfg.Player, Move: args[1]}
			var result response.MoveResponse
			if err := client.Post(fmt.Sprintf("/api/v1/games/%s/moves", url.PathEscape(args[0])), req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newGamePassCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pass <id>",
		Short: "Pass the turn",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Player == "" {
				return errNoPlayer
			}

			req := request.PassRequest{PlayerID: cfg.Player}
			var result response.GameWithBots
			if err := client.Post(fmt.Sprintf("/api/v1/games/%s/pass", url.PathEscape(args[0])), req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newGameHintCmd() *cobra.Command {
	var limit, vocabulary int

	cmd := &cobra.Command{
		Use:   "hint <id>",
		Short: "Suggest moves for your rack, best first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Player == "" {
				return errNoPlayer
			}

			q := url.Values{}
			q.Set("player", cfg.Player)
			q.Set("limit", strconv.Itoa(limit))
			q.Set("vocabulary_limit", strconv.Itoa(vocabulary))

			var result response.Candidates
			path := fmt.Sprintf("/api/v1/games/%s/hint?%s", url.PathEscape(args[0]), q.Encode())
			if err := client.Get(path, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum suggestions (0 for all)")
	cmd.Flags().IntVar(&vocabulary, "vocabulary", 0, "Only use the N most common words (0 for all)")
	return cmd
}

func newGameValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <id>",
		Short: "Check the words and connectivity of a game board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/games/%s/validate", url.PathEscape(args[0]))
			if cfg.Player != "" {
				path += "?player=" + url.QueryEscape(cfg.Player)
			}

			var result response.Validation
			if err := client.Get(path, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newGameSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary <id>",
		Short: "Show the final scores of a completed game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.GameSummary
			if err := client.Get(fmt.Sprintf("/api/v1/games/%s/summary", url.PathEscape(args[0])), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newGameDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/games/" + url.PathEscape(args[0])); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage("Game deleted")
			return nil
		},
	}
}
