package cli

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/crosswordrobot/internal/api/request"
	"github.com/mcoot/crosswordrobot/internal/api/response"
	"github.com/mcoot/crosswordrobot/internal/model"
)

// boardFlags locate a text board: rows from --row, or from a file
type boardFlags struct {
	rows     []string
	file     string
	topology string
	size     int
}

func (b *boardFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&b.rows, "row", nil, "Board row, '.' for empty and lower case for blanks (repeatable)")
	cmd.Flags().StringVarP(&b.file, "board", "b", "", "File holding board rows, '-' for stdin")
	cmd.Flags().StringVar(&b.topology, "topology", "", "Board topology: bounded, unbounded, toroidal")
	cmd.Flags().IntVar(&b.size, "size", 0, "Board side length (default taken from the rows)")
}

func (b *boardFlags) load(stdin io.Reader) ([]string, error) {
	if b.file == "" {
		return b.rows, nil
	}
	if len(b.rows) > 0 {
		return nil, errors.New("use either --row or --board, not both")
	}
	var (
		data []byte
		err  error
	)
	if b.file == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(b.file)
	}
	if err != nil {
		return nil, err
	}
	return parseRows(string(data)), nil
}

// parseRows splits a text board into rows, dropping trailing blank lines
// and '#' comments
func parseRows(text string) []string {
	var rows []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.HasPrefix(line, "#") {
			continue
		}
		rows = append(rows, line)
	}
	for len(rows) > 0 && strings.TrimSpace(rows[len(rows)-1]) == "" {
		rows = rows[:len(rows)-1]
	}
	return rows
}

func newSolveCmd() *cobra.Command {
	var (
		board      boardFlags
		rack       string
		layout     string
		limit      int
		vocabulary int
	)

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Rank the moves a rack can make on a board",
		Example: `  cwrobot solve --rack STARE?
  cwrobot solve --board board.txt --rack QUIZ --limit 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := board.load(cmd.InOrStdin())
			if err != nil {
				return err
			}
			req := request.SolveRequest{
				Topology:        model.Topology(board.topology),
				Size:            board.size,
				BonusLayout:     layout,
				Rows:            rows,
				Rack:            rack,
				Limit:           limit,
				VocabularyLimit: vocabulary,
			}
			if len(rows) == 0 && req.Size == 0 {
				req.Size = model.DefaultGameConfig().BoardSize
			}

			var result response.Candidates
			if err := client.Post("/api/v1/solve", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	board.bind(cmd)
	cmd.Flags().StringVarP(&rack, "rack", "r", "", "Rack letters, '?' for a blank")
	cmd.Flags().StringVar(&layout, "layout", "", "Bonus square layout")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum suggestions (0 for all)")
	cmd.Flags().IntVar(&vocabulary, "vocabulary", 0, "Only use the N most common words (0 for all)")
	_ = cmd.MarkFlagRequired("rack")
	return cmd
}

func newValidateCmd() *cobra.Command {
	var board boardFlags

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the words and connectivity of a text board",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := board.load(cmd.InOrStdin())
			if err != nil {
				return err
			}
			req := request.ValidateRequest{
				Topology: model.Topology(board.topology),
				Size:     board.size,
				Rows:     rows,
			}

			var result response.Validation
			if err := client.Post("/api/v1/validate", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	board.bind(cmd)
	return cmd
}
