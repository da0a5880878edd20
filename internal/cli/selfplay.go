package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mcoot/crosswordrobot/internal/config"
	"github.com/mcoot/crosswordrobot/internal/factory"
	"github.com/mcoot/crosswordrobot/internal/model"
	"github.com/mcoot/crosswordrobot/internal/services/selfplay"
)

func newSelfPlayCmd() *cobra.Command {
	var (
		configPath  string
		dictionary  string
		games       int
		concurrency int
		strategies  []string
		rules       model.GameConfig
	)

	cmd := &cobra.Command{
		Use:   "selfplay",
		Short: "Play robot-only games locally and report the scores",
		Long: `selfplay runs games between robot players in this process, without a
server. Settings are read from --config and CWROBOT_ environment variables
the same way the server reads them.`,
		Example: `  cwrobot selfplay --games 20 --strategy best --strategy weak -o yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if dictionary != "" {
				settings.Dictionary.Path = dictionary
			}

			level := slog.LevelWarn
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			app, err := factory.New(factory.ConfigFrom(settings, logger))
			if err != nil {
				return err
			}
			if err := app.DictionaryService.LoadFromFile(cmd.Context(), settings.Dictionary.Path); err != nil {
				return fmt.Errorf("loading dictionary: %w", err)
			}

			report, err := app.SelfPlay.Run(cmd.Context(), selfplay.Options{
				Games:       games,
				Concurrency: concurrency,
				Strategies:  strategies,
				Config:      rules,
			})
			if err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(*report)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", cfg.Settings, "Settings file, YAML, JSON or TOML (env: CWROBOT_CONFIG)")
	cmd.Flags().StringVarP(&dictionary, "dictionary", "d", "", "Word list, most common words first (overrides dictionary.path)")
	cmd.Flags().IntVarP(&games, "games", "g", 10, "Number of games")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Games played at once (default GOMAXPROCS)")
	cmd.Flags().StringArrayVarP(&strategies, "strategy", "s", []string{model.BotStrategyBest, model.BotStrategyWeak}, "Robot strategy per seat (repeatable)")
	gameConfigFlags(cmd, &rules)
	return cmd
}
