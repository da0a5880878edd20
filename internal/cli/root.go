package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "cwrobot",
		Short: "CLI tool for the crossword robot API",
		Long: `cwrobot talks to the crossword robot JSON API.

It can create and play games against robot players, ask for ranked move
suggestions, check arbitrary boards, and run robot-only self-play batches
locally.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var trace io.Writer
			if cfg.Verbose {
				trace = cmd.ErrOrStderr()
			}
			client = NewClient(cfg.ServerURL, trace)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: CWROBOT_SERVER)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Player, "player", "p", cfg.Player, "Player id to act as (env: CWROBOT_PLAYER)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json, yaml")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newGameCmd())
	rootCmd.AddCommand(newSolveCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newSelfPlayCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
