package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jaminalder/hidden-ring-tictactoe/internal/config"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cfg, envErr := config.FromEnv()

	rootCmd := &cobra.Command{
		Use:   "puzzle",
		Short: "A tic-tac-toe board with a hidden ring",
		Long: `puzzle serves a gated tic-tac-toe puzzle. The computer opens in the centre
of a 3x3 board that sits inside a hidden 5x5 ring; when the visible board
ties, the ring may still hold a winning move.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envErr != nil {
				return envErr
			}
			return cfg.Validate()
		},
		SilenceUsage: true,
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfg.UnlockCode, "code", cfg.UnlockCode, "Access code (env: PUZZLE_CODE)")
	flags.StringVar(&cfg.Strategy, "strategy", cfg.Strategy, "Computer fallback: heuristic, minimax, sequential (env: PUZZLE_STRATEGY)")
	flags.BoolVar(&cfg.RevealOnTie, "reveal-on-tie", cfg.RevealOnTie, "Show the ring when the game ties (env: PUZZLE_REVEAL_ON_TIE)")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error (env: PUZZLE_LOG_LEVEL)")
	flags.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: text, json (env: PUZZLE_LOG_FORMAT)")

	rootCmd.AddCommand(newServeCmd(&cfg))
	rootCmd.AddCommand(newPlayCmd(&cfg))

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
