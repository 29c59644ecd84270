package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jaminalder/hidden-ring-tictactoe/internal/app"
	"github.com/jaminalder/hidden-ring-tictactoe/internal/config"
	"github.com/jaminalder/hidden-ring-tictactoe/internal/web"
)

func newServeCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the puzzle over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := cfg.Logger(os.Stderr)
			slog.SetDefault(logger)

			svc := app.NewService(cfg.ServiceOptions(logger))
			handler := web.NewServer(svc, logger)

			serverConfig := web.DefaultServerConfig()
			serverConfig.Addr = cfg.Addr
			server := web.NewHTTPServer(handler, serverConfig, logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.Start()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				logger.Info("shutdown signal received")
				return server.Shutdown(context.Background())
			}
		},
	}
	cmd.Flags().StringVar(&cfg.Addr, "addr", cfg.Addr, "Listen address (env: PUZZLE_ADDR)")
	cmd.Flags().DurationVar(&cfg.CPUDelay, "cpu-delay", cfg.CPUDelay, "Pause before the computer replies (env: PUZZLE_CPU_DELAY)")
	cmd.Flags().DurationVar(&cfg.NoticeTTL, "notice-ttl", cfg.NoticeTTL, "How long transient notices stay up (env: PUZZLE_NOTICE_TTL)")
	return cmd
}
