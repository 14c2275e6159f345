package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iwvelando/housing-calculator/internal/buildinfo"
	"github.com/iwvelando/housing-calculator/internal/logging"
	"github.com/iwvelando/housing-calculator/internal/server"
	"github.com/iwvelando/housing-calculator/internal/storage"
	"github.com/iwvelando/housing-calculator/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCommand(a *app) *cobra.Command {
	var (
		serverConfigPath string
		address          string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the comparison and saved-scenario HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			srvCfg, err := server.LoadConfig(serverConfigPath)
			if err != nil {
				return err
			}
			if flagChanged(cmd, "address") {
				srvCfg.Address = address
			}

			logger := a.logger
			if srvCfg.Logging.Level != "" || srvCfg.Logging.Format != "" || srvCfg.Logging.OutputFile != "" {
				logger, err = logging.New(srvCfg.Logging, a.logLevel)
				if err != nil {
					return fmt.Errorf("initializing server logger: %w", err)
				}
				defer func() {
					_ = logger.Sync()
				}()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServer(ctx, logger, a, srvCfg)
		},
	}

	cmd.Flags().StringVar(&serverConfigPath, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	cmd.Flags().StringVar(&address, "address", "", "listen address override (e.g. :8080)")

	return cmd
}

func runServer(ctx context.Context, logger *zap.Logger, a *app, srvCfg *server.Config) error {
	repo, closeStore, err := storage.Open(ctx, a.conf.Storage, logger)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("failed to close storage",
				zap.String("op", "commands.serve"),
				zap.Error(err),
			)
		}
	}()

	var limiter *server.RateLimiter
	if srvCfg.RateLimit.Requests > 0 {
		limiter = server.NewRateLimiter(srvCfg.RateLimit.Requests, srvCfg.RateLimitWindow())
		defer limiter.Stop()
	}

	handler := server.NewHandler(logger, repo, srvCfg.BodySizeBytes(), buildinfo.Version, limiter)
	return server.ListenAndServe(ctx, logger, srvCfg.Address, handler)
}
