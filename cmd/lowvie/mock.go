package main

import (
	"fmt"
	"time"

	"lowvie/internal/alternatives"
	"lowvie/internal/email"
	"lowvie/internal/mockapi"
	"lowvie/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func mockBackendCmd() *cobra.Command {
	var (
		port  string
		delay time.Duration
	)

	cmd := &cobra.Command{
		Use:   "mock-backend",
		Short: "Serve the analysis backend endpoints with demo data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if port == "" {
				port = cfg.Mock.Port
			}
			if !cmd.Flags().Changed("delay") {
				delay = cfg.Mock.Delay
			}

			appLogger := logger.Named("mockapi")

			catalog, err := alternatives.NewCatalog()
			if err != nil {
				return fmt.Errorf("failed to load alternatives catalog: %w", err)
			}
			drafter := email.NewTemplateDrafter(email.NewTemplates(cfg.Email.Signature))
			server := mockapi.NewServer(catalog, drafter, delay, appLogger).App()

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				addr := ":" + port
				appLogger.Info("Mock backend starting", zap.String("address", addr), zap.Duration("delay", delay))
				return server.Listen(addr)
			})
			g.Go(func() error {
				<-ctx.Done()
				return server.Shutdown()
			})
			return g.Wait()
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides MOCK_PORT)")
	cmd.Flags().DurationVar(&delay, "delay", 0, "artificial latency per request (overrides MOCK_DELAY)")
	return cmd
}
