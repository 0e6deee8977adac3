package main

import (
	"strings"

	"lowvie/internal/app"
	"lowvie/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCmd() *cobra.Command {
	var (
		port       string
		backendURL string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web client",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if port != "" {
				cfg.Server.Port = port
			}
			if backendURL != "" {
				cfg.Backend.BaseURL = strings.TrimRight(backendURL, "/")
			}

			appLogger := logger.Get()
			appLogger.Info("Starting Lowvie web client",
				zap.String("backend", cfg.Backend.BaseURL),
				zap.String("alternatives", cfg.Alternatives.Source),
				zap.String("email_drafts", cfg.Email.DraftStrategy),
				zap.Duration("min_loading", cfg.Workflow.MinLoading),
			)

			a, err := app.New(cfg, appLogger)
			if err != nil {
				return err
			}
			return a.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides SERVER_PORT)")
	cmd.Flags().StringVar(&backendURL, "backend", "", "analysis backend base URL (overrides BACKEND_URL)")
	return cmd
}
