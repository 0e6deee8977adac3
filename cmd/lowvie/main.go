package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"lowvie/pkg/config"
	"lowvie/pkg/logger"

	"github.com/spf13/cobra"
)

// @title Lowvie API
// @version 1.0
// @description Receipt analysis demo client: page workflow state and account-link event relay
// @host localhost:3000
// @BasePath /

var (
	version = "dev"
	cfg     *config.Config
	rootCmd = &cobra.Command{
		Use:               "lowvie",
		Short:             "Receipt analysis demo client",
		Long:              "Lowvie parses a receipt into expenses, finds cheaper suppliers and drafts negotiation emails.",
		SilenceUsage:      true,
		PersistentPreRunE: initConfig,
	}
)

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error); overrides LOG_LEVEL")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(mockBackendCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logger.Sync()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logger.Level = level
	}
	if err := logger.Init(cfg.Logger.Level); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "lowvie", version)
		},
	}
}
