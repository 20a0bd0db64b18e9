package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bobmcallan/graphql-mcp/internal/app"
	"github.com/bobmcallan/graphql-mcp/internal/common"
	"github.com/bobmcallan/graphql-mcp/internal/config"
	"github.com/bobmcallan/graphql-mcp/internal/server"
	"github.com/spf13/cobra"
)

var (
	configFiles   []string
	flagTransport string
	flagPort      int
	flagEndpoint  string
)

// rootCmd loads configuration and serves MCP.
var rootCmd = &cobra.Command{
	Use:           "graphql-mcp",
	Short:         "GraphQL MCP server with saved query tools",
	Long:          "graphql-mcp exposes a GraphQL endpoint to MCP clients and lets them save parameterized queries as new tools.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

// Execute runs the root command and exits on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	common.LoadVersionFromFile()
	rootCmd.Version = common.GetFullVersion()

	rootCmd.Flags().StringArrayVarP(&configFiles, "config", "c", nil, "Configuration file path (can be specified multiple times)")
	rootCmd.Flags().StringVarP(&flagTransport, "transport", "t", "", "Transport: stdio or http (overrides config)")
	rootCmd.Flags().IntVarP(&flagPort, "port", "p", 0, "HTTP port (overrides config)")
	rootCmd.Flags().StringVarP(&flagEndpoint, "endpoint", "e", "", "GraphQL endpoint URL (overrides config)")

	rootCmd.AddCommand(versionCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if len(configFiles) == 0 {
		for _, path := range configSearchPaths() {
			if _, err := os.Stat(path); err == nil {
				configFiles = append(configFiles, path)
				break
			}
		}
	}

	cfg, err := config.LoadFromFiles(configFiles...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	config.ApplyFlagOverrides(cfg, flagTransport, flagPort, flagEndpoint)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := common.NewLoggerFromConfig(cfg.Logging)
	logger.Info().
		Str("transport", cfg.Server.Transport).
		Str("endpoint", cfg.GraphQL.Endpoint).
		Str("config_files", fmt.Sprintf("%v", configFiles)).
		Msg("configuration loaded")

	application, err := app.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Error().Err(err).Msg("application shutdown failed")
		}
	}()

	if strings.ToLower(cfg.Server.Transport) == "stdio" {
		logger.Info().Msg("serving MCP over stdio")
		if err := application.MCPHandler.ServeStdio(); err != nil {
			return fmt.Errorf("stdio server failed: %w", err)
		}
		return nil
	}

	return serveHTTP(application, logger)
}

func serveHTTP(application *app.App, logger *common.Logger) error {
	srv := server.New(application)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case <-sigChan:
		logger.Info().Msg("shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	logger.Info().Msg("server stopped")
	return nil
}
