/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ssargent/hoard/pkg/config"
	"github.com/ssargent/hoard/pkg/logging"
)

// skipConfigAnnotation marks commands that must run without loading a config file
const skipConfigAnnotation = "hoard/skip-config"

type contextKey string

const appKey contextKey = "app"

// app is the per-invocation state built by the root command
type app struct {
	cfg        *config.Config
	configPath string
	logger     *zap.Logger
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hoard",
	Short: "hoard - Valheim inventory decoder",
	Long: `hoard decodes the binary inventory blobs found in Valheim save exports.

Blobs can be decoded from the command line, summarised, kept as snapshots
in a local store, or served over a REST API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}
		cmd.SetContext(context.WithValue(cmd.Context(), appKey, a))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if a, ok := cmd.Context().Value(appKey).(*app); ok {
			_ = a.logger.Sync()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: OS-specific location)")
	rootCmd.PersistentFlags().StringP("data-dir", "d", "", "Data directory for the snapshot store")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
}

// loadApp resolves the configuration and builds the logger.
// An explicit --config must exist; the default path is used only if present.
func loadApp(cmd *cobra.Command) (*app, error) {
	configPath, _ := cmd.Flags().GetString("config")
	explicit := configPath != ""
	if !explicit {
		configPath = config.GetDefaultConfigPath()
	}

	cfg := config.DefaultConfig()
	if cmd.Annotations[skipConfigAnnotation] == "" && (explicit || config.ConfigExists(configPath)) {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if dataDir, _ := cmd.Flags().GetString("data-dir"); dataDir != "" {
		cfg.DataDir = dataDir
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		if _, err := logging.ParseLevel(level); err != nil {
			return nil, err
		}
		cfg.Logging.Level = level
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return &app{cfg: cfg, configPath: configPath, logger: logger}, nil
}

// appFrom returns the state stored by the root command
func appFrom(cmd *cobra.Command) *app {
	if a, ok := cmd.Context().Value(appKey).(*app); ok {
		return a
	}
	return &app{cfg: config.DefaultConfig(), configPath: config.GetDefaultConfigPath(), logger: zap.NewNop()}
}
