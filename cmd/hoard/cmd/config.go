/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ssargent/hoard/pkg/config"
)

// configCmd groups the configuration commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the hoard configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file with a generated API key",
	Long: `Create a configuration file with default settings and a freshly generated
API key. The file is written with 0600 permissions.

Examples:
  hoard config init
  hoard config init --config ./hoard.yaml --data-dir ./data --print-key`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipConfigAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)
		force, _ := cmd.Flags().GetBool("force")
		printKey, _ := cmd.Flags().GetBool("print-key")

		if config.ConfigExists(a.configPath) && !force {
			return fmt.Errorf("config already exists at %s (use --force to overwrite)", a.configPath)
		}

		dataDir, _ := cmd.Flags().GetString("data-dir")
		cfg, err := config.BootstrapConfig(a.configPath, dataDir)
		if err != nil {
			return err
		}

		cmd.Printf("Configuration created at %s\n", a.configPath)
		if printKey {
			cmd.Printf("API key: %s\n", cfg.Server.APIKey)
		}
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := *appFrom(cmd).cfg
		if reveal, _ := cmd.Flags().GetBool("reveal"); !reveal && cfg.Server.APIKey != "" {
			cfg.Server.APIKey = "********"
		}

		data, err := yaml.Marshal(&cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configShowCmd)

	configInitCmd.Flags().Bool("force", false, "Overwrite an existing config file")
	configInitCmd.Flags().Bool("print-key", false, "Print the generated API key")
	configShowCmd.Flags().Bool("reveal", false, "Show the API key instead of masking it")
}
