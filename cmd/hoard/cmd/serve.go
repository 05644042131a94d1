/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ssargent/hoard/pkg/api"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the hoard REST API server.

The server decodes blobs and save documents posted to it and exposes the
snapshot store. Routes under /api/v1 require the X-API-Key header when an
API key is configured; Prometheus metrics are served on /metrics.

Examples:
  hoard serve
  hoard serve --port 9000 --api-key mysecretkey
  hoard serve --config ./hoard.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)
		cfg := a.cfg

		if cmd.Flags().Changed("port") {
			cfg.Server.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("bind") {
			cfg.Server.Bind, _ = cmd.Flags().GetString("bind")
		}
		if cmd.Flags().Changed("api-key") {
			cfg.Server.APIKey, _ = cmd.Flags().GetString("api-key")
		}
		if cfg.Server.APIKey == "" {
			a.logger.Warn("no API key configured, authentication is disabled")
		}

		store, err := openSnapshotStore(a)
		if err != nil {
			return err
		}
		defer store.Close()

		return api.StartServer(cmd.Context(), store, api.ServerConfig{
			Bind:            cfg.Server.Bind,
			Port:            cfg.Server.Port,
			APIKey:          cfg.Server.APIKey,
			BlobKeys:        cfg.Decode.BlobKeys,
			DamageThreshold: cfg.Decode.DamageThreshold,
		}, a.logger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on (default from config)")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind server to (default from config)")
	serveCmd.Flags().String("api-key", "", "API key for authentication (default from config)")
}
