package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cosmozoom/tilegate/bootstrap"
)

var hotReload bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the tile proxy server",
	Long: `Start the tilegate proxy server.

The server loads tilegate.yaml (or --config) when present and falls
back to built-in defaults plus TILEGATE_* environment variables.

Environment variables:
  TILEGATE_PORT              - listen port (default: 8000)
  TILEGATE_LOG_LEVEL         - debug, info, warn, error
  TILEGATE_CORS_ORIGINS      - comma-separated allowed origins
  TILEGATE_METRICS_ENABLED   - expose Prometheus metrics
  TILEGATE_<BODY>_BASE_URL   - per-body upstream override
  TILEGATE_<BODY>_MAX_ZOOM   - per-body zoom ceiling override

Examples:
  tilegate serve
  tilegate serve --config /etc/tilegate/config.yaml
  TILEGATE_MARS_MAX_ZOOM=10 tilegate serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&hotReload, "hot-reload", true, "reload configuration on file change or SIGHUP")
}

func runServe(cmd *cobra.Command, args []string) error {
	app, err := bootstrap.New(bootstrap.Options{
		ConfigPath: cfgFile,
		Watch:      hotReload,
		Version:    version,
	})
	if err != nil {
		return fmt.Errorf("error initializing: %w", err)
	}
	return app.Run()
}
