package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "tilegate",
	Short: "Proxy for NASA GIBS and Trek WMTS imagery tiles",
	Long: `Tilegate is a validating proxy for celestial-body map tiles.

It fronts the NASA GIBS (Earth) and Trek (Moon, Mars, Mercury) WMTS
services, validates tile coordinates before any upstream call, and
republishes tiles with caching headers and structured errors.

Quick start:
  tilegate serve              # start with defaults on :8000
  tilegate serve -c tilegate.yaml

Checks:
  tilegate validate           # validate the configuration file
  tilegate version            # print build information`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "tilegate.yaml", "config file path")
}
