package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cosmozoom/tilegate/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		table, err := cfg.ProfileTable()
		if err != nil {
			return err
		}

		fmt.Printf("%s: OK\n", cfgFile)
		fmt.Printf("listen address: %s\n", cfg.Addr())
		for _, id := range table.IDs() {
			p, _ := table.Lookup(id)
			fmt.Printf("  %-8s zoom 0-%-2d timeout %-4s %s\n", id, p.MaxZoom, p.Timeout, p.UpstreamBaseURL)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
