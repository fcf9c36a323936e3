package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// healthCmd represents the health command
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the item API server",
	RunE:  runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, args []string) error {
	resp, err := client.Health(cmd.Context())
	if err != nil {
		return fmt.Errorf("server unreachable: %w", err)
	}

	fmt.Printf("ok: %v, version: %s\n", resp.OK, resp.Version)
	return nil
}
