package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pricewish/tracker/internal/api"
)

// refreshCmd represents the refresh command
var refreshCmd = &cobra.Command{
	Use:   "refresh [id...]",
	Short: "Refresh tracked prices",
	Long: `Ask the server to reprice tracked items and merge the returned updates into
the local list. With no arguments every item is refreshed; pass ids to limit
the scope. In Demo Mode only the last-checked timestamps move.`,
	RunE: runRefresh,
}

// dropCmd represents the simulate-drop command
var dropCmd = &cobra.Command{
	Use:   "simulate-drop <id>",
	Short: "Simulate a price drop for an item",
	Long: `Force a price drop on a tracked item to exercise the alert path. The item
is repriced just below its rule threshold and flips to ALERTED.`,
	Args: cobra.ExactArgs(1),
	RunE: runSimulateDrop,
}

func init() {
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(dropCmd)
}

func runRefresh(cmd *cobra.Command, args []string) error {
	items.Bootstrap(cmd.Context())

	if err := items.RefreshPrices(cmd.Context(), args...); err != nil {
		if errors.Is(err, api.ErrTimeout) {
			return fmt.Errorf("refresh timed out: %w", err)
		}
		return fmt.Errorf("refresh failed: %w", err)
	}

	logger.Info().Int("items", len(items.Items())).Msg("Prices refreshed")
	printItemTable(items.Items())
	return nil
}

func runSimulateDrop(cmd *cobra.Command, args []string) error {
	id := args[0]

	items.Bootstrap(cmd.Context())
	item, err := items.SimulateDrop(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("simulate drop failed: %w", err)
	}

	logger.Info().
		Str("id", item.ID).
		Str("status", string(item.Status)).
		Msg("Price drop simulated")
	printItemTable(items.Items())
	return nil
}
