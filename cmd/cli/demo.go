package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// demoCmd represents the demo command
var demoCmd = &cobra.Command{
	Use:   "demo <on|off>",
	Short: "Enable or disable Demo Mode",
	Long: `Toggle Demo Mode. While enabled, mutations stay local and never reach the
server, which keeps the tool usable offline. The flag is persisted across
runs.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE:      runDemo,
}

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo item fixtures",
	RunE:  runSeed,
}

// resetCmd represents the reset command
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear all local items and the persisted snapshot",
	RunE:  runReset,
}

func init() {
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(resetCmd)
}

func runDemo(cmd *cobra.Command, args []string) error {
	switch args[0] {
	case "on":
		items.SetDemoMode(true)
		logger.Info().Msg("Demo Mode enabled")
	case "off":
		items.SetDemoMode(false)
		logger.Info().Msg("Demo Mode disabled")
	default:
		return fmt.Errorf("invalid argument: %s (use 'on' or 'off')", args[0])
	}
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	items.SeedDemo()
	logger.Info().Int("items", len(items.Items())).Msg("Demo items seeded")
	printItemTable(items.Items())
	return nil
}

func runReset(cmd *cobra.Command, args []string) error {
	items.ResetDemo()
	logger.Info().Msg("Local items cleared")
	return nil
}
