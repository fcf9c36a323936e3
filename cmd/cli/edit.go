package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	editRule     string
	editValue    float64
	editCurrency string
)

// editCmd represents the edit-rule command
var editCmd = &cobra.Command{
	Use:   "edit-rule <id>",
	Short: "Change an item's tracking rule",
	Long: `Change the tracking rule of an existing item. The new rule is applied
locally first and then pushed to the server.`,
	Example: `  tracker edit-rule item-1 --rule absolute --value 199.99 --currency USD
  tracker edit-rule item-1 --rule percentage --value 20`,
	Args: cobra.ExactArgs(1),
	RunE: runEditRule,
}

func init() {
	rootCmd.AddCommand(editCmd)

	editCmd.Flags().StringVar(&editRule, "rule", "", "Tracking rule: percentage or absolute")
	editCmd.Flags().Float64Var(&editValue, "value", 0, "Rule value: percent below average, or absolute price")
	editCmd.Flags().StringVar(&editCurrency, "currency", "", "Currency for absolute rules: GBP, USD or EUR")
	editCmd.MarkFlagRequired("rule")
	editCmd.MarkFlagRequired("value")
}

func runEditRule(cmd *cobra.Command, args []string) error {
	id := args[0]

	rule, err := parseRule(editRule, editValue, editCurrency)
	if err != nil {
		return err
	}

	items.Bootstrap(cmd.Context())
	if err := items.EditTrackingRule(cmd.Context(), id, rule); err != nil {
		return fmt.Errorf("failed to update tracking rule: %w", err)
	}

	logger.Info().Str("id", id).Str("rule", formatRule(rule)).Msg("Tracking rule updated")
	return nil
}
