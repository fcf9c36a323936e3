package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pricewish/tracker/internal/types"
)

var listOutput string

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked items",
	Long: `List all tracked items. The list is fetched from the server first; when the
server cannot be reached the last persisted snapshot is shown, and with no
snapshot available the store degrades to Demo Mode.

Output can be formatted as a human-readable table (default) or JSON.`,
	Example: `  tracker list
  tracker list --output json`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listOutput, "output", "table", "Output format: table or json")
}

func runList(cmd *cobra.Command, args []string) error {
	items.Bootstrap(cmd.Context())

	tracked := items.Items()
	if items.DemoMode() {
		logger.Info().Msg("Demo Mode is enabled")
	}

	switch strings.ToLower(listOutput) {
	case "json":
		return outputItemsJSON(tracked)
	case "table":
		printItemTable(tracked)
	default:
		return fmt.Errorf("invalid output format: %s (use 'table' or 'json')", listOutput)
	}
	return nil
}

func outputItemsJSON(tracked []types.Item) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(tracked)
}

func printItemTable(tracked []types.Item) {
	if len(tracked) == 0 {
		fmt.Println("No tracked items")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tCURRENT\tTARGET\tRULE\tDOMAIN")
	for _, item := range tracked {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			item.ID,
			item.Title,
			item.Status,
			formatPrice(item.CurrentPrice),
			formatPrice(item.TargetPrice),
			formatRule(item.TrackingRule),
			item.Domain,
		)
	}
	w.Flush()
}

func formatPrice(p *float64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *p)
}

func formatRule(rule types.TrackingRule) string {
	if rule.Type == types.RuleBelowAbsolute {
		return fmt.Sprintf("<= %.2f %s", rule.Value, rule.Currency)
	}
	return fmt.Sprintf("%.0f%% below avg", rule.Value)
}
