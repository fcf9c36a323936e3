package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// removeCmd represents the remove command
var removeCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a tracked item",
	Long: `Remove an item from the wishlist. The item disappears locally right away;
a failed server delete is logged and does not bring the item back.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	id := args[0]

	items.Bootstrap(cmd.Context())
	if _, ok := items.Item(id); !ok {
		return fmt.Errorf("no tracked item with id %s", id)
	}

	items.RemoveItem(cmd.Context(), id)
	logger.Info().Str("id", id).Msg("Item removed")
	return nil
}
