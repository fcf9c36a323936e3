package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pricewish/tracker/internal/sku"
	"github.com/pricewish/tracker/internal/types"
)

var (
	addURL      string
	addCountry  string
	addColor    string
	addSize     string
	addRegion   string
	addLinks    []string
	addRule     string
	addValue    float64
	addCurrency string
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add an item to the wishlist",
	Long: `Add an item to the wishlist by product URL or by name with attributes.
When a URL is given the title is optional and the domain is derived from the
URL. Attributes (color, size, region) are normalized before the item's sku
key is built, so equivalent spellings map to the same product.`,
	Example: `  tracker add "Sony WH-1000XM5" --rule absolute --value 250 --currency GBP
  tracker add "iPhone 15 Pro" --color Black --size "256 GB" --region "United Kingdom" --rule percentage --value 10
  tracker add --url https://store.example.com/widget --rule percentage --value 15`,
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringVar(&addURL, "url", "", "Product URL (url mode)")
	addCmd.Flags().StringVar(&addCountry, "country", "GB", "User country: GB, US or EU")
	addCmd.Flags().StringVar(&addColor, "color", "", "Color attribute")
	addCmd.Flags().StringVar(&addSize, "size", "", "Size attribute")
	addCmd.Flags().StringVar(&addRegion, "region", "", "Region attribute")
	addCmd.Flags().StringSliceVar(&addLinks, "link", nil, "Extra store links to watch (repeatable)")
	addCmd.Flags().StringVar(&addRule, "rule", "percentage", "Tracking rule: percentage or absolute")
	addCmd.Flags().Float64Var(&addValue, "value", 10, "Rule value: percent below average, or absolute price")
	addCmd.Flags().StringVar(&addCurrency, "currency", "", "Currency for absolute rules: GBP, USD or EUR")
}

func runAdd(cmd *cobra.Command, args []string) error {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" && addURL == "" {
		return fmt.Errorf("either a title or --url is required")
	}

	country, err := parseCountry(addCountry)
	if err != nil {
		return err
	}
	rule, err := parseRule(addRule, addValue, addCurrency)
	if err != nil {
		return err
	}

	input := sku.CreateInput{
		Title:   title,
		Country: country,
		Links:   addLinks,
		Rule:    rule,
	}
	if addURL != "" {
		input.Mode = types.InputTypeURL
		input.URL = addURL
	} else if addColor != "" || addSize != "" || addRegion != "" {
		input.Mode = types.InputTypeNameAttrs
		input.Attrs = &types.NormalisedAttributes{
			Color:  addColor,
			Size:   addSize,
			Region: addRegion,
		}
	} else {
		input.Mode = types.InputTypeName
	}

	item, err := items.AddBy(cmd.Context(), input)
	if err != nil {
		return fmt.Errorf("failed to add item: %w", err)
	}

	logger.Info().Str("id", item.ID).Str("sku_key", item.SkuKey).Msg("Item added")
	printItemTable([]types.Item{item})
	return nil
}

func parseCountry(raw string) (types.Country, error) {
	switch types.Country(strings.ToUpper(strings.TrimSpace(raw))) {
	case types.CountryGB:
		return types.CountryGB, nil
	case types.CountryUS:
		return types.CountryUS, nil
	case types.CountryEU:
		return types.CountryEU, nil
	}
	return "", fmt.Errorf("invalid country: %s (use GB, US or EU)", raw)
}

func parseRule(kind string, value float64, currency string) (types.TrackingRule, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "percentage":
		return types.PercentageBelowAvg(value), nil
	case "absolute":
		cur, err := parseCurrency(currency)
		if err != nil {
			return types.TrackingRule{}, err
		}
		return types.BelowAbsolute(cur, value), nil
	}
	return types.TrackingRule{}, fmt.Errorf("invalid rule: %s (use percentage or absolute)", kind)
}

func parseCurrency(raw string) (types.Currency, error) {
	switch types.Currency(strings.ToUpper(strings.TrimSpace(raw))) {
	case types.CurrencyGBP:
		return types.CurrencyGBP, nil
	case types.CurrencyUSD:
		return types.CurrencyUSD, nil
	case types.CurrencyEUR:
		return types.CurrencyEUR, nil
	}
	return "", fmt.Errorf("absolute rules need a currency: GBP, USD or EUR")
}
