package types

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// InputType represents how an item was added
type InputType string

const (
	InputTypeURL       InputType = "url"
	InputTypeName      InputType = "name"
	InputTypeNameAttrs InputType = "name+attrs"
)

// Country represents a supported user country
type Country string

const (
	CountryGB Country = "GB"
	CountryUS Country = "US"
	CountryEU Country = "EU"
)

// Currency represents a supported alert currency
type Currency string

const (
	CurrencyGBP Currency = "GBP"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

// ItemStatus represents the tracking state of an item
type ItemStatus string

const (
	StatusTracking ItemStatus = "TRACKING"
	StatusAlerted  ItemStatus = "ALERTED"
	StatusError    ItemStatus = "ERROR"
)

// Tracking rule variants
const (
	RulePercentageBelowAvg = "percentage_below_avg"
	RuleBelowAbsolute      = "below_absolute"
)

// NormalisedAttributes holds canonical optional product attributes.
// Fields are either absent or non-empty trimmed strings in canonical form.
type NormalisedAttributes struct {
	Size   string `json:"size,omitempty"`
	Color  string `json:"color,omitempty"`
	Region string `json:"region,omitempty"`
}

// IsZero reports whether no attribute survived normalization
func (a NormalisedAttributes) IsZero() bool {
	return a.Size == "" && a.Color == "" && a.Region == ""
}

// TrackingRule is a tagged union: exactly one variant is active, selected
// by Type. Currency is only meaningful for the below_absolute variant.
type TrackingRule struct {
	Type     string   `json:"type"`
	Value    float64  `json:"value"`
	Currency Currency `json:"currency,omitempty"`
}

// PercentageBelowAvg builds a percentage-below-average rule
func PercentageBelowAvg(value float64) TrackingRule {
	return TrackingRule{Type: RulePercentageBelowAvg, Value: value}
}

// BelowAbsolute builds an absolute price threshold rule
func BelowAbsolute(currency Currency, value float64) TrackingRule {
	return TrackingRule{Type: RuleBelowAbsolute, Value: value, Currency: currency}
}

// UnmarshalJSON rejects unknown variants and absolute rules without a currency
func (r *TrackingRule) UnmarshalJSON(data []byte) error {
	type alias TrackingRule
	var raw alias
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.Type {
	case RulePercentageBelowAvg:
		raw.Currency = ""
	case RuleBelowAbsolute:
		if raw.Currency == "" {
			return fmt.Errorf("tracking rule %q requires a currency", raw.Type)
		}
	default:
		return fmt.Errorf("unknown tracking rule type %q", raw.Type)
	}
	*r = TrackingRule(raw)
	return nil
}

// PricePoint is a single entry in an item's price history
type PricePoint struct {
	TS    time.Time `json:"ts"`
	Price float64   `json:"price"`
}

// Item is a tracked product. The item store owns the authoritative
// in-memory copy; the remote API is the source of truth outside demo mode.
type Item struct {
	ID               string                `json:"id"`
	Title            string                `json:"title"`
	URL              string                `json:"url,omitempty"`
	Image            string                `json:"image,omitempty"`
	Domain           string                `json:"domain"`
	InputType        InputType             `json:"input_type"`
	UserCountry      Country               `json:"user_country"`
	Attributes       *NormalisedAttributes `json:"attributes,omitempty"`
	Links            []string              `json:"links"`
	TrackingRule     TrackingRule          `json:"tracking_rule"`
	Status           ItemStatus            `json:"status"`
	InitialPrice     *float64              `json:"initial_price,omitempty"`
	CurrentPrice     *float64              `json:"current_price,omitempty"`
	TargetPrice      *float64              `json:"target_price,omitempty"`
	LowestPriceToday *float64              `json:"lowest_price_today,omitempty"`
	LowestPriceStore string                `json:"lowest_price_store,omitempty"`
	LowestPriceURL   string                `json:"lowest_price_url,omitempty"`
	LastChecked      *time.Time            `json:"last_checked,omitempty"`
	History          []PricePoint          `json:"history,omitempty"`
	SkuKey           string                `json:"sku_key,omitempty"`
	CreatedAt        *time.Time            `json:"created_at,omitempty"`
}

// CreatePayload is the body of POST /items
type CreatePayload struct {
	Title        string                `json:"title"`
	UserCountry  Country               `json:"user_country"`
	Links        []string              `json:"links"`
	Attributes   *NormalisedAttributes `json:"attributes,omitempty"`
	TrackingRule TrackingRule          `json:"tracking_rule"`
	SkuKey       string                `json:"sku_key"`
	InputType    InputType             `json:"input_type"`
	URL          string                `json:"url,omitempty"`
}

// ItemPatch carries partial item fields for PATCH /items/:id
type ItemPatch struct {
	Title        *string       `json:"title,omitempty"`
	TrackingRule *TrackingRule `json:"tracking_rule,omitempty"`
	Status       *ItemStatus   `json:"status,omitempty"`
	TargetPrice  *float64      `json:"target_price,omitempty"`
}

// DomainFromURL extracts the host for display and grouping.
// Items added without a URL get the literal "manual" domain.
func DomainFromURL(rawURL string) string {
	if rawURL == "" {
		return "manual"
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "manual"
	}
	return strings.TrimPrefix(strings.ToLower(u.Host), "www.")
}
