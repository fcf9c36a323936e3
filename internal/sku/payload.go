package sku

import (
	"github.com/pricewish/tracker/internal/types"
)

// CreateInput is the raw user input for an "add item" action
type CreateInput struct {
	Mode    types.InputType
	Title   string
	Country types.Country
	URL     string
	Links   []string
	Attrs   *types.NormalisedAttributes
	Rule    types.TrackingRule
}

// BuildCreatePayload normalizes the input attributes, derives the sku key
// and shapes the creation payload for the given input mode. The
// name+attrs mode always carries an attributes object, even when empty.
func BuildCreatePayload(input CreateInput) types.CreatePayload {
	var normalized *types.NormalisedAttributes
	if input.Attrs != nil {
		n := NormalizeAttributes(*input.Attrs)
		normalized = &n
	}

	links := input.Links
	if links == nil {
		links = []string{}
	}

	payload := types.CreatePayload{
		Title:        input.Title,
		UserCountry:  input.Country,
		Links:        links,
		Attributes:   normalized,
		TrackingRule: input.Rule,
		SkuKey:       BuildSkuKey(input.Title, normalized, input.Country),
		InputType:    input.Mode,
	}

	switch input.Mode {
	case types.InputTypeURL:
		payload.URL = input.URL
	case types.InputTypeNameAttrs:
		if payload.Attributes == nil {
			payload.Attributes = &types.NormalisedAttributes{}
		}
	}

	return payload
}
