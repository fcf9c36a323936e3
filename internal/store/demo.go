package store

import (
	"errors"
	"time"

	"github.com/pricewish/tracker/internal/types"
)

// ErrItemNotFound is returned for operations on an unknown item id
var ErrItemNotFound = errors.New("item not found")

func ptr[T any](v T) *T { return &v }

// demoItems is the fixed example set used for onboarding
func demoItems(now time.Time) []types.Item {
	return []types.Item{
		{
			ID:           "demo-sony-wh1000xm5",
			Title:        "Sony WH-1000XM5",
			URL:          "https://www.example.com/sony-wh-1000xm5",
			Domain:       "example.com",
			InputType:    types.InputTypeURL,
			UserCountry:  types.CountryGB,
			Links:        []string{"https://www.example.com/sony-wh-1000xm5"},
			TrackingRule: types.BelowAbsolute(types.CurrencyGBP, 250),
			Status:       types.StatusTracking,
			InitialPrice: ptr(299.0),
			CurrentPrice: ptr(279.0),
			TargetPrice:  ptr(250.0),
			History: []types.PricePoint{
				{TS: now.Add(-48 * time.Hour), Price: 299},
				{TS: now.Add(-24 * time.Hour), Price: 289},
				{TS: now, Price: 279},
			},
			LastChecked: ptr(now),
			SkuKey:      "sony-wh-1000xm5|GB",
			CreatedAt:   ptr(now.Add(-48 * time.Hour)),
		},
		{
			ID:           "demo-iphone-15-pro",
			Title:        "iPhone 15 Pro 256GB",
			Domain:       "manual",
			InputType:    types.InputTypeNameAttrs,
			UserCountry:  types.CountryGB,
			Attributes:   &types.NormalisedAttributes{Size: "256GB", Color: "black", Region: "UK"},
			Links:        []string{},
			TrackingRule: types.PercentageBelowAvg(10),
			Status:       types.StatusTracking,
			InitialPrice: ptr(999.0),
			CurrentPrice: ptr(989.0),
			History: []types.PricePoint{
				{TS: now.Add(-24 * time.Hour), Price: 999},
				{TS: now, Price: 989},
			},
			LastChecked: ptr(now),
			SkuKey:      "iphone-15-pro-256gb|color:black|size:256gb|region:uk|GB",
			CreatedAt:   ptr(now.Add(-24 * time.Hour)),
		},
		{
			ID:               "demo-attic-book",
			Title:            "A Light in the Attic",
			Domain:           "manual",
			InputType:        types.InputTypeName,
			UserCountry:      types.CountryUS,
			Links:            []string{},
			TrackingRule:     types.BelowAbsolute(types.CurrencyUSD, 40),
			Status:           types.StatusAlerted,
			InitialPrice:     ptr(51.77),
			CurrentPrice:     ptr(38.0),
			TargetPrice:      ptr(40.0),
			LowestPriceToday: ptr(38.0),
			LowestPriceStore: "books.example.org",
			History: []types.PricePoint{
				{TS: now.Add(-72 * time.Hour), Price: 51.77},
				{TS: now, Price: 38},
			},
			LastChecked: ptr(now),
			SkuKey:      "a-light-in-the-attic|US",
			CreatedAt:   ptr(now.Add(-72 * time.Hour)),
		},
	}
}
