package sku

import (
	"testing"

	"github.com/pricewish/tracker/internal/types"
)

func TestNormalizeAttributesColor(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Lowercase and trim", "  Black ", "black"},
		{"Collapse whitespace", "Midnight   Blue", "midnight blue"},
		{"Grey to gray", "Grey", "gray"},
		{"Colour to color", "COLOUR", "color"},
		{"Grey inside phrase untouched", "dark grey blue", "dark grey blue"},
		{"Empty after trim", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeAttributes(types.NormalisedAttributes{Color: tt.input})
			if result.Color != tt.expected {
				t.Errorf("NormalizeAttributes(color=%q) = %q, want %q", tt.input, result.Color, tt.expected)
			}
		})
	}
}

func TestNormalizeAttributesSize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Storage with space", "256 gb", "256GB"},
		{"Storage tight", "512GB", "512GB"},
		{"Apparel passes through", "xl", "XL"},
		{"Apparel XXXL", " xxxl ", "XXXL"},
		{"Other value stripped", "eu 42", "EU42"},
		{"Empty after trim", "  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeAttributes(types.NormalisedAttributes{Size: tt.input})
			if result.Size != tt.expected {
				t.Errorf("NormalizeAttributes(size=%q) = %q, want %q", tt.input, result.Size, tt.expected)
			}
		})
	}
}

func TestNormalizeAttributesRegion(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"United Kingdom", "United Kingdom", "UK"},
		{"GB folds to UK", "GB", "UK"},
		{"Europe", "Europe", "EU"},
		{"USA", "USA", "US"},
		{"United States", " United States ", "US"},
		{"Unknown passes trimmed", " Japan ", "Japan"},
		{"Case preserved for unknown", "apac", "apac"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeAttributes(types.NormalisedAttributes{Region: tt.input})
			if result.Region != tt.expected {
				t.Errorf("NormalizeAttributes(region=%q) = %q, want %q", tt.input, result.Region, tt.expected)
			}
		})
	}
}

func TestNormalizeAttributesCombined(t *testing.T) {
	result := NormalizeAttributes(types.NormalisedAttributes{
		Color:  "Grey",
		Size:   "256 gb",
		Region: "United Kingdom",
	})
	expected := types.NormalisedAttributes{Color: "gray", Size: "256GB", Region: "UK"}
	if result != expected {
		t.Errorf("NormalizeAttributes() = %+v, want %+v", result, expected)
	}
}

func TestNormalizeAttributesIdempotent(t *testing.T) {
	inputs := []types.NormalisedAttributes{
		{Color: "Grey", Size: "256 gb", Region: "GB"},
		{Color: "midnight   blue"},
		{Size: "xl", Region: "Japan"},
	}

	for _, input := range inputs {
		once := NormalizeAttributes(input)
		twice := NormalizeAttributes(once)
		if once != twice {
			t.Errorf("NormalizeAttributes not idempotent: %+v -> %+v -> %+v", input, once, twice)
		}
	}
}

func TestSlugTitle(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Punctuation and spaces", "  Sony WH-1000XM5!! ", "sony-wh-1000xm5"},
		{"Simple title", "iPhone 15 Pro 256GB", "iphone-15-pro-256gb"},
		{"Leading symbols", "...A Light in the Attic", "a-light-in-the-attic"},
		{"Only symbols", "!!!", ""},
		{"Already slugged", "sony-wh-1000xm5", "sony-wh-1000xm5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SlugTitle(tt.input)
			if result != tt.expected {
				t.Errorf("SlugTitle(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestSlugTitleIdempotent(t *testing.T) {
	titles := []string{"  Sony WH-1000XM5!! ", "iPhone 15 Pro", "Café crème 2x", "---"}
	for _, title := range titles {
		once := SlugTitle(title)
		twice := SlugTitle(once)
		if once != twice {
			t.Errorf("SlugTitle not idempotent for %q: %q != %q", title, once, twice)
		}
	}
}

func TestBuildSkuKey(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		attrs    *types.NormalisedAttributes
		country  types.Country
		expected string
	}{
		{
			"Title only with country",
			"A Light in the Attic", nil, types.CountryGB,
			"a-light-in-the-attic|GB",
		},
		{
			"Full attributes",
			"iPhone 15 Pro 256GB",
			&types.NormalisedAttributes{Size: "256GB", Color: "black", Region: "UK"},
			types.CountryGB,
			"iphone-15-pro-256gb|color:black|size:256gb|region:uk|GB",
		},
		{
			"Partial attributes keep fixed order",
			"Widget",
			&types.NormalisedAttributes{Region: "UK", Size: "M"},
			"",
			"widget|size:m|region:uk",
		},
		{
			"Empty attributes struct adds nothing",
			"Widget", &types.NormalisedAttributes{}, types.CountryUS,
			"widget|US",
		},
		{
			"No attrs no country",
			"Widget", nil, "",
			"widget",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := BuildSkuKey(tt.title, tt.attrs, tt.country)
			if result != tt.expected {
				t.Errorf("BuildSkuKey() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestBuildSkuKeyCountryVerbatim(t *testing.T) {
	// Country is appended as given, never lowercased
	key := BuildSkuKey("Widget", nil, types.CountryEU)
	if key != "widget|EU" {
		t.Errorf("BuildSkuKey() = %q, want %q", key, "widget|EU")
	}
}
