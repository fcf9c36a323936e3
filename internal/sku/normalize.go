package sku

import (
	"regexp"
	"strings"

	"github.com/pricewish/tracker/internal/types"
)

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// regionFolds maps literal region spellings to canonical codes.
// Matching is against the whole trimmed value, not a substring.
var regionFolds = map[string]string{
	"UK": "UK", "United Kingdom": "UK", "GB": "UK",
	"EU": "EU", "Europe": "EU",
	"US": "US", "USA": "US", "United States": "US",
}

// NormalizeAttributes canonicalizes free-text product attributes.
// Fields absent from the input are omitted; fields that are empty after
// trimming are dropped rather than defaulted.
func NormalizeAttributes(input types.NormalisedAttributes) types.NormalisedAttributes {
	var result types.NormalisedAttributes

	if input.Color != "" {
		color := strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(input.Color))), " ")
		// Whole-value synonym folds only
		if color == "colour" {
			color = "color"
		}
		if color == "grey" {
			color = "gray"
		}
		result.Color = color
	}

	// Size: uppercase and strip internal whitespace. Storage sizes collapse
	// to the tight <digits>GB form (256 gb -> 256GB); apparel sizes
	// (XS..XXXL) and anything else pass through as stripped.
	if input.Size != "" {
		size := strings.ToUpper(strings.TrimSpace(input.Size))
		size = strings.Join(strings.Fields(size), "")
		result.Size = size
	}

	if input.Region != "" {
		region := strings.TrimSpace(input.Region)
		if canonical, ok := regionFolds[region]; ok {
			region = canonical
		}
		result.Region = region
	}

	return result
}

// SlugTitle lowercases a title and collapses every run of characters
// outside [a-z0-9] to a single hyphen, with no leading or trailing hyphen.
// Idempotent: SlugTitle(SlugTitle(x)) == SlugTitle(x).
func SlugTitle(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugRe.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// BuildSkuKey derives the identity key for a tracked item: the title slug,
// then a pipe-separated attribute block in fixed color,size,region order
// (attribute values lowercased), then the country verbatim. Same
// normalized inputs always yield the same key; uniqueness enforcement is
// a server-side concern.
func BuildSkuKey(title string, attrs *types.NormalisedAttributes, country types.Country) string {
	parts := []string{SlugTitle(title)}

	if attrs != nil {
		attrParts := []string{}
		if attrs.Color != "" {
			attrParts = append(attrParts, "color:"+strings.ToLower(attrs.Color))
		}
		if attrs.Size != "" {
			attrParts = append(attrParts, "size:"+strings.ToLower(attrs.Size))
		}
		if attrs.Region != "" {
			attrParts = append(attrParts, "region:"+strings.ToLower(attrs.Region))
		}
		if len(attrParts) > 0 {
			parts = append(parts, strings.Join(attrParts, "|"))
		}
	}

	if country != "" {
		parts = append(parts, string(country))
	}

	return strings.Join(parts, "|")
}
