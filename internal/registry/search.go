package registry

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/pricewish/tracker/internal/types"
)

// foldForSearch strips diacritics and lowercases for accent-insensitive
// title matching ("café" matches "cafe")
func foldForSearch(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// Search returns the session's items whose title contains the query,
// case- and accent-insensitively. Order follows the list order.
func (r *Registry) Search(sessionID, query string) []types.Item {
	needle := foldForSearch(strings.TrimSpace(query))
	if needle == "" {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	var matches []types.Item
	for _, item := range r.sessions[sessionID] {
		if strings.Contains(foldForSearch(item.Title), needle) {
			matches = append(matches, item)
		}
	}
	return matches
}
