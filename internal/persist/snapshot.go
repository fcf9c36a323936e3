package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/pricewish/tracker/internal/types"
)

// Well-known store keys. The items snapshot and the demo flag are the two
// slots the item store reads on init and writes on every committed change.
const (
	KeyItems    = "items.v1.json"
	KeyDemoMode = "demo-mode"
	KeySession  = "session-id"
)

// LoadItems reads the last persisted items snapshot. A missing snapshot
// yields an empty list, not an error.
func LoadItems(s Store) ([]types.Item, error) {
	raw, err := s.Get(KeyItems)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var items []types.Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("corrupt items snapshot: %w", err)
	}
	return items, nil
}

// SaveItems replaces the items snapshot wholesale
func SaveItems(s Store, items []types.Item) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal items snapshot: %w", err)
	}
	return s.Put(KeyItems, raw)
}

// ClearItems erases the items snapshot
func ClearItems(s Store) error {
	return s.Delete(KeyItems)
}

// LoadDemoMode reads the persisted demo-mode flag, falling back to def
// when no flag has been stored yet
func LoadDemoMode(s Store, def bool) bool {
	raw, err := s.Get(KeyDemoMode)
	if err != nil {
		return def
	}
	flag, err := strconv.ParseBool(string(raw))
	if err != nil {
		return def
	}
	return flag
}

// SaveDemoMode persists the demo-mode flag
func SaveDemoMode(s Store, demoMode bool) error {
	return s.Put(KeyDemoMode, []byte(strconv.FormatBool(demoMode)))
}
