// Package registry holds the server-side item registry. Items live in
// memory only, partitioned by session id - the registry is a volatile
// collaborator for the client stack, not a persistence layer.
package registry

import (
	"hash/fnv"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pricewish/tracker/internal/types"
)

// Registry is an in-memory, per-session item collection. List order is
// newest first.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string][]types.Item

	rngMu sync.Mutex
	rng   *rand.Rand

	now   func() time.Time
	newID func() string
}

// Option configures a Registry
type Option func(*Registry)

// WithClock overrides the time source (tests)
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// WithIDGenerator overrides item id generation (tests)
func WithIDGenerator(newID func() string) Option {
	return func(r *Registry) { r.newID = newID }
}

// WithRand overrides the price movement source (tests)
func WithRand(rng *rand.Rand) Option {
	return func(r *Registry) { r.rng = rng }
}

// New creates an empty registry
func New(opts ...Option) *Registry {
	r := &Registry{
		sessions: make(map[string][]types.Item),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// List returns the session's items, newest first
func (r *Registry) List(sessionID string) []types.Item {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := make([]types.Item, len(r.sessions[sessionID]))
	copy(items, r.sessions[sessionID])
	return items
}

// Get returns one item by id
func (r *Registry) Get(sessionID, id string) (types.Item, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, item := range r.sessions[sessionID] {
		if item.ID == id {
			return item, true
		}
	}
	return types.Item{}, false
}

// Create materializes an item from a creation payload. The server owns
// id assignment, domain derivation, the synthesized initial price and the
// first history point.
func (r *Registry) Create(sessionID string, payload types.CreatePayload) types.Item {
	now := r.now()
	initial := syntheticPrice(payload.SkuKey)

	links := payload.Links
	if links == nil {
		links = []string{}
	}

	item := types.Item{
		ID:           r.newID(),
		Title:        payload.Title,
		URL:          payload.URL,
		Domain:       types.DomainFromURL(payload.URL),
		InputType:    payload.InputType,
		UserCountry:  payload.UserCountry,
		Attributes:   payload.Attributes,
		Links:        links,
		TrackingRule: payload.TrackingRule,
		Status:       types.StatusTracking,
		InitialPrice: &initial,
		CurrentPrice: &initial,
		TargetPrice:  targetPrice(payload.TrackingRule, initial),
		History:      []types.PricePoint{{TS: now, Price: initial}},
		LastChecked:  &now,
		SkuKey:       payload.SkuKey,
		CreatedAt:    &now,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sessionID] = append([]types.Item{item}, r.sessions[sessionID]...)
	itemsCreated.WithLabelValues(string(payload.InputType)).Inc()
	return item
}

// Patch applies partial field updates to an item
func (r *Registry) Patch(sessionID, id string, patch types.ItemPatch) (types.Item, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := r.sessions[sessionID]
	for i := range items {
		if items[i].ID != id {
			continue
		}
		if patch.Title != nil {
			items[i].Title = *patch.Title
		}
		if patch.TrackingRule != nil {
			items[i].TrackingRule = *patch.TrackingRule
			items[i].TargetPrice = targetPrice(*patch.TrackingRule, firstNonNil(items[i].InitialPrice, items[i].CurrentPrice))
		}
		if patch.Status != nil {
			items[i].Status = *patch.Status
		}
		if patch.TargetPrice != nil {
			items[i].TargetPrice = patch.TargetPrice
		}
		return items[i], true
	}
	return types.Item{}, false
}

// Delete removes an item
func (r *Registry) Delete(sessionID, id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := r.sessions[sessionID]
	for i := range items {
		if items[i].ID == id {
			r.sessions[sessionID] = append(items[:i], items[i+1:]...)
			return true
		}
	}
	return false
}

// syntheticPrice derives a stable starting price from the sku key so
// repeated creates of the same product start from the same point
func syntheticPrice(skuKey string) float64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(skuKey))
	// 15.00 .. 614.99
	cents := 1500 + h.Sum32()%60000
	return round2(float64(cents) / 100)
}

// targetPrice derives the displayed target from the tracking rule
func targetPrice(rule types.TrackingRule, reference float64) *float64 {
	switch rule.Type {
	case types.RuleBelowAbsolute:
		v := rule.Value
		return &v
	case types.RulePercentageBelowAvg:
		if reference <= 0 {
			return nil
		}
		v := round2(reference * (1 - rule.Value/100))
		return &v
	}
	return nil
}

func firstNonNil(candidates ...*float64) float64 {
	for _, c := range candidates {
		if c != nil {
			return *c
		}
	}
	return 0
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
