// Package store owns the in-memory list of tracked items and mediates
// every mutation between optimistic local state and the remote item API.
// In demo mode all mutating operations short-circuit before any network
// call and are simulated locally.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pricewish/tracker/internal/persist"
	"github.com/pricewish/tracker/internal/sku"
	"github.com/pricewish/tracker/internal/types"
)

// RemoteAPI is the remote source of truth for tracked items
type RemoteAPI interface {
	ListItems(ctx context.Context) ([]types.Item, error)
	CreateItem(ctx context.Context, payload types.CreatePayload) (*types.Item, error)
	PatchItem(ctx context.Context, id string, patch types.ItemPatch) (*types.Item, error)
	DeleteItem(ctx context.Context, id string) error
	RefreshPrices(ctx context.Context, ids ...string) ([]types.Item, error)
	SimulateDrop(ctx context.Context, id string) (*types.Item, error)
}

// ItemStore holds the authoritative local copy of tracked items.
// The remote API is the source of truth outside demo mode; the local
// snapshot is a cache, not authoritative.
type ItemStore struct {
	mu          sync.Mutex
	items       []types.Item
	demoMode    bool
	lastFetchAt *time.Time
	loading     bool

	remote RemoteAPI
	local  persist.Store
	logger zerolog.Logger
	now    func() time.Time
	newID  func() string
}

// Option configures an ItemStore
type Option func(*ItemStore)

// WithLogger attaches a logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *ItemStore) { s.logger = logger }
}

// WithClock overrides the time source (tests)
func WithClock(now func() time.Time) Option {
	return func(s *ItemStore) { s.now = now }
}

// WithIDGenerator overrides skeleton id generation (tests)
func WithIDGenerator(newID func() string) Option {
	return func(s *ItemStore) { s.newID = newID }
}

// WithDemoMode sets the initial demo-mode flag, overriding the persisted one
func WithDemoMode(demoMode bool) Option {
	return func(s *ItemStore) { s.demoMode = demoMode }
}

// WithDemoDefault sets the fallback demo-mode flag used when none has been
// persisted yet. A persisted flag always wins over the default.
func WithDemoDefault(def bool) Option {
	return func(s *ItemStore) { s.demoMode = persist.LoadDemoMode(s.local, def) }
}

// New creates an item store backed by a remote API and a local snapshot
// store. The demo-mode flag starts from the persisted value.
func New(remote RemoteAPI, local persist.Store, opts ...Option) *ItemStore {
	s := &ItemStore{
		remote:   remote,
		local:    local,
		demoMode: persist.LoadDemoMode(local, false),
		logger:   zerolog.Nop(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Items returns a copy of the tracked items, newest first
func (s *ItemStore) Items() []types.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]types.Item, len(s.items))
	copy(items, s.items)
	return items
}

// Item returns the tracked item with the given id
func (s *ItemStore) Item(id string) (types.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return types.Item{}, false
}

// DemoMode reports whether remote calls are disabled
func (s *ItemStore) DemoMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.demoMode
}

// SetDemoMode toggles demo mode explicitly and persists the flag
func (s *ItemStore) SetDemoMode(demoMode bool) {
	s.mu.Lock()
	s.demoMode = demoMode
	s.mu.Unlock()
	if err := persist.SaveDemoMode(s.local, demoMode); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to persist demo-mode flag")
	}
}

// LastFetchAt returns the time of the last successful remote fetch
func (s *ItemStore) LastFetchAt() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastFetchAt
}

// Loading reports whether a bootstrap is in flight
func (s *ItemStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Bootstrap loads the item list from the remote API. On failure it falls
// back to the last persisted snapshot; if that is empty too, demo mode is
// forced on so the store stays usable offline. Bootstrap never surfaces
// an error to the caller.
func (s *ItemStore) Bootstrap(ctx context.Context) {
	s.mu.Lock()
	if s.demoMode {
		s.mu.Unlock()
		return
	}
	s.loading = true
	s.mu.Unlock()

	items, err := s.remote.ListItems(ctx)
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if err == nil {
		s.items = items
		s.lastFetchAt = &now
		s.writeThroughLocked()
		return
	}

	s.logger.Warn().Err(err).Msg("Bootstrap failed, falling back to local snapshot")

	cached, loadErr := persist.LoadItems(s.local)
	if loadErr != nil {
		s.logger.Warn().Err(loadErr).Msg("Failed to read local snapshot")
	}
	if len(cached) == 0 {
		// Degrade-to-demo policy: nothing remote, nothing cached
		s.demoMode = true
		if err := persist.SaveDemoMode(s.local, true); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to persist demo-mode flag")
		}
		s.logger.Info().Msg("No cached items, forcing demo mode")
		return
	}
	s.items = cached
}

// AddBy turns a raw creation input into a stored item. The skeleton is
// inserted optimistically before any network round trip; outside demo
// mode the remote create either replaces it in place or removes it
// entirely on failure. There is never more than one entry per creation
// attempt.
func (s *ItemStore) AddBy(ctx context.Context, input sku.CreateInput) (types.Item, error) {
	payload := sku.BuildCreatePayload(input)
	skeleton := s.newSkeleton(payload)

	s.mu.Lock()
	s.items = append([]types.Item{skeleton}, s.items...)
	demoMode := s.demoMode
	s.writeThroughLocked()
	s.mu.Unlock()

	if demoMode {
		return skeleton, nil
	}

	created, err := s.remote.CreateItem(ctx, payload)
	if err != nil {
		// Full rollback: the skeleton is removed, never left dangling
		s.mu.Lock()
		s.removeLocked(skeleton.ID)
		s.writeThroughLocked()
		s.mu.Unlock()
		return types.Item{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == skeleton.ID {
			s.items[i] = *created
			break
		}
	}
	s.writeThroughLocked()
	return *created, nil
}

// newSkeleton synthesizes the optimistic placeholder item for a creation
func (s *ItemStore) newSkeleton(payload types.CreatePayload) types.Item {
	now := s.now()
	return types.Item{
		ID:           s.newID(),
		Title:        payload.Title,
		URL:          payload.URL,
		Domain:       types.DomainFromURL(payload.URL),
		InputType:    payload.InputType,
		UserCountry:  payload.UserCountry,
		Attributes:   payload.Attributes,
		Links:        payload.Links,
		TrackingRule: payload.TrackingRule,
		Status:       types.StatusTracking,
		SkuKey:       payload.SkuKey,
		CreatedAt:    &now,
	}
}

// UpdateItem merges partial fields into the matching item. Pure local
// operation; identity and unspecified fields are unchanged.
func (s *ItemStore) UpdateItem(id string, patch types.ItemPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyPatchLocked(id, patch)
}

func (s *ItemStore) applyPatchLocked(id string, patch types.ItemPatch) bool {
	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}
		if patch.Title != nil {
			s.items[i].Title = *patch.Title
		}
		if patch.TrackingRule != nil {
			s.items[i].TrackingRule = *patch.TrackingRule
		}
		if patch.Status != nil {
			s.items[i].Status = *patch.Status
		}
		if patch.TargetPrice != nil {
			s.items[i].TargetPrice = patch.TargetPrice
		}
		s.writeThroughLocked()
		return true
	}
	return false
}

// RemoveItem deletes the item locally right away. Outside demo mode the
// remote delete follows before returning, so the request is always sent
// even from short-lived processes; a failure there is logged, not rolled
// back - local state wins for deletes.
func (s *ItemStore) RemoveItem(ctx context.Context, id string) {
	s.mu.Lock()
	s.removeLocked(id)
	demoMode := s.demoMode
	s.writeThroughLocked()
	s.mu.Unlock()

	if demoMode {
		return
	}

	if err := s.remote.DeleteItem(ctx, id); err != nil {
		s.logger.Warn().Err(err).Str("id", id).Msg("Remote delete failed, keeping local removal")
	}
}

func (s *ItemStore) removeLocked(id string) {
	filtered := s.items[:0]
	for _, item := range s.items {
		if item.ID != id {
			filtered = append(filtered, item)
		}
	}
	s.items = filtered
}

// RefreshPrices re-checks prices, optionally scoped to the given ids.
// In demo mode every item's last-checked stamp is refreshed with no price
// change. Otherwise the remote response is a partial patch set: each
// returned item overwrites its local counterpart wholesale, items absent
// from the response are left untouched. Failure propagates with no
// partial commit.
func (s *ItemStore) RefreshPrices(ctx context.Context, ids ...string) error {
	s.mu.Lock()
	demoMode := s.demoMode
	s.mu.Unlock()

	if demoMode {
		now := s.now()
		s.mu.Lock()
		for i := range s.items {
			ts := now
			s.items[i].LastChecked = &ts
		}
		s.writeThroughLocked()
		s.mu.Unlock()
		return nil
	}

	updated, err := s.remote.RefreshPrices(ctx, ids...)
	if err != nil {
		return err
	}
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, fresh := range updated {
		for i := range s.items {
			if s.items[i].ID == fresh.ID {
				s.items[i] = fresh
				break
			}
		}
	}
	s.lastFetchAt = &now
	s.writeThroughLocked()
	return nil
}

// demoDropFallbackPrice is used when a percentage rule has no current price
const demoDropFallbackPrice = 50

// SimulateDrop forces a price drop on an item for exercising alert flows.
// In demo mode the drop is computed locally so it always satisfies the
// item's rule; otherwise the server-simulated item is applied wholesale.
func (s *ItemStore) SimulateDrop(ctx context.Context, id string) (types.Item, error) {
	s.mu.Lock()
	demoMode := s.demoMode
	s.mu.Unlock()

	if demoMode {
		now := s.now()
		s.mu.Lock()
		defer s.mu.Unlock()
		for i := range s.items {
			if s.items[i].ID != id {
				continue
			}
			var newPrice float64
			if s.items[i].TrackingRule.Type == types.RuleBelowAbsolute {
				newPrice = s.items[i].TrackingRule.Value * 0.95
			} else if s.items[i].CurrentPrice != nil {
				newPrice = *s.items[i].CurrentPrice * 0.85
			} else {
				newPrice = demoDropFallbackPrice
			}
			s.items[i].CurrentPrice = &newPrice
			s.items[i].Status = types.StatusAlerted
			ts := now
			s.items[i].LastChecked = &ts
			s.writeThroughLocked()
			return s.items[i], nil
		}
		return types.Item{}, ErrItemNotFound
	}

	dropped, err := s.remote.SimulateDrop(ctx, id)
	if err != nil {
		return types.Item{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i] = *dropped
			s.writeThroughLocked()
			return s.items[i], nil
		}
	}
	return *dropped, nil
}

// EditTrackingRule updates an item's alert rule local-first. Outside demo
// mode the remote patch follows; its failure propagates to the caller but
// the local change stays - same local-wins policy as deletes.
func (s *ItemStore) EditTrackingRule(ctx context.Context, id string, rule types.TrackingRule) error {
	s.mu.Lock()
	found := s.applyPatchLocked(id, types.ItemPatch{TrackingRule: &rule})
	demoMode := s.demoMode
	s.mu.Unlock()

	if !found {
		return ErrItemNotFound
	}
	if demoMode {
		return nil
	}

	patched, err := s.remote.PatchItem(ctx, id, types.ItemPatch{TrackingRule: &rule})
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i] = *patched
			break
		}
	}
	s.writeThroughLocked()
	return nil
}

// SeedDemo replaces the item list wholesale with the fixed example set.
// It does not touch the demo-mode flag.
func (s *ItemStore) SeedDemo() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = demoItems(s.now())
	s.writeThroughLocked()
}

// ResetDemo clears the item list and erases the local snapshot
func (s *ItemStore) ResetDemo() {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()
	if err := persist.ClearItems(s.local); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to clear items snapshot")
	}
}

// writeThroughLocked persists the current item list. Callers hold s.mu.
// Snapshot failures are logged, never surfaced - the snapshot is a cache.
func (s *ItemStore) writeThroughLocked() {
	if err := persist.SaveItems(s.local, s.items); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to write items snapshot")
	}
}
