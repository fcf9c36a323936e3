package registry

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pricewish/tracker/internal/types"
)

// repriceConcurrency bounds the per-item offer searches in one refresh
const repriceConcurrency = 4

// syntheticStores are the stores the simulated offer search draws from
var syntheticStores = []string{
	"pricedrop.example.com",
	"megadeals.example.org",
	"shopfast.example.net",
}

// offer is one synthesized store offer for an item
type offer struct {
	store string
	url   string
	price float64
}

// Reprice re-checks prices for the session's items, optionally scoped to
// ids. Offer searches run concurrently; results commit under the registry
// lock in one pass. The returned slice contains only the items whose
// price actually moved - a partial patch set.
func (r *Registry) Reprice(ctx context.Context, sessionID string, ids []string) ([]types.Item, error) {
	idSet := make(map[string]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}

	r.mu.RLock()
	var candidates []types.Item
	for _, item := range r.sessions[sessionID] {
		if len(idSet) == 0 || idSet[item.ID] {
			candidates = append(candidates, item)
		}
	}
	r.mu.RUnlock()

	now := r.now()
	var resultMu sync.Mutex
	repriced := make(map[string]types.Item, len(candidates))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(repriceConcurrency)
	for _, candidate := range candidates {
		candidate := candidate
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			updated, moved := r.repriceOne(candidate, now)
			if moved {
				resultMu.Lock()
				repriced[updated.ID] = updated
				resultMu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Commit in one pass; items the search skipped still get a fresh
	// last-checked stamp
	r.mu.Lock()
	defer r.mu.Unlock()
	items := r.sessions[sessionID]
	updated := make([]types.Item, 0, len(repriced))
	for i := range items {
		if len(idSet) > 0 && !idSet[items[i].ID] {
			continue
		}
		if fresh, ok := repriced[items[i].ID]; ok {
			items[i] = fresh
			updated = append(updated, fresh)
		} else {
			ts := now
			items[i].LastChecked = &ts
		}
	}
	repricesTotal.Add(float64(len(updated)))
	return updated, nil
}

// repriceOne searches the synthetic stores for the best offer and folds
// it into a copy of the item. moved is false when the best offer matches
// the current price.
func (r *Registry) repriceOne(item types.Item, now time.Time) (types.Item, bool) {
	reference := firstNonNil(item.CurrentPrice, item.InitialPrice)
	if reference <= 0 {
		return item, false
	}

	best := offer{price: reference}
	for _, store := range syntheticStores {
		// Random walk around the reference, biased slightly downward
		price := round2(reference * (1 + r.jitter()*0.08 - 0.02))
		if price < 1 {
			price = 1
		}
		if price < best.price || best.store == "" {
			best = offer{store: store, url: "https://" + store + "/p/" + item.ID, price: price}
		}
	}

	if best.store == "" || best.price == reference {
		return item, false
	}

	// The daily low resets when the previous check was on another day
	staleLow := item.LastChecked == nil || !sameDay(*item.LastChecked, now)

	item.CurrentPrice = &best.price
	item.History = append(item.History, types.PricePoint{TS: now, Price: best.price})
	ts := now
	item.LastChecked = &ts

	if staleLow || item.LowestPriceToday == nil || best.price < *item.LowestPriceToday {
		lowest := best.price
		item.LowestPriceToday = &lowest
		item.LowestPriceStore = best.store
		item.LowestPriceURL = best.url
	}

	if ruleSatisfied(item.TrackingRule, item.History, best.price) {
		if item.Status != types.StatusAlerted {
			alertsTriggered.WithLabelValues(item.TrackingRule.Type).Inc()
		}
		item.Status = types.StatusAlerted
	} else {
		item.Status = types.StatusTracking
	}

	return item, true
}

// SimulateDrop forces a price that satisfies the item's rule: the
// absolute threshold less 5%, or 15% under the current price, with a
// fixed fallback when no price exists yet.
func (r *Registry) SimulateDrop(sessionID, id string) (types.Item, bool) {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()
	items := r.sessions[sessionID]
	for i := range items {
		if items[i].ID != id {
			continue
		}

		var newPrice float64
		if items[i].TrackingRule.Type == types.RuleBelowAbsolute {
			newPrice = round2(items[i].TrackingRule.Value * 0.95)
		} else if items[i].CurrentPrice != nil {
			newPrice = round2(*items[i].CurrentPrice * 0.85)
		} else {
			newPrice = 50
		}

		items[i].CurrentPrice = &newPrice
		items[i].History = append(items[i].History, types.PricePoint{TS: now, Price: newPrice})
		if items[i].LowestPriceToday == nil || newPrice < *items[i].LowestPriceToday {
			lowest := newPrice
			items[i].LowestPriceToday = &lowest
		}
		if items[i].Status != types.StatusAlerted {
			alertsTriggered.WithLabelValues(items[i].TrackingRule.Type).Inc()
		}
		items[i].Status = types.StatusAlerted
		ts := now
		items[i].LastChecked = &ts
		return items[i], true
	}
	return types.Item{}, false
}

// jitter draws a uniform value in [0,1) from the registry's rng
func (r *Registry) jitter() float64 {
	r.rngMu.Lock()
	defer r.rngMu.Unlock()
	return r.rng.Float64()
}

// ruleSatisfied evaluates an alert rule against the new price
func ruleSatisfied(rule types.TrackingRule, history []types.PricePoint, price float64) bool {
	switch rule.Type {
	case types.RuleBelowAbsolute:
		return price <= rule.Value
	case types.RulePercentageBelowAvg:
		if len(history) == 0 {
			return false
		}
		var sum float64
		for _, point := range history {
			sum += point.Price
		}
		avg := sum / float64(len(history))
		return price <= avg*(1-rule.Value/100)
	}
	return false
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
