package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"bukmacher/internal/cache"
	"bukmacher/internal/core"
)

// OverviewCache memoizes rendered overviews per language, currency,
// display name and calendar day. Any store event drops every cached view.
type OverviewCache struct {
	store       *EntryStore
	cache       cache.Cache[Overview]
	generation  atomic.Uint64
	unsubscribe func()
}

func NewOverviewCache(store *EntryStore, c cache.Cache[Overview]) *OverviewCache {
	oc := &OverviewCache{store: store, cache: c}
	oc.unsubscribe = store.Subscribe(func(Event) {
		oc.generation.Add(1)
		c.Purge()
	})
	return oc
}

// Overview returns the overview for st as of now, building it on a miss.
func (oc *OverviewCache) Overview(ctx context.Context, st core.Settings, now time.Time) (Overview, error) {
	key := fmt.Sprintf("%s|%s|%s|%s", st.Language, st.Currency, st.DisplayName, now.Format("2006-01-02 MST"))
	if ov, ok := oc.cache.Get(key); ok {
		return ov, nil
	}

	gen := oc.generation.Load()
	entries, err := oc.store.AllSorted(ctx)
	if err != nil {
		return Overview{}, err
	}
	ov := BuildOverview(entries, st, now)
	// a mutation raced the read; the result may already be stale
	if oc.generation.Load() == gen {
		oc.cache.Set(key, ov)
	}
	return ov, nil
}

// Close stops listening to store events.
func (oc *OverviewCache) Close() {
	oc.unsubscribe()
}
