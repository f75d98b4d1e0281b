package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bukmacher/internal/cache"
	"bukmacher/internal/core"
	"bukmacher/internal/locale"
)

func TestOverviewCache(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	lru := cache.NewLRUCache[Overview](8, time.Hour)
	oc := NewOverviewCache(store, lru)
	defer oc.Close()

	st := core.DefaultSettings()
	_, err := store.Create(ctx, core.EntryInput{Outcome: core.OutcomeWin, Stake: "10", Amount: "30"})
	require.NoError(t, err)

	ov, err := oc.Overview(ctx, st, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "+20.00 zł", ov.Balance)
	assert.Equal(t, 1, lru.Size())

	_, err = oc.Overview(ctx, st, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 1, lru.Size(), "second call is served from the cache")

	en := st
	en.Language = locale.English
	_, err = oc.Overview(ctx, en, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 2, lru.Size())

	_, err = store.Create(ctx, core.EntryInput{Outcome: core.OutcomeLoss, Stake: "5"})
	require.NoError(t, err)
	assert.Equal(t, 0, lru.Size(), "store events purge the cache")

	ov, err = oc.Overview(ctx, st, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "+15.00 zł", ov.Balance)
}

func TestOverviewCache_Close(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	lru := cache.NewLRUCache[Overview](8, time.Hour)
	oc := NewOverviewCache(store, lru)

	_, err := oc.Overview(ctx, core.DefaultSettings(), fixedNow)
	require.NoError(t, err)
	oc.Close()

	_, err = store.Create(ctx, core.EntryInput{Outcome: core.OutcomeLoss})
	require.NoError(t, err)
	assert.Equal(t, 1, lru.Size(), "closed cache no longer observes the store")
}
