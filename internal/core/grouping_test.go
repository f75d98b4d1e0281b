package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bukmacher/internal/locale"
)

func TestGroupByDay(t *testing.T) {
	loc := time.UTC
	late := win("1", "2", time.Date(2026, 10, 16, 21, 0, 0, 0, loc))
	early := loss("1", "2", time.Date(2026, 10, 16, 8, 0, 0, 0, loc))
	older := win("1", "2", time.Date(2026, 10, 14, 12, 0, 0, 0, loc))

	// already date-descending, as the store returns it
	groups := GroupByDay([]BetEntry{late, early, older}, loc)
	require.Len(t, groups, 2)
	assert.Equal(t, time.Date(2026, 10, 16, 0, 0, 0, 0, loc), groups[0].Day)
	assert.Equal(t, []BetEntry{late, early}, groups[0].Entries)
	assert.Equal(t, []BetEntry{older}, groups[1].Entries)

	// groups are ordered by day even when input is not
	groups = GroupByDay([]BetEntry{older, late}, loc)
	require.Len(t, groups, 2)
	assert.Equal(t, late.ID, groups[0].Entries[0].ID)

	assert.Empty(t, GroupByDay(nil, loc))
}

func TestGroupByDayIsDeterministic(t *testing.T) {
	loc := time.UTC
	var entries []BetEntry
	for i := 0; i < 20; i++ {
		entries = append(entries, win("1", "2", time.Date(2026, 1, 20-i%5, i, 0, 0, 0, loc)))
	}
	assert.Equal(t, GroupByDay(entries, loc), GroupByDay(entries, loc))
}

func TestGroupByDayUsesLocation(t *testing.T) {
	warsaw := time.FixedZone("CET", 3600)
	// 23:30 UTC on the 15th is already the 16th at UTC+1
	e := win("1", "2", time.Date(2026, 10, 15, 23, 30, 0, 0, time.UTC))
	groups := GroupByDay([]BetEntry{e}, warsaw)
	require.Len(t, groups, 1)
	assert.Equal(t, 16, groups[0].Day.Day())
}

func TestLabelForDay(t *testing.T) {
	today := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "Dzisiaj", LabelForDay(today.Add(5*time.Hour), today, locale.Polish))
	assert.Equal(t, "Today", LabelForDay(today, today, locale.English))
	assert.Equal(t, "Wczoraj", LabelForDay(today.AddDate(0, 0, -1), today, locale.Polish))
	assert.Equal(t, "Yesterday", LabelForDay(time.Date(2026, 10, 15, 23, 59, 0, 0, time.UTC), today, locale.English))
	assert.Equal(t, "14 października 2026", LabelForDay(today.AddDate(0, 0, -2), today, locale.Polish))
	assert.Equal(t, "October 17, 2026", LabelForDay(today.AddDate(0, 0, 1), today, locale.English))

	// first of the month: yesterday crosses the month boundary
	first := time.Date(2026, 3, 1, 0, 30, 0, 0, time.UTC)
	assert.Equal(t, "Yesterday", LabelForDay(time.Date(2026, 2, 28, 18, 0, 0, 0, time.UTC), first, locale.English))
}
