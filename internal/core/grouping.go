package core

import (
	"sort"
	"time"

	"bukmacher/internal/locale"
)

// DayGroup is the set of entries sharing one calendar day.
type DayGroup struct {
	Day     time.Time // midnight in the grouping location
	Entries []BetEntry
}

// StartOfDay returns midnight of t's calendar day in loc. A nil loc means
// time.Local.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// GroupByDay buckets entries by calendar day in loc. Groups come newest day
// first; entries keep the order they were given in, so a date-descending
// input yields reverse-chronological groups.
func GroupByDay(entries []BetEntry, loc *time.Location) []DayGroup {
	index := make(map[time.Time]int)
	var groups []DayGroup
	for _, e := range entries {
		day := StartOfDay(e.Date, loc)
		i, ok := index[day]
		if !ok {
			i = len(groups)
			index[day] = i
			groups = append(groups, DayGroup{Day: day})
		}
		groups[i].Entries = append(groups[i].Entries, e)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Day.After(groups[j].Day)
	})
	return groups
}

// LabelForDay names a day relative to today ("Today", "Yesterday") or
// falls back to the long date. Days are compared in today's location.
func LabelForDay(day, today time.Time, lang locale.Language) string {
	loc := today.Location()
	d := StartOfDay(day, loc)
	t := StartOfDay(today, loc)
	switch {
	case d.Equal(t):
		return locale.Translate(locale.KeyToday, lang)
	case d.Equal(time.Date(t.Year(), t.Month(), t.Day()-1, 0, 0, 0, 0, loc)):
		return locale.Translate(locale.KeyYesterday, lang)
	default:
		return locale.FormatLongDate(d, lang)
	}
}
