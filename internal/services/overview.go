package services

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	"bukmacher/internal/core"
	"bukmacher/internal/locale"
)

// Overview is the localized journal screen: balance card, stats and the
// history grouped by day.
type Overview struct {
	Title           string          `json:"title"`
	DisplayName     string          `json:"display_name,omitempty"`
	Language        locale.Language `json:"language"`
	Currency        locale.Currency `json:"currency"`
	BalanceLabel    string          `json:"balance_label"`
	Balance         string          `json:"balance"`
	BalancePositive bool            `json:"balance_positive"`
	Stats           []Stat          `json:"stats"`
	Empty           *EmptyState     `json:"empty,omitempty"`
	Groups          []OverviewGroup `json:"groups"`
}

type Stat struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type EmptyState struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type OverviewGroup struct {
	Day   time.Time     `json:"day"`
	Label string        `json:"label"`
	Rows  []OverviewRow `json:"rows"`
}

// OverviewRow is one history line. Amount is the signed net effect.
type OverviewRow struct {
	ID       uuid.UUID    `json:"id"`
	Title    string       `json:"title"`
	Outcome  core.Outcome `json:"outcome"`
	Odds     string       `json:"odds"`
	Amount   string       `json:"amount"`
	Positive bool         `json:"positive"`
}

// DetailRow is a label/value pair of the entry detail view.
type DetailRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// EntryDetail is the localized breakdown of a single entry.
type EntryDetail struct {
	ID      uuid.UUID    `json:"id"`
	Title   string       `json:"title"`
	Outcome core.Outcome `json:"outcome"`
	Date    string       `json:"date"`
	Rows    []DetailRow  `json:"rows"`
	Note    string       `json:"note,omitempty"`
}

// BuildOverview renders entries (already sorted newest first) for st.
// Days are computed in now's location.
func BuildOverview(entries []core.BetEntry, st core.Settings, now time.Time) Overview {
	sum := core.Summarize(entries)
	ov := Overview{
		Title:           st.T(locale.KeyJournalTitle),
		DisplayName:     st.DisplayName,
		Language:        st.Language,
		Currency:        st.Currency,
		BalanceLabel:    st.T(locale.KeyBalanceTotal),
		Balance:         core.FormatAmount(sum.Balance, st.Currency, true),
		BalancePositive: !sum.Balance.IsNegative(),
		Stats: []Stat{
			{Label: st.T(locale.KeyStatsEntries), Value: strconv.Itoa(sum.Count)},
			{Label: st.T(locale.KeyStatsTotalStake), Value: core.FormatAmount(sum.Stake, st.Currency, false)},
			{Label: st.T(locale.KeyStatsTotalWinning), Value: core.FormatAmount(sum.Winnings, st.Currency, true)},
		},
		Groups: []OverviewGroup{},
	}
	if len(entries) == 0 {
		ov.Empty = &EmptyState{
			Title:       st.T(locale.KeyEmptyTitle),
			Description: st.T(locale.KeyEmptyDescription),
		}
		return ov
	}

	for _, g := range core.GroupByDay(entries, now.Location()) {
		group := OverviewGroup{
			Day:   g.Day,
			Label: core.LabelForDay(g.Day, now, st.Language),
			Rows:  make([]OverviewRow, 0, len(g.Entries)),
		}
		for _, e := range g.Entries {
			group.Rows = append(group.Rows, OverviewRow{
				ID:       e.ID,
				Title:    entryTitle(e, st),
				Outcome:  e.Outcome,
				Odds:     st.T(locale.KeyOdds) + ": " + core.FormatOdds(e.Odds),
				Amount:   core.FormatAmount(core.NetEffect(e), st.Currency, true),
				Positive: e.Outcome == core.OutcomeWin,
			})
		}
		ov.Groups = append(ov.Groups, group)
	}
	return ov
}

// BuildEntryDetail lists stake and odds, then gross win and net profit for
// a win, or potential win and loss for a loss.
func BuildEntryDetail(e core.BetEntry, st core.Settings, loc *time.Location) EntryDetail {
	if loc == nil {
		loc = time.Local
	}
	cur := st.Currency
	rows := []DetailRow{
		{Label: st.T(locale.KeyStake), Value: core.FormatAmount(e.Stake, cur, false)},
		{Label: st.T(locale.KeyOdds), Value: core.FormatOdds(e.Odds)},
	}
	if e.Outcome == core.OutcomeWin {
		rows = append(rows,
			DetailRow{Label: st.T(locale.KeyGrossWin), Value: core.FormatAmount(e.WinAmount, cur, false)},
			DetailRow{Label: st.T(locale.KeyNetProfit), Value: core.FormatAmount(core.NetEffect(e), cur, true)},
		)
	} else {
		rows = append(rows,
			DetailRow{Label: st.T(locale.KeyPotentialWin), Value: core.FormatAmount(e.PotentialWin, cur, false)},
			DetailRow{Label: st.T(locale.KeyLoss), Value: core.FormatAmount(core.NetEffect(e), cur, false)},
		)
	}
	return EntryDetail{
		ID:      e.ID,
		Title:   entryTitle(e, st),
		Outcome: e.Outcome,
		Date:    locale.FormatLongDate(e.Date.In(loc), st.Language),
		Rows:    rows,
		Note:    e.Note,
	}
}

func entryTitle(e core.BetEntry, st core.Settings) string {
	if e.Note != "" {
		return e.Note
	}
	if e.Outcome == core.OutcomeWin {
		return st.T(locale.KeyOutcomeWin)
	}
	return st.T(locale.KeyOutcomeLoss)
}
