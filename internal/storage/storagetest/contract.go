// Package storagetest holds the behaviour every entry repository must share.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bukmacher/internal/core"
	"bukmacher/internal/locale"
	"bukmacher/internal/ports"
)

// Repository is what the contract exercises.
type Repository interface {
	ports.EntryRepository
	ports.SettingsRepository
}

// NewEntry builds a valid entry at the given time.
func NewEntry(outcome core.Outcome, stake, amount string, at time.Time) core.BetEntry {
	f := core.Fields{
		Date:    at,
		Outcome: outcome,
		Stake:   decimal.RequireFromString(stake),
		Odds:    decimal.RequireFromString("2.5"),
		Note:    "test",
	}
	f.WinAmount, f.PotentialWin = core.NormalizeAmounts(outcome, decimal.RequireFromString(amount))
	return core.BetEntry{ID: uuid.New(), Fields: f}
}

func ids(entries []core.BetEntry) []uuid.UUID {
	out := make([]uuid.UUID, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

// RunRepositoryContract runs the shared repository tests against a fresh
// repository from newRepo.
func RunRepositoryContract(t *testing.T, newRepo func(t *testing.T) Repository) {
	t.Run("insert get and list sorted", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		base := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

		older := NewEntry(core.OutcomeLoss, "5", "12.5", base.Add(-48*time.Hour))
		tieA := NewEntry(core.OutcomeWin, "10", "25", base)
		tieB := NewEntry(core.OutcomeWin, "1", "2", base)
		newest := NewEntry(core.OutcomeLoss, "3", "0", base.Add(time.Hour))

		for _, e := range []core.BetEntry{older, tieA, tieB, newest} {
			require.NoError(t, repo.Insert(ctx, e))
		}

		list, err := repo.ListSorted(ctx)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{newest.ID, tieA.ID, tieB.ID, older.ID}, ids(list))

		got, err := repo.Get(ctx, tieA.ID)
		require.NoError(t, err)
		assert.True(t, got.Date.Equal(tieA.Date))
		assert.Equal(t, core.OutcomeWin, got.Outcome)
		assert.True(t, got.Stake.Equal(tieA.Stake))
		assert.True(t, got.Odds.Equal(tieA.Odds))
		assert.True(t, got.WinAmount.Equal(decimal.RequireFromString("25")))
		assert.True(t, got.PotentialWin.IsZero())
		assert.Equal(t, "test", got.Note)
	})

	t.Run("dates far from the epoch", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		future := NewEntry(core.OutcomeWin, "10", "25", time.Date(2300, 1, 1, 12, 0, 0, 0, time.UTC))
		farFuture := NewEntry(core.OutcomeWin, "1", "2", time.Date(3026, 10, 16, 0, 0, 0, 0, time.UTC))
		past := NewEntry(core.OutcomeLoss, "5", "12.5", time.Date(1600, 1, 1, 0, 0, 0, 0, time.UTC))
		preEpoch := NewEntry(core.OutcomeLoss, "1", "0", time.Date(1969, 12, 31, 23, 59, 59, 250000000, time.UTC))
		sameSecond := NewEntry(core.OutcomeLoss, "1", "0", time.Date(1969, 12, 31, 23, 59, 59, 750000000, time.UTC))

		for _, e := range []core.BetEntry{past, preEpoch, future, sameSecond, farFuture} {
			require.NoError(t, repo.Insert(ctx, e))
		}

		for _, e := range []core.BetEntry{future, farFuture, past, preEpoch, sameSecond} {
			got, err := repo.Get(ctx, e.ID)
			require.NoError(t, err)
			assert.True(t, got.Date.Equal(e.Date), "date %s != %s", got.Date, e.Date)
		}

		list, err := repo.ListSorted(ctx)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{farFuture.ID, future.ID, sameSecond.ID, preEpoch.ID, past.ID}, ids(list))

		past.Date = time.Date(1600, 6, 1, 0, 0, 0, 0, time.UTC)
		require.NoError(t, repo.Update(ctx, past))
		got, err := repo.Get(ctx, past.ID)
		require.NoError(t, err)
		assert.True(t, got.Date.Equal(past.Date), "date %s != %s", got.Date, past.Date)
	})

	t.Run("get missing", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Get(context.Background(), uuid.New())
		require.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("update replaces fields", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		e := NewEntry(core.OutcomeWin, "10", "25", time.Now())
		require.NoError(t, repo.Insert(ctx, e))

		e.Outcome = core.OutcomeLoss
		e.WinAmount, e.PotentialWin = core.NormalizeAmounts(core.OutcomeLoss, decimal.RequireFromString("40"))
		e.Note = "changed"
		require.NoError(t, repo.Update(ctx, e))

		got, err := repo.Get(ctx, e.ID)
		require.NoError(t, err)
		assert.Equal(t, core.OutcomeLoss, got.Outcome)
		assert.True(t, got.WinAmount.IsZero())
		assert.True(t, got.PotentialWin.Equal(decimal.RequireFromString("40")))
		assert.Equal(t, "changed", got.Note)

		missing := NewEntry(core.OutcomeWin, "1", "1", time.Now())
		require.ErrorIs(t, repo.Update(ctx, missing), core.ErrNotFound)
	})

	t.Run("insert rejects invalid entries", func(t *testing.T) {
		repo := newRepo(t)
		e := NewEntry(core.OutcomeWin, "1", "1", time.Now())
		e.Stake = decimal.RequireFromString("-1")
		require.ErrorIs(t, repo.Insert(context.Background(), e), core.ErrNegativeAmount)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		a := NewEntry(core.OutcomeWin, "1", "2", time.Now())
		b := NewEntry(core.OutcomeLoss, "1", "2", time.Now())
		require.NoError(t, repo.Insert(ctx, a))
		require.NoError(t, repo.Insert(ctx, b))

		removed, err := repo.Delete(ctx, uuid.New(), a.ID)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{a.ID}, removed)

		removed, err = repo.Delete(ctx, a.ID)
		require.NoError(t, err)
		assert.Empty(t, removed)

		removed, err = repo.Delete(ctx)
		require.NoError(t, err)
		assert.Empty(t, removed)

		list, err := repo.ListSorted(ctx)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{b.ID}, ids(list))
	})

	t.Run("settings round trip", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		defaults := core.DefaultSettings()

		s, err := repo.LoadSettings(ctx, defaults)
		require.NoError(t, err)
		assert.Equal(t, defaults, s)

		want := core.Settings{Language: locale.English, Currency: locale.EUR, DisplayName: "Mati"}
		require.NoError(t, repo.SaveSettings(ctx, want))
		s, err = repo.LoadSettings(ctx, defaults)
		require.NoError(t, err)
		assert.Equal(t, want, s)

		require.ErrorIs(t, repo.SaveSettings(ctx, core.Settings{Language: "xx", Currency: locale.PLN}), locale.ErrInvalidLanguage)
	})
}
