package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOutcome(t *testing.T) {
	cases := []struct {
		in   string
		want Outcome
		ok   bool
	}{
		{"win", OutcomeWin, true},
		{" WIN ", OutcomeWin, true},
		{"Wygrana", OutcomeWin, true},
		{"loss", OutcomeLoss, true},
		{"Przegrana", OutcomeLoss, true},
		{"draw", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseOutcome(tc.in)
		if !tc.ok {
			require.ErrorIs(t, err, ErrInvalidOutcome, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestNormalizeAmounts(t *testing.T) {
	w, p := NormalizeAmounts(OutcomeWin, dec("25"))
	assertDec(t, "25", w)
	assertDec(t, "0", p)

	w, p = NormalizeAmounts(OutcomeLoss, dec("40"))
	assertDec(t, "0", w)
	assertDec(t, "40", p)
}

func TestEntryInputNormalize(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

	t.Run("win keeps winnings and zeroes potential", func(t *testing.T) {
		f, coerced, err := EntryInput{Outcome: OutcomeWin, Stake: "10", Odds: "2,5", Amount: "25,00"}.Normalize(now)
		require.NoError(t, err)
		assert.Empty(t, coerced)
		assertDec(t, "10", f.Stake)
		assertDec(t, "2.5", f.Odds)
		assertDec(t, "25", f.WinAmount)
		assertDec(t, "0", f.PotentialWin)
		assert.Equal(t, now, f.Date)
		require.NoError(t, f.Validate())
	})

	t.Run("loss keeps potential and zeroes winnings", func(t *testing.T) {
		f, _, err := EntryInput{Outcome: OutcomeLoss, Stake: "5", Odds: "3", Amount: "15"}.Normalize(now)
		require.NoError(t, err)
		assertDec(t, "0", f.WinAmount)
		assertDec(t, "15", f.PotentialWin)
	})

	t.Run("garbage is coerced not rejected", func(t *testing.T) {
		f, coerced, err := EntryInput{Outcome: OutcomeWin, Stake: "abc", Odds: "x", Amount: "-3"}.Normalize(now)
		require.NoError(t, err)
		assertDec(t, "0", f.Stake)
		assertDec(t, "1", f.Odds)
		assertDec(t, "0", f.WinAmount)
		assert.Equal(t, []string{FieldStake, FieldOdds, FieldAmount}, coerced)
	})

	t.Run("empty fields use defaults silently", func(t *testing.T) {
		f, coerced, err := EntryInput{Outcome: OutcomeLoss}.Normalize(now)
		require.NoError(t, err)
		assert.Empty(t, coerced)
		assertDec(t, "0", f.Stake)
		assertDec(t, "1", f.Odds)
	})

	t.Run("explicit date is kept", func(t *testing.T) {
		past := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
		f, _, err := EntryInput{Outcome: OutcomeWin, Stake: "1", Date: past}.Normalize(now)
		require.NoError(t, err)
		assert.Equal(t, past, f.Date)
	})

	t.Run("invalid outcome", func(t *testing.T) {
		_, _, err := EntryInput{Outcome: "draw", Stake: "1"}.Normalize(now)
		require.ErrorIs(t, err, ErrInvalidOutcome)
	})
}

func TestFieldsNormalize(t *testing.T) {
	f := Fields{Outcome: OutcomeWin, WinAmount: dec("30"), PotentialWin: dec("99")}.Normalize()
	assertDec(t, "30", f.WinAmount)
	assertDec(t, "0", f.PotentialWin)

	f = Fields{Outcome: OutcomeLoss, WinAmount: dec("30"), PotentialWin: dec("99")}.Normalize()
	assertDec(t, "0", f.WinAmount)
	assertDec(t, "99", f.PotentialWin)
}

func TestFieldsValidate(t *testing.T) {
	now := time.Now()
	good := Fields{Date: now, Outcome: OutcomeWin, Stake: dec("0"), Odds: dec("1"), WinAmount: dec("0"), PotentialWin: decimal.Zero}
	require.NoError(t, good.Validate())

	bads := []Fields{
		{Date: now, Outcome: "draw"},
		{Outcome: OutcomeWin},
		{Date: now, Outcome: OutcomeWin, Stake: dec("-1")},
		{Date: now, Outcome: OutcomeWin, PotentialWin: dec("5")},
		{Date: now, Outcome: OutcomeLoss, WinAmount: dec("5")},
	}
	for i, f := range bads {
		assert.Error(t, f.Validate(), "case %d", i)
	}
	assert.ErrorIs(t, bads[2].Validate(), ErrNegativeAmount)
}

func TestEditInput(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	in := EditInput(win("10", "25.5", at))
	assert.Equal(t, "10", in.Stake)
	assert.Equal(t, "2", in.Odds)
	assert.Equal(t, "25.5", in.Amount)

	in = EditInput(loss("5", "12", at))
	assert.Equal(t, OutcomeLoss, in.Outcome)
	assert.Equal(t, "12", in.Amount)

	// editing without changes reproduces the same fields
	f, _, err := in.Normalize(time.Now())
	require.NoError(t, err)
	assertDec(t, "5", f.Stake)
	assertDec(t, "12", f.PotentialWin)
	assert.Equal(t, at, f.Date)
}

func TestEditInput_KeepsExtraDecimals(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	e := win("10.125", "18.984", at)
	e.Odds = dec("1.875")

	in := EditInput(e)
	assert.Equal(t, "10.125", in.Stake)
	assert.Equal(t, "1.875", in.Odds)
	assert.Equal(t, "18.984", in.Amount)

	f, coerced, err := in.Normalize(time.Now())
	require.NoError(t, err)
	assert.Empty(t, coerced)
	assertDec(t, "10.125", f.Stake)
	assertDec(t, "1.875", f.Odds)
	assertDec(t, "18.984", f.WinAmount)
	assert.True(t, f.PotentialWin.IsZero())
}
