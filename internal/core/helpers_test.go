package core

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func win(stake, payout string, at time.Time) BetEntry {
	return BetEntry{ID: uuid.New(), Fields: Fields{
		Date: at, Outcome: OutcomeWin, Stake: dec(stake), Odds: dec("2"), WinAmount: dec(payout), PotentialWin: decimal.Zero,
	}}
}

func loss(stake, potential string, at time.Time) BetEntry {
	return BetEntry{ID: uuid.New(), Fields: Fields{
		Date: at, Outcome: OutcomeLoss, Stake: dec(stake), Odds: dec("2"), WinAmount: decimal.Zero, PotentialWin: dec(potential),
	}}
}
