// Package core holds the betting-slip entry model, the money arithmetic
// derived from it and the calendar-day grouping used for presentation.
package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
)

type (
	// Outcome classifies a settled bet.
	Outcome string

	// Fields is everything a stored entry carries besides its identity.
	Fields struct {
		Date         time.Time
		Outcome      Outcome
		Stake        decimal.Decimal
		Odds         decimal.Decimal
		WinAmount    decimal.Decimal // gross payout, Win only
		PotentialWin decimal.Decimal // payout had it won, Loss only
		Note         string
	}

	// BetEntry is one recorded slip.
	BetEntry struct {
		ID uuid.UUID
		Fields
	}

	// EntryInput is the raw form of an entry as typed by the user. Amount is
	// the single "winnings" / "potential winnings" field; which one it feeds
	// depends on Outcome.
	EntryInput struct {
		Outcome Outcome
		Stake   string
		Odds    string
		Amount  string
		Date    time.Time
		Note    string
	}
)

var (
	ErrNotFound         = errors.New("entry not found")
	ErrInvalidOutcome   = errors.New("invalid outcome")
	ErrNegativeAmount   = errors.New("amount cannot be negative")
	ErrEmptyDisplayName = errors.New("display name cannot be empty")
)

// Input field names reported when text is coerced to a default.
const (
	FieldStake  = "stake"
	FieldOdds   = "odds"
	FieldAmount = "amount"
)

var outcomeAliases = map[string]Outcome{
	"win":       OutcomeWin,
	"w":         OutcomeWin,
	"wygrana":   OutcomeWin,
	"loss":      OutcomeLoss,
	"lose":      OutcomeLoss,
	"l":         OutcomeLoss,
	"przegrana": OutcomeLoss,
}

// ParseOutcome accepts the canonical values as well as the Polish labels.
func ParseOutcome(s string) (Outcome, error) {
	if o, ok := outcomeAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return o, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidOutcome, s)
}

func (o Outcome) IsValid() bool {
	return o == OutcomeWin || o == OutcomeLoss
}

func (o Outcome) String() string {
	return string(o)
}

// NormalizeAmounts routes the single user-entered amount to the field that
// is meaningful for the outcome and zeroes the other one.
func NormalizeAmounts(outcome Outcome, amount decimal.Decimal) (winAmount, potentialWin decimal.Decimal) {
	if outcome == OutcomeWin {
		return amount, decimal.Zero
	}
	return decimal.Zero, amount
}

// Amount returns the outcome-dependent amount: the gross payout of a win or
// the potential payout of a loss.
func (f Fields) Amount() decimal.Decimal {
	if f.Outcome == OutcomeWin {
		return f.WinAmount
	}
	return f.PotentialWin
}

// Normalize re-applies the win/potential exclusivity to typed fields.
func (f Fields) Normalize() Fields {
	f.WinAmount, f.PotentialWin = NormalizeAmounts(f.Outcome, f.Amount())
	return f
}

func (f Fields) Validate() error {
	if !f.Outcome.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidOutcome, f.Outcome)
	}
	if f.Date.IsZero() {
		return errors.New("date cannot be zero")
	}
	amounts := []struct {
		name  string
		value decimal.Decimal
	}{
		{"stake", f.Stake},
		{"odds", f.Odds},
		{"win amount", f.WinAmount},
		{"potential win", f.PotentialWin},
	}
	for _, a := range amounts {
		if a.value.IsNegative() {
			return fmt.Errorf("%s: %w", a.name, ErrNegativeAmount)
		}
	}
	if f.Outcome == OutcomeWin && !f.PotentialWin.IsZero() {
		return errors.New("win entry cannot carry a potential win")
	}
	if f.Outcome == OutcomeLoss && !f.WinAmount.IsZero() {
		return errors.New("loss entry cannot carry a win amount")
	}
	return nil
}

// Normalize turns raw input into storable fields. Malformed numbers never
// fail: stake and amount fall back to 0 and odds to 1.0. The names of the
// non-empty fields that had to be coerced are returned so callers can warn.
// A zero Date defaults to now.
func (in EntryInput) Normalize(now time.Time) (Fields, []string, error) {
	if !in.Outcome.IsValid() {
		return Fields{}, nil, fmt.Errorf("%w: %q", ErrInvalidOutcome, in.Outcome)
	}

	var coerced []string
	parse := func(name, text string, fallback decimal.Decimal) decimal.Decimal {
		v, ok := ParseAmount(text, fallback)
		if !ok && strings.TrimSpace(text) != "" {
			coerced = append(coerced, name)
		}
		return v
	}

	stake := parse(FieldStake, in.Stake, decimal.Zero)
	odds := parse(FieldOdds, in.Odds, DefaultOdds)
	amount := parse(FieldAmount, in.Amount, decimal.Zero)

	date := in.Date
	if date.IsZero() {
		date = now
	}

	f := Fields{
		Date:    date,
		Outcome: in.Outcome,
		Stake:   stake,
		Odds:    odds,
		Note:    in.Note,
	}
	f.WinAmount, f.PotentialWin = NormalizeAmounts(in.Outcome, amount)
	return f, coerced, nil
}

// EditInput renders an entry back into the raw form used to edit it.
// Amounts keep their exact stored value so unchanged fields round-trip.
func EditInput(e BetEntry) EntryInput {
	return EntryInput{
		Outcome: e.Outcome,
		Stake:   e.Stake.String(),
		Odds:    e.Odds.String(),
		Amount:  e.Amount().String(),
		Date:    e.Date,
		Note:    e.Note,
	}
}
