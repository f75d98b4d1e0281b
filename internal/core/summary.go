package core

import "github.com/shopspring/decimal"

// Summary holds the aggregate figures of an entry set. It is always
// recomputed from the full set; there is no running total to drift.
type Summary struct {
	Count     int
	Wins      int
	Losses    int
	Balance   decimal.Decimal // sum of net effects
	Stake     decimal.Decimal // gross amount staked, all outcomes
	Winnings  decimal.Decimal // net effect of Win entries only
	LossStake decimal.Decimal // stake of Loss entries
}

// NetEffect is the signed impact of one entry on the balance: the net
// profit of a win, or minus the stake of a loss.
func NetEffect(e BetEntry) decimal.Decimal {
	if e.Outcome == OutcomeWin {
		return e.WinAmount.Sub(e.Stake)
	}
	return e.Stake.Neg()
}

// TotalBalance is the current balance of the ledger.
func TotalBalance(entries []BetEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(NetEffect(e))
	}
	return total
}

// TotalStake sums the stake of every entry regardless of outcome.
func TotalStake(entries []BetEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Stake)
	}
	return total
}

// TotalWinnings sums the net profit of Win entries. Losses contribute 0.
func TotalWinnings(entries []BetEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if e.Outcome == OutcomeWin {
			total = total.Add(NetEffect(e))
		}
	}
	return total
}

// TotalLosses sums the stake lost on Loss entries.
func TotalLosses(entries []BetEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if e.Outcome != OutcomeWin {
			total = total.Add(e.Stake)
		}
	}
	return total
}

// Summarize computes every aggregate in one pass.
func Summarize(entries []BetEntry) Summary {
	s := Summary{
		Count:     len(entries),
		Balance:   decimal.Zero,
		Stake:     decimal.Zero,
		Winnings:  decimal.Zero,
		LossStake: decimal.Zero,
	}
	for _, e := range entries {
		net := NetEffect(e)
		s.Balance = s.Balance.Add(net)
		s.Stake = s.Stake.Add(e.Stake)
		if e.Outcome == OutcomeWin {
			s.Wins++
			s.Winnings = s.Winnings.Add(net)
		} else {
			s.Losses++
			s.LossStake = s.LossStake.Add(e.Stake)
		}
	}
	return s
}
