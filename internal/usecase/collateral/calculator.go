package collateral

import (
	domainCollateral "microfin-ledger/internal/domain/collateral"
	"microfin-ledger/pkg/money"
)

// RequiredAmount returns the collateral a notional amount must be backed by:
// amount × rate / 100, where the rate comes from the first bracket covering
// the amount ([Min, Max)) and falls back to the system default. Pure.
func RequiredAmount(amount float64, brackets []domainCollateral.Bracket, defaultRate float64) float64 {
	rate := defaultRate
	for _, b := range brackets {
		if amount >= b.Min && amount < b.Max {
			if b.Rate != nil {
				rate = *b.Rate
			}
			break
		}
	}
	return money.Round2(amount * rate / 100)
}
