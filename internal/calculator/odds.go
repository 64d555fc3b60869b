package calculator

import (
	"fmt"
	"math"
)

// ImpliedProbability returns the combined implied probability of a two-way market
// 2.50 / 2.00 → 0.40 + 0.50 = 0.90
func ImpliedProbability(odds1, odds2 float64) float64 {
	return 1.0/odds1 + 1.0/odds2
}

// IsArbitrage reports whether both outcomes can be covered at a profit
func IsArbitrage(odds1, odds2 float64) bool {
	return ImpliedProbability(odds1, odds2) < 1.0
}

// ProfitMargin returns the book's edge for the bettor in percent
// Negative when the market is not an arbitrage
func ProfitMargin(odds1, odds2 float64) float64 {
	return (1.0 - ImpliedProbability(odds1, odds2)) * 100.0
}

// AmericanToDecimal converts American odds to decimal odds
// American +150 → Decimal 2.50
// American -150 → Decimal 1.67
func AmericanToDecimal(american int) (float64, error) {
	if american == 0 {
		return 0, fmt.Errorf("invalid American odds: cannot be 0")
	}

	if american > 0 {
		return (float64(american) / 100.0) + 1.0, nil
	}

	return (100.0 / float64(-american)) + 1.0, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
