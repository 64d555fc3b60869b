package calculator

import "math"

// SolveSymmetric finds stakes so that either outcome returns targetProfit.
//
// Fixed-point iteration, starting from stake2 = targetProfit:
//
//	stake1 = (targetProfit + stake2) / (odds1 - 1)
//	stake2 = (targetProfit + stake1) / (odds2 - 1)
//
// until the change in stake2 is within opts.Tolerance relative to stake2
// (absolute below a stake of 1). The map is a contraction with factor
// 1/((odds1-1)(odds2-1)), which is below 1 exactly when the market is an
// arbitrage. Thin margins contract slowly, so the default iteration budget
// grows with the factor.
//
// Example: 2.50 / 2.00 for $10 → $40.00 + $50.00, total $90.00, ROI 11.11%
func SolveSymmetric(odds1, odds2, targetProfit float64, opts Options) Result {
	if !IsArbitrage(odds1, odds2) {
		return Result{}
	}
	opts = opts.normalized()

	stake1 := 0.0
	stake2 := targetProfit
	converged := false
	iterations := 0
	limit := opts.iterationLimit(odds1, odds2, 1)

	for iterations < limit {
		iterations++

		stake1 = (targetProfit + stake2) / (odds1 - 1)
		newStake2 := (targetProfit + stake1) / (odds2 - 1)

		difference := newStake2 - stake2
		stake2 = newStake2

		if !finite(difference) {
			break
		}
		if math.Abs(difference) <= opts.Tolerance*math.Max(1, stake2) {
			converged = true
			break
		}
	}

	result := settle(odds1, odds2, stake1, stake2)
	result.ROI = TargetROI(targetProfit, result.TotalStake)
	result.Converged = converged
	result.Iterations = iterations
	return result
}

// TargetROI is the symmetric-mode return: the profit target over total stake, in percent
func TargetROI(targetProfit, totalStake float64) float64 {
	if totalStake == 0 {
		return 0
	}
	return targetProfit / totalStake * 100
}
