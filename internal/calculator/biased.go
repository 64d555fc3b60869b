package calculator

import "math"

// BranchTargets splits targetProfit into per-outcome targets by bias.
// Below 50 the second outcome's target shrinks linearly to 0 at bias 0,
// above 50 the first outcome's target shrinks to 0 at bias 100. At 50 both
// outcomes keep the full target.
func BranchTargets(targetProfit, bias float64) (target1, target2 float64) {
	target1, target2 = targetProfit, targetProfit
	switch {
	case bias < 50:
		target2 = targetProfit * bias / 50
	case bias > 50:
		target1 = targetProfit * (100 - bias) / 50
	}
	return target1, target2
}

// SolveBiased finds stakes for per-outcome profit targets from BranchTargets.
//
// Both stakes start at targetN/(oddsN-1) and are updated together each round
// from the previous pair:
//
//	stake1' = (target1 + stake2) / (odds1 - 1)
//	stake2' = (target2 + stake1) / (odds2 - 1)
//
// Iteration stops when the sum of both deltas is within opts.Tolerance
// relative to the total stake. The summed delta is a looser test than
// checking each stake: deltas of opposite sign can cancel. Each round only
// feeds one stake into the other, so the error shrinks at half the symmetric
// rate and the default budget doubles.
//
// At bias 50 this reaches the same fixed point as SolveSymmetric.
func SolveBiased(odds1, odds2, targetProfit, bias float64, opts Options) Result {
	if !IsArbitrage(odds1, odds2) {
		return Result{}
	}
	opts = opts.normalized()

	target1, target2 := BranchTargets(targetProfit, bias)

	stake1 := target1 / (odds1 - 1)
	stake2 := target2 / (odds2 - 1)
	converged := false
	iterations := 0
	limit := opts.iterationLimit(odds1, odds2, 2)

	for iterations < limit {
		iterations++

		newStake1 := (target1 + stake2) / (odds1 - 1)
		newStake2 := (target2 + stake1) / (odds2 - 1)

		difference := (newStake1 - stake1) + (newStake2 - stake2)
		stake1, stake2 = newStake1, newStake2

		if !finite(difference) {
			break
		}
		if math.Abs(difference) <= opts.Tolerance*math.Max(1, stake1+stake2) {
			converged = true
			break
		}
	}

	result := settle(odds1, odds2, stake1, stake2)
	result.ROI = AverageROI(result.Profit1, result.Profit2, result.TotalStake)
	result.Converged = converged
	result.Iterations = iterations
	return result
}

// AverageROI is the biased-mode return: the mean of both branch profits over
// total stake, in percent. It differs from TargetROI whenever the branch
// profits differ.
func AverageROI(profit1, profit2, totalStake float64) float64 {
	if totalStake == 0 {
		return 0
	}
	return (profit1 + profit2) / 2 / totalStake * 100
}
