// Package report turns solver results into API responses and result cards.
package report

import (
	"fmt"

	"github.com/XavierBriggs/fortuna/services/arb-calculator/internal/calculator"
	"github.com/XavierBriggs/fortuna/services/arb-calculator/pkg/models"
	"github.com/shopspring/decimal"
)

const (
	// NotAvailable replaces every value of an invalid result
	NotAvailable = "n/a"

	NotArbitrageMessage = "invalid arbitrage opportunity. adjust the odds to create a profitable arbitrage."
	LowMarginMessage    = "Low profit margin - consider transaction costs"

	lowMarginPct = 1.0
)

// NewResponse builds the API response for a solved request
func NewResponse(req calculator.Request, res calculator.Result) models.SolveResponse {
	margin := calculator.ProfitMargin(req.Odds1, req.Odds2)

	warnings := []string{}
	switch res.Status() {
	case calculator.StatusNotArbitrage:
		warnings = append(warnings, NotArbitrageMessage)
	case calculator.StatusDidNotConverge:
		warnings = append(warnings, fmt.Sprintf("did not converge after %d iterations - stakes are a best estimate", res.Iterations))
	}
	if res.Valid && margin < lowMarginPct {
		warnings = append(warnings, LowMarginMessage)
	}

	return models.SolveResponse{
		Mode:               string(req.Mode),
		Status:             string(res.Status()),
		Valid:              res.Valid,
		Converged:          res.Converged,
		Iterations:         res.Iterations,
		Stake1:             res.Stake1,
		Stake2:             res.Stake2,
		TotalStake:         res.TotalStake,
		Profit1:            res.Profit1,
		Profit2:            res.Profit2,
		ROI:                res.ROI,
		ImpliedProbability: calculator.ImpliedProbability(req.Odds1, req.Odds2),
		ProfitMarginPct:    margin,
		Display:            NewDisplay(res, req.Bias),
		Warnings:           warnings,
	}
}

// NewDisplay formats a result for a result card
func NewDisplay(res calculator.Result, bias float64) models.Display {
	return models.Display{
		Stake1:     Money(res.Stake1, res.Valid),
		Stake2:     Money(res.Stake2, res.Valid),
		Profit1:    Money(res.Profit1, res.Valid),
		Profit2:    Money(res.Profit2, res.Valid),
		TotalStake: Money(res.TotalStake, res.Valid),
		ROI:        Percent(res.ROI, res.Valid),
		Confidence: ConfidenceLabel(bias),
	}
}

// Money renders an amount as "$12.34", or "n/a" when the result is invalid
func Money(v float64, valid bool) string {
	if !valid {
		return NotAvailable
	}
	return "$" + decimal.NewFromFloat(v).StringFixed(2)
}

// Percent renders a percentage as "11.11%", or "n/a" when the result is invalid
func Percent(v float64, valid bool) string {
	if !valid {
		return NotAvailable
	}
	return decimal.NewFromFloat(v).StringFixed(2) + "%"
}

// ConfidenceLabel renders the bias split between outcomes, odds 1 first
// 30 → "70% / 30%"
func ConfidenceLabel(bias float64) string {
	b := decimal.NewFromFloat(bias)
	return fmt.Sprintf("%s%% / %s%%", decimal.NewFromInt(100).Sub(b).String(), b.String())
}
