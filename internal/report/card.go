package report

import (
	"fmt"
	"io"

	"github.com/XavierBriggs/fortuna/services/arb-calculator/internal/calculator"
	"github.com/XavierBriggs/fortuna/services/arb-calculator/pkg/models"
	"github.com/shopspring/decimal"
)

// WriteCard prints a plain text result card
func WriteCard(w io.Writer, req calculator.Request, resp models.SolveResponse) error {
	lines := [][2]string{
		{"mode", string(req.Mode)},
		{"odds", fmt.Sprintf("%s / %s", decimal.NewFromFloat(req.Odds1).StringFixed(2), decimal.NewFromFloat(req.Odds2).StringFixed(2))},
		{"profit", Money(req.TargetProfit, true)},
		{"confidence", resp.Display.Confidence},
		{"stake 1", resp.Display.Stake1},
		{"stake 2", resp.Display.Stake2},
		{"profit 1", resp.Display.Profit1},
		{"profit 2", resp.Display.Profit2},
		{"total stake", resp.Display.TotalStake},
		{"roi", resp.Display.ROI},
	}

	if _, err := fmt.Fprintln(w, "accurate arbitrage calculator"); err != nil {
		return err
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "  %-12s %s\n", l[0], l[1]); err != nil {
			return err
		}
	}
	for _, warning := range resp.Warnings {
		if _, err := fmt.Fprintf(w, "  ! %s\n", warning); err != nil {
			return err
		}
	}
	return nil
}
