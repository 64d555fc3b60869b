package report_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/XavierBriggs/fortuna/services/arb-calculator/internal/calculator"
	"github.com/XavierBriggs/fortuna/services/arb-calculator/internal/report"
	"github.com/XavierBriggs/fortuna/services/arb-calculator/pkg/models"
)

func solve(t *testing.T, req calculator.Request) calculator.Result {
	t.Helper()
	res, err := calculator.NewSolver(calculator.DefaultOptions()).Solve(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return res
}

func TestMoneyAndPercent(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{name: "money", got: report.Money(40.0000000001, true), want: "$40.00"},
		{name: "money rounds half up", got: report.Money(13.335, true), want: "$13.34"},
		{name: "tiny negative is zero", got: report.Money(-1e-9, true), want: "$0.00"},
		{name: "negative", got: report.Money(-3.5, true), want: "$-3.50"},
		{name: "invalid money", got: report.Money(12, false), want: "n/a"},
		{name: "percent", got: report.Percent(100.0/9.0, true), want: "11.11%"},
		{name: "invalid percent", got: report.Percent(5, false), want: "n/a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestConfidenceLabel(t *testing.T) {
	tests := map[float64]string{
		50:   "50% / 50%",
		0:    "100% / 0%",
		30:   "70% / 30%",
		33.5: "66.5% / 33.5%",
	}

	for bias, want := range tests {
		if got := report.ConfidenceLabel(bias); got != want {
			t.Errorf("ConfidenceLabel(%v) = %q, want %q", bias, got, want)
		}
	}
}

func TestNewResponse_Valid(t *testing.T) {
	req := calculator.Request{Mode: calculator.ModeSymmetric, Odds1: 2.5, Odds2: 2.0, TargetProfit: 10, Bias: 50}
	resp := report.NewResponse(req, solve(t, req))

	if resp.Status != "ok" || !resp.Valid || !resp.Converged {
		t.Fatalf("unexpected status: %+v", resp)
	}
	if resp.Display.Stake1 != "$40.00" || resp.Display.Stake2 != "$50.00" {
		t.Errorf("stakes = %s / %s", resp.Display.Stake1, resp.Display.Stake2)
	}
	if resp.Display.TotalStake != "$90.00" || resp.Display.ROI != "11.11%" {
		t.Errorf("total = %s, roi = %s", resp.Display.TotalStake, resp.Display.ROI)
	}
	if resp.Display.Profit1 != "$10.00" || resp.Display.Profit2 != "$10.00" {
		t.Errorf("profits = %s / %s", resp.Display.Profit1, resp.Display.Profit2)
	}
	if len(resp.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", resp.Warnings)
	}
	if resp.ImpliedProbability < 0.8999 || resp.ImpliedProbability > 0.9001 {
		t.Errorf("implied probability = %f", resp.ImpliedProbability)
	}
}

func TestNewResponse_NotArbitrage(t *testing.T) {
	req := calculator.Request{Mode: calculator.ModeSymmetric, Odds1: 1.5, Odds2: 1.5, TargetProfit: 10, Bias: 50}
	resp := report.NewResponse(req, solve(t, req))

	if resp.Valid || resp.Status != "not_arbitrage" {
		t.Fatalf("expected not_arbitrage, got %+v", resp)
	}
	for _, v := range []string{resp.Display.Stake1, resp.Display.Stake2, resp.Display.Profit1, resp.Display.Profit2, resp.Display.TotalStake, resp.Display.ROI} {
		if v != report.NotAvailable {
			t.Errorf("display value = %q, want n/a", v)
		}
	}
	if len(resp.Warnings) != 1 || resp.Warnings[0] != report.NotArbitrageMessage {
		t.Errorf("warnings = %v", resp.Warnings)
	}
}

func TestNewResponse_LowMarginAndNonConvergence(t *testing.T) {
	req := calculator.Request{Mode: calculator.ModeSymmetric, Odds1: 2.02, Odds2: 2.0, TargetProfit: 10, Bias: 50}
	res, err := calculator.NewSolver(calculator.Options{Tolerance: 1e-12, MaxIterations: 5}).Solve(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp := report.NewResponse(req, res)
	if resp.Status != "did_not_converge" {
		t.Fatalf("status = %s", resp.Status)
	}
	if len(resp.Warnings) != 2 {
		t.Fatalf("expected convergence and margin warnings, got %v", resp.Warnings)
	}
	if !strings.Contains(resp.Warnings[0], "did not converge after 5 iterations") {
		t.Errorf("warning = %q", resp.Warnings[0])
	}
	if resp.Warnings[1] != report.LowMarginMessage {
		t.Errorf("warning = %q", resp.Warnings[1])
	}
}

func TestParseRequest(t *testing.T) {
	plus150, minus120, zero := 150, -120, 0
	bias := 20.0

	tests := []struct {
		name    string
		in      models.SolveRequest
		want    calculator.Request
		wantErr error
	}{
		{
			name: "defaults mode and bias",
			in:   models.SolveRequest{Odds1: 2.5, Odds2: 2.0, TargetProfit: 10},
			want: calculator.Request{Mode: calculator.ModeSymmetric, Odds1: 2.5, Odds2: 2.0, TargetProfit: 10, Bias: 50},
		},
		{
			name: "explicit biased mode",
			in:   models.SolveRequest{Mode: "biased", Odds1: 2.5, Odds2: 2.0, TargetProfit: 10, Bias: &bias},
			want: calculator.Request{Mode: calculator.ModeBiased, Odds1: 2.5, Odds2: 2.0, TargetProfit: 10, Bias: 20},
		},
		{
			name: "american odds fill zero decimals",
			in:   models.SolveRequest{American1: &plus150, Odds2: 2.2, American2: &minus120, TargetProfit: 5},
			want: calculator.Request{Mode: calculator.ModeSymmetric, Odds1: 2.5, Odds2: 2.2, TargetProfit: 5, Bias: 50},
		},
		{
			name:    "zero american odds",
			in:      models.SolveRequest{American1: &zero, Odds2: 2.0, TargetProfit: 5},
			wantErr: calculator.ErrInvalidOdds,
		},
		{
			name:    "unknown mode",
			in:      models.SolveRequest{Mode: "dutch", Odds1: 2.5, Odds2: 2.0, TargetProfit: 10},
			wantErr: calculator.ErrUnknownMode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := report.ParseRequest(tt.in, calculator.ModeSymmetric)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestWriteCard(t *testing.T) {
	req := calculator.Request{Mode: calculator.ModeBiased, Odds1: 2.5, Odds2: 2.0, TargetProfit: 10, Bias: 0}
	resp := report.NewResponse(req, solve(t, req))

	var buf bytes.Buffer
	if err := report.WriteCard(&buf, req, resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"accurate arbitrage calculator",
		"odds         2.50 / 2.00",
		"confidence   100% / 0%",
		"stake 1      $20.00",
		"stake 2      $20.00",
		"profit 2     $0.00",
		"total stake  $40.00",
		"roi          12.50%",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("card missing %q:\n%s", want, out)
		}
	}
}
