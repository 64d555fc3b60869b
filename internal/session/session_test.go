package session_test

import (
	"errors"
	"testing"

	"github.com/XavierBriggs/fortuna/services/arb-calculator/internal/calculator"
	"github.com/XavierBriggs/fortuna/services/arb-calculator/internal/session"
	"github.com/XavierBriggs/fortuna/services/arb-calculator/pkg/models"
)

func ptr[T any](v T) *T {
	return &v
}

func newSession() *session.Session {
	return session.New(calculator.NewSolver(calculator.DefaultOptions()), calculator.ModeSymmetric)
}

func TestNew_Defaults(t *testing.T) {
	s := newSession()

	if s.ID == "" {
		t.Error("expected session ID")
	}

	want := calculator.Request{Mode: calculator.ModeSymmetric, Odds1: 2.5, Odds2: 2.0, TargetProfit: 10, Bias: 50}
	if s.Params() != want {
		t.Errorf("params = %+v, want %+v", s.Params(), want)
	}

	resp, _, err := s.Recompute()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Display.TotalStake != "$90.00" {
		t.Errorf("total = %s, want $90.00", resp.Display.TotalStake)
	}
}

func TestApply_ReplacesResult(t *testing.T) {
	s := newSession()
	if _, _, err := s.Recompute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, res, err := s.Apply(models.ParamUpdate{Mode: ptr("biased"), Bias: ptr(0.0)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.Params().Mode != calculator.ModeBiased || s.Params().Bias != 0 {
		t.Errorf("params not merged: %+v", s.Params())
	}
	if s.Params().Odds1 != 2.5 || s.Params().TargetProfit != 10 {
		t.Errorf("untouched params changed: %+v", s.Params())
	}
	if resp.Display.TotalStake != "$40.00" || !res.Converged {
		t.Errorf("total = %s, converged = %v", resp.Display.TotalStake, res.Converged)
	}
	if s.Last().Display.TotalStake != "$40.00" {
		t.Errorf("last result not replaced: %s", s.Last().Display.TotalStake)
	}
	if s.Updates() != 1 {
		t.Errorf("updates = %d, want 1", s.Updates())
	}
}

func TestApply_NotArbitrageIsAResult(t *testing.T) {
	s := newSession()

	resp, _, err := s.Apply(models.ParamUpdate{Odds1: ptr(1.5), Odds2: ptr(1.5)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Valid || resp.Status != string(calculator.StatusNotArbitrage) {
		t.Errorf("expected not_arbitrage, got %+v", resp)
	}
}

func TestApply_RejectedUpdateKeepsState(t *testing.T) {
	s := newSession()
	if _, _, err := s.Recompute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := s.Params()

	tests := []struct {
		name    string
		update  models.ParamUpdate
		wantErr error
	}{
		{name: "odds at 1", update: models.ParamUpdate{Odds1: ptr(1.0), Bias: ptr(10.0)}, wantErr: calculator.ErrInvalidOdds},
		{name: "bias out of range", update: models.ParamUpdate{Bias: ptr(101.0)}, wantErr: calculator.ErrInvalidBias},
		{name: "zero profit", update: models.ParamUpdate{TargetProfit: ptr(0.0)}, wantErr: calculator.ErrInvalidProfit},
		{name: "unknown mode", update: models.ParamUpdate{Mode: ptr("kelly")}, wantErr: calculator.ErrUnknownMode},
		{name: "profit overflows", update: models.ParamUpdate{TargetProfit: ptr(1e308)}, wantErr: calculator.ErrOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := s.Apply(tt.update)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if s.Params() != before {
				t.Errorf("params changed to %+v", s.Params())
			}
			if s.Last().Display.TotalStake != "$90.00" {
				t.Errorf("last result changed to %s", s.Last().Display.TotalStake)
			}
		})
	}

	if s.Updates() != 0 {
		t.Errorf("updates = %d, want 0", s.Updates())
	}
}
