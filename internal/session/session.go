// Package session keeps the inputs of one interactive calculator and
// recomputes the full result whenever any of them changes.
package session

import (
	"time"

	"github.com/XavierBriggs/fortuna/services/arb-calculator/internal/calculator"
	"github.com/XavierBriggs/fortuna/services/arb-calculator/internal/report"
	"github.com/XavierBriggs/fortuna/services/arb-calculator/pkg/models"
	"github.com/google/uuid"
)

// Defaults for a new session, matching the calculator form's initial state
const (
	DefaultOdds1        = 2.5
	DefaultOdds2        = 2.0
	DefaultTargetProfit = 10.0
	DefaultBias         = 50.0
)

// Session is owned by a single connection and is not safe for concurrent use
type Session struct {
	ID          string
	solver      *calculator.Solver
	params      calculator.Request
	last        models.SolveResponse
	connectedAt time.Time
	updates     int64
}

// New creates a session seeded with the default form values
func New(solver *calculator.Solver, mode calculator.Mode) *Session {
	return &Session{
		ID:     uuid.New().String(),
		solver: solver,
		params: calculator.Request{
			Mode:         mode,
			Odds1:        DefaultOdds1,
			Odds2:        DefaultOdds2,
			TargetProfit: DefaultTargetProfit,
			Bias:         DefaultBias,
		},
		connectedAt: time.Now(),
	}
}

// Params returns the current inputs
func (s *Session) Params() calculator.Request {
	return s.params
}

// Last returns the most recent successful result
func (s *Session) Last() models.SolveResponse {
	return s.last
}

// Updates returns the number of applied updates
func (s *Session) Updates() int64 {
	return s.updates
}

// ConnectedAt returns when the session was created
func (s *Session) ConnectedAt() time.Time {
	return s.connectedAt
}

// Recompute solves the current inputs and replaces the previous result
func (s *Session) Recompute() (models.SolveResponse, calculator.Result, error) {
	res, err := s.solver.Solve(s.params)
	if err != nil {
		return models.SolveResponse{}, calculator.Result{}, err
	}
	s.last = report.NewResponse(s.params, res)
	return s.last, res, nil
}

// Apply merges the non-nil fields of u and recomputes. If the merged inputs
// are rejected the previous inputs and result are kept.
func (s *Session) Apply(u models.ParamUpdate) (models.SolveResponse, calculator.Result, error) {
	next := s.params

	if u.Mode != nil {
		mode, err := calculator.ParseMode(*u.Mode)
		if err != nil {
			return models.SolveResponse{}, calculator.Result{}, err
		}
		next.Mode = mode
	}
	if u.Odds1 != nil {
		next.Odds1 = *u.Odds1
	}
	if u.Odds2 != nil {
		next.Odds2 = *u.Odds2
	}
	if u.TargetProfit != nil {
		next.TargetProfit = *u.TargetProfit
	}
	if u.Bias != nil {
		next.Bias = *u.Bias
	}

	if err := calculator.Validate(next); err != nil {
		return models.SolveResponse{}, calculator.Result{}, err
	}

	prev := s.params
	s.params = next
	resp, res, err := s.Recompute()
	if err != nil {
		s.params = prev
		return models.SolveResponse{}, calculator.Result{}, err
	}
	s.updates++
	return resp, res, nil
}
