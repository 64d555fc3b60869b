package calculator

import (
	"errors"
	"fmt"
	"math"
)

// Mode selects the stake-solving algorithm
type Mode string

const (
	// ModeSymmetric targets the same absolute profit on both outcomes
	ModeSymmetric Mode = "symmetric"
	// ModeBiased skews the profit target between outcomes by a weight
	ModeBiased Mode = "biased"
)

// ParseMode converts a string into a Mode
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeSymmetric, ModeBiased:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Request errors. Non-arbitrage markets and non-convergence are reported
// through Result, not as errors.
var (
	ErrInvalidOdds   = errors.New("odds must be finite and greater than 1")
	ErrInvalidProfit = errors.New("target profit must be finite and greater than 0")
	ErrInvalidBias   = errors.New("bias must be between 0 and 100")
	ErrUnknownMode   = errors.New("unknown mode")
	ErrOverflow      = errors.New("stakes overflow for this target profit")
)

// Iteration limits. DefaultTolerance is relative to the stake being solved.
// When Options.MaxIterations is zero the budget is derived from the odds and
// clamped to [MinIterations, IterationCeiling].
const (
	DefaultTolerance = 1e-9
	MinIterations    = 1000
	IterationCeiling = 1_000_000
)

// Options bounds the fixed-point iteration
type Options struct {
	Tolerance float64
	// MaxIterations caps the rounds per solve; 0 derives the cap from the odds
	MaxIterations int
}

// DefaultOptions returns the solver defaults
func DefaultOptions() Options {
	return Options{Tolerance: DefaultTolerance}
}

// normalized replaces a non-positive tolerance with the default and a
// negative cap with 0. A zero tolerance would only stop on exact float equality.
func (o Options) normalized() Options {
	if !(o.Tolerance > 0) || math.IsInf(o.Tolerance, 0) {
		o.Tolerance = DefaultTolerance
	}
	if o.MaxIterations < 0 {
		o.MaxIterations = 0
	}
	return o
}

// iterationLimit returns the explicit cap, or a budget large enough for the
// error to shrink below tolerance. Each round of the symmetric solver
// contracts the error by k = 1/((odds1-1)(odds2-1)); the biased solver needs
// roundsPerContraction = 2 for the same reduction.
func (o Options) iterationLimit(odds1, odds2 float64, roundsPerContraction int) int {
	if o.MaxIterations > 0 {
		return o.MaxIterations
	}

	logK := -math.Log((odds1 - 1) * (odds2 - 1))
	if !(logK < 0) {
		return IterationCeiling
	}

	rounds := float64(roundsPerContraction) * math.Ceil(math.Log(o.Tolerance/4)/logK)
	switch {
	case !(rounds < IterationCeiling):
		return IterationCeiling
	case rounds < MinIterations:
		return MinIterations
	default:
		return int(rounds)
	}
}

// Request is a single stake computation
type Request struct {
	Mode         Mode
	Odds1        float64
	Odds2        float64
	TargetProfit float64
	// Bias is the confidence weight in [0,100]; 50 is neutral.
	// Only ModeBiased reads it.
	Bias float64
}

// Status classifies a Result
type Status string

const (
	StatusOK             Status = "ok"
	StatusNotArbitrage   Status = "not_arbitrage"
	StatusDidNotConverge Status = "did_not_converge"
)

// Result holds computed stakes. When Valid is false every numeric field is zero.
type Result struct {
	Valid      bool
	Stake1     float64
	Stake2     float64
	TotalStake float64
	Profit1    float64
	Profit2    float64
	ROI        float64
	Converged  bool
	Iterations int
}

// Status returns the outcome classification of r
func (r Result) Status() Status {
	switch {
	case !r.Valid:
		return StatusNotArbitrage
	case !r.Converged:
		return StatusDidNotConverge
	default:
		return StatusOK
	}
}

func (r Result) finite() bool {
	for _, v := range []float64{r.Stake1, r.Stake2, r.TotalStake, r.Profit1, r.Profit2, r.ROI} {
		if !finite(v) {
			return false
		}
	}
	return true
}

// Solver computes two-outcome arbitrage stakes. It holds no state besides
// its options and is safe for concurrent use.
type Solver struct {
	opts Options
}

// NewSolver creates a solver; non-positive options fall back to defaults
func NewSolver(opts Options) *Solver {
	return &Solver{opts: opts.normalized()}
}

// Options returns the effective options
func (s *Solver) Options() Options {
	return s.opts
}

// Solve validates req and runs the algorithm selected by req.Mode.
// Stakes that overflow float64 are reported as ErrOverflow.
func (s *Solver) Solve(req Request) (Result, error) {
	if err := Validate(req); err != nil {
		return Result{}, err
	}

	if !IsArbitrage(req.Odds1, req.Odds2) {
		return Result{}, nil
	}

	var res Result
	switch req.Mode {
	case ModeBiased:
		res = SolveBiased(req.Odds1, req.Odds2, req.TargetProfit, req.Bias, s.opts)
	default:
		res = SolveSymmetric(req.Odds1, req.Odds2, req.TargetProfit, s.opts)
	}

	if !res.finite() {
		return Result{}, fmt.Errorf("%w: target %v at %v / %v", ErrOverflow, req.TargetProfit, req.Odds1, req.Odds2)
	}
	return res, nil
}

// Validate checks the preconditions of a request
func Validate(req Request) error {
	if _, err := ParseMode(string(req.Mode)); err != nil {
		return err
	}

	if !finite(req.Odds1) || !finite(req.Odds2) || req.Odds1 <= 1 || req.Odds2 <= 1 {
		return fmt.Errorf("%w: got %v and %v", ErrInvalidOdds, req.Odds1, req.Odds2)
	}

	if !finite(req.TargetProfit) || req.TargetProfit <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidProfit, req.TargetProfit)
	}

	if !finite(req.Bias) || req.Bias < 0 || req.Bias > 100 {
		return fmt.Errorf("%w: got %v", ErrInvalidBias, req.Bias)
	}

	return nil
}

// settle fills totals and per-branch profits from the final stakes
func settle(odds1, odds2, stake1, stake2 float64) Result {
	totalStake := stake1 + stake2
	return Result{
		Valid:      true,
		Stake1:     stake1,
		Stake2:     stake2,
		TotalStake: totalStake,
		Profit1:    stake1*odds1 - totalStake,
		Profit2:    stake2*odds2 - totalStake,
	}
}
