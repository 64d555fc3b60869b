package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/XavierBriggs/fortuna/services/arb-calculator/internal/calculator"
	"github.com/XavierBriggs/fortuna/services/arb-calculator/internal/report"
	"github.com/XavierBriggs/fortuna/services/arb-calculator/pkg/models"
)

const (
	exitFailure = 1
	exitUsage   = 2
)

type options struct {
	mode      string
	odds1     float64
	odds2     float64
	american1 int
	american2 int
	profit    float64
	bias      float64
	tolerance float64
	maxIter   int
	json      bool
}

func main() {
	opts := parseFlags()
	os.Exit(run(opts, os.Stdout, os.Stderr))
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.mode, "mode", string(calculator.ModeSymmetric), "solver mode: symmetric or biased")
	flag.Float64Var(&o.odds1, "odds1", 2.5, "decimal odds for outcome 1")
	flag.Float64Var(&o.odds2, "odds2", 2.0, "decimal odds for outcome 2")
	flag.IntVar(&o.american1, "american1", 0, "American odds for outcome 1 (used when -odds1 is 0)")
	flag.IntVar(&o.american2, "american2", 0, "American odds for outcome 2 (used when -odds2 is 0)")
	flag.Float64Var(&o.profit, "profit", 10, "target profit")
	flag.Float64Var(&o.bias, "bias", report.NeutralBias, "confidence bias 0-100, 50 is neutral")
	flag.Float64Var(&o.tolerance, "tolerance", calculator.DefaultTolerance, "convergence tolerance")
	flag.IntVar(&o.maxIter, "max-iter", 0, "iteration cap, 0 derives it from the odds")
	flag.BoolVar(&o.json, "json", false, "print the JSON response instead of a card")
	flag.Parse()
	return o
}

func run(o options, stdout, stderr io.Writer) int {
	in := models.SolveRequest{
		Mode:         o.mode,
		Odds1:        o.odds1,
		Odds2:        o.odds2,
		TargetProfit: o.profit,
		Bias:         &o.bias,
	}
	if o.american1 != 0 {
		in.American1 = &o.american1
	}
	if o.american2 != 0 {
		in.American2 = &o.american2
	}

	req, err := report.ParseRequest(in, calculator.ModeSymmetric)
	if err != nil {
		fmt.Fprintf(stderr, "arbcalc: %v\n", err)
		return exitUsage
	}

	solver := calculator.NewSolver(calculator.Options{Tolerance: o.tolerance, MaxIterations: o.maxIter})
	res, err := solver.Solve(req)
	if err != nil {
		fmt.Fprintf(stderr, "arbcalc: %v\n", err)
		return exitUsage
	}

	resp := report.NewResponse(req, res)
	if o.json {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			fmt.Fprintf(stderr, "arbcalc: %v\n", err)
			return exitFailure
		}
		return 0
	}

	if err := report.WriteCard(stdout, req, resp); err != nil {
		fmt.Fprintf(stderr, "arbcalc: %v\n", err)
		return exitFailure
	}
	return 0
}
