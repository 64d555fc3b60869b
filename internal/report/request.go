package report

import (
	"fmt"

	"github.com/XavierBriggs/fortuna/services/arb-calculator/internal/calculator"
	"github.com/XavierBriggs/fortuna/services/arb-calculator/pkg/models"
)

// NeutralBias is used when a request carries no bias
const NeutralBias = 50.0

// ParseRequest converts an API request into a solver request.
// An empty mode falls back to defaultMode; American odds are used only
// where the decimal field is zero.
func ParseRequest(in models.SolveRequest, defaultMode calculator.Mode) (calculator.Request, error) {
	mode := defaultMode
	if in.Mode != "" {
		parsed, err := calculator.ParseMode(in.Mode)
		if err != nil {
			return calculator.Request{}, err
		}
		mode = parsed
	}

	odds1, err := pickOdds(in.Odds1, in.American1, 1)
	if err != nil {
		return calculator.Request{}, err
	}
	odds2, err := pickOdds(in.Odds2, in.American2, 2)
	if err != nil {
		return calculator.Request{}, err
	}

	bias := NeutralBias
	if in.Bias != nil {
		bias = *in.Bias
	}

	return calculator.Request{
		Mode:         mode,
		Odds1:        odds1,
		Odds2:        odds2,
		TargetProfit: in.TargetProfit,
		Bias:         bias,
	}, nil
}

func pickOdds(decimal float64, american *int, leg int) (float64, error) {
	if decimal != 0 || american == nil {
		return decimal, nil
	}

	converted, err := calculator.AmericanToDecimal(*american)
	if err != nil {
		return 0, fmt.Errorf("%w: leg %d: %v", calculator.ErrInvalidOdds, leg, err)
	}
	return converted, nil
}

// ToModel converts a solver request back to its API form
func ToModel(req calculator.Request) models.SolveRequest {
	bias := req.Bias
	return models.SolveRequest{
		Mode:         string(req.Mode),
		Odds1:        req.Odds1,
		Odds2:        req.Odds2,
		TargetProfit: req.TargetProfit,
		Bias:         &bias,
	}
}
