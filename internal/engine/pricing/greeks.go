package pricing

import (
	"math"

	"options-lab/internal/engine/mathutil"
	"options-lab/internal/models"
)

// ComputeGreeks returns the analytic Black-Scholes sensitivities.
//
// Closed-form partials were chosen over finite differences: the pricer is
// closed-form, so its exact derivatives are available and free of step-size
// tuning. Theta is per year; vega and rho are per whole unit of volatility
// and rate. Degenerate inputs (T <= 0 or sigma = 0) have no usable
// sensitivities and return zeroed Greeks.
func ComputeGreeks(p models.BlackScholesParams) (*models.Greeks, error) {
	if err := validate(p); err != nil {
		return nil, err
	}
	if p.TimeToExpiry <= 0 || p.Volatility == 0 {
		return &models.Greeks{}, nil
	}

	d1 := mathutil.D1(p.SpotPrice, p.Strike, p.TimeToExpiry, p.RiskFreeRate, p.Volatility)
	d2 := mathutil.D2(d1, p.Volatility, p.TimeToExpiry)
	if !mathutil.IsFinite(d1) || !mathutil.IsFinite(d2) {
		return nil, calcFailed("d1/d2 computation produced a non-finite value", p)
	}

	sqrtT := math.Sqrt(p.TimeToExpiry)
	discounted := p.Strike * math.Exp(-p.RiskFreeRate*p.TimeToExpiry)
	pdf := mathutil.NormalPDF(d1)

	g := &models.Greeks{
		Gamma: pdf / (p.SpotPrice * p.Volatility * sqrtT),
		Vega:  p.SpotPrice * pdf * sqrtT,
	}

	if p.Type == models.Call {
		g.Delta = mathutil.NormalCDF(d1)
		g.Theta = -(p.SpotPrice*pdf*p.Volatility)/(2*sqrtT) -
			p.RiskFreeRate*discounted*mathutil.NormalCDF(d2)
		g.Rho = p.Strike * p.TimeToExpiry * math.Exp(-p.RiskFreeRate*p.TimeToExpiry) * mathutil.NormalCDF(d2)
	} else {
		g.Delta = mathutil.NormalCDF(d1) - 1
		g.Theta = -(p.SpotPrice*pdf*p.Volatility)/(2*sqrtT) +
			p.RiskFreeRate*discounted*mathutil.NormalCDF(-d2)
		g.Rho = -p.Strike * p.TimeToExpiry * math.Exp(-p.RiskFreeRate*p.TimeToExpiry) * mathutil.NormalCDF(-d2)
	}

	return g, nil
}
