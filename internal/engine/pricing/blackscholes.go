// Package pricing implements the closed-form Black-Scholes option pricer
// with degenerate-case handling and analytic Greeks.
package pricing

import (
	"math"

	"options-lab/internal/engine/mathutil"
	"options-lab/internal/engine/payoff"
	"options-lab/internal/errors"
	"options-lab/internal/models"
)

// MaxVolatility is a sanity ceiling on volatility inputs (500%), not a
// hard financial limit.
const MaxVolatility = 5.0

// MaxAbsRate is the sanity bound on the risk-free rate (100%).
const MaxAbsRate = 1.0

// Price computes the theoretical option price for the given parameters.
// Degenerate inputs (expired option, zero volatility) are resolved before
// the general formula; the result is clamped to be non-negative because
// floating error can otherwise yield a tiny negative near zero.
func Price(p models.BlackScholesParams) (*models.BlackScholesResult, error) {
	if err := validate(p); err != nil {
		return nil, err
	}

	// Expired or valued exactly at expiry: worth intrinsic value.
	if p.TimeToExpiry <= 0 {
		return &models.BlackScholesResult{
			OptionPrice: payoff.IntrinsicValue(p.Type, p.SpotPrice, p.Strike),
			D1:          0,
			D2:          0,
		}, nil
	}

	discounted := p.Strike * math.Exp(-p.RiskFreeRate*p.TimeToExpiry)

	// Zero volatility collapses to a deterministic payoff against the
	// discounted strike. d1/d2 are reported as +/-Inf: a pricing boundary,
	// not a usable sensitivity.
	if p.Volatility == 0 {
		var price float64
		if p.Type == models.Call {
			price = math.Max(0, p.SpotPrice-discounted)
		} else {
			price = math.Max(0, discounted-p.SpotPrice)
		}
		boundary := math.Inf(1)
		if p.SpotPrice < discounted {
			boundary = math.Inf(-1)
		}
		return &models.BlackScholesResult{OptionPrice: price, D1: boundary, D2: boundary}, nil
	}

	d1 := mathutil.D1(p.SpotPrice, p.Strike, p.TimeToExpiry, p.RiskFreeRate, p.Volatility)
	d2 := mathutil.D2(d1, p.Volatility, p.TimeToExpiry)
	if !mathutil.IsFinite(d1) || !mathutil.IsFinite(d2) {
		return nil, calcFailed("d1/d2 computation produced a non-finite value", p)
	}

	var price float64
	if p.Type == models.Call {
		price = p.SpotPrice*mathutil.NormalCDF(d1) - discounted*mathutil.NormalCDF(d2)
	} else {
		price = discounted*mathutil.NormalCDF(-d2) - p.SpotPrice*mathutil.NormalCDF(-d1)
	}
	if !mathutil.IsFinite(price) {
		return nil, calcFailed("option price is not finite", p)
	}

	return &models.BlackScholesResult{
		OptionPrice: math.Max(0, price),
		D1:          d1,
		D2:          d2,
	}, nil
}

// TimeValue returns the extrinsic portion of an option price.
func TimeValue(price, intrinsic float64) float64 {
	return math.Max(0, price-intrinsic)
}

// VerifyPutCallParity checks C - P = S - K*e^(-rT) within tolerance.
// It is a self-consistency check, not a gating validation.
func VerifyPutCallParity(call, put, spot, strike, t, rate, tolerance float64) bool {
	lhs := call - put
	rhs := spot - strike*math.Exp(-rate*t)
	return math.Abs(lhs-rhs) <= tolerance
}

func validate(p models.BlackScholesParams) error {
	switch {
	case !mathutil.IsFinite(p.SpotPrice) || p.SpotPrice <= 0:
		return errors.NewCalculationErrorWithParams(errors.CodeInvalidInput,
			"spot price must be positive", map[string]float64{"spotPrice": p.SpotPrice})
	case !mathutil.IsFinite(p.Strike) || p.Strike <= 0:
		return errors.NewCalculationErrorWithParams(errors.CodeInvalidInput,
			"strike price must be positive", map[string]float64{"strike": p.Strike})
	case !mathutil.IsFinite(p.TimeToExpiry) || p.TimeToExpiry < 0:
		return errors.NewCalculationErrorWithParams(errors.CodeInvalidInput,
			"time to expiry cannot be negative", map[string]float64{"timeToExpiry": p.TimeToExpiry})
	case !mathutil.IsFinite(p.Volatility) || p.Volatility < 0 || p.Volatility > MaxVolatility:
		return errors.NewCalculationErrorWithParams(errors.CodeInvalidInput,
			"volatility must be between 0 and 5.0", map[string]float64{"volatility": p.Volatility})
	case !mathutil.IsFinite(p.RiskFreeRate) || math.Abs(p.RiskFreeRate) > MaxAbsRate:
		return errors.NewCalculationErrorWithParams(errors.CodeInvalidInput,
			"risk-free rate must be between -1.0 and 1.0", map[string]float64{"riskFreeRate": p.RiskFreeRate})
	}
	return nil
}

func calcFailed(message string, p models.BlackScholesParams) error {
	return errors.NewCalculationErrorWithParams(errors.CodeCalculationFailed, message, map[string]float64{
		"spotPrice":    p.SpotPrice,
		"strike":       p.Strike,
		"timeToExpiry": p.TimeToExpiry,
		"riskFreeRate": p.RiskFreeRate,
		"volatility":   p.Volatility,
	})
}
