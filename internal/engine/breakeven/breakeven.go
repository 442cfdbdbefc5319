// Package breakeven numerically locates all stock prices where a
// strategy's aggregate expiration P/L crosses zero.
//
// The aggregate P/L is piecewise-linear with kinks exactly at strikes,
// where a uniform scan step can straddle a crossing without detecting it.
// The finder therefore runs two passes: a coarse fixed-step scan over the
// whole search interval, then tighter re-scans around every strategic
// price point.
package breakeven

import (
	"fmt"
	"math"
	"sort"

	"options-lab/internal/engine/payoff"
	"options-lab/internal/errors"
	"options-lab/internal/models"
)

const (
	// DefaultPriceRange is the default search interval as a fraction of
	// the center price.
	DefaultPriceRange = 0.5
	// DefaultPrecision is the target price precision in dollars.
	DefaultPrecision = 0.01

	// maxLegs matches the validation cap on strategy size.
	maxLegs = 8

	// scanStep is the coarse scan step.
	scanStep = 0.10
	// strikeWindow is the half-width of the re-scan window around each
	// strategic price point.
	strikeWindow = 5.0
	// maxBisectionIterations bounds interval refinement. Exceeding it is
	// reported as NUMERICAL_INSTABILITY, never silently truncated.
	maxBisectionIterations = 100

	zeroEpsilon = 1e-9
)

// Find returns all break-even prices for the legs around the given
// center price, sorted ascending and rounded to cents, using default
// range and precision.
func Find(legs []models.OptionLeg, spot float64) ([]float64, error) {
	return FindWithOptions(legs, spot, DefaultPriceRange, DefaultPrecision)
}

// FindWithOptions is Find with an explicit search range fraction and
// target precision. Non-positive values fall back to the defaults.
func FindWithOptions(legs []models.OptionLeg, spot, priceRange, precision float64) ([]float64, error) {
	if len(legs) == 0 {
		return nil, errors.NewCalculationError(errors.CodeInvalidInput, "no legs supplied", errors.ErrNoLegs)
	}
	if len(legs) > maxLegs {
		return nil, errors.NewCalculationError(errors.CodeInvalidInput,
			fmt.Sprintf("%d legs supplied", len(legs)), errors.ErrTooManyLegs)
	}
	if spot <= 0 {
		return nil, errors.NewCalculationErrorWithParams(errors.CodeInvalidInput,
			"center price must be positive", map[string]float64{"spot": spot})
	}
	if priceRange <= 0 {
		priceRange = DefaultPriceRange
	}
	if precision <= 0 {
		precision = DefaultPrecision
	}

	// Single leg: the break-even is analytical.
	if len(legs) == 1 {
		be := payoff.SingleOptionBreakEven(legs[0].Type, legs[0].Strike, legs[0].Premium)
		if be <= 0 {
			return []float64{}, nil
		}
		return []float64{roundTo(be, precision)}, nil
	}

	dedupTolerance := precision * 10
	var found []float64

	low := math.Max(0, spot*(1-priceRange))
	high := spot * (1 + priceRange)

	crossings, err := scan(legs, low, high, scanStep, precision)
	if err != nil {
		return nil, err
	}
	for _, be := range crossings {
		found = appendUnique(found, be, dedupTolerance)
	}

	// Second pass: strike-local refinement. The coarse grid can skip a
	// crossing that sits inside a kink, and a kink that only touches zero
	// never produces a sign change at all.
	for _, point := range payoff.StrategicPricePoints(spot, legs) {
		if math.Abs(payoff.TotalPL(legs, point)) <= zeroEpsilon {
			found = appendUnique(found, point, dedupTolerance)
			continue
		}
		wLow := math.Max(0, point-strikeWindow)
		wHigh := point + strikeWindow
		crossings, err := scan(legs, wLow, wHigh, precision, precision)
		if err != nil {
			return nil, err
		}
		for _, be := range crossings {
			found = appendUnique(found, be, dedupTolerance)
		}
	}

	sort.Float64s(found)
	result := make([]float64, len(found))
	for i, be := range found {
		result[i] = roundTo(be, precision)
	}
	return result, nil
}

// scan walks [low, high] in fixed steps, bisecting every interval whose
// endpoints carry strictly opposite P/L signs (or touch zero exactly).
func scan(legs []models.OptionLeg, low, high, step, precision float64) ([]float64, error) {
	if high <= low {
		return nil, nil
	}

	var crossings []float64
	steps := int(math.Ceil((high - low) / step))
	prevPrice := low
	prevPL := payoff.TotalPL(legs, low)
	if math.Abs(prevPL) <= zeroEpsilon {
		crossings = append(crossings, low)
	}

	for i := 1; i <= steps; i++ {
		price := math.Min(low+float64(i)*step, high)
		pl := payoff.TotalPL(legs, price)

		switch {
		case math.Abs(pl) <= zeroEpsilon:
			crossings = append(crossings, price)
		case prevPL < 0 && pl > 0, prevPL > 0 && pl < 0:
			be, err := bisect(legs, prevPrice, price, precision)
			if err != nil {
				return nil, err
			}
			crossings = append(crossings, be)
		}

		prevPrice, prevPL = price, pl
	}
	return crossings, nil
}

// bisect refines a crossing interval by repeated halving until the
// interval width drops below the target precision.
func bisect(legs []models.OptionLeg, low, high, precision float64) (float64, error) {
	plLow := payoff.TotalPL(legs, low)

	for i := 0; i < maxBisectionIterations; i++ {
		mid := (low + high) / 2
		if high-low < precision {
			return mid, nil
		}
		plMid := payoff.TotalPL(legs, mid)
		if math.Abs(plMid) <= zeroEpsilon {
			return mid, nil
		}
		if (plLow < 0) == (plMid < 0) {
			low, plLow = mid, plMid
		} else {
			high = mid
		}
	}

	return 0, &errors.CalculationError{
		Code:    errors.CodeNumericalInstability,
		Message: "bisection failed to converge within the iteration limit",
		Params:  map[string]float64{"low": low, "high": high, "iterations": maxBisectionIterations},
		Err:     errors.ErrNonConvergence,
	}
}

func appendUnique(existing []float64, candidate, tolerance float64) []float64 {
	for _, be := range existing {
		if math.Abs(be-candidate) < tolerance {
			return existing
		}
	}
	return append(existing, candidate)
}

func roundTo(x, precision float64) float64 {
	return math.Round(x/precision) * precision
}
