// Package heatmap evaluates strategy P/L over a price and date grid.
// It is the only place the pricer is invoked for non-expiration
// valuation; near-zero time-to-expiry cells rely on the pricer's
// degenerate-case branch instead of blowing up in d1.
package heatmap

import (
	"math"
	"time"

	"options-lab/internal/engine/mathutil"
	"options-lab/internal/engine/payoff"
	"options-lab/internal/engine/pricing"
	"options-lab/internal/errors"
	"options-lab/internal/models"
	"options-lab/internal/performance"
)

// Defaults for grid sizing.
const (
	DefaultPriceRange = 0.3
	DefaultPriceSteps = 20
	DefaultDateSteps  = 10
)

// Config controls heatmap generation.
type Config struct {
	RiskFreeRate  float64
	Volatility    float64 // strategy-level default; per-leg overrides win
	DividendYield float64

	// Price axis: either a symmetric band around spot (PriceRange) or an
	// absolute [MinPrice, MaxPrice] when both are set.
	PriceRange float64
	PriceSteps int
	MinPrice   float64
	MaxPrice   float64

	DateSteps int
	AsOf      time.Time // zero means time.Now()
	Workers   int       // worker pool size; 0 means NumCPU
}

// Generate returns a dense P/L matrix for the legs at the given spot.
// Rows are price levels in descending order; columns run from AsOf to
// the earliest leg expiry, with the final column exactly at expiry.
// Every cell is independent, so rows are fanned out across a worker pool.
func Generate(legs []models.OptionLeg, spot float64, cfg Config) (*models.HeatmapData, error) {
	if len(legs) == 0 {
		return nil, errors.NewCalculationError(errors.CodeInvalidInput, "no legs supplied", errors.ErrNoLegs)
	}
	if spot <= 0 {
		return nil, errors.NewCalculationErrorWithParams(errors.CodeInvalidInput,
			"spot price must be positive", map[string]float64{"spot": spot})
	}

	asOf := cfg.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}

	prices := priceLevels(spot, cfg)
	dates, err := dateColumns(legs, asOf, cfg.DateSteps)
	if err != nil {
		return nil, err
	}

	initialCost := payoff.InitialCost(legs)
	values := make([][]float64, len(prices))
	rowErrs := make([]error, len(prices))

	pool := performance.NewWorkerPool(cfg.Workers)
	pool.Start()
	defer pool.Stop()

	pool.Map(len(prices), func(i int) {
		row := make([]float64, len(dates))
		for j, date := range dates {
			value, err := cellValue(legs, prices[i], date, initialCost, cfg)
			if err != nil {
				rowErrs[i] = err
				return
			}
			row[j] = value
		}
		values[i] = row
	})

	for _, err := range rowErrs {
		if err != nil {
			return nil, err
		}
	}

	return &models.HeatmapData{Prices: prices, Dates: dates, Values: values}, nil
}

// cellValue prices the whole strategy at one (price, date) cell: the
// initial cost plus every leg's signed, quantity-scaled contract value.
// Legs already expired by the column date contribute intrinsic value.
func cellValue(legs []models.OptionLeg, price float64, date time.Time, initialCost float64, cfg Config) (float64, error) {
	total := initialCost
	for _, leg := range legs {
		t := mathutil.TimeToExpiry(leg.Expiry, date)

		var perShare float64
		if t <= 0 {
			perShare = payoff.IntrinsicValue(leg.Type, price, leg.Strike)
		} else {
			vol := cfg.Volatility
			if leg.Volatility != nil {
				vol = *leg.Volatility
			}
			// Continuous dividend yield enters through the forward-adjusted
			// spot rather than a pricer parameter.
			adjustedSpot := price * math.Exp(-cfg.DividendYield*t)
			res, err := pricing.Price(models.BlackScholesParams{
				Type:         leg.Type,
				SpotPrice:    adjustedSpot,
				Strike:       leg.Strike,
				TimeToExpiry: t,
				RiskFreeRate: cfg.RiskFreeRate,
				Volatility:   vol,
			})
			if err != nil {
				return 0, err
			}
			perShare = res.OptionPrice
		}

		value := perShare * models.ContractMultiplier * float64(leg.Quantity)
		if leg.Position == models.Short {
			value = -value
		}
		total += value
	}
	return total, nil
}

// priceLevels builds the descending price axis.
func priceLevels(spot float64, cfg Config) []float64 {
	steps := cfg.PriceSteps
	if steps <= 1 {
		steps = DefaultPriceSteps
	}

	min, max := cfg.MinPrice, cfg.MaxPrice
	if min <= 0 || max <= min {
		band := cfg.PriceRange
		if band <= 0 {
			band = DefaultPriceRange
		}
		min = math.Max(0.01, spot*(1-band))
		max = spot * (1 + band)
	}

	step := (max - min) / float64(steps-1)
	prices := make([]float64, steps)
	for i := 0; i < steps; i++ {
		prices[i] = mathutil.RoundToCents(max - float64(i)*step)
	}
	return prices
}

// dateColumns builds the date axis from asOf to the earliest leg expiry,
// producing at most the requested number of columns and always ending on
// the exact expiry date.
func dateColumns(legs []models.OptionLeg, asOf time.Time, dateSteps int) ([]time.Time, error) {
	if dateSteps <= 1 {
		dateSteps = DefaultDateSteps
	}

	earliest := legs[0].Expiry
	for _, leg := range legs[1:] {
		if leg.Expiry.Before(earliest) {
			earliest = leg.Expiry
		}
	}
	if !earliest.After(asOf) {
		return nil, errors.NewCalculationError(errors.CodeExpiredOption,
			"earliest leg expiry is not in the future", nil)
	}

	span := earliest.Sub(asOf)
	step := span / time.Duration(dateSteps-1)
	dates := make([]time.Time, dateSteps)
	for i := 0; i < dateSteps-1; i++ {
		dates[i] = asOf.Add(step * time.Duration(i))
	}
	dates[dateSteps-1] = earliest
	return dates, nil
}
