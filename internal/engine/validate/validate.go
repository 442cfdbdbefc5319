// Package validate performs structural and range validation of
// calculation inputs before any computation runs.
//
// Bulk validation never fails early: it collects every violation so the
// caller can display all problems at once. AssertValid is the fail-fast
// entry point for contexts that want a single aggregated error.
package validate

import (
	"fmt"
	"math"
	"time"

	"options-lab/internal/engine/pricing"
	"options-lab/internal/errors"
	"options-lab/internal/models"
)

// Sanity bounds. These reject nonsense, not unusual-but-real markets.
const (
	MaxStockPrice  = 1_000_000.0
	MaxLegs        = 8
	MaxQuantity    = 10_000
	MaxExpiryYears = 10

	MinChartPoints = 2
	MaxChartPoints = 500
)

// Validate checks a complete calculation request and returns every
// violation found, plus advisory consistency warnings.
func Validate(inputs models.CalculationInputs, asOf time.Time) models.ValidationResult {
	var errs []models.FieldError

	if !isFinite(inputs.StockPrice) || inputs.StockPrice <= 0 {
		errs = append(errs, fieldError("stockPrice", "must be a positive number"))
	} else if inputs.StockPrice > MaxStockPrice {
		errs = append(errs, fieldError("stockPrice", fmt.Sprintf("exceeds sanity ceiling of %.0f", MaxStockPrice)))
	}

	switch {
	case len(inputs.Legs) == 0:
		errs = append(errs, fieldError("legs", "at least one leg is required"))
	case len(inputs.Legs) > MaxLegs:
		errs = append(errs, fieldError("legs", fmt.Sprintf("at most %d legs are supported", MaxLegs)))
	}

	for i, leg := range inputs.Legs {
		errs = append(errs, validateLeg(leg, i, asOf)...)
	}

	if inputs.Volatility != 0 && (!isFinite(inputs.Volatility) || inputs.Volatility < 0 || inputs.Volatility > pricing.MaxVolatility) {
		errs = append(errs, fieldError("volatility", fmt.Sprintf("must be between 0 and %.1f", pricing.MaxVolatility)))
	}
	if !isFinite(inputs.RiskFreeRate) || math.Abs(inputs.RiskFreeRate) > pricing.MaxAbsRate {
		errs = append(errs, fieldError("riskFreeRate", "must be between -1.0 and 1.0"))
	}
	if !isFinite(inputs.DividendYield) || inputs.DividendYield < 0 || inputs.DividendYield > 1 {
		errs = append(errs, fieldError("dividendYield", "must be between 0 and 1.0"))
	}

	if inputs.Chart != nil {
		if !isFinite(inputs.Chart.PriceRange) || inputs.Chart.PriceRange <= 0 || inputs.Chart.PriceRange > 1 {
			errs = append(errs, fieldError("chart.priceRange", "must be between 0 (exclusive) and 1.0"))
		}
		if inputs.Chart.Points < MinChartPoints || inputs.Chart.Points > MaxChartPoints {
			errs = append(errs, fieldError("chart.points",
				fmt.Sprintf("must be between %d and %d", MinChartPoints, MaxChartPoints)))
		}
	}

	return models.ValidationResult{
		IsValid:  len(errs) == 0,
		Errors:   errs,
		Warnings: ConsistencyWarnings(inputs.Legs),
	}
}

func validateLeg(leg models.OptionLeg, index int, asOf time.Time) []models.FieldError {
	var errs []models.FieldError
	field := func(name string) string { return fmt.Sprintf("legs[%d].%s", index, name) }

	if leg.ID == "" {
		errs = append(errs, fieldError(field("id"), "must not be empty"))
	}
	if leg.Type != models.Call && leg.Type != models.Put {
		errs = append(errs, fieldError(field("optionType"), "must be CALL or PUT"))
	}
	if leg.Position != models.Long && leg.Position != models.Short {
		errs = append(errs, fieldError(field("position"), "must be LONG or SHORT"))
	}
	if !isFinite(leg.Strike) || leg.Strike <= 0 {
		errs = append(errs, fieldError(field("strikePrice"), "must be a positive number"))
	} else if leg.Strike > MaxStockPrice {
		errs = append(errs, fieldError(field("strikePrice"), fmt.Sprintf("exceeds sanity ceiling of %.0f", MaxStockPrice)))
	}
	if !isFinite(leg.Premium) || leg.Premium < 0 {
		errs = append(errs, fieldError(field("premium"), "must not be negative"))
	}
	if leg.Quantity <= 0 {
		errs = append(errs, fieldError(field("quantity"), "must be a positive integer"))
	} else if leg.Quantity > MaxQuantity {
		errs = append(errs, fieldError(field("quantity"), fmt.Sprintf("exceeds sanity ceiling of %d", MaxQuantity)))
	}
	if !leg.Expiry.After(asOf) {
		errs = append(errs, fieldError(field("expiryDate"), "must be in the future"))
	} else if leg.Expiry.After(asOf.AddDate(MaxExpiryYears, 0, 0)) {
		errs = append(errs, fieldError(field("expiryDate"), fmt.Sprintf("must be within %d years", MaxExpiryYears)))
	}
	if leg.Volatility != nil && (!isFinite(*leg.Volatility) || *leg.Volatility < 0 || *leg.Volatility > pricing.MaxVolatility) {
		errs = append(errs, fieldError(field("volatility"), fmt.Sprintf("must be between 0 and %.1f", pricing.MaxVolatility)))
	}

	return errs
}

// AssertValid runs Validate and folds any violations into a single
// aggregated INVALID_INPUT error.
func AssertValid(inputs models.CalculationInputs, asOf time.Time) error {
	res := Validate(inputs, asOf)
	if res.IsValid {
		return nil
	}
	violations := make([]string, len(res.Errors))
	for i, fe := range res.Errors {
		violations[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return errors.AggregateValidation(violations)
}

// ConsistencyWarnings flags structurally suspicious but still valid leg
// combinations. These are advisory, never correctness gates.
func ConsistencyWarnings(legs []models.OptionLeg) []models.FieldError {
	var warnings []models.FieldError

	seen := make(map[string]bool, len(legs))
	for i, leg := range legs {
		if leg.ID != "" && seen[leg.ID] {
			warnings = append(warnings, fieldError(fmt.Sprintf("legs[%d].id", i),
				fmt.Sprintf("duplicate leg id %q", leg.ID)))
		}
		seen[leg.ID] = true
	}

	if len(legs) > 1 {
		mixed := false
		for _, leg := range legs[1:] {
			if !leg.Expiry.Equal(legs[0].Expiry) {
				mixed = true
				break
			}
		}
		if mixed {
			warnings = append(warnings, fieldError("legs",
				"legs have mixed expiries; this implies a calendar or diagonal structure"))
		}
	}

	for i := 0; i < len(legs); i++ {
		for j := i + 1; j < len(legs); j++ {
			a, b := legs[i].Strike, legs[j].Strike
			if a <= 0 || b <= 0 || a == b {
				continue
			}
			if math.Abs(a-b)/math.Max(a, b) < 0.01 {
				warnings = append(warnings, fieldError(fmt.Sprintf("legs[%d].strikePrice", j),
					fmt.Sprintf("strike %.2f is within 1%% of strike %.2f", b, a)))
			}
		}
	}

	return warnings
}

func fieldError(field, message string) models.FieldError {
	return models.FieldError{Field: field, Message: message}
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
