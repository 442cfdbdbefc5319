// Package payoff provides expiration P/L aggregation for multi-leg option
// strategies: intrinsic values, initial cost, the aggregate P/L function,
// strategic price points, and max profit/loss with unbounded-tail detection.
package payoff

import (
	"math"
	"sort"

	"options-lab/internal/models"
)

// IntrinsicValue returns the immediate-exercise value of an option:
// max(0, spot-strike) for calls, max(0, strike-spot) for puts.
func IntrinsicValue(optType models.OptionType, spot, strike float64) float64 {
	if optType == models.Call {
		return math.Max(0, spot-strike)
	}
	return math.Max(0, strike-spot)
}

// LegExpirationPL returns a leg's expiration value at the given stock
// price: intrinsic value scaled by contract multiplier and quantity,
// sign-adjusted by position. Premium cash flows are the aggregator's
// initial-cost term and are deliberately not included here.
func LegExpirationPL(leg models.OptionLeg, spot float64) float64 {
	value := IntrinsicValue(leg.Type, spot, leg.Strike) * models.ContractMultiplier * float64(leg.Quantity)
	if leg.Position == models.Short {
		return -value
	}
	return value
}

// LegCostBasis returns the signed premium cash flow of one leg at entry:
// negative for long (cash out), positive for short (cash in).
func LegCostBasis(leg models.OptionLeg) float64 {
	cost := leg.Premium * float64(leg.Quantity) * models.ContractMultiplier
	if leg.Position == models.Long {
		return -cost
	}
	return cost
}

// SingleOptionBreakEven returns the analytical break-even price for a
// single option: strike + premium for calls, strike - premium for puts.
func SingleOptionBreakEven(optType models.OptionType, strike, premium float64) float64 {
	if optType == models.Call {
		return strike + premium
	}
	return strike - premium
}

// InitialCost returns the strategy's net debit (negative) or credit
// (positive) at entry.
func InitialCost(legs []models.OptionLeg) float64 {
	total := 0.0
	for _, leg := range legs {
		total += LegCostBasis(leg)
	}
	return total
}

// TotalPL returns the aggregate expiration P/L of all legs at a
// hypothetical stock price, including the initial cost. The break-even
// finder calls this thousands of times, so it stays O(legs) and
// allocation-free.
func TotalPL(legs []models.OptionLeg, price float64) float64 {
	total := 0.0
	for _, leg := range legs {
		total += LegExpirationPL(leg, price) + LegCostBasis(leg)
	}
	return total
}

// StockPL returns the P/L of an underlying stock position at the given
// price.
func StockPL(stock models.StockLeg, price float64) float64 {
	return (price - stock.CostBasis) * float64(stock.Shares)
}

// StrategicPricePoints returns the sorted set of prices where the
// piecewise-linear P/L function can kink: every distinct strike plus the
// given center. A uniform scan can miss break-evens that occur exactly at
// a kink, so these seed local searches.
func StrategicPricePoints(center float64, legs []models.OptionLeg) []float64 {
	seen := make(map[float64]bool, len(legs)+1)
	points := make([]float64, 0, len(legs)+1)
	add := func(p float64) {
		if p > 0 && !seen[p] {
			seen[p] = true
			points = append(points, p)
		}
	}
	add(center)
	for _, leg := range legs {
		add(leg.Strike)
	}
	sort.Float64s(points)
	return points
}

// tailSlope returns the per-dollar slope of the aggregate P/L as the
// stock price grows beyond every strike. Only calls contribute: puts are
// worthless in that tail.
func tailSlope(legs []models.OptionLeg) float64 {
	slope := 0.0
	for _, leg := range legs {
		if leg.Type != models.Call {
			continue
		}
		contracts := float64(leg.Quantity) * models.ContractMultiplier
		if leg.Position == models.Short {
			contracts = -contracts
		}
		slope += contracts
	}
	return slope
}

// MaxProfit returns the supremum of the expiration P/L, or nil when the
// upside tail is unbounded (net long calls).
func MaxProfit(legs []models.OptionLeg, spot float64) *float64 {
	if tailSlope(legs) > 0 {
		return nil
	}
	best := evaluateCandidates(legs, spot, math.Max)
	return &best
}

// MaxLoss returns the infimum of the expiration P/L, or nil when the
// downside of the position is unbounded (net short calls).
func MaxLoss(legs []models.OptionLeg, spot float64) *float64 {
	if tailSlope(legs) < 0 {
		return nil
	}
	worst := evaluateCandidates(legs, spot, math.Min)
	return &worst
}

// evaluateCandidates evaluates the piecewise-linear P/L at zero, at every
// strategic price point, and at the spot, folding with the given selector.
// The function is linear between kinks and flat-or-linear in both tails,
// so the extremum over these candidates is the global one once unbounded
// tails are excluded.
func evaluateCandidates(legs []models.OptionLeg, spot float64, pick func(a, b float64) float64) float64 {
	result := TotalPL(legs, 0)
	for _, p := range StrategicPricePoints(spot, legs) {
		result = pick(result, TotalPL(legs, p))
	}
	return result
}
