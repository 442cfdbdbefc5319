package models

import "time"

// BlackScholesParams is the input to the closed-form option pricer.
type BlackScholesParams struct {
	Type         OptionType
	SpotPrice    float64
	Strike       float64
	TimeToExpiry float64 // years
	RiskFreeRate float64
	Volatility   float64
}

// BlackScholesResult is the pricer output. D1 and D2 are exposed because
// they are reused by the Greeks and by put-call-parity verification.
type BlackScholesResult struct {
	OptionPrice float64 `json:"optionPrice"`
	D1          float64 `json:"d1"`
	D2          float64 `json:"d2"`
}

// Greeks holds the option price sensitivities.
type Greeks struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Theta float64 `json:"theta"` // per year
	Vega  float64 `json:"vega"`  // per unit of volatility
	Rho   float64 `json:"rho"`   // per unit of rate
}

// LegBreakdown is the per-leg slice of an aggregate result.
type LegBreakdown struct {
	LegID          string  `json:"legId"`
	IntrinsicValue float64 `json:"intrinsicValue"` // per share, at the current spot
	ExpirationPL   float64 `json:"expirationPL"`   // position-signed, contract-scaled
	CostBasis      float64 `json:"costBasis"`      // signed premium cash flow at entry
}

// ChartPoint is one sample of the expiration P/L curve.
type ChartPoint struct {
	Price float64 `json:"price"`
	PL    float64 `json:"pl"`
}

// HeatmapData is a dense P/L surface over price and date.
// Rows are ordered price-descending as generated; Values[i][j] is the
// P/L at Prices[i] on Dates[j].
type HeatmapData struct {
	Prices []float64   `json:"prices"`
	Dates  []time.Time `json:"dates"`
	Values [][]float64 `json:"values"`
}

// CalculationResults is the terminal artifact of one engine invocation.
// It is produced once and never mutated afterwards.
type CalculationResults struct {
	Strategy        StrategyDetectionResult `json:"strategy"`
	InitialCost     float64                 `json:"initialCost"` // negative = net debit, positive = net credit
	MaxProfit       *float64                `json:"maxProfit"`   // nil = unbounded
	MaxLoss         *float64                `json:"maxLoss"`     // nil = unbounded
	BreakEvenPoints []float64               `json:"breakEvenPoints"`
	Legs            []LegBreakdown          `json:"legs"`
	Chart           []ChartPoint            `json:"chart,omitempty"`
	Heatmap         *HeatmapData            `json:"heatmap,omitempty"`
	Warnings        []FieldError            `json:"warnings,omitempty"`
}
