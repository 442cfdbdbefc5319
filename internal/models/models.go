// Package models provides domain models for the options analytics engine.
package models

import (
	"time"
)

// OptionType represents the type of an option contract.
type OptionType string

const (
	Call OptionType = "CALL"
	Put  OptionType = "PUT"
)

// Position represents the direction of an option position.
type Position string

const (
	Long  Position = "LONG"
	Short Position = "SHORT"
)

// ContractMultiplier is the number of shares per standard option contract.
const ContractMultiplier = 100

// OptionLeg represents one option contract within a strategy.
// A leg is immutable for the duration of a calculation pass.
type OptionLeg struct {
	ID         string
	Type       OptionType
	Position   Position
	Strike     float64
	Premium    float64 // per share
	Quantity   int     // contracts
	Expiry     time.Time
	Volatility *float64 // optional per-leg override of the strategy volatility
}

// OptionLegInput is the raw, unparsed form of a leg as supplied by callers.
// Dates are strings (YYYY-MM-DD) and are parsed into an OptionLeg.
type OptionLegInput struct {
	ID         string   `json:"id"`
	Type       string   `json:"optionType"`
	Position   string   `json:"position"`
	Strike     float64  `json:"strikePrice"`
	Premium    float64  `json:"premium"`
	Quantity   int      `json:"quantity"`
	Expiry     string   `json:"expiryDate"`
	Volatility *float64 `json:"volatility,omitempty"`
}

// StockLeg represents an optional underlying stock position.
// Presence changes strategy classification (short call + stock is a
// covered call, not a naked call).
type StockLeg struct {
	Shares    int     // signed: negative means short stock
	CostBasis float64 // per share
}

// ChartConfig controls payoff chart generation.
type ChartConfig struct {
	PriceRange float64 // fraction of spot, e.g. 0.3 for ±30%
	Points     int
}

// CalculationInputs is one complete calculation request.
type CalculationInputs struct {
	StockPrice    float64
	Legs          []OptionLeg
	Stock         *StockLeg
	Volatility    float64
	RiskFreeRate  float64
	DividendYield float64
	Chart         *ChartConfig
}

// FieldError describes a single validation failure on a named field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult is the outcome of bulk input validation.
type ValidationResult struct {
	IsValid  bool         `json:"isValid"`
	Errors   []FieldError `json:"errors"`
	Warnings []FieldError `json:"warnings,omitempty"`
}
