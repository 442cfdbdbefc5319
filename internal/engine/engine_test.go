package engine

import (
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"options-lab/internal/engine/heatmap"
	"options-lab/internal/errors"
	"options-lab/internal/models"
)

var (
	asOf   = time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	expiry = time.Date(2026, 6, 19, 0, 0, 0, 0, time.UTC)
)

func testEngine() *Engine {
	return NewWithClock(zerolog.Nop(), func() time.Time { return asOf })
}

func leg(id string, optType models.OptionType, pos models.Position, strike, premium float64) models.OptionLeg {
	return models.OptionLeg{
		ID: id, Type: optType, Position: pos,
		Strike: strike, Premium: premium, Quantity: 1, Expiry: expiry,
	}
}

func spreadInputs() models.CalculationInputs {
	return models.CalculationInputs{
		StockPrice: 100,
		Legs: []models.OptionLeg{
			leg("l1", models.Call, models.Long, 100, 4.50),
			leg("l2", models.Call, models.Short, 110, 1.50),
		},
		Volatility:   0.3,
		RiskFreeRate: 0.05,
	}
}

func TestAnalyzeBullCallSpread(t *testing.T) {
	results, err := testEngine().Analyze(spreadInputs(), Options{})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if results.Strategy.Type != models.StrategyBullCallSpread {
		t.Errorf("strategy = %s, want BULL_CALL_SPREAD", results.Strategy.Type)
	}
	if results.InitialCost != -300 {
		t.Errorf("initial cost = %v, want -300", results.InitialCost)
	}
	if results.MaxProfit == nil || *results.MaxProfit != 700 {
		t.Errorf("max profit = %v, want 700", results.MaxProfit)
	}
	if results.MaxLoss == nil || *results.MaxLoss != -300 {
		t.Errorf("max loss = %v, want -300", results.MaxLoss)
	}
	if len(results.BreakEvenPoints) != 1 || math.Abs(results.BreakEvenPoints[0]-103) > 0.011 {
		t.Errorf("break-evens = %v, want [103]", results.BreakEvenPoints)
	}
	if len(results.Legs) != 2 {
		t.Fatalf("leg breakdown rows = %d, want 2", len(results.Legs))
	}
	if results.Legs[0].LegID != "l1" || results.Legs[0].CostBasis != -450 {
		t.Errorf("row 0 = %+v", results.Legs[0])
	}
}

func TestAnalyzeRejectsInvalidInputs(t *testing.T) {
	inputs := spreadInputs()
	inputs.StockPrice = -1
	_, err := testEngine().Analyze(inputs, Options{})
	if !errors.IsCode(err, errors.CodeInvalidInput) {
		t.Errorf("got %v, want INVALID_INPUT", err)
	}
}

func TestAnalyzeChart(t *testing.T) {
	inputs := spreadInputs()
	inputs.Chart = &models.ChartConfig{PriceRange: 0.3, Points: 50}

	results, err := testEngine().Analyze(inputs, Options{})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(results.Chart) != 50 {
		t.Fatalf("chart points = %d, want 50", len(results.Chart))
	}
	if results.Chart[0].Price != 70 || results.Chart[len(results.Chart)-1].Price != 130 {
		t.Errorf("chart band = [%v, %v], want [70, 130]",
			results.Chart[0].Price, results.Chart[len(results.Chart)-1].Price)
	}
	for i := 1; i < len(results.Chart); i++ {
		if results.Chart[i].Price <= results.Chart[i-1].Price {
			t.Fatal("chart prices must ascend")
		}
	}
}

func TestAnalyzeWithStock(t *testing.T) {
	inputs := models.CalculationInputs{
		StockPrice: 100,
		Legs: []models.OptionLeg{
			leg("c", models.Call, models.Short, 110, 2.50),
		},
		Stock:        &models.StockLeg{Shares: 100, CostBasis: 95},
		Volatility:   0.3,
		RiskFreeRate: 0.05,
	}

	results, err := testEngine().Analyze(inputs, Options{})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if results.Strategy.Type != models.StrategyCoveredCall {
		t.Errorf("strategy = %s, want COVERED_CALL", results.Strategy.Type)
	}
	last := results.Legs[len(results.Legs)-1]
	if last.LegID != "stock" {
		t.Fatalf("expected trailing stock row, got %+v", last)
	}
	if last.ExpirationPL != 500 {
		t.Errorf("stock P/L = %v, want 500", last.ExpirationPL)
	}
}

func TestAnalyzeHeatmap(t *testing.T) {
	results, err := testEngine().Analyze(spreadInputs(), Options{
		Heatmap: &heatmap.Config{PriceRange: 0.3, PriceSteps: 8, DateSteps: 4, Workers: 2},
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if results.Heatmap == nil {
		t.Fatal("heatmap requested but missing")
	}
	if len(results.Heatmap.Prices) != 8 || len(results.Heatmap.Dates) != 4 {
		t.Errorf("heatmap grid = %dx%d, want 8x4",
			len(results.Heatmap.Prices), len(results.Heatmap.Dates))
	}
	if last := results.Heatmap.Dates[3]; !last.Equal(expiry) {
		t.Errorf("final heatmap column = %v, want %v", last, expiry)
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	engine := testEngine()
	a, err := engine.Analyze(spreadInputs(), Options{})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	b, err := engine.Analyze(spreadInputs(), Options{})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if a.InitialCost != b.InitialCost || *a.MaxProfit != *b.MaxProfit || *a.MaxLoss != *b.MaxLoss {
		t.Error("repeated analysis of identical inputs diverged")
	}
	if len(a.BreakEvenPoints) != len(b.BreakEvenPoints) {
		t.Fatal("break-even counts diverged")
	}
	for i := range a.BreakEvenPoints {
		if a.BreakEvenPoints[i] != b.BreakEvenPoints[i] {
			t.Error("break-even points diverged")
		}
	}
}

func TestAnalyzeMixedExpiryWarning(t *testing.T) {
	inputs := spreadInputs()
	inputs.Legs[1].Expiry = expiry.AddDate(0, 3, 0)

	results, err := testEngine().Analyze(inputs, Options{})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(results.Warnings) == 0 {
		t.Error("mixed expiries should produce an advisory warning")
	}
}
