// Package engine orchestrates one full strategy calculation: validation,
// classification, P/L aggregation, break-even search, chart sampling and
// the optional heatmap surface. Every invocation is an independent pure
// computation over its inputs; nothing is retained between calls.
package engine

import (
	"time"

	"github.com/rs/zerolog"

	"options-lab/internal/engine/breakeven"
	"options-lab/internal/engine/heatmap"
	"options-lab/internal/engine/mathutil"
	"options-lab/internal/engine/payoff"
	"options-lab/internal/engine/strategy"
	"options-lab/internal/engine/validate"
	"options-lab/internal/logging"
	"options-lab/internal/models"
)

// Engine runs strategy calculations. It holds no mutable state; the
// clock is injectable so results are reproducible in tests.
type Engine struct {
	logger zerolog.Logger
	now    func() time.Time
}

// New creates an engine with the given logger.
func New(logger zerolog.Logger) *Engine {
	return &Engine{logger: logger, now: time.Now}
}

// NewWithClock creates an engine with a fixed clock source.
func NewWithClock(logger zerolog.Logger, now func() time.Time) *Engine {
	return &Engine{logger: logger, now: now}
}

// Options selects optional result sections.
type Options struct {
	// Heatmap, when non-nil, requests the price/date P/L surface.
	Heatmap *heatmap.Config
	// BreakEvenPrecision overrides the default cent-level precision
	// when positive.
	BreakEvenPrecision float64
}

// Analyze runs the full pipeline and assembles an immutable result.
func (e *Engine) Analyze(inputs models.CalculationInputs, opts Options) (*models.CalculationResults, error) {
	asOf := e.now()

	if err := validate.AssertValid(inputs, asOf); err != nil {
		return nil, err
	}
	validation := validate.Validate(inputs, asOf)

	hasStock := inputs.Stock != nil && inputs.Stock.Shares != 0
	detection := strategy.Detect(inputs.Legs, hasStock)

	priceRange := breakeven.DefaultPriceRange
	if inputs.Chart != nil && inputs.Chart.PriceRange > 0 {
		priceRange = inputs.Chart.PriceRange
	}
	breakEvens, err := breakeven.FindWithOptions(inputs.Legs, inputs.StockPrice, priceRange, opts.BreakEvenPrecision)
	if err != nil {
		return nil, err
	}

	results := &models.CalculationResults{
		Strategy:        detection,
		InitialCost:     payoff.InitialCost(inputs.Legs),
		MaxProfit:       payoff.MaxProfit(inputs.Legs, inputs.StockPrice),
		MaxLoss:         payoff.MaxLoss(inputs.Legs, inputs.StockPrice),
		BreakEvenPoints: breakEvens,
		Legs:            legBreakdown(inputs),
		Warnings:        validation.Warnings,
	}

	if inputs.Chart != nil {
		results.Chart = chartPoints(inputs)
	}

	if opts.Heatmap != nil {
		cfg := *opts.Heatmap
		if cfg.AsOf.IsZero() {
			cfg.AsOf = asOf
		}
		if cfg.Volatility == 0 {
			cfg.Volatility = inputs.Volatility
		}
		if cfg.RiskFreeRate == 0 {
			cfg.RiskFreeRate = inputs.RiskFreeRate
		}
		if cfg.DividendYield == 0 {
			cfg.DividendYield = inputs.DividendYield
		}
		hm, err := heatmap.Generate(inputs.Legs, inputs.StockPrice, cfg)
		if err != nil {
			return nil, err
		}
		results.Heatmap = hm
	}

	logging.LogAnalysis(logging.WithStrategy(e.logger, string(detection.Type)),
		len(inputs.Legs), results.InitialCost, len(breakEvens))

	return results, nil
}

// legBreakdown builds the per-leg slice of the result at the current
// spot price. The stock position, when present, appears as its own row.
func legBreakdown(inputs models.CalculationInputs) []models.LegBreakdown {
	rows := make([]models.LegBreakdown, 0, len(inputs.Legs)+1)
	for _, leg := range inputs.Legs {
		rows = append(rows, models.LegBreakdown{
			LegID:          leg.ID,
			IntrinsicValue: payoff.IntrinsicValue(leg.Type, inputs.StockPrice, leg.Strike),
			ExpirationPL:   payoff.LegExpirationPL(leg, inputs.StockPrice),
			CostBasis:      payoff.LegCostBasis(leg),
		})
	}
	if inputs.Stock != nil && inputs.Stock.Shares != 0 {
		rows = append(rows, models.LegBreakdown{
			LegID:        "stock",
			ExpirationPL: payoff.StockPL(*inputs.Stock, inputs.StockPrice),
			CostBasis:    -inputs.Stock.CostBasis * float64(inputs.Stock.Shares),
		})
	}
	return rows
}

// chartPoints samples the expiration P/L curve across the configured
// price band. The stock position contributes to the curve here, while
// the option-only aggregates stay stock-free.
func chartPoints(inputs models.CalculationInputs) []models.ChartPoint {
	cfg := inputs.Chart
	low := inputs.StockPrice * (1 - cfg.PriceRange)
	if low < 0 {
		low = 0
	}
	high := inputs.StockPrice * (1 + cfg.PriceRange)
	step := (high - low) / float64(cfg.Points-1)

	points := make([]models.ChartPoint, cfg.Points)
	for i := 0; i < cfg.Points; i++ {
		price := low + float64(i)*step
		pl := payoff.TotalPL(inputs.Legs, price)
		if inputs.Stock != nil {
			pl += payoff.StockPL(*inputs.Stock, price)
		}
		points[i] = models.ChartPoint{
			Price: mathutil.RoundToCents(price),
			PL:    mathutil.RoundToCents(pl),
		}
	}
	return points
}
