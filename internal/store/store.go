// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"options-lab/internal/marketdata"
	"options-lab/internal/models"
)

// AnalysisRecord is one persisted calculation run: the inputs that
// produced it and the full result snapshot.
type AnalysisRecord struct {
	ID          string
	Symbol      string
	CreatedAt   time.Time
	SpotPrice   float64
	Strategy    models.StrategyType
	Confidence  float64
	InitialCost float64
	Inputs      models.CalculationInputs
	Results     models.CalculationResults
}

// AnalysisFilter narrows journal queries.
type AnalysisFilter struct {
	Symbol   string
	Strategy models.StrategyType
	From     time.Time
	To       time.Time
	Limit    int
}

// DataStore defines the interface for data persistence.
type DataStore interface {
	// Analysis journal
	SaveAnalysis(ctx context.Context, record *AnalysisRecord) error
	GetAnalyses(ctx context.Context, filter AnalysisFilter) ([]AnalysisRecord, error)
	GetAnalysisByID(ctx context.Context, id string) (*AnalysisRecord, error)
	DeleteAnalysis(ctx context.Context, id string) error

	// Quote and close history (backs the market data source)
	SaveQuote(ctx context.Context, quote *marketdata.Quote) error
	SaveCloses(ctx context.Context, symbol string, closes map[time.Time]float64) error
	SaveExpiries(ctx context.Context, symbol string, dates []time.Time) error

	// marketdata.Source
	Quote(ctx context.Context, symbol string) (*marketdata.Quote, error)
	ExpiryDates(ctx context.Context, symbol string) ([]time.Time, error)
	DailyCloses(ctx context.Context, symbol string, days int) ([]float64, error)

	Close() error
}
