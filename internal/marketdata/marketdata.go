// Package marketdata provides the market data service surrounding the
// calculation engine. The engine itself never touches this package: it
// receives plain numbers and dates. The service is explicitly
// constructed with an injected Source and owns a bounded TTL cache;
// there are no package-level singletons.
package marketdata

import (
	"context"
	"time"

	"options-lab/internal/models"
)

// Quote is a snapshot of the underlying at a point in time.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"changePercent"`
	PreviousClose float64   `json:"previousClose"`
	Volume        int64     `json:"volume"`
	Timestamp     time.Time `json:"timestamp"`
}

// ExpiryType classifies an option expiry date.
type ExpiryType string

const (
	ExpiryWeekly    ExpiryType = "weekly"
	ExpiryMonthly   ExpiryType = "monthly"
	ExpiryQuarterly ExpiryType = "quarterly"
	ExpiryLeaps     ExpiryType = "leaps"
)

// ExpiryInfo describes one available expiry date.
type ExpiryInfo struct {
	Date            time.Time  `json:"date"`
	Type            ExpiryType `json:"type"`
	DaysUntilExpiry int        `json:"daysUntilExpiry"`
	IsStandard      bool       `json:"isStandard"`
}

// ContractQuote is one quoted contract row, enriched with intrinsic and
// extrinsic value against the underlying price.
type ContractQuote struct {
	Symbol            string            `json:"symbol"`
	Underlying        string            `json:"underlying"`
	Type              models.OptionType `json:"optionType"`
	Strike            float64           `json:"strikePrice"`
	Expiry            time.Time         `json:"expiryDate"`
	Bid               float64           `json:"bid"`
	Ask               float64           `json:"ask"`
	LastPrice         float64           `json:"lastPrice"`
	Mark              float64           `json:"mark"`
	Volume            int64             `json:"volume"`
	OpenInterest      int64             `json:"openInterest"`
	ImpliedVolatility float64           `json:"impliedVolatility"`
	InTheMoney        bool              `json:"inTheMoney"`
	IntrinsicValue    float64           `json:"intrinsicValue"`
	ExtrinsicValue    float64           `json:"extrinsicValue"`
}

// VolatilityMetrics holds implied and historical volatility for a symbol.
type VolatilityMetrics struct {
	Symbol               string  `json:"symbol"`
	ImpliedVolatility    float64 `json:"impliedVolatility"`
	HistoricalVolatility float64 `json:"historicalVolatility"`
	IVRank               float64 `json:"ivRank"`
}

// Source supplies raw market data. Implementations may be backed by the
// local store, a file, or a remote API; the service does not care.
type Source interface {
	Quote(ctx context.Context, symbol string) (*Quote, error)
	ExpiryDates(ctx context.Context, symbol string) ([]time.Time, error)
	DailyCloses(ctx context.Context, symbol string, days int) ([]float64, error)
}

// ClassifyExpiry labels an expiry date relative to asOf. Monthly
// expiries fall on the 15th-21st (the standard third-Friday window);
// quarterly are the monthlies of March, June, September and December;
// anything more than a year out is LEAPS.
func ClassifyExpiry(date time.Time, asOf time.Time) ExpiryInfo {
	days := int(date.Sub(asOf).Hours() / 24)

	isMonthly := date.Day() >= 15 && date.Day() <= 21
	isQuarterly := isMonthly && (date.Month() == time.March || date.Month() == time.June ||
		date.Month() == time.September || date.Month() == time.December)

	var expiryType ExpiryType
	switch {
	case days > 365:
		expiryType = ExpiryLeaps
	case isQuarterly:
		expiryType = ExpiryQuarterly
	case isMonthly:
		expiryType = ExpiryMonthly
	default:
		expiryType = ExpiryWeekly
	}

	return ExpiryInfo{
		Date:            date,
		Type:            expiryType,
		DaysUntilExpiry: days,
		IsStandard:      isMonthly,
	}
}
