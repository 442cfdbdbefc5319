package marketdata

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"options-lab/internal/engine/payoff"
	"options-lab/internal/errors"
	"options-lab/internal/logging"
	"options-lab/internal/models"
)

// TradingDaysPerYear is the annualization factor for historical
// volatility.
const TradingDaysPerYear = 252

// Service wraps a Source with a bounded TTL cache. The cache is owned by
// the service instance; expired entries are evicted when read and the
// oldest entry is evicted when the bound is hit.
type Service struct {
	source     Source
	logger     zerolog.Logger
	ttl        time.Duration
	maxEntries int
	cache      map[string]cacheEntry
	now        func() time.Time
}

type cacheEntry struct {
	value     interface{}
	timestamp time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithTTL sets the cache entry lifetime.
func WithTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) { s.ttl = ttl }
}

// WithMaxEntries bounds the cache size.
func WithMaxEntries(n int) ServiceOption {
	return func(s *Service) { s.maxEntries = n }
}

// WithClock injects a clock source for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// NewService creates a market data service around the given source.
func NewService(source Source, logger zerolog.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		source:     source,
		logger:     logger,
		ttl:        time.Minute,
		maxEntries: 128,
		cache:      make(map[string]cacheEntry),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Quote returns the current quote for a symbol, served from cache when
// fresh.
func (s *Service) Quote(ctx context.Context, symbol string) (*Quote, error) {
	key := "quote:" + symbol
	if cached, ok := s.cacheGet(key); ok {
		return cached.(*Quote), nil
	}

	quote, err := s.source.Quote(ctx, symbol)
	if err != nil {
		return nil, errors.Wrapf(err, "quote %s", symbol)
	}
	s.cachePut(key, quote)
	symLogger := logging.WithSymbol(s.logger, symbol)
	symLogger.Debug().Msg("Quote fetched from source")
	return quote, nil
}

// ExpiryDates returns the available expiries for a symbol with
// weekly/monthly/quarterly/LEAPS classification, sorted ascending.
func (s *Service) ExpiryDates(ctx context.Context, symbol string) ([]ExpiryInfo, error) {
	key := "expiries:" + symbol
	if cached, ok := s.cacheGet(key); ok {
		return cached.([]ExpiryInfo), nil
	}

	dates, err := s.source.ExpiryDates(ctx, symbol)
	if err != nil {
		return nil, errors.Wrapf(err, "expiries %s", symbol)
	}

	asOf := s.now()
	infos := make([]ExpiryInfo, 0, len(dates))
	for _, date := range dates {
		infos = append(infos, ClassifyExpiry(date, asOf))
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Date.Before(infos[j].Date) })

	s.cachePut(key, infos)
	return infos, nil
}

// Volatility computes volatility metrics for a symbol over the given
// number of trading days of close history. When no implied volatility is
// supplied (iv <= 0), the historical estimate stands in for it.
func (s *Service) Volatility(ctx context.Context, symbol string, days int, iv float64) (*VolatilityMetrics, error) {
	closes, err := s.source.DailyCloses(ctx, symbol, days)
	if err != nil {
		return nil, errors.Wrapf(err, "closes %s", symbol)
	}

	hv, err := HistoricalVolatility(closes)
	if err != nil {
		return nil, err
	}
	if iv <= 0 {
		iv = hv
	}

	return &VolatilityMetrics{
		Symbol:               symbol,
		ImpliedVolatility:    iv,
		HistoricalVolatility: hv,
		IVRank:               IVRank(iv, hv),
	}, nil
}

// HistoricalVolatility returns the annualized standard deviation of
// daily log returns.
func HistoricalVolatility(closes []float64) (float64, error) {
	if len(closes) < 2 {
		return 0, errors.NewCalculationError(errors.CodeInvalidInput,
			fmt.Sprintf("need at least 2 closes, got %d", len(closes)), nil)
	}

	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] <= 0 {
			return 0, errors.NewCalculationError(errors.CodeDivisionByZero,
				"close series contains a non-positive price", nil)
		}
		returns = append(returns, math.Log(closes[i]/closes[i-1]))
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	if len(returns) > 1 {
		variance /= float64(len(returns) - 1)
	}

	return math.Sqrt(variance) * math.Sqrt(TradingDaysPerYear), nil
}

// IVRank is the simplified implied-volatility rank: iv relative to hv,
// clamped to [0, 100]. A proper rank needs an IV history, which the
// offline sources do not carry.
func IVRank(iv, hv float64) float64 {
	if hv <= 0 {
		return 0
	}
	return math.Min(100, math.Max(0, iv/hv*50))
}

// Enrich fills the derived fields of a contract quote against the
// underlying price: mark, intrinsic/extrinsic value and moneyness.
func Enrich(contract ContractQuote, underlyingPrice float64) ContractQuote {
	contract.Mark = (contract.Bid + contract.Ask) / 2
	contract.IntrinsicValue = payoff.IntrinsicValue(contract.Type, underlyingPrice, contract.Strike)
	contract.ExtrinsicValue = math.Max(0, contract.LastPrice-contract.IntrinsicValue)
	contract.InTheMoney = contract.IntrinsicValue > 0
	return contract
}

// Moneyness describes spot relative to strike for display purposes.
func Moneyness(optType models.OptionType, spot, strike float64) string {
	intrinsic := payoff.IntrinsicValue(optType, spot, strike)
	switch {
	case intrinsic > 0:
		return "ITM"
	case spot == strike:
		return "ATM"
	default:
		return "OTM"
	}
}

func (s *Service) cacheGet(key string) (interface{}, bool) {
	entry, ok := s.cache[key]
	if !ok {
		return nil, false
	}
	if s.now().Sub(entry.timestamp) > s.ttl {
		delete(s.cache, key)
		return nil, false
	}
	return entry.value, true
}

func (s *Service) cachePut(key string, value interface{}) {
	if len(s.cache) >= s.maxEntries {
		s.evictOldest()
	}
	s.cache[key] = cacheEntry{value: value, timestamp: s.now()}
}

func (s *Service) evictOldest() {
	var oldestKey string
	var oldest time.Time
	for key, entry := range s.cache {
		if oldestKey == "" || entry.timestamp.Before(oldest) {
			oldestKey = key
			oldest = entry.timestamp
		}
	}
	if oldestKey != "" {
		delete(s.cache, oldestKey)
	}
}
