// Package strategy infers a named option strategy from the structure of
// its legs. Classification is advisory labeling: results below 0.8
// confidence must not gate calculation correctness.
package strategy

import (
	"math"
	"sort"

	"options-lab/internal/models"
)

// strikeSpacingTolerance is the relative tolerance used when checking
// that butterfly wings are equally spaced.
const strikeSpacingTolerance = 0.01

// Detect classifies a combination of 1-8 legs. hasStock indicates an
// underlying stock (or cash collateral) position alongside the options.
// Combinations of 5 or more legs are not enumerated and classify as
// CUSTOM with full confidence.
func Detect(legs []models.OptionLeg, hasStock bool) models.StrategyDetectionResult {
	switch len(legs) {
	case 0:
		return result(models.StrategyCustom, 0, false, false)
	case 1:
		return detectSingle(legs[0], hasStock)
	case 2:
		return detectTwoLegs(legs, hasStock)
	case 3:
		return detectThreeLegs(legs, hasStock)
	case 4:
		return detectFourLegs(legs)
	default:
		return result(models.StrategyCustom, 1, false, false)
	}
}

func detectSingle(leg models.OptionLeg, hasStock bool) models.StrategyDetectionResult {
	if leg.Position == models.Long {
		if leg.Type == models.Call {
			return result(models.StrategyLongCall, 1, false, false)
		}
		return result(models.StrategyLongPut, 1, false, false)
	}

	if leg.Type == models.Call {
		if hasStock {
			return result(models.StrategyCoveredCall, 1, true, false)
		}
		return result(models.StrategyNakedCall, 1, false, false)
	}

	if hasStock {
		return result(models.StrategyCashSecuredPut, 1, true, false)
	}
	// A lone short put could be cash-secured; option legs alone cannot
	// tell, so the label is not fully confident.
	return result(models.StrategyNakedPut, 0.9, false, false)
}

func detectTwoLegs(legs []models.OptionLeg, hasStock bool) models.StrategyDetectionResult {
	a, b := legs[0], legs[1]

	if a.Type != b.Type {
		return detectMixedPair(a, b, hasStock)
	}
	return detectSameTypePair(a, b)
}

// detectMixedPair handles one call + one put.
func detectMixedPair(a, b models.OptionLeg, hasStock bool) models.StrategyDetectionResult {
	if a.Position == b.Position {
		sameStrike := a.Strike == b.Strike
		if a.Position == models.Long {
			if sameStrike {
				return result(models.StrategyLongStraddle, 1, false, false)
			}
			return result(models.StrategyLongStrangle, 1, false, false)
		}
		if hasStock {
			return result(models.StrategyCoveredStrangle, 1, true, false)
		}
		if sameStrike {
			return result(models.StrategyShortStraddle, 1, false, false)
		}
		return result(models.StrategyShortStrangle, 1, false, false)
	}

	// Opposite positions: stock + long put + short call is a collar.
	call, put := a, b
	if a.Type == models.Put {
		call, put = b, a
	}
	if hasStock && put.Position == models.Long && call.Position == models.Short {
		return result(models.StrategyCollar, 1, true, false)
	}
	return result(models.StrategyCustom, 0.7, false, false)
}

// detectSameTypePair handles two legs of the same option type.
func detectSameTypePair(a, b models.OptionLeg) models.StrategyDetectionResult {
	if a.Position == b.Position {
		return result(models.StrategyCustom, 0.7, false, false)
	}

	long, short := a, b
	if a.Position == models.Short {
		long, short = b, a
	}

	sameExpiry := long.Expiry.Equal(short.Expiry)

	if long.Quantity != short.Quantity {
		if sameExpiry && long.Quantity > short.Quantity {
			if long.Type == models.Call {
				return result(models.StrategyCallRatioBackspread, 1, false, false)
			}
			return result(models.StrategyPutRatioBackspread, 1, false, false)
		}
		return result(models.StrategyCustom, 0.7, false, false)
	}

	if sameExpiry {
		return detectVertical(long, short)
	}
	return detectTimeSpread(long, short)
}

func detectVertical(long, short models.OptionLeg) models.StrategyDetectionResult {
	if long.Strike == short.Strike {
		// Same strike, same expiry, opposite positions: a wash.
		return result(models.StrategyCustom, 0.5, false, false)
	}
	if long.Type == models.Call {
		if long.Strike < short.Strike {
			return result(models.StrategyBullCallSpread, 1, false, false)
		}
		return result(models.StrategyBearCallSpread, 1, false, false)
	}
	if long.Strike < short.Strike {
		return result(models.StrategyBullPutSpread, 1, false, false)
	}
	return result(models.StrategyBearPutSpread, 1, false, false)
}

// detectTimeSpread handles same-type, opposite-position legs with
// differing expiries. These cannot be fully valued by expiration-only
// intrinsic math.
func detectTimeSpread(long, short models.OptionLeg) models.StrategyDetectionResult {
	if long.Strike == short.Strike {
		return result(models.StrategyCalendarSpread, 1, false, true)
	}
	// PMCC: a call diagonal where the long leg sits deep in-the-money
	// relative to the short strike and expires after the short leg.
	if long.Type == models.Call &&
		long.Expiry.After(short.Expiry) &&
		long.Strike < short.Strike*0.9 {
		return result(models.StrategyPMCC, 0.9, false, true)
	}
	return result(models.StrategyDiagonalSpread, 1, false, true)
}

func detectThreeLegs(legs []models.OptionLeg, hasStock bool) models.StrategyDetectionResult {
	if res, ok := detectButterfly(legs); ok {
		return res
	}

	calls, puts := splitByType(legs)
	if len(calls) > 0 && len(puts) > 0 && !hasStock {
		if hasSameStrikePair(calls, puts) {
			return result(models.StrategyReverseConversion, 0.6, false, false)
		}
		return result(models.StrategyCustom, 0.7, false, false)
	}
	return result(models.StrategyCustom, 0.7, false, false)
}

// detectButterfly matches the long butterfly shape: same type, same
// expiry, two single-quantity long wings around one double-quantity
// short body, with equally spaced strikes.
func detectButterfly(legs []models.OptionLeg) (models.StrategyDetectionResult, bool) {
	first := legs[0]
	longs := make([]models.OptionLeg, 0, 2)
	var short *models.OptionLeg
	for i, leg := range legs {
		if leg.Type != first.Type || !leg.Expiry.Equal(first.Expiry) {
			return models.StrategyDetectionResult{}, false
		}
		switch leg.Position {
		case models.Long:
			longs = append(longs, leg)
		case models.Short:
			short = &legs[i]
		}
	}
	if len(longs) != 2 || short == nil {
		return models.StrategyDetectionResult{}, false
	}
	if longs[0].Quantity != 1 || longs[1].Quantity != 1 || short.Quantity != 2 {
		return models.StrategyDetectionResult{}, false
	}

	strikes := []float64{longs[0].Strike, longs[1].Strike, short.Strike}
	sort.Float64s(strikes)
	if short.Strike != strikes[1] {
		return models.StrategyDetectionResult{}, false
	}
	lower := strikes[1] - strikes[0]
	upper := strikes[2] - strikes[1]
	if lower <= 0 || upper <= 0 {
		return models.StrategyDetectionResult{}, false
	}
	mean := (lower + upper) / 2
	if math.Abs(lower-upper)/mean > strikeSpacingTolerance {
		return models.StrategyDetectionResult{}, false
	}

	if first.Type == models.Call {
		return result(models.StrategyCallButterfly, 1, false, false), true
	}
	return result(models.StrategyPutButterfly, 1, false, false), true
}

func detectFourLegs(legs []models.OptionLeg) models.StrategyDetectionResult {
	calls, puts := splitByType(legs)
	if len(calls) != 2 || len(puts) != 2 {
		return result(models.StrategyCustom, 0.7, false, false)
	}
	if !oneLongOneShort(calls) || !oneLongOneShort(puts) {
		return result(models.StrategyCustom, 0.7, false, false)
	}

	expiry := legs[0].Expiry
	sameExpiry := true
	for _, leg := range legs[1:] {
		if !leg.Expiry.Equal(expiry) {
			sameExpiry = false
			break
		}
	}
	if sameExpiry {
		return result(models.StrategyIronCondor, 1, false, false)
	}
	return result(models.StrategyDoubleDiagonal, 0.9, false, true)
}

func splitByType(legs []models.OptionLeg) (calls, puts []models.OptionLeg) {
	for _, leg := range legs {
		if leg.Type == models.Call {
			calls = append(calls, leg)
		} else {
			puts = append(puts, leg)
		}
	}
	return calls, puts
}

func oneLongOneShort(legs []models.OptionLeg) bool {
	if len(legs) != 2 {
		return false
	}
	return (legs[0].Position == models.Long) != (legs[1].Position == models.Long)
}

func hasSameStrikePair(calls, puts []models.OptionLeg) bool {
	for _, c := range calls {
		if c.Position != models.Long {
			continue
		}
		for _, p := range puts {
			if p.Position == models.Short && p.Strike == c.Strike {
				return true
			}
		}
	}
	return false
}

func result(t models.StrategyType, confidence float64, requiresStock, timeBased bool) models.StrategyDetectionResult {
	return models.StrategyDetectionResult{
		Type:                  t,
		Confidence:            confidence,
		RequiresStock:         requiresStock,
		RequiresTimeBasedCalc: timeBased,
	}
}
