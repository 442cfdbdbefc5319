package models

// StrategyType identifies a named option strategy. The set is closed:
// the classifier switches exhaustively over these values and anything it
// cannot name becomes StrategyCustom.
type StrategyType string

const (
	StrategyLongCall            StrategyType = "LONG_CALL"
	StrategyLongPut             StrategyType = "LONG_PUT"
	StrategyNakedCall           StrategyType = "NAKED_CALL"
	StrategyNakedPut            StrategyType = "NAKED_PUT"
	StrategyCoveredCall         StrategyType = "COVERED_CALL"
	StrategyCashSecuredPut      StrategyType = "CASH_SECURED_PUT"
	StrategyLongStraddle        StrategyType = "LONG_STRADDLE"
	StrategyShortStraddle       StrategyType = "SHORT_STRADDLE"
	StrategyLongStrangle        StrategyType = "LONG_STRANGLE"
	StrategyShortStrangle       StrategyType = "SHORT_STRANGLE"
	StrategyCoveredStrangle     StrategyType = "COVERED_STRANGLE"
	StrategyCollar              StrategyType = "COLLAR"
	StrategyBullCallSpread      StrategyType = "BULL_CALL_SPREAD"
	StrategyBearCallSpread      StrategyType = "BEAR_CALL_SPREAD"
	StrategyBullPutSpread       StrategyType = "BULL_PUT_SPREAD"
	StrategyBearPutSpread       StrategyType = "BEAR_PUT_SPREAD"
	StrategyCalendarSpread      StrategyType = "CALENDAR_SPREAD"
	StrategyDiagonalSpread      StrategyType = "DIAGONAL_SPREAD"
	StrategyPMCC                StrategyType = "POOR_MANS_COVERED_CALL"
	StrategyCallRatioBackspread StrategyType = "CALL_RATIO_BACKSPREAD"
	StrategyPutRatioBackspread  StrategyType = "PUT_RATIO_BACKSPREAD"
	StrategyCallButterfly       StrategyType = "CALL_BUTTERFLY"
	StrategyPutButterfly        StrategyType = "PUT_BUTTERFLY"
	StrategyReverseConversion   StrategyType = "REVERSE_CONVERSION"
	StrategyIronCondor          StrategyType = "IRON_CONDOR"
	StrategyDoubleDiagonal      StrategyType = "DOUBLE_DIAGONAL"
	StrategyCustom              StrategyType = "CUSTOM"
)

// DisplayName returns a human-readable name for the strategy.
func (s StrategyType) DisplayName() string {
	switch s {
	case StrategyLongCall:
		return "Long Call"
	case StrategyLongPut:
		return "Long Put"
	case StrategyNakedCall:
		return "Naked Call"
	case StrategyNakedPut:
		return "Naked Put"
	case StrategyCoveredCall:
		return "Covered Call"
	case StrategyCashSecuredPut:
		return "Cash-Secured Put"
	case StrategyLongStraddle:
		return "Long Straddle"
	case StrategyShortStraddle:
		return "Short Straddle"
	case StrategyLongStrangle:
		return "Long Strangle"
	case StrategyShortStrangle:
		return "Short Strangle"
	case StrategyCoveredStrangle:
		return "Covered Strangle"
	case StrategyCollar:
		return "Collar"
	case StrategyBullCallSpread:
		return "Bull Call Spread"
	case StrategyBearCallSpread:
		return "Bear Call Spread"
	case StrategyBullPutSpread:
		return "Bull Put Spread"
	case StrategyBearPutSpread:
		return "Bear Put Spread"
	case StrategyCalendarSpread:
		return "Calendar Spread"
	case StrategyDiagonalSpread:
		return "Diagonal Spread"
	case StrategyPMCC:
		return "Poor Man's Covered Call"
	case StrategyCallRatioBackspread:
		return "Call Ratio Backspread"
	case StrategyPutRatioBackspread:
		return "Put Ratio Backspread"
	case StrategyCallButterfly:
		return "Call Butterfly"
	case StrategyPutButterfly:
		return "Put Butterfly"
	case StrategyReverseConversion:
		return "Reverse Conversion"
	case StrategyIronCondor:
		return "Iron Condor"
	case StrategyDoubleDiagonal:
		return "Double Diagonal"
	case StrategyCustom:
		return "Custom Strategy"
	default:
		return string(s)
	}
}

// StrategyDetectionResult is the classifier's verdict on a leg combination.
// Confidence below 0.8 is advisory labeling, not authoritative.
type StrategyDetectionResult struct {
	Type                  StrategyType `json:"type"`
	Confidence            float64      `json:"confidence"`
	RequiresStock         bool         `json:"requiresStock"`
	RequiresTimeBasedCalc bool         `json:"requiresTimeBasedCalc"`
}
