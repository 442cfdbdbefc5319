package validate

import (
	"math"
	"strings"
	"testing"
	"time"

	"options-lab/internal/errors"
	"options-lab/internal/models"
)

var asOf = time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

func validLeg() models.OptionLeg {
	return models.OptionLeg{
		ID: "leg-1", Type: models.Call, Position: models.Long,
		Strike: 100, Premium: 4.50, Quantity: 1,
		Expiry: asOf.AddDate(0, 5, 0),
	}
}

func validInputs() models.CalculationInputs {
	return models.CalculationInputs{
		StockPrice:   100,
		Legs:         []models.OptionLeg{validLeg()},
		Volatility:   0.3,
		RiskFreeRate: 0.05,
	}
}

func TestValidateOK(t *testing.T) {
	res := Validate(validInputs(), asOf)
	if !res.IsValid {
		t.Fatalf("valid inputs rejected: %v", res.Errors)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*models.CalculationInputs)
		wantField string
	}{
		{"zero stock price", func(in *models.CalculationInputs) { in.StockPrice = 0 }, "stockPrice"},
		{"negative stock price", func(in *models.CalculationInputs) { in.StockPrice = -10 }, "stockPrice"},
		{"NaN stock price", func(in *models.CalculationInputs) { in.StockPrice = math.NaN() }, "stockPrice"},
		{"stock price above ceiling", func(in *models.CalculationInputs) { in.StockPrice = 2_000_000 }, "stockPrice"},
		{"no legs", func(in *models.CalculationInputs) { in.Legs = nil }, "legs"},
		{"too many legs", func(in *models.CalculationInputs) {
			for i := 0; i < 9; i++ {
				in.Legs = append(in.Legs, validLeg())
			}
		}, "legs"},
		{"empty leg id", func(in *models.CalculationInputs) { in.Legs[0].ID = "" }, "legs[0].id"},
		{"bad option type", func(in *models.CalculationInputs) { in.Legs[0].Type = "SWAPTION" }, "legs[0].optionType"},
		{"bad position", func(in *models.CalculationInputs) { in.Legs[0].Position = "HEDGED" }, "legs[0].position"},
		{"zero strike", func(in *models.CalculationInputs) { in.Legs[0].Strike = 0 }, "legs[0].strikePrice"},
		{"negative premium", func(in *models.CalculationInputs) { in.Legs[0].Premium = -1 }, "legs[0].premium"},
		{"zero quantity", func(in *models.CalculationInputs) { in.Legs[0].Quantity = 0 }, "legs[0].quantity"},
		{"quantity above ceiling", func(in *models.CalculationInputs) { in.Legs[0].Quantity = 20_000 }, "legs[0].quantity"},
		{"past expiry", func(in *models.CalculationInputs) { in.Legs[0].Expiry = asOf.AddDate(0, -1, 0) }, "legs[0].expiryDate"},
		{"expiry too far out", func(in *models.CalculationInputs) { in.Legs[0].Expiry = asOf.AddDate(11, 0, 0) }, "legs[0].expiryDate"},
		{"leg volatility above ceiling", func(in *models.CalculationInputs) {
			vol := 6.0
			in.Legs[0].Volatility = &vol
		}, "legs[0].volatility"},
		{"strategy volatility negative", func(in *models.CalculationInputs) { in.Volatility = -0.2 }, "volatility"},
		{"rate out of range", func(in *models.CalculationInputs) { in.RiskFreeRate = 1.5 }, "riskFreeRate"},
		{"dividend yield above 1", func(in *models.CalculationInputs) { in.DividendYield = 1.2 }, "dividendYield"},
		{"chart range above 1", func(in *models.CalculationInputs) {
			in.Chart = &models.ChartConfig{PriceRange: 1.5, Points: 100}
		}, "chart.priceRange"},
		{"chart points too few", func(in *models.CalculationInputs) {
			in.Chart = &models.ChartConfig{PriceRange: 0.3, Points: 1}
		}, "chart.points"},
		{"chart points too many", func(in *models.CalculationInputs) {
			in.Chart = &models.ChartConfig{PriceRange: 0.3, Points: 1000}
		}, "chart.points"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inputs := validInputs()
			tt.mutate(&inputs)
			res := Validate(inputs, asOf)
			if res.IsValid {
				t.Fatal("invalid inputs accepted")
			}
			found := false
			for _, fe := range res.Errors {
				if fe.Field == tt.wantField {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("no error on field %q, got %v", tt.wantField, res.Errors)
			}
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	inputs := validInputs()
	inputs.StockPrice = -1
	inputs.Legs[0].Strike = 0
	inputs.Legs[0].Quantity = -2

	res := Validate(inputs, asOf)
	if len(res.Errors) < 3 {
		t.Errorf("got %d errors, want all violations collected: %v", len(res.Errors), res.Errors)
	}
}

func TestAssertValid(t *testing.T) {
	if err := AssertValid(validInputs(), asOf); err != nil {
		t.Fatalf("valid inputs rejected: %v", err)
	}

	inputs := validInputs()
	inputs.StockPrice = 0
	err := AssertValid(inputs, asOf)
	if !errors.IsCode(err, errors.CodeInvalidInput) {
		t.Fatalf("got %v, want INVALID_INPUT", err)
	}
	if !strings.Contains(err.Error(), "stockPrice") {
		t.Errorf("aggregated message should name the field, got %q", err.Error())
	}
}

func TestConsistencyWarnings(t *testing.T) {
	a := validLeg()
	b := validLeg()
	b.ID = "leg-1" // duplicate
	b.Strike = 100.5
	b.Expiry = a.Expiry.AddDate(0, 1, 0)

	warnings := ConsistencyWarnings([]models.OptionLeg{a, b})

	var dup, mixed, closeStrikes bool
	for _, w := range warnings {
		switch {
		case strings.Contains(w.Message, "duplicate"):
			dup = true
		case strings.Contains(w.Message, "mixed expiries"):
			mixed = true
		case strings.Contains(w.Message, "within 1%"):
			closeStrikes = true
		}
	}
	if !dup || !mixed || !closeStrikes {
		t.Errorf("warnings = %v, want duplicate id, mixed expiry and close-strike flags", warnings)
	}
}

func TestParseLeg(t *testing.T) {
	input := models.OptionLegInput{
		ID: "x", Type: "call", Position: "long",
		Strike: 100, Premium: 4.5, Quantity: 1, Expiry: "2026-06-19",
	}
	leg, err := ParseLeg(input, asOf)
	if err != nil {
		t.Fatalf("ParseLeg failed: %v", err)
	}
	if leg.Type != models.Call || leg.Position != models.Long {
		t.Errorf("case-insensitive parse gave %s/%s", leg.Type, leg.Position)
	}
	if !leg.Expiry.Equal(time.Date(2026, 6, 19, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("expiry = %v", leg.Expiry)
	}
}

func TestParseLegErrors(t *testing.T) {
	base := models.OptionLegInput{
		ID: "x", Type: "CALL", Position: "LONG",
		Strike: 100, Premium: 4.5, Quantity: 1, Expiry: "2026-06-19",
	}

	bad := base
	bad.Expiry = "06/19/2026"
	if _, err := ParseLeg(bad, asOf); !errors.IsCode(err, errors.CodeInvalidDate) {
		t.Errorf("got %v, want INVALID_DATE", err)
	}

	bad = base
	bad.Expiry = "2025-06-20"
	if _, err := ParseLeg(bad, asOf); !errors.IsCode(err, errors.CodeExpiredOption) {
		t.Errorf("got %v, want EXPIRED_OPTION", err)
	}

	bad = base
	bad.Type = "future"
	if _, err := ParseLeg(bad, asOf); !errors.IsCode(err, errors.CodeInvalidInput) {
		t.Errorf("got %v, want INVALID_INPUT", err)
	}
}

func TestParseLegsAssignsIDs(t *testing.T) {
	inputs := []models.OptionLegInput{
		{Type: "CALL", Position: "LONG", Strike: 100, Premium: 4.5, Quantity: 1, Expiry: "2026-06-19"},
		{Type: "PUT", Position: "SHORT", Strike: 90, Premium: 2.2, Quantity: 1, Expiry: "2026-06-19"},
	}
	legs, err := ParseLegs(inputs, asOf)
	if err != nil {
		t.Fatalf("ParseLegs failed: %v", err)
	}
	if legs[0].ID != "leg-1" || legs[1].ID != "leg-2" {
		t.Errorf("ids = %q, %q, want leg-1, leg-2", legs[0].ID, legs[1].ID)
	}
}

func TestParseLegsRejectsDuplicateIDs(t *testing.T) {
	inputs := []models.OptionLegInput{
		{ID: "a", Type: "CALL", Position: "LONG", Strike: 100, Premium: 4.5, Quantity: 1, Expiry: "2026-06-19"},
		{ID: "a", Type: "CALL", Position: "SHORT", Strike: 110, Premium: 1.5, Quantity: 1, Expiry: "2026-06-19"},
	}
	_, err := ParseLegs(inputs, asOf)
	if !errors.Is(err, errors.ErrDuplicateLegID) {
		t.Errorf("got %v, want ErrDuplicateLegID", err)
	}
	if !errors.IsCode(err, errors.CodeInvalidInput) {
		t.Errorf("got %v, want INVALID_INPUT", err)
	}
}
