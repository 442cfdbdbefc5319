package pricing

import (
	"math"
	"testing"

	"options-lab/internal/errors"
	"options-lab/internal/models"
)

func atmParams(optType models.OptionType) models.BlackScholesParams {
	return models.BlackScholesParams{
		Type:         optType,
		SpotPrice:    100,
		Strike:       100,
		TimeToExpiry: 1,
		RiskFreeRate: 0.05,
		Volatility:   0.2,
	}
}

func TestPriceKnownValues(t *testing.T) {
	// Textbook values: S=100, K=100, T=1, r=5%, sigma=20%.
	call, err := Price(atmParams(models.Call))
	if err != nil {
		t.Fatalf("call pricing failed: %v", err)
	}
	if math.Abs(call.OptionPrice-10.4506) > 1e-3 {
		t.Errorf("ATM call = %v, want ~10.4506", call.OptionPrice)
	}

	put, err := Price(atmParams(models.Put))
	if err != nil {
		t.Fatalf("put pricing failed: %v", err)
	}
	if math.Abs(put.OptionPrice-5.5735) > 1e-3 {
		t.Errorf("ATM put = %v, want ~5.5735", put.OptionPrice)
	}

	if math.Abs(call.D1-0.35) > 1e-10 || math.Abs(call.D2-0.15) > 1e-10 {
		t.Errorf("d1/d2 = %v/%v, want 0.35/0.15", call.D1, call.D2)
	}
}

func TestPriceExpiredOption(t *testing.T) {
	p := atmParams(models.Call)
	p.SpotPrice = 110
	p.TimeToExpiry = 0

	res, err := Price(p)
	if err != nil {
		t.Fatalf("expired pricing failed: %v", err)
	}
	if res.OptionPrice != 10 {
		t.Errorf("expired ITM call = %v, want intrinsic 10", res.OptionPrice)
	}
	if res.D1 != 0 || res.D2 != 0 {
		t.Errorf("expired d1/d2 = %v/%v, want 0/0", res.D1, res.D2)
	}

	p.Type = models.Put
	res, err = Price(p)
	if err != nil {
		t.Fatalf("expired put pricing failed: %v", err)
	}
	if res.OptionPrice != 0 {
		t.Errorf("expired OTM put = %v, want 0", res.OptionPrice)
	}
}

func TestPriceZeroVolatility(t *testing.T) {
	p := atmParams(models.Call)
	p.SpotPrice = 110
	p.Volatility = 0

	res, err := Price(p)
	if err != nil {
		t.Fatalf("zero-vol pricing failed: %v", err)
	}
	want := 110 - 100*math.Exp(-0.05)
	if math.Abs(res.OptionPrice-want) > 1e-10 {
		t.Errorf("zero-vol call = %v, want %v", res.OptionPrice, want)
	}
	if !math.IsInf(res.D1, 1) || !math.IsInf(res.D2, 1) {
		t.Errorf("d1/d2 = %v/%v, want +Inf for spot above discounted strike", res.D1, res.D2)
	}

	// Deep OTM against the discounted strike: worthless, boundary flips.
	p.SpotPrice = 50
	res, err = Price(p)
	if err != nil {
		t.Fatalf("zero-vol OTM pricing failed: %v", err)
	}
	if res.OptionPrice != 0 {
		t.Errorf("zero-vol OTM call = %v, want 0", res.OptionPrice)
	}
	if !math.IsInf(res.D1, -1) {
		t.Errorf("d1 = %v, want -Inf for spot below discounted strike", res.D1)
	}
}

func TestPriceValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.BlackScholesParams)
	}{
		{"zero spot", func(p *models.BlackScholesParams) { p.SpotPrice = 0 }},
		{"negative spot", func(p *models.BlackScholesParams) { p.SpotPrice = -5 }},
		{"zero strike", func(p *models.BlackScholesParams) { p.Strike = 0 }},
		{"negative time", func(p *models.BlackScholesParams) { p.TimeToExpiry = -0.1 }},
		{"negative vol", func(p *models.BlackScholesParams) { p.Volatility = -0.2 }},
		{"vol above ceiling", func(p *models.BlackScholesParams) { p.Volatility = 5.5 }},
		{"rate out of range", func(p *models.BlackScholesParams) { p.RiskFreeRate = 1.5 }},
		{"NaN spot", func(p *models.BlackScholesParams) { p.SpotPrice = math.NaN() }},
		{"Inf strike", func(p *models.BlackScholesParams) { p.Strike = math.Inf(1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := atmParams(models.Call)
			tt.mutate(&p)
			if _, err := Price(p); !errors.IsCode(err, errors.CodeInvalidInput) {
				t.Errorf("got %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestPriceNeverNegative(t *testing.T) {
	// Deep OTM with tiny time left: the formula result can round below
	// zero; the clamp must hold.
	p := models.BlackScholesParams{
		Type:         models.Call,
		SpotPrice:    10,
		Strike:       500,
		TimeToExpiry: 0.001,
		RiskFreeRate: 0.05,
		Volatility:   0.1,
	}
	res, err := Price(p)
	if err != nil {
		t.Fatalf("pricing failed: %v", err)
	}
	if res.OptionPrice < 0 {
		t.Errorf("price = %v, want >= 0", res.OptionPrice)
	}
}

func TestTimeValue(t *testing.T) {
	if got := TimeValue(10.45, 0); got != 10.45 {
		t.Errorf("TimeValue = %v, want 10.45", got)
	}
	if got := TimeValue(9.9, 10); got != 0 {
		t.Errorf("TimeValue below intrinsic = %v, want 0 (clamped)", got)
	}
}

func TestVerifyPutCallParity(t *testing.T) {
	call, _ := Price(atmParams(models.Call))
	put, _ := Price(atmParams(models.Put))

	if !VerifyPutCallParity(call.OptionPrice, put.OptionPrice, 100, 100, 1, 0.05, 1e-6) {
		t.Error("parity should hold for prices from the same inputs")
	}
	if VerifyPutCallParity(call.OptionPrice+1, put.OptionPrice, 100, 100, 1, 0.05, 1e-6) {
		t.Error("parity should fail for a shifted call price")
	}
}

func TestComputeGreeks(t *testing.T) {
	call, err := ComputeGreeks(atmParams(models.Call))
	if err != nil {
		t.Fatalf("greeks failed: %v", err)
	}
	put, err := ComputeGreeks(atmParams(models.Put))
	if err != nil {
		t.Fatalf("greeks failed: %v", err)
	}

	if call.Delta <= 0 || call.Delta >= 1 {
		t.Errorf("call delta = %v, want in (0,1)", call.Delta)
	}
	if put.Delta >= 0 || put.Delta <= -1 {
		t.Errorf("put delta = %v, want in (-1,0)", put.Delta)
	}
	// Delta relation: call delta - put delta = 1 for the same inputs.
	if math.Abs(call.Delta-put.Delta-1) > 1e-12 {
		t.Errorf("call delta - put delta = %v, want 1", call.Delta-put.Delta)
	}
	// Gamma and vega are type-independent.
	if call.Gamma != put.Gamma || call.Vega != put.Vega {
		t.Error("gamma and vega must match between call and put")
	}
	if call.Gamma <= 0 || call.Vega <= 0 {
		t.Errorf("gamma = %v, vega = %v, want both positive", call.Gamma, call.Vega)
	}
	if call.Theta >= 0 {
		t.Errorf("long ATM call theta = %v, want negative", call.Theta)
	}
	if call.Rho <= 0 || put.Rho >= 0 {
		t.Errorf("rho call/put = %v/%v, want positive/negative", call.Rho, put.Rho)
	}
}

func TestComputeGreeksDegenerate(t *testing.T) {
	p := atmParams(models.Call)
	p.TimeToExpiry = 0
	g, err := ComputeGreeks(p)
	if err != nil {
		t.Fatalf("greeks failed: %v", err)
	}
	if *g != (models.Greeks{}) {
		t.Errorf("expired greeks = %+v, want all zero", g)
	}

	p = atmParams(models.Call)
	p.Volatility = 0
	g, err = ComputeGreeks(p)
	if err != nil {
		t.Fatalf("greeks failed: %v", err)
	}
	if *g != (models.Greeks{}) {
		t.Errorf("zero-vol greeks = %+v, want all zero", g)
	}
}

func BenchmarkPrice(b *testing.B) {
	p := atmParams(models.Call)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Price(p); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkComputeGreeks(b *testing.B) {
	p := atmParams(models.Call)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ComputeGreeks(p); err != nil {
			b.Fatal(err)
		}
	}
}
