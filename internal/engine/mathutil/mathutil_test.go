package mathutil

import (
	"math"
	"testing"
	"time"
)

func TestNormalCDF(t *testing.T) {
	tests := []struct {
		x    float64
		want float64
	}{
		{0, 0.5},
		{1.0, 0.8413447461},
		{-1.0, 0.1586552539},
		{1.96, 0.9750021049},
		{-1.96, 0.0249978951},
		{3.0, 0.9986501020},
	}
	for _, tt := range tests {
		got := NormalCDF(tt.x)
		if math.Abs(got-tt.want) > 1e-7 {
			t.Errorf("NormalCDF(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestNormalCDFSymmetry(t *testing.T) {
	for _, x := range []float64{0.1, 0.5, 1.3, 2.7, 4.2} {
		sum := NormalCDF(x) + NormalCDF(-x)
		if math.Abs(sum-1) > 1e-12 {
			t.Errorf("NormalCDF(%v) + NormalCDF(-%v) = %v, want 1", x, x, sum)
		}
	}
}

func TestNormalPDF(t *testing.T) {
	if got, want := NormalPDF(0), 1/math.Sqrt(2*math.Pi); math.Abs(got-want) > 1e-12 {
		t.Errorf("NormalPDF(0) = %v, want %v", got, want)
	}
	if NormalPDF(1) != NormalPDF(-1) {
		t.Error("NormalPDF should be symmetric")
	}
}

func TestD1D2(t *testing.T) {
	// S=100, K=100, T=1, r=0.05, sigma=0.2:
	// d1 = (0 + (0.05+0.02))/0.2 = 0.35, d2 = 0.15
	d1 := D1(100, 100, 1, 0.05, 0.2)
	if math.Abs(d1-0.35) > 1e-10 {
		t.Errorf("D1 = %v, want 0.35", d1)
	}
	d2 := D2(d1, 0.2, 1)
	if math.Abs(d2-0.15) > 1e-10 {
		t.Errorf("D2 = %v, want 0.15", d2)
	}
}

func TestTimeToExpiry(t *testing.T) {
	asOf := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	year := TimeToExpiry(asOf.Add(time.Duration(DaysPerYear*24)*time.Hour), asOf)
	if math.Abs(year-1) > 1e-9 {
		t.Errorf("one year out = %v, want 1", year)
	}

	if got := TimeToExpiry(asOf.AddDate(0, 0, -30), asOf); got != 0 {
		t.Errorf("past expiry = %v, want 0 (clamped)", got)
	}
	if got := TimeToExpiry(asOf, asOf); got != 0 {
		t.Errorf("same instant = %v, want 0", got)
	}
}

func TestRoundToCents(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{1.005, 1.0},  // float artifact: 1.005 stores below the midpoint
		{1.015, 1.01}, // same
		{52.004, 52.00},
		{52.006, 52.01},
		{-3.456, -3.46},
	}
	for _, tt := range tests {
		if got := RoundToCents(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("RoundToCents(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite(1.5) || !IsFinite(0) || !IsFinite(-1e300) {
		t.Error("finite values reported as non-finite")
	}
	if IsFinite(math.NaN()) || IsFinite(math.Inf(1)) || IsFinite(math.Inf(-1)) {
		t.Error("non-finite values reported as finite")
	}
}
