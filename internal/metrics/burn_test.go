package metrics

import (
	"math"
	"testing"
)

func TestBurnPercentage_ReserveAboveSupply(t *testing.T) {
	// maxLpSupply = max(90, 99) = 99, burnAmt = 9
	got := BurnPercentage(100, 90)
	want := 9.0 / 99.0 * 100
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("expected %f, got %f", want, got)
	}
	if math.Abs(got-9.09) > 0.01 {
		t.Errorf("expected ~9.09, got %f", got)
	}
}

func TestBurnPercentage_SupplyAboveReserve(t *testing.T) {
	// maxLpSupply = max(90, 49) = 90, burnAmt = 0
	if got := BurnPercentage(50, 90); got != 0 {
		t.Errorf("expected 0, got %f", got)
	}
}

func TestBurnPercentage_FullyBurned(t *testing.T) {
	if got := BurnPercentage(1001, 0); got != 100 {
		t.Errorf("expected 100, got %f", got)
	}
}

func TestBurnPercentage_DegenerateInputs(t *testing.T) {
	for _, c := range [][2]float64{{0, 0}, {1, 0}, {0.5, 0}, {-10, -5}} {
		got := BurnPercentage(c[0], c[1])
		if math.IsNaN(got) || math.IsInf(got, 0) {
			t.Errorf("BurnPercentage(%v, %v) = %v", c[0], c[1], got)
		}
	}
}
