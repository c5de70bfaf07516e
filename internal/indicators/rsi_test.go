package indicators

import (
	"math"
	"testing"
)

func TestRSI_Series_WarmUp(t *testing.T) {
	rsi := NewRSI(14)

	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100.0 + float64(i)
	}

	out, err := rsi.Series(closes)
	if err != nil {
		t.Fatalf("RSI series failed: %v", err)
	}

	// Position 0 has no difference; a full window of differences exists
	// only from position period onward
	for i := 0; i < 14; i++ {
		if !math.IsNaN(out[i]) {
			t.Errorf("expected NaN at warm-up position %d, got %f", i, out[i])
		}
	}
	for i := 14; i < len(closes); i++ {
		if math.IsNaN(out[i]) {
			t.Errorf("expected defined RSI at position %d", i)
		}
	}
}

func TestRSI_Series_AllGainsSaturatesAt100(t *testing.T) {
	rsi := NewRSI(14)

	// Strictly rising closes: zero losses in every window
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100.0 + float64(i)
	}

	out, err := rsi.Series(closes)
	if err != nil {
		t.Fatalf("RSI series failed: %v", err)
	}

	for i := 14; i < len(closes); i++ {
		if math.IsInf(out[i], 0) || math.IsNaN(out[i]) {
			t.Fatalf("RSI must stay finite at position %d, got %f", i, out[i])
		}
		if out[i] != 100 {
			t.Errorf("expected RSI 100 with zero losses at position %d, got %f", i, out[i])
		}
	}
}

func TestRSI_Series_AllLosses(t *testing.T) {
	rsi := NewRSI(14)

	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100.0 - float64(i)
	}

	out, err := rsi.Series(closes)
	if err != nil {
		t.Fatalf("RSI series failed: %v", err)
	}

	for i := 14; i < len(closes); i++ {
		if math.Abs(out[i]) > 1e-9 {
			t.Errorf("expected RSI 0 with zero gains at position %d, got %f", i, out[i])
		}
	}
}

func TestRSI_Series_ClosedForm(t *testing.T) {
	rsi := NewRSI(2)

	// Differences: +1, -1, +1, -1 -> each window of 2 has avgGain=0.5,
	// avgLoss=0.5, RS=1, RSI=50
	closes := []float64{100, 101, 100, 101, 100}

	out, err := rsi.Series(closes)
	if err != nil {
		t.Fatalf("RSI series failed: %v", err)
	}

	for i := 2; i < len(closes); i++ {
		if math.Abs(out[i]-50) > 1e-9 {
			t.Errorf("position %d: expected RSI 50, got %f", i, out[i])
		}
	}
}

func TestRSI_Series_Range(t *testing.T) {
	rsi := NewRSI(5)

	closes := []float64{100, 102, 99, 104, 101, 103, 98, 105, 102, 106, 100, 107}
	out, err := rsi.Series(closes)
	if err != nil {
		t.Fatalf("RSI series failed: %v", err)
	}

	for i := 5; i < len(closes); i++ {
		if out[i] < 0 || out[i] > 100 {
			t.Errorf("RSI out of range at position %d: %f", i, out[i])
		}
	}
}

func TestRSI_GetRequiredPeriods(t *testing.T) {
	rsi := NewRSI(14)

	if periods := rsi.GetRequiredPeriods(); periods != 15 { // period + 1
		t.Errorf("expected 15 periods, got %d", periods)
	}
}
