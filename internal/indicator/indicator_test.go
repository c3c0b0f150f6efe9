package indicator

import (
	"math"
	"testing"
)

func TestSMA_Calculate(t *testing.T) {
	prices := []float64{10, 11, 12, 13, 14, 15}

	sma := SMA(prices, 3)

	expected := []float64{11, 12, 13, 14}

	if len(sma) != len(expected) {
		t.Fatalf("expected %d values, got %d", len(expected), len(sma))
	}

	for i, v := range expected {
		if sma[i] != v {
			t.Errorf("sma[%d] = %f, want %f", i, sma[i], v)
		}
	}
}

func TestSMA_NotEnoughData(t *testing.T) {
	prices := []float64{10, 11}
	sma := SMA(prices, 5)

	if len(sma) != 0 {
		t.Errorf("expected empty slice, got %d values", len(sma))
	}
}

func TestEMA_Calculate(t *testing.T) {
	prices := []float64{10, 11, 12, 13, 14, 15}
	ema := EMA(prices, 3)

	if len(ema) != 4 {
		t.Fatalf("expected 4 values, got %d", len(ema))
	}

	// First EMA = SMA = 11
	if ema[0] != 11 {
		t.Errorf("first EMA should equal SMA, got %f", ema[0])
	}

	for i := 1; i < len(ema); i++ {
		if ema[i] <= ema[i-1] {
			t.Errorf("EMA should be increasing, ema[%d]=%f <= ema[%d]=%f", i, ema[i], i-1, ema[i-1])
		}
	}
}

func TestRSI_KnownValue(t *testing.T) {
	// deltas: +1, -0.5, +1 → avgGain = 2/3, avgLoss = 0.5/3 → RS = 4
	prices := []float64{10, 11, 10.5, 11.5}

	rsi, ok := RSI(prices, 3)
	if !ok {
		t.Fatal("expected RSI to be defined")
	}
	if !almostEqual(rsi, 80, 1e-9) {
		t.Errorf("RSI = %f, want 80", rsi)
	}
}

func TestRSI_AlwaysInRange(t *testing.T) {
	prices := []float64{50, 48, 52, 47, 53, 46, 54, 45, 55, 44, 56, 43, 57, 42, 58, 41}

	rsi, ok := RSI(prices, 14)
	if !ok {
		t.Fatal("expected RSI to be defined")
	}
	if rsi < 0 || rsi > 100 {
		t.Errorf("RSI = %f, want within [0, 100]", rsi)
	}
}

func TestRSI_NoLosses_Undefined(t *testing.T) {
	// Monotonic gains leave avgLoss at zero; RSI is undefined rather
	// than a division by zero.
	prices := []float64{10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24}

	if _, ok := RSI(prices, 14); ok {
		t.Error("expected RSI to be undefined with no losses")
	}
}

func TestRSI_NotEnoughData(t *testing.T) {
	prices := []float64{10, 11, 12}
	if _, ok := RSI(prices, 14); ok {
		t.Error("expected RSI to be undefined with a short history")
	}
}

func TestMACD_NotEnoughData(t *testing.T) {
	prices := make([]float64, 30)
	for i := range prices {
		prices[i] = float64(100 + i)
	}
	if _, _, _, ok := MACD(prices); ok {
		t.Error("expected MACD to be undefined below 34 prices")
	}
}

func TestMACD_HistogramIsDifference(t *testing.T) {
	prices := make([]float64, 60)
	for i := range prices {
		prices[i] = 100 + 10*math.Sin(float64(i)/5)
	}

	macd, signal, hist, ok := MACD(prices)
	if !ok {
		t.Fatal("expected MACD to be defined")
	}
	if !almostEqual(hist, macd-signal, 1e-9) {
		t.Errorf("histogram = %f, want macd-signal = %f", hist, macd-signal)
	}
}

func TestBollingerBands(t *testing.T) {
	prices := make([]float64, 20)
	for i := range prices {
		prices[i] = 100 // flat series: bands collapse onto the middle
	}

	upper, middle, lower, ok := BollingerBands(prices, 20, 2)
	if !ok {
		t.Fatal("expected bands to be defined")
	}
	if middle != 100 || upper != 100 || lower != 100 {
		t.Errorf("flat series bands = (%f, %f, %f), want all 100", upper, middle, lower)
	}
}

func TestBollingerBands_Symmetric(t *testing.T) {
	prices := []float64{98, 102, 97, 103, 96, 104, 95, 105, 94, 106,
		93, 107, 92, 108, 91, 109, 90, 110, 89, 111}

	upper, middle, lower, ok := BollingerBands(prices, 20, 2)
	if !ok {
		t.Fatal("expected bands to be defined")
	}
	if !almostEqual(upper-middle, middle-lower, 1e-9) {
		t.Errorf("bands not symmetric: upper-middle=%f middle-lower=%f", upper-middle, middle-lower)
	}
	if upper <= middle || lower >= middle {
		t.Errorf("band ordering violated: %f %f %f", upper, middle, lower)
	}
}

func TestBollingerBands_NotEnoughData(t *testing.T) {
	if _, _, _, ok := BollingerBands([]float64{1, 2, 3}, 20, 2); ok {
		t.Error("expected bands to be undefined with a short history")
	}
}

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) < tolerance
}
