package indicator

import "github.com/finsight/finsight/internal/core"

// Compute builds the indicator snapshot at the latest bar. Bars must be
// chronologically ascending. An indicator whose window exceeds the history
// stays absent, never zero.
func Compute(bars []core.PriceBar) core.TechnicalIndicators {
	ind := core.TechnicalIndicators{}
	if len(bars) == 0 {
		return ind
	}

	closes := make([]float64, len(bars))
	volumes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
		volumes[i] = float64(b.Volume)
	}

	last := bars[len(bars)-1]
	ind.CurrentPrice = core.Float(last.Close)
	ind.Volume = core.Int(last.Volume)

	if sma := SMA(closes, 20); len(sma) > 0 {
		ind.SMA20 = core.Float(sma[len(sma)-1])
	}
	if sma := SMA(closes, 50); len(sma) > 0 {
		ind.SMA50 = core.Float(sma[len(sma)-1])
	}
	if sma := SMA(closes, 200); len(sma) > 0 {
		ind.SMA200 = core.Float(sma[len(sma)-1])
	}

	if rsi, ok := RSI(closes, 14); ok {
		ind.RSI14 = core.Float(rsi)
	}

	if macd, signal, hist, ok := MACD(closes); ok {
		ind.MACD = core.Float(macd)
		ind.MACDSignal = core.Float(signal)
		ind.MACDHistogram = core.Float(hist)
	}

	if upper, middle, lower, ok := BollingerBands(closes, 20, 2); ok {
		ind.BollingerUpper = core.Float(upper)
		ind.BollingerMiddle = core.Float(middle)
		ind.BollingerLower = core.Float(lower)
	}

	if sma := SMA(volumes, 20); len(sma) > 0 {
		ind.VolumeSMA20 = core.Float(sma[len(sma)-1])
	}

	return ind
}
