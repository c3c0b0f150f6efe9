package indicator

import "math"

// SMA calculates Simple Moving Average
// Returns slice of length: len(prices) - period + 1
func SMA(prices []float64, period int) []float64 {
	if period <= 0 || len(prices) < period {
		return []float64{}
	}

	result := make([]float64, 0, len(prices)-period+1)

	// Calculate first SMA
	var sum float64
	for i := 0; i < period; i++ {
		sum += prices[i]
	}
	result = append(result, sum/float64(period))

	// Rolling calculation
	for i := period; i < len(prices); i++ {
		sum = sum - prices[i-period] + prices[i]
		result = append(result, sum/float64(period))
	}

	return result
}

// EMA calculates Exponential Moving Average
func EMA(prices []float64, period int) []float64 {
	if period <= 0 || len(prices) < period {
		return []float64{}
	}

	result := make([]float64, 0, len(prices)-period+1)
	multiplier := 2.0 / float64(period+1)

	// Start with SMA as first EMA value
	var sum float64
	for i := 0; i < period; i++ {
		sum += prices[i]
	}
	ema := sum / float64(period)
	result = append(result, ema)

	// Calculate EMA for remaining prices
	for i := period; i < len(prices); i++ {
		ema = (prices[i]-ema)*multiplier + ema
		result = append(result, ema)
	}

	return result
}

// RSI calculates the Relative Strength Index over the trailing window as a
// simple rolling mean of gains and losses. This is deliberately not
// Wilder's recursive smoothing; the simple-mean variant is the documented
// behavior of this system. Returns false when fewer than period+1 prices
// exist or when the window has no losses (RSI undefined, treated neutral).
func RSI(prices []float64, period int) (float64, bool) {
	if period <= 0 || len(prices) < period+1 {
		return 0, false
	}

	var gains, losses float64
	for i := len(prices) - period; i < len(prices); i++ {
		delta := prices[i] - prices[i-1]
		if delta > 0 {
			gains += delta
		} else {
			losses -= delta
		}
	}
	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	if avgLoss == 0 {
		return 0, false
	}
	rsi := 100 - 100/(1+avgGain/avgLoss)
	return rsi, true
}

// MACD calculates the MACD line (EMA12 - EMA26), its EMA9 signal line and
// the histogram at the latest price. Requires at least 34 prices.
func MACD(prices []float64) (macd, signal, histogram float64, ok bool) {
	ema12 := EMA(prices, 12)
	ema26 := EMA(prices, 26)
	if len(ema26) == 0 {
		return 0, 0, 0, false
	}

	// Align the two EMA series on the last len(ema26) values.
	offset := len(ema12) - len(ema26)
	line := make([]float64, len(ema26))
	for i := range ema26 {
		line[i] = ema12[i+offset] - ema26[i]
	}

	signalLine := EMA(line, 9)
	if len(signalLine) == 0 {
		return 0, 0, 0, false
	}

	macd = line[len(line)-1]
	signal = signalLine[len(signalLine)-1]
	return macd, signal, macd - signal, true
}

// BollingerBands calculates the 2-sigma bands around SMA(period) at the
// latest price.
func BollingerBands(prices []float64, period int, width float64) (upper, middle, lower float64, ok bool) {
	sma := SMA(prices, period)
	if len(sma) == 0 {
		return 0, 0, 0, false
	}
	middle = sma[len(sma)-1]

	var sumSq float64
	for _, p := range prices[len(prices)-period:] {
		d := p - middle
		sumSq += d * d
	}
	sd := math.Sqrt(sumSq / float64(period))

	return middle + width*sd, middle, middle - width*sd, true
}

// StdDev returns the population standard deviation of values.
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var sumSq float64
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}
