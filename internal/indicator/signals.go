package indicator

import "github.com/finsight/finsight/internal/core"

// minSignalBars is the minimum history length before any signal is
// produced.
const minSignalBars = 20

// Qualitative signal thresholds.
const (
	rsiOverbought = 70.0
	rsiOversold   = 30.0

	volatilityHighPct = 3.0
	volatilityLowPct  = 1.0

	volumeHighRatio = 1.5
	volumeLowRatio  = 0.5
)

// ClassifySignals derives the qualitative view from the indicator snapshot
// and the raw history. Histories shorter than 20 bars yield an all-absent
// signal value.
func ClassifySignals(bars []core.PriceBar, ind core.TechnicalIndicators) core.TechnicalSignals {
	if len(bars) < minSignalBars {
		return core.TechnicalSignals{}
	}

	return core.TechnicalSignals{
		Trend:      classifyTrend(ind),
		Momentum:   classifyMomentum(ind),
		Volatility: classifyVolatility(bars),
		Volume:     classifyVolume(ind),
	}
}

func classifyTrend(ind core.TechnicalIndicators) core.Trend {
	if ind.CurrentPrice == nil || ind.SMA20 == nil || ind.SMA50 == nil {
		return core.TrendSideways
	}
	price, sma20, sma50 := *ind.CurrentPrice, *ind.SMA20, *ind.SMA50
	switch {
	case price > sma20 && sma20 > sma50:
		return core.TrendUp
	case price < sma20 && sma20 < sma50:
		return core.TrendDown
	default:
		return core.TrendSideways
	}
}

func classifyMomentum(ind core.TechnicalIndicators) core.Momentum {
	if ind.RSI14 == nil {
		return core.MomentumNeutral
	}
	switch {
	case *ind.RSI14 > rsiOverbought:
		return core.MomentumOverbought
	case *ind.RSI14 < rsiOversold:
		return core.MomentumOversold
	default:
		return core.MomentumNeutral
	}
}

// classifyVolatility compares the standard deviation of the trailing
// 20-bar percentage returns against fixed thresholds.
func classifyVolatility(bars []core.PriceBar) core.Level {
	window := minSignalBars
	if len(bars)-1 < window {
		window = len(bars) - 1
	}

	returns := make([]float64, 0, window)
	for i := len(bars) - window; i < len(bars); i++ {
		prev := bars[i-1].Close
		if prev == 0 {
			continue
		}
		returns = append(returns, (bars[i].Close-prev)/prev*100)
	}

	sd := StdDev(returns)
	switch {
	case sd > volatilityHighPct:
		return core.LevelHigh
	case sd < volatilityLowPct:
		return core.LevelLow
	default:
		return core.LevelNormal
	}
}

func classifyVolume(ind core.TechnicalIndicators) core.Level {
	if ind.Volume == nil || ind.VolumeSMA20 == nil || *ind.VolumeSMA20 == 0 {
		return core.LevelNormal
	}
	ratio := float64(*ind.Volume) / *ind.VolumeSMA20
	switch {
	case ratio > volumeHighRatio:
		return core.LevelHigh
	case ratio < volumeLowRatio:
		return core.LevelLow
	default:
		return core.LevelNormal
	}
}
