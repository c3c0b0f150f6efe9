package ratio

import "github.com/finsight/finsight/internal/core"

// Classification thresholds per category.
const (
	roeStrong   = 15.0
	roeModerate = 5.0

	currentRatioStrong   = 2.0
	currentRatioAdequate = 1.0

	assetTurnoverHigh     = 1.0
	assetTurnoverModerate = 0.5

	debtEquityConservative = 0.5
	debtEquityModerate     = 1.5

	peAttractive = 15.0
	peFair       = 30.0
)

// ClassifySignals maps the ratio snapshot to short qualitative labels.
func ClassifySignals(r core.FinancialRatios) core.RatioSignals {
	return core.RatioSignals{
		Profitability: classifyProfitability(r.ROE),
		Liquidity:     classifyLiquidity(r.CurrentRatio),
		Efficiency:    classifyEfficiency(r.AssetTurnover),
		Leverage:      classifyLeverage(r.DebtToEquity),
		Valuation:     classifyValuation(r.PERatio),
	}
}

func classifyProfitability(roe float64) string {
	switch {
	case roe > roeStrong:
		return "Strong Profitability"
	case roe > roeModerate:
		return "Moderate Profitability"
	default:
		return "Weak Profitability"
	}
}

func classifyLiquidity(current float64) string {
	switch {
	case current > currentRatioStrong:
		return "Strong Liquidity"
	case current > currentRatioAdequate:
		return "Adequate Liquidity"
	default:
		return "Weak Liquidity"
	}
}

func classifyEfficiency(turnover float64) string {
	switch {
	case turnover > assetTurnoverHigh:
		return "High Efficiency"
	case turnover > assetTurnoverModerate:
		return "Moderate Efficiency"
	default:
		return "Low Efficiency"
	}
}

func classifyLeverage(debtEquity float64) string {
	switch {
	case debtEquity < debtEquityConservative:
		return "Conservative Leverage"
	case debtEquity < debtEquityModerate:
		return "Moderate Leverage"
	default:
		return "Aggressive Leverage"
	}
}

// classifyValuation treats a zero P/E as unknown rather than attractive:
// zero is the missing-denominator default, not a market price.
func classifyValuation(pe float64) string {
	switch {
	case pe <= 0:
		return "Unknown Valuation"
	case pe < peAttractive:
		return "Attractive Valuation"
	case pe < peFair:
		return "Fair Valuation"
	default:
		return "Expensive Valuation"
	}
}
