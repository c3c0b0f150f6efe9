package ratio

import "github.com/finsight/finsight/internal/core"

// Alternative line-item labels providers use for the same concept.
var (
	revenueItems      = []string{"Total Revenue", "Revenue"}
	netIncomeItems    = []string{"Net Income", "Net Income Common Stockholders"}
	grossProfitItems  = []string{"Gross Profit"}
	operatingItems    = []string{"Operating Income", "Total Operating Income As Reported"}
	costOfRevItems    = []string{"Cost Of Revenue"}
	totalAssetsItems  = []string{"Total Assets"}
	totalEquityItems  = []string{"Total Stockholder Equity", "Total Equity", "Stockholders Equity"}
	currentAssetItems = []string{"Total Current Assets", "Current Assets"}
	currentLiabItems  = []string{"Total Current Liabilities", "Current Liabilities"}
	cashItems         = []string{"Cash", "Cash And Cash Equivalents"}
	shortInvestItems  = []string{"Short Term Investments"}
	receivablesItems  = []string{"Net Receivables", "Receivables"}
	inventoryItems    = []string{"Inventory"}
	totalDebtItems    = []string{"Total Debt"}
	shortDebtItems    = []string{"Short Long Term Debt", "Current Debt"}
	longDebtItems     = []string{"Long Term Debt"}
)

// Compute builds the ratio snapshot from the latest-period yearly income
// statement and balance sheet, with the scalar metrics as fallback. Every
// ratio defaults to 0 when its denominator is zero or either operand is
// absent; ratios never return NaN.
func Compute(st core.FinancialStatements, m core.FinancialMetrics, info core.CompanyInfo) core.FinancialRatios {
	income := st.YearlyIncome
	balance := st.YearlyBalance

	revenue := lookup(income, revenueItems, m.Revenue)
	netIncome := lookup(income, netIncomeItems, m.NetIncome)
	grossProfit := lookup(income, grossProfitItems, m.GrossProfit)
	opIncome := lookup(income, operatingItems, m.OperatingIncome)
	costOfRev := lookup(income, costOfRevItems, nil)

	totalAssets := lookup(balance, totalAssetsItems, m.TotalAssets)
	totalEquity := lookup(balance, totalEquityItems, m.TotalEquity)
	currentAssets := lookup(balance, currentAssetItems, nil)
	currentLiab := lookup(balance, currentLiabItems, nil)
	cash := lookup(balance, cashItems, nil)
	shortInvest := lookup(balance, shortInvestItems, nil)
	receivables := lookup(balance, receivablesItems, nil)
	inventory := lookup(balance, inventoryItems, nil)

	totalDebt := lookup(balance, totalDebtItems, nil)
	if totalDebt == 0 {
		totalDebt = lookup(balance, shortDebtItems, nil) + lookup(balance, longDebtItems, nil)
	}

	r := core.FinancialRatios{
		// Profitability
		ROE:             safeDiv(netIncome, totalEquity) * 100,
		ROA:             safeDiv(netIncome, totalAssets) * 100,
		GrossMargin:     safeDiv(grossProfit, revenue) * 100,
		OperatingMargin: safeDiv(opIncome, revenue) * 100,
		NetMargin:       safeDiv(netIncome, revenue) * 100,

		// Liquidity
		CurrentRatio: safeDiv(currentAssets, currentLiab),
		QuickRatio:   safeDiv(cash+shortInvest+receivables, currentLiab),
		CashRatio:    safeDiv(cash, currentLiab),

		// Efficiency
		AssetTurnover:       safeDiv(revenue, totalAssets),
		InventoryTurnover:   safeDiv(costOfRev, inventory),
		ReceivablesTurnover: safeDiv(revenue, receivables),

		// Leverage
		DebtToEquity: safeDiv(totalDebt, totalEquity),
		DebtToAssets: safeDiv(totalDebt, totalAssets),
	}

	// Valuation comes straight from provider metrics.
	r.PERatio = orZero(m.PERatio)
	r.PBRatio = orZero(m.PBRatio)
	r.PSRatio = orZero(m.PSRatio)
	r.DividendYield = orZero(m.DividendYield) * 100

	return r
}

// lookup returns the latest-period value of the first matching line item,
// falling back to the scalar metric, then to 0.
func lookup(s core.Statement, items []string, fallback *float64) float64 {
	for _, item := range items {
		if v, ok := s.LatestValue(item); ok {
			return v
		}
	}
	if fallback != nil {
		return *fallback
	}
	return 0
}

// safeDiv divides num by den, yielding 0 when the denominator is zero.
func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func orZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
