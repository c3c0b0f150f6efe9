package core

// Float returns a pointer to v. Optional numeric fields are pointers so that
// a missing value stays distinguishable from a legitimate zero.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int64) *int64 { return &v }

// CompanyInfo describes the company behind a symbol. Every field except
// Symbol is optional; absence means the provider did not report it.
type CompanyInfo struct {
	Symbol    string   `json:"symbol"`
	Name      string   `json:"name,omitempty"`
	Sector    string   `json:"sector,omitempty"`
	Industry  string   `json:"industry,omitempty"`
	Exchange  string   `json:"exchange,omitempty"`
	Currency  string   `json:"currency,omitempty"`
	Country   string   `json:"country,omitempty"`
	MarketCap *float64 `json:"market_cap,omitempty"`
	Employees *int64   `json:"employees,omitempty"`
	Website   string   `json:"website,omitempty"`
	Address   string   `json:"address,omitempty"`
	City      string   `json:"city,omitempty"`
	Phone     string   `json:"phone,omitempty"`
}

// FinancialMetrics is a scalar snapshot of headline financials. nil means
// the provider did not report the figure; zero is a real value.
type FinancialMetrics struct {
	Revenue           *float64 `json:"revenue,omitempty"`
	GrossProfit       *float64 `json:"gross_profit,omitempty"`
	OperatingIncome   *float64 `json:"operating_income,omitempty"`
	NetIncome         *float64 `json:"net_income,omitempty"`
	TotalAssets       *float64 `json:"total_assets,omitempty"`
	TotalLiabilities  *float64 `json:"total_liabilities,omitempty"`
	TotalEquity       *float64 `json:"total_equity,omitempty"`
	OperatingCashFlow *float64 `json:"operating_cash_flow,omitempty"`
	InvestingCashFlow *float64 `json:"investing_cash_flow,omitempty"`
	FinancingCashFlow *float64 `json:"financing_cash_flow,omitempty"`
	FreeCashFlow      *float64 `json:"free_cash_flow,omitempty"`
	EPS               *float64 `json:"eps,omitempty"`
	PERatio           *float64 `json:"pe_ratio,omitempty"`
	PBRatio           *float64 `json:"pb_ratio,omitempty"`
	PSRatio           *float64 `json:"ps_ratio,omitempty"`
	DividendYield     *float64 `json:"dividend_yield,omitempty"`
	Beta              *float64 `json:"beta,omitempty"`
}

// PriceBar is one OHLCV bar of the raw price history.
type PriceBar struct {
	Date   string  `json:"date"` // ISO-8601
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// TechnicalIndicators is the indicator snapshot at the latest bar. A field
// is nil when the history is shorter than the indicator's window.
type TechnicalIndicators struct {
	CurrentPrice    *float64 `json:"current_price,omitempty"`
	SMA20           *float64 `json:"sma_20,omitempty"`
	SMA50           *float64 `json:"sma_50,omitempty"`
	SMA200          *float64 `json:"sma_200,omitempty"`
	RSI14           *float64 `json:"rsi_14,omitempty"`
	MACD            *float64 `json:"macd,omitempty"`
	MACDSignal      *float64 `json:"macd_signal,omitempty"`
	MACDHistogram   *float64 `json:"macd_histogram,omitempty"`
	BollingerUpper  *float64 `json:"bollinger_upper,omitempty"`
	BollingerMiddle *float64 `json:"bollinger_middle,omitempty"`
	BollingerLower  *float64 `json:"bollinger_lower,omitempty"`
	Volume          *int64   `json:"volume,omitempty"`
	VolumeSMA20     *float64 `json:"volume_sma_20,omitempty"`
}

// Trend classifies price direction.
type Trend string

const (
	TrendUp       Trend = "uptrend"
	TrendDown     Trend = "downtrend"
	TrendSideways Trend = "sideways"
)

// Momentum classifies RSI state.
type Momentum string

const (
	MomentumOverbought Momentum = "overbought"
	MomentumOversold   Momentum = "oversold"
	MomentumNeutral    Momentum = "neutral"
)

// Level is a generic high/low/normal classification.
type Level string

const (
	LevelHigh   Level = "high"
	LevelLow    Level = "low"
	LevelNormal Level = "normal"
)

// TechnicalSignals is the qualitative view derived from TechnicalIndicators.
// All fields are empty when the history is shorter than 20 bars.
type TechnicalSignals struct {
	Trend      Trend    `json:"trend,omitempty"`
	Momentum   Momentum `json:"momentum,omitempty"`
	Volatility Level    `json:"volatility,omitempty"`
	Volume     Level    `json:"volume,omitempty"`
}

// IsZero reports whether no signal was produced.
func (s TechnicalSignals) IsZero() bool {
	return s.Trend == "" && s.Momentum == "" && s.Volatility == "" && s.Volume == ""
}

// NewsItem is one news article about a symbol.
type NewsItem struct {
	Title       string `json:"title"`
	Summary     string `json:"summary,omitempty"`
	URL         string `json:"url,omitempty"`
	PublishedAt string `json:"published_at,omitempty"` // ISO-8601
	Source      string `json:"source,omitempty"`
}

// FinancialRatios is the ratio snapshot computed from the latest statements.
// Every ratio defaults to 0 when its denominator is zero or absent.
type FinancialRatios struct {
	ROE                 float64 `json:"roe"`
	ROA                 float64 `json:"roa"`
	GrossMargin         float64 `json:"gross_margin"`
	OperatingMargin     float64 `json:"operating_margin"`
	NetMargin           float64 `json:"net_margin"`
	CurrentRatio        float64 `json:"current_ratio"`
	QuickRatio          float64 `json:"quick_ratio"`
	CashRatio           float64 `json:"cash_ratio"`
	AssetTurnover       float64 `json:"asset_turnover"`
	InventoryTurnover   float64 `json:"inventory_turnover"`
	ReceivablesTurnover float64 `json:"receivables_turnover"`
	DebtToEquity        float64 `json:"debt_to_equity"`
	DebtToAssets        float64 `json:"debt_to_assets"`
	PERatio             float64 `json:"pe_ratio"`
	PBRatio             float64 `json:"pb_ratio"`
	PSRatio             float64 `json:"ps_ratio"`
	DividendYield       float64 `json:"dividend_yield"`
}

// RatioSignals classifies each ratio category with a short label.
type RatioSignals struct {
	Profitability string `json:"profitability"`
	Liquidity     string `json:"liquidity"`
	Efficiency    string `json:"efficiency"`
	Leverage      string `json:"leverage"`
	Valuation     string `json:"valuation"`
}

// StockData is the canonical record for one symbol, built once per fetch
// cycle by the normalizer and immutable afterward. The shape is always
// complete: a failed normalization yields MinimalStockData, never nil.
type StockData struct {
	Symbol     string              `json:"symbol"`
	Company    CompanyInfo         `json:"company"`
	RawInfo    map[string]any      `json:"raw_info,omitempty"` // provider payload kept for traceability
	Metrics    FinancialMetrics    `json:"metrics"`
	Statements FinancialStatements `json:"statements"`
	Indicators TechnicalIndicators `json:"indicators"`
	Signals    TechnicalSignals    `json:"signals"`
	Ratios     FinancialRatios     `json:"ratios"`
	RatioSigs  RatioSignals        `json:"ratio_signals"`
	News       []NewsItem          `json:"news,omitempty"`
	History    []PriceBar          `json:"history,omitempty"`
	FetchedAt  string              `json:"fetched_at,omitempty"` // ISO-8601
}

// MinimalStockData returns a well-formed record carrying only the symbol.
func MinimalStockData(symbol string) *StockData {
	return &StockData{
		Symbol:     symbol,
		Company:    CompanyInfo{Symbol: symbol, Name: symbol},
		Statements: EmptyStatements(),
	}
}
