package normalize

import (
	"time"

	"go.uber.org/zap"

	"github.com/finsight/finsight/internal/core"
	"github.com/finsight/finsight/internal/provider"
)

// Normalizer converts one provider's raw bundle into the canonical
// StockData record. It performs no network I/O and never fails: partial
// data degrades to absent fields, and an internal failure degrades to the
// minimal record.
type Normalizer struct {
	log *zap.Logger
	now func() time.Time
}

// New creates a normalizer.
func New(log *zap.Logger) *Normalizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Normalizer{
		log: log,
		now: time.Now,
	}
}

// Normalize builds the canonical record for symbol from the raw bundle.
// It always returns a well-formed StockData with the symbol set.
func (n *Normalizer) Normalize(symbol string, bundle provider.RawBundle) (data *core.StockData) {
	defer func() {
		if r := recover(); r != nil {
			n.log.Error("normalization failed, returning minimal record",
				zap.String("symbol", symbol),
				zap.Any("panic", r))
			data = core.MinimalStockData(symbol)
		}
	}()

	statements := n.statements(bundle.Statements)

	data = &core.StockData{
		Symbol:     symbol,
		Company:    n.companyInfo(symbol, bundle.Info),
		RawInfo:    bundle.Info,
		Metrics:    n.metrics(bundle.Info, statements),
		Statements: statements,
		News:       n.news(bundle.News),
		History:    n.history(bundle.History),
		FetchedAt:  n.now().UTC().Format(time.RFC3339),
	}
	return data
}

// companyInfo is a fixed field-by-field projection of the raw info map.
// The display name falls back to the symbol itself.
func (n *Normalizer) companyInfo(symbol string, raw provider.RawCompanyInfo) core.CompanyInfo {
	info := core.CompanyInfo{Symbol: symbol}

	info.Name = firstString(raw, "longName", "shortName", "displayName")
	if info.Name == "" {
		info.Name = symbol
	}
	info.Sector = toString(raw["sector"])
	info.Industry = toString(raw["industry"])
	info.Exchange = firstString(raw, "fullExchangeName", "exchangeName", "exchange")
	info.Currency = toString(raw["currency"])
	info.Country = toString(raw["country"])
	info.MarketCap = toFloat(raw["marketCap"])
	info.Employees = toInt(raw["fullTimeEmployees"])
	info.Website = toString(raw["website"])
	info.Address = toString(raw["address1"])
	info.City = toString(raw["city"])
	info.Phone = toString(raw["phone"])
	return info
}

// metrics builds the scalar snapshot, preferring the provider's headline
// figures and falling back to the latest yearly statement line items.
func (n *Normalizer) metrics(raw provider.RawCompanyInfo, st core.FinancialStatements) core.FinancialMetrics {
	m := core.FinancialMetrics{
		Revenue:           toFloat(raw["totalRevenue"]),
		GrossProfit:       toFloat(raw["grossProfits"]),
		OperatingCashFlow: toFloat(raw["operatingCashflow"]),
		FreeCashFlow:      toFloat(raw["freeCashflow"]),
		EPS:               toFloat(raw["trailingEps"]),
		PERatio:           toFloat(raw["trailingPE"]),
		PBRatio:           toFloat(raw["priceToBook"]),
		PSRatio:           toFloat(raw["priceToSalesTrailing12Months"]),
		DividendYield:     toFloat(raw["dividendYield"]),
		Beta:              toFloat(raw["beta"]),
	}

	income := st.YearlyIncome
	balance := st.YearlyBalance
	cashflow := st.YearlyCashFlow

	if m.Revenue == nil {
		m.Revenue = latest(income, "Total Revenue")
	}
	if m.GrossProfit == nil {
		m.GrossProfit = latest(income, "Gross Profit")
	}
	m.OperatingIncome = latest(income, "Operating Income")
	m.NetIncome = latest(income, "Net Income")
	m.TotalAssets = latest(balance, "Total Assets")
	m.TotalLiabilities = latest(balance, "Total Liab")
	m.TotalEquity = latest(balance, "Total Stockholder Equity")
	if m.OperatingCashFlow == nil {
		m.OperatingCashFlow = latest(cashflow, "Total Cash From Operating Activities")
	}
	m.InvestingCashFlow = latest(cashflow, "Total Cashflows From Investing Activities")
	m.FinancingCashFlow = latest(cashflow, "Total Cash From Financing Activities")
	return m
}

// statements selects each of the six tables by {period, type} key and
// coerces values. A table absent from the bundle stays empty.
func (n *Normalizer) statements(raw provider.RawStatements) core.FinancialStatements {
	st := core.EmptyStatements()
	for key, table := range raw {
		dst := st.Table(key.Period, key.Type)
		for item, byPeriod := range table {
			for period, value := range byPeriod {
				if f := toFloat(value); f != nil {
					if dst[item] == nil {
						dst[item] = map[string]float64{}
					}
					dst[item][period] = *f
				}
			}
		}
	}
	return st
}

// history flattens the raw OHLCV table. Bars without a close are dropped;
// missing high/low fall back to the close, missing volume to zero.
func (n *Normalizer) history(raw provider.RawPriceHistory) []core.PriceBar {
	if len(raw) == 0 {
		return nil
	}
	bars := make([]core.PriceBar, 0, len(raw))
	for _, rb := range raw {
		if rb.Close == nil {
			continue
		}
		bar := core.PriceBar{
			Date:  isoFromUnix(rb.Timestamp),
			Close: *rb.Close,
		}
		if rb.Open != nil {
			bar.Open = *rb.Open
		} else {
			bar.Open = *rb.Close
		}
		if rb.High != nil {
			bar.High = *rb.High
		} else {
			bar.High = bar.Close
		}
		if rb.Low != nil {
			bar.Low = *rb.Low
		} else {
			bar.Low = bar.Close
		}
		if rb.Volume != nil {
			bar.Volume = *rb.Volume
		}
		bars = append(bars, bar)
	}
	return bars
}

// news keeps items with a title, in provider order.
func (n *Normalizer) news(raw []provider.RawNewsItem) []core.NewsItem {
	if len(raw) == 0 {
		return nil
	}
	items := make([]core.NewsItem, 0, len(raw))
	for _, rn := range raw {
		if rn.Title == "" {
			continue
		}
		items = append(items, core.NewsItem{
			Title:       rn.Title,
			Summary:     rn.Summary,
			URL:         rn.URL,
			Source:      rn.Source,
			PublishedAt: isoFromUnix(rn.PublishedAt),
		})
	}
	return items
}

func firstString(raw provider.RawCompanyInfo, keys ...string) string {
	for _, k := range keys {
		if s := toString(raw[k]); s != "" {
			return s
		}
	}
	return ""
}

func latest(s core.Statement, item string) *float64 {
	v, ok := s.LatestValue(item)
	if !ok {
		return nil
	}
	return &v
}
