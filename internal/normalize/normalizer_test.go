package normalize

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/finsight/internal/core"
	"github.com/finsight/finsight/internal/provider"
)

func newTestNormalizer() *Normalizer {
	n := New(nil)
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	n.now = func() time.Time { return fixed }
	return n
}

func bundleFixture() provider.RawBundle {
	return provider.RawBundle{
		Info: provider.RawCompanyInfo{
			"longName":          "Apple Inc.",
			"sector":            "Technology",
			"industry":          "Consumer Electronics",
			"fullExchangeName":  "NasdaqGS",
			"currency":          "USD",
			"country":           "United States",
			"marketCap":         float64(3_000_000_000_000),
			"fullTimeEmployees": float64(161000),
			"trailingPE":        28.4,
			"trailingEps":       6.42,
		},
		History: provider.RawPriceHistory{
			{Timestamp: 1717200000, Open: f(189), High: f(191), Low: f(188), Close: f(190), Volume: i(50_000_000)},
			{Timestamp: 1717286400, Open: f(190), High: f(193), Low: f(189), Close: f(192), Volume: i(48_000_000)},
		},
		Statements: provider.RawStatements{
			{Period: core.PeriodYearly, Type: core.StatementIncome}: {
				"Total Revenue": {"2023-09-30": float64(383_285_000_000)},
				"Net Income":    {"2023-09-30": float64(96_995_000_000)},
			},
		},
		News: []provider.RawNewsItem{
			{Title: "Apple launches product", URL: "https://example.com/1", Source: "Newswire", PublishedAt: 1717200000},
			{Title: "", URL: "https://example.com/dropped"},
		},
	}
}

func f(v float64) *float64 { return &v }
func i(v int64) *int64     { return &v }

func TestNormalize_FullBundle(t *testing.T) {
	n := newTestNormalizer()

	data := n.Normalize("AAPL", bundleFixture())

	require.NotNil(t, data)
	assert.Equal(t, "AAPL", data.Symbol)
	assert.Equal(t, "Apple Inc.", data.Company.Name)
	assert.Equal(t, "Technology", data.Company.Sector)
	assert.Equal(t, "NasdaqGS", data.Company.Exchange)
	require.NotNil(t, data.Company.MarketCap)
	assert.Equal(t, 3_000_000_000_000.0, *data.Company.MarketCap)
	require.NotNil(t, data.Company.Employees)
	assert.Equal(t, int64(161000), *data.Company.Employees)

	require.NotNil(t, data.Metrics.PERatio)
	assert.Equal(t, 28.4, *data.Metrics.PERatio)
	require.NotNil(t, data.Metrics.NetIncome, "net income comes from the yearly income statement")
	assert.Equal(t, 96_995_000_000.0, *data.Metrics.NetIncome)

	require.Len(t, data.History, 2)
	assert.Equal(t, "2024-06-01T00:00:00Z", data.History[0].Date)
	assert.Equal(t, 190.0, data.History[0].Close)

	require.Len(t, data.News, 1, "untitled news items are dropped")
	assert.Equal(t, "Apple launches product", data.News[0].Title)
	assert.Equal(t, "2024-06-01T00:00:00Z", data.News[0].PublishedAt)
}

func TestNormalize_EmptyBundle_NeverFails(t *testing.T) {
	n := newTestNormalizer()

	data := n.Normalize("XYZ", provider.RawBundle{})

	require.NotNil(t, data)
	assert.Equal(t, "XYZ", data.Symbol)
	assert.Equal(t, "XYZ", data.Company.Name, "name defaults to the symbol")
	assert.Nil(t, data.Metrics.Revenue)
	assert.Empty(t, data.History)
	assert.Empty(t, data.News)
	assert.NotNil(t, data.Statements.YearlyIncome)
	assert.NotNil(t, data.Statements.QuarterlyCashFlow)
}

func TestNormalize_Idempotent(t *testing.T) {
	n := newTestNormalizer()
	bundle := bundleFixture()

	first := n.Normalize("AAPL", bundle)
	second := n.Normalize("AAPL", bundle)

	assert.Equal(t, first, second)
}

func TestNormalize_QuarterlyMissing_YearlyKept(t *testing.T) {
	n := newTestNormalizer()
	bundle := provider.RawBundle{
		Statements: provider.RawStatements{
			{Period: core.PeriodYearly, Type: core.StatementIncome}: {
				"Total Revenue": {"2023-09-30": float64(1000)},
			},
			{Period: core.PeriodYearly, Type: core.StatementBalance}: {
				"Total Assets": {"2023-09-30": float64(2000)},
			},
		},
	}

	data := n.Normalize("AAPL", bundle)

	assert.Len(t, data.Statements.YearlyIncome, 1)
	assert.Len(t, data.Statements.YearlyBalance, 1)
	assert.Empty(t, data.Statements.QuarterlyIncome)
	assert.Empty(t, data.Statements.QuarterlyBalance)
	assert.Empty(t, data.Statements.QuarterlyCashFlow)
}

func TestNormalize_CoercesLooseNumerics(t *testing.T) {
	n := newTestNormalizer()
	bundle := provider.RawBundle{
		Info: provider.RawCompanyInfo{
			"marketCap":   "12345.5", // string number
			"trailingPE":  math.NaN(),
			"trailingEps": nil,
			"beta":        int64(1),
		},
	}

	data := n.Normalize("AAPL", bundle)

	require.NotNil(t, data.Company.MarketCap)
	assert.Equal(t, 12345.5, *data.Company.MarketCap)
	assert.Nil(t, data.Metrics.PERatio, "NaN becomes absent, never zero")
	assert.Nil(t, data.Metrics.EPS)
	require.NotNil(t, data.Metrics.Beta)
	assert.Equal(t, 1.0, *data.Metrics.Beta)
}

func TestNormalize_StatementValueCoercion(t *testing.T) {
	n := newTestNormalizer()
	bundle := provider.RawBundle{
		Statements: provider.RawStatements{
			{Period: core.PeriodYearly, Type: core.StatementIncome}: {
				"Total Revenue": {
					"2023-09-30": float64(1000),
					"2022-09-30": "900",
					"2021-09-30": nil, // absent, not zero
				},
			},
		},
	}

	data := n.Normalize("AAPL", bundle)

	income := data.Statements.YearlyIncome
	v, ok := income.LatestValue("Total Revenue")
	require.True(t, ok)
	assert.Equal(t, 1000.0, v)
	assert.Len(t, income["Total Revenue"], 2, "null values are dropped")
}

func TestNormalize_HistorySkipsBarsWithoutClose(t *testing.T) {
	n := newTestNormalizer()
	bundle := provider.RawBundle{
		History: provider.RawPriceHistory{
			{Timestamp: 1717200000, Open: f(100), Close: f(101), Volume: i(10)},
			{Timestamp: 1717286400, Open: f(101), Close: nil},
			{Timestamp: 1717372800, Open: f(102), Close: f(103)},
		},
	}

	data := n.Normalize("AAPL", bundle)

	require.Len(t, data.History, 2)
	assert.Equal(t, 101.0, data.History[0].Close)
	assert.Equal(t, 103.0, data.History[1].Close)
	assert.Equal(t, int64(0), data.History[1].Volume, "missing volume falls back to zero")
	assert.Equal(t, 103.0, data.History[1].High, "missing high falls back to the close")
}
