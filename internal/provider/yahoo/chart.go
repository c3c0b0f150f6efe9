package yahoo

import (
	"context"
	"fmt"
	"net/url"

	"github.com/finsight/finsight/internal/provider"
)

// FetchHistoricalPrices fetches the OHLCV table for the lookback window.
// Rows with a missing open are skipped; rows with partial quote data keep
// nil fields for the normalizer to resolve.
func (y *Yahoo) FetchHistoricalPrices(ctx context.Context, symbol string, lookbackDays int, interval string) (provider.RawPriceHistory, error) {
	if err := validateSymbol(symbol); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("interval", toYahooInterval(interval))
	query.Set("range", provider.RangeForDays(lookbackDays))

	var result chartResponse
	if err := y.get(ctx, "/v8/finance/chart/"+url.PathEscape(symbol), query, &result); err != nil {
		return nil, err
	}
	if result.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo error: %s", result.Chart.Error.Description)
	}
	if len(result.Chart.Result) == 0 {
		return nil, fmt.Errorf("no data found for %s, symbol may be delisted", symbol)
	}

	r := result.Chart.Result[0]
	if len(r.Indicators.Quote) == 0 {
		return provider.RawPriceHistory{}, nil
	}
	quotes := r.Indicators.Quote[0]

	bars := make(provider.RawPriceHistory, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		if i >= len(quotes.Open) || quotes.Open[i] == nil {
			continue
		}
		bars = append(bars, provider.RawBar{
			Timestamp: ts,
			Open:      quotes.Open[i],
			High:      at(quotes.High, i),
			Low:       at(quotes.Low, i),
			Close:     at(quotes.Close, i),
			Volume:    at(quotes.Volume, i),
		})
	}
	return bars, nil
}

func at[T any](s []*T, i int) *T {
	if i >= len(s) {
		return nil
	}
	return s[i]
}

func toYahooInterval(interval string) string {
	switch interval {
	case "1m", "5m", "1h", "1d", "1wk", "1mo":
		return interval
	default:
		return "1d"
	}
}

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *apiError     `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta       chartMeta  `json:"meta"`
	Timestamp  []int64    `json:"timestamp"`
	Indicators indicators `json:"indicators"`
}

type chartMeta struct {
	Symbol              string  `json:"symbol"`
	RegularMarketPrice  float64 `json:"regularMarketPrice"`
	RegularMarketVolume int64   `json:"regularMarketVolume"`
	RegularMarketTime   int64   `json:"regularMarketTime"`
}

type indicators struct {
	Quote []quoteIndicator `json:"quote"`
}

type quoteIndicator struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}
