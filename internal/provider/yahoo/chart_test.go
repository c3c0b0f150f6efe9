package yahoo

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchHistoricalPrices(t *testing.T) {
	y := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/v8/finance/chart/AAPL")
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		assert.Equal(t, "1y", r.URL.Query().Get("range"))
		w.Write([]byte(`{
			"chart": {
				"result": [{
					"meta": {"symbol": "AAPL"},
					"timestamp": [1717200000, 1717286400, 1717372800],
					"indicators": {
						"quote": [{
							"open":   [189.0, null, 191.0],
							"high":   [191.0, 192.0, 193.0],
							"low":    [188.0, 189.0, 190.0],
							"close":  [190.0, 191.5, null],
							"volume": [50000000, 48000000, 47000000]
						}]
					}
				}],
				"error": null
			}
		}`))
	})

	bars, err := y.FetchHistoricalPrices(context.Background(), "AAPL", 365, "1d")
	require.NoError(t, err)

	// The null-open middle row is skipped entirely.
	require.Len(t, bars, 2)

	assert.Equal(t, int64(1717200000), bars[0].Timestamp)
	require.NotNil(t, bars[0].Open)
	assert.Equal(t, 189.0, *bars[0].Open)
	require.NotNil(t, bars[0].Close)
	assert.Equal(t, 190.0, *bars[0].Close)
	require.NotNil(t, bars[0].Volume)
	assert.Equal(t, int64(50000000), *bars[0].Volume)

	// The third row has a null close: the pointer stays nil for the
	// normalizer to resolve.
	assert.Equal(t, int64(1717372800), bars[1].Timestamp)
	assert.Nil(t, bars[1].Close)
	require.NotNil(t, bars[1].High)
	assert.Equal(t, 193.0, *bars[1].High)
}

func TestFetchHistoricalPrices_NoQuotes(t *testing.T) {
	y := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"chart": {
				"result": [{"meta": {"symbol": "AAPL"}, "timestamp": [], "indicators": {"quote": []}}],
				"error": null
			}
		}`))
	})

	bars, err := y.FetchHistoricalPrices(context.Background(), "AAPL", 30, "1d")
	require.NoError(t, err)
	assert.Empty(t, bars)
}

func TestFetchHistoricalPrices_APIError(t *testing.T) {
	y := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"chart": {
				"result": null,
				"error": {"code": "Not Found", "description": "No data found, symbol may be delisted"}
			}
		}`))
	})

	_, err := y.FetchHistoricalPrices(context.Background(), "GONE", 30, "1d")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No data found")
}
