package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/finsight/finsight/internal/core"
	"github.com/finsight/finsight/internal/provider"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// validSymbol matches stock symbols like AAPL, MSFT, 600519.SS, 0700.HK
var validSymbol = regexp.MustCompile(`^[A-Za-z0-9.\-]{1,10}(\.[A-Za-z]{1,4})?$`)

// validateSymbol checks if a symbol has valid format
func validateSymbol(symbol string) error {
	if symbol == "" {
		return fmt.Errorf("symbol cannot be empty")
	}
	if len(symbol) > 20 {
		return fmt.Errorf("symbol too long: %s", symbol)
	}
	if !validSymbol.MatchString(symbol) {
		return fmt.Errorf("invalid symbol format: %s", symbol)
	}
	return nil
}

// Yahoo implements the Yahoo Finance provider
type Yahoo struct {
	client  *http.Client
	baseURL string
}

// New creates a new Yahoo provider
func New(cfg provider.Config) *Yahoo {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   3 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		ForceAttemptHTTP2:   true,
		IdleConnTimeout:     90 * time.Second,
	}
	return &Yahoo{
		client: &http.Client{
			Timeout:   10 * time.Second,
			Transport: transport,
		},
		baseURL: baseURL,
	}
}

func (y *Yahoo) Name() string {
	return "yahoo"
}

// get performs one GET and decodes the JSON body into out. A 429 maps to
// the rate-limit error so the fetcher backs off with the capped policy.
func (y *Yahoo) get(ctx context.Context, path string, query url.Values, out any) error {
	u := y.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", "finsight/1.0")

	resp, err := y.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return core.WrapError(core.ErrRateLimited, fmt.Errorf("429 Too Many Requests from %s", path))
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d from %s: %s", resp.StatusCode, path, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// FetchCompanyInfo fetches the company profile and headline metrics.
func (y *Yahoo) FetchCompanyInfo(ctx context.Context, symbol string) (provider.RawCompanyInfo, error) {
	if err := validateSymbol(symbol); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("modules", "assetProfile,price,summaryDetail,defaultKeyStatistics,financialData")

	var result quoteSummaryResponse
	if err := y.get(ctx, "/v10/finance/quoteSummary/"+url.PathEscape(symbol), query, &result); err != nil {
		return nil, err
	}
	if result.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yahoo error: %s", result.QuoteSummary.Error.Description)
	}
	if len(result.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("no data found for %s, symbol may be delisted", symbol)
	}

	// Flatten the modules into one raw map; the normalizer does all
	// coercion.
	raw := provider.RawCompanyInfo{}
	for _, fields := range result.QuoteSummary.Result[0] {
		for k, v := range fields {
			raw[k] = flattenFmtValue(v)
		}
	}
	raw["symbol"] = symbol
	return raw, nil
}

// FetchNews fetches recent news for the symbol.
func (y *Yahoo) FetchNews(ctx context.Context, symbol string, limit int) ([]provider.RawNewsItem, error) {
	if err := validateSymbol(symbol); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}

	query := url.Values{}
	query.Set("q", symbol)
	query.Set("newsCount", fmt.Sprintf("%d", limit))
	query.Set("quotesCount", "0")

	var result searchResponse
	if err := y.get(ctx, "/v1/finance/search", query, &result); err != nil {
		return nil, err
	}

	items := make([]provider.RawNewsItem, 0, len(result.News))
	for _, n := range result.News {
		if n.Title == "" {
			continue
		}
		items = append(items, provider.RawNewsItem{
			Title:       n.Title,
			Summary:     n.Summary,
			URL:         n.Link,
			Source:      n.Publisher,
			PublishedAt: n.ProviderPublishTime,
		})
		if len(items) == limit {
			break
		}
	}
	return items, nil
}

// flattenFmtValue unwraps Yahoo's {"raw": x, "fmt": "..."} value objects
// to their raw number, leaving every other shape untouched.
func flattenFmtValue(v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}
	if raw, ok := m["raw"]; ok {
		return raw
	}
	return v
}

// Yahoo API response types

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []map[string]map[string]any `json:"result"`
		Error  *apiError                   `json:"error"`
	} `json:"quoteSummary"`
}

type searchResponse struct {
	News []struct {
		Title               string `json:"title"`
		Summary             string `json:"summary"`
		Publisher           string `json:"publisher"`
		Link                string `json:"link"`
		ProviderPublishTime int64  `json:"providerPublishTime"`
	} `json:"news"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}
