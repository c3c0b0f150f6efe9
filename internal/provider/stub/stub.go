package stub

import (
	"context"

	"github.com/finsight/finsight/internal/provider"
)

// Stub is an inert provider returning empty results for every operation.
// It stands in for upstream sources that are configured but unavailable,
// so that partial provider availability degrades gracefully instead of
// erroring.
type Stub struct {
	name string
}

// New creates a stub provider under the given name.
func New(name string) *Stub {
	if name == "" {
		name = "stub"
	}
	return &Stub{name: name}
}

func (s *Stub) Name() string {
	return s.name
}

func (s *Stub) FetchCompanyInfo(ctx context.Context, symbol string) (provider.RawCompanyInfo, error) {
	return provider.RawCompanyInfo{}, nil
}

func (s *Stub) FetchHistoricalPrices(ctx context.Context, symbol string, lookbackDays int, interval string) (provider.RawPriceHistory, error) {
	return provider.RawPriceHistory{}, nil
}

func (s *Stub) FetchFinancialStatements(ctx context.Context, symbol string) (provider.RawStatements, error) {
	return provider.RawStatements{}, nil
}

func (s *Stub) FetchNews(ctx context.Context, symbol string, limit int) ([]provider.RawNewsItem, error) {
	return []provider.RawNewsItem{}, nil
}
