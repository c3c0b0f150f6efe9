package provider

import (
	"context"

	"github.com/finsight/finsight/internal/core"
)

// Config holds provider configuration
type Config struct {
	BaseURL string
	APIKey  string
	Extra   map[string]any
}

// Provider defines the capability set of one upstream market-data source.
// The four operations are independent: a failure in one must not prevent
// the others from being attempted.
type Provider interface {
	// Metadata
	Name() string

	// Data fetching
	FetchCompanyInfo(ctx context.Context, symbol string) (RawCompanyInfo, error)
	FetchHistoricalPrices(ctx context.Context, symbol string, lookbackDays int, interval string) (RawPriceHistory, error)
	FetchFinancialStatements(ctx context.Context, symbol string) (RawStatements, error)
	FetchNews(ctx context.Context, symbol string, limit int) ([]RawNewsItem, error)
}

// RawCompanyInfo is the provider's untyped company payload. Coercion into
// the canonical shape happens in exactly one place, the normalizer.
type RawCompanyInfo map[string]any

// RawBar is one raw OHLCV row. Pointer fields distinguish missing values
// from zeros in the provider's sparse arrays.
type RawBar struct {
	Timestamp int64
	Open      *float64
	High      *float64
	Low       *float64
	Close     *float64
	Volume    *int64
}

// RawPriceHistory is the raw OHLCV table, chronologically ascending.
type RawPriceHistory []RawBar

// StatementKey selects one of the six statement tables.
type StatementKey struct {
	Period core.Period
	Type   core.StatementType
}

// RawStatement is one raw statement table: line item → period → value.
// Values are untyped; the normalizer coerces them.
type RawStatement map[string]map[string]any

// RawStatements maps {period, statement-type} to a raw table. A missing
// key means the provider did not return that table.
type RawStatements map[StatementKey]RawStatement

// RawNewsItem is one raw news entry.
type RawNewsItem struct {
	Title       string
	Summary     string
	URL         string
	Source      string
	PublishedAt int64 // unix seconds, 0 when unknown
}

// RawBundle collects the raw results of one symbol's fetch cycle. Sections
// a fetch could not populate stay nil; the normalizer treats nil sections
// as empty, never as errors.
type RawBundle struct {
	Info       RawCompanyInfo
	History    RawPriceHistory
	Statements RawStatements
	News       []RawNewsItem
}
