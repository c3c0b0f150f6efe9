package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/finsight/internal/core"
	"github.com/finsight/finsight/internal/fetcher"
	"github.com/finsight/finsight/internal/normalize"
	"github.com/finsight/finsight/internal/provider"
	"github.com/finsight/finsight/internal/summarize"
)

// fakeProvider returns canned results per operation and counts calls.
// Symbols prefixed "BAD" fail every operation with a permanent error.
type fakeProvider struct {
	infoErr       error
	historyErr    error
	statementsErr error
	newsErr       error

	calls map[string]int
}

func badSymbol(symbol string) error {
	if strings.HasPrefix(symbol, "BAD") {
		return errors.New("invalid symbol format: " + symbol)
	}
	return nil
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{calls: map[string]int{}}
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) FetchCompanyInfo(ctx context.Context, symbol string) (provider.RawCompanyInfo, error) {
	p.calls["info"]++
	if err := badSymbol(symbol); err != nil {
		return nil, err
	}
	if p.infoErr != nil {
		return nil, p.infoErr
	}
	return provider.RawCompanyInfo{"longName": "Fake Corp", "sector": "Testing"}, nil
}

func (p *fakeProvider) FetchHistoricalPrices(ctx context.Context, symbol string, lookbackDays int, interval string) (provider.RawPriceHistory, error) {
	p.calls["history"]++
	if err := badSymbol(symbol); err != nil {
		return nil, err
	}
	if p.historyErr != nil {
		return nil, p.historyErr
	}
	c := 100.0
	return provider.RawPriceHistory{
		{Timestamp: 1717200000, Open: &c, High: &c, Low: &c, Close: &c},
	}, nil
}

func (p *fakeProvider) FetchFinancialStatements(ctx context.Context, symbol string) (provider.RawStatements, error) {
	p.calls["statements"]++
	if err := badSymbol(symbol); err != nil {
		return nil, err
	}
	if p.statementsErr != nil {
		return nil, p.statementsErr
	}
	return provider.RawStatements{
		{Period: core.PeriodYearly, Type: core.StatementIncome}: {
			"Total Revenue": {"2023-12-31": float64(1000)},
			"Net Income":    {"2023-12-31": float64(100)},
		},
		{Period: core.PeriodYearly, Type: core.StatementBalance}: {
			"Total Assets":             {"2023-12-31": float64(2000)},
			"Total Stockholder Equity": {"2023-12-31": float64(500)},
		},
	}, nil
}

func (p *fakeProvider) FetchNews(ctx context.Context, symbol string, limit int) ([]provider.RawNewsItem, error) {
	p.calls["news"]++
	if err := badSymbol(symbol); err != nil {
		return nil, err
	}
	if p.newsErr != nil {
		return nil, p.newsErr
	}
	return []provider.RawNewsItem{{Title: "Fake Corp expands"}}, nil
}

type fakeStore struct {
	putErr error
	keys   []string
}

func (s *fakeStore) PutSnapshot(ctx context.Context, data *core.StockData) (string, error) {
	if s.putErr != nil {
		return "", s.putErr
	}
	key := data.Symbol + "/latest.json"
	s.keys = append(s.keys, key)
	return key, nil
}

func (s *fakeStore) GetSnapshot(ctx context.Context, key string) (*core.StockData, error) {
	return nil, errors.New("not implemented")
}

func (s *fakeStore) ListSnapshots(ctx context.Context, symbol string) ([]string, error) {
	return s.keys, nil
}

type fakeCompleter struct {
	err error
}

func (c *fakeCompleter) Name() string { return "fake" }

func (c *fakeCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	return "a short summary", nil
}

func newTestService(p provider.Provider, opts ...func(*Deps)) *Service {
	f := fetcher.New(fetcher.Config{MaxRetries: 2}, nil, nil,
		fetcher.WithSleep(func(ctx context.Context, d time.Duration) error { return ctx.Err() }),
		fetcher.WithJitter(func() time.Duration { return 0 }),
	)
	deps := Deps{
		Provider:   p,
		Fetcher:    f,
		Normalizer: normalize.New(nil),
	}
	for _, opt := range opts {
		opt(&deps)
	}
	return New(Config{LookbackDays: 30, NewsLimit: 5}, deps)
}

func TestFetchCycle_HappyPath(t *testing.T) {
	p := newFakeProvider()
	s := newTestService(p)

	data, err := s.FetchCycle(context.Background(), "FAKE")
	require.NoError(t, err)
	require.NotNil(t, data)

	assert.Equal(t, "FAKE", data.Symbol)
	assert.Equal(t, "Fake Corp", data.Company.Name)
	require.Len(t, data.History, 1)
	require.Len(t, data.News, 1)

	// Derived views are filled in by the engines after normalization.
	require.NotNil(t, data.Indicators.CurrentPrice)
	assert.Equal(t, 100.0, *data.Indicators.CurrentPrice)
	assert.InDelta(t, 20.0, data.Ratios.ROE, 1e-9)
	assert.Equal(t, "Strong Profitability", data.RatioSigs.Profitability)

	for _, op := range []string{"info", "history", "statements", "news"} {
		assert.Equalf(t, 1, p.calls[op], "operation %s", op)
	}
}

func TestFetchCycle_PartialFailureDegrades(t *testing.T) {
	p := newFakeProvider()
	p.newsErr = errors.New("connection reset")
	s := newTestService(p)

	data, err := s.FetchCycle(context.Background(), "FAKE")
	require.NoError(t, err, "one failed operation must not fail the cycle")

	assert.Empty(t, data.News)
	require.Len(t, data.History, 1)
	assert.Equal(t, 2, p.calls["news"], "transient news failure is retried to exhaustion")
}

func TestFetchCycle_InvalidSymbolAborts(t *testing.T) {
	p := newFakeProvider()
	s := newTestService(p)

	data, err := s.FetchCycle(context.Background(), "BADX")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidSymbol))
	assert.Nil(t, data)

	assert.Equal(t, 1, p.calls["info"], "permanent errors are not retried")
	assert.Equal(t, 0, p.calls["history"], "remaining operations are skipped")
}

func TestFetchCycle_AllOperationsFailed(t *testing.T) {
	p := newFakeProvider()
	cause := errors.New("connection reset")
	p.infoErr = cause
	p.historyErr = cause
	p.statementsErr = cause
	p.newsErr = cause
	s := newTestService(p)

	data, err := s.FetchCycle(context.Background(), "FAKE")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrFetchExhausted))
	assert.Nil(t, data, "no record when every section failed")
}

func TestProcessSymbol_BestEffortCollaborators(t *testing.T) {
	p := newFakeProvider()
	store := &fakeStore{}
	s := newTestService(p, func(d *Deps) {
		d.Archive = store
		d.Summarizer = summarize.NewWithCompleter(&fakeCompleter{})
	})

	res := s.ProcessSymbol(context.Background(), "FAKE")

	require.NoError(t, res.Err)
	assert.NotEmpty(t, res.CycleID)
	assert.Equal(t, "FAKE/latest.json", res.ArchiveKey)
	assert.Equal(t, "a short summary", res.Summary)
}

func TestProcessSymbol_CollaboratorFailureIsNotFatal(t *testing.T) {
	p := newFakeProvider()
	s := newTestService(p, func(d *Deps) {
		d.Archive = &fakeStore{putErr: errors.New("disk full")}
		d.Summarizer = summarize.NewWithCompleter(&fakeCompleter{err: errors.New("api down")})
	})

	res := s.ProcessSymbol(context.Background(), "FAKE")

	require.NoError(t, res.Err)
	require.NotNil(t, res.Data)
	assert.Empty(t, res.ArchiveKey)
	assert.Empty(t, res.Summary)
}

func TestProcessBatch_ContinuesPastFailures(t *testing.T) {
	p := newFakeProvider()
	s := newTestService(p)

	results := s.ProcessBatch(context.Background(), []string{"BADX", "FAKE"})

	require.Len(t, results, 2, "a failed symbol never aborts the batch")
	assert.Error(t, results[0].Err)
	require.NoError(t, results[1].Err)
	assert.Equal(t, "Fake Corp", results[1].Data.Company.Name)
}

func TestProcessBatch_StopsOnCanceledContext(t *testing.T) {
	p := newFakeProvider()
	s := newTestService(p)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := s.ProcessBatch(ctx, []string{"FAKE", "ALSO"})
	assert.Empty(t, results)
}
