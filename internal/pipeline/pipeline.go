package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/finsight/finsight/internal/core"
	"github.com/finsight/finsight/internal/fetcher"
	"github.com/finsight/finsight/internal/indicator"
	"github.com/finsight/finsight/internal/metrics"
	"github.com/finsight/finsight/internal/normalize"
	"github.com/finsight/finsight/internal/provider"
	"github.com/finsight/finsight/internal/ratio"
	"github.com/finsight/finsight/internal/storage/archive"
	"github.com/finsight/finsight/internal/summarize"
)

// Config tunes the acquisition cycle.
type Config struct {
	LookbackDays     int
	BarInterval      string
	NewsLimit        int
	InterSymbolDelay time.Duration
}

// Deps carries the pipeline's collaborators. Archive and Summarizer are
// optional; their failures are logged and never affect the record.
type Deps struct {
	Provider   provider.Provider
	Fetcher    *fetcher.Fetcher
	Normalizer *normalize.Normalizer
	Logger     *zap.Logger
	Metrics    *metrics.Registry
	Archive    archive.Store
	Summarizer *summarize.Summarizer
}

// Service runs the acquisition-and-normalization pipeline: one symbol at a
// time, synchronously, with all remote calls funneled through the fetcher.
type Service struct {
	cfg  Config
	deps Deps

	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a pipeline service.
func New(cfg Config, deps Deps) *Service {
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = 365
	}
	if cfg.BarInterval == "" {
		cfg.BarInterval = "1d"
	}
	if cfg.NewsLimit <= 0 {
		cfg.NewsLimit = 10
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Service{
		cfg:  cfg,
		deps: deps,
		sleep: func(ctx context.Context, d time.Duration) error {
			t := time.NewTimer(d)
			defer t.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-t.C:
				return nil
			}
		},
	}
}

// Result is the per-symbol outcome of a batch.
type Result struct {
	CycleID    string
	Symbol     string
	Data       *core.StockData
	Summary    string
	ArchiveKey string
	Err        error
}

// FetchCycle acquires and normalizes one symbol. The four fetch
// operations are independent: a failed operation degrades its section to
// empty. An invalid symbol fails the cycle immediately; if every
// operation fails, the first cause is returned and no record is produced.
func (s *Service) FetchCycle(ctx context.Context, symbol string) (*core.StockData, error) {
	start := time.Now()
	p := s.deps.Provider
	f := s.deps.Fetcher
	log := s.deps.Logger.With(zap.String("symbol", symbol), zap.String("provider", p.Name()))

	var bundle provider.RawBundle
	var opErrs []error

	info, err := fetcher.Do(ctx, f, "company_info", symbol, func(ctx context.Context) (provider.RawCompanyInfo, error) {
		return p.FetchCompanyInfo(ctx, symbol)
	})
	if err := s.recordOp(log, "company_info", err, &opErrs); err != nil {
		return nil, err
	}
	bundle.Info = info

	history, err := fetcher.Do(ctx, f, "historical_prices", symbol, func(ctx context.Context) (provider.RawPriceHistory, error) {
		return p.FetchHistoricalPrices(ctx, symbol, s.cfg.LookbackDays, s.cfg.BarInterval)
	})
	if err := s.recordOp(log, "historical_prices", err, &opErrs); err != nil {
		return nil, err
	}
	bundle.History = history

	statements, err := fetcher.Do(ctx, f, "financial_statements", symbol, func(ctx context.Context) (provider.RawStatements, error) {
		return p.FetchFinancialStatements(ctx, symbol)
	})
	if err := s.recordOp(log, "financial_statements", err, &opErrs); err != nil {
		return nil, err
	}
	bundle.Statements = statements

	news, err := fetcher.Do(ctx, f, "news", symbol, func(ctx context.Context) ([]provider.RawNewsItem, error) {
		return p.FetchNews(ctx, symbol, s.cfg.NewsLimit)
	})
	if err := s.recordOp(log, "news", err, &opErrs); err != nil {
		return nil, err
	}
	bundle.News = news

	if len(opErrs) == 4 {
		s.deps.Metrics.SymbolProcessed("failed")
		return nil, opErrs[0]
	}

	data := s.deps.Normalizer.Normalize(symbol, bundle)

	// Derived views are computed by the engines, not the normalizer.
	data.Indicators = indicator.Compute(data.History)
	data.Signals = indicator.ClassifySignals(data.History, data.Indicators)
	data.Ratios = ratio.Compute(data.Statements, data.Metrics, data.Company)
	data.RatioSigs = ratio.ClassifySignals(data.Ratios)

	s.deps.Metrics.SymbolProcessed("ok")
	s.deps.Metrics.ObserveCycle(time.Since(start).Seconds())
	log.Info("fetch cycle complete",
		zap.Int("bars", len(data.History)),
		zap.Int("news", len(data.News)),
		zap.Int("failed_operations", len(opErrs)),
		zap.Duration("elapsed", time.Since(start)))
	return data, nil
}

// recordOp tracks one operation's outcome. Context and invalid-symbol
// errors abort the cycle; everything else degrades gracefully.
func (s *Service) recordOp(log *zap.Logger, operation string, err error, opErrs *[]error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, core.ErrInvalidSymbol) {
		s.deps.Metrics.SymbolProcessed("failed")
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	log.Warn("operation failed, section degrades to empty",
		zap.String("operation", operation),
		zap.Error(err))
	*opErrs = append(*opErrs, err)
	return nil
}

// ProcessSymbol runs one full cycle plus the best-effort collaborators.
func (s *Service) ProcessSymbol(ctx context.Context, symbol string) Result {
	res := Result{
		CycleID: uuid.NewString(),
		Symbol:  symbol,
	}

	data, err := s.FetchCycle(ctx, symbol)
	if err != nil {
		res.Err = err
		return res
	}
	res.Data = data

	log := s.deps.Logger.With(zap.String("symbol", symbol), zap.String("cycle_id", res.CycleID))

	if s.deps.Archive != nil {
		key, err := s.deps.Archive.PutSnapshot(ctx, data)
		if err != nil {
			log.Warn("snapshot archive failed", zap.Error(err))
		} else {
			res.ArchiveKey = key
		}
	}

	if s.deps.Summarizer != nil {
		summary, err := s.deps.Summarizer.Summarize(ctx, data)
		if err != nil {
			log.Warn("summarizer failed", zap.Error(err))
		} else {
			res.Summary = summary
		}
	}

	return res
}

// ProcessBatch processes symbols sequentially with the configured
// inter-symbol delay. One symbol's failure never aborts the batch; a
// canceled context stops scheduling further symbols.
func (s *Service) ProcessBatch(ctx context.Context, symbols []string) []Result {
	results := make([]Result, 0, len(symbols))
	for i, symbol := range symbols {
		if ctx.Err() != nil {
			break
		}
		if i > 0 && s.cfg.InterSymbolDelay > 0 {
			if err := s.sleep(ctx, s.cfg.InterSymbolDelay); err != nil {
				break
			}
		}
		res := s.ProcessSymbol(ctx, symbol)
		if res.Err != nil {
			s.deps.Logger.Error("symbol failed",
				zap.String("symbol", symbol),
				zap.Error(res.Err))
		}
		results = append(results, res)
	}
	return results
}
