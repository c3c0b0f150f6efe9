package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/finsight/finsight/internal/config"
	"github.com/finsight/finsight/internal/fetcher"
	"github.com/finsight/finsight/internal/logger"
	"github.com/finsight/finsight/internal/metrics"
	"github.com/finsight/finsight/internal/normalize"
	"github.com/finsight/finsight/internal/pipeline"
	"github.com/finsight/finsight/internal/provider"
	"github.com/finsight/finsight/internal/provider/stub"
	"github.com/finsight/finsight/internal/provider/yahoo"
	"github.com/finsight/finsight/internal/storage/archive"
	"github.com/finsight/finsight/internal/summarize"
)

var fetchOutput string

var fetchCmd = &cobra.Command{
	Use:   "fetch SYMBOL [SYMBOL...]",
	Short: "Fetch and normalize market data for one or more symbols",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFetch,
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchOutput, "output", "o", "-", "write results to file instead of stdout")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := logger.Must(cfg.Log.Development || debug)
	defer log.Sync()

	reg := metrics.NewRegistry()
	if cfg.Metrics.Enabled {
		startMetricsServer(cfg.Metrics, reg, log)
	}

	svc, err := buildPipeline(cfg, log, reg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results := svc.ProcessBatch(ctx, args)

	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "%s: %v\n", r.Symbol, r.Err)
		}
	}

	if err := writeResults(results); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d symbols failed", failed, len(results))
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		return config.Defaults(), nil
	}
	return config.Load(cfgFile)
}

// buildPipeline wires the provider registry, fetcher and collaborators
// from configuration.
func buildPipeline(cfg *config.Config, log *zap.Logger, reg *metrics.Registry) (*pipeline.Service, error) {
	providers := provider.NewRegistry()
	providers.Register(yahoo.New(provider.Config{
		BaseURL: cfg.Provider.BaseURL,
		APIKey:  cfg.Provider.APIKey,
	}))
	providers.Register(stub.New("none"))
	if err := providers.SetDefault(cfg.Provider.Name); err != nil {
		return nil, err
	}
	p, err := providers.Default()
	if err != nil {
		return nil, err
	}

	f := fetcher.New(fetcher.Config{
		MaxRetries:       cfg.Fetcher.MaxRetries,
		RequestDelay:     cfg.Fetcher.RequestDelay,
		RateLimitDelay:   cfg.Fetcher.RateLimitDelay,
		RateLimitCeiling: cfg.Fetcher.RateLimitCeiling,
		JitterFactor:     cfg.Fetcher.JitterFactor,
	}, log, reg)

	deps := pipeline.Deps{
		Provider:   p,
		Fetcher:    f,
		Normalizer: normalize.New(log),
		Logger:     log,
		Metrics:    reg,
	}

	if cfg.Archive.Enabled {
		store, err := buildArchive(cfg.Archive)
		if err != nil {
			return nil, err
		}
		deps.Archive = store
	}

	if cfg.Summarizer.Enabled {
		s, err := summarize.New(cfg.Summarizer)
		if err != nil {
			return nil, err
		}
		deps.Summarizer = s
	}

	return pipeline.New(pipeline.Config{
		LookbackDays:     cfg.Pipeline.LookbackDays,
		BarInterval:      cfg.Pipeline.BarInterval,
		NewsLimit:        cfg.Pipeline.NewsLimit,
		InterSymbolDelay: cfg.Pipeline.InterSymbolDelay,
	}, deps), nil
}

func buildArchive(cfg config.ArchiveConfig) (archive.Store, error) {
	switch cfg.Type {
	case "s3":
		return archive.NewS3(archive.S3Config{
			Bucket:    cfg.S3.Bucket,
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Prefix:    cfg.S3.Prefix,
		})
	default:
		return archive.NewLocalFS(cfg.Path)
	}
}

func startMetricsServer(cfg config.MetricsConfig, reg *metrics.Registry, log *zap.Logger) {
	mux := http.NewServeMux()
	path := cfg.Path
	if path == "" {
		path = "/metrics"
	}
	mux.Handle(path, promhttp.HandlerFor(reg.Registry, promhttp.HandlerOpts{}))
	go func() {
		if err := http.ListenAndServe(cfg.Listen, mux); err != nil {
			log.Warn("metrics server stopped", zap.Error(err))
		}
	}()
}

func writeResults(results []pipeline.Result) error {
	out := os.Stdout
	if fetchOutput != "" && fetchOutput != "-" {
		f, err := os.Create(fetchOutput)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	type entry struct {
		CycleID    string `json:"cycle_id"`
		Symbol     string `json:"symbol"`
		Error      string `json:"error,omitempty"`
		Summary    string `json:"summary,omitempty"`
		ArchiveKey string `json:"archive_key,omitempty"`
		Data       any    `json:"data,omitempty"`
	}

	entries := make([]entry, 0, len(results))
	for _, r := range results {
		e := entry{
			CycleID:    r.CycleID,
			Symbol:     r.Symbol,
			Summary:    r.Summary,
			ArchiveKey: r.ArchiveKey,
		}
		if r.Err != nil {
			e.Error = r.Err.Error()
		}
		if r.Data != nil {
			e.Data = r.Data
		}
		entries = append(entries, e)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}
