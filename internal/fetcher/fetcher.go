package fetcher

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/finsight/finsight/internal/core"
	"github.com/finsight/finsight/internal/metrics"
)

// Config tunes retry and pacing behavior.
type Config struct {
	// MaxRetries is the total number of attempts, not additional retries.
	MaxRetries int
	// RequestDelay is the minimum interval between dispatches of this
	// fetcher instance.
	RequestDelay time.Duration
	// RateLimitDelay is the base backoff after a rate-limited response.
	RateLimitDelay time.Duration
	// RateLimitCeiling caps rate-limit backoff. Transient backoff is not
	// subject to this ceiling.
	RateLimitCeiling time.Duration
	// JitterFactor scales every backoff delay; must be >= 1.
	JitterFactor float64
}

// DefaultConfig returns the fetcher defaults used when a field is zero.
func DefaultConfig() Config {
	return Config{
		MaxRetries:       3,
		RequestDelay:     2 * time.Second,
		RateLimitDelay:   5 * time.Second,
		RateLimitCeiling: 5 * time.Minute,
		JitterFactor:     1.25,
	}
}

// Fetcher wraps remote calls with minimum-interval pacing, exponential
// backoff and error classification. Rate-limit state is per instance;
// multiple instances against the same provider do not coordinate.
type Fetcher struct {
	cfg     Config
	log     *zap.Logger
	metrics *metrics.Registry

	mu                  sync.Mutex
	lastRequest         time.Time
	consecutiveFailures int

	sleep  func(ctx context.Context, d time.Duration) error
	jitter func() time.Duration
}

// Option customizes a Fetcher.
type Option func(*Fetcher)

// WithSleep replaces the backoff/pacing wait. Tests use this to run
// retry schedules without real delays.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(f *Fetcher) { f.sleep = sleep }
}

// WithJitter replaces the pre-dispatch jitter source.
func WithJitter(jitter func() time.Duration) Option {
	return func(f *Fetcher) { f.jitter = jitter }
}

// New creates a fetcher. Zero config fields fall back to DefaultConfig.
func New(cfg Config, log *zap.Logger, m *metrics.Registry, opts ...Option) *Fetcher {
	def := DefaultConfig()
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = def.MaxRetries
	}
	if cfg.RateLimitDelay <= 0 {
		cfg.RateLimitDelay = def.RateLimitDelay
	}
	if cfg.RateLimitCeiling <= 0 {
		cfg.RateLimitCeiling = def.RateLimitCeiling
	}
	if cfg.JitterFactor < 1 {
		cfg.JitterFactor = def.JitterFactor
	}
	if log == nil {
		log = zap.NewNop()
	}
	f := &Fetcher{
		cfg:     cfg,
		log:     log,
		metrics: m,
		sleep:   sleepCtx,
		jitter: func() time.Duration {
			// uniform sub-second jitter before each dispatch
			return time.Duration(rand.Float64() * float64(time.Second))
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// ConsecutiveFailures returns the current failure streak.
func (f *Fetcher) ConsecutiveFailures() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.consecutiveFailures
}

// Do executes call through the fetcher's pacing and retry policy.
// Permanent errors fail immediately; rate-limited and transient errors are
// retried with exponential backoff up to MaxRetries attempts, after which
// a FETCH_EXHAUSTED error wrapping the last cause is returned.
func Do[T any](ctx context.Context, f *Fetcher, operation, symbol string, call func(context.Context) (T, error)) (T, error) {
	var zero T

	if strings.TrimSpace(symbol) == "" {
		return zero, core.WrapError(core.ErrInvalidSymbol, errors.New("blank symbol"))
	}

	var lastErr error
	for attempt := 1; attempt <= f.cfg.MaxRetries; attempt++ {
		if err := f.pace(ctx); err != nil {
			return zero, err
		}

		result, err := call(ctx)
		if err == nil {
			f.recordSuccess()
			f.metrics.FetchAttempt(operation, "success")
			return result, nil
		}
		lastErr = err

		class := Classify(err)
		f.metrics.FetchAttempt(operation, string(class))

		if class == ClassPermanent {
			f.log.Warn("permanent fetch failure",
				zap.String("operation", operation),
				zap.String("symbol", symbol),
				zap.Error(err))
			return zero, core.WrapError(core.ErrInvalidSymbol, err)
		}

		f.recordFailure()
		if attempt == f.cfg.MaxRetries {
			break
		}

		delay := f.backoff(class, attempt)
		f.metrics.FetchRetry(string(class))
		f.log.Info("retrying fetch",
			zap.String("operation", operation),
			zap.String("symbol", symbol),
			zap.String("class", string(class)),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", delay),
			zap.Error(err))
		if err := f.sleep(ctx, delay); err != nil {
			return zero, err
		}
	}

	f.log.Error("fetch retries exhausted",
		zap.String("operation", operation),
		zap.String("symbol", symbol),
		zap.Int("attempts", f.cfg.MaxRetries),
		zap.Error(lastErr))
	return zero, core.WrapError(core.ErrFetchExhausted, lastErr)
}

// backoff computes the wait before the next attempt. Rate-limit backoff is
// capped by RateLimitCeiling; transient backoff grows unbounded from a one
// second base.
func (f *Fetcher) backoff(class Class, attempt int) time.Duration {
	exp := math.Pow(2, float64(attempt))
	if class == ClassRateLimited {
		d := time.Duration(float64(f.cfg.RateLimitDelay) * exp * f.cfg.JitterFactor)
		if d > f.cfg.RateLimitCeiling {
			d = f.cfg.RateLimitCeiling
		}
		return d
	}
	return time.Duration(float64(time.Second) * exp * f.cfg.JitterFactor)
}

// pace blocks until at least RequestDelay has elapsed since the previous
// dispatch, plus a small random jitter, then marks the dispatch time.
func (f *Fetcher) pace(ctx context.Context) error {
	if f.cfg.RequestDelay > 0 {
		f.mu.Lock()
		wait := time.Until(f.lastRequest.Add(f.cfg.RequestDelay))
		f.mu.Unlock()
		if wait > 0 {
			if err := f.sleep(ctx, wait); err != nil {
				return err
			}
		}
	}
	if j := f.jitter(); j > 0 {
		if err := f.sleep(ctx, j); err != nil {
			return err
		}
	}
	f.mu.Lock()
	f.lastRequest = time.Now()
	f.mu.Unlock()
	return nil
}

func (f *Fetcher) recordSuccess() {
	f.mu.Lock()
	f.consecutiveFailures = 0
	f.mu.Unlock()
}

func (f *Fetcher) recordFailure() {
	f.mu.Lock()
	f.consecutiveFailures++
	f.mu.Unlock()
}

// sleepCtx waits for d or until the context is canceled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
