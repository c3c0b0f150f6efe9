package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/finsight/finsight/internal/config"
	"github.com/finsight/finsight/internal/core"
	"github.com/finsight/finsight/internal/summarize/claude"
	"github.com/finsight/finsight/internal/summarize/openai"
)

const systemPrompt = "You are a financial analyst. Summarize the company's " +
	"position in plain prose using only the figures provided. Do not invent " +
	"numbers. Keep it under 200 words."

// Completer generates text from one prompt.
type Completer interface {
	Name() string
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Summarizer turns a canonical record into a short narrative. It is an
// external collaborator of the pipeline: failures here never affect the
// StockData itself.
type Summarizer struct {
	completer Completer
}

// New creates a summarizer from configuration.
func New(cfg config.SummarizerConfig) (*Summarizer, error) {
	var (
		c   Completer
		err error
	)
	switch cfg.Provider {
	case "claude":
		c, err = claude.New(cfg.Claude.APIKey, cfg.Claude.Model)
	case "openai":
		c, err = openai.New(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	default:
		return nil, fmt.Errorf("unknown summarizer provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return &Summarizer{completer: c}, nil
}

// NewWithCompleter wires a custom completer, used by tests.
func NewWithCompleter(c Completer) *Summarizer {
	return &Summarizer{completer: c}
}

// Summarize generates prose for the record's financial state.
func (s *Summarizer) Summarize(ctx context.Context, data *core.StockData) (string, error) {
	if data == nil {
		return "", core.WrapError(core.ErrSummarizerFailed, fmt.Errorf("nil record"))
	}
	text, err := s.completer.Complete(ctx, systemPrompt, BuildPrompt(data))
	if err != nil {
		return "", core.WrapError(core.ErrSummarizerFailed, err)
	}
	return text, nil
}

// BuildPrompt renders the record's metrics and latest statement figures
// as the user prompt.
func BuildPrompt(data *core.StockData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Company: %s (%s)\n", data.Company.Name, data.Symbol)
	if data.Company.Sector != "" {
		fmt.Fprintf(&b, "Sector: %s / %s\n", data.Company.Sector, data.Company.Industry)
	}

	writeMetric := func(label string, v *float64) {
		if v != nil {
			fmt.Fprintf(&b, "%s: %.2f\n", label, *v)
		}
	}
	writeMetric("Revenue", data.Metrics.Revenue)
	writeMetric("Net income", data.Metrics.NetIncome)
	writeMetric("Total assets", data.Metrics.TotalAssets)
	writeMetric("Total equity", data.Metrics.TotalEquity)
	writeMetric("Free cash flow", data.Metrics.FreeCashFlow)
	writeMetric("EPS", data.Metrics.EPS)
	writeMetric("P/E", data.Metrics.PERatio)

	if sig := data.RatioSigs; sig.Profitability != "" {
		fmt.Fprintf(&b, "Ratio assessment: %s; %s; %s; %s; %s\n",
			sig.Profitability, sig.Liquidity, sig.Efficiency, sig.Leverage, sig.Valuation)
	}

	income := data.Statements.YearlyIncome
	if period := income.LatestPeriod(); period != "" {
		fmt.Fprintf(&b, "Latest fiscal period: %s\n", period)
		for _, item := range []string{"Total Revenue", "Gross Profit", "Operating Income", "Net Income"} {
			if v, ok := income.LatestValue(item); ok {
				fmt.Fprintf(&b, "%s: %.0f\n", item, v)
			}
		}
	}
	return b.String()
}
