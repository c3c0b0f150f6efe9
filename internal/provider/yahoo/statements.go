package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/finsight/finsight/internal/core"
	"github.com/finsight/finsight/internal/provider"
)

// quoteSummary module name per statement table.
var statementModules = map[provider.StatementKey]string{
	{Period: core.PeriodYearly, Type: core.StatementIncome}:      "incomeStatementHistory",
	{Period: core.PeriodQuarterly, Type: core.StatementIncome}:   "incomeStatementHistoryQuarterly",
	{Period: core.PeriodYearly, Type: core.StatementBalance}:     "balanceSheetHistory",
	{Period: core.PeriodQuarterly, Type: core.StatementBalance}:  "balanceSheetHistoryQuarterly",
	{Period: core.PeriodYearly, Type: core.StatementCashFlow}:    "cashflowStatementHistory",
	{Period: core.PeriodQuarterly, Type: core.StatementCashFlow}: "cashflowStatementHistoryQuarterly",
}

// list key inside each module ("cashflowStatementHistory" holds
// "cashflowStatements", the others repeat the module name).
var statementListKeys = map[string]string{
	"incomeStatementHistory":            "incomeStatementHistory",
	"incomeStatementHistoryQuarterly":   "incomeStatementHistory",
	"balanceSheetHistory":               "balanceSheetStatements",
	"balanceSheetHistoryQuarterly":      "balanceSheetStatements",
	"cashflowStatementHistory":          "cashflowStatements",
	"cashflowStatementHistoryQuarterly": "cashflowStatements",
}

// FetchFinancialStatements fetches the six statement tables in one call.
// Tables missing from the response are simply absent from the result; the
// normalizer substitutes empty tables.
func (y *Yahoo) FetchFinancialStatements(ctx context.Context, symbol string) (provider.RawStatements, error) {
	if err := validateSymbol(symbol); err != nil {
		return nil, err
	}

	modules := make([]string, 0, len(statementModules))
	for _, m := range statementModules {
		modules = append(modules, m)
	}
	query := url.Values{}
	query.Set("modules", strings.Join(modules, ","))

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

	payload := result.QuoteSummary.Result[0]
	raw := provider.RawStatements{}
	for key, module := range statementModules {
		content, ok := payload[module]
		if !ok {
			continue
		}
		entries, ok := content[statementListKeys[module]].([]any)
		if !ok {
			continue
		}
		table := parseStatementEntries(entries)
		if len(table) > 0 {
			raw[key] = table
		}
	}
	return raw, nil
}

// parseStatementEntries converts a list of per-period statement objects
// into a line-item → period → value table, keeping values untyped.
func parseStatementEntries(entries []any) provider.RawStatement {
	table := provider.RawStatement{}
	for _, e := range entries {
		entry, ok := e.(map[string]any)
		if !ok {
			continue
		}
		period := statementPeriod(entry)
		if period == "" {
			continue
		}
		for k, v := range entry {
			if k == "endDate" || k == "maxAge" {
				continue
			}
			value := flattenFmtValue(v)
			if _, isMap := value.(map[string]any); isMap {
				continue // empty {"raw": absent} objects
			}
			label := labelForKey(k)
			if table[label] == nil {
				table[label] = map[string]any{}
			}
			table[label][period] = value
		}
	}
	return table
}

// statementPeriod extracts the period label from an entry's endDate,
// preferring the formatted date string.
func statementPeriod(entry map[string]any) string {
	end, ok := entry["endDate"].(map[string]any)
	if !ok {
		return ""
	}
	if s, ok := end["fmt"].(string); ok && s != "" {
		return s
	}
	if raw, ok := end["raw"].(float64); ok {
		return fmt.Sprintf("%d", int64(raw))
	}
	return ""
}

// labelForKey converts a camelCase provider key into the canonical
// line-item label: "totalRevenue" → "Total Revenue".
func labelForKey(key string) string {
	var b strings.Builder
	for i, r := range key {
		if i == 0 {
			b.WriteRune(unicode.ToUpper(r))
			continue
		}
		if unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
