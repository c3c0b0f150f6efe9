package core

import "sort"

// Statement is one financial statement table: line-item label → period →
// value. Periods are date strings (ISO-8601) or fiscal labels; ISO dates
// sort correctly as strings.
type Statement map[string]map[string]float64

// Periods returns every period appearing in the table, sorted descending
// so that the most recent period comes first. Consumers must use this
// ordering rather than assume positional order from the provider.
func (s Statement) Periods() []string {
	seen := make(map[string]struct{})
	for _, byPeriod := range s {
		for p := range byPeriod {
			seen[p] = struct{}{}
		}
	}
	periods := make([]string, 0, len(seen))
	for p := range seen {
		periods = append(periods, p)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(periods)))
	return periods
}

// LatestPeriod returns the most recent period, or "" for an empty table.
func (s Statement) LatestPeriod() string {
	periods := s.Periods()
	if len(periods) == 0 {
		return ""
	}
	return periods[0]
}

// LatestValue returns the value of a line item at the most recent period
// where that item is present. The second return is false when the item has
// no value in any period.
func (s Statement) LatestValue(item string) (float64, bool) {
	byPeriod, ok := s[item]
	if !ok || len(byPeriod) == 0 {
		return 0, false
	}
	periods := make([]string, 0, len(byPeriod))
	for p := range byPeriod {
		periods = append(periods, p)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(periods)))
	return byPeriod[periods[0]], true
}

// StatementType identifies one of the three statement kinds.
type StatementType string

const (
	StatementIncome   StatementType = "income"
	StatementBalance  StatementType = "balance"
	StatementCashFlow StatementType = "cashflow"
)

// Period identifies the reporting cadence of a statement table.
type Period string

const (
	PeriodYearly    Period = "yearly"
	PeriodQuarterly Period = "quarterly"
)

// FinancialStatements holds the six canonical statement tables. A table a
// provider did not return is an empty map, never nil-dereferenced or an
// error.
type FinancialStatements struct {
	YearlyIncome      Statement `json:"yearly_income"`
	YearlyBalance     Statement `json:"yearly_balance"`
	YearlyCashFlow    Statement `json:"yearly_cashflow"`
	QuarterlyIncome   Statement `json:"quarterly_income"`
	QuarterlyBalance  Statement `json:"quarterly_balance"`
	QuarterlyCashFlow Statement `json:"quarterly_cashflow"`
}

// EmptyStatements returns a FinancialStatements with all six tables empty.
func EmptyStatements() FinancialStatements {
	return FinancialStatements{
		YearlyIncome:      Statement{},
		YearlyBalance:     Statement{},
		YearlyCashFlow:    Statement{},
		QuarterlyIncome:   Statement{},
		QuarterlyBalance:  Statement{},
		QuarterlyCashFlow: Statement{},
	}
}

// Table selects one of the six tables by period and type.
func (f FinancialStatements) Table(p Period, t StatementType) Statement {
	switch {
	case p == PeriodYearly && t == StatementIncome:
		return f.YearlyIncome
	case p == PeriodYearly && t == StatementBalance:
		return f.YearlyBalance
	case p == PeriodYearly && t == StatementCashFlow:
		return f.YearlyCashFlow
	case p == PeriodQuarterly && t == StatementIncome:
		return f.QuarterlyIncome
	case p == PeriodQuarterly && t == StatementBalance:
		return f.QuarterlyBalance
	case p == PeriodQuarterly && t == StatementCashFlow:
		return f.QuarterlyCashFlow
	}
	return Statement{}
}
