// Package fundamentals implements the fundamentals normalization engine: it
// reconciles inconsistently-labeled financial statement data into a fixed
// year-by-metric table, computing derived ratios along the way.
package fundamentals

import (
	"math"
	"strconv"
	"time"
)

// PeriodActual is the synthetic period representing the latest available
// snapshot, distinct from the historical fiscal years.
const PeriodActual = "actual"

// Metric identifies one output row of the fundamentals table.
type Metric string

// Representative values.
const (
	MetricMarketCap       Metric = "market_cap"
	MetricPE              Metric = "pe"
	MetricEPS             Metric = "eps"
	MetricBeta            Metric = "beta"
	MetricYearRange       Metric = "year_range"
	MetricDividendsSplits Metric = "dividends_splits"
	MetricPayoutRatio     Metric = "payout_ratio"
)

// Financials.
const (
	MetricTotalRevenue Metric = "total_revenue"
	MetricNetIncome    Metric = "net_income"
	MetricProfitMargin Metric = "profit_margin"
	MetricROE          Metric = "roe"
)

// Balance sheets.
const (
	MetricTotalAssets        Metric = "total_assets"
	MetricTotalLiabilities   Metric = "total_liabilities"
	MetricTotalEquity        Metric = "total_equity"
	MetricCashAndEquivalents Metric = "cash_and_equivalents"
	MetricWorkingCapital     Metric = "working_capital"
	MetricInvestedCapital    Metric = "invested_capital"
	MetricNetTangibleAssets  Metric = "net_tangible_assets"
	MetricTotalDebts         Metric = "total_debts"
)

// Section groups metrics under a labeled report section.
type Section struct {
	Name    string
	Metrics []Metric
}

// Sections returns the fixed report layout: every metric, grouped and
// ordered. The order here is the row order of both CSV variants.
func Sections() []Section {
	return []Section{
		{
			Name: "representative values",
			Metrics: []Metric{
				MetricMarketCap, MetricPE, MetricEPS, MetricBeta,
				MetricYearRange, MetricDividendsSplits, MetricPayoutRatio,
			},
		},
		{
			Name: "financials",
			Metrics: []Metric{
				MetricTotalRevenue, MetricNetIncome, MetricProfitMargin, MetricROE,
			},
		},
		{
			Name: "balance sheets",
			Metrics: []Metric{
				MetricTotalAssets, MetricTotalLiabilities, MetricTotalEquity,
				MetricCashAndEquivalents, MetricWorkingCapital,
				MetricInvestedCapital, MetricNetTangibleAssets, MetricTotalDebts,
			},
		},
	}
}

// RowMetrics returns the fixed ordered set of all output metrics.
func RowMetrics() []Metric {
	var out []Metric
	for _, s := range Sections() {
		out = append(out, s.Metrics...)
	}
	return out
}

// CellKind discriminates the value held by a Cell.
type CellKind int

const (
	KindNull CellKind = iota
	KindNumber
	KindRange
	KindEvents
)

// Cell is one value of the fundamentals table: a number, a formatted
// "low-high" range, a dividends/splits event record, or null.
type Cell struct {
	Kind      CellKind
	Number    float64
	Range     string
	Dividends *float64 // nil when no dividends were paid in the period
	Splits    []string // empty when no splits occurred in the period
}

// Null returns the null cell.
func Null() Cell {
	return Cell{Kind: KindNull}
}

// Number returns a numeric cell. NaN and Inf collapse to null so they can
// never leak into a report.
func Number(v float64) Cell {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Null()
	}
	return Cell{Kind: KindNumber, Number: v}
}

// Range returns a formatted "low-high" range cell.
func Range(s string) Cell {
	if s == "" {
		return Null()
	}
	return Cell{Kind: KindRange, Range: s}
}

// Events returns a dividends/splits cell. Both parts empty yields a
// well-formed events cell whose report rows are both blank.
func Events(dividends *float64, splits []string) Cell {
	return Cell{Kind: KindEvents, Dividends: dividends, Splits: splits}
}

// IsNull reports whether the cell is null.
func (c Cell) IsNull() bool {
	return c.Kind == KindNull
}

// Table is the assembled fundamentals table for one ticker: every metric of
// RowMetrics × every period of [years..., "actual"], dense: absent data is
// a null cell, never a missing key. Never mutated after assembly.
type Table struct {
	Ticker      string
	CompanyName string
	AsOfDate    time.Time
	AsOfPrice   *float64 // nil when no current price could be determined
	Years       []int
	cells       map[Metric]map[string]Cell
}

// NewTable creates a dense, all-null table for the given ticker and years.
func NewTable(ticker string, years []int) *Table {
	t := &Table{
		Ticker: ticker,
		Years:  append([]int(nil), years...),
		cells:  make(map[Metric]map[string]Cell),
	}
	for _, m := range RowMetrics() {
		row := make(map[string]Cell, len(years)+1)
		for _, p := range t.Periods() {
			row[p] = Null()
		}
		t.cells[m] = row
	}
	return t
}

// Periods returns the column order: each year as a string, then "actual".
func (t *Table) Periods() []string {
	out := make([]string, 0, len(t.Years)+1)
	for _, y := range t.Years {
		out = append(out, yearLabel(y))
	}
	return append(out, PeriodActual)
}

// Set stores a cell. Unknown metrics or periods are ignored to preserve the
// fixed table shape.
func (t *Table) Set(m Metric, period string, c Cell) {
	row, ok := t.cells[m]
	if !ok {
		return
	}
	if _, ok := row[period]; !ok {
		return
	}
	row[period] = c
}

// Get returns the cell for (metric, period); null for anything outside the
// fixed shape.
func (t *Table) Get(m Metric, period string) Cell {
	if row, ok := t.cells[m]; ok {
		if c, ok := row[period]; ok {
			return c
		}
	}
	return Null()
}

func yearLabel(year int) string {
	return strconv.Itoa(year)
}
