package report

import (
	"strconv"
	"strings"

	"github.com/quantatlas/fundsheet/internal/fundamentals"
	"github.com/quantatlas/fundsheet/pkg/utils"
)

// Output row names for the expanded dividends/splits composite.
const (
	rowDividends = "dividends"
	rowSplits    = "splits"
)

// splitDelimiter joins multiple split events in one cell.
const splitDelimiter = ", "

// moneyMetrics are formatted as compact monetary amounts in the readable
// variant.
var moneyMetrics = map[string]bool{
	string(fundamentals.MetricMarketCap):          true,
	string(fundamentals.MetricTotalRevenue):       true,
	string(fundamentals.MetricNetIncome):          true,
	string(fundamentals.MetricTotalAssets):        true,
	string(fundamentals.MetricTotalLiabilities):   true,
	string(fundamentals.MetricTotalEquity):        true,
	string(fundamentals.MetricCashAndEquivalents): true,
	string(fundamentals.MetricWorkingCapital):     true,
	string(fundamentals.MetricInvestedCapital):    true,
	string(fundamentals.MetricNetTangibleAssets):  true,
	string(fundamentals.MetricTotalDebts):         true,
}

// ratioMetrics are formatted as percentages in the readable variant.
var ratioMetrics = map[string]bool{
	string(fundamentals.MetricProfitMargin): true,
	string(fundamentals.MetricROE):          true,
	string(fundamentals.MetricPayoutRatio):  true,
}

// rawCell renders a cell without formatting: numbers as-is, nulls as empty
// strings. The empty string is the only null representation in either
// variant; "None", "null" and "NaN" must never appear.
func rawCell(rowName string, c fundamentals.Cell) string {
	switch c.Kind {
	case fundamentals.KindNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case fundamentals.KindRange:
		return c.Range
	case fundamentals.KindEvents:
		if rowName == rowSplits {
			return strings.Join(c.Splits, splitDelimiter)
		}
		if c.Dividends == nil {
			return ""
		}
		return strconv.FormatFloat(*c.Dividends, 'f', -1, 64)
	default:
		return ""
	}
}

// readableCell renders a cell with per-metric formatting: monetary aggregates
// compacted to M/B, ratios as percentages, price scalars to two decimals.
func readableCell(rowName string, c fundamentals.Cell) string {
	switch c.Kind {
	case fundamentals.KindNumber:
		switch {
		case moneyMetrics[rowName]:
			return utils.FormatCompactMoney(c.Number)
		case ratioMetrics[rowName]:
			return utils.FormatPct(c.Number)
		default:
			// eps, pe, beta
			return strconv.FormatFloat(c.Number, 'f', 2, 64)
		}
	case fundamentals.KindRange:
		return c.Range
	case fundamentals.KindEvents:
		if rowName == rowSplits {
			return strings.Join(c.Splits, splitDelimiter)
		}
		if c.Dividends == nil {
			return ""
		}
		return strconv.FormatFloat(*c.Dividends, 'f', 2, 64)
	default:
		return ""
	}
}
