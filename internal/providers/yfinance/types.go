package yfinance

import (
	"encoding/json"
	"fmt"
)

// --- Yahoo Finance API response types ---

// yfFinVal is a single Yahoo value. The APIs are inconsistent about shape:
// most fields arrive as {"raw": 1.23, "fmt": "1.23"}, some as bare numbers
// (maxAge), some as strings (longName, currency). The tolerant unmarshaler
// accepts all three; anything else leaves the value invalid.
type yfFinVal struct {
	Raw   float64
	Fmt   string
	Str   string
	Valid bool
}

func (v *yfFinVal) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	switch data[0] {
	case '{':
		var obj struct {
			Raw *float64 `json:"raw"`
			Fmt string   `json:"fmt"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil
		}
		if obj.Raw != nil {
			v.Raw = *obj.Raw
			v.Valid = true
		}
		v.Fmt = obj.Fmt
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		v.Str = s
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return nil
		}
		v.Raw = f
		v.Valid = true
	}
	return nil
}

// yfModule is one quoteSummary module as a flat field map. String-valued
// fields land in Str, numeric ones in Raw.
type yfModule map[string]yfFinVal

// yfStatement is one reported statement: line-item key → value, plus the
// bookkeeping keys endDate and maxAge.
type yfStatement map[string]yfFinVal

// yfQuoteSummaryResponse wraps the v10 quoteSummary API response.
type yfQuoteSummaryResponse struct {
	QuoteSummary struct {
		Result []yfQuoteSummaryResult `json:"result"`
		Error  *yfError               `json:"error"`
	} `json:"quoteSummary"`
}

type yfQuoteSummaryResult struct {
	IncomeStatementHistory *yfIncomeStatementHistory `json:"incomeStatementHistory"`
	BalanceSheetHistory    *yfBalanceSheetHistory    `json:"balanceSheetHistory"`

	Price                yfModule `json:"price"`
	SummaryDetail        yfModule `json:"summaryDetail"`
	DefaultKeyStatistics yfModule `json:"defaultKeyStatistics"`
	FinancialData        yfModule `json:"financialData"`
}

// The statement containers repeat the module name as the array key, except
// balance sheets, which Yahoo names "balanceSheetStatements".
type yfIncomeStatementHistory struct {
	Statements []yfStatement `json:"incomeStatementHistory"`
}

type yfBalanceSheetHistory struct {
	Statements []yfStatement `json:"balanceSheetStatements"`
}

// yfChartResponse wraps the v8 chart API response.
type yfChartResponse struct {
	Chart struct {
		Result []yfChartResult `json:"result"`
		Error  *yfError        `json:"error"`
	} `json:"chart"`
}

type yfChartResult struct {
	Meta       yfChartMeta    `json:"meta"`
	Timestamp  []int64        `json:"timestamp"`
	Events     *yfChartEvents `json:"events"`
	Indicators yfIndicators   `json:"indicators"`
}

type yfChartMeta struct {
	Symbol               string  `json:"symbol"`
	Currency             string  `json:"currency"`
	ExchangeName         string  `json:"exchangeName"`
	ExchangeTimezoneName string  `json:"exchangeTimezoneName"`
	InstrumentType       string  `json:"instrumentType"`
	RegularMarketPrice   float64 `json:"regularMarketPrice"`
}

type yfChartEvents struct {
	Dividends map[string]yfDividendEvent `json:"dividends"`
	Splits    map[string]yfSplitEvent    `json:"splits"`
}

type yfDividendEvent struct {
	Amount float64 `json:"amount"`
	Date   int64   `json:"date"`
}

type yfSplitEvent struct {
	Date        int64   `json:"date"`
	Numerator   float64 `json:"numerator"`
	Denominator float64 `json:"denominator"`
	SplitRatio  string  `json:"splitRatio"`
}

func (e yfSplitEvent) Ratio() string {
	if e.SplitRatio != "" {
		return e.SplitRatio
	}
	if e.Denominator == 0 {
		return ""
	}
	return fmt.Sprintf("%g:%g", e.Numerator, e.Denominator)
}

type yfIndicators struct {
	Quote    []yfOHLCV    `json:"quote"`
	AdjClose []yfAdjClose `json:"adjclose"`
}

type yfOHLCV struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}

type yfAdjClose struct {
	AdjClose []*float64 `json:"adjclose"`
}

type yfError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}
