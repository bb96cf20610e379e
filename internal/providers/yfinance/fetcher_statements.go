package yfinance

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/quantatlas/fundsheet/internal/provider"
	"github.com/quantatlas/fundsheet/pkg/models"
)

// --- IncomeStatement fetcher ---

type incomeStatementFetcher struct {
	provider.BaseFetcher
}

func newIncomeStatementFetcher() *incomeStatementFetcher {
	return &incomeStatementFetcher{
		BaseFetcher: provider.NewBaseFetcher(
			provider.ModelIncomeStatement,
			"Annual income statement history from Yahoo Finance",
			[]string{provider.ParamSymbol},
			nil,
			1*time.Hour, 5, time.Second,
		),
	}
}

func (f *incomeStatementFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	symbol := params[provider.ParamSymbol]

	cacheKey := provider.CacheKey(f.ModelType(), params)
	if cached, ok := f.CacheGet(cacheKey); ok {
		return newCachedResult(cached), nil
	}
	if err := f.RateLimit(ctx); err != nil {
		return nil, err
	}

	r, err := quoteSummary(ctx, symbol, "incomeStatementHistory")
	if err != nil {
		return nil, fmt.Errorf("yfinance income statement %s: %w", symbol, err)
	}

	var stmts []yfStatement
	if r.IncomeStatementHistory != nil {
		stmts = r.IncomeStatementHistory.Statements
	}

	table := statementTable(symbol, stmts)
	f.CacheSet(cacheKey, table)
	return newResult(table), nil
}

// --- BalanceSheet fetcher ---

type balanceSheetFetcher struct {
	provider.BaseFetcher
}

func newBalanceSheetFetcher() *balanceSheetFetcher {
	return &balanceSheetFetcher{
		BaseFetcher: provider.NewBaseFetcher(
			provider.ModelBalanceSheet,
			"Annual balance sheet history from Yahoo Finance",
			[]string{provider.ParamSymbol},
			nil,
			1*time.Hour, 5, time.Second,
		),
	}
}

func (f *balanceSheetFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	symbol := params[provider.ParamSymbol]

	cacheKey := provider.CacheKey(f.ModelType(), params)
	if cached, ok := f.CacheGet(cacheKey); ok {
		return newCachedResult(cached), nil
	}
	if err := f.RateLimit(ctx); err != nil {
		return nil, err
	}

	r, err := quoteSummary(ctx, symbol, "balanceSheetHistory")
	if err != nil {
		return nil, fmt.Errorf("yfinance balance sheet %s: %w", symbol, err)
	}

	var stmts []yfStatement
	if r.BalanceSheetHistory != nil {
		stmts = r.BalanceSheetHistory.Statements
	}

	table := statementTable(symbol, stmts)
	f.CacheSet(cacheKey, table)
	return newResult(table), nil
}

// --- Shared statement parsing ---

// statementTable flattens a list of reported statements into a label × period
// table. Each statement contributes one period column keyed by its end date;
// line-item keys become row labels verbatim, so downstream label matching sees
// exactly what Yahoo sent.
func statementTable(symbol string, stmts []yfStatement) *models.StatementTable {
	table := models.NewStatementTable(symbol)
	for _, stmt := range stmts {
		period := statementPeriod(stmt)
		if period == "" {
			continue
		}
		for _, key := range sortedKeys(stmt) {
			if key == "endDate" || key == "maxAge" {
				continue
			}
			if v := stmt[key]; v.Valid {
				table.Set(key, period, v.Raw)
			}
		}
	}
	return table
}

// statementPeriod returns the statement's end date as a period label,
// preferring Yahoo's own formatted date over the epoch.
func statementPeriod(stmt yfStatement) string {
	end, ok := stmt["endDate"]
	if !ok {
		return ""
	}
	if end.Fmt != "" {
		return end.Fmt
	}
	if end.Valid {
		return time.Unix(int64(end.Raw), 0).UTC().Format("2006-01-02")
	}
	return end.Str
}

// sortedKeys gives a stable row order per statement.
func sortedKeys(stmt yfStatement) []string {
	keys := make([]string, 0, len(stmt))
	for k := range stmt {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
