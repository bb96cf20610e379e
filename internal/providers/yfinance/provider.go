// Package yfinance implements the Yahoo Finance data provider.
// It wraps Yahoo Finance's public APIs (v8 chart, v10 quoteSummary, the
// headline RSS feed) and the quote profile page into the standard
// provider/fetcher framework.
//
// Yahoo Finance is a free, no-API-key provider that covers equities,
// ETFs, indices, crypto, currencies, and futures worldwide.
package yfinance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/quantatlas/fundsheet/internal/infra"
	"github.com/quantatlas/fundsheet/internal/provider"
)

const providerName = "yfinance"

// Endpoint roots, declared as variables so tests can point fetchers at a
// local server.
var (
	query1BaseURL = "https://query1.finance.yahoo.com"
	webBaseURL    = "https://finance.yahoo.com"
	rssBaseURL    = "https://feeds.finance.yahoo.com"
)

// Provider implements provider.Provider for Yahoo Finance.
type Provider struct {
	provider.BaseProvider
}

// New creates a new YFinance provider and registers all fetchers.
func New() *Provider {
	p := &Provider{
		BaseProvider: provider.NewBaseProvider(
			providerName,
			"Yahoo Finance - free global financial data",
			"https://finance.yahoo.com",
		),
	}

	// --- Fundamentals ---
	p.RegisterFetcher(newIncomeStatementFetcher())
	p.RegisterFetcher(newBalanceSheetFetcher())

	// --- Price ---
	p.RegisterFetcher(newPriceHistoryFetcher())
	p.RegisterFetcher(newSnapshotFetcher())

	// --- Company ---
	p.RegisterFetcher(newCompanyProfileFetcher())
	p.RegisterFetcher(newCompanyNewsFetcher())

	return p
}

// Ping checks connectivity to Yahoo Finance.
func (p *Provider) Ping(ctx context.Context) error {
	url := fmt.Sprintf("%s/v8/finance/chart/AAPL?range=1d&interval=1d", query1BaseURL)
	body, _, err := infra.DoGet(ctx, url, jsonHeaders())
	if err != nil {
		return fmt.Errorf("yfinance ping: %w", err)
	}
	body.Close()
	return nil
}

// --- Shared helpers ---

func jsonHeaders() map[string]string {
	return map[string]string{"Accept": "application/json"}
}

// fetchJSON performs a GET request and decodes the response into dest.
func fetchJSON(ctx context.Context, url string, dest any) error {
	body, _, err := infra.DoGet(ctx, url, jsonHeaders())
	if err != nil {
		return err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("parse JSON: %w", err)
	}
	return nil
}

// quoteSummary fetches one or more v10 quoteSummary modules for a symbol.
func quoteSummary(ctx context.Context, symbol, modules string) (*yfQuoteSummaryResult, error) {
	url := fmt.Sprintf(
		"%s/v10/finance/quoteSummary/%s?modules=%s",
		query1BaseURL, symbol, modules,
	)

	var resp yfQuoteSummaryResponse
	if err := fetchJSON(ctx, url, &resp); err != nil {
		return nil, err
	}
	if resp.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yfinance API error: %s", resp.QuoteSummary.Error.Description)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("empty quoteSummary result for %s", symbol)
	}
	return &resp.QuoteSummary.Result[0], nil
}

// newResult creates a FetchResult with the current timestamp.
func newResult(data any) *provider.FetchResult {
	return &provider.FetchResult{
		Data:      data,
		FetchedAt: time.Now(),
	}
}

// newCachedResult creates a FetchResult marked as cached.
func newCachedResult(data any) *provider.FetchResult {
	return &provider.FetchResult{
		Data:      data,
		FetchedAt: time.Now(),
		Cached:    true,
	}
}
