package yfinance

import (
	"context"
	"fmt"
	"time"

	"github.com/quantatlas/fundsheet/internal/provider"
	"github.com/quantatlas/fundsheet/pkg/models"
)

// --- Snapshot fetcher ---

// snapshotModules are fetched in one quoteSummary call. Their order is the
// merge preference: when two modules report the same field, the earlier
// module's value wins.
const snapshotModules = "price,summaryDetail,defaultKeyStatistics,financialData"

type snapshotFetcher struct {
	provider.BaseFetcher
}

func newSnapshotFetcher() *snapshotFetcher {
	return &snapshotFetcher{
		BaseFetcher: provider.NewBaseFetcher(
			provider.ModelSnapshot,
			"Current quote, key statistics and valuation snapshot from Yahoo Finance",
			[]string{provider.ParamSymbol},
			nil,
			15*time.Minute, 5, time.Second,
		),
	}
}

func (f *snapshotFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	symbol := params[provider.ParamSymbol]

	cacheKey := provider.CacheKey(f.ModelType(), params)
	if cached, ok := f.CacheGet(cacheKey); ok {
		return newCachedResult(cached), nil
	}
	if err := f.RateLimit(ctx); err != nil {
		return nil, err
	}

	r, err := quoteSummary(ctx, symbol, snapshotModules)
	if err != nil {
		return nil, fmt.Errorf("yfinance snapshot %s: %w", symbol, err)
	}

	snap := buildSnapshot(symbol, r)
	f.CacheSet(cacheKey, snap)
	return newResult(snap), nil
}

// buildSnapshot merges the quoteSummary modules into one flat field map.
func buildSnapshot(symbol string, r *yfQuoteSummaryResult) *models.Snapshot {
	snap := &models.Snapshot{
		Symbol:    symbol,
		Fields:    make(map[string]float64),
		FetchedAt: time.Now(),
	}

	snap.Name = firstStr(r.Price, "longName", "shortName")
	snap.Currency = firstStr(r.Price, "currency")

	for _, module := range []yfModule{r.Price, r.SummaryDetail, r.DefaultKeyStatistics, r.FinancialData} {
		for key, v := range module {
			if !v.Valid {
				continue
			}
			if _, seen := snap.Fields[key]; seen {
				continue
			}
			snap.Fields[key] = v.Raw
		}
	}

	if v, ok := r.Price["regularMarketPrice"]; ok && v.Valid {
		snap.Price = v.Raw
	} else if v, ok := r.FinancialData["currentPrice"]; ok && v.Valid {
		snap.Price = v.Raw
	}

	return snap
}

// firstStr returns the first non-empty string field among names.
func firstStr(module yfModule, names ...string) string {
	for _, name := range names {
		if v, ok := module[name]; ok && v.Str != "" {
			return v.Str
		}
	}
	return ""
}
