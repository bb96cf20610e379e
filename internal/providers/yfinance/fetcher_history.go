package yfinance

import (
	"context"
	"fmt"
	"time"

	"github.com/quantatlas/fundsheet/internal/provider"
	"github.com/quantatlas/fundsheet/pkg/models"
	"github.com/quantatlas/fundsheet/pkg/utils"
)

// --- PriceHistory fetcher ---

type priceHistoryFetcher struct {
	provider.BaseFetcher
}

func newPriceHistoryFetcher() *priceHistoryFetcher {
	return &priceHistoryFetcher{
		BaseFetcher: provider.NewBaseFetcher(
			provider.ModelPriceHistory,
			"Daily OHLCV bars with dividend and split events from Yahoo Finance",
			[]string{provider.ParamSymbol},
			[]string{provider.ParamStartDate, provider.ParamEndDate, provider.ParamInterval},
			15*time.Minute, 5, time.Second,
		),
	}
}

func (f *priceHistoryFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	symbol := params[provider.ParamSymbol]

	cacheKey := provider.CacheKey(f.ModelType(), params)
	if cached, ok := f.CacheGet(cacheKey); ok {
		return newCachedResult(cached), nil
	}
	if err := f.RateLimit(ctx); err != nil {
		return nil, err
	}

	interval := params[provider.ParamInterval]
	if interval == "" {
		interval = "1d"
	}
	period1 := dateToEpoch(params[provider.ParamStartDate], 0)
	period2 := dateToEpoch(params[provider.ParamEndDate], time.Now().Unix())

	url := fmt.Sprintf(
		"%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=%s&events=div%%7Csplit",
		query1BaseURL, symbol, period1, period2, interval,
	)

	var resp yfChartResponse
	if err := fetchJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("yfinance price history %s: %w", symbol, err)
	}
	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("yfinance API error: %s", resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("no chart data for %s", symbol)
	}

	history := chartHistory(symbol, resp.Chart.Result[0])
	f.CacheSet(cacheKey, history)
	return newResult(history), nil
}

// chartHistory converts a chart result into a price history, stamping bars
// in the exchange's own timezone and merging the dividend and split events
// onto the bars that share their trading day.
func chartHistory(symbol string, r yfChartResult) *models.PriceHistory {
	loc := utils.LoadLocation(r.Meta.ExchangeTimezoneName)

	history := &models.PriceHistory{
		Symbol:   symbol,
		Currency: r.Meta.Currency,
		Timezone: r.Meta.ExchangeTimezoneName,
	}

	var quote yfOHLCV
	if len(r.Indicators.Quote) > 0 {
		quote = r.Indicators.Quote[0]
	}
	var adj []*float64
	if len(r.Indicators.AdjClose) > 0 {
		adj = r.Indicators.AdjClose[0].AdjClose
	}

	divByDay, splitByDay := eventIndex(r.Events, loc)

	for i, ts := range r.Timestamp {
		// Yahoo pads halted sessions with null rows; a bar without a close
		// carries no information.
		if at(quote.Close, i) == nil {
			continue
		}
		bar := models.PriceBar{
			Date:  time.Unix(ts, 0).In(loc),
			Close: *at(quote.Close, i),
		}
		if v := at(quote.Open, i); v != nil {
			bar.Open = *v
		}
		if v := at(quote.High, i); v != nil {
			bar.High = *v
		}
		if v := at(quote.Low, i); v != nil {
			bar.Low = *v
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			bar.Volume = *quote.Volume[i]
		}
		if v := at(adj, i); v != nil {
			bar.AdjClose = *v
		} else {
			bar.AdjClose = bar.Close
		}

		day := bar.Date.Format("2006-01-02")
		bar.Dividend = divByDay[day]
		bar.SplitRatio = splitByDay[day]

		history.Bars = append(history.Bars, bar)
	}

	return history
}

// eventIndex buckets dividend and split events by trading day.
func eventIndex(events *yfChartEvents, loc *time.Location) (map[string]float64, map[string]string) {
	dividends := make(map[string]float64)
	splits := make(map[string]string)
	if events == nil {
		return dividends, splits
	}
	for _, d := range events.Dividends {
		day := time.Unix(d.Date, 0).In(loc).Format("2006-01-02")
		dividends[day] += d.Amount
	}
	for _, s := range events.Splits {
		day := time.Unix(s.Date, 0).In(loc).Format("2006-01-02")
		splits[day] = s.Ratio()
	}
	return dividends, splits
}

func at(xs []*float64, i int) *float64 {
	if i < len(xs) {
		return xs[i]
	}
	return nil
}

// dateToEpoch parses a YYYY-MM-DD parameter into a Unix timestamp.
func dateToEpoch(date string, fallback int64) int64 {
	if date == "" {
		return fallback
	}
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return fallback
	}
	return d.Unix()
}
