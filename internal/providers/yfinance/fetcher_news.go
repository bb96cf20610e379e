package yfinance

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/quantatlas/fundsheet/internal/infra"
	"github.com/quantatlas/fundsheet/internal/provider"
	"github.com/quantatlas/fundsheet/pkg/models"
)

// --- CompanyNews fetcher ---

type companyNewsFetcher struct {
	provider.BaseFetcher
}

func newCompanyNewsFetcher() *companyNewsFetcher {
	return &companyNewsFetcher{
		BaseFetcher: provider.NewBaseFetcher(
			provider.ModelCompanyNews,
			"Recent headlines from the Yahoo Finance RSS feed",
			[]string{provider.ParamSymbol},
			nil,
			10*time.Minute, 5, time.Second,
		),
	}
}

func (f *companyNewsFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	symbol := params[provider.ParamSymbol]

	cacheKey := provider.CacheKey(f.ModelType(), params)
	if cached, ok := f.CacheGet(cacheKey); ok {
		return newCachedResult(cached), nil
	}
	if err := f.RateLimit(ctx); err != nil {
		return nil, err
	}

	feedURL := fmt.Sprintf(
		"%s/rss/2.0/headline?s=%s&region=US&lang=en-US",
		rssBaseURL, url.QueryEscape(symbol),
	)
	body, _, err := infra.DoGet(ctx, feedURL, map[string]string{"Accept": "application/rss+xml"})
	if err != nil {
		return nil, fmt.Errorf("yfinance news %s: %w", symbol, err)
	}
	defer body.Close()

	feed, err := gofeed.NewParser().Parse(body)
	if err != nil {
		return nil, fmt.Errorf("yfinance news %s: parse feed: %w", symbol, err)
	}

	items := make([]models.NewsItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		item := models.NewsItem{
			Title:  it.Title,
			Link:   it.Link,
			Source: feed.Title,
		}
		if it.PublishedParsed != nil {
			item.PublishedAt = *it.PublishedParsed
		}
		items = append(items, item)
	}

	f.CacheSet(cacheKey, items)
	return newResult(items), nil
}
