package yfinance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/quantatlas/fundsheet/internal/infra"
	"github.com/quantatlas/fundsheet/internal/provider"
	"github.com/quantatlas/fundsheet/pkg/models"
)

// --- CompanyProfile fetcher ---
//
// The profile is scraped from the quote page rather than an API: it exists
// as a fallback for symbols whose quoteSummary modules omit the long name.

type companyProfileFetcher struct {
	provider.BaseFetcher
}

func newCompanyProfileFetcher() *companyProfileFetcher {
	return &companyProfileFetcher{
		BaseFetcher: provider.NewBaseFetcher(
			provider.ModelCompanyProfile,
			"Company name, sector and industry scraped from the Yahoo Finance profile page",
			[]string{provider.ParamSymbol},
			nil,
			24*time.Hour, 2, time.Second,
		),
	}
}

func (f *companyProfileFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	symbol := params[provider.ParamSymbol]

	cacheKey := provider.CacheKey(f.ModelType(), params)
	if cached, ok := f.CacheGet(cacheKey); ok {
		return newCachedResult(cached), nil
	}
	if err := f.RateLimit(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/quote/%s/profile", webBaseURL, symbol)
	body, _, err := infra.DoGet(ctx, url, map[string]string{"Accept": "text/html"})
	if err != nil {
		return nil, fmt.Errorf("yfinance profile %s: %w", symbol, err)
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("yfinance profile %s: parse HTML: %w", symbol, err)
	}

	profile := parseProfile(symbol, doc)
	if profile.Name == "" {
		return nil, fmt.Errorf("yfinance profile %s: no company name on page", symbol)
	}

	f.CacheSet(cacheKey, profile)
	return newResult(profile), nil
}

func parseProfile(symbol string, doc *goquery.Document) *models.CompanyProfile {
	profile := &models.CompanyProfile{Symbol: symbol}

	// The page heading reads "Apple Inc. (AAPL)".
	heading := strings.TrimSpace(doc.Find("h1").First().Text())
	profile.Name = stripSymbolSuffix(heading)

	// Sector and industry are links into the sector browse tree.
	doc.Find("a").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		text := strings.TrimSpace(sel.Text())
		if text == "" {
			return true
		}
		switch {
		case profile.Sector == "" && strings.Contains(href, "/sectors/") && !strings.Contains(href, "/industries/"):
			profile.Sector = text
		case profile.Industry == "" && strings.Contains(href, "/industries/"):
			profile.Industry = text
		}
		return profile.Sector == "" || profile.Industry == ""
	})

	return profile
}

// stripSymbolSuffix removes a trailing "(SYM)" from a page heading.
func stripSymbolSuffix(heading string) string {
	if !strings.HasSuffix(heading, ")") {
		return heading
	}
	if idx := strings.LastIndex(heading, " ("); idx > 0 {
		return heading[:idx]
	}
	return heading
}
