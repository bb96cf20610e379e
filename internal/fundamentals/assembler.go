package fundamentals

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/phuslu/log"

	"github.com/quantatlas/fundsheet/internal/provider"
	"github.com/quantatlas/fundsheet/pkg/models"
)

// ErrFetchFailure signals that the upstream provider returned nothing usable
// for a ticker: no statement data and no price history. The caller skips
// report generation for that ticker and moves on.
var ErrFetchFailure = errors.New("no usable upstream data")

// Assembler orchestrates extraction for one ticker at a time: it fetches
// the statement tables, price history and snapshot through the provider
// registry, runs every extractor across the configured year range plus the
// "actual" column, and assembles the dense fundamentals table.
type Assembler struct {
	registry  *provider.Registry
	years     []int
	benchmark string
}

// NewAssembler creates an assembler for the given immutable year range and
// benchmark index symbol.
func NewAssembler(registry *provider.Registry, years []int, benchmark string) *Assembler {
	return &Assembler{
		registry:  registry,
		years:     append([]int(nil), years...),
		benchmark: benchmark,
	}
}

// Assemble fetches and normalizes fundamentals for one ticker.
//
// Failure policy: only the combination of an empty income statement AND an
// empty price history aborts with ErrFetchFailure. Every individually
// missing input degrades to null cells.
func (a *Assembler) Assemble(ctx context.Context, ticker string) (*Table, error) {
	if len(a.years) == 0 {
		return nil, fmt.Errorf("assemble %s: empty year range", ticker)
	}

	in := a.fetchInputs(ctx, ticker)

	if in.Income.Empty() && in.Prices.Empty() {
		return nil, fmt.Errorf("assemble %s: %w", ticker, ErrFetchFailure)
	}

	table := NewTable(ticker, a.years)
	table.AsOfDate = time.Now()
	table.AsOfPrice = a.currentPrice(in)
	if in.Snapshot != nil {
		table.CompanyName = in.Snapshot.Name
	}

	for _, ex := range Extractors() {
		for _, year := range a.years {
			table.Set(ex.Metric, strconv.Itoa(year), ex.Year(in, year))
		}
		table.Set(ex.Metric, PeriodActual, ex.Actual(in))
	}

	return table, nil
}

// fetchInputs gathers the upstream data, degrading each failed fetch to an
// absent input rather than an error.
func (a *Assembler) fetchInputs(ctx context.Context, ticker string) *Inputs {
	in := &Inputs{}

	if data, err := a.fetch(ctx, provider.ModelIncomeStatement, provider.QueryParams{provider.ParamSymbol: ticker}); err == nil {
		in.Income, _ = data.(*models.StatementTable)
	} else {
		log.Warn().Str("ticker", ticker).Err(err).Msg("income statement unavailable")
	}

	if data, err := a.fetch(ctx, provider.ModelBalanceSheet, provider.QueryParams{provider.ParamSymbol: ticker}); err == nil {
		in.Balance, _ = data.(*models.StatementTable)
	} else {
		log.Warn().Str("ticker", ticker).Err(err).Msg("balance sheet unavailable")
	}

	start := fmt.Sprintf("%d-01-01", a.years[0])
	end := time.Now().Format("2006-01-02")
	historyParams := func(symbol string) provider.QueryParams {
		return provider.QueryParams{
			provider.ParamSymbol:    symbol,
			provider.ParamStartDate: start,
			provider.ParamEndDate:   end,
		}
	}

	if data, err := a.fetch(ctx, provider.ModelPriceHistory, historyParams(ticker)); err == nil {
		in.Prices, _ = data.(*models.PriceHistory)
	} else {
		log.Warn().Str("ticker", ticker).Err(err).Msg("price history unavailable")
	}

	if data, err := a.fetch(ctx, provider.ModelPriceHistory, historyParams(a.benchmark)); err == nil {
		in.Benchmark, _ = data.(*models.PriceHistory)
	} else {
		log.Warn().Str("ticker", ticker).Str("benchmark", a.benchmark).Err(err).Msg("benchmark history unavailable")
	}

	if data, err := a.fetch(ctx, provider.ModelSnapshot, provider.QueryParams{provider.ParamSymbol: ticker}); err == nil {
		in.Snapshot, _ = data.(*models.Snapshot)
	} else {
		log.Warn().Str("ticker", ticker).Err(err).Msg("summary snapshot unavailable")
	}

	// Company name fallback: scrape the profile when the snapshot lacks one.
	if in.Snapshot == nil || in.Snapshot.Name == "" {
		if data, err := a.fetch(ctx, provider.ModelCompanyProfile, provider.QueryParams{provider.ParamSymbol: ticker}); err == nil {
			if profile, ok := data.(*models.CompanyProfile); ok && profile.Name != "" {
				if in.Snapshot == nil {
					in.Snapshot = &models.Snapshot{Symbol: ticker, Fields: map[string]float64{}}
				}
				in.Snapshot.Name = profile.Name
			}
		}
	}

	return in
}

func (a *Assembler) fetch(ctx context.Context, model provider.ModelType, params provider.QueryParams) (any, error) {
	result, err := a.registry.Fetch(ctx, model, params)
	if err != nil {
		return nil, err
	}
	return result.Data, nil
}

// currentPrice prefers the snapshot's market price and falls back to the
// last available close in the price history.
func (a *Assembler) currentPrice(in *Inputs) *float64 {
	if in.Snapshot != nil && in.Snapshot.Price != 0 {
		p := in.Snapshot.Price
		return &p
	}
	if !in.Prices.Empty() {
		p := in.Prices.Bars[len(in.Prices.Bars)-1].Close
		return &p
	}
	return nil
}
