package fundamentals

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/quantatlas/fundsheet/internal/provider"
	"github.com/quantatlas/fundsheet/pkg/models"
)

type stubFetcher struct {
	model provider.ModelType
	data  any
	err   error
}

func (f *stubFetcher) ModelType() provider.ModelType { return f.model }
func (f *stubFetcher) Description() string           { return "stub" }
func (f *stubFetcher) RequiredParams() []string      { return []string{provider.ParamSymbol} }
func (f *stubFetcher) OptionalParams() []string      { return nil }

func (f *stubFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &provider.FetchResult{Data: f.data, FetchedAt: time.Now()}, nil
}

type stubProvider struct {
	provider.BaseProvider
}

func newStubRegistry(fetchers ...provider.Fetcher) *provider.Registry {
	p := &stubProvider{BaseProvider: provider.NewBaseProvider("stub", "stub provider", "")}
	for _, f := range fetchers {
		p.RegisterFetcher(f)
	}
	registry := provider.NewRegistry()
	if err := registry.Register(p); err != nil {
		panic(err)
	}
	return registry
}

func stubIncome(years ...int) *models.StatementTable {
	t := models.NewStatementTable("TEST")
	for _, y := range years {
		period := fmt.Sprintf("%d-12-31", y)
		t.Set("Total Revenue", period, 1000)
		t.Set("Net Income", period, 100)
	}
	return t
}

func TestAssembleFetchFailure(t *testing.T) {
	// Both the income statement and the price history are unusable: the
	// assembler must abort with a fetch failure and produce no table.
	registry := newStubRegistry(
		&stubFetcher{model: provider.ModelIncomeStatement, err: errors.New("upstream down")},
		&stubFetcher{model: provider.ModelPriceHistory, err: errors.New("upstream down")},
		&stubFetcher{model: provider.ModelBalanceSheet, data: models.NewStatementTable("TEST")},
	)

	a := NewAssembler(registry, []int{2023, 2024}, "^GSPC")
	table, err := a.Assemble(context.Background(), "TEST")
	if table != nil {
		t.Error("expected no table on fetch failure")
	}
	if !errors.Is(err, ErrFetchFailure) {
		t.Errorf("expected ErrFetchFailure, got %v", err)
	}
}

func TestAssembleEmptyTablesAreFetchFailure(t *testing.T) {
	// Upstream responded, but with empty data: same failure classification.
	registry := newStubRegistry(
		&stubFetcher{model: provider.ModelIncomeStatement, data: models.NewStatementTable("TEST")},
		&stubFetcher{model: provider.ModelPriceHistory, data: &models.PriceHistory{Symbol: "TEST"}},
	)

	a := NewAssembler(registry, []int{2023}, "^GSPC")
	if _, err := a.Assemble(context.Background(), "TEST"); !errors.Is(err, ErrFetchFailure) {
		t.Errorf("expected ErrFetchFailure, got %v", err)
	}
}

func TestAssembleBestEffortWithIncomeOnly(t *testing.T) {
	// Only the income statement is usable: everything else degrades to null
	// cells, never to an error.
	registry := newStubRegistry(
		&stubFetcher{model: provider.ModelIncomeStatement, data: stubIncome(2023, 2024)},
		&stubFetcher{model: provider.ModelPriceHistory, err: errors.New("upstream down")},
		&stubFetcher{model: provider.ModelBalanceSheet, err: errors.New("upstream down")},
		&stubFetcher{model: provider.ModelSnapshot, err: errors.New("upstream down")},
		&stubFetcher{model: provider.ModelCompanyProfile, err: errors.New("upstream down")},
	)

	a := NewAssembler(registry, []int{2023, 2024}, "^GSPC")
	table, err := a.Assemble(context.Background(), "TEST")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	if got := table.Get(MetricTotalRevenue, "2023"); got.IsNull() || got.Number != 1000 {
		t.Errorf("total revenue 2023 = %+v", got)
	}
	if got := table.Get(MetricProfitMargin, "2024"); got.IsNull() || got.Number != 0.1 {
		t.Errorf("profit margin 2024 = %+v", got)
	}
	// Balance-sheet metrics stay null.
	if !table.Get(MetricTotalAssets, "2023").IsNull() {
		t.Error("total assets should be null without a balance sheet")
	}
	if table.AsOfPrice != nil {
		t.Error("no price source: as-of price should be nil")
	}
}

func TestAssembleFullShape(t *testing.T) {
	price := 108.0
	registry := newStubRegistry(
		&stubFetcher{model: provider.ModelIncomeStatement, data: stubIncome(2023)},
		&stubFetcher{model: provider.ModelPriceHistory, data: &models.PriceHistory{
			Symbol:   "TEST",
			Timezone: "UTC",
			Bars: []models.PriceBar{
				{Date: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), Close: price, High: 110, Low: 100},
			},
		}},
		&stubFetcher{model: provider.ModelSnapshot, data: &models.Snapshot{
			Symbol: "TEST",
			Name:   "Test Corp",
			Price:  price,
			Fields: map[string]float64{"trailingEps": 8},
		}},
	)

	years := []int{2022, 2023, 2024}
	a := NewAssembler(registry, years, "^GSPC")
	table, err := a.Assemble(context.Background(), "TEST")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	if table.CompanyName != "Test Corp" {
		t.Errorf("company name = %q", table.CompanyName)
	}
	if table.AsOfPrice == nil || *table.AsOfPrice != price {
		t.Errorf("as-of price = %v", table.AsOfPrice)
	}
	if table.AsOfDate.IsZero() {
		t.Error("as-of date not stamped")
	}

	// Dense shape: every metric × every period answers, even if null.
	periods := table.Periods()
	if len(periods) != len(years)+1 {
		t.Fatalf("period count = %d", len(periods))
	}
	for _, m := range RowMetrics() {
		for _, p := range periods {
			_ = table.Get(m, p)
		}
	}

	// The snapshot EPS lands in the actual column.
	if got := table.Get(MetricEPS, PeriodActual); got.IsNull() || got.Number != 8 {
		t.Errorf("actual eps = %+v", got)
	}
}

func TestAssembleEmptyYears(t *testing.T) {
	a := NewAssembler(newStubRegistry(), nil, "^GSPC")
	if _, err := a.Assemble(context.Background(), "TEST"); err == nil {
		t.Error("expected error for empty year range")
	}
}
