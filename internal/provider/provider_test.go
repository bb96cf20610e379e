package provider

import (
	"context"
	"errors"
	"testing"
	"time"
)

// mockFetcher implements the Fetcher interface for testing.
type mockFetcher struct {
	BaseFetcher
	fetchFn func(ctx context.Context, params QueryParams) (*FetchResult, error)
}

func newMockFetcher(model ModelType, required []string) *mockFetcher {
	return &mockFetcher{
		BaseFetcher: NewBaseFetcher(model, "mock fetcher for "+string(model), required, nil, time.Minute, 100, time.Second),
	}
}

func (m *mockFetcher) Fetch(ctx context.Context, params QueryParams) (*FetchResult, error) {
	if m.fetchFn != nil {
		return m.fetchFn(ctx, params)
	}
	return &FetchResult{
		Data:      "mock-data",
		FetchedAt: time.Now(),
	}, nil
}

// mockProvider implements the Provider interface for testing.
type mockProvider struct {
	BaseProvider
}

func newMockProvider(name string, models ...ModelType) *mockProvider {
	mp := &mockProvider{
		BaseProvider: NewBaseProvider(name, "Mock "+name, "https://example.com"),
	}
	for _, m := range models {
		mp.RegisterFetcher(newMockFetcher(m, []string{ParamSymbol}))
	}
	return mp
}

// --- Registry Tests ---

func TestRegistryRegisterAndGet(t *testing.T) {
	reg := NewRegistry()
	p := newMockProvider("test-provider", ModelSnapshot, ModelPriceHistory)

	if err := reg.Register(p); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	got, err := reg.Get("test-provider")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Info().Name != "test-provider" {
		t.Errorf("expected name test-provider, got %s", got.Info().Name)
	}
}

func TestRegistryGetNotFound(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Get("nonexistent")
	if err == nil {
		t.Fatal("expected error for nonexistent provider")
	}
	var notFound *ErrProviderNotFound
	if !errors.As(err, &notFound) {
		t.Errorf("expected ErrProviderNotFound, got %T", err)
	}
}

func TestRegistryList(t *testing.T) {
	reg := NewRegistry()
	_ = reg.Register(newMockProvider("beta", ModelSnapshot))
	_ = reg.Register(newMockProvider("alpha", ModelPriceHistory))

	list := reg.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 providers, got %d", len(list))
	}
	// Should be sorted alphabetically.
	if list[0].Name != "alpha" {
		t.Errorf("expected first provider 'alpha', got %s", list[0].Name)
	}
	if list[1].Name != "beta" {
		t.Errorf("expected second provider 'beta', got %s", list[1].Name)
	}
}

func TestRegistryProvidersFor(t *testing.T) {
	reg := NewRegistry()
	_ = reg.Register(newMockProvider("p1", ModelSnapshot, ModelBalanceSheet))
	_ = reg.Register(newMockProvider("p2", ModelSnapshot))

	if provs := reg.ProvidersFor(ModelSnapshot); len(provs) != 2 {
		t.Fatalf("expected 2 providers for Snapshot, got %d", len(provs))
	}
	if provs := reg.ProvidersFor(ModelBalanceSheet); len(provs) != 1 {
		t.Fatalf("expected 1 provider for BalanceSheet, got %d", len(provs))
	}
	if provs := reg.ProvidersFor(ModelCompanyNews); len(provs) != 0 {
		t.Fatalf("expected 0 providers for CompanyNews, got %d", len(provs))
	}
}

func TestRegistryFetchDefaultRouting(t *testing.T) {
	reg := NewRegistry()
	_ = reg.Register(newMockProvider("p1", ModelSnapshot))

	result, err := reg.Fetch(context.Background(), ModelSnapshot, QueryParams{ParamSymbol: "AAPL"})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if result.Provider != "p1" {
		t.Errorf("result provider = %q", result.Provider)
	}
	if result.Model != ModelSnapshot {
		t.Errorf("result model = %q", result.Model)
	}
	if result.Data != "mock-data" {
		t.Errorf("result data = %v", result.Data)
	}
}

func TestRegistryFetchExplicitProvider(t *testing.T) {
	reg := NewRegistry()
	_ = reg.Register(newMockProvider("p1", ModelSnapshot))
	_ = reg.Register(newMockProvider("p2", ModelSnapshot))

	result, err := reg.Fetch(context.Background(), ModelSnapshot, QueryParams{
		ParamSymbol:   "AAPL",
		ParamProvider: "p2",
	})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if result.Provider != "p2" {
		t.Errorf("result provider = %q, want p2", result.Provider)
	}
}

func TestRegistryFetchMissingParam(t *testing.T) {
	reg := NewRegistry()
	_ = reg.Register(newMockProvider("p1", ModelSnapshot))

	_, err := reg.Fetch(context.Background(), ModelSnapshot, QueryParams{})
	var missing *ErrMissingParam
	if !errors.As(err, &missing) {
		t.Fatalf("expected ErrMissingParam, got %v", err)
	}
	if missing.Param != ParamSymbol {
		t.Errorf("missing param = %q", missing.Param)
	}
}

func TestRegistryFetchUnsupportedModel(t *testing.T) {
	reg := NewRegistry()
	_ = reg.Register(newMockProvider("p1", ModelSnapshot))

	_, err := reg.Fetch(context.Background(), ModelIncomeStatement, QueryParams{
		ParamSymbol:   "AAPL",
		ParamProvider: "p1",
	})
	var unsupported *ErrModelNotSupported
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected ErrModelNotSupported, got %v", err)
	}
}

// --- BaseFetcher Tests ---

func TestCacheKeyDeterministic(t *testing.T) {
	a := CacheKey(ModelPriceHistory, QueryParams{
		ParamSymbol:    "AAPL",
		ParamStartDate: "2023-01-01",
		ParamEndDate:   "2023-12-31",
	})
	b := CacheKey(ModelPriceHistory, QueryParams{
		ParamEndDate:   "2023-12-31",
		ParamStartDate: "2023-01-01",
		ParamSymbol:    "AAPL",
	})
	if a != b {
		t.Errorf("cache keys differ: %q vs %q", a, b)
	}

	// Provider routing must not fragment the cache.
	c := CacheKey(ModelPriceHistory, QueryParams{
		ParamSymbol:   "AAPL",
		ParamProvider: "yfinance",
	})
	d := CacheKey(ModelPriceHistory, QueryParams{ParamSymbol: "AAPL"})
	if c != d {
		t.Errorf("provider param leaked into cache key: %q vs %q", c, d)
	}
}

func TestBaseFetcherCache(t *testing.T) {
	f := newMockFetcher(ModelSnapshot, []string{ParamSymbol})

	if _, ok := f.CacheGet("k"); ok {
		t.Error("empty cache should miss")
	}
	f.CacheSet("k", "v")
	if v, ok := f.CacheGet("k"); !ok || v != "v" {
		t.Errorf("cache get = %v, %v", v, ok)
	}
}

func TestValidateParams(t *testing.T) {
	if err := ValidateParams(QueryParams{ParamSymbol: "AAPL"}, []string{ParamSymbol}); err != nil {
		t.Errorf("valid params rejected: %v", err)
	}
	if err := ValidateParams(QueryParams{ParamSymbol: ""}, []string{ParamSymbol}); err == nil {
		t.Error("empty required param should fail")
	}
	if err := ValidateParams(QueryParams{}, []string{ParamSymbol}); err == nil {
		t.Error("missing required param should fail")
	}
}
