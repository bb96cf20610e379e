package yfinance

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/quantatlas/fundsheet/internal/provider"
	"github.com/quantatlas/fundsheet/pkg/models"
)

func TestProviderInfo(t *testing.T) {
	p := New()
	info := p.Info()
	if info.Name != "yfinance" {
		t.Errorf("expected name yfinance, got %s", info.Name)
	}
	if info.Website == "" {
		t.Error("expected non-empty website")
	}
}

func TestProviderSupportedModels(t *testing.T) {
	p := New()

	expected := []provider.ModelType{
		provider.ModelIncomeStatement,
		provider.ModelBalanceSheet,
		provider.ModelPriceHistory,
		provider.ModelSnapshot,
		provider.ModelCompanyProfile,
		provider.ModelCompanyNews,
	}

	modelSet := make(map[provider.ModelType]bool)
	for _, m := range p.SupportedModels() {
		modelSet[m] = true
	}

	for _, m := range expected {
		if !modelSet[m] {
			t.Errorf("missing expected model: %s", m)
		}
	}
}

func TestProviderFetcher(t *testing.T) {
	p := New()

	f := p.Fetcher(provider.ModelPriceHistory)
	if f == nil {
		t.Fatal("expected non-nil fetcher for PriceHistory")
	}
	if f.ModelType() != provider.ModelPriceHistory {
		t.Errorf("expected ModelPriceHistory, got %s", f.ModelType())
	}

	if f := p.Fetcher(provider.ModelType("Nonexistent")); f != nil {
		t.Error("expected nil fetcher for unsupported model")
	}
}

// withStubAPI points the query1 endpoint at a local server for the duration
// of a test.
func withStubAPI(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(handler)
	old := query1BaseURL
	query1BaseURL = srv.URL
	t.Cleanup(func() {
		query1BaseURL = old
		srv.Close()
	})
}

func TestIncomeStatementFetch(t *testing.T) {
	withStubAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quoteSummary":{"result":[{"incomeStatementHistory":{"incomeStatementHistory":[
			{"maxAge":1,
			 "endDate":{"raw":1695945600,"fmt":"2023-09-30"},
			 "totalRevenue":{"raw":383285000000,"fmt":"383.29B"},
			 "netIncome":{"raw":96995000000,"fmt":"97B"}},
			{"maxAge":1,
			 "endDate":{"raw":1664064000,"fmt":"2022-09-24"},
			 "totalRevenue":{"raw":394328000000,"fmt":"394.33B"},
			 "netIncome":{"raw":99803000000,"fmt":"99.8B"}}
		]}}],"error":null}}`))
	})

	p := New()
	f := p.Fetcher(provider.ModelIncomeStatement)
	result, err := f.Fetch(context.Background(), provider.QueryParams{provider.ParamSymbol: "AAPL"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	table, ok := result.Data.(*models.StatementTable)
	if !ok {
		t.Fatalf("expected *models.StatementTable, got %T", result.Data)
	}
	if table.Empty() {
		t.Fatal("expected non-empty table")
	}
	if len(table.Periods) != 2 {
		t.Fatalf("expected 2 periods, got %v", table.Periods)
	}
	if v, ok := table.Value("totalRevenue", "2023-09-30"); !ok || v != 383285000000 {
		t.Errorf("totalRevenue 2023-09-30 = %v, %v", v, ok)
	}
	if v, ok := table.Value("netIncome", "2022-09-24"); !ok || v != 99803000000 {
		t.Errorf("netIncome 2022-09-24 = %v, %v", v, ok)
	}
	// maxAge and endDate are bookkeeping, not line items.
	if _, ok := table.Rows["maxAge"]; ok {
		t.Error("maxAge should not become a row")
	}
	if _, ok := table.Rows["endDate"]; ok {
		t.Error("endDate should not become a row")
	}

	// Second fetch is served from cache.
	cached, err := f.Fetch(context.Background(), provider.QueryParams{provider.ParamSymbol: "AAPL"})
	if err != nil {
		t.Fatalf("cached Fetch: %v", err)
	}
	if !cached.Cached {
		t.Error("expected cached result")
	}
}

func TestPriceHistoryFetch(t *testing.T) {
	// Three consecutive UTC midnights; the middle bar carries a dividend and
	// a split, the last bar has a null close and must be dropped.
	withStubAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("events"); got != "div|split" {
			t.Errorf("events param = %q", got)
		}
		w.Write([]byte(`{"chart":{"result":[{
			"meta":{"symbol":"AAPL","currency":"USD","exchangeTimezoneName":"UTC","regularMarketPrice":190.5},
			"timestamp":[1672531200,1672617600,1672704000],
			"events":{
				"dividends":{"1672617600":{"amount":0.23,"date":1672617600}},
				"splits":{"1672617600":{"date":1672617600,"numerator":4,"denominator":1,"splitRatio":"4:1"}}
			},
			"indicators":{
				"quote":[{"open":[100,101,null],"high":[102,103,null],"low":[99,100,null],"close":[101,102,null],"volume":[1000,2000,null]}],
				"adjclose":[{"adjclose":[100.5,101.5,null]}]
			}
		}],"error":null}}`))
	})

	p := New()
	f := p.Fetcher(provider.ModelPriceHistory)
	result, err := f.Fetch(context.Background(), provider.QueryParams{
		provider.ParamSymbol:    "AAPL",
		provider.ParamStartDate: "2023-01-01",
		provider.ParamEndDate:   "2023-01-04",
	})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	history, ok := result.Data.(*models.PriceHistory)
	if !ok {
		t.Fatalf("expected *models.PriceHistory, got %T", result.Data)
	}
	if len(history.Bars) != 2 {
		t.Fatalf("expected 2 bars after dropping the null row, got %d", len(history.Bars))
	}

	first := history.Bars[0]
	if first.Close != 101 || first.AdjClose != 100.5 || first.Dividend != 0 {
		t.Errorf("unexpected first bar: %+v", first)
	}

	second := history.Bars[1]
	if second.Dividend != 0.23 {
		t.Errorf("expected dividend on second bar, got %v", second.Dividend)
	}
	if second.SplitRatio != "4:1" {
		t.Errorf("expected split 4:1 on second bar, got %q", second.SplitRatio)
	}
}

func TestSnapshotFetch(t *testing.T) {
	withStubAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quoteSummary":{"result":[{
			"price":{"longName":"Apple Inc.","currency":"USD","regularMarketPrice":{"raw":190.5,"fmt":"190.50"},"marketCap":{"raw":2950000000000}},
			"summaryDetail":{"trailingPE":{"raw":31.2},"dividendRate":{"raw":0.96},"payoutRatio":{"raw":0.155},"fiftyTwoWeekLow":{"raw":124.17},"fiftyTwoWeekHigh":{"raw":199.62},"marketCap":{"raw":1}},
			"defaultKeyStatistics":{"trailingEps":{"raw":6.13},"sharesOutstanding":{"raw":15550000000},"beta":{"raw":1.29},"netIncomeToCommon":{"raw":96995000000}},
			"financialData":{"currentPrice":{"raw":190.4},"returnOnEquity":{"raw":1.56},"totalRevenue":{"raw":383285000000}}
		}],"error":null}}`))
	})

	p := New()
	f := p.Fetcher(provider.ModelSnapshot)
	result, err := f.Fetch(context.Background(), provider.QueryParams{provider.ParamSymbol: "AAPL"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	snap, ok := result.Data.(*models.Snapshot)
	if !ok {
		t.Fatalf("expected *models.Snapshot, got %T", result.Data)
	}
	if snap.Name != "Apple Inc." {
		t.Errorf("name = %q", snap.Name)
	}
	if snap.Currency != "USD" {
		t.Errorf("currency = %q", snap.Currency)
	}
	if snap.Price != 190.5 {
		t.Errorf("price = %v, want regularMarketPrice", snap.Price)
	}
	// Earlier module wins on field collision.
	if got := snap.Fields["marketCap"]; got != 2950000000000 {
		t.Errorf("marketCap = %v, want the price module's value", got)
	}
	for field, want := range map[string]float64{
		"trailingEps":       6.13,
		"beta":              1.29,
		"payoutRatio":       0.155,
		"sharesOutstanding": 15550000000,
		"returnOnEquity":    1.56,
	} {
		if got := snap.Fields[field]; got != want {
			t.Errorf("field %s = %v, want %v", field, got, want)
		}
	}
}

func TestFinValUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  yfFinVal
	}{
		{"object", `{"raw":1.5,"fmt":"1.50"}`, yfFinVal{Raw: 1.5, Fmt: "1.50", Valid: true}},
		{"empty object", `{}`, yfFinVal{}},
		{"bare number", `86400`, yfFinVal{Raw: 86400, Valid: true}},
		{"string", `"Apple Inc."`, yfFinVal{Str: "Apple Inc."}},
		{"null", `null`, yfFinVal{}},
		{"bool ignored", `true`, yfFinVal{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v yfFinVal
			if err := json.Unmarshal([]byte(tt.input), &v); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if v != tt.want {
				t.Errorf("got %+v, want %+v", v, tt.want)
			}
		})
	}
}

func TestStatementPeriod(t *testing.T) {
	// 1695945600 is 2023-09-29 00:00 UTC.
	stmt := yfStatement{"endDate": {Raw: 1695945600, Valid: true}}
	if got := statementPeriod(stmt); got != "2023-09-29" {
		t.Errorf("period from raw epoch = %q", got)
	}

	stmt = yfStatement{"endDate": {Raw: 1695945600, Fmt: "2023-09-30", Valid: true}}
	if got := statementPeriod(stmt); got != "2023-09-30" {
		t.Errorf("period should prefer fmt, got %q", got)
	}

	if got := statementPeriod(yfStatement{}); got != "" {
		t.Errorf("missing endDate should yield empty period, got %q", got)
	}
}

func TestSplitRatio(t *testing.T) {
	if got := (yfSplitEvent{SplitRatio: "4:1"}).Ratio(); got != "4:1" {
		t.Errorf("ratio = %q", got)
	}
	if got := (yfSplitEvent{Numerator: 3, Denominator: 2}).Ratio(); got != "3:2" {
		t.Errorf("derived ratio = %q", got)
	}
	if got := (yfSplitEvent{}).Ratio(); got != "" {
		t.Errorf("zero event ratio = %q", got)
	}
}

func TestDateToEpoch(t *testing.T) {
	want := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
	if got := dateToEpoch("2023-01-01", 0); got != want {
		t.Errorf("dateToEpoch = %d, want %d", got, want)
	}
	if got := dateToEpoch("", 42); got != 42 {
		t.Errorf("empty date should fall back, got %d", got)
	}
	if got := dateToEpoch("garbage", 42); got != 42 {
		t.Errorf("bad date should fall back, got %d", got)
	}
}
