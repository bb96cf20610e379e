package fundamentals

import (
	"fmt"
	"time"

	"github.com/quantatlas/fundsheet/pkg/models"
	"github.com/quantatlas/fundsheet/pkg/utils"
)

// Inputs bundles the upstream data one ticker's extraction runs against.
// Any member may be nil or empty; extractors answer null for whatever they
// cannot compute.
type Inputs struct {
	Income    *models.StatementTable
	Balance   *models.StatementTable
	Prices    *models.PriceHistory
	Benchmark *models.PriceHistory
	Snapshot  *models.Snapshot
}

// Extractor computes one metric: Year for each fiscal year of the range,
// Actual for the latest-snapshot column. Extractors are pure: same inputs,
// same cell, and they never fail; unresolvable data yields a null cell.
type Extractor struct {
	Metric Metric
	Year   func(in *Inputs, year int) Cell
	Actual func(in *Inputs) Cell
}

// Extractors returns every metric extractor in RowMetrics order.
func Extractors() []Extractor {
	return []Extractor{
		{MetricMarketCap, extractMarketCap, snapshotNumber("marketCap")},
		{MetricPE, extractPE, snapshotNumber("trailingPE")},
		{MetricEPS, extractEPS, snapshotNumber("trailingEps", "epsTrailingTwelveMonths")},
		{MetricBeta, extractBeta, snapshotNumber("beta")},
		{MetricYearRange, extractYearRange, actualYearRange},
		{MetricDividendsSplits, extractDividendsSplits, actualDividends},
		{MetricPayoutRatio, extractPayoutRatio, snapshotNumber("payoutRatio")},

		{MetricTotalRevenue, statementLookup(incomeTable, TotalRevenue), snapshotNumber("totalRevenue")},
		// netIncomeToCommon is preferred: it excludes minority interest and
		// matches what the per-year statement rows report.
		{MetricNetIncome, statementLookup(incomeTable, NetIncome), snapshotNumber("netIncomeToCommon", "netIncome")},
		{MetricProfitMargin, extractProfitMargin, snapshotNumber("profitMargins")},
		{MetricROE, extractROE, snapshotNumber("returnOnEquity")},

		{MetricTotalAssets, statementLookup(balanceTable, TotalAssets), snapshotNumber("totalAssets")},
		{MetricTotalLiabilities, statementLookup(balanceTable, TotalLiabilities), snapshotNull},
		{MetricTotalEquity, statementLookup(balanceTable, TotalEquity), snapshotNull},
		{MetricCashAndEquivalents, statementLookup(balanceTable, CashAndEquivalents), snapshotNumber("totalCash")},
		{MetricWorkingCapital, extractWorkingCapital, snapshotNull},
		{MetricInvestedCapital, extractInvestedCapital, snapshotNull},
		{MetricNetTangibleAssets, extractNetTangibleAssets, snapshotNull},
		{MetricTotalDebts, extractTotalDebts, snapshotNumber("totalDebt")},
	}
}

// --- Direct statement lookups ---

func incomeTable(in *Inputs) *models.StatementTable  { return in.Income }
func balanceTable(in *Inputs) *models.StatementTable { return in.Balance }

// statementLookup builds a direct-lookup extractor over one statement table.
func statementLookup(table func(*Inputs) *models.StatementTable, metric CanonicalMetric) func(*Inputs, int) Cell {
	return func(in *Inputs, year int) Cell {
		if v, ok := Resolve(table(in), Candidates(metric), year); ok {
			return Number(v)
		}
		return Null()
	}
}

// --- Derived ratios ---
//
// Null propagation: if any required input is unresolvable, or a denominator
// is exactly zero, the result is null. Never an error, never a division by
// zero.

// extractROE = NetIncome / TotalEquity. When no explicit equity line
// resolves, total assets stands in for equity, a deliberate approximation
// inherited from the legacy extractor, kept rather than silently corrected.
func extractROE(in *Inputs, year int) Cell {
	income, ok := Resolve(in.Income, Candidates(NetIncome), year)
	if !ok {
		return Null()
	}
	equityCandidates := append(append([]string{}, Candidates(TotalEquity)...), Candidates(TotalAssets)...)
	equity, ok := Resolve(in.Balance, equityCandidates, year)
	if !ok || equity == 0 {
		return Null()
	}
	return Number(income / equity)
}

// extractProfitMargin = NetIncome / TotalRevenue.
func extractProfitMargin(in *Inputs, year int) Cell {
	income, ok := Resolve(in.Income, Candidates(NetIncome), year)
	if !ok {
		return Null()
	}
	revenue, ok := Resolve(in.Income, Candidates(TotalRevenue), year)
	if !ok || revenue == 0 {
		return Null()
	}
	return Number(income / revenue)
}

// extractEPS resolves the diluted (falling back to basic) EPS statement row.
func extractEPS(in *Inputs, year int) Cell {
	if v, ok := Resolve(in.Income, Candidates(DilutedEPS), year); ok {
		return Number(v)
	}
	return Null()
}

// extractPE = year-end closing price / EPS for the year.
func extractPE(in *Inputs, year int) Cell {
	closePrice, ok := yearEndClose(in.Prices, year)
	if !ok {
		return Null()
	}
	eps := extractEPS(in, year)
	if eps.IsNull() || eps.Number == 0 {
		return Null()
	}
	return Number(closePrice / eps.Number)
}

// extractPayoutRatio = annual dividends per share / EPS for the year.
func extractPayoutRatio(in *Inputs, year int) Cell {
	dividends := yearDividends(in.Prices, year)
	if dividends == 0 {
		return Null()
	}
	eps := extractEPS(in, year)
	if eps.IsNull() || eps.Number == 0 {
		return Null()
	}
	return Number(dividends / eps.Number)
}

// extractWorkingCapital = TotalCurrentAssets − TotalCurrentLiabilities.
func extractWorkingCapital(in *Inputs, year int) Cell {
	assets, ok := Resolve(in.Balance, Candidates(TotalCurrentAssets), year)
	if !ok {
		return Null()
	}
	liabilities, ok := Resolve(in.Balance, Candidates(TotalCurrentLiabilities), year)
	if !ok {
		return Null()
	}
	return Number(assets - liabilities)
}

// extractInvestedCapital = TotalAssets − current liabilities (falling back
// to total liabilities, then 0) − cash (defaulting to 0).
func extractInvestedCapital(in *Inputs, year int) Cell {
	assets, ok := Resolve(in.Balance, Candidates(TotalAssets), year)
	if !ok {
		return Null()
	}
	liabilities, ok := Resolve(in.Balance, Candidates(TotalCurrentLiabilities), year)
	if !ok {
		liabilities, _ = Resolve(in.Balance, Candidates(TotalLiabilities), year)
	}
	cash, _ := Resolve(in.Balance, Candidates(CashAndEquivalents), year)
	return Number(assets - liabilities - cash)
}

// extractNetTangibleAssets = TotalAssets − intangibles − goodwill, with the
// intangible lines defaulting to 0 when unresolvable.
func extractNetTangibleAssets(in *Inputs, year int) Cell {
	assets, ok := Resolve(in.Balance, Candidates(TotalAssets), year)
	if !ok {
		return Null()
	}
	intangibles, _ := Resolve(in.Balance, Candidates(IntangibleAssets), year)
	goodwill, _ := Resolve(in.Balance, Candidates(Goodwill), year)
	return Number(assets - intangibles - goodwill)
}

// extractTotalDebts sums whichever of long- and short-term debt resolve;
// null only when neither does.
func extractTotalDebts(in *Inputs, year int) Cell {
	longTerm, okLong := Resolve(in.Balance, Candidates(LongTermDebt), year)
	shortTerm, okShort := Resolve(in.Balance, Candidates(ShortTermDebt), year)
	if !okLong && !okShort {
		return Null()
	}
	return Number(longTerm + shortTerm)
}

// extractMarketCap = current shares outstanding × year-end closing price.
// Shares outstanding history is not available upstream, so the current share
// count prices every year.
func extractMarketCap(in *Inputs, year int) Cell {
	shares, ok := in.Snapshot.Field("sharesOutstanding")
	if !ok || shares == 0 {
		return Null()
	}
	closePrice, ok := yearEndClose(in.Prices, year)
	if !ok {
		return Null()
	}
	return Number(shares * closePrice)
}

// --- Price series extractors ---

// extractYearRange formats the year's trading range as "low-high" with
// one-decimal endpoints, from the yearly min of daily lows and max of highs.
func extractYearRange(in *Inputs, year int) Cell {
	bars := yearBars(in.Prices, year)
	if len(bars) == 0 {
		return Null()
	}
	low, high := bars[0].Low, bars[0].High
	for _, b := range bars[1:] {
		if b.Low < low {
			low = b.Low
		}
		if b.High > high {
			high = b.High
		}
	}
	return Range(fmt.Sprintf("%.1f-%.1f", low, high))
}

// extractDividendsSplits sums the year's per-day dividend amounts (null when
// zero) and collects its split events in date order (null when none).
func extractDividendsSplits(in *Inputs, year int) Cell {
	if in.Prices.Empty() {
		return Null()
	}
	var dividends float64
	var splits []string
	for _, b := range yearBars(in.Prices, year) {
		dividends += b.Dividend
		if b.SplitRatio != "" {
			splits = append(splits, b.SplitRatio)
		}
	}
	var divPtr *float64
	if dividends != 0 {
		divPtr = &dividends
	}
	return Events(divPtr, splits)
}

// extractBeta computes the year's beta against the benchmark index:
// covariance of daily returns over variance of benchmark returns. Null when
// fewer than 2 overlapping return observations exist or the benchmark
// variance is zero.
func extractBeta(in *Inputs, year int) Cell {
	stock := yearReturns(in.Prices, year)
	bench := yearReturns(in.Benchmark, year)
	if len(stock) == 0 || len(bench) == 0 {
		return Null()
	}

	// Pair returns by trading day.
	var xs, ys []float64
	for day, r := range stock {
		if br, ok := bench[day]; ok {
			xs = append(xs, r)
			ys = append(ys, br)
		}
	}
	if len(xs) < 2 {
		return Null()
	}

	meanX, meanY := mean(xs), mean(ys)
	var cov, varY float64
	for i := range xs {
		cov += (xs[i] - meanX) * (ys[i] - meanY)
		varY += (ys[i] - meanY) * (ys[i] - meanY)
	}
	if varY == 0 {
		return Null()
	}
	return Number(cov / varY)
}

// --- Snapshot ("actual") extractors ---

// snapshotNumber builds an actual-column extractor reading the first present
// field from the snapshot record, in preference order.
func snapshotNumber(fields ...string) func(*Inputs) Cell {
	return func(in *Inputs) Cell {
		if v, ok := in.Snapshot.Field(fields...); ok {
			return Number(v)
		}
		return Null()
	}
}

// snapshotNull marks metrics with no latest-snapshot equivalent.
func snapshotNull(in *Inputs) Cell {
	return Null()
}

// actualYearRange renders the 52-week range from the snapshot.
func actualYearRange(in *Inputs) Cell {
	low, okLow := in.Snapshot.Field("fiftyTwoWeekLow")
	high, okHigh := in.Snapshot.Field("fiftyTwoWeekHigh")
	if !okLow || !okHigh {
		return Null()
	}
	return Range(fmt.Sprintf("%.1f-%.1f", low, high))
}

// actualDividends reports the forward annual dividend rate; splits have no
// snapshot equivalent.
func actualDividends(in *Inputs) Cell {
	rate, ok := in.Snapshot.Field("dividendRate")
	if !ok || rate == 0 {
		return Events(nil, nil)
	}
	return Events(&rate, nil)
}

// --- Price series helpers ---

// seriesLocation returns the exchange time zone the series' dates should be
// read in.
func seriesLocation(h *models.PriceHistory) *time.Location {
	if h == nil {
		return time.UTC
	}
	return utils.LoadLocation(h.Timezone)
}

// yearBars returns the bars falling inside the calendar year, read in the
// instrument's exchange time zone.
func yearBars(h *models.PriceHistory, year int) []models.PriceBar {
	if h.Empty() {
		return nil
	}
	loc := seriesLocation(h)
	var out []models.PriceBar
	for _, b := range h.Bars {
		if b.Date.In(loc).Year() == year {
			out = append(out, b)
		}
	}
	return out
}

// yearEndClose returns the closing price of the last trading day on or
// before December 31 of the year.
func yearEndClose(h *models.PriceHistory, year int) (float64, bool) {
	if h.Empty() {
		return 0, false
	}
	loc := seriesLocation(h)
	cutoff := utils.YearEnd(year, loc)
	var closePrice float64
	found := false
	for _, b := range h.Bars {
		if !b.Date.In(loc).After(cutoff) {
			closePrice = b.Close
			found = true
		}
	}
	return closePrice, found
}

// yearDividends sums the per-share dividends paid during the year.
func yearDividends(h *models.PriceHistory, year int) float64 {
	var sum float64
	for _, b := range yearBars(h, year) {
		sum += b.Dividend
	}
	return sum
}

// yearReturns computes daily close-to-close percentage changes within a
// year, keyed by trading day ("2006-01-02" in the exchange zone). The first
// return of the year uses the prior day's close inside the same year only,
// so series with a single bar produce no observations.
func yearReturns(h *models.PriceHistory, year int) map[string]float64 {
	bars := yearBars(h, year)
	if len(bars) < 2 {
		return nil
	}
	loc := seriesLocation(h)
	out := make(map[string]float64, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		prev := bars[i-1].Close
		if prev == 0 {
			continue
		}
		day := bars[i].Date.In(loc).Format("2006-01-02")
		out[day] = (bars[i].Close - prev) / prev
	}
	return out
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
