package fundamentals

// CanonicalMetric identifies a financial statement line item independent of
// the source's naming. Each canonical metric carries an ordered candidate
// list of acceptable label spellings; the resolver tries them in priority
// order and the first match wins.
type CanonicalMetric string

const (
	NetIncome               CanonicalMetric = "NetIncome"
	TotalRevenue            CanonicalMetric = "TotalRevenue"
	DilutedEPS              CanonicalMetric = "DilutedEPS"
	CashAndEquivalents      CanonicalMetric = "CashAndEquivalents"
	TotalAssets             CanonicalMetric = "TotalAssets"
	TotalLiabilities        CanonicalMetric = "TotalLiabilities"
	TotalEquity             CanonicalMetric = "TotalEquity"
	TotalCurrentAssets      CanonicalMetric = "TotalCurrentAssets"
	TotalCurrentLiabilities CanonicalMetric = "TotalCurrentLiabilities"
	LongTermDebt            CanonicalMetric = "LongTermDebt"
	ShortTermDebt           CanonicalMetric = "ShortTermDebt"
	IntangibleAssets        CanonicalMetric = "IntangibleAssets"
	Goodwill                CanonicalMetric = "Goodwill"
)

// candidateLabels maps each canonical metric to its label spellings, newest
// source revision first. Yahoo has shipped at least three namings for most
// line items: camelCase API keys, title-cased legacy rows, and the verbose
// labels of the current fundamentals timeseries.
var candidateLabels = map[CanonicalMetric][]string{
	NetIncome: {
		"Net Income", "netIncome",
		"Net Income Common Stockholders",
		"Net Income Applicable To Common Shares",
	},
	TotalRevenue: {
		"Total Revenue", "totalRevenue", "Operating Revenue",
	},
	DilutedEPS: {
		"Diluted EPS", "dilutedEPS", "Basic EPS", "basicEPS",
	},
	CashAndEquivalents: {
		"Cash And Cash Equivalents", "cash", "Cash",
		"Cash Cash Equivalents And Short Term Investments",
	},
	TotalAssets: {
		"Total Assets", "totalAssets",
	},
	TotalLiabilities: {
		"Total Liab", "totalLiab",
		"Total Liabilities Net Minority Interest", "Total Liabilities",
	},
	TotalEquity: {
		"Total Stockholder Equity", "totalStockholderEquity",
		"Stockholders Equity", "Common Stock Equity",
	},
	TotalCurrentAssets: {
		"Total Current Assets", "totalCurrentAssets", "Current Assets",
	},
	TotalCurrentLiabilities: {
		"Total Current Liabilities", "totalCurrentLiabilities", "Current Liabilities",
	},
	LongTermDebt: {
		"Long Term Debt", "longTermDebt",
	},
	ShortTermDebt: {
		"Short Long Term Debt", "shortLongTermDebt",
		"Short Term Debt", "Current Debt",
	},
	IntangibleAssets: {
		"Intangible Assets", "intangibleAssets", "Other Intangible Assets",
	},
	Goodwill: {
		"Good Will", "goodWill", "Goodwill",
	},
}

// Candidates returns the ordered candidate label list for a canonical metric.
func Candidates(m CanonicalMetric) []string {
	return candidateLabels[m]
}
