package provider

// ModelType represents a standard data model type. Each ModelType maps to a
// specific data structure returned by the fetchers.
type ModelType string

// --- Financial statements ---
const (
	ModelIncomeStatement ModelType = "IncomeStatement"
	ModelBalanceSheet    ModelType = "BalanceSheet"
)

// --- Prices ---
const (
	ModelPriceHistory ModelType = "PriceHistory"
)

// --- Snapshot / profile ---
const (
	ModelSnapshot       ModelType = "Snapshot"
	ModelCompanyProfile ModelType = "CompanyProfile"
)

// --- News ---
const (
	ModelCompanyNews ModelType = "CompanyNews"
)
