package models

import "time"

// Snapshot is the provider's latest-quote/summary record for a ticker: a
// flat mapping of named numeric fields plus the few identity fields that are
// not numbers. It backs the "actual" column of the fundamentals table.
//
// Fields carries whatever the provider returned; consumers look values up by
// a preference-ordered list of field names and treat absence as null.
type Snapshot struct {
	Symbol    string             `json:"symbol"`
	Name      string             `json:"name,omitempty"`
	Currency  string             `json:"currency,omitempty"`
	Price     float64            `json:"price"`
	Fields    map[string]float64 `json:"fields"`
	FetchedAt time.Time          `json:"fetched_at"`
}

// Field returns the first present field from the given preference order.
func (s *Snapshot) Field(names ...string) (float64, bool) {
	if s == nil {
		return 0, false
	}
	for _, n := range names {
		if v, ok := s.Fields[n]; ok {
			return v, true
		}
	}
	return 0, false
}

// CompanyProfile holds descriptive company information used in report
// headers. Best-effort: any field may be empty.
type CompanyProfile struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name,omitempty"`
	Sector   string `json:"sector,omitempty"`
	Industry string `json:"industry,omitempty"`
}
