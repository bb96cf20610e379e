package models

// StatementTable is a two-dimensional financial statement table indexed by
// line-item label (row) and reporting period (column). Labels are free-text
// strings whose exact spelling varies by source revision; period labels may
// be dates ("2023-09-30") or bare years ("2023"). The table is immutable
// once fetched; a zero-value table answers every query with no match.
type StatementTable struct {
	Symbol  string                        `json:"symbol"`
	Labels  []string                      `json:"labels"`  // original row labels in source order
	Periods []string                      `json:"periods"` // period labels in source order
	Rows    map[string]map[string]float64 `json:"rows"`    // label → period → value
}

// NewStatementTable creates an empty statement table for a symbol.
func NewStatementTable(symbol string) *StatementTable {
	return &StatementTable{
		Symbol: symbol,
		Rows:   make(map[string]map[string]float64),
	}
}

// Set records a value for a (label, period) cell, tracking first-seen order
// of labels and periods.
func (t *StatementTable) Set(label, period string, value float64) {
	row, ok := t.Rows[label]
	if !ok {
		row = make(map[string]float64)
		t.Rows[label] = row
		t.Labels = append(t.Labels, label)
	}
	if _, seen := row[period]; !seen {
		if !t.hasPeriod(period) {
			t.Periods = append(t.Periods, period)
		}
	}
	row[period] = value
}

// Value returns the cell at (label, period) by exact label match.
func (t *StatementTable) Value(label, period string) (float64, bool) {
	if t == nil {
		return 0, false
	}
	row, ok := t.Rows[label]
	if !ok {
		return 0, false
	}
	v, ok := row[period]
	return v, ok
}

// Empty reports whether the table has no rows.
func (t *StatementTable) Empty() bool {
	return t == nil || len(t.Rows) == 0
}

func (t *StatementTable) hasPeriod(period string) bool {
	for _, p := range t.Periods {
		if p == period {
			return true
		}
	}
	return false
}
