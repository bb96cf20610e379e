package fundamentals

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/quantatlas/fundsheet/pkg/models"
)

// Resolve returns the single numeric value for the first candidate label
// that matches a row of the statement table at the period denoting the given
// calendar year. Candidates are tried in priority order, first against a
// normalized-label index, then as case-insensitive substrings of the
// original labels. A candidate whose row exists but has no usable cell for
// the year falls through to the next candidate, which lets fallback
// candidates (e.g. total assets standing in for equity) take over when the
// preferred row is sparse.
func Resolve(t *models.StatementTable, candidates []string, year int) (float64, bool) {
	if t.Empty() {
		return 0, false
	}

	index := normalizedIndex(t)

	for _, cand := range candidates {
		if label, ok := index[normalizeLabel(cand)]; ok {
			if v, ok := valueForYear(t, label, year); ok {
				return v, true
			}
		}
	}

	// Substring fallback: scan original labels for each candidate in turn.
	for _, cand := range candidates {
		needle := strings.ToLower(cand)
		for _, label := range t.Labels {
			if strings.Contains(strings.ToLower(label), needle) {
				if v, ok := valueForYear(t, label, year); ok {
					return v, true
				}
			}
		}
	}

	return 0, false
}

// normalizeLabel canonicalizes a row label: trim, lowercase, and strip the
// spaces and underscores that vary across source revisions, so that
// "Total Revenue", "totalRevenue" and "total_revenue" all collide.
func normalizeLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "")
	return strings.ReplaceAll(s, "_", "")
}

// normalizedIndex maps normalized labels to their original spelling.
// Last-seen wins on collision; collisions are rare and harmless here.
func normalizedIndex(t *models.StatementTable) map[string]string {
	index := make(map[string]string, len(t.Labels))
	for _, label := range t.Labels {
		index[normalizeLabel(label)] = label
	}
	return index
}

// valueForYear returns the row's value at the period whose calendar year
// matches, skipping NaN cells and unparsable period columns.
func valueForYear(t *models.StatementTable, label string, year int) (float64, bool) {
	row, ok := t.Rows[label]
	if !ok {
		return 0, false
	}
	for _, period := range t.Periods {
		y, ok := periodYear(period)
		if !ok || y != year {
			continue
		}
		if v, ok := row[period]; ok && !math.IsNaN(v) {
			return v, true
		}
	}
	return 0, false
}

// periodYear extracts the calendar year from a period label, tolerating both
// bare year integers and date-like labels.
func periodYear(label string) (int, bool) {
	label = strings.TrimSpace(label)
	if n, err := strconv.Atoi(label); err == nil {
		if n >= 1000 && n <= 9999 {
			return n, true
		}
		return 0, false
	}
	for _, layout := range []string{"2006-01-02", "2006-01-02 15:04:05", time.RFC3339, "Jan 2, 2006"} {
		if d, err := time.Parse(layout, label); err == nil {
			return d.Year(), true
		}
	}
	return 0, false
}
