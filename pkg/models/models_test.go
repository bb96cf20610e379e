package models

import "testing"

func TestStatementTableOrderTracking(t *testing.T) {
	table := NewStatementTable("TEST")
	table.Set("Total Revenue", "2023", 100)
	table.Set("Net Income", "2023", 10)
	table.Set("Total Revenue", "2022", 90)

	if len(table.Labels) != 2 || table.Labels[0] != "Total Revenue" || table.Labels[1] != "Net Income" {
		t.Errorf("labels = %v", table.Labels)
	}
	if len(table.Periods) != 2 || table.Periods[0] != "2023" || table.Periods[1] != "2022" {
		t.Errorf("periods = %v", table.Periods)
	}
	if v, ok := table.Value("Total Revenue", "2022"); !ok || v != 90 {
		t.Errorf("value = %v, %v", v, ok)
	}
	if _, ok := table.Value("Total Revenue", "2021"); ok {
		t.Error("absent period should not resolve")
	}
}

func TestStatementTableNilSafety(t *testing.T) {
	var table *StatementTable
	if !table.Empty() {
		t.Error("nil table is empty")
	}
	if _, ok := table.Value("x", "y"); ok {
		t.Error("nil table resolves nothing")
	}
}

func TestPriceHistoryEmpty(t *testing.T) {
	var h *PriceHistory
	if !h.Empty() {
		t.Error("nil history is empty")
	}
	if !(&PriceHistory{}).Empty() {
		t.Error("bar-less history is empty")
	}
	full := &PriceHistory{Bars: []PriceBar{{Close: 1}}}
	if full.Empty() {
		t.Error("history with bars is not empty")
	}
}

func TestSnapshotFieldPreference(t *testing.T) {
	snap := &Snapshot{Fields: map[string]float64{
		"netIncome":         999,
		"netIncomeToCommon": 400,
	}}

	if v, ok := snap.Field("netIncomeToCommon", "netIncome"); !ok || v != 400 {
		t.Errorf("preferred field = %v, %v", v, ok)
	}
	if v, ok := snap.Field("missing", "netIncome"); !ok || v != 999 {
		t.Errorf("fallback field = %v, %v", v, ok)
	}
	if _, ok := snap.Field("missing"); ok {
		t.Error("absent field should not resolve")
	}

	var nilSnap *Snapshot
	if _, ok := nilSnap.Field("netIncome"); ok {
		t.Error("nil snapshot resolves nothing")
	}
}
