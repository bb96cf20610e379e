// Package models defines the shared data structures exchanged between the
// data providers and the fundamentals engine.
package models

import "time"

// PriceBar represents a single daily bar of price data, including the
// corporate actions Yahoo reports as chart events on that day.
type PriceBar struct {
	Date       time.Time `json:"date"`
	Open       float64   `json:"open"`
	High       float64   `json:"high"`
	Low        float64   `json:"low"`
	Close      float64   `json:"close"`
	AdjClose   float64   `json:"adj_close,omitempty"`
	Volume     int64     `json:"volume"`
	Dividend   float64   `json:"dividend,omitempty"`    // per-share cash dividend paid that day
	SplitRatio string    `json:"split_ratio,omitempty"` // e.g. "4:1", empty when no split
}

// PriceHistory is a daily price series for one instrument, ordered by date
// ascending. Timezone is the exchange's IANA zone name as reported by the
// provider; empty means the series should be read as UTC.
type PriceHistory struct {
	Symbol   string     `json:"symbol"`
	Currency string     `json:"currency,omitempty"`
	Timezone string     `json:"timezone,omitempty"`
	Bars     []PriceBar `json:"bars"`
}

// Empty reports whether the history contains no trading days.
func (h *PriceHistory) Empty() bool {
	return h == nil || len(h.Bars) == 0
}
