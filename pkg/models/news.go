package models

import "time"

// NewsItem is a single headline from a ticker's news feed.
type NewsItem struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Source      string    `json:"source,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}
