package models

import (
	"time"
)

// ParsedFeed represents a parsed feed document
type ParsedFeed struct {
	Title string       `json:"title"`
	Link  string       `json:"link"`
	Items []ParsedItem `json:"items"`
}

// ParsedItem represents one candidate item extracted from a feed
// document, in document order. Every field is optional; a missing or
// malformed publish date is simply absent.
type ParsedItem struct {
	Title   *string    `json:"title"`
	Link    *string    `json:"link"`
	GUID    *string    `json:"guid"`
	PubDate *time.Time `json:"pub_date"`
}

// FetcherConfig holds configuration for the fetcher service
type FetcherConfig struct {
	UserAgent string        `json:"user_agent"`
	Timeout   time.Duration `json:"timeout"`
}
