package models

import (
	"strings"
	"time"
)

// Feed represents a registered syndication source
type Feed struct {
	ID        int       `json:"id"`
	URL       string    `json:"url"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// FeedCreate represents the data needed to register a new feed
type FeedCreate struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// Validate checks the registration payload before any network work
func (c *FeedCreate) Validate() error {
	if strings.TrimSpace(c.URL) == "" {
		return errMissingField("url")
	}
	if strings.TrimSpace(c.Name) == "" {
		return errMissingField("name")
	}
	return nil
}

type errMissingField string

func (e errMissingField) Error() string {
	return string(e) + " is required"
}
