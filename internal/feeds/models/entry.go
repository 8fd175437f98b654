package models

import (
	"time"
)

// Entry represents one persisted feed item. Rows are immutable once
// written; re-ingesting the same logical item never creates another row.
type Entry struct {
	ID      int        `json:"id"`
	Title   *string    `json:"title"`
	Link    *string    `json:"link"`
	PubDate *time.Time `json:"pub_date"`
	GUID    *string    `json:"guid"`
	FeedID  int        `json:"feed_id"`
}

// DedupKey returns the identity used by the store's uniqueness
// constraint: the guid when the source advertises one, the link
// otherwise. An empty result means the item has no usable identity
// and must not be persisted.
func DedupKey(guid, link *string) string {
	if guid != nil && *guid != "" {
		return *guid
	}
	if link != nil && *link != "" {
		return *link
	}
	return ""
}
