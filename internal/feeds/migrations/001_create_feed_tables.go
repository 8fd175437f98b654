package migrations

import (
	"github.com/tatupesonen/artemis/internal/core"
)

// Migration001CreateFeedTables creates the feed and entry tables.
//
// dedup_key carries the item identity (guid, or link when the guid is
// absent); the UNIQUE(feed_id, dedup_key) constraint is the single
// source of truth for "already seen". Ingestion relies on
// insert-or-ignore against this constraint, so no application-level
// locking is needed across overlapping refresh cycles.
var Migration001CreateFeedTables = core.Migration{
	Version:     1,
	Name:        "create_feed_tables",
	Description: "Create feed and feed entry tables",
	UpSQL: `
		CREATE TABLE IF NOT EXISTS feeds (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			url TEXT NOT NULL,
			name TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS feed_entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			feed_id INTEGER NOT NULL REFERENCES feeds(id) ON DELETE CASCADE,
			title TEXT,
			link TEXT,
			pub_date TIMESTAMP,
			guid TEXT,
			dedup_key TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (feed_id, dedup_key)
		);

		CREATE INDEX IF NOT EXISTS idx_feed_entries_feed_id ON feed_entries(feed_id);
		CREATE INDEX IF NOT EXISTS idx_feed_entries_pub_date ON feed_entries(pub_date);
	`,
}
