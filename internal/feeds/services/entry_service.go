package services

import (
	"context"
	"fmt"

	"github.com/tatupesonen/artemis/internal/core"
	"github.com/tatupesonen/artemis/internal/feeds/models"
)

// EntryService is the persistence gateway for feed entries. Dedup is
// delegated entirely to the store's UNIQUE(feed_id, dedup_key)
// constraint via insert-or-ignore, so concurrent workers refreshing
// the same feed cannot race a pre-check against an insert.
type EntryService struct {
	db     *core.Database
	logger *core.Logger
}

// NewEntryService creates a new entry service
func NewEntryService(db *core.Database, logger *core.Logger) *EntryService {
	return &EntryService{
		db:     db,
		logger: logger,
	}
}

// InsertEntry attempts to persist one candidate item for a feed.
// It returns true when a new row was written and false when the store
// rejected the row as a duplicate; duplicates are the expected common
// case and never an error.
func (s *EntryService) InsertEntry(ctx context.Context, feedID int, item *models.ParsedItem) (bool, error) {
	dedupKey := models.DedupKey(item.GUID, item.Link)
	if dedupKey == "" {
		// No guid and no link: the item has no identity to dedup on.
		s.logger.Debug("Skipping item without guid or link", "feed_id", feedID)
		return false, nil
	}

	result, err := s.db.ExecWithTimeout(ctx,
		`INSERT INTO feed_entries (feed_id, title, link, pub_date, guid, dedup_key)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (feed_id, dedup_key) DO NOTHING`,
		feedID, item.Title, item.Link, item.PubDate, item.GUID, dedupKey,
	)
	if err != nil {
		return false, core.NewPersistenceError(fmt.Sprintf("failed to insert entry for feed %d", feedID), err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, core.NewPersistenceError(fmt.Sprintf("failed to read insert result for feed %d", feedID), err)
	}

	return affected > 0, nil
}

// ListEntries returns a feed's entries, newest first
func (s *EntryService) ListEntries(ctx context.Context, feedID int, limit int) ([]models.Entry, error) {
	readCtx, cancel := s.db.ReadContext(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(readCtx,
		`SELECT id, title, link, pub_date, guid, feed_id
		 FROM feed_entries
		 WHERE feed_id = ?
		 ORDER BY pub_date DESC, id DESC
		 LIMIT ?`,
		feedID, limit,
	)
	if err != nil {
		return nil, core.NewDatabaseError(fmt.Sprintf("failed to query entries for feed %d", feedID), err)
	}
	defer rows.Close()

	entries := make([]models.Entry, 0)
	for rows.Next() {
		var entry models.Entry
		if err := rows.Scan(&entry.ID, &entry.Title, &entry.Link, &entry.PubDate, &entry.GUID, &entry.FeedID); err != nil {
			return nil, core.NewDatabaseError(fmt.Sprintf("failed to scan entry for feed %d", feedID), err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, core.NewDatabaseError(fmt.Sprintf("failed to list entries for feed %d", feedID), err)
	}

	return entries, nil
}

// CountEntries returns how many entries a feed has persisted
func (s *EntryService) CountEntries(ctx context.Context, feedID int) (int, error) {
	readCtx, cancel := s.db.ReadContext(ctx)
	defer cancel()

	var count int
	err := s.db.QueryRowContext(readCtx,
		`SELECT COUNT(*) FROM feed_entries WHERE feed_id = ?`, feedID,
	).Scan(&count)
	if err != nil {
		return 0, core.NewDatabaseError(fmt.Sprintf("failed to count entries for feed %d", feedID), err)
	}

	return count, nil
}
