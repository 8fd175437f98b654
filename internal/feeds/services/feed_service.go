package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tatupesonen/artemis/internal/core"
	"github.com/tatupesonen/artemis/internal/feeds/models"
)

// FeedService owns the durable list of registered feeds
type FeedService struct {
	db     *core.Database
	logger *core.Logger
}

// NewFeedService creates a new feed service
func NewFeedService(db *core.Database, logger *core.Logger) *FeedService {
	return &FeedService{
		db:     db,
		logger: logger,
	}
}

// CreateFeed registers a new feed and returns the stored record
func (s *FeedService) CreateFeed(ctx context.Context, create *models.FeedCreate) (*models.Feed, error) {
	var feed models.Feed

	readCtx, cancel := s.db.ReadContext(ctx)
	defer cancel()

	err := s.db.QueryRowContext(readCtx,
		`INSERT INTO feeds (url, name) VALUES (?, ?) RETURNING id, url, name, created_at`,
		create.URL, create.Name,
	).Scan(&feed.ID, &feed.URL, &feed.Name, &feed.CreatedAt)
	if err != nil {
		return nil, core.NewDatabaseError(fmt.Sprintf("failed to create feed %q", create.URL), err)
	}

	s.logger.Info("Registered feed", "feed_id", feed.ID, "url", feed.URL, "name", feed.Name)
	return &feed, nil
}

// GetFeed retrieves a feed by ID
func (s *FeedService) GetFeed(ctx context.Context, id int) (*models.Feed, error) {
	var feed models.Feed

	readCtx, cancel := s.db.ReadContext(ctx)
	defer cancel()

	err := s.db.QueryRowContext(readCtx,
		`SELECT id, url, name, created_at FROM feeds WHERE id = ?`, id,
	).Scan(&feed.ID, &feed.URL, &feed.Name, &feed.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.NewNotFoundError(fmt.Sprintf("feed %d not found", id), err)
		}
		return nil, core.NewDatabaseError(fmt.Sprintf("failed to get feed %d", id), err)
	}

	return &feed, nil
}

// ListFeeds returns every registered feed. The scheduler calls this at
// the start of each cycle; failures classify as registry errors so the
// cycle can be skipped without crashing.
func (s *FeedService) ListFeeds(ctx context.Context) ([]models.Feed, error) {
	readCtx, cancel := s.db.ReadContext(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(readCtx, `SELECT id, url, name, created_at FROM feeds ORDER BY id`)
	if err != nil {
		return nil, core.NewRegistryError("failed to list feeds", err)
	}
	defer rows.Close()

	var feeds []models.Feed
	for rows.Next() {
		var feed models.Feed
		if err := rows.Scan(&feed.ID, &feed.URL, &feed.Name, &feed.CreatedAt); err != nil {
			return nil, core.NewRegistryError("failed to scan feed", err)
		}
		feeds = append(feeds, feed)
	}

	if err := rows.Err(); err != nil {
		return nil, core.NewRegistryError("failed to list feeds", err)
	}

	return feeds, nil
}
