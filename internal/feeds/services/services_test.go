package services

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/tatupesonen/artemis/internal/core"
	"github.com/tatupesonen/artemis/internal/feeds/migrations"
	"github.com/tatupesonen/artemis/internal/feeds/models"
)

// sampleRSS has three items with distinct guids. The second item's
// pubDate is not a date at all, and the third has no guid, only a link.
const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Example Blog</title>
    <link>https://example.com</link>
    <description>Example</description>
    <item>
      <title>First post</title>
      <link>https://example.com/posts/1</link>
      <guid>post-1</guid>
      <pubDate>Tue, 10 Jan 2023 10:00:00 +0000</pubDate>
    </item>
    <item>
      <title>Second post</title>
      <link>https://example.com/posts/2</link>
      <guid>post-2</guid>
      <pubDate>not a real date</pubDate>
    </item>
    <item>
      <title>Third post</title>
      <link>https://example.com/posts/3</link>
    </item>
  </channel>
</rss>`

func newTestLogger() *core.Logger {
	return core.NewLogger(slog.LevelError)
}

func newTestDB(t *testing.T) *core.Database {
	t.Helper()

	logger := newTestLogger()
	db, err := core.OpenDatabase(filepath.Join(t.TempDir(), "artemis_test.db"), logger)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := migrations.NewManager(db, logger).Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func newTestFetcher() *FetcherService {
	return NewFetcherService(newTestLogger(), &models.FetcherConfig{
		UserAgent: "artemis test",
		Timeout:   5 * time.Second,
	})
}

func createTestFeed(t *testing.T, feedService *FeedService, url string) *models.Feed {
	t.Helper()

	feed, err := feedService.CreateFeed(context.Background(), &models.FeedCreate{
		URL:  url,
		Name: "test feed",
	})
	if err != nil {
		t.Fatalf("failed to create feed: %v", err)
	}
	return feed
}

func strPtr(s string) *string {
	return &s
}
