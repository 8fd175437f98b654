package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/tatupesonen/artemis/internal/core"
	"github.com/tatupesonen/artemis/internal/feeds/models"
)

func newTestScheduler(db *core.Database) (*SchedulerService, *FeedService, *EntryService) {
	logger := newTestLogger()
	feedService := NewFeedService(db, logger)
	entryService := NewEntryService(db, logger)
	scheduler := NewSchedulerService(feedService, entryService, newTestFetcher(), logger, models.DefaultSchedulerConfig())
	return scheduler, feedService, entryService
}

func TestRefreshFeedIsIdempotent(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleRSS))
	}))
	defer upstream.Close()

	db := newTestDB(t)
	scheduler, feedService, entryService := newTestScheduler(db)

	feed := createTestFeed(t, feedService, upstream.URL)
	ctx := context.Background()

	if err := scheduler.RefreshFeed(ctx, feed); err != nil {
		t.Fatalf("first refresh failed: %v", err)
	}

	count, err := entryService.CountEntries(ctx, feed.ID)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 rows after first refresh, got %d", count)
	}

	// Byte-identical content on the second pass: zero new rows.
	if err := scheduler.RefreshFeed(ctx, feed); err != nil {
		t.Fatalf("second refresh failed: %v", err)
	}

	count, err = entryService.CountEntries(ctx, feed.ID)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 rows after second refresh, got %d", count)
	}
}

func TestRefreshFeedFetchFailure(t *testing.T) {
	db := newTestDB(t)
	scheduler, feedService, _ := newTestScheduler(db)

	feed := createTestFeed(t, feedService, "http://127.0.0.1:1/feed.xml")

	err := scheduler.RefreshFeed(context.Background(), feed)
	if err == nil {
		t.Fatal("expected refresh of unreachable feed to fail")
	}
	if !core.IsCode(err, core.ErrCodeFetch) {
		t.Errorf("expected %s, got %v", core.ErrCodeFetch, err)
	}
}

func TestCycleIsolatesBrokenFeeds(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleRSS))
	}))
	defer good.Close()

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "broken", http.StatusInternalServerError)
	}))
	defer bad.Close()

	db := newTestDB(t)
	scheduler, feedService, entryService := newTestScheduler(db)

	badFeed := createTestFeed(t, feedService, bad.URL)
	goodFeed := createTestFeed(t, feedService, good.URL)
	ctx := context.Background()

	// One cycle over both feeds; the broken one must not affect the
	// healthy one.
	scheduler.runCycle(ctx)
	scheduler.wg.Wait()

	count, err := entryService.CountEntries(ctx, goodFeed.ID)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 rows for healthy feed, got %d", count)
	}

	count, err = entryService.CountEntries(ctx, badFeed.ID)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 rows for broken feed, got %d", count)
	}
}

func TestConcurrentRefreshesProduceNoDuplicates(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleRSS))
	}))
	defer upstream.Close()

	db := newTestDB(t)
	scheduler, feedService, entryService := newTestScheduler(db)

	feed := createTestFeed(t, feedService, upstream.URL)
	ctx := context.Background()

	// Overlapping worker invocations for the same feed, same upstream
	// content. Together they must produce what one alone would.
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := scheduler.RefreshFeed(ctx, feed); err != nil {
				t.Errorf("concurrent refresh failed: %v", err)
			}
		}()
	}
	wg.Wait()

	count, err := entryService.CountEntries(ctx, feed.ID)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 rows after concurrent refreshes, got %d", count)
	}
}

func TestSchedulerStartStop(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleRSS))
	}))
	defer upstream.Close()

	db := newTestDB(t)
	scheduler, feedService, entryService := newTestScheduler(db)

	feed := createTestFeed(t, feedService, upstream.URL)
	ctx := context.Background()

	// The first cycle runs immediately on start.
	if err := scheduler.Start(ctx); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := scheduler.Stop(ctx); err != nil {
		t.Fatalf("stop failed: %v", err)
	}

	count, err := entryService.CountEntries(ctx, feed.ID)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 rows after initial cycle, got %d", count)
	}
}
