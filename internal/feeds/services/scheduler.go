package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tatupesonen/artemis/internal/core"
	"github.com/tatupesonen/artemis/internal/feeds/models"
)

// SchedulerService drives periodic feed refresh cycles. Each tick
// lists the registered feeds and launches one refresh worker per feed,
// fire-and-forget: the ticker never waits on workers, so a slow feed
// can overlap the next cycle for the same feed. The store's uniqueness
// constraint makes that overlap harmless.
type SchedulerService struct {
	feedService    *FeedService
	entryService   *EntryService
	fetcherService *FetcherService
	logger         *core.Logger
	config         *models.SchedulerConfig
	stopChan       chan struct{}
	wg             sync.WaitGroup
}

// NewSchedulerService creates a new scheduler service
func NewSchedulerService(
	feedService *FeedService,
	entryService *EntryService,
	fetcherService *FetcherService,
	logger *core.Logger,
	config *models.SchedulerConfig,
) *SchedulerService {
	return &SchedulerService{
		feedService:    feedService,
		entryService:   entryService,
		fetcherService: fetcherService,
		logger:         logger,
		config:         config,
		stopChan:       make(chan struct{}),
	}
}

// Start begins the scheduler loop
func (s *SchedulerService) Start(ctx context.Context) error {
	s.logger.Info("Starting ingestion scheduler", "interval", s.config.RefreshInterval)

	s.wg.Add(1)
	go s.run(ctx)

	return nil
}

// Stop stops the ticker and waits for in-flight workers to drain
func (s *SchedulerService) Stop(ctx context.Context) error {
	s.logger.Info("Stopping ingestion scheduler")
	close(s.stopChan)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *SchedulerService) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.RefreshInterval)
	defer ticker.Stop()

	// First cycle runs immediately, matching a ticker whose first
	// tick completes at once.
	s.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler context cancelled")
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.runCycle(ctx)
		}
	}
}

// runCycle lists all feeds and spawns one worker per feed. A registry
// failure skips the whole cycle; the next tick retries. Workers from a
// previous cycle may still be in flight and are left alone.
func (s *SchedulerService) runCycle(ctx context.Context) {
	feeds, err := s.feedService.ListFeeds(ctx)
	if err != nil {
		s.logger.Error("Skipping cycle, failed to list feeds", "error", err)
		return
	}

	if len(feeds) == 0 {
		return
	}

	s.logger.Debug("Starting refresh cycle", "feeds", len(feeds))

	for i := range feeds {
		feed := feeds[i]
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := s.RefreshFeed(ctx, &feed); err != nil {
				s.logger.Error("Feed refresh failed", "feed_id", feed.ID, "url", feed.URL, "error", err)
			}
		}()
	}
}

// TriggerRefresh launches one asynchronous worker invocation for a
// single feed. The HTTP boundary calls this right after a feed is
// registered so new feeds do not wait for the next tick.
func (s *SchedulerService) TriggerRefresh(feed *models.Feed) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.RefreshFeed(context.Background(), feed); err != nil {
			s.logger.Error("Triggered refresh failed", "feed_id", feed.ID, "url", feed.URL, "error", err)
		} else {
			s.logger.Info("Done updating feed", "feed_id", feed.ID, "url", feed.URL)
		}
	}()
}

// RefreshFeed runs one worker invocation: fetch the feed document,
// extract candidate items and attempt to persist each one. A fetch or
// parse failure ends only this invocation; a persistence failure for
// one item never prevents attempting the rest.
func (s *SchedulerService) RefreshFeed(ctx context.Context, feed *models.Feed) error {
	logger := s.logger.WithFeed(feed.ID, feed.URL)
	invocation := uuid.NewString()[:8]
	logger.Debug("Refreshing feed", "invocation", invocation)

	parsedFeed, err := s.fetcherService.FetchFeed(ctx, feed.URL)
	if err != nil {
		return err
	}

	inserted := 0
	for i := range parsedFeed.Items {
		item := &parsedFeed.Items[i]

		created, err := s.entryService.InsertEntry(ctx, feed.ID, item)
		if err != nil {
			logger.Error("Failed to persist item", "invocation", invocation, "error", err)
			continue
		}

		if created {
			inserted++
			title := ""
			if item.Title != nil {
				title = *item.Title
			}
			logger.Info("New item", "invocation", invocation, "title", title)
		}
	}

	logger.Debug("Feed refresh completed", "invocation", invocation,
		"items", len(parsedFeed.Items), "inserted", inserted)
	return nil
}
