package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tatupesonen/artemis/internal/core"
	"github.com/tatupesonen/artemis/internal/feeds/models"
	"github.com/tatupesonen/artemis/internal/feeds/services"
)

// entryPageSize bounds entry listings, matching the reader UI's page
const entryPageSize = 50

// Handlers contains the feed HTTP handlers
type Handlers struct {
	logger       *core.Logger
	feedService  *services.FeedService
	entryService *services.EntryService
	fetcher      *services.FetcherService
	scheduler    *services.SchedulerService
}

// NewHandlers creates a new handlers instance
func NewHandlers(
	logger *core.Logger,
	feedService *services.FeedService,
	entryService *services.EntryService,
	fetcher *services.FetcherService,
	scheduler *services.SchedulerService,
) *Handlers {
	return &Handlers{
		logger:       logger,
		feedService:  feedService,
		entryService: entryService,
		fetcher:      fetcher,
		scheduler:    scheduler,
	}
}

// ListFeeds handles GET /feeds
func (h *Handlers) ListFeeds(w http.ResponseWriter, r *http.Request) {
	feeds, err := h.feedService.ListFeeds(r.Context())
	if err != nil {
		h.logger.Error("Failed to list feeds", "error", err)
		core.HandleError(w, err)
		return
	}

	if feeds == nil {
		feeds = []models.Feed{}
	}
	respondJSON(w, http.StatusOK, feeds)
}

// CreateFeed handles POST /feeds. The candidate URL must fetch and
// parse as a well-formed feed before the record is stored; on success
// one refresh worker is triggered asynchronously so the feed's entries
// appear without waiting for the next cycle.
func (h *Handlers) CreateFeed(w http.ResponseWriter, r *http.Request) {
	var create models.FeedCreate
	if err := json.NewDecoder(r.Body).Decode(&create); err != nil {
		core.HandleError(w, core.NewValidationError("invalid request body", err))
		return
	}

	if err := create.Validate(); err != nil {
		core.HandleError(w, core.NewValidationError(err.Error(), nil))
		return
	}

	if _, err := h.fetcher.FetchFeed(r.Context(), create.URL); err != nil {
		h.logger.Warn("Rejecting feed registration", "url", create.URL, "error", err)
		core.HandleError(w, err)
		return
	}

	feed, err := h.feedService.CreateFeed(r.Context(), &create)
	if err != nil {
		h.logger.Error("Failed to create feed", "url", create.URL, "error", err)
		core.HandleError(w, err)
		return
	}

	h.scheduler.TriggerRefresh(feed)

	respondJSON(w, http.StatusCreated, feed)
}

// ListFeedEntries handles GET /feeds/{id}
func (h *Handlers) ListFeedEntries(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		core.HandleError(w, core.NewValidationError("feed id must be an integer", err))
		return
	}

	if _, err := h.feedService.GetFeed(r.Context(), id); err != nil {
		core.HandleError(w, err)
		return
	}

	entries, err := h.entryService.ListEntries(r.Context(), id, entryPageSize)
	if err != nil {
		h.logger.Error("Failed to list entries", "feed_id", id, "error", err)
		core.HandleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, entries)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
