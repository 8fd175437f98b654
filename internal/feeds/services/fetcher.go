package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/tatupesonen/artemis/internal/core"
	"github.com/tatupesonen/artemis/internal/feeds/models"
)

// MaxResponseSize caps feed documents at 10MB so a misbehaving source
// cannot exhaust memory.
const MaxResponseSize = 10 * 1024 * 1024

// pubDateLayouts are the RFC 2822 date permutations seen in RSS
// documents. A date that matches none of them is treated as absent,
// never as an item failure.
var pubDateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"2 Jan 2006 15:04:05 -0700",
	"2 Jan 2006 15:04:05 MST",
}

// FetcherService fetches feed documents and extracts candidate items
type FetcherService struct {
	client *http.Client
	logger *core.Logger
	config *models.FetcherConfig
}

// NewFetcherService creates a new fetcher service
func NewFetcherService(logger *core.Logger, config *models.FetcherConfig) *FetcherService {
	client := &http.Client{
		Timeout: config.Timeout,
	}

	return &FetcherService{
		client: client,
		logger: logger,
		config: config,
	}
}

// FetchFeed fetches and parses a feed document in one step
func (f *FetcherService) FetchFeed(ctx context.Context, feedURL string) (*models.ParsedFeed, error) {
	body, err := f.Fetch(ctx, feedURL)
	if err != nil {
		return nil, err
	}

	parsed, err := f.Parse(body)
	if err != nil {
		return nil, err
	}

	f.logger.Debug("Fetched and parsed feed", "url", feedURL, "items", len(parsed.Items))
	return parsed, nil
}

// Fetch retrieves the raw feed document from feedURL. Network errors,
// timeouts and non-success statuses all classify as fetch errors.
func (f *FetcherService) Fetch(ctx context.Context, feedURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, core.NewFetchError(fmt.Sprintf("invalid feed url %q", feedURL), err)
	}

	req.Header.Set("User-Agent", f.config.UserAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, core.NewFetchError(fmt.Sprintf("failed to fetch %q", feedURL), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, core.NewFetchError(fmt.Sprintf("feed %q returned status %d", feedURL, resp.StatusCode), nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, core.NewFetchError(fmt.Sprintf("failed to read response from %q", feedURL), err)
	}

	if int64(len(body)) > MaxResponseSize {
		return nil, core.NewFetchError(fmt.Sprintf("feed %q exceeds %d bytes", feedURL, MaxResponseSize), nil)
	}

	return body, nil
}

// Parse extracts candidate items from a raw feed document, in document
// order. It fails only when the document as a whole is not a
// recognizable feed; per-item field problems never abort extraction.
func (f *FetcherService) Parse(data []byte) (*models.ParsedFeed, error) {
	// A parser per call: workers parse concurrently.
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(data))
	if err != nil {
		return nil, core.NewParseError("document is not a well-formed feed", err)
	}

	parsed := &models.ParsedFeed{
		Title: feed.Title,
		Link:  feed.Link,
		Items: make([]models.ParsedItem, 0, len(feed.Items)),
	}

	for _, item := range feed.Items {
		parsed.Items = append(parsed.Items, models.ParsedItem{
			Title:   optional(item.Title),
			Link:    optional(item.Link),
			GUID:    optional(item.GUID),
			PubDate: parsePubDate(item),
		})
	}

	return parsed, nil
}

// parsePubDate normalizes an item's publish date to a UTC instant.
// The raw RSS pubDate string is tried against the RFC 2822 layouts
// first; the parser's own parsed time covers Atom's RFC 3339 dates.
func parsePubDate(item *gofeed.Item) *time.Time {
	if item.Published != "" {
		for _, layout := range pubDateLayouts {
			if t, err := time.Parse(layout, item.Published); err == nil {
				utc := t.UTC()
				return &utc
			}
		}
	}

	if item.PublishedParsed != nil {
		utc := item.PublishedParsed.UTC()
		return &utc
	}
	if item.UpdatedParsed != nil {
		utc := item.UpdatedParsed.UTC()
		return &utc
	}

	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
