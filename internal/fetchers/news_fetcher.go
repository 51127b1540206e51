package fetchers

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"
)

// NewsItem is one entry of the publisher feed shown on the dashboard.
type NewsItem struct {
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	Published time.Time `json:"published"`
}

// NewsFetcher reads the configured RSS/Atom feed and caches the parsed items
// so every page load does not hit the publisher.
type NewsFetcher struct {
	parser *gofeed.Parser
	url    string
	ttl    time.Duration
	limit  int

	mu        sync.Mutex
	items     []NewsItem
	fetchedAt time.Time
}

// NewNewsFetcher creates a feed fetcher. ttl bounds cache staleness; limit
// caps the number of returned items.
func NewNewsFetcher(url string, ttl time.Duration, limit int) *NewsFetcher {
	if limit <= 0 {
		limit = 10
	}
	return &NewsFetcher{
		parser: gofeed.NewParser(),
		url:    url,
		ttl:    ttl,
		limit:  limit,
	}
}

// Enabled reports whether a feed URL is configured.
func (f *NewsFetcher) Enabled() bool { return f.url != "" }

// Items returns the latest feed entries, newest first, from cache when it is
// still fresh. A fetch failure with a warm cache serves the stale items.
func (f *NewsFetcher) Items(ctx context.Context) ([]NewsItem, error) {
	if !f.Enabled() {
		return nil, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.items != nil && time.Since(f.fetchedAt) < f.ttl {
		return f.items, nil
	}

	feed, err := f.parser.ParseURLWithContext(f.url, ctx)
	if err != nil {
		if f.items != nil {
			return f.items, nil
		}
		return nil, fmt.Errorf("failed to fetch news feed %s: %w", f.url, err)
	}

	items := make([]NewsItem, 0, len(feed.Items))
	for _, entry := range feed.Items {
		item := NewsItem{Title: entry.Title, Link: entry.Link}
		if entry.PublishedParsed != nil {
			item.Published = *entry.PublishedParsed
		}
		items = append(items, item)
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Published.After(items[j].Published) })
	if len(items) > f.limit {
		items = items[:f.limit]
	}

	f.items = items
	f.fetchedAt = time.Now()
	return items, nil
}
