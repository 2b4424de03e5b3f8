package insights

import (
	"context"
	"fmt"
	"sync"
	"time"

	"codeberg.org/fleetdesk/console/internal/logger"
)

type cacheEntry struct {
	insights  []Insight
	fetchedAt time.Time
}

// wraps a Source with a TTL cache keyed by preferences
type Fetcher struct {
	source Source
	ttl    time.Duration
	now    func() time.Time

	mu    sync.Mutex
	cache map[string]cacheEntry
}

func NewFetcher(source Source, ttl time.Duration) *Fetcher {
	return &Fetcher{
		source: source,
		ttl:    ttl,
		now:    time.Now,
		cache:  make(map[string]cacheEntry),
	}
}

// returns cached insights while fresh, otherwise asks the source.
// disabled preferences short-circuit to nothing.
func (f *Fetcher) Fetch(ctx context.Context, prefs Preferences) ([]Insight, error) {
	prefs = prefs.Normalize()
	if !prefs.Enabled {
		return nil, nil
	}

	key := prefs.Key()

	f.mu.Lock()
	entry, ok := f.cache[key]
	f.mu.Unlock()

	if ok && f.now().Sub(entry.fetchedAt) < f.ttl {
		return entry.insights, nil
	}

	insights, err := f.source.Insights(ctx, prefs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch insights: %w", err)
	}

	f.mu.Lock()
	f.cache[key] = cacheEntry{insights: insights, fetchedAt: f.now()}
	f.mu.Unlock()

	logger.Debug("insights fetched", "key", key, "count", len(insights))

	return insights, nil
}

// drops every cached result
func (f *Fetcher) Invalidate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cache = make(map[string]cacheEntry)
}
