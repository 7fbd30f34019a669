package tasks

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/g4dge/antifeed/app/feed"
	"github.com/g4dge/antifeed/app/opml"
)

// FetchFeedTask fetches one feed source, normalizes its entries, and
// runs each through the evaluator and the per-source cap tracker.
// Survivors land in the shared collector. Any failure makes this
// source contribute zero items; it never aborts the run.
type FetchFeedTask struct {
	Task
	Source     opml.Feed
	httpClient *http.Client
	evaluator  *feed.Evaluator
	caps       *feed.CapTracker
	collector  *Collector
	userAgent  string
	timeout    time.Duration
	now        time.Time
}

func NewFetchFeedTask(source opml.Feed, httpClient *http.Client, evaluator *feed.Evaluator,
	caps *feed.CapTracker, collector *Collector, userAgent string, timeout time.Duration,
	now time.Time) *FetchFeedTask {
	return &FetchFeedTask{
		Task:       NewTask(TaskTypeFetchFeed, source.Title),
		Source:     source,
		httpClient: httpClient,
		evaluator:  evaluator,
		caps:       caps,
		collector:  collector,
		userAgent:  userAgent,
		timeout:    timeout,
		now:        now,
	}
}

func (t *FetchFeedTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	t.Start()

	data, err := t.fetchFeed(ctx, t.Source.URL)
	if err != nil {
		return fmt.Errorf("failed to fetch feed: %w", err)
	}

	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to parse feed: %w", err)
	}

	// Cap key: feed title if configured, otherwise the feed's domain
	capKey := cmp.Or(t.Source.Title, feed.Domain(t.Source.URL))

	kept := 0
	for _, entry := range parsed.Items {
		item := feed.Normalize(entry, t.Source.Title, t.Source.Category, t.now)

		ok, reason := t.evaluator.Allowed(item)
		if !ok {
			slog.Debug("Item rejected", "feed", t.label(), "title", item.Title, "predicate", reason)
			continue
		}
		if !t.caps.Allow(capKey) {
			continue
		}

		t.collector.Add(item)
		kept++
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"feed", t.label(),
		"duration", t.GetDuration(),
		"raw", len(parsed.Items),
		"kept", kept,
		"cap", t.caps.Cap(capKey),
		"sofar", t.caps.Count(capKey))

	return nil
}

func (t *FetchFeedTask) fetchFeed(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

func (t *FetchFeedTask) label() string {
	return cmp.Or(t.Source.Title, t.Source.URL)
}
