package tokenlist

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"
)

type fetchRecorder struct {
	entries map[string]Entry
	err     error
	calls   int
}

func (f *fetchRecorder) fetch(context.Context) (map[string]Entry, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.entries, nil
}

func TestGetOrRefresh_FetchesOnceWithinTTL(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	clock := func() time.Time { return now }
	rec := &fetchRecorder{entries: map[string]Entry{"MintX": {Symbol: "X"}}}
	c := NewCache(rec.fetch, 6*time.Hour, clock, zap.NewNop())

	for i := 0; i < 3; i++ {
		entries := c.GetOrRefresh(context.Background())
		if entries["MintX"].Symbol != "X" {
			t.Fatalf("call %d: missing cached entry", i)
		}
	}
	if rec.calls != 1 {
		t.Fatalf("expected a single fetch within the TTL, got %d", rec.calls)
	}
}

func TestGetOrRefresh_RefreshesAfterTTL(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	clock := func() time.Time { return now }
	rec := &fetchRecorder{entries: map[string]Entry{"MintX": {Symbol: "X"}}}
	c := NewCache(rec.fetch, 6*time.Hour, clock, zap.NewNop())

	c.GetOrRefresh(context.Background())
	now = now.Add(6*time.Hour + time.Minute)
	rec.entries = map[string]Entry{"MintX": {Symbol: "X2"}}

	entries := c.GetOrRefresh(context.Background())
	if rec.calls != 2 {
		t.Fatalf("expected a refresh after the TTL, got %d fetches", rec.calls)
	}
	if entries["MintX"].Symbol != "X2" {
		t.Fatalf("expected the refreshed entry, got %+v", entries["MintX"])
	}
}

func TestGetOrRefresh_ServesStaleOnRefreshFailure(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	clock := func() time.Time { return now }
	rec := &fetchRecorder{entries: map[string]Entry{"MintX": {Symbol: "X"}}}
	c := NewCache(rec.fetch, 6*time.Hour, clock, zap.NewNop())

	c.GetOrRefresh(context.Background())
	now = now.Add(7 * time.Hour)
	rec.err = fmt.Errorf("upstream down")

	entries := c.GetOrRefresh(context.Background())
	if entries["MintX"].Symbol != "X" {
		t.Fatalf("expected the stale snapshot to be served, got %+v", entries)
	}
}

func TestGetOrRefresh_FirstFetchFailureYieldsNil(t *testing.T) {
	rec := &fetchRecorder{err: fmt.Errorf("upstream down")}
	c := NewCache(rec.fetch, 6*time.Hour, nil, zap.NewNop())

	if entries := c.GetOrRefresh(context.Background()); entries != nil {
		t.Fatalf("expected nil when the first fetch fails, got %+v", entries)
	}
}
