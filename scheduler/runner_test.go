package scheduler

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"econtent/types"
)

type fakeFetcher struct {
	feeds map[string][]*types.NewsItem
	errs  map[string]error
}

func (f *fakeFetcher) FetchLatest(ctx context.Context, feedURL string, limit int) ([]*types.NewsItem, error) {
	if err, ok := f.errs[feedURL]; ok {
		return nil, err
	}
	return f.feeds[feedURL], nil
}

type fakeStore struct {
	records []*types.OutputRecord
	err     error
}

func (s *fakeStore) Write(rec *types.OutputRecord) error {
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, rec)
	return nil
}

type fakeGenerator struct {
	failFor   map[string]bool
	calls     []string
	summaries []string
	facts     [][]string
}

func (g *fakeGenerator) Generate(ctx context.Context, headline, summary string, keyFacts []string, postType types.PostType) (*types.TelegramContent, error) {
	g.calls = append(g.calls, headline)
	g.summaries = append(g.summaries, summary)
	g.facts = append(g.facts, keyFacts)
	if g.failFor[headline] {
		return nil, errors.New("model refused")
	}
	return &types.TelegramContent{Lead: "l", Body: "b", Analysis: "a", CTA: "c"}, nil
}

type fakeEnricher struct {
	summary string
	facts   []string
	err     error
	calls   []string
}

func (e *fakeEnricher) Enrich(ctx context.Context, item *types.NewsItem) (string, []string, error) {
	e.calls = append(e.calls, item.NewsID)
	if e.err != nil {
		return "", nil, e.err
	}
	return e.summary, e.facts, nil
}

type fakeArchiver struct {
	err   error
	calls int
}

func (a *fakeArchiver) ArchiveRecord(ctx context.Context, rec *types.OutputRecord) error {
	a.calls++
	return a.err
}

type fakePublisher struct {
	err   error
	calls int
}

func (p *fakePublisher) PublishRecord(rec *types.OutputRecord) error {
	p.calls++
	return p.err
}

type fakeSeen struct {
	seen   map[string]bool
	marked []string
}

func (s *fakeSeen) FilterSeen(ctx context.Context, items []*types.NewsItem) []*types.NewsItem {
	var fresh []*types.NewsItem
	for _, item := range items {
		if !s.seen[item.NewsID] {
			fresh = append(fresh, item)
		}
	}
	return fresh
}

func (s *fakeSeen) MarkSeen(ctx context.Context, newsID string) error {
	s.marked = append(s.marked, newsID)
	return nil
}

func newsFixture(n int) []*types.NewsItem {
	items := make([]*types.NewsItem, 0, n)
	for i := 0; i < n; i++ {
		t := time.Date(2025, 3, 10, 6, i, 0, 0, time.UTC)
		items = append(items, &types.NewsItem{
			NewsID:      fmt.Sprintf("n%d", i),
			Headline:    fmt.Sprintf("headline %d", i),
			PublishedAt: &t,
		})
	}
	return items
}

func slotsFixture(n int) []types.PlanSlot {
	slots := make([]types.PlanSlot, 0, n)
	for i := 0; i < n; i++ {
		slots = append(slots, types.PlanSlot{
			SlotID:   fmt.Sprintf("s%d", i),
			PostType: types.PostShort,
			Window:   types.WindowDaily,
		})
	}
	return slots
}

func TestRunDailyPlannedOnlyWithoutGenerator(t *testing.T) {
	store := &fakeStore{}
	fetcher := &fakeFetcher{feeds: map[string][]*types.NewsItem{"feed": newsFixture(3)}}
	runner := NewRunner(RunnerConfig{
		FeedURLs:  []string{"feed"},
		FeedLimit: 20,
		PlanSlots: slotsFixture(3),
	}, fetcher, store, NewManager())

	if err := runner.RunDaily(context.Background()); err != nil {
		t.Fatalf("RunDaily() error: %v", err)
	}

	if len(store.records) != 3 {
		t.Fatalf("got %d records, want 3", len(store.records))
	}
	for i, rec := range store.records {
		if rec.Status != types.StatusPlanned {
			t.Errorf("record %d status = %s, want planned", i, rec.Status)
		}
		if rec.Content != nil {
			t.Errorf("record %d has content in planned mode", i)
		}
		if rec.ProcessingTimeSeconds != nil {
			t.Errorf("record %d has processing time in planned mode", i)
		}
	}
}

func TestRunDailyTotalFetchFailureWritesNothing(t *testing.T) {
	store := &fakeStore{}
	fetcher := &fakeFetcher{errs: map[string]error{
		"feed1": errors.New("dns failure"),
		"feed2": errors.New("dns failure"),
	}}
	state := NewManager()
	runner := NewRunner(RunnerConfig{
		FeedURLs:  []string{"feed1", "feed2"},
		PlanSlots: slotsFixture(2),
	}, fetcher, store, state)

	if err := runner.RunDaily(context.Background()); err == nil {
		t.Fatal("RunDaily() should fail when every feed fails")
	}

	if len(store.records) != 0 {
		t.Errorf("got %d records, want 0 after aborted run", len(store.records))
	}
	if state.GetState() != StateError {
		t.Errorf("state = %s, want error", state.GetState())
	}
}

func TestRunDailyProceedsWhenOneFeedFails(t *testing.T) {
	store := &fakeStore{}
	fetcher := &fakeFetcher{
		feeds: map[string][]*types.NewsItem{"good": newsFixture(2)},
		errs:  map[string]error{"bad": errors.New("timeout")},
	}
	runner := NewRunner(RunnerConfig{
		FeedURLs:  []string{"bad", "good"},
		PlanSlots: slotsFixture(2),
	}, fetcher, store, NewManager())

	if err := runner.RunDaily(context.Background()); err != nil {
		t.Fatalf("RunDaily() error: %v", err)
	}
	if len(store.records) != 2 {
		t.Errorf("got %d records, want 2 from the surviving feed", len(store.records))
	}
}

func TestRunDailyIsolatesGenerationFailures(t *testing.T) {
	store := &fakeStore{}
	fetcher := &fakeFetcher{feeds: map[string][]*types.NewsItem{"feed": newsFixture(3)}}
	gen := &fakeGenerator{failFor: map[string]bool{"headline 1": true}}
	state := NewManager()
	runner := NewRunner(RunnerConfig{
		FeedURLs:  []string{"feed"},
		PlanSlots: slotsFixture(3),
	}, fetcher, store, state).WithGenerator(gen)

	if err := runner.RunDaily(context.Background()); err != nil {
		t.Fatalf("RunDaily() error: %v", err)
	}

	if len(store.records) != 3 {
		t.Fatalf("got %d records, want 3", len(store.records))
	}

	completed, failed := 0, 0
	for _, rec := range store.records {
		switch rec.Status {
		case types.StatusCompleted:
			completed++
			if rec.Content == nil {
				t.Error("completed record missing content")
			}
		case types.StatusFailed:
			failed++
			if rec.Error == "" {
				t.Error("failed record missing error message")
			}
			if rec.Content != nil {
				t.Error("failed record must not carry content")
			}
		}
		if rec.ProcessingTimeSeconds == nil {
			t.Error("generated record missing processing time")
		}
	}
	if completed != 2 || failed != 1 {
		t.Errorf("completed=%d failed=%d, want 2 and 1", completed, failed)
	}

	status := state.GetStatus()
	if status.CompletedCount != 2 || status.FailedCount != 1 {
		t.Errorf("state counts completed=%d failed=%d, want 2 and 1", status.CompletedCount, status.FailedCount)
	}
}

func TestRunDailyEnrichedInputReachesGenerator(t *testing.T) {
	store := &fakeStore{}
	fetcher := &fakeFetcher{feeds: map[string][]*types.NewsItem{"feed": newsFixture(1)}}
	gen := &fakeGenerator{}
	enricher := &fakeEnricher{summary: "rich summary", facts: []string{"fact one", "fact two"}}
	runner := NewRunner(RunnerConfig{
		FeedURLs:  []string{"feed"},
		PlanSlots: slotsFixture(1),
	}, fetcher, store, NewManager()).WithGenerator(gen).WithEnricher(enricher)

	if err := runner.RunDaily(context.Background()); err != nil {
		t.Fatalf("RunDaily() error: %v", err)
	}

	if len(enricher.calls) != 1 || enricher.calls[0] != "n0" {
		t.Errorf("enricher calls = %v, want [n0]", enricher.calls)
	}
	if len(gen.summaries) != 1 || gen.summaries[0] != "rich summary" {
		t.Errorf("generator summary = %v, want the enriched summary", gen.summaries)
	}
	if len(gen.facts) != 1 || len(gen.facts[0]) != 2 || gen.facts[0][0] != "fact one" {
		t.Errorf("generator key facts = %v, want the enriched facts", gen.facts)
	}
}

func TestRunDailyEnrichmentFailureFallsBackToHeadline(t *testing.T) {
	store := &fakeStore{}
	fetcher := &fakeFetcher{feeds: map[string][]*types.NewsItem{"feed": newsFixture(1)}}
	gen := &fakeGenerator{}
	enricher := &fakeEnricher{err: errors.New("article unreachable")}
	state := NewManager()
	runner := NewRunner(RunnerConfig{
		FeedURLs:  []string{"feed"},
		PlanSlots: slotsFixture(1),
	}, fetcher, store, state).WithGenerator(gen).WithEnricher(enricher)

	if err := runner.RunDaily(context.Background()); err != nil {
		t.Fatalf("RunDaily() error: %v", err)
	}

	if len(store.records) != 1 || store.records[0].Status != types.StatusCompleted {
		t.Fatalf("records = %+v, want one completed record", store.records)
	}
	if len(gen.summaries) != 1 || gen.summaries[0] != "headline 0" {
		t.Errorf("generator summary = %v, want the headline fallback", gen.summaries)
	}
	if len(gen.facts) != 1 || len(gen.facts[0]) != 1 || gen.facts[0][0] != "headline 0" {
		t.Errorf("generator key facts = %v, want the headline fallback", gen.facts)
	}
	if state.GetState() != StateComplete {
		t.Errorf("state = %s, want complete after enrichment fallback", state.GetState())
	}
}

func TestRunDailyArchiveAndPublishFailuresAreNonFatal(t *testing.T) {
	store := &fakeStore{}
	fetcher := &fakeFetcher{feeds: map[string][]*types.NewsItem{"feed": newsFixture(1)}}
	archiver := &fakeArchiver{err: errors.New("bucket gone")}
	publisher := &fakePublisher{err: errors.New("broker down")}
	state := NewManager()
	runner := NewRunner(RunnerConfig{
		FeedURLs:  []string{"feed"},
		PlanSlots: slotsFixture(1),
	}, fetcher, store, state).WithGenerator(&fakeGenerator{}).WithArchiver(archiver).WithPublisher(publisher)

	if err := runner.RunDaily(context.Background()); err != nil {
		t.Fatalf("RunDaily() error: %v", err)
	}

	if archiver.calls != 1 || publisher.calls != 1 {
		t.Errorf("archiver calls = %d, publisher calls = %d, want 1 and 1", archiver.calls, publisher.calls)
	}
	if len(store.records) != 1 || store.records[0].Status != types.StatusCompleted {
		t.Fatalf("records = %+v, want one completed record despite downstream failures", store.records)
	}
	status := state.GetStatus()
	if status.CompletedCount != 1 || status.FailedCount != 0 {
		t.Errorf("state counts completed=%d failed=%d, want 1 and 0", status.CompletedCount, status.FailedCount)
	}
}

func TestRunDailyRecordsFollowTaskOrder(t *testing.T) {
	store := &fakeStore{}
	// Newest item first after planning: n2, n1, n0
	fetcher := &fakeFetcher{feeds: map[string][]*types.NewsItem{"feed": newsFixture(3)}}
	runner := NewRunner(RunnerConfig{
		FeedURLs:  []string{"feed"},
		PlanSlots: slotsFixture(3),
	}, fetcher, store, NewManager()).WithGenerator(&fakeGenerator{})

	if err := runner.RunDaily(context.Background()); err != nil {
		t.Fatalf("RunDaily() error: %v", err)
	}

	want := []string{"n2", "n1", "n0"}
	for i, rec := range store.records {
		if rec.Task.NewsID != want[i] {
			t.Errorf("record %d news_id = %s, want %s", i, rec.Task.NewsID, want[i])
		}
	}
}

func TestRunDailySeenFilterAndMarking(t *testing.T) {
	store := &fakeStore{}
	fetcher := &fakeFetcher{feeds: map[string][]*types.NewsItem{"feed": newsFixture(3)}}
	seen := &fakeSeen{seen: map[string]bool{"n2": true}}
	gen := &fakeGenerator{failFor: map[string]bool{"headline 0": true}}
	runner := NewRunner(RunnerConfig{
		FeedURLs:  []string{"feed"},
		PlanSlots: slotsFixture(3),
	}, fetcher, store, NewManager()).WithGenerator(gen).WithSeenGuard(seen)

	if err := runner.RunDaily(context.Background()); err != nil {
		t.Fatalf("RunDaily() error: %v", err)
	}

	// n2 filtered out up front, leaving n1 and n0
	if len(store.records) != 2 {
		t.Fatalf("got %d records, want 2", len(store.records))
	}

	// Only the completed task is marked; the failed one stays eligible
	if len(seen.marked) != 1 || seen.marked[0] != "n1" {
		t.Errorf("marked = %v, want [n1]", seen.marked)
	}
}

func TestRunDailyNoFeedsConfigured(t *testing.T) {
	store := &fakeStore{}
	state := NewManager()
	runner := NewRunner(RunnerConfig{PlanSlots: slotsFixture(1)}, &fakeFetcher{}, store, state)

	if err := runner.RunDaily(context.Background()); err != nil {
		t.Fatalf("RunDaily() error: %v", err)
	}
	if len(store.records) != 0 {
		t.Errorf("got %d records, want 0", len(store.records))
	}
}

func TestRunDailyAllNewsAlreadySeen(t *testing.T) {
	store := &fakeStore{}
	fetcher := &fakeFetcher{feeds: map[string][]*types.NewsItem{"feed": newsFixture(2)}}
	seen := &fakeSeen{seen: map[string]bool{"n0": true, "n1": true}}
	state := NewManager()
	runner := NewRunner(RunnerConfig{
		FeedURLs:  []string{"feed"},
		PlanSlots: slotsFixture(2),
	}, fetcher, store, state).WithSeenGuard(seen)

	if err := runner.RunDaily(context.Background()); err != nil {
		t.Fatalf("RunDaily() error: %v", err)
	}
	if len(store.records) != 0 {
		t.Errorf("got %d records, want 0", len(store.records))
	}
	if state.GetState() != StateComplete {
		t.Errorf("state = %s, want complete", state.GetState())
	}
}

func TestManagerTryStartGuardsOverlap(t *testing.T) {
	m := NewManager()

	if !m.TryStart() {
		t.Fatal("first TryStart() must succeed")
	}
	if m.TryStart() {
		t.Error("TryStart() must fail while a run is active")
	}

	m.SetState(StateComplete)
	if !m.TryStart() {
		t.Error("TryStart() must succeed after completion")
	}

	m.SetError(errors.New("boom"))
	if !m.TryStart() {
		t.Error("TryStart() must succeed after an error")
	}
}
