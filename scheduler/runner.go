package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"econtent/planner"
	"econtent/types"
)

// Fetcher retrieves normalized news items from one feed URL
type Fetcher interface {
	FetchLatest(ctx context.Context, feedURL string, limit int) ([]*types.NewsItem, error)
}

// FetcherFunc adapts a plain function to the Fetcher interface
type FetcherFunc func(ctx context.Context, feedURL string, limit int) ([]*types.NewsItem, error)

func (f FetcherFunc) FetchLatest(ctx context.Context, feedURL string, limit int) ([]*types.NewsItem, error) {
	return f(ctx, feedURL, limit)
}

// Generator turns a task's inputs into a Telegram-ready post
type Generator interface {
	Generate(ctx context.Context, headline, summary string, keyFacts []string, postType types.PostType) (*types.TelegramContent, error)
}

// Enricher upgrades a task's generation input from the bare headline to a
// real summary with key facts, typically by extracting and summarizing the
// full article.
type Enricher interface {
	Enrich(ctx context.Context, item *types.NewsItem) (summary string, keyFacts []string, err error)
}

// RecordWriter appends one outcome record to the output store
type RecordWriter interface {
	Write(rec *types.OutputRecord) error
}

// SeenGuard filters news consumed by previous runs and marks new consumption
type SeenGuard interface {
	FilterSeen(ctx context.Context, items []*types.NewsItem) []*types.NewsItem
	MarkSeen(ctx context.Context, newsID string) error
}

// Publisher forwards a completed record to downstream consumers
type Publisher interface {
	PublishRecord(rec *types.OutputRecord) error
}

// Archiver stores a copy of a completed record outside the output log
type Archiver interface {
	ArchiveRecord(ctx context.Context, rec *types.OutputRecord) error
}

// RunnerConfig holds the static inputs of the daily run
type RunnerConfig struct {
	FeedURLs  []string
	FeedLimit int
	PlanSlots []types.PlanSlot
}

// Runner executes one end-to-end automation cycle: fetch, plan, generate,
// persist. Stage failures abort the run before anything is written;
// per-task generation failures are recorded and isolated.
type Runner struct {
	cfg     RunnerConfig
	fetcher Fetcher
	store   RecordWriter
	state   *Manager

	// Optional collaborators; nil disables the corresponding step
	generator Generator
	enricher  Enricher
	seen      SeenGuard
	publisher Publisher
	archiver  Archiver
}

// NewRunner creates a runner with the required collaborators. Optional ones
// are attached with the With* methods.
func NewRunner(cfg RunnerConfig, fetcher Fetcher, store RecordWriter, state *Manager) *Runner {
	return &Runner{
		cfg:     cfg,
		fetcher: fetcher,
		store:   store,
		state:   state,
	}
}

// WithGenerator enables content generation. Without it the runner records
// planned tasks only.
func (r *Runner) WithGenerator(g Generator) *Runner {
	r.generator = g
	return r
}

// WithEnricher enables article extraction and summarization before generation
func (r *Runner) WithEnricher(e Enricher) *Runner {
	r.enricher = e
	return r
}

// WithSeenGuard enables the cross-run consumed-news filter
func (r *Runner) WithSeenGuard(s SeenGuard) *Runner {
	r.seen = s
	return r
}

// WithPublisher enables publishing completed posts downstream
func (r *Runner) WithPublisher(p Publisher) *Runner {
	r.publisher = p
	return r
}

// WithArchiver enables archival of completed posts
func (r *Runner) WithArchiver(a Archiver) *Runner {
	r.archiver = a
	return r
}

// RunDaily executes one automation cycle. The caller (cron or API trigger)
// must have claimed the run via the state manager's TryStart.
func (r *Runner) RunDaily(ctx context.Context) error {
	log.Println("Starting daily automation job")
	r.state.AddLog("Starting daily automation job")

	if len(r.cfg.FeedURLs) == 0 {
		log.Println("No feed URLs configured; skipping job")
		r.state.AddLog("No feed URLs configured; skipping job")
		r.state.SetState(StateComplete)
		return nil
	}

	// Stage 1: fetch. A bad feed among several is logged and skipped; the
	// run aborts only when no feed yields anything.
	r.state.SetState(StateFetching)
	newsItems := r.fetchAll(ctx)
	if len(newsItems) == 0 {
		err := fmt.Errorf("all %d feeds failed or returned no items", len(r.cfg.FeedURLs))
		log.Printf("Fetch stage failed: %v", err)
		r.state.SetError(err)
		return err
	}
	r.state.SetNewsCount(len(newsItems))
	r.state.AddLog(fmt.Sprintf("Fetched %d news items", len(newsItems)))

	if r.seen != nil {
		newsItems = r.seen.FilterSeen(ctx, newsItems)
		if len(newsItems) == 0 {
			log.Println("All fetched news already consumed; nothing to plan")
			r.state.AddLog("All fetched news already consumed; nothing to plan")
			r.state.SetState(StateComplete)
			return nil
		}
	}

	// Stage 2: plan. Planning failure aborts with nothing written.
	r.state.SetState(StatePlanning)
	tasks, err := planner.CreateTasks(r.cfg.PlanSlots, newsItems)
	if err != nil {
		log.Printf("Content planning failed: %v", err)
		r.state.SetError(err)
		return err
	}
	r.state.SetTaskCount(len(tasks))
	r.state.AddLog(fmt.Sprintf("Planned %d tasks", len(tasks)))

	// Stage 3: generate and persist.
	r.state.SetState(StateGenerating)
	if r.generator == nil {
		if err := r.recordPlannedOnly(ctx, tasks); err != nil {
			r.state.SetError(err)
			return err
		}
		r.state.SetState(StateComplete)
		return nil
	}

	byID := make(map[string]*types.NewsItem, len(newsItems))
	for _, item := range newsItems {
		byID[item.NewsID] = item
	}
	for _, task := range tasks {
		r.generateOne(ctx, task, byID[task.NewsID])
	}

	log.Println("Daily automation job completed")
	r.state.AddLog("Daily automation job completed")
	r.state.SetState(StateComplete)
	return nil
}

// fetchAll collects news from every configured feed, skipping failed feeds
func (r *Runner) fetchAll(ctx context.Context) []*types.NewsItem {
	var items []*types.NewsItem
	for _, feedURL := range r.cfg.FeedURLs {
		fetched, err := r.fetcher.FetchLatest(ctx, feedURL, r.cfg.FeedLimit)
		if err != nil {
			log.Printf("Skipping feed %s: %v", feedURL, err)
			r.state.AddLog(fmt.Sprintf("Skipping feed %s: %v", feedURL, err))
			continue
		}
		items = append(items, fetched...)
	}
	return items
}

// recordPlannedOnly is the degraded mode when no generation credential is
// configured: every task is persisted as planned and nothing is generated.
func (r *Runner) recordPlannedOnly(ctx context.Context, tasks []types.ContentTask) error {
	log.Println("Generation credential missing; storing planned tasks only")
	r.state.AddLog("Generation credential missing; storing planned tasks only")

	for _, task := range tasks {
		rec := &types.OutputRecord{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Task:      task,
			Status:    types.StatusPlanned,
		}
		if err := r.store.Write(rec); err != nil {
			return fmt.Errorf("failed to persist planned task %s: %w", task.NewsID, err)
		}
		r.markSeen(ctx, task.NewsID)
	}
	return nil
}

// generateOne runs generation for a single task and persists the outcome.
// Failures are recorded and never abort the run.
func (r *Runner) generateOne(ctx context.Context, task types.ContentTask, item *types.NewsItem) {
	summary := task.Headline
	keyFacts := []string{task.Headline}
	if r.enricher != nil && item != nil {
		enrichedSummary, enrichedFacts, err := r.enricher.Enrich(ctx, item)
		if err != nil {
			log.Printf("Enrichment failed for %s, using headline only: %v", task.NewsID, err)
		} else {
			summary = enrichedSummary
			keyFacts = enrichedFacts
		}
	}

	started := time.Now()
	content, err := r.generator.Generate(ctx, task.Headline, summary, keyFacts, task.PostType)
	elapsed := time.Since(started).Seconds()

	rec := &types.OutputRecord{
		Timestamp:             time.Now().UTC().Format(time.RFC3339),
		Task:                  task,
		ProcessingTimeSeconds: &elapsed,
	}

	if err != nil {
		log.Printf("Content generation failed for %s: %v", task.NewsID, err)
		rec.Status = types.StatusFailed
		rec.Error = err.Error()
		if werr := r.store.Write(rec); werr != nil {
			log.Printf("Failed to persist failed record for %s: %v", task.NewsID, werr)
		}
		r.state.RecordOutcome(true)
		return
	}

	rec.Status = types.StatusCompleted
	rec.Content = content
	if werr := r.store.Write(rec); werr != nil {
		log.Printf("Failed to persist completed record for %s: %v", task.NewsID, werr)
		r.state.RecordOutcome(true)
		return
	}
	r.state.RecordOutcome(false)
	r.markSeen(ctx, task.NewsID)

	if r.archiver != nil {
		if aerr := r.archiver.ArchiveRecord(ctx, rec); aerr != nil {
			log.Printf("Archive failed for %s: %v", task.NewsID, aerr)
		}
	}
	if r.publisher != nil {
		if perr := r.publisher.PublishRecord(rec); perr != nil {
			log.Printf("Publish failed for %s: %v", task.NewsID, perr)
		}
	}
}

// markSeen records consumption, keeping failed tasks eligible for the next run
func (r *Runner) markSeen(ctx context.Context, newsID string) {
	if r.seen == nil {
		return
	}
	if err := r.seen.MarkSeen(ctx, newsID); err != nil {
		log.Printf("Failed to mark %s as seen: %v", newsID, err)
	}
}
