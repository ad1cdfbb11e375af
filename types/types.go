package types

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// PlanWindow is the scheduling window a plan slot belongs to
type PlanWindow string

const (
	WindowDaily  PlanWindow = "daily"
	WindowWeekly PlanWindow = "weekly"
)

// Valid reports whether the window is a known value
func (w PlanWindow) Valid() bool {
	return w == WindowDaily || w == WindowWeekly
}

// PostType is the editorial format of a generated post
type PostType string

const (
	PostShort       PostType = "short"
	PostAnalytical  PostType = "analytical"
	PostEducational PostType = "educational"
	PostTableNumber PostType = "table-number"
)

// Valid reports whether the post type is a known value
func (p PostType) Valid() bool {
	switch p {
	case PostShort, PostAnalytical, PostEducational, PostTableNumber:
		return true
	}
	return false
}

// PlanSlot is a scheduled content-production opportunity awaiting a news item
type PlanSlot struct {
	SlotID   string     `json:"slot_id"`
	PostType PostType   `json:"post_type"`
	Window   PlanWindow `json:"window"`
}

// NewsItem is a normalized news entry from an RSS feed or an API caller
type NewsItem struct {
	NewsID      string     `json:"news_id"`
	Headline    string     `json:"headline"`
	IsBreaking  bool       `json:"is_breaking"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	SourceURL   string     `json:"source_url,omitempty"`
}

// ContentTask pairs a plan slot with the news item assigned to it
type ContentTask struct {
	SlotID   string   `json:"slot_id"`
	PostType PostType `json:"post_type"`
	NewsID   string   `json:"news_id"`
	Headline string   `json:"headline"`
}

// Status is the outcome status of a recorded task
type Status string

const (
	StatusPlanned   Status = "planned"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// TelegramContent is the generated Telegram-ready post
type TelegramContent struct {
	Lead     string `json:"lead"`
	Body     string `json:"body"`
	Analysis string `json:"analysis"`
	CTA      string `json:"cta"`
}

// HeadlineVariants holds three alternative headlines for a summarized story
type HeadlineVariants struct {
	ProblemHeadline  string `json:"problem_headline"`
	NumberHeadline   string `json:"number_headline"`
	QuestionHeadline string `json:"question_headline"`
}

// NewsSummary is the cleaned and summarized form of a full article
type NewsSummary struct {
	CleanedText string   `json:"cleaned_text"`
	Summary     string   `json:"summary"`
	KeyPoints   []string `json:"key_points"`
	KeyFacts    []string `json:"key_facts"`
}

// OutputRecord is one line of the append-only JSONL output store.
// Written exactly once per task per run and never mutated.
type OutputRecord struct {
	Timestamp             string           `json:"timestamp"`
	Task                  ContentTask      `json:"task"`
	Status                Status           `json:"status"`
	Content               *TelegramContent `json:"content,omitempty"`
	Error                 string           `json:"error,omitempty"`
	ProcessingTimeSeconds *float64         `json:"processing_time_seconds,omitempty"`
}

// DailyKPIs is the derived daily aggregate, recomputed on demand, never persisted
type DailyKPIs struct {
	Date                         string         `json:"date"`
	GeneratedPosts               int            `json:"generated_posts"`
	FailureRate                  float64        `json:"failure_rate"`
	AverageProcessingTimeSeconds *float64       `json:"average_processing_time_seconds"`
	ContentTypeDistribution      map[string]int `json:"content_type_distribution"`
	TotalTasks                   int            `json:"total_tasks"`
	FailedTasks                  int            `json:"failed_tasks"`
}

// Source is a registered RSS feed source
type Source struct {
	ID   string `json:"id"`
	URL  string `json:"url"`
	Name string `json:"name,omitempty"`
}

// GenerateID creates a short, stable ID by hashing the provided string input
func GenerateID(input string) string {
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:])[:16]
}
