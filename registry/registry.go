package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"econtent/types"
)

const (
	sourcesKey  = "econtent:sources"
	seenKeyBase = "econtent:seen:"
)

// Config configures the Redis connection backing the registry
type Config struct {
	Addr     string // e.g. localhost:6379
	Password string
	DB       int
	// SeenTTL bounds how long consumed news IDs are remembered
	SeenTTL time.Duration
}

// Registry stores registered feed sources and the set of news IDs consumed
// by previous runs, backed by Redis.
type Registry struct {
	client  *redis.Client
	seenTTL time.Duration
}

// New creates a registry and verifies the Redis connection
func New(ctx context.Context, cfg Config) (*Registry, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	ttl := cfg.SeenTTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Registry{client: client, seenTTL: ttl}, nil
}

// Close releases the Redis connection
func (r *Registry) Close() error {
	return r.client.Close()
}

// AddSource registers a feed source and returns it with a generated ID
func (r *Registry) AddSource(ctx context.Context, url, name string) (*types.Source, error) {
	source := &types.Source{
		ID:   uuid.NewString(),
		URL:  url,
		Name: name,
	}
	data, err := json.Marshal(source)
	if err != nil {
		return nil, err
	}
	if err := r.client.HSet(ctx, sourcesKey, source.ID, data).Err(); err != nil {
		return nil, fmt.Errorf("failed to store source: %w", err)
	}
	return source, nil
}

// ListSources returns all registered feed sources
func (r *Registry) ListSources(ctx context.Context) ([]types.Source, error) {
	values, err := r.client.HGetAll(ctx, sourcesKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}

	sources := make([]types.Source, 0, len(values))
	for id, raw := range values {
		var source types.Source
		if err := json.Unmarshal([]byte(raw), &source); err != nil {
			log.Printf("Warning: skipping unreadable source entry %s", id)
			continue
		}
		sources = append(sources, source)
	}
	return sources, nil
}

// FilterSeen drops news items whose IDs were consumed by a previous run.
// Lookup errors keep the item: a Redis outage must never lose news.
func (r *Registry) FilterSeen(ctx context.Context, items []*types.NewsItem) []*types.NewsItem {
	fresh := make([]*types.NewsItem, 0, len(items))
	for _, item := range items {
		seen, err := r.client.Exists(ctx, seenKeyBase+item.NewsID).Result()
		if err != nil {
			log.Printf("Warning: seen lookup failed for %s: %v", item.NewsID, err)
			fresh = append(fresh, item)
			continue
		}
		if seen > 0 {
			log.Printf("Skipping already-consumed news item %s", item.NewsID)
			continue
		}
		fresh = append(fresh, item)
	}
	return fresh
}

// MarkSeen records that a news ID was consumed, bounded by the seen TTL
func (r *Registry) MarkSeen(ctx context.Context, newsID string) error {
	return r.client.Set(ctx, seenKeyBase+newsID, 1, r.seenTTL).Err()
}
