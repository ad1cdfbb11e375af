package config

import (
	"encoding/json"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"econtent/types"
)

// Config holds all process configuration, read once at startup and passed
// explicitly to components.
type Config struct {
	Port         string
	CronSchedule string

	FeedURLs  []string
	FeedLimit int

	OutputPath string
	PlanSlots  []types.PlanSlot

	CohereAPIKey  string
	CohereModel   string
	EnrichContent bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SeenTTL       time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	S3Bucket       string
	S3Prefix       string
	S3Region       string
	S3Profile      string
	S3UsePathStyle bool
}

// defaultPlanSlots is the daily editorial plan used when PLAN_SLOTS is unset
var defaultPlanSlots = []types.PlanSlot{
	{SlotID: "morning-brief", PostType: types.PostShort, Window: types.WindowDaily},
	{SlotID: "midday-analysis", PostType: types.PostAnalytical, Window: types.WindowDaily},
	{SlotID: "afternoon-explainer", PostType: types.PostEducational, Window: types.WindowDaily},
	{SlotID: "evening-numbers", PostType: types.PostTableNumber, Window: types.WindowDaily},
}

// Load reads configuration from the environment. Call godotenv.Load first
// if a .env file should be honored.
func Load() *Config {
	cfg := &Config{
		Port:           GetEnvOrDefault("PORT", "8080"),
		CronSchedule:   GetEnvOrDefault("CRON_SCHEDULE", "0 7 * * *"),
		FeedLimit:      getEnvInt("FEED_LIMIT", 20),
		OutputPath:     GetEnvOrDefault("OUTPUT_PATH", "data/output.jsonl"),
		CohereAPIKey:   os.Getenv("COHERE_API_KEY"),
		CohereModel:    os.Getenv("COHERE_MODEL"),
		EnrichContent:  getEnvBool("ENRICH_CONTENT", false),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASS"),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		SeenTTL:        time.Duration(getEnvInt("SEEN_TTL_HOURS", 168)) * time.Hour,
		KafkaTopic:     GetEnvOrDefault("KAFKA_TOPIC", "telegram-posts"),
		S3Bucket:       strings.TrimSpace(os.Getenv("S3_BUCKET")),
		S3Region:       strings.TrimSpace(os.Getenv("S3_REGION")),
		S3Profile:      strings.TrimSpace(os.Getenv("S3_PROFILE")),
		S3UsePathStyle: strings.EqualFold(strings.TrimSpace(os.Getenv("S3_USE_PATH_STYLE")), "true"),
	}

	if prefix := strings.TrimSpace(os.Getenv("S3_PREFIX")); prefix != "" {
		cfg.S3Prefix = strings.Trim(prefix, "/") + "/"
	}

	if urls := os.Getenv("FEED_URLS"); urls != "" {
		for _, u := range strings.Split(urls, ",") {
			if trimmed := strings.TrimSpace(u); trimmed != "" {
				cfg.FeedURLs = append(cfg.FeedURLs, trimmed)
			}
		}
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if trimmed := strings.TrimSpace(b); trimmed != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, trimmed)
			}
		}
	}

	cfg.PlanSlots = defaultPlanSlots
	if raw := os.Getenv("PLAN_SLOTS"); raw != "" {
		var slots []types.PlanSlot
		if err := json.Unmarshal([]byte(raw), &slots); err != nil {
			log.Printf("Warning: invalid PLAN_SLOTS, using default plan: %v", err)
		} else if len(slots) > 0 {
			cfg.PlanSlots = slots
		}
	}

	return cfg
}

// GetEnvOrDefault returns the environment value or a fallback when unset
func GetEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
		log.Printf("Warning: invalid %s=%q, using %d", key, val, defaultVal)
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
		log.Printf("Warning: invalid %s=%q, using %t", key, val, defaultVal)
	}
	return defaultVal
}
