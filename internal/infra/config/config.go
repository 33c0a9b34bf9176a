package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates application configuration values loaded from environment variables.
type Config struct {
	Env              string
	LogLevel         string
	HTTPAddr         string
	CORSOrigins      []string
	MongoURI         string
	MongoDB          string
	MongoCollection  string
	MongoTimeout     time.Duration
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	FilterOptionsTTL time.Duration
	KafkaBrokers     []string
	KafkaSearchTopic string
	RateLimit        RateLimitConfig
	FixturesPath     string
	LegacyPetMerge   bool
}

// RateLimitConfig allows Requests per Interval. The zero value disables limiting.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

func (r RateLimitConfig) Enabled() bool { return r.Requests > 0 && r.Interval > 0 }

// UsesMongo reports whether listings are read from MongoDB rather than the
// in-memory store.
func (c Config) UsesMongo() bool { return c.MongoURI != "" }

// Load parses configuration from the current environment.
func Load() (Config, error) {
	cfg := Config{
		Env:              getEnv("APP_ENV", "dev"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		CORSOrigins:      splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		MongoURI:         os.Getenv("MONGO_URI"),
		MongoDB:          getEnv("MONGO_DB", "staysearch"),
		MongoCollection:  getEnv("MONGO_COLLECTION", "airbnb"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		KafkaBrokers:     splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaSearchTopic: getEnv("KAFKA_SEARCH_TOPIC", "listings.searched"),
		FixturesPath:     getEnv("LISTINGS_FIXTURES", "data/listings.json"),
	}

	timeout, err := parseDurationEnv("MONGO_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	cfg.MongoTimeout = timeout

	ttl, err := parseDurationEnv("FILTER_OPTIONS_TTL", 5*time.Minute)
	if err != nil {
		return Config{}, err
	}
	cfg.FilterOptionsTTL = ttl

	redisDB, err := parseIntEnv("REDIS_DB", 0)
	if err != nil {
		return Config{}, err
	}
	cfg.RedisDB = redisDB

	merge, err := parseBoolEnv("SEARCH_LEGACY_PET_MERGE", false)
	if err != nil {
		return Config{}, err
	}
	cfg.LegacyPetMerge = merge

	if raw := strings.TrimSpace(os.Getenv("RATE_LIMIT")); raw != "" {
		rl, err := parseRateLimit(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RATE_LIMIT: %w", err)
		}
		cfg.RateLimit = rl
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}

func parseIntEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid %s integer: %w", key, err)
	}
	return n, nil
}

func parseBoolEnv(key string, def bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "t", "true", "yes", "y", "on":
		return true, nil
	case "0", "f", "false", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid %s boolean: %q", key, raw)
	}
}

// parseRateLimit reads "<requests>/<unit>", e.g. "50/sec" or "1000/min".
func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	var interval time.Duration
	switch unit := strings.ToLower(strings.TrimSpace(parts[1])); unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}
	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}
