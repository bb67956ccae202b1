package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr          string
	LogLevel          string
	LogFormat         string
	CORSOrigins       []string
	RateLimitRPS      float64
	RateLimitBurst    int
	OMDBBaseURL       string
	OMDBAPIKey        string
	OMDBTimeout       time.Duration
	TitleLimit        int
	ActorPages        int
	DetailConcurrency int
	MongoURI          string
	MongoDatabase     string
	MongoCollection   string
	RedisURL          string
	CacheTTL          time.Duration
	CacheDisabled     bool
	SeedDefaults      bool
}

// LoadConfig reads the environment, after applying an optional .env file.
// Variables already set in the environment take precedence over the file.
func LoadConfig() Config {
	_ = godotenv.Load()

	return Config{
		HTTPAddr:          getEnv("HTTP_ADDR", ":8080"),
		LogLevel:          strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:         strings.ToLower(getEnv("LOG_FORMAT", "text")),
		CORSOrigins:       splitList(getEnv("CORS_ALLOWED_ORIGINS", "")),
		RateLimitRPS:      float64(getEnvInt("HTTP_RATE_LIMIT_RPS", 50)),
		RateLimitBurst:    getEnvInt("HTTP_RATE_LIMIT_BURST", 100),
		OMDBBaseURL:       getEnv("OMDB_BASE_URL", "https://www.omdbapi.com/"),
		OMDBAPIKey:        strings.TrimSpace(os.Getenv("OMDB_API_KEY")),
		OMDBTimeout:       time.Duration(getEnvInt("OMDB_TIMEOUT_SECONDS", 10)) * time.Second,
		TitleLimit:        getEnvInt("SEARCH_TITLE_LIMIT", 10),
		ActorPages:        getEnvInt("SEARCH_ACTOR_PAGES", 1),
		DetailConcurrency: getEnvInt("SEARCH_DETAIL_CONCURRENCY", 4),
		MongoURI:          getEnv("MONGO_URI", ""),
		MongoDatabase:     getEnv("MONGO_DATABASE", "catalog"),
		MongoCollection:   getEnv("MONGO_COLLECTION", "movies"),
		RedisURL:          getEnv("REDIS_URL", ""),
		CacheTTL:          time.Duration(getEnvInt("OMDB_CACHE_TTL_HOURS", 24)) * time.Hour,
		CacheDisabled:     getEnvBool("OMDB_CACHE_DISABLED", false),
		SeedDefaults:      getEnvBool("CATALOG_SEED_DEFAULTS", false),
	}
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if value := strings.TrimSpace(part); value != "" {
			out = append(out, value)
		}
	}
	return out
}
