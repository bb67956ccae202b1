package app

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"HTTP_ADDR", "LOG_LEVEL", "OMDB_API_KEY", "OMDB_TIMEOUT_SECONDS", "SEARCH_TITLE_LIMIT",
		"SEARCH_ACTOR_PAGES", "MONGO_URI", "MONGO_DATABASE", "CORS_ALLOWED_ORIGINS",
		"OMDB_CACHE_DISABLED", "CATALOG_SEED_DEFAULTS",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("expected :8080, got %q", cfg.HTTPAddr)
	}
	if cfg.TitleLimit != 10 || cfg.ActorPages != 1 {
		t.Fatalf("unexpected search defaults: limit=%d pages=%d", cfg.TitleLimit, cfg.ActorPages)
	}
	if cfg.OMDBTimeout != 10*time.Second {
		t.Fatalf("expected 10s timeout, got %s", cfg.OMDBTimeout)
	}
	if cfg.MongoURI != "" || cfg.MongoDatabase != "catalog" || cfg.MongoCollection != "movies" {
		t.Fatalf("unexpected mongo defaults: %+v", cfg)
	}
	if cfg.CORSOrigins != nil {
		t.Fatalf("expected no cors origins, got %v", cfg.CORSOrigins)
	}
	if cfg.CacheDisabled || cfg.SeedDefaults {
		t.Fatalf("expected cache enabled and no seeding by default")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("SEARCH_TITLE_LIMIT", "20")
	t.Setenv("SEARCH_DETAIL_CONCURRENCY", "-3")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("OMDB_CACHE_DISABLED", "yes")
	t.Setenv("CATALOG_SEED_DEFAULTS", "maybe")
	t.Setenv("OMDB_CACHE_TTL_HOURS", "2")

	cfg := LoadConfig()
	if cfg.HTTPAddr != ":9000" {
		t.Fatalf("expected :9000, got %q", cfg.HTTPAddr)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected lowercased log level, got %q", cfg.LogLevel)
	}
	if cfg.TitleLimit != 20 {
		t.Fatalf("expected title limit 20, got %d", cfg.TitleLimit)
	}
	if cfg.DetailConcurrency != 4 {
		t.Fatalf("expected invalid concurrency to fall back to 4, got %d", cfg.DetailConcurrency)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected cors origins: %v", cfg.CORSOrigins)
	}
	if !cfg.CacheDisabled {
		t.Fatalf("expected cache disabled")
	}
	if cfg.SeedDefaults {
		t.Fatalf("expected unparsable bool to fall back to false")
	}
	if cfg.CacheTTL != 2*time.Hour {
		t.Fatalf("expected 2h cache ttl, got %s", cfg.CacheTTL)
	}
}
