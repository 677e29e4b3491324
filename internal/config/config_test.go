package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AppName != "samvad-portal" {
		t.Fatalf("unexpected app name %q", cfg.AppName)
	}
	if cfg.ReloadInterval != 10*time.Minute {
		t.Fatalf("unexpected reload interval %v", cfg.ReloadInterval)
	}
	if cfg.ExcerptLength != 160 || cfg.CarouselSize != 5 {
		t.Fatalf("unexpected presentation defaults %+v", cfg)
	}
	if cfg.StorageTTL != 72*time.Hour {
		t.Fatalf("unexpected storage ttl %v", cfg.StorageTTL)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("RELOAD_INTERVAL", "0")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("CONTENT_SOURCE", "primary")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ReloadInterval != 0 {
		t.Fatalf("expected reload disabled, got %v", cfg.ReloadInterval)
	}
	if cfg.HTTPAddr != ":9090" || cfg.ContentSource != "primary" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}

func TestLoadRejectsInvalidDurations(t *testing.T) {
	t.Setenv("LOAD_TIMEOUT_SECONDS", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero load timeout")
	}
}

func TestFinalizeRejectsEmptyDateLayout(t *testing.T) {
	cfg := Config{
		LoadTimeoutSeconds:      1,
		BodyFetchTimeoutSeconds: 1,
		BodyFetchRPS:            1,
		ExcerptLength:           10,
		DateLayout:              "  ",
		StorageTTLSeconds:       1,
		StorageCleanupSeconds:   1,
	}
	if err := cfg.finalize(); err == nil {
		t.Fatalf("expected error for blank date layout")
	}
}

func TestLoadImageScrapeSettings(t *testing.T) {
	t.Setenv("IMAGE_SCRAPE_LIMIT", "12")
	t.Setenv("IMAGE_SCRAPE_DELAY_MS", "500")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ImageScrapeLimit != 12 || cfg.ImageScrapeDelay != 500*time.Millisecond {
		t.Fatalf("unexpected image scrape settings %d %v", cfg.ImageScrapeLimit, cfg.ImageScrapeDelay)
	}

	t.Setenv("IMAGE_SCRAPE_LIMIT", "-1")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for negative image scrape limit")
	}
}
