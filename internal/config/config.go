package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName        string `mapstructure:"app_name"`
	Env            string `mapstructure:"app_env"`
	LogLevel       string `mapstructure:"log_level"`
	HTTPAddr       string `mapstructure:"http_addr"`
	SourcesFile    string `mapstructure:"sources_file"`
	ContentSource  string `mapstructure:"content_source"`
	PublishersFile string `mapstructure:"publishers_file"`
	FallbackFile   string `mapstructure:"fallback_file"`

	ReloadIntervalSeconds   int64         `mapstructure:"reload_interval"`
	ReloadInterval          time.Duration `mapstructure:"-"`
	LoadTimeoutSeconds      int64         `mapstructure:"load_timeout_seconds"`
	LoadTimeout             time.Duration `mapstructure:"-"`
	BodyFetchTimeoutSeconds int64         `mapstructure:"body_fetch_timeout_seconds"`
	BodyFetchTimeout        time.Duration `mapstructure:"-"`
	BodyFetchRPS            float64       `mapstructure:"body_fetch_rps"`

	DateLayout      string `mapstructure:"date_layout"`
	ExcerptLength   int    `mapstructure:"excerpt_length"`
	DefaultImageURL string `mapstructure:"default_image_url"`
	CarouselSize    int    `mapstructure:"carousel_size"`

	ImageScrapeLimit   int           `mapstructure:"image_scrape_limit"`
	ImageScrapeDelayMs int64         `mapstructure:"image_scrape_delay_ms"`
	ImageScrapeDelay   time.Duration `mapstructure:"-"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "samvad-portal")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("sources_file", "./configs/sources.yaml")
	v.SetDefault("content_source", "")
	v.SetDefault("publishers_file", "./configs/publishers.yaml")
	v.SetDefault("fallback_file", "")
	v.SetDefault("reload_interval", 600) // seconds, 0 disables
	v.SetDefault("load_timeout_seconds", 20)
	v.SetDefault("body_fetch_timeout_seconds", 5)
	v.SetDefault("body_fetch_rps", 2.0)
	v.SetDefault("date_layout", "02 Jan 2006")
	v.SetDefault("excerpt_length", 160)
	v.SetDefault("default_image_url", "")
	v.SetDefault("carousel_size", 5)
	v.SetDefault("image_scrape_limit", 0) // pages per load, 0 disables
	v.SetDefault("image_scrape_delay_ms", 250)
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/bodies.db")
	v.SetDefault("storage_ttl_seconds", int64((3*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((6*time.Hour)/time.Second))
}

// finalize validates raw values and derives durations.
func (cfg *Config) finalize() error {
	if cfg.ReloadIntervalSeconds < 0 {
		return fmt.Errorf("invalid reload_interval (must be zero or positive seconds)")
	}
	cfg.ReloadInterval = time.Duration(cfg.ReloadIntervalSeconds) * time.Second

	if cfg.LoadTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid load_timeout_seconds (must be positive seconds)")
	}
	cfg.LoadTimeout = time.Duration(cfg.LoadTimeoutSeconds) * time.Second

	if cfg.BodyFetchTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid body_fetch_timeout_seconds (must be positive seconds)")
	}
	cfg.BodyFetchTimeout = time.Duration(cfg.BodyFetchTimeoutSeconds) * time.Second

	if cfg.BodyFetchRPS <= 0 {
		return fmt.Errorf("invalid body_fetch_rps (must be positive)")
	}
	if cfg.ExcerptLength <= 0 {
		return fmt.Errorf("invalid excerpt_length (must be positive)")
	}
	if cfg.CarouselSize < 0 {
		return fmt.Errorf("invalid carousel_size (must not be negative)")
	}
	if cfg.ImageScrapeLimit < 0 || cfg.ImageScrapeDelayMs < 0 {
		return fmt.Errorf("invalid image scrape settings (must not be negative)")
	}
	cfg.ImageScrapeDelay = time.Duration(cfg.ImageScrapeDelayMs) * time.Millisecond

	if strings.TrimSpace(cfg.DateLayout) == "" {
		return fmt.Errorf("date_layout must not be empty")
	}

	if cfg.StorageTTLSeconds <= 0 {
		return fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	return nil
}
