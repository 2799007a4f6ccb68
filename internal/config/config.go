// Package config loads runtime settings from the environment and the
// source catalog from YAML.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DatabaseURL string

	// Facebook Graph API
	FacebookPageID      string
	FacebookAccessToken string
	FacebookAPIVersion  string

	// Gemini / fallback LLM
	GeminiAPIKey string
	GeminiModel  string
	OpenAIAPIKey string
	OpenAIModel  string

	// Telegram reporting
	TelegramToken  string
	TelegramChatID string

	// Stock photo providers
	PexelsAPIKey    string
	UnsplashAPIKey  string
	PexelsBaseURL   string
	UnsplashBaseURL string

	// News APIs
	GNewsAPIKey   string
	NewsAPIKey    string
	YouTubeAPIKey string

	// Content policy
	FrenchShare    float64 // target share of French posts, 0..1
	MaxAgeHours    int     // freshness window for scraped articles
	RetentionHours int     // cleanup window for unposted content
	MaxAttempts    int     // candidate attempts per posting cycle

	// Scraping
	SourcesConfigPath string
	PolitenessDelay   time.Duration
	RequestTimeout    time.Duration
	RetryAttempts     int
	RetryDelay        time.Duration

	Debug bool
}

func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		FacebookAPIVersion: "v18.0",
		GeminiModel:        "gemini-2.5-flash",
		OpenAIModel:        "gpt-4o-mini",
		PexelsBaseURL:      "https://api.pexels.com",
		UnsplashBaseURL:    "https://api.unsplash.com",
		FrenchShare:        0.70,
		MaxAgeHours:        48,
		RetentionHours:     48,
		MaxAttempts:        5,
		SourcesConfigPath:  "configs/sources.yaml",
		PolitenessDelay:    2 * time.Second,
		RequestTimeout:     15 * time.Second,
		RetryAttempts:      3,
		RetryDelay:         5 * time.Second,
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.FacebookPageID = os.Getenv("FB_PAGE_ID")
	cfg.FacebookAccessToken = os.Getenv("FB_ACCESS_TOKEN")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	cfg.TelegramChatID = os.Getenv("TELEGRAM_CHAT_ID")
	cfg.PexelsAPIKey = os.Getenv("PEXELS_API_KEY")
	cfg.UnsplashAPIKey = os.Getenv("UNSPLASH_ACCESS_KEY")
	cfg.GNewsAPIKey = os.Getenv("GNEWS_API_KEY")
	cfg.NewsAPIKey = os.Getenv("NEWSAPI_KEY")
	cfg.YouTubeAPIKey = os.Getenv("YOUTUBE_API_KEY")

	cfg.FacebookAPIVersion = getEnvOrDefault("FB_API_VERSION", cfg.FacebookAPIVersion)
	cfg.GeminiModel = getEnvOrDefault("GEMINI_MODEL", cfg.GeminiModel)
	cfg.OpenAIModel = getEnvOrDefault("OPENAI_MODEL", cfg.OpenAIModel)
	cfg.SourcesConfigPath = getEnvOrDefault("SOURCES_CONFIG_PATH", cfg.SourcesConfigPath)

	cfg.FrenchShare = getEnvFloatOrDefault("FRENCH_SHARE", cfg.FrenchShare)
	cfg.MaxAgeHours = getEnvIntOrDefault("MAX_AGE_HOURS", cfg.MaxAgeHours)
	cfg.RetentionHours = getEnvIntOrDefault("RETENTION_HOURS", cfg.RetentionHours)
	cfg.MaxAttempts = getEnvIntOrDefault("POST_MAX_ATTEMPTS", cfg.MaxAttempts)
	cfg.RetryAttempts = getEnvIntOrDefault("RETRY_ATTEMPTS", cfg.RetryAttempts)

	if v := os.Getenv("POLITENESS_DELAY_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			cfg.PolitenessDelay = time.Duration(ms) * time.Millisecond
		}
	}
	if v := os.Getenv("REQUEST_TIMEOUT_SEC"); v != "" {
		if s, err := strconv.Atoi(v); err == nil && s > 0 {
			cfg.RequestTimeout = time.Duration(s) * time.Second
		}
	}

	cfg.Debug = os.Getenv("DEBUG") == "true"

	return cfg, nil
}

// Validate checks the variables without which the pipeline cannot run.
// Telegram and stock photo keys are optional; their features degrade.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.FacebookPageID == "" || c.FacebookAccessToken == "" {
		return fmt.Errorf("FB_PAGE_ID and FB_ACCESS_TOKEN are required")
	}
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.FrenchShare < 0 || c.FrenchShare > 1 {
		return fmt.Errorf("FRENCH_SHARE must be between 0 and 1, got %v", c.FrenchShare)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("POST_MAX_ATTEMPTS must be at least 1")
	}
	return nil
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvIntOrDefault(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvFloatOrDefault(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
