package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Data    DataConfig    `json:"data"`
	Remote  RemoteConfig  `json:"remote"`
	Planner PlannerConfig `json:"planner"`
	Cache   CacheConfig   `json:"cache"`
	AI      AIConfig      `json:"ai"`
	Images  ImagesConfig  `json:"images"`
	Log     LogConfig     `json:"log"`
}

type DataConfig struct {
	// UseLocal answers from the in-memory store before trying the remote.
	UseLocal bool   `json:"use_local"`
	SeedPath string `json:"seed_path"`
}

type RemoteConfig struct {
	// URL of the legacy JSON mock server. Empty disables the fallback.
	URL     string        `json:"url"`
	Timeout time.Duration `json:"timeout"`
	Retries int           `json:"retries"`
}

type PlannerConfig struct {
	MinWeeklyBudget float64 `json:"min_weekly_budget"`
}

type CacheConfig struct {
	Dir                string `json:"dir"`
	AzureAccountName   string `json:"azure_account_name"`
	AzureAccountKey    string `json:"-"`
	AzureContainerName string `json:"azure_container_name"`
}

type AIConfig struct {
	APIKey string `json:"-"`
	Model  string `json:"model"`
}

type ImagesConfig struct {
	PexelsAPIKey string `json:"-"`
}

type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

func Load() (*Config, error) {
	useLocal, err := getBool("COOKBOOK_USE_LOCAL", true)
	if err != nil {
		return nil, err
	}
	timeout, err := getDuration("COOKBOOK_REMOTE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	retries, err := getInt("COOKBOOK_REMOTE_RETRIES", 1)
	if err != nil {
		return nil, err
	}
	minBudget, err := getFloat("COOKBOOK_MIN_WEEKLY_BUDGET", 300000)
	if err != nil {
		return nil, err
	}

	config := &Config{
		Data: DataConfig{
			UseLocal: useLocal,
			SeedPath: os.Getenv("COOKBOOK_SEED_PATH"),
		},
		Remote: RemoteConfig{
			URL:     strings.TrimSpace(os.Getenv("COOKBOOK_API_URL")),
			Timeout: timeout,
			Retries: retries,
		},
		Planner: PlannerConfig{
			MinWeeklyBudget: minBudget,
		},
		Cache: CacheConfig{
			Dir:                getEnvOrDefault("COOKBOOK_CACHE_DIR", "cache"),
			AzureAccountName:   os.Getenv("AZURE_STORAGE_ACCOUNT_NAME"),
			AzureAccountKey:    os.Getenv("AZURE_STORAGE_PRIMARY_ACCOUNT_KEY"),
			AzureContainerName: getEnvOrDefault("AZURE_STORAGE_CONTAINER", "cookbook"),
		},
		AI: AIConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
			Model:  getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		},
		Images: ImagesConfig{
			PexelsAPIKey: os.Getenv("PEXELS_API_KEY"),
		},
		Log: LogConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "text"),
		},
	}

	if !config.Data.UseLocal && config.Remote.URL == "" {
		return nil, fmt.Errorf("COOKBOOK_USE_LOCAL=false needs COOKBOOK_API_URL")
	}
	return config, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func getFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return f, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}
