// Package config loads paperscope settings from defaults, an optional YAML file,
// PAPERSCOPE_* environment variables (also read from a .env file in the working
// directory) and command-line flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvPrefix      = "PAPERSCOPE"
	configFileName = "paperscope"
	dotEnvFile     = ".env"
)

// Config is the resolved configuration.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Listing ListingConfig `mapstructure:"listing"`
	Arxiv   ArxivConfig   `mapstructure:"arxiv"`
	Log     LogConfig     `mapstructure:"log"`
}

// APIConfig configures the backend gateway.
type APIConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	RateLimit  float64       `mapstructure:"rate_limit"`
	Burst      int           `mapstructure:"burst"`
	MaxRetries int           `mapstructure:"max_retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
	UserAgent  string        `mapstructure:"user_agent"`
}

type ListingConfig struct {
	PageSize int `mapstructure:"page_size"`
}

// ArxivConfig configures the full-text preview.
type ArxivConfig struct {
	PDFBaseURL string `mapstructure:"pdf_base_url"`
	CacheDir   string `mapstructure:"cache_dir"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	// File receives TUI logs. Empty disables logging while the TUI runs.
	File string `mapstructure:"file"`
}

// New returns a viper instance carrying defaults and environment bindings.
// Callers bind their flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The short alias matches the web frontend's API URL variable.
	_ = v.BindEnv("api.base_url", EnvPrefix+"_API_BASE_URL", EnvPrefix+"_API_URL")
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:8000/api")
	v.SetDefault("api.timeout", "30s")
	v.SetDefault("api.rate_limit", 10.0)
	v.SetDefault("api.burst", 10)
	v.SetDefault("api.max_retries", 2)
	v.SetDefault("api.retry_delay", "500ms")
	v.SetDefault("api.user_agent", "paperscope/dev")

	v.SetDefault("listing.page_size", 10)

	v.SetDefault("arxiv.pdf_base_url", "https://arxiv.org/pdf")
	v.SetDefault("arxiv.cache_dir", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")
}

// Load reads the config file (path, or paperscope.yaml in the usual places) and
// resolves v into a validated Config. A missing default file is not an error.
func Load(v *viper.Viper, path string) (*Config, error) {
	if err := loadDotEnv(dotEnvFile); err != nil {
		return nil, err
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "paperscope"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// loadDotEnv exports the PAPERSCOPE_* entries of path that the real environment
// does not already set. A missing file is ignored.
func loadDotEnv(path string) error {
	vars, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	for key, value := range vars {
		if !strings.HasPrefix(key, EnvPrefix+"_") {
			continue
		}
		if _, set := os.LookupEnv(key); set {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("export %s: %w", key, err)
		}
	}
	return nil
}

// Validate checks the settings that would otherwise fail late.
func (c *Config) Validate() error {
	base := strings.TrimSpace(c.API.BaseURL)
	if base == "" {
		return errors.New("api.base_url is required")
	}
	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.base_url %q is not an http(s) URL", base)
	}
	if c.Listing.PageSize <= 0 {
		return fmt.Errorf("listing.page_size must be positive, got %d", c.Listing.PageSize)
	}
	if c.API.MaxRetries < 0 {
		return fmt.Errorf("api.max_retries must not be negative, got %d", c.API.MaxRetries)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "json", "console", "pretty":
	default:
		return fmt.Errorf("log.format %q is not json or console", c.Log.Format)
	}
	return nil
}
