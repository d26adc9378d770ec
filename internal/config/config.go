package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
)

// AppConfig holds application-level settings.
type AppConfig struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"` // json or console
}

// APIConfig points at the lead automation REST API.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CacheConfig controls the query cache in front of the API.
type CacheConfig struct {
	Backend    string        `mapstructure:"backend"`    // memory or redis
	StaleTime  time.Duration `mapstructure:"stale_time"` // how long a fetched result is served
	Retry      int           `mapstructure:"retry"`      // extra attempts for failed reads
	RetryDelay time.Duration `mapstructure:"retry_delay"`
	KeyPrefix  string        `mapstructure:"key_prefix"`
}

// RedisConfig holds redis connection settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SyncConfig controls the periodic ad sync trigger. Zero disables it.
type SyncConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// DashboardConfig holds the web dashboard settings.
type DashboardConfig struct {
	Addr         string `mapstructure:"addr"`
	LeadsPerPage int    `mapstructure:"leads_per_page"`
	CSRFSecure   bool   `mapstructure:"csrf_secure"` // set for HTTPS deployments
}

// OpenAIConfig enables message text suggestions.
type OpenAIConfig struct {
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
	BaseURL  string `mapstructure:"base_url"`
	Language string `mapstructure:"language"`
}

// Config is the top-level configuration structure.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	API       APIConfig       `mapstructure:"api"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Sync      SyncConfig      `mapstructure:"sync"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
}

const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// FillDefaults applies default values if not provided.
func (c *Config) FillDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.App.LogFormat == "" {
		c.App.LogFormat = "json"
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = "http://localhost:5000"
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = 10 * time.Second
	}
	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	if c.Cache.Backend == "" {
		c.Cache.Backend = CacheMemory
	}
	if c.Cache.StaleTime == 0 {
		c.Cache.StaleTime = 5 * time.Minute
	}
	if c.Cache.RetryDelay == 0 {
		c.Cache.RetryDelay = time.Second
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = "leadconsole"
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "127.0.0.1:6379"
	}
	if c.Dashboard.Addr == "" {
		c.Dashboard.Addr = ":8080"
	}
	if c.Dashboard.LeadsPerPage <= 0 {
		c.Dashboard.LeadsPerPage = 20
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4o-mini"
	}
}

// Validate reports configuration that cannot work.
func (c Config) Validate() error {
	var errs []error
	if !govalidator.IsURL(c.API.BaseURL) {
		errs = append(errs, fmt.Errorf("api.base_url %q is not a valid URL", c.API.BaseURL))
	}
	if c.API.Timeout < 0 {
		errs = append(errs, errors.New("api.timeout must not be negative"))
	}
	if c.Cache.Backend != CacheMemory && c.Cache.Backend != CacheRedis {
		errs = append(errs, fmt.Errorf("cache.backend %q must be %q or %q", c.Cache.Backend, CacheMemory, CacheRedis))
	}
	if c.Cache.StaleTime < 0 || c.Cache.RetryDelay < 0 {
		errs = append(errs, errors.New("cache durations must not be negative"))
	}
	if c.Cache.Retry < 0 {
		errs = append(errs, errors.New("cache.retry must not be negative"))
	}
	if c.Sync.Interval < 0 {
		errs = append(errs, errors.New("sync.interval must not be negative"))
	}
	if c.OpenAI.BaseURL != "" && !govalidator.IsURL(c.OpenAI.BaseURL) {
		errs = append(errs, fmt.Errorf("openai.base_url %q is not a valid URL", c.OpenAI.BaseURL))
	}
	return errors.Join(errs...)
}
