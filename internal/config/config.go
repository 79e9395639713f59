package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	defaultResultsLimit    = 5
	defaultCacheTTL        = 20 * time.Second
	defaultUpstreamTimeout = 5 * time.Second
	defaultPort            = 8000
	defaultBaseURL         = "https://api.tfl.gov.uk"
)

// Config holds all configuration for the arrivals service
type Config struct {
	// TfL
	StopID  string `yaml:"stop_id" validate:"required"`
	AppID   string `yaml:"app_id"`
	AppKey  string `yaml:"app_key"`
	BaseURL string `yaml:"base_url" validate:"required,url"`

	// Results
	ResultsLimit int `yaml:"results_limit" validate:"gt=0"`

	// Caching and upstream behaviour
	CacheTTL        time.Duration `yaml:"cache_ttl" validate:"gt=0"`
	UpstreamTimeout time.Duration `yaml:"upstream_timeout" validate:"gt=0"`

	// HTTP server
	Port           int      `yaml:"port" validate:"gte=1,lte=65535"`
	AllowedOrigins []string `yaml:"allowed_origins" validate:"dive,required"`
}

// Defaults returns the configuration used when nothing else is set
func Defaults() *Config {
	return &Config{
		BaseURL:         defaultBaseURL,
		ResultsLimit:    defaultResultsLimit,
		CacheTTL:        defaultCacheTTL,
		UpstreamTimeout: defaultUpstreamTimeout,
		Port:            defaultPort,
		AllowedOrigins:  []string{"*"},
	}
}

// Load builds the configuration from defaults, the optional YAML file named
// by CONFIG_FILE, then environment variables, in increasing precedence
func Load() (*Config, error) {
	cfg := Defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	// same fallback as the env override
	if c.ResultsLimit <= 0 {
		c.ResultsLimit = defaultResultsLimit
	}
	return nil
}

func (c *Config) applyEnv() {
	c.StopID = getEnv("TFL_STOP_ID", c.StopID)
	c.AppID = getEnv("TFL_APP_ID", c.AppID)
	c.AppKey = getEnv("TFL_APP_KEY", c.AppKey)
	c.BaseURL = getEnv("TFL_API_BASE_URL", c.BaseURL)

	// an unparsable or non-positive override falls back to the default,
	// not to whatever the file said
	if getEnv("TFL_RESULTS_LIMIT", "") != "" {
		c.ResultsLimit = getEnvPositiveInt("TFL_RESULTS_LIMIT", defaultResultsLimit)
	}

	c.CacheTTL = time.Duration(getEnvInt("CACHE_TTL_SECONDS", int(c.CacheTTL/time.Second))) * time.Second
	c.UpstreamTimeout = time.Duration(getEnvInt("UPSTREAM_TIMEOUT_SECONDS", int(c.UpstreamTimeout/time.Second))) * time.Second
	c.Port = getEnvInt("PORT", c.Port)

	if origins := getEnv("CORS_ALLOWED_ORIGINS", ""); origins != "" {
		c.AllowedOrigins = splitList(origins)
	}
}

// Validate checks the configuration is usable
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Addr is the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvPositiveInt(key string, defaultValue int) int {
	if v := getEnvInt(key, defaultValue); v > 0 {
		return v
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
