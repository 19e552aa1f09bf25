package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the runtime configuration shared by the server and client
type Config struct {
	// API settings
	APIKey    string `yaml:"api_key"`
	BaseURL   string `yaml:"base_url"`
	UserAgent string `yaml:"user_agent"`

	// HTTPTimeout is the shortest local deadline. Grid actions wait at
	// least their own timeout plus a slack.
	HTTPTimeout time.Duration `yaml:"http_timeout"`

	// MaxResponseSize caps how many bytes of a remote response are read
	MaxResponseSize int64 `yaml:"max_response_size"`

	// Webhook settings
	WebhookID string `yaml:"webhook_id"`
	WebhookDB string `yaml:"webhook_db"`
	PublicURL string `yaml:"public_url"`
}

const (
	DefaultBaseURL         = "https://api.harpa.ai/api/v1"
	DefaultUserAgent       = "harpa-mcp/1.0"
	DefaultHTTPTimeout     = 330 * time.Second
	DefaultMaxResponseSize = 4 * 1024 * 1024
)

var envOnce sync.Once

// FromEnv builds a Config from environment variables, loading a .env file
// from the working directory the first time it is called.
func FromEnv() Config {
	envOnce.Do(func() {
		LoadEnvFile(".env")
	})

	return Config{
		APIKey:          getEnv("HARPA_API_KEY", ""),
		BaseURL:         getEnv("HARPA_BASE_URL", DefaultBaseURL),
		UserAgent:       getEnv("HARPA_USER_AGENT", DefaultUserAgent),
		HTTPTimeout:     getDuration("HARPA_HTTP_TIMEOUT", DefaultHTTPTimeout),
		MaxResponseSize: int64(getInt("HARPA_MAX_RESPONSE_SIZE", DefaultMaxResponseSize)),
		WebhookID:       getEnv("HARPA_WEBHOOK_ID", ""),
		WebhookDB:       getEnv("HARPA_WEBHOOK_DB", ""),
		PublicURL:       getEnv("HARPA_PUBLIC_URL", ""),
	}
}

// Load reads a YAML config file and overlays it on the environment
// configuration. An empty path returns the environment configuration.
func Load(path string) (Config, error) {
	cfg := FromEnv()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.merge(file)
	return cfg, nil
}

// merge copies every non-zero field of other into c
func (c *Config) merge(other Config) {
	if other.APIKey != "" {
		c.APIKey = other.APIKey
	}
	if other.BaseURL != "" {
		c.BaseURL = other.BaseURL
	}
	if other.UserAgent != "" {
		c.UserAgent = other.UserAgent
	}
	if other.HTTPTimeout > 0 {
		c.HTTPTimeout = other.HTTPTimeout
	}
	if other.MaxResponseSize > 0 {
		c.MaxResponseSize = other.MaxResponseSize
	}
	if other.WebhookID != "" {
		c.WebhookID = other.WebhookID
	}
	if other.WebhookDB != "" {
		c.WebhookDB = other.WebhookDB
	}
	if other.PublicURL != "" {
		c.PublicURL = other.PublicURL
	}
}

// LoadEnvFile loads environment variables from a .env file. Variables that
// are already set are left untouched.
func LoadEnvFile(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		// Skip comments and empty lines
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}

		// Split by first equals sign
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.Trim(strings.TrimSpace(parts[1]), `"'`)

		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}

	return scanner.Err()
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}
