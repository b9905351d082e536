package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

// Config is shared by the CLI and the mock backend. All values come from the environment
// (optionally seeded from a .env file).
type Config struct {
	Environment string `env:"STOREFRONT_ENVIRONMENT,default=dev"`
	LogLevel    string `env:"STOREFRONT_LOG_LEVEL,default=info"`

	// api client
	APIBaseURL     string        `env:"STOREFRONT_API_BASE_URL,default=http://localhost:5000/api"`
	RequestTimeout time.Duration `env:"STOREFRONT_REQUEST_TIMEOUT,default=30s"`
	RetryMax       int           `env:"STOREFRONT_RETRY_MAX,default=0"`
	RetryBaseDelay time.Duration `env:"STOREFRONT_RETRY_BASE_DELAY,default=200ms"`
	RetryMaxDelay  time.Duration `env:"STOREFRONT_RETRY_MAX_DELAY,default=5s"`
	RateLimitRPS   int           `env:"STOREFRONT_RATE_LIMIT_RPS,default=0"`
	RateLimitBurst int           `env:"STOREFRONT_RATE_LIMIT_BURST,default=1"`

	// token storage
	TokenFile      string        `env:"STOREFRONT_TOKEN_FILE"`
	SessionFile    string        `env:"STOREFRONT_SESSION_FILE"`
	TokenKey       string        `env:"STOREFRONT_TOKEN_KEY"`
	RedisURL       string        `env:"STOREFRONT_REDIS_URL"`
	RedisKeyPrefix string        `env:"STOREFRONT_REDIS_KEY_PREFIX,default=storefront"`
	SessionTTL     time.Duration `env:"STOREFRONT_SESSION_TTL,default=12h"`

	// mock backend
	MockHost           string `env:"STOREFRONT_MOCK_HOST,default=localhost"`
	MockPort           int    `env:"STOREFRONT_MOCK_PORT,default=5000"`
	MockSecret         string `env:"STOREFRONT_MOCK_SECRET,default=dev-only-secret-change-me"`
	MockAllowedOrigins string `env:"STOREFRONT_MOCK_ALLOWED_ORIGINS,default=*"`
}

var validEnvs = map[string]bool{
	"dev":     true,
	"test":    true,
	"prod":    true,
	"staging": true,
}

// NewConfig loads dotenvFile (ignored when empty or missing) into the process environment
// and then builds a validated Config from it.
// Variables already set in the environment take precedence over the file.
func NewConfig(dotenvFile string) (*Config, error) {
	if dotenvFile != "" {
		if err := godotenv.Load(dotenvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", dotenvFile, err)
		}
	}

	var cfg Config

	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal environment variables: %w", err)
	}

	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// TokenEncryptionKey decodes STOREFRONT_TOKEN_KEY. ok is false when no key is configured.
func (c *Config) TokenEncryptionKey() (key [32]byte, ok bool, err error) {
	if c.TokenKey == "" {
		return key, false, nil
	}
	raw, err := hex.DecodeString(c.TokenKey)
	if err != nil {
		return key, false, fmt.Errorf("STOREFRONT_TOKEN_KEY is not valid hex: %w", err)
	}
	if len(raw) != len(key) {
		return key, false, fmt.Errorf("STOREFRONT_TOKEN_KEY must decode to %d bytes, got %d", len(key), len(raw))
	}
	copy(key[:], raw)
	return key, true, nil
}

// AllowedOrigins splits the comma separated origin list used by the mock backend.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.MockAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func applyDefaults(cfg *Config) error {
	if cfg.TokenFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return fmt.Errorf("STOREFRONT_TOKEN_FILE is not set and no user config dir is available: %w", err)
		}
		cfg.TokenFile = filepath.Join(dir, "storefront", "token.json")
	}
	if cfg.SessionFile == "" {
		cfg.SessionFile = filepath.Join(os.TempDir(), fmt.Sprintf("storefront-%d", os.Getuid()), "session.json")
	}
	return nil
}

func validateConfig(cfg *Config) error {
	if !validEnvs[cfg.Environment] {
		return fmt.Errorf("invalid environment '%s'. Valid environments: dev, test, staging, prod", cfg.Environment)
	}

	if cfg.APIBaseURL == "" {
		return fmt.Errorf("STOREFRONT_API_BASE_URL cannot be empty")
	}
	u, err := url.Parse(cfg.APIBaseURL)
	if err != nil {
		return fmt.Errorf("invalid STOREFRONT_API_BASE_URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("STOREFRONT_API_BASE_URL must use http or https, got %q", u.Scheme)
	}
	if u.RawQuery != "" {
		return fmt.Errorf("STOREFRONT_API_BASE_URL should not include a query string: %s", cfg.APIBaseURL)
	}

	if cfg.RequestTimeout < 0 {
		return fmt.Errorf("request timeout must not be negative, got %v", cfg.RequestTimeout)
	}
	if cfg.RetryMax < 0 || cfg.RetryMax > 10 {
		return fmt.Errorf("retry max must be between 0 and 10, got %d", cfg.RetryMax)
	}
	if cfg.RetryMax > 0 && cfg.RetryBaseDelay <= 0 {
		return fmt.Errorf("retry base delay must be positive when retries are enabled, got %v", cfg.RetryBaseDelay)
	}
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("rate limit must not be negative, got %d", cfg.RateLimitRPS)
	}
	if cfg.RateLimitRPS > 0 && cfg.RateLimitBurst < 1 {
		return fmt.Errorf("rate limit burst must be at least 1, got %d", cfg.RateLimitBurst)
	}
	if cfg.SessionTTL <= 0 {
		return fmt.Errorf("session ttl must be positive, got %v", cfg.SessionTTL)
	}

	if _, _, err := cfg.TokenEncryptionKey(); err != nil {
		return err
	}

	if cfg.RedisURL != "" {
		if _, err := url.Parse(cfg.RedisURL); err != nil {
			return fmt.Errorf("invalid STOREFRONT_REDIS_URL: %w", err)
		}
	}

	if cfg.MockPort < 1 || cfg.MockPort > 65535 {
		return fmt.Errorf("mock port must be between 1 and 65535, got %d", cfg.MockPort)
	}
	if cfg.Environment == "prod" || cfg.Environment == "staging" {
		if strings.HasPrefix(cfg.MockSecret, "dev-only") {
			return fmt.Errorf("STOREFRONT_MOCK_SECRET must be set in %v", cfg.Environment)
		}
	}

	return nil
}
