// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ericfisherdev/spamwall/internal/domain/model"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr    string
	DBPath        string
	EncryptionKey string
	UseKeyring    bool
	OpenAIBaseURL string
	OpenAITimeout time.Duration
	UnknownPolicy model.UnknownPolicy
	LogLevel      slog.Level
}

// Load reads configuration from environment variables and returns a validated Config.
// Every variable is optional. Defaults: SPAMWALL_LISTEN_ADDR (127.0.0.1:8080),
// SPAMWALL_DB_PATH (spamwall.db), SPAMWALL_USE_KEYRING (false),
// SPAMWALL_OPENAI_BASE_URL (https://api.openai.com/v1), SPAMWALL_OPENAI_TIMEOUT (45s),
// SPAMWALL_UNKNOWN_POLICY (allow), SPAMWALL_LOG_LEVEL (info).
// SPAMWALL_ENCRYPTION_KEY has no default; without it secrets are stored in plaintext.
func Load() (*Config, error) {
	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("SPAMWALL_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbPath := "spamwall.db"
	if v, ok := os.LookupEnv("SPAMWALL_DB_PATH"); ok {
		dbPath = v
	}

	useKeyring := false
	if v, ok := os.LookupEnv("SPAMWALL_USE_KEYRING"); ok && v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("SPAMWALL_USE_KEYRING has invalid boolean %q: %w", v, err)
		}
		useKeyring = parsed
	}

	baseURL := "https://api.openai.com/v1"
	if v, ok := os.LookupEnv("SPAMWALL_OPENAI_BASE_URL"); ok && v != "" {
		baseURL = strings.TrimRight(v, "/")
	}

	timeout := 45 * time.Second
	if v, ok := os.LookupEnv("SPAMWALL_OPENAI_TIMEOUT"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("SPAMWALL_OPENAI_TIMEOUT has invalid duration %q: %w", v, err)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("SPAMWALL_OPENAI_TIMEOUT must be positive, got %s", parsed)
		}
		timeout = parsed
	}

	policy, err := model.ParseUnknownPolicy(os.Getenv("SPAMWALL_UNKNOWN_POLICY"))
	if err != nil {
		return nil, fmt.Errorf("SPAMWALL_UNKNOWN_POLICY: %w", err)
	}

	level := slog.LevelInfo
	if v, ok := os.LookupEnv("SPAMWALL_LOG_LEVEL"); ok && v != "" {
		if err := level.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("SPAMWALL_LOG_LEVEL has invalid level %q: %w", v, err)
		}
	}

	return &Config{
		ListenAddr:    listenAddr,
		DBPath:        dbPath,
		EncryptionKey: os.Getenv("SPAMWALL_ENCRYPTION_KEY"),
		UseKeyring:    useKeyring,
		OpenAIBaseURL: baseURL,
		OpenAITimeout: timeout,
		UnknownPolicy: policy,
		LogLevel:      level,
	}, nil
}
