package encryption

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringService is the service name used in the system keyring.
	KeyringService = "spamwall"
	// KeyringUser is the account name the site secret is stored under.
	KeyringUser = "encryption-key"
)

// Secret sources reported by ResolveSecret.
const (
	SourceEnv     = "environment"
	SourceKeyring = "keyring"
	SourceNone    = "none"
)

// ResolveSecret picks the site-wide encryption secret. The environment value
// wins; otherwise the system keyring is consulted when useKeyring is set.
// A missing keyring entry is not an error and yields SourceNone, which leaves
// encryption disabled.
func ResolveSecret(envSecret string, useKeyring bool) (secret, source string, err error) {
	if envSecret != "" {
		return envSecret, SourceEnv, nil
	}
	if !useKeyring {
		return "", SourceNone, nil
	}

	secret, err = keyring.Get(KeyringService, KeyringUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", SourceNone, nil
	}
	if err != nil {
		return "", SourceNone, fmt.Errorf("read keyring %s/%s: %w", KeyringService, KeyringUser, err)
	}
	if secret == "" {
		return "", SourceNone, nil
	}
	return secret, SourceKeyring, nil
}

// NewFromSources resolves the site secret and builds the Helper. A keyring
// fault is logged and leaves encryption disabled instead of failing startup.
func NewFromSources(envSecret string, useKeyring bool, logger *slog.Logger) (*Helper, string) {
	secret, source, err := ResolveSecret(envSecret, useKeyring)
	if err != nil {
		logger.Warn("keyring unavailable, encryption disabled", "error", err)
		return New(""), SourceNone
	}
	return New(secret), source
}
