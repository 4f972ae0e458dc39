package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/ericfisherdev/spamwall/internal/domain/model"
	"github.com/ericfisherdev/spamwall/internal/domain/port/driven"
)

// SettingsService reads and writes the plugin's persisted options. The API
// key passes through the cipher on both paths.
type SettingsService struct {
	options driven.OptionStore
	cipher  driven.Cipher
}

// NewSettingsService creates a SettingsService.
func NewSettingsService(options driven.OptionStore, cipher driven.Cipher) *SettingsService {
	return &SettingsService{
		options: options,
		cipher:  cipher,
	}
}

// APIKey returns the decrypted API key, or "" when none is stored.
func (s *SettingsService) APIKey(ctx context.Context) (string, error) {
	stored, err := s.options.Get(ctx, model.OptionOpenAIAPIKey, "")
	if err != nil {
		return "", fmt.Errorf("get api key: %w", err)
	}
	if stored == "" {
		return "", nil
	}
	return s.cipher.Decrypt(stored), nil
}

// HasAPIKey reports whether a non-empty key is stored.
func (s *SettingsService) HasAPIKey(ctx context.Context) (bool, error) {
	key, err := s.APIKey(ctx)
	if err != nil {
		return false, err
	}
	return key != "", nil
}

// SaveAPIKey encrypts and stores key.
func (s *SettingsService) SaveAPIKey(ctx context.Context, key string) error {
	if err := s.options.Set(ctx, model.OptionOpenAIAPIKey, s.cipher.Encrypt(key)); err != nil {
		return fmt.Errorf("save api key: %w", err)
	}
	return nil
}

// ModelPreference returns the stored model id, or model.DefaultModel.
func (s *SettingsService) ModelPreference(ctx context.Context) (string, error) {
	m, err := s.options.Get(ctx, model.OptionModelPreference, model.DefaultModel)
	if err != nil {
		return "", fmt.Errorf("get model preference: %w", err)
	}
	if m == "" {
		return model.DefaultModel, nil
	}
	return m, nil
}

// SaveModelPreference stores id. An empty id removes the preference so the
// default applies.
func (s *SettingsService) SaveModelPreference(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		if err := s.options.Delete(ctx, model.OptionModelPreference); err != nil {
			return fmt.Errorf("clear model preference: %w", err)
		}
		return nil
	}
	if err := s.options.Set(ctx, model.OptionModelPreference, id); err != nil {
		return fmt.Errorf("save model preference: %w", err)
	}
	return nil
}

// Uninstall deletes every option the plugin owns.
func (s *SettingsService) Uninstall(ctx context.Context) error {
	for _, key := range model.OptionKeys() {
		if err := s.options.Delete(ctx, key); err != nil {
			return fmt.Errorf("delete option %s: %w", key, err)
		}
	}
	return nil
}
