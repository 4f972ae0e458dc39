package application_test

import (
	"context"
	"errors"
	"sync"

	"github.com/ericfisherdev/spamwall/internal/domain/model"
)

// --- Mock implementations ---

type classifyCall struct {
	Content string
	Meta    model.CommentMetadata
}

type mockClassifier struct {
	verdict model.Verdict

	mu    sync.Mutex
	calls []classifyCall
}

func (m *mockClassifier) Classify(_ context.Context, content string, meta model.CommentMetadata) model.Verdict {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, classifyCall{Content: content, Meta: meta})
	return m.verdict
}

type decision struct {
	Verdict    model.Verdict
	Overridden bool
}

type mockRecorder struct {
	decisions []decision
}

func (m *mockRecorder) RecordDecision(verdict model.Verdict, overridden bool) {
	m.decisions = append(m.decisions, decision{Verdict: verdict, Overridden: overridden})
}

var errStore = errors.New("store unavailable")

type mockOptionStore struct {
	values  map[string]string
	deleted []string
	err     error
}

func newMockOptionStore() *mockOptionStore {
	return &mockOptionStore{values: make(map[string]string)}
}

func (m *mockOptionStore) Get(_ context.Context, key, fallback string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	v, ok := m.values[key]
	if !ok {
		return fallback, nil
	}
	return v, nil
}

func (m *mockOptionStore) Set(_ context.Context, key, value string) error {
	if m.err != nil {
		return m.err
	}
	m.values[key] = value
	return nil
}

func (m *mockOptionStore) Delete(_ context.Context, key string) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, key)
	delete(m.values, key)
	return nil
}

// prefixCipher marks ciphertext with a visible prefix so tests can tell
// stored values apart from plaintext.
type prefixCipher struct{}

func (prefixCipher) Encrypt(plaintext string) string { return "enc:" + plaintext }

func (prefixCipher) Decrypt(encoded string) string {
	if len(encoded) > 4 && encoded[:4] == "enc:" {
		return encoded[4:]
	}
	return encoded
}

func (prefixCipher) Enabled() bool { return true }
