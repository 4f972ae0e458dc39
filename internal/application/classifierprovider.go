package application

import (
	"context"
	"sync"

	"github.com/ericfisherdev/spamwall/internal/domain/model"
	"github.com/ericfisherdev/spamwall/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SpamClassifier = (*ClassifierProvider)(nil)

// ClassifierProvider enables runtime hot-swap of the spam classifier.
// The classification client reads its API key once at construction, so a
// settings change replaces the client here instead of restarting.
type ClassifierProvider struct {
	mu         sync.RWMutex
	classifier driven.SpamClassifier
}

// NewClassifierProvider creates a provider holding classifier, which may be nil.
func NewClassifierProvider(classifier driven.SpamClassifier) *ClassifierProvider {
	return &ClassifierProvider{classifier: classifier}
}

// Get returns the current classifier, or nil.
func (p *ClassifierProvider) Get() driven.SpamClassifier {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.classifier
}

// Replace swaps the current classifier. The next Classify call uses it.
func (p *ClassifierProvider) Replace(classifier driven.SpamClassifier) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.classifier = classifier
}

// HasClient returns true if a non-nil classifier is currently held.
func (p *ClassifierProvider) HasClient() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.classifier != nil
}

// Classify delegates to the current classifier. With none held the verdict
// is unknown.
func (p *ClassifierProvider) Classify(ctx context.Context, content string, meta model.CommentMetadata) model.Verdict {
	c := p.Get()
	if c == nil {
		return model.VerdictUnknown
	}
	return c.Classify(ctx, content, meta)
}
