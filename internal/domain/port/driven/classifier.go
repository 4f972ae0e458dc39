package driven

import (
	"context"

	"github.com/ericfisherdev/spamwall/internal/domain/model"
)

// SpamClassifier labels comment content. Implementations never surface
// errors: every failure collapses to model.VerdictUnknown.
type SpamClassifier interface {
	Classify(ctx context.Context, content string, meta model.CommentMetadata) model.Verdict
}

// VerdictRecorder receives one call per moderation decision.
type VerdictRecorder interface {
	RecordDecision(verdict model.Verdict, overridden bool)
}
