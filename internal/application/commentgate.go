package application

import (
	"context"
	"log/slog"

	"github.com/ericfisherdev/spamwall/internal/domain/model"
	"github.com/ericfisherdev/spamwall/internal/domain/port/driven"
)

// CommentGate intercepts incoming comments and moves those the classifier
// labels as spam into the spam queue. It never blocks a comment because the
// classifier failed unless the unknown policy says to hold it.
type CommentGate struct {
	classifier driven.SpamClassifier
	policy     model.UnknownPolicy
	recorder   driven.VerdictRecorder
	logger     *slog.Logger
}

// NewCommentGate creates a gate. classifier and recorder may be nil; a nil
// classifier yields an unknown verdict for every comment.
func NewCommentGate(
	classifier driven.SpamClassifier,
	policy model.UnknownPolicy,
	recorder driven.VerdictRecorder,
	logger *slog.Logger,
) *CommentGate {
	if logger == nil {
		logger = slog.Default()
	}
	if policy == "" {
		policy = model.UnknownPolicyAllow
	}
	return &CommentGate{
		classifier: classifier,
		policy:     policy,
		recorder:   recorder,
		logger:     logger,
	}
}

// Register installs Moderate on the pre-approval hook at the default priority.
func (g *CommentGate) Register(registry *FilterRegistry) {
	registry.AddFilter(HookPreCommentApproved, DefaultPriority, g.Moderate)
}

// Moderate returns the approval status to commit for comment.
func (g *CommentGate) Moderate(ctx context.Context, status model.ApprovalStatus, comment model.Comment) model.ApprovalStatus {
	verdict := model.VerdictUnknown
	if g.classifier != nil {
		verdict = g.classifier.Classify(ctx, comment.Content, comment.Metadata())
	}

	result := status
	switch verdict {
	case model.VerdictSpam:
		result = model.ApprovalSpam
	case model.VerdictUnknown:
		if g.policy == model.UnknownPolicyHold && status == model.ApprovalApproved {
			result = model.ApprovalPending
		}
	}

	overridden := result != status
	if g.recorder != nil {
		g.recorder.RecordDecision(verdict, overridden)
	}

	g.logger.Info("comment moderated",
		"verdict", verdict,
		"status", status,
		"result", result,
		"author", comment.Author,
	)

	return result
}
