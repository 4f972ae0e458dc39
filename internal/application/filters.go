// Package application contains the comment moderation use cases.
package application

import (
	"context"
	"sort"
	"sync"

	"github.com/ericfisherdev/spamwall/internal/domain/model"
)

// HookPreCommentApproved is the filter hook consulted before a comment's
// approval status is committed.
const HookPreCommentApproved = "pre_comment_approved"

// DefaultPriority is the priority used when registering the comment gate.
const DefaultPriority = 10

// CommentFilter transforms a proposed approval status. Filters must return a
// status even when they do nothing with the comment.
type CommentFilter func(ctx context.Context, status model.ApprovalStatus, comment model.Comment) model.ApprovalStatus

type registeredFilter struct {
	priority int
	seq      int
	fn       CommentFilter
}

// FilterRegistry holds named filter chains. It is safe for concurrent use.
type FilterRegistry struct {
	mu      sync.RWMutex
	filters map[string][]registeredFilter
	seq     int
}

// NewFilterRegistry creates an empty registry.
func NewFilterRegistry() *FilterRegistry {
	return &FilterRegistry{
		filters: make(map[string][]registeredFilter),
	}
}

// AddFilter appends fn to the chain for hook. Lower priorities run first;
// filters sharing a priority run in registration order.
func (r *FilterRegistry) AddFilter(hook string, priority int, fn CommentFilter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	chain := append(r.filters[hook], registeredFilter{priority: priority, seq: r.seq, fn: fn})
	sort.SliceStable(chain, func(i, j int) bool {
		if chain[i].priority != chain[j].priority {
			return chain[i].priority < chain[j].priority
		}
		return chain[i].seq < chain[j].seq
	})
	r.filters[hook] = chain
}

// HasFilter reports whether any filter is registered for hook.
func (r *FilterRegistry) HasFilter(hook string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.filters[hook]) > 0
}

// Apply threads status through every filter registered for hook and returns
// the final value. With no filters the status is returned unchanged.
func (r *FilterRegistry) Apply(ctx context.Context, hook string, status model.ApprovalStatus, comment model.Comment) model.ApprovalStatus {
	r.mu.RLock()
	chain := make([]registeredFilter, len(r.filters[hook]))
	copy(chain, r.filters[hook])
	r.mu.RUnlock()

	for _, f := range chain {
		status = f.fn(ctx, status, comment)
	}
	return status
}
