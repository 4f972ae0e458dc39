// Package metrics records moderation decisions as Prometheus metrics.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ericfisherdev/spamwall/internal/domain/model"
	"github.com/ericfisherdev/spamwall/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.VerdictRecorder = (*Recorder)(nil)

// Recorder implements driven.VerdictRecorder.
type Recorder struct {
	decisions *prometheus.CounterVec
}

// NewRecorder registers the decision counter with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)

	return &Recorder{
		decisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "spamwall",
				Name:      "moderation_decisions_total",
				Help:      "Comments moderated, by verdict and whether the approval status was changed",
			},
			[]string{"verdict", "overridden"},
		),
	}
}

// RecordDecision counts one moderation decision.
func (r *Recorder) RecordDecision(verdict model.Verdict, overridden bool) {
	r.decisions.WithLabelValues(string(verdict), strconv.FormatBool(overridden)).Inc()
}
