// Package httphandler is the JSON API driving adapter: the moderation hook
// endpoint, ad-hoc classification, health, and metrics.
package httphandler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ericfisherdev/spamwall/internal/application"
	"github.com/ericfisherdev/spamwall/internal/domain/port/driven"
)

// configuredReporter is implemented by classifiers that know whether they
// hold credentials.
type configuredReporter interface {
	Configured() bool
}

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	filters  *application.FilterRegistry
	provider *application.ClassifierProvider
	cipher   driven.Cipher
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// NewHandler creates a Handler with all required dependencies. gatherer may
// be nil, in which case /metrics is not registered.
func NewHandler(
	filters *application.FilterRegistry,
	provider *application.ClassifierProvider,
	cipher driven.Cipher,
	gatherer prometheus.Gatherer,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		filters:  filters,
		provider: provider,
		cipher:   cipher,
		gatherer: gatherer,
		logger:   logger,
	}
}

// RegisterAPIRoutes registers the JSON API routes on mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("POST /api/v1/comments/moderate", h.Moderate)
	mux.HandleFunc("POST /api/v1/comments/classify", h.Classify)
	mux.HandleFunc("GET /api/v1/health", h.Health)

	if h.gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	}
}

// Moderate runs the pre-approval filters for a new comment and returns the
// approval status to commit. An unchanged status is echoed in its original
// JSON form.
func (h *Handler) Moderate(w http.ResponseWriter, r *http.Request) {
	var req ModerateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	status, err := parseApprovalStatus(req.ApprovalStatus)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := h.filters.Apply(r.Context(), application.HookPreCommentApproved, status, toComment(req.Comment))

	resp := ModerateResponse{ApprovalStatus: req.ApprovalStatus}
	if result != status {
		encoded, err := json.Marshal(string(result))
		if err != nil {
			h.logger.Error("failed to encode approval status", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		resp.ApprovalStatus = encoded
	}

	writeJSON(w, http.StatusOK, resp)
}

// Classify returns the classifier's verdict for a comment without applying
// any policy.
func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	c := toComment(req.Comment)
	verdict := h.provider.Classify(r.Context(), c.Content, c.Metadata())

	writeJSON(w, http.StatusOK, ClassifyResponse{Verdict: string(verdict)})
}

// Health returns a health check response with the degraded-mode flags.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	configured := false
	if cr, ok := h.provider.Get().(configuredReporter); ok {
		configured = cr.Configured()
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:               "ok",
		Time:                 time.Now().UTC().Format(time.RFC3339),
		EncryptionEnabled:    h.cipher != nil && h.cipher.Enabled(),
		ClassifierConfigured: configured,
	})
}
