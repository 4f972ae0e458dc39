// Package web implements the HTML settings driving adapter using templ components.
package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/spamwall/internal/adapter/driving/web/templates"
	"github.com/ericfisherdev/spamwall/internal/adapter/driving/web/templates/pages"
	"github.com/ericfisherdev/spamwall/internal/application"
	"github.com/ericfisherdev/spamwall/internal/domain/model"
	"github.com/ericfisherdev/spamwall/internal/domain/port/driven"
)

// modelCatalogTimeout bounds the remote model listing on the settings page.
const modelCatalogTimeout = 5 * time.Second

// ClassifierBuilder constructs a classifier from the currently stored
// settings. It is called after every settings save.
type ClassifierBuilder func(ctx context.Context) driven.SpamClassifier

// modelLister is implemented by classifiers that can enumerate the models
// available to the configured account.
type modelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}

// Handler is the web driving adapter that serves the settings pages.
type Handler struct {
	settings *application.SettingsService
	provider *application.ClassifierProvider
	build    ClassifierBuilder
	cipher   driven.Cipher
	logger   *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	settings *application.SettingsService,
	provider *application.ClassifierProvider,
	build ClassifierBuilder,
	cipher driven.Cipher,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		settings: settings,
		provider: provider,
		build:    build,
		cipher:   cipher,
		logger:   logger,
	}
}

// Settings renders the settings form.
func (h *Handler) Settings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := csrfToken(w, r)

	hasKey, err := h.settings.HasAPIKey(ctx)
	if err != nil {
		h.logger.Error("failed to read api key", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	selected, err := h.settings.ModelPreference(ctx)
	if err != nil {
		h.logger.Error("failed to read model preference", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	view := pages.SettingsView{
		CSRFToken:         token,
		HasAPIKey:         hasKey,
		EncryptionEnabled: h.cipher != nil && h.cipher.Enabled(),
		Models:            mergeModels(model.BaselineModels(), h.listModels(ctx, hasKey), selected),
		SelectedModel:     selected,
		Updated:           r.URL.Query().Get("updated") == "1",
	}

	h.render(w, r, "Settings", pages.Settings(view))
}

// SaveSettings stores the submitted settings, swaps in a classifier built
// from them, and redirects back to the form.
func (h *Handler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	ctx := r.Context()

	if key := sanitizeTextField(r.FormValue("openai_api_key")); key != "" {
		if err := h.settings.SaveAPIKey(ctx, key); err != nil {
			h.logger.Error("failed to save api key", "error", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
	}

	if err := h.settings.SaveModelPreference(ctx, sanitizeTextField(r.FormValue("model_preference"))); err != nil {
		h.logger.Error("failed to save model preference", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if h.build != nil {
		h.provider.Replace(h.build(ctx))
	}
	h.logger.Info("settings updated")

	http.Redirect(w, r, "/settings?updated=1", http.StatusSeeOther)
}

// TryComment renders the try-a-comment form. On POST it classifies the
// submitted comment and shows the verdict alongside a sanitized preview.
// Nothing is stored.
func (h *Handler) TryComment(w http.ResponseWriter, r *http.Request) {
	view := pages.TryView{CSRFToken: csrfToken(w, r)}

	if r.Method == http.MethodPost {
		if !validateCSRF(r) {
			http.Error(w, "invalid CSRF token", http.StatusForbidden)
			return
		}

		comment := model.Comment{
			Content:     r.FormValue("comment_content"),
			Author:      sanitizeTextField(r.FormValue("comment_author")),
			AuthorEmail: sanitizeTextField(r.FormValue("comment_author_email")),
			AuthorURL:   sanitizeTextField(r.FormValue("comment_author_url")),
		}

		view.Submitted = true
		view.Content = comment.Content
		view.Author = comment.Author
		view.AuthorEmail = comment.AuthorEmail
		view.AuthorURL = comment.AuthorURL
		view.Rendered = RenderMarkdown(comment.Content)
		view.Verdict = h.provider.Classify(r.Context(), comment.Content, comment.Metadata())
	}

	h.render(w, r, "Try a Comment", pages.Try(view))
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, title string, body templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Layout(title, body).Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render page", "title", title, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// listModels asks the current classifier for its model catalog. Failures
// are logged and yield no extra models.
func (h *Handler) listModels(ctx context.Context, hasKey bool) []string {
	if !hasKey {
		return nil
	}
	lister, ok := h.provider.Get().(modelLister)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, modelCatalogTimeout)
	defer cancel()

	ids, err := lister.ListModels(ctx)
	if err != nil {
		h.logger.Warn("model catalog unavailable", "error", err)
		return nil
	}
	return ids
}

// mergeModels returns baseline followed by any listed ids not already present.
// A selected id missing from both is appended so the form keeps it.
func mergeModels(baseline []model.ModelChoice, listed []string, selected string) []model.ModelChoice {
	seen := make(map[string]struct{}, len(baseline)+len(listed))
	out := make([]model.ModelChoice, 0, len(baseline)+len(listed)+1)

	for _, m := range baseline {
		seen[m.ID] = struct{}{}
		out = append(out, m)
	}
	for _, id := range listed {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, model.ModelChoice{ID: id, Label: id})
	}
	if _, ok := seen[selected]; !ok && selected != "" {
		out = append(out, model.ModelChoice{ID: selected, Label: selected + " (current)"})
	}
	return out
}
