package web

import "net/http"

// RegisterRoutes registers the settings page routes on the provided mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/settings", http.StatusFound)
	})
	mux.HandleFunc("GET /settings", h.Settings)
	mux.HandleFunc("POST /settings", h.SaveSettings)
	mux.HandleFunc("GET /settings/try", h.TryComment)
	mux.HandleFunc("POST /settings/try", h.TryComment)
}
