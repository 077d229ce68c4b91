// Package api provides the HTTP API of a Herald instance: the change
// intake the tracker hook posts to, the event catalog, and watcher
// registry management.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/xraph/herald"
	"github.com/xraph/herald/signature"
)

// Handler is the root HTTP handler for the Herald API.
type Handler struct {
	herald   *herald.Herald
	verifier *signature.Verifier
	logger   *slog.Logger
	mux      *http.ServeMux
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithIntakeSecret requires POST /changes requests to be signed with
// secret. Unsigned or badly signed requests are rejected with 401.
func WithIntakeSecret(secret string) HandlerOption {
	return func(h *Handler) {
		if secret != "" {
			h.verifier = signature.NewVerifier(secret, signature.DefaultTolerance)
		}
	}
}

// WithVerifier is WithIntakeSecret with a preconfigured verifier.
func WithVerifier(v *signature.Verifier) HandlerOption {
	return func(h *Handler) {
		h.verifier = v
	}
}

// NewHandler creates a new API handler.
func NewHandler(h *herald.Herald, logger *slog.Logger, opts ...HandlerOption) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	hd := &Handler{
		herald: h,
		logger: logger,
		mux:    http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(hd)
	}

	hd.registerRoutes()
	return hd
}

func (h *Handler) registerRoutes() {
	// Change intake
	h.mux.HandleFunc("POST /changes", h.postChange)

	// Catalog
	h.mux.HandleFunc("GET /events", h.listEvents)

	// Watchers
	h.mux.HandleFunc("POST /watchers", h.createWatcher)
	h.mux.HandleFunc("GET /watchers", h.listWatchers)
	h.mux.HandleFunc("GET /watchers/{id}", h.getWatcher)
	h.mux.HandleFunc("PUT /watchers/{id}", h.updateWatcher)
	h.mux.HandleFunc("DELETE /watchers/{id}", h.deleteWatcher)
	h.mux.HandleFunc("PATCH /watchers/{id}/enable", h.enableWatcher)
	h.mux.HandleFunc("PATCH /watchers/{id}/disable", h.disableWatcher)

	h.mux.HandleFunc("GET /health", h.health)
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.withMiddleware(h.mux).ServeHTTP(w, r)
}

func (h *Handler) withMiddleware(next http.Handler) http.Handler {
	return h.panicRecovery(h.logging(next))
}

func (h *Handler) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		h.logger.InfoContext(r.Context(), "api request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (h *Handler) panicRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				h.logger.ErrorContext(r.Context(), "panic recovered",
					"error", rec,
					"stack", string(debug.Stack()),
				)
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// JSON helpers.

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best effort
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// queryInt returns a non-negative integer query parameter, or defaultVal
// when it is absent, malformed, negative or out of range.
func queryInt(r *http.Request, key string, defaultVal int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n < 0 {
		return defaultVal
	}
	return n
}
