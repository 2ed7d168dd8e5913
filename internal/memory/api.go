// ABOUTME: Internal HTTP facade over the conversation memory service
// ABOUTME: Exposes /get, /add, /clear keyed by a sid query parameter

package memory

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/stephentwig/huddle/internal/store"
)

// Handler serves the memory contract over HTTP for the internal
// listener. Unlike the public API, callers name the session explicitly
// via the sid query parameter.
type Handler struct {
	svc    *Service
	logger *slog.Logger
	mux    *http.ServeMux
}

// NewHandler creates the internal memory HTTP handler.
func NewHandler(svc *Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		svc:    svc,
		logger: logger.With("component", "memory-api"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/get", h.handleGet)
	mux.HandleFunc("POST /add", h.handleAdd)
	mux.HandleFunc("/clear", h.handleClear)
	h.mux = mux
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// sessionFor extracts the session handle from the sid query parameter.
// Returns nil after writing a 400 response when the parameter is absent.
func (h *Handler) sessionFor(w http.ResponseWriter, r *http.Request) *Session {
	sid := r.URL.Query().Get("sid")
	if sid == "" {
		writeJSONError(w, http.StatusBadRequest, "sid query parameter required")
		return nil
	}
	return h.svc.Session(sid)
}

// handleGet returns the stored turn sequence for a session.
func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	sess := h.sessionFor(w, r)
	if sess == nil {
		return
	}

	turns := sess.Get(r.Context())
	if turns == nil {
		turns = []store.Turn{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": turns})
}

// handleAdd appends one turn to a session's history.
func (h *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	sess := h.sessionFor(w, r)
	if sess == nil {
		return
	}

	var turn store.Turn
	if err := json.NewDecoder(r.Body).Decode(&turn); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := sess.Append(r.Context(), turn); err != nil {
		h.logger.Error("append failed", "session_id", sess.ID(), "error", err)
		writeJSONError(w, http.StatusInternalServerError, "append failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// handleClear empties a session's history.
func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	sess := h.sessionFor(w, r)
	if sess == nil {
		return
	}

	if err := sess.Clear(r.Context()); err != nil {
		h.logger.Error("clear failed", "session_id", sess.ID(), "error", err)
		writeJSONError(w, http.StatusInternalServerError, "clear failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
