// ABOUTME: Public HTTP handlers for the chat page, history, and chat API
// ABOUTME: Resolves session identity, shapes JSON envelopes, and sets the sid cookie

package gateway

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/stephentwig/huddle/internal/chat"
	"github.com/stephentwig/huddle/internal/memory"
	"github.com/stephentwig/huddle/internal/session"
	"github.com/stephentwig/huddle/internal/store"
)

// ChatRequest is the JSON request body for POST /api/chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the JSON response for POST /api/chat.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// HistoryResponse is the JSON response for GET /api/history.
type HistoryResponse struct {
	Messages []store.Turn `json:"messages"`
}

// publicRoutes builds the public server's route table.
func (g *Gateway) publicRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", g.handleIndex)
	mux.HandleFunc("GET /styles.css", g.handleStyles)
	mux.HandleFunc("GET /api/history", g.handleHistory)
	mux.HandleFunc("POST /api/chat", g.handleChat)
	mux.HandleFunc("GET /health", g.handleHealth)
	mux.HandleFunc("/", g.handleNotFound)

	return mux
}

// resolveSession binds the request to a session, setting the credential
// cookie when a fresh identity was minted.
func (g *Gateway) resolveSession(w http.ResponseWriter, r *http.Request) *memory.Session {
	sid, isNew := session.FromRequest(r)
	if isNew {
		session.SetCookie(w, sid)
	}
	return g.memory.Session(sid)
}

// handleHistory handles GET /api/history requests.
func (g *Gateway) handleHistory(w http.ResponseWriter, r *http.Request) {
	sess := g.resolveSession(w, r)

	turns := sess.Get(r.Context())
	if turns == nil {
		turns = []store.Turn{}
	}
	g.sendJSON(w, http.StatusOK, HistoryResponse{Messages: turns})
}

// handleChat handles POST /api/chat requests. The reply is returned
// whether or not recording the exchange succeeded; an inference failure
// surfaces as a 502.
func (g *Gateway) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		g.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	sess := g.resolveSession(w, r)

	reply, err := g.chat.Reply(r.Context(), sess, req.Message)
	if errors.Is(err, chat.ErrEmptyMessage) {
		g.sendJSONError(w, http.StatusBadRequest, "message is required")
		return
	}
	if err != nil {
		g.logger.Error("chat reply failed", "session_id", sess.ID(), "error", err)
		g.sendJSONError(w, http.StatusBadGateway, "inference failed")
		return
	}

	g.sendJSON(w, http.StatusOK, ChatResponse{Reply: reply})
}

// handleIndex serves the embedded chat page.
func (g *Gateway) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

// handleStyles serves the embedded stylesheet.
func (g *Gateway) handleStyles(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Write(stylesCSS)
}

// handleHealth handles GET /health requests.
func (g *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	g.sendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleNotFound covers every unmatched path.
func (g *Gateway) handleNotFound(w http.ResponseWriter, r *http.Request) {
	g.sendJSONError(w, http.StatusNotFound, "not found")
}

// sendJSON writes a JSON response with the given status code.
func (g *Gateway) sendJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		g.logger.Error("failed to encode response", "error", err)
	}
}

// sendJSONError writes a JSON error envelope with the given status code.
func (g *Gateway) sendJSONError(w http.ResponseWriter, status int, msg string) {
	g.sendJSON(w, status, map[string]string{"error": msg})
}
