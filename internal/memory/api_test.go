// ABOUTME: Tests for the internal memory HTTP facade
// ABOUTME: Covers /get, /add, /clear wire shapes and sid parameter handling

package memory

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stephentwig/huddle/internal/store"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return NewHandler(New(st, nil), nil)
}

func TestHandler_GetEmptySession(t *testing.T) {
	h := newTestHandler(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/get?sid=abc", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"messages":[]}`, w.Body.String())
}

func TestHandler_AddThenGet(t *testing.T) {
	h := newTestHandler(t)

	body := strings.NewReader(`{"role":"user","content":"hello"}`)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/add?sid=abc", body))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/get?sid=abc", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"messages":[{"role":"user","content":"hello"}]}`, w.Body.String())
}

func TestHandler_Clear(t *testing.T) {
	h := newTestHandler(t)

	body := strings.NewReader(`{"role":"user","content":"hello"}`)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/add?sid=abc", body))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/clear?sid=abc", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/get?sid=abc", nil))
	assert.JSONEq(t, `{"messages":[]}`, w.Body.String())
}

func TestHandler_MissingSid(t *testing.T) {
	h := newTestHandler(t)

	for _, path := range []string{"/get", "/clear"} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, "path %s", path)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/add", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_AddRejectsBadJSON(t *testing.T) {
	h := newTestHandler(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/add?sid=abc", strings.NewReader("{not json")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_UnknownPath(t *testing.T) {
	h := newTestHandler(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope?sid=abc", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
