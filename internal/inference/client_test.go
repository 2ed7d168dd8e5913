// ABOUTME: Tests for the Workers AI client
// ABOUTME: Covers request shape, reply field precedence, and failure surfacing

package inference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stephentwig/huddle/internal/store"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		BaseURL:   srv.URL,
		AccountID: "acct-1",
		APIToken:  "tok-1",
		Model:     "@cf/test/model",
	})
}

func TestComplete_RequestShape(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody runRequest

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		w.Write([]byte(`{"success":true,"result":{"response":"hi"}}`))
	})

	messages := []store.Turn{
		{Role: store.RoleSystem, Content: "be helpful"},
		{Role: store.RoleUser, Content: "hello"},
	}
	reply, err := client.Complete(context.Background(), messages)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if reply != "hi" {
		t.Errorf("reply = %q, want hi", reply)
	}
	if gotPath != "/accounts/acct-1/ai/run/@cf/test/model" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer tok-1" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if len(gotBody.Messages) != 2 || gotBody.Messages[1].Content != "hello" {
		t.Errorf("request messages = %+v", gotBody.Messages)
	}
}

func TestComplete_ReplyFieldPrecedence(t *testing.T) {
	tests := []struct {
		name   string
		result string
		want   string
	}{
		{"response wins over result and output", `{"response":"a","result":"b","output":"c"}`, "a"},
		{"result wins over output", `{"result":"b","output":"c"}`, "b"},
		{"output as last resort", `{"output":"c"}`, "c"},
		{"no known field degrades to empty", `{"text":"d"}`, ""},
		{"empty result degrades to empty", `{}`, ""},
		{"non-string field skipped", `{"response":42,"result":"b"}`, "b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"success":true,"result":` + tt.result + `}`))
			})

			reply, err := client.Complete(context.Background(), []store.Turn{{Role: store.RoleUser, Content: "q"}})
			if err != nil {
				t.Fatalf("Complete failed: %v", err)
			}
			if reply != tt.want {
				t.Errorf("reply = %q, want %q", reply, tt.want)
			}
		})
	}
}

func TestComplete_APIFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"errors":[{"code":7009,"message":"model overloaded"}]}`))
	})

	_, err := client.Complete(context.Background(), []store.Turn{{Role: store.RoleUser, Content: "q"}})
	if err == nil {
		t.Fatal("expected error for success=false response")
	}
}

func TestComplete_HTTPFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Complete(context.Background(), []store.Turn{{Role: store.RoleUser, Content: "q"}})
	if err == nil {
		t.Fatal("expected error for non-2xx status")
	}
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient(Config{AccountID: "a", APIToken: "t"})
	if client.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q, want %q", client.baseURL, DefaultBaseURL)
	}
	if client.model != DefaultModel {
		t.Errorf("model = %q, want %q", client.model, DefaultModel)
	}
}
