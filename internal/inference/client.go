// ABOUTME: Workers AI REST client for chat completion
// ABOUTME: Posts message lists to the model run endpoint and extracts the reply text

package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/stephentwig/huddle/internal/store"
)

// DefaultBaseURL is the Cloudflare API root.
const DefaultBaseURL = "https://api.cloudflare.com/client/v4"

// DefaultModel is the chat model used when none is configured.
const DefaultModel = "@cf/meta/llama-3.3-70b-instruct-fp8-fast"

// replyFields are the result fields that may carry the generated text,
// checked in order with first-match-wins. Different models populate
// different fields; absence of all of them yields an empty reply, not an
// error.
var replyFields = [...]string{"response", "result", "output"}

// Completer maps an ordered message list to generated reply text.
type Completer interface {
	Complete(ctx context.Context, messages []store.Turn) (string, error)
}

// Client calls the Workers AI run endpoint over HTTP.
type Client struct {
	baseURL    string
	accountID  string
	apiToken   string
	model      string
	httpClient *http.Client
}

// Config holds the settings needed to reach the inference service.
type Config struct {
	BaseURL   string
	AccountID string
	APIToken  string
	Model     string
	Timeout   time.Duration
}

// NewClient creates a Workers AI client. BaseURL, Model, and Timeout
// fall back to defaults when unset.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{
		baseURL:   cfg.BaseURL,
		accountID: cfg.AccountID,
		apiToken:  cfg.APIToken,
		model:     cfg.Model,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// runRequest is the JSON body for the model run endpoint.
type runRequest struct {
	Messages []store.Turn `json:"messages"`
}

// runResponse is the Cloudflare API envelope around the model result.
type runResponse struct {
	Success bool            `json:"success"`
	Errors  []apiError      `json:"errors"`
	Result  json.RawMessage `json:"result"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Complete sends the ordered message list to the model and returns the
// generated reply text. Transport faults, non-2xx statuses, and API-level
// failures are all errors; a structurally absent reply field is not, and
// degrades to an empty string.
func (c *Client) Complete(ctx context.Context, messages []store.Turn) (string, error) {
	body, err := json.Marshal(runRequest{Messages: messages})
	if err != nil {
		return "", fmt.Errorf("encoding run request: %w", err)
	}

	url := fmt.Sprintf("%s/accounts/%s/ai/run/%s", c.baseURL, c.accountID, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating run request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling inference service: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading inference response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("inference service returned status %d", resp.StatusCode)
	}

	var run runResponse
	if err := json.Unmarshal(raw, &run); err != nil {
		return "", fmt.Errorf("decoding inference response: %w", err)
	}
	if !run.Success {
		if len(run.Errors) > 0 {
			return "", fmt.Errorf("inference failed: %s (code %d)", run.Errors[0].Message, run.Errors[0].Code)
		}
		return "", fmt.Errorf("inference failed with no error detail")
	}

	return extractReply(run.Result), nil
}

// extractReply pulls the generated text out of the model result,
// trying each known reply field in precedence order.
func extractReply(result json.RawMessage) string {
	if len(result) == 0 {
		return ""
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(result, &fields); err != nil {
		return ""
	}

	for _, name := range replyFields {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		var text string
		if err := json.Unmarshal(raw, &text); err == nil {
			return text
		}
	}
	return ""
}
