package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sereneai/chat-gateway/internal/chat"
	"github.com/sereneai/chat-gateway/internal/config"
	"github.com/sereneai/chat-gateway/internal/observability"
)

// ErrNoChoices is returned when the vendor reply carries no choices.
var ErrNoChoices = errors.New("completion response contained no choices")

// chatRequest is the OpenAI-compatible chat completion request body.
type chatRequest struct {
	Model    string         `json:"model"`
	Messages []chat.Message `json:"messages"`
}

// chatResponse is the subset of the vendor reply we consume.
type chatResponse struct {
	Choices []struct {
		Message chat.Message `json:"message"`
	} `json:"choices"`
}

// Client issues chat completion requests to an OpenAI-compatible endpoint.
// Each call is a single best-effort attempt: no retry, no backoff. Deadlines
// come only from the caller's context.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient creates a completion client from config.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		apiKey:     cfg.OpenAIAPIKey,
		baseURL:    cfg.OpenAIBaseURL,
		model:      cfg.OpenAIModel,
		httpClient: &http.Client{},
	}
}

// WithHTTPClient overrides the underlying HTTP client. Used by tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// WithBaseURL overrides the vendor base URL. Used by tests.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = url
	return c
}

// Complete sends the full transcript (including the system prompt) and
// returns the vendor's next assistant turn.
func (c *Client) Complete(ctx context.Context, transcript []chat.Message) (chat.Message, error) {
	start := time.Now()
	msg, err := c.complete(ctx, transcript)
	observability.RecordCompletion(err == nil, time.Since(start))
	return msg, err
}

func (c *Client) complete(ctx context.Context, transcript []chat.Message) (chat.Message, error) {
	body, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: transcript,
	})
	if err != nil {
		return chat.Message{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return chat.Message{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return chat.Message{}, fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return chat.Message{}, fmt.Errorf("completion vendor returned status %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return chat.Message{}, fmt.Errorf("failed to decode completion response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return chat.Message{}, ErrNoChoices
	}

	reply := parsed.Choices[0].Message
	if reply.Role == "" {
		reply.Role = chat.RoleAssistant
	}
	return reply, nil
}
