// Package llm wraps the OpenAI chat-completions API. Each call is a
// single best-effort attempt; the pipeline's cache makes re-runs cheap,
// so there is no retry/backoff layer.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL     = "https://api.openai.com/v1/chat/completions"
	defaultHTTPTimeout = 5 * time.Minute
)

// Config captures the runtime settings required to talk to the API.
type Config struct {
	APIKey  string
	BaseURL string
}

// Client issues chat-completion requests.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient constructs a client from cfg.
func NewClient(cfg Config, opts ...Option) *Client {
	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	if c.cfg.BaseURL == "" {
		c.cfg.BaseURL = defaultBaseURL
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends a system+user prompt to model at temperature 0 and
// returns the assistant text with any markdown fences stripped. Models
// that reject the temperature parameter get one re-issue without it.
func (c *Client) Complete(ctx context.Context, model, system, user string) (string, error) {
	temperature := 0.0
	req := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: &temperature,
	}

	content, status, body, err := c.send(ctx, req)
	if err != nil {
		return "", err
	}
	if status == http.StatusBadRequest && strings.Contains(body, "temperature") {
		req.Temperature = nil
		content, status, body, err = c.send(ctx, req)
		if err != nil {
			return "", err
		}
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("llm request: http %d: %s", status, strings.TrimSpace(body))
	}
	return StripFences(content), nil
}

func (c *Client) send(ctx context.Context, req chatRequest) (content string, status int, body string, err error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", 0, "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return "", 0, "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", 0, "", fmt.Errorf("llm request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return "", 0, "", fmt.Errorf("llm response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", resp.StatusCode, string(raw), nil
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", 0, "", fmt.Errorf("llm response: decode: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", 0, "", fmt.Errorf("llm response: no choices")
	}
	return parsed.Choices[0].Message.Content, resp.StatusCode, "", nil
}

// StripFences removes markdown code fences from model output.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
