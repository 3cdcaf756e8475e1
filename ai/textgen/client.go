// Package textgen provides the chat-completion client the agent generates
// blog and social content with. It speaks the OpenAI-compatible chat
// completions wire format, so any backend exposing that API (OpenAI itself,
// a proxy, a local inference server) works via textgen.base_url.
package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/postforge/postforge/errors"
	"github.com/postforge/postforge/internal/httpclient"
	"github.com/postforge/postforge/logger"
	"github.com/postforge/postforge/version"
)

const (
	// DefaultModel is the fallback model when none is specified.
	// Matches the default in config/defaults.go.
	DefaultModel = "gpt-4o"

	// DefaultBaseURL targets the OpenAI API
	DefaultBaseURL = "https://api.openai.com/v1"

	// maxAttempts bounds the transient-failure retry loop in Chat
	maxAttempts = 3
)

// Client talks to an OpenAI-compatible chat completions endpoint
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *httpclient.SaferClient
	config     Config
	limiter    *rate.Limiter
	logger     *zap.SugaredLogger

	mu    sync.Mutex
	stats Stats
}

// Config holds text generation client configuration
type Config struct {
	APIKey            string
	BaseURL           string             // "" = DefaultBaseURL
	Model             string             // "" = DefaultModel
	Temperature       *float64           // nil = default 0.7
	MaxTokens         *int               // nil = backend default (omitted from requests)
	Timeout           time.Duration      // 0 = 120s; full blog drafts are slow
	RequestsPerMinute int                // Client-side pacing (0 = unlimited)
	Verbosity         int                // -v count; gates retry-attempt and full-body logging
	Logger            *zap.SugaredLogger // Structured logger (nil = nop logger)
}

// NewClient creates a text generation client with postforge defaults
func NewClient(config Config) *Client {
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Temperature == nil {
		defaultTemp := 0.7
		config.Temperature = &defaultTemp
	}
	if config.Timeout == 0 {
		config.Timeout = 120 * time.Second
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	var limiter *rate.Limiter
	if config.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(config.RequestsPerMinute)), 1)
	}

	// The base URL is operator-configured, so requests go through the
	// SSRF-safer client: private IPs, localhost and dangerous schemes blocked
	saferClient := httpclient.NewSaferClient(config.Timeout)

	return &Client{
		apiKey:     config.APIKey,
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: saferClient,
		config:     config,
		limiter:    limiter,
		logger:     logger,
	}
}

// ChatCompletionRequest represents a request to the chat completions endpoint.
// Temperature is a pointer so an explicit 0 (deterministic sampling) survives
// serialization instead of being dropped by omitempty.
type ChatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// Message represents a message in a chat completion
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionResponse represents the response from chat completions
type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// Choice represents a completion choice
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// Usage represents token usage information
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatRequest represents a high-level request to the backend
type ChatRequest struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  *float64 // Override default temperature
	MaxTokens    *int     // Override default max tokens
	Model        *string  // Override default model
}

// ChatResponse represents the generated completion
type ChatResponse struct {
	Content string
	Usage   Usage
}

// CreateChatCompletion sends a single chat completion request without retry
func (c *Client) CreateChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error) {
	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", version.UserAgent())
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.WrapBackend(err, "failed to send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapBackend(err, "failed to read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Mark(
			errors.Newf("API request failed with status %d: %s", resp.StatusCode, string(respBody)),
			errors.ErrBackend,
		)
	}

	var chatResp ChatCompletionResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return nil, errors.WrapBackend(err, "failed to unmarshal response")
	}

	return &chatResp, nil
}

// Chat sends a chat completion request with client-side pacing and bounded
// retry for transient network failures. HTTP-level errors (4xx/5xx) are not
// retried here; recovery policy for those belongs to the caller.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if c.apiKey == "" {
		return nil, errors.NewConfigf("text generation API key not configured")
	}

	temperature := c.config.Temperature
	if req.Temperature != nil {
		temperature = req.Temperature
	}

	var maxTokens int
	if c.config.MaxTokens != nil {
		maxTokens = *c.config.MaxTokens
	}
	if req.MaxTokens != nil {
		maxTokens = *req.MaxTokens
	}

	model := c.config.Model
	if req.Model != nil {
		model = *req.Model
	}

	messages := []Message{{Role: "user", Content: req.UserPrompt}}
	if req.SystemPrompt != "" {
		messages = append([]Message{{Role: "system", Content: req.SystemPrompt}}, messages...)
	}

	completionReq := ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	c.logger.Debugw("chat request",
		"model", model,
		"temperature", *temperature,
		"max_tokens", maxTokens,
		"prompt_size", len(req.SystemPrompt)+len(req.UserPrompt),
	)
	if logger.ShouldLogAll(c.config.Verbosity) {
		c.logger.Debugw("chat request body",
			"system_prompt", req.SystemPrompt,
			"user_prompt", req.UserPrompt,
		)
	}

	requestTime := time.Now()

	var resp *ChatCompletionResponse
	var err error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt) * time.Second
			if logger.ShouldLogTrace(c.config.Verbosity) {
				c.logger.Debugw("retrying chat request", "attempt", attempt+1, "delay", delay)
			}
			select {
			case <-ctx.Done():
				c.recordFailure()
				return nil, errors.Wrap(ctx.Err(), "chat request interrupted")
			case <-time.After(delay):
			}
		}

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				c.recordFailure()
				return nil, errors.Wrap(err, "chat request interrupted")
			}
		}

		resp, err = c.CreateChatCompletion(ctx, completionReq)
		if err == nil {
			if attempt > 0 {
				c.logger.Infow("chat request succeeded after retries", "attempt", attempt+1, "model", model)
			}
			break
		}

		c.logger.Warnw("chat request failed",
			"attempt", attempt+1,
			"model", model,
			"error", err,
		)

		if isRetryableError(err) {
			continue
		}

		c.recordFailure()
		return nil, errors.Wrap(err, "chat request failed")
	}

	if err != nil {
		c.recordFailure()
		return nil, errors.Wrapf(err, "chat request failed after %d attempts", maxAttempts)
	}

	if len(resp.Choices) == 0 {
		c.recordFailure()
		return nil, errors.Mark(errors.New("no response choices from backend"), errors.ErrBackend)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)

	c.logger.Debugw("chat response",
		"model", model,
		"content_length", len(content),
		"tokens", resp.Usage.TotalTokens,
		"duration_ms", time.Since(requestTime).Milliseconds(),
	)
	if logger.ShouldLogAll(c.config.Verbosity) {
		c.logger.Debugw("chat response body", "content", content)
	}

	c.recordSuccess(model, resp.Usage)

	return &ChatResponse{
		Content: content,
		Usage:   resp.Usage,
	}, nil
}

// isRetryableError checks if an error is worth retrying (network-related)
func isRetryableError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		var errno syscall.Errno
		if errors.As(opErr.Err, &errno) {
			switch errno {
			case syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.ETIMEDOUT:
				return true
			}
		}
	}

	// Check for common network error strings
	errStr := strings.ToLower(err.Error())
	networkErrors := []string{
		"connection reset by peer",
		"connection refused",
		"timeout",
		"temporary failure",
		"network is unreachable",
		"i/o timeout",
	}
	for _, netErr := range networkErrors {
		if strings.Contains(errStr, netErr) {
			return true
		}
	}

	return false
}

// Model returns the model requests default to
func (c *Client) Model() string {
	return c.config.Model
}

// IsConfigured returns true if the client has an API key
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// SetHTTPClient allows overriding the HTTP client for testing.
// Only use this in tests; production code should keep the SSRF-safer client.
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = httpclient.WrapClient(client)
}
