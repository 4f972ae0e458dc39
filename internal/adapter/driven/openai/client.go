// Package openai implements the SpamClassifier port against the OpenAI chat
// completions API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ericfisherdev/spamwall/internal/domain/model"
	"github.com/ericfisherdev/spamwall/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SpamClassifier = (*Client)(nil)

const (
	// DefaultBaseURL is the OpenAI REST API root.
	DefaultBaseURL = "https://api.openai.com/v1"

	// DefaultTimeout bounds a single classification request.
	DefaultTimeout = 45 * time.Second

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 1 << 20
)

// Client classifies comments with a chat completion model. The API key is
// decrypted once at construction; the model preference is read per call.
type Client struct {
	apiKey     string
	baseURL    string
	options    driven.OptionStore
	timeout    time.Duration
	httpClient *http.Client
	catalog    *http.Client
	logger     *slog.Logger
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for API requests. The
// client's own Timeout applies instead of WithTimeout.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the API root, e.g. for a proxy or an httptest server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/"); baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithTimeout overrides DefaultTimeout. Non-positive values are ignored.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithLogger sets the logger for swallowed classification failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient reads and decrypts the stored API key and returns a ready client.
// A missing or unreadable key yields a client that classifies everything as
// unknown without contacting the API.
func NewClient(ctx context.Context, options driven.OptionStore, cipher driven.Cipher, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		options: options,
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	c.catalog = newCatalogClient(c.httpClient)

	encrypted, err := options.Get(ctx, model.OptionOpenAIAPIKey, "")
	if err != nil {
		c.logger.Warn("failed to read openai api key", "error", err)
		return c
	}
	c.apiKey = strings.TrimSpace(cipher.Decrypt(encrypted))

	return c
}

// Configured reports whether an API key is available.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Classify asks the model whether the comment is spam. Every failure is
// logged and reported as model.VerdictUnknown.
func (c *Client) Classify(ctx context.Context, content string, meta model.CommentMetadata) model.Verdict {
	verdict, err := c.classify(ctx, content, meta)
	if err != nil {
		c.logger.Warn("comment classification failed", "error", err)
		return model.VerdictUnknown
	}
	return verdict
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionResponse uses pointers so a missing field is distinguishable
// from an empty one.
type chatCompletionResponse struct {
	Choices []struct {
		Message *struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

type httpStatusError struct {
	StatusCode int
	Body       string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("openai request: http %d: %s", e.StatusCode, summarize(e.Body))
}

var errNoAPIKey = errors.New("openai classify: api key not configured")

func (c *Client) classify(ctx context.Context, content string, meta model.CommentMetadata) (model.Verdict, error) {
	if !c.Configured() {
		return model.VerdictUnknown, errNoAPIKey
	}

	modelName, err := c.options.Get(ctx, model.OptionModelPreference, model.DefaultModel)
	if err != nil {
		return model.VerdictUnknown, fmt.Errorf("openai classify: read model preference: %w", err)
	}

	userPrompt, err := json.Marshal(commentPrompt{
		Comment: content,
		Metadata: metadata{
			Author: meta.Author,
			Email:  meta.Email,
			URL:    meta.URL,
		},
	})
	if err != nil {
		return model.VerdictUnknown, fmt.Errorf("openai classify: encode prompt: %w", err)
	}

	payload := chatCompletionRequest{
		Model: modelName,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: string(userPrompt)},
		},
	}

	body, err := c.sendChatRequest(ctx, payload)
	if err != nil {
		return model.VerdictUnknown, err
	}

	return interpret(body)
}

func (c *Client) sendChatRequest(ctx context.Context, payload chatCompletionRequest) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("openai request: encode body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("openai request: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai request: http error (timeout=%s): %w", c.timeout, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("openai request: read body: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &httpStatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}

// interpret maps choices[0].message.content to a verdict. Anything other than
// exactly "spam" or "ham" after trimming and lower-casing is unknown.
func interpret(body []byte) (model.Verdict, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return model.VerdictUnknown, errors.New("openai response: empty body")
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return model.VerdictUnknown, fmt.Errorf("openai response: decode (payload snippet: %s): %w", summarize(string(body)), err)
	}
	if completion.Error != nil {
		return model.VerdictUnknown, fmt.Errorf("openai response: api error: %s", strings.TrimSpace(completion.Error.Message))
	}
	if len(completion.Choices) == 0 {
		return model.VerdictUnknown, errors.New("openai response: no choices")
	}

	message := completion.Choices[0].Message
	if message == nil || message.Content == nil {
		return model.VerdictUnknown, errors.New("openai response: choice has no message content")
	}

	// Casers carry state, so one is built per call. Unicode trim and lower-case
	// are deliberate: a stray NUL or non-ASCII letter never maps to a verdict.
	switch answer := cases.Lower(language.Und).String(strings.TrimSpace(*message.Content)); answer {
	case string(model.VerdictSpam):
		return model.VerdictSpam, nil
	case string(model.VerdictHam):
		return model.VerdictHam, nil
	default:
		return model.VerdictUnknown, fmt.Errorf("openai response: unexpected answer %q", summarize(answer))
	}
}

func summarize(content string) string {
	clean := strings.Join(strings.Fields(content), " ")
	if clean == "" {
		return "<empty>"
	}
	const limit = 160
	if runes := []rune(clean); len(runes) > limit {
		clean = string(runes[:limit]) + "..."
	}
	return clean
}
