// Package llm wraps an OpenAI-compatible chat completion API.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

const (
	// DefaultModel is used when no model is configured.
	DefaultModel   = openai.GPT4oMini
	defaultTimeout = 60 * time.Second
)

var (
	// ErrNoAPIKey indicates no API key was configured.
	ErrNoAPIKey = errors.New("llm: no API key configured")
	// ErrUnauthorized indicates the API key was rejected.
	ErrUnauthorized = errors.New("llm: unauthorized (API key invalid or revoked)")
	// ErrRateLimited indicates the API rate limit or quota was hit.
	ErrRateLimited = errors.New("llm: rate limited")
	// ErrEmptyResponse indicates the model returned no usable content.
	ErrEmptyResponse = errors.New("llm: empty response")
)

// Config holds connection settings for the completion API.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string // empty means the public OpenAI endpoint
	Timeout time.Duration
}

// Client sends chat completions to the configured model.
type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
}

// New creates a client. The API key is required.
func New(cfg Config) (*Client, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, ErrNoAPIKey
	}

	oc := openai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	oc.HTTPClient = &http.Client{}

	c := &Client{
		api:     openai.NewClientWithConfig(oc),
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	return c, nil
}

// Model returns the model name requests are sent to.
func (c *Client) Model() string { return c.model }

// Complete sends messages and returns the text of the first choice.
func (c *Client) Complete(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	return c.create(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
	})
}

// CompleteJSON requests structured output conforming to schema and decodes
// it into out. Fields not present in out are rejected.
func (c *Client) CompleteJSON(ctx context.Context, messages []openai.ChatCompletionMessage, name string, schema *jsonschema.Definition, out any) error {
	content, err := c.create(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   name,
				Schema: schema,
				Strict: true,
			},
		},
	})
	if err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(content)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("llm: decoding %s response: %w", name, err)
	}
	return nil
}

func (c *Client) create(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", mapError(err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	msg := resp.Choices[0].Message
	if msg.Refusal != "" {
		return "", fmt.Errorf("llm: model refused: %s", msg.Refusal)
	}
	content := strings.TrimSpace(msg.Content)
	if content == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}

// mapError converts SDK errors carrying an HTTP status into package sentinels.
func mapError(err error) error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	}
	return fmt.Errorf("llm: request failed: %w", err)
}

// ImageMessage builds a user message carrying a prompt and one image URL,
// typically a base64 data URL.
func ImageMessage(prompt, imageURL string) openai.ChatCompletionMessage {
	return openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser,
		MultiContent: []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: prompt},
			{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    imageURL,
					Detail: openai.ImageURLDetailAuto,
				},
			},
		},
	}
}
