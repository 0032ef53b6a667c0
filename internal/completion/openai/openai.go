// Package openai implements the completion client on the official OpenAI Go SDK.
package openai

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	sdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/ssestream"

	"ragbot/internal/completion"
	"ragbot/internal/domain"
)

// ErrNoChoices is returned when the service answers without any choice.
var ErrNoChoices = errors.New("completion returned no choices")

// Config configures the completion client.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	Timeout   time.Duration
}

// Client is a completion.Client backed by the chat completions API.
// The SDK's automatic retries are disabled; failures surface to the caller.
type Client struct {
	client sdk.Client
	model  string
}

// NewClient reads the API key from cfg.APIKeyEnv and builds a client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "OPENAI_API_KEY"
	}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-3.5-turbo"
	}
	opts := []option.RequestOption{
		option.WithAPIKey(key),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	return &Client{client: sdk.NewClient(opts...), model: cfg.Model}, nil
}

// Model returns the model identifier requests are sent with.
func (c *Client) Model() string { return c.model }

func (c *Client) Complete(ctx context.Context, messages []domain.Message) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, c.params(messages))
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) Stream(ctx context.Context, messages []domain.Message) (completion.Stream, error) {
	s := c.client.Chat.Completions.NewStreaming(ctx, c.params(messages))
	if err := s.Err(); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("chat completion stream: %w", err)
	}
	return &stream{s: s}, nil
}

func (c *Client) params(messages []domain.Message) sdk.ChatCompletionNewParams {
	out := make([]sdk.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case domain.RoleSystem:
			out = append(out, sdk.SystemMessage(m.Content))
		case domain.RoleAssistant:
			out = append(out, sdk.AssistantMessage(m.Content))
		default:
			out = append(out, sdk.UserMessage(m.Content))
		}
	}
	return sdk.ChatCompletionNewParams{
		Model:    sdk.ChatModel(c.model),
		Messages: out,
	}
}

// stream adapts the SDK's SSE stream to completion.Stream, skipping chunks
// that carry no text.
type stream struct {
	s       *ssestream.Stream[sdk.ChatCompletionChunk]
	current string
}

func (s *stream) Next() bool {
	for s.s.Next() {
		chunk := s.s.Current()
		if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
			continue
		}
		s.current = chunk.Choices[0].Delta.Content
		return true
	}
	s.current = ""
	return false
}

func (s *stream) Current() string { return s.current }
func (s *stream) Err() error      { return s.s.Err() }
func (s *stream) Close() error    { return s.s.Close() }
