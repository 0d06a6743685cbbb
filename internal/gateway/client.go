// Package gateway sends prompt pairs to a text-completion service and
// returns the raw text. Generation failures always surface as errors;
// there is no retry and no silent fallback.
package gateway

import (
	"context"
	"fmt"

	"github.com/liushuangls/go-anthropic/v2"
	"github.com/sashabaranov/go-openai"
	"github.com/user/pluma/internal/config"
)

// Options adjusts a single generation call.
type Options struct {
	System    string
	MaxTokens int
	Model     string
}

// Generator is the capability the rest of the engine depends on.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
}

// Client routes generation requests to the configured provider: an
// OpenAI-compatible gateway (chat completions against a base URL) or the
// Anthropic API directly.
type Client struct {
	cfg config.GatewayConfig
}

func NewClient(cfg config.GatewayConfig) *Client {
	return &Client{cfg: cfg}
}

func (c *Client) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	model := opts.Model
	if model == "" {
		model = c.cfg.Model
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.cfg.MaxTokens
	}

	switch c.cfg.Provider {
	case "openai", "gateway":
		return c.generateWithOpenAI(ctx, prompt, opts.System, model, maxTokens)
	case "anthropic":
		return c.generateWithAnthropic(ctx, prompt, opts.System, model, maxTokens)
	default:
		return "", fmt.Errorf("unsupported gateway provider: %s", c.cfg.Provider)
	}
}

func (c *Client) generateWithOpenAI(ctx context.Context, prompt, system, model string, maxTokens int) (string, error) {
	if c.cfg.Token == "" {
		return "", fmt.Errorf("gateway token not set (PLUMA_GATEWAY_TOKEN)")
	}

	clientCfg := openai.DefaultConfig(c.cfg.Token)
	if c.cfg.BaseURL != "" {
		clientCfg.BaseURL = c.cfg.BaseURL
	}
	client := openai.NewClientWithConfig(clientCfg)

	messages := []openai.ChatCompletionMessage{}
	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleSystem, Content: system,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser, Content: prompt,
	})

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     model,
		MaxTokens: maxTokens,
		Messages:  messages,
	})
	if err != nil {
		return "", fmt.Errorf("gateway: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("gateway: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) generateWithAnthropic(ctx context.Context, prompt, system, model string, maxTokens int) (string, error) {
	if c.cfg.Token == "" {
		return "", fmt.Errorf("anthropic API key not set")
	}

	client := anthropic.NewClient(c.cfg.Token)

	resp, err := client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(model),
		System:    system,
		MaxTokens: maxTokens,
		Messages: []anthropic.Message{
			{
				Role:    anthropic.RoleUser,
				Content: []anthropic.MessageContent{{Type: "text", Text: &prompt}},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic: %w", err)
	}
	if len(resp.Content) == 0 {
		return "", fmt.Errorf("anthropic: empty response")
	}
	return resp.Content[0].GetText(), nil
}
