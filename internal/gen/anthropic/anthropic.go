// Package anthropic adapts the Anthropic Messages API to gen.Service.
package anthropic

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/parlor-chat/parlor/internal/agents"
	"github.com/parlor-chat/parlor/internal/gen"
	"github.com/parlor-chat/parlor/internal/history"
)

// Options configure the adapter. Extend via functional options.
type Options struct {
	Model     anthropic.Model
	MaxTokens int64
	APIKey    string
}

// Service wraps the Anthropic client behind gen.Service.
type Service struct {
	client *anthropic.Client
	opts   Options
}

// New creates an Anthropic-backed generation service.
func New(optFns ...func(o *Options)) *Service {
	opts := Options{
		Model:     anthropic.ModelClaude3_5Sonnet20241022,
		MaxTokens: 1024,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := anthropic.NewClient(clientOpts...)
	return &Service{client: &client, opts: opts}
}

// Provider implements gen.Service.
func (s *Service) Provider() string { return agents.ProviderAnthropic }

// Generate implements gen.Service.
func (s *Service) Generate(ctx context.Context, req gen.Request) (string, error) {
	model := s.opts.Model
	if req.Model != "" {
		model = anthropic.Model(req.Model)
	}

	params := anthropic.MessageNewParams{
		Model:       model,
		Messages:    buildMessages(req.History, req.Text),
		MaxTokens:   s.opts.MaxTokens,
		Temperature: anthropic.Float(req.Temperature),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	resp, err := s.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: anthropic: %v", gen.ErrUpstream, err)
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.AsText().Text
		}
	}
	if text == "" {
		return "", fmt.Errorf("%w: anthropic: empty completion", gen.ErrUpstream)
	}
	return text, nil
}

func buildMessages(turns []history.Turn, text string) []anthropic.MessageParam {
	messages := make([]anthropic.MessageParam, 0, len(turns)+1)
	for _, t := range turns {
		if t.Text == "" {
			continue
		}
		block := anthropic.NewTextBlock(t.Text)
		if t.Role == history.RoleAssistant {
			messages = append(messages, anthropic.NewAssistantMessage(block))
		} else {
			messages = append(messages, anthropic.NewUserMessage(block))
		}
	}
	return append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(text)))
}
