// Package openai adapts the OpenAI Chat Completions API to gen.Service.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/parlor-chat/parlor/internal/agents"
	"github.com/parlor-chat/parlor/internal/gen"
	"github.com/parlor-chat/parlor/internal/history"
)

// Options configure the adapter.
type Options struct {
	Model               string
	MaxCompletionTokens int64
	APIKey              string
}

// Service wraps the OpenAI client behind gen.Service.
type Service struct {
	client *openai.Client
	opts   Options
}

// New creates an OpenAI-backed generation service.
func New(optFns ...func(o *Options)) *Service {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		MaxCompletionTokens: 1024,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := openai.NewClient(clientOpts...)
	return &Service{client: &client, opts: opts}
}

// Provider implements gen.Service.
func (s *Service) Provider() string { return agents.ProviderOpenAI }

// Generate implements gen.Service.
func (s *Service) Generate(ctx context.Context, req gen.Request) (string, error) {
	model := s.opts.Model
	if req.Model != "" {
		model = req.Model
	}

	params := openai.ChatCompletionNewParams{
		Messages:            buildMessages(req),
		Model:               model,
		Temperature:         openai.Float(req.Temperature),
		MaxCompletionTokens: openai.Int(s.opts.MaxCompletionTokens),
	}

	resp, err := s.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: openai: %v", gen.ErrUpstream, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: openai: empty completion", gen.ErrUpstream)
	}
	return resp.Choices[0].Message.Content, nil
}

func buildMessages(req gen.Request) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.History)+2)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	for _, t := range req.History {
		if t.Text == "" {
			continue
		}
		if t.Role == history.RoleAssistant {
			messages = append(messages, openai.AssistantMessage(t.Text))
		} else {
			messages = append(messages, openai.UserMessage(t.Text))
		}
	}
	return append(messages, openai.UserMessage(req.Text))
}
