// Package openai implements a provider for the OpenAI chat completions API.
package openai

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/idagent/pkg/llms"
	"github.com/effective-security/idagent/pkg/llms/openai/internal/openaiclient"
)

const (
	// RoleSystem is the wire role of system messages.
	RoleSystem = "system"
	// RoleAssistant is the wire role of model messages.
	RoleAssistant = "assistant"
	// RoleUser is the wire role of caller messages.
	RoleUser = "user"
	// RoleTool is the wire role of tool-response messages.
	RoleTool = "tool"
)

// LLM is an OpenAI chat model.
type LLM struct {
	client *openaiclient.Client
}

var _ llms.Model = (*LLM)(nil)

// Option is an option for the OpenAI LLM.
type Option func(*options)

type options struct {
	model        string
	token        string
	baseURL      string
	organization string
	httpClient   openaiclient.Doer
}

// WithModel sets the default model.
func WithModel(model string) Option {
	return func(o *options) {
		o.model = model
	}
}

// WithToken sets the API token.
func WithToken(token string) Option {
	return func(o *options) {
		o.token = token
	}
}

// WithBaseURL sets the base URL of the service.
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		o.baseURL = baseURL
	}
}

// WithOrganization sets the organization header.
func WithOrganization(organization string) Option {
	return func(o *options) {
		o.organization = organization
	}
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(client openaiclient.Doer) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// New returns a new OpenAI LLM.
func New(opts ...Option) (*LLM, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	c, err := openaiclient.New(o.model, o.token, o.baseURL, o.organization, o.httpClient)
	if err != nil {
		return nil, err
	}
	return &LLM{
		client: c,
	}, nil
}

// GetName implements the llms.Model interface.
func (o *LLM) GetName() string {
	return o.client.Model
}

// GetProviderType implements the llms.Model interface.
func (o *LLM) GetProviderType() llms.ProviderType {
	return llms.ProviderOpenAI
}

// GenerateContent implements the llms.Model interface.
func (o *LLM) GenerateContent(ctx context.Context, messages []llms.Message, options ...llms.CallOption) (*llms.ContentResponse, error) {
	opts := llms.CallOptions{}
	for _, opt := range options {
		opt(&opts)
	}

	chatMsgs := make([]*openaiclient.ChatMessage, 0, len(messages))
	for _, mc := range messages {
		msg, err := convertMessage(mc)
		if err != nil {
			return nil, err
		}
		chatMsgs = append(chatMsgs, msg)
	}

	req := &openaiclient.ChatRequest{
		Model:       opts.Model,
		Messages:    chatMsgs,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
		N:           opts.CandidateCount,
	}
	for _, tool := range opts.Tools {
		if tool.Function == nil {
			continue
		}
		req.Tools = append(req.Tools, openaiclient.Tool{
			Type: "function",
			Function: openaiclient.FunctionDefinition{
				Name:        tool.Function.Name,
				Description: tool.Function.Description,
				Parameters:  tool.Function.Parameters,
			},
		})
	}

	result, err := o.client.CreateChat(ctx, req)
	if err != nil {
		return nil, err
	}

	choices := make([]*llms.ContentChoice, len(result.Choices))
	for i, c := range result.Choices {
		choice := &llms.ContentChoice{
			Content:    c.Message.Content,
			StopReason: c.FinishReason,
			GenerationInfo: map[string]any{
				"InputTokens":  result.Usage.PromptTokens,
				"OutputTokens": result.Usage.CompletionTokens,
				"TotalTokens":  result.Usage.TotalTokens,
			},
		}
		for _, tc := range c.Message.ToolCalls {
			choice.ToolCalls = append(choice.ToolCalls, llms.ToolCall{
				ID:   tc.ID,
				Type: tc.Type,
				FunctionCall: &llms.FunctionCall{
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments,
				},
			})
		}
		choices[i] = choice
	}
	return &llms.ContentResponse{Choices: choices}, nil
}

// convertMessage converts one provider-neutral message to the chat wire form.
func convertMessage(mc llms.Message) (*openaiclient.ChatMessage, error) {
	msg := &openaiclient.ChatMessage{}
	switch mc.Role {
	case llms.RoleSystem:
		msg.Role = RoleSystem
	case llms.RoleAI:
		msg.Role = RoleAssistant
	case llms.RoleHuman:
		msg.Role = RoleUser
	case llms.RoleTool:
		msg.Role = RoleTool
		if len(mc.Parts) != 1 {
			return nil, errors.Errorf("expected exactly one part for role %v, got %v", mc.Role, len(mc.Parts))
		}
		p, ok := mc.Parts[0].(llms.ToolCallResponse)
		if !ok {
			return nil, errors.Errorf("expected part of type ToolCallResponse for role %v, got %T", mc.Role, mc.Parts[0])
		}
		msg.ToolCallID = p.ToolCallID
		msg.Name = p.Name
		msg.Content = p.Content
		return msg, nil
	default:
		return nil, errors.Errorf("role %v not supported", mc.Role)
	}

	for _, part := range mc.Parts {
		switch p := part.(type) {
		case llms.TextContent:
			msg.Content += p.Text
		case llms.ToolCall:
			msg.ToolCalls = append(msg.ToolCalls, openaiclient.ToolCall{
				ID:   p.ID,
				Type: p.Type,
				Function: openaiclient.FunctionCall{
					Name:      p.FunctionCall.Name,
					Arguments: p.FunctionCall.Arguments,
				},
			})
		default:
			return nil, errors.Errorf("unsupported content part %T", part)
		}
	}
	return msg, nil
}
