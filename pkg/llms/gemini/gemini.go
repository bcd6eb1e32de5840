// Package gemini implements a provider for Gemini-style content-generation
// endpoints over their raw wire format.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/idagent/pkg/llms"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/idagent", "gemini")

const (
	// DefaultBaseURL is the endpoint of the hosted Gemini API.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	// DefaultModel is used when no model is configured.
	DefaultModel = "gemini-2.0-flash"

	// RoleUser is the wire role of caller messages.
	RoleUser = "user"
	// RoleModel is the wire role of model messages.
	RoleModel = "model"
	// RoleTool is the wire role of function-response messages.
	RoleTool = "tool"
)

var (
	// ErrNoContentInResponse is returned when the response carries no candidates.
	ErrNoContentInResponse = errors.New("no content in generation response")
	// ErrUnexpectedRole is returned for messages with unmapped roles.
	ErrUnexpectedRole = errors.New("unexpected role")
)

// Doer performs a HTTP request.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a client for a Gemini-style generateContent API.
type Client struct {
	model      string
	apiKey     string
	baseURL    string
	httpClient Doer
}

var _ llms.Model = (*Client)(nil)

// Option is an option for the Gemini client.
type Option func(*Client)

// WithModel sets the default model.
func WithModel(model string) Option {
	return func(c *Client) {
		c.model = model
	}
}

// WithAPIKey sets the API key.
func WithAPIKey(apiKey string) Option {
	return func(c *Client) {
		c.apiKey = apiKey
	}
}

// WithBaseURL sets the base URL of the service.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(client Doer) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// New returns a new Gemini client.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		model:      DefaultModel,
		baseURL:    DefaultBaseURL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.apiKey == "" {
		return nil, errors.New("gemini: API key is not set")
	}
	return c, nil
}

// GetName implements the llms.Model interface.
func (c *Client) GetName() string {
	return c.model
}

// GetProviderType implements the llms.Model interface.
func (c *Client) GetProviderType() llms.ProviderType {
	return llms.ProviderGoogleAI
}

// GenerateContent implements the llms.Model interface.
func (c *Client) GenerateContent(ctx context.Context, messages []llms.Message, options ...llms.CallOption) (*llms.ContentResponse, error) {
	opts := llms.CallOptions{
		Model: c.model,
	}
	for _, opt := range options {
		opt(&opts)
	}

	payload := &generateRequest{}
	for _, msg := range messages {
		content, err := convertMessage(msg)
		if err != nil {
			return nil, err
		}
		if msg.Role == llms.RoleSystem {
			payload.SystemInstruction = content
			continue
		}
		payload.Contents = append(payload.Contents, content)
	}
	payload.Tools = convertTools(opts.Tools)
	if opts.CandidateCount > 0 || opts.MaxTokens > 0 || opts.Temperature > 0 {
		cfg := &GenerationConfig{
			CandidateCount:  int32(opts.CandidateCount),
			MaxOutputTokens: int32(opts.MaxTokens),
		}
		if opts.Temperature > 0 {
			t := float32(opts.Temperature)
			cfg.Temperature = &t
		}
		payload.GenerationConfig = cfg
	}

	resp, err := c.generateContent(ctx, opts.Model, payload)
	if err != nil {
		return nil, err
	}
	if len(resp.Candidates) == 0 {
		return nil, errors.WithStack(ErrNoContentInResponse)
	}
	return convertCandidates(resp.Candidates)
}

func (c *Client) generateContent(ctx context.Context, model string, payload *generateRequest) (*generateResponse, error) {
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "marshal payload")
	}

	u := c.baseURL + "/models/" + model + ":generateContent"
	logger.ContextKV(ctx, xlog.DEBUG, "url", u)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)

	r, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "send request")
	}
	defer func() { _ = r.Body.Close() }()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read body")
	}

	if r.StatusCode != http.StatusOK {
		var errResp generateResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != nil {
			return nil, errors.Errorf("API returned unexpected status code: %d: %s", r.StatusCode, errResp.Error.Message)
		}
		return nil, errors.Errorf("API returned unexpected status code: %d", r.StatusCode)
	}

	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrap(err, "decode response")
	}
	return &resp, nil
}

// convertMessage converts one provider-neutral message to wire content.
func convertMessage(msg llms.Message) (*Content, error) {
	content := &Content{}
	switch msg.Role {
	case llms.RoleSystem:
		// role is dropped for systemInstruction
	case llms.RoleHuman:
		content.Role = RoleUser
	case llms.RoleAI:
		content.Role = RoleModel
	case llms.RoleTool:
		content.Role = RoleTool
	default:
		return nil, errors.Wrapf(ErrUnexpectedRole, "role %v not supported", msg.Role)
	}

	for _, part := range msg.Parts {
		switch p := part.(type) {
		case llms.TextContent:
			content.Parts = append(content.Parts, &Part{Text: p.Text})
		case llms.ToolCall:
			var args map[string]any
			if p.FunctionCall.Arguments != "" {
				if err := json.Unmarshal([]byte(p.FunctionCall.Arguments), &args); err != nil {
					return nil, errors.Wrap(err, "unmarshal tool call arguments")
				}
			}
			content.Parts = append(content.Parts, &Part{
				FunctionCall: &FunctionCall{
					Name: p.FunctionCall.Name,
					Args: args,
				},
			})
		case llms.ToolCallResponse:
			content.Parts = append(content.Parts, &Part{
				FunctionResponse: &FunctionResponse{
					Name: p.Name,
					Response: map[string]any{
						"response": p.Content,
					},
				},
			})
		default:
			return nil, errors.Errorf("unsupported content part %T", part)
		}
	}
	return content, nil
}

func convertTools(tools []llms.Tool) []*Tool {
	if len(tools) == 0 {
		return nil
	}
	decls := make([]*FunctionDeclaration, 0, len(tools))
	for _, tool := range tools {
		if tool.Function == nil {
			continue
		}
		decls = append(decls, &FunctionDeclaration{
			Name:        tool.Function.Name,
			Description: tool.Function.Description,
			Parameters:  tool.Function.Parameters,
		})
	}
	if len(decls) == 0 {
		return nil
	}
	return []*Tool{
		{FunctionDeclarations: decls},
	}
}

// convertCandidates converts wire candidates to a provider-neutral response.
func convertCandidates(candidates []*Candidate) (*llms.ContentResponse, error) {
	var contentResponse llms.ContentResponse
	for _, candidate := range candidates {
		var buf strings.Builder
		var toolCalls []llms.ToolCall

		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				switch {
				case part.FunctionCall != nil:
					args, err := json.Marshal(part.FunctionCall.Args)
					if err != nil {
						return nil, errors.Wrap(err, "marshal function call args")
					}
					toolCalls = append(toolCalls, llms.ToolCall{
						Type: "function",
						FunctionCall: &llms.FunctionCall{
							Name:      part.FunctionCall.Name,
							Arguments: string(args),
						},
					})
				default:
					buf.WriteString(part.Text)
				}
			}
		}

		contentResponse.Choices = append(contentResponse.Choices, &llms.ContentChoice{
			Content:    buf.String(),
			StopReason: candidate.FinishReason,
			ToolCalls:  toolCalls,
		})
	}
	return &contentResponse, nil
}
