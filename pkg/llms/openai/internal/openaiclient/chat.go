package openaiclient

import (
	"github.com/invopop/jsonschema"
	openai "github.com/openai/openai-go/v3"
)

// ChatRequest is a request to the chat completions endpoint.
type ChatRequest struct {
	Model       string         `json:"model"`
	Messages    []*ChatMessage `json:"messages"`
	Temperature float64        `json:"temperature,omitempty"`
	MaxTokens   int            `json:"max_completion_tokens,omitempty"`
	N           int            `json:"n,omitempty"`
	Tools       []Tool         `json:"tools,omitempty"`
}

// ChatMessage is a message in a chat request.
type ChatMessage struct {
	// Role is one of system, user, assistant, tool.
	Role    string `json:"role"`
	Content string `json:"content"`

	// ToolCalls is a list of tools the assistant requested, assistant role only.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`

	// ToolCallID is the ID of the tool call this message is responding to,
	// tool role only.
	ToolCallID string `json:"tool_call_id,omitempty"`

	// Name of the tool that produced the content, tool role only.
	Name string `json:"name,omitempty"`
}

// Tool is a tool the model may call.
type Tool struct {
	Type     string             `json:"type"`
	Function FunctionDefinition `json:"function"`
}

// FunctionDefinition describes one callable function to the model.
type FunctionDefinition struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Parameters  *jsonschema.Schema `json:"parameters,omitempty"`
}

// ToolCall is a tool call requested by the model.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// FunctionCall is the name and serialized arguments of a function call.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ChatResponse is a response from the chat completions endpoint.
type ChatResponse struct {
	ID      string                  `json:"id"`
	Model   string                  `json:"model"`
	Choices []*ChatCompletionChoice `json:"choices"`
	Usage   openai.CompletionUsage  `json:"usage"`
}

// ChatCompletionChoice is one choice in a chat response.
type ChatCompletionChoice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}
