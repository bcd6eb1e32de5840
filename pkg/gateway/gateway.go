// Package gateway drives the two LLM calls of the agent protocol: the
// tool-selection call and the response-synthesis call.
package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/idagent/pkg/llms"
	"github.com/effective-security/idagent/pkg/llmutils"
	"github.com/effective-security/idagent/pkg/metricskey"
	"github.com/effective-security/xlog"
)

//go:generate mockgen -source=gateway.go -destination=../../mocks/mockgateway/gateway_mock.gen.go -package mockgateway

var logger = xlog.NewPackageLogger("github.com/effective-security/idagent", "gateway")

const (
	phaseSelect     = "select"
	phaseSynthesize = "synthesize"
)

const selectSystemPrompt = "You are an administrative assistant for an identity management tenant. " +
	"Use one of the provided tools when answering requires live tenant data; otherwise answer directly."

const synthesizePromptFormat = "Answer the user's question using the tool result.\n\n" +
	"QUESTION:\n%s\n\nRESULT OF %s:\n%s"

// Action is the outcome of the tool-selection call: either the model's
// direct text answer, or a request to invoke a named tool.
type Action struct {
	// Text is the model's answer when no tool is needed.
	Text string
	// ToolName is the name of the tool the model wants invoked.
	ToolName string
}

// IsToolCall reports whether the model requested a tool invocation.
func (a *Action) IsToolCall() bool {
	return a.ToolName != ""
}

// Provider is the LLM gateway contract consumed by the orchestrator.
type Provider interface {
	// SelectAction submits the prompt with the full tool declaration set and
	// returns the model's chosen action.
	SelectAction(ctx context.Context, prompt string, declarations []llms.Tool) (*Action, error)
	// Synthesize submits the original prompt together with a tool's result
	// and returns the synthesized answer.
	Synthesize(ctx context.Context, prompt, toolName, toolResult string) (string, error)
}

// Gateway implements Provider over a chat model.
type Gateway struct {
	llm llms.Model
}

var _ Provider = (*Gateway)(nil)

// New returns a gateway over the given model.
func New(llm llms.Model) *Gateway {
	return &Gateway{
		llm: llm,
	}
}

// SelectAction implements the Provider interface.
func (g *Gateway) SelectAction(ctx context.Context, prompt string, declarations []llms.Tool) (*Action, error) {
	messages := []llms.Message{
		llms.MessageFromTextParts(llms.RoleSystem, selectSystemPrompt),
		llms.MessageFromTextParts(llms.RoleHuman, prompt),
	}

	choice, err := g.generate(ctx, phaseSelect, messages, llms.WithTools(declarations))
	if err != nil {
		return nil, err
	}

	if len(choice.ToolCalls) > 0 {
		tc := choice.ToolCalls[0]
		if tc.FunctionCall == nil || tc.FunctionCall.Name == "" {
			return nil, errors.New("model returned a tool call without a function name")
		}
		logger.ContextKV(ctx, xlog.DEBUG,
			"phase", phaseSelect,
			"status", "tool_requested",
			"tool", tc.FunctionCall.Name,
		)
		return &Action{ToolName: tc.FunctionCall.Name}, nil
	}

	text := llmutils.CleanAnswer(choice.Content)
	if text == "" {
		return nil, errors.New("model returned a response with no content")
	}
	return &Action{Text: text}, nil
}

// Synthesize implements the Provider interface.
func (g *Gateway) Synthesize(ctx context.Context, prompt, toolName, toolResult string) (string, error) {
	messages := []llms.Message{
		llms.MessageFromTextParts(llms.RoleSystem, fmt.Sprintf(synthesizePromptFormat, prompt, toolName, toolResult)),
		llms.MessageFromTextParts(llms.RoleHuman, prompt),
		llms.MessageFromToolResponse(llms.RoleTool, llms.ToolCallResponse{
			ToolCallID: toolName,
			Name:       toolName,
			Content:    toolResult,
		}),
	}

	choice, err := g.generate(ctx, phaseSynthesize, messages)
	if err != nil {
		return "", err
	}
	return llmutils.CleanAnswer(choice.Content), nil
}

func (g *Gateway) generate(ctx context.Context, phase string, messages []llms.Message, options ...llms.CallOption) (*llms.ContentChoice, error) {
	started := time.Now()
	defer metricskey.PerfLLMCall.MeasureSince(started, phase, g.llm.GetName())

	resp, err := g.llm.GenerateContent(ctx, messages, options...)
	if err != nil {
		metricskey.StatsLLMCallsFailed.IncrCounter(1, phase, g.llm.GetName())
		return nil, errors.WithMessagef(err, "failed to generate content from LLM, phase %s", phase)
	}
	if len(resp.Choices) == 0 {
		metricskey.StatsLLMCallsFailed.IncrCounter(1, phase, g.llm.GetName())
		return nil, errors.Newf("LLM returned empty response, phase %s", phase)
	}
	metricskey.StatsLLMCallsSucceeded.IncrCounter(1, phase, g.llm.GetName())
	return resp.Choices[0], nil
}
