// Package agent implements the single-turn tool-calling orchestrator.
//
// A request moves through an explicit state machine:
//
//	Received → AwaitingAction → {Responding | AwaitingTool}
//	AwaitingTool → AwaitingSynthesis → Responded
//
// with any failure terminating the run. At most one tool is invoked per
// request; there is no loop back to action selection after a tool result.
package agent

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/idagent/pkg/gateway"
	"github.com/effective-security/idagent/pkg/idp"
	"github.com/effective-security/idagent/pkg/metricskey"
	"github.com/effective-security/idagent/pkg/tools"
	"github.com/effective-security/x/slices"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/idagent", "agent")

// state of a single request run.
type state int

const (
	stateReceived state = iota
	stateAwaitingAction
	stateResponding
	stateAwaitingTool
	stateAwaitingSynthesis
	stateResponded
)

// Request is the inbound agent request.
type Request struct {
	// Prompt is the natural-language question, must be non-empty.
	Prompt string `json:"prompt"`
}

// Agent orchestrates the two-phase LLM protocol over a fixed tool registry.
type Agent struct {
	gw       gateway.Provider
	registry *tools.Registry
}

// New returns an agent over the given gateway and tool registry.
func New(gw gateway.Provider, registry *tools.Registry) *Agent {
	return &Agent{
		gw:       gw,
		registry: registry,
	}
}

// run holds the mutable state of one request.
type run struct {
	state      state
	prompt     string
	toolName   string
	toolResult string
	text       string
}

// Handle processes one request and returns the final response text, or a
// failure carrying one of the FailureKind categories. Exactly one response
// is produced per request.
func (a *Agent) Handle(ctx context.Context, req *Request) (string, error) {
	started := time.Now()
	defer metricskey.PerfAgentRequest.MeasureSince(started)

	text, err := a.handle(ctx, req)
	if err != nil {
		metricskey.StatsAgentRequestsFailed.IncrCounter(1, string(KindOf(err)))
		return "", err
	}
	metricskey.StatsAgentRequestsSucceeded.IncrCounter(1)
	return text, nil
}

func (a *Agent) handle(ctx context.Context, req *Request) (string, error) {
	r := &run{
		state:  stateReceived,
		prompt: req.Prompt,
	}

	for {
		switch r.state {
		case stateReceived:
			if strings.TrimSpace(r.prompt) == "" {
				return "", Errorf(KindInvalidRequest, "prompt is required")
			}
			r.state = stateAwaitingAction

		case stateAwaitingAction:
			action, err := a.gw.SelectAction(ctx, r.prompt, a.registry.Declarations())
			if err != nil {
				return "", NewError(KindGatewayError, err)
			}
			if action.IsToolCall() {
				r.toolName = action.ToolName
				r.state = stateAwaitingTool
			} else {
				r.text = action.Text
				r.state = stateResponding
			}

		case stateResponding:
			r.state = stateResponded

		case stateAwaitingTool:
			result, err := a.invokeTool(ctx, r.toolName)
			if err != nil {
				return "", err
			}
			r.toolResult = result
			r.state = stateAwaitingSynthesis

		case stateAwaitingSynthesis:
			text, err := a.gw.Synthesize(ctx, r.prompt, r.toolName, r.toolResult)
			if err != nil {
				return "", NewError(KindGatewayError, err)
			}
			r.text = text
			r.state = stateResponded

		case stateResponded:
			logger.ContextKV(ctx, xlog.DEBUG,
				"status", "responded",
				"tool", r.toolName,
				"response", slices.StringUpto(r.text, 64),
			)
			return r.text, nil
		}
	}
}

// invokeTool looks up and invokes the named tool exactly once, mapping its
// failure to the matching kind.
func (a *Agent) invokeTool(ctx context.Context, toolName string) (string, error) {
	tool, ok := a.registry.Lookup(toolName)
	if !ok {
		metricskey.StatsToolCallsNotFound.IncrCounter(1, toolName)
		logger.ContextKV(ctx, xlog.WARNING,
			"status", "tool_not_found",
			"tool", toolName,
			"available_tools", strings.Join(a.registry.Names(), ", "),
		)
		return "", Errorf(KindToolNotFound, "tool %q is not registered", toolName)
	}

	started := time.Now()
	result, err := tool.Call(ctx, "")
	metricskey.PerfToolCall.MeasureSince(started, toolName)
	if err != nil {
		metricskey.StatsToolCallsFailed.IncrCounter(1, toolName)
		return "", NewError(toolFailureKind(err), errors.WithMessagef(err, "failed to call tool %s", toolName))
	}
	metricskey.StatsToolCallsSucceeded.IncrCounter(1, toolName)
	return result, nil
}

// toolFailureKind maps a tool failure onto the closed failure taxonomy,
// never masking the collaborator that failed.
func toolFailureKind(err error) FailureKind {
	if errors.Is(err, idp.ErrCredentialUnavailable) {
		return KindCredentialUnavailable
	}
	return KindUpstreamError
}
