// Package tools defines the tool contract and the closed registry of tools
// the agent may invoke.
package tools

import (
	"context"

	"github.com/effective-security/idagent/pkg/llms"
	"github.com/invopop/jsonschema"
)

//go:generate mockgen -source=tools.go -destination=../../mocks/mocktools/tools_mock.gen.go -package mocktools

// ITool is a named, read-only operation the model may request.
type ITool interface {
	// Name returns the name of the Tool.
	Name() string
	// Description returns the description of the tool, to be used in the prompt.
	// Should not exceed LLM model limit.
	Description() string
	// Parameters returns the parameters definition of the function, to be
	// used in the prompt.
	Parameters() *jsonschema.Schema
	// Call executes the tool with the given input and returns the result.
	Call(ctx context.Context, input string) (string, error)
}

// Registry is a fixed mapping from tool name to implementation, built once
// at composition time. Lookup is exact-match and case-sensitive.
type Registry struct {
	byName map[string]ITool
	names  []string
	defs   []llms.Tool
}

// NewRegistry returns a registry over the given tools. Duplicate names keep
// the first registration.
func NewRegistry(list ...ITool) *Registry {
	r := &Registry{
		byName: make(map[string]ITool, len(list)),
	}
	for _, tool := range list {
		name := tool.Name()
		if r.byName[name] != nil {
			continue
		}
		r.byName[name] = tool
		r.names = append(r.names, name)
		r.defs = append(r.defs, llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        name,
				Description: tool.Description(),
				Parameters:  tool.Parameters(),
			},
		})
	}
	return r
}

// Lookup returns the tool registered under the exact name.
func (r *Registry) Lookup(name string) (ITool, bool) {
	tool, ok := r.byName[name]
	return tool, ok
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	return r.names
}

// Declarations returns the machine-readable declarations sent to the model.
func (r *Registry) Declarations() []llms.Tool {
	return r.defs
}
