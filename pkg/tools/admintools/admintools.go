// Package admintools provides the read-only management API tools exposed to
// the agent. All tools take no arguments and differ only in which backing
// endpoint they target.
package admintools

import (
	"context"
	"encoding/json"

	"github.com/effective-security/idagent/pkg/idp"
	"github.com/effective-security/idagent/pkg/llms"
	"github.com/effective-security/idagent/pkg/tools"
	"github.com/invopop/jsonschema"
)

// Tool names, as declared to the model.
const (
	ListUsersToolName         = "ListUsers"
	GetTenantSettingsToolName = "GetTenantSettings"
	ListSigningKeysToolName   = "ListSigningKeys"
)

// readTool is a zero-argument tool backed by one management read endpoint.
type readTool struct {
	name        string
	description string
	read        func(ctx context.Context) (json.RawMessage, error)
}

var _ tools.ITool = (*readTool)(nil)

// Name implements the tools.ITool interface.
func (t *readTool) Name() string {
	return t.name
}

// Description implements the tools.ITool interface.
func (t *readTool) Description() string {
	return t.description
}

// Parameters implements the tools.ITool interface.
// All management read tools are zero-argument.
func (t *readTool) Parameters() *jsonschema.Schema {
	return llms.EmptyParameters()
}

// Call implements the tools.ITool interface. The input is ignored, the raw
// JSON body of the backing endpoint is returned as the result.
func (t *readTool) Call(ctx context.Context, _ string) (string, error) {
	res, err := t.read(ctx)
	if err != nil {
		return "", err
	}
	return string(res), nil
}

// NewListUsers returns the tool that enumerates all user accounts.
func NewListUsers(client *idp.Client) tools.ITool {
	return &readTool{
		name:        ListUsersToolName,
		description: "Retrieves the list of all user accounts of the tenant, including their identifiers, emails and login metadata.",
		read:        client.ListUsers,
	}
}

// NewGetTenantSettings returns the tool that reads tenant-level configuration.
func NewGetTenantSettings(client *idp.Client) tools.ITool {
	return &readTool{
		name:        GetTenantSettingsToolName,
		description: "Retrieves the tenant-level settings and configuration of the identity service.",
		read:        client.GetTenantSettings,
	}
}

// NewListSigningKeys returns the tool that enumerates application signing keys.
func NewListSigningKeys(client *idp.Client) tools.ITool {
	return &readTool{
		name:        ListSigningKeysToolName,
		description: "Retrieves the list of application signing keys of the tenant.",
		read:        client.ListSigningKeys,
	}
}

// All returns every management tool over the given client, in declaration
// order.
func All(client *idp.Client) []tools.ITool {
	return []tools.ITool{
		NewListUsers(client),
		NewGetTenantSettings(client),
		NewListSigningKeys(client),
	}
}
