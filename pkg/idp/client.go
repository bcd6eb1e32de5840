package idp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/x/slices"
	"github.com/effective-security/xlog"
)

// Management API paths.
const (
	usersPath          = "/api/v2/users"
	tenantSettingsPath = "/api/v2/tenants/settings"
	signingKeysPath    = "/api/v2/keys/signing"
)

// UpstreamError is returned when a management read endpoint responds with a
// non-success status. It carries the status and body for diagnostics.
type UpstreamError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("management API returned unexpected status code: %d", e.StatusCode)
}

// Client is a read-only client for the management API.
type Client struct {
	baseURL    string
	tokens     TokenProvider
	httpClient Doer
}

// ClientOption is an option for the management client.
type ClientOption func(*Client)

// WithClientHTTPClient sets the HTTP client.
func WithClientHTTPClient(client Doer) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// NewClient returns a management API client for the given tenant domain.
// Tokens are obtained from the provided token source for every request.
func NewClient(domain string, tokens TokenProvider, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    BaseURL(domain),
		tokens:     tokens,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListUsers returns all user accounts of the tenant.
func (c *Client) ListUsers(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, usersPath)
}

// GetTenantSettings returns the tenant-level configuration.
func (c *Client) GetTenantSettings(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, tenantSettingsPath)
}

// ListSigningKeys returns the tenant's application signing keys.
func (c *Client) ListSigningKeys(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, signingKeysPath)
}

func (c *Client) get(ctx context.Context, path string) (json.RawMessage, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	u := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("Authorization", "Bearer "+token)

	r, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "send request")
	}
	defer func() { _ = r.Body.Close() }()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read body")
	}

	if r.StatusCode < http.StatusOK || r.StatusCode >= http.StatusMultipleChoices {
		logger.ContextKV(ctx, xlog.WARNING,
			"status", "upstream_error",
			"path", path,
			"code", r.StatusCode,
			"body", slices.StringUpto(string(body), 256),
		)
		return nil, errors.WithStack(&UpstreamError{
			StatusCode: r.StatusCode,
			Body:       string(body),
		})
	}

	return json.RawMessage(body), nil
}
