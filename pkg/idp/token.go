// Package idp provides clients for the backing identity-management service:
// a client-credentials token source and a read-only management API client.
package idp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/idagent/pkg/metricskey"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/idagent", "idp")

// TokenExpiryMargin is subtracted from the provider-declared token lifetime,
// a token is never handed out closer than this to its expiry.
const TokenExpiryMargin = 300 * time.Second

// ErrCredentialUnavailable marks failures to obtain a management API token.
var ErrCredentialUnavailable = errors.New("credential unavailable")

// Doer performs a HTTP request.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenProvider supplies a valid bearer token for the management API.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// TokenSource obtains tokens via the client-credentials grant and caches
// them for the process lifetime, refreshing on expiry. Safe for concurrent
// use; refreshes are serialized so one refresh serves concurrent callers.
type TokenSource struct {
	tokenURL     string
	clientID     string
	clientSecret string
	audience     string
	httpClient   Doer
	nowFn        func() time.Time

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// TokenSourceOption is an option for the token source.
type TokenSourceOption func(*TokenSource)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(client Doer) TokenSourceOption {
	return func(s *TokenSource) {
		s.httpClient = client
	}
}

// WithNowFunc overrides the clock, used in tests.
func WithNowFunc(now func() time.Time) TokenSourceOption {
	return func(s *TokenSource) {
		s.nowFn = now
	}
}

// NewTokenSource returns a token source for the given tenant domain and
// client credentials.
func NewTokenSource(domain, clientID, clientSecret, audience string, opts ...TokenSourceOption) *TokenSource {
	s := &TokenSource{
		tokenURL:     BaseURL(domain) + "/oauth/token",
		clientID:     clientID,
		clientSecret: clientSecret,
		audience:     audience,
		httpClient:   http.DefaultClient,
		nowFn:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BaseURL normalizes a tenant domain into a base URL.
func BaseURL(domain string) string {
	if !strings.Contains(domain, "://") {
		domain = "https://" + domain
	}
	return strings.TrimSuffix(domain, "/")
}

type tokenRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Audience     string `json:"audience"`
	GrantType    string `json:"grant_type"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// Token implements the TokenProvider interface. A cached token is returned
// without a network call while it remains within its validity window.
func (s *TokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFn()
	if s.token != "" && now.Before(s.expiresAt) {
		return s.token, nil
	}

	token, expiresIn, err := s.fetch(ctx)
	if err != nil {
		metricskey.StatsTokenRefreshFailed.IncrCounter(1)
		return "", errors.Mark(err, ErrCredentialUnavailable)
	}
	metricskey.StatsTokenRefreshSucceeded.IncrCounter(1)

	s.token = token
	s.expiresAt = now.Add(time.Duration(expiresIn)*time.Second - TokenExpiryMargin)

	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "token_refreshed",
		"expires_at", s.expiresAt.Format(time.RFC3339),
	)
	return s.token, nil
}

func (s *TokenSource) fetch(ctx context.Context) (string, int64, error) {
	payload := tokenRequest{
		ClientID:     s.clientID,
		ClientSecret: s.clientSecret,
		Audience:     s.audience,
		GrantType:    "client_credentials",
	}
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return "", 0, errors.Wrap(err, "marshal payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", 0, errors.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")

	r, err := s.httpClient.Do(req)
	if err != nil {
		return "", 0, errors.Wrap(err, "send request")
	}
	defer func() { _ = r.Body.Close() }()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return "", 0, errors.Wrap(err, "read body")
	}

	if r.StatusCode != http.StatusOK {
		return "", 0, errors.Errorf("token endpoint returned unexpected status code: %d", r.StatusCode)
	}

	var resp tokenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", 0, errors.Wrap(err, "decode response")
	}
	if resp.AccessToken == "" {
		return "", 0, errors.New("token endpoint returned empty access token")
	}
	return resp.AccessToken, resp.ExpiresIn, nil
}
