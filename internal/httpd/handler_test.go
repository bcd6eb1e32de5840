package httpd_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/effective-security/idagent/internal/httpd"
	"github.com/effective-security/idagent/pkg/agent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type invokerFunc func(ctx context.Context, req *agent.Request) (string, error)

func (f invokerFunc) Handle(ctx context.Context, req *agent.Request) (string, error) {
	return f(ctx, req)
}

func serve(t *testing.T, invoker httpd.Invoker, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	server := httpd.NewServer(":0", invoker)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)
	return w
}

func TestAgent_Success(t *testing.T) {
	invoker := invokerFunc(func(ctx context.Context, req *agent.Request) (string, error) {
		assert.Equal(t, "How many users are there?", req.Prompt)
		assert.NotEmpty(t, httpd.RequestID(ctx))
		return "There are 2 users.", nil
	})

	w := serve(t, invoker, http.MethodPost, httpd.AgentPath, `{"prompt":"How many users are there?"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"response":"There are 2 users."}`, w.Body.String())
}

func TestAgent_MethodNotAllowed(t *testing.T) {
	invoker := invokerFunc(func(ctx context.Context, req *agent.Request) (string, error) {
		t.Fatal("invoker must not be called")
		return "", nil
	})

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodPatch} {
		w := serve(t, invoker, method, httpd.AgentPath, "")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, method)
		assert.JSONEq(t, `{"error":"Method Not Allowed"}`, w.Body.String())
	}
}

func TestAgent_BadRequest(t *testing.T) {
	invoker := invokerFunc(func(ctx context.Context, req *agent.Request) (string, error) {
		t.Fatal("invoker must not be called")
		return "", nil
	})

	tcases := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"malformed json", `{"prompt":`},
		{"missing prompt", `{}`},
		{"empty prompt", `{"prompt":""}`},
		{"whitespace prompt", `{"prompt":"   "}`},
		{"wrong type", `{"prompt":42}`},
	}
	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			w := serve(t, invoker, http.MethodPost, httpd.AgentPath, tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"error":"Prompt is required."}`, w.Body.String())
		})
	}
}

func TestAgent_Failure(t *testing.T) {
	invoker := invokerFunc(func(ctx context.Context, req *agent.Request) (string, error) {
		return "", agent.Errorf(agent.KindUpstreamError, "management API returned unexpected status code: 502")
	})

	w := serve(t, invoker, http.MethodPost, httpd.AgentPath, `{"prompt":"How many users are there?"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, w.Body.String())
	// the failure detail must not leak to the caller
	assert.NotContains(t, w.Body.String(), "502")
}

func TestHealthz(t *testing.T) {
	invoker := invokerFunc(func(ctx context.Context, req *agent.Request) (string, error) {
		return "", nil
	})

	w := serve(t, invoker, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRequestID(t *testing.T) {
	ctx := httpd.WithRequestID(context.Background(), "req-123")
	assert.Equal(t, "req-123", httpd.RequestID(ctx))

	// minted when the caller does not provide one
	ctx = httpd.WithRequestID(context.Background(), "")
	assert.NotEmpty(t, httpd.RequestID(ctx))

	assert.Empty(t, httpd.RequestID(context.Background()))
}

func TestRequestID_Propagated(t *testing.T) {
	invoker := invokerFunc(func(ctx context.Context, req *agent.Request) (string, error) {
		require.Equal(t, "req-123", httpd.RequestID(ctx))
		return "ok", nil
	})

	server := httpd.NewServer(":0", invoker)
	req := httptest.NewRequest(http.MethodPost, httpd.AgentPath, strings.NewReader(`{"prompt":"hi"}`))
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
