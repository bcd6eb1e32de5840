package idp_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/effective-security/idagent/pkg/idp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseURL(t *testing.T) {
	assert.Equal(t, "https://tenant.example.auth0.com", idp.BaseURL("tenant.example.auth0.com"))
	assert.Equal(t, "https://tenant.example.auth0.com", idp.BaseURL("tenant.example.auth0.com/"))
	assert.Equal(t, "http://127.0.0.1:8443", idp.BaseURL("http://127.0.0.1:8443/"))
}

func TestTokenSource_Fetch(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/oauth/token", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "client-id", req["client_id"])
		assert.Equal(t, "client-secret", req["client_secret"])
		assert.Equal(t, "https://tenant/api/v2/", req["audience"])
		assert.Equal(t, "client_credentials", req["grant_type"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-1","expires_in":3600,"token_type":"Bearer"}`))
	}))
	defer srv.Close()

	ts := idp.NewTokenSource(srv.URL, "client-id", "client-secret", "https://tenant/api/v2/")

	token, err := ts.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))

	// second call is served from cache
	token, err = ts.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestTokenSource_RefreshAtMargin(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		if n == 1 {
			_, _ = w.Write([]byte(`{"access_token":"tok-1","expires_in":600}`))
		} else {
			_, _ = w.Write([]byte(`{"access_token":"tok-2","expires_in":600}`))
		}
	}))
	defer srv.Close()

	now := time.Now()
	ts := idp.NewTokenSource(srv.URL, "client-id", "client-secret", "aud",
		idp.WithNowFunc(func() time.Time { return now }))

	token, err := ts.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	// within the validity window: 600s lifetime minus the 300s margin
	now = now.Add(299 * time.Second)
	token, err = ts.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))

	// at the margin the cached token is no longer handed out
	now = now.Add(time.Second)
	token, err = ts.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-2", token)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestTokenSource_Unavailable(t *testing.T) {
	t.Run("denied", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"access_denied"}`))
		}))
		defer srv.Close()

		ts := idp.NewTokenSource(srv.URL, "client-id", "bad-secret", "aud")
		_, err := ts.Token(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, idp.ErrCredentialUnavailable)
		assert.Contains(t, err.Error(), "401")
	})

	t.Run("unreachable", func(t *testing.T) {
		ts := idp.NewTokenSource("http://127.0.0.1:1", "client-id", "client-secret", "aud")
		_, err := ts.Token(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, idp.ErrCredentialUnavailable)
	})

	t.Run("empty token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"expires_in":3600}`))
		}))
		defer srv.Close()

		ts := idp.NewTokenSource(srv.URL, "client-id", "client-secret", "aud")
		_, err := ts.Token(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, idp.ErrCredentialUnavailable)
	})
}

func TestTokenSource_FailureNotCached(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"tok-1","expires_in":3600}`))
	}))
	defer srv.Close()

	ts := idp.NewTokenSource(srv.URL, "client-id", "client-secret", "aud")

	_, err := ts.Token(context.Background())
	require.Error(t, err)

	token, err := ts.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
}
