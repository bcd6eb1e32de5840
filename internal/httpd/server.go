// Package httpd implements the inbound HTTP boundary of the agent.
package httpd

import (
	"context"
	"net/http"
	"time"

	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/idagent", "httpd")

// Server serves the agent endpoint.
type Server struct {
	server *http.Server
}

// NewServer returns a server on the given address over the invoker.
func NewServer(addr string, invoker Invoker) *Server {
	mux := http.NewServeMux()
	mux.HandleFunc(AgentPath, handleAgent(invoker))
	mux.HandleFunc("/healthz", handleHealthz())

	return &Server{
		server: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler returns the HTTP handler, used in tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// ListenAndServe serves until Shutdown or a listener error.
func (s *Server) ListenAndServe() error {
	logger.KV(xlog.INFO,
		"status", "listening",
		"addr", s.server.Addr,
	)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server without interrupting active
// requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
