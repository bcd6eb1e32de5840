package httpd

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/effective-security/idagent/pkg/agent"
	"github.com/effective-security/x/slices"
	"github.com/effective-security/xlog"
)

// AgentPath is the inbound endpoint of the agent.
const AgentPath = "/v1/agent"

// Invoker processes one agent request.
type Invoker interface {
	Handle(ctx context.Context, req *agent.Request) (string, error)
}

type agentResponse struct {
	Response string `json:"response"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func handleAgent(invoker Invoker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := WithRequestID(r.Context(), r.Header.Get("X-Request-ID"))

		if r.Method != http.MethodPost {
			writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method Not Allowed"})
			return
		}

		var req agent.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Prompt) == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Prompt is required."})
			return
		}

		logger.ContextKV(ctx, xlog.INFO,
			"status", "request_received",
			"request_id", RequestID(ctx),
			"prompt", slices.StringUpto(req.Prompt, 64),
		)

		text, err := invoker.Handle(ctx, &req)
		if err != nil {
			// The failure kind and detail are recorded for operator diagnosis
			// only, the caller gets a generic message.
			logger.ContextKV(ctx, xlog.ERROR,
				"status", "request_failed",
				"request_id", RequestID(ctx),
				"kind", string(agent.KindOf(err)),
				"err", err.Error(),
			)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal Server Error"})
			return
		}

		writeJSON(w, http.StatusOK, agentResponse{Response: text})
	}
}

func handleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
