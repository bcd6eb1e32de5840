// idagent is a single-turn tool-calling agent for identity-tenant
// administration. It answers natural-language questions, invoking read-only
// management API tools when the model requests grounding data.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/effective-security/idagent/internal/config"
	"github.com/effective-security/idagent/internal/httpd"
	"github.com/effective-security/idagent/pkg/agent"
	"github.com/effective-security/idagent/pkg/gateway"
	"github.com/effective-security/idagent/pkg/idp"
	"github.com/effective-security/idagent/pkg/llmfactory"
	"github.com/effective-security/idagent/pkg/llms"
	"github.com/effective-security/idagent/pkg/tools"
	"github.com/effective-security/idagent/pkg/tools/admintools"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/idagent", "main")

func main() {
	xlog.SetFormatter(xlog.NewStringFormatter(os.Stderr))

	cfg, err := config.Load()
	if err != nil {
		logger.KV(xlog.ERROR, "reason", "config", "err", err.Error())
		os.Exit(1)
	}
	xlog.SetGlobalLogLevel(logLevel(cfg.LogLevel))

	llm, err := createModel(cfg)
	if err != nil {
		logger.KV(xlog.ERROR, "reason", "llm", "err", err.Error())
		os.Exit(1)
	}

	tokens := idp.NewTokenSource(cfg.IdpDomain, cfg.IdpClientID, cfg.IdpClientSecret, cfg.IdpAudience)
	mgmt := idp.NewClient(cfg.IdpDomain, tokens)
	registry := tools.NewRegistry(admintools.All(mgmt)...)

	a := agent.New(gateway.New(llm), registry)
	server := httpd.NewServer(":"+cfg.Port, a)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.KV(xlog.INFO, "status", "shutting_down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.KV(xlog.ERROR, "reason", "shutdown", "err", err.Error())
			os.Exit(1)
		}
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.KV(xlog.ERROR, "reason", "serve", "err", err.Error())
			os.Exit(1)
		}
	}
}

// createModel builds the LLM from the provider config file when configured,
// or the default Gemini provider from the environment.
func createModel(cfg *config.Config) (llms.Model, error) {
	if cfg.LLMConfigFile != "" {
		f, err := llmfactory.Load(cfg.LLMConfigFile)
		if err != nil {
			return nil, err
		}
		return f.DefaultModel()
	}

	return llmfactory.CreateLLM(&llmfactory.ProviderConfig{
		Name:         "gemini",
		Type:         string(llms.ProviderGoogleAI),
		Token:        cfg.GeminiAPIKey,
		BaseURL:      cfg.GeminiEndpoint,
		DefaultModel: cfg.GeminiModel,
	})
}

func logLevel(level string) xlog.LogLevel {
	switch level {
	case "debug":
		return xlog.DEBUG
	case "warn", "warning":
		return xlog.WARNING
	case "error":
		return xlog.ERROR
	default:
		return xlog.INFO
	}
}
