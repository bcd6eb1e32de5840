// Package metricskey describes the metrics emitted by this repo.
package metricskey

import "github.com/effective-security/metrics"

// Stats
var (
	StatsAgentRequestsSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_agent_requests_succeeded",
		Help:         "stats_agent_requests_succeeded provides total agent requests succeeded",
		RequiredTags: []string{},
	}

	StatsAgentRequestsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_agent_requests_failed",
		Help:         "stats_agent_requests_failed provides total agent requests failed",
		RequiredTags: []string{"kind"},
	}

	StatsLLMCallsSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_llm_calls_succeeded",
		Help:         "stats_llm_calls_succeeded provides total LLM calls succeeded",
		RequiredTags: []string{"phase", "model"},
	}

	StatsLLMCallsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_llm_calls_failed",
		Help:         "stats_llm_calls_failed provides total LLM calls failed",
		RequiredTags: []string{"phase", "model"},
	}

	StatsToolCallsSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_succeeded",
		Help:         "stats_tool_calls_succeeded provides total tool calls succeeded",
		RequiredTags: []string{"tool"},
	}

	StatsToolCallsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_failed",
		Help:         "stats_tool_calls_failed provides total tool calls failed",
		RequiredTags: []string{"tool"},
	}

	StatsToolCallsNotFound = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_not_found",
		Help:         "stats_tool_calls_not_found provides total tool calls not found",
		RequiredTags: []string{"tool"},
	}

	StatsTokenRefreshSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_token_refresh_succeeded",
		Help:         "stats_token_refresh_succeeded provides total token refreshes succeeded",
		RequiredTags: []string{},
	}

	StatsTokenRefreshFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_token_refresh_failed",
		Help:         "stats_token_refresh_failed provides total token refreshes failed",
		RequiredTags: []string{},
	}
)

// Perf
var (
	PerfAgentRequest = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_agent_request",
		Help:         "perf_agent_request provides duration of agent request",
		RequiredTags: []string{},
	}

	PerfLLMCall = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_llm_call",
		Help:         "perf_llm_call provides duration of LLM call",
		RequiredTags: []string{"phase", "model"},
	}

	PerfToolCall = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_tool_call",
		Help:         "perf_tool_call provides duration of tool call",
		RequiredTags: []string{"tool"},
	}
)

// Metrics returns slice of metrics from this repo
// keep sorted by name
var Metrics = []*metrics.Describe{
	&PerfAgentRequest,
	&PerfLLMCall,
	&PerfToolCall,
	&StatsAgentRequestsFailed,
	&StatsAgentRequestsSucceeded,
	&StatsLLMCallsFailed,
	&StatsLLMCallsSucceeded,
	&StatsTokenRefreshFailed,
	&StatsTokenRefreshSucceeded,
	&StatsToolCallsFailed,
	&StatsToolCallsNotFound,
	&StatsToolCallsSucceeded,
}
