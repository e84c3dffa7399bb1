package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

const logPrefix = "agent:agent"

// Agent is one top-level routing target. Process selects a capability
// handler from the request's type discriminator and always returns an
// envelope, never an error: every failure mode is folded into the envelope.
type Agent interface {
	Name() string
	Capabilities() []string
	Process(ctx context.Context, req Request) *Response
}

// Validate checks that every required key is present and non-empty. It
// returns the first missing key and false on rejection. Missing and
// present-but-empty are treated the same.
func Validate(agentName string, req Request, required ...string) (string, bool) {
	for _, field := range required {
		v, ok := req[field]
		if !ok || isEmpty(v) {
			slog.Warn(fmt.Sprintf("%s - [%s] missing required field: %s", logPrefix, agentName, field))
			return field, false
		}
	}
	return "", true
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	case []map[string]any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	case float64:
		return t == 0
	case int:
		return t == 0
	case int64:
		return t == 0
	case bool:
		return !t
	}
	return false
}

// LogRequest writes the inbound-payload observability line for an invocation.
func LogRequest(agentName, requestKind string, req Request) {
	data, _ := json.Marshal(req)
	slog.Info(fmt.Sprintf("%s - [%s] processing %s request", logPrefix, agentName, requestKind))
	slog.Debug(fmt.Sprintf("%s - [%s] request payload: %s", logPrefix, agentName, data))
}

// LogResponse writes the outbound-envelope observability line for an invocation.
func LogResponse(agentName string, resp *Response) {
	data, _ := json.Marshal(resp)
	slog.Debug(fmt.Sprintf("%s - [%s] response: %s", logPrefix, agentName, data))
}
