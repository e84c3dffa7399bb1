// Package agent defines the request/response envelope, the agent contract,
// and the orchestrator that routes requests to registered agents.
package agent

import "time"

// Request is the inbound JSON payload for an agent invocation. The "type"
// key selects the capability handler inside the target agent.
type Request map[string]any

// RequestType returns the request's type discriminator, or "" if absent.
func (r Request) RequestType() string {
	return r.String("type")
}

// String returns the value for key as a string, or "" when missing or not a string.
func (r Request) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// StringOr returns the value for key as a string, or def when missing/empty.
func (r Request) StringOr(key, def string) string {
	if s := r.String(key); s != "" {
		return s
	}
	return def
}

// StringSlice returns the value for key as a []string, tolerating []any input.
func (r Request) StringSlice(key string) []string {
	switch v := r[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// MapSlice returns the value for key as a slice of JSON objects.
func (r Request) MapSlice(key string) []map[string]any {
	switch v := r[key].(type) {
	case []map[string]any:
		return v
	case []any:
		out := make([]map[string]any, 0, len(v))
		for _, e := range v {
			if m, ok := e.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}

// Map returns the value for key as a JSON object, or nil.
func (r Request) Map(key string) map[string]any {
	m, _ := r[key].(map[string]any)
	return m
}

// Response is the uniform envelope returned by every agent invocation.
// Success=true implies Data is set and Error is empty; Success=false implies
// the inverse. AvailableAgents is populated only by the orchestrator when the
// requested agent is not registered.
type Response struct {
	Success         bool           `json:"success"`
	Data            map[string]any `json:"data,omitempty"`
	Error           string         `json:"error,omitempty"`
	Agent           string         `json:"agent,omitempty"`
	Timestamp       string         `json:"timestamp"`
	AvailableAgents []string       `json:"available_agents,omitempty"`
}

// SuccessResponse builds a success envelope for the named agent.
func SuccessResponse(agentName string, data map[string]any) *Response {
	return &Response{
		Success:   true,
		Data:      data,
		Agent:     agentName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// ErrorResponse builds an error envelope for the named agent.
func ErrorResponse(agentName, message string) *Response {
	return &Response{
		Success:   false,
		Error:     message,
		Agent:     agentName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
