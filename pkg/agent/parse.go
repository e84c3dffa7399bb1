package agent

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

const parseLogPrefix = "agent:parse"

// DecodeObject attempts strict JSON decoding of a completion into an object.
// The decoded structure is returned verbatim; its schema is not validated.
// On failure the caller substitutes its capability-specific fallback; the
// warning below is the only record that the upstream reply was not the
// requested shape.
func DecodeObject(agentName, text string) (map[string]any, bool) {
	var out map[string]any
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		slog.Warn(fmt.Sprintf("%s - [%s] completion is not a JSON object, using fallback: %v", parseLogPrefix, agentName, err))
		return nil, false
	}
	return out, true
}

// DecodeList attempts strict JSON decoding of a completion into a list of objects.
func DecodeList(agentName, text string) ([]map[string]any, bool) {
	var out []map[string]any
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		slog.Warn(fmt.Sprintf("%s - [%s] completion is not a JSON array, using fallback: %v", parseLogPrefix, agentName, err))
		return nil, false
	}
	return out, true
}
