package agent

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
)

const orchestratorLogPrefix = "agent:orchestrator"

// Orchestrator routes requests to registered agents. The registry is
// populated at construction and guarded by a lock; there is no dynamic
// registration after startup.
type Orchestrator struct {
	mu      sync.RWMutex
	agents  map[string]Agent
	started time.Time
	running bool
}

// NewOrchestrator creates an Orchestrator with the given agents registered.
func NewOrchestrator(agents ...Agent) *Orchestrator {
	o := &Orchestrator{
		agents:  make(map[string]Agent, len(agents)),
		started: time.Now().UTC(),
	}
	for _, a := range agents {
		o.agents[a.Name()] = a
		slog.Info(fmt.Sprintf("%s - registered agent: %s", orchestratorLogPrefix, a.Name()))
	}
	return o
}

// Get returns the agent registered under name, or nil.
func (o *Orchestrator) Get(name string) Agent {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.agents[name]
}

// AgentNames returns the sorted names of all registered agents.
func (o *Orchestrator) AgentNames() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	names := make([]string, 0, len(o.agents))
	for name := range o.agents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Route dispatches a request to the named agent. An unknown agent name
// yields an error envelope listing the registered agents. A panicking
// handler is recovered into an error envelope naming the agent; handlers
// are stateless so there is nothing to roll back.
func (o *Orchestrator) Route(ctx context.Context, agentName string, req Request) (resp *Response) {
	target := o.Get(agentName)
	if target == nil {
		r := ErrorResponse("", fmt.Sprintf("Agent %s not found", agentName))
		r.AvailableAgents = o.AgentNames()
		return r
	}

	defer func() {
		if rec := recover(); rec != nil {
			slog.Error(fmt.Sprintf("%s - agent %s panicked: %v", orchestratorLogPrefix, agentName, rec))
			resp = ErrorResponse(agentName, fmt.Sprintf("Agent %s failed to process request: %v", agentName, rec))
		}
	}()

	return target.Process(ctx, req)
}

// Start marks the orchestrator as running.
func (o *Orchestrator) Start() {
	o.mu.Lock()
	o.running = true
	o.mu.Unlock()
	slog.Info(fmt.Sprintf("%s - started", orchestratorLogPrefix))
}

// Stop marks the orchestrator as stopped.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	o.running = false
	o.mu.Unlock()
	slog.Info(fmt.Sprintf("%s - stopped", orchestratorLogPrefix))
}

// AgentStatus describes one registered agent in a status report.
type AgentStatus struct {
	Name         string   `json:"name"`
	Capabilities []string `json:"capabilities"`
	Status       string   `json:"status"`
}

// SystemStatus is the orchestrator-wide status report.
type SystemStatus struct {
	OrchestratorStatus string                 `json:"orchestrator_status"`
	TotalAgents        int                    `json:"total_agents"`
	Agents             map[string]AgentStatus `json:"agents"`
	Timestamp          string                 `json:"timestamp"`
}

// Status reports the registered agents and whether the orchestrator runs.
func (o *Orchestrator) Status() *SystemStatus {
	o.mu.RLock()
	defer o.mu.RUnlock()

	state := "inactive"
	if o.running {
		state = "active"
	}
	agents := make(map[string]AgentStatus, len(o.agents))
	for name, a := range o.agents {
		agents[name] = AgentStatus{Name: name, Capabilities: a.Capabilities(), Status: "active"}
	}
	return &SystemStatus{
		OrchestratorStatus: state,
		TotalAgents:        len(o.agents),
		Agents:             agents,
		Timestamp:          time.Now().UTC().Format(time.RFC3339),
	}
}
