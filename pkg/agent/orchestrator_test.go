package agent

import (
	"context"
	"reflect"
	"testing"
)

type fakeAgent struct {
	name    string
	caps    []string
	process func(ctx context.Context, req Request) *Response
}

func (a *fakeAgent) Name() string           { return a.name }
func (a *fakeAgent) Capabilities() []string { return a.caps }
func (a *fakeAgent) Process(ctx context.Context, req Request) *Response {
	return a.process(ctx, req)
}

func TestRoute_KnownAgent(t *testing.T) {
	o := NewOrchestrator(&fakeAgent{
		name: "EchoAgent",
		caps: []string{"echo"},
		process: func(_ context.Context, req Request) *Response {
			return SuccessResponse("EchoAgent", map[string]any{"echo": req.String("text")})
		},
	})

	resp := o.Route(context.Background(), "EchoAgent", Request{"type": "echo", "text": "hi"})
	if !resp.Success {
		t.Fatalf("agent:orchestrator_test - unexpected error: %s", resp.Error)
	}
	if resp.Data["echo"] != "hi" {
		t.Errorf("agent:orchestrator_test - Data = %v", resp.Data)
	}
}

func TestRoute_UnknownAgent(t *testing.T) {
	o := NewOrchestrator(
		&fakeAgent{name: "BetaAgent", process: func(context.Context, Request) *Response { return nil }},
		&fakeAgent{name: "AlphaAgent", process: func(context.Context, Request) *Response { return nil }},
	)

	resp := o.Route(context.Background(), "GammaAgent", Request{"type": "anything"})
	if resp.Success {
		t.Fatal("agent:orchestrator_test - expected error envelope")
	}
	if resp.Error != "Agent GammaAgent not found" {
		t.Errorf("agent:orchestrator_test - Error = %q", resp.Error)
	}
	want := []string{"AlphaAgent", "BetaAgent"}
	if !reflect.DeepEqual(resp.AvailableAgents, want) {
		t.Errorf("agent:orchestrator_test - AvailableAgents = %v, want %v", resp.AvailableAgents, want)
	}
}

func TestRoute_PanicRecovered(t *testing.T) {
	o := NewOrchestrator(&fakeAgent{
		name: "PanicAgent",
		process: func(context.Context, Request) *Response {
			panic("boom")
		},
	})

	resp := o.Route(context.Background(), "PanicAgent", Request{"type": "anything"})
	if resp.Success {
		t.Fatal("agent:orchestrator_test - expected error envelope after panic")
	}
	if resp.Error != "Agent PanicAgent failed to process request: boom" {
		t.Errorf("agent:orchestrator_test - Error = %q", resp.Error)
	}
	if resp.Agent != "PanicAgent" {
		t.Errorf("agent:orchestrator_test - Agent = %q", resp.Agent)
	}
}

func TestStatus(t *testing.T) {
	o := NewOrchestrator(&fakeAgent{
		name:    "EchoAgent",
		caps:    []string{"echo", "reverse"},
		process: func(context.Context, Request) *Response { return nil },
	})

	status := o.Status()
	if status.OrchestratorStatus != "inactive" {
		t.Errorf("agent:orchestrator_test - OrchestratorStatus = %q before Start", status.OrchestratorStatus)
	}

	o.Start()
	status = o.Status()
	if status.OrchestratorStatus != "active" {
		t.Errorf("agent:orchestrator_test - OrchestratorStatus = %q after Start", status.OrchestratorStatus)
	}
	if status.TotalAgents != 1 {
		t.Errorf("agent:orchestrator_test - TotalAgents = %d, want 1", status.TotalAgents)
	}
	entry, ok := status.Agents["EchoAgent"]
	if !ok {
		t.Fatal("agent:orchestrator_test - missing EchoAgent in status")
	}
	if !reflect.DeepEqual(entry.Capabilities, []string{"echo", "reverse"}) {
		t.Errorf("agent:orchestrator_test - Capabilities = %v", entry.Capabilities)
	}

	o.Stop()
	if got := o.Status().OrchestratorStatus; got != "inactive" {
		t.Errorf("agent:orchestrator_test - OrchestratorStatus = %q after Stop", got)
	}
}

func TestDecodeObject(t *testing.T) {
	obj, ok := DecodeObject("TestAgent", `{"score": 85, "nested": {"k": "v"}}`)
	if !ok {
		t.Fatal("agent:parse_test - expected parse success")
	}
	if obj["score"] != float64(85) {
		t.Errorf("agent:parse_test - score = %v", obj["score"])
	}

	if _, ok := DecodeObject("TestAgent", "not json at all"); ok {
		t.Error("agent:parse_test - expected parse failure for free text")
	}
}

func TestDecodeList(t *testing.T) {
	list, ok := DecodeList("TestAgent", `[{"name":"a"},{"name":"b"}]`)
	if !ok {
		t.Fatal("agent:parse_test - expected parse success")
	}
	if len(list) != 2 {
		t.Errorf("agent:parse_test - len = %d, want 2", len(list))
	}

	if _, ok := DecodeList("TestAgent", `{"name":"a"}`); ok {
		t.Error("agent:parse_test - expected parse failure for object input")
	}
}
