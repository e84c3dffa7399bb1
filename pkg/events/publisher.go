package events

import "context"

// EventPublisher is the interface for publishing platform change events.
type EventPublisher interface {
	PublishMessageSent(ctx context.Context, event *MessageSentEvent) error
	PublishResearchCompleted(ctx context.Context, event *ResearchCompletedEvent) error
}

// NoOpPublisher is an EventPublisher that does nothing (for in-process usage without events).
type NoOpPublisher struct{}

// PublishMessageSent is a no-op.
func (p *NoOpPublisher) PublishMessageSent(_ context.Context, _ *MessageSentEvent) error {
	return nil
}

// PublishResearchCompleted is a no-op.
func (p *NoOpPublisher) PublishResearchCompleted(_ context.Context, _ *ResearchCompletedEvent) error {
	return nil
}

// CallbackPublisher is an EventPublisher that calls callback functions (for testing).
type CallbackPublisher struct {
	onMessage  func(ctx context.Context, event *MessageSentEvent) error
	onResearch func(ctx context.Context, event *ResearchCompletedEvent) error
}

// NewCallbackPublisher creates a new CallbackPublisher. Nil callbacks are no-ops.
func NewCallbackPublisher(
	onMessage func(ctx context.Context, event *MessageSentEvent) error,
	onResearch func(ctx context.Context, event *ResearchCompletedEvent) error,
) *CallbackPublisher {
	return &CallbackPublisher{onMessage: onMessage, onResearch: onResearch}
}

// PublishMessageSent calls the message callback.
func (p *CallbackPublisher) PublishMessageSent(ctx context.Context, event *MessageSentEvent) error {
	if p.onMessage == nil {
		return nil
	}
	return p.onMessage(ctx, event)
}

// PublishResearchCompleted calls the research callback.
func (p *CallbackPublisher) PublishResearchCompleted(ctx context.Context, event *ResearchCompletedEvent) error {
	if p.onResearch == nil {
		return nil
	}
	return p.onResearch(ctx, event)
}
