package events

import (
	"context"
	"fmt"
	"log/slog"

	nats "github.com/nats-io/nats.go"

	"github.com/globaltrade/platform/pkg/comms"
)

const commsPublisherLogPrefix = "events:comms_publisher"

// CommsPublisherOpts configures CommsPublisher. Nil or zero values use defaults.
type CommsPublisherOpts struct {
	// MessageSubject overrides the global message event subject.
	MessageSubject string
	// ResearchSubject overrides the research completion subject.
	ResearchSubject string
}

// CommsPublisher publishes platform change events to COMMS subjects.
type CommsPublisher struct {
	nc              *nats.Conn
	messageSubject  string
	researchSubject string
}

// NewCommsPublisher creates a new CommsPublisher. Pass nil for opts to use defaults.
func NewCommsPublisher(nc *nats.Conn, opts *CommsPublisherOpts) *CommsPublisher {
	messageSubject := comms.SubjectMessageSent
	researchSubject := comms.SubjectResearchCompleted
	if opts != nil && opts.MessageSubject != "" {
		messageSubject = opts.MessageSubject
	}
	if opts != nil && opts.ResearchSubject != "" {
		researchSubject = opts.ResearchSubject
	}
	return &CommsPublisher{nc: nc, messageSubject: messageSubject, researchSubject: researchSubject}
}

// PublishMessageSent publishes a MessageSentEvent to both the per-conversation
// and global message subjects.
func (p *CommsPublisher) PublishMessageSent(_ context.Context, event *MessageSentEvent) error {
	data, err := comms.EncodePayload(event)
	if err != nil {
		return fmt.Errorf("%s - failed to encode event: %w", commsPublisherLogPrefix, err)
	}

	granularSubject := comms.BuildMessageSubject(event.ConversationID)
	if err := p.nc.Publish(granularSubject, data); err != nil {
		slog.Error(fmt.Sprintf("%s - failed to publish to %s: %v", commsPublisherLogPrefix, granularSubject, err))
		return err
	}

	if err := p.nc.Publish(p.messageSubject, data); err != nil {
		slog.Error(fmt.Sprintf("%s - failed to publish to %s: %v", commsPublisherLogPrefix, p.messageSubject, err))
		return err
	}

	slog.Debug(fmt.Sprintf("%s - Published message event for %s", commsPublisherLogPrefix, event.ConversationID))
	return nil
}

// PublishResearchCompleted publishes a ResearchCompletedEvent.
func (p *CommsPublisher) PublishResearchCompleted(_ context.Context, event *ResearchCompletedEvent) error {
	data, err := comms.EncodePayload(event)
	if err != nil {
		return fmt.Errorf("%s - failed to encode event: %w", commsPublisherLogPrefix, err)
	}

	if err := p.nc.Publish(p.researchSubject, data); err != nil {
		slog.Error(fmt.Sprintf("%s - failed to publish to %s: %v", commsPublisherLogPrefix, p.researchSubject, err))
		return err
	}

	slog.Debug(fmt.Sprintf("%s - Published research event %d", commsPublisherLogPrefix, event.ResearchID))
	return nil
}
