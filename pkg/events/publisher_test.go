package events

import (
	"context"
	"errors"
	"testing"
)

func TestNoOpPublisher(t *testing.T) {
	pub := &NoOpPublisher{}
	if err := pub.PublishMessageSent(context.Background(), &MessageSentEvent{
		ConversationID: "conv_1_2",
		MessageID:      1,
	}); err != nil {
		t.Errorf("events:publisher_test - expected no error, got %v", err)
	}
	if err := pub.PublishResearchCompleted(context.Background(), &ResearchCompletedEvent{
		ResearchID: 1,
	}); err != nil {
		t.Errorf("events:publisher_test - expected no error, got %v", err)
	}
}

func TestCallbackPublisher_MessageSent(t *testing.T) {
	var captured *MessageSentEvent

	pub := NewCallbackPublisher(func(_ context.Context, event *MessageSentEvent) error {
		captured = event
		return nil
	}, nil)

	event := &MessageSentEvent{
		ConversationID: "conv_3_9",
		MessageID:      42,
		SenderID:       3,
		ReceiverID:     9,
		MessageType:    "text",
		Content:        "hello",
		Translations:   map[string]string{"de": "hallo"},
		Timestamp:      "2025-01-01T00:00:00Z",
	}

	if err := pub.PublishMessageSent(context.Background(), event); err != nil {
		t.Errorf("events:publisher_test - expected no error, got %v", err)
	}
	if captured == nil {
		t.Fatal("events:publisher_test - expected message callback to be called")
	}
	if captured.ConversationID != "conv_3_9" {
		t.Errorf("events:publisher_test - ConversationID = %q", captured.ConversationID)
	}
	if captured.MessageID != 42 {
		t.Errorf("events:publisher_test - MessageID = %d, want 42", captured.MessageID)
	}
	if captured.Translations["de"] != "hallo" {
		t.Errorf("events:publisher_test - Translations = %v", captured.Translations)
	}
}

func TestCallbackPublisher_ResearchCompleted(t *testing.T) {
	var captured *ResearchCompletedEvent

	pub := NewCallbackPublisher(nil, func(_ context.Context, event *ResearchCompletedEvent) error {
		captured = event
		return nil
	})

	event := &ResearchCompletedEvent{
		ResearchID:    7,
		UserID:        3,
		ProductName:   "Coffee",
		TargetCountry: "Germany",
		Status:        "completed_with_errors",
		Errors:        []string{"Trend analysis failed"},
		Timestamp:     "2025-01-01T00:00:00Z",
	}

	if err := pub.PublishResearchCompleted(context.Background(), event); err != nil {
		t.Errorf("events:publisher_test - expected no error, got %v", err)
	}
	if captured == nil {
		t.Fatal("events:publisher_test - expected research callback to be called")
	}
	if captured.Status != "completed_with_errors" {
		t.Errorf("events:publisher_test - Status = %q", captured.Status)
	}
	if len(captured.Errors) != 1 || captured.Errors[0] != "Trend analysis failed" {
		t.Errorf("events:publisher_test - Errors = %v", captured.Errors)
	}
}

func TestCallbackPublisher_NilCallbacks(t *testing.T) {
	pub := NewCallbackPublisher(nil, nil)
	if err := pub.PublishMessageSent(context.Background(), &MessageSentEvent{}); err != nil {
		t.Errorf("events:publisher_test - nil message callback should be a no-op, got %v", err)
	}
	if err := pub.PublishResearchCompleted(context.Background(), &ResearchCompletedEvent{}); err != nil {
		t.Errorf("events:publisher_test - nil research callback should be a no-op, got %v", err)
	}
}

func TestCallbackPublisher_PropagatesError(t *testing.T) {
	wantErr := errors.New("downstream unavailable")
	pub := NewCallbackPublisher(func(_ context.Context, _ *MessageSentEvent) error {
		return wantErr
	}, nil)

	if err := pub.PublishMessageSent(context.Background(), &MessageSentEvent{}); !errors.Is(err, wantErr) {
		t.Errorf("events:publisher_test - err = %v, want %v", err, wantErr)
	}
}
