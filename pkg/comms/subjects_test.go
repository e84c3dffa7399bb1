package comms

import "testing"

func TestBuildMessageSubject(t *testing.T) {
	tests := []struct {
		name           string
		conversationID string
		want           string
	}{
		{"plain id", "conv_3_9", "chat.message.sent.conv_3_9"},
		{"dotted id stays one token", "conv.3.9", "chat.message.sent.conv_3_9"},
		{"empty id", "", "chat.message.sent."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildMessageSubject(tt.conversationID); got != tt.want {
				t.Errorf("comms:subjects_test - BuildMessageSubject(%q) = %q, want %q", tt.conversationID, got, tt.want)
			}
		})
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	type payload struct {
		ConversationID string            `json:"conversation_id"`
		Translations   map[string]string `json:"translations,omitempty"`
	}

	in := payload{ConversationID: "conv_1_2", Translations: map[string]string{"de": "hallo"}}
	data, err := EncodePayload(in)
	if err != nil {
		t.Fatalf("comms:subjects_test - EncodePayload failed: %v", err)
	}

	var out payload
	if err := DecodePayload(data, &out); err != nil {
		t.Fatalf("comms:subjects_test - DecodePayload failed: %v", err)
	}
	if out.ConversationID != in.ConversationID || out.Translations["de"] != "hallo" {
		t.Errorf("comms:subjects_test - round trip = %+v", out)
	}
}

func TestDecodePayload_Invalid(t *testing.T) {
	var out map[string]any
	if err := DecodePayload([]byte("{not json"), &out); err == nil {
		t.Fatal("comms:subjects_test - expected error for malformed payload")
	}
}
