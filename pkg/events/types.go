// Package events defines event types and publisher interfaces for platform
// change events.
package events

// MessageSentEvent is emitted when a chat message is persisted.
type MessageSentEvent struct {
	ConversationID string            `json:"conversation_id"`
	MessageID      int64             `json:"message_id"`
	SenderID       int64             `json:"sender_id"`
	ReceiverID     int64             `json:"receiver_id"`
	MessageType    string            `json:"message_type"`
	Content        string            `json:"content"`
	Translations   map[string]string `json:"translations,omitempty"`
	Timestamp      string            `json:"timestamp"`
}

// ResearchCompletedEvent is emitted when a comprehensive market research
// request finishes, including degraded completions.
type ResearchCompletedEvent struct {
	ResearchID    int64    `json:"research_id"`
	UserID        int64    `json:"user_id"`
	ProductName   string   `json:"product_name"`
	TargetCountry string   `json:"target_country"`
	Status        string   `json:"status"`
	Errors        []string `json:"errors,omitempty"`
	Timestamp     string   `json:"timestamp"`
}
