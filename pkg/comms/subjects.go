package comms

import (
	"fmt"
	"strings"
)

// Default COMMS subjects.
const (
	SubjectMessageSent       = "chat.message.sent"
	SubjectResearchCompleted = "agent.research.completed"
)

// BuildMessageSubject builds a granular subject for one conversation's
// message events. Dots in the conversation ID are replaced so the ID stays
// a single subject token.
func BuildMessageSubject(conversationID string) string {
	safe := strings.ReplaceAll(conversationID, ".", "_")
	return fmt.Sprintf("%s.%s", SubjectMessageSent, safe)
}
