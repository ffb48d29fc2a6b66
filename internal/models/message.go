package models

// Sender identifies who a conversation entry belongs to
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
	// SenderPending marks the placeholder standing in for a reply not yet received
	SenderPending Sender = "pending"
)

// IsValid reports whether s is one of the known senders
func (s Sender) IsValid() bool {
	switch s {
	case SenderUser, SenderAssistant, SenderPending:
		return true
	}
	return false
}

// Message represents a single conversation entry
type Message struct {
	Sender Sender
	Text   string
	// TurnID ties a user message, its placeholder and its reply together
	TurnID string
}

// IsPending reports whether the message is the in-flight placeholder
func (m Message) IsPending() bool {
	return m.Sender == SenderPending
}

// UserMessage builds a committed user message
func UserMessage(turnID, text string) Message {
	return Message{Sender: SenderUser, Text: text, TurnID: turnID}
}

// AssistantMessage builds a committed assistant message
func AssistantMessage(text string) Message {
	return Message{Sender: SenderAssistant, Text: text}
}

// PendingMessage builds the placeholder for turnID
func PendingMessage(turnID string) Message {
	return Message{Sender: SenderPending, Text: LoadingText, TurnID: turnID}
}
