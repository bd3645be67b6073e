package chat

import "time"

// Role tags who authored a conversation entry.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// typingID marks the single mutable in-progress entry while an answer is
// being revealed. Every other entry's ID is permanent.
const typingID = "typing"

// Entry is one conversation message. Append-only once it carries a permanent
// ID; only the in-progress entry is mutated, and only by the presentation
// driver.
type Entry struct {
	ID        string    `json:"id"`
	Role      Role      `json:"type"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// InProgress reports whether this entry is still being typed out.
func (e Entry) InProgress() bool { return e.ID == typingID }

// WelcomeMessage opens every conversation.
const WelcomeMessage = "Hello! Upload a PDF document, and I can answer questions about its content."
