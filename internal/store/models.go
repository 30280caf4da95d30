package store

import "time"

// Roles a turn can carry. The set is closed: the schema enforces it with a
// CHECK constraint and AppendTurn rejects anything else.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ValidRole reports whether role belongs to the closed role set.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAssistant
}

// Turn is one recorded utterance. Turns are immutable once written; the id
// and timestamp are assigned by the store on insert.
type Turn struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
