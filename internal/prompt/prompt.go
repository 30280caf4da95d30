package prompt

// Roles as the assembler and completion client exchange them. History turns
// reuse the store's user/assistant values; the system role only ever appears
// at the head of an assembled prompt.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry of an assembled prompt.
type Message struct {
	Role    string
	Content string
}

// Assemble builds the completion request sequence: the system instruction
// first, the history in chronological order, the new user message last.
// History entries are copied into place, never mutated.
func Assemble(system string, history []Message, userMessage string) []Message {
	messages := make([]Message, 0, 1+len(history)+1)
	messages = append(messages, Message{Role: RoleSystem, Content: system})
	messages = append(messages, history...)
	messages = append(messages, Message{Role: RoleUser, Content: userMessage})
	return messages
}
