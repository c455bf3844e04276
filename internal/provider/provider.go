// Package provider defines the language-model completion boundary used by
// chat sessions.
package provider

import "context"

// Role is the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a conversation.
type Message struct {
	Role    Role
	Content string
}

// Completer returns the next assistant message for a conversation.
// Implementations must be safe for concurrent use and must honour ctx
// cancellation. Failures are reported as *ProviderError.
type Completer interface {
	Complete(ctx context.Context, history []Message) (string, error)
}
