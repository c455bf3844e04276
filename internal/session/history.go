package session

import "github.com/Cyclone1070/fschat/internal/provider"

// History is the conversation of one session. It is owned by the session
// loop and is not safe for concurrent use.
type History struct {
	messages []provider.Message
	max      int
}

// NewHistory creates an empty history. A positive max keeps only the most
// recent max messages; zero keeps everything.
func NewHistory(max int) *History {
	return &History{max: max}
}

// Append adds a message, dropping the oldest ones beyond the cap.
func (h *History) Append(role provider.Role, content string) {
	h.messages = append(h.messages, provider.Message{Role: role, Content: content})
	if h.max > 0 && len(h.messages) > h.max {
		drop := len(h.messages) - h.max
		h.messages = append(h.messages[:0:0], h.messages[drop:]...)
	}
}

// Messages returns a copy of the conversation, oldest first.
func (h *History) Messages() []provider.Message {
	out := make([]provider.Message, len(h.messages))
	copy(out, h.messages)
	return out
}

// Len returns the number of messages held.
func (h *History) Len() int { return len(h.messages) }

// Reset discards the conversation.
func (h *History) Reset() { h.messages = nil }
