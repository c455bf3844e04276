package protocol

import (
	"encoding/json"
	"fmt"
)

// MessageType is the "type" field of a wire message.
type MessageType string

const (
	TypeUserMessage MessageType = "user-message"
	TypeAIMessage   MessageType = "ai-message"
	TypeToolOutput  MessageType = "tool_output"
	TypeError       MessageType = "error"
)

// Message is one JSON frame exchanged with a client.
type Message struct {
	Type    MessageType `json:"type"`
	Content string      `json:"content"`
}

// inbound mirrors Message with optional fields so a missing key can be told
// apart from an empty one.
type inbound struct {
	Type    *MessageType `json:"type"`
	Content *string      `json:"content"`
}

// DecodeInbound parses a client frame. Anything other than a well-formed
// user-message yields an error wrapping ErrMalformedMessage.
func DecodeInbound(data []byte) (Message, error) {
	var in inbound
	if err := json.Unmarshal(data, &in); err != nil {
		return Message{}, &MalformedMessageError{Cause: err}
	}
	if in.Type == nil || *in.Type != TypeUserMessage {
		return Message{}, &MalformedMessageError{Cause: fmt.Errorf("unexpected message type")}
	}
	if in.Content == nil {
		return Message{}, &MalformedMessageError{Cause: fmt.Errorf("missing content")}
	}
	return Message{Type: TypeUserMessage, Content: *in.Content}, nil
}

// Encode returns the JSON form of m.
func (m Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// UserMessage wraps content as a user-message.
func UserMessage(content string) Message {
	return Message{Type: TypeUserMessage, Content: content}
}

// AIMessage wraps a conversational reply.
func AIMessage(content string) Message {
	return Message{Type: TypeAIMessage, Content: content}
}

// ToolOutput wraps the successful result of a tool call.
func ToolOutput(content string) Message {
	return Message{Type: TypeToolOutput, Content: content}
}

// Error wraps a failure description.
func Error(content string) Message {
	return Message{Type: TypeError, Content: content}
}
