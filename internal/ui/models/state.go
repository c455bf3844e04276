package models

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
)

// Role identifies who a transcript entry came from.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
	RoleError     Role = "error"
)

// Message is one transcript entry.
type Message struct {
	Role    Role
	Content string
}

// State holds everything the views need to render.
type State struct {
	Width  int
	Height int

	Input    textinput.Model
	Viewport viewport.Model
	Spinner  spinner.Model

	Messages []Message

	// CanSubmit is false while a reply is pending or after the connection drops.
	CanSubmit bool

	StatusPhase   string // "ready", "thinking", "error"
	StatusMessage string
	DotCount      int

	Endpoint  string
	Connected bool
}
