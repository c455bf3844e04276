package services

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer renders markdown for a terminal of the given width.
type MarkdownRenderer interface {
	Render(content string, width int) (string, error)
}

// GlamourRenderer renders markdown with glamour. Term renderers are cached
// per wrap width since building one loads a style sheet.
type GlamourRenderer struct {
	mu        sync.Mutex
	renderers map[int]*glamour.TermRenderer
}

// NewGlamourRenderer creates a GlamourRenderer.
func NewGlamourRenderer() *GlamourRenderer {
	return &GlamourRenderer{renderers: make(map[int]*glamour.TermRenderer)}
}

// Render renders content wrapped at width.
func (g *GlamourRenderer) Render(content string, width int) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	r, ok := g.renderers[width]
	if !ok {
		var err error
		r, err = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return "", err
		}
		g.renderers[width] = r
	}
	return r.Render(content)
}

// RenderMarkdown renders content and trims the padding glamour adds.
func RenderMarkdown(content string, width int, renderer MarkdownRenderer) (string, error) {
	if width < 20 {
		width = 20
	}
	out, err := renderer.Render(content, width)
	if err != nil {
		return "", err
	}
	return strings.Trim(out, "\n"), nil
}
