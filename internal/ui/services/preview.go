package services

import (
	"fmt"
	"strings"

	"github.com/Cyclone1070/fschat/internal/protocol"
)

// DescribeInput returns a one-line status description for text the user is
// about to send. Direct tool calls are summarised by tool and target.
func DescribeInput(input string) string {
	call, ok := protocol.Parse(input)
	if !ok {
		return "Waiting for reply"
	}
	return FormatToolDescription(call)
}

// FormatToolDescription generates a user-friendly description of a tool call.
func FormatToolDescription(call protocol.ToolCall) string {
	switch c := call.(type) {
	case protocol.ReadFileCall:
		return fmt.Sprintf("ReadFile %s", c.Path)
	case protocol.WriteFileCall:
		return fmt.Sprintf("WriteFile %s (%s)", c.Path, formatSize(len(c.Content)))
	case protocol.ListDirectoryCall:
		return fmt.Sprintf("ListDirectory %s", c.Path)
	case protocol.CreateDirectoryCall:
		return fmt.Sprintf("CreateDirectory %s", c.Path)
	case protocol.DeleteFileCall:
		return fmt.Sprintf("DeleteFile %s", c.Path)
	case protocol.FileInfoCall:
		return fmt.Sprintf("FileInfo %s", c.Path)
	}
	return string(call.Name())
}

// RenderToolOutput renders tool output for the transcript. Directory listings
// become a bullet list; anything else is fenced so markdown leaves it alone.
func RenderToolOutput(output string) string {
	if output == "" {
		return "_(empty)_"
	}
	if isListing(output) {
		var sb strings.Builder
		for _, line := range strings.Split(output, "\n") {
			name, isDir := strings.CutPrefix(line, "[DIR] ")
			if isDir {
				sb.WriteString("- 📁 " + name + "/\n")
				continue
			}
			sb.WriteString("- " + strings.TrimPrefix(line, "[FILE] ") + "\n")
		}
		return sb.String()
	}
	return "```\n" + strings.TrimRight(output, "\n") + "\n```"
}

func isListing(output string) bool {
	for _, line := range strings.Split(output, "\n") {
		if !strings.HasPrefix(line, "[DIR] ") && !strings.HasPrefix(line, "[FILE] ") {
			return false
		}
	}
	return true
}

func formatSize(n int) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	}
}
