package protocol

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// toolSpec describes how to build one ToolCall variant from raw params.
type toolSpec struct {
	name        ToolName
	description string
	required    []string
	decode      func(params map[string]any) (ToolCall, error)
	schemaOf    func() any
}

var tools = []toolSpec{
	newToolSpec[ReadFileCall](ToolReadFile,
		"Read the full text content of a file.", "path"),
	newToolSpec[WriteFileCall](ToolWriteFile,
		"Create a file or replace its content. The parent directory must already exist.", "path", "content"),
	newToolSpec[ListDirectoryCall](ToolListDirectory,
		"List the entries of a directory, one per line, prefixed with [DIR] or [FILE].", "path"),
	newToolSpec[CreateDirectoryCall](ToolCreateDirectory,
		"Create a directory. Succeeds if it already exists.", "path"),
	newToolSpec[DeleteFileCall](ToolDeleteFile,
		"Delete a file, or a directory with everything inside it.", "path"),
	newToolSpec[FileInfoCall](ToolFileInfo,
		"Get size, modification time and type of a file or directory.", "path"),
}

var toolsByName = func() map[ToolName]toolSpec {
	m := make(map[ToolName]toolSpec, len(tools))
	for _, t := range tools {
		m[t.name] = t
	}
	return m
}()

func newToolSpec[T ToolCall](name ToolName, description string, required ...string) toolSpec {
	return toolSpec{
		name:        name,
		description: description,
		required:    required,
		decode: func(params map[string]any) (ToolCall, error) {
			var call T
			if err := mapstructure.Decode(params, &call); err != nil {
				return nil, err
			}
			return call, nil
		},
		schemaOf: func() any {
			var call T
			return &call
		},
	}
}

// envelope is the JSON shape of a tool call.
type envelope struct {
	Tool   string         `json:"tool"`
	Params map[string]any `json:"params"`
}

var fencePattern = regexp.MustCompile("(?s)^```[A-Za-z0-9_-]*[ \t]*\r?\n(.*?)\r?\n?```$")

// Parse interprets raw as a tool call of the form
// {"tool": <name>, "params": {...}}, optionally wrapped in a Markdown code
// fence. It reports false when raw is anything else: malformed JSON, an
// unknown tool, a missing or non-string parameter. Such text is plain text,
// not an error.
func Parse(raw string) (ToolCall, bool) {
	text := stripFence(strings.TrimSpace(raw))
	if !strings.HasPrefix(text, "{") {
		return nil, false
	}

	var env envelope
	if err := json.Unmarshal([]byte(text), &env); err != nil {
		return nil, false
	}

	spec, ok := toolsByName[ToolName(env.Tool)]
	if !ok {
		return nil, false
	}

	for _, key := range spec.required {
		if v, ok := env.Params[key]; !ok || v == nil {
			return nil, false
		}
	}

	call, err := spec.decode(env.Params)
	if err != nil {
		return nil, false
	}
	return call, true
}

// stripFence removes one surrounding Markdown code fence, if present.
func stripFence(text string) string {
	if m := fencePattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return text
}
