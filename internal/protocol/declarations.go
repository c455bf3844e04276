package protocol

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
)

// Declaration describes one tool for a language model.
type Declaration struct {
	Name        ToolName           `json:"name"`
	Description string             `json:"description"`
	Parameters  *jsonschema.Schema `json:"parameters"`
}

// Declarations returns a description of every tool, in a stable order.
func Declarations() []Declaration {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  true,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}

	decls := make([]Declaration, 0, len(tools))
	for _, t := range tools {
		schema := reflector.Reflect(t.schemaOf())
		schema.Version = ""
		decls = append(decls, Declaration{
			Name:        t.name,
			Description: t.description,
			Parameters:  schema,
		})
	}
	return decls
}

// SystemPrompt appends tool-calling instructions to base.
func SystemPrompt(base string) string {
	var b strings.Builder
	if base != "" {
		b.WriteString(base)
		b.WriteString("\n\n")
	}

	b.WriteString("You can work with files on the user's machine. To use a tool, reply with ONLY a JSON object ")
	b.WriteString(`of the form {"tool": "<name>", "params": {...}} and no other text. `)
	b.WriteString("Paths may be absolute or relative to the server's working directory. ")
	b.WriteString("Otherwise answer in plain prose.\n\nAvailable tools:\n")

	for _, d := range Declarations() {
		params, err := json.Marshal(d.Parameters)
		if err != nil {
			params = []byte("{}")
		}
		fmt.Fprintf(&b, "- %s: %s Parameters: %s\n", d.Name, d.Description, params)
	}

	return b.String()
}
