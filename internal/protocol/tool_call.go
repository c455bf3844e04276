// Package protocol defines the chat wire messages and the JSON tool-call
// format shared by clients and the language model.
package protocol

// ToolName identifies a file tool.
type ToolName string

const (
	ToolReadFile        ToolName = "read_file"
	ToolWriteFile       ToolName = "write_file"
	ToolListDirectory   ToolName = "list_directory"
	ToolCreateDirectory ToolName = "create_directory"
	ToolDeleteFile      ToolName = "delete_file"
	ToolFileInfo        ToolName = "get_file_info"
)

// ToolCall is a parsed, well-formed request for one file tool. The set of
// implementations is closed; handle them with a Visitor.
type ToolCall interface {
	Name() ToolName
	// Target is the path argument as supplied.
	Target() string
	Accept(v Visitor)
	isToolCall()
}

// Visitor has one method per ToolCall variant.
type Visitor interface {
	VisitReadFile(ReadFileCall)
	VisitWriteFile(WriteFileCall)
	VisitListDirectory(ListDirectoryCall)
	VisitCreateDirectory(CreateDirectoryCall)
	VisitDeleteFile(DeleteFileCall)
	VisitFileInfo(FileInfoCall)
}

// -- Read File --

type ReadFileCall struct {
	Path string `mapstructure:"path" json:"path" jsonschema:"required,description=Path of the file to read"`
}

func (c ReadFileCall) Name() ToolName   { return ToolReadFile }
func (c ReadFileCall) Target() string   { return c.Path }
func (c ReadFileCall) Accept(v Visitor) { v.VisitReadFile(c) }
func (ReadFileCall) isToolCall()        {}

// -- Write File --

type WriteFileCall struct {
	Path    string `mapstructure:"path" json:"path" jsonschema:"required,description=Path of the file to create or overwrite"`
	Content string `mapstructure:"content" json:"content" jsonschema:"required,description=Full new content of the file"`
}

func (c WriteFileCall) Name() ToolName   { return ToolWriteFile }
func (c WriteFileCall) Target() string   { return c.Path }
func (c WriteFileCall) Accept(v Visitor) { v.VisitWriteFile(c) }
func (WriteFileCall) isToolCall()        {}

// -- List Directory --

type ListDirectoryCall struct {
	Path string `mapstructure:"path" json:"path" jsonschema:"required,description=Path of the directory to list"`
}

func (c ListDirectoryCall) Name() ToolName   { return ToolListDirectory }
func (c ListDirectoryCall) Target() string   { return c.Path }
func (c ListDirectoryCall) Accept(v Visitor) { v.VisitListDirectory(c) }
func (ListDirectoryCall) isToolCall()        {}

// -- Create Directory --

type CreateDirectoryCall struct {
	Path string `mapstructure:"path" json:"path" jsonschema:"required,description=Path of the directory to create; missing parents are created too"`
}

func (c CreateDirectoryCall) Name() ToolName   { return ToolCreateDirectory }
func (c CreateDirectoryCall) Target() string   { return c.Path }
func (c CreateDirectoryCall) Accept(v Visitor) { v.VisitCreateDirectory(c) }
func (CreateDirectoryCall) isToolCall()        {}

// -- Delete File --

type DeleteFileCall struct {
	Path string `mapstructure:"path" json:"path" jsonschema:"required,description=Path of the file or directory to delete recursively"`
}

func (c DeleteFileCall) Name() ToolName   { return ToolDeleteFile }
func (c DeleteFileCall) Target() string   { return c.Path }
func (c DeleteFileCall) Accept(v Visitor) { v.VisitDeleteFile(c) }
func (DeleteFileCall) isToolCall()        {}

// -- File Info --

type FileInfoCall struct {
	Path string `mapstructure:"path" json:"path" jsonschema:"required,description=Path of the file or directory to describe"`
}

func (c FileInfoCall) Name() ToolName   { return ToolFileInfo }
func (c FileInfoCall) Target() string   { return c.Path }
func (c FileInfoCall) Accept(v Visitor) { v.VisitFileInfo(c) }
func (FileInfoCall) isToolCall()        {}
