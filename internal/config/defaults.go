package config

// Config holds all application configuration values.
// Defaults are set in DefaultConfig() and can be overridden via dotfile.
// NOTE: Values in config files override defaults, including explicit zero values.
// Missing keys are left at their default values.
type Config struct {
	Server   ServerConfig   `json:"server"`
	Sandbox  SandboxConfig  `json:"sandbox"`
	Tools    ToolsConfig    `json:"tools"`
	Provider ProviderConfig `json:"provider"`
	Session  SessionConfig  `json:"session"`
}

type ServerConfig struct {
	Host           string `json:"host"`             // Default: "localhost"
	Port           int    `json:"port"`             // Default: 3000
	ReadLimitBytes int64  `json:"read_limit_bytes"` // Default: 4 * 1024 * 1024 (4MB)
	PingIntervalMs int    `json:"ping_interval_ms"` // Default: 30000
	WriteTimeoutMs int    `json:"write_timeout_ms"` // Default: 10000
}

type SandboxConfig struct {
	// AllowedRoots are the directories every file operation must stay inside.
	AllowedRoots []string `json:"allowed_roots"` // Default: ["."]

	// RespectGitignore hides entries matched by a root's .gitignore from listings.
	RespectGitignore bool `json:"respect_gitignore"` // Default: false
}

type ToolsConfig struct {
	MaxFileSize int64 `json:"max_file_size"` // Default: 20 * 1024 * 1024 (20MB)
}

type ProviderConfig struct {
	Model           string  `json:"model"`             // Default: "gemini-2.5-flash"
	TimeoutSeconds  int     `json:"timeout_seconds"`   // Default: 60
	Temperature     float32 `json:"temperature"`       // Default: 0.7
	MaxOutputTokens int     `json:"max_output_tokens"` // Default: 500
	SystemPrompt    string  `json:"system_prompt"`
}

type SessionConfig struct {
	Greeting   string `json:"greeting"`
	MaxHistory int    `json:"max_history"` // Default: 0 (unbounded)
}

// DefaultSystemPrompt is the assistant persona sent ahead of the tool instructions.
const DefaultSystemPrompt = "You are a helpful AI assistant embedded in a code editor. " +
	"You help with programming, debugging and technical questions."

// DefaultGreeting is sent to every client right after it connects.
const DefaultGreeting = "Hello! I am your AI assistant. How can I help you today?"

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "localhost",
			Port:           3000,
			ReadLimitBytes: 4 * 1024 * 1024,
			PingIntervalMs: 30000,
			WriteTimeoutMs: 10000,
		},
		Sandbox: SandboxConfig{
			AllowedRoots:     []string{"."},
			RespectGitignore: false,
		},
		Tools: ToolsConfig{
			MaxFileSize: 20 * 1024 * 1024,
		},
		Provider: ProviderConfig{
			Model:           "gemini-2.5-flash",
			TimeoutSeconds:  60,
			Temperature:     0.7,
			MaxOutputTokens: 500,
			SystemPrompt:    DefaultSystemPrompt,
		},
		Session: SessionConfig{
			Greeting:   DefaultGreeting,
			MaxHistory: 0,
		},
	}
}
