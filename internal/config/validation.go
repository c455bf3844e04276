package config

import (
	"fmt"
	"strings"
)

// Validate checks config values for correctness.
// Returns an error listing every invalid value.
func (c *Config) Validate() error {
	var errs []string

	// Server
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, "server.port must be between 0 and 65535")
	}
	if c.Server.ReadLimitBytes < 1 {
		errs = append(errs, "server.read_limit_bytes must be >= 1")
	}
	if c.Server.PingIntervalMs < 1 {
		errs = append(errs, "server.ping_interval_ms must be >= 1")
	}
	if c.Server.WriteTimeoutMs < 1 {
		errs = append(errs, "server.write_timeout_ms must be >= 1")
	}

	// Sandbox
	if len(c.Sandbox.AllowedRoots) == 0 {
		errs = append(errs, "sandbox.allowed_roots must not be empty")
	}
	for i, root := range c.Sandbox.AllowedRoots {
		if strings.TrimSpace(root) == "" {
			errs = append(errs, fmt.Sprintf("sandbox.allowed_roots[%d] must not be blank", i))
		}
	}

	// Tools
	if c.Tools.MaxFileSize < 1 {
		errs = append(errs, "tools.max_file_size must be >= 1")
	}

	// Provider
	if c.Provider.Model == "" {
		errs = append(errs, "provider.model must not be empty")
	}
	if c.Provider.TimeoutSeconds < 1 {
		errs = append(errs, "provider.timeout_seconds must be >= 1")
	}
	if c.Provider.Temperature < 0 || c.Provider.Temperature > 2 {
		errs = append(errs, "provider.temperature must be between 0 and 2")
	}
	if c.Provider.MaxOutputTokens < 1 {
		errs = append(errs, "provider.max_output_tokens must be >= 1")
	}

	// Session
	if c.Session.MaxHistory < 0 {
		errs = append(errs, "session.max_history must be >= 0")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %v", errs)
	}

	return nil
}
