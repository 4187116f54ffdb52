package config

import "fmt"

// validOutputFormats are the accepted values for the output setting.
var validOutputFormats = map[string]bool{
	"auto":     true,
	"text":     true,
	"markdown": true,
	"json":     true,
}

// Validate checks if the configuration is valid. The engine script is
// deliberately not required here: doctor must run against a missing engine
// and report it instead of failing config load.
func (c *Config) Validate() error {
	if c.Engine.Python == "" {
		return fmt.Errorf("engine.python must not be empty")
	}
	if c.Engine.Timeout < 0 {
		return fmt.Errorf("engine.timeout must not be negative, got %s", c.Engine.Timeout)
	}
	if c.OutputFormat != "" && !validOutputFormats[c.OutputFormat] {
		return fmt.Errorf("invalid output format %q (want auto, text, markdown, or json)", c.OutputFormat)
	}
	return nil
}
