// Package config provides configuration management for the sqlbridge CLI.
package config

import "time"

// EngineConfig locates the external SQLGlot engine.
type EngineConfig struct {
	// Python is the interpreter used to run the engine script.
	Python string `koanf:"python"`
	// Script is the path to the engine script. Relative paths are resolved
	// against the config file's directory.
	Script string `koanf:"script"`
	// Timeout bounds a single engine invocation. Zero means wait forever.
	Timeout time.Duration `koanf:"timeout"`
}

// DialectDefaults are applied when a command omits the corresponding flag.
type DialectDefaults struct {
	Read     string `koanf:"read"`
	Write    string `koanf:"write"`
	Identify bool   `koanf:"identify"`
}

// Config holds all CLI configuration options.
type Config struct {
	Engine       EngineConfig    `koanf:"engine"`
	Defaults     DialectDefaults `koanf:"defaults"`
	OutputFormat string          `koanf:"output"`
	Verbose      bool            `koanf:"verbose"`
}

// Default configuration values.
const (
	DefaultPython = "python3"
	DefaultOutput = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)
