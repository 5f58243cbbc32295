// Package config provides configuration management for the sqlt CLI.
//
// Values are layered from lowest to highest precedence: built-in
// defaults, a sqlt.yaml file, SQLT_ environment variables and explicitly
// set command-line flags.
package config

import (
	"runtime"

	"github.com/leapstack-labs/sqlt/pkg/dialect"
	"github.com/leapstack-labs/sqlt/pkg/parser"
)

// Config holds all CLI configuration options.
type Config struct {
	Dialect       string               `koanf:"dialect"`
	Target        string               `koanf:"target"`
	OutputFormat  string               `koanf:"output"`
	Verbose       bool                 `koanf:"verbose"`
	Pretty        bool                 `koanf:"pretty"`
	Comments      bool                 `koanf:"comments"`
	KeywordCase   *dialect.KeywordCase `koanf:"keyword_case"` // nil keeps the dialect's casing
	ExtraReserved []string             `koanf:"extra_reserved"`
	MaxDepth      int                  `koanf:"max_depth"`
	Jobs          int                  `koanf:"jobs"`
	Engine        EngineConfig         `koanf:"engine"`
	Serve         ServeConfig          `koanf:"serve"`
}

// EngineConfig selects the database used by the verify command.
type EngineConfig struct {
	Type  string `koanf:"type"`  // adapter name: sqlite or postgres
	DSN   string `koanf:"dsn"`   // connection string; sqlite defaults to :memory:
	Setup string `koanf:"setup"` // SQL file run before verification, e.g. schema DDL
}

// ServeConfig holds options for the HTTP server.
type ServeConfig struct {
	Addr string `koanf:"addr"`
}

// Default configuration values.
const (
	DefaultDialect   = "ansi"
	DefaultOutput    = "auto" // Auto-detect: TTY=text, non-TTY=text without styling
	DefaultEngine    = "sqlite"
	DefaultServeAddr = ":8787"
)

// Output formats accepted by --output.
var OutputFormats = []string{"auto", "text", "json", "yaml"}

// Default returns the configuration used when nothing is loaded.
func Default() *Config {
	return &Config{
		Dialect:      DefaultDialect,
		OutputFormat: DefaultOutput,
		Comments:     true,
		MaxDepth:     parser.DefaultMaxDepth,
		Jobs:         runtime.NumCPU(),
		Engine:       EngineConfig{Type: DefaultEngine},
		Serve:        ServeConfig{Addr: DefaultServeAddr},
	}
}

func defaults() map[string]interface{} {
	d := Default()
	return map[string]interface{}{
		"dialect":     d.Dialect,
		"output":      d.OutputFormat,
		"verbose":     false,
		"pretty":      false,
		"comments":    d.Comments,
		"max_depth":   d.MaxDepth,
		"jobs":        d.Jobs,
		"engine.type": d.Engine.Type,
		"serve.addr":  d.Serve.Addr,
	}
}
