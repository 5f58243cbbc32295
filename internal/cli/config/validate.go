package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/sqlt/pkg/adapter"
	"github.com/leapstack-labs/sqlt/pkg/dialect"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !slices.Contains(OutputFormats, strings.ToLower(c.OutputFormat)) {
		return fmt.Errorf("invalid output format %q (want one of %s)", c.OutputFormat, strings.Join(OutputFormats, ", "))
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative, got %d", c.MaxDepth)
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative, got %d", c.Jobs)
	}
	if c.Dialect != "" {
		if _, err := dialect.Lookup(c.Dialect); err != nil {
			return fmt.Errorf("dialect: %w", err)
		}
	}
	if c.Target != "" {
		if _, err := dialect.Lookup(c.Target); err != nil {
			return fmt.Errorf("target: %w", err)
		}
	}
	return nil
}

// ValidateEngine checks that the configured verification engine is registered.
func (c *Config) ValidateEngine() error {
	if c.Engine.Type == "" {
		return fmt.Errorf("engine type is required")
	}
	if !adapter.IsRegistered(c.Engine.Type) {
		return &adapter.UnknownAdapterError{Type: c.Engine.Type, Available: adapter.ListAdapters()}
	}
	return nil
}

// SourceDialect returns the dialect input is parsed in, with the
// configured overrides applied.
func (c *Config) SourceDialect() (dialect.Dialect, error) {
	return c.Resolve(c.Dialect)
}

// TargetDialect returns the dialect output is rendered in. It defaults to
// the source dialect.
func (c *Config) TargetDialect() (dialect.Dialect, error) {
	if c.Target == "" {
		return c.SourceDialect()
	}
	return c.Resolve(c.Target)
}

// Resolve looks up a dialect by name and applies the configured keyword
// case and extra reserved words.
func (c *Config) Resolve(name string) (dialect.Dialect, error) {
	d, err := dialect.Lookup(name)
	if err != nil {
		return nil, err
	}
	if c.KeywordCase == nil && len(c.ExtraReserved) == 0 {
		return d, nil
	}
	p, ok := d.(*dialect.Profile)
	if !ok {
		return d, nil
	}
	b := dialect.Derive(p, p.Name())
	if c.KeywordCase != nil {
		b.KeywordCase(*c.KeywordCase)
	}
	if len(c.ExtraReserved) > 0 {
		b.Reserved(c.ExtraReserved...)
	}
	return b.Build(), nil
}
