package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlt/internal/cli/config"
	"github.com/leapstack-labs/sqlt/internal/cli/output"
	"github.com/leapstack-labs/sqlt/pkg/dialect"
	"github.com/leapstack-labs/sqlt/pkg/format"
	"github.com/leapstack-labs/sqlt/pkg/sqlt"
)

// ErrReported is returned after a command has already written its
// diagnostics, so the caller should only set the exit status.
var ErrReported = errors.New("one or more inputs failed")

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the loaded configuration.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.GetCurrentConfig()
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
	}
}

// Dialects resolves the source and target dialects.
func (c *CommandContext) Dialects() (src, dst dialect.Dialect, err error) {
	if src, err = c.Cfg.SourceDialect(); err != nil {
		return nil, nil, err
	}
	if dst, err = c.Cfg.TargetDialect(); err != nil {
		return nil, nil, err
	}
	return src, dst, nil
}

// Options returns script processing options from the configuration.
func (c *CommandContext) Options(transpile bool) sqlt.Options {
	return sqlt.Options{
		Options:  format.Options{Pretty: c.Cfg.Pretty, Transpile: transpile},
		MaxDepth: c.Cfg.MaxDepth,
		Comments: c.Cfg.Comments,
	}
}

// source is one named SQL input.
type source struct {
	Name string // file path, or "" for stdin
	Text string
}

func (s source) displayName() string {
	if s.Name == "" {
		return "<stdin>"
	}
	return s.Name
}

// readSources reads each named file. No arguments, or "-", read stdin.
func readSources(in io.Reader, args []string) ([]source, error) {
	if len(args) == 0 {
		args = []string{"-"}
	}
	sources := make([]source, 0, len(args))
	for _, arg := range args {
		if arg == "-" {
			data, err := io.ReadAll(in)
			if err != nil {
				return nil, fmt.Errorf("failed to read stdin: %w", err)
			}
			sources = append(sources, source{Text: string(data)})
			continue
		}
		data, err := os.ReadFile(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", arg, err)
		}
		sources = append(sources, source{Name: arg, Text: string(data)})
	}
	return sources, nil
}
