package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlt/pkg/dialect"
	"github.com/leapstack-labs/sqlt/pkg/sqlt"
)

// FmtOptions holds options for the fmt command.
type FmtOptions struct {
	Write bool // rewrite files in place
	Check bool // fail if any file is not formatted
	Watch bool // reformat files when they change
}

// NewFmtCommand creates the fmt command.
func NewFmtCommand() *cobra.Command {
	opts := &FmtOptions{}
	cmd := &cobra.Command{
		Use:   "fmt [files...]",
		Short: "Reformat SQL in its own dialect",
		Long: `Parse SQL and print it back in canonical form for the source dialect.

Keywords are upper-cased (or lower-cased with --keyword-case lower),
identifiers are quoted only when needed and redundant parentheses are
removed. With --pretty each clause starts on its own line and comments
are kept.`,
		Example: `  # Format a file to stdout
  sqlt fmt -d postgres query.sql

  # Rewrite files in place, four at a time
  sqlt fmt -d mysql --pretty --write --jobs 4 models/*.sql

  # Fail in CI when a file is not formatted
  sqlt fmt --check queries/*.sql

  # Keep files formatted while editing
  sqlt fmt --pretty --write --watch query.sql`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Write, "write", "w", false, "Write result to the source file instead of stdout")
	cmd.Flags().BoolVar(&opts.Check, "check", false, "Report files whose formatting would change and exit non-zero")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Reformat files whenever they change (requires files)")

	return cmd
}

func runFmt(cmd *cobra.Command, args []string, opts *FmtOptions) error {
	c := NewCommandContext(cmd)
	d, err := c.Cfg.SourceDialect()
	if err != nil {
		return err
	}
	if (opts.Write || opts.Watch) && (len(args) == 0 || containsStdin(args)) {
		return fmt.Errorf("--write and --watch need file arguments")
	}

	if err := c.formatFiles(cmd, args, d, opts); err != nil && !opts.Watch {
		return err
	}
	if !opts.Watch {
		return nil
	}
	return c.watch(cmd.Context(), args, func() {
		_ = c.formatFiles(cmd, args, d, opts)
	})
}

func (c *CommandContext) formatFiles(cmd *cobra.Command, args []string, d dialect.Dialect, opts *FmtOptions) error {
	sources, err := readSources(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	procOpts := c.Options(false)
	results, err := runBatch(cmd.Context(), sources, c.Cfg.Jobs, func(src source) (string, error) {
		return sqlt.Process(src.Text, d, d, procOpts)
	})
	if err != nil {
		return err
	}

	if !opts.Write && !opts.Check {
		return c.writeResults(results)
	}

	failed, changed := 0, 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			c.Renderer.Diagnostic(res.Source.Name, res.Source.Text, res.Err)
			continue
		}
		formatted := formattedFile(res.Output)
		if formatted == res.Source.Text {
			continue
		}
		changed++
		if opts.Check {
			c.Renderer.Warn("%s is not formatted", res.Source.displayName())
			continue
		}
		if err := writeFileAtomic(res.Source.Name, formatted); err != nil {
			return err
		}
		c.Logger.Info("formatted file", "path", res.Source.Name)
		c.Renderer.Success("formatted %s", res.Source.Name)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d inputs failed: %w", failed, len(results), ErrReported)
	}
	if opts.Check && changed > 0 {
		return fmt.Errorf("%d of %d files need formatting: %w", changed, len(results), ErrReported)
	}
	return nil
}

// formattedFile is the file content for formatted SQL.
func formattedFile(sql string) string {
	if sql == "" {
		return ""
	}
	return terminate(sql) + "\n"
}

func containsStdin(args []string) bool {
	for _, a := range args {
		if a == "-" {
			return true
		}
	}
	return false
}

// writeFileAtomic replaces path through a temporary file in the same
// directory, keeping the original permissions.
func writeFileAtomic(path, content string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// watchDebounce groups the burst of events editors produce on save.
const watchDebounce = 100 * time.Millisecond

// watch calls fn whenever one of files changes, until ctx is done. The
// parent directories are watched so files replaced by rename, as editors
// and writeFileAtomic do, keep being tracked.
func (c *CommandContext) watch(ctx context.Context, files []string, fn func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	tracked := make(map[string]bool, len(files))
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		tracked[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	c.Logger.Info("watching files", "count", len(files))

	// Our own writes trigger events too; ignore those that arrive while
	// fn runs and shortly after.
	var timer <-chan time.Time
	var quietUntil time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !tracked[event.Name] || strings.HasPrefix(filepath.Base(event.Name), ".") {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if time.Now().Before(quietUntil) {
				continue
			}
			c.Logger.Debug("file changed", "path", event.Name, "op", event.Op.String())
			timer = time.After(watchDebounce)
		case <-timer:
			timer = nil
			fn()
			quietUntil = time.Now().Add(watchDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.Logger.Warn("watch error", "error", err)
		}
	}
}
