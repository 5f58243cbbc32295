package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlt/pkg/dialect"
	"github.com/leapstack-labs/sqlt/pkg/interchange"
	"github.com/leapstack-labs/sqlt/pkg/parser"
	"github.com/leapstack-labs/sqlt/pkg/sqlt"
)

const (
	replPrompt     = "sqlt> "
	replContPrompt = "  ...> "
)

// NewReplCommand creates the repl command.
func NewReplCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Translate SQL interactively",
		Long: `Start an interactive session that translates each statement from the
source dialect to the target dialect as it is entered.

Statements may span several lines and end with a semicolon. Dot-commands
change the session: .dialect and .target switch dialects, .tokens and .ast
toggle extra output and .pretty toggles multi-line formatting.`,
		Example: `  # Translate postgres to mysql interactively
  sqlt repl -d postgres -t mysql`,
		Args: cobra.NoArgs,
		RunE: runRepl,
	}
}

func runRepl(cmd *cobra.Command, _ []string) error {
	c := NewCommandContext(cmd)
	s, err := newReplSession(c)
	if err != nil {
		return err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     replHistoryFile(),
		AutoComplete:    replCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdin:           io.NopCloser(cmd.InOrStdin()),
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	c.Renderer.Println(fmt.Sprintf("sqlt REPL (%s)", s.describe()))
	c.Renderer.Println("Type .help for commands, .quit to exit")
	c.Renderer.Println()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			s.reset()
			rl.SetPrompt(replPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if quit := s.handleLine(line); quit {
			return nil
		}
		if s.pending() {
			rl.SetPrompt(replContPrompt)
		} else {
			rl.SetPrompt(replPrompt)
		}
	}
}

// replHistoryFile returns the history path in the user's home directory,
// or "" to disable history.
func replHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".sqlt_history")
}

func replCompleter() *readline.PrefixCompleter {
	names := dialect.List()
	dialectItems := make([]readline.PrefixCompleterInterface, len(names))
	for i, name := range names {
		dialectItems[i] = readline.PcItem(name)
	}
	return readline.NewPrefixCompleter(
		readline.PcItem(".dialect", dialectItems...),
		readline.PcItem(".target", dialectItems...),
		readline.PcItem(".tokens"),
		readline.PcItem(".ast"),
		readline.PcItem(".pretty"),
		readline.PcItem(".help"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}

// replSession is the state of an interactive session, independent of the
// terminal so it can be driven line by line.
type replSession struct {
	c          *CommandContext
	src, dst   dialect.Dialect
	showTokens bool
	showAST    bool
	opts       sqlt.Options
	buf        strings.Builder
}

func newReplSession(c *CommandContext) (*replSession, error) {
	src, dst, err := c.Dialects()
	if err != nil {
		return nil, err
	}
	return &replSession{c: c, src: src, dst: dst, opts: c.Options(false)}, nil
}

func (s *replSession) describe() string {
	return s.src.Name() + " -> " + s.dst.Name()
}

func (s *replSession) pending() bool { return s.buf.Len() > 0 }

func (s *replSession) reset() { s.buf.Reset() }

// handleLine processes one input line and reports whether the session
// should end.
func (s *replSession) handleLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	if !s.pending() && strings.HasPrefix(trimmed, ".") {
		return s.dotCommand(trimmed)
	}

	if s.pending() {
		s.buf.WriteByte('\n')
	}
	s.buf.WriteString(line)
	if !strings.HasSuffix(trimmed, ";") {
		return false
	}
	text := s.buf.String()
	s.buf.Reset()
	s.run(text)
	return false
}

func (s *replSession) run(text string) {
	r := s.c.Renderer
	if s.showTokens {
		toks, err := parser.Tokenize(text, s.src)
		if err != nil {
			r.Diagnostic("", text, err)
			return
		}
		parts := make([]string, 0, len(toks))
		for _, tok := range toks[:len(toks)-1] {
			parts = append(parts, tok.Type.String()+"("+tok.Literal+")")
		}
		r.Println(r.Styles().Muted.Render(strings.Join(parts, " ")))
	}
	if s.showAST {
		stmts, err := parser.ParseScriptWithOptions(text, s.src, s.opts.MaxDepth)
		if err != nil {
			r.Diagnostic("", text, err)
			return
		}
		if err := r.JSON(encodeStatements(stmts, interchange.Options{})); err != nil {
			r.Warn("failed to encode tree: %v", err)
		}
	}

	opts := s.opts
	opts.Transpile = s.src.Name() != s.dst.Name()
	out, err := sqlt.Process(text, s.src, s.dst, opts)
	if err != nil {
		r.Diagnostic("", text, err)
		return
	}
	if out != "" {
		r.Println(terminate(out))
	}
}

func (s *replSession) dotCommand(line string) bool {
	r := s.c.Renderer
	parts := strings.Fields(line)
	switch strings.ToLower(parts[0]) {
	case ".quit", ".exit":
		return true
	case ".help":
		printReplHelp(r.Out())
	case ".dialect", ".target":
		if len(parts) < 2 {
			r.Println(s.describe())
			return false
		}
		d, err := s.c.Cfg.Resolve(parts[1])
		if err != nil {
			r.Warn("%v", err)
			return false
		}
		if parts[0] == ".dialect" {
			s.src = d
		} else {
			s.dst = d
		}
		r.Println(s.describe())
	case ".tokens":
		s.showTokens = !s.showTokens
		r.Println("tokens " + onOff(s.showTokens))
	case ".ast":
		s.showAST = !s.showAST
		r.Println("ast " + onOff(s.showAST))
	case ".pretty":
		s.opts.Pretty = !s.opts.Pretty
		r.Println("pretty " + onOff(s.opts.Pretty))
	default:
		r.Warn("Unknown command: %s (type .help for commands)", parts[0])
	}
	return false
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func printReplHelp(w io.Writer) {
	help := `
Commands:
  .dialect [name]  Show or set the source dialect
  .target [name]   Show or set the target dialect
  .tokens          Toggle printing the token stream
  .ast             Toggle printing the syntax tree
  .pretty          Toggle multi-line formatting
  .help            Show this help message
  .quit / .exit    Exit the REPL

Tips:
  - Statements must end with a semicolon (;)
  - Use arrow keys to navigate history
  - Tab completes dot-commands and dialect names
`
	_, _ = fmt.Fprintln(w, help)
}
