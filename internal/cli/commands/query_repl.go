package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

const (
	replPrompt     = "sqlbench> "
	replContPrompt = "     ...> "
)

var (
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	noteStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

var dotCommands = []string{
	".help", ".tables", ".schema", ".overview", ".export", ".reset", ".clear", ".quit", ".exit",
}

func runQueryREPL(cmd *cobra.Command, cc *CommandContext) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile(),
		AutoComplete:    newTableCompleter(cmd, cc),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "sqlbench REPL (engine: %s)\n", cc.Cfg.Engine.Type)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	repl := &replState{cmd: cmd, cc: cc}
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			repl.buf.Reset()
			rl.SetPrompt(replPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		if repl.handleLine(line) {
			break
		}
		if repl.pending() {
			rl.SetPrompt(replContPrompt)
		} else {
			rl.SetPrompt(replPrompt)
		}
	}
	return nil
}

// replState accumulates multi-line statements between prompts.
type replState struct {
	cmd *cobra.Command
	cc  *CommandContext
	buf strings.Builder
}

func (r *replState) pending() bool {
	return r.buf.Len() > 0
}

// handleLine processes one input line and reports whether the REPL should exit.
func (r *replState) handleLine(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	if !r.pending() && strings.HasPrefix(line, ".") {
		return handleDotCommand(r.cmd, r.cc, line)
	}

	// Accumulate multi-line SQL until semicolon
	r.buf.WriteString(line)
	if !strings.HasSuffix(line, ";") {
		r.buf.WriteString("\n")
		return false
	}

	sqlText := r.buf.String()
	r.buf.Reset()

	if err := r.cc.Renderer.Result(r.cc.Session.Execute(r.cmd.Context(), sqlText)); err != nil {
		printError(r.cmd.ErrOrStderr(), err)
	}
	_, _ = fmt.Fprintln(r.cmd.OutOrStdout())
	return false
}

// handleDotCommand runs a REPL meta-command and reports whether to exit.
func handleDotCommand(cmd *cobra.Command, cc *CommandContext, line string) bool {
	ctx := cmd.Context()
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(cmd.OutOrStdout())

	case ".tables":
		tables, err := cc.Session.ListTables(ctx)
		if err == nil {
			err = cc.Renderer.Tables(tables)
		}
		if err != nil {
			printError(cmd.ErrOrStderr(), err)
		}

	case ".schema":
		if len(parts) < 2 {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Usage: .schema <table>")
			return false
		}
		if err := showSchema(cmd, cc, parts[1]); err != nil {
			printError(cmd.ErrOrStderr(), err)
		}

	case ".overview":
		if err := cc.Renderer.Result(cc.Session.Overview(ctx)); err != nil {
			printError(cmd.ErrOrStderr(), err)
		}

	case ".export":
		script, err := cc.Session.ExportScript(ctx)
		if err != nil {
			printError(cmd.ErrOrStderr(), err)
			return false
		}
		if len(parts) < 2 {
			_, _ = fmt.Fprint(cmd.OutOrStdout(), script)
			return false
		}
		if err := os.WriteFile(parts[1], []byte(script), 0o644); err != nil {
			printError(cmd.ErrOrStderr(), fmt.Errorf("failed to write %s: %w", parts[1], err))
			return false
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), noteStyle.Render("Exported to "+parts[1]))

	case ".reset":
		if err := cc.Session.ResetAndReseed(ctx); err != nil {
			printError(cmd.ErrOrStderr(), err)
			return false
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), noteStyle.Render("Database reset with sample data"))

	case ".clear":
		_, _ = fmt.Fprint(cmd.OutOrStdout(), "\033[H\033[2J")

	default:
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

func printError(w io.Writer, err error) {
	_, _ = fmt.Fprintln(w, errorStyle.Render("Error: "+err.Error()))
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help           Show this help message
  .tables         List all tables
  .schema <name>  Show the columns of a table
  .overview       Show every table with its create statement
  .export [file]  Print the database as SQL, or write it to file
  .reset          Replace the database with a fresh copy of the sample data
  .clear          Clear the screen
  .quit / .exit   Exit the REPL

Tips:
  - SQL statements must end with a semicolon (;)
  - Use arrow keys to navigate history
  - Tab completion works for table names
`
	_, _ = fmt.Fprintln(w, help)
}

// historyFile returns the REPL history path, or "" to disable history.
func historyFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	dir = filepath.Join(dir, "sqlbench")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return ""
	}
	return filepath.Join(dir, "query_history")
}

// newTableCompleter creates a readline completer for dot-commands and
// table names. Table names are looked up on every completion so that
// tables created during the session are offered too.
func newTableCompleter(cmd *cobra.Command, cc *CommandContext) *readline.PrefixCompleter {
	tableNames := func(string) []string {
		tables, err := cc.Session.ListTables(cmd.Context())
		if err != nil {
			return nil
		}
		return tables
	}

	items := make([]readline.PrefixCompleterInterface, 0, len(dotCommands)+1)
	for _, c := range dotCommands {
		if c == ".schema" {
			items = append(items, readline.PcItem(c, readline.PcItemDynamic(tableNames)))
			continue
		}
		items = append(items, readline.PcItem(c))
	}
	items = append(items, readline.PcItemDynamic(tableNames))

	return readline.NewPrefixCompleter(items...)
}
