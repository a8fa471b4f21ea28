package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jonwraymond/codeplay/config"
	"github.com/jonwraymond/codeplay/runtime/backend/javascript"
)

const replHelp = `Enter a program line by line; a blank line runs it.
JavaScript keeps globals between runs; Python starts fresh each time.

  :lang            show the current language
  :lang <name>     switch language
  :langs           list languages and their runtime state
  :reset           discard the lines entered so far
  :help            show this help
  :quit            leave`

func newREPLCmd(a *app) *cobra.Command {
	var noHistory bool

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive session",
		Long: `Start an interactive session.

Lines are buffered until a blank line, then run as one program. Commands start
with ":"; type :help for the list.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a.cfg.Languages = sessionLanguages(a.cfg.Languages)
			pg, err := a.newPlayground(ctx, true)
			if err != nil {
				return err
			}
			defer pg.Close()

			r := &repl{
				pg:     pg,
				lang:   a.cfg.DefaultLanguage,
				out:    cmd.OutOrStdout(),
				errOut: cmd.ErrOrStderr(),
			}
			if _, err := pg.client(r.lang); err != nil {
				return err
			}

			in := cmd.InOrStdin()
			if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) { // #nosec G115 - file descriptors are small integers
				historyFile := ""
				if !noHistory {
					historyFile = replHistoryFile()
				}
				return r.interactive(ctx, historyFile)
			}
			return r.basic(ctx, in)
		},
	}

	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not keep input history")

	return cmd
}

// sessionLanguages returns a copy of langs with JavaScript kept alive
// between runs, so declarations carry over from one block to the next.
func sessionLanguages(langs map[string]config.Language) map[string]config.Language {
	out := make(map[string]config.Language, len(langs))
	for name, l := range langs {
		if name == javascript.Language {
			l.Persistent = true
		}
		out[name] = l
	}
	return out
}

func replHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".codeplay_history")
}

// repl is one interactive session.
type repl struct {
	pg     *playground
	lang   string
	buf    []string
	out    io.Writer
	errOut io.Writer
}

func (r *repl) prompt() string {
	if len(r.buf) > 0 {
		return strings.Repeat(".", len(r.lang)) + "> "
	}
	return r.lang + "> "
}

// interactive runs the session on the terminal with line editing.
func (r *repl) interactive(ctx context.Context, historyFile string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            r.prompt(),
		HistoryFile:       historyFile,
		HistoryLimit:      1000,
		InterruptPrompt:   "^C",
		EOFPrompt:         ":quit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("start line editor: %w", err)
	}
	defer func() {
		_ = rl.Close()
	}()

	fmt.Fprintln(r.out, "codeplay - type :help for commands, :quit to leave")
	for {
		rl.SetPrompt(r.prompt())
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if len(r.buf) > 0 {
					r.buf = nil
					notice(r.errOut, "(discarded)")
				}
				continue
			}
			if errors.Is(err, io.EOF) {
				r.flush(ctx)
				return nil
			}
			return err
		}
		if !r.handle(ctx, line) {
			return nil
		}
	}
}

// basic runs the session on a non-terminal reader, without prompts.
func (r *repl) basic(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		if !r.handle(ctx, scanner.Text()) {
			return nil
		}
	}
	r.flush(ctx)
	return scanner.Err()
}

// handle processes one input line. It returns false when the session ends.
func (r *repl) handle(ctx context.Context, line string) bool {
	trimmed := strings.TrimSpace(line)
	if len(r.buf) == 0 && strings.HasPrefix(trimmed, ":") {
		return r.command(trimmed)
	}
	if trimmed == "" {
		r.flush(ctx)
		return true
	}
	r.buf = append(r.buf, line)
	return true
}

// flush runs the buffered lines as one program. Ctrl+C interrupts the
// program without ending the session.
func (r *repl) flush(ctx context.Context) {
	if len(r.buf) == 0 {
		return
	}
	source := strings.Join(r.buf, "\n")
	r.buf = nil

	client, err := r.pg.client(r.lang)
	if err != nil {
		fmt.Fprintln(r.errOut, err)
		return
	}
	execCtx, stop := interruptible(ctx)
	defer stop()
	printResult(r.out, r.errOut, client.Execute(execCtx, source), false)
}

func (r *repl) command(line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":quit", ":q", ":exit":
		return false
	case ":help", ":h":
		fmt.Fprintln(r.out, replHelp)
	case ":reset":
		r.buf = nil
	case ":langs":
		for _, name := range r.pg.languages() {
			marker := " "
			if name == r.lang {
				marker = "*"
			}
			fmt.Fprintf(r.out, "%s %-12s %s\n", marker, name, r.pg.clients[name].State())
		}
	case ":lang":
		if len(fields) == 1 {
			fmt.Fprintln(r.out, r.lang)
			break
		}
		if _, err := r.pg.client(fields[1]); err != nil {
			fmt.Fprintln(r.errOut, err)
			break
		}
		r.lang = fields[1]
	default:
		fmt.Fprintf(r.errOut, "unknown command %s (try :help)\n", fields[0])
	}
	return true
}
