package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/jonwraymond/codeplay/code"
)

// colorEnabled reports whether w is a terminal that should get colour.
func colorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if !term.IsTerminal(int(f.Fd())) { // #nosec G115 - file descriptors are small integers
		return false
	}
	termEnv := os.Getenv("TERM")
	return termEnv != "" && termEnv != "dumb"
}

// styles renders result banners for one writer.
type styles struct {
	errorBanner lipgloss.Style
	okBanner    lipgloss.Style
	message     lipgloss.Style
	dim         lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	if !colorEnabled(w) {
		r.SetColorProfile(termenv.Ascii)
	}
	r.SetHasDarkBackground(true)

	return styles{
		errorBanner: r.NewStyle().Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("9")).
			Padding(0, 1),
		okBanner: r.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		message:  r.NewStyle().Foreground(lipgloss.Color("9")),
		dim:      r.NewStyle().Faint(true),
	}
}

// printResult writes the program output to out and the status banner to
// errOut. Timing is shown when showTime is set.
func printResult(out, errOut io.Writer, result code.ExecuteResult, showTime bool) {
	if result.Output != "" {
		fmt.Fprint(out, result.Output)
	}
	st := newStyles(errOut)

	if result.Error != nil {
		if result.Output != "" && !strings.HasSuffix(result.Output, "\n") {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(errOut, "%s %s\n",
			st.errorBanner.Render(string(result.Error.Category)),
			st.message.Render(result.Error.Message))
	}
	if showTime {
		status := st.okBanner.Render("ok")
		if result.Error != nil {
			status = st.dim.Render("failed")
		}
		fmt.Fprintf(errOut, "%s %s\n", status, st.dim.Render(fmt.Sprintf("in %d ms", result.ExecutionTimeMillis)))
	}
}

// notice writes a dim status line.
func notice(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, newStyles(w).dim.Render(fmt.Sprintf(format, args...)))
}
