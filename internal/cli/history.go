package cli

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/codeplay/history"
)

func newHistoryCmd(a *app) *cobra.Command {
	var (
		limit int
		lang  string
	)

	cmd := &cobra.Command{
		Use:   "history [id]",
		Short: "Show recorded executions",
		Long: `List recorded executions, newest first, or show one in full.

Requires history.enabled in the configuration file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pg, err := a.newPlayground(ctx, true)
			if err != nil {
				return err
			}
			defer pg.Close()
			if pg.store == nil {
				return errors.New("history is disabled (set history.enabled in the config file)")
			}

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				rec, err := pg.store.Get(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "id:       %s\nlanguage: %s\ncreated:  %s\ntime:     %d ms\n",
					rec.ID, rec.Language, rec.CreatedAt.Format("2006-01-02 15:04:05"), rec.ExecutionTimeMillis)
				fmt.Fprintf(out, "\n%s\n", rec.Source)
				if rec.Output != "" {
					fmt.Fprintf(out, "\n%s", rec.Output)
				}
				if !rec.OK() {
					fmt.Fprintf(out, "\n%s: %s\n", rec.ErrorCategory, rec.ErrorMessage)
				}
				return nil
			}

			records, err := pg.store.List(ctx, history.ListOptions{Language: lang, Limit: limit})
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tLANGUAGE\tCREATED\tMS\tRESULT\tSOURCE")
			for _, rec := range records {
				result := "ok"
				if !rec.OK() {
					result = rec.ErrorCategory
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
					rec.ID, rec.Language, rec.CreatedAt.Format("2006-01-02 15:04:05"),
					rec.ExecutionTimeMillis, result, firstLine(rec.Source, 40))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of executions to list")
	cmd.Flags().StringVar(&lang, "language", "", "Only list executions in this language")

	return cmd
}

// firstLine returns the first line of s, truncated to max runes.
func firstLine(s string, max int) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i] + " …"
	}
	r := []rune(s)
	if len(r) > max {
		return string(r[:max-1]) + "…"
	}
	return s
}
