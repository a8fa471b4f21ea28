package cli

import (
	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	var showTime bool

	cmd := &cobra.Command{
		Use:   "run <file|->",
		Short: "Run a program once",
		Long: `Run a program once and print its output.

The language comes from --lang, then the file extension (.py, .js), then the
configured default. Use "-" to read the program from stdin. The exit status is
1 when the program fails.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			ctx, stop := interruptible(cmd.Context())
			defer stop()

			pg, err := a.newPlayground(ctx, true)
			if err != nil {
				return err
			}
			defer pg.Close()

			client, err := pg.client(a.languageFor(args[0]))
			if err != nil {
				return err
			}

			result := client.Execute(ctx, source)
			printResult(cmd.OutOrStdout(), cmd.ErrOrStderr(), result, showTime)
			if !result.OK() {
				return &ExitError{Code: 1}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showTime, "time", "t", false, "Print the execution time")

	return cmd
}
