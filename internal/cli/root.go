// Package cli implements the codeplay command line.
package cli

import (
	"github.com/spf13/cobra"
)

const version = "0.1.0"

// NewRootCmd creates the root cobra command for the codeplay CLI.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "codeplay",
		Short: "codeplay - embedded code playground",
		Long:  "codeplay runs small Python (Starlark) and JavaScript programs in embedded interpreters.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd.ErrOrStderr())
		},
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&a.opts.configPath, "config", "", "Path to a YAML config file")
	root.PersistentFlags().StringVar(&a.opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.opts.logFormat, "log-format", "", "Log format (text, json)")
	root.PersistentFlags().StringVar(&a.opts.lang, "lang", "", "Language (python, javascript)")
	root.PersistentFlags().StringVar(&a.opts.locale, "locale", "", "Locale for error messages (en, ru, es)")

	root.AddCommand(
		newRunCmd(a),
		newREPLCmd(a),
		newWatchCmd(a),
		newServeCmd(a),
		newMCPCmd(a),
		newHistoryCmd(a),
	)

	return root
}
