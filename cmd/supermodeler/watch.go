package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"supermodeler/declare"
)

type watchFlags struct {
	debounce time.Duration
}

func newWatchCmd(root *rootFlags) *cobra.Command {
	flags := &watchFlags{}

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-check a declaration file whenever it changes",
		Long: `Check a declaration file, then check it again after every change
until interrupted.

Examples:
  # Keep checking while editing
  supermodeler watch models.yaml

  # Wait longer for editors that save in several steps
  supermodeler watch models.yaml --debounce 500ms`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cmd.ErrOrStderr(), root.verbose)

			w, err := declare.NewWatcher(args[0],
				declare.WithDebounce(flags.debounce),
				declare.WithWatchLogger(logger),
			)
			if err != nil {
				return err
			}

			defer func() { _ = w.Close() }()

			out := cmd.OutOrStdout()
			recheck := func() error {
				return reportCheck(out, args[0])
			}

			_ = recheck()

			return w.Watch(cmd.Context(), recheck)
		},
	}

	cmd.Flags().DurationVar(&flags.debounce, "debounce", declare.DefaultDebounce, "quiet period before re-checking")

	return cmd
}

// reportCheck prints one text check run. The returned error only feeds the
// watcher's logging.
func reportCheck(out io.Writer, path string) error {
	err := runCheck(out, path, &checkFlags{format: "text"})
	fmt.Fprintln(out)

	return err
}
