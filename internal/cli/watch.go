package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// DefaultDebounce is how long watch waits after the last change before
// re-running.
const DefaultDebounce = 200 * time.Millisecond

func newWatchCmd(a *app) *cobra.Command {
	var (
		debounce time.Duration
		showTime bool
	)

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-run a program whenever it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if path == "-" {
				return errors.New("watch needs a file, not stdin")
			}
			ctx, stop := interruptible(cmd.Context())
			defer stop()

			pg, err := a.newPlayground(ctx, true)
			if err != nil {
				return err
			}
			defer pg.Close()

			client, err := pg.client(a.languageFor(path))
			if err != nil {
				return err
			}

			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
			runOnce := func() {
				source, err := readSource(nil, path)
				if err != nil {
					fmt.Fprintln(errOut, err)
					return
				}
				printResult(out, errOut, client.Execute(ctx, source), showTime)
			}

			runOnce()
			notice(errOut, "watching %s (Ctrl+C to stop)", path)
			return watchFile(ctx, path, debounce, a.logger, func() {
				notice(errOut, "── %s changed ──", filepath.Base(path))
				runOnce()
			})
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", DefaultDebounce, "Quiet period after a change before re-running")
	cmd.Flags().BoolVarP(&showTime, "time", "t", false, "Print the execution time")

	return cmd
}

// watchFile calls onChange after path is created, written or renamed into
// place, once changes have been quiet for debounce. It blocks until ctx ends.
// onChange runs on the calling goroutine, so runs never overlap.
func watchFile(ctx context.Context, path string, debounce time.Duration, logger *slog.Logger, onChange func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Editors often replace the file, so watch its directory.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	var timer *time.Timer
	fire := make(chan struct{}, 1)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case <-fire:
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("file watcher error", "path", path, "error", err)
		}
	}
}
