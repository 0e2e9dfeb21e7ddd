package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// watchDebounce coalesces the burst of events editors emit on save.
const watchDebounce = 100 * time.Millisecond

// runQueryWatch runs the file once and again after every change,
// until the command context is cancelled.
func runQueryWatch(cmd *cobra.Command, cc *CommandContext, path string) error {
	ctx := cmd.Context()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory: editors often replace the file on save.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	runWatchedFile(ctx, cmd, cc, abs)

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != abs || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			debounce = time.After(watchDebounce)

		case <-debounce:
			debounce = nil
			cc.Logger.Debug("file changed, re-running", "file", abs)
			runWatchedFile(ctx, cmd, cc, abs)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cc.Logger.Error("watcher error", "error", err)
		}
	}
}

// runWatchedFile executes the file on a fresh copy of the database so
// every run starts from the same state.
func runWatchedFile(ctx context.Context, cmd *cobra.Command, cc *CommandContext, path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		printError(cmd.ErrOrStderr(), fmt.Errorf("failed to read file: %w", err))
		return
	}

	if cc.Cfg.Seed {
		err = cc.Session.ResetAndReseed(ctx)
	} else {
		err = cc.Session.Reset(ctx)
	}
	if err != nil {
		printError(cmd.ErrOrStderr(), err)
		return
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), noteStyle.Render(fmt.Sprintf("-- %s (%s)", filepath.Base(path), time.Now().Format(time.TimeOnly))))
	if err := cc.Renderer.Result(cc.Session.Execute(ctx, string(content))); err != nil {
		printError(cmd.ErrOrStderr(), err)
	}
}
