package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// watchDebounce is how long a burst of file events is coalesced.
const watchDebounce = 150 * time.Millisecond

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <file>",
		Short: "Reload a trigger data file whenever it changes",
		Long: `Load a trigger data file, then watch it. Every time its content changes
the symbol table is cleared and rebuilt and the load summary printed.
Stop with Ctrl+C.`,
		Example: `  trigdata watch TriggerData.txt`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, cmd, args[0])
		},
	}
}

func runWatch(ctx context.Context, cmd *cobra.Command, path string) error {
	cmdCtx := NewCommandContext(cmd)
	w := &watcher{ctx: cmdCtx, path: path}

	if _, err := w.reload(); err != nil {
		return err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = fsw.Close() }()

	// Watch the directory: editors often replace the file instead of writing it.
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	cmdCtx.Renderer.Muted(fmt.Sprintf("watching %s", path))

	return w.loop(ctx, fsw)
}

// watcher rebuilds one document's symbol table on change.
type watcher struct {
	ctx  *CommandContext
	path string
}

func (w *watcher) loop(ctx context.Context, fsw *fsnotify.Watcher) error {
	target := filepath.Clean(w.path)

	var debounce *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.NewTimer(watchDebounce)
			fire = debounce.C

		case <-fire:
			fire = nil
			if _, err := w.reload(); err != nil {
				w.ctx.Renderer.Error(err.Error())
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.ctx.Logger.Warn("watch error", "error", err)
		}
	}
}

// reload rebuilds the table from the file. It reports false when the
// content is unchanged since the last load.
func (w *watcher) reload() (bool, error) {
	content, err := os.ReadFile(w.path)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", w.path, err)
	}

	eng := w.ctx.Engine
	if !eng.Changed(w.path, string(content)) {
		w.ctx.Logger.Debug("content unchanged", "file", w.path)
		return false, nil
	}

	eng.Reset()
	result, err := eng.LoadString(w.path, string(content))
	if err != nil {
		return false, err
	}

	w.ctx.report(result)
	status := "success"
	if result.HasErrors() {
		status = "error"
	}
	w.ctx.Renderer.StatusLine(time.Now().Format(time.TimeOnly), status, result.Summary())
	return true, nil
}
