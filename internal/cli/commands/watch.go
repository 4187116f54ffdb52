package commands

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [dir...]",
		Short: "Reformat .sql files whenever they change",
		Long: `Watch directories (recursively) and run the engine's formatter over any
.sql file that is written, rewriting it in place. This gives format-on-save
behavior for editors without native integration.

Formatting is a fixed point, so the rewrite triggered by watch itself does
not cause another rewrite. Runs until interrupted.`,
		Example: `  sqlbridge watch
  sqlbridge watch models/ seeds/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)

			dirs := args
			if len(dirs) == 0 {
				dirs = []string{"."}
			}

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("failed to create watcher: %w", err)
			}
			defer func() { _ = watcher.Close() }()

			for _, dir := range dirs {
				if err := watchRecursive(watcher, dir); err != nil {
					return err
				}
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for .sql changes (Ctrl-C to stop)\n",
				strings.Join(dirs, ", "))

			ctx := cmd.Context()
			for {
				select {
				case <-ctx.Done():
					return nil
				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					handleWatchEvent(cmd, cmdCtx, watcher, event)
				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					cmdCtx.Logger.Warn("watch error", "error", err)
				}
			}
		},
	}
}

// watchRecursive adds dir and all its subdirectories to the watcher.
func watchRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if name := d.Name(); name != "." && strings.HasPrefix(name, ".") {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

func handleWatchEvent(cmd *cobra.Command, cmdCtx *CommandContext, watcher *fsnotify.Watcher, event fsnotify.Event) {
	// New directories need to be picked up for recursive coverage.
	if event.Has(fsnotify.Create) {
		if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
			_ = watchRecursive(watcher, event.Name)
			return
		}
	}

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	if !strings.EqualFold(filepath.Ext(event.Name), ".sql") {
		return
	}

	if err := formatFile(cmd, cmdCtx, event.Name); err != nil {
		cmdCtx.Logger.Warn("format failed", "path", event.Name, "error", err)
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", event.Name, err)
	}
}
