package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/driftcheck/driftcheck/pkg/report"
)

// rerunDelay debounces bursts of filesystem events into one re-run.
const rerunDelay = 500 * time.Millisecond

// Watch runs the pipeline once, then re-runs it whenever object files under
// objectsDir change, invoking onRun with each report. It blocks until the
// context is cancelled.
func (p *Pipeline) Watch(ctx context.Context, objectsDir string, onRun func(*report.Report)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watchDirectory(watcher, objectsDir); err != nil {
		return fmt.Errorf("failed to watch objects directory: %w", err)
	}

	rep, err := p.Run(ctx, objectsDir)
	if err != nil {
		return err
	}
	onRun(rep)

	p.logger.Info().Str("dir", objectsDir).Msg("Watching for object changes")

	var rerunTimer *time.Timer
	for {
		select {
		case <-ctx.Done():
			if rerunTimer != nil {
				rerunTimer.Stop()
			}
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !strings.HasSuffix(strings.ToLower(event.Name), ".json") {
				// A created subdirectory may receive object files later.
				if info, serr := os.Stat(event.Name); serr != nil || !info.IsDir() {
					continue
				}
				_ = watcher.Add(event.Name)
			}

			p.logger.Debug().
				Str("file", event.Name).
				Str("op", event.Op.String()).
				Msg("Object file changed")

			if rerunTimer != nil {
				rerunTimer.Stop()
			}
			rerunTimer = time.AfterFunc(rerunDelay, func() {
				rep, err := p.Run(ctx, objectsDir)
				if err != nil {
					p.logger.Error().Err(err).Msg("Failed to re-run validation")
					return
				}
				onRun(rep)
			})

		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			p.logger.Error().Err(werr).Msg("Watcher error")
		}
	}
}

// watchDirectory adds a directory tree to the watcher.
func watchDirectory(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
