package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/sqlfront/pkg/parser"
)

// debounceDelay coalesces the bursts of events editors emit per save.
const debounceDelay = 100 * time.Millisecond

// watchFiles re-parses files whenever they change until ctx is done.
// Directories are watched rather than files so that editors which save by
// renaming a temporary file are still seen.
func watchFiles(ctx context.Context, cc *CommandContext, files []string, opts parser.Options) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	targets := make(map[string]string, len(files))
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		targets[abs] = filepath.ToSlash(f)
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	_, _ = fmt.Fprintln(cc.Renderer.ErrWriter(), cc.Renderer.Muted(fmt.Sprintf("Watching %d file(s), press Ctrl+C to stop", len(files))))

	return watchLoop(ctx, watcher.Events, watcher.Errors, targets, func(path, name string) {
		content, err := os.ReadFile(path)
		if err != nil {
			cc.Logger.Warn("failed to read changed file", "file", name, "error", err)
			return
		}
		res := parseSource(source{Name: name, SQL: string(content)}, opts)
		cc.Logger.Debug("re-parsed", "file", name, "ok", res.Err == nil)
		if _, err := renderParseResults(cc.Renderer, []parseResult{res}); err != nil {
			cc.Logger.Warn("failed to render", "file", name, "error", err)
		}
	}, cc.Logger.Warn)
}

// watchLoop dispatches debounced change events for targets to onChange in
// path order. It returns when ctx is done or the event channel closes.
func watchLoop(
	ctx context.Context,
	events <-chan fsnotify.Event,
	errs <-chan error,
	targets map[string]string,
	onChange func(path, name string),
	warn func(msg string, args ...any),
) error {
	pending := make(map[string]bool)
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			path := filepath.Clean(event.Name)
			if _, ok := targets[path]; !ok {
				continue
			}
			pending[path] = true
			fire = time.After(debounceDelay)

		case <-fire:
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			for _, p := range paths {
				onChange(p, targets[p])
			}
			clear(pending)
			fire = nil

		case err, ok := <-errs:
			if !ok {
				return nil
			}
			warn("watcher error", "error", err)
		}
	}
}
