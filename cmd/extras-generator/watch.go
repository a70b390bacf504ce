package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"extras-generator/internal/config"
)

// watchDebounce groups the bursts of events an editor save produces.
const watchDebounce = 200 * time.Millisecond

// watch generates once, then again whenever a Go source file in one of the
// loaded package directories changes, until the command context ends.
// Failed passes are reported and the watch goes on.
func watch(cmd *cobra.Command, root *rootOptions, opts *generateOptions, cfg *config.Config) error {
	ctx := cmd.Context()
	logger := cfg.SlogLogger()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]bool)

	pass := func() {
		result, err := runGenerate(cmd, root, opts, cfg)
		if err != nil {
			var diags *errDiagnostics
			if !errors.As(err, &diags) {
				printError(cmd.ErrOrStderr(), err, root.colored(cmd.ErrOrStderr()))
			}
		}

		if result == nil {
			return
		}

		for _, dir := range result.Dirs {
			if watched[dir] {
				continue
			}

			if err := watcher.Add(dir); err != nil {
				logger.Warn("cannot watch directory", "dir", dir, "error", err)
				continue
			}

			watched[dir] = true
		}
	}

	pass()

	if len(watched) == 0 {
		return errors.New("nothing to watch: no package could be loaded")
	}

	logger.Info("watching for changes", "dirs", len(watched))

	timer := time.NewTimer(watchDebounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !triggers(event, cfg.FileSuffix) {
				continue
			}

			logger.Debug("change detected", "file", event.Name, "op", event.Op.String())
			timer.Reset(watchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			logger.Warn("watch error", "error", err)

		case <-timer.C:
			pass()
		}
	}
}

// triggers reports whether event touches a model source file. Generated
// files and tests are ignored so a pass does not trigger the next one.
func triggers(event fsnotify.Event, fileSuffix string) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	name := filepath.Base(event.Name)

	switch {
	case !strings.HasSuffix(name, ".go"):
		return false
	case strings.HasSuffix(name, fileSuffix), strings.HasSuffix(name, "_test.go"):
		return false
	case strings.HasPrefix(name, "."), strings.HasPrefix(name, "_"):
		return false
	}

	return true
}
