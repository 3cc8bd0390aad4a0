// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package orchestrator

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/jeranaias/cmeow/internal/config"
	"github.com/jeranaias/cmeow/internal/logging"
	"github.com/jeranaias/cmeow/internal/project"
)

// WatchOptions configures Watch.
type WatchOptions struct {
	BuildOptions
	// Debounce is how long the tree must stay quiet before a rebuild.
	Debounce time.Duration
	// MinInterval caps how often rebuilds may start.
	MinInterval time.Duration
}

// Watch builds the profile, then rebuilds whenever src/ or CMakeLists.txt
// change. Build failures are reported and watching continues. It returns nil
// when ctx is cancelled.
func (o *Orchestrator) Watch(ctx context.Context, l project.Layout, cfg *config.Config, opts WatchOptions) error {
	logger := logging.FromContext(ctx)
	if opts.Debounce <= 0 {
		opts.Debounce = 300 * time.Millisecond
	}
	if opts.MinInterval <= 0 {
		opts.MinInterval = time.Second
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := addRecursive(watcher, l.Src()); err != nil {
		return err
	}
	// The root is watched only for CMakeLists.txt.
	if err := watcher.Add(l.Root); err != nil {
		return err
	}

	limiter := rate.NewLimiter(rate.Every(opts.MinInterval), 1)
	rebuild := func() {
		if err := limiter.Wait(ctx); err != nil {
			return
		}
		if _, err := o.Build(ctx, l, cfg, opts.BuildOptions); err != nil && ctx.Err() == nil {
			o.Out.Error("%v", err)
		}
	}

	rebuild()
	o.Out.Status("Watching", "%s for changes (ctrl-c to stop)", filepath.Base(l.Root))

	timer := time.NewTimer(opts.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(l, event) {
				continue
			}
			logger.Debug("change detected", "path", event.Name, "op", event.Op.String())
			if event.Has(fsnotify.Create) && isDir(event.Name) {
				_ = addRecursive(watcher, event.Name)
			}
			timer.Reset(opts.Debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)

		case <-timer.C:
			rebuild()
		}
	}
}

// relevant filters events to sources and the build script.
func relevant(l project.Layout, event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	if event.Name == l.CMakeLists() {
		return true
	}
	src := l.Src() + string(filepath.Separator)
	return strings.HasPrefix(event.Name, src)
}

func addRecursive(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.Add(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	})
}
