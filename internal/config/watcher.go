// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches the config file and invokes a callback when it changes
// on disk, debouncing rapid successive writes (editors often write a file
// several times in a row when saving).
type Watcher struct {
	path     string
	debounce time.Duration
	onChange func()

	watcher *fsnotify.Watcher
	mu      sync.Mutex
	pending *time.Time
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewWatcher creates a watcher for the given config file path.
// The callback runs on the watcher goroutine; keep it quick.
func NewWatcher(path string, debounce time.Duration, onChange func()) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		path:     path,
		debounce: debounce,
		onChange: onChange,
		watcher:  fw,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Watch starts watching the config file's directory. Watching the directory
// rather than the file survives rename-based saves, which replace the inode.
func (w *Watcher) Watch() error {
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	go w.processEvents()
	go w.processPending()
	return nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.cancel()
	return w.watcher.Close()
}

func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Name != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				now := time.Now()
				w.mu.Lock()
				w.pending = &now
				w.mu.Unlock()
			}
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are transient on most platforms; keep going.
		}
	}
}

// processPending fires the callback once the file has been quiet for the
// debounce window.
func (w *Watcher) processPending() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.mu.Lock()
			fire := w.pending != nil && time.Since(*w.pending) >= w.debounce
			if fire {
				w.pending = nil
			}
			w.mu.Unlock()

			if fire {
				w.onChange()
			}
		}
	}
}

// WatchGlobal watches the default config file and reloads the global
// configuration when it changes. Returns the watcher so the caller can
// Close it on shutdown; returns (nil, nil) if no config file exists yet.
func WatchGlobal() (*Watcher, error) {
	path, err := ConfigPathTOML()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}

	w, err := NewWatcher(path, 500*time.Millisecond, func() {
		if err := ReloadGlobal(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: config reload failed: %v\n", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if err := w.Watch(); err != nil {
		w.Close()
		return nil, err
	}
	return w, nil
}
