// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// FSNOTIFY WATCHER
// =============================================================================

// Watcher reports changes to the session file made by any process, such as
// `cortex logout` in another terminal.
type Watcher struct {
	watcher *fsnotify.Watcher
	target  string
	changes chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWatcher watches the session file at path. The parent directory is
// watched so that atomic renames and removals are observed.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("session: failed to resolve %s: %w", path, err)
	}
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("session: failed to create %s: %w", dir, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("session: failed to watch %s: %w", dir, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		watcher: fw,
		target:  abs,
		changes: make(chan struct{}, 1),
		ctx:     ctx,
		cancel:  cancel,
	}

	w.wg.Add(1)
	go w.processEvents()
	return w, nil
}

// Changes delivers one value per burst of changes to the session file.
// It is closed when the watcher is closed.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Close stops watching and waits for the event goroutine to exit.
func (w *Watcher) Close() error {
	w.cancel()
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()
	defer close(w.changes)

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			// Coalesce: a pending notification already covers this one.
			select {
			case w.changes <- struct{}{}:
			default:
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("SESSION: watcher error: %v", err)
		}
	}
}
