package vaultstate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a vault's category directories for out-of-band markdown
// edits (a user hand-editing a file, or another process writing directly
// to disk) and debounces them into a single callback, so the coordinator
// can schedule a reindex instead of reconciling on every individual
// write. Adapted from the teacher's internal/watcher.fileWatcher —
// recursive registration, debounce timer, pause/resume and idempotent
// Stop are all kept; the extension allowlist is narrowed to ".md" and
// the callback fires on a vault root rather than passing changed file
// paths through to a language-aware indexer.
type Watcher struct {
	fsw          *fsnotify.Watcher
	debounce     time.Duration
	callback     func()
	ctx          context.Context
	cancel       context.CancelFunc
	pausedMu     sync.RWMutex
	paused       bool
	timerMu      sync.Mutex
	timer        *time.Timer
	stopOnce     sync.Once
	done         chan struct{}
}

// NewWatcher creates a watcher recursively registered on every
// subdirectory of vaultRoot that is not excluded (spec.md §4.3.4 step 1).
func NewWatcher(vaultRoot string, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	w := &Watcher{
		fsw:      fsw,
		debounce: debounce,
		done:     make(chan struct{}),
	}

	if err := w.addRecursively(vaultRoot); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addRecursively(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read vault directory %s: %w", dir, err)
	}
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("watch directory %s: %w", dir, err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if IsExcludedFolder(e.Name()) {
			continue
		}
		if err := w.addRecursively(filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

// Start begins watching; callback is invoked (from a background
// goroutine) no more than once per debounce window once one or more
// ".md" files change.
func (w *Watcher) Start(ctx context.Context, callback func()) {
	w.callback = callback
	w.ctx, w.cancel = context.WithCancel(ctx)
	go w.loop()
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case <-w.ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Ext(ev.Name) != ".md" {
				continue
			}
			w.scheduleFire()
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) scheduleFire() {
	w.pausedMu.RLock()
	paused := w.paused
	w.pausedMu.RUnlock()
	if paused {
		return
	}

	w.timerMu.Lock()
	defer w.timerMu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		if w.callback != nil {
			w.callback()
		}
	})
}

// Pause suspends firing the callback without tearing down the
// subscription, so a capture-triggered write doesn't re-trigger its own
// reindex.
func (w *Watcher) Pause() {
	w.pausedMu.Lock()
	w.paused = true
	w.pausedMu.Unlock()
}

// Resume re-enables callback firing after Pause.
func (w *Watcher) Resume() {
	w.pausedMu.Lock()
	w.paused = false
	w.pausedMu.Unlock()
}

// Stop tears down the watcher. Idempotent.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		if w.cancel != nil {
			w.cancel()
			<-w.done
		}
		err = w.fsw.Close()
	})
	return err
}
