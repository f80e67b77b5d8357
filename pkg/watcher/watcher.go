// Package watcher monitors a catalog source (file or directory) for changes
// using fsnotify, with a polling fallback for filesystems where inotify is
// unreliable (network mounts, some containers). Change bursts are debounced
// so an editor's write-rename dance produces one reload, not five.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Defaults tuned for human-speed edits.
const (
	DefaultDebounceDuration = 250 * time.Millisecond
	DefaultPollInterval     = 2 * time.Second
)

// Common errors.
var (
	ErrSourceRemoved  = errors.New("watched catalog source was removed")
	ErrAlreadyStarted = errors.New("watcher already started")
)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounceDuration sets the debounce duration.
func WithDebounceDuration(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithPollInterval sets the polling interval for fallback mode.
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) { w.pollInterval = d }
}

// WithForcePoll forces polling mode even if fsnotify is available.
func WithForcePoll(force bool) Option {
	return func(w *Watcher) { w.forcePoll = force }
}

// Watcher monitors a path. Change notifications are delivered on Changed();
// there are no callbacks, since the consumer is a bubbletea command loop
// that wants a channel to block on.
type Watcher struct {
	path         string
	isDir        bool
	debounce     time.Duration
	pollInterval time.Duration
	forcePoll    bool

	fsWatcher *fsnotify.Watcher
	polling   bool
	lastStamp string

	ctx      context.Context
	cancel   context.CancelFunc
	started  bool
	mu       sync.RWMutex
	changeCh chan struct{}

	debounceMu    sync.Mutex
	debounceTimer *time.Timer
}

// New creates a watcher for the given file or directory.
func New(path string, opts ...Option) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		path:         absPath,
		debounce:     DefaultDebounceDuration,
		pollInterval: DefaultPollInterval,
		changeCh:     make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start begins watching.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return ErrAlreadyStarted
	}
	w.ctx, w.cancel = context.WithCancel(context.Background())

	if info, err := os.Stat(w.path); err == nil {
		w.isDir = info.IsDir()
		w.lastStamp = stamp(info)
	}

	forcePoll := w.forcePoll || envBool("WIKINAV_FORCE_POLL")
	w.polling = forcePoll

	if !forcePoll {
		fsw, err := fsnotify.NewWatcher()
		if err == nil {
			// For files, watch the containing directory: atomic
			// write-rename replaces the inode and a direct watch
			// would go stale.
			target := w.path
			if !w.isDir {
				target = filepath.Dir(w.path)
			}
			if err := fsw.Add(target); err != nil {
				fsw.Close()
				w.polling = true
			} else {
				w.fsWatcher = fsw
				go w.watchFsnotify()
			}
		} else {
			w.polling = true
		}
	}

	if w.polling {
		go w.watchPolling()
	}

	w.started = true
	return nil
}

// Stop stops watching. The change channel stays open; a closed channel
// would make pending receives fire spuriously.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return
	}
	if w.cancel != nil {
		w.cancel()
	}
	if w.fsWatcher != nil {
		w.fsWatcher.Close()
		w.fsWatcher = nil
	}
	w.debounceMu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceMu.Unlock()
	w.started = false
}

// Changed returns a channel receiving one signal per debounced change burst.
func (w *Watcher) Changed() <-chan struct{} { return w.changeCh }

// IsPolling reports whether the watcher fell back to polling mode.
func (w *Watcher) IsPolling() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.polling
}

// Path returns the watched path.
func (w *Watcher) Path() string { return w.path }

func (w *Watcher) watchFsnotify() {
	w.mu.RLock()
	if w.fsWatcher == nil {
		w.mu.RUnlock()
		return
	}
	events := w.fsWatcher.Events
	errs := w.fsWatcher.Errors
	w.mu.RUnlock()

	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if !w.relevant(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				w.trigger()
			}
		case _, ok := <-errs:
			if !ok {
				return
			}
			// fsnotify errors are transient on the filesystems we
			// care about; the polling stamp check catches anything
			// the event stream drops.
		}
	}
}

// relevant filters directory-watch noise down to the file we care about,
// or to markdown files when watching a docs tree.
func (w *Watcher) relevant(name string) bool {
	if w.isDir {
		return strings.HasSuffix(name, ".md") || name == w.path
	}
	return filepath.Base(name) == filepath.Base(w.path)
}

func (w *Watcher) watchPolling() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			info, err := os.Stat(w.path)
			if err != nil {
				continue
			}
			s := stamp(info)
			w.mu.Lock()
			changed := s != w.lastStamp
			if changed {
				w.lastStamp = s
			}
			w.mu.Unlock()
			if changed {
				w.trigger()
			}
		}
	}
}

// trigger schedules a debounced notification.
func (w *Watcher) trigger() {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounce, w.notify)
}

func (w *Watcher) notify() {
	w.mu.RLock()
	started := w.started
	w.mu.RUnlock()
	if !started {
		return
	}
	select {
	case w.changeCh <- struct{}{}:
	default:
	}
}

// stamp summarizes a file's identity-relevant attributes for poll diffing.
func stamp(info os.FileInfo) string {
	return info.ModTime().String() + "|" + strconv.FormatInt(info.Size(), 10)
}

func envBool(name string) bool {
	v := strings.TrimSpace(os.Getenv(name))
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}
