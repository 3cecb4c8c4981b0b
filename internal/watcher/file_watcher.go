// Package watcher reports debounced changes to the source files of a
// project so an analysis can be re-run.
package watcher

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a batch of changes is reported.
const DefaultDebounce = 500 * time.Millisecond

// MatchFunc decides whether a changed file, given as a slash-separated path
// relative to the watched root, is relevant.
type MatchFunc func(relPath string) bool

// FileWatcher monitors a directory tree and fires a callback with the
// relative paths of changed files once changes settle.
type FileWatcher struct {
	watcher      *fsnotify.Watcher
	root         string
	match        MatchFunc
	skipDirs     map[string]bool // directory base names never watched
	skipPaths    map[string]bool // slash paths relative to root never watched
	debounceTime time.Duration
	logger       *slog.Logger

	callback func(files []string)
	cancel   context.CancelFunc

	accumulated   map[string]bool // changed relative paths since last callback
	accumulatedMu sync.Mutex
	debounceTimer *time.Timer
	timerMu       sync.Mutex
	stopOnce      sync.Once
	doneCh        chan struct{}
}

// Option configures a FileWatcher.
type Option func(*FileWatcher)

// WithDebounce sets the quiet period. Values <= 0 keep the default.
func WithDebounce(d time.Duration) Option {
	return func(fw *FileWatcher) {
		if d > 0 {
			fw.debounceTime = d
		}
	}
}

// WithSkipDirs excludes directories with these base names, e.g. ".git".
func WithSkipDirs(names ...string) Option {
	return func(fw *FileWatcher) {
		for _, name := range names {
			fw.skipDirs[name] = true
		}
	}
}

// WithSkipPaths excludes directories by their path relative to the root,
// e.g. "build/out". Directories elsewhere with the same base name are still
// watched.
func WithSkipPaths(relPaths ...string) Option {
	return func(fw *FileWatcher) {
		for _, rel := range relPaths {
			rel = strings.Trim(filepath.ToSlash(filepath.Clean(rel)), "/")
			if rel != "" && rel != "." {
				fw.skipPaths[rel] = true
			}
		}
	}
}

// WithLogger sets the logger for watch errors.
func WithLogger(logger *slog.Logger) Option {
	return func(fw *FileWatcher) {
		if logger != nil {
			fw.logger = logger
		}
	}
}

// NewFileWatcher watches root recursively. A nil match accepts every file.
func NewFileWatcher(root string, match MatchFunc, opts ...Option) (*FileWatcher, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, errors.New("watch root is not a directory: " + root)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if match == nil {
		match = func(string) bool { return true }
	}

	fw := &FileWatcher{
		watcher:      w,
		root:         root,
		match:        match,
		skipDirs:     make(map[string]bool),
		skipPaths:    make(map[string]bool),
		debounceTime: DefaultDebounce,
		logger:       slog.Default(),
		accumulated:  make(map[string]bool),
		doneCh:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(fw)
	}

	if err := fw.addDirectoriesRecursively(root); err != nil {
		w.Close()
		return nil, err
	}

	return fw, nil
}

// Start begins watching. callback runs on the watch goroutine, so a slow
// callback delays the next batch rather than overlapping with it.
func (fw *FileWatcher) Start(ctx context.Context, callback func(files []string)) error {
	if callback == nil {
		return errors.New("callback is required")
	}

	fw.callback = callback
	watchCtx, cancel := context.WithCancel(ctx)
	fw.cancel = cancel

	go fw.watch(watchCtx)
	return nil
}

// Stop stops the watcher. It is safe to call more than once.
func (fw *FileWatcher) Stop() error {
	var err error
	fw.stopOnce.Do(func() {
		if fw.cancel != nil {
			fw.cancel()
			<-fw.doneCh
		} else {
			close(fw.doneCh)
		}
		err = fw.watcher.Close()
	})
	return err
}

// Done is closed when the watch loop exits.
func (fw *FileWatcher) Done() <-chan struct{} {
	return fw.doneCh
}

// watch is the main event loop.
func (fw *FileWatcher) watch(ctx context.Context) {
	defer close(fw.doneCh)

	fireCh := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			fw.stopDebounceTimer()
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}

			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := fw.addDirectoriesRecursively(event.Name); err != nil {
						fw.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
					}
					continue
				}
			}

			relPath, ok := fw.relevant(event)
			if !ok {
				continue
			}

			fw.accumulatedMu.Lock()
			fw.accumulated[relPath] = true
			fw.accumulatedMu.Unlock()

			fw.resetDebounceTimer(fireCh)

		case <-fireCh:
			fw.flush()

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn("file watcher error", "error", err)
		}
	}
}

// flush fires the callback with the accumulated paths, sorted.
func (fw *FileWatcher) flush() {
	fw.accumulatedMu.Lock()
	if len(fw.accumulated) == 0 {
		fw.accumulatedMu.Unlock()
		return
	}
	files := make([]string, 0, len(fw.accumulated))
	for file := range fw.accumulated {
		files = append(files, file)
	}
	fw.accumulated = make(map[string]bool)
	fw.accumulatedMu.Unlock()

	sort.Strings(files)
	fw.callback(files)
}

// resetDebounceTimer restarts the quiet period.
func (fw *FileWatcher) resetDebounceTimer(fireCh chan struct{}) {
	fw.timerMu.Lock()
	defer fw.timerMu.Unlock()

	if fw.debounceTimer != nil {
		fw.debounceTimer.Stop()
	}
	fw.debounceTimer = time.AfterFunc(fw.debounceTime, func() {
		select {
		case fireCh <- struct{}{}:
		default:
		}
	})
}

// stopDebounceTimer stops the debounce timer if it exists.
func (fw *FileWatcher) stopDebounceTimer() {
	fw.timerMu.Lock()
	defer fw.timerMu.Unlock()

	if fw.debounceTimer != nil {
		fw.debounceTimer.Stop()
		fw.debounceTimer = nil
	}
}

// relevant filters events to writes, creates, removes and renames of
// matching files and returns the path relative to the root.
func (fw *FileWatcher) relevant(event fsnotify.Event) (string, bool) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return "", false
	}

	relPath, err := filepath.Rel(fw.root, event.Name)
	if err != nil {
		return "", false
	}
	relPath = filepath.ToSlash(relPath)

	return relPath, fw.match(relPath)
}

// addDirectoriesRecursively adds all directories in the tree to the watcher.
func (fw *FileWatcher) addDirectoriesRecursively(rootPath string) error {
	return filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == rootPath {
				return err
			}
			fw.logger.Warn("error accessing path", "path", path, "error", err)
			return nil
		}

		if !info.IsDir() {
			return nil
		}
		if fw.skipped(path, info.Name()) {
			return filepath.SkipDir
		}

		if err := fw.watcher.Add(path); err != nil {
			fw.logger.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

// skipped reports whether a directory below the watched root is excluded.
// New directories are checked the same way as those found at start.
func (fw *FileWatcher) skipped(path, name string) bool {
	if path == fw.root {
		return false
	}
	if fw.skipDirs[name] {
		return true
	}
	relPath, err := filepath.Rel(fw.root, path)
	if err != nil {
		return false
	}
	return fw.skipPaths[filepath.ToSlash(relPath)]
}
