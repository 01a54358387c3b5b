// Package watcher is the change notifier: it watches a Unity project recursively and
// reports debounced batches as added, deleted, moved-from and reimported path lists.
package watcher

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when Options.Debounce is zero.
const DefaultDebounce = 100 * time.Millisecond

// IgnoreChecker is used by the watcher to check if a path should be ignored.
type IgnoreChecker interface {
	ShouldIgnoreDir(absolutePath string) bool
	ShouldIgnore(absolutePath string) bool
}

// Options configures a Watcher.
type Options struct {
	RootDir  string
	Ignore   IgnoreChecker
	Debounce time.Duration
	Logger   *slog.Logger
}

// Watcher provides recursive file system watching with debouncing.
type Watcher struct {
	fsWatcher     *fsnotify.Watcher
	debouncer     *Debouncer
	ignoreChecker IgnoreChecker
	hashes        *contentHashes
	rootDir       string
	changes       chan ChangeSet
	logger        *slog.Logger
}

// NewWatcher creates a recursive watcher on the project root. Every directory that is
// not ignored is registered up front.
func NewWatcher(options Options) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	debounce := options.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	rootDir := filepath.Clean(options.RootDir)

	w := &Watcher{
		fsWatcher:     fsWatcher,
		debouncer:     NewDebouncer(debounce),
		ignoreChecker: options.Ignore,
		hashes:        newContentHashes(),
		rootDir:       rootDir,
		changes:       make(chan ChangeSet, 16),
		logger:        logger,
	}

	err = filepath.WalkDir(rootDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // Skip entries that can't be read
		}
		if !d.IsDir() {
			return nil
		}
		if path != rootDir && w.ignoreChecker.ShouldIgnoreDir(path) {
			return filepath.SkipDir
		}
		if watchErr := fsWatcher.Add(path); watchErr != nil {
			w.logger.Warn("failed to watch directory", "path", path, "error", watchErr)
		}
		return nil
	})
	if err != nil {
		fsWatcher.Close()
		return nil, err
	}

	return w, nil
}

// Changes returns the channel that receives one ChangeSet per debounced batch.
func (w *Watcher) Changes() <-chan ChangeSet {
	return w.changes
}

// Start listens for file system events until ctx is done or the watcher is closed.
// Call this in a goroutine.
func (w *Watcher) Start(ctx context.Context) {
	go w.forward(ctx)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

// forward turns debounced batches into change sets.
func (w *Watcher) forward(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case batch := <-w.debouncer.Output():
			set := classify(batch, w.rootDir, w.hashes)
			if set.Empty() {
				continue
			}
			w.logger.Debug("change batch",
				"added", len(set.Added),
				"deleted", len(set.Deleted),
				"moved_from", len(set.MovedFrom),
				"imported", len(set.Imported),
				"packages_changed", set.PackagesChanged,
				"settings_changed", set.SettingsChanged,
			)
			select {
			case w.changes <- set:
			case <-ctx.Done():
				return
			}
		}
	}
}

// handleEvent filters a single fsnotify event and feeds it to the debouncer.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	// If a new directory was created, start watching it
	if event.Has(fsnotify.Create) {
		info, err := os.Stat(path)
		if err == nil && info.IsDir() {
			if !w.ignoreChecker.ShouldIgnoreDir(path) {
				if err := w.fsWatcher.Add(path); err != nil {
					w.logger.Warn("failed to watch new directory", "path", path, "error", err)
				}
			}
			return // Don't emit events for directory creation
		}
	}

	if w.ignoreChecker.ShouldIgnore(path) {
		return
	}

	var op EventOp
	switch {
	case event.Has(fsnotify.Create):
		op = OpCreate
	case event.Has(fsnotify.Write):
		op = OpWrite
	case event.Has(fsnotify.Remove):
		op = OpRemove
	case event.Has(fsnotify.Rename):
		op = OpRename
	default:
		return
	}

	w.debouncer.Add(path, op)
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	return w.fsWatcher.Close()
}
