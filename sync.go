package main

import (
	"context"
	"log/slog"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/lexandro/vscodesync/configgen"
	"github.com/lexandro/vscodesync/editor"
	"github.com/lexandro/vscodesync/ignore"
	"github.com/lexandro/vscodesync/index"
	"github.com/lexandro/vscodesync/projectgen"
	"github.com/lexandro/vscodesync/unity"
	"github.com/lexandro/vscodesync/watcher"
)

// coordinator serializes synchronization passes. The watcher loop, the periodic sync
// and the MCP tools all run passes through it, and the module indexes are refreshed
// after every pass that ran.
type coordinator struct {
	mu          sync.Mutex
	editor      *editor.Editor
	ignore      *ignore.Matcher
	moduleIndex *index.ModuleIndex
	searchIndex *index.SearchIndex
	logger      *slog.Logger
}

func newCoordinator(p *project, moduleIndex *index.ModuleIndex, searchIndex *index.SearchIndex) *coordinator {
	return &coordinator{
		editor:      p.editor,
		ignore:      p.ignore,
		moduleIndex: moduleIndex,
		searchIndex: searchIndex,
		logger:      p.logger,
	}
}

// Start creates the solution and the config files when they are missing and fills
// the module indexes.
func (c *coordinator) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.editor.CreateIfDoesntExist(ctx); err != nil {
		return err
	}
	c.refresh()
	return nil
}

// SyncAll runs a full pass.
func (c *coordinator) SyncAll(ctx context.Context) (projectgen.Report, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	report, err := c.editor.SyncAll(ctx)
	if err != nil {
		return report, err
	}
	c.refresh()
	return report, nil
}

// SyncPaths runs an incremental pass for changed and reimported asset paths.
func (c *coordinator) SyncPaths(ctx context.Context, changed []string, reimported []string) (bool, projectgen.Report, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ran, report, err := c.editor.SyncIfNeeded(ctx, changed, nil, nil, nil, reimported)
	if err != nil || !ran {
		return ran, report, err
	}
	c.refresh()
	return ran, report, nil
}

// RegenerateConfig writes the enabled config files.
func (c *coordinator) RegenerateConfig() configgen.Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editor.RegenerateConfig()
}

// ApplyChanges runs the pass a watcher batch calls for. A package manifest change or
// a build settings change invalidates every module, so both run a full pass.
func (c *coordinator) ApplyChanges(ctx context.Context, changes watcher.ChangeSet) (bool, projectgen.Report, error) {
	if c.reloadIgnoreRules(changes) {
		report, err := c.SyncAll(ctx)
		return true, report, err
	}
	if changes.PackagesChanged {
		c.logger.Info("package manifest changed, running full sync")
		report, err := c.SyncAll(ctx)
		return true, report, err
	}
	if settingsChanged(changes) {
		c.logger.Info("build settings changed, running full sync")
		report, err := c.SyncAll(ctx)
		return true, report, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ran, report, err := c.editor.SyncIfNeeded(ctx, changes.Added, changes.Deleted, nil, changes.MovedFrom, changes.Imported)
	if err != nil || !ran {
		return ran, report, err
	}
	c.refresh()
	return ran, report, nil
}

// reloadIgnoreRules reloads the ignore matcher when an ignore file changed.
func (c *coordinator) reloadIgnoreRules(changes watcher.ChangeSet) bool {
	for _, list := range [][]string{changes.Added, changes.Deleted, changes.Imported} {
		for _, path := range list {
			baseName := filepath.Base(path)
			if baseName == ".gitignore" || baseName == ignore.IgnoreFileName {
				c.ignore.Reload()
				c.logger.Info("reloaded ignore rules", "trigger", baseName)
				return true
			}
		}
	}
	return false
}

// settingsChanged reports whether the batch touches the player settings or the
// editor version.
func settingsChanged(changes watcher.ChangeSet) bool {
	if changes.SettingsChanged {
		return true
	}
	for _, list := range [][]string{changes.Added, changes.Deleted, changes.Imported} {
		if slices.ContainsFunc(list, unity.IsSettingsFile) {
			return true
		}
	}
	return false
}

// refresh rebuilds the module indexes. Callers hold c.mu.
func (c *coordinator) refresh() {
	refreshIndexes(c.editor.Projects(), c.moduleIndex, c.searchIndex, c.logger)
}

// handleWatcherChanges runs a pass for every batch reported by the watcher.
func handleWatcherChanges(ctx context.Context, fileWatcher *watcher.Watcher, c *coordinator, logger *slog.Logger) {
	for {
		var changes watcher.ChangeSet
		select {
		case <-ctx.Done():
			return
		case changes = <-fileWatcher.Changes():
		}

		ran, report, err := c.ApplyChanges(ctx, changes)
		if err != nil {
			logger.Error("sync after change failed", "error", err)
			continue
		}
		if !ran {
			logger.Debug("changes not relevant for project files",
				"added", len(changes.Added),
				"deleted", len(changes.Deleted),
				"imported", len(changes.Imported),
			)
			continue
		}
		logger.Debug("sync after change", "state", report.State, "written", len(report.Written))
	}
}

// runPeriodicSync starts a background loop that runs a full pass at the given interval,
// catching changes the watcher missed. Only documents whose content differs are written.
// It runs until ctx is done.
func runPeriodicSync(ctx context.Context, interval time.Duration, c *coordinator, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("periodic sync started", "interval", interval)

	for {
		select {
		case <-ctx.Done():
			logger.Info("periodic sync stopped")
			return
		case <-ticker.C:
			report, err := c.SyncAll(ctx)
			if err != nil {
				logger.Error("periodic sync failed", "error", err)
				continue
			}
			if len(report.Written) > 0 || len(report.Failed) > 0 {
				logger.Info("periodic sync complete",
					"written", len(report.Written),
					"failed", len(report.Failed),
					"duration", report.Duration,
				)
			} else {
				logger.Debug("periodic sync complete, project files are in sync", "duration", report.Duration)
			}
		}
	}
}
