package watcher

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/lexandro/vscodesync/unity"
	"github.com/zeebo/xxh3"
)

// lockFiles change when packages are added, removed or updated.
var lockFiles = map[string]bool{
	"Packages/manifest.json":      true,
	"Packages/packages-lock.json": true,
}

// ChangeSet is one debounced batch expressed as the change lists of an incremental
// pass. Paths are project relative with forward slashes.
type ChangeSet struct {
	Added     []string
	Deleted   []string
	MovedFrom []string
	Imported  []string
	// PackagesChanged is set when the package manifest or lock file changed.
	PackagesChanged bool
	// SettingsChanged is set when the player settings or the editor version changed.
	SettingsChanged bool
}

// Empty reports whether the set carries no change.
func (c ChangeSet) Empty() bool {
	return len(c.Added) == 0 && len(c.Deleted) == 0 && len(c.MovedFrom) == 0 &&
		len(c.Imported) == 0 && !c.PackagesChanged && !c.SettingsChanged
}

// contentHashes remembers the xxh3 hash of files seen in write events, so saves
// that leave the content untouched are not reported.
type contentHashes struct {
	mu     sync.Mutex
	hashes map[string]uint64
}

func newContentHashes() *contentHashes {
	return &contentHashes{hashes: make(map[string]uint64)}
}

// changed hashes the file at path and reports whether it differs from the last hash.
// Unreadable files count as changed.
func (c *contentHashes) changed(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		c.forget(path)
		return true
	}
	sum := xxh3.Hash(data)

	c.mu.Lock()
	defer c.mu.Unlock()
	previous, seen := c.hashes[path]
	c.hashes[path] = sum
	return !seen || previous != sum
}

func (c *contentHashes) forget(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.hashes, path)
}

// classify turns a batch of absolute-path events into a ChangeSet.
func classify(batch []DebouncedEvent, rootDir string, hashes *contentHashes) ChangeSet {
	var set ChangeSet
	for _, event := range batch {
		rel, err := filepath.Rel(rootDir, event.Path)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		rel = filepath.ToSlash(rel)
		if lockFiles[rel] {
			set.PackagesChanged = true
			continue
		}
		if unity.IsSettingsFile(rel) {
			if event.Op != OpWrite || hashes.changed(event.Path) {
				set.SettingsChanged = true
			}
			continue
		}

		switch event.Op {
		case OpCreate:
			hashes.changed(event.Path)
			set.Added = append(set.Added, rel)
		case OpWrite:
			if hashes.changed(event.Path) {
				set.Imported = append(set.Imported, rel)
			}
		case OpRemove:
			hashes.forget(event.Path)
			set.Deleted = append(set.Deleted, rel)
		case OpRename:
			hashes.forget(event.Path)
			set.MovedFrom = append(set.MovedFrom, rel)
		}
	}
	return set
}
