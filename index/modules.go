// Package index keeps the modules of the last synchronization pass searchable, by glob
// through ModuleIndex and by full-text query through SearchIndex.
package index

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// ModuleEntry describes one generated module.
type ModuleEntry struct {
	Name        string    // Module (assembly) name
	ProjectFile string    // Absolute path of the generated project document
	SourceFiles []string  // Asset paths of the sources (forward slashes)
	Defines     []string  // Merged defines written into the document
	References  []string  // Names of referenced modules
	Written     bool      // Whether the last pass rewrote the document
	UpdatedAt   time.Time // When the entry was last refreshed
}

// ModuleIndex maintains an in-memory index of modules for glob searching.
// It uses a map for lookups and a sorted name slice for stable iteration.
type ModuleIndex struct {
	mu          sync.RWMutex
	modules     map[string]*ModuleEntry
	sortedNames []string
}

// NewModuleIndex creates a new empty module index.
func NewModuleIndex() *ModuleIndex {
	return &ModuleIndex{
		modules:     make(map[string]*ModuleEntry),
		sortedNames: make([]string, 0),
	}
}

// Put adds or updates a module.
func (mi *ModuleIndex) Put(entry *ModuleEntry) {
	mi.mu.Lock()
	defer mi.mu.Unlock()

	_, exists := mi.modules[entry.Name]
	mi.modules[entry.Name] = entry

	if !exists {
		mi.sortedNames = append(mi.sortedNames, entry.Name)
		sort.Strings(mi.sortedNames)
	}
}

// Remove drops a module by name.
func (mi *ModuleIndex) Remove(name string) {
	mi.mu.Lock()
	defer mi.mu.Unlock()

	if _, exists := mi.modules[name]; !exists {
		return
	}
	delete(mi.modules, name)

	idx := sort.SearchStrings(mi.sortedNames, name)
	if idx < len(mi.sortedNames) && mi.sortedNames[idx] == name {
		mi.sortedNames = append(mi.sortedNames[:idx], mi.sortedNames[idx+1:]...)
	}
}

// Get returns the module named name, or nil.
func (mi *ModuleIndex) Get(name string) *ModuleEntry {
	mi.mu.RLock()
	defer mi.mu.RUnlock()
	return mi.modules[name]
}

// Count returns the number of indexed modules.
func (mi *ModuleIndex) Count() int {
	mi.mu.RLock()
	defer mi.mu.RUnlock()
	return len(mi.modules)
}

// SourceCount returns the number of source files across all modules.
func (mi *ModuleIndex) SourceCount() int {
	mi.mu.RLock()
	defer mi.mu.RUnlock()

	total := 0
	for _, module := range mi.modules {
		total += len(module.SourceFiles)
	}
	return total
}

// ModuleMatch is a module found by SearchByGlob. MatchedSources lists the source files
// that matched; it is empty when only the module name matched.
type ModuleMatch struct {
	Module         *ModuleEntry
	MatchedSources []string
}

// SearchByGlob returns modules whose name or any source file matches a doublestar
// pattern, in name order.
func (mi *ModuleIndex) SearchByGlob(pattern string, maxResults int) ([]ModuleMatch, error) {
	mi.mu.RLock()
	defer mi.mu.RUnlock()

	if maxResults <= 0 {
		maxResults = 50
	}

	// Normalize pattern to forward slashes
	pattern = strings.ReplaceAll(pattern, "\\", "/")

	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob pattern: %s", pattern)
	}

	var results []ModuleMatch
	for _, name := range mi.sortedNames {
		if len(results) >= maxResults {
			break
		}
		module := mi.modules[name]

		match := ModuleMatch{Module: module}
		nameMatched, _ := doublestar.Match(pattern, name)
		for _, source := range module.SourceFiles {
			if ok, _ := doublestar.Match(pattern, source); ok {
				match.MatchedSources = append(match.MatchedSources, source)
			}
		}
		if nameMatched || len(match.MatchedSources) > 0 {
			results = append(results, match)
		}
	}

	return results, nil
}

// All returns every module in name order.
func (mi *ModuleIndex) All() []*ModuleEntry {
	mi.mu.RLock()
	defer mi.mu.RUnlock()

	result := make([]*ModuleEntry, 0, len(mi.sortedNames))
	for _, name := range mi.sortedNames {
		result = append(result, mi.modules[name])
	}
	return result
}

// Clear removes all modules from the index.
func (mi *ModuleIndex) Clear() {
	mi.mu.Lock()
	defer mi.mu.Unlock()

	mi.modules = make(map[string]*ModuleEntry)
	mi.sortedNames = make([]string, 0)
}
