package fileio

import (
	"fmt"
	"io/fs"
	"sort"
	"sync"
)

// Memory is an in-memory FileIO. It backs dry-run rendering and counts writes per path.
type Memory struct {
	mu     sync.Mutex
	files  map[string]string
	dirs   map[string]bool
	writes map[string]int

	// WriteErrors makes WriteAllText fail for the given paths.
	WriteErrors map[string]error
	// ReadErrors makes ReadAllText fail for the given paths.
	ReadErrors map[string]error
}

// NewMemory creates an empty in-memory file system.
func NewMemory() *Memory {
	return &Memory{
		files:       make(map[string]string),
		dirs:        make(map[string]bool),
		writes:      make(map[string]int),
		WriteErrors: make(map[string]error),
		ReadErrors:  make(map[string]error),
	}
}

func (m *Memory) Exists(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[path]
	return ok || m.dirs[path]
}

func (m *Memory) ReadAllText(path string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.ReadErrors[path]; ok {
		return "", err
	}
	content, ok := m.files[path]
	if !ok {
		return "", fmt.Errorf("reading %s: %w", path, fs.ErrNotExist)
	}
	return content, nil
}

func (m *Memory) WriteAllText(path string, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes[path]++
	if err, ok := m.WriteErrors[path]; ok {
		return err
	}
	m.files[path] = content
	return nil
}

func (m *Memory) CreateDirectory(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirs[path] = true
	return nil
}

// Remove deletes the file stored at path.
func (m *Memory) Remove(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, path)
}

// Content returns the stored content for path.
func (m *Memory) Content(path string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	content, ok := m.files[path]
	return content, ok
}

// WriteCount returns how many times path was written, failed writes included.
func (m *Memory) WriteCount(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes[path]
}

// TotalWrites returns the number of write calls across all paths.
func (m *Memory) TotalWrites() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.writes {
		total += n
	}
	return total
}

// ResetWriteCounts clears the write counters but keeps file contents.
func (m *Memory) ResetWriteCounts() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes = make(map[string]int)
}

// Paths returns all stored file paths in sorted order.
func (m *Memory) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
