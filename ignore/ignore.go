package ignore

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/denormal/go-gitignore"
)

// IgnoreFileName is the project specific ignore file, read next to .gitignore.
const IgnoreFileName = ".vscodesyncignore"

// Matcher determines whether a path is excluded from the asset tree.
// It combines default patterns, .gitignore rules, .vscodesyncignore rules, and custom patterns.
// Thread-safe: Reload() acquires a write lock, the Should* methods acquire a read lock.
type Matcher struct {
	mu             sync.RWMutex
	rootDir        string
	gitIgnore      gitignore.GitIgnore
	projectIgnore  gitignore.GitIgnore
	customPatterns []string
}

// MatcherOptions configures the ignore matcher.
type MatcherOptions struct {
	RootDir        string
	CustomPatterns []string
}

// NewMatcher creates an ignore matcher rooted at the Unity project directory.
func NewMatcher(options MatcherOptions) *Matcher {
	matcher := &Matcher{
		rootDir:        options.RootDir,
		customPatterns: options.CustomPatterns,
	}
	matcher.gitIgnore = loadIgnoreFile(filepath.Join(options.RootDir, ".gitignore"), options.RootDir)
	matcher.projectIgnore = loadIgnoreFile(filepath.Join(options.RootDir, IgnoreFileName), options.RootDir)
	return matcher
}

// ShouldIgnore returns true if the given absolute path should be excluded.
func (m *Matcher) ShouldIgnore(absolutePath string) bool {
	relativePath, err := filepath.Rel(m.rootDir, absolutePath)
	if err != nil {
		relativePath = absolutePath
	}

	isDir := false
	if info, err := os.Stat(absolutePath); err == nil {
		isDir = info.IsDir()
	}
	return m.ShouldIgnoreRelative(filepath.ToSlash(relativePath), isDir)
}

// ShouldIgnoreRelative checks a project relative slash path such as
// "Assets/Plugins/Foo.dll" or "Packages/com.foo/Runtime". The path does not need to
// exist on disk.
func (m *Matcher) ShouldIgnoreRelative(relativePath string, isDir bool) bool {
	relativePath = strings.TrimPrefix(filepath.ToSlash(relativePath), "./")

	if matchesDefaultPatterns(relativePath) {
		return true
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.gitIgnore != nil {
		match := m.gitIgnore.Relative(relativePath, isDir)
		if match != nil && match.Ignore() {
			return true
		}
	}
	if m.projectIgnore != nil {
		match := m.projectIgnore.Relative(relativePath, isDir)
		if match != nil && match.Ignore() {
			return true
		}
	}

	return m.matchesCustomPatterns(relativePath)
}

// ShouldIgnoreDir returns true if a directory should be skipped entirely during traversal.
// Unity hides folders starting with "." or ending with "~" from the asset database.
func (m *Matcher) ShouldIgnoreDir(absolutePath string) bool {
	dirName := filepath.Base(absolutePath)
	if IsHiddenName(dirName) {
		return true
	}
	return m.ShouldIgnore(absolutePath)
}

// IsHiddenName reports whether Unity skips a file or folder with this name on import.
func IsHiddenName(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~")
}

// matchesDefaultPatterns checks the hardcoded default patterns.
func matchesDefaultPatterns(relativePath string) bool {
	parts := strings.Split(relativePath, "/")
	baseNameLower := strings.ToLower(parts[len(parts)-1])

	for _, dir := range RootIgnoreDirs {
		if strings.EqualFold(parts[0], dir) {
			return true
		}
	}

	for _, pattern := range DefaultIgnorePatterns {
		patternLower := strings.ToLower(pattern)
		if !strings.ContainsAny(pattern, "*?[") {
			for _, part := range parts {
				if strings.ToLower(part) == patternLower {
					return true
				}
			}
			continue
		}

		if matched, err := doublestar.Match(patternLower, baseNameLower); err == nil && matched {
			return true
		}
	}
	return false
}

// matchesCustomPatterns checks user-provided doublestar patterns against the relative
// path and the basename.
func (m *Matcher) matchesCustomPatterns(relativePath string) bool {
	baseName := filepath.Base(relativePath)
	for _, pattern := range m.customPatterns {
		if matched, err := doublestar.Match(pattern, relativePath); err == nil && matched {
			return true
		}
		if matched, err := doublestar.Match(pattern, baseName); err == nil && matched {
			return true
		}
	}
	return false
}

// Reload re-reads .gitignore and .vscodesyncignore from disk.
// Used when the watcher detects changes to these files.
func (m *Matcher) Reload() {
	newGitIgnore := loadIgnoreFile(filepath.Join(m.rootDir, ".gitignore"), m.rootDir)
	newProjectIgnore := loadIgnoreFile(filepath.Join(m.rootDir, IgnoreFileName), m.rootDir)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.gitIgnore = newGitIgnore
	m.projectIgnore = newProjectIgnore
}

// loadIgnoreFile reads an ignore file and creates a GitIgnore matcher from it.
// Uses io.Reader approach to ensure the file handle is properly closed on Windows.
func loadIgnoreFile(filePath string, baseDir string) gitignore.GitIgnore {
	f, err := os.Open(filePath)
	if err != nil {
		return nil
	}
	defer f.Close()

	return gitignore.New(f, baseDir, nil)
}
