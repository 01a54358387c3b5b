package packages

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Source is the origin a package was installed from.
type Source string

const (
	SourceUnknown      Source = "unknown"
	SourceEmbedded     Source = "embedded"
	SourceLocal        Source = "local"
	SourceRegistry     Source = "registry"
	SourceGit          Source = "git"
	SourceBuiltIn      Source = "builtin"
	SourceLocalTarball Source = "local-tarball"
)

// ParseSource maps a lock file "source" value to a Source.
func ParseSource(value string) Source {
	switch Source(strings.ToLower(value)) {
	case SourceEmbedded:
		return SourceEmbedded
	case SourceLocal:
		return SourceLocal
	case SourceRegistry:
		return SourceRegistry
	case SourceGit:
		return SourceGit
	case SourceBuiltIn:
		return SourceBuiltIn
	case SourceLocalTarball:
		return SourceLocalTarball
	default:
		return SourceUnknown
	}
}

// Info describes one installed package.
type Info struct {
	Name    string
	Version string
	Source  Source
	// ResolvedPath is the directory holding the package contents, empty when
	// the package has no files on disk (built-in modules).
	ResolvedPath string
}

// AssetRoot returns the virtual asset path prefix of the package, e.g. "Packages/com.foo".
func (i *Info) AssetRoot() string {
	return "Packages/" + i.Name
}

const (
	lockFileName     = "packages-lock.json"
	manifestFileName = "package.json"
)

type lockFile struct {
	Dependencies map[string]lockEntry `json:"dependencies"`
}

type lockEntry struct {
	Version string `json:"version"`
	Source  string `json:"source"`
}

type packageManifest struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Registry answers "which package does this asset path belong to".
// Lookups are cached per package prefix until Reset is called.
type Registry struct {
	mu         sync.Mutex
	projectDir string
	logger     *slog.Logger

	loaded bool
	byName map[string]*Info // key: lowercase package name
	cache  map[string]*Info // key: lowercase "packages/<name>", nil value for misses
}

// NewRegistry creates a registry for the Unity project at projectDir.
func NewRegistry(projectDir string, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		projectDir: projectDir,
		logger:     logger,
		cache:      make(map[string]*Info),
	}
}

// FindForAssetPath returns the package owning assetPath, or nil when the path is not
// inside a package.
func (r *Registry) FindForAssetPath(assetPath string) *Info {
	key, name, ok := packageKey(assetPath)
	if !ok {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if info, hit := r.cache[key]; hit {
		return info
	}
	r.ensureLoaded()
	info := r.byName[strings.ToLower(name)]
	r.cache[key] = info
	return info
}

// Packages returns all known packages sorted by name.
func (r *Registry) Packages() []*Info {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureLoaded()

	result := make([]*Info, 0, len(r.byName))
	for _, info := range r.byName {
		result = append(result, info)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// Reset drops cached lookups and the parsed lock file so the next lookup observes
// newly installed or removed packages.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaded = false
	r.byName = nil
	r.cache = make(map[string]*Info)
}

// packageKey extracts the lowercase "packages/<name>" prefix and the package name.
func packageKey(assetPath string) (string, string, bool) {
	p := strings.ReplaceAll(assetPath, "\\", "/")
	lower := strings.ToLower(p)
	if !strings.HasPrefix(lower, "packages/") {
		return "", "", false
	}
	rest := p[len("packages/"):]
	name := rest
	if idx := strings.Index(rest, "/"); idx >= 0 {
		name = rest[:idx]
	}
	if name == "" {
		return "", "", false
	}
	return "packages/" + strings.ToLower(name), name, true
}

// ensureLoaded reads the lock file and embedded package folders. Caller holds r.mu.
func (r *Registry) ensureLoaded() {
	if r.loaded {
		return
	}
	r.loaded = true
	r.byName = make(map[string]*Info)

	packagesDir := filepath.Join(r.projectDir, "Packages")

	data, err := os.ReadFile(filepath.Join(packagesDir, lockFileName))
	if err == nil {
		var lock lockFile
		if err := json.Unmarshal(data, &lock); err != nil {
			r.logger.Warn("parsing package lock file failed", "error", err)
		}
		for name, entry := range lock.Dependencies {
			info := &Info{Name: name, Version: entry.Version, Source: ParseSource(entry.Source)}
			info.ResolvedPath = r.resolvePath(info)
			r.byName[strings.ToLower(name)] = info
		}
	} else if !os.IsNotExist(err) {
		r.logger.Warn("reading package lock file failed", "error", err)
	}

	// Embedded packages are folders with a package.json directly under Packages/.
	entries, err := os.ReadDir(packagesDir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(packagesDir, entry.Name())
		manifest, err := readManifest(dir)
		if err != nil {
			continue
		}
		name := manifest.Name
		if name == "" {
			name = entry.Name()
		}
		key := strings.ToLower(name)
		if existing, ok := r.byName[key]; ok {
			if existing.ResolvedPath == "" {
				existing.ResolvedPath = dir
			}
			continue
		}
		r.byName[key] = &Info{
			Name:         name,
			Version:      manifest.Version,
			Source:       SourceEmbedded,
			ResolvedPath: dir,
		}
	}
}

func (r *Registry) resolvePath(info *Info) string {
	packagesDir := filepath.Join(r.projectDir, "Packages")
	switch info.Source {
	case SourceEmbedded:
		dir := filepath.Join(packagesDir, info.Name)
		if isDir(dir) {
			return dir
		}
	case SourceLocal:
		if target, ok := strings.CutPrefix(info.Version, "file:"); ok {
			if !filepath.IsAbs(target) {
				target = filepath.Join(packagesDir, filepath.FromSlash(target))
			}
			if isDir(target) {
				return filepath.Clean(target)
			}
		}
	default:
		matches, _ := filepath.Glob(filepath.Join(r.projectDir, "Library", "PackageCache", info.Name+"@*"))
		if len(matches) > 0 {
			sort.Strings(matches)
			return matches[len(matches)-1]
		}
	}
	return ""
}

func readManifest(dir string) (*packageManifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestFileName))
	if err != nil {
		return nil, err
	}
	var manifest packageManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, err
	}
	return &manifest, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
