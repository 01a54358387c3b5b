package inventory

import (
	"io/fs"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/lexandro/vscodesync/config"
	"github.com/lexandro/vscodesync/ignore"
	"github.com/lexandro/vscodesync/packages"
	"github.com/lexandro/vscodesync/pathutil"
	"github.com/lexandro/vscodesync/rsp"
)

// Predefined module names, in the order they are reported.
const (
	AssemblyCSharpFirstPass       = "Assembly-CSharp-firstpass"
	AssemblyCSharp                = "Assembly-CSharp"
	AssemblyCSharpEditorFirstPass = "Assembly-CSharp-Editor-firstpass"
	AssemblyCSharpEditor          = "Assembly-CSharp-Editor"
)

var predefinedNames = []string{
	AssemblyCSharpFirstPass,
	AssemblyCSharp,
	AssemblyCSharpEditorFirstPass,
	AssemblyCSharpEditor,
}

// firstPassPrefixes are the lowercase asset folders compiled before everything else.
var firstPassPrefixes = []string{
	"assets/plugins/",
	"assets/standard assets/",
	"assets/pro standard assets/",
}

const (
	assetsRoot       = "Assets"
	responseFileName = "csc.rsp"
)

// ScannerOptions configures a Scanner.
type ScannerOptions struct {
	ProjectDir string
	Packages   *packages.Registry
	// Ignore filters the asset walk. Nil disables filtering beyond Unity's hidden names.
	Ignore                     *ignore.Matcher
	Inclusion                  config.PackageInclusion
	AdditionalExtensions       []string
	LanguageVersion            string
	RulesetPath                string
	ApiCompatibilityLevel      string
	ReferenceAssemblies        []string
	SystemReferenceDirectories []string
	Logger                     *slog.Logger
}

// Scanner is the filesystem Provider. It walks Assets/ and every resolved package,
// reads assembly definitions and assigns scripts to modules the way the editor does.
// Every Assemblies call rescans; the other queries use the latest scan.
type Scanner struct {
	options ScannerOptions
	logger  *slog.Logger

	mu        sync.Mutex
	inclusion config.PackageInclusion
	apiLevel  string
	latest    *snapshot
}

type precompiled struct {
	assetPath  string
	diskPath   string
	editorOnly bool
}

// snapshot is the result of one walk over the project.
type snapshot struct {
	assets      []string
	definitions []*definition
	byDir       map[string]*definition // key: lowercase asset dir
	byGUID      map[string]*definition
	byName      map[string]*definition
	dlls        []precompiled
	// packageRoots maps lowercase "packages/<name>" to the package directory on disk.
	packageRoots map[string]string
}

// NewScanner creates a scanner for the project in options.ProjectDir.
func NewScanner(options ScannerOptions) *Scanner {
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if options.Packages == nil {
		options.Packages = packages.NewRegistry(options.ProjectDir, logger)
	}
	return &Scanner{
		options:   options,
		logger:    logger,
		inclusion: options.Inclusion,
		apiLevel:  options.ApiCompatibilityLevel,
	}
}

// SetInclusion changes which package origins take part in generation.
func (s *Scanner) SetInclusion(inclusion config.PackageInclusion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inclusion = inclusion
}

// SetApiCompatibilityLevel changes the level stamped on modules built by later scans.
func (s *Scanner) SetApiCompatibilityLevel(level string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apiLevel = level
}

// Inclusion returns the active package inclusion set.
func (s *Scanner) Inclusion() config.PackageInclusion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inclusion
}

// ProjectSupportedExtensions returns the configured additional extensions without dots.
func (s *Scanner) ProjectSupportedExtensions() []string {
	result := make([]string, 0, len(s.options.AdditionalExtensions))
	for _, ext := range s.options.AdditionalExtensions {
		if ext = strings.TrimPrefix(strings.TrimSpace(ext), "."); ext != "" {
			result = append(result, ext)
		}
	}
	return result
}

// Assemblies rescans the project and returns the modules owning at least one source
// file accepted by shouldInclude.
func (s *Scanner) Assemblies(shouldInclude func(path string) bool) []*Module {
	snap := s.scan()
	s.mu.Lock()
	s.latest = snap
	s.mu.Unlock()

	all := s.buildModules(snap)
	result := make([]*Module, 0, len(all))
	for _, module := range all {
		for _, source := range module.SourceFiles {
			if shouldInclude == nil || shouldInclude(source) {
				result = append(result, module)
				break
			}
		}
	}
	return result
}

// AllAssetPaths returns the assets found by the latest scan.
func (s *Scanner) AllAssetPaths() []string {
	snap := s.snapshot()
	result := make([]string, len(snap.assets))
	copy(result, snap.assets)
	return result
}

// AssemblyNameFromScriptPath returns "<Module>.dll" for the module owning path.
func (s *Scanner) AssemblyNameFromScriptPath(assetPath string) string {
	name := s.snapshot().owner(normalizeAssetPath(assetPath))
	if name == "" {
		return ""
	}
	return name + ".dll"
}

// ResolveAssetPath maps "Packages/<name>/..." to the package directory on disk. Other
// paths are returned unchanged.
func (s *Scanner) ResolveAssetPath(assetPath string) string {
	assetPath = normalizeAssetPath(assetPath)
	rootKey, rest, ok := splitPackagePath(assetPath)
	if !ok {
		return assetPath
	}
	disk, ok := s.snapshot().packageRoots[rootKey]
	if !ok {
		return assetPath
	}
	if rest == "" {
		return disk
	}
	return filepath.Join(disk, filepath.FromSlash(rest))
}

// ParseResponseFile parses a csc.rsp file.
func (s *Scanner) ParseResponseFile(path string, projectDir string, systemReferenceDirs []string) rsp.Data {
	return rsp.Parse(s.ResolveAssetPath(path), projectDir, systemReferenceDirs)
}

// SystemReferenceDirectories returns the configured directories searched for
// response file references. They do not vary by compatibility level.
func (s *Scanner) SystemReferenceDirectories(apiCompatibilityLevel string) []string {
	return s.options.SystemReferenceDirectories
}

// IsInternalizedPackagePath reports whether path belongs to a package whose origin is
// not selected for generation.
func (s *Scanner) IsInternalizedPackagePath(path string) bool {
	info := s.options.Packages.FindForAssetPath(normalizeAssetPath(path))
	if info == nil {
		return false
	}
	return !s.Inclusion().Includes(info.Source)
}

// ResetPackageInfoCache drops the package origin cache.
func (s *Scanner) ResetPackageInfoCache() {
	s.options.Packages.Reset()
}

// snapshot returns the latest scan, scanning once if there is none yet.
func (s *Scanner) snapshot() *snapshot {
	s.mu.Lock()
	snap := s.latest
	s.mu.Unlock()
	if snap != nil {
		return snap
	}

	snap = s.scan()
	s.mu.Lock()
	if s.latest == nil {
		s.latest = snap
	}
	snap = s.latest
	s.mu.Unlock()
	return snap
}

type scanRoot struct {
	assetRoot string
	diskDir   string
}

func (s *Scanner) roots() []scanRoot {
	roots := []scanRoot{{assetRoot: assetsRoot, diskDir: filepath.Join(s.options.ProjectDir, assetsRoot)}}
	for _, info := range s.options.Packages.Packages() {
		if info.ResolvedPath == "" {
			continue
		}
		roots = append(roots, scanRoot{assetRoot: info.AssetRoot(), diskDir: info.ResolvedPath})
	}
	return roots
}

// scan walks every root and collects assets, module definitions and precompiled assemblies.
func (s *Scanner) scan() *snapshot {
	snap := &snapshot{
		byDir:        make(map[string]*definition),
		byGUID:       make(map[string]*definition),
		byName:       make(map[string]*definition),
		packageRoots: make(map[string]string),
	}

	for _, root := range s.roots() {
		if root.assetRoot != assetsRoot {
			snap.packageRoots[strings.ToLower(root.assetRoot)] = root.diskDir
		}
		s.walkRoot(snap, root)
	}

	s.logger.Debug("project scanned",
		"assets", len(snap.assets),
		"definitions", len(snap.definitions),
		"precompiled", len(snap.dlls),
	)
	return snap
}

func (s *Scanner) walkRoot(snap *snapshot, root scanRoot) {
	err := filepath.WalkDir(root.diskDir, func(diskPath string, d fs.DirEntry, err error) error {
		if err != nil {
			if diskPath == root.diskDir {
				return fs.SkipAll
			}
			s.logger.Debug("skipping unreadable path", "path", diskPath, "error", err)
			return nil
		}

		rel, relErr := filepath.Rel(root.diskDir, diskPath)
		if relErr != nil {
			return nil
		}
		assetPath := root.assetRoot
		if rel != "." {
			assetPath += "/" + filepath.ToSlash(rel)
		}

		if d.IsDir() {
			if diskPath == root.diskDir {
				return nil
			}
			if ignore.IsHiddenName(d.Name()) || s.ignored(assetPath, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if ignore.IsHiddenName(d.Name()) || strings.EqualFold(filepath.Ext(d.Name()), ".meta") || s.ignored(assetPath, false) {
			return nil
		}
		snap.assets = append(snap.assets, assetPath)

		switch strings.ToLower(filepath.Ext(d.Name())) {
		case ".asmdef":
			def, err := readDefinition(diskPath, assetPath)
			if err != nil {
				s.logger.Warn("invalid assembly definition", "path", assetPath, "error", err)
				return nil
			}
			s.addDefinition(snap, def)
		case ".dll":
			snap.dlls = append(snap.dlls, precompiled{
				assetPath:  assetPath,
				diskPath:   diskPath,
				editorOnly: inEditorFolder(assetPath),
			})
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("walking project root failed", "root", root.assetRoot, "error", err)
	}
}

func (s *Scanner) ignored(assetPath string, isDir bool) bool {
	return s.options.Ignore != nil && s.options.Ignore.ShouldIgnoreRelative(assetPath, isDir)
}

func (s *Scanner) addDefinition(snap *snapshot, def *definition) {
	nameKey := strings.ToLower(def.Name)
	if existing, ok := snap.byName[nameKey]; ok {
		s.logger.Warn("duplicate assembly definition name",
			"name", def.Name,
			"path", def.assetPath,
			"first", existing.assetPath,
		)
		return
	}
	dirKey := strings.ToLower(def.dir())
	if existing, ok := snap.byDir[dirKey]; ok {
		s.logger.Warn("multiple assembly definitions in one folder",
			"path", def.assetPath,
			"first", existing.assetPath,
		)
		return
	}

	snap.definitions = append(snap.definitions, def)
	snap.byName[nameKey] = def
	snap.byDir[dirKey] = def
	if def.guid != "" {
		snap.byGUID[def.guid] = def
	}
}

// owner returns the module name an asset belongs to, or "".
func (snap *snapshot) owner(assetPath string) string {
	if def := snap.definitionFor(assetPath); def != nil {
		return def.Name
	}
	lower := strings.ToLower(assetPath)
	if !strings.HasPrefix(lower, "assets/") {
		return ""
	}
	return predefinedModuleFor(assetPath)
}

// definitionFor finds the nearest assembly definition in the folders enclosing assetPath.
func (snap *snapshot) definitionFor(assetPath string) *definition {
	dir := path.Dir(assetPath)
	for {
		if def, ok := snap.byDir[strings.ToLower(dir)]; ok {
			return def
		}
		if !strings.Contains(dir, "/") {
			return nil
		}
		dir = path.Dir(dir)
	}
}

// predefinedModuleFor applies the editor's folder rules for scripts without an
// assembly definition.
func predefinedModuleFor(assetPath string) string {
	lower := strings.ToLower(assetPath)
	firstPass := false
	for _, prefix := range firstPassPrefixes {
		if strings.HasPrefix(lower, prefix) {
			firstPass = true
			break
		}
	}
	editor := inEditorFolder(assetPath)

	switch {
	case firstPass && editor:
		return AssemblyCSharpEditorFirstPass
	case firstPass:
		return AssemblyCSharpFirstPass
	case editor:
		return AssemblyCSharpEditor
	default:
		return AssemblyCSharp
	}
}

// inEditorFolder reports whether any folder of assetPath is named "Editor".
func inEditorFolder(assetPath string) bool {
	segments := strings.Split(assetPath, "/")
	for _, segment := range segments[:len(segments)-1] {
		if strings.EqualFold(segment, "Editor") {
			return true
		}
	}
	return false
}

func isPredefinedEditor(name string) bool {
	return name == AssemblyCSharpEditor || name == AssemblyCSharpEditorFirstPass
}

// splitPackagePath splits "Packages/<name>/rest" into the lowercase root key and rest.
func splitPackagePath(assetPath string) (string, string, bool) {
	if !strings.HasPrefix(strings.ToLower(assetPath), "packages/") {
		return "", "", false
	}
	parts := strings.SplitN(assetPath, "/", 3)
	if len(parts) < 2 || parts[1] == "" {
		return "", "", false
	}
	rest := ""
	if len(parts) == 3 {
		rest = parts[2]
	}
	return strings.ToLower(parts[0] + "/" + parts[1]), rest, true
}

func normalizeAssetPath(assetPath string) string {
	return strings.TrimPrefix(strings.ReplaceAll(assetPath, "\\", "/"), "./")
}

// responseFilesFor lists the response files that exist for a module whose definition
// lives in dir ("" for predefined modules).
func responseFilesFor(assetSet map[string]struct{}, dir string) []string {
	var files []string
	candidates := []string{assetsRoot + "/" + responseFileName}
	if dir != "" {
		candidates = append(candidates, dir+"/"+responseFileName)
	}
	for _, candidate := range pathutil.Distinct(candidates) {
		if _, ok := assetSet[strings.ToLower(candidate)]; ok {
			files = append(files, candidate)
		}
	}
	return files
}
