// Package projectgen renders the per-module project documents and the solution
// document of a Unity project and keeps them in sync with the build graph.
package projectgen

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/lexandro/vscodesync/config"
	"github.com/lexandro/vscodesync/fileio"
	"github.com/lexandro/vscodesync/inventory"
	"github.com/lexandro/vscodesync/language"
	"github.com/lexandro/vscodesync/pathutil"
	"github.com/lexandro/vscodesync/rsp"
)

// State is the phase of the synchronization driver.
type State int

const (
	Idle State = iota
	Scanning
	NoChange
	FullSync
	IncrementalSync
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Scanning:
		return "scanning"
	case NoChange:
		return "no-change"
	case FullSync:
		return "full-sync"
	case IncrementalSync:
		return "incremental-sync"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// reimportSyncExtensions always trigger a pass when reimported.
var reimportSyncExtensions = []string{".dll", ".asmdef"}

// ContentHook post-processes generated content before it is compared and written.
// Hooks are chained in registration order.
type ContentHook func(path string, content string) string

// BuildSettings are the values of the active build configuration.
type BuildSettings struct {
	ApiCompatibilityLevel string
	UnityVersion          string
	GlobalDefines         []string
}

// SettingsSource returns the current build settings. It is called at the start of
// every pass.
type SettingsSource func() (BuildSettings, error)

// Options configures a Generator.
type Options struct {
	ProjectDir string
	// ProjectName defaults to the base name of ProjectDir.
	ProjectName string
	// ApiCompatibilityLevel is the level of the active build configuration.
	ApiCompatibilityLevel string
	// UnityVersion selects version dependent output such as facade rewriting.
	UnityVersion string
	// GlobalDefines are the active compilation defines added to every module.
	GlobalDefines []string
	// Settings, when set, replaces the three fields above before every pass.
	Settings        SettingsSource
	RestorePackages bool
	ProjectHooks    []ContentHook
	SolutionHooks   []ContentHook
	GUIDs           GUIDGenerator
	Restorer        Restorer
	Logger          *slog.Logger
}

// Report summarizes one synchronization pass.
type Report struct {
	State     State
	Modules   []string
	Written   []string
	Unchanged []string
	Failed    []string
	Restored  []string
	Duration  time.Duration
}

// Generator is the synchronization driver. Passes are not safe to run concurrently;
// callers serialize them.
type Generator struct {
	provider    inventory.Provider
	fio         fileio.FileIO
	options     Options
	projectName string
	guids       GUIDGenerator
	restorer    Restorer
	logger      *slog.Logger

	supportedExtensions []string

	mu         sync.Mutex
	state      State
	lastReport Report
}

// NewGenerator creates a driver writing through fio.
func NewGenerator(provider inventory.Provider, fio fileio.FileIO, options Options) *Generator {
	options.ProjectDir = filepath.Clean(pathutil.NormalizePath(options.ProjectDir))
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	projectName := options.ProjectName
	if projectName == "" {
		projectName = filepath.Base(options.ProjectDir)
	}
	guids := options.GUIDs
	if guids == nil {
		guids = HashGUIDs{}
	}
	restorer := options.Restorer
	if restorer == nil {
		restorer = DotnetRestorer{}
	}
	return &Generator{
		provider:    provider,
		fio:         fio,
		options:     options,
		projectName: projectName,
		guids:       guids,
		restorer:    restorer,
		logger:      logger,
	}
}

// ProjectDir returns the project root.
func (g *Generator) ProjectDir() string {
	return g.options.ProjectDir
}

// ProjectName returns the name used for the solution and workspace files.
func (g *Generator) ProjectName() string {
	return g.projectName
}

// Provider returns the build graph provider.
func (g *Generator) Provider() inventory.Provider {
	return g.provider
}

// ProjectFile returns the project document path of the module named name.
func (g *Generator) ProjectFile(name string) string {
	return filepath.Join(g.options.ProjectDir, name+projectExtension)
}

// SolutionFile returns the solution document path.
func (g *Generator) SolutionFile() string {
	return filepath.Join(g.options.ProjectDir, g.projectName+".sln")
}

// SolutionExists reports whether the solution document is present.
func (g *Generator) SolutionExists() bool {
	return g.fio.Exists(g.SolutionFile())
}

// State returns the current driver state.
func (g *Generator) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// LastReport returns the report of the most recent finished pass.
func (g *Generator) LastReport() Report {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastReport
}

// SetInclusion replaces the package origins taking part in generation. It reports
// false when the provider does not support changing the inclusion set.
func (g *Generator) SetInclusion(inclusion config.PackageInclusion) bool {
	setter, ok := g.provider.(interface {
		SetInclusion(config.PackageInclusion)
	})
	if !ok {
		return false
	}
	setter.SetInclusion(inclusion)
	return true
}

// GenerateAll switches generation for every package origin on or off.
func (g *Generator) GenerateAll(on bool) bool {
	return g.SetInclusion(config.AllPackages(on))
}

// Sync regenerates the solution and every project document.
func (g *Generator) Sync(ctx context.Context) (Report, error) {
	start := time.Now()
	g.setState(Scanning)
	g.setupProjectSupportedExtensions()

	if err := g.loadSettings(); err != nil {
		return g.finish(Report{State: Idle}, start), err
	}
	if _, err := TargetFramework(g.options.ApiCompatibilityLevel); err != nil {
		return g.finish(Report{State: Idle}, start), err
	}

	report := Report{State: FullSync}
	modules := g.provider.Assemblies(g.ShouldFileBePartOfSolution)
	assetParts := g.AssetProjectParts()

	g.syncSolution(modules, &report)
	for _, module := range RelevantModules(modules) {
		if err := g.syncProject(module, assetParts, &report); err != nil {
			return g.finish(report, start), err
		}
	}

	if g.options.RestorePackages {
		g.restore(ctx, &report)
	}

	report = g.finish(report, start)
	g.logger.Info("full sync finished",
		"modules", len(report.Modules),
		"written", len(report.Written),
		"failed", len(report.Failed),
		"duration", report.Duration,
	)
	return report, nil
}

// SyncIfNeeded runs an incremental pass when any affected file is eligible or a
// reimported file is a precompiled assembly or module definition. Only the projects of
// modules owning an affected or reimported file are rewritten; the solution always is.
// It reports whether a pass ran.
func (g *Generator) SyncIfNeeded(ctx context.Context, affected []string, reimported []string) (bool, Report, error) {
	start := time.Now()
	g.setState(Scanning)
	g.setupProjectSupportedExtensions()

	if !g.hasFilesBeenModified(affected, reimported) {
		return false, g.finish(Report{State: NoChange}, start), nil
	}
	if err := g.loadSettings(); err != nil {
		return false, g.finish(Report{State: Idle}, start), err
	}
	if _, err := TargetFramework(g.options.ApiCompatibilityLevel); err != nil {
		return false, g.finish(Report{State: Idle}, start), err
	}

	report := Report{State: IncrementalSync}
	modules := g.provider.Assemblies(g.ShouldFileBePartOfSolution)
	relevant := RelevantModules(modules)
	g.syncSolution(relevant, &report)

	assetParts := g.AssetProjectParts()

	names := make(map[string]bool)
	for _, path := range append(append([]string{}, affected...), reimported...) {
		if name := moduleNameOf(g.provider.AssemblyNameFromScriptPath(path)); name != "" {
			names[name] = true
		}
	}

	for _, module := range relevant {
		if !names[module.Name] {
			continue
		}
		if err := g.syncProject(module, assetParts, &report); err != nil {
			return true, g.finish(report, start), err
		}
	}

	report = g.finish(report, start)
	g.logger.Info("incremental sync finished",
		"modules", len(report.Modules),
		"written", len(report.Written),
		"duration", report.Duration,
	)
	return true, report, nil
}

// loadSettings refreshes the build settings from the settings source and passes the
// level on to the provider.
func (g *Generator) loadSettings() error {
	if g.options.Settings == nil {
		return nil
	}
	settings, err := g.options.Settings()
	if err != nil {
		return fmt.Errorf("loading build settings: %w", err)
	}
	if settings.ApiCompatibilityLevel != g.options.ApiCompatibilityLevel {
		g.logger.Info("api compatibility level changed",
			"from", g.options.ApiCompatibilityLevel,
			"to", settings.ApiCompatibilityLevel,
		)
	}
	g.options.ApiCompatibilityLevel = settings.ApiCompatibilityLevel
	g.options.UnityVersion = settings.UnityVersion
	g.options.GlobalDefines = settings.GlobalDefines

	if setter, ok := g.provider.(interface{ SetApiCompatibilityLevel(string) }); ok {
		setter.SetApiCompatibilityLevel(settings.ApiCompatibilityLevel)
	}
	return nil
}

// ShouldFileBePartOfSolution reports whether file is outside excluded packages and has
// an extension that is listed in projects.
func (g *Generator) ShouldFileBePartOfSolution(file string) bool {
	if g.provider.IsInternalizedPackagePath(file) {
		return false
	}
	return g.hasValidExtension(file)
}

// AssetProjectParts groups the non-source assets by the module they belong to.
func (g *Generator) AssetProjectParts() map[string][]string {
	parts := make(map[string][]string)
	for _, asset := range g.provider.AllAssetPaths() {
		if g.provider.IsInternalizedPackagePath(asset) {
			continue
		}
		ext := pathutil.Extension(asset)
		if !g.isSupportedExtension(ext) || language.ScriptingLanguageFor(ext) != language.None {
			continue
		}
		name := g.provider.AssemblyNameFromScriptPath(asset)
		if name == "" {
			continue
		}
		name = pathutil.FileNameWithoutExtension(name)
		parts[name] = append(parts[name], asset)
	}
	return parts
}

// ParseResponseFiles parses every response file of module. Parse errors are logged and
// the rest of the data is kept.
func (g *Generator) ParseResponseFiles(module *inventory.Module) []rsp.Data {
	systemDirs := g.provider.SystemReferenceDirectories(module.Options.ApiCompatibilityLevel)
	result := make([]rsp.Data, 0, len(module.Options.ResponseFiles))
	for _, file := range module.Options.ResponseFiles {
		data := g.provider.ParseResponseFile(file, g.options.ProjectDir, systemDirs)
		for _, parseErr := range data.Errors {
			g.logger.Error("response file parse error", "file", file, "module", module.Name, "error", parseErr)
		}
		result = append(result, data)
	}
	return result
}

func (g *Generator) syncSolution(modules []*inventory.Module, report *Report) {
	path := g.SolutionFile()
	content := g.SolutionText(modules)
	for _, hook := range g.options.SolutionHooks {
		content = hook(path, content)
	}
	g.writeDocument(path, content, report)
}

func (g *Generator) syncProject(module *inventory.Module, assetParts map[string][]string, report *Report) error {
	content, err := g.ProjectText(module, assetParts, g.ParseResponseFiles(module))
	if err != nil {
		return fmt.Errorf("generating project %s: %w", module.Name, err)
	}
	path := g.ProjectFile(module.Name)
	for _, hook := range g.options.ProjectHooks {
		content = hook(path, content)
	}
	report.Modules = append(report.Modules, module.Name)
	g.writeDocument(path, content, report)
	return nil
}

func (g *Generator) writeDocument(path string, content string, report *Report) {
	written, err := fileio.SyncFileIfNotChanged(g.fio, path, content, g.logger)
	switch {
	case err != nil:
		g.logger.Error("writing document failed", "path", path, "error", err)
		report.Failed = append(report.Failed, path)
	case written:
		g.logger.Debug("document written", "path", path)
		report.Written = append(report.Written, path)
	default:
		g.logger.Debug("document unchanged", "path", path)
		report.Unchanged = append(report.Unchanged, path)
	}
}

func (g *Generator) restore(ctx context.Context, report *Report) {
	for _, name := range report.Modules {
		path := g.ProjectFile(name)
		if err := g.restorer.Restore(ctx, path); err != nil {
			g.logger.Warn("package restore failed", "project", path, "error", err)
			continue
		}
		report.Restored = append(report.Restored, path)
	}
}

func (g *Generator) hasFilesBeenModified(affected []string, reimported []string) bool {
	for _, file := range affected {
		if g.ShouldFileBePartOfSolution(file) {
			return true
		}
	}
	for _, file := range reimported {
		ext := pathutil.Extension(file)
		for _, syncExt := range reimportSyncExtensions {
			if ext == syncExt {
				return true
			}
		}
	}
	return false
}

func (g *Generator) hasValidExtension(file string) bool {
	ext := pathutil.Extension(file)
	if ext == ".dll" {
		return true
	}
	if strings.HasSuffix(strings.ToLower(file), ".asmdef") {
		return true
	}
	return g.isSupportedExtension(ext)
}

func (g *Generator) isSupportedExtension(ext string) bool {
	ext = strings.TrimPrefix(ext, ".")
	if language.IsBuiltinExtension(ext) {
		return true
	}
	for _, supported := range g.supportedExtensions {
		if supported == ext {
			return true
		}
	}
	return false
}

func (g *Generator) setupProjectSupportedExtensions() {
	g.supportedExtensions = g.provider.ProjectSupportedExtensions()
}

func (g *Generator) setState(state State) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = state
}

// finish records report as the latest and returns the driver to Idle.
func (g *Generator) finish(report Report, start time.Time) Report {
	report.Duration = time.Since(start)
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = Idle
	g.lastReport = report
	return report
}

// moduleNameOf strips the ".dll" suffix from an assembly name.
func moduleNameOf(assemblyName string) string {
	if strings.TrimSpace(assemblyName) == "" {
		return ""
	}
	for _, part := range strings.Split(assemblyName, ".dll") {
		if part != "" {
			return part
		}
	}
	return ""
}
