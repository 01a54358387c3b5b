// Package editor exposes the script editor capabilities as library entry points:
// listing installations, opening a file at a location and keeping the project
// documents in sync.
package editor

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/lexandro/vscodesync/config"
	"github.com/lexandro/vscodesync/configgen"
	"github.com/lexandro/vscodesync/discovery"
	"github.com/lexandro/vscodesync/fileio"
	"github.com/lexandro/vscodesync/language"
	"github.com/lexandro/vscodesync/pathutil"
	"github.com/lexandro/vscodesync/projectgen"
)

// extraHandledExtensions are opened in the editor on top of the generated ones.
var extraHandledExtensions = []string{"json", "asmdef", "log", "jslib"}

// PreferenceSaver persists preferences after a change.
type PreferenceSaver interface {
	Save(prefs *config.Preferences) error
}

// Options wires an Editor to its collaborators.
type Options struct {
	Preferences *config.Preferences
	// Saver is optional; without it preference changes only live in memory.
	Saver     PreferenceSaver
	Discovery *discovery.Discovery
	Projects  *projectgen.Generator
	Configs   *configgen.Generator
	FileIO    fileio.FileIO
	Launcher  Launcher
	// GOOS selects the launch convention. Empty means the running system.
	GOOS   string
	Logger *slog.Logger
}

// Editor is the entry point used by the CLI, the watcher loop and the MCP tools.
type Editor struct {
	prefs     *config.Preferences
	saver     PreferenceSaver
	discovery *discovery.Discovery
	projects  *projectgen.Generator
	configs   *configgen.Generator
	fio       fileio.FileIO
	launcher  Launcher
	goos      string
	logger    *slog.Logger
}

// New creates an Editor.
func New(options Options) *Editor {
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	prefs := options.Preferences
	if prefs == nil {
		prefs = config.Default()
	}
	fio := options.FileIO
	if fio == nil {
		fio = fileio.OS{}
	}
	launcher := options.Launcher
	if launcher == nil {
		launcher = ProcessLauncher{}
	}
	disc := options.Discovery
	if disc == nil {
		disc = discovery.New(discovery.Options{Logger: logger})
	}
	goos := options.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	return &Editor{
		prefs:     prefs,
		saver:     options.Saver,
		discovery: disc,
		projects:  options.Projects,
		configs:   options.Configs,
		fio:       fio,
		launcher:  launcher,
		goos:      goos,
		logger:    logger,
	}
}

// Preferences returns the live preference set.
func (e *Editor) Preferences() *config.Preferences {
	return e.prefs
}

// Projects returns the project document generator.
func (e *Editor) Projects() *projectgen.Generator {
	return e.projects
}

// Installations returns the discovered installations. When none is found a single
// entry pointing at the configured default app is returned so opening can still be
// attempted.
func (e *Editor) Installations() []discovery.Installation {
	installations := e.discovery.Installations()
	if len(installations) > 0 {
		return installations
	}
	return []discovery.Installation{{Name: discovery.StableName, Path: e.prefs.Editor.DefaultApp}}
}

// TryGetInstallationForPath reports whether editorPath is a supported editor binary and
// returns the matching installation, or a synthetic one for unknown locations.
func (e *Editor) TryGetInstallationForPath(editorPath string) (discovery.Installation, bool) {
	if !discovery.IsSupportedBinary(editorPath) {
		return discovery.Installation{}, false
	}
	for _, installation := range e.discovery.Installations() {
		if installation.Path == editorPath {
			return installation, true
		}
	}
	return discovery.Installation{Name: discovery.StableName, Path: editorPath}, true
}

// HandledExtensions returns the extensions, without dots, that OpenProject accepts.
func (e *Editor) HandledExtensions() []string {
	value := e.prefs.Editor.HandledExtensions
	if strings.TrimSpace(value) == "" {
		return e.DefaultHandledExtensions()
	}
	var out []string
	for _, ext := range strings.Split(value, ";") {
		if ext = strings.TrimLeft(strings.TrimSpace(ext), ".*"); ext != "" {
			out = append(out, ext)
		}
	}
	return out
}

// DefaultHandledExtensions is the built-in extensions followed by the additional ones
// and the editor specific extras.
func (e *Editor) DefaultHandledExtensions() []string {
	all := language.BuiltinExtensions()
	all = append(all, e.prefs.Generation.AdditionalExtensions...)
	all = append(all, extraHandledExtensions...)
	return pathutil.Distinct(all)
}

func (e *Editor) supportsExtension(path string) bool {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return false
	}
	for _, handled := range e.HandledExtensions() {
		if handled == ext {
			return true
		}
	}
	return false
}

// OpenProject launches the editor on path at line and column. Relative paths are
// resolved against the project root and an empty path opens the project itself. It
// reports false when the file is not handled, does not exist, or the launch fails.
func (e *Editor) OpenProject(path string, line int, column int) bool {
	path = e.resolvePath(path)
	if path != "" && (!e.supportsExtension(path) || !e.fio.Exists(path)) {
		e.logger.Debug("open rejected", "path", path)
		return false
	}

	app, args := e.CommandLine(path, line, column)
	if app == "" {
		e.logger.Warn("no editor application configured")
		return false
	}
	if err := e.launcher.Launch(app, args); err != nil {
		e.logger.Error("launching editor failed", "app", app, "error", err)
		return false
	}
	e.logger.Info("editor launched", "app", app, "path", path, "line", line, "column", column)
	return true
}

// CommandLine builds the program and arguments OpenProject would launch.
func (e *Editor) CommandLine(path string, line int, column int) (string, []string) {
	path = e.resolvePath(path)
	if line < 1 {
		line = 1
	}
	if column < 0 {
		column = 0
	}
	arguments := e.arguments(path, line, column)

	app := e.defaultApp()
	if e.goos == "darwin" {
		return "open", append([]string{"-n", app, "--args"}, pathutil.SplitCommandLine(arguments)...)
	}
	return app, pathutil.SplitCommandLine(arguments)
}

func (e *Editor) arguments(path string, line int, column int) string {
	projectDir := e.projectDir()
	projectName := filepath.Base(projectDir)
	workspacePath := projectDir + "/" + projectName + ".code-workspace"

	template := e.prefs.Editor.Arguments
	if template != "" && template != config.DefaultArguments && template != config.DefaultWorkspaceArguments {
		if path == projectDir {
			return workspacePath
		}
		return expandTemplate(template, map[string]string{
			"File":        path,
			"Line":        strconv.Itoa(line),
			"Column":      strconv.Itoa(column),
			"ProjectPath": projectDir,
			"ProjectName": projectName,
		})
	}

	var arguments string
	if e.prefs.Editor.UseWorkspace {
		arguments = `"` + workspacePath + `"`
	} else {
		arguments = `"` + projectDir + `"`
	}
	if path != projectDir && path != "" {
		arguments += fmt.Sprintf(` -g "%s":%d:%d`, path, line, column)
	}
	return arguments
}

func expandTemplate(template string, values map[string]string) string {
	for name, value := range values {
		template = strings.ReplaceAll(template, "$("+name+")", value)
	}
	return template
}

// defaultApp is the configured application, else the first discovered installation.
func (e *Editor) defaultApp() string {
	if e.prefs.Editor.DefaultApp != "" {
		return e.prefs.Editor.DefaultApp
	}
	if installations := e.discovery.Installations(); len(installations) > 0 {
		return installations[0].Path
	}
	return ""
}

// resolvePath makes a relative path absolute under the project root.
func (e *Editor) resolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) || strings.HasPrefix(path, "/") {
		return path
	}
	return filepath.ToSlash(pathutil.FullPath(path, e.projectDir()))
}

func (e *Editor) projectDir() string {
	if e.projects != nil {
		return filepath.ToSlash(e.projects.ProjectDir())
	}
	return ""
}

// ResetArguments restores the default argument template for the current workspace
// setting and saves it.
func (e *Editor) ResetArguments() error {
	if e.prefs.Editor.UseWorkspace {
		e.prefs.Editor.Arguments = config.DefaultWorkspaceArguments
	} else {
		e.prefs.Editor.Arguments = config.DefaultArguments
	}
	return e.save()
}

// SyncAll clears the package cache, regenerates every project document and restores
// enabled config files that went missing.
func (e *Editor) SyncAll(ctx context.Context) (projectgen.Report, error) {
	e.projects.Provider().ResetPackageInfoCache()
	report, err := e.projects.Sync(ctx)
	if err != nil {
		return report, err
	}
	if e.configs != nil {
		e.configs.SetFiles(e.prefs.ConfigFiles)
		e.configs.SyncMissing()
	}
	return report, nil
}

// SyncIfNeeded runs an incremental pass for the given change lists.
func (e *Editor) SyncIfNeeded(ctx context.Context, added, deleted, moved, movedFrom, imported []string) (bool, projectgen.Report, error) {
	e.projects.Provider().ResetPackageInfoCache()
	affected := make([]string, 0, len(added)+len(deleted)+len(moved)+len(movedFrom))
	affected = append(affected, added...)
	affected = append(affected, deleted...)
	affected = append(affected, moved...)
	affected = append(affected, movedFrom...)
	return e.projects.SyncIfNeeded(ctx, pathutil.Distinct(affected), imported)
}

// CreateIfDoesntExist runs a full sync when the solution is missing and force-writes
// the config files on the first run.
func (e *Editor) CreateIfDoesntExist(ctx context.Context) error {
	if !e.projects.SolutionExists() {
		if _, err := e.projects.Sync(ctx); err != nil {
			return err
		}
	}
	if e.configs != nil && !e.configs.MarkerExists() {
		e.configs.Sync(true)
	}
	return nil
}

// RegenerateConfig writes the enabled config files.
func (e *Editor) RegenerateConfig() configgen.Report {
	e.configs.SetFiles(e.prefs.ConfigFiles)
	return e.configs.Sync(false)
}

// SetPackageInclusion changes the package origins taking part in generation and
// saves the preference.
func (e *Editor) SetPackageInclusion(inclusion config.PackageInclusion) error {
	e.prefs.Generation.Packages = inclusion
	e.projects.SetInclusion(inclusion)
	return e.save()
}

// GenerateAll includes or excludes every package origin.
func (e *Editor) GenerateAll(on bool) error {
	return e.SetPackageInclusion(config.AllPackages(on))
}

func (e *Editor) save() error {
	if e.saver == nil {
		return nil
	}
	if err := e.saver.Save(e.prefs); err != nil {
		return fmt.Errorf("saving preferences: %w", err)
	}
	return nil
}
