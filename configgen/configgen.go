// Package configgen writes the editor configuration files next to the generated
// project documents: VSCode settings, the workspace, omnisharp.json and .editorconfig.
package configgen

import (
	"log/slog"
	"path/filepath"

	"github.com/lexandro/vscodesync/config"
	"github.com/lexandro/vscodesync/fileio"
)

// Kind identifies one configuration file.
type Kind string

const (
	VSCodeSettings Kind = "vscode_settings"
	Workspace      Kind = "workspace"
	OmniSharp      Kind = "omnisharp"
	EditorConfig   Kind = "editorconfig"
)

// Kinds lists every configuration file in write order.
var Kinds = []Kind{VSCodeSettings, Workspace, OmniSharp, EditorConfig}

// File is a rendered configuration file.
type File struct {
	Kind    Kind
	Path    string
	Content string
	Enabled bool
}

// Options configures a Generator.
type Options struct {
	ProjectDir  string
	ProjectName string
	Files       config.ConfigFiles
	Logger      *slog.Logger
}

// Report lists what a Sync call did, by path.
type Report struct {
	Written   []string
	Unchanged []string
	Skipped   []string
	Failed    []string
}

// Generator renders and writes configuration files.
type Generator struct {
	fio         fileio.FileIO
	projectDir  string
	projectName string
	files       config.ConfigFiles
	logger      *slog.Logger
}

// NewGenerator creates a config generator writing through fio.
func NewGenerator(fio fileio.FileIO, options Options) *Generator {
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	projectDir := filepath.Clean(options.ProjectDir)
	projectName := options.ProjectName
	if projectName == "" {
		projectName = filepath.Base(projectDir)
	}
	return &Generator{
		fio:         fio,
		projectDir:  projectDir,
		projectName: projectName,
		files:       options.Files,
		logger:      logger,
	}
}

// SetFiles replaces the toggles and content overrides.
func (g *Generator) SetFiles(files config.ConfigFiles) {
	g.files = files
}

// Path returns where the file of kind is written.
func (g *Generator) Path(kind Kind) string {
	switch kind {
	case VSCodeSettings:
		return filepath.Join(g.projectDir, ".vscode", "settings.json")
	case Workspace:
		return filepath.Join(g.projectDir, g.projectName+".code-workspace")
	case OmniSharp:
		return filepath.Join(g.projectDir, "omnisharp.json")
	case EditorConfig:
		return filepath.Join(g.projectDir, ".editorconfig")
	default:
		return ""
	}
}

// Files renders every configuration file with its override or default content.
func (g *Generator) Files() []File {
	files := make([]File, 0, len(Kinds))
	for _, kind := range Kinds {
		content, enabled := g.contentFor(kind)
		files = append(files, File{Kind: kind, Path: g.Path(kind), Content: content, Enabled: enabled})
	}
	return files
}

func (g *Generator) contentFor(kind Kind) (string, bool) {
	switch kind {
	case VSCodeSettings:
		return orDefault(g.files.VSCodeSettingsContent, DefaultSettingsJSON), g.files.VSCodeSettings
	case Workspace:
		return orDefault(g.files.WorkspaceContent, DefaultWorkspaceJSON), g.files.Workspace
	case OmniSharp:
		return orDefault(g.files.OmniSharpContent, DefaultOmniSharpJSON), g.files.OmniSharp
	case EditorConfig:
		return orDefault(g.files.EditorConfigContent, DefaultEditorConfig), g.files.EditorConfig
	default:
		return "", false
	}
}

func orDefault(content string, fallback string) string {
	if content == "" {
		return fallback
	}
	return content
}

// MarkerExists reports whether the first-run marker is present and creates it when it
// is not.
func (g *Generator) MarkerExists() bool {
	marker := filepath.Join(g.projectDir, MarkerFileName)
	if g.fio.Exists(marker) {
		return true
	}
	if err := g.fio.WriteAllText(marker, markerContent); err != nil {
		g.logger.Error("writing marker file failed", "path", marker, "error", err)
	}
	return false
}

// Sync writes every enabled configuration file, or all of them when force is set.
// Files with identical content are left untouched. Write errors are logged and the
// remaining files are still written.
func (g *Generator) Sync(force bool) Report {
	var report Report
	for _, file := range g.Files() {
		if !file.Enabled && !force {
			report.Skipped = append(report.Skipped, file.Path)
			continue
		}
		g.write(file, &report)
	}
	g.logger.Info("config files synced",
		"written", len(report.Written),
		"skipped", len(report.Skipped),
		"force", force,
	)
	return report
}

// SyncMissing writes the enabled configuration files that do not exist. Existing
// files are skipped so local edits survive.
func (g *Generator) SyncMissing() Report {
	var report Report
	for _, file := range g.Files() {
		if !file.Enabled || g.fio.Exists(file.Path) {
			report.Skipped = append(report.Skipped, file.Path)
			continue
		}
		g.write(file, &report)
	}
	if len(report.Written) > 0 || len(report.Failed) > 0 {
		g.logger.Info("missing config files restored",
			"written", len(report.Written),
			"failed", len(report.Failed),
		)
	}
	return report
}

func (g *Generator) write(file File, report *Report) {
	if file.Kind == VSCodeSettings {
		dir := filepath.Dir(file.Path)
		if !g.fio.Exists(dir) {
			if err := g.fio.CreateDirectory(dir); err != nil {
				g.logger.Error("creating settings directory failed", "path", dir, "error", err)
			}
		}
	}
	written, err := fileio.SyncFileIfNotChanged(g.fio, file.Path, file.Content, g.logger)
	switch {
	case err != nil:
		g.logger.Error("writing config file failed", "path", file.Path, "error", err)
		report.Failed = append(report.Failed, file.Path)
	case written:
		report.Written = append(report.Written, file.Path)
	default:
		report.Unchanged = append(report.Unchanged, file.Path)
	}
}
