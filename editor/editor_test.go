package editor

import (
	"context"
	"errors"
	"testing"

	"github.com/lexandro/vscodesync/config"
	"github.com/lexandro/vscodesync/configgen"
	"github.com/lexandro/vscodesync/discovery"
	"github.com/lexandro/vscodesync/fileio"
	"github.com/lexandro/vscodesync/inventory"
	"github.com/lexandro/vscodesync/packages"
	"github.com/lexandro/vscodesync/projectgen"
	"github.com/lexandro/vscodesync/unity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const projectDir = "/work/Game"

type launch struct {
	app  string
	args []string
}

type recordingLauncher struct {
	launches []launch
	err      error
}

func (l *recordingLauncher) Launch(app string, args []string) error {
	l.launches = append(l.launches, launch{app: app, args: args})
	return l.err
}

type recordingSaver struct {
	saved int
}

func (s *recordingSaver) Save(*config.Preferences) error {
	s.saved++
	return nil
}

func noInstallations() *discovery.Discovery {
	return discovery.New(discovery.Options{
		GOOS:     "linux",
		Exists:   func(string, bool) bool { return false },
		LookPath: func(string) (string, error) { return "", errors.New("not found") },
	})
}

type fixture struct {
	editor   *Editor
	fio      *fileio.Memory
	launcher *recordingLauncher
	saver    *recordingSaver
	static   *inventory.Static
	prefs    *config.Preferences
}

func newFixture(t *testing.T, goos string) *fixture {
	t.Helper()
	fio := fileio.NewMemory()
	static := &inventory.Static{
		Modules: []*inventory.Module{{Name: "Core", SourceFiles: []string{"Assets/Core/Foo.cs"}}},
		Assets:  []string{"Assets/Core/Foo.cs"},
	}
	prefs := config.Default()
	prefs.Editor.DefaultApp = "/usr/bin/code"
	launcher := &recordingLauncher{}
	saver := &recordingSaver{}
	projects := projectgen.NewGenerator(static, fio, projectgen.Options{
		ProjectDir:            projectDir,
		ApiCompatibilityLevel: unity.NetUnity48,
	})
	configs := configgen.NewGenerator(fio, configgen.Options{ProjectDir: projectDir})
	e := New(Options{
		Preferences: prefs,
		Saver:       saver,
		Discovery:   noInstallations(),
		Projects:    projects,
		Configs:     configs,
		FileIO:      fio,
		Launcher:    launcher,
		GOOS:        goos,
	})
	require.NoError(t, fio.WriteAllText(projectDir+"/Assets/Core/Foo.cs", "class Foo {}"))
	fio.ResetWriteCounts()
	return &fixture{editor: e, fio: fio, launcher: launcher, saver: saver, static: static, prefs: prefs}
}

func Test_Editor_OpenNormalizesLineAndColumn(t *testing.T) {
	f := newFixture(t, "linux")

	ok := f.editor.OpenProject(projectDir+"/Assets/Core/Foo.cs", -1, -1)

	require.True(t, ok)
	require.Len(t, f.launcher.launches, 1)
	assert.Equal(t, "/usr/bin/code", f.launcher.launches[0].app)
	assert.Equal(t, []string{projectDir, "-g", projectDir + "/Assets/Core/Foo.cs:1:0"}, f.launcher.launches[0].args)
}

func Test_Editor_OpenResolvesRelativePath(t *testing.T) {
	f := newFixture(t, "linux")

	ok := f.editor.OpenProject("Assets/Core/Foo.cs", 3, 2)

	require.True(t, ok)
	require.Len(t, f.launcher.launches, 1)
	assert.Equal(t, []string{projectDir, "-g", projectDir + "/Assets/Core/Foo.cs:3:2"}, f.launcher.launches[0].args)
	assert.False(t, f.editor.OpenProject("Assets/Core/Missing.cs", 1, 0))
}

func Test_Editor_OpenWithWorkspace(t *testing.T) {
	f := newFixture(t, "linux")
	f.prefs.Editor.UseWorkspace = true

	_, args := f.editor.CommandLine(projectDir+"/Assets/Core/Foo.cs", 12, 4)

	assert.Equal(t, []string{projectDir + "/Game.code-workspace", "-g", projectDir + "/Assets/Core/Foo.cs:12:4"}, args)
}

func Test_Editor_OpenEmptyPathOpensProject(t *testing.T) {
	f := newFixture(t, "linux")

	ok := f.editor.OpenProject("", 0, 0)

	require.True(t, ok)
	assert.Equal(t, []string{projectDir}, f.launcher.launches[0].args)
}

func Test_Editor_OpenCustomTemplate(t *testing.T) {
	f := newFixture(t, "linux")
	f.prefs.Editor.Arguments = `--reuse-window "$(ProjectPath)" --goto "$(File)":$(Line):$(Column) --name $(ProjectName)`

	_, args := f.editor.CommandLine(projectDir+"/Assets/Core/Foo.cs", 3, -1)

	assert.Equal(t, []string{"--reuse-window", projectDir, "--goto", projectDir + "/Assets/Core/Foo.cs:3:0", "--name", "Game"}, args)
}

func Test_Editor_OpenMacWrapsInOpen(t *testing.T) {
	f := newFixture(t, "darwin")
	f.prefs.Editor.DefaultApp = "/Applications/Visual Studio Code.app"

	app, args := f.editor.CommandLine(projectDir+"/Assets/Core/Foo.cs", 1, 0)

	assert.Equal(t, "open", app)
	assert.Equal(t, []string{"-n", "/Applications/Visual Studio Code.app", "--args", projectDir, "-g", projectDir + "/Assets/Core/Foo.cs:1:0"}, args)
}

func Test_Editor_OpenRejectsUnhandledOrMissing(t *testing.T) {
	f := newFixture(t, "linux")

	assert.False(t, f.editor.OpenProject(projectDir+"/Assets/Art/hero.png", 1, 0))
	assert.False(t, f.editor.OpenProject(projectDir+"/Assets/Core/Missing.cs", 1, 0))
	assert.False(t, f.editor.OpenProject(projectDir+"/Makefile", 1, 0))
	assert.Empty(t, f.launcher.launches)
}

func Test_Editor_OpenLaunchFailure(t *testing.T) {
	f := newFixture(t, "linux")
	f.launcher.err = errors.New("no such file")

	assert.False(t, f.editor.OpenProject(projectDir+"/Assets/Core/Foo.cs", 1, 0))
}

func Test_Editor_HandledExtensions(t *testing.T) {
	f := newFixture(t, "linux")
	f.prefs.Generation.AdditionalExtensions = []string{"txt"}

	defaults := f.editor.HandledExtensions()
	assert.Contains(t, defaults, "cs")
	assert.Contains(t, defaults, "txt")
	assert.Contains(t, defaults, "asmdef")
	assert.Contains(t, defaults, "jslib")

	f.prefs.Editor.HandledExtensions = "*.cs;.md;;"
	assert.Equal(t, []string{"cs", "md"}, f.editor.HandledExtensions())
}

func Test_Editor_InstallationsFallBackToDefaultApp(t *testing.T) {
	f := newFixture(t, "linux")

	installations := f.editor.Installations()

	assert.Equal(t, []discovery.Installation{{Name: discovery.StableName, Path: "/usr/bin/code"}}, installations)
}

func Test_Editor_TryGetInstallationForPath(t *testing.T) {
	f := newFixture(t, "linux")

	installation, ok := f.editor.TryGetInstallationForPath("/opt/vscode/code")
	assert.True(t, ok)
	assert.Equal(t, "/opt/vscode/code", installation.Path)

	_, ok = f.editor.TryGetInstallationForPath("/usr/bin/emacs")
	assert.False(t, ok)
}

func Test_Editor_CreateIfDoesntExist(t *testing.T) {
	f := newFixture(t, "linux")

	require.NoError(t, f.editor.CreateIfDoesntExist(context.Background()))

	assert.True(t, f.fio.Exists(projectDir+"/Game.sln"))
	assert.True(t, f.fio.Exists(projectDir+"/Core.csproj"))
	assert.True(t, f.fio.Exists(projectDir+"/"+configgen.MarkerFileName))
	assert.True(t, f.fio.Exists(projectDir+"/omnisharp.json"))

	f.fio.ResetWriteCounts()
	require.NoError(t, f.editor.CreateIfDoesntExist(context.Background()))
	assert.Zero(t, f.fio.TotalWrites())
}

func Test_Editor_SyncAllRestoresMissingConfigFiles(t *testing.T) {
	f := newFixture(t, "linux")
	f.prefs.ConfigFiles.VSCodeSettings = true
	require.NoError(t, f.editor.CreateIfDoesntExist(context.Background()))
	settingsPath := projectDir + "/.vscode/settings.json"
	require.True(t, f.fio.Exists(settingsPath))

	f.fio.Remove(settingsPath)
	f.fio.ResetWriteCounts()
	_, err := f.editor.SyncAll(context.Background())
	require.NoError(t, err)

	assert.True(t, f.fio.Exists(settingsPath))
	assert.Equal(t, 1, f.fio.WriteCount(settingsPath))
}

func Test_Editor_SyncIfNeededUnionsChangeLists(t *testing.T) {
	f := newFixture(t, "linux")
	_, err := f.editor.SyncAll(context.Background())
	require.NoError(t, err)

	ran, report, err := f.editor.SyncIfNeeded(context.Background(),
		nil, []string{"Assets/Core/Old.cs"}, nil, []string{"Assets/Core/Old.cs"}, nil)
	require.NoError(t, err)

	assert.True(t, ran)
	assert.Equal(t, projectgen.IncrementalSync, report.State)
	assert.Equal(t, []string{"Core"}, report.Modules)
}

func Test_Editor_SetPackageInclusionSaves(t *testing.T) {
	f := newFixture(t, "linux")
	f.static.Modules = append(f.static.Modules, &inventory.Module{
		Name:        "Kit",
		SourceFiles: []string{"Packages/com.acme.kit/Kit.cs"},
	})
	f.static.PackageSources = map[string]packages.Source{"com.acme.kit": packages.SourceGit}

	require.NoError(t, f.editor.SetPackageInclusion(config.PackageInclusion{Git: true}))
	report, err := f.editor.SyncAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, f.saver.saved)
	assert.True(t, f.prefs.Generation.Packages.Git)
	assert.Contains(t, report.Modules, "Kit")

	require.NoError(t, f.editor.GenerateAll(false))
	report, err = f.editor.SyncAll(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, report.Modules, "Kit")
}

func Test_Editor_RegenerateConfigUsesPreferences(t *testing.T) {
	f := newFixture(t, "linux")
	f.prefs.ConfigFiles.EditorConfig = true
	f.prefs.ConfigFiles.EditorConfigContent = "root = true\n"

	report := f.editor.RegenerateConfig()

	assert.Equal(t, []string{projectDir + "/.editorconfig"}, report.Written)
	content, _ := f.fio.Content(projectDir + "/.editorconfig")
	assert.Equal(t, "root = true\n", content)
}

func Test_Editor_ResetArguments(t *testing.T) {
	f := newFixture(t, "linux")
	f.prefs.Editor.Arguments = "custom"
	f.prefs.Editor.UseWorkspace = true

	require.NoError(t, f.editor.ResetArguments())

	assert.Equal(t, config.DefaultWorkspaceArguments, f.prefs.Editor.Arguments)
	assert.Equal(t, 1, f.saver.saved)
}
