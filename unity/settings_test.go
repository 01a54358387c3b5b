package unity

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const playerSettingsAsset = `%YAML 1.1
%TAG !u! tag:unity3d.com,2011:
--- !u!129 &1
PlayerSettings:
  m_ObjectHideFlags: 0
  productName: Game
  scriptingDefineSymbols:
    Android: MOBILE
    Standalone: FOO;BAR;;
  apiCompatibilityLevelPerPlatform:
    Standalone: 3
  apiCompatibilityLevel: 6
`

const legacyPlayerSettingsAsset = `%YAML 1.1
%TAG !u! tag:unity3d.com,2011:
--- !u!129 &1
PlayerSettings:
  scriptingDefineSymbols:
    1: LEGACY_DEFINE
  apiCompatibilityLevelPerPlatform: {}
  apiCompatibilityLevel: 6
`

func writeSettings(t *testing.T, dir string, name string, content string) {
	t.Helper()
	settingsDir := filepath.Join(dir, "ProjectSettings")
	if err := os.MkdirAll(settingsDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(settingsDir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func Test_LoadProjectSettings_PerPlatform(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, "ProjectSettings.asset", playerSettingsAsset)
	writeSettings(t, dir, "ProjectVersion.txt", "m_EditorVersion: 2022.3.10f1\nm_EditorVersionWithRevision: 2022.3.10f1 (ff3792e53c62)\n")

	settings, err := LoadProjectSettings(dir, "Standalone")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.ApiCompatibilityLevel != NetUnity48 {
		t.Errorf("expected per-platform level %s, got %s", NetUnity48, settings.ApiCompatibilityLevel)
	}
	if !reflect.DeepEqual(settings.ScriptingDefines, []string{"FOO", "BAR"}) {
		t.Errorf("unexpected defines %v", settings.ScriptingDefines)
	}
	if settings.EditorVersion != "2022.3.10f1" {
		t.Errorf("unexpected editor version %q", settings.EditorVersion)
	}
}

func Test_LoadProjectSettings_LegacyNumericGroups(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, "ProjectSettings.asset", legacyPlayerSettingsAsset)

	settings, err := LoadProjectSettings(dir, "Standalone")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.ApiCompatibilityLevel != NetStandard {
		t.Errorf("expected fallback level %s, got %s", NetStandard, settings.ApiCompatibilityLevel)
	}
	if !reflect.DeepEqual(settings.ScriptingDefines, []string{"LEGACY_DEFINE"}) {
		t.Errorf("unexpected defines %v", settings.ScriptingDefines)
	}
}

func Test_LoadProjectSettings_MissingFiles(t *testing.T) {
	settings, err := LoadProjectSettings(t.TempDir(), "Standalone")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.ApiCompatibilityLevel != "" || settings.EditorVersion != "" {
		t.Errorf("expected empty settings, got %+v", settings)
	}
}

func Test_LoadProjectSettings_UnknownLevelKeepsNumber(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, "ProjectSettings.asset", "PlayerSettings:\n  apiCompatibilityLevel: 42\n")

	settings, err := LoadProjectSettings(dir, "Standalone")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.ApiCompatibilityLevel != "42" {
		t.Errorf("expected raw level 42, got %q", settings.ApiCompatibilityLevel)
	}
}

func Test_LoadProjectSettings_AbsentLevelStaysEmpty(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, "ProjectSettings.asset", "PlayerSettings:\n  scriptingDefineSymbols:\n    Standalone: FOO\n")

	settings, err := LoadProjectSettings(dir, "Standalone")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.ApiCompatibilityLevel != "" {
		t.Errorf("expected no level, got %q", settings.ApiCompatibilityLevel)
	}
}

func Test_ReadMetaGUID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Core.asmdef.meta")
	content := "fileFormatVersion: 2\nguid: 5f2a1b3c4d5e6f708192a3b4c5d6e7f8\nAssemblyDefinitionImporter:\n  externalObjects: {}\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	guid, err := ReadMetaGUID(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if guid != "5f2a1b3c4d5e6f708192a3b4c5d6e7f8" {
		t.Errorf("unexpected guid %q", guid)
	}
}

func Test_ParseEditorVersion(t *testing.T) {
	major, minor, ok := ParseEditorVersion("2021.3.5f1")
	if !ok || major != 2021 || minor != 3 {
		t.Errorf("unexpected result %d.%d ok=%v", major, minor, ok)
	}
	if _, _, ok := ParseEditorVersion("garbage"); ok {
		t.Error("expected failure for garbage version")
	}
}

func Test_ActiveDefines(t *testing.T) {
	defines := ActiveDefines("2021.3.5f1", []string{"GAME_DEMO"})
	expected := []string{"UNITY_EDITOR", "UNITY_2021", "UNITY_2021_3", "UNITY_2021_3_5", "UNITY_2021_3_OR_NEWER", "GAME_DEMO"}
	if !reflect.DeepEqual(defines, expected) {
		t.Errorf("expected %v, got %v", expected, defines)
	}

	if defines := ActiveDefines("", nil); !reflect.DeepEqual(defines, []string{"UNITY_EDITOR"}) {
		t.Errorf("unexpected defines for unknown version: %v", defines)
	}
}

func Test_IsSettingsFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"ProjectSettings/ProjectSettings.asset", true},
		{"ProjectSettings/ProjectVersion.txt", true},
		{"projectsettings/projectversion.txt", true},
		{"ProjectSettings/TagManager.asset", false},
		{"Assets/ProjectSettings.asset", false},
	}
	for _, tt := range tests {
		if got := IsSettingsFile(tt.path); got != tt.want {
			t.Errorf("IsSettingsFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
