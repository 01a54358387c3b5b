package ignore

import (
	"os"
	"path/filepath"
	"testing"
)

func Test_Matcher_DefaultPatterns_LibraryDir(t *testing.T) {
	tmpDir := t.TempDir()
	matcher := NewMatcher(MatcherOptions{RootDir: tmpDir})

	libraryPath := filepath.Join(tmpDir, "Library", "ScriptAssemblies", "Assembly-CSharp.dll")
	if !matcher.ShouldIgnore(libraryPath) {
		t.Error("expected Library files to be ignored")
	}
}

func Test_Matcher_DefaultPatterns_RootDirsOnlyAtRoot(t *testing.T) {
	matcher := NewMatcher(MatcherOptions{RootDir: t.TempDir()})

	if matcher.ShouldIgnoreRelative("Assets/Build/BuildScript.cs", false) {
		t.Error("expected Assets/Build to stay visible")
	}
	if !matcher.ShouldIgnoreRelative("Builds/Player/Game.exe", false) {
		t.Error("expected top level Builds to be ignored")
	}
}

func Test_Matcher_DefaultPatterns_GitDir(t *testing.T) {
	tmpDir := t.TempDir()
	matcher := NewMatcher(MatcherOptions{RootDir: tmpDir})

	gitPath := filepath.Join(tmpDir, ".git", "config")
	if !matcher.ShouldIgnore(gitPath) {
		t.Error("expected .git files to be ignored")
	}
}

func Test_Matcher_DefaultPatterns_GeneratedOutputs(t *testing.T) {
	matcher := NewMatcher(MatcherOptions{RootDir: t.TempDir()})

	for _, path := range []string{"Game.sln", "Assembly-CSharp.csproj", "Assets/Player.cs.meta", "Game.code-workspace"} {
		if !matcher.ShouldIgnoreRelative(path, false) {
			t.Errorf("expected %s to be ignored", path)
		}
	}
}

func Test_Matcher_DefaultPatterns_AllowsScripts(t *testing.T) {
	tmpDir := t.TempDir()
	matcher := NewMatcher(MatcherOptions{RootDir: tmpDir})

	scriptPath := filepath.Join(tmpDir, "Assets", "Scripts", "Player.cs")
	if matcher.ShouldIgnore(scriptPath) {
		t.Error("expected .cs files to NOT be ignored")
	}
	if matcher.ShouldIgnoreRelative("Packages/com.foo/Runtime/Foo.asmdef", false) {
		t.Error("expected package assembly definitions to NOT be ignored")
	}
}

func Test_Matcher_GitignoreIntegration(t *testing.T) {
	tmpDir := t.TempDir()

	gitignoreContent := "*.generated.cs\nsecret/\n"
	os.WriteFile(filepath.Join(tmpDir, ".gitignore"), []byte(gitignoreContent), 0644)

	matcher := NewMatcher(MatcherOptions{RootDir: tmpDir})

	generatedPath := filepath.Join(tmpDir, "Assets", "Models.generated.cs")
	if !matcher.ShouldIgnore(generatedPath) {
		t.Error("expected .gitignore pattern to ignore *.generated.cs")
	}

	normalPath := filepath.Join(tmpDir, "Assets", "Player.cs")
	if matcher.ShouldIgnore(normalPath) {
		t.Error("expected normal .cs files to NOT be ignored by .gitignore")
	}
}

func Test_Matcher_ProjectIgnoreIntegration(t *testing.T) {
	tmpDir := t.TempDir()

	os.WriteFile(filepath.Join(tmpDir, IgnoreFileName), []byte("Assets/ThirdParty/\n*.draft.cs\n"), 0644)

	matcher := NewMatcher(MatcherOptions{RootDir: tmpDir})

	if !matcher.ShouldIgnoreRelative("Assets/Notes.draft.cs", false) {
		t.Error("expected .vscodesyncignore pattern to ignore *.draft.cs")
	}
}

func Test_Matcher_Reload(t *testing.T) {
	tmpDir := t.TempDir()
	matcher := NewMatcher(MatcherOptions{RootDir: tmpDir})

	if matcher.ShouldIgnoreRelative("Assets/Old.cs", false) {
		t.Fatal("expected Old.cs to be visible before reload")
	}

	os.WriteFile(filepath.Join(tmpDir, ".gitignore"), []byte("Old.cs\n"), 0644)
	matcher.Reload()

	if !matcher.ShouldIgnoreRelative("Assets/Old.cs", false) {
		t.Error("expected Old.cs to be ignored after reload")
	}
}

func Test_Matcher_CustomPatterns(t *testing.T) {
	tmpDir := t.TempDir()
	matcher := NewMatcher(MatcherOptions{
		RootDir:        tmpDir,
		CustomPatterns: []string{"*.custom", "Assets/Generated/**"},
	})

	if !matcher.ShouldIgnore(filepath.Join(tmpDir, "data.custom")) {
		t.Error("expected custom pattern to ignore *.custom files")
	}
	if !matcher.ShouldIgnoreRelative("Assets/Generated/Deep/Proto.cs", false) {
		t.Error("expected doublestar pattern to match nested files")
	}
}

func Test_Matcher_ShouldIgnoreDir(t *testing.T) {
	tmpDir := t.TempDir()
	matcher := NewMatcher(MatcherOptions{RootDir: tmpDir})

	tests := []struct {
		dirName string
		ignored bool
	}{
		{".git", true},
		{"Library", true},
		{"Temp", true},
		{"Documentation~", true},
		{".hidden", true},
		{"Assets", false},
		{"Packages", false},
	}

	for _, tt := range tests {
		dirPath := filepath.Join(tmpDir, tt.dirName)
		got := matcher.ShouldIgnoreDir(dirPath)
		if got != tt.ignored {
			t.Errorf("ShouldIgnoreDir(%s) = %v, want %v", tt.dirName, got, tt.ignored)
		}
	}
}
