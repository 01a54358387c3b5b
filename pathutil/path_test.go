package pathutil

import (
	"path/filepath"
	"reflect"
	"testing"
)

func Test_RelativePathFor_InsideProject(t *testing.T) {
	projectDir := filepath.Join(string(filepath.Separator)+"work", "Game")

	got := RelativePathFor("Assets/Scripts/Player.cs", projectDir)
	want := filepath.Join("Assets", "Scripts", "Player.cs")
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func Test_RelativePathFor_OutsideProject(t *testing.T) {
	projectDir := filepath.Join(string(filepath.Separator)+"work", "Game")
	outside := filepath.Join(string(filepath.Separator)+"opt", "lib", "Some.dll")

	got := RelativePathFor(outside, projectDir)
	if got != outside {
		t.Errorf("expected absolute path %q to be kept, got %q", outside, got)
	}
}

func Test_RelativePathFor_SiblingWithSharedPrefix(t *testing.T) {
	projectDir := filepath.Join(string(filepath.Separator)+"work", "Game")
	sibling := filepath.Join(string(filepath.Separator)+"work", "GameTools", "A.cs")

	got := RelativePathFor(sibling, projectDir)
	if got != sibling {
		t.Errorf("expected sibling directory to stay absolute, got %q", got)
	}
}

func Test_EscapedRelativePathFor_EscapesSpecialCharacters(t *testing.T) {
	projectDir := filepath.Join(string(filepath.Separator)+"work", "Game")

	got := EscapedRelativePathFor("Assets/Tom & Jerry.cs", projectDir)
	want := filepath.Join("Assets", "Tom &amp; Jerry.cs")
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func Test_FileNameWithoutExtension(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`C:\Unity\Editor\Data\Managed\UnityEngine.dll`, "UnityEngine"},
		{"Library/ScriptAssemblies/Utils.dll", "Utils"},
		{"netstandard.dll", "netstandard"},
		{"noext", "noext"},
	}
	for _, tt := range tests {
		if got := FileNameWithoutExtension(tt.input); got != tt.want {
			t.Errorf("FileNameWithoutExtension(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func Test_Extension(t *testing.T) {
	if got := Extension("Assets/Shaders/Water.shader"); got != ".shader" {
		t.Errorf("expected .shader, got %q", got)
	}
	if got := Extension("Assets/dir.with.dot/README"); got != "" {
		t.Errorf("expected empty extension, got %q", got)
	}
}

func Test_Distinct_KeepsFirstOccurrence(t *testing.T) {
	got := Distinct([]string{"DEBUG", "TRACE", "FOO", "DEBUG", "BAR", "FOO"})
	want := []string{"DEBUG", "TRACE", "FOO", "BAR"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func Test_LongestCommonPrefix(t *testing.T) {
	got := LongestCommonPrefix([]string{
		"/Applications/Visual Studio Code.app",
		"/Applications/Visual Studio Code - Insiders.app",
	})
	if got != "/Applications/Visual Studio Code" {
		t.Errorf("unexpected prefix %q", got)
	}
	if LongestCommonPrefix(nil) != "" {
		t.Error("expected empty prefix for no paths")
	}
}

func Test_SplitCommandLine(t *testing.T) {
	got := SplitCommandLine(`"/work/My Game" -g "/work/My Game/Assets/A.cs":1:0`)
	want := []string{"/work/My Game", "-g", "/work/My Game/Assets/A.cs:1:0"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func Test_SplitCommandLine_EscapedQuoteAndEmpty(t *testing.T) {
	got := SplitCommandLine(`-define:"A;B" "" \"x\"`)
	want := []string{"-define:A;B", "", `"x"`}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
