package tools

import (
	"strings"
	"testing"
	"time"

	"github.com/lexandro/vscodesync/discovery"
	"github.com/lexandro/vscodesync/index"
	"github.com/lexandro/vscodesync/projectgen"
)

// --- formatFileSize ---

func Test_FormatFileSize_Bytes(t *testing.T) {
	got := formatFileSize(500)
	if got != "500 B" {
		t.Errorf("expected '500 B', got '%s'", got)
	}
}

func Test_FormatFileSize_Kilobytes(t *testing.T) {
	got := formatFileSize(2048)
	if got != "2.0 KB" {
		t.Errorf("expected '2.0 KB', got '%s'", got)
	}
}

func Test_FormatFileSize_Megabytes(t *testing.T) {
	got := formatFileSize(3 * 1024 * 1024)
	if got != "3.0 MB" {
		t.Errorf("expected '3.0 MB', got '%s'", got)
	}
}

// --- FormatSearchHits ---

func Test_FormatSearchHits_NoMatches(t *testing.T) {
	got := FormatSearchHits(nil)
	if got != "No matches found." {
		t.Errorf("expected 'No matches found.', got '%s'", got)
	}
}

func Test_FormatSearchHits_WithMatches(t *testing.T) {
	hits := []index.SearchHit{
		{
			Module: &index.ModuleEntry{
				Name:        "Core",
				ProjectFile: "/work/Game/Core.csproj",
				References:  []string{"Utils"},
			},
			Fields: []string{"defines", "references"},
		},
	}

	got := FormatSearchHits(hits)

	checks := []string{"Found 1 modules", "── Core ──", "/work/Game/Core.csproj", "matched: defines, references", "references: Utils"}
	for _, check := range checks {
		if !strings.Contains(got, check) {
			t.Errorf("expected output to contain %q, got:\n%s", check, got)
		}
	}
}

// --- FormatModuleResults ---

func Test_FormatModuleResults_Empty(t *testing.T) {
	got := FormatModuleResults(nil, false)
	if got != "No modules matched." {
		t.Errorf("expected 'No modules matched.', got '%s'", got)
	}
}

func Test_FormatModuleResults_WithMetadata(t *testing.T) {
	results := []index.ModuleMatch{
		{
			Module: &index.ModuleEntry{
				Name:        "Core",
				SourceFiles: []string{"Assets/Core/Foo.cs", "Assets/Core/Bar.cs"},
				Defines:     []string{"DEBUG", "TRACE", "FOO"},
				References:  []string{"Utils"},
			},
			MatchedSources: []string{"Assets/Core/Foo.cs"},
		},
	}

	got := FormatModuleResults(results, false)

	if !strings.Contains(got, "Core  (2 sources, 3 defines, 1 references)") {
		t.Errorf("expected module metadata, got:\n%s", got)
	}
	if !strings.Contains(got, "    Assets/Core/Foo.cs") {
		t.Errorf("expected matched source, got:\n%s", got)
	}
}

func Test_FormatModuleResults_NameOnly(t *testing.T) {
	results := []index.ModuleMatch{
		{Module: &index.ModuleEntry{Name: "Core", SourceFiles: []string{"Assets/Core/Foo.cs"}}},
	}

	got := FormatModuleResults(results, true)

	if !strings.Contains(got, "Core\n") {
		t.Errorf("expected module name, got:\n%s", got)
	}
	if strings.Contains(got, "sources") {
		t.Errorf("nameOnly should not include metadata, got:\n%s", got)
	}
}

// --- FormatReport ---

func Test_FormatReport(t *testing.T) {
	report := projectgen.Report{
		State:     projectgen.FullSync,
		Modules:   []string{"Core", "Utils"},
		Written:   []string{"/work/Game/Core.csproj"},
		Unchanged: []string{"/work/Game/Utils.csproj", "/work/Game/Game.sln"},
		Failed:    []string{"/work/Game/Broken.csproj"},
		Duration:  1500 * time.Millisecond,
	}

	got := FormatReport(report)

	checks := []string{
		"full-sync: 2 modules, 1 written, 2 unchanged, 1 failed in 1.5s",
		"written  /work/Game/Core.csproj",
		"failed   /work/Game/Broken.csproj",
	}
	for _, check := range checks {
		if !strings.Contains(got, check) {
			t.Errorf("expected output to contain %q, got:\n%s", check, got)
		}
	}
}

// --- FormatInstallations ---

func Test_FormatInstallations(t *testing.T) {
	got := FormatInstallations([]discovery.Installation{{Name: "Visual Studio Code", Path: "/usr/bin/code"}})

	if !strings.Contains(got, "Found 1 installations") || !strings.Contains(got, "/usr/bin/code") {
		t.Errorf("unexpected output:\n%s", got)
	}
	if FormatInstallations(nil) != "No installations found." {
		t.Error("expected empty message")
	}
}

// --- FormatFileContent ---

func Test_FormatFileContent_NumbersLines(t *testing.T) {
	got := FormatFileContent("Core.csproj", "<Project>\r\n  <PropertyGroup />\r\n</Project>\r\n")

	if !strings.Contains(got, "── Core.csproj (3 lines) ──") {
		t.Errorf("expected header, got:\n%s", got)
	}
	if !strings.Contains(got, "1│ <Project>") {
		t.Errorf("expected line 1 with number, got:\n%s", got)
	}
	if !strings.Contains(got, "3│ </Project>") {
		t.Errorf("expected line 3 with number, got:\n%s", got)
	}
	if strings.Contains(got, "\r") {
		t.Errorf("expected carriage returns to be stripped, got:\n%q", got)
	}
}

func Test_FormatFileContent_PadsLineNumbers(t *testing.T) {
	content := strings.Repeat("x\n", 10)
	got := FormatFileContent("a.txt", content)

	if !strings.Contains(got, " 1│ x") || !strings.Contains(got, "10│ x") {
		t.Errorf("expected padded line numbers, got:\n%s", got)
	}
}
