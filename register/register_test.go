package register

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func Test_DeriveServerName(t *testing.T) {
	tests := []struct {
		name       string
		binaryPath string
		want       string
	}{
		{"strip -mcp suffix", "vscodesync-mcp", "vscodesync"},
		{"strip .exe and -mcp", "vscodesync-mcp.exe", "vscodesync"},
		{"no -mcp suffix passthrough", "vscodesync", "vscodesync"},
		{"only .exe suffix", "vscodesync.exe", "vscodesync"},
		{"full path stripped to base", "/usr/local/bin/vscodesync", "vscodesync"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveServerName(tt.binaryPath)
			if got != tt.want {
				t.Errorf("DeriveServerName(%q) = %q, want %q", tt.binaryPath, got, tt.want)
			}
		})
	}
}

func Test_ParseScope(t *testing.T) {
	for _, value := range []string{"project", "user", "vscode", "VSCode"} {
		if _, err := ParseScope(value); err != nil {
			t.Errorf("ParseScope(%q) unexpected error: %v", value, err)
		}
	}
	if _, err := ParseScope("global"); err == nil {
		t.Error("expected error for unknown scope")
	}
}

func Test_SplitArgs(t *testing.T) {
	tests := []struct {
		name          string
		args          []string
		dashAt        int
		wantPositional []string
		wantForwarded []string
	}{
		{"no args", nil, -1, nil, nil},
		{"directory only", []string{"mydir"}, -1, []string{"mydir"}, nil},
		{"directory and server args", []string{"mydir", "--log-level", "debug"}, 1, []string{"mydir"}, []string{"--log-level", "debug"}},
		{"just forwarded args", []string{"--log-level", "debug"}, 0, []string{}, []string{"--log-level", "debug"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			positional, forwarded := SplitArgs(tt.args, tt.dashAt)
			if !sliceEqual(positional, tt.wantPositional) {
				t.Errorf("SplitArgs() positional = %v, want %v", positional, tt.wantPositional)
			}
			if !sliceEqual(forwarded, tt.wantForwarded) {
				t.Errorf("SplitArgs() forwarded = %v, want %v", forwarded, tt.wantForwarded)
			}
		})
	}
}

func Test_writeConfig_CreatesNewFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".mcp.json")

	entry := serverEntry{Command: "/usr/bin/vscodesync", Args: []string{"serve", "--root", "/tmp"}}
	if err := writeConfig(configPath, "mcpServers", "vscodesync", entry); err != nil {
		t.Fatalf("writeConfig() error: %v", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("reading config: %v", err)
	}

	var config map[string]interface{}
	if err := json.Unmarshal(data, &config); err != nil {
		t.Fatalf("parsing config: %v", err)
	}

	servers, ok := config["mcpServers"].(map[string]interface{})
	if !ok {
		t.Fatal("mcpServers not found or not an object")
	}

	got, ok := servers["vscodesync"].(map[string]interface{})
	if !ok {
		t.Fatal("vscodesync entry not found or not an object")
	}

	if got["command"] != "/usr/bin/vscodesync" {
		t.Errorf("command = %v, want /usr/bin/vscodesync", got["command"])
	}
	if _, hasType := got["type"]; hasType {
		t.Errorf("expected no type for agent configs, got %v", got["type"])
	}
}

func Test_writeConfig_UpdatesExistingEntry(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".mcp.json")

	// Write initial config with two entries
	initial := map[string]interface{}{
		"mcpServers": map[string]interface{}{
			"other-server": map[string]interface{}{
				"command": "/usr/bin/other",
			},
			"vscodesync": map[string]interface{}{
				"command": "/old/path",
			},
		},
	}
	initialData, _ := json.MarshalIndent(initial, "", "  ")
	os.WriteFile(configPath, initialData, 0644)

	entry := serverEntry{Command: "/new/path", Args: []string{"serve"}}
	if err := writeConfig(configPath, "mcpServers", "vscodesync", entry); err != nil {
		t.Fatalf("writeConfig() error: %v", err)
	}

	data, _ := os.ReadFile(configPath)
	var config map[string]interface{}
	json.Unmarshal(data, &config)

	servers := config["mcpServers"].(map[string]interface{})

	// Other entry preserved
	otherEntry := servers["other-server"].(map[string]interface{})
	if otherEntry["command"] != "/usr/bin/other" {
		t.Errorf("other-server command changed unexpectedly: %v", otherEntry["command"])
	}

	myEntry := servers["vscodesync"].(map[string]interface{})
	if myEntry["command"] != "/new/path" {
		t.Errorf("vscodesync command = %v, want /new/path", myEntry["command"])
	}
}

func Test_writeConfig_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".mcp.json")

	os.WriteFile(configPath, []byte("not valid json{{{"), 0644)

	err := writeConfig(configPath, "mcpServers", "vscodesync", serverEntry{Command: "/usr/bin/vscodesync"})
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func Test_buildEntry_Windows(t *testing.T) {
	binaryPath := `C:\tools\vscodesync.exe`

	entry := buildEntry("windows", ScopeProject, binaryPath, []string{"serve"})

	if entry.Command != "cmd" {
		t.Errorf("command = %q, want \"cmd\"", entry.Command)
	}
	if !sliceEqual(entry.Args, []string{"/C", binaryPath, "serve"}) {
		t.Errorf("args = %v, want [/C %s serve]", entry.Args, binaryPath)
	}
}

func Test_buildEntry_Unix(t *testing.T) {
	binaryPath := "/usr/local/bin/vscodesync"

	entry := buildEntry("linux", ScopeUser, binaryPath, nil)

	if entry.Command != binaryPath {
		t.Errorf("command = %q, want %q", entry.Command, binaryPath)
	}
	if entry.Args != nil {
		t.Errorf("args = %v, want nil", entry.Args)
	}
}

func Test_buildEntry_VSCodeRunsBinaryDirectly(t *testing.T) {
	entry := buildEntry("windows", ScopeVSCode, `C:\tools\vscodesync.exe`, []string{"serve"})

	if entry.Command != `C:\tools\vscodesync.exe` || entry.Type != "stdio" {
		t.Errorf("unexpected entry %+v", entry)
	}
}

func Test_resolveConfigPath_Project(t *testing.T) {
	got, err := resolveConfigPath(ScopeProject, ".")
	if err != nil {
		t.Fatalf("resolveConfigPath() error: %v", err)
	}

	absDir, _ := filepath.Abs(".")
	want := filepath.Join(absDir, ".mcp.json")
	if got != want {
		t.Errorf("resolveConfigPath(project, .) = %q, want %q", got, want)
	}
}

func Test_resolveConfigPath_User(t *testing.T) {
	got, err := resolveConfigPath(ScopeUser, "")
	if err != nil {
		t.Fatalf("resolveConfigPath() error: %v", err)
	}

	homeDir, _ := os.UserHomeDir()
	want := filepath.Join(homeDir, ".claude.json")
	if got != want {
		t.Errorf("resolveConfigPath(user, ) = %q, want %q", got, want)
	}
}

func Test_Register_VSCodeScope(t *testing.T) {
	tmpDir := t.TempDir()

	path, err := Register(Options{
		Scope:      ScopeVSCode,
		Directory:  tmpDir,
		BinaryPath: "/usr/local/bin/vscodesync",
		ServerArgs: []string{"serve", "--root", tmpDir},
		GOOS:       "linux",
	})
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if path != filepath.Join(tmpDir, ".vscode", "mcp.json") {
		t.Errorf("path = %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading config: %v", err)
	}
	var config map[string]map[string]serverEntry
	if err := json.Unmarshal(data, &config); err != nil {
		t.Fatalf("parsing config: %v", err)
	}
	entry, ok := config["servers"]["vscodesync"]
	if !ok {
		t.Fatalf("vscodesync entry missing in %s", data)
	}
	if entry.Type != "stdio" || entry.Args[0] != "serve" {
		t.Errorf("unexpected entry %+v", entry)
	}
}

func sliceEqual(a, b []string) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
