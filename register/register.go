// Package register adds the synchronizer's MCP server to the configuration of an agent
// or of VSCode.
package register

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/lexandro/vscodesync/fileio"
)

// Scope selects the configuration file that receives the server entry.
type Scope string

const (
	// ScopeProject writes <directory>/.mcp.json.
	ScopeProject Scope = "project"
	// ScopeUser writes ~/.claude.json.
	ScopeUser Scope = "user"
	// ScopeVSCode writes <directory>/.vscode/mcp.json.
	ScopeVSCode Scope = "vscode"
)

type serverEntry struct {
	Type    string   `json:"type,omitempty"`
	Command string   `json:"command"`
	Args    []string `json:"args,omitempty"`
}

// Options describes one registration.
type Options struct {
	Scope Scope
	// Directory is the project directory for the project and vscode scopes.
	// Empty means the working directory.
	Directory  string
	ServerName string
	ServerArgs []string
	// BinaryPath defaults to the running executable.
	BinaryPath string
	// GOOS defaults to the running system.
	GOOS string
}

// ParseScope validates a scope name.
func ParseScope(value string) (Scope, error) {
	switch scope := Scope(strings.ToLower(value)); scope {
	case ScopeProject, ScopeUser, ScopeVSCode:
		return scope, nil
	}
	return "", fmt.Errorf("unknown scope %q (must be \"project\", \"user\" or \"vscode\")", value)
}

// Register writes the server entry and returns the path of the updated file.
// Other entries in the file are preserved.
func Register(options Options) (string, error) {
	binaryPath := options.BinaryPath
	if binaryPath == "" {
		detected, err := detectBinaryPath()
		if err != nil {
			return "", fmt.Errorf("detecting binary path: %w", err)
		}
		binaryPath = detected
	}
	goos := options.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	serverName := options.ServerName
	if serverName == "" {
		serverName = DeriveServerName(binaryPath)
	}

	configPath, err := resolveConfigPath(options.Scope, options.Directory)
	if err != nil {
		return "", fmt.Errorf("resolving config path: %w", err)
	}

	entry := buildEntry(goos, options.Scope, binaryPath, options.ServerArgs)
	if err := writeConfig(configPath, rootKey(options.Scope), serverName, entry); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}
	return configPath, nil
}

// SplitArgs separates positional arguments from the ones after "--". dashAt is the
// number of arguments before the separator, or -1 when there is none.
func SplitArgs(args []string, dashAt int) (positional []string, forwarded []string) {
	if dashAt < 0 || dashAt > len(args) {
		return args, nil
	}
	return args[:dashAt], args[dashAt:]
}

// DeriveServerName extracts a server name from a binary path by stripping .exe and -mcp suffixes.
func DeriveServerName(binaryPath string) string {
	name := filepath.Base(binaryPath)
	name = strings.TrimSuffix(name, ".exe")
	name = strings.TrimSuffix(name, "-mcp")
	return name
}

func detectBinaryPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("getting executable path: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("resolving symlinks for %s: %w", exe, err)
	}
	return resolved, nil
}

func resolveConfigPath(scope Scope, directory string) (string, error) {
	if directory == "" {
		directory = "."
	}
	switch scope {
	case ScopeProject, ScopeVSCode:
		absDir, err := filepath.Abs(directory)
		if err != nil {
			return "", fmt.Errorf("resolving directory %s: %w", directory, err)
		}
		if scope == ScopeVSCode {
			return filepath.Join(absDir, ".vscode", "mcp.json"), nil
		}
		return filepath.Join(absDir, ".mcp.json"), nil
	case ScopeUser:
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		return filepath.Join(homeDir, ".claude.json"), nil
	}
	return "", fmt.Errorf("unknown scope %q", scope)
}

// rootKey is the object holding the server entries. VSCode names it "servers".
func rootKey(scope Scope) string {
	if scope == ScopeVSCode {
		return "servers"
	}
	return "mcpServers"
}

func buildEntry(goos string, scope Scope, binaryPath string, serverArgs []string) serverEntry {
	var entry serverEntry
	if goos == "windows" && scope != ScopeVSCode {
		args := []string{"/C", binaryPath}
		args = append(args, serverArgs...)
		entry = serverEntry{Command: "cmd", Args: args}
	} else {
		entry = serverEntry{Command: binaryPath, Args: serverArgs}
	}
	if scope == ScopeVSCode {
		entry.Type = "stdio"
	}
	return entry
}

func writeConfig(configPath string, key string, serverName string, entry serverEntry) error {
	// Read existing config or start fresh
	config := map[string]interface{}{
		key: map[string]interface{}{},
	}

	data, err := os.ReadFile(configPath)
	if err == nil {
		if err := json.Unmarshal(data, &config); err != nil {
			return fmt.Errorf("parsing existing config %s: %w", configPath, err)
		}
	}

	servers, ok := config[key]
	if !ok {
		servers = map[string]interface{}{}
		config[key] = servers
	}

	serversMap, ok := servers.(map[string]interface{})
	if !ok {
		return fmt.Errorf("%s in %s is not an object", key, configPath)
	}

	serversMap[serverName] = entry

	output, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	output = append(output, '\n')

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(configPath), err)
	}
	return fileio.WriteAtomic(configPath, output)
}
