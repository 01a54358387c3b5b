// Package discovery finds Visual Studio Code installations on the local machine.
package discovery

import (
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/lexandro/vscodesync/pathutil"
)

const (
	StableName   = "Visual Studio Code"
	InsidersName = "Visual Studio Code Insiders"
)

// Installation is one editor binary that can be launched.
type Installation struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// supportedFileNames are lowercase binary names with spaces removed.
var supportedFileNames = map[string]bool{
	"code.exe":                      true,
	"visualstudiocode.app":          true,
	"visualstudiocode-insiders.app": true,
	"vscode.app":                    true,
	"code.app":                      true,
	"code.cmd":                      true,
	"code-insiders.cmd":             true,
	"code":                          true,
	"com.visualstudio.code":         true,
}

// IsSupportedBinary reports whether the file name of path is a known editor binary.
// Case and spaces are ignored, so "Visual Studio Code.app" matches.
func IsSupportedBinary(path string) bool {
	name := strings.ToLower(path)
	if idx := strings.LastIndexAny(name, `/\`); idx >= 0 {
		name = name[idx+1:]
	}
	return supportedFileNames[strings.ReplaceAll(name, " ", "")]
}

// Options overrides the environment probed by a Discovery. Zero values select the
// running system.
type Options struct {
	GOOS     string
	Getenv   func(key string) string
	Exists   func(path string, wantDir bool) bool
	LookPath func(file string) (string, error)
	Logger   *slog.Logger
}

// Discovery probes candidate paths once and caches the result until Refresh.
type Discovery struct {
	options Options
	logger  *slog.Logger

	mu            sync.Mutex
	installations []Installation
	loaded        bool
}

// New creates a Discovery for the running system unless options say otherwise.
func New(options Options) *Discovery {
	if options.GOOS == "" {
		options.GOOS = runtime.GOOS
	}
	if options.Getenv == nil {
		options.Getenv = os.Getenv
	}
	if options.Exists == nil {
		options.Exists = pathExists
	}
	if options.LookPath == nil {
		options.LookPath = exec.LookPath
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Discovery{options: options, logger: logger}
}

// Installations returns the discovered installations, probing on first use.
func (d *Discovery) Installations() []Installation {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.loaded {
		d.installations = d.discover()
		d.loaded = true
		d.logger.Debug("editor discovery finished", "installations", len(d.installations))
	}
	out := make([]Installation, len(d.installations))
	copy(out, d.installations)
	return out
}

// Refresh drops the cached result so the next Installations call probes again.
func (d *Discovery) Refresh() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.loaded = false
	d.installations = nil
}

func (d *Discovery) discover() []Installation {
	wantDir := d.options.GOOS == "darwin"
	var existing []string
	for _, candidate := range CandidatePaths(d.options.GOOS, d.options.Getenv) {
		if d.options.Exists(candidate, wantDir) {
			existing = append(existing, candidate)
		}
	}
	if len(existing) == 0 {
		for _, binary := range []string{"code", "code-insiders"} {
			if path, err := d.options.LookPath(binary); err == nil {
				existing = append(existing, path)
			}
		}
	}
	return NameInstallations(existing)
}

// CandidatePaths lists the well-known install locations for goos, in probe order.
func CandidatePaths(goos string, getenv func(string) string) []string {
	switch goos {
	case "darwin":
		return []string{
			"/Applications/Visual Studio Code.app",
			"/Applications/Visual Studio Code - Insiders.app",
		}
	case "windows":
		programFiles := strings.ReplaceAll(getenv("ProgramFiles"), `\`, "/")
		localAppData := strings.ReplaceAll(getenv("LOCALAPPDATA"), `\`, "/")
		var paths []string
		if programFiles != "" {
			paths = append(paths,
				programFiles+"/Microsoft VS Code/bin/code.cmd",
				programFiles+"/Microsoft VS Code/Code.exe",
				programFiles+"/Microsoft VS Code Insiders/bin/code-insiders.cmd",
				programFiles+"/Microsoft VS Code Insiders/Code.exe",
			)
		}
		if localAppData != "" {
			paths = append(paths,
				localAppData+"/Programs/Microsoft VS Code/bin/code.cmd",
				localAppData+"/Programs/Microsoft VS Code/Code.exe",
				localAppData+"/Programs/Microsoft VS Code Insiders/bin/code-insiders.cmd",
				localAppData+"/Programs/Microsoft VS Code Insiders/Code.exe",
			)
		}
		return paths
	default:
		return []string{
			"/usr/bin/code",
			"/bin/code",
			"/usr/local/bin/code",
			"/var/lib/flatpak/exports/bin/com.visualstudio.code",
			"/snap/current/bin/code",
			"/snap/bin/code",
		}
	}
}

// NameInstallations turns existing binary paths into installations. A single path, or
// two paths that differ only in their file name, yield one installation named after
// the first path. Otherwise every path is listed with the part after the common
// prefix as a qualifier.
func NameInstallations(paths []string) []Installation {
	if len(paths) == 0 {
		return nil
	}
	prefix := pathutil.LongestCommonPrefix(paths)
	single := len(paths) == 1
	if len(paths) == 2 {
		for _, p := range paths {
			if !strings.ContainsAny(p[len(prefix):], `/\`) {
				single = true
				break
			}
		}
	}
	if single {
		return []Installation{{Name: nameFor(paths[0]), Path: paths[0]}}
	}

	installations := make([]Installation, 0, len(paths))
	for _, p := range paths {
		installations = append(installations, Installation{
			Name: nameFor(p) + " (" + p[len(prefix):] + ")",
			Path: p,
		})
	}
	return installations
}

func nameFor(path string) string {
	if strings.Contains(path, "Insiders") {
		return InsidersName
	}
	return StableName
}

func pathExists(path string, wantDir bool) bool {
	info, err := os.Stat(filepath.FromSlash(path))
	if err != nil {
		return false
	}
	return info.IsDir() == wantDir
}
