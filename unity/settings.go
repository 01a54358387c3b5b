// Package unity reads the Unity project files that feed project generation:
// player settings, the editor version and asset .meta GUIDs.
package unity

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// SettingsFiles are the project relative paths LoadProjectSettings reads.
var SettingsFiles = []string{
	"ProjectSettings/ProjectSettings.asset",
	"ProjectSettings/ProjectVersion.txt",
}

// IsSettingsFile reports whether assetPath is one of SettingsFiles.
func IsSettingsFile(assetPath string) bool {
	assetPath = filepath.ToSlash(assetPath)
	for _, file := range SettingsFiles {
		if strings.EqualFold(assetPath, file) {
			return true
		}
	}
	return false
}

// API compatibility level names as used in build settings.
const (
	Net20         = "NET_2_0"
	Net20Subset   = "NET_2_0_Subset"
	NetUnity48    = "NET_Unity_4_8"
	Net46         = "NET_4_6"
	NetWeb        = "NET_Web"
	NetMicro      = "NET_Micro"
	NetStandard   = "NET_Standard"
	NetStandard20 = "NET_Standard_2_0"
)

var apiLevelByNumber = map[int]string{
	1: Net20,
	2: Net20Subset,
	3: NetUnity48,
	4: NetWeb,
	5: NetMicro,
	6: NetStandard,
}

// buildTargetGroupNames maps the numeric keys used by older settings files.
var buildTargetGroupNames = map[string]string{
	"1":  "Standalone",
	"4":  "iOS",
	"7":  "Android",
	"13": "WebGL",
	"14": "WSA",
	"19": "PS4",
	"21": "XboxOne",
	"25": "tvOS",
	"27": "Switch",
}

// ProjectSettings is the subset of player settings used for project generation.
type ProjectSettings struct {
	ApiCompatibilityLevel string
	ScriptingDefines      []string
	EditorVersion         string
}

type playerSettingsFile struct {
	PlayerSettings struct {
		ApiCompatibilityLevel            *int      `yaml:"apiCompatibilityLevel"`
		ApiCompatibilityLevelPerPlatform yaml.Node `yaml:"apiCompatibilityLevelPerPlatform"`
		ScriptingDefineSymbols           yaml.Node `yaml:"scriptingDefineSymbols"`
	} `yaml:"PlayerSettings"`
}

type projectVersionFile struct {
	EditorVersion string `yaml:"m_EditorVersion"`
}

type metaFile struct {
	GUID string `yaml:"guid"`
}

// LoadProjectSettings reads ProjectSettings/ProjectSettings.asset and
// ProjectSettings/ProjectVersion.txt. Missing files leave the fields at their zero
// value. buildTargetGroup selects the per-platform entries (e.g. "Standalone").
func LoadProjectSettings(projectDir string, buildTargetGroup string) (*ProjectSettings, error) {
	settings := &ProjectSettings{}
	settingsDir := filepath.Join(projectDir, "ProjectSettings")

	data, err := os.ReadFile(filepath.Join(settingsDir, "ProjectSettings.asset"))
	if err == nil {
		var file playerSettingsFile
		if err := yaml.Unmarshal(StripUnityTags(data), &file); err != nil {
			return nil, fmt.Errorf("parsing ProjectSettings.asset: %w", err)
		}
		ps := file.PlayerSettings

		if ps.ApiCompatibilityLevel != nil {
			settings.ApiCompatibilityLevel = apiLevelName(*ps.ApiCompatibilityLevel)
		}
		if v, ok := lookupGroup(&ps.ApiCompatibilityLevelPerPlatform, buildTargetGroup); ok {
			if n, err := strconv.Atoi(v); err == nil {
				settings.ApiCompatibilityLevel = apiLevelName(n)
			} else {
				settings.ApiCompatibilityLevel = v
			}
		}

		if v, ok := lookupGroup(&ps.ScriptingDefineSymbols, buildTargetGroup); ok {
			settings.ScriptingDefines = SplitDefines(v)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading ProjectSettings.asset: %w", err)
	}

	data, err = os.ReadFile(filepath.Join(settingsDir, "ProjectVersion.txt"))
	if err == nil {
		var version projectVersionFile
		if err := yaml.Unmarshal(data, &version); err != nil {
			return nil, fmt.Errorf("parsing ProjectVersion.txt: %w", err)
		}
		settings.EditorVersion = version.EditorVersion
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading ProjectVersion.txt: %w", err)
	}

	return settings, nil
}

// apiLevelName converts a numeric level to its name. Unknown numbers are kept as
// their decimal text so project generation rejects them.
func apiLevelName(level int) string {
	if name, ok := apiLevelByNumber[level]; ok {
		return name
	}
	return strconv.Itoa(level)
}

// ReadMetaGUID returns the asset GUID stored in a .meta file.
func ReadMetaGUID(metaPath string) (string, error) {
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return "", err
	}
	var meta metaFile
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return "", fmt.Errorf("parsing %s: %w", metaPath, err)
	}
	if meta.GUID == "" {
		return "", fmt.Errorf("no guid in %s", metaPath)
	}
	return meta.GUID, nil
}

// ParseEditorVersion extracts the year and minor number from versions like "2022.3.10f1".
func ParseEditorVersion(version string) (int, int, bool) {
	parts := strings.SplitN(version, ".", 3)
	if len(parts) < 2 {
		return 0, 0, false
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return major, minor, true
}

// ActiveDefines returns the defines every editor compilation carries for editorVersion,
// followed by the project's scripting defines. An unparsable version only yields
// UNITY_EDITOR.
func ActiveDefines(editorVersion string, scriptingDefines []string) []string {
	defines := []string{"UNITY_EDITOR"}
	if major, minor, ok := ParseEditorVersion(editorVersion); ok {
		defines = append(defines,
			fmt.Sprintf("UNITY_%d", major),
			fmt.Sprintf("UNITY_%d_%d", major, minor),
		)
		if patch, ok := editorPatch(editorVersion); ok {
			defines = append(defines, fmt.Sprintf("UNITY_%d_%d_%d", major, minor, patch))
		}
		defines = append(defines, fmt.Sprintf("UNITY_%d_%d_OR_NEWER", major, minor))
	}
	return append(defines, scriptingDefines...)
}

// editorPatch reads the leading digits of the third version component ("5" in 2021.3.5f1).
func editorPatch(version string) (int, bool) {
	parts := strings.SplitN(version, ".", 3)
	if len(parts) < 3 {
		return 0, false
	}
	end := 0
	for end < len(parts[2]) && parts[2][end] >= '0' && parts[2][end] <= '9' {
		end++
	}
	patch, err := strconv.Atoi(parts[2][:end])
	if err != nil {
		return 0, false
	}
	return patch, true
}

// SplitDefines splits a ";" separated define list, dropping empty entries.
func SplitDefines(value string) []string {
	var defines []string
	for _, d := range strings.Split(value, ";") {
		if d = strings.TrimSpace(d); d != "" {
			defines = append(defines, d)
		}
	}
	return defines
}

// StripUnityTags removes the %YAML/%TAG directives and the "!u!" class tags on document
// separators so the asset parses as plain YAML.
func StripUnityTags(data []byte) []byte {
	var out bytes.Buffer
	for _, line := range bytes.Split(data, []byte("\n")) {
		trimmed := bytes.TrimRight(line, "\r")
		if bytes.HasPrefix(trimmed, []byte("%")) {
			continue
		}
		if bytes.HasPrefix(trimmed, []byte("--- !u!")) {
			out.WriteString("---\n")
			continue
		}
		out.Write(trimmed)
		out.WriteByte('\n')
	}
	return out.Bytes()
}

// lookupGroup finds the value for a build target group in a mapping node whose keys
// are either group names or their numeric ids.
func lookupGroup(node *yaml.Node, group string) (string, bool) {
	if node == nil || node.Kind != yaml.MappingNode {
		return "", false
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		if name, ok := buildTargetGroupNames[key]; ok {
			key = name
		}
		if strings.EqualFold(key, group) {
			return node.Content[i+1].Value, true
		}
	}
	return "", false
}
