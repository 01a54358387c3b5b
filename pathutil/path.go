package pathutil

import (
	"path/filepath"
	"strings"
)

// NormalizePath converts both separator styles to the separator of the current OS.
func NormalizePath(path string) string {
	if filepath.Separator == '/' {
		return strings.ReplaceAll(path, "\\", "/")
	}
	return strings.ReplaceAll(path, "/", "\\")
}

// FullPath resolves path against projectDir unless it is already absolute.
func FullPath(path string, projectDir string) string {
	path = NormalizePath(path)
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(NormalizePath(projectDir), path)
}

// SkipPathPrefix strips prefix plus one separator from path when path lives under prefix.
// Paths outside prefix are returned unchanged.
func SkipPathPrefix(path string, prefix string) string {
	if prefix == "" {
		return path
	}
	prefix = strings.TrimRight(prefix, `/\`)
	if len(path) > len(prefix) && strings.HasPrefix(path, prefix) && isSeparator(path[len(prefix)]) {
		return path[len(prefix)+1:]
	}
	return path
}

// RelativePathFor returns path relative to projectDir using OS separators.
// Files outside the project directory keep their absolute path.
func RelativePathFor(path string, projectDir string) string {
	projectDir = filepath.Clean(NormalizePath(projectDir))
	full := FullPath(path, projectDir)
	return NormalizePath(SkipPathPrefix(full, projectDir))
}

// EscapedRelativePathFor is RelativePathFor with XML special characters escaped,
// for text that is spliced into a document without going through an XML writer.
func EscapedRelativePathFor(path string, projectDir string) string {
	return EscapeXML(RelativePathFor(path, projectDir))
}

// ToAssetPath converts an absolute path under projectDir to a slash separated project
// relative path such as "Assets/Scripts/Player.cs".
func ToAssetPath(absolutePath string, projectDir string) string {
	rel, err := filepath.Rel(projectDir, absolutePath)
	if err != nil {
		return filepath.ToSlash(absolutePath)
	}
	return filepath.ToSlash(rel)
}

// FileNameWithoutExtension returns the last path element without its extension,
// treating both separator styles as separators.
func FileNameWithoutExtension(path string) string {
	name := path
	if idx := strings.LastIndexAny(name, `/\`); idx >= 0 {
		name = name[idx+1:]
	}
	if idx := strings.LastIndex(name, "."); idx > 0 {
		name = name[:idx]
	}
	return name
}

// Extension returns the extension of path including the leading dot, or "".
func Extension(path string) string {
	name := path
	if idx := strings.LastIndexAny(name, `/\`); idx >= 0 {
		name = name[idx+1:]
	}
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		return name[idx:]
	}
	return ""
}

func isSeparator(c byte) bool {
	return c == '/' || c == '\\'
}
