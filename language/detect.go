package language

import (
	"path/filepath"
	"strings"
)

// ScriptingLanguage classifies a source extension for project generation.
type ScriptingLanguage int

const (
	// None marks files listed for visibility but never compiled.
	None ScriptingLanguage = iota
	// CSharp marks compiled C# sources.
	CSharp
)

func (l ScriptingLanguage) String() string {
	if l == CSharp {
		return "CSharp"
	}
	return "None"
}

// builtinExtensions keeps the built-in extensions in their canonical order.
var builtinExtensions = []string{
	"cs",
	// UI Toolkit
	"uxml", "uss",
	// Shaders
	"shader", "compute", "cginc", "hlsl", "glslinc", "template", "raytrace",
}

// ExtensionToLanguage maps built-in extensions (without dot) to their scripting language.
var ExtensionToLanguage = map[string]ScriptingLanguage{
	"cs":       CSharp,
	"uxml":     None,
	"uss":      None,
	"shader":   None,
	"compute":  None,
	"cginc":    None,
	"hlsl":     None,
	"glslinc":  None,
	"template": None,
	"raytrace": None,
}

// BuiltinExtensions returns the built-in extensions without dots, in canonical order.
func BuiltinExtensions() []string {
	out := make([]string, len(builtinExtensions))
	copy(out, builtinExtensions)
	return out
}

// IsBuiltinExtension reports whether ext (with or without dot) is a built-in extension.
func IsBuiltinExtension(ext string) bool {
	_, ok := ExtensionToLanguage[strings.TrimPrefix(ext, ".")]
	return ok
}

// ScriptingLanguageFor maps an extension (with or without dot) to its scripting language.
// Unknown extensions are None.
func ScriptingLanguageFor(ext string) ScriptingLanguage {
	if lang, ok := ExtensionToLanguage[strings.TrimPrefix(ext, ".")]; ok {
		return lang
	}
	return None
}

// DetectLanguage returns the scripting language of a file, comparing extensions case-insensitively.
func DetectLanguage(filePath string) ScriptingLanguage {
	return ScriptingLanguageFor(strings.ToLower(filepath.Ext(filePath)))
}

// SourcesLanguage returns the language of a module judged by its first source file.
// Modules without sources are None.
func SourcesLanguage(sourceFiles []string) ScriptingLanguage {
	if len(sourceFiles) == 0 {
		return None
	}
	return DetectLanguage(sourceFiles[0])
}
