// Package inventory builds the compilation graph of a Unity project: which modules
// (assemblies) exist, which source files they compile, how they reference each other,
// and which non-source assets sit next to them.
package inventory

import (
	"github.com/lexandro/vscodesync/rsp"
)

// ScriptAssembliesDir is where the editor writes compiled modules, relative to the project.
const ScriptAssembliesDir = "Library/ScriptAssemblies"

// CompilerOptions carries the per-module compiler settings.
type CompilerOptions struct {
	LanguageVersion       string
	AllowUnsafeCode       bool
	RulesetPath           string
	ResponseFiles         []string
	ApiCompatibilityLevel string
}

// Module is one compiled unit. It is immutable for the duration of a pass.
type Module struct {
	Name string
	// SourceFiles are project relative asset paths in discovery order.
	SourceFiles []string
	// References are the modules this module compiles against.
	References []*Module
	// CompiledReferences are absolute paths of precompiled assemblies.
	CompiledReferences []string
	Defines            []string
	Options            CompilerOptions
	// OutputPath is the project relative path of the compiled assembly.
	OutputPath string
}

// OutputPathFor returns the conventional output path of a module named name.
func OutputPathFor(name string) string {
	return ScriptAssembliesDir + "/" + name + ".dll"
}

// Provider supplies the build graph and package information to the generator.
// Implementations must return fresh module objects from every Assemblies call.
type Provider interface {
	// ProjectSupportedExtensions returns the user configured extensions (without dot)
	// that are listed in projects next to the built-in ones.
	ProjectSupportedExtensions() []string
	// AssemblyNameFromScriptPath returns "<Module>.dll" for the module an asset belongs
	// to, or "" when it belongs to none.
	AssemblyNameFromScriptPath(path string) string
	// Assemblies returns the modules that have at least one source file accepted by
	// shouldInclude, in discovery order.
	Assemblies(shouldInclude func(path string) bool) []*Module
	// AllAssetPaths returns every asset path of the project.
	AllAssetPaths() []string
	// ResolveAssetPath maps an asset path to the file that backs it on disk, relative to
	// the project where possible.
	ResolveAssetPath(assetPath string) string
	ParseResponseFile(path string, projectDir string, systemReferenceDirs []string) rsp.Data
	SystemReferenceDirectories(apiCompatibilityLevel string) []string
	// IsInternalizedPackagePath reports whether path lives in a package excluded from
	// generation.
	IsInternalizedPackagePath(path string) bool
	ResetPackageInfoCache()
}
