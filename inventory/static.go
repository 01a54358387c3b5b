package inventory

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/lexandro/vscodesync/config"
	"github.com/lexandro/vscodesync/packages"
	"github.com/lexandro/vscodesync/rsp"
)

// Static is a Provider over a build graph that was produced elsewhere, for example
// exported by the editor or by a build tool. Modules are copied on every
// Assemblies call so the generator never shares state between passes.
type Static struct {
	Modules    []*Module
	Assets     []string
	Extensions []string
	SystemDirs []string
	// PackageSources maps package names to their origin.
	PackageSources map[string]packages.Source
	Inclusion      config.PackageInclusion
	// ResponseFiles serves response file content by path. Paths not found here are
	// read from disk.
	ResponseFiles map[string]string
}

// Graph is the serialized form read by LoadGraph.
type Graph struct {
	Modules                    []GraphModule     `json:"modules"`
	Assets                     []string          `json:"assets"`
	SupportedExtensions        []string          `json:"supportedExtensions"`
	SystemReferenceDirectories []string          `json:"systemReferenceDirectories"`
	Packages                   map[string]string `json:"packages"`
}

// GraphModule is one module of a serialized graph. References name other modules.
type GraphModule struct {
	Name                  string   `json:"name"`
	SourceFiles           []string `json:"sourceFiles"`
	References            []string `json:"references"`
	CompiledReferences    []string `json:"compiledReferences"`
	Defines               []string `json:"defines"`
	OutputPath            string   `json:"outputPath"`
	LanguageVersion       string   `json:"languageVersion"`
	AllowUnsafeCode       bool     `json:"allowUnsafeCode"`
	RulesetPath           string   `json:"rulesetPath"`
	ResponseFiles         []string `json:"responseFiles"`
	ApiCompatibilityLevel string   `json:"apiCompatibilityLevel"`
}

// LoadGraph reads a JSON build graph from path.
func LoadGraph(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading build graph: %w", err)
	}
	var graph Graph
	if err := json.Unmarshal(data, &graph); err != nil {
		return nil, fmt.Errorf("parsing build graph %s: %w", path, err)
	}
	return graph.Static()
}

// Static links the serialized modules into a Provider.
func (g *Graph) Static() (*Static, error) {
	byName := make(map[string]*Module, len(g.Modules))
	modules := make([]*Module, 0, len(g.Modules))
	for _, gm := range g.Modules {
		if gm.Name == "" {
			return nil, fmt.Errorf("build graph module without name")
		}
		if _, dup := byName[gm.Name]; dup {
			return nil, fmt.Errorf("duplicate module %q in build graph", gm.Name)
		}
		module := &Module{
			Name:               gm.Name,
			SourceFiles:        gm.SourceFiles,
			CompiledReferences: gm.CompiledReferences,
			Defines:            gm.Defines,
			OutputPath:         gm.OutputPath,
			Options: CompilerOptions{
				LanguageVersion:       gm.LanguageVersion,
				AllowUnsafeCode:       gm.AllowUnsafeCode,
				RulesetPath:           gm.RulesetPath,
				ResponseFiles:         gm.ResponseFiles,
				ApiCompatibilityLevel: gm.ApiCompatibilityLevel,
			},
		}
		if module.OutputPath == "" {
			module.OutputPath = OutputPathFor(gm.Name)
		}
		byName[gm.Name] = module
		modules = append(modules, module)
	}

	for i, gm := range g.Modules {
		for _, ref := range gm.References {
			target, ok := byName[ref]
			if !ok {
				return nil, fmt.Errorf("module %q references unknown module %q", gm.Name, ref)
			}
			modules[i].References = append(modules[i].References, target)
		}
	}

	sources := make(map[string]packages.Source, len(g.Packages))
	for name, source := range g.Packages {
		sources[name] = packages.ParseSource(source)
	}
	return &Static{
		Modules:        modules,
		Assets:         g.Assets,
		Extensions:     g.SupportedExtensions,
		SystemDirs:     g.SystemReferenceDirectories,
		PackageSources: sources,
	}, nil
}

func (s *Static) ProjectSupportedExtensions() []string {
	return s.Extensions
}

// AssemblyNameFromScriptPath returns the module listing path as a source file. Other
// assets belong to the module with a source file in the nearest enclosing folder.
func (s *Static) AssemblyNameFromScriptPath(assetPath string) string {
	assetPath = normalizeAssetPath(assetPath)
	best, bestDepth := "", -1
	for _, module := range s.Modules {
		for _, source := range module.SourceFiles {
			if strings.EqualFold(source, assetPath) {
				return module.Name + ".dll"
			}
			if depth := sharedDirDepth(path.Dir(source), path.Dir(assetPath)); depth > bestDepth {
				best, bestDepth = module.Name, depth
			}
		}
	}
	if best == "" {
		return ""
	}
	return best + ".dll"
}

// sharedDirDepth returns how many folders of assetDir are covered by sourceDir when
// sourceDir encloses assetDir, or -1.
func sharedDirDepth(sourceDir string, assetDir string) int {
	lowerSource, lowerAsset := strings.ToLower(sourceDir), strings.ToLower(assetDir)
	if lowerSource != lowerAsset && !strings.HasPrefix(lowerAsset, lowerSource+"/") {
		return -1
	}
	return strings.Count(lowerSource, "/") + 1
}

// Assemblies returns copies of the modules with an eligible source file.
func (s *Static) Assemblies(shouldInclude func(path string) bool) []*Module {
	copies := make(map[*Module]*Module, len(s.Modules))
	for _, module := range s.Modules {
		clone := *module
		copies[module] = &clone
	}

	var result []*Module
	for _, module := range s.Modules {
		clone := copies[module]
		clone.References = make([]*Module, 0, len(module.References))
		for _, ref := range module.References {
			if c, ok := copies[ref]; ok {
				clone.References = append(clone.References, c)
			} else {
				clone.References = append(clone.References, ref)
			}
		}
		for _, source := range module.SourceFiles {
			if shouldInclude == nil || shouldInclude(source) {
				result = append(result, clone)
				break
			}
		}
	}
	return result
}

func (s *Static) AllAssetPaths() []string {
	return s.Assets
}

func (s *Static) ResolveAssetPath(assetPath string) string {
	return assetPath
}

func (s *Static) ParseResponseFile(path string, projectDir string, systemReferenceDirs []string) rsp.Data {
	if text, ok := s.ResponseFiles[path]; ok {
		return rsp.ParseText(text, projectDir, systemReferenceDirs, func(string) bool { return true })
	}
	return rsp.Parse(path, projectDir, systemReferenceDirs)
}

func (s *Static) SystemReferenceDirectories(apiCompatibilityLevel string) []string {
	return s.SystemDirs
}

func (s *Static) IsInternalizedPackagePath(path string) bool {
	parts := strings.SplitN(normalizeAssetPath(path), "/", 3)
	if len(parts) < 2 || !strings.EqualFold(parts[0], "Packages") {
		return false
	}
	for pkg, source := range s.PackageSources {
		if strings.EqualFold(pkg, parts[1]) {
			return !s.Inclusion.Includes(source)
		}
	}
	return false
}

func (s *Static) ResetPackageInfoCache() {}

// SetInclusion replaces the package inclusion used by IsInternalizedPackagePath.
func (s *Static) SetInclusion(inclusion config.PackageInclusion) {
	s.Inclusion = inclusion
}
