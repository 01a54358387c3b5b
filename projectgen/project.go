package projectgen

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/lexandro/vscodesync/inventory"
	"github.com/lexandro/vscodesync/language"
	"github.com/lexandro/vscodesync/pathutil"
	"github.com/lexandro/vscodesync/rsp"
)

const (
	projectExtension = ".csproj"
	analyzerPackage  = "Microsoft.Unity.Analyzers"
)

// baselineDefines open every DefineConstants list.
var baselineDefines = []string{"DEBUG", "TRACE"}

// ProjectText renders the project document of module. assetParts maps module names to
// the non-source assets listed in their project.
func (g *Generator) ProjectText(module *inventory.Module, assetParts map[string][]string, responseFiles []rsp.Data) (string, error) {
	framework, err := TargetFramework(g.options.ApiCompatibilityLevel)
	if err != nil {
		return "", err
	}

	doc := etree.NewDocument()
	project := doc.CreateElement("Project")
	project.CreateAttr("Sdk", "Microsoft.NET.Sdk")

	sdk := project.CreateElement("PropertyGroup")
	sdk.CreateElement("TargetFramework").SetText(framework)
	sdk.CreateElement("DisableImplicitNamespaceImports").SetText("true")
	items := project.CreateElement("PropertyGroup")
	items.CreateElement("DefaultItemExcludes").SetText("$(DefaultItemExcludes);Library/;**/*.*")
	items.CreateElement("EnableDefaultCompileItems").SetText("false")

	g.addCommonProperties(project, module, responseFiles)

	if len(module.SourceFiles) > 0 {
		compile := project.CreateElement("ItemGroup")
		for _, source := range module.SourceFiles {
			compile.CreateElement("Compile").CreateAttr("Include", g.relativeAssetPath(source))
		}
	}

	if parts, ok := assetParts[module.Name]; ok && len(parts) > 0 {
		none := project.CreateElement("ItemGroup")
		for _, asset := range parts {
			none.CreateElement("None").CreateAttr("Include", g.relativeAssetPath(asset))
		}
	}

	if references := g.pathReferences(module, responseFiles); len(references) > 0 {
		refs := project.CreateElement("ItemGroup")
		rewrite := needsFacadeRewrite(framework, g.options.UnityVersion)
		for _, reference := range references {
			appendReference(refs, reference, rewrite)
		}
	}

	var projectRefs []*inventory.Module
	for _, ref := range module.References {
		if g.hasEligibleSource(ref) {
			projectRefs = append(projectRefs, ref)
		}
	}
	if len(projectRefs) > 0 {
		group := project.CreateElement("ItemGroup")
		for _, ref := range projectRefs {
			group.CreateElement("ProjectReference").CreateAttr("Include", ref.Name+projectExtension)
		}
	}

	analyzers := project.CreateElement("ItemGroup")
	pkg := analyzers.CreateElement("PackageReference")
	pkg.CreateAttr("Include", analyzerPackage)
	pkg.CreateAttr("Version", "*")
	pkg.CreateElement("PrivateAssets").SetText("all")
	pkg.CreateElement("IncludeAssets").SetText("runtime; build; native; contentfiles; analyzers")

	doc.Indent(2)
	return doc.WriteToString()
}

// addCommonProperties appends the defines group and the compiler settings group.
func (g *Generator) addCommonProperties(project *etree.Element, module *inventory.Module, responseFiles []rsp.Data) {
	otherArguments := rsp.OtherArguments(responseFiles)

	project.CreateElement("PropertyGroup").CreateElement("DefineConstants").SetText(
		strings.Join(g.Defines(module, responseFiles), ";"))

	common := project.CreateElement("PropertyGroup")
	langVersion := otherArguments.First("langversion")
	if strings.TrimSpace(langVersion) == "" {
		langVersion = module.Options.LanguageVersion
	}
	common.CreateElement("LangVersion").SetText(langVersion)

	allowUnsafe := module.Options.AllowUnsafeCode
	for _, data := range responseFiles {
		allowUnsafe = allowUnsafe || data.Unsafe
	}
	common.CreateElement("AllowUnsafeBlocks").SetText(csharpBool(allowUnsafe))
	common.CreateElement("WarningLevel").SetText("4")
	common.CreateElement("NoStdLib").SetText("true")
	common.CreateElement("AssemblyName").SetText(module.Name)

	for _, ruleset := range g.rulesets(module, otherArguments) {
		common.CreateElement("CodeAnalysisRuleSet").SetText(ruleset)
	}
}

// Defines merges the baseline, module, response file and global defines, keeping the
// first occurrence of each.
func (g *Generator) Defines(module *inventory.Module, responseFiles []rsp.Data) []string {
	defines := append([]string{}, baselineDefines...)
	defines = append(defines, module.Defines...)
	for _, data := range responseFiles {
		defines = append(defines, data.Defines...)
	}
	defines = append(defines, g.options.GlobalDefines...)
	return pathutil.Distinct(defines)
}

// rulesets lists the ruleset files from response files followed by the module's own,
// as absolute paths.
func (g *Generator) rulesets(module *inventory.Module, otherArguments rsp.Lookup) []string {
	candidates := append([]string{}, otherArguments.Values("ruleset")...)
	candidates = append(candidates, module.Options.RulesetPath)

	var result []string
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		result = append(result, pathutil.FullPath(candidate, g.options.ProjectDir))
	}
	return pathutil.Distinct(result)
}

// pathReferences is the union of compiled references, response file references and
// the outputs of referenced modules that are not generated as projects.
func (g *Generator) pathReferences(module *inventory.Module, responseFiles []rsp.Data) []string {
	refs := append([]string{}, module.CompiledReferences...)
	for _, data := range responseFiles {
		refs = append(refs, data.FullPathReferences...)
	}
	for _, ref := range module.References {
		if !g.hasEligibleSource(ref) {
			refs = append(refs, ref.OutputPath)
		}
	}

	result := make([]string, 0, len(refs))
	for _, ref := range pathutil.Distinct(refs) {
		result = append(result, pathutil.FullPath(ref, g.options.ProjectDir))
	}
	return pathutil.Distinct(result)
}

func appendReference(group *etree.Element, fullPath string, rewriteFacades bool) {
	hintPath := pathutil.NormalizePath(fullPath)
	reference := group.CreateElement("Reference")
	reference.CreateAttr("Include", pathutil.FileNameWithoutExtension(hintPath))
	if rewriteFacades {
		hintPath = rewriteFacade(hintPath)
	}
	reference.CreateElement("HintPath").SetText(hintPath)
}

// relativeAssetPath returns the path written into Include attributes. The XML writer
// escapes it.
func (g *Generator) relativeAssetPath(assetPath string) string {
	return pathutil.RelativePathFor(g.provider.ResolveAssetPath(assetPath), g.options.ProjectDir)
}

func (g *Generator) hasEligibleSource(module *inventory.Module) bool {
	for _, source := range module.SourceFiles {
		if g.ShouldFileBePartOfSolution(source) {
			return true
		}
	}
	return false
}

// RelevantModules keeps the modules whose first source file is C#, preserving order.
func RelevantModules(modules []*inventory.Module) []*inventory.Module {
	result := make([]*inventory.Module, 0, len(modules))
	for _, module := range modules {
		if language.SourcesLanguage(module.SourceFiles) == language.CSharp {
			result = append(result, module)
		}
	}
	return result
}

// sourcesExtension returns the lowercase extension of the first source file without
// the dot, or "NA".
func sourcesExtension(sourceFiles []string) string {
	if len(sourceFiles) == 0 {
		return "NA"
	}
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(sourceFiles[0])), ".")
}

func csharpBool(b bool) string {
	s := strconv.FormatBool(b)
	return strings.ToUpper(s[:1]) + s[1:]
}
