package projectgen

import (
	"github.com/lexandro/vscodesync/inventory"
	"github.com/lexandro/vscodesync/pathutil"
	"github.com/lexandro/vscodesync/rsp"
)

// ModuleSummary describes a module as the next pass would generate it.
type ModuleSummary struct {
	Name        string
	ProjectFile string
	SourceFiles []string
	Defines     []string
	// References lists the modules emitted as project references.
	References []string
}

// Describe lists the modules that take part in generation without writing anything.
// Like a pass, it must not run concurrently with Sync or SyncIfNeeded.
func (g *Generator) Describe() []ModuleSummary {
	g.setupProjectSupportedExtensions()
	if err := g.loadSettings(); err != nil {
		g.logger.Warn("describing with previous build settings", "error", err)
	}

	modules := RelevantModules(g.provider.Assemblies(g.ShouldFileBePartOfSolution))
	summaries := make([]ModuleSummary, 0, len(modules))
	for _, module := range modules {
		summaries = append(summaries, ModuleSummary{
			Name:        module.Name,
			ProjectFile: g.ProjectFile(module.Name),
			SourceFiles: append([]string{}, module.SourceFiles...),
			Defines:     g.Defines(module, g.quietResponseFiles(module)),
			References:  g.projectReferenceNames(module),
		})
	}
	return summaries
}

// quietResponseFiles parses the response files of module without logging parse errors.
func (g *Generator) quietResponseFiles(module *inventory.Module) []rsp.Data {
	systemDirs := g.provider.SystemReferenceDirectories(module.Options.ApiCompatibilityLevel)
	result := make([]rsp.Data, 0, len(module.Options.ResponseFiles))
	for _, file := range module.Options.ResponseFiles {
		result = append(result, g.provider.ParseResponseFile(file, g.options.ProjectDir, systemDirs))
	}
	return result
}

func (g *Generator) projectReferenceNames(module *inventory.Module) []string {
	var names []string
	for _, ref := range module.References {
		if g.hasEligibleSource(ref) {
			names = append(names, ref.Name)
		}
	}
	return pathutil.Distinct(names)
}
