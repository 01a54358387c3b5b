package projectgen

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/lexandro/vscodesync/inventory"
)

const windowsNewline = "\r\n"

const (
	solutionFileVersion    = "11.00"
	solutionVisualStudio   = "2020"
	solutionEntryTemplate  = "Project(\"{%s}\") = \"%s\", \"%s\", \"{%s}\"\r\nEndProject"
	solutionConfigTemplate = "\t\t{%[1]s}.Debug|Any CPU.ActiveCfg = Debug|Any CPU\r\n" +
		"\t\t{%[1]s}.Debug|Any CPU.Build.0 = Debug|Any CPU"
)

var solutionLines = []string{
	"",
	"Microsoft Visual Studio Solution File, Format Version %s",
	"# Visual Studio %s",
	"%s",
	"Global",
	"\tGlobalSection(SolutionConfigurationPlatforms) = preSolution",
	"\t\tDebug|Any CPU = Debug|Any CPU",
	"\tEndGlobalSection",
	"\tGlobalSection(ProjectConfigurationPlatforms) = postSolution",
	"%s",
	"\tEndGlobalSection",
	"\tGlobalSection(SolutionProperties) = preSolution",
	"\t\tHideSolutionNode = FALSE",
	"\tEndGlobalSection",
	"EndGlobal",
	"",
}

// SolutionText renders the solution document listing the C# modules in the given order.
func (g *Generator) SolutionText(modules []*inventory.Module) string {
	relevant := RelevantModules(modules)

	entries := make([]string, 0, len(relevant))
	configs := make([]string, 0, len(relevant))
	for _, module := range relevant {
		projectGUID := g.guids.ProjectGUID(g.projectName, module.Name)
		entries = append(entries, fmt.Sprintf(solutionEntryTemplate,
			g.guids.SolutionGUID(g.projectName, sourcesExtension(module.SourceFiles)),
			module.Name,
			filepath.Base(g.ProjectFile(module.Name)),
			projectGUID,
		))
		configs = append(configs, fmt.Sprintf(solutionConfigTemplate, projectGUID))
	}

	return fmt.Sprintf(strings.Join(solutionLines, windowsNewline),
		solutionFileVersion,
		solutionVisualStudio,
		strings.Join(entries, windowsNewline),
		strings.Join(configs, windowsNewline),
	)
}
