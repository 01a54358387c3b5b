package main

import (
	"log/slog"
	"time"

	"github.com/lexandro/vscodesync/index"
	"github.com/lexandro/vscodesync/projectgen"
)

// refreshIndexes replaces the indexed modules with the ones the generator currently
// produces. Modules that disappeared are removed from both indexes.
// Returns the number of indexed modules.
func refreshIndexes(
	projects *projectgen.Generator,
	moduleIndex *index.ModuleIndex,
	searchIndex *index.SearchIndex,
	logger *slog.Logger,
) int {
	start := time.Now()
	written := make(map[string]bool)
	for _, path := range projects.LastReport().Written {
		written[path] = true
	}

	summaries := projects.Describe()
	seen := make(map[string]bool, len(summaries))
	for _, summary := range summaries {
		entry := &index.ModuleEntry{
			Name:        summary.Name,
			ProjectFile: summary.ProjectFile,
			SourceFiles: summary.SourceFiles,
			Defines:     summary.Defines,
			References:  summary.References,
			Written:     written[summary.ProjectFile],
			UpdatedAt:   start,
		}
		moduleIndex.Put(entry)
		if err := searchIndex.IndexModule(entry); err != nil {
			logger.Warn("indexing module failed", "module", entry.Name, "error", err)
		}
		seen[entry.Name] = true
	}

	for _, existing := range moduleIndex.All() {
		if seen[existing.Name] {
			continue
		}
		moduleIndex.Remove(existing.Name)
		if err := searchIndex.RemoveModule(existing.Name); err != nil {
			logger.Warn("removing module from search index failed", "module", existing.Name, "error", err)
		}
		logger.Debug("module removed from index", "module", existing.Name)
	}

	logger.Debug("module indexes refreshed",
		"modules", len(summaries),
		"duration", time.Since(start),
	)
	return len(summaries)
}
