package tools

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/lexandro/vscodesync/discovery"
	"github.com/lexandro/vscodesync/index"
	"github.com/lexandro/vscodesync/projectgen"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// FormatSearchHits formats module search hits as human-readable text.
// Each hit lists the fields that matched.
func FormatSearchHits(hits []index.SearchHit) string {
	if len(hits) == 0 {
		return "No matches found."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Found %d modules:\n\n", len(hits)))

	for i, hit := range hits {
		if i > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(fmt.Sprintf("── %s ──\n", hit.Module.Name))
		builder.WriteString(fmt.Sprintf("  project: %s\n", filepath.ToSlash(hit.Module.ProjectFile)))
		if len(hit.Fields) > 0 {
			builder.WriteString(fmt.Sprintf("  matched: %s\n", strings.Join(hit.Fields, ", ")))
		}
		if len(hit.Module.References) > 0 {
			builder.WriteString(fmt.Sprintf("  references: %s\n", strings.Join(hit.Module.References, ", ")))
		}
	}

	return builder.String()
}

// FormatModuleResults formats glob matches over modules as human-readable text.
func FormatModuleResults(results []index.ModuleMatch, nameOnly bool) string {
	if len(results) == 0 {
		return "No modules matched."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Found %d modules:\n\n", len(results)))

	for _, result := range results {
		if nameOnly {
			builder.WriteString(result.Module.Name)
			builder.WriteString("\n")
			continue
		}
		builder.WriteString(fmt.Sprintf("  %s  (%d sources, %d defines, %d references)\n",
			result.Module.Name,
			len(result.Module.SourceFiles),
			len(result.Module.Defines),
			len(result.Module.References),
		))
		for _, source := range result.MatchedSources {
			builder.WriteString(fmt.Sprintf("    %s\n", source))
		}
	}

	return builder.String()
}

// FormatReport summarizes a synchronization pass.
func FormatReport(report projectgen.Report) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("%s: %d modules, %d written, %d unchanged",
		report.State, len(report.Modules), len(report.Written), len(report.Unchanged)))
	if len(report.Failed) > 0 {
		builder.WriteString(fmt.Sprintf(", %d failed", len(report.Failed)))
	}
	if len(report.Restored) > 0 {
		builder.WriteString(fmt.Sprintf(", %d restored", len(report.Restored)))
	}
	builder.WriteString(fmt.Sprintf(" in %s\n", report.Duration.Round(time.Millisecond)))

	for _, path := range report.Written {
		builder.WriteString(fmt.Sprintf("  written  %s\n", filepath.ToSlash(path)))
	}
	for _, path := range report.Failed {
		builder.WriteString(fmt.Sprintf("  failed   %s\n", filepath.ToSlash(path)))
	}

	return builder.String()
}

// FormatInstallations lists editor installations, one per line.
func FormatInstallations(installations []discovery.Installation) string {
	if len(installations) == 0 {
		return "No installations found."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Found %d installations:\n\n", len(installations)))
	for _, installation := range installations {
		builder.WriteString(fmt.Sprintf("  %-40s %s\n", installation.Name, installation.Path))
	}
	return builder.String()
}

// FormatFileContent formats a document with line numbers, similar to the built-in Read tool.
// Output format: header line with path and line count, followed by numbered lines.
func FormatFileContent(filePath string, content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	lineCount := len(lines)

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("── %s (%d lines) ──\n", filePath, lineCount))

	// Calculate width needed for line numbers
	width := len(fmt.Sprintf("%d", lineCount))

	for i, line := range lines {
		builder.WriteString(fmt.Sprintf("%*d│ %s\n", width, i+1, line))
	}

	return builder.String()
}

// formatFileSize converts bytes to a human-readable string.
func formatFileSize(bytes int64) string {
	switch {
	case bytes >= 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	case bytes >= 1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// errorResult wraps text into a failed tool result.
func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
