package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lexandro/vscodesync/index"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ModulesArgs defines the input parameters for the vscodesync_modules tool.
type ModulesArgs struct {
	Pattern    string `json:"pattern" jsonschema:"Glob matched against module names and source paths (e.g. *.Editor or Assets/Scripts/**/*.cs)"`
	NameOnly   bool   `json:"nameOnly,omitempty" jsonschema:"If true return only module names without metadata"`
	MaxResults int    `json:"maxResults,omitempty" jsonschema:"Maximum number of results to return (default 50)"`
}

// ModulesHandler holds the dependencies for the modules tool.
type ModulesHandler struct {
	ModuleIndex *index.ModuleIndex
	Logger      *slog.Logger
}

// Handle processes a vscodesync_modules request.
func (h *ModulesHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ModulesArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.Pattern == "" {
		h.Logger.Warn("vscodesync_modules called with empty pattern")
		return errorResult("Error: pattern parameter is required"), nil, nil
	}

	results, err := h.ModuleIndex.SearchByGlob(args.Pattern, args.MaxResults)
	if err != nil {
		h.Logger.Error("vscodesync_modules failed", "pattern", args.Pattern, "error", err)
		return errorResult(fmt.Sprintf("Search error: %v", err)), nil, nil
	}

	elapsed := time.Since(start)
	h.Logger.Info("vscodesync_modules",
		"pattern", args.Pattern,
		"results", len(results),
		"elapsed", elapsed,
	)

	return textResult(FormatModuleResults(results, args.NameOnly)), nil, nil
}
