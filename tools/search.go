package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lexandro/vscodesync/index"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SearchArgs defines the input parameters for the vscodesync_search tool.
type SearchArgs struct {
	Query      string `json:"query" jsonschema:"Search query over module names, sources, defines and references. Plain text for word match, quoted for exact phrase, /regex/ for regular expression"`
	ModuleGlob string `json:"moduleGlob,omitempty" jsonschema:"Optional glob pattern to filter module names (e.g. *.Editor)"`
	MaxResults int    `json:"maxResults,omitempty" jsonschema:"Maximum number of modules to return (default 50)"`
}

// SearchHandler holds the dependencies for the search tool.
type SearchHandler struct {
	SearchIndex *index.SearchIndex
	Logger      *slog.Logger
}

// Handle processes a vscodesync_search request.
func (h *SearchHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args SearchArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.Query == "" {
		h.Logger.Warn("vscodesync_search called with empty query")
		return errorResult("Error: query parameter is required"), nil, nil
	}

	hits, err := h.SearchIndex.Search(index.SearchOptions{
		Query:      args.Query,
		ModuleGlob: args.ModuleGlob,
		MaxResults: args.MaxResults,
	})
	if err != nil {
		h.Logger.Error("vscodesync_search failed", "query", args.Query, "error", err)
		return errorResult(fmt.Sprintf("Search error: %v", err)), nil, nil
	}

	elapsed := time.Since(start)
	h.Logger.Info("vscodesync_search",
		"query", args.Query,
		"moduleGlob", args.ModuleGlob,
		"modules", len(hits),
		"elapsed", elapsed,
	)

	return textResult(FormatSearchHits(hits)), nil, nil
}
