package tools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// OpenArgs defines the input parameters for the vscodesync_open tool.
type OpenArgs struct {
	Path   string `json:"path" jsonschema:"File to open, absolute or relative to the project root"`
	Line   int    `json:"line,omitempty" jsonschema:"1-based line number (default 1)"`
	Column int    `json:"column,omitempty" jsonschema:"Column number (default 0)"`
}

// Opener launches the editor at a location.
type Opener interface {
	OpenProject(path string, line int, column int) bool
	CommandLine(path string, line int, column int) (string, []string)
}

// OpenHandler holds the dependencies for the open tool.
type OpenHandler struct {
	Opener Opener
	Logger *slog.Logger
}

// Handle processes a vscodesync_open request.
func (h *OpenHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args OpenArgs) (*mcp.CallToolResult, any, error) {
	if args.Path == "" {
		h.Logger.Warn("vscodesync_open called with empty path")
		return errorResult("Error: path parameter is required"), nil, nil
	}

	app, launchArgs := h.Opener.CommandLine(args.Path, args.Line, args.Column)
	if !h.Opener.OpenProject(args.Path, args.Line, args.Column) {
		h.Logger.Info("vscodesync_open rejected", "path", args.Path)
		return errorResult(fmt.Sprintf("Could not open %s: unsupported file type or editor not available", args.Path)), nil, nil
	}

	h.Logger.Info("vscodesync_open", "path", args.Path, "line", args.Line, "column", args.Column, "app", app)

	return textResult(fmt.Sprintf("opened: %s %s", app, strings.Join(launchArgs, " "))), nil, nil
}
