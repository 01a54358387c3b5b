package tools

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/lexandro/vscodesync/fileio"
	"github.com/lexandro/vscodesync/index"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ShowArgs defines the input parameters for the vscodesync_show tool.
type ShowArgs struct {
	Module string `json:"module" jsonschema:"Module name whose generated project document is returned (e.g. Assembly-CSharp)"`
}

// ShowHandler holds the dependencies for the show tool.
type ShowHandler struct {
	ModuleIndex *index.ModuleIndex
	FileIO      fileio.FileIO
	Logger      *slog.Logger
}

// Handle processes a vscodesync_show request.
func (h *ShowHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ShowArgs) (*mcp.CallToolResult, any, error) {
	if args.Module == "" {
		h.Logger.Warn("vscodesync_show called with empty module")
		return errorResult("Error: module parameter is required"), nil, nil
	}

	entry := h.ModuleIndex.Get(args.Module)
	if entry == nil {
		h.Logger.Info("vscodesync_show module not found", "module", args.Module)
		return errorResult(fmt.Sprintf("Module not found: %s", args.Module)), nil, nil
	}

	content, err := h.FileIO.ReadAllText(entry.ProjectFile)
	if err != nil {
		h.Logger.Error("vscodesync_show read failed", "module", args.Module, "error", err)
		return errorResult(fmt.Sprintf("Read error: %v", err)), nil, nil
	}

	h.Logger.Info("vscodesync_show", "module", args.Module)

	return textResult(FormatFileContent(filepath.Base(entry.ProjectFile), content)), nil, nil
}
