package tools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lexandro/vscodesync/configgen"
	"github.com/lexandro/vscodesync/projectgen"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SyncArgs defines the input parameters for the vscodesync_sync tool.
type SyncArgs struct {
	Paths       []string `json:"paths,omitempty" jsonschema:"Asset paths that were added, deleted or moved (e.g. Assets/Scripts/Player.cs). Empty runs a full sync"`
	Reimported  []string `json:"reimported,omitempty" jsonschema:"Asset paths that were reimported, such as precompiled .dll files or .asmdef files"`
	ConfigFiles bool     `json:"configFiles,omitempty" jsonschema:"If true also rewrite the enabled editor config files"`
}

// Syncer runs synchronization passes. Implementations serialize passes.
type Syncer interface {
	SyncAll(ctx context.Context) (projectgen.Report, error)
	SyncPaths(ctx context.Context, changed []string, reimported []string) (bool, projectgen.Report, error)
	RegenerateConfig() configgen.Report
}

// SyncHandler holds the dependencies for the sync tool.
type SyncHandler struct {
	Syncer Syncer
	Logger *slog.Logger
}

// Handle processes a vscodesync_sync request.
func (h *SyncHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args SyncArgs) (*mcp.CallToolResult, any, error) {
	incremental := len(args.Paths) > 0 || len(args.Reimported) > 0
	h.Logger.Info("vscodesync_sync started", "incremental", incremental, "paths", len(args.Paths))

	ran := true
	var report projectgen.Report
	var err error
	if incremental {
		ran, report, err = h.Syncer.SyncPaths(ctx, args.Paths, args.Reimported)
	} else {
		report, err = h.Syncer.SyncAll(ctx)
	}
	if err != nil {
		h.Logger.Error("vscodesync_sync failed", "error", err)
		return errorResult(fmt.Sprintf("Sync error: %v", err)), nil, nil
	}

	var builder strings.Builder
	if ran {
		builder.WriteString(FormatReport(report))
	} else {
		builder.WriteString("No relevant changes, nothing to sync.\n")
	}

	if args.ConfigFiles {
		configs := h.Syncer.RegenerateConfig()
		builder.WriteString(fmt.Sprintf("config files: %d written, %d unchanged, %d skipped, %d failed\n",
			len(configs.Written), len(configs.Unchanged), len(configs.Skipped), len(configs.Failed)))
	}

	h.Logger.Info("vscodesync_sync complete",
		"state", report.State,
		"written", len(report.Written),
		"failed", len(report.Failed),
		"elapsed", report.Duration,
	)

	return textResult(builder.String()), nil, nil
}
