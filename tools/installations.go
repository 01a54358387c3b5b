package tools

import (
	"context"
	"log/slog"

	"github.com/lexandro/vscodesync/discovery"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// InstallationsArgs defines the input parameters for the vscodesync_installations tool.
type InstallationsArgs struct {
	Refresh bool `json:"refresh,omitempty" jsonschema:"If true probe the disk again instead of using the cached result"`
}

// InstallationLister returns the known editor installations.
type InstallationLister interface {
	Installations() []discovery.Installation
}

// InstallationsHandler holds the dependencies for the installations tool.
type InstallationsHandler struct {
	Lister InstallationLister
	// Discovery is refreshed on request; it may be nil.
	Discovery *discovery.Discovery
	Logger    *slog.Logger
}

// Handle processes a vscodesync_installations request.
func (h *InstallationsHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args InstallationsArgs) (*mcp.CallToolResult, any, error) {
	if args.Refresh && h.Discovery != nil {
		h.Discovery.Refresh()
	}

	installations := h.Lister.Installations()
	h.Logger.Info("vscodesync_installations", "count", len(installations), "refresh", args.Refresh)

	return textResult(FormatInstallations(installations)), nil, nil
}
