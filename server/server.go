package server

import (
	"github.com/lexandro/vscodesync/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is reported to MCP clients.
const Version = "0.3.0"

// Handlers groups the tool handlers registered by Setup.
type Handlers struct {
	Sync          *tools.SyncHandler
	Open          *tools.OpenHandler
	Installations *tools.InstallationsHandler
	Modules       *tools.ModulesHandler
	Search        *tools.SearchHandler
	Show          *tools.ShowHandler
	Status        *tools.StatusHandler
}

// Setup creates and configures the MCP server with all tool registrations.
func Setup(handlers Handlers) *mcp.Server {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "vscodesync",
			Version: Version,
		},
		&mcp.ServerOptions{
			Instructions: `This server keeps the VSCode project files of a Unity project (one .csproj per compiled module, the .sln and the editor config files) in sync with the assets on disk, and opens files in VSCode.

- Use vscodesync_sync after adding, deleting or moving scripts, or after reimporting .dll/.asmdef files; pass the changed asset paths for an incremental pass
- Use vscodesync_modules to find which module owns a script (glob over module names and source paths)
- Use vscodesync_search to find modules by define, reference or source name
- Use vscodesync_show to read the generated project document of a module
- Use vscodesync_open to open a file at a line and column in VSCode
- The project files update automatically when assets change (via filesystem watcher)`,
		},
	)

	// Register vscodesync_sync tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "vscodesync_sync",
		Description: `Synchronize the generated project files with the assets on disk.

Modes:
  - no paths: full pass, regenerates the solution and every module project
  - paths / reimported: incremental pass, rewrites the solution and the projects of the modules owning those assets; nothing is written when no path is relevant

Only documents whose content changed are written. Set configFiles to also rewrite the enabled editor config files.`,
	}, handlers.Sync.Handle)

	// Register vscodesync_open tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "vscodesync_open",
		Description: "Open a file in VSCode at the given line and column, using the configured installation and argument template. Only handled file types are opened.",
	}, handlers.Open.Handle)

	// Register vscodesync_installations tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "vscodesync_installations",
		Description: "List the VSCode installations found on this machine (stable and insiders builds).",
	}, handlers.Installations.Handle)

	// Register vscodesync_modules tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "vscodesync_modules",
		Description: `Find generated modules by glob pattern over module names and source paths.

Pattern examples:
  - "*.Editor" - modules whose name ends in .Editor
  - "Assets/Scripts/**/*.cs" - modules owning scripts under Assets/Scripts
  - "Packages/com.acme.*/**" - modules from matching packages`,
	}, handlers.Modules.Handle)

	// Register vscodesync_search tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "vscodesync_search",
		Description: `Full-text search over module names, source paths, defines and references.

Query formats:
  - Plain text: word-level matching (e.g., "UNITY_EDITOR")
  - "quoted text": exact phrase matching
  - /regex/: regular expression matching (e.g., "/player.*/")

Filtering:
  - moduleGlob: glob pattern on module names (e.g., "*.Tests").`,
	}, handlers.Search.Handle)

	// Register vscodesync_show tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "vscodesync_show",
		Description: `Read the generated project document of a module. Returns numbered lines (format: "N│ content").`,
	}, handlers.Show.Handle)

	// Register vscodesync_status tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "vscodesync_status",
		Description: "Show synchronizer status: driver state, last pass summary, module count, memory usage, and uptime.",
	}, handlers.Status.Handle)

	return mcpServer
}
