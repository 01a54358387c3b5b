package tools

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/lexandro/vscodesync/index"
	"github.com/lexandro/vscodesync/projectgen"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// StatusArgs defines the input parameters for the vscodesync_status tool (none required).
type StatusArgs struct{}

// PassSource reports the state of the synchronization driver.
type PassSource interface {
	State() projectgen.State
	LastReport() projectgen.Report
	SolutionFile() string
}

// StatusHandler holds the dependencies for the status tool.
type StatusHandler struct {
	Projects    PassSource
	ModuleIndex *index.ModuleIndex
	SearchIndex *index.SearchIndex
	StartTime   time.Time
	RootDir     string
	Logger      *slog.Logger
}

// Handle processes a vscodesync_status request.
func (h *StatusHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args StatusArgs) (*mcp.CallToolResult, any, error) {
	var builder strings.Builder

	moduleCount := h.ModuleIndex.Count()
	sourceCount := h.ModuleIndex.SourceCount()
	docCount := h.SearchIndex.DocumentCount()
	state := h.Projects.State()
	last := h.Projects.LastReport()
	uptime := time.Since(h.StartTime)

	// Memory stats
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	h.Logger.Info("vscodesync_status",
		"modules", moduleCount,
		"state", state,
		"memory", memStats.Alloc,
		"uptime", uptime,
	)

	builder.WriteString("=== vscodesync Status ===\n\n")
	builder.WriteString(fmt.Sprintf("Project directory: %s\n", h.RootDir))
	builder.WriteString(fmt.Sprintf("Solution: %s\n", h.Projects.SolutionFile()))
	builder.WriteString(fmt.Sprintf("Uptime: %s\n", formatDuration(uptime)))
	builder.WriteString(fmt.Sprintf("State: %s\n", state))
	builder.WriteString(fmt.Sprintf("Modules: %d (%d sources)\n", moduleCount, sourceCount))
	builder.WriteString(fmt.Sprintf("Search-indexed modules: %d\n", docCount))
	builder.WriteString(fmt.Sprintf("Memory usage: %s (heap: %s)\n",
		formatFileSize(int64(memStats.Alloc)),
		formatFileSize(int64(memStats.HeapAlloc)),
	))

	if last.State != projectgen.Idle || len(last.Modules) > 0 {
		builder.WriteString("\nLast pass:\n  ")
		builder.WriteString(FormatReport(last))
	}

	return textResult(builder.String()), nil, nil
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	totalSeconds := int(d.Seconds())
	if totalSeconds < 60 {
		return fmt.Sprintf("%ds", totalSeconds)
	}
	totalMinutes := totalSeconds / 60
	remainderSeconds := totalSeconds % 60
	if totalMinutes < 60 {
		return fmt.Sprintf("%dm%ds", totalMinutes, remainderSeconds)
	}
	hours := totalMinutes / 60
	remainderMinutes := totalMinutes % 60
	return fmt.Sprintf("%dh%dm", hours, remainderMinutes)
}
