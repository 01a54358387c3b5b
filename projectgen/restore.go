package projectgen

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Restorer restores the package references of a generated project document.
type Restorer interface {
	Restore(ctx context.Context, projectFile string) error
}

// DotnetRestorer runs "dotnet restore" and blocks until it exits.
type DotnetRestorer struct {
	// Executable defaults to "dotnet" on PATH.
	Executable string
}

func (r DotnetRestorer) Restore(ctx context.Context, projectFile string) error {
	executable := r.Executable
	if executable == "" {
		executable = "dotnet"
	}
	cmd := exec.CommandContext(ctx, executable, "restore", projectFile)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s restore %s: %w: %s", executable, projectFile, err, strings.TrimSpace(string(output)))
	}
	return nil
}
