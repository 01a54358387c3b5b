package editor

import (
	"fmt"
	"os/exec"
)

// Launcher starts the external editor without waiting for it.
type Launcher interface {
	Launch(app string, args []string) error
}

// ProcessLauncher starts a detached child process.
type ProcessLauncher struct{}

func (ProcessLauncher) Launch(app string, args []string) error {
	cmd := exec.Command(app, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", app, err)
	}
	return cmd.Process.Release()
}
