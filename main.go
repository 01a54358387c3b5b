package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// rootFlags are the persistent flags shared by every subcommand.
type rootFlags struct {
	rootDir    string
	configPath string
	graphPath  string
	logLevel   string
	logFile    string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}
	rootCmd := &cobra.Command{
		Use:   "vscodesync",
		Short: "Keep VSCode project files in sync with a Unity project",
		Long: `vscodesync generates one .csproj per compiled module, the .sln and the VSCode
config files of a Unity project, keeps them in sync while assets change, and opens
files in VSCode at a line and column.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.rootDir, "root", "", "Unity project directory (default: current working directory)")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Preferences file (default: <root>/.vscodesync.yaml)")
	rootCmd.PersistentFlags().StringVar(&flags.graphPath, "graph", "", "JSON build graph to use instead of scanning Assets/ and Packages/")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "Log level: debug|info|warn|error")
	rootCmd.PersistentFlags().StringVar(&flags.logFile, "log-file", "", "Log file path (default: stderr, <root>/Logs/vscodesync.log for serve)")

	rootCmd.AddCommand(
		newServeCommand(flags),
		newSyncCommand(flags),
		newOpenCommand(flags),
		newInstallationsCommand(flags),
		newShowCommand(flags),
		newPrefsCommand(flags),
		newRegisterCommand(flags),
	)
	return rootCmd
}

// setupLogger creates an slog.Logger writing to stderr or a file.
func setupLogger(level string, logFile string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	var writer *os.File
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: cannot open log file %s: %v, falling back to stderr\n", logFile, err)
			writer = os.Stderr
		} else {
			writer = f
		}
	} else {
		writer = os.Stderr
	}

	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{Level: logLevel})
	return slog.New(handler)
}
