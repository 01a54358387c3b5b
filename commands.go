package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/lexandro/vscodesync/config"
	"github.com/lexandro/vscodesync/fileio"
	"github.com/lexandro/vscodesync/index"
	"github.com/lexandro/vscodesync/register"
	"github.com/lexandro/vscodesync/server"
	"github.com/lexandro/vscodesync/tools"
	"github.com/lexandro/vscodesync/ui"
	"github.com/lexandro/vscodesync/watcher"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// commandLogger returns the logger of the one-shot commands. They log warnings only
// unless --log-level was given, so their stdout stays readable.
func commandLogger(cmd *cobra.Command, flags *rootFlags) *slog.Logger {
	level := flags.logLevel
	if !cmd.Flags().Changed("log-level") {
		level = "warn"
	}
	return setupLogger(level, flags.logFile)
}

// openFromFlags resolves --root and opens the project for a one-shot command.
func openFromFlags(cmd *cobra.Command, flags *rootFlags) (*project, error) {
	rootDir, err := resolveRootDir(flags.rootDir)
	if err != nil {
		return nil, err
	}
	return openProject(rootDir, flags.configPath, flags.graphPath, commandLogger(cmd, flags), nil)
}

func newServeCommand(flags *rootFlags) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdio and keep project files in sync",
		Long: `The 'serve' command generates missing project files, then watches the project for
asset changes and runs incremental passes while serving the vscodesync_* tools over
MCP on stdio. Logs go to <root>/Logs/vscodesync.log unless --log-file is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, flags, watch)
		},
	}
	cmd.Flags().Duration("debounce", 100*time.Millisecond, "Quiet period before a batch of file changes is synced")
	cmd.Flags().Duration("sync-interval", 0, "Interval of full sync passes, 0 disables them")
	cmd.Flags().BoolVar(&watch, "watch", true, "Watch the project directory for changes")
	return cmd
}

func runServe(cmd *cobra.Command, flags *rootFlags, watch bool) error {
	rootDir, err := resolveRootDir(flags.rootDir)
	if err != nil {
		return err
	}

	// Never log to stdout, it carries the MCP stream.
	logFile := flags.logFile
	if logFile == "" {
		logFile = filepath.Join(rootDir, "Logs", "vscodesync.log")
		if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
			logFile = ""
		}
	}
	logger := setupLogger(flags.logLevel, logFile)
	logger.Info("starting vscodesync", "root", rootDir, "version", server.Version)

	startTime := time.Now()

	p, err := openProject(rootDir, flags.configPath, flags.graphPath, logger, func(v *viper.Viper) error {
		if err := v.BindPFlag("watch.debounce", cmd.Flags().Lookup("debounce")); err != nil {
			return err
		}
		return v.BindPFlag("watch.sync_interval", cmd.Flags().Lookup("sync-interval"))
	})
	if err != nil {
		logger.Error("failed to open project", "error", err)
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	moduleIndex := index.NewModuleIndex()
	searchIndex, err := index.NewSearchIndex()
	if err != nil {
		logger.Error("failed to create search index", "error", err)
		return err
	}
	defer searchIndex.Close()

	c := newCoordinator(p, moduleIndex, searchIndex)
	if err := c.Start(ctx); err != nil {
		logger.Error("initial generation failed", "error", err)
		return err
	}
	logger.Info("initial generation complete",
		"modules", moduleIndex.Count(),
		"sources", moduleIndex.SourceCount(),
		"duration", time.Since(startTime),
	)

	if watch {
		fileWatcher, err := watcher.NewWatcher(watcher.Options{
			RootDir:  rootDir,
			Ignore:   p.ignore,
			Debounce: p.prefs.Watch.Debounce,
			Logger:   logger,
		})
		if err != nil {
			logger.Warn("failed to start file watcher, continuing without live updates", "error", err)
		} else {
			go fileWatcher.Start(ctx)
			go handleWatcherChanges(ctx, fileWatcher, c, logger)
			defer fileWatcher.Close()
		}
	}

	if interval := p.prefs.Watch.SyncInterval; interval > 0 {
		go runPeriodicSync(ctx, interval, c, logger)
	}

	mcpServer := server.Setup(server.Handlers{
		Sync:          &tools.SyncHandler{Syncer: c, Logger: logger},
		Open:          &tools.OpenHandler{Opener: p.editor, Logger: logger},
		Installations: &tools.InstallationsHandler{Lister: p.editor, Discovery: p.discovery, Logger: logger},
		Modules:       &tools.ModulesHandler{ModuleIndex: moduleIndex, Logger: logger},
		Search:        &tools.SearchHandler{SearchIndex: searchIndex, Logger: logger},
		Show:          &tools.ShowHandler{ModuleIndex: moduleIndex, FileIO: fileio.OS{}, Logger: logger},
		Status: &tools.StatusHandler{
			Projects:    p.projects,
			ModuleIndex: moduleIndex,
			SearchIndex: searchIndex,
			StartTime:   startTime,
			RootDir:     rootDir,
			Logger:      logger,
		},
	})

	logger.Info("MCP server starting on stdio")
	if err := mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		logger.Error("MCP server error", "error", err)
		return err
	}
	logger.Info("vscodesync stopped")
	return nil
}

func newSyncCommand(flags *rootFlags) *cobra.Command {
	var configFiles bool
	var quiet bool
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Regenerate the solution and project files once",
		Long: `The 'sync' command runs a full pass: every module's .csproj and the .sln are
rendered and written when their content changed. With --config-files the enabled
editor config files are written as well.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openFromFlags(cmd, flags)
			if err != nil {
				return err
			}

			spinner := ui.StartSpinner("Syncing project files...", quiet)
			report, err := p.editor.SyncAll(cmd.Context())
			spinner.Stop()
			if err != nil {
				fmt.Fprintln(os.Stderr, ui.Failure(err.Error()))
				return err
			}

			summary := strings.TrimRight(tools.FormatReport(report), "\n")
			if len(report.Failed) > 0 {
				fmt.Println(ui.Failure(summary))
			} else {
				fmt.Println(ui.Success(summary))
			}

			if configFiles {
				configReport := p.editor.RegenerateConfig()
				fmt.Println(ui.Muted.Render(fmt.Sprintf("config files: %d written, %d unchanged, %d failed",
					len(configReport.Written), len(configReport.Unchanged), len(configReport.Failed))))
			}

			if len(report.Failed) > 0 {
				return fmt.Errorf("%d project files could not be written", len(report.Failed))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&configFiles, "config-files", false, "Also write the enabled editor config files")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not show a progress spinner")
	return cmd
}

func newOpenCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "open <file> [line] [column]",
		Short: "Open a file in VSCode at a line and column",
		Long: `The 'open' command launches the configured VSCode installation on the project
folder (or workspace) and positions it at the given file, line and column. A
relative file is resolved against the project root.`,
		Args: cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			line, column := 1, 0
			var err error
			if len(args) > 1 {
				if line, err = strconv.Atoi(args[1]); err != nil {
					return fmt.Errorf("invalid line %q: %w", args[1], err)
				}
			}
			if len(args) > 2 {
				if column, err = strconv.Atoi(args[2]); err != nil {
					return fmt.Errorf("invalid column %q: %w", args[2], err)
				}
			}

			p, err := openFromFlags(cmd, flags)
			if err != nil {
				return err
			}

			app, launchArgs := p.editor.CommandLine(args[0], line, column)
			if !p.editor.OpenProject(args[0], line, column) {
				fmt.Fprintln(os.Stderr, ui.Failure("could not open "+args[0]))
				return fmt.Errorf("%s: unsupported file type or editor not available", args[0])
			}
			fmt.Println(ui.Success(app + " " + strings.Join(launchArgs, " ")))
			return nil
		},
	}
}

func newInstallationsCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "installations",
		Short: "List the VSCode installations found on this machine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openFromFlags(cmd, flags)
			if err != nil {
				return err
			}
			fmt.Println(ui.Box(strings.TrimRight(tools.FormatInstallations(p.editor.Installations()), "\n")))
			return nil
		},
	}
}

func newShowCommand(flags *rootFlags) *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "show <module>",
		Short: "Print the generated project file of a module",
		Long: `The 'show' command prints the .csproj generated for a module, highlighted as XML.
Run 'sync' first when the file does not exist yet.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openFromFlags(cmd, flags)
			if err != nil {
				return err
			}

			projectFile := p.projects.ProjectFile(args[0])
			content, err := fileio.OS{}.ReadAllText(projectFile)
			if err != nil {
				return fmt.Errorf("reading %s: %w", projectFile, err)
			}
			if plain {
				fmt.Print(tools.FormatFileContent(filepath.Base(projectFile), content))
				return nil
			}
			return ui.Highlight(os.Stdout, content, "xml")
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "Print with line numbers and without colors")
	return cmd
}

func newPrefsCommand(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "List the preferences of the project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openFromFlags(cmd, flags)
			if err != nil {
				return err
			}
			fmt.Println(ui.Info.Render(p.store.Path()))
			for _, key := range config.Keys() {
				fmt.Printf("  %s = %v\n", key, p.store.Viper().Get(key))
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one preference and save the preferences file",
		Long: `The 'prefs set' command assigns one preference key, for example
'generation.packages.local true' or 'editor.default_app /usr/bin/code', and
writes the preferences file. Lists are comma separated.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openFromFlags(cmd, flags)
			if err != nil {
				return err
			}
			if err := p.store.Set(args[0], args[1]); err != nil {
				fmt.Fprintln(os.Stderr, ui.Failure(err.Error()))
				return err
			}
			fmt.Println(ui.Success(fmt.Sprintf("%s = %s", strings.ToLower(args[0]), args[1])))
			return nil
		},
	})
	return cmd
}

func newRegisterCommand(flags *rootFlags) *cobra.Command {
	var serverName string
	cmd := &cobra.Command{
		Use:   "register <project|user|vscode> [directory] [-- serve flags...]",
		Short: "Add the MCP server to an agent or VSCode configuration",
		Long: `The 'register' command writes a server entry that runs 'vscodesync serve'.
The project scope writes <directory>/.mcp.json, the vscode scope writes
<directory>/.vscode/mcp.json and the user scope writes ~/.claude.json.
Arguments after -- are passed to 'serve'.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			positional, forwarded := register.SplitArgs(args, cmd.ArgsLenAtDash())
			if len(positional) < 1 || len(positional) > 2 {
				return fmt.Errorf("expected a scope and an optional directory, got %d arguments", len(positional))
			}
			scope, err := register.ParseScope(positional[0])
			if err != nil {
				return err
			}

			directory := ""
			if len(positional) > 1 {
				directory = positional[1]
			}
			serverArgs := []string{"serve"}
			if scope != register.ScopeUser {
				rootDir, err := resolveRootDir(firstNonEmpty(directory, flags.rootDir))
				if err != nil {
					return err
				}
				directory = rootDir
				serverArgs = append(serverArgs, "--root", rootDir)
			}
			serverArgs = append(serverArgs, forwarded...)

			configPath, err := register.Register(register.Options{
				Scope:      scope,
				Directory:  directory,
				ServerName: serverName,
				ServerArgs: serverArgs,
			})
			if err != nil {
				fmt.Fprintln(os.Stderr, ui.Failure(err.Error()))
				return err
			}
			fmt.Println(ui.Success("registered in " + configPath))
			return nil
		},
	}
	cmd.Flags().StringVar(&serverName, "name", "", "Server name (default: derived from the binary name)")
	return cmd
}
