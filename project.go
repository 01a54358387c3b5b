package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lexandro/vscodesync/config"
	"github.com/lexandro/vscodesync/configgen"
	"github.com/lexandro/vscodesync/discovery"
	"github.com/lexandro/vscodesync/editor"
	"github.com/lexandro/vscodesync/fileio"
	"github.com/lexandro/vscodesync/ignore"
	"github.com/lexandro/vscodesync/inventory"
	"github.com/lexandro/vscodesync/projectgen"
	"github.com/lexandro/vscodesync/unity"
	"github.com/spf13/viper"
)

// defaultApiCompatibilityLevel is used when neither the preferences nor the player
// settings name a level.
const defaultApiCompatibilityLevel = unity.NetStandard20

// project wires the library packages for one Unity project directory.
type project struct {
	rootDir   string
	store     *config.Store
	prefs     *config.Preferences
	ignore    *ignore.Matcher
	projects  *projectgen.Generator
	configs   *configgen.Generator
	discovery *discovery.Discovery
	editor    *editor.Editor
	logger    *slog.Logger
}

// resolveRootDir returns the absolute project directory from the --root flag.
func resolveRootDir(rootDir string) (string, error) {
	if rootDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting working directory: %w", err)
		}
		rootDir = wd
	}
	abs, err := filepath.Abs(rootDir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", rootDir, err)
	}
	return abs, nil
}

// openProject loads the preferences and the Unity settings of rootDir and builds
// the generators and the editor entry point. The build graph comes from graphPath
// when set, otherwise from scanning the project. bind, when set, may bind command
// flags to preference keys before the preferences are read.
func openProject(rootDir string, configPath string, graphPath string, logger *slog.Logger, bind func(v *viper.Viper) error) (*project, error) {
	store := config.NewStore(rootDir, configPath)
	if bind != nil {
		if err := bind(store.Viper()); err != nil {
			return nil, fmt.Errorf("binding flags: %w", err)
		}
	}
	prefs, err := store.Load()
	if err != nil {
		return nil, err
	}

	settingsSource := buildSettingsSource(rootDir, prefs, logger)
	settings, err := settingsSource()
	if err != nil {
		return nil, err
	}
	logger.Info("project settings",
		"root", rootDir,
		"apiCompatibilityLevel", settings.ApiCompatibilityLevel,
		"unityVersion", settings.UnityVersion,
		"globalDefines", len(settings.GlobalDefines),
	)

	matcher := ignore.NewMatcher(ignore.MatcherOptions{RootDir: rootDir})
	provider, err := buildGraphProvider(graphPath, rootDir, matcher, prefs, settings.ApiCompatibilityLevel, logger)
	if err != nil {
		return nil, err
	}

	fio := fileio.OS{}
	projects := projectgen.NewGenerator(provider, fio, projectgen.Options{
		ProjectDir:            rootDir,
		ApiCompatibilityLevel: settings.ApiCompatibilityLevel,
		UnityVersion:          settings.UnityVersion,
		GlobalDefines:         settings.GlobalDefines,
		Settings:              settingsSource,
		RestorePackages:       prefs.Generation.RestorePackages,
		Logger:                logger,
	})
	configs := configgen.NewGenerator(fio, configgen.Options{
		ProjectDir:  rootDir,
		ProjectName: projects.ProjectName(),
		Files:       prefs.ConfigFiles,
		Logger:      logger,
	})
	disc := discovery.New(discovery.Options{Logger: logger})
	ed := editor.New(editor.Options{
		Preferences: prefs,
		Saver:       store,
		Discovery:   disc,
		Projects:    projects,
		Configs:     configs,
		FileIO:      fio,
		Logger:      logger,
	})

	return &project{
		rootDir:   rootDir,
		store:     store,
		prefs:     prefs,
		ignore:    matcher,
		projects:  projects,
		configs:   configs,
		discovery: disc,
		editor:    ed,
		logger:    logger,
	}, nil
}

// buildSettingsSource returns a loader for the active build settings. Every call
// rereads the player settings, so an edited ProjectSettings.asset or editor version
// takes effect on the next pass. Preferences win over the player settings. An
// unreadable settings file falls back to the preferences alone.
func buildSettingsSource(rootDir string, prefs *config.Preferences, logger *slog.Logger) projectgen.SettingsSource {
	return func() (projectgen.BuildSettings, error) {
		settings, err := unity.LoadProjectSettings(rootDir, prefs.Generation.BuildTargetGroup)
		if err != nil {
			logger.Warn("cannot read project settings, using preferences only", "error", err)
			settings = &unity.ProjectSettings{}
		}

		unityVersion := firstNonEmpty(prefs.Generation.UnityVersion, settings.EditorVersion)
		scriptingDefines := append(append([]string{}, settings.ScriptingDefines...), prefs.Generation.ScriptingDefines...)
		return projectgen.BuildSettings{
			ApiCompatibilityLevel: firstNonEmpty(prefs.Generation.ApiCompatibilityLevel, settings.ApiCompatibilityLevel, defaultApiCompatibilityLevel),
			UnityVersion:          unityVersion,
			GlobalDefines:         unity.ActiveDefines(unityVersion, scriptingDefines),
		}, nil
	}
}

// buildGraphProvider loads the build graph file at graphPath, or scans the project
// when graphPath is empty.
func buildGraphProvider(
	graphPath string,
	rootDir string,
	matcher *ignore.Matcher,
	prefs *config.Preferences,
	apiLevel string,
	logger *slog.Logger,
) (inventory.Provider, error) {
	if graphPath != "" {
		static, err := inventory.LoadGraph(graphPath)
		if err != nil {
			return nil, err
		}
		static.SetInclusion(prefs.Generation.Packages)
		logger.Info("using build graph file", "path", graphPath, "modules", len(static.Modules))
		return static, nil
	}
	return inventory.NewScanner(inventory.ScannerOptions{
		ProjectDir:                 rootDir,
		Ignore:                     matcher,
		Inclusion:                  prefs.Generation.Packages,
		AdditionalExtensions:       prefs.Generation.AdditionalExtensions,
		LanguageVersion:            prefs.Generation.LanguageVersion,
		RulesetPath:                prefs.Generation.Ruleset,
		ApiCompatibilityLevel:      apiLevel,
		ReferenceAssemblies:        prefs.Generation.ReferenceAssemblies,
		SystemReferenceDirectories: prefs.Generation.SystemReferenceDirectories,
		Logger:                     logger,
	}), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
