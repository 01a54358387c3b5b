package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

func setDefaults(v *viper.Viper) {
	defaults := Default().settings()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}

// Default returns the preferences used when nothing is configured.
// No package origin is included and config files are only written on first run.
func Default() *Preferences {
	return &Preferences{
		Editor: Editor{
			Arguments: DefaultArguments,
		},
		Generation: Generation{
			Analyzers:                  true,
			AdditionalExtensions:       []string{},
			BuildTargetGroup:           "Standalone",
			LanguageVersion:            "9.0",
			ScriptingDefines:           []string{},
			ReferenceAssemblies:        []string{},
			SystemReferenceDirectories: []string{},
		},
		Watch: Watch{
			Debounce: 100 * time.Millisecond,
		},
	}
}

// settings flattens the preferences into viper keys.
func (p *Preferences) settings() map[string]any {
	return map[string]any{
		"editor.arguments":          p.Editor.Arguments,
		"editor.use_workspace":      p.Editor.UseWorkspace,
		"editor.default_app":        p.Editor.DefaultApp,
		"editor.handled_extensions": p.Editor.HandledExtensions,

		"generation.packages.embedded":            p.Generation.Packages.Embedded,
		"generation.packages.local":               p.Generation.Packages.Local,
		"generation.packages.registry":            p.Generation.Packages.Registry,
		"generation.packages.git":                 p.Generation.Packages.Git,
		"generation.packages.built_in":            p.Generation.Packages.BuiltIn,
		"generation.packages.local_tarball":       p.Generation.Packages.LocalTarball,
		"generation.packages.unknown":             p.Generation.Packages.Unknown,
		"generation.analyzers":                    p.Generation.Analyzers,
		"generation.additional_extensions":        p.Generation.AdditionalExtensions,
		"generation.api_compatibility_level":      p.Generation.ApiCompatibilityLevel,
		"generation.build_target_group":           p.Generation.BuildTargetGroup,
		"generation.language_version":             p.Generation.LanguageVersion,
		"generation.scripting_defines":            p.Generation.ScriptingDefines,
		"generation.reference_assemblies":         p.Generation.ReferenceAssemblies,
		"generation.system_reference_directories": p.Generation.SystemReferenceDirectories,
		"generation.ruleset":                      p.Generation.Ruleset,
		"generation.restore_packages":             p.Generation.RestorePackages,
		"generation.unity_version":                p.Generation.UnityVersion,

		"config_files.vscode_settings":         p.ConfigFiles.VSCodeSettings,
		"config_files.workspace":               p.ConfigFiles.Workspace,
		"config_files.omnisharp":               p.ConfigFiles.OmniSharp,
		"config_files.editorconfig":            p.ConfigFiles.EditorConfig,
		"config_files.vscode_settings_content": p.ConfigFiles.VSCodeSettingsContent,
		"config_files.workspace_content":       p.ConfigFiles.WorkspaceContent,
		"config_files.omnisharp_content":       p.ConfigFiles.OmniSharpContent,
		"config_files.editorconfig_content":    p.ConfigFiles.EditorConfigContent,

		"watch.debounce":      p.Watch.Debounce,
		"watch.sync_interval": p.Watch.SyncInterval,
	}
}

// parseValue converts a command line string to the type of current.
func parseValue(current any, value string) (any, error) {
	switch current.(type) {
	case bool:
		return strconv.ParseBool(value)
	case time.Duration:
		return time.ParseDuration(value)
	case []string:
		if strings.TrimSpace(value) == "" {
			return []string{}, nil
		}
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts, nil
	case string:
		return value, nil
	default:
		return nil, fmt.Errorf("unsupported type %T", current)
	}
}
