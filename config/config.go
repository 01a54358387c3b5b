// Package config holds the persisted preferences of the synchronizer and their
// load/save lifecycle.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/lexandro/vscodesync/packages"
	"github.com/spf13/viper"
)

// FileName is the preferences file looked up in the project root.
const FileName = ".vscodesync.yaml"

// EnvPrefix prefixes environment overrides, e.g. VSCODESYNC_EDITOR_DEFAULT_APP.
const EnvPrefix = "VSCODESYNC"

// Argument templates understood by the launcher.
const (
	DefaultArguments          = `"$(ProjectPath)" -g "$(File)":$(Line):$(Column)`
	DefaultWorkspaceArguments = `"$(ProjectPath)/$(ProjectName).code-workspace" -g "$(File)":$(Line):$(Column)`
)

// PackageInclusion selects which package origins take part in project generation.
type PackageInclusion struct {
	Embedded     bool `mapstructure:"embedded"`
	Local        bool `mapstructure:"local"`
	Registry     bool `mapstructure:"registry"`
	Git          bool `mapstructure:"git"`
	BuiltIn      bool `mapstructure:"built_in"`
	LocalTarball bool `mapstructure:"local_tarball"`
	Unknown      bool `mapstructure:"unknown"`
}

// Includes reports whether packages from source are generated.
func (p PackageInclusion) Includes(source packages.Source) bool {
	switch source {
	case packages.SourceEmbedded:
		return p.Embedded
	case packages.SourceLocal:
		return p.Local
	case packages.SourceRegistry:
		return p.Registry
	case packages.SourceGit:
		return p.Git
	case packages.SourceBuiltIn:
		return p.BuiltIn
	case packages.SourceLocalTarball:
		return p.LocalTarball
	default:
		return p.Unknown
	}
}

// AllPackages returns an inclusion set with every origin set to on.
func AllPackages(on bool) PackageInclusion {
	return PackageInclusion{
		Embedded:     on,
		Local:        on,
		Registry:     on,
		Git:          on,
		BuiltIn:      on,
		LocalTarball: on,
		Unknown:      on,
	}
}

// Editor configures how the external editor is launched.
type Editor struct {
	Arguments         string `mapstructure:"arguments"`
	UseWorkspace      bool   `mapstructure:"use_workspace"`
	DefaultApp        string `mapstructure:"default_app"`
	HandledExtensions string `mapstructure:"handled_extensions"`
}

// Generation configures project document generation.
type Generation struct {
	Packages                   PackageInclusion `mapstructure:"packages"`
	Analyzers                  bool             `mapstructure:"analyzers"`
	AdditionalExtensions       []string         `mapstructure:"additional_extensions"`
	ApiCompatibilityLevel      string           `mapstructure:"api_compatibility_level"`
	BuildTargetGroup           string           `mapstructure:"build_target_group"`
	LanguageVersion            string           `mapstructure:"language_version"`
	ScriptingDefines           []string         `mapstructure:"scripting_defines"`
	ReferenceAssemblies        []string         `mapstructure:"reference_assemblies"`
	SystemReferenceDirectories []string         `mapstructure:"system_reference_directories"`
	Ruleset                    string           `mapstructure:"ruleset"`
	RestorePackages            bool             `mapstructure:"restore_packages"`
	UnityVersion               string           `mapstructure:"unity_version"`
}

// ConfigFiles toggles the editor configuration files and optionally overrides their content.
// Empty content means the built-in default.
type ConfigFiles struct {
	VSCodeSettings        bool   `mapstructure:"vscode_settings"`
	Workspace             bool   `mapstructure:"workspace"`
	OmniSharp             bool   `mapstructure:"omnisharp"`
	EditorConfig          bool   `mapstructure:"editorconfig"`
	VSCodeSettingsContent string `mapstructure:"vscode_settings_content"`
	WorkspaceContent      string `mapstructure:"workspace_content"`
	OmniSharpContent      string `mapstructure:"omnisharp_content"`
	EditorConfigContent   string `mapstructure:"editorconfig_content"`
}

// Watch configures the change notifier.
type Watch struct {
	Debounce     time.Duration `mapstructure:"debounce"`
	SyncInterval time.Duration `mapstructure:"sync_interval"`
}

// Preferences is the complete preference set.
type Preferences struct {
	Editor      Editor      `mapstructure:"editor"`
	Generation  Generation  `mapstructure:"generation"`
	ConfigFiles ConfigFiles `mapstructure:"config_files"`
	Watch       Watch       `mapstructure:"watch"`
}

// Store loads and saves Preferences through viper.
type Store struct {
	v    *viper.Viper
	path string
}

// NewStore creates a store for projectDir. An empty path selects
// <projectDir>/.vscodesync.yaml.
func NewStore(projectDir string, path string) *Store {
	if path == "" {
		path = filepath.Join(projectDir, FileName)
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return &Store{v: v, path: path}
}

// Viper exposes the underlying instance so CLI flags can be bound to keys.
func (s *Store) Viper() *viper.Viper {
	return s.v
}

// Path returns the preferences file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the preferences file. A missing file yields the defaults.
func (s *Store) Load() (*Preferences, error) {
	if err := s.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading preferences %s: %w", s.path, err)
		}
	}

	var prefs Preferences
	if err := s.v.Unmarshal(&prefs); err != nil {
		return nil, fmt.Errorf("decoding preferences: %w", err)
	}
	return &prefs, nil
}

// Save writes prefs to the preferences file.
func (s *Store) Save(prefs *Preferences) error {
	for key, value := range prefs.settings() {
		s.v.Set(key, value)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating preferences directory: %w", err)
	}
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("writing preferences %s: %w", s.path, err)
	}
	return nil
}

// Set assigns a single key from its string form and saves the result.
// Unknown keys are rejected.
func (s *Store) Set(key string, value string) error {
	key = strings.ToLower(key)
	prefs, err := s.Load()
	if err != nil {
		return err
	}
	current, ok := prefs.settings()[key]
	if !ok {
		return fmt.Errorf("unknown preference %q", key)
	}
	parsed, err := parseValue(current, value)
	if err != nil {
		return fmt.Errorf("preference %s: %w", key, err)
	}
	s.v.Set(key, parsed)

	prefs, err = s.Load()
	if err != nil {
		return err
	}
	return s.Save(prefs)
}

// Keys returns every preference key in sorted order.
func Keys() []string {
	settings := (&Preferences{}).settings()
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
