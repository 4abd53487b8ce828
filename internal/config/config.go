package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/indaco/crxsync/internal/core"
	"github.com/indaco/crxsync/internal/tui"
)

// EnvExtensionsDir overrides the extensions root from the environment.
const EnvExtensionsDir = "CRXSYNC_EXTENSIONS_DIR"

// FetchConfig holds package download settings.
type FetchConfig struct {
	Timeout   string `yaml:"timeout,omitempty"`
	UserAgent string `yaml:"user-agent,omitempty"`
}

// ComposeConfig describes the container that consumes the launch argument.
type ComposeConfig struct {
	File    string `yaml:"file,omitempty"`
	EnvKey  string `yaml:"env-key,omitempty"`
	Restart *bool  `yaml:"restart,omitempty"`
}

// Config is the main configuration structure for crxsync.
type Config struct {
	ExtensionsDir string         `yaml:"extensions-dir"`
	Declarations  string         `yaml:"declarations,omitempty"`
	ScratchDir    string         `yaml:"scratch-dir,omitempty"`
	MountPrefix   string         `yaml:"mount-prefix,omitempty"`
	ArgsFile      string         `yaml:"args-file,omitempty"`
	Fetch         *FetchConfig   `yaml:"fetch,omitempty"`
	Compose       *ComposeConfig `yaml:"compose,omitempty"`
	Theme         string         `yaml:"theme,omitempty"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfigFn is swapped in tests.
var LoadConfigFn = LoadConfig

// LoadConfig reads the YAML configuration at path. A missing file yields
// the defaults. The CRXSYNC_EXTENSIONS_DIR environment variable takes
// precedence over the file.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		decoder := yaml.NewDecoder(bytes.NewReader(data), yaml.Strict())
		if err := decoder.Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %q: %w", path, err)
		}
	case os.IsNotExist(err):
		// defaults only
	default:
		return nil, fmt.Errorf("failed to read config %q: %w", path, err)
	}

	if envDir := os.Getenv(EnvExtensionsDir); envDir != "" {
		cleanDir := filepath.Clean(envDir)
		if strings.Contains(cleanDir, "..") {
			return nil, fmt.Errorf("invalid %s: path traversal not allowed, use absolute path instead", EnvExtensionsDir)
		}
		cfg.ExtensionsDir = cleanDir
	}

	cfg.applyDefaults()
	cfg.ExpandPaths()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.ExtensionsDir == "" {
		c.ExtensionsDir = "extensions"
	}
	if c.Declarations == "" {
		c.Declarations = core.DefaultDeclarations
	}
	if c.ScratchDir == "" {
		c.ScratchDir = core.DefaultScratchDir
	}
	if c.MountPrefix == "" {
		c.MountPrefix = core.DefaultMountPrefix
	}
	if c.ArgsFile == "" {
		c.ArgsFile = core.DefaultArgsFile
	}
	if c.Fetch == nil {
		c.Fetch = &FetchConfig{}
	}
	if c.Compose == nil {
		c.Compose = &ComposeConfig{}
	}
}

// Validate checks values that defaults cannot repair.
func (c *Config) Validate() error {
	if strings.ContainsAny(c.ScratchDir, `/\`) || c.ScratchDir == "." || c.ScratchDir == ".." {
		return fmt.Errorf("scratch-dir must be a plain directory name, got %q", c.ScratchDir)
	}
	if c.Fetch != nil && c.Fetch.Timeout != "" {
		d, err := time.ParseDuration(c.Fetch.Timeout)
		if err != nil {
			return fmt.Errorf("fetch.timeout: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("fetch.timeout must be positive, got %s", c.Fetch.Timeout)
		}
	}
	if c.Theme != "" && !tui.IsValidTheme(c.Theme) {
		return fmt.Errorf("unknown theme %q, valid themes: %s", c.Theme, strings.Join(tui.ValidThemes, ", "))
	}
	if c.Compose != nil && c.Compose.EnvKey != "" && c.Compose.File == "" {
		return fmt.Errorf("compose.env-key requires compose.file")
	}
	return nil
}

// ExpandPaths replaces a leading "~" in path settings with the user's
// home directory.
func (c *Config) ExpandPaths() {
	c.ExtensionsDir = expandHome(c.ExtensionsDir)
	c.Declarations = expandHome(c.Declarations)
	c.ArgsFile = expandHome(c.ArgsFile)
	if c.Compose != nil {
		c.Compose.File = expandHome(c.Compose.File)
	}
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// FetchTimeout returns the configured fetch timeout or the default.
func (c *Config) FetchTimeout() time.Duration {
	if c.Fetch != nil && c.Fetch.Timeout != "" {
		if d, err := time.ParseDuration(c.Fetch.Timeout); err == nil && d > 0 {
			return d
		}
	}
	return core.TimeoutFetch
}

// RestartEnabled reports whether the container should be restarted after
// an effective change. It defaults to true when a compose file is set.
func (c *Config) RestartEnabled() bool {
	if c.Compose == nil || c.Compose.File == "" {
		return false
	}
	return c.Compose.Restart == nil || *c.Compose.Restart
}

// DeclarationsPath resolves the declarations file against the extensions
// root when it is relative.
func (c *Config) DeclarationsPath() string {
	return c.resolve(c.Declarations)
}

// ArgsPath resolves the launch-argument file against the extensions root
// when it is relative.
func (c *Config) ArgsPath() string {
	return c.resolve(c.ArgsFile)
}

// ReservedNames lists the top-level names under the extensions root that
// can never be extension ids: the scratch directory plus the first path
// element of the declarations and launch-argument files when they live
// inside the root.
func (c *Config) ReservedNames() []string {
	names := []string{c.ScratchDir}
	root := filepath.Clean(c.ExtensionsDir)
	for _, p := range []string{c.DeclarationsPath(), c.ArgsPath()} {
		rel, err := filepath.Rel(root, filepath.Clean(p))
		if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		first, _, _ := strings.Cut(filepath.ToSlash(rel), "/")
		if !slices.Contains(names, first) {
			names = append(names, first)
		}
	}
	return names
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.ExtensionsDir, p)
}

// ConfigSaver writes configuration files.
type ConfigSaver struct {
	marshal   func(v any) ([]byte, error)
	writeFile func(name string, data []byte, perm os.FileMode) error
}

// NewConfigSaver creates a ConfigSaver. Nil dependencies fall back to the
// YAML marshaler and os.WriteFile.
func NewConfigSaver(marshal func(v any) ([]byte, error), writeFile func(string, []byte, os.FileMode) error) *ConfigSaver {
	if marshal == nil {
		marshal = func(v any) ([]byte, error) {
			return yaml.MarshalWithOptions(v, yaml.Indent(2), yaml.IndentSequence(true))
		}
	}
	if writeFile == nil {
		writeFile = os.WriteFile
	}
	return &ConfigSaver{marshal: marshal, writeFile: writeFile}
}

// SaveTo writes cfg to configFile.
func (s *ConfigSaver) SaveTo(cfg *Config, configFile string) error {
	data, err := s.marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config to %q: %w", configFile, err)
	}
	if err := s.writeFile(configFile, data, ConfigFilePerm); err != nil {
		return fmt.Errorf("failed to write config to %q: %w", configFile, err)
	}
	return nil
}

// ConfigFilePerm defines secure file permissions for config files (owner read/write only).
const ConfigFilePerm = core.PermOwnerRW
