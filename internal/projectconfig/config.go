// Package projectconfig provides the ProjectConfig struct and loader for
// .fileaudit.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the name of the project configuration file.
const FileName = ".fileaudit.yaml"

// Default values for project configuration. New() references them and no
// other code should duplicate them.
const (
	DefaultName      = "*"
	DefaultIgnoreVCS = true
	DefaultWorkers   = 1
	DefaultVerbose   = false
)

// DiscoveryConfig holds file selection settings.
type DiscoveryConfig struct {
	Names     []string `yaml:"name,omitempty"`
	NotNames  []string `yaml:"not_name,omitempty"`
	NotPaths  []string `yaml:"not_path,omitempty"`
	IgnoreVCS *bool    `yaml:"ignore_vcs,omitempty"`
}

// CheckConfig selects one check and its options.
type CheckConfig struct {
	Name string `yaml:"name"`
	// Suite overrides the suite name; it defaults to the check name.
	Suite   string         `yaml:"suite,omitempty"`
	Options map[string]any `yaml:"options,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .fileaudit.yaml.
type ProjectConfig struct {
	// Path is the file the configuration was loaded from, empty for defaults.
	Path string `yaml:"-"`

	Paths     []string        `yaml:"paths,omitempty"`
	Discovery DiscoveryConfig `yaml:"discovery,omitempty"`
	Checks    []CheckConfig   `yaml:"checks,omitempty"`
	Output    string          `yaml:"output,omitempty"`
	Workers   int             `yaml:"workers,omitempty"`
	Verbose   *bool           `yaml:"verbose,omitempty"`
	Combine   *bool           `yaml:"combine,omitempty"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Discovery: DiscoveryConfig{
			Names:     []string{DefaultName},
			IgnoreVCS: boolPtr(DefaultIgnoreVCS),
		},
		Workers: DefaultWorkers,
		Verbose: boolPtr(DefaultVerbose),
		Combine: boolPtr(false),
	}
}

// Load finds .fileaudit.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	path, data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	}

	fileCfg, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	mergeConfig(cfg, fileCfg)
	cfg.Path = path
	return cfg, nil
}

// LoadFile reads an explicit configuration file. Unlike Load, a missing file
// is an error.
func LoadFile(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	fileCfg, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg := New()
	mergeConfig(cfg, fileCfg)
	cfg.Path = path
	return cfg, nil
}

func parse(data []byte) (*ProjectConfig, error) {
	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, err
	}
	for i, c := range fileCfg.Checks {
		if c.Name == "" {
			return nil, fmt.Errorf("checks[%d]: name is required", i)
		}
	}
	if fileCfg.Workers < 0 {
		return nil, fmt.Errorf("workers must not be negative, got %d", fileCfg.Workers)
	}
	return &fileCfg, nil
}

// findConfigFile walks up from dir looking for the config file.
// Returns os.ErrNotExist if no config file is found.
func findConfigFile(dir string) (string, []byte, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, FileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return p, data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	if len(src.Paths) > 0 {
		dst.Paths = src.Paths
	}

	if len(src.Discovery.Names) > 0 {
		dst.Discovery.Names = src.Discovery.Names
	}
	if len(src.Discovery.NotNames) > 0 {
		dst.Discovery.NotNames = src.Discovery.NotNames
	}
	if len(src.Discovery.NotPaths) > 0 {
		dst.Discovery.NotPaths = src.Discovery.NotPaths
	}
	if src.Discovery.IgnoreVCS != nil {
		dst.Discovery.IgnoreVCS = src.Discovery.IgnoreVCS
	}

	if len(src.Checks) > 0 {
		dst.Checks = src.Checks
	}
	if src.Output != "" {
		dst.Output = src.Output
	}
	if src.Workers != 0 {
		dst.Workers = src.Workers
	}
	if src.Verbose != nil {
		dst.Verbose = src.Verbose
	}
	if src.Combine != nil {
		dst.Combine = src.Combine
	}
}

// Marshal renders cfg as YAML, e.g. for `fileaudit init`.
func Marshal(cfg *ProjectConfig) ([]byte, error) {
	return yaml.Marshal(cfg)
}

func boolPtr(b bool) *bool {
	return &b
}
