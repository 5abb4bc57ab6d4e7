package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spboyer/fileaudit/internal/discovery"
	"github.com/spboyer/fileaudit/internal/projectconfig"
)

// auditFlags are the flags shared by `run` and the per-check commands.
// Values left unset on the command line fall back to .fileaudit.yaml.
type auditFlags struct {
	configPath string
	names      []string
	notNames   []string
	notPaths   []string
	output     string
	ignoreVCS  bool
	verbose    bool
	workers    int
	options    []string
}

func (f *auditFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.configPath, "config", "", "Path to a config file (default: search for "+projectconfig.FileName+")")
	fs.StringArrayVarP(&f.names, "name", "n", nil, "Only check files whose base name matches this glob (repeatable, default *)")
	fs.StringArrayVar(&f.notNames, "not-name", nil, "Skip files whose base name matches this glob (repeatable)")
	fs.StringArrayVar(&f.notPaths, "not-path", nil, "Skip files whose relative path matches this regexp (repeatable)")
	fs.StringVarP(&f.output, "output", "o", "", "Write the JUnit XML report here (.xml, .xml.gz or .xml.zst)")
	fs.BoolVar(&f.ignoreVCS, "ignore-vcs", projectconfig.DefaultIgnoreVCS, "Skip files ignored by git")
	fs.BoolVarP(&f.verbose, "verbose", "v", projectconfig.DefaultVerbose, "Also report passing files")
	fs.IntVarP(&f.workers, "workers", "w", projectconfig.DefaultWorkers, "Number of checks evaluated concurrently")
	fs.StringArrayVar(&f.options, "option", nil, "Check option as key=value (repeatable)")
}

// loadConfig reads --config when given and otherwise searches upward from
// the working directory, then applies every flag set on the command line.
func (f *auditFlags) loadConfig(cmd *cobra.Command) (*projectconfig.ProjectConfig, error) {
	var cfg *projectconfig.ProjectConfig
	var err error
	if f.configPath != "" {
		cfg, err = projectconfig.LoadFile(f.configPath)
	} else {
		var wd string
		wd, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		cfg, err = projectconfig.Load(wd)
	}
	if err != nil {
		return nil, err
	}
	resolveConfigPaths(cfg)

	fs := cmd.Flags()
	if fs.Changed("name") {
		cfg.Discovery.Names = f.names
	}
	if fs.Changed("not-name") {
		cfg.Discovery.NotNames = f.notNames
	}
	if fs.Changed("not-path") {
		cfg.Discovery.NotPaths = f.notPaths
	}
	if fs.Changed("ignore-vcs") {
		cfg.Discovery.IgnoreVCS = &f.ignoreVCS
	}
	if fs.Changed("output") {
		cfg.Output = f.output
	}
	if fs.Changed("verbose") {
		cfg.Verbose = &f.verbose
	}
	if fs.Changed("workers") {
		if f.workers < 1 {
			return nil, fmt.Errorf("--workers must be at least 1, got %d", f.workers)
		}
		cfg.Workers = f.workers
	}
	return cfg, nil
}

func discoveryOptions(cfg *projectconfig.ProjectConfig) discovery.Options {
	opts := discovery.DefaultOptions()
	if len(cfg.Discovery.Names) > 0 {
		opts.Names = cfg.Discovery.Names
	}
	opts.NotNames = cfg.Discovery.NotNames
	opts.NotPaths = cfg.Discovery.NotPaths
	if cfg.Discovery.IgnoreVCS != nil {
		opts.IgnoreVCS = *cfg.Discovery.IgnoreVCS
	}
	return opts
}

// pathOptions lists the check options that name files.
var pathOptions = map[string][]string{
	"json-schema": {"schema"},
}

// configRelative resolves p against the directory of the config file it came
// from. Paths from defaults or flags stay relative to the working directory.
func configRelative(cfg *projectconfig.ProjectConfig, p string) string {
	if p == "" || filepath.IsAbs(p) || cfg.Path == "" {
		return p
	}
	return filepath.Join(filepath.Dir(cfg.Path), p)
}

// resolveConfigPaths rewrites the file-valued settings read from the config
// file so they do not depend on where fileaudit is run from.
func resolveConfigPaths(cfg *projectconfig.ProjectConfig) {
	cfg.Output = configRelative(cfg, cfg.Output)
	for i, c := range cfg.Checks {
		keys := pathOptions[c.Name]
		if len(keys) == 0 || len(c.Options) == 0 {
			continue
		}
		options := make(map[string]any, len(c.Options))
		for k, v := range c.Options {
			options[k] = v
		}
		for _, k := range keys {
			if p, ok := options[k].(string); ok {
				options[k] = configRelative(cfg, p)
			}
		}
		cfg.Checks[i].Options = options
	}
}

// resolvePaths returns args when given, else the configured paths relative to
// the config file, else the working directory.
func resolvePaths(args []string, cfg *projectconfig.ProjectConfig) []string {
	if len(args) > 0 {
		return args
	}
	if len(cfg.Paths) == 0 {
		return []string{"."}
	}
	out := make([]string, len(cfg.Paths))
	for i, p := range cfg.Paths {
		out[i] = configRelative(cfg, p)
	}
	return out
}

// parseOption splits "key=value".
func parseOption(raw string) (string, string, error) {
	key, value, ok := strings.Cut(raw, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", fmt.Errorf("invalid --option %q: want key=value", raw)
	}
	return key, value, nil
}

// mergeOptions copies base and overlays the given key=value pairs. Values
// stay strings; checks decode them weakly.
func mergeOptions(base map[string]any, raw []string) (map[string]any, error) {
	out := make(map[string]any, len(base)+len(raw))
	for k, v := range base {
		out[k] = v
	}
	for _, r := range raw {
		k, v, err := parseOption(r)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}
