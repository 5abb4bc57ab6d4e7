package main

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spboyer/fileaudit/internal/checks"
	"github.com/spboyer/fileaudit/internal/orchestration"
	"github.com/spboyer/fileaudit/internal/projectconfig"
)

const combinedSuite = "all"

func newRunCommand() *cobra.Command {
	var flags auditFlags
	var checkNames []string
	var combine bool

	cmd := &cobra.Command{
		Use:   "run [PATH...]",
		Short: "Run the configured checks",
		Long: `Run the checks listed in .fileaudit.yaml, or those named with --check.

Each check becomes one suite named after the check, unless its config
entry sets a suite name; entries sharing a suite name are grouped. With
--combine every check runs in a single suite.

Options are given per check as --option CHECK.KEY=VALUE, e.g.
  fileaudit run -c line-endings -c max-line-length --option max-line-length.max=100

With no PATH the configured paths are used, or the current directory.`,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("check") {
				cfg.Checks = checksFromNames(checkNames, cfg.Checks)
			}
			if cmd.Flags().Changed("combine") {
				cfg.Combine = &combine
			}

			specs, err := buildSuites(cfg, flags.options)
			if err != nil {
				return err
			}
			return audit(cmd, cfg, resolvePaths(args, cfg), specs)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringArrayVarP(&checkNames, "check", "c", nil, "Check to run instead of the configured ones (repeatable)")
	cmd.Flags().BoolVar(&combine, "combine", false, "Run every check in one suite")

	return cmd
}

// checksFromNames selects checks by name, keeping configured options and
// suite names for those that are also in the config.
func checksFromNames(names []string, configured []projectconfig.CheckConfig) []projectconfig.CheckConfig {
	out := make([]projectconfig.CheckConfig, 0, len(names))
	for _, name := range names {
		c := projectconfig.CheckConfig{Name: name}
		for _, cc := range configured {
			if cc.Name == name {
				c = cc
				break
			}
		}
		out = append(out, c)
	}
	return out
}

// buildSuites creates the checkers of cfg and groups them into suites in
// order of first appearance.
func buildSuites(cfg *projectconfig.ProjectConfig, rawOptions []string) ([]orchestration.SuiteSpec, error) {
	if len(cfg.Checks) == 0 {
		return nil, errors.New("no checks configured: pass --check or add checks to " + projectconfig.FileName)
	}

	overrides, err := scopedOptions(rawOptions)
	if err != nil {
		return nil, err
	}

	combine := cfg.Combine != nil && *cfg.Combine
	var specs []orchestration.SuiteSpec
	index := map[string]int{}
	for _, c := range cfg.Checks {
		options, err := mergeOptions(c.Options, overrides[c.Name])
		if err != nil {
			return nil, err
		}
		delete(overrides, c.Name)

		checker, err := checks.Create(c.Name, options)
		if err != nil {
			return nil, err
		}

		suite := c.Suite
		if suite == "" {
			suite = c.Name
		}
		if combine {
			suite = combinedSuite
		}
		i, ok := index[suite]
		if !ok {
			i = len(specs)
			index[suite] = i
			specs = append(specs, orchestration.SuiteSpec{Name: suite, File: reportName + " run"})
		}
		specs[i].Checkers = append(specs[i].Checkers, checker)
	}

	if len(overrides) > 0 {
		unused := slices.Sorted(maps.Keys(overrides))
		return nil, fmt.Errorf("--option given for %q, which is not being run", unused[0])
	}
	return specs, nil
}

// scopedOptions groups "check.key=value" flags by check name.
func scopedOptions(raw []string) (map[string][]string, error) {
	out := map[string][]string{}
	for _, r := range raw {
		check, rest, ok := strings.Cut(r, ".")
		if !ok || check == "" || strings.Contains(check, "=") {
			return nil, fmt.Errorf("invalid --option %q: want CHECK.KEY=VALUE", r)
		}
		out[check] = append(out[check], rest)
	}
	return out, nil
}
