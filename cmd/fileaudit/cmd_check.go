package main

import (
	"github.com/spf13/cobra"

	"github.com/spboyer/fileaudit/internal/checks"
	"github.com/spboyer/fileaudit/internal/orchestration"
	"github.com/spboyer/fileaudit/internal/projectconfig"
)

// newCheckCommand builds `fileaudit <check> PATH...`, which runs one check as
// a single suite.
func newCheckCommand(name, summary string) *cobra.Command {
	var flags auditFlags

	cmd := &cobra.Command{
		Use:   name + " PATH...",
		Short: summary,
		Long: summary + `

Every file found under PATH becomes one test case of the "` + name + `" suite.
Options from a matching entry in .fileaudit.yaml apply and --option
key=value overrides them.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig(cmd)
			if err != nil {
				return err
			}
			spec, err := singleCheckSuite(name, cfg, flags.options)
			if err != nil {
				return err
			}
			return audit(cmd, cfg, args, []orchestration.SuiteSpec{spec})
		},
	}
	flags.register(cmd)
	return cmd
}

func singleCheckSuite(name string, cfg *projectconfig.ProjectConfig, rawOptions []string) (orchestration.SuiteSpec, error) {
	var base map[string]any
	for _, c := range cfg.Checks {
		if c.Name == name {
			base = c.Options
			break
		}
	}
	options, err := mergeOptions(base, rawOptions)
	if err != nil {
		return orchestration.SuiteSpec{}, err
	}
	checker, err := checks.Create(name, options)
	if err != nil {
		return orchestration.SuiteSpec{}, err
	}
	return orchestration.SuiteSpec{
		Name:     name,
		File:     reportName + " " + name,
		Checkers: []checks.Checker{checker},
	}, nil
}
