package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/spboyer/fileaudit/internal/discovery"
	"github.com/spboyer/fileaudit/internal/orchestration"
	"github.com/spboyer/fileaudit/internal/projectconfig"
	"github.com/spboyer/fileaudit/internal/reporting"
	"github.com/spboyer/fileaudit/internal/spinner"
)

const reportName = "fileaudit"

var printer = message.NewPrinter(language.English)

// audit discovers the files under paths, runs every suite over them, prints
// a summary and writes the report. It returns a *TestFailureError when any
// case failed.
func audit(cmd *cobra.Command, cfg *projectconfig.ProjectConfig, paths []string, specs []orchestration.SuiteSpec) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	stop := func() {}
	if stderr := cmd.ErrOrStderr(); isTerminal(stderr) {
		stop = spinner.Start(stderr, "Discovering files")
	}
	found, err := discovery.Discover(ctx, paths, discoveryOptions(cfg))
	stop()
	if err != nil {
		return err
	}
	slog.Debug("Discovered files", "count", len(found), "paths", paths)

	verbose := cfg.Verbose != nil && *cfg.Verbose
	rc := orchestration.NewRunContext(reporting.NewTestSuites(reportName), newConsoleNotifier(out), verbose)
	runner := orchestration.NewRunner(orchestration.WithWorkers(cfg.Workers))

	suites, err := runner.Run(ctx, rc, specs, orchestration.Files(found))
	if err != nil {
		if orchestration.IsCanceled(err) {
			return fmt.Errorf("audit interrupted: %w", err)
		}
		return err
	}

	fmt.Fprint(out, "\n"+reporting.FormatSummary(suites)) //nolint:errcheck

	if cfg.Output != "" {
		writeReport(cmd.ErrOrStderr(), cfg.Output, rc.Report)
	}

	if code := rc.ExitCode(); code != ExitSuccess {
		return &TestFailureError{
			Message: printer.Sprintf("audit completed with %d failed check(s) across %d file(s)", rc.Errors, len(found)),
		}
	}
	return nil
}

// writeReport warns instead of failing so the exit status keeps reflecting
// the check results.
func writeReport(stderr io.Writer, path string, report *reporting.TestSuites) {
	if err := reporting.WriteFile(path, report); err != nil {
		fmt.Fprintf(stderr, "warning: report not written: %v\n", err) //nolint:errcheck
		return
	}
	slog.Debug("Wrote report", "path", path)
}
