package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/spboyer/fileaudit/internal/checks"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fileaudit",
		Short: "fileaudit - audit files and report the results as JUnit XML",
		Long: `fileaudit applies file checks to a tree of files and records one test
case per file and check in a JUnit XML report.

Run a single check directly:
  fileaudit line-endings --option eol=lf src docs

Or run the checks configured in .fileaudit.yaml:
  fileaudit run -o report.xml

The exit status is 0 when every file passes, 1 when any check fails and
2 on configuration or runtime errors.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	cmd.AddCommand(newRunCommand())
	cmd.AddCommand(newListCommand())
	cmd.AddCommand(newInitCommand())
	for _, name := range checks.Names() {
		cmd.AddCommand(newCheckCommand(name, checks.DefaultRegistry.Summary(name)))
	}

	return cmd
}

func execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := newRootCommand()
	return rootCmd.ExecuteContext(ctx)
}
