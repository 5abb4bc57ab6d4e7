// Package orchestration runs checks over discovered files and records the
// outcomes in a report.
package orchestration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/spboyer/fileaudit/internal/checks"
	"github.com/spboyer/fileaudit/internal/discovery"
	"github.com/spboyer/fileaudit/internal/reporting"
)

// Exit codes derived from a run.
const (
	ExitSuccess    = 0
	ExitTestFailed = 1
)

//go:generate go tool mockgen -source runner.go -destination mock_notifier_test.go -package orchestration

// Notifier receives outcomes in the order they are recorded.
type Notifier interface {
	Failed(check string, file checks.File, v checks.Verdict)
	Succeeded(check string, file checks.File, v checks.Verdict)
}

// NopNotifier discards notifications.
type NopNotifier struct{}

func (NopNotifier) Failed(string, checks.File, checks.Verdict)    {}
func (NopNotifier) Succeeded(string, checks.File, checks.Verdict) {}

// RunContext is the state of one run. The runner is its only writer while a
// run is in progress.
type RunContext struct {
	Report   *reporting.TestSuites
	Notifier Notifier
	// Verbose enables Succeeded notifications.
	Verbose bool
	// Errors counts failing cases across every suite of the run.
	Errors int
}

// NewRunContext starts a run that records into report.
func NewRunContext(report *reporting.TestSuites, notifier Notifier, verbose bool) *RunContext {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &RunContext{Report: report, Notifier: notifier, Verbose: verbose}
}

// ExitCode is ExitSuccess when nothing failed and ExitTestFailed otherwise.
func (rc *RunContext) ExitCode() int {
	if rc.Errors == 0 {
		return ExitSuccess
	}
	return ExitTestFailed
}

// SuiteSpec describes one suite: the checks applied to every file.
type SuiteSpec struct {
	Name     string
	File     string
	Checkers []checks.Checker
}

// Runner evaluates checks and records their verdicts.
type Runner struct {
	workers int
	clock   reporting.Clock
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithWorkers sets how many checks may be evaluated at once. Values below 2
// keep the run strictly sequential.
func WithWorkers(n int) RunnerOption {
	return func(r *Runner) {
		r.workers = n
	}
}

// WithClock replaces time.Now for case timing.
func WithClock(c reporting.Clock) RunnerOption {
	return func(r *Runner) {
		r.clock = c
	}
}

// NewRunner creates a sequential runner unless WithWorkers says otherwise.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{workers: 1, clock: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Files converts discovered files into check inputs.
func Files(found []discovery.File) []checks.File {
	out := make([]checks.File, len(found))
	for i, f := range found {
		out[i] = checks.File(f)
	}
	return out
}

// Run records one suite per SuiteSpec, in order.
func (r *Runner) Run(ctx context.Context, rc *RunContext, specs []SuiteSpec, files []checks.File) ([]*reporting.TestSuite, error) {
	suites := make([]*reporting.TestSuite, 0, len(specs))
	for _, spec := range specs {
		s, err := r.RunSuite(ctx, rc, spec, files)
		if err != nil {
			return nil, err
		}
		suites = append(suites, s)
	}
	return suites, nil
}

// RunSuite applies every checker of the suite to every file and records one case
// per file and checker, in file order then checker order. Failing cases bump
// rc.Errors. The suite is finished before returning.
func (r *Runner) RunSuite(ctx context.Context, rc *RunContext, spec SuiteSpec, files []checks.File) (*reporting.TestSuite, error) {
	if len(spec.Checkers) == 0 {
		return nil, fmt.Errorf("suite %q has no checks", spec.Name)
	}

	slog.Debug("Running suite", "suite", spec.Name, "files", len(files), "checks", len(spec.Checkers), "workers", r.workers)

	builder := rc.Report.AddTestSuite(spec.Name, spec.File)
	jobs := make([]job, 0, len(files)*len(spec.Checkers))
	for _, f := range files {
		for _, c := range spec.Checkers {
			jobs = append(jobs, job{file: f, checker: c})
		}
	}

	var err error
	if r.workers > 1 && len(jobs) > 1 {
		err = r.runConcurrent(ctx, rc, builder, jobs)
	} else {
		err = r.runSequential(ctx, rc, builder, jobs)
	}
	if err != nil {
		return nil, err
	}

	suite, err := builder.Finish()
	if err != nil {
		return nil, err
	}
	slog.Debug("Suite finished", "suite", spec.Name, "tests", suite.Tests, "failures", suite.Failures, "elapsed", suite.Elapsed)
	return suite, nil
}

type job struct {
	file    checks.File
	checker checks.Checker
}

type result struct {
	job
	verdict    checks.Verdict
	start, end time.Time
}

func (r *Runner) evaluate(j job) result {
	start := r.clock()
	v := j.checker.Check(j.file)
	return result{job: j, verdict: v, start: start, end: r.clock()}
}

func (r *Runner) runSequential(ctx context.Context, rc *RunContext, suite *reporting.SuiteBuilder, jobs []job) error {
	for _, j := range jobs {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.record(rc, suite, r.evaluate(j))
	}
	return nil
}

// runConcurrent evaluates jobs on up to r.workers goroutines, then records
// the results in job order so the report does not depend on scheduling.
func (r *Runner) runConcurrent(ctx context.Context, rc *RunContext, suite *reporting.SuiteBuilder, jobs []job) error {
	results := make([]result, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.evaluate(j)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	// errgroup cancels gctx only on a job error, so also honour the caller.
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, res := range results {
		r.record(rc, suite, res)
	}
	return nil
}

func (r *Runner) record(rc *RunContext, suite *reporting.SuiteBuilder, res result) {
	name := res.verdict.Description
	if name == "" {
		name = res.checker.Description()
	}

	tc := suite.AddTestAt(name, res.start)
	tc.SetClassname(res.file.RelPath)
	tc.IncAssertions()

	if res.verdict.Passed {
		if rc.Verbose {
			rc.Notifier.Succeeded(res.checker.Name(), res.file, res.verdict)
		}
	} else {
		msg := res.verdict.Message
		if msg == "" {
			msg = fmt.Sprintf("%s failed for %s", res.checker.Name(), res.file.RelPath)
		}
		tc.AddErrorDetail(msg, res.verdict.Detail)
		rc.Errors++
		rc.Notifier.Failed(res.checker.Name(), res.file, res.verdict)
	}

	tc.FinishAt(res.end)
}

// IsCanceled reports whether err ended a run early because its context was
// canceled or timed out.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
