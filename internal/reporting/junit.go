// Package reporting builds the JUnit-style report of an audit run and
// serializes it.
//
// Nodes have two forms. Builders (SuiteBuilder, CaseBuilder) are mutable and
// are spent by Finish; the values Finish returns (TestSuite, TestCase) carry
// the frozen data and aggregates and have no mutators.
package reporting

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrFinished is the panic value for using a builder after Finish.
	ErrFinished = errors.New("report node already finished")
	// ErrUnfinishedCase is returned when a suite is finished before all of
	// its cases.
	ErrUnfinishedCase = errors.New("test case not finished")
	// ErrUnfinishedSuite is returned when serializing a report with an open
	// suite.
	ErrUnfinishedSuite = errors.New("test suite not finished")
)

// Clock returns the current time.
type Clock func() time.Time

// Option configures a TestSuites.
type Option func(*TestSuites)

// WithClock replaces time.Now for every node of the report.
func WithClock(c Clock) Option {
	return func(ts *TestSuites) {
		ts.clock = c
	}
}

// TestSuites is the root of a report. There is one per run.
type TestSuites struct {
	name   string
	clock  Clock
	suites []*SuiteBuilder
}

// NewTestSuites creates an empty report. name may be empty.
func NewTestSuites(name string, opts ...Option) *TestSuites {
	ts := &TestSuites{name: name, clock: time.Now}
	for _, opt := range opts {
		opt(ts)
	}
	return ts
}

// Name returns the report name.
func (ts *TestSuites) Name() string {
	return ts.name
}

// AddTestSuite appends a new open suite. Suites are never merged, even when
// names collide. file identifies the command or tool that produced the suite.
func (ts *TestSuites) AddTestSuite(name, file string) *SuiteBuilder {
	s := &SuiteBuilder{
		clock: ts.clock,
		name:  name,
		file:  file,
		start: ts.clock(),
	}
	ts.suites = append(ts.suites, s)
	return s
}

// Suites returns the finished suites in insertion order.
func (ts *TestSuites) Suites() ([]*TestSuite, error) {
	out := make([]*TestSuite, 0, len(ts.suites))
	for _, s := range ts.suites {
		if s.done == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnfinishedSuite, s.name)
		}
		out = append(out, s.done)
	}
	return out, nil
}

// SuiteBuilder is an open test suite.
type SuiteBuilder struct {
	clock Clock
	name  string
	file  string
	start time.Time
	cases []*CaseBuilder
	done  *TestSuite
}

// Name returns the suite name.
func (s *SuiteBuilder) Name() string {
	return s.name
}

// AddTest appends a new open case whose timer starts now.
func (s *SuiteBuilder) AddTest(description string) *CaseBuilder {
	return s.AddTestAt(description, s.clock())
}

// AddTestAt appends a new open case that started at start. It is used when
// the work a case describes ran before the case was recorded.
func (s *SuiteBuilder) AddTestAt(description string, start time.Time) *CaseBuilder {
	if s.done != nil {
		panic(ErrFinished)
	}
	c := &CaseBuilder{
		clock: s.clock,
		start: start,
		tc:    TestCase{Name: description},
	}
	s.cases = append(s.cases, c)
	return c
}

// Finish freezes the suite and computes its aggregates. Every case must
// already be finished.
func (s *SuiteBuilder) Finish() (*TestSuite, error) {
	if s.done != nil {
		return nil, fmt.Errorf("suite %q: %w", s.name, ErrFinished)
	}

	suite := &TestSuite{
		Name:      s.name,
		File:      s.file,
		Timestamp: s.start,
		Cases:     make([]TestCase, 0, len(s.cases)),
	}
	var first, last time.Time
	for i, c := range s.cases {
		if c.done == nil {
			return nil, fmt.Errorf("suite %q case %d (%s): %w", s.name, i, c.tc.Name, ErrUnfinishedCase)
		}
		tc := *c.done
		suite.Cases = append(suite.Cases, tc)
		suite.Assertions += tc.Assertions
		suite.Errors += len(tc.Errors)
		if tc.Failed() {
			suite.Failures++
		}
		end := tc.Start.Add(tc.Elapsed)
		if i == 0 || tc.Start.Before(first) {
			first = tc.Start
		}
		if i == 0 || end.After(last) {
			last = end
		}
	}
	suite.Tests = len(suite.Cases)
	if suite.Tests > 0 {
		suite.Elapsed = last.Sub(first)
	}

	s.done = suite
	return suite, nil
}

// CaseBuilder is an open test case.
type CaseBuilder struct {
	clock Clock
	start time.Time
	tc    TestCase
	done  *TestCase
}

func (c *CaseBuilder) mutable() {
	if c.done != nil {
		panic(ErrFinished)
	}
}

// SetClassname records the relative path of the audited file.
func (c *CaseBuilder) SetClassname(path string) {
	c.mutable()
	c.tc.Classname = path
}

// IncAssertions counts one more assertion. It has no effect on the outcome.
func (c *CaseBuilder) IncAssertions() {
	c.mutable()
	c.tc.Assertions++
}

// AddError records a failure. Records accumulate in call order.
func (c *CaseBuilder) AddError(message string) {
	c.AddErrorDetail(message, "")
}

// AddErrorDetail records a failure with supporting detail text.
func (c *CaseBuilder) AddErrorDetail(message, detail string) {
	c.mutable()
	c.tc.Errors = append(c.tc.Errors, ErrorRecord{Message: message, Detail: detail})
}

// Finish freezes the case, measuring elapsed time until now.
func (c *CaseBuilder) Finish() TestCase {
	return c.FinishAt(c.clock())
}

// FinishAt freezes the case with end as its completion time.
func (c *CaseBuilder) FinishAt(end time.Time) TestCase {
	c.mutable()
	tc := c.tc
	tc.Start = c.start
	if end.After(c.start) {
		tc.Elapsed = end.Sub(c.start)
	}
	tc.Errors = cloneErrors(c.tc.Errors)
	c.done = &tc

	out := tc
	out.Errors = cloneErrors(tc.Errors)
	return out
}

func cloneErrors(errs []ErrorRecord) []ErrorRecord {
	if len(errs) == 0 {
		return nil
	}
	return append([]ErrorRecord(nil), errs...)
}

// TestSuite is a finished suite.
type TestSuite struct {
	Name      string
	File      string
	Timestamp time.Time
	Cases     []TestCase

	Tests      int
	Failures   int // cases with at least one error record
	Errors     int // error records across all cases
	Assertions int
	// Elapsed spans from the earliest case start to the latest case end.
	Elapsed time.Duration
}

// TestCase is a finished case.
type TestCase struct {
	Name       string
	Classname  string
	Assertions int
	Errors     []ErrorRecord
	Start      time.Time
	Elapsed    time.Duration
}

// Failed reports whether the case has any error record.
func (tc TestCase) Failed() bool {
	return len(tc.Errors) > 0
}

// ErrorRecord is one failure attached to a case.
type ErrorRecord struct {
	Message string
	Detail  string
}
