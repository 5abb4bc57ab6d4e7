// Package checks provides the Checker interface and the built-in file checks
// the auditor can apply to a single file.
package checks

import (
	"fmt"
	"os"
)

// File identifies one file under audit.
type File struct {
	// Path is the absolute (or caller-resolved) path used to read the file.
	Path string
	// RelPath is the path relative to the root it was discovered under. It is
	// what reports and notifications show.
	RelPath string
}

// Verdict is the outcome of one check applied to one file.
type Verdict struct {
	// Passed indicates whether the file met the check's acceptance criteria.
	Passed bool
	// Description is a human-readable statement of what was checked.
	Description string
	// Message explains the failure. Empty when Passed is true.
	Message string
	// Detail carries optional supporting text, e.g. the offending lines.
	Detail string
}

// Checker inspects a single file. Implementations must not keep per-file
// state: the engine may call Check concurrently for different files.
type Checker interface {
	Name() string
	Description() string
	Check(File) Verdict
}

// Pass returns a passing verdict for the given description.
func Pass(description string) Verdict {
	return Verdict{Passed: true, Description: description}
}

// Fail returns a failing verdict.
func Fail(description, format string, args ...any) Verdict {
	return Verdict{Description: description, Message: fmt.Sprintf(format, args...)}
}

// ContentFunc evaluates the raw bytes of a file.
type ContentFunc func(f File, content []byte) Verdict

// ContentCheck adapts a ContentFunc into a Checker. It reads the file and
// turns read errors into failing verdicts so one unreadable file never stops
// a run.
type ContentCheck struct {
	name        string
	description string
	fn          ContentFunc
}

// NewContentCheck returns a Checker named name that runs fn over the content
// of each file.
func NewContentCheck(name, description string, fn ContentFunc) *ContentCheck {
	return &ContentCheck{name: name, description: description, fn: fn}
}

func (c *ContentCheck) Name() string        { return c.name }
func (c *ContentCheck) Description() string { return c.description }

func (c *ContentCheck) Check(f File) Verdict {
	content, err := os.ReadFile(f.Path)
	if err != nil {
		return Fail(c.description, "cannot read %s: %v", f.RelPath, err)
	}
	v := c.fn(f, content)
	if v.Description == "" {
		v.Description = c.description
	}
	return v
}
