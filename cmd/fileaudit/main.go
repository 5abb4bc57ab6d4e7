package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spboyer/fileaudit/internal/orchestration"
)

// Exit codes for different failure modes
const (
	ExitSuccess    = orchestration.ExitSuccess    // All checks passed
	ExitTestFailed = orchestration.ExitTestFailed // One or more checks failed
	ExitError      = 2                            // Configuration or runtime error
)

// TestFailureError indicates that the audit ran to completion, but one or
// more files failed a check.
type TestFailureError struct {
	Message string
}

func (e *TestFailureError) Error() string {
	return e.Message
}

func main() {
	os.Exit(exitCode(execute(), os.Stderr))
}

// exitCode reports err on stderr and maps it to the process exit code.
func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return ExitSuccess
	}
	fmt.Fprintln(stderr, err) //nolint:errcheck

	var testFailureErr *TestFailureError
	if errors.As(err, &testFailureErr) {
		return ExitTestFailed
	}

	// All other errors are configuration/runtime errors
	return ExitError
}
