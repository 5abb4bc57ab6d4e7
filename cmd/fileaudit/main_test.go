package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTestFailureError(t *testing.T) {
	err := &TestFailureError{
		Message: "audit completed with 2 failed check(s) across 5 file(s)",
	}

	assert.Equal(t, "audit completed with 2 failed check(s) across 5 file(s)", err.Error())
}

func TestErrorTypeDetection(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantType string
	}{
		{
			name:     "TestFailureError",
			err:      &TestFailureError{Message: "test failure"},
			wantType: "TestFailureError",
		},
		{
			name:     "regular error",
			err:      errors.New("config error"),
			wantType: "other",
		},
		{
			name:     "wrapped TestFailureError",
			err:      errors.Join(&TestFailureError{Message: "test failure"}, errors.New("additional context")),
			wantType: "TestFailureError",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var testFailureErr *TestFailureError
			isTestFailure := errors.As(tt.err, &testFailureErr)

			if tt.wantType == "TestFailureError" {
				assert.True(t, isTestFailure, "expected error to be detected as TestFailureError")
			} else {
				assert.False(t, isTestFailure, "expected error NOT to be detected as TestFailureError")
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantStderr string
	}{
		{name: "success", err: nil, wantCode: ExitSuccess},
		{name: "failed checks", err: &TestFailureError{Message: "1 failed"}, wantCode: ExitTestFailed, wantStderr: "1 failed\n"},
		{name: "config error", err: errors.New("bad config"), wantCode: ExitError, wantStderr: "bad config\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			assert.Equal(t, tt.wantCode, exitCode(tt.err, &stderr))
			assert.Equal(t, tt.wantStderr, stderr.String())
		})
	}
}
