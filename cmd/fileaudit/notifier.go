package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/spboyer/fileaudit/internal/checks"
)

// consoleNotifier prints one line per outcome. Colour is used only when the
// writer is a terminal.
type consoleNotifier struct {
	w       io.Writer
	failure func(a ...interface{}) string
	success func(a ...interface{}) string
	dim     func(a ...interface{}) string
}

func newConsoleNotifier(w io.Writer) *consoleNotifier {
	failure := color.New(color.FgRed, color.Bold)
	success := color.New(color.FgGreen)
	dim := color.New(color.Faint)
	if !isTerminal(w) {
		failure.DisableColor()
		success.DisableColor()
		dim.DisableColor()
	}
	return &consoleNotifier{
		w:       w,
		failure: failure.SprintFunc(),
		success: success.SprintFunc(),
		dim:     dim.SprintFunc(),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (n *consoleNotifier) Failed(check string, file checks.File, v checks.Verdict) {
	msg := v.Message
	if msg == "" {
		msg = file.RelPath
	}
	fmt.Fprintf(n.w, "%s %s: %s\n", n.failure("FAIL"), check, msg) //nolint:errcheck
	if v.Detail != "" {
		for _, line := range strings.Split(strings.TrimRight(v.Detail, "\n"), "\n") {
			fmt.Fprintf(n.w, "     %s\n", n.dim(line)) //nolint:errcheck
		}
	}
}

func (n *consoleNotifier) Succeeded(check string, file checks.File, _ checks.Verdict) {
	fmt.Fprintf(n.w, "%s %s: %s\n", n.success("PASS"), check, file.RelPath) //nolint:errcheck
}
