package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var summaryPrinter = message.NewPrinter(language.English)

// InterpretPassRate returns a plain-language label for the share of passing
// cases (0-1).
func InterpretPassRate(rate float64) string {
	pct := rate * 100
	switch {
	case pct >= 100:
		return "all files passed"
	case pct >= 80:
		return fmt.Sprintf("most files passed (%.0f%%)", pct)
	case pct >= 50:
		return fmt.Sprintf("about half the files passed (%.0f%%)", pct)
	default:
		return fmt.Sprintf("few files passed (%.0f%%)", pct)
	}
}

// FormatSummary renders one aligned line per finished suite followed by a
// total line.
func FormatSummary(suites []*TestSuite) string {
	var b strings.Builder

	width := len("Total")
	for _, s := range suites {
		width = max(width, runewidth.StringWidth(s.Name))
	}

	var tests, failures int
	var elapsed time.Duration
	for _, s := range suites {
		tests += s.Tests
		failures += s.Failures
		elapsed += s.Elapsed
		b.WriteString(summaryLine(s.Name, width, s.Tests, s.Failures, s.Elapsed))
	}
	if len(suites) != 1 {
		b.WriteString(summaryLine("Total", width, tests, failures, elapsed))
	}
	return b.String()
}

func summaryLine(name string, width, tests, failures int, elapsed time.Duration) string {
	verdict := "no files checked"
	if tests > 0 {
		verdict = InterpretPassRate(float64(tests-failures) / float64(tests))
	}
	return summaryPrinter.Sprintf("  %s  %d checked, %d failed in %s: %s\n",
		padRight(name, width), tests, failures, formatElapsed(elapsed), verdict)
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}

func formatElapsed(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Round(time.Millisecond).String()
}
