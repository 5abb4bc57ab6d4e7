package checks

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// maxReportedLines caps how many line numbers end up in a verdict detail.
const maxReportedLines = 20

var lineEndings = map[string]string{
	"lf":   "\n",
	"crlf": "\r\n",
	"cr":   "\r",
}

func newLineEndingsCheck(params map[string]any) (Checker, error) {
	opts := struct {
		EOL string `mapstructure:"eol"`
	}{EOL: "lf"}
	if err := decodeOptions(params, &opts); err != nil {
		return nil, err
	}

	name := strings.ToLower(opts.EOL)
	allowed, ok := lineEndings[name]
	if !ok {
		return nil, fmt.Errorf("invalid eol %q: expected lf, crlf or cr", opts.EOL)
	}

	desc := "Line endings are " + strings.ToUpper(name)
	return NewContentCheck("line-endings", desc, func(f File, content []byte) Verdict {
		var bad []int
		line := 1
		for i := 0; i < len(content); i++ {
			var eol string
			switch content[i] {
			case '\r':
				if i+1 < len(content) && content[i+1] == '\n' {
					eol = "\r\n"
					i++
				} else {
					eol = "\r"
				}
			case '\n':
				eol = "\n"
			default:
				continue
			}
			if eol != allowed {
				bad = append(bad, line)
			}
			line++
		}
		return lineVerdict(desc, f, bad, "disallowed line ending")
	}), nil
}

func newTrailingWhitespaceCheck() Checker {
	const desc = "Lines have no trailing whitespace"
	return NewContentCheck("trailing-whitespace", desc, func(f File, content []byte) Verdict {
		var bad []int
		for i, line := range splitLines(content) {
			if n := len(line); n > 0 && (line[n-1] == ' ' || line[n-1] == '\t') {
				bad = append(bad, i+1)
			}
		}
		return lineVerdict(desc, f, bad, "line with trailing whitespace")
	})
}

func newFinalNewlineCheck() Checker {
	const desc = "File ends with a newline"
	return NewContentCheck("final-newline", desc, func(f File, content []byte) Verdict {
		if len(content) == 0 || content[len(content)-1] == '\n' {
			return Pass(desc)
		}
		return Fail(desc, "%s does not end with a newline", f.RelPath)
	})
}

func newNoTabsCheck() Checker {
	const desc = "Indentation uses no tabs"
	return NewContentCheck("no-tabs", desc, func(f File, content []byte) Verdict {
		var bad []int
		for i, line := range splitLines(content) {
			indent := line[:len(line)-len(bytes.TrimLeft(line, " \t"))]
			if bytes.IndexByte(indent, '\t') >= 0 {
				bad = append(bad, i+1)
			}
		}
		return lineVerdict(desc, f, bad, "line indented with tabs")
	})
}

func newMaxLineLengthCheck(params map[string]any) (Checker, error) {
	opts := struct {
		Max int `mapstructure:"max"`
	}{Max: 120}
	if err := decodeOptions(params, &opts); err != nil {
		return nil, err
	}
	if opts.Max <= 0 {
		return nil, errors.New("max must be a positive number of columns")
	}

	desc := fmt.Sprintf("Lines are at most %d columns wide", opts.Max)
	return NewContentCheck("max-line-length", desc, func(f File, content []byte) Verdict {
		var bad []int
		for i, line := range splitLines(content) {
			if runewidth.StringWidth(string(line)) > opts.Max {
				bad = append(bad, i+1)
			}
		}
		return lineVerdict(desc, f, bad, fmt.Sprintf("line longer than %d columns", opts.Max))
	}), nil
}

// splitLines splits content on LF, dropping a trailing CR from each line and
// the empty element after a final newline.
func splitLines(content []byte) [][]byte {
	if len(content) == 0 {
		return nil
	}
	lines := bytes.Split(content, []byte{'\n'})
	if len(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = bytes.TrimSuffix(line, []byte{'\r'})
	}
	return lines
}

// lineVerdict builds the verdict for checks that flag individual lines.
func lineVerdict(desc string, f File, bad []int, what string) Verdict {
	if len(bad) == 0 {
		return Pass(desc)
	}
	v := Fail(desc, "%s has %d %s, first on line %d", f.RelPath, len(bad), plural(len(bad), what), bad[0])
	v.Detail = "lines: " + formatLineNumbers(bad)
	return v
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	if rest, ok := strings.CutPrefix(word, "line "); ok {
		return "lines " + rest
	}
	return word + "s"
}

func formatLineNumbers(lines []int) string {
	shown := lines
	if len(shown) > maxReportedLines {
		shown = shown[:maxReportedLines]
	}
	parts := make([]string, len(shown))
	for i, n := range shown {
		parts[i] = strconv.Itoa(n)
	}
	out := strings.Join(parts, ", ")
	if len(lines) > len(shown) {
		out += fmt.Sprintf(" (and %d more)", len(lines)-len(shown))
	}
	return out
}
