package reporting

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpretPassRate(t *testing.T) {
	tests := []struct {
		name string
		rate float64
		want string
	}{
		{"all", 1.0, "all files passed"},
		{"most", 0.85, "most files passed (85%)"},
		{"half", 0.5, "about half the files passed (50%)"},
		{"few", 0.1, "few files passed (10%)"},
		{"none", 0, "few files passed (0%)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InterpretPassRate(tt.rate))
		})
	}
}

func TestFormatSummary(t *testing.T) {
	suites := []*TestSuite{
		{Name: "bom", Tests: 12, Failures: 0, Elapsed: 1500 * time.Millisecond},
		{Name: "line-endings", Tests: 4, Failures: 1, Elapsed: 3 * time.Millisecond},
		{Name: "json", Tests: 0},
	}

	lines := strings.Split(strings.TrimRight(FormatSummary(suites), "\n"), "\n")
	require.Len(t, lines, 4)

	assert.Equal(t, "  bom           12 checked, 0 failed in 1.5s: all files passed", lines[0])
	assert.Equal(t, "  line-endings  4 checked, 1 failed in 3ms: most files passed (75%)", lines[1])
	assert.Equal(t, "  json          0 checked, 0 failed in 0ms: no files checked", lines[2])
	assert.Equal(t, "  Total         16 checked, 1 failed in 1.503s: most files passed (94%)", lines[3])
}

func TestFormatSummary_SingleSuiteHasNoTotal(t *testing.T) {
	out := FormatSummary([]*TestSuite{{Name: "bom", Tests: 2000, Failures: 1000}})
	assert.Equal(t, "  bom  2,000 checked, 1,000 failed in 0ms: about half the files passed (50%)\n", out)
}

func TestPadRight_WideRunes(t *testing.T) {
	assert.Equal(t, "日本 ", padRight("日本", 5))
	assert.Equal(t, "abc", padRight("abc", 2))
}
