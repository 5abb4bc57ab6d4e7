package checks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFile creates name under dir with content and returns it as a File.
func writeFile(t *testing.T, dir, name, content string) File {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return File{Path: p, RelPath: name}
}

func mustCreate(t *testing.T, name string, params map[string]any) Checker {
	t.Helper()
	c, err := Create(name, params)
	require.NoError(t, err)
	return c
}

func TestContentCheck_UnreadableFileFails(t *testing.T) {
	c := mustCreate(t, "final-newline", nil)

	v := c.Check(File{Path: filepath.Join(t.TempDir(), "missing.txt"), RelPath: "missing.txt"})

	assert.False(t, v.Passed)
	assert.Equal(t, c.Description(), v.Description)
	assert.Contains(t, v.Message, "cannot read missing.txt")
}

func TestContentCheck_IsIdempotent(t *testing.T) {
	f := writeFile(t, t.TempDir(), "b.txt", "one\r\ntwo\n")
	c := mustCreate(t, "line-endings", nil)

	first := c.Check(f)
	second := c.Check(f)

	assert.Equal(t, first, second)
	assert.False(t, first.Passed)
}

func TestRegistry_UnknownCheck(t *testing.T) {
	_, err := Create("no-such-check", nil)
	require.ErrorIs(t, err, ErrUnknownCheck)
}

func TestRegistry_DuplicateRegistration(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("x", "", func(map[string]any) (Checker, error) { return nil, nil }))

	err := r.Register("x", "", func(map[string]any) (Checker, error) { return nil, nil })
	require.Error(t, err)
	assert.Panics(t, func() {
		r.MustRegister("x", "", func(map[string]any) (Checker, error) { return nil, nil })
	})
}

func TestRegistry_NamesSortedAndSummarized(t *testing.T) {
	names := Names()
	require.NotEmpty(t, names)
	assert.IsIncreasing(t, names)
	for _, name := range names {
		assert.NotEmpty(t, DefaultRegistry.Summary(name), name)
	}
}

func TestRegistry_RejectsUnknownOptions(t *testing.T) {
	_, err := Create("line-endings", map[string]any{"eol": "lf", "colour": "blue"})
	require.Error(t, err)

	_, err = Create("bom", map[string]any{"strict": true})
	require.Error(t, err)
}

func TestRegistry_AcceptsStringOptions(t *testing.T) {
	c, err := Create("max-line-length", map[string]any{"max": "10"})
	require.NoError(t, err)
	assert.Equal(t, "Lines are at most 10 columns wide", c.Description())
}
