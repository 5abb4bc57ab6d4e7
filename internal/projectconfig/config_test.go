package projectconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestNew_ReturnsAllDefaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, []string{"*"}, cfg.Discovery.Names)
	assert.Empty(t, cfg.Discovery.NotNames)
	assert.Empty(t, cfg.Discovery.NotPaths)
	require.NotNil(t, cfg.Discovery.IgnoreVCS)
	assert.True(t, *cfg.Discovery.IgnoreVCS)
	assert.Equal(t, 1, cfg.Workers)
	require.NotNil(t, cfg.Verbose)
	assert.False(t, *cfg.Verbose)
	require.NotNil(t, cfg.Combine)
	assert.False(t, *cfg.Combine)
	assert.Empty(t, cfg.Checks)
	assert.Empty(t, cfg.Output)
	assert.Empty(t, cfg.Path)
}

func TestLoad_FullConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, FileName, `
paths: [src, docs]
discovery:
  name: ["*.go", "*.md"]
  not_name: ["*_test.go"]
  not_path: ["^vendor/"]
  ignore_vcs: false
checks:
  - name: line-endings
    options:
      eol: crlf
  - name: max-line-length
    suite: width
    options:
      max: 100
output: report.xml.gz
workers: 4
verbose: true
combine: true
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, []string{"src", "docs"}, cfg.Paths)
	assert.Equal(t, []string{"*.go", "*.md"}, cfg.Discovery.Names)
	assert.Equal(t, []string{"*_test.go"}, cfg.Discovery.NotNames)
	assert.Equal(t, []string{"^vendor/"}, cfg.Discovery.NotPaths)
	assert.False(t, *cfg.Discovery.IgnoreVCS)
	require.Len(t, cfg.Checks, 2)
	assert.Equal(t, "line-endings", cfg.Checks[0].Name)
	assert.Equal(t, map[string]any{"eol": "crlf"}, cfg.Checks[0].Options)
	assert.Equal(t, "width", cfg.Checks[1].Suite)
	assert.Equal(t, 100, cfg.Checks[1].Options["max"])
	assert.Equal(t, "report.xml.gz", cfg.Output)
	assert.Equal(t, 4, cfg.Workers)
	assert.True(t, *cfg.Verbose)
	assert.True(t, *cfg.Combine)
}

func TestLoad_PartialConfigKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, "checks:\n  - name: bom\n")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"*"}, cfg.Discovery.Names)
	assert.True(t, *cfg.Discovery.IgnoreVCS)
	assert.Equal(t, 1, cfg.Workers)
	require.Len(t, cfg.Checks, 1)
}

func TestLoad_WalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, FileName, "output: up.xml\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, err := Load(nested)
	require.NoError(t, err)
	assert.Equal(t, "up.xml", cfg.Output)
}

func TestLoad_NoFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, New().Workers, cfg.Workers)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "bad yaml", content: "checks: [", want: "parsing"},
		{name: "check without name", content: "checks:\n  - options: {}\n", want: "checks[0]: name is required"},
		{name: "negative workers", content: "workers: -2\n", want: "workers must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, FileName, tt.content)

			_, err := Load(dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := writeFile(t, t.TempDir(), "custom.yaml", "workers: 3\n")
	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, path, cfg.Path)
}

func TestMarshal_RoundTrip(t *testing.T) {
	cfg := New()
	cfg.Checks = []CheckConfig{{Name: "line-endings", Options: map[string]any{"eol": "lf"}}}

	data, err := Marshal(cfg)
	require.NoError(t, err)

	path := writeFile(t, t.TempDir(), FileName, string(data))
	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Checks, loaded.Checks)
	assert.Equal(t, cfg.Discovery, loaded.Discovery)
}
