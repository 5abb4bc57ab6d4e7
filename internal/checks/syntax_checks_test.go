package checks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONCheck(t *testing.T) {
	c := mustCreate(t, "json", nil)
	dir := t.TempDir()

	assert.True(t, c.Check(writeFile(t, dir, "ok.json", `{"a": [1, 2]}`)).Passed)

	v := c.Check(writeFile(t, dir, "bad.json", "{\n  \"a\": ,\n}"))
	require.False(t, v.Passed)
	assert.Contains(t, v.Message, "bad.json is not valid JSON")
	assert.Contains(t, v.Message, "line 2")

	v = c.Check(writeFile(t, dir, "empty.json", ""))
	assert.False(t, v.Passed)
}

func TestYAMLCheck(t *testing.T) {
	c := mustCreate(t, "yaml", nil)
	dir := t.TempDir()

	assert.True(t, c.Check(writeFile(t, dir, "ok.yaml", "a: 1\n---\nb: [x, y]\n")).Passed)
	assert.True(t, c.Check(writeFile(t, dir, "empty.yaml", "")).Passed)

	v := c.Check(writeFile(t, dir, "bad.yaml", "a: 1\n---\nb: [x, y\n"))
	require.False(t, v.Passed)
	assert.Contains(t, v.Message, "bad.yaml is not valid YAML (document 2)")
}

func TestXMLCheck(t *testing.T) {
	c := mustCreate(t, "xml", nil)
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		passed  bool
		message string
	}{
		{name: "well formed", content: `<?xml version="1.0"?><a><b x="1"/></a>`, passed: true},
		{name: "mismatched", content: `<a><b></a>`, message: "is not well-formed XML"},
		{name: "unclosed", content: `<a><b></b>`, message: "is not well-formed XML"},
		{name: "empty", content: ``, message: "no root element"},
		{name: "two roots", content: `<a/><b/>`, message: "2 root elements"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := c.Check(writeFile(t, dir, tt.name+".xml", tt.content))
			require.Equal(t, tt.passed, v.Passed, v.Message)
			if !tt.passed {
				assert.Contains(t, v.Message, tt.message)
			}
		})
	}
}

func TestXMLCheck_RequireXPath(t *testing.T) {
	c := mustCreate(t, "xml", map[string]any{"require": "//project/version"})
	dir := t.TempDir()

	assert.True(t, c.Check(writeFile(t, dir, "pom.xml", `<project><version>1</version></project>`)).Passed)

	v := c.Check(writeFile(t, dir, "other.xml", `<project><name>x</name></project>`))
	require.False(t, v.Passed)
	assert.Equal(t, "other.xml has no node matching //project/version", v.Message)
}

func TestXMLCheck_InvalidXPath(t *testing.T) {
	_, err := Create("xml", map[string]any{"require": "//["})
	require.Error(t, err)
}

func TestPosition(t *testing.T) {
	line, col := position([]byte("ab\ncd"), 4)
	assert.Equal(t, 2, line)
	assert.Equal(t, 2, col)
}
