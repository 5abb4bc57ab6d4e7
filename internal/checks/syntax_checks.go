package checks

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"gopkg.in/yaml.v3"
)

func newJSONCheck() Checker {
	const desc = "Content is valid JSON"
	return NewContentCheck("json", desc, func(f File, content []byte) Verdict {
		var v any
		err := json.Unmarshal(content, &v)
		if err == nil {
			return Pass(desc)
		}
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			line, col := position(content, syntaxErr.Offset)
			return Fail(desc, "%s is not valid JSON: %v (line %d, column %d)", f.RelPath, err, line, col)
		}
		return Fail(desc, "%s is not valid JSON: %v", f.RelPath, err)
	})
}

func newYAMLCheck() Checker {
	const desc = "Content is valid YAML"
	return NewContentCheck("yaml", desc, func(f File, content []byte) Verdict {
		dec := yaml.NewDecoder(bytes.NewReader(content))
		for doc := 1; ; doc++ {
			var node yaml.Node
			err := dec.Decode(&node)
			if errors.Is(err, io.EOF) {
				return Pass(desc)
			}
			if err != nil {
				return Fail(desc, "%s is not valid YAML (document %d): %v", f.RelPath, doc, err)
			}
		}
	})
}

func newXMLCheck(params map[string]any) (Checker, error) {
	opts := struct {
		Require string `mapstructure:"require"`
	}{}
	if err := decodeOptions(params, &opts); err != nil {
		return nil, err
	}

	desc := "Content is well-formed XML"
	var expr *xpath.Expr
	if opts.Require != "" {
		var err error
		if expr, err = xpath.Compile(opts.Require); err != nil {
			return nil, fmt.Errorf("invalid xpath %q: %w", opts.Require, err)
		}
		desc = fmt.Sprintf("Content is well-formed XML matching %s", opts.Require)
	}

	return NewContentCheck("xml", desc, func(f File, content []byte) Verdict {
		if err := wellFormed(content); err != nil {
			return Fail(desc, "%s is not well-formed XML: %v", f.RelPath, err)
		}
		if expr == nil {
			return Pass(desc)
		}

		doc, err := xmlquery.Parse(bytes.NewReader(content))
		if err != nil {
			return Fail(desc, "%s could not be parsed for XPath evaluation: %v", f.RelPath, err)
		}
		if xmlquery.QuerySelector(doc, expr) == nil {
			return Fail(desc, "%s has no node matching %s", f.RelPath, opts.Require)
		}
		return Pass(desc)
	}), nil
}

// wellFormed runs a strict tokenizer over content and requires exactly one
// root element.
func wellFormed(content []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(content))
	dec.Strict = true
	// Declared charsets are accepted as-is; the encoding check covers them.
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	roots, depth := 0, 0
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		switch tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				roots++
			}
			depth++
		case xml.EndElement:
			depth--
		}
	}

	switch {
	case roots == 0:
		return errors.New("no root element")
	case roots > 1:
		return fmt.Errorf("%d root elements", roots)
	}
	return nil
}

// position converts a byte offset into a 1-based line and column.
func position(content []byte, offset int64) (line, col int) {
	if offset > int64(len(content)) {
		offset = int64(len(content))
	}
	before := content[:offset]
	line = bytes.Count(before, []byte{'\n'}) + 1
	col = int(offset) - bytes.LastIndexByte(before, '\n')
	return line, col
}
