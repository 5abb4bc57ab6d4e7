package checks

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// byteOrderMarks is ordered so that UTF-32LE is tried before UTF-16LE,
// which shares its first two bytes.
var byteOrderMarks = []struct {
	name string
	mark []byte
}{
	{"UTF-32LE", []byte{0xFF, 0xFE, 0x00, 0x00}},
	{"UTF-32BE", []byte{0x00, 0x00, 0xFE, 0xFF}},
	{"UTF-8", []byte{0xEF, 0xBB, 0xBF}},
	{"UTF-16LE", []byte{0xFF, 0xFE}},
	{"UTF-16BE", []byte{0xFE, 0xFF}},
}

// DetectBOM returns the encoding name of the byte-order mark content starts
// with, or "" if there is none.
func DetectBOM(content []byte) string {
	for _, bom := range byteOrderMarks {
		if bytes.HasPrefix(content, bom.mark) {
			return bom.name
		}
	}
	return ""
}

func newBOMCheck() Checker {
	const desc = "File has no byte-order mark"
	return NewContentCheck("bom", desc, func(f File, content []byte) Verdict {
		if name := DetectBOM(content); name != "" {
			return Fail(desc, "%s starts with a %s byte-order mark", f.RelPath, name)
		}
		return Pass(desc)
	})
}

func newEncodingCheck(params map[string]any) (Checker, error) {
	opts := struct {
		Charset string `mapstructure:"charset"`
	}{Charset: "utf-8"}
	if err := decodeOptions(params, &opts); err != nil {
		return nil, err
	}

	enc, err := htmlindex.Get(opts.Charset)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", opts.Charset, err)
	}
	charset, err := htmlindex.Name(enc)
	if err != nil {
		charset = opts.Charset
	}

	desc := "Content is valid " + charset
	if charset == "utf-8" {
		return NewContentCheck("encoding", desc, func(f File, content []byte) Verdict {
			if off := invalidUTF8Offset(content); off >= 0 {
				return Fail(desc, "%s is not valid utf-8: invalid byte sequence at offset %d", f.RelPath, off)
			}
			return Pass(desc)
		}), nil
	}

	return NewContentCheck("encoding", desc, func(f File, content []byte) Verdict {
		if err := decodeStrict(enc, content); err != nil {
			return Fail(desc, "%s is not valid %s: %v", f.RelPath, charset, err)
		}
		return Pass(desc)
	}), nil
}

// invalidUTF8Offset returns the byte offset of the first invalid UTF-8
// sequence, or -1.
func invalidUTF8Offset(content []byte) int {
	for off := 0; off < len(content); {
		r, size := utf8.DecodeRune(content[off:])
		if r == utf8.RuneError && size <= 1 {
			return off
		}
		off += size
	}
	return -1
}

// decodeStrict decodes content and reports the substitutions x/text decoders
// make for bytes that have no mapping in the charset. A replacement
// character only counts as a substitution when re-encoding the decoded text
// does not reproduce content, since U+FFFD itself is valid in Unicode
// charsets.
func decodeStrict(enc encoding.Encoding, content []byte) error {
	decoded, err := enc.NewDecoder().Bytes(content)
	if err != nil {
		return err
	}
	n := bytes.Count(decoded, []byte(string(utf8.RuneError)))
	if n == 0 {
		return nil
	}
	if encoded, err := enc.NewEncoder().Bytes(decoded); err == nil && bytes.Equal(encoded, content) {
		return nil
	}
	return fmt.Errorf("%d undecodable byte sequence(s)", n)
}
