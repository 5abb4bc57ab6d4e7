package reporting

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"time"
)

// JUnit XML schema types. Attribute order follows field order.

type junitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Name       string           `xml:"name,attr,omitempty"`
	TestSuites []junitTestSuite `xml:"testsuite"`
}

type junitTestSuite struct {
	Name      string          `xml:"name,attr"`
	File      string          `xml:"file,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Errors    int             `xml:"errors,attr"`
	Time      string          `xml:"time,attr"`
	TestCases []junitTestCase `xml:"testcase"`
}

type junitTestCase struct {
	Classname  string       `xml:"classname,attr"`
	Name       string       `xml:"name,attr"`
	Assertions int          `xml:"assertions,attr"`
	Time       string       `xml:"time,attr"`
	Errors     []junitError `xml:"error"`
}

type junitError struct {
	Message string `xml:"message,attr"`
	Body    string `xml:",chardata"`
}

// Marshal renders the report as an indented JUnit XML document. Every suite
// must be finished. Identical reports always produce identical bytes.
func Marshal(ts *TestSuites) ([]byte, error) {
	suites, err := ts.Suites()
	if err != nil {
		return nil, err
	}

	doc := junitTestSuites{Name: ts.Name()}
	for _, s := range suites {
		doc.TestSuites = append(doc.TestSuites, convertSuite(s))
	}

	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JUnit XML: %w", err)
	}

	var buf bytes.Buffer
	buf.Grow(len(xml.Header) + len(data) + 1)
	buf.WriteString(xml.Header)
	buf.Write(data)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// WriteTo writes the serialized report to w.
func (ts *TestSuites) WriteTo(w io.Writer) (int64, error) {
	data, err := Marshal(ts)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

func convertSuite(s *TestSuite) junitTestSuite {
	out := junitTestSuite{
		Name:     s.Name,
		File:     s.File,
		Tests:    s.Tests,
		Failures: s.Failures,
		Errors:   s.Errors,
		Time:     formatSeconds(s.Elapsed),
	}
	for _, tc := range s.Cases {
		jc := junitTestCase{
			Classname:  tc.Classname,
			Name:       tc.Name,
			Assertions: tc.Assertions,
			Time:       formatSeconds(tc.Elapsed),
		}
		for _, e := range tc.Errors {
			jc.Errors = append(jc.Errors, junitError{Message: e.Message, Body: e.Detail})
		}
		out.TestCases = append(out.TestCases, jc)
	}
	return out
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 6, 64)
}
