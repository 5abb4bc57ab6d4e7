package reporting

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// WriteFile writes the report to path. A ".gz" suffix selects gzip and a
// ".zst" suffix selects zstd compression; anything else is written as plain
// XML. The report is serialized before the file is created, so an unfinished
// report never truncates an existing file.
func WriteFile(path string, ts *TestSuites) (err error) {
	data, err := Marshal(ts)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing report file: %w", cerr)
		}
	}()

	w, finish, err := compressor(path, f)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing report file: %w", err)
	}
	if err := finish(); err != nil {
		return fmt.Errorf("flushing report file: %w", err)
	}
	return nil
}

func compressor(path string, w io.Writer) (io.Writer, func() error, error) {
	switch {
	case strings.HasSuffix(path, ".gz"):
		zw := gzip.NewWriter(w)
		return zw, zw.Close, nil
	case strings.HasSuffix(path, ".zst"):
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return nil, nil, fmt.Errorf("creating zstd writer: %w", err)
		}
		return zw, zw.Close, nil
	default:
		return w, func() error { return nil }, nil
	}
}
