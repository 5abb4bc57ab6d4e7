// Package discovery finds the files an audit run checks.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
)

// ErrInvalidPattern wraps malformed name globs and path expressions.
var ErrInvalidPattern = errors.New("invalid pattern")

// File is one discovered file.
type File struct {
	Path    string // absolute path under the symlink-resolved root
	RelPath string // slash-separated path relative to the root it was found under
}

// Options controls which files are yielded.
type Options struct {
	// Names are base-name globs a file must match one of. Empty means "*".
	Names []string
	// NotNames are base-name globs that exclude a file.
	NotNames []string
	// NotPaths are regular expressions matched against RelPath that exclude
	// a file, or a whole directory when they match its relative path.
	NotPaths []string
	// IgnoreVCS drops files ignored by git when a root is in a work tree.
	IgnoreVCS bool
}

// DefaultOptions returns the options used when no flag or config overrides
// them.
func DefaultOptions() Options {
	return Options{Names: []string{"*"}, IgnoreVCS: true}
}

type matcher struct {
	names    []string
	notNames []string
	notPaths []*regexp.Regexp
}

func newMatcher(opts Options) (*matcher, error) {
	m := &matcher{names: opts.Names, notNames: opts.NotNames}
	if len(m.names) == 0 {
		m.names = []string{"*"}
	}
	for _, g := range append(append([]string{}, m.names...), m.notNames...) {
		if _, err := filepath.Match(g, ""); err != nil {
			return nil, fmt.Errorf("%w: name glob %q: %v", ErrInvalidPattern, g, err)
		}
	}
	for _, expr := range opts.NotPaths {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("%w: path expression %q: %v", ErrInvalidPattern, expr, err)
		}
		m.notPaths = append(m.notPaths, re)
	}
	return m, nil
}

func (m *matcher) excludedPath(rel string) bool {
	for _, re := range m.notPaths {
		if re.MatchString(rel) {
			return true
		}
	}
	return false
}

func (m *matcher) matchName(base string) bool {
	if !matchAny(m.names, base) {
		return false
	}
	return !matchAny(m.notNames, base)
}

func matchAny(globs []string, name string) bool {
	for _, g := range globs {
		if ok, _ := filepath.Match(g, name); ok {
			return true
		}
	}
	return false
}

// Discover walks each root in order and returns the matching files. Roots
// that are files are yielded as-is when their name matches. Directories are
// walked in lexical order, so results are stable between runs.
func Discover(ctx context.Context, roots []string, opts Options) ([]File, error) {
	if len(roots) == 0 {
		return nil, errors.New("at least one path is required")
	}
	m, err := newMatcher(opts)
	if err != nil {
		return nil, err
	}

	var all []File
	for _, root := range roots {
		resolved, err := resolveRoot(root)
		if err != nil {
			return nil, err
		}
		files, err := discoverRoot(ctx, root, resolved, m)
		if err != nil {
			return nil, err
		}
		if opts.IgnoreVCS {
			if files, err = filterIgnored(ctx, resolved, files); err != nil {
				return nil, err
			}
		}
		slog.Debug("Discovered files", "root", root, "count", len(files))
		all = append(all, files...)
	}
	return all, nil
}

// resolveRoot returns the absolute form of root with symlinks evaluated, so a
// linked directory is walked like a real one.
func resolveRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving path %q: %w", root, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("path %q: %w", root, err)
	}
	return resolved, nil
}

// discoverRoot lists the files under absRoot, the resolved form of root.
// Paths are reported under absRoot; a file root keeps the base name it was
// given as RelPath.
func discoverRoot(ctx context.Context, root, absRoot string, m *matcher) ([]File, error) {
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("path %q: %w", root, err)
	}

	if !info.IsDir() {
		base := filepath.Base(root)
		if !m.matchName(base) || m.excludedPath(base) {
			return nil, nil
		}
		return []File{{Path: absRoot, RelPath: base}}, nil
	}

	var files []File
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == absRoot {
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if d.Name() == ".git" || m.excludedPath(rel) {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() && !linksToRegularFile(path, d) {
			slog.Debug("Skipping non-regular file", "path", rel, "type", d.Type().String())
			return nil
		}
		if m.matchName(d.Name()) && !m.excludedPath(rel) {
			files = append(files, File{Path: path, RelPath: rel})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", root, err)
	}
	return files, nil
}

// linksToRegularFile reports whether d is a symlink to a regular file. Links
// to directories are not descended into.
func linksToRegularFile(path string, d fs.DirEntry) bool {
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
