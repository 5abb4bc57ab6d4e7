package discovery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// IsInWorkTree reports whether dir is inside a git work tree. A missing git
// binary counts as "no".
func IsInWorkTree(ctx context.Context, dir string) bool {
	out, err := exec.CommandContext(ctx, "git", "-C", dir, "rev-parse", "--is-inside-work-tree").Output()
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(out)) == "true"
}

// filterIgnored drops the files git would ignore under root. Tracked files
// are kept even when an ignore rule matches them, as git itself does.
func filterIgnored(ctx context.Context, root string, files []File) ([]File, error) {
	if len(files) == 0 {
		return files, nil
	}

	dir, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", root, err)
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	if !IsInWorkTree(ctx, dir) {
		slog.Debug("Not a git work tree, VCS ignore rules skipped", "root", root)
		return files, nil
	}

	ignored, err := checkIgnore(ctx, dir, files)
	if err != nil {
		return nil, err
	}
	if len(ignored) == 0 {
		return files, nil
	}

	kept := files[:0:0]
	for _, f := range files {
		if ignored[filepath.Clean(f.Path)] {
			slog.Debug("Skipping VCS-ignored file", "path", f.RelPath)
			continue
		}
		kept = append(kept, f)
	}
	return kept, nil
}

// checkIgnore asks git which of files are ignored, passing paths over stdin
// NUL-separated so any file name survives the round trip.
func checkIgnore(ctx context.Context, dir string, files []File) (map[string]bool, error) {
	var input bytes.Buffer
	for _, f := range files {
		input.WriteString(f.Path)
		input.WriteByte(0)
	}

	cmd := exec.CommandContext(ctx, "git", "-C", dir, "check-ignore", "--stdin", "-z")
	cmd.Stdin = &input
	out, err := cmd.Output()
	if err != nil {
		// Exit status 1 means none of the paths are ignored.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return nil, nil
		}
		return nil, fmt.Errorf("running git check-ignore in %s: %w", dir, err)
	}

	ignored := make(map[string]bool)
	for _, p := range strings.Split(string(out), "\x00") {
		if p == "" {
			continue
		}
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		ignored[filepath.Clean(p)] = true
	}
	return ignored, nil
}
