package config

import (
	"path/filepath"
	"strings"

	"github.com/kcuzner/rstblog/internal/errors"
)

// ResolveInside resolves a configured relative path against root and checks
// that the result stays inside root. Absolute paths and paths escaping via
// ".." traversal are rejected. Returns the resolved absolute path.
func ResolveInside(root, path string) (string, error) {
	if filepath.IsAbs(path) {
		return "", errors.PathEscapesRoot(path, root)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", errors.FileSystemError("resolve root", err)
	}
	resolved := filepath.Clean(filepath.Join(absRoot, path))
	if resolved != absRoot && !strings.HasPrefix(resolved, absRoot+string(filepath.Separator)) {
		return "", errors.PathEscapesRoot(path, root)
	}
	return resolved, nil
}

// ValidatePaths verifies every configured source glob base and static path
// resolves inside the repository root. Must pass before any file copy.
func (c *Config) ValidatePaths(repoRoot string) error {
	for _, p := range c.Blog.Static {
		if _, err := ResolveInside(repoRoot, p); err != nil {
			return err
		}
	}
	for _, glob := range []string{c.Blog.Posts, c.Blog.Pages} {
		if _, err := ResolveInside(repoRoot, globBase(glob)); err != nil {
			return err
		}
	}
	return nil
}

// globBase returns the longest literal prefix of a glob pattern, the part
// that is subject to path traversal.
func globBase(pattern string) string {
	parts := strings.Split(filepath.ToSlash(pattern), "/")
	var base []string
	for _, part := range parts {
		if strings.ContainsAny(part, "*?[{") {
			break
		}
		base = append(base, part)
	}
	if len(base) == 0 {
		return "."
	}
	return filepath.Join(base...)
}
