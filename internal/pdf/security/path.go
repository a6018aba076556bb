// Package security confines the file paths the service reads and writes to
// the configured directories.
package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathValidator accepts paths that resolve inside one of its roots. The
// first root is the default directory that relative paths are joined to.
type PathValidator struct {
	roots []string
}

// NewPathValidator creates a validator for the given root directories.
// Empty roots after the first are ignored, so an optional output directory
// can be passed unconditionally.
func NewPathValidator(root string, extra ...string) (*PathValidator, error) {
	if root == "" {
		return nil, fmt.Errorf("configured directory cannot be empty")
	}

	v := &PathValidator{}
	for _, dir := range append([]string{root}, extra...) {
		if dir == "" {
			continue
		}
		resolved, err := realPath(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve directory %s: %w", dir, err)
		}
		v.roots = append(v.roots, resolved)
	}
	return v, nil
}

// GetConfiguredDirectory returns the default root
func (v *PathValidator) GetConfiguredDirectory() string {
	return v.roots[0]
}

// Roots returns every accepted root directory.
func (v *PathValidator) Roots() []string {
	return append([]string(nil), v.roots...)
}

// Resolve turns path into an absolute path inside a root. Relative paths
// are taken relative to the default root. The path need not exist, but its
// parent directory must resolve inside a root.
func (v *PathValidator) Resolve(path string) (string, error) {
	path = strings.ReplaceAll(path, "\x00", "")
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(v.roots[0], path)
	}

	resolved, err := realPath(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	if !v.within(resolved) {
		return "", fmt.Errorf("path is outside configured directory: %s", path)
	}
	return resolved, nil
}

// ValidatePath checks that path resolves inside a root.
func (v *PathValidator) ValidatePath(path string) error {
	_, err := v.Resolve(path)
	return err
}

// ValidateDirectory checks that dirPath resolves inside a root and, when it
// exists, is a directory.
func (v *PathValidator) ValidateDirectory(dirPath string) error {
	resolved, err := v.Resolve(dirPath)
	if err != nil {
		return err
	}

	info, err := os.Stat(resolved)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", dirPath)
	}
	return nil
}

// IsPathWithinDirectory reports whether path resolves inside a root.
func (v *PathValidator) IsPathWithinDirectory(path string) (bool, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Errorf("failed to resolve path: %w", err)
	}
	resolved, err := realPath(abs)
	if err != nil {
		return false, fmt.Errorf("failed to resolve path: %w", err)
	}
	return v.within(resolved), nil
}

func (v *PathValidator) within(path string) bool {
	for _, root := range v.roots {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			continue
		}
		if rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))) {
			return true
		}
	}
	return false
}

// realPath makes path absolute and resolves symlinks in its longest
// existing prefix, keeping any missing tail as written.
func realPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	existing, tail := abs, ""
	for {
		if _, err := os.Lstat(existing); err == nil {
			break
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			return abs, nil
		}
		tail = filepath.Join(filepath.Base(existing), tail)
		existing = parent
	}

	resolved, err := filepath.EvalSymlinks(existing)
	if err != nil {
		return "", err
	}
	return filepath.Join(resolved, tail), nil
}
