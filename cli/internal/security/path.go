package security

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidatePathWithinBoundary ensures that targetPath is within or equal to boundaryPath.
// The CLI reads the project file and item files relative to a project
// directory; a "../" sequence must not take it outside.
//
// Example:
//
//	boundary := "/srv/research"
//	target := "/srv/research/items/leads.json"    // valid
//	target := "/srv/research/../../etc/passwd"   // rejected
func ValidatePathWithinBoundary(boundaryPath, targetPath string) error {
	absBoundary, err := filepath.Abs(boundaryPath)
	if err != nil {
		return fmt.Errorf("failed to resolve boundary path %q: %w", boundaryPath, err)
	}

	absTarget, err := filepath.Abs(targetPath)
	if err != nil {
		return fmt.Errorf("failed to resolve target path %q: %w", targetPath, err)
	}

	rel, err := filepath.Rel(absBoundary, absTarget)
	if err != nil {
		return fmt.Errorf("invalid path relationship between %q and %q: %w", absBoundary, absTarget, err)
	}

	// "..data" is a file name, not an escape
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("path traversal detected: %q escapes boundary %q", targetPath, boundaryPath)
	}

	return nil
}

// ResolveWithin joins a project-relative path onto boundaryPath and checks
// the result stays inside it. Absolute paths are checked as given.
func ResolveWithin(boundaryPath, path string) (string, error) {
	target := path
	if !filepath.IsAbs(target) {
		target = filepath.Join(boundaryPath, path)
	}
	if err := ValidatePathWithinBoundary(boundaryPath, target); err != nil {
		return "", err
	}
	return target, nil
}
