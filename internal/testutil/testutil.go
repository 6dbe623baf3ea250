package testutil

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// TempDir creates a temporary directory for testing
// It returns the directory path and a cleanup function
func TempDir(t *testing.T) (string, func()) {
	t.Helper()

	dir, err := os.MkdirTemp("", "myfind-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	cleanup := func() {
		// restore permissions first so RemoveAll can descend everywhere
		filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err == nil && info.IsDir() {
				os.Chmod(path, 0755)
			}
			return nil
		})
		os.RemoveAll(dir)
	}

	return dir, cleanup
}

// CreateTestFile creates a test file with the given content
func CreateTestFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create parent dir: %v", err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	return path
}

// BuildTree creates files and directories below root. Entries ending in
// "/" are directories; everything else becomes an empty file.
func BuildTree(t *testing.T, root string, entries ...string) {
	t.Helper()

	for _, e := range entries {
		if strings.HasSuffix(e, "/") {
			if err := os.MkdirAll(filepath.Join(root, e), 0755); err != nil {
				t.Fatalf("failed to create dir %s: %v", e, err)
			}
			continue
		}
		CreateTestFile(t, root, e, nil)
	}
}

// Chdir switches the working directory for the rest of the test
func Chdir(t *testing.T, dir string) {
	t.Helper()

	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}
	t.Cleanup(func() {
		os.Chdir(old)
	})
}

// SkipIfRoot skips tests that rely on permission checks
func SkipIfRoot(t *testing.T) {
	t.Helper()
	if os.Geteuid() == 0 {
		t.Skip("permission checks are bypassed for root")
	}
}

// Lines splits output into lines, dropping the trailing empty one
func Lines(output string) []string {
	output = strings.TrimSuffix(output, "\n")
	if output == "" {
		return nil
	}
	return strings.Split(output, "\n")
}

// SortedLines is Lines in sorted order, for output whose order the
// filesystem decides
func SortedLines(output string) []string {
	lines := Lines(output)
	sort.Strings(lines)
	return lines
}
