// Package launchargs derives the browser launch argument that loads every
// installed extension.
package launchargs

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"slices"
	"sort"
	"strings"

	"github.com/indaco/crxsync/internal/core"
)

// Flag is the browser switch that receives the extension list.
const Flag = "--load-extension="

// Collect returns the names of installed extension directories under root
// in ascending order. Names in skip, hidden entries and non-directories
// are left out. A missing root yields an empty list.
func Collect(root string, skip ...string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list extensions in %q: %w", root, err)
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() || slices.Contains(skip, name) || strings.HasPrefix(name, ".") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Paths maps directory names to their location under the container mount
// point. Forward slashes are used regardless of the host OS.
func Paths(names []string, mountPrefix string) []string {
	paths := make([]string, 0, len(names))
	for _, name := range names {
		paths = append(paths, path.Join(mountPrefix, name))
	}
	return paths
}

// Derive builds the launch argument for the given directory names.
func Derive(names []string, mountPrefix string) string {
	return Flag + strings.Join(Paths(names, mountPrefix), ",")
}

// WriteFile writes args to path and reports whether the content changed.
// An unchanged file is left untouched.
func WriteFile(path, args string) (bool, error) {
	current, err := os.ReadFile(path)
	if err == nil && bytes.Equal(current, []byte(args)) {
		return false, nil
	}
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to read %q: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(args), core.PermFile); err != nil {
		return false, fmt.Errorf("failed to write %q: %w", path, err)
	}
	return true, nil
}
