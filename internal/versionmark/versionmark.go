// Package versionmark persists the version applied to an installed
// extension in a one-line marker file inside its directory.
//
// Versions are opaque: they are compared for textual equality only.
package versionmark

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/indaco/crxsync/internal/core"
)

// Path returns the marker file location for an extension directory.
func Path(extDir string) string {
	return filepath.Join(extDir, core.VersionMarkerFile)
}

// Read returns the recorded version of extDir. The boolean is false when
// no marker exists.
func Read(extDir string) (string, bool, error) {
	data, err := os.ReadFile(Path(extDir))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read version marker in %q: %w", extDir, err)
	}
	return strings.TrimSpace(string(data)), true, nil
}

// NeedsUpdate reports whether the extension at extDir must be fetched
// again for the declared version. It returns false only when the
// directory exists and carries a marker equal to declared. An empty
// declared version never matches, so undeclared versions are always
// refreshed.
func NeedsUpdate(declared, extDir string) bool {
	info, err := os.Stat(extDir)
	if err != nil || !info.IsDir() {
		return true
	}
	recorded, ok, err := Read(extDir)
	if err != nil || !ok {
		return true
	}
	return declared == "" || recorded != declared
}

// Record writes version to the marker of extDir, or core.UnknownVersion
// when version is empty. Call it only after a successful unpack.
func Record(extDir, version string) error {
	if version == "" {
		version = core.UnknownVersion
	}
	if err := os.WriteFile(Path(extDir), []byte(version), core.PermFile); err != nil {
		return fmt.Errorf("failed to write version marker in %q: %w", extDir, err)
	}
	return nil
}

// Tracker adapts the package functions to an injectable interface.
type Tracker struct{}

// NeedsUpdate delegates to the package-level NeedsUpdate.
func (Tracker) NeedsUpdate(declared, extDir string) bool { return NeedsUpdate(declared, extDir) }

// Record delegates to the package-level Record.
func (Tracker) Record(extDir, version string) error { return Record(extDir, version) }
