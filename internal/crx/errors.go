package crx

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/indaco/crxsync/internal/core"
)

// EntryError describes a failure while writing one archive entry to disk.
// It unwraps to both core.ErrExtractionFailed and the underlying cause.
type EntryError struct {
	Entry string
	Path  string
	Op    string // operation: "open", "create", "write", "mkdir"
	Err   error
}

func (e *EntryError) Error() string {
	switch {
	case errors.Is(e.Err, fs.ErrPermission):
		return fmt.Sprintf("permission denied: cannot %s entry %q at %q: %v", e.Op, e.Entry, e.Path, e.Err)
	case isDiskFull(e.Err):
		return fmt.Sprintf("no space left on device writing entry %q at %q: %v", e.Entry, e.Path, e.Err)
	default:
		return fmt.Sprintf("failed to %s entry %q at %q: %v", e.Op, e.Entry, e.Path, e.Err)
	}
}

func (e *EntryError) Unwrap() []error {
	return []error{core.ErrExtractionFailed, e.Err}
}

// UnsafePathError reports an archive entry whose name would resolve
// outside the destination directory.
type UnsafePathError struct {
	Entry string
}

func (e *UnsafePathError) Error() string {
	return fmt.Sprintf("%s: entry %q escapes the destination directory", core.ErrExtractionFailed, e.Entry)
}

func (e *UnsafePathError) Unwrap() error {
	return core.ErrExtractionFailed
}

// isDiskFull matches ENOSPC across platforms by message.
func isDiskFull(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "no space left on device") || strings.Contains(msg, "disk full")
}
