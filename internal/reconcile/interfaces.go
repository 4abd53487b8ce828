package reconcile

import (
	"context"

	"github.com/indaco/crxsync/internal/crx"
	"github.com/indaco/crxsync/internal/declared"
)

// Source supplies the declared extension set for one pass.
type Source interface {
	Load() ([]declared.Extension, error)
}

// Fetcher downloads a package into a scratch file.
type Fetcher interface {
	Fetch(ctx context.Context, url, destPath string) error
}

// Unpacker replaces destDir with the contents of a package.
type Unpacker interface {
	Unpack(pkgPath, destDir string) (*crx.Header, error)
}

// Tracker decides staleness and records applied versions.
type Tracker interface {
	NeedsUpdate(declared, extDir string) bool
	Record(extDir, version string) error
}
