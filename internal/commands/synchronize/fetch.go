package synchronize

import (
	"context"
	"fmt"

	"github.com/indaco/crxsync/internal/reconcile"
	"github.com/indaco/crxsync/internal/tui"
)

// spinnerFetcher shows a spinner while a package downloads.
type spinnerFetcher struct {
	inner reconcile.Fetcher
}

func (f *spinnerFetcher) Fetch(ctx context.Context, url, destPath string) error {
	return tui.WithSpinner(ctx, fmt.Sprintf("Fetching %s", url), func(ctx context.Context) error {
		return f.inner.Fetch(ctx, url, destPath)
	})
}
