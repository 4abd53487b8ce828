// Package fetcher downloads extension packages into a scratch location.
package fetcher

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/indaco/crxsync/internal/core"
	"github.com/zeebo/blake3"
)

const (
	defaultUserAgent = "crxsync"
	maxRedirects     = 10
)

// StatusError reports a non-success HTTP response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: GET %s returned status %d", core.ErrFetchFailed, e.URL, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return core.ErrFetchFailed
}

// Fetcher retrieves package bytes over HTTP.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.httpClient = c
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithTimeout bounds a single fetch, including reading the body.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// New creates a Fetcher. The default client follows up to ten redirects.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		httpClient: &http.Client{CheckRedirect: limitRedirects},
		userAgent:  defaultUserAgent,
		timeout:    core.TimeoutFetch,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func limitRedirects(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return fmt.Errorf("stopped after %d redirects", maxRedirects)
	}
	return nil
}

// Fetch downloads url into destPath. On any failure the partial file is
// removed and the returned error wraps core.ErrFetchFailed.
func (f *Fetcher) Fetch(ctx context.Context, url, destPath string) (err error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request for %q: %w: %w", url, core.ErrFetchFailed, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("GET %s timed out after %v: %w", url, f.timeout, core.ErrFetchFailed)
		}
		return fmt.Errorf("GET %s: %w: %w", url, core.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("creating %q: %w: %w", destPath, core.ErrFetchFailed, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %q: %w: %w", destPath, core.ErrFetchFailed, cerr)
		}
		if err != nil {
			_ = os.Remove(destPath)
		}
	}()

	if _, err := io.Copy(out, resp.Body); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("reading %s timed out after %v: %w", url, f.timeout, core.ErrFetchFailed)
		}
		return fmt.Errorf("reading %s: %w: %w", url, core.ErrFetchFailed, err)
	}
	return nil
}

// Digest returns the hex BLAKE3 digest of the file at path. It identifies
// a fetched package in reports and plays no part in trust decisions.
func Digest(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s for hashing: %w", path, err)
	}
	defer file.Close()

	hasher := blake3.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
