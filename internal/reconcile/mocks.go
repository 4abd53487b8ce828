package reconcile

import (
	"context"
	"errors"

	"github.com/indaco/crxsync/internal/crx"
	"github.com/indaco/crxsync/internal/declared"
)

// MockSource is a mock implementation of Source for testing
type MockSource struct {
	LoadFunc func() ([]declared.Extension, error)
}

func (m *MockSource) Load() ([]declared.Extension, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc()
	}
	return nil, errors.New("load not implemented")
}

// MockFetcher is a mock implementation of Fetcher for testing
type MockFetcher struct {
	FetchFunc func(ctx context.Context, url, destPath string) error
}

func (m *MockFetcher) Fetch(ctx context.Context, url, destPath string) error {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, url, destPath)
	}
	return errors.New("fetch not implemented")
}

// MockUnpacker is a mock implementation of Unpacker for testing
type MockUnpacker struct {
	UnpackFunc func(pkgPath, destDir string) (*crx.Header, error)
}

func (m *MockUnpacker) Unpack(pkgPath, destDir string) (*crx.Header, error) {
	if m.UnpackFunc != nil {
		return m.UnpackFunc(pkgPath, destDir)
	}
	return nil, errors.New("unpack not implemented")
}

// MockTracker is a mock implementation of Tracker for testing
type MockTracker struct {
	NeedsUpdateFunc func(declared, extDir string) bool
	RecordFunc      func(extDir, version string) error
}

func (m *MockTracker) NeedsUpdate(declared, extDir string) bool {
	if m.NeedsUpdateFunc != nil {
		return m.NeedsUpdateFunc(declared, extDir)
	}
	return true
}

func (m *MockTracker) Record(extDir, version string) error {
	if m.RecordFunc != nil {
		return m.RecordFunc(extDir, version)
	}
	return nil
}
