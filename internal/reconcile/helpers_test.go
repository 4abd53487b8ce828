package reconcile

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/indaco/crxsync/internal/declared"
	"github.com/klauspost/compress/zip"
)

// buildCRX returns a version 2 signed archive wrapping files.
func buildCRX(t *testing.T, magic string, files map[string]string) []byte {
	t.Helper()
	var payload bytes.Buffer
	zw := zip.NewWriter(&payload)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	key := []byte("public-key-bytes")
	sig := []byte("signature-bytes")
	var buf bytes.Buffer
	buf.WriteString(magic)
	_ = binary.Write(&buf, binary.LittleEndian, uint32(2))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(key)))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(sig)))
	buf.Write(key)
	buf.Write(sig)
	buf.Write(payload.Bytes())
	return buf.Bytes()
}

// packageServer serves fixed package bytes per URL and counts fetches.
type packageServer struct {
	packages map[string][]byte
	errs     map[string]error
	calls    []string
}

func (s *packageServer) Fetch(ctx context.Context, url, destPath string) error {
	s.calls = append(s.calls, url)
	if err := s.errs[url]; err != nil {
		return err
	}
	return os.WriteFile(destPath, s.packages[url], 0o644)
}

func staticSource(exts ...declared.Extension) *MockSource {
	return &MockSource{LoadFunc: func() ([]declared.Extension, error) {
		return exts, nil
	}}
}

func installExtension(t *testing.T, root, id, version string, files map[string]string) {
	t.Helper()
	dir := filepath.Join(root, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if version != "" {
		if err := os.WriteFile(filepath.Join(dir, ".version"), []byte(version), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func listDirs(t *testing.T, root string) []string {
	t.Helper()
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}
