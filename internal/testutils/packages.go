package testutils

import (
	"bytes"
	"encoding/binary"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/klauspost/compress/zip"
)

// BuildCRX returns a version 2 signed archive holding files.
func BuildCRX(t *testing.T, files map[string]string) []byte {
	t.Helper()

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var payload bytes.Buffer
	zw := zip.NewWriter(&payload)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(files[name])); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	key := []byte("test-public-key")
	sig := []byte("test-signature")
	var buf bytes.Buffer
	buf.WriteString("Cr24")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(2))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(key)))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(sig)))
	buf.Write(key)
	buf.Write(sig)
	buf.Write(payload.Bytes())
	return buf.Bytes()
}

// PackageServer serves packages by path and counts requests.
type PackageServer struct {
	*httptest.Server

	mu       sync.Mutex
	packages map[string][]byte
	hits     map[string]int
}

// NewPackageServer starts a server that serves packages keyed by URL path.
// Unknown paths answer 404. The server is closed when the test ends.
func NewPackageServer(t *testing.T, packages map[string][]byte) *PackageServer {
	t.Helper()
	ps := &PackageServer{packages: packages, hits: make(map[string]int)}
	ps.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ps.mu.Lock()
		ps.hits[r.URL.Path]++
		data, ok := ps.packages[r.URL.Path]
		ps.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/x-chrome-extension")
		_, _ = w.Write(data)
	}))
	t.Cleanup(ps.Close)
	return ps
}

// URLFor returns the absolute URL of a package path.
func (ps *PackageServer) URLFor(path string) string {
	return ps.URL + "/" + strings.TrimPrefix(path, "/")
}

// Hits returns how many times path was requested.
func (ps *PackageServer) Hits(path string) int {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.hits["/"+strings.TrimPrefix(path, "/")]
}
