package crx

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/indaco/crxsync/internal/core"
	"github.com/klauspost/compress/zip"
)

var sampleFiles = map[string]string{
	"manifest.json":    `{"name":"sample","version":"2.0"}`,
	"js/background.js": "console.log('hi');",
	"icons/16.png":     "\x89PNG",
}

func TestUnpack_SignedRoundTrip(t *testing.T) {
	payload := buildZip(t, sampleFiles)
	// Key and signature bytes deliberately contain zip signatures and the
	// magic value to prove they are skipped unread.
	key := []byte("PK\x03\x04Cr24\x00\xff")
	sig := bytes.Repeat([]byte{0xde, 0xad, 'P', 'K', 0x05, 0x06}, 40)
	pkg := writePackage(t, buildCRX2(Magic, key, sig, payload))

	dest := filepath.Join(t.TempDir(), "ext1")
	hdr, err := NewUnpacker().Unpack(pkg, dest)
	if err != nil {
		t.Fatalf("Unpack() error: %v", err)
	}
	if hdr.Format != FormatSigned || hdr.Version != 2 {
		t.Errorf("unexpected header: %+v", hdr)
	}
	assertTree(t, dest, sampleFiles)
}

func TestUnpack_SignedVersion3(t *testing.T) {
	payload := buildZip(t, sampleFiles)
	pkg := writePackage(t, buildCRX3(bytes.Repeat([]byte{0x12}, 300), payload))

	dest := filepath.Join(t.TempDir(), "ext1")
	if _, err := NewUnpacker().Unpack(pkg, dest); err != nil {
		t.Fatalf("Unpack() error: %v", err)
	}
	assertTree(t, dest, sampleFiles)
}

func TestUnpack_PlainArchive(t *testing.T) {
	pkg := writePackage(t, buildZip(t, sampleFiles))

	dest := filepath.Join(t.TempDir(), "ext1")
	hdr, err := NewUnpacker().Unpack(pkg, dest)
	if err != nil {
		t.Fatalf("Unpack() error: %v", err)
	}
	if hdr.Format != FormatPlain {
		t.Errorf("Format = %v, want plain", hdr.Format)
	}
	assertTree(t, dest, sampleFiles)
}

func TestUnpack_InvalidMagicCreatesNothing(t *testing.T) {
	payload := buildZip(t, sampleFiles)
	pkg := writePackage(t, buildCRX2("Xr24", []byte("key"), []byte("sig"), payload))

	dest := filepath.Join(t.TempDir(), "ext1")
	_, err := NewUnpacker().Unpack(pkg, dest)
	if !errors.Is(err, core.ErrInvalidPackageFormat) {
		t.Fatalf("expected ErrInvalidPackageFormat, got %v", err)
	}
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Errorf("expected *FormatError, got %T", err)
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Errorf("destination should not exist, stat err = %v", statErr)
	}
}

func TestUnpack_CorruptArchiveCreatesNothing(t *testing.T) {
	pkg := writePackage(t, []byte("PK\x03\x04 this is not really a zip file"))

	dest := filepath.Join(t.TempDir(), "ext1")
	_, err := NewUnpacker().Unpack(pkg, dest)
	if !errors.Is(err, core.ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Errorf("destination should not exist, stat err = %v", statErr)
	}
}

func TestUnpack_FullReplace(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "ext1")
	if err := os.MkdirAll(filepath.Join(dest, "old"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dest, "old", "stale.js"), []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dest, "manifest.json"), []byte("old manifest"), 0o644); err != nil {
		t.Fatal(err)
	}

	pkg := writePackage(t, buildCRX2(Magic, nil, nil, buildZip(t, sampleFiles)))
	if _, err := NewUnpacker().Unpack(pkg, dest); err != nil {
		t.Fatalf("Unpack() error: %v", err)
	}
	assertTree(t, dest, sampleFiles)
}

func TestUnpack_RejectsEscapingEntries(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("../escape.txt")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = w.Write([]byte("nope"))
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	root := t.TempDir()
	dest := filepath.Join(root, "ext1")
	_, err = NewUnpacker().Unpack(writePackage(t, buf.Bytes()), dest)
	if !errors.Is(err, core.ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(root, "escape.txt")); !os.IsNotExist(statErr) {
		t.Error("entry escaped the destination directory")
	}
}

func TestUnpack_WriteFailure(t *testing.T) {
	pkg := writePackage(t, buildZip(t, sampleFiles))
	u := NewUnpacker()
	u.openFile = func(name string, flag int, perm os.FileMode) (*os.File, error) {
		return nil, errors.New("write: no space left on device")
	}

	_, err := u.Unpack(pkg, filepath.Join(t.TempDir(), "ext1"))
	if !errors.Is(err, core.ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
	var ee *EntryError
	if !errors.As(err, &ee) {
		t.Fatalf("expected *EntryError, got %T", err)
	}
	if ee.Op != "create" {
		t.Errorf("Op = %q, want create", ee.Op)
	}
}

func TestUnpack_MissingPackage(t *testing.T) {
	_, err := NewUnpacker().Unpack(filepath.Join(t.TempDir(), "missing.crx"), filepath.Join(t.TempDir(), "x"))
	if !errors.Is(err, core.ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
}

func TestEntryError_Messages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"permission", os.ErrPermission, "permission denied"},
		{"disk full", errors.New("no space left on device"), "no space left on device"},
		{"generic", errors.New("boom"), "failed to write"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &EntryError{Entry: "a.js", Path: "/x/a.js", Op: "write", Err: tt.err}
			if !bytes.Contains([]byte(e.Error()), []byte(tt.want)) {
				t.Errorf("Error() = %q, want substring %q", e.Error(), tt.want)
			}
			if !errors.Is(e, core.ErrExtractionFailed) {
				t.Error("EntryError should unwrap to ErrExtractionFailed")
			}
		})
	}
}
