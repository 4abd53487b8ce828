package crx

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/indaco/crxsync/internal/core"
	"github.com/klauspost/compress/zip"
)

// Unpacker extracts packages into extension directories.
type Unpacker struct {
	removeAll func(path string) error
	mkdirAll  func(path string, perm os.FileMode) error
	openFile  func(name string, flag int, perm os.FileMode) (*os.File, error)
	copyFn    func(dst io.Writer, src io.Reader) (int64, error)
}

// NewUnpacker creates an Unpacker backed by the OS file system.
func NewUnpacker() *Unpacker {
	return &Unpacker{
		removeAll: os.RemoveAll,
		mkdirAll:  os.MkdirAll,
		openFile:  os.OpenFile,
		copyFn:    io.Copy,
	}
}

// Unpack extracts the package at pkgPath into destDir and returns the
// parsed header.
//
// The format is detected and the embedded zip opened before destDir is
// touched, so an unrecognized or unreadable package leaves no directory
// behind. Once extraction starts, destDir is removed in full and rebuilt;
// on a failure after that point the partial tree is left for the caller.
func (u *Unpacker) Unpack(pkgPath, destDir string) (*Header, error) {
	f, err := os.Open(pkgPath)
	if err != nil {
		return nil, fmt.Errorf("opening package %q: %w: %w", pkgPath, core.ErrExtractionFailed, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat package %q: %w: %w", pkgPath, core.ErrExtractionFailed, err)
	}

	hdr, err := ParseHeader(f, info.Size())
	if err != nil {
		return nil, err
	}

	payload := io.NewSectionReader(f, hdr.PayloadOffset, info.Size()-hdr.PayloadOffset)
	zr, err := zip.NewReader(payload, payload.Size())
	if err != nil {
		return nil, fmt.Errorf("reading %s archive %q: %w: %w", hdr.Format, pkgPath, core.ErrExtractionFailed, err)
	}

	if err := u.removeAll(destDir); err != nil {
		return nil, fmt.Errorf("clearing %q: %w: %w", destDir, core.ErrExtractionFailed, err)
	}
	if err := u.mkdirAll(destDir, core.PermDir); err != nil {
		return nil, &EntryError{Entry: ".", Path: destDir, Op: "mkdir", Err: err}
	}

	for _, entry := range zr.File {
		if err := u.extractEntry(entry, destDir); err != nil {
			return nil, err
		}
	}
	return hdr, nil
}

func (u *Unpacker) extractEntry(entry *zip.File, destDir string) error {
	rel := filepath.FromSlash(entry.Name)
	if !filepath.IsLocal(rel) {
		return &UnsafePathError{Entry: entry.Name}
	}
	target := filepath.Join(destDir, rel)

	mode := entry.Mode()
	if mode.IsDir() {
		if err := u.mkdirAll(target, core.PermDir); err != nil {
			return &EntryError{Entry: entry.Name, Path: target, Op: "mkdir", Err: err}
		}
		return nil
	}
	if !mode.IsRegular() {
		// Symlinks and device entries have no place in an extension.
		return nil
	}

	if err := u.mkdirAll(filepath.Dir(target), core.PermDir); err != nil {
		return &EntryError{Entry: entry.Name, Path: target, Op: "mkdir", Err: err}
	}

	in, err := entry.Open()
	if err != nil {
		return &EntryError{Entry: entry.Name, Path: target, Op: "open", Err: err}
	}
	defer in.Close()

	perm := mode.Perm() | 0o600
	if mode.Perm() == 0 {
		perm = core.PermExtracted
	}
	out, err := u.openFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return &EntryError{Entry: entry.Name, Path: target, Op: "create", Err: err}
	}

	if _, err := u.copyFn(out, in); err != nil {
		_ = out.Close()
		return &EntryError{Entry: entry.Name, Path: target, Op: "write", Err: err}
	}
	if err := out.Close(); err != nil {
		return &EntryError{Entry: entry.Name, Path: target, Op: "write", Err: err}
	}
	return nil
}
