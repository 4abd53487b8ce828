package crx

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/indaco/crxsync/internal/core"
)

// Magic is the leading value of a signed extension archive.
const Magic = "Cr24"

const (
	prefixSize   = 16
	headerV2Size = 16
	headerV3Size = 12
)

var (
	zipLocalFileSig = []byte("PK\x03\x04")
	zipEmptySig     = []byte("PK\x05\x06")
)

// Format identifies the container format of a package.
type Format int

const (
	FormatPlain Format = iota
	FormatSigned
)

// String returns the human-readable name of a format.
func (f Format) String() string {
	switch f {
	case FormatPlain:
		return "zip"
	case FormatSigned:
		return "crx"
	default:
		return fmt.Sprintf("unknown(%d)", int(f))
	}
}

// Header describes where the zip payload of a package begins.
type Header struct {
	Format        Format
	Version       uint32 // signed archives only
	PublicKeyLen  uint32 // version 2 only
	SignatureLen  uint32 // version 2 only
	HeaderLen     uint32 // version 3 only
	PayloadOffset int64
}

// FormatError reports a package whose leading bytes are not a supported
// container header.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %s", core.ErrInvalidPackageFormat, e.Reason)
}

func (e *FormatError) Unwrap() error {
	return core.ErrInvalidPackageFormat
}

// ParseHeader inspects the first bytes of a package of the given size and
// returns the location of its zip payload.
func ParseHeader(r io.ReaderAt, size int64) (*Header, error) {
	var prefix [prefixSize]byte
	n, err := r.ReadAt(prefix[:], 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading package header: %w: %w", core.ErrExtractionFailed, err)
	}
	if n < 4 {
		return nil, &FormatError{Reason: fmt.Sprintf("package is only %d bytes", n)}
	}

	lead := prefix[:4]
	switch {
	case bytes.Equal(lead, []byte(Magic)):
		return parseSigned(prefix[:n], size)
	case bytes.Equal(lead, zipLocalFileSig), bytes.Equal(lead, zipEmptySig):
		return &Header{Format: FormatPlain}, nil
	default:
		return nil, &FormatError{Reason: fmt.Sprintf("unrecognized magic %q", lead)}
	}
}

func parseSigned(prefix []byte, size int64) (*Header, error) {
	if len(prefix) < headerV3Size {
		return nil, &FormatError{Reason: "truncated signed archive header"}
	}

	h := &Header{
		Format:  FormatSigned,
		Version: binary.LittleEndian.Uint32(prefix[4:8]),
	}

	switch h.Version {
	case 2:
		if len(prefix) < headerV2Size {
			return nil, &FormatError{Reason: "truncated version 2 header"}
		}
		h.PublicKeyLen = binary.LittleEndian.Uint32(prefix[8:12])
		h.SignatureLen = binary.LittleEndian.Uint32(prefix[12:16])
		h.PayloadOffset = headerV2Size + int64(h.PublicKeyLen) + int64(h.SignatureLen)
	case 3:
		h.HeaderLen = binary.LittleEndian.Uint32(prefix[8:12])
		h.PayloadOffset = headerV3Size + int64(h.HeaderLen)
	default:
		return nil, &FormatError{Reason: fmt.Sprintf("unsupported signed archive version %d", h.Version)}
	}

	if h.PayloadOffset > size {
		return nil, &FormatError{Reason: fmt.Sprintf("header claims %d bytes but package has %d", h.PayloadOffset, size)}
	}
	return h, nil
}
