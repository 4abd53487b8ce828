package core

import "errors"

// Sentinel errors for the failure kinds a reconciliation pass can report.
// Components wrap these so callers can classify with errors.Is.
var (
	ErrConfigUnavailable    = errors.New("declared extensions unavailable")
	ErrFetchFailed          = errors.New("fetch failed")
	ErrInvalidPackageFormat = errors.New("invalid package format")
	ErrExtractionFailed     = errors.New("extraction failed")
	ErrRemovalFailed        = errors.New("removal failed")
)

// Kind names a failure category in report entries.
type Kind string

const (
	KindNone                 Kind = ""
	KindConfigUnavailable    Kind = "ConfigUnavailable"
	KindFetchFailed          Kind = "FetchFailed"
	KindInvalidPackageFormat Kind = "InvalidPackageFormat"
	KindExtractionFailed     Kind = "ExtractionFailed"
	KindRemovalFailed        Kind = "RemovalFailed"
)

// KindOf maps err to its failure kind. Errors that wrap none of the
// sentinels are reported as extraction failures, since every other
// per-extension step after the fetch writes to the extension directory.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrConfigUnavailable):
		return KindConfigUnavailable
	case errors.Is(err, ErrFetchFailed):
		return KindFetchFailed
	case errors.Is(err, ErrInvalidPackageFormat):
		return KindInvalidPackageFormat
	case errors.Is(err, ErrRemovalFailed):
		return KindRemovalFailed
	default:
		return KindExtractionFailed
	}
}
