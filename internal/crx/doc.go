// Package crx unpacks browser extension packages into an extension directory.
//
// Two container formats are accepted and told apart by their leading bytes:
//
//   - Signed archives start with the "Cr24" magic, followed by a little-endian
//     format version. Version 2 carries a public key length and a signature
//     length; version 3 carries a single header length. The key, signature and
//     header blocks are skipped unread and the remainder is a zip archive.
//   - Plain archives are zip files with no wrapping header.
//
// Signatures are never verified. Any other leading bytes are rejected with
// core.ErrInvalidPackageFormat before the destination directory is touched.
package crx
