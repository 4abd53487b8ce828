package core

import (
	"os"
	"time"
)

// FileMode aliases os.FileMode so callers outside this package do not
// need to import os just to pass a permission value around.
type FileMode = os.FileMode

// File permission constants used across the codebase.
const (
	PermOwnerRW   FileMode = 0o600
	PermFile      FileMode = 0o644
	PermDir       FileMode = 0o755
	PermExtracted FileMode = 0o644
)

// Timeouts for blocking operations.
const (
	TimeoutFetch   = 5 * time.Minute
	TimeoutRestart = 2 * time.Minute
	TimeoutShort   = 10 * time.Second
)

// Well-known names inside the extensions root.
const (
	DefaultScratchDir   = "temp"
	DefaultDeclarations = "extensions_config.json"
	DefaultArgsFile     = "chrome_args.txt"
	DefaultMountPrefix  = "/config/extensions"
	DefaultConfigFile   = ".crxsync.yaml"
	VersionMarkerFile   = ".version"
	UnknownVersion      = "unknown"
)
