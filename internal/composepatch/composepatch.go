// Package composepatch splices a value into one assignment line of a
// compose file, leaving every other byte of the file untouched.
package composepatch

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/indaco/crxsync/internal/core"
)

// ErrKeyNotFound is returned when no line assigns the requested key.
var ErrKeyNotFound = errors.New("key not found")

// Patch sets key to value in the compose file at path. Both environment
// list entries ("- KEY=value") and mapping entries ("KEY: value") are
// recognised; indentation and quoting of the matched line are kept. The
// file is rewritten only when its content changes, and only if the
// result still parses as YAML. It reports whether the file was written.
func Patch(path, key, value string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read compose file %q: %w", path, err)
	}

	updated, found := replaceAssignment(string(data), key, value)
	if !found {
		return false, fmt.Errorf("%w: %q in %q", ErrKeyNotFound, key, path)
	}
	if updated == string(data) {
		return false, nil
	}

	var probe any
	if err := yaml.Unmarshal([]byte(updated), &probe); err != nil {
		return false, fmt.Errorf("patched compose file %q would not parse: %w", path, err)
	}

	info, err := os.Stat(path)
	perm := core.PermFile
	if err == nil {
		perm = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(updated), perm); err != nil {
		return false, fmt.Errorf("failed to write compose file %q: %w", path, err)
	}
	return true, nil
}

// replaceAssignment rewrites the first line of content that assigns key.
// It returns the updated content and true if such a line was found.
func replaceAssignment(content, key, value string) (string, bool) {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if replaced, ok := rewriteLine(line, key, value); ok {
			lines[i] = replaced
			return strings.Join(lines, "\n"), true
		}
	}
	return content, false
}

func rewriteLine(line, key, value string) (string, bool) {
	trimmed := strings.TrimLeft(line, " \t")
	indent := line[:len(line)-len(trimmed)]
	rest := strings.TrimRight(trimmed, "\r")
	eol := trimmed[len(rest):]

	// List entry: "- KEY=value", optionally quoted as a whole.
	if strings.HasPrefix(rest, "-") {
		item := strings.TrimLeft(rest[1:], " ")
		dash := rest[:len(rest)-len(item)]
		quote := leadingQuote(item)
		inner := item[len(quote):]
		if !strings.HasPrefix(inner, key+"=") {
			return line, false
		}
		return indent + dash + quote + key + "=" + value + quote + eol, true
	}

	// Mapping entry: "KEY: value", with the value optionally quoted.
	if !strings.HasPrefix(rest, key+":") {
		return line, false
	}
	current := strings.TrimSpace(rest[len(key)+1:])
	quote := leadingQuote(current)
	return indent + key + ": " + quote + value + quote + eol, true
}

func leadingQuote(s string) string {
	if strings.HasPrefix(s, `"`) || strings.HasPrefix(s, `'`) {
		return s[:1]
	}
	return ""
}

// HasKey reports whether the compose file at path assigns key.
func HasKey(path, key string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read compose file %q: %w", path, err)
	}
	_, found := replaceAssignment(string(data), key, "")
	return found, nil
}
