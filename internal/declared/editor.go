package declared

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/indaco/crxsync/internal/core"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const emptyDocument = "{\n    \"extensions\": {}\n}\n"

// ErrNotFound is returned by Remove when the id is not declared.
var ErrNotFound = errors.New("not found in configuration")

// Init writes an empty declarations document at path unless a file
// already exists there. It reports whether a file was created.
func Init(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to stat %q: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(emptyDocument), core.PermFile); err != nil {
		return false, fmt.Errorf("failed to create declarations %q: %w", path, err)
	}
	return true, nil
}

// Add declares ext in the JSON file at path, leaving the rest of the
// document untouched. Adding an id that is already declared is an error
// unless replace is set. Ids listed in reserved are rejected the same way
// Load rejects them.
func Add(path string, ext Extension, replace bool, reserved ...string) error {
	data, err := readEditable(path)
	if err != nil {
		return err
	}

	key := entryPath(ext.ID)
	if gjson.GetBytes(data, key).Exists() && !replace {
		return fmt.Errorf("extension %q already declared in %q", ext.ID, path)
	}

	entry, err := json.Marshal(Entry{Name: ext.Name, Version: ext.Version, URL: ext.URL})
	if err != nil {
		return fmt.Errorf("failed to encode extension %q: %w", ext.ID, err)
	}
	if !gjson.GetBytes(data, "extensions").Exists() {
		if data, err = sjson.SetRawBytes(data, "extensions", []byte("{}")); err != nil {
			return fmt.Errorf("failed to add extensions section to %q: %w", path, err)
		}
	}
	updated, err := sjson.SetRawBytes(data, key, entry)
	if err != nil {
		return fmt.Errorf("failed to set extension %q in %q: %w", ext.ID, path, err)
	}

	// Validate before writing so a bad edit never reaches disk.
	if _, err := Parse(updated, FormatJSON, reserved...); err != nil {
		return fmt.Errorf("refusing to write %q: %w", path, err)
	}
	return writeEditable(path, updated)
}

// Remove deletes the declaration of id from the JSON file at path.
func Remove(path, id string) error {
	data, err := readEditable(path)
	if err != nil {
		return err
	}

	key := entryPath(id)
	if !gjson.GetBytes(data, key).Exists() {
		return fmt.Errorf("extension %q %w", id, ErrNotFound)
	}
	updated, err := sjson.DeleteBytes(data, key)
	if err != nil {
		return fmt.Errorf("failed to remove extension %q from %q: %w", id, path, err)
	}
	return writeEditable(path, updated)
}

func readEditable(path string) ([]byte, error) {
	if f := FormatOf(path); f != FormatJSON {
		return nil, fmt.Errorf("editing %s declarations is not supported, edit %q by hand", f, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read declarations %q: %w", path, err)
	}
	return data, nil
}

func writeEditable(path string, data []byte) error {
	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	if err := os.WriteFile(path, data, core.PermFile); err != nil {
		return fmt.Errorf("failed to write declarations %q: %w", path, err)
	}
	return nil
}

// entryPath builds the gjson/sjson path of an extension entry. Ids may
// contain dots, which are path separators in that syntax.
func entryPath(id string) string {
	return "extensions." + strings.ReplaceAll(id, ".", `\.`)
}
