package declared

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/indaco/crxsync/internal/core"
	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/jsonc"
)

// FormatOf picks the declarations format from the file extension.
// Unknown extensions are read as JSON.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// Parse decodes and validates a declarations document. The returned
// extensions are sorted by id. Ids equal to any of the reserved names
// are rejected.
func Parse(data []byte, format Format, reserved ...string) ([]Extension, error) {
	canonical, err := toJSON(data, format)
	if err != nil {
		return nil, err
	}
	if err := validateJSON(canonical); err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(canonical, &doc); err != nil {
		return nil, fmt.Errorf("decoding declarations: %w", err)
	}

	exts := make([]Extension, 0, len(doc.Extensions))
	for id, entry := range doc.Extensions {
		for _, r := range reserved {
			if id == r {
				return nil, fmt.Errorf("extension id %q is reserved", id)
			}
		}
		name := entry.Name
		if name == "" {
			name = id
		}
		exts = append(exts, Extension{
			ID:      id,
			Name:    name,
			Version: entry.Version,
			URL:     entry.URL,
		})
	}
	sort.Slice(exts, func(i, j int) bool { return exts[i].ID < exts[j].ID })
	return exts, nil
}

// Load reads and parses the declarations file at path. Every failure
// wraps core.ErrConfigUnavailable.
func Load(path string, reserved ...string) ([]Extension, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read declarations %q: %w: %w", path, core.ErrConfigUnavailable, err)
	}
	exts, err := Parse(data, FormatOf(path), reserved...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", path, core.ErrConfigUnavailable, err)
	}
	return exts, nil
}

// toJSON converts a document in any supported format to canonical JSON.
func toJSON(data []byte, format Format) ([]byte, error) {
	var raw any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
			return nil, fmt.Errorf("parsing JSON: %w", err)
		}
		return json.Marshal(raw)
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing YAML: %w", err)
		}
	case FormatTOML:
		var table map[string]any
		if err := toml.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("parsing TOML: %w", err)
		}
		raw = table
	default:
		return nil, fmt.Errorf("unsupported declarations format: %s", format)
	}

	out, err := json.Marshal(normalize(raw))
	if err != nil {
		return nil, fmt.Errorf("converting to JSON: %w", err)
	}
	return out, nil
}

// normalize converts decoded YAML and TOML values into types that
// encoding/json can marshal. An unquoted numeric version is turned into
// its shortest decimal form, so "version: 2.0" declares "2".
func normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(val))
		for k, item := range val {
			m[k] = normalizeField(k, item)
		}
		return m
	case map[any]any:
		m := make(map[string]any, len(val))
		for k, item := range val {
			key := fmt.Sprint(k)
			m[key] = normalizeField(key, item)
		}
		return m
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	default:
		return val
	}
}

func normalizeField(key string, v any) any {
	if key != "version" {
		return normalize(v)
	}
	switch n := v.(type) {
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32)
	case int, int64, uint64, int32, uint32:
		return fmt.Sprint(n)
	default:
		return normalize(v)
	}
}

// FileSource loads declarations from a file on every call.
type FileSource struct {
	Path     string
	Reserved []string
}

// Load implements the reconciler's declaration source.
func (s *FileSource) Load() ([]Extension, error) {
	return Load(s.Path, s.Reserved...)
}
