package declared

// Extension is one declared extension.
type Extension struct {
	ID      string
	Name    string
	Version string // empty when the declaration carries no version
	URL     string
}

// Entry is the on-disk shape of a declaration.
type Entry struct {
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`
	URL     string `json:"url"`
}

// Document is the on-disk shape of a declarations file.
type Document struct {
	Extensions map[string]Entry `json:"extensions"`
}

// Format identifies the encoding of a declarations file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)
