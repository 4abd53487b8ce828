package list

// Status describes how an installed extension relates to its declaration.
type Status string

const (
	StatusCurrent    Status = "current"
	StatusOutdated   Status = "outdated"
	StatusMissing    Status = "missing"
	StatusUndeclared Status = "undeclared"
)

// Item is one row of the inventory.
type Item struct {
	ID               string
	Name             string
	DeclaredVersion  string
	InstalledVersion string
	Status           Status
}

// OutputFormat controls how the inventory is displayed.
type OutputFormat string

const (
	// FormatText outputs human-readable text.
	FormatText OutputFormat = "text"

	// FormatJSON outputs machine-readable JSON.
	FormatJSON OutputFormat = "json"

	// FormatTable outputs tabular data.
	FormatTable OutputFormat = "table"
)

// ParseOutputFormat converts a string to OutputFormat.
func ParseOutputFormat(s string) OutputFormat {
	switch s {
	case "json":
		return FormatJSON
	case "table":
		return FormatTable
	default:
		return FormatText
	}
}
