package list

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/indaco/crxsync/internal/printer"
)

// Formatter handles display of the inventory.
type Formatter struct {
	format OutputFormat
}

// NewFormatter creates a new Formatter with the specified output format.
func NewFormatter(format OutputFormat) *Formatter {
	return &Formatter{format: format}
}

// Format renders items in the configured format.
func (f *Formatter) Format(items []Item) (string, error) {
	switch f.format {
	case FormatJSON:
		return f.formatJSON(items)
	case FormatTable:
		return f.formatTable(items), nil
	default:
		return f.formatText(items), nil
	}
}

func (f *Formatter) formatText(items []Item) string {
	var sb strings.Builder

	sb.WriteString(printer.Info("Extensions"))
	sb.WriteString("\n")
	sb.WriteString(printer.Faint(strings.Repeat("-", 60)))
	sb.WriteString("\n")

	if len(items) == 0 {
		sb.WriteString(printer.Faint("No extensions declared or installed."))
		sb.WriteString("\n")
	}
	for _, it := range items {
		fmt.Fprintf(&sb, "  %s %s %s\n", statusMark(it.Status), displayName(it), printer.Faint(describe(it)))
	}

	sb.WriteString(printer.Faint(strings.Repeat("-", 60)))
	sb.WriteString("\n")
	sb.WriteString(f.formatSummary(items))
	sb.WriteString("\n")
	return sb.String()
}

func (f *Formatter) formatTable(items []Item) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%-34s %-12s %-12s %-10s\n", "ID", "DECLARED", "INSTALLED", "STATUS")
	sb.WriteString(strings.Repeat("-", 71) + "\n")
	for _, it := range items {
		fmt.Fprintf(&sb, "%-34s %-12s %-12s %-10s\n", it.ID, orDash(it.DeclaredVersion), orDash(it.InstalledVersion), it.Status)
	}
	sb.WriteString("\n")
	sb.WriteString(f.formatSummary(items))
	sb.WriteString("\n")
	return sb.String()
}

func (f *Formatter) formatJSON(items []Item) (string, error) {
	type jsonItem struct {
		ID               string `json:"id"`
		Name             string `json:"name"`
		DeclaredVersion  string `json:"declared_version,omitempty"`
		InstalledVersion string `json:"installed_version,omitempty"`
		Status           Status `json:"status"`
	}

	output := struct {
		Extensions []jsonItem     `json:"extensions"`
		Summary    map[Status]int `json:"summary"`
	}{
		Extensions: make([]jsonItem, len(items)),
		Summary:    countByStatus(items),
	}
	for i, it := range items {
		output.Extensions[i] = jsonItem(it)
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to format inventory as JSON: %w", err)
	}
	return string(data) + "\n", nil
}

func (f *Formatter) formatSummary(items []Item) string {
	c := countByStatus(items)
	return fmt.Sprintf("%d current, %d outdated, %d missing, %d undeclared",
		c[StatusCurrent], c[StatusOutdated], c[StatusMissing], c[StatusUndeclared])
}

func statusMark(s Status) string {
	switch s {
	case StatusCurrent:
		return printer.Success("✓")
	case StatusOutdated, StatusMissing:
		return printer.Warning("⚠")
	default:
		return printer.Error("✗")
	}
}

func displayName(it Item) string {
	if it.Name != "" && it.Name != it.ID {
		return fmt.Sprintf("%s %s", printer.Bold(it.Name), printer.Faint(it.ID))
	}
	return printer.Bold(it.ID)
}

func describe(it Item) string {
	switch it.Status {
	case StatusCurrent:
		return fmt.Sprintf("(%s)", it.InstalledVersion)
	case StatusOutdated:
		return fmt.Sprintf("(installed %s, declared %s)", orDash(it.InstalledVersion), orDash(it.DeclaredVersion))
	case StatusMissing:
		return fmt.Sprintf("(not installed, declared %s)", orDash(it.DeclaredVersion))
	default:
		return fmt.Sprintf("(undeclared, removed on next sync, installed %s)", orDash(it.InstalledVersion))
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
