package list

import (
	"path/filepath"

	"github.com/indaco/crxsync/internal/config"
	"github.com/indaco/crxsync/internal/declared"
	"github.com/indaco/crxsync/internal/launchargs"
	"github.com/indaco/crxsync/internal/versionmark"
)

// BuildInventory compares the declared set with the extensions root.
// Declared extensions come first in id order, followed by undeclared
// directories.
func BuildInventory(cfg *config.Config) ([]Item, error) {
	decls, err := declared.Load(cfg.DeclarationsPath(), cfg.ReservedNames()...)
	if err != nil {
		return nil, err
	}
	installed, err := launchargs.Collect(cfg.ExtensionsDir, cfg.ReservedNames()...)
	if err != nil {
		return nil, err
	}

	present := make(map[string]bool, len(installed))
	for _, name := range installed {
		present[name] = true
	}

	items := make([]Item, 0, len(decls)+len(installed))
	declaredIDs := make(map[string]bool, len(decls))
	for _, d := range decls {
		declaredIDs[d.ID] = true
		dir := filepath.Join(cfg.ExtensionsDir, d.ID)
		item := Item{ID: d.ID, Name: d.Name, DeclaredVersion: d.Version}
		if recorded, ok, _ := versionmark.Read(dir); ok {
			item.InstalledVersion = recorded
		}
		switch {
		case !present[d.ID]:
			item.Status = StatusMissing
		case versionmark.NeedsUpdate(d.Version, dir):
			item.Status = StatusOutdated
		default:
			item.Status = StatusCurrent
		}
		items = append(items, item)
	}

	for _, name := range installed {
		if declaredIDs[name] {
			continue
		}
		item := Item{ID: name, Name: name, Status: StatusUndeclared}
		if recorded, ok, _ := versionmark.Read(filepath.Join(cfg.ExtensionsDir, name)); ok {
			item.InstalledVersion = recorded
		}
		items = append(items, item)
	}
	return items, nil
}

func countByStatus(items []Item) map[Status]int {
	counts := make(map[Status]int)
	for _, it := range items {
		counts[it.Status]++
	}
	return counts
}
