package synchronize

import (
	"fmt"

	"github.com/indaco/crxsync/internal/printer"
	"github.com/indaco/crxsync/internal/reconcile"
	"github.com/indaco/crxsync/internal/tui"
)

const digestPrefixLen = 12

func printEvent(ev reconcile.Event) {
	e := ev.Entry
	switch ev.Kind {
	case reconcile.EventChecking:
		printer.PrintInfo(fmt.Sprintf("Checking %s...", label(e)))
	case reconcile.EventFetching:
		if !tui.IsInteractive() {
			printer.PrintFaint("  fetching package")
		}
	case reconcile.EventUnpacking:
		printer.PrintFaint("  unpacking package")
	case reconcile.EventDone:
		printDone(e)
	}
}

func printDone(e reconcile.Entry) {
	switch e.State {
	case reconcile.StateSkipped:
		printer.PrintFaint(fmt.Sprintf("  %s is up to date (%s)", e.ID, e.Version))
	case reconcile.StateUpdated:
		printer.PrintSuccess(fmt.Sprintf("  %s installed %s", e.ID, versionOrUnknown(e.Version)))
		if e.Digest != "" {
			printer.PrintFaint(fmt.Sprintf("  %s package, blake3 %s", e.Format, shortDigest(e.Digest)))
		}
	case reconcile.StateRemoved:
		printer.PrintSuccess(fmt.Sprintf("Removed %s", label(e)))
	case reconcile.StatePlanned:
		if e.Removal {
			printer.PrintWarning(fmt.Sprintf("Would remove %s", label(e)))
		} else {
			printer.PrintWarning(fmt.Sprintf("  would fetch %s %s", e.ID, versionOrUnknown(e.Version)))
		}
	case reconcile.StateFailed:
		prefix := "  "
		if e.Removal {
			prefix = ""
		}
		printer.PrintError(fmt.Sprintf("%s%s failed [%s]: %v", prefix, e.ID, e.Kind, e.Err))
	}
}

func printSummary(res *reconcile.Result, dryRun bool) {
	fmt.Println()
	if dryRun {
		printer.PrintBold("Dry run complete:")
	} else {
		printer.PrintBold("Sync complete:")
	}
	fmt.Printf("  declared: %d\n", res.TotalDeclared)
	fmt.Printf("  updated:  %d\n", res.Updated)
	fmt.Printf("  removed:  %d\n", res.Removed)
	fmt.Printf("  skipped:  %d\n", res.Skipped)
	if dryRun {
		fmt.Printf("  planned:  %d\n", res.Planned)
	}
	if res.Failed > 0 {
		printer.PrintError(fmt.Sprintf("  failed:   %d", res.Failed))
	} else {
		fmt.Printf("  failed:   %d\n", res.Failed)
	}
}

func label(e reconcile.Entry) string {
	if e.Name != "" && e.Name != e.ID {
		return fmt.Sprintf("%s (%s)", e.Name, e.ID)
	}
	return e.ID
}

func versionOrUnknown(v string) string {
	if v == "" {
		return "(no version declared)"
	}
	return v
}

func shortDigest(d string) string {
	if len(d) > digestPrefixLen {
		return d[:digestPrefixLen]
	}
	return d
}
