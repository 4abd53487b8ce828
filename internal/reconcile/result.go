package reconcile

import "github.com/indaco/crxsync/internal/core"

// State is the outcome of one extension within a pass.
type State string

const (
	StateChecking State = "checking"
	StateSkipped  State = "skipped"
	StateUpdated  State = "updated"
	StateFailed   State = "failed"
	StateRemoved  State = "removed"
	StatePlanned  State = "planned" // dry run only
)

// Entry is one line of the pass report.
type Entry struct {
	ID      string
	Name    string
	Version string
	State   State
	Removal bool // entry belongs to the removal pass
	Kind    core.Kind
	Err     error
	Format  string // package container format, when updated
	Digest  string // BLAKE3 digest of the fetched package, when updated
}

// Result aggregates the outcome of one pass.
type Result struct {
	TotalDeclared int
	Updated       int
	Removed       int
	Skipped       int
	Failed        int
	Planned       int
	Entries       []Entry
}

// Changed reports whether the pass installed, replaced or removed at
// least one extension, which is the only case that calls for a restart
// of the hosting container.
func (r *Result) Changed() bool {
	return r.Updated > 0 || r.Removed > 0
}

// Failures returns the failed entries in report order.
func (r *Result) Failures() []Entry {
	var out []Entry
	for _, e := range r.Entries {
		if e.State == StateFailed {
			out = append(out, e)
		}
	}
	return out
}

func (r *Result) add(e Entry) {
	switch e.State {
	case StateSkipped:
		r.Skipped++
	case StateUpdated:
		r.Updated++
	case StateRemoved:
		r.Removed++
	case StateFailed:
		r.Failed++
	case StatePlanned:
		r.Planned++
	}
	r.Entries = append(r.Entries, e)
}
