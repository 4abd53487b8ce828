// Package reconcile brings the extensions root in line with the declared
// extension set: missing or outdated extensions are fetched and unpacked,
// undeclared ones are removed.
//
// Extensions are processed one at a time in ascending id order. A failure
// is local to its extension and never aborts the pass; only a declared
// set that cannot be loaded is fatal.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/indaco/crxsync/internal/core"
	"github.com/indaco/crxsync/internal/crx"
	"github.com/indaco/crxsync/internal/declared"
	"github.com/indaco/crxsync/internal/fetcher"
	"github.com/indaco/crxsync/internal/versionmark"
)

// EventKind tags progress notifications.
type EventKind int

const (
	EventChecking EventKind = iota
	EventFetching
	EventUnpacking
	EventDone
)

// Event is emitted as each extension moves through the pass. Entry holds
// the state known at the time of the event.
type Event struct {
	Kind  EventKind
	Entry Entry
}

// Reconciler runs reconciliation passes over one extensions root.
type Reconciler struct {
	root     string
	scratch  string
	reserved []string
	source   Source
	fetcher  Fetcher
	unpacker Unpacker
	tracker  Tracker
	dryRun   bool
	onEvent  func(Event)

	digest    func(path string) (string, error)
	removeAll func(path string) error
	mkdirAll  func(path string, perm os.FileMode) error
	lstat     func(name string) (os.FileInfo, error)
	readDir   func(name string) ([]os.DirEntry, error)
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithScratchDir sets the reserved scratch directory name under the root.
func WithScratchDir(name string) Option {
	return func(r *Reconciler) {
		if name != "" {
			r.scratch = name
		}
	}
}

// WithReservedNames protects top-level names under the root that are not
// extensions, such as the directory holding the declarations file, from
// the removal pass.
func WithReservedNames(names ...string) Option {
	return func(r *Reconciler) { r.reserved = append(r.reserved, names...) }
}

// WithFetcher replaces the package fetcher.
func WithFetcher(f Fetcher) Option {
	return func(r *Reconciler) { r.fetcher = f }
}

// WithUnpacker replaces the package unpacker.
func WithUnpacker(u Unpacker) Option {
	return func(r *Reconciler) { r.unpacker = u }
}

// WithTracker replaces the version tracker.
func WithTracker(t Tracker) Option {
	return func(r *Reconciler) { r.tracker = t }
}

// WithDryRun reports planned work without touching disk or network.
func WithDryRun(dryRun bool) Option {
	return func(r *Reconciler) { r.dryRun = dryRun }
}

// WithEventHandler registers a progress callback.
func WithEventHandler(fn func(Event)) Option {
	return func(r *Reconciler) { r.onEvent = fn }
}

// New creates a Reconciler for root reading declarations from source.
func New(root string, source Source, opts ...Option) *Reconciler {
	r := &Reconciler{
		root:      root,
		scratch:   core.DefaultScratchDir,
		source:    source,
		fetcher:   fetcher.New(),
		unpacker:  crx.NewUnpacker(),
		tracker:   versionmark.Tracker{},
		digest:    fetcher.Digest,
		removeAll: os.RemoveAll,
		mkdirAll:  os.MkdirAll,
		lstat:     os.Lstat,
		readDir:   os.ReadDir,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run performs one reconciliation pass. The returned error is non-nil
// when the declared set could not be loaded, in which case nothing on
// disk has been touched, or when ctx is done. A cancelled pass stops
// before the next extension, skips the removal pass and returns the
// entries finished so far.
func (r *Reconciler) Run(ctx context.Context) (*Result, error) {
	decls, err := r.source.Load()
	if err != nil {
		if !errors.Is(err, core.ErrConfigUnavailable) {
			err = fmt.Errorf("%w: %w", core.ErrConfigUnavailable, err)
		}
		return nil, err
	}

	res := &Result{TotalDeclared: len(decls)}
	if !r.dryRun {
		if err := r.mkdirAll(r.root, core.PermDir); err != nil {
			return nil, fmt.Errorf("failed to create extensions root %q: %w", r.root, err)
		}
		defer func() { _ = r.removeAll(r.scratchRoot()) }()
	}

	declaredIDs := make(map[string]struct{}, len(decls))
	for _, d := range decls {
		declaredIDs[d.ID] = struct{}{}
	}
	for _, d := range decls {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		entry := r.reconcileOne(ctx, d)
		res.add(entry)
		r.emit(EventDone, entry)
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	r.removeUndeclared(declaredIDs, res)
	return res, nil
}

func (r *Reconciler) reconcileOne(ctx context.Context, d declared.Extension) Entry {
	dest := filepath.Join(r.root, d.ID)
	entry := Entry{ID: d.ID, Name: d.Name, Version: d.Version, State: StateChecking}
	r.emit(EventChecking, entry)

	// A file squatting on the extension path is never replaced.
	if fi, err := r.lstat(dest); err == nil && !fi.IsDir() {
		return failed(entry, fmt.Errorf("%w: %q exists and is not an extension directory", core.ErrExtractionFailed, dest))
	}
	if !r.tracker.NeedsUpdate(d.Version, dest) {
		entry.State = StateSkipped
		return entry
	}
	if r.dryRun {
		entry.State = StatePlanned
		return entry
	}

	scratchDir, err := r.newScratchDir(d.ID)
	if err != nil {
		return failed(entry, fmt.Errorf("%w: %w", core.ErrFetchFailed, err))
	}
	defer func() { _ = r.removeAll(scratchDir) }()

	pkg := filepath.Join(scratchDir, d.ID+".crx")
	r.emit(EventFetching, entry)
	if err := r.fetcher.Fetch(ctx, d.URL, pkg); err != nil {
		// The installed copy, if any, is left exactly as it was.
		if !errors.Is(err, core.ErrFetchFailed) {
			err = fmt.Errorf("%w: %w", core.ErrFetchFailed, err)
		}
		return failed(entry, err)
	}
	if sum, err := r.digest(pkg); err == nil {
		entry.Digest = sum
	}

	r.emit(EventUnpacking, entry)
	hdr, err := r.unpacker.Unpack(pkg, dest)
	if err != nil {
		// Never leave a half-extracted tree behind. The previous version
		// is not restored; the extension stays absent until a later pass
		// succeeds.
		_ = r.removeAll(dest)
		return failed(entry, err)
	}
	if hdr != nil {
		entry.Format = hdr.Format.String()
	}

	if err := r.tracker.Record(dest, d.Version); err != nil {
		_ = r.removeAll(dest)
		return failed(entry, fmt.Errorf("%w: %w", core.ErrExtractionFailed, err))
	}

	entry.State = StateUpdated
	return entry
}

// removeUndeclared deletes every extension directory whose name is not
// declared. Non-directories, hidden entries, reserved names and the
// scratch directory are ignored.
func (r *Reconciler) removeUndeclared(declaredIDs map[string]struct{}, res *Result) {
	entries, err := r.readDir(r.root)
	if err != nil {
		if os.IsNotExist(err) {
			return
		}
		res.add(failed(Entry{ID: r.root, Removal: true}, fmt.Errorf("%w: listing %q: %w", core.ErrRemovalFailed, r.root, err)))
		return
	}

	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() || name == r.scratch || slices.Contains(r.reserved, name) || strings.HasPrefix(name, ".") {
			continue
		}
		if _, ok := declaredIDs[name]; ok {
			continue
		}

		entry := Entry{ID: name, Name: name, Removal: true}
		if recorded, ok, _ := versionmark.Read(filepath.Join(r.root, name)); ok {
			entry.Version = recorded
		}

		if r.dryRun {
			entry.State = StatePlanned
		} else if err := r.removeAll(filepath.Join(r.root, name)); err != nil {
			entry = failed(entry, fmt.Errorf("%w: %q: %w", core.ErrRemovalFailed, name, err))
		} else {
			entry.State = StateRemoved
		}
		res.add(entry)
		r.emit(EventDone, entry)
	}
}

func (r *Reconciler) scratchRoot() string {
	return filepath.Join(r.root, r.scratch)
}

func (r *Reconciler) newScratchDir(id string) (string, error) {
	if err := r.mkdirAll(r.scratchRoot(), core.PermDir); err != nil {
		return "", fmt.Errorf("failed to create scratch directory: %w", err)
	}
	dir, err := os.MkdirTemp(r.scratchRoot(), id+"-*")
	if err != nil {
		return "", fmt.Errorf("failed to create scratch directory: %w", err)
	}
	return dir, nil
}

func (r *Reconciler) emit(kind EventKind, entry Entry) {
	if r.onEvent != nil {
		r.onEvent(Event{Kind: kind, Entry: entry})
	}
}

func failed(entry Entry, err error) Entry {
	entry.State = StateFailed
	entry.Err = err
	entry.Kind = core.KindOf(err)
	return entry
}
