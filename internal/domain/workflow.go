package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"gooze.dev/pkg/regroup/internal/adapter"
	"gooze.dev/pkg/regroup/internal/controller"
	m "gooze.dev/pkg/regroup/internal/model"
)

var (
	// ErrDriftDetected is returned by a check run when any file would change.
	ErrDriftDetected = errors.New("classification drift detected")
	// ErrModifiedDuringRun is returned when a file changed on disk between
	// reading and writing it.
	ErrModifiedDuringRun = errors.New("file modified since it was read")
	// ErrNoPaths is returned when no target file is given.
	ErrNoPaths = errors.New("no target files given")
)

// ApplyArgs contains the arguments for applying a mapping table.
type ApplyArgs struct {
	Paths    []m.Path
	Mapping  m.Path // empty selects the built-in table
	Fields   m.FieldNames
	DryRun   bool
	Check    bool
	Strict   bool
	Confirm  bool
	Parallel int
}

// ListArgs contains the arguments for listing the entries of a file.
type ListArgs struct {
	Path    m.Path
	Mapping m.Path
	Fields  m.FieldNames
}

// SnapshotArgs contains the arguments for exporting a file's current
// classification as a mapping table.
type SnapshotArgs struct {
	Path   m.Path
	Output m.Path
	Fields m.FieldNames
}

// Workflow defines the operations exposed to the command line.
type Workflow interface {
	Apply(ctx context.Context, args ApplyArgs) ([]m.FileReport, error)
	List(ctx context.Context, args ListArgs) error
	Snapshot(ctx context.Context, args SnapshotArgs) (m.MappingTable, error)
}

type workflow struct {
	adapter.SourceFSAdapter
	adapter.MappingStore
	controller.UI
}

// NewWorkflow creates a new Workflow instance.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	mappingStore adapter.MappingStore,
	ui controller.UI,
) Workflow {
	return &workflow{
		SourceFSAdapter: fsAdapter,
		MappingStore:    mappingStore,
		UI:              ui,
	}
}

// Apply patches every file with the mapping table. Files are processed
// concurrently up to args.Parallel; each file is patched sequentially by a
// single goroutine.
func (w *workflow) Apply(ctx context.Context, args ApplyArgs) ([]m.FileReport, error) {
	paths := dedupePaths(args.Paths)
	if len(paths) == 0 {
		return nil, ErrNoPaths
	}

	table, err := w.loadMapping(args.Mapping)
	if err != nil {
		return nil, err
	}

	patcher := NewPatcher(resolveFieldNames(args.Fields), WithStrict(args.Strict))
	reports := make([]m.FileReport, len(paths))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(max(1, args.Parallel))

	for i, path := range paths {
		i, path := i, path

		group.Go(func() error {
			report, err := w.applyFile(groupCtx, patcher, table, path, args)
			reports[i] = report

			return err
		})
	}

	if err := group.Wait(); err != nil {
		return reports, err
	}

	if args.Check {
		drifted := 0

		for _, r := range reports {
			if r.Changed() {
				drifted++
			}
		}

		if drifted > 0 {
			return reports, fmt.Errorf("%w in %d file(s)", ErrDriftDetected, drifted)
		}
	}

	return reports, nil
}

func (w *workflow) applyFile(ctx context.Context, patcher *Patcher, table m.MappingTable, path m.Path, args ApplyArgs) (m.FileReport, error) {
	report := m.FileReport{Path: path}

	if err := ctx.Err(); err != nil {
		return report, err
	}

	original, hash, err := w.readSource(path)
	if err != nil {
		return report, err
	}

	slog.Info("patching file", "path", path, "mappings", len(table))

	updated, entries := patcher.Apply(original, table)
	report.Original = original
	report.Updated = updated
	report.Entries = entries

	slog.Info("patched file",
		"path", path,
		"patched", report.Count(m.Patched),
		"unchanged", report.Count(m.Unchanged),
		"missing", report.Count(m.Missing),
		"conflicts", report.Count(m.Conflict),
	)

	if args.DryRun || args.Check {
		if err := w.DisplayFileReport(ctx, report); err != nil {
			return report, err
		}

		if args.DryRun {
			return report, w.DisplayDiff(ctx, report)
		}

		return report, nil
	}

	if !report.Changed() {
		w.DisplayCompletion(ctx, report)
		return report, nil
	}

	if args.Confirm {
		ok, err := w.Confirm(ctx, report)
		if err != nil {
			return report, err
		}

		if !ok {
			slog.Info("changes declined", "path", path)
			return report, nil
		}
	}

	current, err := w.HashFile(path)
	if err != nil {
		return report, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if current != hash {
		return report, fmt.Errorf("%s: %w", path, ErrModifiedDuringRun)
	}

	if err := w.WriteFile(path, updated); err != nil {
		return report, fmt.Errorf("failed to write %s: %w", path, err)
	}

	report.Written = true
	w.DisplayCompletion(ctx, report)

	return report, nil
}

// List shows each entry of a file next to its mapped classification.
func (w *workflow) List(ctx context.Context, args ListArgs) error {
	if args.Path == "" {
		return ErrNoPaths
	}

	table, err := w.loadMapping(args.Mapping)
	if err != nil {
		return err
	}

	doc, _, err := w.readSource(args.Path)
	if err != nil {
		return err
	}

	entries := NewPatcher(resolveFieldNames(args.Fields)).Scan(doc)

	return w.DisplayEntries(ctx, args.Path, entries, table)
}

// Snapshot exports the classification currently held by a file. Entries
// without a group are skipped; only the first declaration of an identifier
// is kept.
func (w *workflow) Snapshot(ctx context.Context, args SnapshotArgs) (m.MappingTable, error) {
	if args.Path == "" {
		return nil, ErrNoPaths
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, _, err := w.readSource(args.Path)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	table := make(m.MappingTable, 0)

	for _, e := range NewPatcher(resolveFieldNames(args.Fields)).Scan(doc) {
		if _, dup := seen[e.ID]; dup {
			continue
		}

		seen[e.ID] = struct{}{}

		if e.Classification.Group == "" {
			slog.Warn("entry has no group, not exported", "id", e.ID)
			continue
		}

		table = append(table, m.MappingEntry{ID: e.ID, Classification: e.Classification})
	}

	if args.Output != "" {
		if err := w.Save(args.Output, table); err != nil {
			return nil, fmt.Errorf("failed to write mapping %s: %w", args.Output, err)
		}
	}

	return table, nil
}

// readSource returns the file content and the hash of exactly those bytes.
func (w *workflow) readSource(path m.Path) (string, string, error) {
	info, err := w.FileInfo(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	if info.IsDir() {
		return "", "", fmt.Errorf("failed to read %s: is a directory", path)
	}

	content, err := w.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	return content, adapter.HashContent(content), nil
}

func (w *workflow) loadMapping(path m.Path) (m.MappingTable, error) {
	if path == "" {
		slog.Debug("using built-in mapping table")
		return w.Default()
	}

	slog.Debug("loading mapping table", "path", path)

	return w.Load(path)
}

func resolveFieldNames(fields m.FieldNames) m.FieldNames {
	defaults := m.DefaultFieldNames()

	if fields.ID == "" {
		fields.ID = defaults.ID
	}

	if fields.Group == "" {
		fields.Group = defaults.Group
	}

	if fields.SubGroup == "" {
		fields.SubGroup = defaults.SubGroup
	}

	return fields
}

func dedupePaths(paths []m.Path) []m.Path {
	seen := make(map[string]struct{}, len(paths))
	result := make([]m.Path, 0, len(paths))

	for _, p := range paths {
		key := filepath.Clean(string(p))
		if abs, err := filepath.Abs(key); err == nil {
			key = abs
		}

		if _, ok := seen[key]; ok {
			continue
		}

		seen[key] = struct{}{}
		result = append(result, p)
	}

	return result
}
