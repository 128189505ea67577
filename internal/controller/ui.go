// Package controller provides output adapters for displaying patch results.
package controller

import (
	"context"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	m "gooze.dev/pkg/regroup/internal/model"
)

// UI defines how the workflow reports progress and asks for confirmation.
// Implementations must be safe for use by several goroutines, one per file.
type UI interface {
	DisplayFileReport(ctx context.Context, report m.FileReport) error
	DisplayDiff(ctx context.Context, report m.FileReport) error
	DisplayEntries(ctx context.Context, path m.Path, entries []m.Entry, table m.MappingTable) error
	DisplayCompletion(ctx context.Context, report m.FileReport)
	Confirm(ctx context.Context, report m.FileReport) (bool, error)
}

// NewUI returns the interactive UI when running on a terminal and the plain
// text UI otherwise.
func NewUI(cmd *cobra.Command, isTTY bool) UI {
	simple := NewSimpleUI(cmd, isTTY)
	if isTTY {
		return NewTUI(simple)
	}

	return simple
}

// IsTTY reports whether f is attached to a terminal.
func IsTTY(f *os.File) bool {
	if f == nil {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
