package controller

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	m "gooze.dev/pkg/regroup/internal/model"
)

var (
	patchedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	missingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	conflictStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// SimpleUI implements UI using the cobra command's output streams.
type SimpleUI struct {
	cmd   *cobra.Command
	color bool
	in    *bufio.Reader
	mu    sync.Mutex
}

// NewSimpleUI creates a new SimpleUI. Status labels are coloured when color
// is set.
func NewSimpleUI(cmd *cobra.Command, color bool) *SimpleUI {
	return &SimpleUI{cmd: cmd, color: color}
}

// DisplayFileReport prints one row per entry that did not end up unchanged.
func (s *SimpleUI) DisplayFileReport(ctx context.Context, report m.FileReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.printf("\n%s\n%s", report.Path, s.renderReportTable(report))

	return nil
}

func (s *SimpleUI) renderReportTable(report m.FileReport) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"ID", "Status", "Before", "After"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	for _, e := range report.Entries {
		if e.Status == m.Unchanged {
			continue
		}

		after := e.After.String()
		if e.Status == m.Missing {
			after = ""
		}

		table.Append([]string{e.ID, s.formatStatus(e), e.Before.String(), after})
	}

	table.SetFooter([]string{
		fmt.Sprintf("%d entries", len(report.Entries)),
		fmt.Sprintf("%d patched", report.Count(m.Patched)),
		fmt.Sprintf("%d unchanged", report.Count(m.Unchanged)),
		fmt.Sprintf("%d missing", report.Count(m.Missing)),
	})

	table.Render()

	return tableBuffer.String()
}

func (s *SimpleUI) formatStatus(e m.EntryReport) string {
	label := e.Status.String()
	if len(e.Duplicates) > 0 {
		label += " (duplicate " + strings.Join(e.Duplicates, ", ") + ")"
	}

	if !s.color {
		return label
	}

	switch e.Status {
	case m.Patched:
		return patchedStyle.Render(label)
	case m.Missing:
		return missingStyle.Render(label)
	case m.Conflict:
		return conflictStyle.Render(label)
	default:
		return label
	}
}

// DisplayDiff prints a unified diff between the original and patched buffers.
func (s *SimpleUI) DisplayDiff(ctx context.Context, report m.FileReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !report.Changed() {
		s.printf("No changes for %s\n", report.Path)
		return nil
	}

	diff, err := unifiedDiff(report)
	if err != nil {
		return fmt.Errorf("failed to diff %s: %w", report.Path, err)
	}

	s.printf("%s", diff)

	return nil
}

func unifiedDiff(report m.FileReport) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(report.Original),
		B:        difflib.SplitLines(report.Updated),
		FromFile: "a/" + string(report.Path),
		ToFile:   "b/" + string(report.Path),
		Context:  3,
	})
}

// DisplayEntries lists every entry of a document next to its mapped
// classification.
func (s *SimpleUI) DisplayEntries(ctx context.Context, path m.Path, entries []m.Entry, mapping m.MappingTable) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(entries) == 0 {
		s.printf("No entries found in %s\n", path)
		return nil
	}

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"ID", "Current", "Mapped", "Drift"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	drifted := 0

	for _, e := range entries {
		mapped, ok := mapping.Lookup(e.ID)

		target := ""
		drift := ""

		if ok {
			if mapped.SubGroup == "" {
				mapped.SubGroup = e.Classification.SubGroup
			}

			target = mapped.String()

			if mapped != e.Classification {
				drift = "yes"
				drifted++
			}
		}

		table.Append([]string{e.ID, e.Classification.String(), target, drift})
	}

	table.SetFooter([]string{fmt.Sprintf("%d entries", len(entries)), "", "", fmt.Sprintf("%d drifted", drifted)})
	table.Render()

	s.printf("%s\n%s", path, tableBuffer.String())

	return nil
}

// DisplayCompletion prints the single confirmation line for a file.
func (s *SimpleUI) DisplayCompletion(ctx context.Context, report m.FileReport) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !report.Written {
		s.printf("Already up to date: %s\n", report.Path)
		return
	}

	s.printf("Updated %s: %d patched, %d unchanged, %d missing\n",
		report.Path, report.Count(m.Patched), report.Count(m.Unchanged), report.Count(m.Missing))
}

// Confirm asks on the command's input stream; anything but y/yes declines.
func (s *SimpleUI) Confirm(ctx context.Context, report m.FileReport) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.printf("Apply %d change(s) to %s? [y/N] ", report.Count(m.Patched), report.Path)

	if s.in == nil {
		s.in = bufio.NewReader(s.cmd.InOrStdin())
	}

	line, err := s.in.ReadString('\n')
	if err != nil && line == "" {
		return false, nil
	}

	answer := strings.ToLower(strings.TrimSpace(line))

	return answer == "y" || answer == "yes", nil
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
