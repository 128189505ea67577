package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "gooze.dev/pkg/regroup/internal/model"
)

// maxPreviewRows caps how many pending changes the confirmation lists.
const maxPreviewRows = 12

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	arrowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// TUI is the terminal UI: plain reporting plus an interactive Bubble Tea
// confirmation prompt.
type TUI struct {
	*SimpleUI
}

// NewTUI creates a new TUI on top of simple.
func NewTUI(simple *SimpleUI) *TUI {
	return &TUI{SimpleUI: simple}
}

// Confirm runs the confirmation prompt for one file.
func (t *TUI) Confirm(ctx context.Context, report m.FileReport) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	program := tea.NewProgram(
		newConfirmModel(report),
		tea.WithContext(ctx),
		tea.WithInput(t.cmd.InOrStdin()),
		tea.WithOutput(t.cmd.OutOrStdout()),
	)

	final, err := program.Run()
	if err != nil {
		return false, fmt.Errorf("confirmation prompt failed: %w", err)
	}

	model, ok := final.(confirmModel)

	return ok && model.confirmed, nil
}

type confirmKeyMap struct {
	Yes key.Binding
	No  key.Binding
}

func (k confirmKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Yes, k.No}
}

func (k confirmKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func defaultConfirmKeys() confirmKeyMap {
	return confirmKeyMap{
		Yes: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "apply")),
		No:  key.NewBinding(key.WithKeys("n", "N", "esc", "q", "ctrl+c", "enter"), key.WithHelp("n/esc", "skip")),
	}
}

// confirmModel asks whether to write the pending changes of one file.
type confirmModel struct {
	report    m.FileReport
	keys      confirmKeyMap
	help      help.Model
	confirmed bool
	done      bool
}

func newConfirmModel(report m.FileReport) confirmModel {
	return confirmModel{
		report: report,
		keys:   defaultConfirmKeys(),
		help:   help.New(),
	}
}

func (cm confirmModel) Init() tea.Cmd {
	return nil
}

func (cm confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return cm, nil
	}

	switch {
	case key.Matches(keyMsg, cm.keys.Yes):
		cm.confirmed = true
		cm.done = true

		return cm, tea.Quit
	case key.Matches(keyMsg, cm.keys.No):
		cm.done = true
		return cm, tea.Quit
	}

	return cm, nil
}

func (cm confirmModel) View() string {
	if cm.done {
		verdict := "skipped"
		if cm.confirmed {
			verdict = "applying"
		}

		return fmt.Sprintf("%s: %s\n", cm.report.Path, verdict)
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("%s: %d pending change(s)", cm.report.Path, cm.report.Count(m.Patched))))
	b.WriteString("\n\n")

	shown := 0

	for _, e := range cm.report.Entries {
		if e.Status != m.Patched {
			continue
		}

		if shown == maxPreviewRows {
			b.WriteString(mutedStyle.Render(fmt.Sprintf("  … and %d more", cm.report.Count(m.Patched)-shown)))
			b.WriteString("\n")

			break
		}

		fmt.Fprintf(&b, "  %s  %s %s %s\n", e.ID, e.Before.String(), arrowStyle.Render("→"), e.After.String())
		shown++
	}

	if missing := cm.report.Count(m.Missing); missing > 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  %d mapped identifier(s) not found", missing)))
		b.WriteString("\n")
	}

	b.WriteString("\nApply these changes? ")
	b.WriteString(cm.help.View(cm.keys))
	b.WriteString("\n")

	return b.String()
}
