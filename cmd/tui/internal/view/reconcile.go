package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/akademika/feeledger/internal/obligation"
	"github.com/akademika/feeledger/internal/reconcile"
)

type reconcileState int

const (
	reconcileStateStudent reconcileState = iota
	reconcileStateEditing
	reconcileStateResult
)

// ReconcileModel is the payment-management screen: load a student's
// obligations, toggle statuses locally against the held snapshot, then apply
// the diff in one call and show the per-pair outcomes.
type ReconcileModel struct {
	CommonModel
	reconciler *reconcile.Service

	state reconcileState

	studentInput textinput.Model
	table        table.Model

	snapshot *reconcile.Snapshot
	edited   []obligation.Status
	result   *reconcile.Result

	loading bool
	status  string
}

func NewReconcileModel(reconciler *reconcile.Service) ReconcileModel {
	ti := textinput.New()
	ti.Placeholder = "Student ID"
	ti.CharLimit = 32
	ti.Width = 24
	ti.Prompt = "Student: "
	ti.Focus()

	columns := []table.Column{
		{Title: "Fee Item", Width: 16},
		{Title: "Title", Width: 28},
		{Title: "Amount", Width: 16},
		{Title: "Status", Width: 10},
		{Title: "Edited", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return ReconcileModel{
		reconciler:   reconciler,
		studentInput: ti,
		table:        t,
	}
}

func (m ReconcileModel) Title() string { return "Reconcile Student Payments" }

func (m ReconcileModel) ShortHelp() string {
	switch m.state {
	case reconcileStateStudent:
		return "Esc: back | Enter: load"
	case reconcileStateEditing:
		return "Esc: back | Space: toggle paid | p: pending | a: apply | r: reload"
	case reconcileStateResult:
		return "Esc: back | Enter: continue editing"
	}

	return ""
}

func (m ReconcileModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m ReconcileModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.snapshot = msg.snapshot
		m.edited = make([]obligation.Status, len(msg.snapshot.Items))

		for i, it := range msg.snapshot.Items {
			m.edited[i] = it.Status
		}

		m.state = reconcileStateEditing
		m.status = fmt.Sprintf("Loaded %d obligations", len(msg.snapshot.Items))
		m.refreshTable()

		return m, nil

	case applyResultMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Apply failed: %v", msg.err)
			return m, nil
		}

		m.result = msg.result
		m.state = reconcileStateResult

		return m, nil

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}

		switch m.state {
		case reconcileStateStudent:
			return m.updateStudentInput(msg)
		case reconcileStateEditing:
			return m.updateEditing(msg)
		case reconcileStateResult:
			switch msg.Type {
			case tea.KeyEsc:
				return m, Back
			case tea.KeyEnter:
				// Reload so the fresh snapshot becomes the next
				// session's original.
				m.loading = true
				m.state = reconcileStateEditing

				return m, m.loadSnapshotCmd(m.snapshot.StudentID)
			}

			return m, nil
		}
	}

	if m.state == reconcileStateStudent {
		var cmd tea.Cmd
		m.studentInput, cmd = m.studentInput.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m ReconcileModel) updateStudentInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m, Back
	case tea.KeyEnter:
		studentID := strings.TrimSpace(m.studentInput.Value())
		if studentID == "" {
			m.status = "Enter a student id"
			return m, nil
		}

		m.loading = true

		return m, m.loadSnapshotCmd(studentID)
	}

	var cmd tea.Cmd
	m.studentInput, cmd = m.studentInput.Update(msg)

	return m, cmd
}

func (m ReconcileModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = reconcileStateStudent
		m.studentInput.Focus()

		return m, textinput.Blink
	case " ":
		m.toggleCursor()
		return m, nil
	case "p":
		m.markCursorPending()
		return m, nil
	case "r":
		m.loading = true
		return m, m.loadSnapshotCmd(m.snapshot.StudentID)
	case "a":
		edits := m.pendingEdits()
		if len(edits) == 0 {
			m.status = "No changes to apply"
			return m, nil
		}

		m.loading = true

		return m, m.applyCmd(edits)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

// toggleCursor flips the selected row between paid and unpaid, the same
// gesture the web admin screen uses.
func (m *ReconcileModel) toggleCursor() {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.edited) {
		return
	}

	if m.edited[idx] == obligation.StatusPaid {
		m.edited[idx] = obligation.StatusUnpaid
	} else {
		m.edited[idx] = obligation.StatusPaid
	}

	m.refreshTable()
}

func (m *ReconcileModel) markCursorPending() {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.edited) {
		return
	}

	m.edited[idx] = obligation.StatusPending
	m.refreshTable()
}

func (m ReconcileModel) pendingEdits() []reconcile.Entry {
	var edits []reconcile.Entry

	for i, it := range m.snapshot.Items {
		if m.edited[i] == it.Status {
			continue
		}

		edits = append(edits, reconcile.Entry{
			FeeItemID: it.FeeItemID,
			Status:    m.edited[i],
		})
	}

	return edits
}

func (m *ReconcileModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.snapshot.Items))

	for i, it := range m.snapshot.Items {
		edited := string(m.edited[i])
		if m.edited[i] == it.Status {
			edited = "-"
		}

		rows = append(rows, table.Row{
			it.FeeItemID,
			it.Title,
			FormatAmount(it.Amount),
			string(it.Status),
			edited,
		})
	}

	m.table.SetRows(rows)
}

func (m ReconcileModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Working...")
	}

	switch m.state {
	case reconcileStateStudent:
		content := fmt.Sprintf("Load a student's obligations:\n\n%s", m.studentInput.View())
		if m.status != "" {
			content += "\n\n" + lipgloss.NewStyle().Faint(true).Render(m.status)
		}

		return lipgloss.NewStyle().Padding(2).Render(content)

	case reconcileStateResult:
		var b strings.Builder

		fmt.Fprintf(&b, "Applied %d, failed %d:\n\n", m.result.Applied(), m.result.Failed())

		for _, p := range m.result.Pairs {
			line := fmt.Sprintf("%-16s %s", p.FeeItemID, p.Outcome)
			if p.Err != nil {
				line += fmt.Sprintf("  (%v)", p.Err)
			}

			b.WriteString(line + "\n")
		}

		b.WriteString("\n(Enter to continue, Esc to back)")

		return lipgloss.NewStyle().Padding(2).Render(b.String())
	}

	header := fmt.Sprintf("Student %s  (snapshot %s)",
		m.snapshot.StudentID, FormatDate(m.snapshot.TakenAt))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

// Messages

type snapshotLoadedMsg struct {
	snapshot *reconcile.Snapshot
	err      error
}

func (m ReconcileModel) loadSnapshotCmd(studentID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		snap, err := m.reconciler.LoadSnapshot(ctx, studentID)

		return snapshotLoadedMsg{snapshot: snap, err: err}
	}
}

type applyResultMsg struct {
	result *reconcile.Result
	err    error
}

func (m ReconcileModel) applyCmd(edits []reconcile.Entry) tea.Cmd {
	snapshot := m.snapshot

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		result, err := m.reconciler.ApplyChanges(ctx, snapshot.StudentID, snapshot, edits)

		return applyResultMsg{result: result, err: err}
	}
}
