package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/akademika/feeledger/internal/ledger"
)

type txState int

const (
	txStateFilter txState = iota
	txStateList
	txStateReceipt
)

// txItem wraps a ledger entry to implement list.Item.
type txItem struct {
	tx *ledger.Transaction
}

func (i txItem) Title() string {
	status := lipgloss.NewStyle().Faint(true).Render(fmt.Sprintf("[%s]", i.tx.Status))

	return fmt.Sprintf("%s  %s  %s  %s",
		FormatDate(i.tx.PaidAt), FormatAmount(i.tx.Amount), status, i.tx.Title)
}

func (i txItem) Description() string {
	return fmt.Sprintf("%s  student %s  via %s", i.tx.ID, i.tx.StudentID, i.tx.MethodID)
}

func (i txItem) FilterValue() string {
	return i.tx.StudentID + " " + i.tx.Title
}

type TransactionsModel struct {
	CommonModel
	ledgerService *ledger.Service

	state txState

	studentInput textinput.Model
	list         list.Model

	txs     []*ledger.Transaction
	receipt *ledger.Receipt

	loading bool
	status  string
}

func NewTransactionsModel(ledgerSvc *ledger.Service) TransactionsModel {
	ti := textinput.New()
	ti.Placeholder = "blank for all students"
	ti.CharLimit = 32
	ti.Width = 28
	ti.Prompt = "Student: "
	ti.Focus()

	l := list.New([]list.Item{}, txItemDelegate{}, 0, 0)
	l.Title = "Ledger"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(true)

	return TransactionsModel{
		ledgerService: ledgerSvc,
		studentInput:  ti,
		list:          l,
	}
}

func (m TransactionsModel) Title() string { return "Browse Transactions" }

func (m TransactionsModel) ShortHelp() string {
	switch m.state {
	case txStateFilter:
		return "Esc: back | Enter: load"
	case txStateList:
		return "Esc: back | Enter: receipt | /: filter"
	case txStateReceipt:
		return "Esc/Enter: back to list"
	}

	return ""
}

func (m TransactionsModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadTxsMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.txs = msg.txs
		m.refreshListItems()

		if len(msg.txs) == 0 {
			m.status = "No transactions found."
		}

		return m, nil

	case receiptMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.receipt = msg.receipt
		m.state = txStateReceipt

		return m, nil

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil
	}

	switch m.state {
	case txStateFilter:
		return m.updateFilter(msg)
	case txStateList:
		return m.updateList(msg)
	case txStateReceipt:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			if keyMsg.Type == tea.KeyEsc || keyMsg.Type == tea.KeyEnter {
				m.state = txStateList
				m.receipt = nil
			}
		}

		return m, nil
	}

	return m, nil
}

func (m TransactionsModel) updateFilter(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			return m, Back
		case tea.KeyEnter:
			m.loading = true
			m.state = txStateList
			m.status = ""

			return m, m.loadTxsCmd(strings.TrimSpace(m.studentInput.Value()))
		}
	}

	var cmd tea.Cmd
	m.studentInput, cmd = m.studentInput.Update(msg)

	return m, cmd
}

func (m TransactionsModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			if m.list.FilterState() == list.Filtering {
				break // let the list handle it (close filter)
			}

			m.state = txStateFilter
			m.studentInput.Focus()

			return m, textinput.Blink
		case tea.KeyEnter:
			if m.list.FilterState() == list.Filtering {
				break // let the list handle it (confirm filter)
			}

			selected, ok := m.list.SelectedItem().(txItem)
			if !ok {
				return m, nil
			}

			m.loading = true

			return m, m.loadReceiptCmd(selected.tx.ID)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m TransactionsModel) View() string {
	switch m.state {
	case txStateFilter:
		return lipgloss.NewStyle().Padding(2).Render(
			"Browse the payment ledger:\n\n" + m.studentInput.View(),
		)

	case txStateList:
		if m.loading {
			return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
		}

		statusLine := ""
		if m.status != "" {
			statusLine = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n"
		}

		return lipgloss.NewStyle().Padding(1).Render(statusLine + m.list.View())

	case txStateReceipt:
		if m.receipt == nil {
			return ""
		}

		return lipgloss.NewStyle().Padding(2).Render(m.receiptView())
	}

	return ""
}

func (m TransactionsModel) receiptView() string {
	r := m.receipt

	body := fmt.Sprintf(
		"Receipt %s\n\nStudent:  %s\nFee:      %s (%s)\nAmount:   %s\nMethod:   %s\nPaid at:  %s",
		r.TransactionID,
		r.StudentID,
		r.Title, r.FeeItemID,
		FormatAmount(r.Amount),
		r.Method,
		FormatDate(r.PaidAt),
	)

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(1, 2).
		Render(body)
}

func (m *TransactionsModel) refreshListItems() {
	items := make([]list.Item, len(m.txs))
	for i, tx := range m.txs {
		items[i] = txItem{tx: tx}
	}

	m.list.SetItems(items)
}

// Messages

type loadTxsMsg struct {
	txs []*ledger.Transaction
	err error
}

func (m TransactionsModel) loadTxsCmd(studentID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		filter := ledger.ListFilter{}
		if studentID != "" {
			filter.StudentID = &studentID
		}

		txs, err := m.ledgerService.List(ctx, filter)

		return loadTxsMsg{txs: txs, err: err}
	}
}

type receiptMsg struct {
	receipt *ledger.Receipt
	err     error
}

func (m TransactionsModel) loadReceiptCmd(transactionID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		receipt, err := m.ledgerService.Receipt(ctx, transactionID)

		return receiptMsg{receipt: receipt, err: err}
	}
}

// txItemDelegate renders items in the list.
type txItemDelegate struct{}

func (d txItemDelegate) Height() int                             { return 2 }
func (d txItemDelegate) Spacing() int                            { return 0 }
func (d txItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d txItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(txItem)
	if !ok {
		return
	}

	title := i.Title()
	if index == m.Index() {
		title = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Render("> " + title)
	}

	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintf(w, "    %s\n", lipgloss.NewStyle().Faint(true).Render(i.Description()))
}
