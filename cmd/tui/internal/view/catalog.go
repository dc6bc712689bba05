package view

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/akademika/feeledger/internal/catalog"
)

type catalogState int

const (
	catalogStateList catalogState = iota
	catalogStateForm
)

// CatalogModel maintains the fee catalog: list, create, edit, delete.
type CatalogModel struct {
	CommonModel
	catalogService *catalog.Service

	state catalogState
	table table.Model
	form  *huh.Form

	items   []*catalog.FeeItem
	editing *catalog.FeeItem

	loading bool
	status  string

	// Form field bindings
	formID     string
	formTitle  string
	formDesc   string
	formAmount string
}

func NewCatalogModel(catalogSvc *catalog.Service) CatalogModel {
	columns := []table.Column{
		{Title: "ID", Width: 16},
		{Title: "Title", Width: 28},
		{Title: "Amount", Width: 16},
		{Title: "Description", Width: 32},
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

	return CatalogModel{
		catalogService: catalogSvc,
		table:          t,
	}
}

func (m CatalogModel) Title() string { return "Fee Catalog" }

func (m CatalogModel) ShortHelp() string {
	switch m.state {
	case catalogStateList:
		return "Esc: back | n: new | Enter: edit | d: delete"
	case catalogStateForm:
		return "Esc: cancel | Enter/Tab: navigate form"
	}

	return ""
}

func (m CatalogModel) Init() tea.Cmd {
	return m.loadItemsCmd()
}

func (m CatalogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case feeItemsMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.items = msg.items
		m.refreshTable()

		return m, nil

	case feeItemSavedMsg:
		m.state = catalogStateList
		m.form = nil

		if msg.err != nil {
			m.status = saveErrorStatus(msg.err)
			return m, nil
		}

		m.status = "Saved."

		return m, m.loadItemsCmd()

	case feeItemDeletedMsg:
		if msg.err != nil {
			m.status = saveErrorStatus(msg.err)
			return m, nil
		}

		m.status = "Deleted."

		return m, m.loadItemsCmd()
	}

	switch m.state {
	case catalogStateList:
		return m.updateList(msg)
	case catalogStateForm:
		return m.updateForm(msg)
	}

	return m, nil
}

func saveErrorStatus(err error) string {
	switch {
	case errors.Is(err, catalog.ErrDuplicateID):
		return "A fee item with that id already exists."
	case errors.Is(err, catalog.ErrReferenced):
		return "Cannot delete: obligations reference this fee item."
	case errors.Is(err, catalog.ErrInvalidAmount):
		return "Amount must be a positive number of rupiah."
	case errors.Is(err, catalog.ErrInvalidInput):
		return "Id and title are required."
	case errors.Is(err, catalog.ErrNotFound):
		return "Fee item not found."
	}

	return fmt.Sprintf("Error: %v", err)
}

func (m CatalogModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "n":
			return m.startForm(nil)
		case "enter":
			if item := m.selectedItem(); item != nil {
				return m.startForm(item)
			}

			return m, nil
		case "d":
			if item := m.selectedItem(); item != nil {
				return m, m.deleteCmd(item.ID)
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m CatalogModel) selectedItem() *catalog.FeeItem {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.items) {
		return nil
	}

	return m.items[idx]
}

func (m CatalogModel) startForm(item *catalog.FeeItem) (tea.Model, tea.Cmd) {
	m.editing = item

	m.formID = ""
	m.formTitle = ""
	m.formDesc = ""
	m.formAmount = ""

	if item != nil {
		m.formID = item.ID
		m.formTitle = item.Title
		m.formDesc = item.Description
		m.formAmount = strconv.FormatInt(item.Amount, 10)
	}

	fields := []huh.Field{}

	// The id is the natural key; it is chosen once at creation.
	if item == nil {
		fields = append(fields, huh.NewInput().
			Key("id").
			Title("ID").
			Placeholder("semester_fee").
			Value(&m.formID).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("id cannot be empty")
				}
				return nil
			}),
		)
	}

	fields = append(fields,
		huh.NewInput().
			Key("title").
			Title("Title").
			Value(&m.formTitle).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("title cannot be empty")
				}
				return nil
			}),

		huh.NewInput().
			Key("description").
			Title("Description (optional)").
			Value(&m.formDesc),

		huh.NewInput().
			Key("amount").
			Title("Amount (Rp)").
			Value(&m.formAmount).
			Validate(func(s string) error {
				n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
				if err != nil || n <= 0 {
					return fmt.Errorf("amount must be a positive integer")
				}
				return nil
			}),
	)

	m.form = huh.NewForm(huh.NewGroup(fields...)).WithWidth(50).WithShowHelp(false)
	m.state = catalogStateForm

	return m, m.form.Init()
}

func (m CatalogModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = catalogStateList
			m.form = nil

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m *CatalogModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.items))

	for _, it := range m.items {
		rows = append(rows, table.Row{
			it.ID,
			it.Title,
			FormatAmount(it.Amount),
			it.Description,
		})
	}

	m.table.SetRows(rows)
}

func (m CatalogModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading fee catalog...")
	}

	if m.state == catalogStateForm {
		if m.form == nil {
			return ""
		}

		header := "New Fee Item"
		if m.editing != nil {
			header = fmt.Sprintf("Edit Fee Item %s", m.editing.ID)
		}

		return lipgloss.NewStyle().Padding(1).Render(header + "\n\n" + m.form.View())
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	if m.status != "" {
		tableView = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + tableView
	}

	return lipgloss.NewStyle().Padding(1).Render(tableView)
}

// Messages

type feeItemsMsg struct {
	items []*catalog.FeeItem
	err   error
}

func (m CatalogModel) loadItemsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		items, err := m.catalogService.List(ctx)

		return feeItemsMsg{items: items, err: err}
	}
}

type feeItemSavedMsg struct {
	err error
}

func (m CatalogModel) saveCmd() tea.Cmd {
	editing := m.editing
	id := strings.TrimSpace(m.formID)
	title := m.formTitle
	desc := m.formDesc
	amount, _ := strconv.ParseInt(strings.TrimSpace(m.formAmount), 10, 64)
	svc := m.catalogService

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if editing == nil {
			_, err := svc.Create(ctx, catalog.CreateParams{
				ID:          id,
				Title:       title,
				Description: desc,
				Amount:      amount,
			})

			return feeItemSavedMsg{err: err}
		}

		_, err := svc.Update(ctx, editing.ID, catalog.UpdateParams{
			Title:       &title,
			Description: &desc,
			Amount:      &amount,
		})

		return feeItemSavedMsg{err: err}
	}
}

type feeItemDeletedMsg struct {
	err error
}

func (m CatalogModel) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return feeItemDeletedMsg{err: m.catalogService.Delete(ctx, id)}
	}
}
