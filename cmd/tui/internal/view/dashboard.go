package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/akademika/feeledger/internal/ledger"
	"github.com/akademika/feeledger/internal/report"
)

// DashboardModel is a read-only snapshot of collection state: overview
// totals, per-fee and per-method breakdowns, and the latest payments.
type DashboardModel struct {
	CommonModel
	reportService *report.Service

	overview *report.Overview
	feeTypes []*report.FeeTypeStat
	methods  []*report.MethodStat
	recent   []*ledger.Transaction

	loading bool
	status  string
}

func NewDashboardModel(reportSvc *report.Service) DashboardModel {
	return DashboardModel{reportService: reportSvc}
}

func (m DashboardModel) Title() string     { return "Dashboard" }
func (m DashboardModel) ShortHelp() string { return "Esc: back | r: refresh" }

func (m DashboardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.overview = msg.overview
		m.feeTypes = msg.feeTypes
		m.methods = msg.methods
		m.recent = msg.recent
		m.status = ""

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	return m, nil
}

var dashboardBox = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("240")).
	Padding(0, 1)

func (m DashboardModel) View() string {
	if m.loading || (m.overview == nil && m.status == "") {
		return lipgloss.NewStyle().Padding(2).Render("Crunching numbers...")
	}

	if m.overview == nil {
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	}

	overview := dashboardBox.Render(fmt.Sprintf(
		"Students: %d\nBilled:   %s\nPaid:     %s\nUnpaid:   %s\nPending:  %s",
		m.overview.Students,
		FormatAmount(m.overview.TotalBilled),
		FormatAmount(m.overview.TotalPaid),
		FormatAmount(m.overview.TotalUnpaid),
		FormatAmount(m.overview.TotalPending),
	))

	var fees strings.Builder
	fees.WriteString("By fee type\n")

	for _, st := range m.feeTypes {
		fmt.Fprintf(&fees, "%-24s paid %s of %s\n",
			st.Title, FormatAmount(st.TotalPaid), FormatAmount(st.TotalBilled))
	}

	var methods strings.Builder
	methods.WriteString("By payment method\n")

	for _, st := range m.methods {
		fmt.Fprintf(&methods, "%-20s %4d  %s\n",
			st.DisplayName, st.Count, FormatAmount(st.Total))
	}

	var recent strings.Builder
	recent.WriteString("Recent payments\n")

	for _, tx := range m.recent {
		fmt.Fprintf(&recent, "%s  %-12s %-24s %s\n",
			FormatDate(tx.PaidAt), tx.StudentID, tx.Title, FormatAmount(tx.Amount))
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		overview,
		" ",
		dashboardBox.Render(strings.TrimRight(fees.String(), "\n")),
		" ",
		dashboardBox.Render(strings.TrimRight(methods.String(), "\n")),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		top,
		dashboardBox.Render(strings.TrimRight(recent.String(), "\n")),
	)

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

// Messages

type dashboardMsg struct {
	overview *report.Overview
	feeTypes []*report.FeeTypeStat
	methods  []*report.MethodStat
	recent   []*ledger.Transaction
	err      error
}

func (m DashboardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		overview, err := m.reportService.Overview(ctx)
		if err != nil {
			return dashboardMsg{err: err}
		}

		feeTypes, err := m.reportService.FeeTypeBreakdown(ctx)
		if err != nil {
			return dashboardMsg{err: err}
		}

		methods, err := m.reportService.MethodBreakdown(ctx)
		if err != nil {
			return dashboardMsg{err: err}
		}

		recent, err := m.reportService.RecentTransactions(ctx, 0)
		if err != nil {
			return dashboardMsg{err: err}
		}

		return dashboardMsg{
			overview: overview,
			feeTypes: feeTypes,
			methods:  methods,
			recent:   recent,
		}
	}
}
