package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/akademika/feeledger/cmd/tui/internal/view"
	"github.com/akademika/feeledger/internal/catalog"
	catalogStore "github.com/akademika/feeledger/internal/catalog/store"
	"github.com/akademika/feeledger/internal/config"
	"github.com/akademika/feeledger/internal/database"
	"github.com/akademika/feeledger/internal/ledger"
	ledgerStore "github.com/akademika/feeledger/internal/ledger/store"
	"github.com/akademika/feeledger/internal/reconcile"
	reconcileStore "github.com/akademika/feeledger/internal/reconcile/store"
	"github.com/akademika/feeledger/internal/report"
	reportStore "github.com/akademika/feeledger/internal/report/store"
)

type model struct {
	catalogService   *catalog.Service
	ledgerService    *ledger.Service
	reconcileService *reconcile.Service
	reportService    *report.Service

	currentView View

	catalogView      view.CatalogModel
	reconcileView    view.ReconcileModel
	transactionsView view.TransactionsModel
	dashboardView    view.DashboardModel
}

type View int

const (
	ViewMenu         View = 0
	ViewCatalog      View = 1
	ViewReconcile    View = 2
	ViewTransactions View = 3
	ViewDashboard    View = 4
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.DB)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	catalogSvc := catalog.NewService(catalogStore.New(db))
	ledgerSvc := ledger.NewService(ledgerStore.New(db))
	reconcileSvc := reconcile.NewService(reconcileStore.New(db),
		reconcile.WithLockTimeout(cfg.Reconcile.LockTimeout),
	)
	reportSvc := report.NewService(reportStore.New(db), ledgerSvc)

	return model{
		catalogService:   catalogSvc,
		ledgerService:    ledgerSvc,
		reconcileService: reconcileSvc,
		reportService:    reportSvc,
		currentView:      ViewMenu,
		catalogView:      view.NewCatalogModel(catalogSvc),
		reconcileView:    view.NewReconcileModel(reconcileSvc),
		transactionsView: view.NewTransactionsModel(ledgerSvc),
		dashboardView:    view.NewDashboardModel(reportSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewCatalog
				m.catalogView = view.NewCatalogModel(m.catalogService)

				return m, m.catalogView.Init()
			case "2":
				m.currentView = ViewReconcile
				m.reconcileView = view.NewReconcileModel(m.reconcileService)

				return m, m.reconcileView.Init()
			case "3":
				m.currentView = ViewTransactions
				m.transactionsView = view.NewTransactionsModel(m.ledgerService)

				return m, m.transactionsView.Init()
			case "4":
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(m.reportService)

				return m, m.dashboardView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewCatalog:
		var newModel tea.Model
		newModel, cmd = m.catalogView.Update(msg)
		m.catalogView = newModel.(view.CatalogModel)
	case ViewReconcile:
		var newModel tea.Model
		newModel, cmd = m.reconcileView.Update(msg)
		m.reconcileView = newModel.(view.ReconcileModel)
	case ViewTransactions:
		var newModel tea.Model
		newModel, cmd = m.transactionsView.Update(msg)
		m.transactionsView = newModel.(view.TransactionsModel)
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Fee Ledger Admin\n\n" +
				"1. Fee Catalog\n" +
				"2. Reconcile Student Payments\n" +
				"3. Browse Transactions\n" +
				"4. Dashboard\n\n" +
				"q. Quit",
		)
	case ViewCatalog:
		return m.catalogView.View()
	case ViewReconcile:
		return m.reconcileView.View()
	case ViewTransactions:
		return m.transactionsView.View()
	case ViewDashboard:
		return m.dashboardView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
