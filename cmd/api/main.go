package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/akademika/feeledger/internal/catalog"
	catalogStore "github.com/akademika/feeledger/internal/catalog/store"
	"github.com/akademika/feeledger/internal/config"
	"github.com/akademika/feeledger/internal/database"
	feeHttp "github.com/akademika/feeledger/internal/http"
	catalogHandler "github.com/akademika/feeledger/internal/http/catalog"
	ledgerHandler "github.com/akademika/feeledger/internal/http/ledger"
	reportHandler "github.com/akademika/feeledger/internal/http/report"
	studentHandler "github.com/akademika/feeledger/internal/http/student"
	"github.com/akademika/feeledger/internal/ledger"
	ledgerStore "github.com/akademika/feeledger/internal/ledger/store"
	"github.com/akademika/feeledger/internal/obligation"
	obligationStore "github.com/akademika/feeledger/internal/obligation/store"
	"github.com/akademika/feeledger/internal/reconcile"
	reconcileStore "github.com/akademika/feeledger/internal/reconcile/store"
	"github.com/akademika/feeledger/internal/report"
	reportStore "github.com/akademika/feeledger/internal/report/store"
)

type logNotifier struct{}

// ObligationPaid is the default notification hook. A real deployment swaps
// this for the campus notification service.
func (logNotifier) ObligationPaid(_ context.Context, e reconcile.PaidEvent) {
	slog.Info("obligation paid",
		"student_id", e.StudentID,
		"fee_item_id", e.FeeItemID,
		"amount", e.Amount,
		"transaction_id", e.TransactionID,
	)
}

func main() {
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
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		slog.Error("failed to apply schema", "error", err)
		os.Exit(1)
	}

	var (
		catalogService    = catalog.NewService(catalogStore.New(db))
		obligationService = obligation.NewService(obligationStore.New(db))
		ledgerService     = ledger.NewService(ledgerStore.New(db))
		reconcileService  = reconcile.NewService(reconcileStore.New(db),
			reconcile.WithNotifier(logNotifier{}),
			reconcile.WithLockTimeout(cfg.Reconcile.LockTimeout),
		)
		reportService = report.NewService(reportStore.New(db), ledgerService)
	)

	var (
		catalogH = catalogHandler.NewHandler(catalogService)
		studentH = studentHandler.NewHandler(obligationService, reconcileService)
		ledgerH  = ledgerHandler.NewHandler(ledgerService)
		reportH  = reportHandler.NewHandler(reportService)
	)

	router := feeHttp.New(cfg.Auth.Secret, catalogH, studentH, ledgerH, reportH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
